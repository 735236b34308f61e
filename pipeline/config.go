package pipeline

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/winequality/pkg/errors"
	"github.com/YuminosukeSato/winequality/preprocessing"
	"github.com/YuminosukeSato/winequality/report"
)

// Defaults for a wine quality run.
const (
	DefaultSeed       uint64  = 42
	DefaultSplitRatio float64 = 0.8

	// defaultMinImpurityDecrease keeps zero-gain splits out of the tree.
	defaultMinImpurityDecrease = 1e-5
)

// ModelSpec names one model of the comparison.
type ModelSpec struct {
	Name   string
	Params Hyperparameters
}

// DefaultModels is the fixed Gini versus Entropy comparison.
func DefaultModels() []ModelSpec {
	return []ModelSpec{
		{
			Name: "Gini",
			Params: Hyperparameters{
				Criterion:           Gini,
				MaxDepth:            100,
				MinSamplesSplit:     2,
				MinSamplesLeaf:      1,
				MinImpurityDecrease: defaultMinImpurityDecrease,
			},
		},
		{
			Name: "Entropy",
			Params: Hyperparameters{
				Criterion:           Entropy,
				MaxDepth:            100,
				MinSamplesSplit:     10,
				MinSamplesLeaf:      10,
				MinImpurityDecrease: defaultMinImpurityDecrease,
			},
		},
	}
}

// Config describes one pipeline run.
type Config struct {
	Seed         uint64
	SplitRatio   float64
	ApplyScaling bool
	Scaler       string // preprocessing.ScalerStandard or preprocessing.ScalerMinMax
	Models       []ModelSpec

	// ReportPath is where the report model is exported. Empty disables the report.
	ReportPath  string
	ReportModel string
}

// DefaultConfig returns the configuration of the scaled run.
func DefaultConfig() Config {
	return Config{
		Seed:         DefaultSeed,
		SplitRatio:   DefaultSplitRatio,
		ApplyScaling: true,
		Scaler:       preprocessing.ScalerStandard,
		Models:       DefaultModels(),
		ReportPath:   report.DefaultPath,
		ReportModel:  "Gini",
	}
}

// Validate checks the configuration before any data is read.
func (c Config) Validate() error {
	if math.IsNaN(c.SplitRatio) || c.SplitRatio <= 0 || c.SplitRatio >= 1 {
		return errors.NewInvalidRatioError(c.SplitRatio)
	}
	if c.ApplyScaling {
		if _, err := preprocessing.NewScaler(c.Scaler); err != nil {
			return err
		}
	}
	if len(c.Models) == 0 {
		return errors.NewValidationError("models", "at least one model is required", 0)
	}

	seen := make(map[string]struct{}, len(c.Models))
	for _, m := range c.Models {
		if m.Name == "" {
			return errors.NewValidationError("models", "model name must not be empty", m.Name)
		}
		if _, dup := seen[m.Name]; dup {
			return errors.NewValidationError("models", fmt.Sprintf("duplicate model name %q", m.Name), m.Name)
		}
		seen[m.Name] = struct{}{}
	}

	if c.ReportPath != "" {
		if _, ok := seen[c.ReportModel]; !ok {
			return errors.NewValidationError("report_model", "must name a configured model", c.ReportModel)
		}
	}
	return nil
}
