// Package config reads the decision tree run settings from WINEQ_-prefixed
// environment variables.
package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"

	"github.com/YuminosukeSato/winequality/dataset"
	"github.com/YuminosukeSato/winequality/pipeline"
	"github.com/YuminosukeSato/winequality/pkg/errors"
)

// Prefix is prepended to every variable name.
const Prefix = "WINEQ_"

// Config holds the settings of a command invocation.
type Config struct {
	Seed        uint64  `env:"SEED, default=42"`
	SplitRatio  float64 `env:"SPLIT_RATIO, default=0.8"`
	Scaler      string  `env:"SCALER, default=standard"`
	RunScaled   bool    `env:"RUN_SCALED, default=true"`
	RunUnscaled bool    `env:"RUN_UNSCALED, default=true"`
	ReportPath  string  `env:"REPORT_PATH, default=decision_tree_example.tex"`
	LogLevel    string  `env:"LOG_LEVEL, default=info"`

	// Data is a CSV or gzip CSV path. Empty means the embedded wine data.
	Data string `env:"DATA"`
}

// Load fills a Config from l. A nil lookuper reads the process environment.
func Load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	if l == nil {
		l = envconfig.OsLookuper()
	}
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper(Prefix, l),
	}); err != nil {
		return nil, errors.Wrap(err, "load environment")
	}
	return &cfg, nil
}

// Source returns the data source selected by Data.
func (c *Config) Source() dataset.DataSource {
	if c.Data == "" {
		return dataset.Embedded()
	}
	return dataset.FileSource(c.Data)
}

// PipelineConfig returns the pipeline configuration of the scaled or the
// unscaled run.
func (c *Config) PipelineConfig(scaled bool) pipeline.Config {
	pc := pipeline.DefaultConfig()
	pc.Seed = c.Seed
	pc.SplitRatio = c.SplitRatio
	pc.ApplyScaling = scaled
	pc.Scaler = c.Scaler
	pc.ReportPath = c.ReportPath
	return pc
}

// Runs lists the scaling modes to execute, scaled first.
func (c *Config) Runs() []bool {
	var runs []bool
	if c.RunScaled {
		runs = append(runs, true)
	}
	if c.RunUnscaled {
		runs = append(runs, false)
	}
	return runs
}
