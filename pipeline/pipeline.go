// Package pipeline runs the wine quality comparison: load, split, optionally
// scale, then fit and evaluate each configured decision tree and export one
// of them as a TikZ report.
package pipeline

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/winequality/dataset"
	"github.com/YuminosukeSato/winequality/metrics"
	"github.com/YuminosukeSato/winequality/pkg/errors"
	"github.com/YuminosukeSato/winequality/pkg/log"
	"github.com/YuminosukeSato/winequality/preprocessing"
	"github.com/YuminosukeSato/winequality/report"
	"github.com/YuminosukeSato/winequality/sklearn/tree"
)

// Pipeline is a configured run. It holds no state between runs.
type Pipeline struct {
	cfg     Config
	source  dataset.DataSource
	loader  Loader
	backend Backend
	out     io.Writer
	logger  log.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSource sets the data source. The default is the embedded wine data.
func WithSource(src dataset.DataSource) Option {
	return func(p *Pipeline) { p.source = src }
}

// Loader turns raw source bytes into a labelled dataset.
type Loader func(src dataset.DataSource) (*dataset.Dataset, error)

// WithLoader replaces the wine quality loader, e.g. with dataset.LoadTable
// for other label layouts.
func WithLoader(l Loader) Option {
	return func(p *Pipeline) { p.loader = l }
}

// WithBackend sets the classifier backend. The default is TreeBackend.
func WithBackend(b Backend) Option {
	return func(p *Pipeline) { p.backend = b }
}

// WithOutput sets where the console report goes. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) { p.out = w }
}

// WithLogger sets the structured logger. The default is log.GetLogger().
func WithLogger(l log.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New validates cfg and returns a pipeline.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg:     cfg,
		source:  dataset.Embedded(),
		loader:  dataset.WineQuality,
		backend: TreeBackend{},
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.GetLogger()
	}
	return p, nil
}

// ModelResult is the evaluation of one trained model on the test partition.
type ModelResult struct {
	Name       string
	Criterion  Criterion
	Classifier Classifier
	Confusion  *metrics.ConfusionMatrix
	Accuracy   float64
	Features   []int
}

// Result summarizes a run.
type Result struct {
	TrainSamples int
	TestSamples  int
	Scaled       bool
	FeatureNames []string
	Models       []ModelResult
	ReportPath   string // empty when no report was written
}

// Model returns the result for the named model.
func (r *Result) Model(name string) (ModelResult, bool) {
	for _, m := range r.Models {
		if m.Name == name {
			return m, true
		}
	}
	return ModelResult{}, false
}

// Run executes the pipeline. The first failing stage aborts the run.
func (p *Pipeline) Run() (*Result, error) {
	logger := p.logger.With(log.ComponentKey, "pipeline", log.ScaledKey, p.cfg.ApplyScaling)
	start := time.Now()

	ds, err := p.loader(p.source)
	if err != nil {
		return nil, errors.Wrap(err, "load")
	}
	logger.Info("Dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.SourceKey, p.source.Name(),
		log.SamplesKey, ds.NSamples(),
		log.FeaturesKey, ds.NFeatures(),
	)
	if dataset.IsEmbedded(p.source) && ds.NSamples() != dataset.WineQualityRedRows {
		logger.Warn("Embedded data is an excerpt, accuracies will differ from the full table",
			log.SamplesKey, ds.NSamples(),
			log.ExpectedSamplesKey, dataset.WineQualityRedRows,
		)
	}

	train, test, err := dataset.TrainTestSplit(ds, p.cfg.Seed, p.cfg.SplitRatio)
	if err != nil {
		return nil, errors.Wrap(err, "split")
	}
	logger.Info("Dataset split",
		log.OperationKey, log.OperationSplit,
		log.RandomSeedKey, p.cfg.Seed,
		log.SplitRatioKey, p.cfg.SplitRatio,
		log.TrainSamplesKey, train.NSamples(),
		log.TestSamplesKey, test.NSamples(),
	)

	if p.cfg.ApplyScaling {
		train, test, err = p.scale(train, test)
		if err != nil {
			return nil, errors.Wrap(err, "scale")
		}
		logger.Debug("Features scaled",
			log.OperationKey, log.OperationTransform,
			log.PhaseKey, log.PhasePreprocessing,
		)
	}

	if train.IsEmpty() {
		return nil, errors.Wrap(errors.NewInsufficientSamplesError("fit", 0, 1), "train")
	}
	if test.IsEmpty() {
		return nil, errors.Wrap(errors.NewInsufficientSamplesError("evaluate", 0, 1), "evaluate")
	}

	res := &Result{
		TrainSamples: train.NSamples(),
		TestSamples:  test.NSamples(),
		Scaled:       p.cfg.ApplyScaling,
		FeatureNames: append([]string(nil), ds.FeatureNames...),
	}

	for _, spec := range p.cfg.Models {
		mr, err := p.trainAndEvaluate(logger, spec, train, test)
		if err != nil {
			return nil, err
		}
		res.Models = append(res.Models, mr)
		p.printModel(mr)
	}

	fmt.Fprintln(p.out, strings.Repeat("-", 93))

	if p.cfg.ReportPath != "" {
		if err := p.writeReport(res); err != nil {
			return nil, errors.Wrap(err, "report")
		}
		res.ReportPath = p.cfg.ReportPath
		fmt.Fprintf(p.out, " => generate %s tree description with `latex %s`!\n", p.cfg.ReportModel, p.cfg.ReportPath)
	}

	logger.Info("Pipeline finished",
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (p *Pipeline) scale(train, test *dataset.Dataset) (*dataset.Dataset, *dataset.Dataset, error) {
	s, err := preprocessing.NewScaler(p.cfg.Scaler)
	if err != nil {
		return nil, nil, err
	}
	return preprocessing.FitScale(s, train, test)
}

func (p *Pipeline) trainAndEvaluate(logger log.Logger, spec ModelSpec, train, test *dataset.Dataset) (ModelResult, error) {
	logger = logger.With(log.ModelNameKey, spec.Name, log.CriterionKey, string(spec.Params.Criterion))
	fmt.Fprintf(p.out, "Training model with %s criterion ...\n", spec.Name)

	clf, err := p.backend.NewClassifier(spec.Params)
	if err != nil {
		return ModelResult{}, errors.NewModelError("pipeline.train", spec.Name, err)
	}

	start := time.Now()
	y := mat.NewDense(train.NSamples(), 1, nil)
	y.SetCol(0, targetsAsFloats(train.Targets))
	err = errors.SafeExecute(spec.Name+".Fit", func() error {
		return clf.Fit(train.Features, y)
	})
	if err != nil {
		return ModelResult{}, errors.NewModelError("pipeline.train", spec.Name, err)
	}
	logger.Info("Model trained",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.TrainSamplesKey, train.NSamples(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	var pred mat.Matrix
	err = errors.SafeExecute(spec.Name+".Predict", func() error {
		var perr error
		pred, perr = clf.Predict(test.Features)
		return perr
	})
	if err != nil {
		return ModelResult{}, errors.NewModelError("pipeline.evaluate", spec.Name, err)
	}

	labels, err := metrics.LabelsFromMatrix(pred)
	if err != nil {
		return ModelResult{}, errors.NewModelError("pipeline.evaluate", spec.Name, err)
	}
	cm, err := metrics.NewConfusionMatrix(test.Targets, labels)
	if err != nil {
		return ModelResult{}, errors.NewModelError("pipeline.evaluate", spec.Name, err)
	}

	mr := ModelResult{
		Name:       spec.Name,
		Criterion:  spec.Params.Criterion,
		Classifier: clf,
		Confusion:  cm,
		Accuracy:   cm.Accuracy(),
		Features:   clf.Features(),
	}
	logger.Info("Model evaluated",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseTesting,
		log.TestSamplesKey, test.NSamples(),
		log.AccuracyKey, mr.Accuracy,
	)
	return mr, nil
}

func (p *Pipeline) printModel(mr ModelResult) {
	fmt.Fprint(p.out, mr.Confusion.String())
	fmt.Fprintf(p.out, "Test accuracy with %s criterion: %.2f%%\n", mr.Name, 100*mr.Accuracy)
	fmt.Fprintf(p.out, "Features trained in this tree %v\n", mr.Features)
}

func (p *Pipeline) writeReport(res *Result) error {
	mr, ok := res.Model(p.cfg.ReportModel)
	if !ok {
		return errors.NewValidationError("report_model", "must name a configured model", p.cfg.ReportModel)
	}
	exp, ok := mr.Classifier.(TikZExporter)
	if !ok {
		return errors.NewValueError("pipeline.report", fmt.Sprintf("model %q cannot export TikZ", mr.Name))
	}

	opts := tree.TikZOptions{Legend: len(res.FeatureNames) > 0, FeatureNames: res.FeatureNames}
	return report.WriteFile(p.cfg.ReportPath, report.ExporterFunc(func(w io.Writer) error {
		return exp.ExportTikZ(w, opts)
	}), report.WithLogger(p.logger))
}

func targetsAsFloats(t []int) []float64 {
	out := make([]float64, len(t))
	for i, v := range t {
		out[i] = float64(v)
	}
	return out
}
