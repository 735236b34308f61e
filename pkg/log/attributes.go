// Package log defines standard attribute keys for pipeline operations.
//
// Using these keys everywhere keeps the JSON log lines filterable by stage.
// They follow a hierarchical naming convention (e.g. "model.name",
// "data.samples").

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "DecisionTreeClassifier", "StandardScaler"
	ModelNameKey = "model.name"

	// CriterionKey records the split criterion of a tree run ("gini", "entropy").
	CriterionKey = "model.criterion"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "load", "split", "report"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "dataset", "preprocessing", "pipeline"
	ComponentKey = "ml.component"

	// PhaseKey indicates the pipeline phase.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey is the number of rows being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns.
	FeaturesKey = "data.features"

	// TrainSamplesKey and TestSamplesKey describe the sizes of a split.
	TrainSamplesKey = "data.train_samples"
	TestSamplesKey  = "data.test_samples"

	// SourceKey names where the raw data came from (a path or "embedded").
	SourceKey = "data.source"

	// ExpectedSamplesKey is the row count a known table should have.
	ExpectedSamplesKey = "data.expected_samples"

	// CompressedKey reports whether the input was gzip-compressed.
	CompressedKey = "data.compressed"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// DepthKey and LeavesKey describe a fitted tree.
	DepthKey  = "tree.depth"
	LeavesKey = "tree.leaves"
)

// Configuration
const (
	// RandomSeedKey records the shuffle seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// SplitRatioKey records the training fraction of a split.
	SplitRatioKey = "config.split_ratio"

	// ScaledKey reports whether feature scaling was applied.
	ScaledKey = "config.scaled"

	// PathKey is the file written or read by an operation.
	PathKey = "io.path"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationLoad      = "load"
	OperationSplit     = "split"
	OperationReport    = "report"

	PhaseTraining      = "training"
	PhaseTesting       = "testing"
	PhasePreprocessing = "preprocessing"
)
