package pipeline

import (
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/winequality/pkg/errors"
	"github.com/YuminosukeSato/winequality/sklearn/tree"
)

// Criterion selects the impurity measure used to grow a tree.
type Criterion string

// Supported criteria.
const (
	Gini    Criterion = tree.CriterionGini
	Entropy Criterion = tree.CriterionEntropy
)

// Hyperparameters configure one tree. With unit sample weights the minimum
// sample weight to split or to form a leaf equals a minimum sample count.
type Hyperparameters struct {
	Criterion           Criterion
	MaxDepth            int // negative means unlimited
	MinSamplesSplit     int
	MinSamplesLeaf      int
	MinImpurityDecrease float64
}

// Classifier is what the pipeline needs from a fitted model.
type Classifier interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (mat.Matrix, error)
	// Features returns the sorted indices of the features the model used.
	Features() []int
}

// Backend builds classifiers from hyperparameters.
type Backend interface {
	NewClassifier(h Hyperparameters) (Classifier, error)
}

// TikZExporter is implemented by classifiers that can draw themselves.
type TikZExporter interface {
	ExportTikZ(w io.Writer, opts tree.TikZOptions) error
}

// TreeBackend builds sklearn/tree decision trees.
type TreeBackend struct{}

// NewClassifier returns an unfitted DecisionTreeClassifier configured by h.
func (TreeBackend) NewClassifier(h Hyperparameters) (Classifier, error) {
	if h.Criterion != Gini && h.Criterion != Entropy {
		return nil, errors.NewValidationError("criterion", "must be gini or entropy", string(h.Criterion))
	}
	return tree.NewDecisionTreeClassifier(
		tree.WithCriterion(string(h.Criterion)),
		tree.WithMaxDepth(h.MaxDepth),
		tree.WithMinSamplesSplit(h.MinSamplesSplit),
		tree.WithMinSamplesLeaf(h.MinSamplesLeaf),
		tree.WithMinImpurityDecrease(h.MinImpurityDecrease),
	), nil
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(h Hyperparameters) (Classifier, error)

// NewClassifier calls f(h).
func (f BackendFunc) NewClassifier(h Hyperparameters) (Classifier, error) { return f(h) }
