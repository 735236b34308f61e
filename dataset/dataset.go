package dataset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	scierrors "github.com/YuminosukeSato/winequality/pkg/errors"
)

// Dataset is a feature matrix with one integer class label per row.
//
// Features may be empty (zero rows) for a partition produced by a split; in
// that case NFeatures still reports the width of the parent data.
type Dataset struct {
	Features     *mat.Dense
	Targets      []int
	FeatureNames []string

	nFeatures int
}

// New validates the Dataset invariants and returns the assembled dataset.
func New(features *mat.Dense, targets []int, featureNames []string) (*Dataset, error) {
	if features == nil || features.IsEmpty() {
		return nil, scierrors.NewEmptyInputError("dataset.New")
	}
	r, c := features.Dims()
	if len(targets) != r {
		return nil, scierrors.NewDimensionError("dataset.New", r, len(targets), 0)
	}
	if len(featureNames) != 0 && len(featureNames) != c {
		return nil, scierrors.NewDimensionError("dataset.New", c, len(featureNames), 1)
	}
	return &Dataset{
		Features:     features,
		Targets:      targets,
		FeatureNames: featureNames,
		nFeatures:    c,
	}, nil
}

// FromMatrix splits raw into features and labels. The label column is
// removed from the features, the remaining columns keep their order, and
// every label value is cast to a class index. A negative labelColumn counts
// from the end (-1 is the last column).
func FromMatrix(raw *mat.Dense, labelColumn int, featureNames []string) (*Dataset, error) {
	if raw == nil || raw.IsEmpty() {
		return nil, scierrors.NewEmptyInputError("FromMatrix")
	}
	r, c := raw.Dims()
	if c < 2 {
		return nil, scierrors.NewValidationError("raw", "needs at least one feature column besides the label", c)
	}

	label := labelColumn
	if label < 0 {
		label += c
	}
	if label < 0 || label >= c {
		return nil, scierrors.NewValidationError("labelColumn", fmt.Sprintf("must index one of %d columns", c), labelColumn)
	}
	if len(featureNames) != 0 && len(featureNames) != c-1 {
		return nil, scierrors.NewDimensionError("FromMatrix", c-1, len(featureNames), 1)
	}

	features := mat.NewDense(r, c-1, nil)
	targets := make([]int, r)
	for i := 0; i < r; i++ {
		k := 0
		for j := 0; j < c; j++ {
			if j == label {
				continue
			}
			features.Set(i, k, raw.At(i, j))
			k++
		}
		y, err := castLabel(i, raw.At(i, label))
		if err != nil {
			return nil, err
		}
		targets[i] = y
	}

	var names []string
	if len(featureNames) != 0 {
		names = append([]string(nil), featureNames...)
	}
	return &Dataset{Features: features, Targets: targets, FeatureNames: names, nFeatures: c - 1}, nil
}

// castLabel converts a label cell to a class index. Fractional, negative,
// non-finite and oversized values are rejected rather than truncated.
func castLabel(row int, v float64) (int, error) {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return 0, scierrors.NewLabelCastError(row, v, "not finite")
	case math.Trunc(v) != v:
		return 0, scierrors.NewLabelCastError(row, v, "not integral")
	case v < 0:
		return 0, scierrors.NewLabelCastError(row, v, "negative")
	case v > math.MaxInt32:
		return 0, scierrors.NewLabelCastError(row, v, "exceeds MaxInt32")
	}
	return int(v), nil
}

// NSamples returns the number of rows.
func (d *Dataset) NSamples() int {
	return len(d.Targets)
}

// NFeatures returns the number of feature columns.
func (d *Dataset) NFeatures() int {
	if d.Features != nil && !d.Features.IsEmpty() {
		_, c := d.Features.Dims()
		return c
	}
	return d.nFeatures
}

// IsEmpty reports whether the dataset has no samples.
func (d *Dataset) IsEmpty() bool {
	return d.NSamples() == 0
}

// TargetVector returns the labels as a column vector for estimators that
// take y as a mat.Matrix. It returns nil for an empty dataset.
func (d *Dataset) TargetVector() *mat.VecDense {
	if d.IsEmpty() {
		return nil
	}
	y := make([]float64, len(d.Targets))
	for i, t := range d.Targets {
		y[i] = float64(t)
	}
	return mat.NewVecDense(len(y), y)
}

// WithFeatures returns a copy of d whose feature matrix is replaced by
// features. Targets and names are copied.
func (d *Dataset) WithFeatures(features *mat.Dense) (*Dataset, error) {
	if d.IsEmpty() {
		return d.subset(nil), nil
	}
	return New(features, append([]int(nil), d.Targets...), copyNames(d.FeatureNames))
}

// subset returns a new dataset holding the rows of d listed in idx, in that
// order.
func (d *Dataset) subset(idx []int) *Dataset {
	c := d.NFeatures()
	out := &Dataset{
		Features:     &mat.Dense{},
		Targets:      make([]int, len(idx)),
		FeatureNames: copyNames(d.FeatureNames),
		nFeatures:    c,
	}
	if len(idx) == 0 {
		return out
	}
	out.Features = mat.NewDense(len(idx), c, nil)
	for i, src := range idx {
		out.Features.SetRow(i, d.Features.RawRowView(src))
		out.Targets[i] = d.Targets[src]
	}
	return out
}

func copyNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	return append([]string(nil), names...)
}
