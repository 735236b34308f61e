package metrics

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/winequality/pkg/errors"
)

// ConfusionMatrix counts (actual, predicted) label pairs.
//
// Rows are indexed by the actual class and columns by the predicted class,
// both in the ascending order of Classes. The matrix is read-only once built.
type ConfusionMatrix struct {
	classes []int
	index   map[int]int
	counts  *mat.Dense
	total   int
}

// NewConfusionMatrix builds the matrix over the sorted union of the labels
// found in yTrue and yPred.
func NewConfusionMatrix(yTrue, yPred []int) (*ConfusionMatrix, error) {
	if len(yTrue) == 0 {
		return nil, errors.NewValueError("NewConfusionMatrix", "empty label slice")
	}
	if len(yTrue) != len(yPred) {
		return nil, errors.NewDimensionError("NewConfusionMatrix", len(yTrue), len(yPred), 0)
	}

	seen := make(map[int]struct{})
	for i := range yTrue {
		seen[yTrue[i]] = struct{}{}
		seen[yPred[i]] = struct{}{}
	}
	classes := make([]int, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	index := make(map[int]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	counts := mat.NewDense(len(classes), len(classes), nil)
	for i := range yTrue {
		r, c := index[yTrue[i]], index[yPred[i]]
		counts.Set(r, c, counts.At(r, c)+1)
	}

	return &ConfusionMatrix{
		classes: classes,
		index:   index,
		counts:  counts,
		total:   len(yTrue),
	}, nil
}

// Classes returns the class labels in row/column order.
func (cm *ConfusionMatrix) Classes() []int {
	return append([]int(nil), cm.classes...)
}

// Count returns how many samples of class actual were predicted as predicted.
func (cm *ConfusionMatrix) Count(actual, predicted int) int {
	r, ok := cm.index[actual]
	if !ok {
		return 0
	}
	c, ok := cm.index[predicted]
	if !ok {
		return 0
	}
	return int(cm.counts.At(r, c))
}

// Dense returns a copy of the count matrix.
func (cm *ConfusionMatrix) Dense() *mat.Dense {
	return mat.DenseCopyOf(cm.counts)
}

// Total returns the number of samples counted.
func (cm *ConfusionMatrix) Total() int {
	return cm.total
}

// Accuracy is the trace divided by the total count.
func (cm *ConfusionMatrix) Accuracy() float64 {
	return mat.Trace(cm.counts) / float64(cm.total)
}

// RowSums returns the number of samples of each actual class.
func (cm *ConfusionMatrix) RowSums() []int {
	n := len(cm.classes)
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = int(mat.Sum(cm.counts.RowView(i)))
	}
	return out
}

// ColSums returns the number of predictions of each class.
func (cm *ConfusionMatrix) ColSums() []int {
	n := len(cm.classes)
	out := make([]int, n)
	for j := 0; j < n; j++ {
		out[j] = int(mat.Sum(cm.counts.ColView(j)))
	}
	return out
}

// Precision returns TP / (TP + FP) for class. A class that was never
// predicted has precision 0 and raises an UndefinedMetricWarning.
func (cm *ConfusionMatrix) Precision(class int) float64 {
	j, ok := cm.index[class]
	if !ok {
		return 0
	}
	predicted := mat.Sum(cm.counts.ColView(j))
	if predicted == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", fmt.Sprintf("class %d has no predicted samples", class), 0))
		return 0
	}
	return cm.counts.At(j, j) / predicted
}

// Recall returns TP / (TP + FN) for class. A class absent from the actual
// labels has recall 0 and raises an UndefinedMetricWarning.
func (cm *ConfusionMatrix) Recall(class int) float64 {
	i, ok := cm.index[class]
	if !ok {
		return 0
	}
	actual := mat.Sum(cm.counts.RowView(i))
	if actual == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", fmt.Sprintf("class %d has no true samples", class), 0))
		return 0
	}
	return cm.counts.At(i, i) / actual
}

const cellWidth = 10

// String renders the matrix as a table: a header row with the predicted
// classes, then one row per actual class.
func (cm *ConfusionMatrix) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%-*s", cellWidth, "classes")
	for _, c := range cm.classes {
		fmt.Fprintf(&sb, " | %-*d", cellWidth, c)
	}
	sb.WriteByte('\n')

	for i, c := range cm.classes {
		fmt.Fprintf(&sb, "%-*d", cellWidth, c)
		for j := range cm.classes {
			fmt.Fprintf(&sb, " | %-*d", cellWidth, int(cm.counts.At(i, j)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
