package metrics

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/winequality/pkg/errors"
)

func TestConfusionMatrix(t *testing.T) {
	yTrue := []int{5, 5, 6, 6, 6, 7}
	yPred := []int{5, 6, 6, 6, 4, 7}

	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("NewConfusionMatrix: %v", err)
	}

	if got, want := cm.Classes(), []int{4, 5, 6, 7}; !reflect.DeepEqual(got, want) {
		t.Errorf("Classes() = %v, want %v (sorted union of true and predicted)", got, want)
	}

	counts := []struct {
		actual, predicted, want int
	}{
		{5, 5, 1},
		{5, 6, 1},
		{6, 6, 2},
		{6, 4, 1},
		{7, 7, 1},
		{4, 4, 0},
		{9, 9, 0},
	}
	for _, c := range counts {
		if got := cm.Count(c.actual, c.predicted); got != c.want {
			t.Errorf("Count(%d, %d) = %d, want %d", c.actual, c.predicted, got, c.want)
		}
	}

	if got := cm.Accuracy(); math.Abs(got-4.0/6.0) > 1e-12 {
		t.Errorf("Accuracy() = %v, want %v", got, 4.0/6.0)
	}
	if got, want := cm.RowSums(), []int{0, 2, 3, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("RowSums() = %v, want %v", got, want)
	}
	if got, want := cm.ColSums(), []int{1, 1, 3, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("ColSums() = %v, want %v", got, want)
	}
	if cm.Total() != 6 {
		t.Errorf("Total() = %d, want 6", cm.Total())
	}

	d := cm.Dense()
	d.Set(0, 0, 100)
	if cm.Count(4, 4) != 0 {
		t.Error("Dense() must return a copy")
	}
}

func TestConfusionMatrixPrecisionRecall(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	cm, err := NewConfusionMatrix([]int{0, 0, 1, 1}, []int{0, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"precision 0", cm.Precision(0), 1},
		{"precision 1", cm.Precision(1), 2.0 / 3.0},
		{"recall 0", cm.Recall(0), 0.5},
		{"recall 1", cm.Recall(1), 1},
		{"unknown class", cm.Precision(7), 0},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 1e-12 {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	cm, _ = NewConfusionMatrix([]int{0, 0}, []int{0, 1})
	if got := cm.Recall(1); got != 0 {
		t.Errorf("Recall of a class with no true samples = %v, want 0", got)
	}
	if len(warnings) != 1 {
		t.Errorf("expected one UndefinedMetricWarning, got %v", warnings)
	}
}

func TestConfusionMatrixString(t *testing.T) {
	cm, err := NewConfusionMatrix([]int{3, 8, 8}, []int{3, 8, 3})
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(cm.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", cm.String())
	}
	if !strings.HasPrefix(lines[0], "classes") {
		t.Errorf("header = %q", lines[0])
	}
	want := []string{"8", "1", "1"}
	fields := strings.Split(lines[2], "|")
	if len(fields) != 3 {
		t.Fatalf("row = %q", lines[2])
	}
	for i, f := range fields {
		if strings.TrimSpace(f) != want[i] {
			t.Errorf("row cell %d = %q, want %q", i, strings.TrimSpace(f), want[i])
		}
	}
}

func TestConfusionMatrixErrors(t *testing.T) {
	if _, err := NewConfusionMatrix(nil, nil); err == nil {
		t.Error("expected error for empty input")
	}
	_, err := NewConfusionMatrix([]int{1, 2}, []int{1})
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("expected DimensionError, got %v", err)
	}
}

func TestLabelsFromMatrix(t *testing.T) {
	got, err := LabelsFromMatrix(mat.NewDense(3, 1, []float64{5, -1, 0}))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != 5 || got[1] != -1 || got[2] != 0 {
		t.Errorf("LabelsFromMatrix = %v, want [5 -1 0]", got)
	}

	for _, bad := range []float64{2.5, math.NaN(), math.Inf(1), 1e12} {
		_, err := LabelsFromMatrix(mat.NewDense(2, 1, []float64{1, bad}))
		var castErr *errors.LabelCastError
		if !errors.As(err, &castErr) {
			t.Errorf("%v: expected LabelCastError, got %v", bad, err)
			continue
		}
		if castErr.Row != 1 {
			t.Errorf("%v: row = %d, want 1", bad, castErr.Row)
		}
	}
}
