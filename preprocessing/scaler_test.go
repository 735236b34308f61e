package preprocessing

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/winequality/dataset"
	"github.com/YuminosukeSato/winequality/pkg/errors"
)

const tol = 1e-9

func silenceWarnings(t *testing.T) *[]error {
	t.Helper()
	var got []error
	errors.SetWarningHandler(func(w error) { got = append(got, w) })
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })
	return &got
}

func column(m mat.Matrix, j int) []float64 {
	r, _ := m.Dims()
	col := make([]float64, r)
	mat.Col(col, j, m)
	return col
}

func TestStandardScalerUnitStatistics(t *testing.T) {
	X := mat.NewDense(5, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
		10, 55,
	})

	s := NewStandardScalerDefault()
	out, err := s.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	for j := 0; j < 2; j++ {
		mean, std := stat.PopMeanStdDev(column(out, j), nil)
		if math.Abs(mean) > tol {
			t.Errorf("feature %d: mean = %v, want 0", j, mean)
		}
		if math.Abs(std-1) > tol {
			t.Errorf("feature %d: std = %v, want 1", j, std)
		}
	}
}

func TestStandardScalerConstantFeature(t *testing.T) {
	warnings := silenceWarnings(t)

	X := mat.NewDense(3, 2, []float64{
		0.1, 1,
		0.1, 2,
		0.1, 3,
	})
	s := NewStandardScalerDefault()
	out, err := s.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	if s.Scale[0] != 1 {
		t.Errorf("constant feature scale = %v, want 1", s.Scale[0])
	}
	for i, v := range column(out, 0) {
		if v != 0 {
			t.Errorf("row %d: constant feature transformed to %v, want 0", i, v)
		}
	}
	assertFinite(t, out)

	if len(*warnings) != 1 || !strings.Contains((*warnings)[0].Error(), "feature 0 is constant") {
		t.Errorf("warnings = %v", *warnings)
	}
}

func TestMinMaxScaler(t *testing.T) {
	silenceWarnings(t)

	train := mat.NewDense(3, 2, []float64{
		0, 5,
		5, 5,
		10, 5,
	})
	s := NewMinMaxScaler([2]float64{-1, 1})
	if err := s.Fit(train); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	test := mat.NewDense(2, 2, []float64{
		2.5, 5,
		20, 7,
	})
	out, err := s.Transform(test)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	// The constant second feature keeps scale 1 and is shifted to the range minimum.
	want := mat.NewDense(2, 2, []float64{
		-0.5, -1,
		3, 3,
	})
	if !mat.EqualApprox(want, out, tol) {
		t.Errorf("Transform = %v, want %v", mat.Formatted(out), mat.Formatted(want))
	}

	back, err := s.InverseTransform(out)
	if err != nil {
		t.Fatalf("InverseTransform: %v", err)
	}
	if !mat.EqualApprox(test, back, tol) {
		t.Errorf("InverseTransform = %v, want %v", mat.Formatted(back), mat.Formatted(test))
	}
}

func TestScalerTransformIsPure(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 4})
	s := NewStandardScalerDefault()
	if err := s.Fit(X); err != nil {
		t.Fatal(err)
	}
	mean, scale := s.Mean[0], s.Scale[0]
	before := mat.DenseCopyOf(X)

	a, _ := s.Transform(X)
	b, _ := s.Transform(X)

	if !mat.Equal(a, b) {
		t.Error("repeated Transform calls differ")
	}
	if !mat.Equal(before, X) {
		t.Error("Transform modified its input")
	}
	if s.Mean[0] != mean || s.Scale[0] != scale {
		t.Error("Transform modified the fitted statistics")
	}
}

func TestScalerErrors(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
	}{
		{"standard not fitted", func() error {
			_, err := NewStandardScalerDefault().Transform(mat.NewDense(1, 1, nil))
			return err
		}},
		{"minmax not fitted", func() error {
			_, err := NewMinMaxScalerDefault().InverseTransform(mat.NewDense(1, 1, nil))
			return err
		}},
		{"empty fit", func() error {
			return NewStandardScalerDefault().Fit(&mat.Dense{})
		}},
		{"bad range", func() error {
			return NewMinMaxScaler([2]float64{1, 0}).Fit(mat.NewDense(1, 1, nil))
		}},
		{"width mismatch", func() error {
			s := NewStandardScalerDefault()
			if err := s.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})); err != nil {
				return nil
			}
			_, err := s.Transform(mat.NewDense(1, 3, nil))
			return err
		}},
		{"unknown scaler", func() error {
			_, err := NewScaler("robust")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestFitScaleUsesTrainStatistics(t *testing.T) {
	train, err := dataset.New(mat.NewDense(4, 1, []float64{0, 2, 4, 6}), []int{0, 0, 1, 1}, []string{"x"})
	if err != nil {
		t.Fatal(err)
	}
	test, err := dataset.New(mat.NewDense(1, 1, []float64{3}), []int{1}, []string{"x"})
	if err != nil {
		t.Fatal(err)
	}

	s, err := NewScaler(ScalerStandard)
	if err != nil {
		t.Fatal(err)
	}
	scaledTrain, scaledTest, err := FitScale(s, train, test)
	if err != nil {
		t.Fatalf("FitScale: %v", err)
	}

	// Train mean is 3, so the single test value lands on 0.
	if got := scaledTest.Features.At(0, 0); math.Abs(got) > tol {
		t.Errorf("scaled test value = %v, want 0", got)
	}
	if scaledTrain.Targets[2] != 1 || scaledTest.FeatureNames[0] != "x" {
		t.Error("targets and names must be carried over")
	}
	if train.Features.At(0, 0) != 0 {
		t.Error("input dataset was modified")
	}

	empty, _, err := test.SplitWithRatio(0.5)
	if err != nil {
		t.Fatal(err)
	}
	out, err := ScaleDataset(s, empty)
	if err != nil {
		t.Fatalf("ScaleDataset on an empty partition: %v", err)
	}
	if out.NSamples() != 0 || out.NFeatures() != 1 {
		t.Errorf("empty partition: samples=%d features=%d", out.NSamples(), out.NFeatures())
	}
}

func assertFinite(t *testing.T, m mat.Matrix) {
	t.Helper()
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("non-finite value %v at (%d, %d)", v, i, j)
			}
		}
	}
}
