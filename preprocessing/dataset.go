package preprocessing

import (
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/winequality/core/model"
	"github.com/YuminosukeSato/winequality/dataset"
	"github.com/YuminosukeSato/winequality/pkg/errors"
)

// Scaler names accepted by NewScaler.
const (
	ScalerStandard = "standard"
	ScalerMinMax   = "minmax"
)

// NewScaler returns an unfitted scaler by name.
func NewScaler(name string) (model.Transformer, error) {
	switch strings.ToLower(name) {
	case ScalerStandard, "":
		return NewStandardScalerDefault(), nil
	case ScalerMinMax:
		return NewMinMaxScalerDefault(), nil
	default:
		return nil, errors.NewValidationError("scaler", "must be \"standard\" or \"minmax\"", name)
	}
}

// ScaleDataset applies a fitted scaler to the features of ds and returns a
// new dataset carrying copies of the targets and feature names. An empty
// dataset is passed through as an empty copy.
func ScaleDataset(s model.Transformer, ds *dataset.Dataset) (*dataset.Dataset, error) {
	if ds.IsEmpty() {
		return ds.WithFeatures(nil)
	}
	scaled, err := s.Transform(ds.Features)
	if err != nil {
		return nil, err
	}
	return ds.WithFeatures(mat.DenseCopyOf(scaled))
}

// FitScale fits s on train and scales both partitions with the train
// statistics.
func FitScale(s model.Transformer, train, test *dataset.Dataset) (*dataset.Dataset, *dataset.Dataset, error) {
	if train.IsEmpty() {
		return nil, nil, errors.NewInsufficientSamplesError("FitScale", 0, 1)
	}
	if err := s.Fit(train.Features); err != nil {
		return nil, nil, err
	}
	scaledTrain, err := ScaleDataset(s, train)
	if err != nil {
		return nil, nil, err
	}
	scaledTest, err := ScaleDataset(s, test)
	if err != nil {
		return nil, nil, err
	}
	return scaledTrain, scaledTest, nil
}
