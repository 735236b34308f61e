package dataset

import (
	"bytes"

	"gonum.org/v1/gonum/mat"

	scierrors "github.com/YuminosukeSato/winequality/pkg/errors"
)

// WineQualityLabelColumn is the index of the "quality" column.
const WineQualityLabelColumn = 11

// WineQualityRedRows is the number of samples in the complete red wine table.
const WineQualityRedRows = 1599

// WineQualityFeatureNames are the physicochemical measurements, in file order.
var WineQualityFeatureNames = []string{
	"fixed acidity",
	"volatile acidity",
	"citric acid",
	"residual sugar",
	"chlorides",
	"free sulfur dioxide",
	"total sulfur dioxide",
	"density",
	"pH",
	"sulphates",
	"alcohol",
}

// Decode reads a header-bearing comma-separated table from src, sniffing
// gzip compression from the first bytes.
func Decode(src DataSource) (*mat.Dense, error) {
	b, err := src.Bytes()
	if err != nil {
		return nil, err
	}
	if IsGzip(b) {
		return ReadCSVGzip(bytes.NewReader(b), true, ',')
	}
	return ReadCSV(bytes.NewReader(b), true, ',')
}

// LoadTable decodes src and splits off labelColumn as the class label.
func LoadTable(src DataSource, labelColumn int, featureNames []string) (*Dataset, error) {
	raw, err := Decode(src)
	if err != nil {
		return nil, err
	}
	return FromMatrix(raw, labelColumn, featureNames)
}

// WineQuality loads the wine quality table from src: eleven features and the
// integer quality score as the label.
func WineQuality(src DataSource) (*Dataset, error) {
	raw, err := Decode(src)
	if err != nil {
		return nil, err
	}
	if _, c := raw.Dims(); c != WineQualityLabelColumn+1 {
		return nil, scierrors.NewFormatErrorf(1, "wine quality table needs %d columns, got %d", WineQualityLabelColumn+1, c)
	}
	return FromMatrix(raw, WineQualityLabelColumn, WineQualityFeatureNames)
}
