// Package metrics provides evaluation metrics for classification models.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/winequality/pkg/errors"
)

// Accuracy は正解率（予測が正解ラベルと一致した割合）を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError は誤分類率（1 - Accuracy）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, errors.Wrap(err, "ClassificationError")
	}
	return 1 - acc, nil
}

// checkPair は2つのベクトルが空でなく同じ長さであることを確認する
func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil || yTrue.IsEmpty() || yPred.IsEmpty() {
		return 0, errors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// LabelsFromMatrix は n×1 の予測行列を整数ラベルのスライスに変換する
// 有限でない値や整数でない値があれば LabelCastError を返す
func LabelsFromMatrix(m mat.Matrix) ([]int, error) {
	if m == nil {
		return nil, nil
	}
	if d, ok := m.(*mat.Dense); ok && d.IsEmpty() {
		return nil, nil
	}
	r, _ := m.Dims()
	out := make([]int, r)
	for i := range out {
		v := m.At(i, 0)
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			return nil, errors.NewLabelCastError(i, v, "not finite")
		case math.Trunc(v) != v:
			return nil, errors.NewLabelCastError(i, v, "not integral")
		case math.Abs(v) > math.MaxInt32:
			return nil, errors.NewLabelCastError(i, v, "exceeds MaxInt32")
		}
		out[i] = int(v)
	}
	return out, nil
}
