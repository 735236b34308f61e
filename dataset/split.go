package dataset

import (
	"math"
	"math/rand/v2"

	scierrors "github.com/YuminosukeSato/winequality/pkg/errors"
)

// NewRand returns the generator used for seeded shuffles.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Shuffle returns a new dataset whose rows are a Fisher-Yates permutation of
// d drawn from rng. d is left untouched.
func (d *Dataset) Shuffle(rng *rand.Rand) *Dataset {
	n := d.NSamples()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	rng.Shuffle(n, func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})
	return d.subset(perm)
}

// SplitWithRatio keeps the current row order: train receives the first
// floor(ratio*n) rows and test the remainder.
func (d *Dataset) SplitWithRatio(ratio float64) (train, test *Dataset, err error) {
	if !(ratio > 0 && ratio < 1) {
		return nil, nil, scierrors.NewInvalidRatioError(ratio)
	}
	n := d.NSamples()
	if n == 0 {
		return nil, nil, scierrors.NewInsufficientSamplesError("SplitWithRatio", n, 1)
	}

	nTrain := int(math.Floor(ratio * float64(n)))
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return d.subset(idx[:nTrain]), d.subset(idx[nTrain:]), nil
}

// TrainTestSplit shuffles ds with a generator seeded by seed and splits the
// result by ratio. The same seed always yields the same partitions.
func TrainTestSplit(ds *Dataset, seed uint64, ratio float64) (train, test *Dataset, err error) {
	if !(ratio > 0 && ratio < 1) {
		return nil, nil, scierrors.NewInvalidRatioError(ratio)
	}
	if ds == nil || ds.IsEmpty() {
		return nil, nil, scierrors.NewInsufficientSamplesError("TrainTestSplit", 0, 1)
	}
	return ds.Shuffle(NewRand(seed)).SplitWithRatio(ratio)
}
