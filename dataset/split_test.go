package dataset

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	scierrors "github.com/YuminosukeSato/winequality/pkg/errors"
)

// indexed builds an n-row dataset whose label and only feature are the row id.
func indexed(t *testing.T, n int) *Dataset {
	t.Helper()
	x := make([]float64, n)
	y := make([]int, n)
	for i := range x {
		x[i] = float64(i)
		y[i] = i
	}
	ds, err := New(mat.NewDense(n, 1, x), y, []string{"id"})
	require.NoError(t, err)
	return ds
}

func TestTrainTestSplitPartitions(t *testing.T) {
	for n := 1; n <= 25; n++ {
		for _, ratio := range []float64{0.1, 0.25, 0.5, 0.8, 0.99} {
			ds := indexed(t, n)
			train, test, err := TrainTestSplit(ds, 42, ratio)
			require.NoError(t, err)

			wantTrain := int(math.Floor(ratio * float64(n)))
			assert.Equal(t, wantTrain, train.NSamples(), "n=%d ratio=%v", n, ratio)
			assert.Equal(t, n, train.NSamples()+test.NSamples())
			assert.Equal(t, 1, train.NFeatures())
			assert.Equal(t, 1, test.NFeatures())

			seen := append(append([]int(nil), train.Targets...), test.Targets...)
			sort.Ints(seen)
			for i, id := range seen {
				require.Equal(t, i, id, "partitions must be disjoint and covering")
			}

			for i, id := range train.Targets {
				assert.Equal(t, float64(id), train.Features.At(i, 0), "features follow labels")
			}
			assert.Equal(t, []string{"id"}, test.FeatureNames)
		}
	}
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	ds := indexed(t, 20)

	train1, test1, err := TrainTestSplit(ds, 42, 0.8)
	require.NoError(t, err)
	train2, test2, err := TrainTestSplit(ds, 42, 0.8)
	require.NoError(t, err)

	assert.Equal(t, train1.Targets, train2.Targets)
	assert.Equal(t, test1.Targets, test2.Targets)
	assert.Equal(t, 16, train1.NSamples())
	assert.Equal(t, 4, test1.NSamples())

	train3, _, err := TrainTestSplit(ds, 7, 0.8)
	require.NoError(t, err)
	assert.NotEqual(t, train1.Targets, train3.Targets)
}

func TestShuffleLeavesInputUntouched(t *testing.T) {
	ds := indexed(t, 10)
	shuffled := ds.Shuffle(NewRand(1))

	for i, id := range ds.Targets {
		assert.Equal(t, i, id)
	}
	got := append([]int(nil), shuffled.Targets...)
	sort.Ints(got)
	assert.Equal(t, ds.Targets, got)
}

func TestSplitWithRatioKeepsOrder(t *testing.T) {
	train, test, err := indexed(t, 5).SplitWithRatio(0.6)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, train.Targets)
	assert.Equal(t, []int{3, 4}, test.Targets)
}

func TestSplitSingleSample(t *testing.T) {
	train, test, err := TrainTestSplit(indexed(t, 1), 42, 0.5)
	require.NoError(t, err)
	assert.True(t, train.IsEmpty())
	assert.Equal(t, 1, test.NSamples())
	assert.Nil(t, train.TargetVector())
}

func TestSplitErrors(t *testing.T) {
	ds := indexed(t, 4)
	for _, ratio := range []float64{0, 1, -0.5, 1.5, math.NaN()} {
		_, _, err := TrainTestSplit(ds, 42, ratio)
		var re *scierrors.InvalidRatioError
		assert.True(t, scierrors.As(err, &re), "ratio %v", ratio)
	}

	empty := &Dataset{Features: &mat.Dense{}}
	_, _, err := empty.SplitWithRatio(0.5)
	var ie *scierrors.InsufficientSamplesError
	assert.True(t, scierrors.As(err, &ie))

	_, _, err = TrainTestSplit(nil, 42, 0.5)
	assert.True(t, scierrors.As(err, &ie))
}
