package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoMarcuzzi/TREANT/attacker"
	"github.com/FedericoMarcuzzi/TREANT/dataset"
	"github.com/FedericoMarcuzzi/TREANT/feature"
)

func twoClusterDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	features := []*feature.Feature{feature.New("x", feature.Real)}
	columns := [][]feature.Value{
		{feature.Num(1), feature.Num(2), feature.Num(3), feature.Num(10), feature.Num(11), feature.Num(12)},
	}
	labels := []float64{0, 0, 0, 10, 10, 10}
	ds, err := dataset.New(features, columns, labels)
	require.NoError(t, err)
	return ds
}

func allInstances(ds *dataset.Dataset) []int {
	idx := make([]int, ds.Len())
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func zeroCost(ds *dataset.Dataset) CostVector {
	return make(CostVector, ds.Len())
}

func TestSimulateNoAttackerPartitionsDeterministically(t *testing.T) {
	ds := twoClusterDataset(t)
	atk, err := attacker.New(nil, ds.Features())
	require.NoError(t, err)

	L, R, U := Simulate(ds, allInstances(ds), atk, zeroCost(ds), 0, feature.Num(3), true)
	assert.Equal(t, []int{0, 1, 2}, L)
	assert.Equal(t, []int{3, 4, 5}, R)
	assert.Empty(t, U)
}

func TestSimulateUncertainWhenAttackCrossesBoundary(t *testing.T) {
	features := []*feature.Feature{feature.New("x", feature.Real)}
	rules := map[string][]attacker.Rule{
		"x": {{Comparator: attacker.Le, Precondition: feature.Num(5), Set: feature.Num(9), Cost: 1}},
	}
	atk, err := attacker.New(rules, features)
	require.NoError(t, err)

	columns := [][]feature.Value{{feature.Num(3)}}
	ds, err := dataset.New(features, columns, []float64{0})
	require.NoError(t, err)

	cost := CostVector{0: 1}
	L, R, U := Simulate(ds, allInstances(ds), atk, cost, 0, feature.Num(8), true)
	assert.Empty(t, L)
	assert.Empty(t, R)
	assert.Equal(t, []int{0}, U)
}

func TestFindBestSplitIsDeterministicAcrossWorkerCounts(t *testing.T) {
	ds := twoClusterDataset(t)
	atk, err := attacker.New(nil, ds.Features())
	require.NoError(t, err)

	instances := allInstances(ds)
	features := []int{0}
	var previous *Result
	for _, workers := range []int{1, 2, 3, 6} {
		r := FindBestSplit(ds, instances, features, atk, zeroCost(ds), nil, sseOf(ds, instances, 5), 5, workers)
		require.NotNil(t, r)
		if previous != nil {
			assert.Equal(t, previous.Feature, r.Feature)
			assert.Equal(t, previous.Value, r.Value)
			assert.InDelta(t, previous.Gain, r.Gain, 1e-9)
		}
		previous = r
	}
}

func TestFindBestSplitReturnsNilWhenNoGain(t *testing.T) {
	features := []*feature.Feature{feature.New("x", feature.Real)}
	columns := [][]feature.Value{{feature.Num(1), feature.Num(2), feature.Num(3)}}
	ds, err := dataset.New(features, columns, []float64{5, 5, 5})
	require.NoError(t, err)
	atk, err := attacker.New(nil, features)
	require.NoError(t, err)

	r := FindBestSplit(ds, allInstances(ds), []int{0}, atk, zeroCost(ds), nil, 0, 5, 2)
	assert.Nil(t, r, "a constant label column has nothing to gain from splitting")
}

func sseOf(ds *dataset.Dataset, indices []int, prediction float64) float64 {
	var s float64
	for _, i := range indices {
		d := ds.Label(i) - prediction
		s += d * d
	}
	return s
}
