package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoMarcuzzi/TREANT/attacker"
	"github.com/FedericoMarcuzzi/TREANT/dataset"
	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/queue"
	"github.com/FedericoMarcuzzi/TREANT/tree"
)

func thresholdDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	f := []*feature.Feature{feature.New("x", feature.Real)}
	columns := [][]feature.Value{
		{feature.Num(1), feature.Num(2), feature.Num(8), feature.Num(9)},
	}
	labels := []float64{1, 1, 9, 9}
	ds, err := dataset.New(f, columns, labels)
	require.NoError(t, err)
	return ds
}

func TestBuildDistributedMatchesBuild(t *testing.T) {
	ds := thresholdDataset(t)
	atk, err := attacker.New(nil, ds.Features())
	require.NoError(t, err)
	cfg := Config{MaxDepth: 2, MinPerNode: 1, Budget: 0, Workers: 2}

	direct, err := Build(context.Background(), ds, atk, "label", []int{0}, cfg)
	require.NoError(t, err)

	q := queue.New()
	store := tree.NewMemoryNodeStore()
	distributed, err := BuildDistributed(context.Background(), ds, atk, "label", []int{0}, cfg, q, store)
	require.NoError(t, err)

	for i := 0; i < ds.Len(); i++ {
		rec := ds.Record(i)
		wantPrediction, err := direct.Predict(context.Background(), rec)
		require.NoError(t, err)
		gotPrediction, err := distributed.Predict(context.Background(), rec)
		require.NoError(t, err)
		assert.Equal(t, wantPrediction, gotPrediction)
	}
}

func TestBuildDistributedSingleWorker(t *testing.T) {
	ds := thresholdDataset(t)
	atk, err := attacker.New(nil, ds.Features())
	require.NoError(t, err)
	cfg := Config{MaxDepth: 2, MinPerNode: 1, Budget: 0, Workers: 1}

	q := queue.New()
	store := tree.NewMemoryNodeStore()
	tr, err := BuildDistributed(context.Background(), ds, atk, "label", []int{0}, cfg, q, store)
	require.NoError(t, err)

	for i, wantLabel := range []float64{1, 1, 9, 9} {
		p, err := tr.Predict(context.Background(), ds.Record(i))
		require.NoError(t, err)
		assert.Equal(t, wantLabel, p)
	}
}

func TestBuildDistributedRespectsMaxDepth(t *testing.T) {
	ds := thresholdDataset(t)
	atk, err := attacker.New(nil, ds.Features())
	require.NoError(t, err)
	cfg := Config{MaxDepth: 0, MinPerNode: 1, Budget: 0, Workers: 2}

	q := queue.New()
	store := tree.NewMemoryNodeStore()
	tr, err := BuildDistributed(context.Background(), ds, atk, "label", []int{0}, cfg, q, store)
	require.NoError(t, err)

	n, err := tr.Get(context.Background(), tr.RootID)
	require.NoError(t, err)
	assert.False(t, n.Interior, "a zero max depth must yield a single leaf")
}
