package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoMarcuzzi/TREANT/dataset"
	"github.com/FedericoMarcuzzi/TREANT/feature"
)

func buildTwoLeafTree(t *testing.T) *Tree {
	t.Helper()
	store := NewMemoryNodeStore()
	left := &Node{Prediction: 1}
	require.NoError(t, store.Create(context.Background(), left))
	right := &Node{Prediction: 9}
	require.NoError(t, store.Create(context.Background(), right))
	root := &Node{
		Interior: true, Feature: 0, Numerical: true, Value: feature.Num(5),
		LeftID: left.ID, RightID: right.ID,
	}
	require.NoError(t, store.Create(context.Background(), root))
	return New(root.ID, store, feature.New("label", feature.Real))
}

func TestPredictRoutesLeftAndRight(t *testing.T) {
	tr := buildTwoLeafTree(t)
	row := dataset.NewRow([]feature.Value{feature.Num(3)}, 0)
	p, err := tr.Predict(context.Background(), row)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)

	row = dataset.NewRow([]feature.Value{feature.Num(8)}, 0)
	p, err = tr.Predict(context.Background(), row)
	require.NoError(t, err)
	assert.Equal(t, 9.0, p)
}

func TestPredictOnNilTreeErrors(t *testing.T) {
	var tr *Tree
	_, err := tr.Predict(context.Background(), dataset.NewRow(nil, 0))
	assert.Error(t, err)
}

func TestTestReportsMeanSquaredError(t *testing.T) {
	tr := buildTwoLeafTree(t)
	features := []*feature.Feature{feature.New("x", feature.Real)}
	columns := [][]feature.Value{{feature.Num(3), feature.Num(8)}}
	ds, err := dataset.New(features, columns, []float64{1, 9})
	require.NoError(t, err)

	mse, err := tr.Test(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, 0.0, mse)
}

func TestTraverseVisitsEveryNode(t *testing.T) {
	tr := buildTwoLeafTree(t)
	var seen []string
	err := tr.Traverse(context.Background(), false, func(ctx context.Context, n *Node) error {
		seen = append(seen, n.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 3)
	assert.Equal(t, tr.RootID, seen[0], "pre-order traversal visits the root first")
}
