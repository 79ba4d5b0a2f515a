package serialize

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/tree"
)

func buildSampleTree(t *testing.T) *tree.Tree {
	t.Helper()
	store := tree.NewMemoryNodeStore()
	left := &tree.Node{Prediction: 1}
	require.NoError(t, store.Create(context.Background(), left))
	right := &tree.Node{Prediction: 9}
	require.NoError(t, store.Create(context.Background(), right))
	root := &tree.Node{
		Interior: true, Feature: 0, Numerical: true, Value: feature.Num(5),
		UniqueValues: []feature.Value{feature.Num(1), feature.Num(9)},
		LeftID:       left.ID, RightID: right.ID,
	}
	require.NoError(t, store.Create(context.Background(), root))
	return tree.New(root.ID, store, feature.New("label", feature.Real))
}

func TestWriteReadJSONRoundTrip(t *testing.T) {
	tr := buildSampleTree(t)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(context.Background(), tr, &buf))

	features := []*feature.Feature{feature.New("label", feature.Real)}
	decoded, err := ReadJSON(context.Background(), &buf, features)
	require.NoError(t, err)

	assert.Equal(t, tr.RootID, decoded.RootID)
	assert.Equal(t, tr.String(), decoded.String())
}

func TestReadJSONReconstructsLabelWhenAbsentFromFeatures(t *testing.T) {
	tr := buildSampleTree(t)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(context.Background(), tr, &buf))

	// The label column is never among a dataset's own feature columns,
	// so this is the shape every real caller passes.
	decoded, err := ReadJSON(context.Background(), &buf, []*feature.Feature{feature.New("x", feature.Real)})
	require.NoError(t, err)
	assert.Equal(t, "label", decoded.Label.Name())
}
