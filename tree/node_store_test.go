package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryNodeStoreCreateAssignsUniqueIDs(t *testing.T) {
	store := NewMemoryNodeStore()
	a := &Node{Prediction: 1}
	b := &Node{Prediction: 2}
	require.NoError(t, store.Create(context.Background(), a))
	require.NoError(t, store.Create(context.Background(), b))
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEmpty(t, a.ID)
}

func TestMemoryNodeStoreGetReturnsNilForUnknownID(t *testing.T) {
	store := NewMemoryNodeStore()
	n, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestMemoryNodeStoreStoreUpdatesExistingNode(t *testing.T) {
	store := NewMemoryNodeStore()
	n := &Node{Prediction: 1}
	require.NoError(t, store.Create(context.Background(), n))

	n.Prediction = 42
	require.NoError(t, store.Store(context.Background(), n))

	got, err := store.Get(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got.Prediction)
}

func TestMemoryNodeStoreDelete(t *testing.T) {
	store := NewMemoryNodeStore()
	n := &Node{Prediction: 1}
	require.NoError(t, store.Create(context.Background(), n))
	require.NoError(t, store.Delete(context.Background(), n))

	got, err := store.Get(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
