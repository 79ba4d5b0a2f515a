package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redis "gopkg.in/redis.v5"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/tree"
)

func newTestStore(t *testing.T) tree.NodeStore {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(rc, "nodes", NewJSONNodeEncodeDecoder())
}

func TestCreateAssignsAnIDAndPersists(t *testing.T) {
	store := newTestStore(t)
	n := &tree.Node{Prediction: 3.5}
	require.NoError(t, store.Create(context.Background(), n))
	assert.NotEmpty(t, n.ID)

	got, err := store.Get(context.Background(), n.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3.5, got.Prediction)
}

func TestGetOnMissingIDReturnsNil(t *testing.T) {
	store := newTestStore(t)
	got, err := store.Get(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreRoundTripsInteriorNode(t *testing.T) {
	store := newTestStore(t)
	n := &tree.Node{
		ID: "n1", Interior: true, Feature: 2, Numerical: true,
		Value:        feature.Num(4.2),
		UniqueValues: []feature.Value{feature.Num(1), feature.Num(4.2), feature.Num(9)},
		LeftID:       "left", RightID: "right",
	}
	require.NoError(t, store.Store(context.Background(), n))

	got, err := store.Get(context.Background(), "n1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Interior)
	assert.Equal(t, 2, got.Feature)
	assert.Equal(t, 4.2, got.Value.Float())
	assert.Equal(t, "left", got.LeftID)
	assert.Equal(t, "right", got.RightID)
	require.Len(t, got.UniqueValues, 3)
	assert.Equal(t, 9.0, got.UniqueValues[2].Float())
}

func TestStoreRoundTripsCategoricalNode(t *testing.T) {
	store := newTestStore(t)
	n := &tree.Node{ID: "n2", Interior: true, Value: feature.Sym("red")}
	require.NoError(t, store.Store(context.Background(), n))

	got, err := store.Get(context.Background(), "n2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Value.IsCategorical())
	assert.Equal(t, "red", got.Value.String())
}

func TestDeleteRemovesNode(t *testing.T) {
	store := newTestStore(t)
	n := &tree.Node{Prediction: 1}
	require.NoError(t, store.Create(context.Background(), n))
	require.NoError(t, store.Delete(context.Background(), n))

	got, err := store.Get(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
