package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPullCompleteCycle(t *testing.T) {
	q := New()
	require.NoError(t, q.Push(context.Background(), &Task{NodeID: "a"}))

	pending, running, err := q.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
	assert.Equal(t, 0, running)

	task, _, cancel, err := q.Pull(context.Background())
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, "a", task.ID())
	cancel()

	pending, running, err = q.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
	assert.Equal(t, 1, running)

	require.NoError(t, q.Complete(context.Background(), task.ID()))
	pending, running, err = q.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
	assert.Equal(t, 0, running)
}

func TestPullOnEmptyQueueReturnsNilTask(t *testing.T) {
	q := New()
	task, _, _, err := q.Pull(context.Background())
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestDropReturnsTaskToPending(t *testing.T) {
	q := New()
	require.NoError(t, q.Push(context.Background(), &Task{NodeID: "a"}))
	task, _, _, err := q.Pull(context.Background())
	require.NoError(t, err)
	require.NotNil(t, task)

	require.NoError(t, q.Drop(context.Background(), task.ID()))
	pending, running, err := q.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
	assert.Equal(t, 0, running)
}

func TestWaitForReturnsOnceQueueIsDrained(t *testing.T) {
	q := New()
	require.NoError(t, q.Push(context.Background(), &Task{NodeID: "a"}))
	task, _, _, err := q.Pull(context.Background())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- WaitFor(context.Background(), q) }()

	require.NoError(t, q.Complete(context.Background(), task.ID()))
	require.NoError(t, <-done)
}
