package queue

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/mdbatch/model"
	"github.com/viant/mdbatch/model/types"
)

func newTestQueue(t *testing.T, count int) *Queue {
	q := New()
	for i := 0; i < count; i++ {
		err := q.Enqueue(model.NewJob(fmt.Sprintf("/docs/file%d.pdf", i), fmt.Sprintf("/out/file%d_md", i)))
		require.NoError(t, err)
	}
	return q
}

func TestQueue_EnqueueDuplicate(t *testing.T) {
	q := New()
	require.NoError(t, q.Enqueue(model.NewJob("/docs/a.pdf", "/out/a_md")))
	err := q.Enqueue(model.NewJob("/docs/a.pdf", "/out/other"))
	require.Error(t, err)
	assert.Equal(t, types.KindProtocol, types.KindOf(err))
}

func TestQueue_NextPendingFIFO(t *testing.T) {
	q := newTestQueue(t, 3)
	for i := 0; i < 3; i++ {
		job, ok := q.NextPending()
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("/docs/file%d.pdf", i), job.ID)
		assert.Equal(t, model.StatusRunning, job.Status)
		assert.NotNil(t, job.StartedAt)
	}
	_, ok := q.NextPending()
	assert.False(t, ok)
}

func TestQueue_CompleteAndFail(t *testing.T) {
	q := newTestQueue(t, 2)
	first, _ := q.NextPending()
	second, _ := q.NextPending()

	require.NoError(t, q.Complete(first.ID, &model.Result{OutputPath: "/out/file0_md/file0.md", Pages: 12}))
	assert.Equal(t, model.StatusSucceeded, first.Status)
	assert.Equal(t, 12, first.Result.Pages)

	require.NoError(t, q.Fail(second.ID, errors.New("unreadable input")))
	assert.Equal(t, model.StatusFailed, second.Status)
	assert.Equal(t, "unreadable input", second.Error)
}

func TestQueue_TerminalTransitionsRejected(t *testing.T) {
	q := newTestQueue(t, 1)
	job, _ := q.NextPending()
	require.NoError(t, q.Complete(job.ID, &model.Result{}))

	// completing or failing a non-running job violates the queue contract
	err := q.Complete(job.ID, &model.Result{})
	require.Error(t, err)
	assert.Equal(t, types.KindProtocol, types.KindOf(err))

	err = q.Fail(job.ID, errors.New("late failure"))
	require.Error(t, err)
	assert.Equal(t, types.KindProtocol, types.KindOf(err))

	err = q.Complete("/docs/unknown.pdf", &model.Result{})
	require.Error(t, err)
	assert.Equal(t, types.KindProtocol, types.KindOf(err))
}

func TestQueue_Requeue(t *testing.T) {
	q := newTestQueue(t, 2)
	job, _ := q.NextPending()
	require.NoError(t, q.Fail(job.ID, errors.New("missing output dir")))
	require.NoError(t, q.Requeue(job.ID))

	assert.Equal(t, model.StatusPending, job.Status)
	assert.Equal(t, 2, job.Attempts)
	assert.Empty(t, job.Error)

	// requeued job keeps its enqueue-order position
	next, ok := q.NextPending()
	require.True(t, ok)
	assert.Equal(t, job.ID, next.ID)

	// only failed jobs can be requeued
	err := q.Requeue(job.ID)
	require.Error(t, err)
	assert.Equal(t, types.KindProtocol, types.KindOf(err))
}

func TestQueue_Counts(t *testing.T) {
	q := newTestQueue(t, 4)
	assert.Equal(t, 4, q.Len())
	assert.Equal(t, 4, q.PendingCount())
	assert.Equal(t, 4, q.RemainingCount())

	first, _ := q.NextPending()
	assert.Equal(t, 3, q.PendingCount())
	assert.Equal(t, 4, q.RemainingCount())

	require.NoError(t, q.Complete(first.ID, &model.Result{}))
	assert.Equal(t, 3, q.RemainingCount())

	stats := q.Stats()
	assert.Equal(t, Stats{Total: 4, Pending: 3, Succeeded: 1}, stats)
}
