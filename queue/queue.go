// Package queue provides the ordered job collection for a single batch run.
// The queue is owned by the scheduler control loop for its lifetime; the
// mutex makes status reads from other goroutines (progress snapshots, tests)
// safe without relaxing that ownership.
package queue

import (
	"sync"

	"github.com/viant/mdbatch/model"
	"github.com/viant/mdbatch/model/types"
)

// Stats summarises the queue by job status.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Running   int `json:"running"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Queue holds jobs in strict enqueue order. Job ids are unique; status
// transitions are monotonic Pending→Running→{Succeeded,Failed}, except for
// the single Failed→Pending requeue used by the retry path.
type Queue struct {
	mux  sync.Mutex
	jobs []*model.Job
	byID map[string]*model.Job
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{byID: make(map[string]*model.Job)}
}

// Enqueue appends a pending job. A duplicate id is rejected.
func (q *Queue) Enqueue(job *model.Job) error {
	q.mux.Lock()
	defer q.mux.Unlock()
	if _, ok := q.byID[job.ID]; ok {
		return types.NewProtocolError("job %s already enqueued", job.ID)
	}
	q.byID[job.ID] = job
	q.jobs = append(q.jobs, job)
	return nil
}

// NextPending returns the oldest pending job, atomically marking it running.
// The second result is false when no pending job is available.
func (q *Queue) NextPending() (*model.Job, bool) {
	q.mux.Lock()
	defer q.mux.Unlock()
	for _, job := range q.jobs {
		if job.Status == model.StatusPending {
			job.Start()
			return job, true
		}
	}
	return nil, false
}

// Complete transitions a running job to succeeded with its result.
func (q *Queue) Complete(id string, result *model.Result) error {
	q.mux.Lock()
	defer q.mux.Unlock()
	job, err := q.running(id)
	if err != nil {
		return err
	}
	job.Complete(result)
	return nil
}

// Fail transitions a running job to failed, recording the error.
func (q *Queue) Fail(id string, cause error) error {
	q.mux.Lock()
	defer q.mux.Unlock()
	job, err := q.running(id)
	if err != nil {
		return err
	}
	job.Fail(cause)
	return nil
}

// Requeue returns a failed job to pending for one more attempt, incrementing
// its attempt counter. The job keeps its original position in enqueue order.
func (q *Queue) Requeue(id string) error {
	q.mux.Lock()
	defer q.mux.Unlock()
	job, ok := q.byID[id]
	if !ok {
		return types.NewProtocolError("job %s not found", id)
	}
	if job.Status != model.StatusFailed {
		return types.NewProtocolError("job %s is %s, only failed jobs can be requeued", id, job.Status)
	}
	job.Reset()
	return nil
}

// running looks up a job and asserts it is in the running state. Callers
// hold the mutex.
func (q *Queue) running(id string) (*model.Job, error) {
	job, ok := q.byID[id]
	if !ok {
		return nil, types.NewProtocolError("job %s not found", id)
	}
	if job.Status != model.StatusRunning {
		return nil, types.NewProtocolError("job %s is %s, expected running", id, job.Status)
	}
	return job, nil
}

// PendingCount returns the number of pending jobs.
func (q *Queue) PendingCount() int {
	q.mux.Lock()
	defer q.mux.Unlock()
	return q.countLocked(model.StatusPending)
}

// RemainingCount returns pending plus running jobs.
func (q *Queue) RemainingCount() int {
	q.mux.Lock()
	defer q.mux.Unlock()
	return q.countLocked(model.StatusPending) + q.countLocked(model.StatusRunning)
}

// Len returns the total number of jobs.
func (q *Queue) Len() int {
	q.mux.Lock()
	defer q.mux.Unlock()
	return len(q.jobs)
}

// Jobs returns the jobs in enqueue order.
func (q *Queue) Jobs() []*model.Job {
	q.mux.Lock()
	defer q.mux.Unlock()
	return append([]*model.Job(nil), q.jobs...)
}

// Stats returns a by-status breakdown.
func (q *Queue) Stats() Stats {
	q.mux.Lock()
	defer q.mux.Unlock()
	ret := Stats{Total: len(q.jobs)}
	for _, job := range q.jobs {
		switch job.Status {
		case model.StatusPending:
			ret.Pending++
		case model.StatusRunning:
			ret.Running++
		case model.StatusSucceeded:
			ret.Succeeded++
		case model.StatusFailed:
			ret.Failed++
		}
	}
	return ret
}

func (q *Queue) countLocked(status model.Status) int {
	count := 0
	for _, job := range q.jobs {
		if job.Status == status {
			count++
		}
	}
	return count
}
