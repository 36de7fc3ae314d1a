// Package progress keeps aggregated completion counters for a single batch
// run and defines the reporter contract used to publish them. The tracker is
// owned by the scheduler control loop; no global registry is involved.
package progress

import (
	"sync"
	"time"

	"github.com/viant/mdbatch/internal/clock"
)

// Reporter receives one notification per terminal job transition. Completed
// is monotonically non-decreasing and equals total exactly once, at the final
// notification. Implementations may be slow; delivery is decoupled from the
// scheduler control loop.
type Reporter interface {
	OnProgress(completed, total int, description string)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(completed, total int, description string)

// OnProgress implements Reporter.
func (f ReporterFunc) OnProgress(completed, total int, description string) {
	f(completed, total, description)
}

// Delta represents an incremental counter change applied by the scheduler.
type Delta struct {
	Completed int
	Succeeded int
	Failed    int
	Retried   int
}

// Tracker keeps aggregated counters for a batch run. Safe for concurrent
// use.
type Tracker struct {
	RunID     string
	Total     int
	StartedAt time.Time

	Completed int
	Succeeded int
	Failed    int
	Retried   int

	mux      sync.Mutex
	onChange func(Tracker)
}

// NewTracker creates a tracker for a batch of total jobs.
func NewTracker(runID string, total int) *Tracker {
	return &Tracker{RunID: runID, Total: total, StartedAt: clock.Now()}
}

// Update applies the delta. If an onChange callback is registered it is
// invoked with a snapshot outside the critical section so that slow
// callbacks never block counter updates.
func (t *Tracker) Update(d Delta) {
	if t == nil {
		return
	}
	t.mux.Lock()
	t.Completed += d.Completed
	t.Succeeded += d.Succeeded
	t.Failed += d.Failed
	t.Retried += d.Retried
	snapshot := t.snapshotLocked()
	cb := t.onChange
	t.mux.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy suitable for read-only inspection.
func (t *Tracker) Snapshot() Tracker {
	if t == nil {
		return Tracker{}
	}
	t.mux.Lock()
	defer t.mux.Unlock()
	return t.snapshotLocked()
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables it; only one callback can be active.
func (t *Tracker) OnChange(cb func(Tracker)) {
	if t == nil {
		return
	}
	t.mux.Lock()
	t.onChange = cb
	t.mux.Unlock()
}

func (t *Tracker) snapshotLocked() Tracker {
	return Tracker{
		RunID:     t.RunID,
		Total:     t.Total,
		StartedAt: t.StartedAt,
		Completed: t.Completed,
		Succeeded: t.Succeeded,
		Failed:    t.Failed,
		Retried:   t.Retried,
	}
}
