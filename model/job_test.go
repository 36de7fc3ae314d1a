package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/viant/mdbatch/internal/clock"
)

func TestJob_Lifecycle(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	clock.NowFunc = func() time.Time { return now }
	defer func() { clock.NowFunc = time.Now }()

	job := NewJob("/docs/report.pdf", "/out/report_md")
	assert.Equal(t, "/docs/report.pdf", job.ID)
	assert.Equal(t, StatusPending, job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.False(t, job.Status.IsTerminal())

	job.Start()
	assert.Equal(t, StatusRunning, job.Status)

	now = now.Add(30 * time.Second)
	job.Complete(&Result{OutputPath: "/out/report_md/report.md", Pages: 42})
	assert.Equal(t, StatusSucceeded, job.Status)
	assert.True(t, job.Status.IsTerminal())
	assert.Equal(t, 30*time.Second, job.Duration())
}

func TestJob_FailAndReset(t *testing.T) {
	job := NewJob("/docs/a.pdf", "/out/a_md")
	job.Start()
	job.Fail(errors.New("missing output dir"))
	assert.Equal(t, StatusFailed, job.Status)
	assert.Equal(t, "missing output dir", job.Error)

	job.Reset()
	assert.Equal(t, StatusPending, job.Status)
	assert.Equal(t, 2, job.Attempts)
	assert.Empty(t, job.Error)
	assert.Nil(t, job.StartedAt)
	assert.Equal(t, time.Duration(0), job.Duration())
}

func TestNewSummary(t *testing.T) {
	succeeded := NewJob("/docs/a.pdf", "/out/a_md")
	succeeded.Start()
	succeeded.Complete(&Result{Pages: 10, Images: 3})

	failed := NewJob("/docs/b.pdf", "/out/b_md")
	failed.Start()
	failed.Fail(errors.New("unreadable input"))

	summary := NewSummary("run-1", []*Job{succeeded, failed})
	assert.Equal(t, 2, summary.Submitted)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 10, summary.TotalPages)
	assert.Equal(t, 3, summary.TotalImages)
}
