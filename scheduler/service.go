// Package scheduler runs a batch of conversion jobs under a concurrency
// budget that is re-tuned against live memory telemetry after every job
// completion. Admission decisions are serialised through one control loop;
// workers only report results back to it. In-flight jobs are never
// preempted: when the budget shrinks below the in-flight count the loop
// simply stops admitting until enough jobs complete.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/viant/mdbatch/engine"
	"github.com/viant/mdbatch/memory"
	"github.com/viant/mdbatch/model"
	"github.com/viant/mdbatch/model/types"
	"github.com/viant/mdbatch/policy"
	"github.com/viant/mdbatch/progress"
	"github.com/viant/mdbatch/queue"
	"github.com/viant/mdbatch/tracing"
)

// Service drives one batch at a time to completion.
type Service struct {
	engine        engine.Service
	engineOptions engine.Options
	sampler       memory.Sampler
	thresholds    memory.Thresholds
	maxWorkers    int
	reporter      progress.Reporter
	reclaimer     Reclaimer
	outputRoot    string
	fs            afs.Service
	verbose       bool

	stopRequested atomic.Bool
}

// outcome is what a worker reports back to the control loop.
type outcome struct {
	job      *model.Job
	response *engine.Response
	err      error
}

// notification is one terminal-transition progress message.
type notification struct {
	completed   int
	total       int
	description string
}

// New creates a scheduler service. The engine is mandatory; everything else
// has a default.
func New(options ...Option) (*Service, error) {
	s := &Service{
		thresholds: memory.DefaultThresholds(),
		reclaimer:  DefaultReclaimer,
	}
	for _, option := range options {
		option(s)
	}
	if s.engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if s.sampler == nil {
		s.sampler = memory.NewHostSampler()
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	return s, nil
}

// Stop requests stop-admitting cancellation: no new jobs are dispatched, but
// already in-flight jobs run to completion.
func (s *Service) Stop() {
	s.stopRequested.Store(true)
}

// Run executes every job in the queue and returns the batch summary. Per-job
// failures are contained and recorded; only configuration and internal
// contract violations abort the run.
func (s *Service) Run(ctx context.Context, q *queue.Queue) (summary *model.Summary, err error) {
	if s.maxWorkers <= 0 {
		return nil, types.NewConfigurationError("maxWorkers must be positive, got %d", s.maxWorkers)
	}
	if vErr := s.thresholds.Validate(); vErr != nil {
		return nil, types.NewConfigurationError("%v", vErr)
	}
	if pErr := s.probeOutputRoot(ctx); pErr != nil {
		return nil, pErr
	}

	runID := uuid.New().String()
	total := q.Len()
	ctx, span := tracing.StartSpan(ctx, "batch.run")
	span.WithAttributes(map[string]string{"run.id": runID, "batch.size": fmt.Sprintf("%d", total)})
	defer func() { tracing.EndSpan(span, err) }()

	tracker := progress.NewTracker(runID, total)
	s.stopRequested.Store(false)

	// Every job produces exactly one terminal transition, so a buffer of the
	// batch size makes sends non-blocking while losing nothing.
	notifications := make(chan notification, total)
	var notifierWG sync.WaitGroup
	if s.reporter != nil {
		notifierWG.Add(1)
		go func() {
			defer notifierWG.Done()
			for n := range notifications {
				s.reporter.OnProgress(n.completed, n.total, n.description)
			}
		}()
	}

	completions := make(chan *outcome, s.maxWorkers)
	inflight := 0
	budget := s.recomputeBudget(ctx)
	s.logf("run %s: %d job(s), initial budget %d/%d", runID, total, budget, s.maxWorkers)

	for {
		if !s.stopped(ctx) {
			for inflight < budget {
				job, ok := q.NextPending()
				if !ok {
					break
				}
				inflight++
				go s.dispatch(ctx, job, completions)
			}
		}
		if inflight == 0 {
			break
		}

		out := <-completions
		inflight--
		if pErr := s.record(q, out, tracker, notifications); pErr != nil {
			close(notifications)
			notifierWG.Wait()
			err = pErr
			return nil, err
		}
		s.reclaimer()
		budget = s.recomputeBudget(ctx)
	}

	close(notifications)
	notifierWG.Wait()

	summary = model.NewSummary(runID, q.Jobs())
	s.logf("run %s: done, %d succeeded, %d failed", runID, summary.Succeeded, summary.Failed)
	return summary, nil
}

// dispatch runs one job on a worker goroutine. All failures, panics
// included, are converted into an outcome; nothing unwinds into the control
// loop.
func (s *Service) dispatch(ctx context.Context, job *model.Job, completions chan<- *outcome) {
	out := &outcome{job: job}
	defer func() {
		if r := recover(); r != nil {
			out.response = nil
			out.err = types.NewResourceExhaustionError(fmt.Errorf("%v", r), "conversion panicked for %s", job.ID)
		}
		completions <- out
	}()

	ctx, span := tracing.StartSpan(ctx, "batch.convert")
	span.WithAttributes(map[string]string{"job.id": job.ID, "job.attempt": fmt.Sprintf("%d", job.Attempts)})

	if err := s.ensureOutputDir(ctx, job.OutputDir); err != nil {
		out.err = err
		tracing.EndSpan(span, err)
		return
	}
	out.response, out.err = s.engine.Convert(ctx, &engine.Request{
		SourcePath: job.SourcePath,
		OutputDir:  job.OutputDir,
		Options:    s.engineOptions,
	})
	tracing.EndSpan(span, out.err)
}

// record applies one completion to the queue, retries the narrow transient
// class once, and emits the terminal progress notification. Returned errors
// are contract violations and abort the run.
func (s *Service) record(q *queue.Queue, out *outcome, tracker *progress.Tracker, notifications chan<- notification) error {
	job := out.job
	if out.err == nil && out.response == nil {
		return types.NewProtocolError("engine returned neither response nor error for job %s", job.ID)
	}
	if out.err == nil {
		result := &model.Result{
			OutputPath: out.response.OutputPath,
			Pages:      out.response.Pages,
			Images:     out.response.Images,
			Duration:   out.response.Duration,
		}
		if err := q.Complete(job.ID, result); err != nil {
			return err
		}
		tracker.Update(progress.Delta{Completed: 1, Succeeded: 1})
		s.notify(notifications, tracker, fmt.Sprintf("converted %s (%d pages)", job.SourcePath, result.Pages))
		return nil
	}

	if err := q.Fail(job.ID, out.err); err != nil {
		return err
	}
	if types.IsMissingOutputDir(out.err) && job.Attempts == 1 {
		if err := q.Requeue(job.ID); err != nil {
			return err
		}
		tracker.Update(progress.Delta{Retried: 1})
		s.logf("job %s: retrying after %v", job.ID, out.err)
		return nil
	}

	tracker.Update(progress.Delta{Completed: 1, Failed: 1})
	s.notify(notifications, tracker, fmt.Sprintf("failed %s: %v", job.SourcePath, out.err))
	if types.KindOf(out.err) == types.KindResourceExhaustion {
		s.logf("job %s: allocation failure, tightening admissions", job.ID)
	}
	return nil
}

// notify emits a progress notification. The channel is sized to the batch,
// so the send never blocks the control loop.
func (s *Service) notify(notifications chan<- notification, tracker *progress.Tracker, description string) {
	snapshot := tracker.Snapshot()
	notifications <- notification{completed: snapshot.Completed, total: snapshot.Total, description: description}
}

// recomputeBudget samples memory and maps the pressure level to a worker
// budget. Called once before the batch starts and again after every
// completion.
func (s *Service) recomputeBudget(ctx context.Context) int {
	sample := s.sampler.Sample(ctx)
	level := s.thresholds.Classify(sample)
	budget := policy.Recommend(level, s.maxWorkers)
	s.logf("memory: system %.1f%% process %.1fMB pressure=%s budget=%d", sample.SystemPercent, sample.ProcessMB(), level, budget)
	return budget
}

// ensureOutputDir creates the job output directory and its images folder.
// Create-if-absent: sibling jobs may race on a shared parent, so an existing
// directory is never an error.
func (s *Service) ensureOutputDir(ctx context.Context, dir string) error {
	for _, location := range []string{dir, url.Join(dir, "images")} {
		exists, err := s.fs.Exists(ctx, location)
		if err != nil {
			return types.NewIOError(err, "failed to check output directory %s", location)
		}
		if exists {
			continue
		}
		if err := s.fs.Create(ctx, location, file.DefaultDirOsMode, true); err != nil {
			if ok, _ := s.fs.Exists(ctx, location); ok {
				continue
			}
			return types.NewMissingOutputDirError(err, location)
		}
	}
	return nil
}

// probeOutputRoot verifies the configured base output root is writable
// before any job is dispatched.
func (s *Service) probeOutputRoot(ctx context.Context) error {
	if s.outputRoot == "" {
		return nil
	}
	if err := s.fs.Create(ctx, s.outputRoot, file.DefaultDirOsMode, true); err != nil {
		if ok, _ := s.fs.Exists(ctx, s.outputRoot); !ok {
			return types.NewConfigurationError("output root %s is not creatable: %v", s.outputRoot, err)
		}
	}
	marker := url.Join(s.outputRoot, ".mdbatch-"+uuid.New().String())
	if err := s.fs.Upload(ctx, marker, file.DefaultFileOsMode, strings.NewReader("")); err != nil {
		return types.NewConfigurationError("output root %s is not writable: %v", s.outputRoot, err)
	}
	_ = s.fs.Delete(ctx, marker)
	return nil
}

// stopped reports whether admission has been cancelled, either explicitly or
// via context.
func (s *Service) stopped(ctx context.Context) bool {
	if s.stopRequested.Load() {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (s *Service) logf(format string, args ...interface{}) {
	if !s.verbose {
		return
	}
	log.Printf(format, args...)
}
