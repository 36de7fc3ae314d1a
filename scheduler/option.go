package scheduler

import (
	"github.com/viant/afs"

	"github.com/viant/mdbatch/engine"
	"github.com/viant/mdbatch/memory"
	"github.com/viant/mdbatch/progress"
)

// Option customises a scheduler service.
type Option func(s *Service)

// WithEngine sets the conversion engine. Required.
func WithEngine(svc engine.Service) Option {
	return func(s *Service) { s.engine = svc }
}

// WithMaxWorkers sets the concurrency ceiling.
func WithMaxWorkers(maxWorkers int) Option {
	return func(s *Service) { s.maxWorkers = maxWorkers }
}

// WithSampler sets the memory telemetry source.
func WithSampler(sampler memory.Sampler) Option {
	return func(s *Service) { s.sampler = sampler }
}

// WithThresholds sets the pressure classification bands.
func WithThresholds(thresholds memory.Thresholds) Option {
	return func(s *Service) { s.thresholds = thresholds }
}

// WithReporter sets the progress reporter.
func WithReporter(reporter progress.Reporter) Option {
	return func(s *Service) { s.reporter = reporter }
}

// WithReclaimer overrides the post-job memory reclamation step.
func WithReclaimer(reclaimer Reclaimer) Option {
	return func(s *Service) { s.reclaimer = reclaimer }
}

// WithEngineOptions sets the per-request conversion options.
func WithEngineOptions(options engine.Options) Option {
	return func(s *Service) { s.engineOptions = options }
}

// WithOutputRoot sets the base output root probed for writability before the
// batch starts.
func WithOutputRoot(root string) Option {
	return func(s *Service) { s.outputRoot = root }
}

// WithFS overrides the file storage service.
func WithFS(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithVerbose enables debug logging for this scheduler instance only; no
// process-wide level is touched.
func WithVerbose(verbose bool) Option {
	return func(s *Service) { s.verbose = verbose }
}
