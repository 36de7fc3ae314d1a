package mdbatch

import (
	"github.com/viant/afs"

	"github.com/viant/mdbatch/config"
	"github.com/viant/mdbatch/engine"
	"github.com/viant/mdbatch/memory"
	"github.com/viant/mdbatch/progress"
)

// Option customises the batch service.
type Option func(s *Service)

// WithConfig sets the run configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) { s.config = cfg }
}

// WithEngine overrides the conversion engine. When unset an exec-backed
// engine is built from the configured converter command.
func WithEngine(svc engine.Service) Option {
	return func(s *Service) { s.engine = svc }
}

// WithSampler overrides the memory telemetry source.
func WithSampler(sampler memory.Sampler) Option {
	return func(s *Service) { s.sampler = sampler }
}

// WithReporter sets the progress reporter.
func WithReporter(reporter progress.Reporter) Option {
	return func(s *Service) { s.reporter = reporter }
}

// WithFS overrides the file storage service.
func WithFS(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}
