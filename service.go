package mdbatch

import (
	"context"
	"path"
	"runtime"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/viant/mdbatch/config"
	"github.com/viant/mdbatch/engine"
	"github.com/viant/mdbatch/engine/exec"
	"github.com/viant/mdbatch/memory"
	"github.com/viant/mdbatch/model"
	"github.com/viant/mdbatch/model/types"
	"github.com/viant/mdbatch/policy"
	"github.com/viant/mdbatch/progress"
	"github.com/viant/mdbatch/queue"
	"github.com/viant/mdbatch/scheduler"
)

// Service is the batch submission facade: it enumerates sources, builds the
// job queue and hands it to the scheduler.
type Service struct {
	config    *config.Config
	engine    engine.Service
	sampler   memory.Sampler
	reporter  progress.Reporter
	fs        afs.Service
	scheduler *scheduler.Service
}

// New creates a batch service.
func New(options ...Option) (*Service, error) {
	s := &Service{}
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = config.Default()
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.engine == nil {
		if s.config.Engine.Command == "" {
			return nil, types.NewConfigurationError("no engine configured: set engine.command or supply WithEngine")
		}
		s.engine = exec.New(s.config.Engine.Command, s.config.Engine.Args, nil)
	}
	if s.sampler == nil {
		s.sampler = &memory.HostSampler{Timeout: s.config.SampleTimeout()}
	}
	maxWorkers := s.config.MaxWorkers
	if maxWorkers == 0 {
		sample := s.sampler.Sample(context.Background())
		maxWorkers = policy.DefaultMaxWorkers(runtime.NumCPU(), sample.AvailableBytes)
	}
	var err error
	s.scheduler, err = scheduler.New(
		scheduler.WithEngine(s.engine),
		scheduler.WithMaxWorkers(maxWorkers),
		scheduler.WithSampler(s.sampler),
		scheduler.WithThresholds(s.config.Memory.Thresholds),
		scheduler.WithReporter(s.reporter),
		scheduler.WithEngineOptions(s.config.Engine.Options()),
		scheduler.WithOutputRoot(s.config.OutputRoot),
		scheduler.WithFS(s.fs),
		scheduler.WithVerbose(s.config.Verbose),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Run converts the supplied source documents and returns the batch summary.
func (s *Service) Run(ctx context.Context, sources []string) (*model.Summary, error) {
	q := queue.New()
	for _, source := range sources {
		if err := q.Enqueue(model.NewJob(source, s.outputDirFor(source))); err != nil {
			return nil, err
		}
	}
	return s.scheduler.Run(ctx, q)
}

// RunDirectory enumerates documents with the given extension under baseURL
// (non-recursive) and converts them as one batch.
func (s *Service) RunDirectory(ctx context.Context, baseURL, ext string) (*model.Summary, error) {
	if ext == "" {
		ext = ".pdf"
	}
	objects, err := s.fs.List(ctx, baseURL)
	if err != nil {
		return nil, types.NewConfigurationError("failed to list %s: %v", baseURL, err)
	}
	var sources []string
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(strings.ToLower(object.Name()), strings.ToLower(ext)) {
			continue
		}
		sources = append(sources, object.URL())
	}
	if len(sources) == 0 {
		return nil, types.NewConfigurationError("no %s documents found under %s", ext, baseURL)
	}
	return s.Run(ctx, sources)
}

// Stop requests stop-admitting cancellation of the current run.
func (s *Service) Stop() {
	s.scheduler.Stop()
}

// outputDirFor derives a job output directory: <root>/<stem>_md when an
// output root is configured, a sibling <stem>_md directory otherwise.
func (s *Service) outputDirFor(source string) string {
	parent, name := url.Split(source, file.Scheme)
	if ext := path.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}
	if s.config.OutputRoot != "" {
		parent = s.config.OutputRoot
	}
	return url.Join(parent, name+"_md")
}

// compile-time check that the host sampler satisfies the telemetry contract
var _ memory.Sampler = (*memory.HostSampler)(nil)
