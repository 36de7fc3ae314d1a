package mdbatch

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/viant/mdbatch/config"
	"github.com/viant/mdbatch/engine"
	"github.com/viant/mdbatch/memory"
	"github.com/viant/mdbatch/model/types"
	"github.com/viant/mdbatch/progress"
)

func okEngine() engine.Service {
	return engine.ServiceFunc(func(ctx context.Context, request *engine.Request) (*engine.Response, error) {
		return &engine.Response{OutputPath: request.OutputDir + "/out.md", Pages: 3}, nil
	})
}

func lowPressure() memory.Sampler {
	return memory.SamplerFunc(func(ctx context.Context) memory.Sample {
		return memory.Sample{SystemPercent: 10}
	})
}

func TestService_Run(t *testing.T) {
	var last string
	reporter := progress.ReporterFunc(func(completed, total int, description string) { last = description })

	service, err := New(
		WithEngine(okEngine()),
		WithSampler(lowPressure()),
		WithReporter(reporter),
	)
	require.NoError(t, err)

	sources := []string{
		"mem://localhost/facade/docs/a.pdf",
		"mem://localhost/facade/docs/b.pdf",
	}
	summary, err := service.Run(context.Background(), sources)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Submitted)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 6, summary.TotalPages)
	assert.NotEmpty(t, last)

	// sibling <stem>_md layout when no output root is configured
	assert.Equal(t, "mem://localhost/facade/docs/a_md", summary.Jobs[0].OutputDir)
}

func TestService_RunWithOutputRoot(t *testing.T) {
	cfg := config.Default()
	cfg.OutputRoot = "mem://localhost/facade_root/out"
	service, err := New(
		WithConfig(cfg),
		WithEngine(okEngine()),
		WithSampler(lowPressure()),
	)
	require.NoError(t, err)

	summary, err := service.Run(context.Background(), []string{"mem://localhost/facade_root/docs/a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "mem://localhost/facade_root/out/a_md", summary.Jobs[0].OutputDir)
}

func TestService_RunDirectory(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	for _, name := range []string{"one.pdf", "two.PDF", "skip.txt"} {
		require.NoError(t, fs.Upload(ctx, "mem://localhost/facade_dir/docs/"+name, file.DefaultFileOsMode, strings.NewReader("x")))
	}

	service, err := New(
		WithEngine(okEngine()),
		WithSampler(lowPressure()),
		WithFS(fs),
	)
	require.NoError(t, err)

	summary, err := service.RunDirectory(ctx, "mem://localhost/facade_dir/docs", ".pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Submitted)

	_, err = service.RunDirectory(ctx, "mem://localhost/facade_dir/docs", ".docx")
	require.Error(t, err)
}

func TestService_AutoDetectsWorkers(t *testing.T) {
	var inflight, maxInflight int32
	eng := engine.ServiceFunc(func(ctx context.Context, request *engine.Request) (*engine.Response, error) {
		current := atomic.AddInt32(&inflight, 1)
		for {
			observed := atomic.LoadInt32(&maxInflight)
			if current <= observed || atomic.CompareAndSwapInt32(&maxInflight, observed, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inflight, -1)
		return &engine.Response{OutputPath: request.OutputDir + "/out.md"}, nil
	})

	// 1GB available caps the auto-detected ceiling at one worker on any host
	sampler := memory.SamplerFunc(func(ctx context.Context) memory.Sample {
		return memory.Sample{SystemPercent: 10, AvailableBytes: 1 << 30}
	})

	service, err := New(WithEngine(eng), WithSampler(sampler))
	require.NoError(t, err)

	sources := []string{
		"mem://localhost/facade_auto/docs/a.pdf",
		"mem://localhost/facade_auto/docs/b.pdf",
		"mem://localhost/facade_auto/docs/c.pdf",
	}
	summary, err := service.Run(context.Background(), sources)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInflight))
}

func TestService_RequiresEngineOrCommand(t *testing.T) {
	_, err := New()
	require.Error(t, err)
	assert.Equal(t, types.KindConfiguration, types.KindOf(err))

	cfg := config.Default()
	cfg.Engine.Command = "pdf2md"
	service, err := New(WithConfig(cfg))
	require.NoError(t, err)
	assert.NotNil(t, service)
}

func TestService_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxWorkers = -1
	_, err := New(WithConfig(cfg), WithEngine(okEngine()))
	require.Error(t, err)
	assert.Equal(t, types.KindConfiguration, types.KindOf(err))
}
