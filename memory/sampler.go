package memory

import (
	"context"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/viant/mdbatch/internal/clock"
)

// Sampler produces memory samples on demand. Implementations must be
// stateless and safe for concurrent use.
type Sampler interface {
	Sample(ctx context.Context) Sample
}

// SamplerFunc adapts a function to the Sampler interface.
type SamplerFunc func(ctx context.Context) Sample

// Sample implements Sampler.
func (f SamplerFunc) Sample(ctx context.Context) Sample { return f(ctx) }

// HostSampler reads process resident memory and system-wide utilisation from
// the host. Queries are bounded by Timeout; on any failure a sentinel sample
// is returned instead of an error.
type HostSampler struct {
	Timeout time.Duration
}

// DefaultSampleTimeout bounds a single host memory query.
const DefaultSampleTimeout = 250 * time.Millisecond

// NewHostSampler creates a host sampler with the default query timeout.
func NewHostSampler() *HostSampler {
	return &HostSampler{Timeout: DefaultSampleTimeout}
}

// Sample queries the host. It never blocks beyond the configured timeout and
// never fails: telemetry outages degrade to a sentinel sample.
func (s *HostSampler) Sample(ctx context.Context) Sample {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultSampleTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ret := Sample{At: clock.Now()}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		ret.Sentinel = true
		return ret
	}
	ret.SystemPercent = vm.UsedPercent
	ret.AvailableBytes = vm.Available

	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		ret.Sentinel = true
		return ret
	}
	info, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		ret.Sentinel = true
		return ret
	}
	ret.ProcessBytes = info.RSS
	return ret
}
