// Package memory provides host memory telemetry and the pressure
// classification that drives the batch concurrency budget.
package memory

import "time"

// Sample is an immutable point-in-time view of process and system memory.
// Sentinel samples are produced when the host query fails; they classify as
// Medium pressure so a telemetry outage neither opens the floodgates nor
// stalls the batch.
type Sample struct {
	At             time.Time
	ProcessBytes   uint64
	AvailableBytes uint64
	SystemPercent  float64
	Sentinel       bool
}

// ProcessMB returns the process resident size in megabytes.
func (s Sample) ProcessMB() float64 {
	return float64(s.ProcessBytes) / (1024 * 1024)
}
