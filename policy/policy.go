// Package policy holds the pure concurrency decisions for a batch run. The
// heuristics live here, in one table, independently testable from telemetry
// and scheduling.
package policy

import "github.com/viant/mdbatch/memory"

// Recommend maps a pressure level and the configured maximum to a worker
// budget. Critical serialises the batch, High halves it, Medium and Low run
// at the configured maximum. The result is always within [1, maxWorkers].
func Recommend(level memory.Level, maxWorkers int) int {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	switch level {
	case memory.LevelCritical:
		return 1
	case memory.LevelHigh:
		if half := maxWorkers / 2; half > 1 {
			return half
		}
		return 1
	default:
		return maxWorkers
	}
}

// DefaultMaxWorkers derives a worker ceiling from physical core count and
// available memory, budgeting roughly 2GB per conversion worker. A zero
// availableBytes means memory telemetry is unavailable and only the core
// count applies. The floor is 1 so a constrained host still makes progress.
func DefaultMaxWorkers(physicalCores int, availableBytes uint64) int {
	const bytesPerWorker = 2 << 30
	ret := physicalCores
	if availableBytes > 0 {
		if memBased := int(availableBytes / bytesPerWorker); memBased < ret {
			ret = memBased
		}
	}
	if ret < 1 {
		ret = 1
	}
	return ret
}
