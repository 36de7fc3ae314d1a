package scheduler

import (
	"runtime"
	"runtime/debug"
)

// Reclaimer releases job-local memory after a conversion finishes. It runs
// on every exit path, success or failure, so peak resident memory stays
// bounded across a long batch where job sizes vary wildly.
type Reclaimer func()

// DefaultReclaimer forces a collection and returns freed pages to the OS
// immediately instead of waiting for opportunistic collection.
func DefaultReclaimer() {
	runtime.GC()
	debug.FreeOSMemory()
}
