// Package clock pins the wall clock used for job and batch timestamps.
package clock

import "time"

// NowFunc supplies the current time; tests override it for determinism.
var NowFunc = time.Now

// Now returns the engine's view of the current time.
func Now() time.Time { return NowFunc() }
