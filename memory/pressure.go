package memory

import "fmt"

// Level is an ordinal memory pressure classification.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
	LevelCritical
)

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	case LevelCritical:
		return "critical"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Thresholds defines the lower bounds of the Medium, High and Critical bands
// as system memory percentages. The four bands are contiguous and partition
// [0,100]: Low < Medium, Medium ≤ p < High, High ≤ p < Critical, Critical ≤ p.
type Thresholds struct {
	Medium   float64 `json:"medium" yaml:"medium"`
	High     float64 `json:"high" yaml:"high"`
	Critical float64 `json:"critical" yaml:"critical"`
}

// DefaultThresholds returns the standard 50/75/90 bands.
func DefaultThresholds() Thresholds {
	return Thresholds{Medium: 50, High: 75, Critical: 90}
}

// Validate returns an error when the bands are not strictly increasing within
// (0,100].
func (t Thresholds) Validate() error {
	if t.Medium <= 0 || t.Medium >= t.High || t.High >= t.Critical || t.Critical > 100 {
		return fmt.Errorf("invalid pressure thresholds: medium=%v high=%v critical=%v", t.Medium, t.High, t.Critical)
	}
	return nil
}

// Classify maps a sample to a pressure level. Pure and total: identical
// inputs always yield identical outputs, and every percentage in [0,100]
// falls into exactly one band. Sentinel samples classify as Medium.
func (t Thresholds) Classify(sample Sample) Level {
	if sample.Sentinel {
		return LevelMedium
	}
	switch p := sample.SystemPercent; {
	case p >= t.Critical:
		return LevelCritical
	case p >= t.High:
		return LevelHigh
	case p >= t.Medium:
		return LevelMedium
	default:
		return LevelLow
	}
}
