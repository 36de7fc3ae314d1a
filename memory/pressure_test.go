package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThresholds_Classify(t *testing.T) {
	thresholds := DefaultThresholds()

	testCases := []struct {
		description string
		percent     float64
		expect      Level
	}{
		{description: "empty host", percent: 0, expect: LevelLow},
		{description: "just under medium", percent: 49.9, expect: LevelLow},
		{description: "medium lower bound", percent: 50, expect: LevelMedium},
		{description: "mid medium", percent: 74.9, expect: LevelMedium},
		{description: "high lower bound", percent: 75, expect: LevelHigh},
		{description: "just under critical", percent: 89.9, expect: LevelHigh},
		{description: "critical lower bound", percent: 90, expect: LevelCritical},
		{description: "saturated host", percent: 100, expect: LevelCritical},
	}
	for _, testCase := range testCases {
		actual := thresholds.Classify(Sample{SystemPercent: testCase.percent})
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

// every percentage in [0,100] falls into exactly one band, and the bands are
// ordered
func TestThresholds_ClassifyPartition(t *testing.T) {
	thresholds := DefaultThresholds()
	previous := LevelLow
	for p := 0.0; p <= 100.0; p += 0.5 {
		level := thresholds.Classify(Sample{SystemPercent: p})
		assert.GreaterOrEqual(t, level, LevelLow)
		assert.LessOrEqual(t, level, LevelCritical)
		assert.GreaterOrEqual(t, level, previous, "classification must be monotonic in %v", p)
		previous = level
	}
}

func TestThresholds_ClassifySentinel(t *testing.T) {
	thresholds := DefaultThresholds()
	// a failed host query must be neither permissive nor restrictive
	assert.Equal(t, LevelMedium, thresholds.Classify(Sample{Sentinel: true, SystemPercent: 99}))
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())
	assert.Error(t, Thresholds{Medium: 0, High: 75, Critical: 90}.Validate())
	assert.Error(t, Thresholds{Medium: 80, High: 75, Critical: 90}.Validate())
	assert.Error(t, Thresholds{Medium: 50, High: 75, Critical: 101}.Validate())
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "low", LevelLow.String())
	assert.Equal(t, "critical", LevelCritical.String())
}
