package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rampocr/internal/readout"
)

func testReading(frame int, timeSec, current, mps, mag float64) readout.Reading {
	return readout.Reading{
		Frame:      frame,
		TimeSec:    timeSec,
		Current:    current,
		MPSVolts:   mps,
		MAGVolts:   mag,
		TimeString: readout.SecondsToTimeString(timeSec),
	}
}

func TestValidateRangeChecks(t *testing.T) {
	lim := DefaultLimits()

	tests := []struct {
		name    string
		reading readout.Reading
		wantOK  bool
	}{
		{"nominal", testReading(0, 10, 100, 1.0, -0.5), true},
		{"current at max is inclusive", testReading(0, 10, lim.CurrentMax, 1.0, 1.0), true},
		{"current at min is inclusive", testReading(0, 10, lim.CurrentMin, 1.0, 1.0), true},
		{"current above max", testReading(0, 10, lim.CurrentMax+1, 1.0, 1.0), false},
		{"current below min", testReading(0, 10, lim.CurrentMin-1, 1.0, 1.0), false},
		{"mps above max", testReading(0, 10, 100, lim.VoltageMax+0.1, 1.0), false},
		{"mag below min", testReading(0, 10, 100, 1.0, lim.VoltageMin-0.1), false},
		{"voltage at bounds", testReading(0, 10, 100, lim.VoltageMax, lim.VoltageMin), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.reading, 30.0, lim, nil, 0)
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateTimeConsistencyDisabledByDefault(t *testing.T) {
	lim := DefaultLimits()
	require.False(t, lim.TimeConsistencyCheck)

	prev := testReading(0, 1000, 100, 1, 1)
	backwards := testReading(30, 500, 100, 1, 1)

	// Backwards time passes while the rule is off.
	assert.NoError(t, Validate(backwards, 30.0, lim, &prev, 0))
}

func TestValidateTimeConsistency(t *testing.T) {
	lim := DefaultLimits()
	lim.TimeConsistencyCheck = true
	fps := 30.0
	prev := testReading(0, 100, 100, 1, 1)

	t.Run("backwards time rejected", func(t *testing.T) {
		r := testReading(30, 99, 100, 1, 1)
		assert.ErrorContains(t, Validate(r, fps, lim, &prev, 0), "backwards")
	})

	t.Run("expected gap accepted", func(t *testing.T) {
		// 30 frames at 30 fps = 1s expected; display shows exactly 1s.
		r := testReading(30, 101, 100, 1, 1)
		assert.NoError(t, Validate(r, fps, lim, &prev, 0))
	})

	t.Run("gap outside tolerance rejected", func(t *testing.T) {
		// Actual delta 1.8s vs expected 1s exceeds the 0.5s tolerance,
		// but stays below the default 2s pause cutoff.
		r := testReading(30, 101.8, 100, 1, 1)
		assert.ErrorContains(t, Validate(r, fps, lim, &prev, 0), "inconsistency")
	})

	t.Run("gap beyond pause threshold accepted", func(t *testing.T) {
		r := testReading(30, 200, 100, 1, 1)
		assert.NoError(t, Validate(r, fps, lim, &prev, 50))
	})

	t.Run("default pause cutoff without estimate", func(t *testing.T) {
		// No estimated threshold: anything above 2x expected gap counts
		// as a pause.
		r := testReading(30, 150, 100, 1, 1)
		assert.NoError(t, Validate(r, fps, lim, &prev, 0))
	})

	t.Run("no previous reading", func(t *testing.T) {
		r := testReading(30, 5, 100, 1, 1)
		assert.NoError(t, Validate(r, fps, lim, nil, 0))
	})
}

func TestLimitsCheck(t *testing.T) {
	assert.NoError(t, DefaultLimits().Check())

	bad := DefaultLimits()
	bad.CurrentMin, bad.CurrentMax = 100, 100
	assert.Error(t, bad.Check())

	bad = DefaultLimits()
	bad.VoltageMin, bad.VoltageMax = 5, -5
	assert.Error(t, bad.Check())
}
