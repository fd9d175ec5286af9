package extract

import (
	"fmt"
	"math"

	"rampocr/internal/readout"
)

// Default validation limits, matching the MPS ramp supply's physical range.
const (
	DefaultCurrentMin       = -10.0
	DefaultCurrentMax       = 600.0
	DefaultVoltageMin       = -10.0
	DefaultVoltageMax       = 15.0
	DefaultTimeToleranceSec = 0.5
)

// Limits holds the acceptance bounds for a single reading.
type Limits struct {
	CurrentMin float64
	CurrentMax float64
	VoltageMin float64
	VoltageMax float64

	// TimeToleranceSec is the allowed mismatch between the display's
	// elapsed-time delta and the delta expected from the frame gap. Only
	// used when TimeConsistencyCheck is on.
	TimeToleranceSec float64

	// TimeConsistencyCheck enables rejection of readings whose elapsed
	// time disagrees with the previous accepted reading.
	TimeConsistencyCheck bool
}

// DefaultLimits returns the limits used when a config supplies none.
func DefaultLimits() Limits {
	return Limits{
		CurrentMin:       DefaultCurrentMin,
		CurrentMax:       DefaultCurrentMax,
		VoltageMin:       DefaultVoltageMin,
		VoltageMax:       DefaultVoltageMax,
		TimeToleranceSec: DefaultTimeToleranceSec,
	}
}

// Check verifies the limits themselves are coherent. Min >= max makes every
// validation outcome meaningless, so it is fatal for the run.
func (l Limits) Check() error {
	if l.CurrentMin >= l.CurrentMax {
		return fmt.Errorf("current limits invalid: min %.2f >= max %.2f", l.CurrentMin, l.CurrentMax)
	}
	if l.VoltageMin >= l.VoltageMax {
		return fmt.Errorf("voltage limits invalid: min %.2f >= max %.2f", l.VoltageMin, l.VoltageMax)
	}
	return nil
}

// Validate accepts or rejects one parsed reading.
//
// The range checks on current and both voltages are unconditional; bounds
// are inclusive. The time-consistency check against the previous accepted
// reading only runs when enabled in the limits: time must never move
// backwards, and unless the gap is large enough to be a recording pause
// (pauseThreshold, or twice the expected gap when no threshold was
// estimated) the actual delta must match the frame gap's expected delta
// within TimeToleranceSec.
//
// Returns nil on acceptance, or an error describing the first rule that
// failed. A pauseThreshold of 0 means none was estimated.
func Validate(r readout.Reading, fps float64, lim Limits, prev *readout.Reading, pauseThreshold float64) error {
	if r.Current < lim.CurrentMin || r.Current > lim.CurrentMax {
		return fmt.Errorf("current %.2fA out of range [%.2f, %.2f]", r.Current, lim.CurrentMin, lim.CurrentMax)
	}
	if r.MPSVolts < lim.VoltageMin || r.MPSVolts > lim.VoltageMax {
		return fmt.Errorf("MPS voltage %.4fV out of range [%.2f, %.2f]", r.MPSVolts, lim.VoltageMin, lim.VoltageMax)
	}
	if r.MAGVolts < lim.VoltageMin || r.MAGVolts > lim.VoltageMax {
		return fmt.Errorf("MAG voltage %.4fV out of range [%.2f, %.2f]", r.MAGVolts, lim.VoltageMin, lim.VoltageMax)
	}

	if !lim.TimeConsistencyCheck || prev == nil {
		return nil
	}

	if r.TimeSec < prev.TimeSec {
		return fmt.Errorf("time went backwards: %.0fs -> %.0fs", prev.TimeSec, r.TimeSec)
	}

	expected := float64(r.Frame-prev.Frame) / fps
	actual := r.TimeSec - prev.TimeSec

	// A gap beyond the pause threshold is a legitimate recording pause;
	// only the backwards check applies then.
	pause := pauseThreshold
	if pause <= 0 {
		pause = expected * 2
	}
	if actual > pause {
		return nil
	}

	// The display updates at one-second granularity, hence the tolerance.
	if diff := math.Abs(actual - expected); diff > lim.TimeToleranceSec {
		return fmt.Errorf("time inconsistency: expected diff %.2fs, actual diff %.2fs, error %.2fs",
			expected, actual, diff)
	}

	return nil
}
