// Package clean post-processes an extracted reading series: physically
// implausible points, backwards-time artifacts, rate-of-change spikes, and
// isolated single-frame misreads are removed, then the surviving channels
// are median-smoothed. Filtering only ever removes points.
package clean

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"rampocr/internal/readout"
)

// Physical plausibility bounds. These are hard limits of the instrument, not
// the run's configurable validation limits.
const (
	currentFloor = -10.0
	currentCeil  = 600.0
	voltageFloor = -10.0
	voltageCeil  = 12.0
)

// Time-monotonicity limits between consecutive surviving points.
const (
	maxBackwardsJumpSec = -10.0 // small backwards noise tolerated, beyond this the later point goes
	maxForwardJumpSec   = 300.0 // larger forward jumps are misreads, not pauses
)

// Rate-of-change limits.
const (
	maxCurrentRate = 50.0 // A/s
	maxVoltageRate = 5.0  // V/s, per channel
)

// Isolated-outlier thresholds: a point is dropped when it differs from both
// neighbors by more than "big" on a channel while the neighbors agree within
// "small".
const (
	currentSpikeBig   = 100.0
	currentSpikeSmall = 50.0
	voltageSpikeBig   = 2.0
	voltageSpikeSmall = 1.0
)

const (
	medianWindow       = 3
	minSmoothingPoints = 4
)

// StageCounts reports how many points each stage removed.
type StageCounts struct {
	Input           int
	RangeRemoved    int
	TimeRemoved     int
	RateRemoved     int
	OutliersRemoved int
	Output          int
}

// Series runs the full cleaning pass over a time-ordered reading series and
// returns the cleaned series plus per-stage removal counts. Each surviving
// record keeps its source frame and precise-time metadata; the coarse
// "HH:MM:SS" string is recomputed from the (truncated) elapsed seconds.
func Series(readings []readout.Reading) ([]readout.Reading, StageCounts) {
	counts := StageCounts{Input: len(readings)}

	survivors := filterRange(readings)
	counts.RangeRemoved = len(readings) - len(survivors)

	n := len(survivors)
	survivors = filterTimeJumps(survivors)
	counts.TimeRemoved = n - len(survivors)

	n = len(survivors)
	survivors = filterRates(survivors)
	counts.RateRemoved = n - len(survivors)

	n = len(survivors)
	survivors = filterIsolatedOutliers(survivors)
	counts.OutliersRemoved = n - len(survivors)

	cleaned := smooth(survivors)
	for i := range cleaned {
		cleaned[i].TimeString = readout.SecondsToTimeString(cleaned[i].TimeSec)
	}

	counts.Output = len(cleaned)
	return cleaned, counts
}

// filterRange drops points outside the instrument's physical range.
func filterRange(in []readout.Reading) []readout.Reading {
	out := make([]readout.Reading, 0, len(in))
	for _, r := range in {
		if r.Current < currentFloor || r.Current > currentCeil {
			continue
		}
		if r.MPSVolts < voltageFloor || r.MPSVolts > voltageCeil {
			continue
		}
		if r.MAGVolts < voltageFloor || r.MAGVolts > voltageCeil {
			continue
		}
		out = append(out, r)
	}
	return out
}

// filterTimeJumps drops the later point of any consecutive surviving pair
// whose elapsed-time delta moved materially backwards or jumped implausibly
// far forward. Comparison is always against the last kept point.
func filterTimeJumps(in []readout.Reading) []readout.Reading {
	if len(in) < 2 {
		return in
	}

	out := in[:1]
	for _, r := range in[1:] {
		dt := r.TimeSec - out[len(out)-1].TimeSec
		if dt < maxBackwardsJumpSec || dt > maxForwardJumpSec {
			continue
		}
		out = append(out, r)
	}
	return out
}

// filterRates drops the later point of any pair whose per-second rate of
// change exceeds the channel limits. A zero time delta counts as one second
// so that same-display-second samples are judged on the raw value step.
func filterRates(in []readout.Reading) []readout.Reading {
	if len(in) < 2 {
		return in
	}

	out := in[:1]
	for _, r := range in[1:] {
		prev := out[len(out)-1]
		dt := r.TimeSec - prev.TimeSec
		if dt == 0 {
			dt = 1.0
		}
		if rate(r.Current, prev.Current, dt) > maxCurrentRate ||
			rate(r.MPSVolts, prev.MPSVolts, dt) > maxVoltageRate ||
			rate(r.MAGVolts, prev.MAGVolts, dt) > maxVoltageRate {
			continue
		}
		out = append(out, r)
	}
	return out
}

func rate(v, prev, dt float64) float64 {
	d := v - prev
	if d < 0 {
		d = -d
	}
	if dt < 0 {
		dt = -dt
	}
	return d / dt
}

// filterIsolatedOutliers drops interior points that differ sharply from both
// immediate neighbors while the neighbors agree with each other, the
// signature of a single-frame misread. The mask is computed over the current
// survivors before anything is removed, so one outlier cannot shield the
// next.
func filterIsolatedOutliers(in []readout.Reading) []readout.Reading {
	if len(in) < 3 {
		return in
	}

	drop := make([]bool, len(in))
	for i := 1; i < len(in)-1; i++ {
		prev, p, next := in[i-1], in[i], in[i+1]
		if isolated(p.Current, prev.Current, next.Current, currentSpikeBig, currentSpikeSmall) ||
			isolated(p.MPSVolts, prev.MPSVolts, next.MPSVolts, voltageSpikeBig, voltageSpikeSmall) ||
			isolated(p.MAGVolts, prev.MAGVolts, next.MAGVolts, voltageSpikeBig, voltageSpikeSmall) {
			drop[i] = true
		}
	}

	out := make([]readout.Reading, 0, len(in))
	for i, r := range in {
		if !drop[i] {
			out = append(out, r)
		}
	}
	return out
}

func isolated(v, prev, next, big, small float64) bool {
	return abs(v-prev) > big && abs(v-next) > big && abs(prev-next) < small
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// smooth applies a centered moving median of window 3 to each channel. Edge
// windows shrink rather than wrap. Series shorter than four points pass
// through unchanged.
func smooth(in []readout.Reading) []readout.Reading {
	out := make([]readout.Reading, len(in))
	copy(out, in)
	if len(in) < minSmoothingPoints {
		return out
	}

	half := medianWindow / 2
	for i := range in {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(in) {
			hi = len(in)
		}

		out[i].Current = windowMedian(in[lo:hi], func(r readout.Reading) float64 { return r.Current })
		out[i].MPSVolts = windowMedian(in[lo:hi], func(r readout.Reading) float64 { return r.MPSVolts })
		out[i].MAGVolts = windowMedian(in[lo:hi], func(r readout.Reading) float64 { return r.MAGVolts })
	}
	return out
}

func windowMedian(window []readout.Reading, value func(readout.Reading) float64) float64 {
	vals := make([]float64, len(window))
	for i, r := range window {
		vals[i] = value(r)
	}
	sort.Float64s(vals)
	return stat.Quantile(0.5, stat.Empirical, vals, nil)
}
