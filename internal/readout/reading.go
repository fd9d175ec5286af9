// Package readout turns OCR text from the instrument display into typed
// readings.
package readout

import "fmt"

// Fields holds the four values shown by the MPS display, as recovered from
// one frame's OCR text.
type Fields struct {
	Current    float64 // ACTUAL CURRENT, amperes
	MPSVolts   float64 // MPS VOLTS
	MAGVolts   float64 // MAG VOLTS
	TimeString string  // Elapsed Time, "HH:MM:SS"
}

// Reading is one timestamped sample extracted from a video frame.
// Immutable once constructed.
type Reading struct {
	Frame          int     `json:"frame"`
	TimeSec        float64 `json:"time_sec"`         // from the display's elapsed-time string
	TimeSecPrecise float64 `json:"time_sec_precise"` // frame / fps
	TimeMS         int     `json:"time_ms"`          // millisecond remainder of TimeSecPrecise
	Current        float64 `json:"current_A"`
	MPSVolts       float64 `json:"mps_V"`
	MAGVolts       float64 `json:"mag_V"`
	TimeString     string  `json:"time"`
}

// NewReading builds a Reading from parsed fields and the frame it came from.
func NewReading(frame int, fps float64, f Fields) Reading {
	precise, ms := TimeFromFrame(frame, fps)
	return Reading{
		Frame:          frame,
		TimeSec:        TimeStringToSeconds(f.TimeString),
		TimeSecPrecise: precise,
		TimeMS:         ms,
		Current:        f.Current,
		MPSVolts:       f.MPSVolts,
		MAGVolts:       f.MAGVolts,
		TimeString:     f.TimeString,
	}
}

// String returns a compact one-line summary for logs.
func (r Reading) String() string {
	return fmt.Sprintf("frame %d %s: %.2fA mps=%.4fV mag=%.4fV",
		r.Frame, r.TimeString, r.Current, r.MPSVolts, r.MAGVolts)
}
