package extract

import (
	"rampocr/internal/readout"
)

// DefaultFallbackRadius is how far from a target frame the reader searches
// before giving up on that target.
const DefaultFallbackRadius = 5

// Attempt records where a target frame's reading actually came from.
type Attempt struct {
	Target  int
	Offset  int // signed distance from Target; 0 when the target itself parsed
	Reading readout.Reading
}

// UsedFallback reports whether a neighboring frame stood in for the target.
func (a Attempt) UsedFallback() bool {
	return a.Offset != 0
}

// Reader obtains one validated reading per target frame, falling back to
// neighboring frames when the target is unreadable or rejected.
type Reader struct {
	Source    TextSource
	FPS       float64
	Limits    Limits
	MaxRadius int
}

// Read tries the target frame, then its neighbors in the order +1, -1, +2,
// -2, ... out to MaxRadius, returning the first frame that yields a valid
// reading. The later frame is preferred at equal distance: a display that
// has not updated yet is more likely than one that updated early. Frames
// below 0 are skipped. Returns ErrFrameFailed when the radius is exhausted.
func (fr *Reader) Read(target int, prev *readout.Reading, pauseThreshold float64) (Attempt, error) {
	if r, ok := fr.tryFrame(target, prev, pauseThreshold); ok {
		return Attempt{Target: target, Reading: r}, nil
	}

	for offset := 1; offset <= fr.MaxRadius; offset++ {
		if r, ok := fr.tryFrame(target+offset, prev, pauseThreshold); ok {
			return Attempt{Target: target, Offset: offset, Reading: r}, nil
		}

		if before := target - offset; before >= 0 {
			if r, ok := fr.tryFrame(before, prev, pauseThreshold); ok {
				return Attempt{Target: target, Offset: -offset, Reading: r}, nil
			}
		}
	}

	return Attempt{}, ErrFrameFailed
}

// tryFrame reads, parses, and validates a single frame. Decode and OCR
// failures are indistinguishable from validation rejections here; either way
// the frame contributes nothing.
func (fr *Reader) tryFrame(frame int, prev *readout.Reading, pauseThreshold float64) (readout.Reading, bool) {
	text, err := fr.Source.TextAt(frame)
	if err != nil {
		return readout.Reading{}, false
	}

	fields, err := readout.Parse(text)
	if err != nil {
		return readout.Reading{}, false
	}

	r := readout.NewReading(frame, fr.FPS, fields)
	if err := Validate(r, fr.FPS, fr.Limits, prev, pauseThreshold); err != nil {
		return readout.Reading{}, false
	}

	return r, true
}
