// Package extract implements the frame-sampling extraction pipeline: target
// frame selection, per-frame validation, fallback search around unreadable
// frames, and experiment time-range estimation.
//
// The package is deliberately decoupled from video decoding and OCR: it
// consumes a TextSource and works purely on the recognized text.
package extract

import "errors"

// TextSource yields the OCR text for the instrument readout region of one
// video frame. Implementations are expected to be stateful (video seeking)
// and are not safe for concurrent use. A read that produces no usable text
// may return either an error or an empty string; both count as a per-frame
// failure.
type TextSource interface {
	TextAt(frame int) (string, error)
}

// ErrFrameFailed indicates no valid reading was obtained for a target frame,
// its fallback radius included.
var ErrFrameFailed = errors.New("extract: no valid reading within fallback radius")
