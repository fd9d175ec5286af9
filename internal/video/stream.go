package video

import (
	"rampocr/internal/ocr"
	"rampocr/pkg/geometry"
)

// Stream composes a video and an OCR engine into the text source the
// extraction pipeline consumes: seek, crop the readout region, recognize.
type Stream struct {
	video  *Video
	engine *ocr.Engine
	roi    geometry.RectInt
}

// NewStream creates a Stream over an opened video. The ROI is fixed for the
// stream's lifetime; the caller retains ownership of video and engine.
func NewStream(v *Video, engine *ocr.Engine, roi geometry.RectInt) *Stream {
	return &Stream{video: v, engine: engine, roi: roi}
}

// TextAt reads one frame and returns the OCR text of its readout region.
func (s *Stream) TextAt(frame int) (string, error) {
	img, err := s.video.FrameAt(frame)
	if err != nil {
		return "", err
	}
	defer img.Close()

	return s.engine.RecognizeRegion(img, s.roi)
}
