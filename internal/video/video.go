// Package video wraps gocv video capture with frame-accurate seeking.
package video

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Metadata describes an opened video.
type Metadata struct {
	Width      int
	Height     int
	FPS        float64
	FrameCount int
}

// Video is an opened video file. Seeking is stateful, so a Video is not safe
// for concurrent use.
type Video struct {
	path string
	cap  *gocv.VideoCapture
	meta Metadata
}

// Open opens a video file and reads its metadata.
func Open(path string) (*Video, error) {
	cap, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("could not open video %s: %w", path, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("could not open video %s", path)
	}

	meta := Metadata{
		Width:      int(cap.Get(gocv.VideoCaptureFrameWidth)),
		Height:     int(cap.Get(gocv.VideoCaptureFrameHeight)),
		FPS:        cap.Get(gocv.VideoCaptureFPS),
		FrameCount: int(cap.Get(gocv.VideoCaptureFrameCount)),
	}
	if meta.FPS <= 0 || meta.FrameCount <= 0 {
		cap.Close()
		return nil, fmt.Errorf("video %s: unusable metadata (fps=%.3f frames=%d)",
			path, meta.FPS, meta.FrameCount)
	}

	return &Video{path: path, cap: cap, meta: meta}, nil
}

// Metadata returns the video's metadata.
func (v *Video) Metadata() Metadata {
	return v.meta
}

// Path returns the path the video was opened from.
func (v *Video) Path() string {
	return v.path
}

// FrameAt seeks to a frame and decodes it. The returned Mat is owned by the
// caller and must be closed.
func (v *Video) FrameAt(frame int) (gocv.Mat, error) {
	if frame < 0 {
		return gocv.Mat{}, fmt.Errorf("frame %d out of range", frame)
	}

	v.cap.Set(gocv.VideoCapturePosFrames, float64(frame))

	img := gocv.NewMat()
	if ok := v.cap.Read(&img); !ok || img.Empty() {
		img.Close()
		return gocv.Mat{}, fmt.Errorf("could not read frame %d", frame)
	}
	return img, nil
}

// Close releases the underlying capture.
func (v *Video) Close() error {
	if v.cap != nil {
		return v.cap.Close()
	}
	return nil
}
