// Package ocr provides OCR (Optical Character Recognition) for the MPS
// instrument readout.
package ocr

import (
	"fmt"
	"strings"

	"rampocr/pkg/geometry"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// Engine provides OCR functionality using Tesseract.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates a new OCR engine. tessdataPrefix optionally points at a
// non-default tessdata directory; empty means the system default.
func NewEngine(tessdataPrefix string) (*Engine, error) {
	client := gosseract.NewClient()

	if tessdataPrefix != "" {
		client.TessdataPrefix = tessdataPrefix
	}

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// PSM 6 = assume a single uniform block of text; the readout panel is
	// exactly that.
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// RecognizeRegion performs OCR on a region of a frame. The region is clipped
// to the frame; a region entirely outside is an error. Unreadable content is
// not an error and simply yields little or no text.
func (e *Engine) RecognizeRegion(frame gocv.Mat, region geometry.RectInt) (string, error) {
	if frame.Empty() {
		return "", fmt.Errorf("empty frame")
	}

	clipped := region.ClampTo(frame.Cols(), frame.Rows())
	if clipped.Empty() {
		return "", fmt.Errorf("region %v outside frame", region)
	}

	roi := frame.Region(clipped.Image())
	defer roi.Close()

	return e.Recognize(roi)
}

// Recognize performs OCR on an entire image.
func (e *Engine) Recognize(img gocv.Mat) (string, error) {
	if img.Empty() {
		return "", fmt.Errorf("empty image")
	}

	processed := preprocess(img)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// preprocess prepares a readout crop for OCR: grayscale, Otsu threshold for
// clean text/background separation, then non-local-means denoising to knock
// out video compression speckle.
func preprocess(img gocv.Mat) gocv.Mat {
	var gray gocv.Mat
	if img.Channels() > 1 {
		gray = gocv.NewMat()
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	} else {
		gray = img.Clone()
	}

	binary := gocv.NewMat()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	gray.Close()

	denoised := gocv.NewMat()
	gocv.FastNlMeansDenoisingWithParams(binary, &denoised, 10, 7, 21)
	binary.Close()

	return denoised
}
