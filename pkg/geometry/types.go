// Package geometry provides basic geometric types used throughout the application.
package geometry

import "image"

// RectInt represents a rectangle with integer pixel coordinates.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRectInt creates a new RectInt.
func NewRectInt(x, y, width, height int) RectInt {
	return RectInt{X: x, Y: y, Width: width, Height: height}
}

// Empty returns true if the rectangle has no area.
func (r RectInt) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ClampTo clips the rectangle to an image of the given dimensions.
// The result may be empty if the rectangle lies entirely outside.
func (r RectInt) ClampTo(imgWidth, imgHeight int) RectInt {
	x := max(0, r.X)
	y := max(0, r.Y)
	w := min(r.Width-(x-r.X), imgWidth-x)
	h := min(r.Height-(y-r.Y), imgHeight-y)
	return RectInt{X: x, Y: y, Width: w, Height: h}
}

// FitsIn returns true if the rectangle lies fully inside an image of the
// given dimensions.
func (r RectInt) FitsIn(imgWidth, imgHeight int) bool {
	return r.X >= 0 && r.Y >= 0 && !r.Empty() &&
		r.X+r.Width <= imgWidth && r.Y+r.Height <= imgHeight
}

// Image converts to the standard library's image.Rectangle.
func (r RectInt) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
