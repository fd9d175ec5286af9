package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectIntClampTo(t *testing.T) {
	tests := []struct {
		name string
		rect RectInt
		w, h int
		want RectInt
	}{
		{"inside", NewRectInt(10, 10, 50, 20), 100, 100, NewRectInt(10, 10, 50, 20)},
		{"past right edge", NewRectInt(80, 10, 50, 20), 100, 100, NewRectInt(80, 10, 20, 20)},
		{"negative origin", NewRectInt(-10, -5, 50, 20), 100, 100, NewRectInt(0, 0, 40, 15)},
		{"fully outside", NewRectInt(200, 200, 50, 20), 100, 100, NewRectInt(200, 200, -100, -100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rect.ClampTo(tt.w, tt.h)
			if tt.name == "fully outside" {
				assert.True(t, got.Empty())
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRectIntFitsIn(t *testing.T) {
	assert.True(t, NewRectInt(0, 0, 100, 100).FitsIn(100, 100))
	assert.False(t, NewRectInt(1, 0, 100, 100).FitsIn(100, 100))
	assert.False(t, NewRectInt(-1, 0, 10, 10).FitsIn(100, 100))
	assert.False(t, NewRectInt(0, 0, 0, 10).FitsIn(100, 100))
}

func TestRectIntImage(t *testing.T) {
	assert.Equal(t, image.Rect(10, 20, 40, 60), NewRectInt(10, 20, 30, 40).Image())
}

func TestRectIntEmpty(t *testing.T) {
	assert.True(t, RectInt{}.Empty())
	assert.True(t, NewRectInt(0, 0, 10, 0).Empty())
	assert.False(t, NewRectInt(0, 0, 1, 1).Empty())
}
