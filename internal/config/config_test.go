package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "roi.yaml")

	cfg := New(
		ROI{X: 100, Y: 50, W: 400, H: 120},
		VideoInfo{Width: 1920, Height: 1080, FPS: 29.97},
	)
	cfg.Validation.TimeConsistencyCheck = true
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", ":::\n\t"},
		{"empty roi", "roi: {x: 0, y: 0, w: 0, h: 0}\n"},
		{"negative origin", "roi: {x: -5, y: 10, w: 100, h: 50}\nvalidation: {current_min: -10, current_max: 600, voltage_min: -10, voltage_max: 15, time_tolerance_sec: 0.5}\n"},
		{"current min >= max", "roi: {x: 0, y: 0, w: 100, h: 50}\nvalidation: {current_min: 600, current_max: 600, voltage_min: -10, voltage_max: 15, time_tolerance_sec: 0.5}\n"},
		{"voltage min >= max", "roi: {x: 0, y: 0, w: 100, h: 50}\nvalidation: {current_min: -10, current_max: 600, voltage_min: 15, voltage_max: -10, time_tolerance_sec: 0.5}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "roi.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestDefaultsMatchExtractionLimits(t *testing.T) {
	cfg := New(ROI{X: 0, Y: 0, W: 10, H: 10}, VideoInfo{})
	lim := cfg.Validation.Limits()

	assert.NoError(t, lim.Check())
	assert.False(t, lim.TimeConsistencyCheck)
	assert.Equal(t, -10.0, lim.CurrentMin)
	assert.Equal(t, 600.0, lim.CurrentMax)
	assert.Equal(t, 0.5, lim.TimeToleranceSec)
}

func TestROIRect(t *testing.T) {
	rect := ROI{X: 10, Y: 20, W: 30, H: 40}.Rect()
	assert.Equal(t, 10, rect.X)
	assert.Equal(t, 40, rect.Height)
	assert.True(t, rect.FitsIn(100, 100))
	assert.False(t, rect.FitsIn(35, 100))
}
