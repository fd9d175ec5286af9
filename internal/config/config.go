// Package config provides the ROI configuration file: where the instrument
// readout sits in the frame, the video metadata it was selected against, and
// the validation limits for extraction.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"rampocr/internal/extract"
	"rampocr/pkg/geometry"
)

// DefaultPath is where the CLI looks for the ROI config.
const DefaultPath = "config/roi.yaml"

// ROI is the readout region in source-frame pixel coordinates.
type ROI struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Rect converts to the shared rectangle type.
func (r ROI) Rect() geometry.RectInt {
	return geometry.NewRectInt(r.X, r.Y, r.W, r.H)
}

// VideoInfo records the metadata of the video the ROI was selected on.
type VideoInfo struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	FPS    float64 `yaml:"fps"`
}

// Validation holds the extraction acceptance limits. It is echoed into the
// extraction output for provenance, hence the JSON tags next to the YAML
// ones.
type Validation struct {
	CurrentMin           float64 `yaml:"current_min" json:"current_min"`
	CurrentMax           float64 `yaml:"current_max" json:"current_max"`
	VoltageMin           float64 `yaml:"voltage_min" json:"voltage_min"`
	VoltageMax           float64 `yaml:"voltage_max" json:"voltage_max"`
	TimeToleranceSec     float64 `yaml:"time_tolerance_sec" json:"time_tolerance_sec"`
	TimeConsistencyCheck bool    `yaml:"enable_time_consistency_check" json:"enable_time_consistency_check"`
}

// Limits converts to the extraction package's limits type.
func (v Validation) Limits() extract.Limits {
	return extract.Limits{
		CurrentMin:           v.CurrentMin,
		CurrentMax:           v.CurrentMax,
		VoltageMin:           v.VoltageMin,
		VoltageMax:           v.VoltageMax,
		TimeToleranceSec:     v.TimeToleranceSec,
		TimeConsistencyCheck: v.TimeConsistencyCheck,
	}
}

// File is the on-disk ROI config.
type File struct {
	ROI        ROI        `yaml:"roi"`
	Video      VideoInfo  `yaml:"video"`
	Validation Validation `yaml:"validation"`
}

// New creates a config with default validation limits.
func New(roi ROI, video VideoInfo) *File {
	lim := extract.DefaultLimits()
	return &File{
		ROI:   roi,
		Video: video,
		Validation: Validation{
			CurrentMin:       lim.CurrentMin,
			CurrentMax:       lim.CurrentMax,
			VoltageMin:       lim.VoltageMin,
			VoltageMax:       lim.VoltageMax,
			TimeToleranceSec: lim.TimeToleranceSec,
		},
	}
}

// Load reads and sanity-checks a config file. A missing file or incoherent
// limits are fatal for the run.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load ROI config: %w", err)
	}

	var cfg File
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse ROI config %s: %w", path, err)
	}

	if cfg.ROI.Rect().Empty() {
		return nil, fmt.Errorf("ROI config %s: region has no area (w=%d h=%d)", path, cfg.ROI.W, cfg.ROI.H)
	}
	if cfg.ROI.X < 0 || cfg.ROI.Y < 0 {
		return nil, fmt.Errorf("ROI config %s: negative origin (x=%d y=%d)", path, cfg.ROI.X, cfg.ROI.Y)
	}
	if err := cfg.Validation.Limits().Check(); err != nil {
		return nil, fmt.Errorf("ROI config %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config, creating parent directories as needed.
func (c *File) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("save ROI config: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("save ROI config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
