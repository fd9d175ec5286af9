// Package store persists extraction results as JSON for downstream plotting
// and analysis. The on-disk schema is append-only structured records plus
// run-level provenance, and round-trips losslessly.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"rampocr/internal/config"
	"rampocr/internal/readout"
)

// Default output locations used by the CLI.
const (
	DefaultOutputPath  = "result/output.json"
	DefaultCleanedPath = "result/output_cleaned.json"
)

// RunResult is one extraction (or cleaning) run: the reading series plus the
// provenance needed to reproduce it.
type RunResult struct {
	Video         string  `json:"video"`
	FPS           float64 `json:"fps"`
	FrameInterval int     `json:"frame_interval"`
	TotalFrames   int     `json:"total_frames"`

	ProcessedFrames  int `json:"processed_frames"`
	SuccessfulParses int `json:"successful_parses"`
	FailedParses     int `json:"failed_parses"`
	FallbackUsed     int `json:"fallback_used"`

	Validation config.Validation `json:"validation_config"`

	// Time-range estimates; null when estimation failed.
	ExperimentStartTime *float64 `json:"experiment_start_time"`
	ExperimentEndTime   *float64 `json:"experiment_end_time"`
	MaxPauseThreshold   *float64 `json:"max_pause_threshold"`

	Data []readout.Reading `json:"data"`
}

// Save writes the result, creating parent directories as needed.
func (r *RunResult) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("save results: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("save results: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Load reads a previously saved result. A file without the "data" key is
// malformed and fatal; no best-effort repair is attempted.
func Load(path string) (*RunResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, fmt.Errorf("parse results %s: %w", path, err)
	}
	if _, ok := keys["data"]; !ok {
		return nil, fmt.Errorf("results file %s: missing \"data\" key", path)
	}

	var result RunResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse results %s: %w", path, err)
	}

	return &result, nil
}
