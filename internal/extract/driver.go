package extract

import (
	"fmt"
	"log"
	"sort"

	"rampocr/internal/readout"
)

// DefaultFrameInterval is the sampling stride when none is configured.
const DefaultFrameInterval = 10

// Options configure one extraction run.
type Options struct {
	FrameCount     int
	FPS            float64
	FrameInterval  int
	FallbackRadius int
	Limits         Limits

	// Quiet suppresses per-frame progress logging; counters still
	// accumulate.
	Quiet bool
}

// Stats summarizes an extraction run.
type Stats struct {
	TargetFrames int
	Successful   int
	Failed       int
	FallbackUsed int
}

// SuccessRate returns the fraction of target frames that yielded a reading.
func (s Stats) SuccessRate() float64 {
	if s.TargetFrames == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.TargetFrames)
}

// Result is the outcome of extracting a whole video: the accepted readings
// in strictly increasing frame order, run statistics, and the time-range
// estimate used for pause detection.
type Result struct {
	Readings       []readout.Reading
	Stats          Stats
	TimeRange      TimeRange
	PauseThreshold float64
}

// Run drives the whole pipeline over one video: estimates the experiment
// time range, visits every target frame through the fallback reader, and
// assembles the ordered result. The previous accepted reading is carried as
// validation context for the next frame. Per-frame failures only bump
// counters; configuration errors abort the run.
func Run(src TextSource, opts Options) (*Result, error) {
	if opts.FrameCount <= 0 {
		return nil, fmt.Errorf("extract: no frames to process (frame count %d)", opts.FrameCount)
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("extract: invalid fps %.3f", opts.FPS)
	}
	if opts.FrameInterval < 1 {
		return nil, fmt.Errorf("extract: frame interval must be >= 1, got %d", opts.FrameInterval)
	}
	if opts.FallbackRadius < 0 {
		return nil, fmt.Errorf("extract: fallback radius must be >= 0, got %d", opts.FallbackRadius)
	}
	if err := opts.Limits.Check(); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	timeRange := EstimateTimeRange(src, opts.FrameCount, opts.FrameInterval)
	pause := timeRange.PauseThreshold()
	if !opts.Quiet {
		logTimeRange(timeRange, pause)
	}

	targets := TargetFrames(opts.FrameCount, opts.FrameInterval)
	reader := &Reader{
		Source:    src,
		FPS:       opts.FPS,
		Limits:    opts.Limits,
		MaxRadius: opts.FallbackRadius,
	}

	result := &Result{
		TimeRange:      timeRange,
		PauseThreshold: pause,
		Stats:          Stats{TargetFrames: len(targets)},
	}

	var prev *readout.Reading
	for _, target := range targets {
		attempt, err := reader.Read(target, prev, pause)
		if err != nil {
			result.Stats.Failed++
			continue
		}

		if attempt.UsedFallback() {
			result.Stats.FallbackUsed++
			if !opts.Quiet {
				log.Printf("frame %d: used fallback frame %d (offset %+d)",
					target, attempt.Reading.Frame, attempt.Offset)
			}
		}

		result.Readings = append(result.Readings, attempt.Reading)
		result.Stats.Successful++
		prev = &result.Readings[len(result.Readings)-1]

		if !opts.Quiet && result.Stats.Successful%50 == 0 {
			log.Printf("processed %d/%d target frames", result.Stats.Successful, len(targets))
		}
	}

	// Fallback offsets can land a reading's source frame out of target
	// order, and two targets can converge on the same frame. Restore the
	// strictly-increasing invariant.
	sort.Slice(result.Readings, func(i, j int) bool {
		return result.Readings[i].Frame < result.Readings[j].Frame
	})
	result.Readings = dedupeFrames(result.Readings)

	return result, nil
}

// dedupeFrames removes consecutive readings from the same source frame,
// keeping the first. Input must already be sorted by frame.
func dedupeFrames(readings []readout.Reading) []readout.Reading {
	if len(readings) < 2 {
		return readings
	}
	out := readings[:1]
	for _, r := range readings[1:] {
		if r.Frame != out[len(out)-1].Frame {
			out = append(out, r)
		}
	}
	return out
}

func logTimeRange(tr TimeRange, pause float64) {
	if tr.Start == nil || tr.End == nil {
		log.Printf("could not estimate experiment time range, using default pause detection")
		return
	}
	log.Printf("experiment time range: %.0fs - %.0fs (duration %.0fs), max pause threshold %.0fs",
		*tr.Start, *tr.End, *tr.End-*tr.Start, pause)
}
