package extract

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"rampocr/internal/readout"
)

// Number of frames sampled per group when estimating the time range.
const timeRangeSamples = 5

// PauseFraction is the share of the experiment duration accepted as a
// legitimate recording pause between consecutive readings.
const PauseFraction = 0.75

// TimeRange holds the estimated experiment start and end elapsed times.
// A nil field means that group produced no usable samples.
type TimeRange struct {
	Start *float64
	End   *float64
}

// PauseThreshold derives the largest elapsed-time gap still treated as a
// recording pause. Returns 0 when either end of the range is unknown or the
// range is degenerate, in which case the validator falls back to its
// per-step default.
func (t TimeRange) PauseThreshold() float64 {
	if t.Start == nil || t.End == nil || *t.End <= *t.Start {
		return 0
	}
	return PauseFraction * (*t.End - *t.Start)
}

// EstimateTimeRange samples a handful of frames near the start and end of
// the video and reads the display's elapsed time from each. Start frames
// begin at 5% of the video (the experiment may not have started at frame 0),
// end frames count back from the last frame. Each group's estimate is the
// median of its successful parses, which shrugs off one or two OCR misreads
// without a validator pass.
func EstimateTimeRange(src TextSource, frameCount, interval int) TimeRange {
	if frameCount <= 0 || interval < 1 {
		return TimeRange{}
	}

	startFrames := make([]int, 0, timeRangeSamples)
	endFrames := make([]int, 0, timeRangeSamples)
	for i := 0; i < timeRangeSamples; i++ {
		startFrames = append(startFrames, int(float64(frameCount)*0.05)+i*interval)
		end := frameCount - 1 - i*interval
		if end < 0 {
			end = 0
		}
		endFrames = append(endFrames, end)
	}

	return TimeRange{
		Start: medianTimeAt(src, startFrames),
		End:   medianTimeAt(src, endFrames),
	}
}

// medianTimeAt returns the median display time among the frames that parsed,
// or nil if none did.
func medianTimeAt(src TextSource, frames []int) *float64 {
	var times []float64
	for _, frame := range frames {
		text, err := src.TextAt(frame)
		if err != nil {
			continue
		}
		fields, err := readout.Parse(text)
		if err != nil {
			continue
		}
		times = append(times, readout.TimeStringToSeconds(fields.TimeString))
	}

	if len(times) == 0 {
		return nil
	}

	sort.Float64s(times)
	median := stat.Quantile(0.5, stat.Empirical, times, nil)
	return &median
}
