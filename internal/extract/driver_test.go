package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rampocr/internal/readout"
)

func testOptions(frameCount int) Options {
	return Options{
		FrameCount:     frameCount,
		FPS:            10.0,
		FrameInterval:  10,
		FallbackRadius: 5,
		Limits:         DefaultLimits(),
		Quiet:          true,
	}
}

func TestRunAllFramesReadable(t *testing.T) {
	// 100 frames at 10 fps; targets 0,10,...,90, each one display-second
	// apart and ramping 10A per step.
	texts := map[int]string{}
	for i := 0; i < 10; i++ {
		texts[i*10] = displayText(float64(i*10), 1.0, 0.5, readout.SecondsToTimeString(float64(i)))
	}
	src := &fakeSource{texts: texts}

	res, err := Run(src, testOptions(100))
	require.NoError(t, err)

	assert.Equal(t, 10, res.Stats.TargetFrames)
	assert.Equal(t, 10, res.Stats.Successful)
	assert.Equal(t, 0, res.Stats.Failed)
	assert.Equal(t, 0, res.Stats.FallbackUsed)
	assert.Equal(t, 1.0, res.Stats.SuccessRate())

	require.Len(t, res.Readings, 10)
	for i, r := range res.Readings {
		assert.Equal(t, i*10, r.Frame)
		assert.Equal(t, float64(i*10), r.Current)
		assert.Equal(t, float64(i), r.TimeSec)
	}
}

func TestRunWithFallbackAndFailures(t *testing.T) {
	texts := map[int]string{}
	for i := 0; i < 10; i++ {
		texts[i*10] = displayText(float64(i*10), 1.0, 0.5, readout.SecondsToTimeString(float64(i)))
	}
	// Target 30 unreadable, neighbor 31 stands in.
	delete(texts, 30)
	texts[31] = displayText(30, 1.0, 0.5, "00:00:03")
	// Target 50 and its whole radius unreadable.
	delete(texts, 50)
	src := &fakeSource{texts: texts}

	res, err := Run(src, testOptions(100))
	require.NoError(t, err)

	assert.Equal(t, 9, res.Stats.Successful)
	assert.Equal(t, 1, res.Stats.Failed)
	assert.Equal(t, 1, res.Stats.FallbackUsed)

	frames := make([]int, len(res.Readings))
	for i, r := range res.Readings {
		frames[i] = r.Frame
	}
	assert.Equal(t, []int{0, 10, 20, 31, 40, 60, 70, 80, 90}, frames)
}

func TestRunSeriesStrictlyIncreasing(t *testing.T) {
	// Two adjacent targets converge on the same source frame: targets 0
	// and 2 both end up reading frame 2. The result must stay strictly
	// increasing with no duplicate frames.
	texts := map[int]string{
		2: displayText(10, 1.0, 0.5, "00:00:00"),
		4: displayText(12, 1.0, 0.5, "00:00:00"),
	}
	src := &fakeSource{texts: texts}

	opts := testOptions(5)
	opts.FrameInterval = 2
	opts.FallbackRadius = 2

	res, err := Run(src, opts)
	require.NoError(t, err)

	var prev *readout.Reading
	for i := range res.Readings {
		if prev != nil {
			assert.Greater(t, res.Readings[i].Frame, prev.Frame)
		}
		prev = &res.Readings[i]
	}
}

func TestRunConfigErrors(t *testing.T) {
	src := &fakeSource{}

	_, err := Run(src, Options{FrameCount: 0, FPS: 30, FrameInterval: 10, Limits: DefaultLimits()})
	assert.Error(t, err)

	_, err = Run(src, Options{FrameCount: 100, FPS: 0, FrameInterval: 10, Limits: DefaultLimits()})
	assert.Error(t, err)

	_, err = Run(src, Options{FrameCount: 100, FPS: 30, FrameInterval: 0, Limits: DefaultLimits()})
	assert.Error(t, err)

	bad := DefaultLimits()
	bad.CurrentMin, bad.CurrentMax = 1, 1
	_, err = Run(src, Options{FrameCount: 100, FPS: 30, FrameInterval: 10, Limits: bad})
	assert.Error(t, err)
}

func TestRunPreviousReadingContext(t *testing.T) {
	// With the time-consistency rule on and a generous pause threshold
	// estimate unavailable, a reading whose display time runs backwards
	// must be rejected even though its ranges are fine.
	texts := map[int]string{
		0:  displayText(10, 1.0, 0.5, "00:10:00"),
		10: displayText(11, 1.0, 0.5, "00:09:00"), // backwards
		20: displayText(12, 1.0, 0.5, "00:10:02"),
	}
	src := &fakeSource{texts: texts}

	opts := testOptions(30)
	opts.Limits.TimeConsistencyCheck = true

	res, err := Run(src, opts)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stats.Successful)
	assert.Equal(t, 1, res.Stats.Failed)
	for _, r := range res.Readings {
		assert.NotEqual(t, 10, r.Frame)
	}
}
