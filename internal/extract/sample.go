package extract

// TargetFrames returns the ordered frame indices to visit: every Nth frame
// starting at 0. An interval below 1 or a non-positive frame count yields
// nil.
func TargetFrames(totalFrames, interval int) []int {
	if totalFrames <= 0 || interval < 1 {
		return nil
	}

	frames := make([]int, 0, (totalFrames+interval-1)/interval)
	for f := 0; f < totalFrames; f += interval {
		frames = append(frames, f)
	}
	return frames
}
