package readout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TimeStringToSeconds converts a display time string ("HH:MM:SS") to seconds.
// Malformed strings convert to 0.0; callers that care must treat a zero from
// an invalid-looking string as meaningless rather than as midnight.
func TimeStringToSeconds(timeStr string) float64 {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 3 {
		return 0.0
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0.0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0.0
	}
	seconds, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0.0
	}

	return float64(hours*3600 + minutes*60 + seconds)
}

// SecondsToTimeString formats whole elapsed seconds as "HH:MM:SS".
// Fractional seconds are truncated.
func SecondsToTimeString(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	total := int(sec)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// TimeFromFrame computes the precise elapsed time of a frame from the frame
// rate. Returns the time in seconds and its millisecond remainder (0-999).
func TimeFromFrame(frame int, fps float64) (preciseSec float64, ms int) {
	if fps <= 0 {
		return 0, 0
	}
	preciseSec = float64(frame) / fps
	ms = int(math.Mod(preciseSec, 1.0) * 1000)
	return math.Round(preciseSec*1000) / 1000, ms
}
