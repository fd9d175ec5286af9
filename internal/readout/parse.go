package readout

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoReading indicates the OCR text did not contain all four display fields.
var ErrNoReading = errors.New("readout: display fields not found")

// Anchor patterns for the combined-text pass. Each locates its keyword and
// then the nearest numeric token with the expected unit (non-greedy, so
// garbled text between keyword and value is tolerated).
var (
	currentPattern = regexp.MustCompile(`(?i)ACTUAL\s+CURRENT.*?([\d.]+)\s*A`)
	mpsPattern     = regexp.MustCompile(`(?i)MPS\s+VOLTS.*?([+-]?[\d.]+)\s*V`)
	magPattern     = regexp.MustCompile(`(?i)MAG\s+VOLTS.*?([+-]?[\d.]+)\s*V`)
	timePattern    = regexp.MustCompile(`(?i)Elapsed\s+Time.*?(\d{2}:\d{2}:\d{2})`)

	// Looser per-line patterns for the fallback scan.
	ampTokenPattern  = regexp.MustCompile(`(?i)([\d.]+)\s*A`)
	voltTokenPattern = regexp.MustCompile(`(?i)([+-]?[\d.]+)\s*V`)
	clockPattern     = regexp.MustCompile(`\d{2}:\d{2}:\d{2}`)
)

// Parse extracts the four display fields from raw OCR text.
//
// The primary pass searches the whole text (lines joined by spaces) with the
// anchor patterns. Any field still missing afterwards is retried line by
// line with looser keyword matching. Returns ErrNoReading unless all four
// fields were recovered; partial results never escape.
func Parse(text string) (Fields, error) {
	lines := splitLines(text)
	full := strings.Join(lines, " ")

	var (
		current, mps, mag *float64
		timeStr           string
	)

	if m := currentPattern.FindStringSubmatch(full); m != nil {
		current = parseFloat(m[1])
	}
	if m := mpsPattern.FindStringSubmatch(full); m != nil {
		mps = parseFloat(m[1])
	}
	if m := magPattern.FindStringSubmatch(full); m != nil {
		mag = parseFloat(m[1])
	}
	if m := timePattern.FindStringSubmatch(full); m != nil {
		timeStr = m[1]
	}

	// Per-line fallback for whatever the combined pass missed.
	if current == nil || mps == nil || mag == nil || timeStr == "" {
		for _, line := range lines {
			upper := strings.ToUpper(line)

			if current == nil && strings.Contains(upper, "CURRENT") {
				if m := ampTokenPattern.FindStringSubmatch(line); m != nil {
					current = parseFloat(m[1])
				}
			}
			if mps == nil && strings.Contains(upper, "MPS") {
				if m := voltTokenPattern.FindStringSubmatch(line); m != nil {
					mps = parseFloat(m[1])
				}
			}
			if mag == nil && strings.Contains(upper, "MAG") {
				if m := voltTokenPattern.FindStringSubmatch(line); m != nil {
					mag = parseFloat(m[1])
				}
			}
			if timeStr == "" && strings.Contains(upper, "TIME") {
				if m := clockPattern.FindString(line); m != "" {
					timeStr = m
				}
			}
		}
	}

	if current == nil || mps == nil || mag == nil || timeStr == "" {
		return Fields{}, ErrNoReading
	}

	return Fields{
		Current:    *current,
		MPSVolts:   *mps,
		MAGVolts:   *mag,
		TimeString: timeStr,
	}, nil
}

// parseFloat returns nil on failure so a garbled numeric token counts as
// field-not-found rather than an error.
func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
