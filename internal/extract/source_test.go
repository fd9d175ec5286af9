package extract

import (
	"errors"
	"fmt"
)

// fakeSource serves canned OCR text per frame. Frames without an entry fail
// the way an undecodable frame would.
type fakeSource struct {
	texts map[int]string
	calls []int
}

func (f *fakeSource) TextAt(frame int) (string, error) {
	f.calls = append(f.calls, frame)
	text, ok := f.texts[frame]
	if !ok {
		return "", errors.New("frame unreadable")
	}
	return text, nil
}

// displayText synthesizes readout text in the display's format.
func displayText(current, mps, mag float64, clock string) string {
	return fmt.Sprintf(
		"ACTUAL CURRENT: %.2f A\nMPS VOLTS: %+.4f V\nMAG VOLTS: %+.4f V\nElapsed Time: %s",
		current, mps, mag, clock)
}
