// Package timecode converts between timer labels, frame counts and frame rates.
//
// Both rounding sites (duration parsing and per-frame labels) round half away
// from zero, so "0:00:00.1" at 5 fps is one frame and frame 1 at 20 fps is
// labelled "0:00:00.1".
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	cverrors "github.com/goldsheep3/clockvid/internal/errors"
)

const (
	tenthsPerHour   = 36000
	tenthsPerMinute = 600
	tenthsPerSecond = 10
)

// ParseDuration converts an H:MM:SS[.T] string into a frame count at fps.
// Hours are unbounded; only the first digit after the dot is significant.
func ParseDuration(spec string, fps float64) (int, error) {
	if err := checkFPS(fps); err != nil {
		return 0, err
	}

	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return 0, cverrors.NewFormatError(fmt.Sprintf("expected H:MM:SS[.T], got %q", spec))
	}

	hours, err := component(parts[0], "hours", spec)
	if err != nil {
		return 0, err
	}
	minutes, err := component(parts[1], "minutes", spec)
	if err != nil {
		return 0, err
	}

	secondsPart := strings.Split(parts[2], ".")
	var seconds, tenths int
	switch len(secondsPart) {
	case 1:
		seconds, err = component(secondsPart[0], "seconds", spec)
		if err != nil {
			return 0, err
		}
	case 2:
		seconds, err = component(secondsPart[0], "seconds", spec)
		if err != nil {
			return 0, err
		}
		tenths, err = firstDigit(secondsPart[1], spec)
		if err != nil {
			return 0, err
		}
	default:
		return 0, cverrors.NewFormatError(fmt.Sprintf("invalid seconds field in %q", spec))
	}

	totalSeconds := float64(hours*3600+minutes*60+seconds) + float64(tenths)/10
	return int(math.Round(totalSeconds * fps)), nil
}

func component(s, name, spec string) (int, error) {
	if s == "" || !allDigits(s) {
		return 0, cverrors.NewFormatError(fmt.Sprintf("%s must be a non-negative integer in %q", name, spec))
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, cverrors.NewFormatError(fmt.Sprintf("%s out of range in %q", name, spec))
	}
	return v, nil
}

func firstDigit(s, spec string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if !allDigits(s) {
		return 0, cverrors.NewFormatError(fmt.Sprintf("tenths must be digits in %q", spec))
	}
	return int(s[0] - '0'), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func checkFPS(fps float64) error {
	if math.IsNaN(fps) || math.IsInf(fps, 0) || fps <= 0 {
		return cverrors.NewFormatError(fmt.Sprintf("frame rate must be positive, got %v", fps))
	}
	return nil
}

// Tenths returns the number of tenth-seconds displayed for frameIndex at fps.
func Tenths(frameIndex int, fps float64) int64 {
	return int64(math.Round(float64(frameIndex) / fps * 10))
}

// FormatTenths renders a tenth-second count as H:MM:SS.T.
func FormatTenths(t int64) string {
	hours := t / tenthsPerHour
	minutes := (t % tenthsPerHour) / tenthsPerMinute
	seconds := (t % tenthsPerMinute) / tenthsPerSecond
	tenths := t % tenthsPerSecond
	return fmt.Sprintf("%d:%02d:%02d.%d", hours, minutes, seconds, tenths)
}

// Label returns the timer text shown on frame frameIndex at fps.
func Label(frameIndex int, fps float64) string {
	return FormatTenths(Tenths(frameIndex, fps))
}
