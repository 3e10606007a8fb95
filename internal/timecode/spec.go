package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	cverrors "github.com/goldsheep3/clockvid/internal/errors"
)

// TimeSpec is a timer length given either as H:MM:SS[.T] text or as a frame count.
type TimeSpec struct {
	text     string
	frames   int
	isFrames bool
}

// Timestamp returns a TimeSpec for an H:MM:SS[.T] string.
func Timestamp(s string) TimeSpec {
	return TimeSpec{text: s}
}

// FrameCount returns a TimeSpec that is already a frame count.
func FrameCount(n int) TimeSpec {
	return TimeSpec{frames: n, isFrames: true}
}

// ParseTimeSpec reads command-line text: anything containing ':' is a
// timestamp, otherwise it must be a number of frames. Fractional frame counts
// are truncated toward zero.
func ParseTimeSpec(s string) (TimeSpec, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		return Timestamp(s), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return TimeSpec{}, cverrors.NewFormatError(fmt.Sprintf("expected H:MM:SS[.T] or a frame count, got %q", s))
	}
	if v < 0 {
		return TimeSpec{}, cverrors.NewFormatError(fmt.Sprintf("frame count must be non-negative, got %q", s))
	}
	return FrameCount(int(math.Trunc(v))), nil
}

// Frames resolves ts to a frame count at fps.
func (ts TimeSpec) Frames(fps float64) (int, error) {
	if ts.isFrames {
		return ts.frames, nil
	}
	return ParseDuration(ts.text, fps)
}

func (ts TimeSpec) String() string {
	if ts.isFrames {
		return fmt.Sprintf("%d frames", ts.frames)
	}
	return ts.text
}
