package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	cverrors "github.com/goldsheep3/clockvid/internal/errors"
)

// Rate is a frame rate expressed as numerator/denominator, as ffprobe reports it.
type Rate struct {
	Num int64
	Den int64
}

// ParseRate parses "30000/1001" or a bare integer such as "25".
func ParseRate(s string) (Rate, error) {
	s = strings.TrimSpace(s)
	num, den, found := strings.Cut(s, "/")
	if !found {
		den = "1"
	}

	n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
	if err != nil {
		return Rate{}, cverrors.NewFormatError(fmt.Sprintf("invalid frame rate numerator in %q", s))
	}
	d, err := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
	if err != nil {
		return Rate{}, cverrors.NewFormatError(fmt.Sprintf("invalid frame rate denominator in %q", s))
	}

	r := Rate{Num: n, Den: d}
	if !r.Valid() {
		return Rate{}, cverrors.NewFormatError(fmt.Sprintf("frame rate must be positive, got %q", s))
	}
	return r, nil
}

// exactTolerance is how close fps*den must be to an integer for den to be
// taken as the exact denominator.
const exactTolerance = 1e-6

// RateFromFPS builds a rate from a floating-point fps. Whole rates and the
// NTSC family (n/1001) are recovered exactly; anything else keeps three
// decimals.
func RateFromFPS(fps float64) (Rate, error) {
	if err := checkFPS(fps); err != nil {
		return Rate{}, err
	}
	for _, den := range []int64{1, 1001} {
		scaled := fps * float64(den)
		num := math.Round(scaled)
		if num >= 1 && math.Abs(scaled-num) < exactTolerance {
			return Rate{Num: int64(num), Den: den}, nil
		}
	}
	num := int64(math.Round(fps * 1000))
	if num < 1 {
		return Rate{}, cverrors.NewFormatError(fmt.Sprintf("frame rate %v is too small", fps))
	}
	return Rate{Num: num, Den: 1000}, nil
}

// Valid reports whether both parts are positive.
func (r Rate) Valid() bool {
	return r.Num > 0 && r.Den > 0
}

// Float returns the rate as frames per second.
func (r Rate) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// String returns the ffmpeg form "num/den".
func (r Rate) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}
