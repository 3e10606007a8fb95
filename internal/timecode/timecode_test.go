package timecode

import (
	"math"
	"testing"

	cverrors "github.com/goldsheep3/clockvid/internal/errors"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name string
		spec string
		fps  float64
		want int
	}{
		{"tenths at 30fps", "0:00:01.5", 30, 45},
		{"whole hours minutes seconds", "1:02:03", 25, 93075},
		{"single tenth at 10fps", "0:00:00.1", 10, 1},
		{"zero", "0:00:00", 30, 0},
		{"zero with tenths", "0:00:00.0", 30, 0},
		{"empty tenths", "0:00:01.", 30, 30},
		{"only first tenth digit counts", "0:00:01.59", 30, 45},
		{"unbounded hours", "10:00:00", 1, 36000},
		{"single digit minutes and seconds", "0:1:2", 10, 620},
		{"ntsc rate", "0:01:00", 30000.0 / 1001.0, 1798},
		// Ties round half away from zero.
		{"tie 0.5 rounds up", "0:00:00.1", 5, 1},
		{"tie 2.5 rounds up", "0:00:02.5", 1, 3},
		{"tie 3.5 rounds up", "0:00:03.5", 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.spec, tt.fps)
			if err != nil {
				t.Fatalf("ParseDuration(%q, %v) error = %v", tt.spec, tt.fps, err)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q, %v) = %d, want %d", tt.spec, tt.fps, got, tt.want)
			}
		})
	}
}

func TestParseDurationRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		spec string
		fps  float64
	}{
		{"two segments", "1:2", 30},
		{"four segments", "1:2:3:4", 30},
		{"empty", "", 30},
		{"non-numeric hours", "a:00:00", 30},
		{"non-numeric minutes", "0:xx:00", 30},
		{"non-numeric seconds", "0:00:ss", 30},
		{"non-numeric tenths", "0:00:01.x", 30},
		{"two dots", "0:00:01.2.3", 30},
		{"negative hours", "-1:00:00", 30},
		{"signed minutes", "0:+1:00", 30},
		{"empty seconds", "0:00:", 30},
		{"zero fps", "0:00:01", 0},
		{"negative fps", "0:00:01", -25},
		{"nan fps", "0:00:01", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDuration(tt.spec, tt.fps)
			if err == nil {
				t.Fatalf("ParseDuration(%q, %v) expected error", tt.spec, tt.fps)
			}
			if !cverrors.IsFormat(err) {
				t.Errorf("ParseDuration(%q, %v) error = %v, want a format error", tt.spec, tt.fps, err)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		frame int
		fps   float64
		want  string
	}{
		{0, 30, "0:00:00.0"},
		{1, 30, "0:00:00.0"},
		{2, 30, "0:00:00.1"},
		{45, 30, "0:00:01.5"},
		{299, 30, "0:00:10.0"},
		{93074, 25, "1:02:03.0"},
		// 0.05s is exactly half a tenth.
		{1, 20, "0:00:00.1"},
		{35999, 10, "0:59:59.9"},
		{36000, 10, "1:00:00.0"},
		{360000, 10, "10:00:00.0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Label(tt.frame, tt.fps); got != tt.want {
				t.Errorf("Label(%d, %v) = %q, want %q", tt.frame, tt.fps, got, tt.want)
			}
		})
	}
}

func TestFormatTenths(t *testing.T) {
	tests := []struct {
		tenths int64
		want   string
	}{
		{0, "0:00:00.0"},
		{9, "0:00:00.9"},
		{10, "0:00:01.0"},
		{599, "0:00:59.9"},
		{600, "0:01:00.0"},
		{37230, "1:02:03.0"},
		{1000000, "27:46:40.0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatTenths(tt.tenths); got != tt.want {
				t.Errorf("FormatTenths(%d) = %q, want %q", tt.tenths, got, tt.want)
			}
		})
	}
}

func TestLabelMonotonic(t *testing.T) {
	for _, fps := range []float64{24000.0 / 1001.0, 25, 30000.0 / 1001.0, 30, 50, 60} {
		prev := Tenths(0, fps)
		if prev != 0 {
			t.Fatalf("Tenths(0, %v) = %d, want 0", fps, prev)
		}
		for i := 1; i < 20000; i++ {
			cur := Tenths(i, fps)
			if cur < prev {
				t.Fatalf("fps %v: Tenths(%d) = %d < Tenths(%d) = %d", fps, i, cur, i-1, prev)
			}
			prev = cur
		}
	}
}

// The last frame of a parsed duration is labelled within one tenth of the
// requested time.
func TestParseDurationLabelRoundTrip(t *testing.T) {
	specs := []string{"0:00:00.1", "0:00:01.5", "0:00:09.9", "0:01:00", "0:12:34.5", "1:02:03", "2:00:00.7"}
	rates := []float64{10, 24000.0 / 1001.0, 25, 30000.0 / 1001.0, 30, 60}

	for _, spec := range specs {
		for _, fps := range rates {
			frames, err := ParseDuration(spec, fps)
			if err != nil {
				t.Fatalf("ParseDuration(%q, %v) error = %v", spec, fps, err)
			}
			want, err := ParseDuration(spec, 10)
			if err != nil {
				t.Fatalf("ParseDuration(%q, 10) error = %v", spec, err)
			}
			got := Tenths(frames-1, fps)
			if diff := int64(want) - got; diff < 0 || diff > 1 {
				t.Errorf("spec %q fps %v: last frame label %s, want within one tenth of %s",
					spec, fps, FormatTenths(got), FormatTenths(int64(want)))
			}
		}
	}
}

func TestParseTimeSpec(t *testing.T) {
	tests := []struct {
		input   string
		fps     float64
		want    int
		wantErr bool
	}{
		{"1234", 30, 1234, false},
		{" 1234 ", 30, 1234, false},
		{"12.9", 30, 12, false},
		{"0", 30, 0, false},
		{"0:00:01.5", 30, 45, false},
		{"1:2", 30, 0, true},
		{"-3", 30, 0, true},
		{"abc", 30, 0, true},
		{"", 30, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			spec, err := ParseTimeSpec(tt.input)
			if err == nil {
				var frames int
				frames, err = spec.Frames(tt.fps)
				if err == nil && frames != tt.want {
					t.Errorf("ParseTimeSpec(%q).Frames(%v) = %d, want %d", tt.input, tt.fps, frames, tt.want)
				}
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTimeSpec(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestFrameCountPassesThrough(t *testing.T) {
	got, err := FrameCount(300).Frames(29.97)
	if err != nil {
		t.Fatalf("Frames() error = %v", err)
	}
	if got != 300 {
		t.Errorf("Frames() = %d, want 300", got)
	}
	if s := FrameCount(300).String(); s != "300 frames" {
		t.Errorf("String() = %q", s)
	}
	if s := Timestamp("0:00:10").String(); s != "0:00:10" {
		t.Errorf("String() = %q", s)
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		input   string
		want    Rate
		wantErr bool
	}{
		{"30000/1001", Rate{30000, 1001}, false},
		{"25/1", Rate{25, 1}, false},
		{"25", Rate{25, 1}, false},
		{" 60/1\n", Rate{60, 1}, false},
		{"30/0", Rate{}, true},
		{"0/1", Rate{}, true},
		{"a/b", Rate{}, true},
		{"", Rate{}, true},
		{"1/2/3", Rate{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !cverrors.IsFormat(err) {
				t.Errorf("ParseRate(%q) error = %v, want a format error", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRateConversions(t *testing.T) {
	r := Rate{30000, 1001}
	if got := r.Float(); math.Abs(got-29.97002997) > 1e-6 {
		t.Errorf("Float() = %v", got)
	}
	if got := r.String(); got != "30000/1001" {
		t.Errorf("String() = %q", got)
	}
	if got := (Rate{}).Float(); got != 0 {
		t.Errorf("zero Rate Float() = %v", got)
	}

	whole, err := RateFromFPS(30)
	if err != nil || whole != (Rate{30, 1}) {
		t.Errorf("RateFromFPS(30) = %v, %v", whole, err)
	}
	frac, err := RateFromFPS(29.97)
	if err != nil || frac != (Rate{29970, 1000}) {
		t.Errorf("RateFromFPS(29.97) = %v, %v", frac, err)
	}
	if _, err := RateFromFPS(0); err == nil {
		t.Error("RateFromFPS(0) should fail")
	}
	if _, err := RateFromFPS(0.0001); !cverrors.IsFormat(err) {
		t.Errorf("RateFromFPS(0.0001) error = %v, want a format error", err)
	}
}

func TestRateFromFPSExactRates(t *testing.T) {
	tests := []struct {
		fps  float64
		want Rate
	}{
		{25, Rate{25, 1}},
		{30000.0 / 1001.0, Rate{30000, 1001}},
		{24000.0 / 1001.0, Rate{24000, 1001}},
		{60000.0 / 1001.0, Rate{60000, 1001}},
		{23.976, Rate{23976, 1000}},
		{12.5, Rate{12500, 1000}},
	}

	for _, tt := range tests {
		got, err := RateFromFPS(tt.fps)
		if err != nil {
			t.Fatalf("RateFromFPS(%v) error = %v", tt.fps, err)
		}
		if got != tt.want {
			t.Errorf("RateFromFPS(%v) = %v, want %v", tt.fps, got, tt.want)
		}
		// Labels computed from the rate match labels computed from fps.
		for _, frame := range []int{1, 1798, 107892} {
			if a, b := Label(frame, got.Float()), Label(frame, tt.fps); a != b {
				t.Errorf("fps %v frame %d: label %s from rate, %s from fps", tt.fps, frame, a, b)
			}
		}
	}
}
