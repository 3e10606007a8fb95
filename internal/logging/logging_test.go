package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesText(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf, Enabled: true})

	l.Debug("hidden")
	l.WithComponent("probe").Info("frames counted", "total", 45)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record should be filtered at info level")
	}
	if !strings.Contains(out, "component=probe") || !strings.Contains(out, "total=45") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: LevelDebug, Output: &buf, Enabled: true, JSON: true}).Debug("rendered", "frames", 3)
	if !strings.Contains(buf.String(), `"frames":3`) {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestDisabledLoggerDiscards(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: LevelDebug, Output: &buf, Enabled: false}).Error("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"debug", "DEBUG", false},
		{"INFO", "INFO", false},
		{"", "INFO", false},
		{"warning", "WARN", false},
		{"error", "ERROR", false},
		{"loud", "INFO", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestGlobal(t *testing.T) {
	prev := Global()
	t.Cleanup(func() { SetGlobal(prev) })

	var buf bytes.Buffer
	SetGlobal(New(Config{Level: LevelWarn, Output: &buf, Enabled: true}))
	Global().Info("skipped")
	Global().Warn("kept")
	if strings.Contains(buf.String(), "skipped") || !strings.Contains(buf.String(), "kept") {
		t.Errorf("unexpected output %q", buf.String())
	}

	custom := Discard()
	if OrGlobal(custom) != custom {
		t.Error("OrGlobal should return a non-nil logger unchanged")
	}
	if OrGlobal(nil) != Global() {
		t.Error("OrGlobal(nil) should return the global logger")
	}
}

func TestSetupWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	r, err := Setup(dir, true, false)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	r.Logger().Debug("verbose detail")
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(r.FilePath()), "clockvid_run_") {
		t.Errorf("unexpected log file name %s", r.FilePath())
	}
	data, err := os.ReadFile(r.FilePath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "clockvid starting") || !strings.Contains(string(data), "verbose detail") {
		t.Errorf("log file missing records: %q", data)
	}
}

func TestSetupDisabled(t *testing.T) {
	r, err := Setup(t.TempDir(), false, true)
	if err != nil || r != nil {
		t.Fatalf("Setup with noLog = %v, %v", r, err)
	}
	// Nil run logs are safe to use.
	r.Logger().Info("ignored")
	if r.FilePath() != "" || r.Close() != nil {
		t.Error("nil RunLog should be inert")
	}
}
