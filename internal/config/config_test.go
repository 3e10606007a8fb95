package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	if cfg.Codec != DefaultCodec {
		t.Errorf("expected Codec=%s, got %s", DefaultCodec, cfg.Codec)
	}
	if cfg.ProgressIntervalSecs != DefaultProgressIntervalSecs {
		t.Errorf("expected ProgressIntervalSecs=%d, got %d", DefaultProgressIntervalSecs, cfg.ProgressIntervalSecs)
	}
	if cfg.FFmpegPath != "ffmpeg" || cfg.FFprobePath != "ffprobe" {
		t.Errorf("unexpected tool paths %q %q", cfg.FFmpegPath, cfg.FFprobePath)
	}
	if cfg.ProgressInterval() != 10*time.Second {
		t.Errorf("ProgressInterval() = %v", cfg.ProgressInterval())
	}
	if cfg.StaleTempMaxAge() != 24*time.Hour {
		t.Errorf("StaleTempMaxAge() = %v", cfg.StaleTempMaxAge())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name         string
		modify       func(*Config)
		wantErr      bool
		wantSentinel error
	}{
		{
			name:    "default config is valid",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:         "empty codec is invalid",
			modify:       func(c *Config) { c.Codec = "" },
			wantErr:      true,
			wantSentinel: ErrInvalidCodec,
		},
		{
			name:         "codec with spaces is invalid",
			modify:       func(c *Config) { c.Codec = "lib x264" },
			wantErr:      true,
			wantSentinel: ErrInvalidCodec,
		},
		{
			name:         "zero stale temp age is invalid",
			modify:       func(c *Config) { c.StaleTempMaxAgeHours = 0 },
			wantErr:      true,
			wantSentinel: ErrInvalidStaleTempMaxAge,
		},
		{
			name:    "one hour stale temp age is valid",
			modify:  func(c *Config) { c.StaleTempMaxAgeHours = 1 },
			wantErr: false,
		},
		{
			name:    "libx264 is valid",
			modify:  func(c *Config) { c.Codec = "libx264" },
			wantErr: false,
		},
		{
			name:         "interval 0 is invalid",
			modify:       func(c *Config) { c.ProgressIntervalSecs = 0 },
			wantErr:      true,
			wantSentinel: ErrInvalidProgressInterval,
		},
		{
			name:         "interval 3601 is invalid",
			modify:       func(c *Config) { c.ProgressIntervalSecs = 3601 },
			wantErr:      true,
			wantSentinel: ErrInvalidProgressInterval,
		},
		{
			name:    "interval 3600 is valid",
			modify:  func(c *Config) { c.ProgressIntervalSecs = 3600 },
			wantErr: false,
		},
		{
			name:         "unknown log level is invalid",
			modify:       func(c *Config) { c.LogLevel = "chatty" },
			wantErr:      true,
			wantSentinel: ErrInvalidLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantSentinel != nil && !errors.Is(err, tt.wantSentinel) {
				t.Errorf("Validate() error = %v, want sentinel %v", err, tt.wantSentinel)
			}
		})
	}
}

func TestGetTempDir(t *testing.T) {
	cfg := NewConfig()
	if cfg.GetTempDir() != os.TempDir() {
		t.Errorf("expected system temp dir, got %s", cfg.GetTempDir())
	}
	cfg.TempDir = "/scratch"
	if cfg.GetTempDir() != "/scratch" {
		t.Errorf("expected /scratch, got %s", cfg.GetTempDir())
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
temp_dir = "` + dir + `/tmp"
codec = "libx264"
progress_interval_secs = 5
log_level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !exists || resolved != path {
		t.Errorf("Load() resolved=%s exists=%v", resolved, exists)
	}
	if cfg.Codec != "libx264" || cfg.ProgressIntervalSecs != 5 || cfg.LogLevel != "debug" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.TempDir != filepath.Join(dir, "tmp") {
		t.Errorf("TempDir = %s", cfg.TempDir)
	}
	// Unset keys keep their defaults.
	if cfg.FFprobePath != "ffprobe" {
		t.Errorf("FFprobePath = %s", cfg.FFprobePath)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if exists {
		t.Error("exists should be false for a missing file")
	}
	if cfg.Codec != DefaultCodec {
		t.Errorf("Codec = %s", cfg.Codec)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "width = 640\n", "parse config"},
		{"syntax error", "codec = \n", "parse config"},
		{"invalid value", "progress_interval_secs = 0\n", "progress interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := NewConfig()
	cfg.Codec = "libx264"
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "codec") || !strings.Contains(string(data), "libx264") {
		t.Errorf("marshalled config = %s", data)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/clips")
	if err != nil || got != filepath.Join(home, "clips") {
		t.Errorf("ExpandPath(~/clips) = %s, %v", got, err)
	}
	if got, _ := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %s", got)
	}
	if got, _ := ExpandPath("/a/../b"); got != "/b" {
		t.Errorf("ExpandPath(/a/../b) = %s", got)
	}
}
