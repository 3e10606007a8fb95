// Package config provides configuration types, defaults and the optional
// TOML config file for clockvid.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/goldsheep3/clockvid/internal/logging"
)

// Default constants
const (
	// DefaultCodec is the encoder used for the timer video (MPEG-4 Part 2).
	DefaultCodec = "mpeg4"

	// DefaultProgressIntervalSecs is how many seconds of timer footage pass
	// between render progress events.
	DefaultProgressIntervalSecs uint32 = 10

	// MaxProgressIntervalSecs bounds ProgressIntervalSecs.
	MaxProgressIntervalSecs uint32 = 3600

	// DefaultLogLevel is the level for the run log.
	DefaultLogLevel = "info"

	// DefaultStaleTempMaxAgeHours is the age after which leftover temp files
	// from crashed runs are removed at startup.
	DefaultStaleTempMaxAgeHours uint32 = 24

	// DefaultConfigFile is the config location used when none is given.
	DefaultConfigFile = "~/.config/clockvid/config.toml"
)

// Config holds all configuration for a clockvid run.
type Config struct {
	// Paths
	TempDir string `toml:"temp_dir"` // Optional, defaults to os.TempDir()
	LogDir  string `toml:"log_dir"`

	// External tools
	FFmpegPath  string `toml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path"`

	// Timer encoding
	Codec string `toml:"codec"`

	// Reporting
	ProgressIntervalSecs uint32 `toml:"progress_interval_secs"`
	LogLevel             string `toml:"log_level"`

	StaleTempMaxAgeHours uint32 `toml:"stale_temp_max_age_hours"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		LogDir:               defaultLogDir(),
		FFmpegPath:           "ffmpeg",
		FFprobePath:          "ffprobe",
		Codec:                DefaultCodec,
		ProgressIntervalSecs: DefaultProgressIntervalSecs,
		LogLevel:             DefaultLogLevel,
		StaleTempMaxAgeHours: DefaultStaleTempMaxAgeHours,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Codec) == "" || strings.ContainsAny(c.Codec, " \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidCodec, c.Codec)
	}

	if c.ProgressIntervalSecs == 0 || c.ProgressIntervalSecs > MaxProgressIntervalSecs {
		return fmt.Errorf("%w: must be 1-%d, got %d", ErrInvalidProgressInterval, MaxProgressIntervalSecs, c.ProgressIntervalSecs)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %q, valid options: debug, info, warn, error", ErrInvalidLogLevel, c.LogLevel)
	}

	if c.StaleTempMaxAgeHours == 0 {
		return fmt.Errorf("%w: got %d hours", ErrInvalidStaleTempMaxAge, c.StaleTempMaxAgeHours)
	}

	return nil
}

// GetTempDir returns the temp directory, falling back to the system default.
func (c *Config) GetTempDir() string {
	if c.TempDir != "" {
		return c.TempDir
	}
	return os.TempDir()
}

// ProgressInterval returns ProgressIntervalSecs as a duration.
func (c *Config) ProgressInterval() time.Duration {
	return time.Duration(c.ProgressIntervalSecs) * time.Second
}

// StaleTempMaxAge returns StaleTempMaxAgeHours as a duration.
func (c *Config) StaleTempMaxAge() time.Duration {
	return time.Duration(c.StaleTempMaxAgeHours) * time.Hour
}

// Load reads the TOML file at path over the defaults, expands paths and
// validates the result. An empty path means DefaultConfigFile. A missing file
// is not an error: the defaults are returned with exists=false.
func Load(path string) (*Config, string, bool, error) {
	cfg := NewConfig()

	if path == "" {
		path = DefaultConfigFile
	}
	resolved, err := ExpandPath(path)
	if err != nil {
		return nil, "", false, err
	}

	exists := true
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, "", false, fmt.Errorf("open config: %w", err)
	default:
		defer func() { _ = file.Close() }()
		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return cfg, resolved, exists, nil
}

// Marshal renders the config as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

func (c *Config) normalize() error {
	var err error
	if c.TempDir, err = ExpandPath(c.TempDir); err != nil {
		return err
	}
	if c.LogDir, err = ExpandPath(c.LogDir); err != nil {
		return err
	}
	c.Codec = strings.TrimSpace(c.Codec)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	return nil
}

// ExpandPath resolves a leading ~ and makes the path absolute. Empty stays empty.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && pathValue[1] == '/' {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

func defaultLogDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "clockvid", "logs")
	}
	return "~/.local/state/clockvid/logs"
}
