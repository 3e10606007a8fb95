package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidCodec indicates an empty or malformed encoder name.
	ErrInvalidCodec = errors.New("invalid codec")

	// ErrInvalidProgressInterval indicates a progress interval outside 1-3600 seconds.
	ErrInvalidProgressInterval = errors.New("progress interval out of range")

	// ErrInvalidLogLevel indicates an unknown log level name.
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidStaleTempMaxAge indicates a zero stale temp age, which would
	// sweep the intermediates of runs still in progress.
	ErrInvalidStaleTempMaxAge = errors.New("stale temp max age must be positive")
)
