package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunLog is the per-invocation log file written by the CLI.
type RunLog struct {
	file     *os.File
	filePath string
	logger   *Logger
}

// Setup creates a timestamped log file in logDir and a logger writing to it.
// Returns nil if logging is disabled (noLog=true).
func Setup(logDir string, verbose, noLog bool) (*RunLog, error) {
	if noLog {
		return nil, nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filePath := filepath.Join(logDir, fmt.Sprintf("clockvid_run_%s.log", timestamp))

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %w", filePath, err)
	}

	level := LevelInfo
	if verbose {
		level = LevelDebug
	}

	r := &RunLog{
		file:     file,
		filePath: filePath,
		logger:   New(Config{Level: level, Output: file, Enabled: true}),
	}

	r.logger.Info("clockvid starting", "log_file", filePath, "debug", verbose)
	return r, nil
}

// Logger returns the structured logger that writes to the file. A nil RunLog
// yields a discarding logger.
func (r *RunLog) Logger() *Logger {
	if r == nil {
		return Discard()
	}
	return r.logger
}

// Close closes the log file.
func (r *RunLog) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// FilePath returns the path to the log file.
func (r *RunLog) FilePath() string {
	if r == nil {
		return ""
	}
	return r.filePath
}
