// Package reporter provides progress reporting interfaces and implementations.
package reporter

import "time"

// VideoSummary describes an input after probing.
type VideoSummary struct {
	InputFile   string
	OutputFile  string
	TotalFrames uint64
	FrameRate   string
	FPS         float64
	Duration    string
	HasAudio    bool
	FrameSource string
}

// ProgressSnapshot contains timer rendering progress.
type ProgressSnapshot struct {
	CurrentFrame uint64
	TotalFrames  uint64
	Percent      float32
	FPS          float32
	ETA          time.Duration
	Label        string
}

// RenderOutcome describes a finished timer video.
type RenderOutcome struct {
	OutputFile      string
	Frames          uint64
	TotalTime       time.Duration
	FramesPerSecond float64
}

// OverlayOutcome describes one finished input.
type OverlayOutcome struct {
	InputFile   string
	OutputFile  string
	OutputSize  uint64
	TotalFrames uint64
	HasAudio    bool
	TotalTime   time.Duration
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	TotalFiles int
	FileList   []string
}

// FileProgressContext contains current file index within a batch.
type FileProgressContext struct {
	CurrentFile int
	TotalFiles  int
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	SuccessfulCount int
	TotalFiles      int
	TotalFrames     uint64
	TotalDuration   time.Duration
	FileResults     []FileResult
}

// FileResult contains the per-file overlay result.
type FileResult struct {
	Filename   string
	OutputFile string
	Frames     uint64
	HasAudio   bool
	Duration   time.Duration
}

// StageProgress represents a pipeline stage transition.
type StageProgress struct {
	Stage   string
	Percent float32
	Message string
	ETA     *time.Duration
}
