package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// JSONReporter outputs one JSON object per line (NDJSON).
type JSONReporter struct {
	writer             io.Writer
	mu                 sync.Mutex
	lastProgressBucket int
	lastProgressTime   time.Time
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{
		writer:             w,
		lastProgressBucket: -1,
	}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) VideoAnalyzed(summary VideoSummary) {
	r.write(map[string]any{
		"type":         "video_analyzed",
		"input_file":   summary.InputFile,
		"output_file":  summary.OutputFile,
		"total_frames": summary.TotalFrames,
		"frame_rate":   summary.FrameRate,
		"fps":          summary.FPS,
		"duration":     summary.Duration,
		"has_audio":    summary.HasAudio,
		"frame_source": summary.FrameSource,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) StageProgress(update StageProgress) {
	event := map[string]any{
		"type":      "stage_progress",
		"stage":     update.Stage,
		"percent":   update.Percent,
		"message":   update.Message,
		"timestamp": r.timestamp(),
	}
	if update.ETA != nil {
		event["eta_seconds"] = int64(update.ETA.Seconds())
	}
	r.write(event)
}

func (r *JSONReporter) RenderStarted(totalFrames uint64) {
	r.mu.Lock()
	r.lastProgressBucket = -1
	r.lastProgressTime = time.Time{}
	r.mu.Unlock()

	r.write(map[string]any{
		"type":         "render_started",
		"total_frames": totalFrames,
		"timestamp":    r.timestamp(),
	})
}

// RenderProgress emits at most one event per whole percent unless five
// seconds have passed; the final frame is always emitted.
func (r *JSONReporter) RenderProgress(progress ProgressSnapshot) {
	const minInterval = 5 * time.Second

	bucket := int(progress.Percent)
	now := time.Now()
	final := progress.TotalFrames > 0 && progress.CurrentFrame >= progress.TotalFrames

	r.mu.Lock()
	intervalElapsed := r.lastProgressTime.IsZero() || now.Sub(r.lastProgressTime) >= minInterval
	shouldEmit := bucket > r.lastProgressBucket || intervalElapsed || final

	if !shouldEmit {
		r.mu.Unlock()
		return
	}

	if bucket > r.lastProgressBucket {
		r.lastProgressBucket = bucket
	}
	r.lastProgressTime = now
	r.mu.Unlock()

	r.write(map[string]any{
		"type":          "render_progress",
		"stage":         "render_timer",
		"current_frame": progress.CurrentFrame,
		"total_frames":  progress.TotalFrames,
		"percent":       progress.Percent,
		"fps":           progress.FPS,
		"eta_seconds":   int64(progress.ETA.Seconds()),
		"label":         progress.Label,
		"timestamp":     r.timestamp(),
	})
}

func (r *JSONReporter) RenderComplete(outcome RenderOutcome) {
	r.write(map[string]any{
		"type":              "render_complete",
		"output_file":       outcome.OutputFile,
		"frames":            outcome.Frames,
		"duration_seconds":  outcome.TotalTime.Seconds(),
		"frames_per_second": outcome.FramesPerSecond,
		"timestamp":         r.timestamp(),
	})
}

func (r *JSONReporter) OverlayComplete(outcome OverlayOutcome) {
	r.write(map[string]any{
		"type":             "overlay_complete",
		"input_file":       outcome.InputFile,
		"output_file":      outcome.OutputFile,
		"output_size":      outcome.OutputSize,
		"total_frames":     outcome.TotalFrames,
		"has_audio":        outcome.HasAudio,
		"duration_seconds": outcome.TotalTime.Seconds(),
		"timestamp":        r.timestamp(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]any{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]any{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) OperationComplete(message string) {
	r.write(map[string]any{
		"type":      "operation_complete",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write(map[string]any{
		"type":        "batch_started",
		"total_files": info.TotalFiles,
		"file_list":   info.FileList,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) FileProgress(context FileProgressContext) {
	r.write(map[string]any{
		"type":         "file_progress",
		"current_file": context.CurrentFile,
		"total_files":  context.TotalFiles,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	files := make([]map[string]any, len(summary.FileResults))
	for i, res := range summary.FileResults {
		files[i] = map[string]any{
			"file":             res.Filename,
			"output_file":      res.OutputFile,
			"frames":           res.Frames,
			"has_audio":        res.HasAudio,
			"duration_seconds": res.Duration.Seconds(),
		}
	}

	r.write(map[string]any{
		"type":                   "batch_complete",
		"successful_count":       summary.SuccessfulCount,
		"total_files":            summary.TotalFiles,
		"total_frames":           summary.TotalFrames,
		"total_duration_seconds": summary.TotalDuration.Seconds(),
		"files":                  files,
		"timestamp":              r.timestamp(),
	})
}

func (r *JSONReporter) Verbose(message string) {
	r.write(map[string]any{
		"type":      "verbose",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}
