package reporter

import (
	"github.com/goldsheep3/clockvid/internal/logging"
)

// LogReporter writes every event as a structured log record. The CLI pairs
// it with a terminal or JSON reporter so the run log holds the same history.
type LogReporter struct {
	logger *logging.Logger
}

// NewLogReporter returns a reporter logging through l (global when nil).
func NewLogReporter(l *logging.Logger) *LogReporter {
	return &LogReporter{logger: logging.OrGlobal(l).WithComponent("reporter")}
}

func (r *LogReporter) VideoAnalyzed(s VideoSummary) {
	r.logger.Info("video analyzed",
		"input", s.InputFile, "output", s.OutputFile,
		"frames", s.TotalFrames, "frame_source", s.FrameSource,
		"rate", s.FrameRate, "audio", s.HasAudio)
}

func (r *LogReporter) StageProgress(u StageProgress) {
	r.logger.Info("stage", "stage", u.Stage, "message", u.Message)
}

func (r *LogReporter) RenderStarted(totalFrames uint64) {
	r.logger.Info("render started", "frames", totalFrames)
}

func (r *LogReporter) RenderProgress(p ProgressSnapshot) {
	r.logger.Debug("render progress",
		"frame", p.CurrentFrame, "total", p.TotalFrames,
		"percent", p.Percent, "label", p.Label, "fps", p.FPS)
}

func (r *LogReporter) RenderComplete(o RenderOutcome) {
	r.logger.Info("render complete",
		"output", o.OutputFile, "frames", o.Frames,
		"elapsed", o.TotalTime, "fps", o.FramesPerSecond)
}

func (r *LogReporter) OverlayComplete(o OverlayOutcome) {
	r.logger.Info("overlay complete",
		"input", o.InputFile, "output", o.OutputFile,
		"size", o.OutputSize, "audio", o.HasAudio, "elapsed", o.TotalTime)
}

func (r *LogReporter) Warning(message string) {
	r.logger.Warn(message)
}

func (r *LogReporter) Error(err ReporterError) {
	r.logger.Error(err.Title, "message", err.Message, "context", err.Context)
}

func (r *LogReporter) OperationComplete(message string) {
	r.logger.Info(message)
}

func (r *LogReporter) BatchStarted(info BatchStartInfo) {
	r.logger.Info("batch started", "files", info.TotalFiles)
}

func (r *LogReporter) FileProgress(c FileProgressContext) {
	r.logger.Info("file", "current", c.CurrentFile, "total", c.TotalFiles)
}

func (r *LogReporter) BatchComplete(s BatchSummary) {
	r.logger.Info("batch complete",
		"succeeded", s.SuccessfulCount, "total", s.TotalFiles,
		"frames", s.TotalFrames, "elapsed", s.TotalDuration)
}

func (r *LogReporter) Verbose(message string) {
	r.logger.Debug(message)
}
