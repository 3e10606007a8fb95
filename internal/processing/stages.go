package processing

import "fmt"

// Stage names a step of the overlay state machine.
type Stage string

// Pipeline stages in execution order. A run goes PROBE, RENDER_TIMER, then
// either EXTRACT_AUDIO and MUX_WITH_AUDIO or COPY_VIDEO_ONLY, then CLEANUP.
const (
	StageProbe         Stage = "probe"
	StageRenderTimer   Stage = "render_timer"
	StageExtractAudio  Stage = "extract_audio"
	StageMuxWithAudio  Stage = "mux_with_audio"
	StageCopyVideoOnly Stage = "copy_video_only"
	StageCleanup       Stage = "cleanup"
	StageDone          Stage = "done"
)

// StageError records which stage failed for which input.
type StageError struct {
	Stage Stage
	Input string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.Input, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// errorTitle and suggestion feed reporter.Error.
func (s Stage) errorTitle() string {
	switch s {
	case StageProbe:
		return "Analysis Error"
	case StageRenderTimer:
		return "Timer Render Error"
	case StageExtractAudio:
		return "Audio Extraction Error"
	case StageMuxWithAudio, StageCopyVideoOnly:
		return "Mux Error"
	default:
		return "Processing Error"
	}
}

func (s Stage) suggestion() string {
	switch s {
	case StageProbe:
		return "Check that the file is a valid video and ffprobe is installed"
	case StageRenderTimer:
		return "Check that ffmpeg is installed and the temp directory has free space"
	case StageExtractAudio, StageMuxWithAudio, StageCopyVideoOnly:
		return "Check FFmpeg output above for more details"
	default:
		return ""
	}
}
