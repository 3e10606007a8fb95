// Package processing runs the clock-overlay pipeline: probe the input,
// render a matching timer video, and mux it with the input's audio.
package processing

import (
	"context"
	"errors"
	"fmt"
	"time"

	cverrors "github.com/goldsheep3/clockvid/internal/errors"
	"github.com/goldsheep3/clockvid/internal/ffprobe"
	"github.com/goldsheep3/clockvid/internal/logging"
	"github.com/goldsheep3/clockvid/internal/metrics"
	"github.com/goldsheep3/clockvid/internal/render"
	"github.com/goldsheep3/clockvid/internal/reporter"
	"github.com/goldsheep3/clockvid/internal/timecode"
	"github.com/goldsheep3/clockvid/internal/util"
)

// MetadataProber answers the three metadata queries for an input.
type MetadataProber interface {
	Probe(ctx context.Context, path string) (*ffprobe.MediaInfo, error)
}

// TimerRenderer writes a timer video of totalFrames frames at rate.
type TimerRenderer interface {
	Render(ctx context.Context, totalFrames int, rate timecode.Rate, outputPath string) (*render.Result, error)
}

// StreamMuxer performs the stream-copy steps.
type StreamMuxer interface {
	ExtractAudio(ctx context.Context, input, output string) error
	MuxWithAudio(ctx context.Context, video, audio, output string) error
	CopyVideo(ctx context.Context, video, output string) error
}

// Pipeline wires the overlay stages together. Prober, Renderer and Muxer are
// required; the rest fall back to defaults.
type Pipeline struct {
	Prober    MetadataProber
	Renderer  TimerRenderer
	Muxer     StreamMuxer
	Allocator util.TempAllocator
	Reporter  reporter.Reporter
	Logger    *logging.Logger
	Metrics   *metrics.Metrics
}

// Result describes one finished input.
type Result struct {
	InputFile   string
	OutputFile  string
	TotalFrames int
	Rate        timecode.Rate
	HasAudio    bool
	OutputSize  uint64
	Duration    time.Duration
}

// OutputPath returns where the overlay for input is written.
func OutputPath(input string) string {
	return util.ClockOutputPath(input)
}

// ProcessVideoWithClock runs the pipeline for one input and returns the
// output path.
func (p *Pipeline) ProcessVideoWithClock(ctx context.Context, input string) (string, error) {
	res, err := p.Process(ctx, input)
	if err != nil {
		return "", err
	}
	return res.OutputFile, nil
}

// run holds the per-input state. Every temp path handed out is recorded in
// artifacts and removed when the run ends, whatever the outcome.
type run struct {
	p         *Pipeline
	input     string
	rep       reporter.Reporter
	log       *logging.Logger
	alloc     util.TempAllocator
	artifacts []string
}

// Process runs the pipeline for one input.
func (p *Pipeline) Process(ctx context.Context, input string) (res *Result, err error) {
	if p.Prober == nil || p.Renderer == nil || p.Muxer == nil {
		return nil, cverrors.NewConfigError("pipeline needs a prober, renderer and muxer")
	}

	start := time.Now()
	r := &run{
		p:     p,
		input: input,
		rep:   reporter.OrNull(p.Reporter),
		log:   logging.OrGlobal(p.Logger).WithComponent("pipeline").With("input", util.GetFilename(input)),
		alloc: p.Allocator,
	}
	if r.alloc == nil {
		r.alloc = util.NewDirAllocator("")
	}
	defer r.cleanup()
	defer func() { p.Metrics.RecordRun(outcomeOf(err)) }()

	if err := ctx.Err(); err != nil {
		return nil, &StageError{Stage: StageProbe, Input: input, Err: cverrors.NewCancelledError(err)}
	}

	var info *ffprobe.MediaInfo
	err = r.stage(StageProbe, fmt.Sprintf("Probing %s", util.GetFilename(input)), func() error {
		var perr error
		info, perr = p.Prober.Probe(ctx, input)
		return perr
	})
	if err != nil {
		return nil, err
	}

	output := OutputPath(input)
	r.rep.VideoAnalyzed(reporter.VideoSummary{
		InputFile:   util.GetFilename(input),
		OutputFile:  util.GetFilename(output),
		TotalFrames: uint64(info.TotalFrames),
		FrameRate:   info.Rate.String(),
		FPS:         info.Rate.Float(),
		Duration:    util.FormatDuration(float64(info.TotalFrames) / info.Rate.Float()),
		HasAudio:    info.HasAudio,
		FrameSource: string(info.Strategy),
	})

	timerPath, err := r.allocate("timer", "mp4")
	if err != nil {
		return nil, err
	}
	err = r.stage(StageRenderTimer, fmt.Sprintf("Rendering %d timer frames at %s fps", info.TotalFrames, util.FormatFrameRate(info.Rate.Float())), func() error {
		rendered, rerr := p.Renderer.Render(ctx, info.TotalFrames, info.Rate, timerPath)
		if rerr != nil {
			return rerr
		}
		p.Metrics.AddFrames(rendered.Frames)
		if secs := rendered.Duration.Seconds(); secs > 0 {
			p.Metrics.ObserveRenderSpeed(float64(rendered.Frames) / secs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	existed := util.FileExists(output)
	if info.HasAudio {
		err = r.muxWithAudio(ctx, timerPath, output)
	} else {
		err = r.stage(StageCopyVideoOnly, "No audio stream, copying timer video", func() error {
			return p.Muxer.CopyVideo(ctx, timerPath, output)
		})
	}
	if err != nil {
		if !existed {
			r.remove(output)
		}
		return nil, err
	}

	r.rep.StageProgress(reporter.StageProgress{Stage: string(StageCleanup), Message: "Removing intermediate files"})
	r.cleanup()

	size, _ := util.GetFileSize(output)
	res = &Result{
		InputFile:   input,
		OutputFile:  output,
		TotalFrames: info.TotalFrames,
		Rate:        info.Rate,
		HasAudio:    info.HasAudio,
		OutputSize:  size,
		Duration:    time.Since(start),
	}

	r.rep.StageProgress(reporter.StageProgress{Stage: string(StageDone), Percent: 100, Message: fmt.Sprintf("Wrote %s", util.GetFilename(output))})
	r.rep.OverlayComplete(reporter.OverlayOutcome{
		InputFile:   util.GetFilename(input),
		OutputFile:  output,
		OutputSize:  size,
		TotalFrames: uint64(info.TotalFrames),
		HasAudio:    info.HasAudio,
		TotalTime:   res.Duration,
	})
	r.log.Info("overlay complete", "output", output, "frames", info.TotalFrames, "audio", info.HasAudio, "elapsed", res.Duration)
	return res, nil
}

func (r *run) muxWithAudio(ctx context.Context, timerPath, output string) error {
	audioPath, err := r.allocate("audio", "mka")
	if err != nil {
		return err
	}
	err = r.stage(StageExtractAudio, "Extracting audio streams", func() error {
		return r.p.Muxer.ExtractAudio(ctx, r.input, audioPath)
	})
	if err != nil {
		return err
	}
	err = r.stage(StageMuxWithAudio, "Muxing timer video with original audio", func() error {
		return r.p.Muxer.MuxWithAudio(ctx, timerPath, audioPath, output)
	})
	// The audio artifact has no further consumer.
	r.remove(audioPath)
	return err
}

// stage reports the transition, times fn and tags its error with the stage.
func (r *run) stage(s Stage, message string, fn func() error) error {
	r.rep.StageProgress(reporter.StageProgress{Stage: string(s), Message: message})
	r.log.Debug("stage started", "stage", s)

	started := time.Now()
	err := fn()
	r.p.Metrics.ObserveStage(string(s), time.Since(started))
	if err == nil {
		return nil
	}

	stageErr := &StageError{Stage: s, Input: r.input, Err: err}
	if cverrors.IsCancelled(err) {
		r.log.Warn("stage cancelled", "stage", s)
		return stageErr
	}

	where := fmt.Sprintf("File: %s", r.input)
	if cmdErr, ok := cverrors.CommandOf(err); ok {
		where = fmt.Sprintf("%s, command: %s", where, cmdErr.Command)
	}
	r.rep.Error(reporter.ReporterError{
		Title:      s.errorTitle(),
		Message:    err.Error(),
		Context:    where,
		Suggestion: s.suggestion(),
	})
	r.log.Error("stage failed", "stage", s, "error", err)
	return stageErr
}

func (r *run) allocate(kind, ext string) (string, error) {
	path, err := r.alloc.Allocate(kind, ext)
	if err != nil {
		return "", cverrors.NewIOError(fmt.Sprintf("failed to allocate %s path", kind), err)
	}
	r.artifacts = append(r.artifacts, path)
	return path, nil
}

func (r *run) remove(path string) {
	if err := util.RemoveIfExists(path); err != nil {
		r.log.Warn("failed to remove file", "path", path, "error", err)
	}
}

func (r *run) cleanup() {
	for _, path := range r.artifacts {
		r.remove(path)
	}
	r.artifacts = nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case cverrors.IsCancelled(err), errors.Is(err, context.Canceled):
		return metrics.OutcomeCancelled
	default:
		return metrics.OutcomeFailure
	}
}
