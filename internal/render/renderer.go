package render

import (
	"context"
	"fmt"
	"math"
	"time"

	cverrors "github.com/goldsheep3/clockvid/internal/errors"
	"github.com/goldsheep3/clockvid/internal/ffmpeg"
	"github.com/goldsheep3/clockvid/internal/logging"
	"github.com/goldsheep3/clockvid/internal/reporter"
	"github.com/goldsheep3/clockvid/internal/timecode"
	"github.com/goldsheep3/clockvid/internal/util"
)

// DefaultProgressInterval is the footage time between progress events.
const DefaultProgressInterval = 10 * time.Second

// Sink receives encoded frames in order.
type Sink interface {
	WriteFrame(frame []byte) error
	Close() error
	Abort()
}

// SinkOpener starts a sink for the given encoder parameters.
type SinkOpener func(ctx context.Context, p ffmpeg.SinkParams) (Sink, error)

// OpenFFmpegSink is the default SinkOpener.
func OpenFFmpegSink(ctx context.Context, p ffmpeg.SinkParams) (Sink, error) {
	s, err := ffmpeg.OpenFrameSink(ctx, p)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Options configures a Renderer. Zero values select defaults.
type Options struct {
	Codec            string
	FFmpegPath       string
	ProgressInterval time.Duration
	Reporter         reporter.Reporter
	Logger           *logging.Logger
	Allocator        util.TempAllocator
	OpenSink         SinkOpener
}

// Result describes a finished timer video.
type Result struct {
	Path     string
	Frames   int
	Duration time.Duration
}

// Renderer produces timer videos.
type Renderer struct {
	codec            string
	ffmpegPath       string
	progressInterval time.Duration
	reporter         reporter.Reporter
	logger           *logging.Logger
	allocator        util.TempAllocator
	openSink         SinkOpener
}

// NewRenderer applies defaults to opts.
func NewRenderer(opts Options) *Renderer {
	r := &Renderer{
		codec:            opts.Codec,
		ffmpegPath:       opts.FFmpegPath,
		progressInterval: opts.ProgressInterval,
		reporter:         reporter.OrNull(opts.Reporter),
		logger:           logging.OrGlobal(opts.Logger).WithComponent("render"),
		allocator:        opts.Allocator,
		openSink:         opts.OpenSink,
	}
	if r.codec == "" {
		r.codec = ffmpeg.DefaultCodec
	}
	if r.ffmpegPath == "" {
		r.ffmpegPath = ffmpeg.DefaultBinary
	}
	if r.progressInterval <= 0 {
		r.progressInterval = DefaultProgressInterval
	}
	if r.allocator == nil {
		r.allocator = util.NewDirAllocator("")
	}
	if r.openSink == nil {
		r.openSink = OpenFFmpegSink
	}
	return r
}

// RenderTimerVideo writes a totalFrames-long timer video at rate to
// outputPath, or to a fresh temp .mp4 when outputPath is empty, and returns
// the path. The caller owns the file. On failure any partial output is
// removed.
func (r *Renderer) RenderTimerVideo(ctx context.Context, totalFrames int, rate timecode.Rate, outputPath string) (string, error) {
	res, err := r.Render(ctx, totalFrames, rate, outputPath)
	if err != nil {
		return "", err
	}
	return res.Path, nil
}

// Render is RenderTimerVideo returning frame and timing details.
func (r *Renderer) Render(ctx context.Context, totalFrames int, rate timecode.Rate, outputPath string) (*Result, error) {
	if totalFrames <= 0 {
		return nil, cverrors.NewEncoderError(fmt.Sprintf("timer video needs at least one frame, got %d", totalFrames), nil)
	}
	if !rate.Valid() {
		return nil, cverrors.NewEncoderError(fmt.Sprintf("invalid frame rate %s", rate), nil)
	}

	if outputPath == "" {
		p, err := r.allocator.Allocate("timer", "mp4")
		if err != nil {
			return nil, cverrors.NewIOError("failed to allocate timer video path", err)
		}
		outputPath = p
	}

	painter, err := NewPainter()
	if err != nil {
		return nil, cverrors.NewEncoderError("failed to prepare timer font", err)
	}
	defer func() { _ = painter.Close() }()

	width, height := painter.Size()
	sink, err := r.openSink(ctx, ffmpeg.SinkParams{
		Binary: r.ffmpegPath,
		RawVideoParams: ffmpeg.RawVideoParams{
			Width:  width,
			Height: height,
			Rate:   rate,
			Codec:  r.codec,
			Output: outputPath,
		},
	})
	if err != nil {
		r.removePartial(outputPath)
		return nil, err
	}

	r.logger.Info("rendering timer video",
		"frames", totalFrames,
		"rate", rate.String(),
		"codec", r.codec,
		"output", outputPath)

	start := time.Now()
	if err := r.writeFrames(ctx, sink, painter, totalFrames, rate, start); err != nil {
		sink.Abort()
		r.removePartial(outputPath)
		return nil, err
	}
	if err := sink.Close(); err != nil {
		r.removePartial(outputPath)
		return nil, err
	}

	elapsed := time.Since(start)
	fps := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		fps = float64(totalFrames) / secs
	}
	r.reporter.RenderComplete(reporter.RenderOutcome{
		OutputFile:      outputPath,
		Frames:          uint64(totalFrames),
		TotalTime:       elapsed,
		FramesPerSecond: fps,
	})
	r.logger.Debug("timer video complete", "frames", totalFrames, "elapsed", elapsed)

	return &Result{Path: outputPath, Frames: totalFrames, Duration: elapsed}, nil
}

func (r *Renderer) writeFrames(ctx context.Context, sink Sink, painter *Painter, totalFrames int, rate timecode.Rate, start time.Time) error {
	fps := rate.Float()
	every := r.progressEvery(fps)
	r.reporter.RenderStarted(uint64(totalFrames))

	var (
		lastLabel string
		frame     []byte
	)
	for i := 0; i < totalFrames; i++ {
		if err := ctx.Err(); err != nil {
			return cverrors.NewCancelledError(err)
		}

		label := timecode.Label(i, fps)
		if frame == nil || label != lastLabel {
			frame = painter.Paint(label)
			lastLabel = label
		}
		if err := sink.WriteFrame(frame); err != nil {
			return err
		}

		done := i + 1
		if done%every == 0 || done == totalFrames {
			r.reportProgress(done, totalFrames, label, start)
		}
	}
	return nil
}

// progressEvery converts the footage interval into a frame count.
func (r *Renderer) progressEvery(fps float64) int {
	n := int(math.Round(r.progressInterval.Seconds() * fps))
	if n < 1 {
		return 1
	}
	return n
}

func (r *Renderer) reportProgress(done, total int, label string, start time.Time) {
	elapsed := time.Since(start).Seconds()
	var speed float64
	var eta time.Duration
	if elapsed > 0 {
		speed = float64(done) / elapsed
		if speed > 0 {
			eta = time.Duration(float64(total-done) / speed * float64(time.Second))
		}
	}
	r.reporter.RenderProgress(reporter.ProgressSnapshot{
		CurrentFrame: uint64(done),
		TotalFrames:  uint64(total),
		Percent:      float32(done) * 100 / float32(total),
		FPS:          float32(speed),
		ETA:          eta,
		Label:        label,
	})
	r.logger.Debug("render progress", "frame", done, "total", total, "label", label)
}

func (r *Renderer) removePartial(path string) {
	if err := util.RemoveIfExists(path); err != nil {
		r.logger.Warn("failed to remove partial timer video", "path", path, "error", err)
	}
}

var _ Sink = (*ffmpeg.FrameSink)(nil)

