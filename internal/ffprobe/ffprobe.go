// Package ffprobe answers the metadata questions the overlay pipeline needs
// (frame count, frame rate, audio presence) by running ffprobe.
package ffprobe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	cverrors "github.com/goldsheep3/clockvid/internal/errors"
	"github.com/goldsheep3/clockvid/internal/logging"
	"github.com/goldsheep3/clockvid/internal/timecode"
	"github.com/goldsheep3/clockvid/internal/util"
)

// DefaultBinary is the ffprobe executable looked up on PATH.
const DefaultBinary = "ffprobe"

// FrameCountStrategy names how a frame count was obtained.
type FrameCountStrategy string

const (
	// StrategyStreamHeader reads nb_frames from the first video stream.
	StrategyStreamHeader FrameCountStrategy = "nb_frames"
	// StrategyDurationRate multiplies stream duration by r_frame_rate.
	StrategyDurationRate FrameCountStrategy = "duration*rate"
)

// StrategyError records why one frame-count strategy failed.
type StrategyError struct {
	Strategy FrameCountStrategy
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Strategy, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// MediaInfo is everything the pipeline learns about an input.
type MediaInfo struct {
	Path        string
	TotalFrames int
	Strategy    FrameCountStrategy
	Rate        timecode.Rate
	HasAudio    bool
}

// Prober runs ffprobe queries through a CommandRunner.
type Prober struct {
	binary string
	runner util.CommandRunner
	logger *logging.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithBinary overrides the ffprobe executable.
func WithBinary(path string) Option {
	return func(p *Prober) {
		if path != "" {
			p.binary = path
		}
	}
}

// WithRunner overrides how commands are executed.
func WithRunner(r util.CommandRunner) Option {
	return func(p *Prober) {
		if r != nil {
			p.runner = r
		}
	}
}

// WithLogger sets the logger used for fallback warnings.
func WithLogger(l *logging.Logger) Option {
	return func(p *Prober) {
		p.logger = l
	}
}

// New creates a Prober using ffprobe from PATH unless overridden.
func New(opts ...Option) *Prober {
	p := &Prober{
		binary: DefaultBinary,
		runner: util.ExecRunner{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.OrGlobal(p.logger).WithComponent("ffprobe")
	return p
}

// Probe collects frame count, frame rate and audio presence for path.
func (p *Prober) Probe(ctx context.Context, path string) (*MediaInfo, error) {
	rate, err := p.FrameRate(ctx, path)
	if err != nil {
		return nil, err
	}
	frames, strategy, err := p.totalFrames(ctx, path)
	if err != nil {
		return nil, err
	}
	audio, err := p.HasAudio(ctx, path)
	if err != nil {
		return nil, err
	}
	return &MediaInfo{
		Path:        path,
		TotalFrames: frames,
		Strategy:    strategy,
		Rate:        rate,
		HasAudio:    audio,
	}, nil
}

// TotalFrames returns the number of frames in the first video stream. The
// container's nb_frames is preferred; when it is missing or unreadable the
// count is estimated as round(duration * r_frame_rate).
func (p *Prober) TotalFrames(ctx context.Context, path string) (int, error) {
	n, _, err := p.totalFrames(ctx, path)
	return n, err
}

func (p *Prober) totalFrames(ctx context.Context, path string) (int, FrameCountStrategy, error) {
	n, primaryErr := p.framesFromHeader(ctx, path)
	if primaryErr == nil {
		p.logger.Debug("frame count read from stream header", "path", path, "frames", n)
		return n, StrategyStreamHeader, nil
	}
	if cverrors.IsCancelled(primaryErr) {
		return 0, "", primaryErr
	}

	p.logger.Warn("nb_frames unavailable, estimating from duration and rate",
		"path", path, "error", primaryErr)

	n, fallbackErr := p.framesFromDuration(ctx, path)
	if fallbackErr == nil {
		p.logger.Debug("frame count estimated", "path", path, "frames", n)
		return n, StrategyDurationRate, nil
	}
	if cverrors.IsCancelled(fallbackErr) {
		return 0, "", fallbackErr
	}

	return 0, "", cverrors.NewProbeError(
		fmt.Sprintf("cannot determine frame count of %s", path),
		errors.Join(
			&StrategyError{Strategy: StrategyStreamHeader, Err: primaryErr},
			&StrategyError{Strategy: StrategyDurationRate, Err: fallbackErr},
		),
	)
}

func (p *Prober) framesFromHeader(ctx context.Context, path string) (int, error) {
	out, err := p.run(ctx,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=nb_frames",
		"-of", "default=nokey=1:noprint_wrappers=1",
		path,
	)
	if err != nil {
		return 0, err
	}
	line := firstLine(out)
	n, err := strconv.Atoi(line)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("unusable nb_frames %q", line)
	}
	return n, nil
}

func (p *Prober) framesFromDuration(ctx context.Context, path string) (int, error) {
	out, err := p.run(ctx,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=duration,r_frame_rate",
		"-of", "csv=p=0",
		path,
	)
	if err != nil {
		return 0, err
	}
	duration, rate, err := parseDurationRate(firstLine(out))
	if err != nil {
		return 0, err
	}
	return int(math.Round(duration * rate.Float())), nil
}

// parseDurationRate reads a "rate,duration" csv row. ffprobe emits fields in
// its own order, so the rate is recognised by its slash.
func parseDurationRate(line string) (float64, timecode.Rate, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 2 {
		return 0, timecode.Rate{}, fmt.Errorf("expected duration and rate, got %q", line)
	}

	rateField, durField := fields[0], fields[1]
	if !strings.Contains(rateField, "/") {
		rateField, durField = durField, rateField
	}

	rate, err := timecode.ParseRate(rateField)
	if err != nil {
		return 0, timecode.Rate{}, err
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(durField), 64)
	if err != nil || duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0, timecode.Rate{}, fmt.Errorf("unusable duration %q", durField)
	}
	return duration, rate, nil
}

// FrameRate returns r_frame_rate of the first video stream.
func (p *Prober) FrameRate(ctx context.Context, path string) (timecode.Rate, error) {
	out, err := p.run(ctx,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate",
		"-of", "csv=p=0",
		path,
	)
	if err != nil {
		if cverrors.IsCancelled(err) {
			return timecode.Rate{}, err
		}
		return timecode.Rate{}, cverrors.NewProbeError(fmt.Sprintf("cannot read frame rate of %s", path), err)
	}
	rate, err := timecode.ParseRate(firstLine(out))
	if err != nil {
		return timecode.Rate{}, cverrors.NewProbeError(fmt.Sprintf("cannot read frame rate of %s", path), err)
	}
	return rate, nil
}

// HasAudio reports whether path has at least one audio stream: true exactly
// when ffprobe prints anything for the audio stream selection. A non-zero
// exit with empty output counts as no audio; failing to start ffprobe at all
// is an error.
func (p *Prober) HasAudio(ctx context.Context, path string) (bool, error) {
	out, _, err := p.runner.Run(ctx, p.binary,
		"-i", path,
		"-show_streams",
		"-select_streams", "a",
		"-loglevel", "error",
	)
	if err != nil {
		if cverrors.IsCancelled(err) {
			return false, err
		}
		if cmdErr, ok := cverrors.CommandOf(err); ok && cmdErr.Kind == cverrors.CommandStart {
			return false, cverrors.NewProbeError(fmt.Sprintf("cannot inspect audio of %s", path), err)
		}
		p.logger.Debug("ffprobe audio query exited non-zero", "path", path, "error", err)
	}
	audio := len(out) > 0
	p.logger.Debug("audio detection", "path", path, "has_audio", audio)
	return audio, nil
}

func (p *Prober) run(ctx context.Context, args ...string) ([]byte, error) {
	out, _, err := p.runner.Run(ctx, p.binary, args...)
	return out, err
}

func firstLine(out []byte) string {
	line, _, _ := bytes.Cut(bytes.TrimSpace(out), []byte("\n"))
	return strings.TrimSpace(string(line))
}
