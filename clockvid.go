// Package clockvid burns a running timer into videos.
//
// For each input it renders a black 320x240 video whose frames show the
// elapsed time as H:MM:SS.T, with exactly as many frames and the same frame
// rate as the input, then stream-copies the input's audio alongside it.
// FFmpeg and FFprobe must be installed.
//
// Basic usage:
//
//	overlay, err := clockvid.New(
//	    clockvid.WithTempDir("/scratch"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := overlay.Process(ctx, "match.mkv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Wrote %s (%d frames)\n", result.OutputFile, result.TotalFrames)
package clockvid

import (
	"context"
	"fmt"
	"time"

	"github.com/goldsheep3/clockvid/internal/config"
	"github.com/goldsheep3/clockvid/internal/discovery"
	cverrors "github.com/goldsheep3/clockvid/internal/errors"
	"github.com/goldsheep3/clockvid/internal/ffmpeg"
	"github.com/goldsheep3/clockvid/internal/ffprobe"
	"github.com/goldsheep3/clockvid/internal/logging"
	"github.com/goldsheep3/clockvid/internal/metrics"
	"github.com/goldsheep3/clockvid/internal/processing"
	"github.com/goldsheep3/clockvid/internal/render"
	"github.com/goldsheep3/clockvid/internal/reporter"
	"github.com/goldsheep3/clockvid/internal/timecode"
	"github.com/goldsheep3/clockvid/internal/util"
)

// Re-exported types
type (
	Reporter  = reporter.Reporter
	Logger    = logging.Logger
	Metrics   = metrics.Metrics
	TimeSpec  = timecode.TimeSpec
	Rate      = timecode.Rate
	MediaInfo = ffprobe.MediaInfo
)

// Timestamp returns a TimeSpec for an H:MM:SS[.T] string.
func Timestamp(s string) TimeSpec { return timecode.Timestamp(s) }

// FrameCount returns a TimeSpec that is already a frame count.
func FrameCount(n int) TimeSpec { return timecode.FrameCount(n) }

// ParseDuration converts an H:MM:SS[.T] string into a frame count at fps.
func ParseDuration(s string, fps float64) (int, error) {
	return timecode.ParseDuration(s, fps)
}

// OutputPath returns where the overlay for input is written:
// <input without extension>_clock<extension, or .mp4>.
func OutputPath(input string) string {
	return processing.OutputPath(input)
}

// Overlay is the main entry point.
type Overlay struct {
	config   *config.Config
	reporter reporter.Reporter
	logger   *logging.Logger
	metrics  *metrics.Metrics
	runner   util.CommandRunner
}

// Result contains the result of a single input.
type Result struct {
	InputFile   string
	OutputFile  string
	TotalFrames int
	FrameRate   string
	HasAudio    bool
	OutputSize  uint64
	Duration    time.Duration
}

// BatchResult contains the result of a batch.
type BatchResult struct {
	Results         []Result
	SuccessfulCount int
	TotalFiles      int
	TotalFrames     uint64
}

type options struct {
	config   *config.Config
	reporter reporter.Reporter
	handler  EventHandler
	logger   *logging.Logger
	metrics  *metrics.Metrics
	runner   util.CommandRunner
}

// Option configures an Overlay.
type Option func(*options)

// New creates an Overlay with the given options.
func New(opts ...Option) (*Overlay, error) {
	o := &options{config: config.NewConfig()}
	for _, opt := range opts {
		opt(o)
	}

	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	if o.config.TempDir != "" {
		if err := util.EnsureDirectory(o.config.TempDir); err != nil {
			return nil, fmt.Errorf("failed to create temp directory: %w", err)
		}
		if err := util.EnsureDirectoryWritable(o.config.TempDir); err != nil {
			return nil, err
		}
	}

	var rep reporter.Reporter = o.reporter
	if o.handler != nil {
		rep = reporter.NewCompositeReporter(o.reporter, newEventReporter(o.handler))
	}

	return &Overlay{
		config:   o.config,
		reporter: reporter.OrNull(rep),
		logger:   logging.OrGlobal(o.logger),
		metrics:  o.metrics,
		runner:   o.runner,
	}, nil
}

// WithConfig replaces the default configuration. Later options still apply.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg != nil {
			c := *cfg
			o.config = &c
		}
	}
}

// WithTempDir sets where intermediate files are written.
func WithTempDir(dir string) Option {
	return func(o *options) {
		o.config.TempDir = dir
	}
}

// WithCodec sets the encoder for the timer video (default mpeg4).
func WithCodec(codec string) Option {
	return func(o *options) {
		o.config.Codec = codec
	}
}

// WithProgressInterval sets how much timer footage passes between progress events.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		o.config.ProgressIntervalSecs = uint32(d / time.Second)
	}
}

// WithFFmpegPath sets the ffmpeg binary.
func WithFFmpegPath(path string) Option {
	return func(o *options) {
		o.config.FFmpegPath = path
	}
}

// WithFFprobePath sets the ffprobe binary.
func WithFFprobePath(path string) Option {
	return func(o *options) {
		o.config.FFprobePath = path
	}
}

// WithReporter receives every pipeline event.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithEventHandler receives a simplified event stream.
func WithEventHandler(h EventHandler) Option {
	return func(o *options) {
		o.handler = h
	}
}

// WithLogger sets the structured logger (default: the global logger).
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records run counters into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// withRunner replaces the subprocess runner for ffprobe and the muxer.
func withRunner(r util.CommandRunner) Option {
	return func(o *options) {
		o.runner = r
	}
}

// Config returns a copy of the effective configuration.
func (o *Overlay) Config() config.Config {
	return *o.config
}

func (o *Overlay) prober() *ffprobe.Prober {
	return ffprobe.New(
		ffprobe.WithBinary(o.config.FFprobePath),
		ffprobe.WithRunner(o.runner),
		ffprobe.WithLogger(o.logger),
	)
}

func (o *Overlay) renderer(alloc util.TempAllocator) *render.Renderer {
	return render.NewRenderer(render.Options{
		Codec:            o.config.Codec,
		FFmpegPath:       o.config.FFmpegPath,
		ProgressInterval: o.config.ProgressInterval(),
		Reporter:         o.reporter,
		Logger:           o.logger,
		Allocator:        alloc,
	})
}

// pipeline builds a pipeline with its own run ID for temp names.
func (o *Overlay) pipeline() *processing.Pipeline {
	alloc := util.NewDirAllocator(o.config.GetTempDir())
	logger := o.logger.With("run", alloc.RunID)
	return &processing.Pipeline{
		Prober:    o.prober(),
		Renderer:  o.renderer(alloc),
		Muxer:     ffmpeg.NewMuxer(o.config.FFmpegPath, o.runner, logger),
		Allocator: alloc,
		Reporter:  o.reporter,
		Logger:    logger,
		Metrics:   o.metrics,
	}
}

// Process burns the timer into one input and returns the output details.
func (o *Overlay) Process(ctx context.Context, input string) (*Result, error) {
	res, err := o.pipeline().Process(ctx, input)
	if err != nil {
		return nil, err
	}
	r := toResult(*res)
	return &r, nil
}

// ProcessBatch processes inputs in order and stops at the first failure.
// The returned BatchResult holds the inputs completed before it.
func (o *Overlay) ProcessBatch(ctx context.Context, inputs []string) (*BatchResult, error) {
	results, err := o.pipeline().ProcessVideos(ctx, inputs)

	batch := &BatchResult{TotalFiles: len(inputs)}
	for _, r := range results {
		batch.Results = append(batch.Results, toResult(r))
		batch.SuccessfulCount++
		batch.TotalFrames += uint64(r.TotalFrames)
	}
	return batch, err
}

// RenderTimer renders a standalone timer video of the given length at fps.
// An empty output writes to a temp file, which the caller then owns.
func (o *Overlay) RenderTimer(ctx context.Context, spec TimeSpec, fps float64, output string) (string, error) {
	rate, err := timecode.RateFromFPS(fps)
	if err != nil {
		return "", err
	}
	return o.RenderTimerAtRate(ctx, spec, rate, output)
}

// RenderTimerAtRate is RenderTimer for an exact rational rate such as
// 30000/1001. Frame count and labels both follow rate.
func (o *Overlay) RenderTimerAtRate(ctx context.Context, spec TimeSpec, rate Rate, output string) (string, error) {
	if !rate.Valid() {
		return "", cverrors.NewFormatError(fmt.Sprintf("frame rate must be positive, got %s", rate))
	}
	frames, err := spec.Frames(rate.Float())
	if err != nil {
		return "", err
	}
	alloc := util.NewDirAllocator(o.config.GetTempDir())
	path, err := o.renderer(alloc).RenderTimerVideo(ctx, frames, rate, output)
	if err != nil {
		return "", err
	}
	o.metrics.AddFrames(frames)
	return path, nil
}

// Probe returns the metadata the pipeline would use for input.
func (o *Overlay) Probe(ctx context.Context, input string) (*MediaInfo, error) {
	return o.prober().Probe(ctx, input)
}

// FindVideos finds video files in a directory, skipping earlier outputs.
func FindVideos(dir string) ([]string, error) {
	res, err := discovery.FindVideoFiles(dir, nil)
	if err != nil {
		return nil, err
	}
	return res.Files, nil
}

func toResult(r processing.Result) Result {
	return Result{
		InputFile:   r.InputFile,
		OutputFile:  r.OutputFile,
		TotalFrames: r.TotalFrames,
		FrameRate:   r.Rate.String(),
		HasAudio:    r.HasAudio,
		OutputSize:  r.OutputSize,
		Duration:    r.Duration,
	}
}

// eventReporter adapts EventHandler to the Reporter interface.
type eventReporter struct {
	handler EventHandler
}

func newEventReporter(handler EventHandler) *eventReporter {
	return &eventReporter{handler: handler}
}

func (r *eventReporter) VideoAnalyzed(reporter.VideoSummary)       {}
func (r *eventReporter) RenderStarted(uint64)                      {}
func (r *eventReporter) OperationComplete(string)                  {}
func (r *eventReporter) BatchStarted(reporter.BatchStartInfo)      {}
func (r *eventReporter) FileProgress(reporter.FileProgressContext) {}
func (r *eventReporter) Verbose(string)                            {}

func (r *eventReporter) StageProgress(u reporter.StageProgress) {
	_ = r.handler(StageProgressEvent{
		BaseEvent: BaseEvent{EventType: EventTypeStageProgress, Time: NewTimestamp()},
		Stage:     u.Stage,
		Message:   u.Message,
	})
}

func (r *eventReporter) RenderProgress(p reporter.ProgressSnapshot) {
	_ = r.handler(RenderProgressEvent{
		BaseEvent:    BaseEvent{EventType: EventTypeRenderProgress, Time: NewTimestamp()},
		CurrentFrame: p.CurrentFrame,
		TotalFrames:  p.TotalFrames,
		Percent:      p.Percent,
		FPS:          p.FPS,
		ETASeconds:   int64(p.ETA.Seconds()),
		Label:        p.Label,
	})
}

func (r *eventReporter) RenderComplete(o reporter.RenderOutcome) {
	_ = r.handler(RenderCompleteEvent{
		BaseEvent:       BaseEvent{EventType: EventTypeRenderComplete, Time: NewTimestamp()},
		OutputFile:      o.OutputFile,
		Frames:          o.Frames,
		DurationSeconds: o.TotalTime.Seconds(),
	})
}

func (r *eventReporter) OverlayComplete(o reporter.OverlayOutcome) {
	_ = r.handler(OverlayCompleteEvent{
		BaseEvent:   BaseEvent{EventType: EventTypeOverlayComplete, Time: NewTimestamp()},
		InputFile:   o.InputFile,
		OutputFile:  o.OutputFile,
		OutputSize:  o.OutputSize,
		TotalFrames: o.TotalFrames,
		HasAudio:    o.HasAudio,
	})
}

func (r *eventReporter) Warning(message string) {
	_ = r.handler(WarningEvent{
		BaseEvent: BaseEvent{EventType: EventTypeWarning, Time: NewTimestamp()},
		Message:   message,
	})
}

func (r *eventReporter) Error(e reporter.ReporterError) {
	_ = r.handler(ErrorEvent{
		BaseEvent:  BaseEvent{EventType: EventTypeError, Time: NewTimestamp()},
		Title:      e.Title,
		Message:    e.Message,
		Context:    e.Context,
		Suggestion: e.Suggestion,
	})
}

func (r *eventReporter) BatchComplete(s reporter.BatchSummary) {
	_ = r.handler(BatchCompleteEvent{
		BaseEvent:       BaseEvent{EventType: EventTypeBatchComplete, Time: NewTimestamp()},
		SuccessfulCount: s.SuccessfulCount,
		TotalFiles:      s.TotalFiles,
		TotalFrames:     s.TotalFrames,
	})
}
