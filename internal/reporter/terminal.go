package reporter

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"

	"github.com/goldsheep3/clockvid/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu          sync.Mutex
	out         io.Writer
	errOut      io.Writer
	interactive bool
	progress    *progressbar.ProgressBar
	maxPercent  float32
	lastStage   string
	cyan        *color.Color
	green       *color.Color
	yellow      *color.Color
	red         *color.Color
	magenta     *color.Color
	bold        *color.Color
	faint       *color.Color
}

// NewTerminalReporterWithWriters creates a terminal reporter writing to out
// and errOut. Without interactive, render progress is printed as lines
// instead of a redrawn bar.
func NewTerminalReporterWithWriters(out, errOut io.Writer, interactive bool) *TerminalReporter {
	return &TerminalReporter{
		out:         out,
		errOut:      errOut,
		interactive: interactive,
		cyan:        color.New(color.FgCyan, color.Bold),
		green:       color.New(color.FgGreen),
		yellow:      color.New(color.FgYellow, color.Bold),
		red:         color.New(color.FgRed, color.Bold),
		magenta:     color.New(color.FgMagenta),
		bold:        color.New(color.Bold),
		faint:       color.New(color.Faint),
	}
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.maxPercent = 0
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) heading(title string) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, title)
}

func (r *TerminalReporter) VideoAnalyzed(summary VideoSummary) {
	r.heading("VIDEO")
	r.printLabel(10, "File:", summary.InputFile)
	r.printLabel(10, "Output:", summary.OutputFile)
	r.printLabel(10, "Duration:", summary.Duration)
	r.printLabel(10, "Frames:", fmt.Sprintf("%d %s", summary.TotalFrames, r.faint.Sprintf("(%s)", summary.FrameSource)))
	r.printLabel(10, "Rate:", fmt.Sprintf("%s fps (%s)", util.FormatFrameRate(summary.FPS), summary.FrameRate))
	audio := "none"
	if summary.HasAudio {
		audio = "present, copied unchanged"
	}
	r.printLabel(10, "Audio:", audio)
}

func (r *TerminalReporter) StageProgress(update StageProgress) {
	r.mu.Lock()
	changed := r.lastStage != update.Stage
	r.lastStage = update.Stage
	r.mu.Unlock()

	if changed {
		r.heading(strings.ToUpper(strings.ReplaceAll(update.Stage, "_", " ")))
	}
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.magenta.Sprint("›"), update.Message)
}

func (r *TerminalReporter) RenderStarted(totalFrames uint64) {
	r.finishProgress()

	if !r.interactive {
		_, _ = fmt.Fprintf(r.out, "  Rendering %d frames\n", totalFrames)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress = progressbar.NewOptions64(
		100,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(r.errOut),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Rendering [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) RenderProgress(progress ProgressSnapshot) {
	clamped := progress.Percent
	if clamped > 100 {
		clamped = 100
	}
	if clamped < 0 {
		clamped = 0
	}

	desc := fmt.Sprintf("%s, %d/%d frames, %.0f fps, eta %s",
		progress.Label, progress.CurrentFrame, progress.TotalFrames,
		progress.FPS, util.FormatDurationFromSecs(int64(progress.ETA.Seconds())))

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		if !r.interactive {
			_, _ = fmt.Fprintf(r.out, "  %5.1f%% %s\n", clamped, desc)
		}
		return
	}

	if clamped >= r.maxPercent {
		r.maxPercent = clamped
		_ = r.progress.Set64(int64(clamped))
	}
	r.progress.Describe(desc)
}

func (r *TerminalReporter) RenderComplete(outcome RenderOutcome) {
	r.finishProgress()
	_, _ = fmt.Fprintf(r.out, "  %s %d frames in %s (%.0f fps)\n",
		r.green.Sprint("✓"),
		outcome.Frames,
		util.FormatDurationFromSecs(int64(outcome.TotalTime.Seconds())),
		outcome.FramesPerSecond)
}

func (r *TerminalReporter) OverlayComplete(outcome OverlayOutcome) {
	r.finishProgress()

	r.heading("RESULTS")
	r.printLabel(8, "Input:", outcome.InputFile)
	r.printLabel(8, "Frames:", fmt.Sprintf("%d", outcome.TotalFrames))
	audio := "none"
	if outcome.HasAudio {
		audio = "copied"
	}
	r.printLabel(8, "Audio:", audio)
	r.printLabel(8, "Size:", util.FormatBytes(outcome.OutputSize))
	r.printLabel(8, "Time:", util.FormatDurationFromSecs(int64(outcome.TotalTime.Seconds())))
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.bold.Sprint("Saved to"), r.green.Sprint(outcome.OutputFile))
}

func (r *TerminalReporter) Warning(message string) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.yellow.Fprintf(r.out, "WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	r.finishProgress()

	_, _ = fmt.Fprintln(r.errOut)
	_, _ = r.red.Fprintf(r.errOut, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(r.errOut, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(r.errOut, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(r.errOut, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) OperationComplete(message string) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = fmt.Fprintf(r.out, "%s %s\n", color.New(color.FgGreen, color.Bold).Sprint("✓"), r.bold.Sprint(message))
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	r.heading("BATCH")
	_, _ = fmt.Fprintf(r.out, "  Processing %d files\n", info.TotalFiles)
	for i, name := range info.FileList {
		_, _ = fmt.Fprintf(r.out, "  %d. %s\n", i+1, name)
	}
}

func (r *TerminalReporter) FileProgress(context FileProgressContext) {
	_, _ = fmt.Fprintf(r.out, "\nFile %s of %d\n", r.bold.Sprint(context.CurrentFile), context.TotalFiles)
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	r.heading("BATCH SUMMARY")
	_, _ = fmt.Fprintf(r.out, "  %s\n", r.bold.Sprintf("%d of %d succeeded", summary.SuccessfulCount, summary.TotalFiles))
	_, _ = fmt.Fprintf(r.out, "  Frames rendered: %d\n", summary.TotalFrames)
	_, _ = fmt.Fprintf(r.out, "  Time: %s\n", util.FormatDurationFromSecs(int64(summary.TotalDuration.Seconds())))

	if len(summary.FileResults) == 0 {
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"File", "Output", "Frames", "Audio", "Time"})
	for _, res := range summary.FileResults {
		audio := "-"
		if res.HasAudio {
			audio = "yes"
		}
		tw.AppendRow(table.Row{
			res.Filename,
			util.GetFilename(res.OutputFile),
			res.Frames,
			audio,
			util.FormatDurationFromSecs(int64(res.Duration.Seconds())),
		})
	}
	tw.Render()
}

func (r *TerminalReporter) Verbose(message string) {
	_, _ = fmt.Fprintf(r.out, "  %s\n", r.faint.Sprint(message))
}
