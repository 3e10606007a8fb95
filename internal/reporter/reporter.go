package reporter

// Reporter receives progress events from the overlay pipeline.
type Reporter interface {
	VideoAnalyzed(summary VideoSummary)
	StageProgress(update StageProgress)
	RenderStarted(totalFrames uint64)
	RenderProgress(progress ProgressSnapshot)
	RenderComplete(outcome RenderOutcome)
	OverlayComplete(outcome OverlayOutcome)
	Warning(message string)
	Error(err ReporterError)
	OperationComplete(message string)
	BatchStarted(info BatchStartInfo)
	FileProgress(context FileProgressContext)
	BatchComplete(summary BatchSummary)
	Verbose(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) VideoAnalyzed(VideoSummary)        {}
func (NullReporter) StageProgress(StageProgress)       {}
func (NullReporter) RenderStarted(uint64)              {}
func (NullReporter) RenderProgress(ProgressSnapshot)   {}
func (NullReporter) RenderComplete(RenderOutcome)      {}
func (NullReporter) OverlayComplete(OverlayOutcome)    {}
func (NullReporter) Warning(string)                    {}
func (NullReporter) Error(ReporterError)               {}
func (NullReporter) OperationComplete(string)          {}
func (NullReporter) BatchStarted(BatchStartInfo)       {}
func (NullReporter) FileProgress(FileProgressContext)  {}
func (NullReporter) BatchComplete(BatchSummary)        {}
func (NullReporter) Verbose(string)                    {}

// OrNull returns r, or a NullReporter when r is nil.
func OrNull(r Reporter) Reporter {
	if r == nil {
		return NullReporter{}
	}
	return r
}
