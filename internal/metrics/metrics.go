// Package metrics records per-process counters for clock-overlay runs.
//
// Metrics live in a private registry so the library never touches the
// default Prometheus registry. The CLI dumps them with WriteTextfile for a
// node-exporter textfile collector. A nil *Metrics is valid and records
// nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeCancelled = "cancelled"
)

// Metrics holds the clockvid collectors.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal      *prometheus.CounterVec
	FramesRendered prometheus.Counter
	StageDuration  *prometheus.HistogramVec
	RenderSpeed    prometheus.Histogram
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clockvid_runs_total",
				Help: "Total number of clock-overlay runs by outcome",
			},
			[]string{"outcome"},
		),
		FramesRendered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "clockvid_frames_rendered_total",
				Help: "Total number of timer frames written to the encoder",
			},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clockvid_stage_duration_seconds",
				Help:    "Pipeline stage duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 14), // 50ms to ~7 minutes
			},
			[]string{"stage"},
		),
		RenderSpeed: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "clockvid_render_frames_per_second",
				Help:    "Timer render throughput in frames per second",
				Buckets: []float64{25, 50, 100, 250, 500, 1000, 2500, 5000},
			},
		),
	}
	m.registry.MustRegister(m.RunsTotal, m.FramesRendered, m.StageDuration, m.RenderSpeed)
	return m
}

// Registry exposes the private registry, e.g. for an HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRun counts one finished run.
func (m *Metrics) RecordRun(outcome string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
}

// AddFrames adds n rendered frames.
func (m *Metrics) AddFrames(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.FramesRendered.Add(float64(n))
}

// ObserveStage records how long a pipeline stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveRenderSpeed records render throughput.
func (m *Metrics) ObserveRenderSpeed(framesPerSecond float64) {
	if m == nil || framesPerSecond <= 0 {
		return
	}
	m.RenderSpeed.Observe(framesPerSecond)
}

// WriteTextfile writes all metrics in the text exposition format to path.
// The write is atomic (temp file + rename).
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
