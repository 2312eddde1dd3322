package build

import (
	"context"
	"log/slog"
	"time"

	"github.com/pressdarling/simple-ssg/internal/content"
	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
	"github.com/pressdarling/simple-ssg/internal/logfields"
	"github.com/pressdarling/simple-ssg/internal/metrics"
)

// PageEvent describes what happened to one source document.
type PageEvent struct {
	Source   string            // path relative to the content root
	Output   string            // path relative to the output root, empty when nothing was written
	Doc      *content.Document // nil when the document could not be loaded
	Duration time.Duration
	Skipped  bool
	Err      error
}

// Observer receives callbacks as a build progresses. Calls are serialized by
// the Builder, even when pages are rendered in parallel.
type Observer interface {
	OnStage(r *Report, stage Stage)
	OnPage(r *Report, ev PageEvent)
	OnArtifact(r *Report, name string, err error)
	OnComplete(r *Report)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnStage(*Report, Stage)            {}
func (NoopObserver) OnPage(*Report, PageEvent)         {}
func (NoopObserver) OnArtifact(*Report, string, error) {}
func (NoopObserver) OnComplete(*Report)                {}

// MultiObserver fans every callback out to each observer in order.
type MultiObserver []Observer

func (m MultiObserver) OnStage(r *Report, stage Stage) {
	for _, o := range m {
		o.OnStage(r, stage)
	}
}

func (m MultiObserver) OnPage(r *Report, ev PageEvent) {
	for _, o := range m {
		o.OnPage(r, ev)
	}
}

func (m MultiObserver) OnArtifact(r *Report, name string, err error) {
	for _, o := range m {
		o.OnArtifact(r, name, err)
	}
}

func (m MultiObserver) OnComplete(r *Report) {
	for _, o := range m {
		o.OnComplete(r)
	}
}

// LogObserver reports progress through slog.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver logs to logger, or to slog.Default() when logger is nil.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (l *LogObserver) OnStage(r *Report, stage Stage) {
	l.logger.Debug("Build stage", logfields.BuildID(r.ID), logfields.Stage(string(stage)))
}

func (l *LogObserver) OnPage(r *Report, ev PageEvent) {
	switch {
	case ev.Skipped:
		l.logger.Info("Skipped draft", logfields.File(ev.Source))
	case ev.Err != nil:
		l.logger.Error("Failed to process document",
			logfields.File(ev.Source),
			logfields.Output(ev.Output),
			logfields.Error(ev.Err))
	default:
		l.logger.Info("Processed document",
			logfields.File(ev.Source),
			logfields.Output(ev.Output),
			logfields.DurationMS(millis(ev.Duration)))
	}
}

func (l *LogObserver) OnArtifact(r *Report, name string, err error) {
	if err != nil {
		level := slog.LevelError
		if errors.HasSeverity(err, errors.SeverityWarning) {
			level = slog.LevelWarn
		}
		l.logger.Log(context.Background(), level, "Failed to write artifact", logfields.Artifact(name), logfields.Error(err))
		return
	}
	l.logger.Info("Wrote artifact", logfields.Artifact(name))
}

func (l *LogObserver) OnComplete(r *Report) {
	attrs := []any{
		logfields.BuildID(r.ID),
		logfields.Processed(r.Processed),
		logfields.Errors(r.Errors),
		logfields.DurationMS(millis(r.Elapsed())),
		logfields.Outcome(string(r.Outcome)),
	}
	if r.FatalError != "" {
		l.logger.Error("Build aborted", append(attrs, slog.String("fatal_error", r.FatalError))...)
		return
	}
	l.logger.Info("Build finished", attrs...)
}

// MetricsObserver adapts a metrics.Recorder into an Observer. Stage durations
// are observed when the following stage begins.
type MetricsObserver struct {
	rec        metrics.Recorder
	stage      Stage
	stageStart time.Time
}

func NewMetricsObserver(rec metrics.Recorder) *MetricsObserver {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &MetricsObserver{rec: rec}
}

func (m *MetricsObserver) OnStage(_ *Report, stage Stage) {
	now := time.Now()
	if m.stage != "" {
		m.rec.ObserveStageDuration(string(m.stage), now.Sub(m.stageStart))
	}
	m.stage, m.stageStart = stage, now
}

func (m *MetricsObserver) OnPage(_ *Report, ev PageEvent) {
	switch {
	case ev.Skipped:
		m.rec.IncPageResult(metrics.ResultSkipped)
	case ev.Err != nil:
		m.rec.IncPageResult(metrics.ResultFailed)
	default:
		m.rec.IncPageResult(metrics.ResultSuccess)
	}
	m.rec.ObservePageDuration(ev.Duration)
}

func (m *MetricsObserver) OnArtifact(_ *Report, name string, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultFailed
	}
	m.rec.IncArtifactResult(name, result)
}

func (m *MetricsObserver) OnComplete(r *Report) {
	m.rec.ObserveBuildDuration(r.Elapsed())
	m.rec.IncBuildOutcome(metrics.BuildOutcomeLabel(r.Outcome))
	m.stage = ""
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
