package eventstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/pressdarling/simple-ssg/internal/build"
	"github.com/pressdarling/simple-ssg/internal/logfields"
)

const appendTimeout = 5 * time.Second

// Observer records build progress in a Store. Write failures are logged once
// per build and never affect the build itself.
type Observer struct {
	store  Store
	warned bool
}

var _ build.Observer = (*Observer)(nil)

func NewObserver(store Store) *Observer {
	return &Observer{store: store}
}

func (o *Observer) OnStage(r *build.Report, stage build.Stage) {
	if stage != build.StageInit {
		return
	}
	o.warned = false
	o.record(r.ID, TypeBuildStarted, BuildStarted{
		OutputDir:    r.OutputDir,
		ConfigHash:   r.ConfigHash,
		SourceCommit: r.SourceCommit,
	})
}

func (o *Observer) OnPage(r *build.Report, ev build.PageEvent) {
	p := Page{
		Source:     ev.Source,
		Output:     ev.Output,
		DurationMS: float64(ev.Duration.Microseconds()) / 1000,
		Skipped:    ev.Skipped,
	}
	eventType := TypePageRendered
	if ev.Err != nil {
		eventType = TypePageFailed
		p.Error = ev.Err.Error()
	}
	o.record(r.ID, eventType, p)
}

func (o *Observer) OnArtifact(r *build.Report, name string, err error) {
	a := Artifact{Name: name}
	eventType := TypeArtifactWritten
	if err != nil {
		eventType = TypeArtifactFailed
		a.Error = err.Error()
	}
	o.record(r.ID, eventType, a)
}

func (o *Observer) OnComplete(r *build.Report) {
	o.record(r.ID, TypeBuildCompleted, r.Data())
}

func (o *Observer) record(buildID, eventType string, payload any) {
	ev, err := NewEvent(buildID, eventType, payload)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		err = o.store.Append(ctx, ev)
		cancel()
	}
	if err != nil && !o.warned {
		o.warned = true
		slog.Warn("Failed to record build history", logfields.BuildID(buildID), logfields.Error(err))
	}
}
