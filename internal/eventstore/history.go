package eventstore

import (
	"context"
	"sort"
	"time"

	"github.com/pressdarling/simple-ssg/internal/build"
)

const statusRunning = "running"

// BuildSummary is the history view of one build, folded from its events.
type BuildSummary struct {
	BuildID      string
	Status       string // "running" or the build outcome
	StartedAt    time.Time
	CompletedAt  *time.Time
	Processed    int
	Errors       int
	Skipped      int
	PagesFailed  []string
	FatalError   string
	SourceCommit string
	Artifacts    map[string]string
}

// Duration is the build wall time, zero while it is running.
func (s BuildSummary) Duration() time.Duration {
	if s.CompletedAt == nil {
		return 0
	}
	return s.CompletedAt.Sub(s.StartedAt)
}

// History returns up to limit builds, newest first. A limit <= 0 returns all.
func History(ctx context.Context, store Store, limit int) ([]BuildSummary, error) {
	events, err := store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*BuildSummary)
	var order []*BuildSummary
	for _, ev := range events {
		if ev.BuildID == "" {
			continue
		}
		s, ok := byID[ev.BuildID]
		if !ok {
			s = &BuildSummary{BuildID: ev.BuildID, Status: statusRunning, StartedAt: ev.Timestamp}
			byID[ev.BuildID] = s
			order = append(order, s)
		}
		apply(s, ev)
	}

	// Newest first, with later builds winning ties on the millisecond clock.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].StartedAt.After(order[j].StartedAt)
	})
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}

	out := make([]BuildSummary, len(order))
	for i, s := range order {
		out[i] = *s
	}
	return out, nil
}

func apply(s *BuildSummary, ev Event) {
	switch ev.Type {
	case TypeBuildStarted:
		s.StartedAt = ev.Timestamp
		var p BuildStarted
		if err := ev.Decode(&p); err == nil {
			s.SourceCommit = p.SourceCommit
		}

	case TypePageFailed:
		var p Page
		if err := ev.Decode(&p); err == nil {
			s.PagesFailed = append(s.PagesFailed, p.Source)
		}

	case TypeBuildCompleted:
		completed := ev.Timestamp
		s.CompletedAt = &completed
		var data build.ReportData
		if err := ev.Decode(&data); err != nil {
			return
		}
		s.Status = data.Outcome
		s.Processed = data.Processed
		s.Errors = data.Errors
		s.Skipped = data.Skipped
		s.FatalError = data.FatalError
		s.Artifacts = data.Artifacts
		if data.SourceCommit != "" {
			s.SourceCommit = data.SourceCommit
		}
	}
}
