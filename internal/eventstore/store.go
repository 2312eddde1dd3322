package eventstore

import (
	"context"
	"time"
)

// Store persists build events.
type Store interface {
	// Append records ev. ID is assigned by the store; a zero Timestamp is
	// replaced with the current time.
	Append(ctx context.Context, ev Event) error

	// GetByBuildID returns the events of one build in insertion order.
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)

	// GetRange returns events with start <= Timestamp <= end in insertion order.
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)

	Close() error
}
