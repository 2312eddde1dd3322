package eventstore

import (
	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
)

// Sentinel errors for history operations. Call sites wrap them with the
// underlying cause.
var (
	// ErrDatabaseOpenFailed indicates the SQLite database could not be opened.
	ErrDatabaseOpenFailed = errors.EventStoreError("could not open build history database").Build()

	// ErrInitializeSchemaFailed indicates the database schema could not be initialized.
	ErrInitializeSchemaFailed = errors.EventStoreError("failed to initialize build history schema").Build()

	ErrEventAppendFailed = errors.EventStoreError("failed to append build event").Build()
	ErrEventQueryFailed  = errors.EventStoreError("failed to query build events").Build()
)
