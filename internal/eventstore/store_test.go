package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
)

const testBuildID = "build-123"

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_AppendAndGetByBuildID(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	ev, err := NewEvent(testBuildID, TypePageRendered, Page{Source: "a.md", Output: "a.html"})
	require.NoError(t, err)
	ev.Metadata = map[string]string{"key": "value"}
	require.NoError(t, store.Append(ctx, ev))
	require.NoError(t, store.Append(ctx, Event{BuildID: "other", Type: TypeBuildStarted}))

	events, err := store.GetByBuildID(ctx, testBuildID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	got := events[0]
	assert.Positive(t, got.ID)
	assert.Equal(t, TypePageRendered, got.Type)
	assert.Equal(t, "value", got.Metadata["key"])
	assert.Equal(t, ev.Timestamp.UnixMilli(), got.Timestamp.UnixMilli())

	var page Page
	require.NoError(t, got.Decode(&page))
	assert.Equal(t, "a.html", page.Output)

	other, err := store.GetByBuildID(ctx, "other")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.JSONEq(t, "{}", string(other[0].Payload))
	assert.False(t, other[0].Timestamp.IsZero())
}

func TestSQLiteStore_GetRange(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := range 3 {
		require.NoError(t, store.Append(ctx, Event{
			BuildID:   testBuildID,
			Type:      TypeArtifactWritten,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	events, err := store.GetRange(ctx, base.Add(30*time.Minute), base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].Timestamp.Equal(base.Add(time.Hour)))
	assert.True(t, events[1].Timestamp.Equal(base.Add(2*time.Hour)))
}

func TestSQLiteStore_ClosedStoreErrors(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	err = store.Append(t.Context(), Event{BuildID: testBuildID, Type: TypeBuildStarted})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEventAppendFailed)
	assert.True(t, errors.HasCategory(err, errors.CategoryEventStore))
}
