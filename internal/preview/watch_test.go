package preview

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldIgnoreEvent(t *testing.T) {
	require.True(t, shouldIgnoreEvent("/tmp/.hidden.md"))
	require.True(t, shouldIgnoreEvent("/tmp/#foo#"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.swp"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.md~"))
	require.True(t, shouldIgnoreEvent("/tmp/.DS_Store"))
	require.True(t, shouldIgnoreEvent("/tmp/Thumbs.db"))
	require.False(t, shouldIgnoreEvent("/tmp/visible.md"))
}

func startWatch(t *testing.T, opts WatchOptions) (*atomic.Int32, context.CancelFunc) {
	t.Helper()
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	opts.Debounce = 50 * time.Millisecond
	w, err := Watch(ctx, opts, func(context.Context) { runs.Add(1) })
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		w.Wait()
	})
	return &runs, cancel
}

func TestWatch_RebuildsOnceForBurst(t *testing.T) {
	dir := t.TempDir()
	runs, _ := startWatch(t, WatchOptions{Dirs: []string{dir}})

	for _, name := range []string{"a.md", "b.md", "c.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("# x"), 0o600))
	}

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestWatch_NewSubdirectoryIsWatched(t *testing.T) {
	dir := t.TempDir()
	runs, _ := startWatch(t, WatchOptions{Dirs: []string{dir}})

	sub := filepath.Join(dir, "blog")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)

	before := runs.Load()
	require.NoError(t, os.WriteFile(filepath.Join(sub, "post.md"), []byte("# post"), 0o600))
	require.Eventually(t, func() bool { return runs.Load() > before }, 3*time.Second, 20*time.Millisecond)
}

func TestWatch_IgnoresTempFiles(t *testing.T) {
	dir := t.TempDir()
	runs, _ := startWatch(t, WatchOptions{Dirs: []string{dir}})

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".about.md.swp"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.md~"), []byte("x"), 0o600))

	assert.Never(t, func() bool { return runs.Load() > 0 }, 300*time.Millisecond, 20*time.Millisecond)
}

func TestWatch_SingleFileIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	template := filepath.Join(dir, "template.html")
	require.NoError(t, os.WriteFile(template, []byte("<html>"), 0o600))
	runs, _ := startWatch(t, WatchOptions{Files: []string{template}})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.html"), []byte("x"), 0o600))
	assert.Never(t, func() bool { return runs.Load() > 0 }, 300*time.Millisecond, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(template, []byte("<html><body>"), 0o600))
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestWatch_NothingToWatch(t *testing.T) {
	_, err := Watch(context.Background(), WatchOptions{Dirs: []string{filepath.Join(t.TempDir(), "missing")}}, func(context.Context) {})
	require.Error(t, err)
}
