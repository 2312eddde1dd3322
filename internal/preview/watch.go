package preview

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pressdarling/simple-ssg/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// WatchOptions selects what a Watcher observes.
type WatchOptions struct {
	Dirs     []string // watched recursively
	Files    []string // single files, watched through their parent directory
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher triggers a rebuild callback after filesystem changes settle.
// Rebuilds never overlap; changes arriving during a rebuild queue at most one
// more run.
type Watcher struct {
	fs       *fsnotify.Watcher
	dirs     []string
	files    map[string]bool
	debounce time.Duration
	logger   *slog.Logger
	rebuild  func(context.Context)

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	pending chan struct{}

	wg sync.WaitGroup
}

// Watch starts watching and returns once every watch is registered. The
// watcher stops when ctx is canceled; Wait blocks until it has.
func Watch(ctx context.Context, opts WatchOptions, rebuild func(context.Context)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}

	w := &Watcher{
		fs:       fw,
		files:    make(map[string]bool),
		debounce: opts.Debounce,
		logger:   opts.Logger,
		rebuild:  rebuild,
		pending:  make(chan struct{}, 1),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}

	for _, dir := range opts.Dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		if st, err := os.Stat(abs); err != nil || !st.IsDir() {
			continue
		}
		w.dirs = append(w.dirs, abs)
		w.addDirsRecursive(abs)
	}
	for _, file := range opts.Files {
		abs, err := filepath.Abs(file)
		if err != nil {
			continue
		}
		w.files[abs] = true
		if err := fw.Add(filepath.Dir(abs)); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(filepath.Dir(abs)), logfields.Error(err))
		}
	}
	if len(fw.WatchList()) == 0 {
		_ = fw.Close()
		return nil, fmt.Errorf("nothing to watch")
	}

	w.wg.Add(2)
	go w.loop(ctx)
	go w.worker(ctx)
	return w, nil
}

// Wait blocks until the watcher has stopped and any running rebuild returned.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	defer func() { _ = w.fs.Close() }()
	for {
		select {
		case <-ctx.Done():
			w.stop()
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) worker(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.pending:
			w.logger.Info("Change detected; rebuilding site")
			w.rebuild(ctx)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !w.relevant(ev.Name) || shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(ev.Name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.trigger()
}

func (w *Watcher) relevant(path string) bool {
	if w.files[path] {
		return true
	}
	for _, dir := range w.dirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// trigger restarts the debounce timer.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.pending <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) addDirsRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.fs.Add(path); err != nil {
				w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent reports hidden files, editor swap files and OS litter.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}
