package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/pressdarling/simple-ssg/internal/config"
	"github.com/pressdarling/simple-ssg/internal/logfields"
	"github.com/pressdarling/simple-ssg/internal/metrics"
	"github.com/pressdarling/simple-ssg/internal/preview"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Dir          string        `arg:"" optional:"" help:"Directory to serve (default: output_dir from the configuration)"`
	Port         int           `short:"p" default:"8000" help:"Port to listen on"`
	NoBrowser    bool          `name:"no-browser" help:"Do not open a browser"`
	Watch        bool          `help:"Rebuild when content, static files or the template change"`
	RebuildCron  string        `name:"rebuild-cron" help:"Also rebuild on this cron schedule (e.g. '*/15 * * * *')"`
	RebuildEvery time.Duration `name:"rebuild-every" help:"Also rebuild at this interval (e.g. 10m)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.serve(ctx, g, root)
}

func (s *ServeCmd) serve(parent context.Context, g *Global, root *CLI) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	rebuilding := s.Watch || s.RebuildCron != "" || s.RebuildEvery != 0

	var cfg *config.Config
	if rebuilding || s.Dir == "" {
		loaded, err := loadConfig(root.Config, config.Overrides{})
		if err != nil {
			return err
		}
		cfg = loaded
	}
	dir := s.Dir
	if dir == "" {
		dir = cfg.OutputDir
	}

	var reg *prom.Registry
	if rebuilding {
		reg = prom.NewRegistry()
		rebuild, closeBuilder := s.rebuilder(g, cfg, metrics.NewPrometheusRecorder(reg))
		defer closeBuilder()

		rebuild(ctx)
		if s.Watch {
			w, err := preview.Watch(ctx, preview.WatchOptions{
				Dirs:  append([]string{cfg.ContentDir}, cfg.StaticDirs...),
				Files: nonEmpty(cfg.TemplatePath, cfg.IndexPath),
			}, rebuild)
			if err != nil {
				return err
			}
			defer func() {
				cancel()
				w.Wait()
			}()
			slog.Info("Watching for changes", logfields.Path(cfg.ContentDir))
		}
		stopScheduler, err := s.startScheduler(ctx, rebuild)
		if err != nil {
			return err
		}
		defer stopScheduler()
	}

	srv, err := preview.New(preview.Options{
		Dir:         dir,
		Port:        s.Port,
		OpenBrowser: !s.NoBrowser,
		Registry:    reg,
	})
	if err != nil {
		return err
	}
	if err := srv.Listen(); err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "Serving %s at %s\nPress Ctrl+C to stop\n", srv.Dir(), srv.URL())
	return srv.Serve(ctx)
}

// startScheduler registers the cron and interval rebuilds and starts them. The
// returned func stops the scheduler; it is a no-op when nothing is scheduled.
func (s *ServeCmd) startScheduler(ctx context.Context, rebuild func(context.Context)) (func(), error) {
	if s.RebuildCron == "" && s.RebuildEvery == 0 {
		return func() {}, nil
	}
	sched, err := preview.NewScheduler()
	if err != nil {
		return nil, err
	}
	stop := func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = sched.Stop(stopCtx)
	}

	task := func() { rebuild(ctx) }
	if s.RebuildCron != "" {
		if _, err := sched.ScheduleCron("rebuild-cron", s.RebuildCron, task); err != nil {
			stop()
			return nil, err
		}
	}
	if s.RebuildEvery != 0 {
		if _, err := sched.ScheduleEvery("rebuild-every", s.RebuildEvery, task); err != nil {
			stop()
			return nil, err
		}
	}
	sched.Start()
	return stop, nil
}

// rebuilder returns a callback that runs one build at a time. Build
// failures are reported and the server keeps serving the previous output.
func (s *ServeCmd) rebuilder(g *Global, cfg *config.Config, rec metrics.Recorder) (func(context.Context), func()) {
	sb := newSiteBuilder(cfg, rec)
	var mu sync.Mutex
	rebuild := func(ctx context.Context) {
		mu.Lock()
		defer mu.Unlock()
		report, err := sb.Build(ctx)
		if err != nil {
			slog.Error("Rebuild failed", logfields.Error(err))
			return
		}
		fmt.Fprintln(g.Out, report.Summary())
	}
	return rebuild, sb.Close
}

func nonEmpty(paths ...string) []string {
	var out []string
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
