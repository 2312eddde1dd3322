package commands

import (
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/pressdarling/simple-ssg/internal/build"
	"github.com/pressdarling/simple-ssg/internal/config"
	"github.com/pressdarling/simple-ssg/internal/eventstore"
	"github.com/pressdarling/simple-ssg/internal/logfields"
	"github.com/pressdarling/simple-ssg/internal/manifest"
	"github.com/pressdarling/simple-ssg/internal/metrics"
	"github.com/pressdarling/simple-ssg/internal/notify"
)

// DefaultConfigFile is picked up from the working directory when -c is not given.
const DefaultConfigFile = "config.yaml"

// ErrBuildFailed marks a build that finished with errors or was aborted.
var ErrBuildFailed = stderrors.New("build failed")

// Global is shared state handed to every command.
type Global struct {
	Out io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file (YAML or JSON); defaults to ./config.yaml when present"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the site from Markdown content"`
	Serve   ServeCmd   `cmd:"" help:"Serve a built site locally"`
	Init    InitCmd    `cmd:"" help:"Create a new site from a starter template"`
	History HistoryCmd `cmd:"" help:"List recent builds from the history database"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel honours -v first, then SIMPLESSG_LOG_LEVEL.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SIMPLESSG_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// resolveConfigPath returns the explicit path, or ./config.yaml when it exists.
func resolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

// loadConfig reads the configuration, logs its warnings and applies overrides.
func loadConfig(path string, o config.Overrides) (*config.Config, error) {
	res, err := config.Load(resolveConfigPath(path))
	if err != nil {
		return nil, err
	}
	if res.Path != "" {
		slog.Debug("Loaded configuration", logfields.Path(res.Path))
	}
	for _, w := range res.Warnings {
		slog.Warn(w)
	}
	return res.Config.Apply(o), nil
}

// siteBuilder owns a Builder together with the optional observers enabled
// by the configuration and the resources they hold open.
type siteBuilder struct {
	*build.Builder
	manifest *manifest.Writer
	closers  []func()
}

// newSiteBuilder wires history, notification, manifest and metrics observers.
// Failures to open optional sinks are logged and the sink is left out.
func newSiteBuilder(cfg *config.Config, rec metrics.Recorder) *siteBuilder {
	sb := &siteBuilder{Builder: build.NewBuilder(cfg)}

	if rec != nil {
		sb.WithObserver(build.NewMetricsObserver(rec))
	}
	if cfg.HistoryDB != "" {
		store, err := eventstore.NewSQLiteStore(cfg.HistoryDB)
		if err != nil {
			slog.Warn("Build history disabled", logfields.Path(cfg.HistoryDB), logfields.Error(err))
		} else {
			sb.WithObserver(eventstore.NewObserver(store))
			sb.closers = append(sb.closers, func() { _ = store.Close() })
		}
	}
	if cfg.NATSURL != "" {
		pub, err := notify.Connect(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			slog.Warn("Build notifications disabled", logfields.URL(cfg.NATSURL), logfields.Error(err))
		} else {
			sb.WithObserver(pub)
			sb.closers = append(sb.closers, pub.Close)
		}
	}
	if cfg.Manifest {
		sb.manifest = manifest.NewWriter(cfg.OutputDir, nil)
		sb.WithObserver(sb.manifest)
	}
	return sb
}

func (sb *siteBuilder) Close() {
	for i := len(sb.closers) - 1; i >= 0; i-- {
		sb.closers[i]()
	}
}
