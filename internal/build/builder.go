package build

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/otiai10/copy"

	"github.com/pressdarling/simple-ssg/internal/config"
	"github.com/pressdarling/simple-ssg/internal/content"
	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
	"github.com/pressdarling/simple-ssg/internal/gitinfo"
	"github.com/pressdarling/simple-ssg/internal/logfields"
	"github.com/pressdarling/simple-ssg/internal/markdown"
	"github.com/pressdarling/simple-ssg/internal/pipeline"
	"github.com/pressdarling/simple-ssg/internal/seo"
)

// Builder runs site builds for one configuration. A Builder may run several
// builds one after another (the preview server rebuilds on change) but not
// concurrently.
type Builder struct {
	cfg       *config.Config
	observers []Observer
	newID     func() string
	headOf    func(dir string) (string, error)
	discover  func(root string, opts content.Options) ([]content.SourceFile, error)
}

// NewBuilder creates a Builder that logs through slog. cfg is not modified.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		cfg:       cfg,
		observers: []Observer{NewLogObserver(nil)},
		newID:     uuid.NewString,
		headOf:    gitinfo.HeadCommit,
		discover:  content.Discover,
	}
}

// WithObserver adds observers notified after the built-in logging.
func (b *Builder) WithObserver(obs ...Observer) *Builder {
	b.observers = append(b.observers, obs...)
	return b
}

// Config returns the configuration the builder was created with.
func (b *Builder) Config() *config.Config {
	return b.cfg
}

// Build runs the stages in order and returns the report. The report is
// returned even when err is non-nil; err is the fatal error that aborted the
// build. Per-document and artifact failures are only counted in the report.
func (b *Builder) Build(ctx context.Context) (report *Report, err error) {
	observer := MultiObserver(b.observers)

	report = newReport(b.newID(), time.Now())
	report.OutputDir = b.cfg.OutputDir
	report.Minified = b.cfg.Minify
	report.ConfigHash = b.cfg.Snapshot()
	observer.OnStage(report, StageInit)

	defer func() {
		if r := recover(); r != nil {
			err = errors.InternalError("build panicked").
				WithCause(fmt.Errorf("%v", r)).
				WithContext("stage", string(report.Stage)).
				Build()
			b.abort(observer, report, err)
		}
		report.End = time.Now()
		report.DeriveOutcome(stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded))
		observer.OnComplete(report)
	}()

	if err = b.run(ctx, observer, report); err != nil {
		b.abort(observer, report, err)
	}
	return report, err
}

func (b *Builder) run(ctx context.Context, observer Observer, report *Report) error {
	if err := ctx.Err(); err != nil {
		return canceled(err)
	}
	if err := b.checkInputs(); err != nil {
		return err
	}
	b.resolveSourceCommit(report)

	pipe, err := b.newPipeline()
	if err != nil {
		return err
	}

	// Discovery runs before the output is touched so a failed walk leaves it as it was.
	files, err := b.discover(b.cfg.ContentDir, content.Options{Exclude: b.cfg.Exclude})
	if err != nil {
		return errors.FileSystemError("content discovery failed").
			WithCause(err).
			Fatal().
			WithContext("path", b.cfg.ContentDir).
			Build()
	}

	if err := b.enter(observer, report, StageSettingUpOutput); err != nil {
		return err
	}
	if err := b.setupOutput(); err != nil {
		return err
	}

	if err := b.enter(observer, report, StageProcessingContent); err != nil {
		return err
	}
	if err := b.processAll(ctx, observer, pipe, files, report); err != nil {
		return err
	}

	if err := b.enter(observer, report, StageGeneratingArtifacts); err != nil {
		return err
	}
	b.generateArtifacts(observer, report)

	return b.enter(observer, report, StageDone)
}

func (b *Builder) enter(observer Observer, report *Report, stage Stage) error {
	if !report.Stage.CanTransition(stage) {
		return errors.InternalError("illegal stage transition").
			WithContext("from", string(report.Stage)).
			WithContext("to", string(stage)).
			Build()
	}
	report.Stage = stage
	observer.OnStage(report, stage)
	return nil
}

func (b *Builder) abort(observer Observer, report *Report, err error) {
	report.FatalError = err.Error()
	report.Errors++
	report.Stage = StageAborted
	observer.OnStage(report, StageAborted)
}

func canceled(err error) error {
	return errors.BuildError("build canceled").WithCause(err).Build()
}

// checkInputs verifies the content directory and template before anything is
// written.
func (b *Builder) checkInputs() error {
	info, err := os.Stat(b.cfg.ContentDir)
	if err != nil || !info.IsDir() {
		return errors.NewError(errors.CategoryNotFound, "content directory not found").
			WithCause(ErrContentRootMissing).
			Fatal().
			UserAction().
			WithContext("path", b.cfg.ContentDir).
			Build()
	}
	info, err = os.Stat(b.cfg.TemplatePath)
	if err != nil || info.IsDir() {
		return errors.NewError(errors.CategoryNotFound, "template not found").
			WithCause(ErrTemplateMissing).
			Fatal().
			UserAction().
			WithContext("path", b.cfg.TemplatePath).
			Build()
	}
	return nil
}

func (b *Builder) resolveSourceCommit(report *Report) {
	commit, err := b.headOf(b.cfg.ContentDir)
	if err != nil {
		if !stderrors.Is(err, gitinfo.ErrNotRepository) {
			slog.Debug("Could not resolve source commit", logfields.Path(b.cfg.ContentDir), logfields.Error(err))
		}
		return
	}
	report.SourceCommit = commit
}

func (b *Builder) newPipeline() (*pipeline.Pipeline, error) {
	injector, err := pipeline.NewInjector(b.cfg.TemplatePath, b.cfg.ContentPlaceholder, b.cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	converter := markdown.NewConverter(b.cfg.MarkdownExtensions)
	return pipeline.New(converter, injector, pipeline.Options{
		WrapSections:     b.cfg.WrapSections,
		H1Class:          b.cfg.H1SectionClass,
		H2Class:          b.cfg.H2SectionClass,
		Minify:           b.cfg.Minify,
		PathReplacements: b.cfg.ImagePathReplacements,
	}), nil
}

func setupError(err error, path, msg string) error {
	return errors.FileSystemError(msg).
		WithCause(fmt.Errorf("%w: %w", ErrOutputSetup, err)).
		Fatal().
		WithContext("path", path).
		Build()
}

// setupOutput prepares the output directory, then copies static directories
// and the standalone index page into it.
func (b *Builder) setupOutput() error {
	out := b.cfg.OutputDir
	if _, err := os.Stat(out); err == nil {
		if b.cfg.CleanOutput {
			if err := os.RemoveAll(out); err != nil {
				return setupError(err, out, "failed to clean output directory")
			}
		} else {
			slog.Warn("Output directory exists and clean_output is disabled; files may be overwritten", logfields.Path(out))
		}
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return setupError(err, out, "failed to create output directory")
	}

	b.copyStaticDirs()

	if b.cfg.IndexPath == "" {
		return nil
	}
	if _, err := os.Stat(b.cfg.IndexPath); err != nil {
		return nil
	}
	if err := copy.Copy(b.cfg.IndexPath, filepath.Join(out, "index.html")); err != nil {
		return setupError(err, b.cfg.IndexPath, "failed to copy index page")
	}
	return nil
}

// copyStaticDirs copies each static directory to <output>/<base name>,
// replacing a previous copy. Problems are logged and the build continues.
func (b *Builder) copyStaticDirs() {
	for _, dir := range b.cfg.StaticDirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			slog.Warn("Static directory does not exist; skipping", logfields.Path(dir))
			continue
		}
		dest := filepath.Join(b.cfg.OutputDir, filepath.Base(filepath.Clean(dir)))
		if err := os.RemoveAll(dest); err != nil {
			slog.Warn("Failed to remove previous static copy", logfields.Path(dest), logfields.Error(err))
			continue
		}
		if err := copy.Copy(dir, dest); err != nil {
			slog.Warn("Failed to copy static directory", logfields.Path(dir), logfields.Error(err))
			continue
		}
		slog.Debug("Copied static directory", logfields.Path(dir), logfields.Output(dest))
	}
}

// processAll renders every file, sequentially or with cfg.Workers goroutines.
// Report updates and observer calls are serialized.
func (b *Builder) processAll(ctx context.Context, observer Observer, pipe *pipeline.Pipeline, files []content.SourceFile, report *Report) error {
	defer func() { sort.Strings(report.Outputs) }()

	workers := min(b.cfg.Workers, len(files))
	if workers <= 1 {
		for _, src := range files {
			if err := ctx.Err(); err != nil {
				return canceled(err)
			}
			b.record(observer, report, b.processFile(pipe, src))
		}
		return nil
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		jobs = make(chan content.SourceFile)
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range jobs {
				ev := b.processFile(pipe, src)
				mu.Lock()
				b.record(observer, report, ev)
				mu.Unlock()
			}
		}()
	}

feed:
	for _, src := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- src:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return canceled(err)
	}
	return nil
}

func (b *Builder) record(observer Observer, report *Report, ev PageEvent) {
	switch {
	case ev.Skipped:
		report.Skipped++
	case ev.Err != nil:
		report.Errors++
	default:
		report.Processed++
		report.Outputs = append(report.Outputs, ev.Output)
	}
	observer.OnPage(report, ev)
}

// processFile loads, renders and writes one document. A page that rendered
// with errors is still written (it carries the diagnostic content) but the
// event reports the error.
func (b *Builder) processFile(pipe *pipeline.Pipeline, src content.SourceFile) (ev PageEvent) {
	start := time.Now()
	ev.Source = src.RelativePath
	defer func() {
		if r := recover(); r != nil {
			ev.Output = ""
			ev.Err = errors.InternalError("page processing panicked").
				WithSeverity(errors.SeverityError).
				WithCause(fmt.Errorf("%v", r)).
				WithContext("file", src.RelativePath).
				Build()
		}
		ev.Duration = time.Since(start)
	}()

	doc, err := content.Load(src, content.LoadOptions{FrontMatter: b.cfg.FrontMatter})
	if err != nil {
		ev.Err = errors.ContentError("failed to load document").
			WithCause(err).
			WithContext("file", src.RelativePath).
			Build()
		return ev
	}
	ev.Doc = doc
	if doc.FrontMatter.Draft {
		ev.Skipped = true
		return ev
	}

	page, renderErr := pipe.Render(doc)

	rel := src.OutputPath()
	if err := writePage(filepath.Join(b.cfg.OutputDir, filepath.FromSlash(rel)), page.HTML); err != nil {
		ev.Err = errors.FileSystemError("failed to write page").
			WithCause(err).
			WithContext("file", src.RelativePath).
			WithContext("output", rel).
			Build()
		return ev
	}
	ev.Output = rel
	ev.Err = renderErr
	return ev
}

func writePage(path, html string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(html), 0o644)
}

func (b *Builder) generateArtifacts(observer Observer, report *Report) {
	gen := seo.NewGenerator(b.cfg.OutputDir, seo.Options{
		BaseURL:  b.cfg.BaseURL,
		Sitemap:  b.cfg.GenerateSitemap,
		Robots:   b.cfg.GenerateRobots,
		Htaccess: b.cfg.GenerateHtaccess,
	})
	for _, res := range gen.Generate() {
		if res.Err != nil {
			report.Artifacts[res.Name] = res.Err.Error()
		} else {
			report.Artifacts[res.Name] = "ok"
		}
		observer.OnArtifact(report, res.Name, res.Err)
	}
}
