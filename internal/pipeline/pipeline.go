package pipeline

import (
	stderrors "errors"
	"log/slog"

	"github.com/pressdarling/simple-ssg/internal/content"
	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
	"github.com/pressdarling/simple-ssg/internal/logfields"
	"github.com/pressdarling/simple-ssg/internal/markdown"
)

// Page carries one document through the render steps.
type Page struct {
	Doc       *content.Document
	Markdown  string
	Fragment  string
	Meta      Metadata
	HTML      string
	Injection InjectResult

	failures []error
}

// Err joins every failure recorded while rendering, or returns nil.
func (p *Page) Err() error {
	return stderrors.Join(p.failures...)
}

func (p *Page) fail(err error) {
	p.failures = append(p.failures, err)
}

// Step is one named transformation of a page.
type Step struct {
	Name string
	Run  func(*Page)
}

// Options selects the optional steps.
type Options struct {
	WrapSections     bool
	H1Class          string
	H2Class          string
	Minify           bool
	PathReplacements map[string]string
}

// Pipeline renders documents into complete pages. It holds no per-page state
// and may be shared between goroutines.
type Pipeline struct {
	converter *markdown.Converter
	injector  *Injector
	steps     []Step
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithExtraSteps appends steps after the built-in ones.
func WithExtraSteps(steps ...Step) PipelineOption {
	return func(p *Pipeline) {
		p.steps = append(p.steps, steps...)
	}
}

// New builds the page pipeline: path rewrite, conversion, optional section
// wrapping, metadata extraction, template injection and optional minification.
func New(converter *markdown.Converter, injector *Injector, opts Options, options ...PipelineOption) *Pipeline {
	p := &Pipeline{converter: converter, injector: injector}

	p.steps = append(p.steps,
		Step{Name: "rewrite_paths", Run: func(pg *Page) {
			pg.Markdown = content.RewritePaths(pg.Doc.Body, opts.PathReplacements)
		}},
		Step{Name: "convert", Run: p.convert},
	)
	if opts.WrapSections {
		p.steps = append(p.steps, Step{Name: "wrap_sections", Run: func(pg *Page) {
			pg.Fragment = WrapSections(pg.Fragment, opts.H1Class, opts.H2Class)
		}})
	}
	p.steps = append(p.steps,
		Step{Name: "metadata", Run: extractPageMetadata},
		Step{Name: "inject", Run: p.inject},
	)
	if opts.Minify {
		p.steps = append(p.steps, Step{Name: "minify", Run: func(pg *Page) {
			pg.HTML = Minify(pg.HTML)
		}})
	}

	for _, o := range options {
		o(p)
	}
	return p
}

// Steps returns the step names in execution order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

// Render runs every step. The returned page always has HTML; a non-nil error
// means the page is degraded (diagnostic content or the fallback document).
func (p *Pipeline) Render(doc *content.Document) (*Page, error) {
	page := &Page{Doc: doc}
	for _, step := range p.steps {
		step.Run(page)
	}
	return page, page.Err()
}

func (p *Pipeline) convert(pg *Page) {
	fragment, err := p.converter.ConvertString(pg.Markdown)
	pg.Fragment = fragment
	if err != nil {
		pg.fail(errors.RenderError("markdown conversion failed").WithCause(err).
			WithContext("file", pg.Doc.RelativePath).Build())
	}
}

func extractPageMetadata(pg *Page) {
	pg.Meta = ExtractMetadata(pg.Fragment)
	fm := pg.Doc.FrontMatter
	if fm.Title != "" {
		title := fm.Title
		pg.Meta.Title = &title
	}
	if fm.Description != "" {
		desc := TruncateDescription(fm.Description)
		pg.Meta.Description = &desc
	}
}

func (p *Pipeline) inject(pg *Page) {
	pg.HTML, pg.Injection = p.injector.Inject(pg.Fragment, pg.Doc.Path, pg.Meta)
	if pg.Injection.Err != nil {
		pg.fail(pg.Injection.Err)
		return
	}
	if pg.Injection.Skipped {
		slog.Warn("Content placeholder not found; page rendered without content",
			logfields.File(pg.Doc.RelativePath))
	}
}
