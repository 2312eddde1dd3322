package markdown

import (
	"bytes"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// DefaultExtensions is used when no extension list is configured.
var DefaultExtensions = []string{"extra", "tables", "smarty"}

type engineConfig struct {
	extensions []goldmark.Extender
	parser     []parser.Option
	renderer   []renderer.Option
}

type extensionFunc func(*engineConfig)

func withExtenders(exts ...goldmark.Extender) extensionFunc {
	return func(c *engineConfig) { c.extensions = append(c.extensions, exts...) }
}

func withParser(opts ...parser.Option) extensionFunc {
	return func(c *engineConfig) { c.parser = append(c.parser, opts...) }
}

func withRenderer(opts ...renderer.Option) extensionFunc {
	return func(c *engineConfig) { c.renderer = append(c.renderer, opts...) }
}

func combine(fns ...extensionFunc) extensionFunc {
	return func(c *engineConfig) {
		for _, fn := range fns {
			fn(c)
		}
	}
}

var extensionRegistry = map[string]extensionFunc{
	"extra": combine(
		withExtenders(extension.Table, extension.Footnote, extension.DefinitionList),
		withParser(parser.WithAttribute()),
	),
	"tables":        withExtenders(extension.Table),
	"table":         withExtenders(extension.Table),
	"smarty":        withExtenders(extension.Typographer),
	"typographer":   withExtenders(extension.Typographer),
	"gfm":           withExtenders(extension.GFM),
	"strikethrough": withExtenders(extension.Strikethrough),
	"linkify":       withExtenders(extension.Linkify),
	"autolink":      withExtenders(extension.Linkify),
	"tasklist":      withExtenders(extension.TaskList),
	"footnotes":     withExtenders(extension.Footnote),
	"footnote":      withExtenders(extension.Footnote),
	"def_list":      withExtenders(extension.DefinitionList),
	"definition":    withExtenders(extension.DefinitionList),
	"attr_list":     withParser(parser.WithAttribute()),
	"toc":           withParser(parser.WithAutoHeadingID()),
	"nl2br":         withRenderer(gmhtml.WithHardWraps()),
	"fenced_code":   func(*engineConfig) {},
}

// Converter renders Markdown to HTML fragments and applies class annotations.
// A Converter is safe for concurrent use.
type Converter struct {
	md        goldmark.Markdown
	configErr error
}

// NewConverter builds a converter for the named extensions. An unknown name does
// not fail construction; every Convert call then returns a diagnostic paragraph.
func NewConverter(extensions []string) *Converter {
	if extensions == nil {
		extensions = DefaultExtensions
	}

	cfg := &engineConfig{renderer: []renderer.Option{gmhtml.WithUnsafe()}}
	seen := make(map[string]bool, len(extensions))
	for _, name := range extensions {
		key := strings.ToLower(strings.TrimSpace(name))
		fn, ok := extensionRegistry[key]
		if !ok {
			err := fmt.Errorf("unknown markdown extension %q", name)
			slog.Warn("Markdown converter misconfigured", "error", err)
			return &Converter{configErr: err}
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		fn(cfg)
	}

	md := goldmark.New(
		goldmark.WithExtensions(cfg.extensions...),
		goldmark.WithParserOptions(cfg.parser...),
		goldmark.WithRendererOptions(cfg.renderer...),
	)
	return &Converter{md: md}
}

// Err reports a configuration problem detected by NewConverter.
func (c *Converter) Err() error {
	return c.configErr
}

// Convert renders src to HTML. It never fails: a nil source, a bad extension
// list or a rendering failure produce a paragraph describing the problem.
func (c *Converter) Convert(src *string) string {
	if src == nil {
		return "<p>Error: Markdown content is None</p>"
	}
	out, _ := c.ConvertString(*src)
	return out
}

// ConvertString is Convert for a present source that also returns the reason
// a diagnostic paragraph was produced.
func (c *Converter) ConvertString(src string) (out string, err error) {
	if c.configErr != nil {
		return errorParagraph("Error in configuration: " + c.configErr.Error()), c.configErr
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("markdown conversion panicked: %v", r)
			out = errorParagraph("Error converting markdown to HTML: " + fmt.Sprint(r))
		}
	}()

	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		return errorParagraph("Error converting markdown to HTML: " + err.Error()), err
	}
	return ProcessAnnotations(buf.String()), nil
}

func errorParagraph(msg string) string {
	return "<p>" + html.EscapeString(msg) + "</p>"
}
