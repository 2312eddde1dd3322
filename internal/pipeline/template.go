package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
)

// DefaultPlaceholder marks where page content goes in the template.
const DefaultPlaceholder = `<div id="content-container">`

const closingDiv = "</div>"

var loadingPlaceholderRe = regexp.MustCompile(`(?s)<div id="content-container">\s*<div class="loading">.*?</div>\s*</div>`)

// InjectResult describes how a fragment was placed into the template.
type InjectResult struct {
	// Skipped is set when no placeholder was found and the template was returned as is.
	Skipped bool
	// Err is set when injection failed and a fallback page was produced.
	Err error
}

// Injector splices fragments into a page template. The template is read once.
type Injector struct {
	template    string
	placeholder string
	baseURL     string
}

// NewInjector reads the template at templatePath.
func NewInjector(templatePath, placeholder, baseURL string) (*Injector, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read template").
			Fatal().WithContext("path", templatePath).Build()
	}
	return NewInjectorFromString(string(data), placeholder, baseURL), nil
}

// NewInjectorFromString builds an injector around an in-memory template.
func NewInjectorFromString(template, placeholder, baseURL string) *Injector {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &Injector{
		template:    template,
		placeholder: placeholder,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// Inject places fragment into the template and rewrites meta tags from meta.
// sourcePath names the source document; its base name without .md/.markdown/.html
// becomes the page name used in canonical and og:url values.
func (in *Injector) Inject(fragment, sourcePath string, meta Metadata) (page string, res InjectResult) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.RenderError("template injection failed").
				WithContext("file", sourcePath).
				WithCause(fmt.Errorf("%v", r)).
				Build()
			page = FallbackPage(err, fragment)
			res = InjectResult{Err: err}
		}
	}()

	page, res.Skipped = in.splice(fragment)

	if meta.HasAny() {
		var title, desc string
		if meta.Title != nil {
			title = *meta.Title
		}
		if meta.Description != nil {
			desc = *meta.Description
		}
		page = UpdateMetaTags(page, title, desc, in.baseURL, PageName(sourcePath)+".html")
	}
	return page, res
}

func (in *Injector) splice(fragment string) (string, bool) {
	tpl := in.template
	content := "\n" + fragment + "\n"

	if start := strings.Index(tpl, in.placeholder); start >= 0 {
		markerEnd := start + len(in.placeholder)
		end := strings.Index(tpl[markerEnd:], closingDiv)
		if end < 0 {
			return tpl, true
		}
		return tpl[:markerEnd] + content + tpl[markerEnd+end:], false
	}

	loc := loadingPlaceholderRe.FindStringIndex(tpl)
	if loc == nil {
		return tpl, true
	}
	return tpl[:loc[0]] + DefaultPlaceholder + content + closingDiv + tpl[loc[1]:], false
}

// PageName returns the file name of path without a Markdown or HTML extension.
func PageName(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{".md", ".markdown", ".html"} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

// FallbackPage is the minimal document written when injection fails.
func FallbackPage(err error, fragment string) string {
	return "<html><body><h1>Error</h1><p>" + err.Error() + "</p><div>" + fragment + "</div></body></html>"
}
