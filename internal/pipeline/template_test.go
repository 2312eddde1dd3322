package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
)

const testTemplate = `<html><head><title>Old</title>` +
	`<meta name="description" content="old">` +
	`<meta property="og:title" content="">` +
	`<meta property="og:url" content="">` +
	`<link rel="canonical" href="">` +
	`</head><body><div id="content-container"><div class="loading">Loading...</div></div></body></html>`

func strPtr(s string) *string { return &s }

func TestInjector_Inject(t *testing.T) {
	in := NewInjectorFromString(testTemplate, "", "https://site.test/")
	meta := Metadata{Title: strPtr("About"), Description: strPtr(`Say "hi"`)}

	page, res := in.Inject("<p>hi</p>", "/src/content/about.md", meta)

	require.NoError(t, res.Err)
	assert.False(t, res.Skipped)
	assert.Contains(t, page, "<div id=\"content-container\">\n<p>hi</p>\n</div>")
	assert.NotContains(t, page, "Loading...")
	assert.Contains(t, page, "<title>About</title>")
	assert.Contains(t, page, `<meta name="description" content="Say &quot;hi&quot;">`)
	assert.Contains(t, page, `<meta property="og:title" content="About">`)
	assert.Contains(t, page, `<meta property="og:url" content="https://site.test/about.html">`)
	assert.Contains(t, page, `<link rel="canonical" href="https://site.test/about.html">`)
}

func TestInjector_LoadingPlaceholderFallback(t *testing.T) {
	in := NewInjectorFromString(testTemplate, `<main id="app">`, "https://site.test")

	page, res := in.Inject("<p>hi</p>", "index.md", Metadata{})

	assert.False(t, res.Skipped)
	assert.Contains(t, page, "<div id=\"content-container\">\n<p>hi</p>\n</div></body>")
	assert.NotContains(t, page, "loading")
}

func TestInjector_Skipped(t *testing.T) {
	t.Run("no placeholder", func(t *testing.T) {
		tpl := "<html><body><main></main></body></html>"
		page, res := NewInjectorFromString(tpl, "", "").Inject("<p>x</p>", "a.md", Metadata{})
		assert.True(t, res.Skipped)
		assert.NoError(t, res.Err)
		assert.Equal(t, tpl, page)
	})

	t.Run("placeholder never closed", func(t *testing.T) {
		tpl := `<html><body><div id="content-container"></body></html>`
		page, res := NewInjectorFromString(tpl, "", "").Inject("<p>x</p>", "a.md", Metadata{})
		assert.True(t, res.Skipped)
		assert.Equal(t, tpl, page)
	})
}

func TestInjector_NoMetadataLeavesHeadAlone(t *testing.T) {
	page, _ := NewInjectorFromString(testTemplate, "", "https://site.test").Inject("<p>x</p>", "a.md", Metadata{})
	assert.Contains(t, page, "<title>Old</title>")
	assert.Contains(t, page, `<meta name="description" content="old">`)
}

func TestNewInjector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.html")
	require.NoError(t, os.WriteFile(path, []byte(testTemplate), 0o600))

	in, err := NewInjector(path, DefaultPlaceholder, "https://site.test")
	require.NoError(t, err)
	page, res := in.Inject("<p>x</p>", "a.md", Metadata{})
	assert.False(t, res.Skipped)
	assert.True(t, strings.HasPrefix(page, "<html>"))

	_, err = NewInjector(filepath.Join(t.TempDir(), "missing.html"), "", "")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	assert.True(t, errors.HasSeverity(err, errors.SeverityFatal))
}

func TestUpdateMetaTags(t *testing.T) {
	page := `<title>x</title><meta name="twitter:title" content="x"><meta name="twitter:description" content="y">` +
		`<meta property="og:description" content="z">`

	out := UpdateMetaTags(page, "New", "Desc", "https://s.test", "p.html")
	assert.Equal(t, `<title>New</title><meta name="twitter:title" content="New"><meta name="twitter:description" content="Desc">`+
		`<meta property="og:description" content="Desc">`, out)

	assert.Equal(t, page, UpdateMetaTags(page, "", "", "", ""))
}

func TestPageName(t *testing.T) {
	tests := map[string]string{
		"content/about.md":    "about",
		"/abs/notes.markdown": "notes",
		"blog/post.html":      "post",
		"plain":               "plain",
		"nested/dir/index.md": "index",
	}
	for in, want := range tests {
		assert.Equal(t, want, PageName(in), in)
	}
}

func TestFallbackPage(t *testing.T) {
	page := FallbackPage(errors.RenderError("boom").Build(), "<p>frag</p>")
	assert.True(t, strings.HasPrefix(page, "<html><body><h1>Error</h1><p>"))
	assert.Contains(t, page, "boom")
	assert.Contains(t, page, "<div><p>frag</p></div>")
}
