// Package seo writes the crawler-facing files of a built site: sitemap.xml,
// robots.txt and an Apache .htaccess.
package seo

import (
	"bytes"
	"encoding/xml"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
)

// Artifact names, which are also the file names written to the output root.
const (
	Sitemap  = "sitemap.xml"
	Robots   = "robots.txt"
	Htaccess = ".htaccess"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

const htaccessBody = `# Handle 404 errors
ErrorDocument 404 /404.html

# Enable GZIP compression
<IfModule mod_deflate.c>
  AddOutputFilterByType DEFLATE text/html text/plain text/xml text/css text/javascript application/javascript application/x-javascript
</IfModule>

# Set caching
<IfModule mod_expires.c>
  ExpiresActive On
  ExpiresByType image/jpg "access plus 1 year"
  ExpiresByType image/jpeg "access plus 1 year"
  ExpiresByType image/gif "access plus 1 year"
  ExpiresByType image/png "access plus 1 year"
  ExpiresByType image/svg+xml "access plus 1 year"
  ExpiresByType text/css "access plus 1 month"
  ExpiresByType application/pdf "access plus 1 month"
  ExpiresByType text/javascript "access plus 1 month"
  ExpiresByType application/javascript "access plus 1 month"
  ExpiresByType application/x-javascript "access plus 1 month"
  ExpiresByType application/x-shockwave-flash "access plus 1 month"
  ExpiresByType image/x-icon "access plus 1 year"
  ExpiresDefault "access plus 2 days"
</IfModule>
`

// Options selects which artifacts are written.
type Options struct {
	BaseURL  string
	Sitemap  bool
	Robots   bool
	Htaccess bool
}

// Result is the outcome of writing one artifact.
type Result struct {
	Name string
	Path string
	Err  error
}

// Generator writes artifacts into a site's output root.
type Generator struct {
	outputDir string
	opts      Options
}

func NewGenerator(outputDir string, opts Options) *Generator {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Generator{outputDir: outputDir, opts: opts}
}

// Generate writes every enabled artifact. Each artifact is independent: a
// failure is reported in its Result and does not stop the others.
func (g *Generator) Generate() []Result {
	var results []Result
	if g.opts.Sitemap {
		results = append(results, g.write(Sitemap, g.sitemap))
	}
	if g.opts.Robots {
		results = append(results, g.write(Robots, func() ([]byte, error) {
			return []byte(RobotsTxt(g.opts.BaseURL)), nil
		}))
	}
	if g.opts.Htaccess {
		results = append(results, g.write(Htaccess, func() ([]byte, error) {
			return []byte(htaccessBody), nil
		}))
	}
	return results
}

func (g *Generator) write(name string, render func() ([]byte, error)) Result {
	res := Result{Name: name, Path: filepath.Join(g.outputDir, name)}

	data, err := render()
	if err == nil {
		err = os.WriteFile(res.Path, data, 0o644)
	}
	if err != nil {
		res.Err = errors.ArtifactError("failed to write "+name).
			WithCause(err).
			WithContext("path", res.Path).
			Build()
	}
	return res
}

func (g *Generator) sitemap() ([]byte, error) {
	pages, err := CollectPages(g.outputDir)
	if err != nil {
		return nil, err
	}
	return []byte(BuildSitemap(g.opts.BaseURL, pages)), nil
}

// CollectPages lists the .html files under root as sorted, slash-separated
// relative paths, leaving out every index.html and 404.html.
func CollectPages(root string) ([]string, error) {
	var pages []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		if d.Name() == "index.html" || d.Name() == "404.html" {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		pages = append(pages, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(pages)
	return pages, nil
}

// Priority ranks a page by how deeply it is nested.
func Priority(relPath string) string {
	switch strings.Count(relPath, "/") {
	case 0:
		return "0.8"
	case 1:
		return "0.6"
	default:
		return "0.4"
	}
}

// BuildSitemap renders the sitemap for the root URL followed by pages in the
// given order.
func BuildSitemap(baseURL string, pages []string) string {
	base := strings.TrimRight(baseURL, "/")

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="` + sitemapNamespace + `">` + "\n")
	writeURL(&b, base+"/", "1.0")
	for _, page := range pages {
		writeURL(&b, base+"/"+page, Priority(page))
	}
	b.WriteString("</urlset>")
	return b.String()
}

func writeURL(b *strings.Builder, loc, priority string) {
	b.WriteString("  <url>\n    <loc>")
	b.WriteString(escapeXML(loc))
	b.WriteString("</loc>\n    <priority>")
	b.WriteString(priority)
	b.WriteString("</priority>\n  </url>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// RobotsTxt allows every crawler and points it at the sitemap.
func RobotsTxt(baseURL string) string {
	return "User-agent: *\nAllow: /\nSitemap: " + strings.TrimRight(baseURL, "/") + "/sitemap.xml\n"
}
