// Package scaffold creates a new site from one of the built-in starters.
package scaffold

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
	"github.com/pressdarling/simple-ssg/internal/logfields"
)

//go:embed skeleton
var skeleton embed.FS

// Templates lists the starter variants accepted by Init.
var Templates = []string{"basic", "blog", "portfolio"}

var dirs = []string{"content", "css", "images", "js"}

type file struct {
	dest string // slash-separated, relative to the project root
	src  string // path inside skeleton; "%s" is replaced by the variant
}

var files = []file{
	{"template.html", "template.html"},
	{"index.html", "index.html"},
	{"content/index.md", "%s/index.md"},
	{"content/about.md", "about.md"},
	{"content/404.md", "404.md"},
	{"css/styles.css", "styles.css"},
	{"config.yaml", "config.yaml"},
}

// Result reports what Init did.
type Result struct {
	Created []string // slash-separated paths relative to the project root
	Skipped []string // files that already existed
}

// Init lays out a new project in dir. Existing files are never overwritten.
func Init(dir, template string) (*Result, error) {
	if template == "" {
		template = "basic"
	}
	if !slices.Contains(Templates, template) {
		return nil, errors.ValidationError(fmt.Sprintf("unknown template %q", template)).
			WithContext("allowed", Templates).UserAction().Build()
	}

	res := &Result{}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.FileSystemError("failed to create project directory").WithCause(err).
			WithContext("path", dir).Build()
	}
	for _, d := range dirs {
		target := filepath.Join(dir, d)
		if _, err := os.Stat(target); err == nil {
			continue
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return res, errors.FileSystemError("failed to create directory").WithCause(err).
				WithContext("path", target).Build()
		}
		res.Created = append(res.Created, d+"/")
		slog.Debug("Created directory", logfields.Path(target))
	}

	for _, f := range files {
		target := filepath.Join(dir, filepath.FromSlash(f.dest))
		if _, err := os.Stat(target); err == nil {
			res.Skipped = append(res.Skipped, f.dest)
			continue
		}
		src := f.src
		if src == "%s/index.md" {
			src = template + "/index.md"
		}
		data, err := skeleton.ReadFile(path.Join("skeleton", src))
		if err != nil {
			return res, errors.InternalError("missing starter file").WithCause(err).
				WithContext("file", src).Build()
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return res, errors.FileSystemError("failed to write file").WithCause(err).
				WithContext("path", target).Build()
		}
		res.Created = append(res.Created, f.dest)
		slog.Debug("Created file", logfields.Path(target))
	}
	return res, nil
}
