package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	cerrors "github.com/pressdarling/simple-ssg/internal/content/errors"
	"github.com/pressdarling/simple-ssg/internal/logfields"
)

// SourceFile is a Markdown document found under the content root.
type SourceFile struct {
	Path         string // Absolute or root-joined path to the file
	RelativePath string // Slash-separated path relative to the content root
}

// OutputPath returns the slash-separated output path: the relative path with its
// extension replaced by .html.
func (s SourceFile) OutputPath() string {
	return strings.TrimSuffix(s.RelativePath, path.Ext(s.RelativePath)) + ".html"
}

var walkDir = filepath.WalkDir

// Options tunes discovery.
type Options struct {
	// Exclude holds doublestar patterns matched against the relative path and the file name.
	Exclude []string
}

// Discover walks root recursively and returns every Markdown document in walk order.
// README.md files and paths matching an exclude pattern are skipped. Any walk
// error, such as an unreadable subdirectory, fails the whole discovery.
func Discover(root string, opts Options) ([]SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", cerrors.ErrContentRootNotFound, root)
		}
		return nil, fmt.Errorf("%w: %s: %w", cerrors.ErrWalkFailed, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", cerrors.ErrContentRootNotDir, root)
	}

	var files []SourceFile
	err = walkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !isMarkdownFile(d.Name()) || isIgnoredFile(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("%w: %w", cerrors.ErrInvalidRelativePath, err)
		}
		rel = filepath.ToSlash(rel)

		if excluded(rel, d.Name(), opts.Exclude) {
			slog.Debug("Excluded content file", logfields.File(rel))
			return nil
		}

		files = append(files, SourceFile{Path: p, RelativePath: rel})
		slog.Debug("Discovered content file", logfields.File(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", cerrors.ErrWalkFailed, root, err)
	}

	return files, nil
}

func isMarkdownFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

func isIgnoredFile(name string) bool {
	return name == "README.md"
}

func excluded(rel, name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
