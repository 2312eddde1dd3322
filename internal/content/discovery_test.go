package content

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/pressdarling/simple-ssg/internal/content/errors"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o644))
	}
}

func relPaths(files []SourceFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.RelativePath)
	}
	sort.Strings(out)
	return out
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"index.md":                 "# Home",
		"about.markdown":           "# About",
		"blog/post.md":             "# Post",
		"blog/2024/deep/nested.MD": "# Nested",
		"README.md":                "# ignored",
		"blog/README.md":           "# ignored too",
		"readme.md":                "# kept, only the exact name is ignored",
		"notes.txt":                "not markdown",
		".notes.md":                "# hidden file",
		".drafts/a.md":             "# inside a hidden dir",
	})

	files, err := Discover(root, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		".drafts/a.md",
		".notes.md",
		"about.markdown",
		"blog/2024/deep/nested.MD",
		"blog/post.md",
		"index.md",
		"readme.md",
	}, relPaths(files))
}

func TestDiscover_Exclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"index.md":         "# Home",
		"drafts/wip.md":    "# WIP",
		"drafts/a/b.md":    "# WIP",
		"blog/_partial.md": "# Partial",
		"blog/post.md":     "# Post",
	})

	files, err := Discover(root, Options{Exclude: []string{"drafts/**", "_*.md"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"blog/post.md", "index.md"}, relPaths(files))
}

func TestDiscover_ExcludeHidden(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".notes.md":    "# hidden file",
		".drafts/a.md": "# inside a hidden dir",
		"blog/.wip.md": "# nested hidden file",
		"blog/post.md": "# Post",
	})

	files, err := Discover(root, Options{Exclude: []string{".*", "**/.*/**"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"blog/post.md"}, relPaths(files))
}

func TestDiscover_WalkErrorFails(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"index.md": "# Home"})

	orig := walkDir
	t.Cleanup(func() { walkDir = orig })
	walkDir = func(root string, fn fs.WalkDirFunc) error {
		return fn(filepath.Join(root, "private"), nil, os.ErrPermission)
	}

	files, err := Discover(root, Options{})
	require.ErrorIs(t, err, cerrors.ErrWalkFailed)
	require.ErrorIs(t, err, os.ErrPermission)
	assert.Nil(t, files)
}

func TestDiscover_UnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"index.md":          "# Home",
		"private/secret.md": "# Secret",
	})
	private := filepath.Join(root, "private")
	require.NoError(t, os.Chmod(private, 0o000))
	t.Cleanup(func() { _ = os.Chmod(private, 0o755) })

	_, err := Discover(root, Options{})
	require.ErrorIs(t, err, cerrors.ErrWalkFailed)
}

func TestDiscover_EmptyRoot(t *testing.T) {
	files, err := Discover(t.TempDir(), Options{})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscover_RootErrors(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), Options{})
	require.ErrorIs(t, err, cerrors.ErrContentRootNotFound)

	file := filepath.Join(t.TempDir(), "file.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = Discover(file, Options{})
	require.ErrorIs(t, err, cerrors.ErrContentRootNotDir)
}

func TestSourceFile_OutputPath(t *testing.T) {
	cases := map[string]string{
		"index.md":           "index.html",
		"about.markdown":     "about.html",
		"blog/post.md":       "blog/post.html",
		"blog/v1.2/notes.md": "blog/v1.2/notes.html",
	}
	for rel, want := range cases {
		assert.Equal(t, want, SourceFile{RelativePath: rel}.OutputPath(), rel)
	}
}
