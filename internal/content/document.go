package content

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	cerrors "github.com/pressdarling/simple-ssg/internal/content/errors"
)

// FrontMatter holds the optional metadata block at the top of a document.
type FrontMatter struct {
	Title       string `yaml:"title" toml:"title" json:"title"`
	Description string `yaml:"description" toml:"description" json:"description"`
	Draft       bool   `yaml:"draft" toml:"draft" json:"draft"`
}

// Document is a loaded source document. It is not modified after Load.
type Document struct {
	SourceFile

	Raw         string // Decoded text with any byte order mark removed
	Body        string // Raw without the front matter block
	Header      string // The front matter block as written, empty when absent
	FrontMatter FrontMatter
}

var (
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// LoadOptions tunes Load.
type LoadOptions struct {
	// FrontMatter splits a leading front matter block off the body.
	FrontMatter bool
}

// Load reads and decodes a source file.
func Load(src SourceFile, opts LoadOptions) (*Document, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", cerrors.ErrFileReadFailed, src.RelativePath, err)
	}

	text, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", cerrors.ErrInvalidEncoding, src.RelativePath, err)
	}

	doc := &Document{SourceFile: src, Raw: text, Body: text}
	if !opts.FrontMatter {
		return doc, nil
	}
	var fm FrontMatter
	rest, err := frontmatter.Parse(strings.NewReader(text), &fm)
	if err == nil && len(rest) != len(text) {
		doc.Body = string(rest)
		if strings.HasSuffix(text, doc.Body) {
			doc.Header = text[:len(text)-len(doc.Body)]
		}
		doc.FrontMatter = fm
	}
	return doc, nil
}

// decode strips a byte order mark and converts UTF-16 input to UTF-8.
// Input without a UTF-16 mark must already be valid UTF-8.
func decode(data []byte) (string, error) {
	if !bytes.HasPrefix(data, bomUTF16BE) && !bytes.HasPrefix(data, bomUTF16LE) && !utf8.Valid(data) {
		return "", fmt.Errorf("invalid byte sequence")
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
