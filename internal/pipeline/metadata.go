package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxDescriptionLength is the longest description written to meta tags.
const MaxDescriptionLength = 160

// Metadata is the page title and description derived from a fragment.
type Metadata struct {
	Title       *string
	Description *string
}

// HasAny reports whether a title or description is set.
func (m Metadata) HasAny() bool {
	return m.Title != nil || m.Description != nil
}

var (
	titleRe       = regexp.MustCompile(`<h1[^>]*>(.*?)</h1>`)
	descriptionRe = regexp.MustCompile(`(?s)<h1[^>]*>.*?</h1>\s*<p>(.*?)</p>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
)

// ExtractMetadata takes the title from the first <h1> (inner markup kept) and
// the description from the paragraph directly following a heading, with tags
// stripped and the text shortened to MaxDescriptionLength.
func ExtractMetadata(html string) Metadata {
	var meta Metadata

	m := titleRe.FindStringSubmatch(html)
	if m == nil {
		return meta
	}
	title := m[1]
	if title == "" {
		return meta
	}
	meta.Title = &title

	d := descriptionRe.FindStringSubmatch(html)
	if d == nil {
		return meta
	}
	desc := TruncateDescription(strings.TrimSpace(tagRe.ReplaceAllString(d[1], "")))
	meta.Description = &desc
	return meta
}

// TruncateDescription shortens text longer than MaxDescriptionLength runes to
// 157 runes, backs off to the last space and appends "...".
func TruncateDescription(text string) string {
	if utf8.RuneCountInString(text) <= MaxDescriptionLength {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:MaxDescriptionLength-3])
	if i := strings.LastIndex(cut, " "); i >= 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
