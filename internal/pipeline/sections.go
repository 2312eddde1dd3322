package pipeline

import (
	"strings"
)

// WrapSections groups heading-led regions into <section> elements.
//
// A region runs from a heading up to the next heading of the same or higher
// level, or the end of the fragment. The first pass wraps <h1> regions in
// <section class="h1Class">. The second pass wraps <h2> regions in
// <section class="h2Class">, so an <h2> region inside an <h1> region ends up
// as a section nested in the outer one.
func WrapSections(html, h1Class, h2Class string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = html
		}
	}()

	out = wrapHeadingRegions(html, "h1", h1Class, h1Stops)
	return wrapHeadingRegions(out, "h2", h2Class, h2Stops)
}

var (
	h1Stops = []string{"<h1"}
	// After the first pass an <h2> region must also stop where an enclosing
	// section ends or a new one opens.
	h2Stops = []string{"<h1", "<h2", "<section", "</section>"}
)

func wrapHeadingRegions(s, tag, class string, stops []string) string {
	open := "<" + tag
	closing := "</" + tag + ">"

	var b strings.Builder
	copied, pos := 0, 0
	for pos < len(s) {
		idx := strings.Index(s[pos:], open)
		if idx < 0 {
			break
		}
		start := pos + idx

		headEnd, ok := headingEnd(s, start+len(open), closing)
		if !ok {
			pos = start + 1
			continue
		}
		end := regionEnd(s, headEnd, stops)

		b.WriteString(s[copied:start])
		b.WriteString(`<section class="` + class + `">`)
		b.WriteString(s[start:end])
		b.WriteString("</section>")
		copied, pos = end, end
	}
	if copied == 0 {
		return s
	}
	b.WriteString(s[copied:])
	return b.String()
}

// headingEnd returns the index just past the closing tag, which must sit on the
// same line as the opening tag.
func headingEnd(s string, from int, closing string) (int, bool) {
	idx := strings.Index(s[from:], closing)
	if idx < 0 {
		return 0, false
	}
	if strings.IndexByte(s[from:from+idx], '\n') >= 0 {
		return 0, false
	}
	return from + idx + len(closing), true
}

// regionEnd finds where a section started at a heading ending at from stops:
// the first of stops, or the end of the text ignoring one trailing newline.
func regionEnd(s string, from int, stops []string) int {
	end := len(s)
	if strings.HasSuffix(s, "\n") && end-1 >= from {
		end--
	}
	for _, stop := range stops {
		if idx := strings.Index(s[from:], stop); idx >= 0 && from+idx < end {
			end = from + idx
		}
	}
	return end
}
