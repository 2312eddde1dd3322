package markdown

import (
	"strings"
)

// ProcessAnnotations rewrites `<tag ...>inner</tag>{.a.b}` into
// `<tag class="a b" ...>inner</tag>`. When the opening tag already has a
// class attribute the names are appended to it.
//
// Matching is textual: the inner span is the shortest one, on a single line,
// that ends in `</tag>{.`. Nested tags of the same name are not balanced, so
// `<p>a</p><p>b</p>{.c}` annotates the first paragraph. Text that does not
// match is copied unchanged.
func ProcessAnnotations(html string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = html
		}
	}()

	var b strings.Builder
	copied, pos := 0, 0
	for pos < len(html) {
		lt := strings.IndexByte(html[pos:], '<')
		if lt < 0 {
			break
		}
		start := pos + lt
		m, ok := matchAnnotated(html, start)
		if !ok {
			pos = start + 1
			continue
		}
		if b.Len() == 0 {
			b.Grow(len(html))
		}
		b.WriteString(html[copied:start])
		b.WriteString(m.rewrite())
		copied, pos = m.end, m.end
	}
	if copied == 0 {
		return html
	}
	b.WriteString(html[copied:])
	return b.String()
}

type annotated struct {
	name    string
	attrs   string // text between the tag name and '>'
	inner   string
	classes []string
	end     int
}

func matchAnnotated(s string, start int) (annotated, bool) {
	i := start + 1
	for i < len(s) && isWordByte(s[i]) {
		i++
	}
	name := s[start+1 : i]
	if name == "" {
		return annotated{}, false
	}
	gt := strings.IndexByte(s[i:], '>')
	if gt < 0 {
		return annotated{}, false
	}
	attrs := s[i : i+gt]
	openEnd := i + gt + 1

	lineEnd := len(s)
	if nl := strings.IndexByte(s[openEnd:], '\n'); nl >= 0 {
		lineEnd = openEnd + nl
	}

	closing := "</" + name + ">"
	from := openEnd
	for {
		idx := strings.Index(s[from:], closing)
		if idx < 0 {
			return annotated{}, false
		}
		c := from + idx
		if c > lineEnd {
			return annotated{}, false
		}
		after := c + len(closing)
		if strings.HasPrefix(s[after:], "{.") {
			body := s[after+2:]
			if brace := strings.IndexByte(body, '}'); brace > 0 {
				return annotated{
					name:    name,
					attrs:   attrs,
					inner:   s[openEnd:c],
					classes: strings.Split(body[:brace], "."),
					end:     after + 2 + brace + 1,
				}, true
			}
		}
		from = c + 1
	}
}

func (a annotated) rewrite() string {
	added := strings.Join(a.classes, " ")

	var open string
	if pre, existing, quote, post, ok := splitClassAttr(a.attrs); ok {
		merged := added
		if existing != "" {
			merged = existing + " " + added
		}
		open = "<" + a.name + pre + "class=" + quote + merged + quote + post + ">"
	} else {
		open = "<" + a.name + ` class="` + added + `"` + a.attrs + ">"
	}
	return open + a.inner + "</" + a.name + ">"
}

// splitClassAttr finds the first class="..." or class='...' attribute.
func splitClassAttr(attrs string) (pre, value, quote, post string, ok bool) {
	from := 0
	for {
		idx := strings.Index(attrs[from:], "class=")
		if idx < 0 {
			return "", "", "", "", false
		}
		at := from + idx
		valStart := at + len("class=")
		if (at == 0 || isSpace(attrs[at-1])) && valStart < len(attrs) && (attrs[valStart] == '"' || attrs[valStart] == '\'') {
			q := attrs[valStart]
			if end := strings.IndexByte(attrs[valStart+1:], q); end >= 0 {
				return attrs[:at], attrs[valStart+1 : valStart+1+end], string(q), attrs[valStart+1+end+1:], true
			}
		}
		from = at + 1
	}
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
