package pipeline

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	betweenTagsRe = regexp.MustCompile(`>\s+<`)

	trimmedTags      = `html|head|body|div|p|section|header|footer|nav|main|article|aside|h1|h2|h3|h4|h5|h6|ul|ol|li`
	afterOpenTagRe   = regexp.MustCompile(`<(` + trimmedTags + `)>\s+`)
	beforeCloseTagRe = regexp.MustCompile(`\s+</(` + trimmedTags + `)>`)
)

// Minify removes comments (conditional comments are kept), collapses
// whitespace, drops whitespace between tags and inside common block
// containers, then trims the result. Minify(Minify(s)) == Minify(s).
func Minify(html string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = html
		}
	}()

	out = stripComments(html)
	out = whitespaceRe.ReplaceAllLiteralString(out, " ")
	out = betweenTagsRe.ReplaceAllLiteralString(out, "><")
	out = afterOpenTagRe.ReplaceAllString(out, "<$1>")
	out = beforeCloseTagRe.ReplaceAllString(out, "</$1>")
	return strings.TrimSpace(out)
}

// stripComments removes <!-- ... --> comments until none are left, so a
// comment exposed by removing an inner one is removed too.
func stripComments(s string) string {
	for {
		next := stripCommentsOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func stripCommentsOnce(s string) string {
	var b strings.Builder
	copied, pos := 0, 0
	for {
		start := strings.Index(s[pos:], "<!--")
		if start < 0 {
			break
		}
		start += pos
		bodyStart := start + len("<!--")
		end := strings.Index(s[bodyStart:], "-->")
		if end < 0 {
			break
		}
		body := s[bodyStart : bodyStart+end]
		stop := bodyStart + end + len("-->")
		if isConditionalComment(body) {
			pos = stop
			continue
		}
		b.WriteString(s[copied:start])
		copied, pos = stop, stop
	}
	if copied == 0 {
		return s
	}
	b.WriteString(s[copied:])
	return b.String()
}

func isConditionalComment(body string) bool {
	return strings.Contains(body, "[if") || strings.Contains(body, "[endif]")
}
