package pipeline

import (
	"regexp"
	"strings"
)

type metaRule struct {
	marker string
	re     *regexp.Regexp
	value  func(title, description, url string) (string, bool)
}

func fromTitle(title, _, _ string) (string, bool)      { return title, title != "" }
func fromDescription(_, desc, _ string) (string, bool) { return desc, desc != "" }
func fromURL(_, _, url string) (string, bool)          { return url, url != "" }

var metaRules = []metaRule{
	{`<meta name="description" content="`, regexp.MustCompile(`<meta name="description" content="[^"]*"`), fromDescription},
	{`<meta property="og:title" content="`, regexp.MustCompile(`<meta property="og:title" content="[^"]*"`), fromTitle},
	{`<meta property="og:description" content="`, regexp.MustCompile(`<meta property="og:description" content="[^"]*"`), fromDescription},
	{`<meta property="og:url" content="`, regexp.MustCompile(`<meta property="og:url" content="[^"]*"`), fromURL},
	{`<meta name="twitter:title" content="`, regexp.MustCompile(`<meta name="twitter:title" content="[^"]*"`), fromTitle},
	{`<meta name="twitter:description" content="`, regexp.MustCompile(`<meta name="twitter:description" content="[^"]*"`), fromDescription},
	{`<link rel="canonical" href="`, regexp.MustCompile(`<link rel="canonical" href="[^"]*"`), fromURL},
}

var titleTagRe = regexp.MustCompile(`<title>.*?</title>`)

// UpdateMetaTags rewrites the <title> element and the description, Open Graph,
// Twitter card and canonical values of page. Empty inputs leave the matching
// tags untouched. The page URL is baseURL + "/" + pagePath.
func UpdateMetaTags(page, title, description, baseURL, pagePath string) string {
	if strings.Contains(page, "<title>") && title != "" {
		page = titleTagRe.ReplaceAllLiteralString(page, "<title>"+title+"</title>")
	}

	var url string
	if baseURL != "" && pagePath != "" {
		url = baseURL + "/" + pagePath
	}

	for _, rule := range metaRules {
		value, ok := rule.value(title, description, url)
		if !ok || !strings.Contains(page, rule.marker) {
			continue
		}
		page = rule.re.ReplaceAllLiteralString(page, rule.marker+attrEscape(value)+`"`)
	}
	return page
}

func attrEscape(s string) string {
	return strings.ReplaceAll(s, `"`, "&quot;")
}
