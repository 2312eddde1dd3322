package markdown

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestProcessAnnotations(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single class",
			in:   `<h1>Heading</h1>{.test-class}`,
			want: `<h1 class="test-class">Heading</h1>`,
		},
		{
			name: "multiple classes",
			in:   `<h1>Heading</h1>{.a.b}`,
			want: `<h1 class="a b">Heading</h1>`,
		},
		{
			name: "merge with existing class",
			in:   `<h1 class="x">Heading</h1>{.y}`,
			want: `<h1 class="x y">Heading</h1>`,
		},
		{
			name: "merge keeps surrounding attributes",
			in:   `<div id="main" class='card' data-x="1">Body</div>{.wide}`,
			want: `<div id="main" class='card wide' data-x="1">Body</div>`,
		},
		{
			name: "class inserted right after the tag name",
			in:   `<p id="intro">Text</p>{.lead}`,
			want: `<p class="lead" id="intro">Text</p>`,
		},
		{
			name: "data-class is not a class attribute",
			in:   `<p data-class="z">Text</p>{.lead}`,
			want: `<p class="lead" data-class="z">Text</p>`,
		},
		{
			name: "several annotations",
			in:   "<h1>A</h1>{.x}\n<p>B</p>{.y}",
			want: "<h1 class=\"x\">A</h1>\n<p class=\"y\">B</p>",
		},
		{
			name: "inline content is kept",
			in:   `<p>Some <em>emphasis</em> here</p>{.note}`,
			want: `<p class="note">Some <em>emphasis</em> here</p>`,
		},
		{
			name: "same-named siblings bind to the first opening tag",
			in:   `<p>a</p><p>b</p>{.c}`,
			want: `<p class="c">a</p><p>b</p>`,
		},
		{
			name: "mismatched closing tag is left alone",
			in:   `<h1>Heading</h2>{.x}`,
			want: `<h1>Heading</h2>{.x}`,
		},
		{
			name: "empty annotation is left alone",
			in:   `<h1>Heading</h1>{.}`,
			want: `<h1>Heading</h1>{.}`,
		},
		{
			name: "unterminated annotation is left alone",
			in:   `<h1>Heading</h1>{.x`,
			want: `<h1>Heading</h1>{.x`,
		},
		{
			name: "span does not cross lines",
			in:   "<div>\nText\n</div>{.box}",
			want: "<div>\nText\n</div>{.box}",
		},
		{
			name: "no annotation",
			in:   `<h1>Heading</h1><p>x</p>`,
			want: `<h1>Heading</h1><p>x</p>`,
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProcessAnnotations(tt.in))
		})
	}
}

func TestProcessAnnotations_WithoutBracesIsIdentity(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("text without '{' is returned unchanged", prop.ForAll(
		func(s string) bool {
			return ProcessAnnotations(s) == s
		},
		gen.AnyString().SuchThat(func(s string) bool { return !strings.Contains(s, "{") }),
	))

	properties.Property("annotated headings gain exactly the class", prop.ForAll(
		func(text, class string) bool {
			out := ProcessAnnotations("<h2>" + text + "</h2>{." + class + "}")
			return out == `<h2 class="`+class+`">`+text+"</h2>"
		},
		gen.AlphaString(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
