package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapSections(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "h2 region nests inside the h1 region",
			in:   "<h1>T</h1>\n<p>a</p>\n<h2>S</h2>\n<p>b</p>\n",
			want: "<section class=\"hero\"><h1>T</h1>\n<p>a</p>\n" +
				"<section class=\"section\"><h2>S</h2>\n<p>b</p></section></section>\n",
		},
		{
			name: "each h1 starts a new section",
			in:   "<h1>A</h1><h1>B</h1>",
			want: `<section class="hero"><h1>A</h1></section><section class="hero"><h1>B</h1></section>`,
		},
		{
			name: "h2 regions stop at the next h2 and at the end of the h1 region",
			in:   "<h1>A</h1><h2>B</h2><p>x</p><h2>C</h2><h1>D</h1>",
			want: `<section class="hero"><h1>A</h1>` +
				`<section class="section"><h2>B</h2><p>x</p></section>` +
				`<section class="section"><h2>C</h2></section></section>` +
				`<section class="hero"><h1>D</h1></section>`,
		},
		{
			name: "each h2 starts a new section",
			in:   "<h2>A</h2><p>x</p><h2>B</h2>",
			want: `<section class="section"><h2>A</h2><p>x</p></section><section class="section"><h2>B</h2></section>`,
		},
		{
			name: "h1 closes an open h2 region",
			in:   "<h2>A</h2><h1>B</h1><p>c</p>",
			want: `<section class="section"><h2>A</h2></section><section class="hero"><h1>B</h1><p>c</p></section>`,
		},
		{
			name: "heading attributes are kept",
			in:   `<h1 id="t" class="big">T</h1>`,
			want: `<section class="hero"><h1 id="t" class="big">T</h1></section>`,
		},
		{
			name: "heading split across lines is not wrapped",
			in:   "<h1>\nT</h1>",
			want: "<h1>\nT</h1>",
		},
		{
			name: "no headings",
			in:   "<p>plain</p>\n",
			want: "<p>plain</p>\n",
		},
		{
			name: "h3 is not a section boundary",
			in:   "<h2>A</h2><h3>B</h3><p>c</p>",
			want: `<section class="section"><h2>A</h2><h3>B</h3><p>c</p></section>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapSections(tt.in, "hero", "section")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.Count(got, "<section"), strings.Count(got, "</section>"))
		})
	}
}

func TestWrapSections_CustomClasses(t *testing.T) {
	out := WrapSections("<h1>A</h1><h2>B</h2>", "intro", "part")
	assert.Equal(t, `<section class="intro"><h1>A</h1><section class="part"><h2>B</h2></section></section>`, out)
}
