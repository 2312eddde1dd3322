package pipeline

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadata(t *testing.T) {
	t.Run("title and description", func(t *testing.T) {
		meta := ExtractMetadata("<h1>Title</h1>\n<p>Some <strong>bold</strong> text.</p>\n")
		require.NotNil(t, meta.Title)
		require.NotNil(t, meta.Description)
		assert.Equal(t, "Title", *meta.Title)
		assert.Equal(t, "Some bold text.", *meta.Description)
	})

	t.Run("title keeps inner markup", func(t *testing.T) {
		meta := ExtractMetadata("<h1 id=\"x\">Hello <em>World</em></h1>")
		require.NotNil(t, meta.Title)
		assert.Equal(t, "Hello <em>World</em>", *meta.Title)
		assert.Nil(t, meta.Description)
	})

	t.Run("no heading", func(t *testing.T) {
		meta := ExtractMetadata("<p>Just a paragraph.</p>")
		assert.Nil(t, meta.Title)
		assert.Nil(t, meta.Description)
		assert.False(t, meta.HasAny())
	})

	t.Run("heading not followed by a paragraph", func(t *testing.T) {
		meta := ExtractMetadata("<h1>T</h1>\n<ul><li>x</li></ul>")
		require.NotNil(t, meta.Title)
		assert.Nil(t, meta.Description)
	})

	t.Run("inside wrapped sections", func(t *testing.T) {
		html := WrapSections("<h1>Test Page</h1>\n<p>This is a test page.</p>\n", "hero", "section")
		meta := ExtractMetadata(html)
		require.NotNil(t, meta.Description)
		assert.Equal(t, "This is a test page.", *meta.Description)
	})

	t.Run("empty heading yields nothing", func(t *testing.T) {
		meta := ExtractMetadata("<h1></h1><p>x</p>")
		assert.False(t, meta.HasAny())
	})
}

func TestExtractMetadata_LongDescriptionIsTruncated(t *testing.T) {
	var words []string
	for len(strings.Join(words, " ")) < 200 {
		words = append(words, "lorem", "ipsum", "dolor")
	}
	original := strings.Join(words, " ")[:200]
	original = strings.TrimRight(original, " ")

	meta := ExtractMetadata("<h1>T</h1><p>" + original + "</p>")
	require.NotNil(t, meta.Description)
	desc := *meta.Description

	assert.LessOrEqual(t, utf8.RuneCountInString(desc), MaxDescriptionLength)
	assert.True(t, strings.HasSuffix(desc, "..."))

	kept := strings.TrimSuffix(desc, "...")
	assert.True(t, strings.HasPrefix(original, kept))
	assert.Equal(t, byte(' '), original[len(kept)], "truncation must end on a word boundary")
}

func TestTruncateDescription(t *testing.T) {
	exact := strings.Repeat("a", MaxDescriptionLength)
	assert.Equal(t, exact, TruncateDescription(exact))

	noSpaces := strings.Repeat("b", 170)
	assert.Equal(t, strings.Repeat("b", 157)+"...", TruncateDescription(noSpaces))

	multibyte := strings.Repeat("é ", 100)
	out := TruncateDescription(multibyte)
	assert.LessOrEqual(t, utf8.RuneCountInString(out), MaxDescriptionLength)
	assert.True(t, utf8.ValidString(out))
}
