package config

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Snapshot computes a stable hash of the fields that affect generated output.
// Static directory and exclude order does not change the hash.
func (c *Config) Snapshot() string {
	if c == nil {
		return ""
	}
	h := sha256.New()
	w := func(parts ...string) { h.Write([]byte(strings.Join(parts, "="))); h.Write([]byte{0}) }

	w("base_url", c.BaseURL)
	w("minify", strconv.FormatBool(c.Minify))
	w("wrap_sections", strconv.FormatBool(c.WrapSections))
	w("h1_section_class", c.H1SectionClass)
	w("h2_section_class", c.H2SectionClass)
	w("content_placeholder", c.ContentPlaceholder)
	w("markdown_extensions", strings.Join(c.MarkdownExtensions, ","))
	w("front_matter", strconv.FormatBool(c.FrontMatter))
	w("sitemap", strconv.FormatBool(c.GenerateSitemap))
	w("robots", strconv.FormatBool(c.GenerateRobots))
	w("htaccess", strconv.FormatBool(c.GenerateHtaccess))
	w("static_dirs", sortedJoin(c.StaticDirs))
	w("exclude", sortedJoin(c.Exclude))

	keys := make([]string, 0, len(c.ImagePathReplacements))
	for k := range c.ImagePathReplacements {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		w("image_path_replacements", k, c.ImagePathReplacements[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

func sortedJoin(in []string) string {
	s := append([]string(nil), in...)
	sort.Strings(s)
	return strings.Join(s, ",")
}
