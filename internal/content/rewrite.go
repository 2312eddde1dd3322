package content

import (
	"sort"
	"strings"
)

// RewritePaths applies literal from→to replacements to text in sorted key order.
func RewritePaths(text string, replacements map[string]string) string {
	if len(replacements) == 0 {
		return text
	}
	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		text = strings.ReplaceAll(text, k, replacements[k])
	}
	return text
}
