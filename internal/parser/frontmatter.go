package parser

import (
	"strings"

	"github.com/adrg/frontmatter"
)

// SplitFrontmatter extracts the leading metadata block from markdown
// content. Malformed or unterminated frontmatter falls back to an empty
// metadata map with the content returned untouched; no partial stripping
// ever happens on failure.
func SplitFrontmatter(content string) (map[string]any, string) {
	var meta map[string]any
	rest, err := frontmatter.Parse(strings.NewReader(content), &meta)
	if err != nil {
		return map[string]any{}, content
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, string(rest)
}

// FrontmatterTags returns the "tags" sequence from a metadata map. A
// missing key or a value that is not a sequence of strings yields no tags.
func FrontmatterTags(meta map[string]any) []string {
	raw, ok := meta["tags"]
	if !ok {
		return nil
	}
	seq, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, v := range seq {
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
