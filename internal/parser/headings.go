package parser

import (
	"regexp"
	"strings"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/tags"
)

var (
	headingRe    = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	inlineTagRe  = regexp.MustCompile(`#([a-zA-Z0-9_-]+)`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ExtractHeadings scans body lines for markdown headings (1-6 '#' followed
// by whitespace and text). Line numbers are 1-based within the
// post-frontmatter body. Headings inside fenced code blocks are still
// picked up; the awesome-list dialect has no fences and this scanner takes
// lines at face value.
func ExtractHeadings(body string) []models.Heading {
	var out []models.Heading
	for i, line := range strings.Split(body, "\n") {
		m := headingRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		clean, inlineTags := ParseHeadingTags(m[2])
		out = append(out, models.Heading{
			Level:      len(m[1]),
			Text:       m[2],
			CleanText:  clean,
			Tags:       inlineTags,
			LineNumber: i + 1,
		})
	}
	return out
}

// ParseHeadingTags splits heading text into its clean form and the inline
// #tag tokens it carried. Whitespace gaps left by removed tags collapse to
// a single space.
func ParseHeadingTags(text string) (string, []string) {
	var found []string
	for _, m := range inlineTagRe.FindAllStringSubmatch(text, -1) {
		found = append(found, m[1])
	}
	clean := inlineTagRe.ReplaceAllString(text, "")
	clean = whitespaceRe.ReplaceAllString(strings.TrimSpace(clean), " ")
	return clean, found
}

// ancestorChain returns the active heading per level for a body position:
// scanning headings before the position in document order, a heading at
// level L evicts every tracked heading at level >= L (nearest-wins).
// Only levels >= 2 survive; the level-1 topic is not an ancestor.
func ancestorChain(headings []models.Heading, position int) []models.Heading {
	current := make(map[int]models.Heading)
	for _, h := range headings {
		if h.LineNumber >= position {
			continue
		}
		for lvl := range current {
			if lvl >= h.Level {
				delete(current, lvl)
			}
		}
		current[h.Level] = h
	}

	var chain []models.Heading
	for lvl := 2; lvl <= 6; lvl++ {
		if h, ok := current[lvl]; ok {
			chain = append(chain, h)
		}
	}
	return chain
}

// AncestorTags returns the normalized, deduplicated inline tags of the
// active ancestor headings for an item position, in ascending level order.
func AncestorTags(headings []models.Heading, position int) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, h := range ancestorChain(headings, position) {
		for _, raw := range h.Tags {
			t := tags.Normalize(raw)
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// SectionPath returns the clean texts of the active ancestor headings for
// an item position, ascending level order, empty texts skipped.
func SectionPath(headings []models.Heading, position int) []string {
	out := []string{}
	for _, h := range ancestorChain(headings, position) {
		if h.CleanText != "" {
			out = append(out, h.CleanText)
		}
	}
	return out
}
