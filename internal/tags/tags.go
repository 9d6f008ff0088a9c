// Package tags implements tag normalization and the inheritance rules that
// combine inline, heading, and frontmatter tags into a final ordered set.
package tags

import (
	"regexp"
	"strings"
)

var (
	// Letters and digits in any script count as word characters; a tag
	// like "café" survives normalization intact.
	invalidCharRe = regexp.MustCompile(`[^\p{L}\p{N}_-]`)
	hyphenRunRe   = regexp.MustCompile(`-+`)
)

// DefaultExcluded holds tags that are structural boilerplate rather than
// descriptive; they never appear in resolved tag sets.
var DefaultExcluded = []string{"awesome"}

// Normalize canonicalizes a raw tag: surrounding whitespace trimmed,
// lowercased, one leading '#' stripped, every other non-word character
// collapsed to a single hyphen, leading/trailing hyphens removed.
// An empty result means the input carried no usable tag.
func Normalize(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	if t == "" {
		return ""
	}
	t = strings.TrimPrefix(t, "#")
	t = invalidCharRe.ReplaceAllString(t, "-")
	t = hyphenRunRe.ReplaceAllString(t, "-")
	return strings.Trim(t, "-")
}

// Resolver merges tags from the three inheritance sources and filters
// excluded values. The zero value is not usable; construct with NewResolver.
type Resolver struct {
	excluded map[string]struct{}
}

// NewResolver creates a Resolver with the given excluded-tag set.
// A nil slice selects DefaultExcluded.
func NewResolver(excluded []string) *Resolver {
	if excluded == nil {
		excluded = DefaultExcluded
	}
	set := make(map[string]struct{}, len(excluded))
	for _, t := range excluded {
		set[strings.ToLower(t)] = struct{}{}
	}
	return &Resolver{excluded: set}
}

// Resolve combines inline, ancestor, and frontmatter tags, in that priority
// order. Each tag is normalized and appended only on first occurrence, then
// excluded tags are dropped. The result is never nil and its order is part
// of the contract: downstream consumers display tags in this order.
func (r *Resolver) Resolve(inline, ancestor, frontmatter []string) []string {
	seen := make(map[string]struct{})
	combined := []string{}
	add := func(src []string) {
		for _, raw := range src {
			t := Normalize(raw)
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			combined = append(combined, t)
		}
	}
	add(inline)
	add(ancestor)
	add(frontmatter)

	out := []string{}
	for _, t := range combined {
		if _, drop := r.excluded[t]; drop {
			continue
		}
		out = append(out, t)
	}
	return out
}

var defaultResolver = NewResolver(nil)

// Resolve applies the default resolver (excluding only "awesome").
func Resolve(inline, ancestor, frontmatter []string) []string {
	return defaultResolver.Resolve(inline, ancestor, frontmatter)
}

// FilterMeaningful drops excluded tags from an already-normalized slice,
// case-insensitively.
func FilterMeaningful(in []string) []string {
	out := []string{}
	for _, t := range in {
		if _, drop := defaultResolver.excluded[strings.ToLower(t)]; drop {
			continue
		}
		out = append(out, t)
	}
	return out
}
