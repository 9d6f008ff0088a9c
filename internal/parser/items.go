package parser

import (
	"regexp"
	"strings"
)

var bulletRe = regexp.MustCompile(`^\s*[-*]\s+(.+)$`)

// RawItemBlock is one bullet entry before content parsing: the bullet's own
// text plus any indented continuation lines, and the 1-based line number of
// the bullet line.
type RawItemBlock struct {
	Lines      []string
	LineNumber int
}

// ExtractItems scans body lines for bullet blocks. A line opens a block
// when, after optional indentation, it starts with '-' or '*' plus
// whitespace and text. While a block is open, non-blank lines indented by
// at least two spaces or a tab join it as continuation lines. Blank lines
// are tolerated without closing the block; only the next bullet or end of
// input does.
func ExtractItems(body string) []RawItemBlock {
	var items []RawItemBlock
	var current *RawItemBlock

	for i, line := range strings.Split(body, "\n") {
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				items = append(items, *current)
			}
			current = &RawItemBlock{Lines: []string{m[1]}, LineNumber: i + 1}
			continue
		}
		if current == nil || strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t") {
			current.Lines = append(current.Lines, strings.TrimSpace(line))
		}
		// Non-indented non-bullet text is plain body prose; it neither
		// joins nor closes the open block.
	}

	if current != nil {
		items = append(items, *current)
	}
	return items
}
