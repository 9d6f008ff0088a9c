package parser

import (
	"regexp"
	"strings"
)

var (
	angleURLRe    = regexp.MustCompile(`<(https?://[^\s>]+)>`)
	bareURLRe     = regexp.MustCompile(`https?://[^\s<>]+`)
	markdownURLRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// ItemContent is the decomposition of a single bullet block.
type ItemContent struct {
	Title       string
	Description string
	Link        string
	Tags        []string
}

// ParseItemContent decomposes a bullet block into title, description, link,
// and inline tags. The order matters: lines are joined, URLs extracted and
// stripped, then inline tags extracted and stripped, and whatever text
// survives becomes title (first segment) and description (the rest). An
// empty title marks the block as a note rather than an item; the caller
// discards it.
func ParseItemContent(lines []string) ItemContent {
	text := strings.Join(lines, " ")

	urls := extractURLs(text)
	link := ""
	if len(urls) > 0 {
		link = urls[0]
	}
	for _, u := range urls {
		text = strings.ReplaceAll(text, u, "")
		text = strings.ReplaceAll(text, "<>", "")
	}

	var inlineTags []string
	for _, m := range inlineTagRe.FindAllStringSubmatch(text, -1) {
		inlineTags = append(inlineTags, m[1])
	}
	text = inlineTagRe.ReplaceAllString(text, "")

	var parts []string
	for _, p := range strings.Split(text, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ItemContent{Link: link, Tags: inlineTags}
	}
	return ItemContent{
		Title:       parts[0],
		Description: strings.Join(parts[1:], " "),
		Link:        link,
		Tags:        inlineTags,
	}
}

// extractURLs finds URLs in priority order: angle-bracket form first, then
// bare http(s) tokens not already bracketed, then markdown link targets.
// The first entry wins as the item link; all of them get stripped from the
// working text.
func extractURLs(text string) []string {
	var urls []string
	for _, m := range angleURLRe.FindAllStringSubmatch(text, -1) {
		urls = append(urls, m[1])
	}
	for _, loc := range bareURLRe.FindAllStringIndex(text, -1) {
		if loc[0] > 0 && text[loc[0]-1] == '<' {
			continue // already captured by the angle form
		}
		match := text[loc[0]:loc[1]]
		// Inside a [text](url) construct the bare scan also grabs the
		// closing paren; the target itself cannot contain one, so exactly
		// one gets stripped. A paren inside a free-standing URL stays.
		if loc[0] >= 2 && text[loc[0]-2] == ']' && text[loc[0]-1] == '(' {
			match = strings.TrimSuffix(match, ")")
		}
		urls = append(urls, match)
	}
	for _, m := range markdownURLRe.FindAllStringSubmatch(text, -1) {
		urls = append(urls, m[2])
	}
	return urls
}
