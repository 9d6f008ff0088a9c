package mcpserver

// ListFormatContract describes the canonical Markdown list format that
// source files must follow to be collected.
const ListFormatContract = `# Raido List Format Contract

Every Markdown source file collected by Raido SHOULD follow this structure.

## Structure

` + "```" + `markdown
---
title: Optional document title      # OPTIONAL
tags:                               # OPTIONAL - YAML list; applied to every item
  - shared-tag
---

# Topic Name                        # REQUIRED - first H1 becomes the list topic

## Section #section-tag             # OPTIONAL - headings group items and carry tags

- Item Title <https://example.com> #tag-one #tag-two
  Continuation lines add to the item description.
- [Linked Title](https://example.com/other) #tag-three
` + "```" + `

## Rules

1. **The first ` + "`" + `#` + "`" + ` heading is the topic.** A file without one is rejected.
2. **Items are top-level ` + "`" + `-` + "`" + ` bullets.** An item without a title is dropped.
3. **Tags** are written inline as ` + "`" + `#tag` + "`" + ` tokens. Items inherit tags from
   enclosing headings and from the frontmatter ` + "`" + `tags` + "`" + ` list; the nearest
   heading per level wins. The literal tag ` + "`" + `awesome` + "`" + ` is always discarded.
4. **Links** may be written as ` + "`" + `<https://...>` + "`" + ` angle URLs, bare URLs, or
   standard ` + "`" + `[text](url)` + "`" + ` Markdown links. The first URL found wins,
   preferring angle form over bare form over Markdown form.
5. **Sections** are the chain of headings (levels 2 and deeper) above an item,
   outermost first.
6. **File paths** end with ` + "`" + `.md` + "`" + ` and use forward slashes.
7. **Encoding** is UTF-8.
`
