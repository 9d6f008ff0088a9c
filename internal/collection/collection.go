// Package collection builds the combined record set out of many parsed
// awesome lists: batch parsing with per-file error capture, exclusion
// filtering, validation warnings, and the aggregated metadata index.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/parser"
)

// parseConcurrency bounds how many files are parsed at once.
const parseConcurrency = 4

// Result is the outcome of one collection build.
type Result struct {
	Data     models.CacheData
	Warnings []string
	Errors   []string
}

// ParseAll parses every path, collecting successes and per-file error
// messages instead of failing the batch. Output order follows input order
// regardless of which file finishes first.
func ParseAll(ctx context.Context, paths []string) ([]models.AwesomeList, []string) {
	lists := make([]*models.AwesomeList, len(paths))
	errs := make([]string, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parseConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				// Every skipped file still surfaces in the error list.
				errs[i] = fmt.Sprintf("cancelled: %s", path)
				return err
			}
			list, err := parser.ParseFile(path)
			if err != nil {
				errs[i] = formatParseError(path, err)
				return nil
			}
			lists[i] = list
			return nil
		})
	}
	_ = g.Wait()

	out := []models.AwesomeList{}
	msgs := []string{}
	for i := range paths {
		if lists[i] != nil {
			out = append(out, *lists[i])
		}
		if errs[i] != "" {
			msgs = append(msgs, errs[i])
		}
	}
	return out, msgs
}

func formatParseError(path string, err error) string {
	if errors.Is(err, apperr.ErrNotFound) {
		return fmt.Sprintf("File not found: %s", path)
	}
	var perr *apperr.ParseError
	if errors.As(err, &perr) {
		return fmt.Sprintf("Error parsing %s: %v", path, perr.Err)
	}
	return fmt.Sprintf("Error parsing %s: %v", path, err)
}

// ApplyExcludeTags removes items carrying any of the excluded tags. The
// lists themselves survive even when every item is filtered out, so topic
// metadata stays intact.
func ApplyExcludeTags(lists []models.AwesomeList, excludeTags []string) []models.AwesomeList {
	if len(excludeTags) == 0 {
		return lists
	}
	excluded := make(map[string]bool, len(excludeTags))
	for _, t := range excludeTags {
		excluded[t] = true
	}

	out := make([]models.AwesomeList, 0, len(lists))
	for _, list := range lists {
		kept := []models.ListItem{}
		for _, item := range list.Items {
			skip := false
			for _, t := range item.Tags {
				if excluded[t] {
					skip = true
					break
				}
			}
			if !skip {
				kept = append(kept, item)
			}
		}
		out = append(out, models.AwesomeList{
			Topic:      list.Topic,
			Items:      kept,
			SourceFile: list.SourceFile,
		})
	}
	return out
}

// Validate reports consistency warnings over parsed lists. Warnings never
// block a build; they surface data quality problems in the sources.
func Validate(lists []models.AwesomeList) []string {
	var warnings []string
	for _, list := range lists {
		if list.Topic == "" {
			warnings = append(warnings, fmt.Sprintf("Missing topic in %s", list.SourceFile))
		}
		if len(list.Items) == 0 {
			warnings = append(warnings, fmt.Sprintf("No items found in %s", list.SourceFile))
		}
		for i, item := range list.Items {
			ref := fmt.Sprintf("item %d in %s", i+1, list.SourceFile)
			if item.Title == "" {
				warnings = append(warnings, fmt.Sprintf("Missing title for %s", ref))
			}
			if item.Link == "" {
				warnings = append(warnings, fmt.Sprintf("Missing link for %s", ref))
			}
		}
	}
	return warnings
}

// BuildMetadata aggregates the cross-list index: sorted unique topics,
// sorted unique tags, and totals.
func BuildMetadata(lists []models.AwesomeList) models.CacheMetadata {
	topicSet := map[string]bool{}
	tagSet := map[string]bool{}
	totalItems := 0
	for _, list := range lists {
		topicSet[list.Topic] = true
		for _, item := range list.Items {
			totalItems++
			for _, t := range item.Tags {
				tagSet[t] = true
			}
		}
	}

	topics := make([]string, 0, len(topicSet))
	for t := range topicSet {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	tags := make([]string, 0, len(tagSet))
	for t := range tagSet {
		tags = append(tags, t)
	}
	sort.Strings(tags)

	return models.CacheMetadata{
		Topics:     topics,
		Tags:       tags,
		TotalItems: totalItems,
		TotalLists: len(lists),
	}
}

// Generate runs the full pipeline over the given paths: parse, filter
// excluded tags, validate, aggregate metadata.
func Generate(ctx context.Context, paths []string, excludeTags []string) Result {
	lists, errs := ParseAll(ctx, paths)
	lists = ApplyExcludeTags(lists, excludeTags)
	warnings := Validate(lists)

	return Result{
		Data: models.CacheData{
			Metadata: BuildMetadata(lists),
			Lists:    lists,
		},
		Warnings: warnings,
		Errors:   errs,
	}
}

// EncodeJSON serializes the cache document with stable two-space indent.
func EncodeJSON(data models.CacheData) ([]byte, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("collection: encode: %w", err)
	}
	return out, nil
}
