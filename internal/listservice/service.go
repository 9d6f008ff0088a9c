// Package listservice coordinates the collection pipeline, the cache
// file, and the SQLite index behind one API surface.
package listservice

import (
	"context"
	"log/slog"

	"github.com/starford/raido/internal/cache"
	"github.com/starford/raido/internal/collection"
	"github.com/starford/raido/internal/filter"
	"github.com/starford/raido/internal/index"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/sources"
)

// RefreshResult reports the outcome of a collection rebuild.
type RefreshResult struct {
	Metadata models.CacheMetadata `json:"metadata"`
	Warnings []string             `json:"warnings"`
	Errors   []string             `json:"errors"`
}

// Service answers queries from the index and rebuilds the collection on
// demand.
type Service struct {
	db          index.ItemIndex
	entries     []string
	excludeTags []string
	cachePath   string
	logger      *slog.Logger
}

// NewService creates a list service over the given index and source
// configuration. cachePath may be empty to skip cache file writes.
func NewService(db index.ItemIndex, entries, excludeTags []string, cachePath string, logger *slog.Logger) *Service {
	return &Service{
		db:          db,
		entries:     entries,
		excludeTags: excludeTags,
		cachePath:   cachePath,
		logger:      logger,
	}
}

// ListItems returns a page of items with optional tag and topic filters.
func (s *Service) ListItems(_ context.Context, limit, offset int, tag, topic string) ([]models.ListItem, int, error) {
	items, total, err := s.db.ListItems(limit, offset, tag, topic)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Filter applies multi-tag and multi-topic selection over the whole
// collection. Topics combine with OR; tags combine per mode. Unlike
// ListItems this is not paginated at the index level, so it can honor
// cross-tag AND semantics the SQL filters cannot express.
func (s *Service) Filter(_ context.Context, tags, topics []string, mode filter.Mode) ([]models.ListItem, error) {
	lists, err := s.db.Lists()
	if err != nil {
		return nil, err
	}
	var items []models.ListItem
	for _, l := range lists {
		items = append(items, l.Items...)
	}

	m := filter.NewManager(items, nil)
	m.SetMode(mode)
	for _, tag := range tags {
		m.AddTagFilter(tag)
	}
	for _, topic := range topics {
		m.AddTopicFilter(topic)
	}
	return m.Filtered(), nil
}

// Search runs a full-text query over indexed items.
func (s *Service) Search(_ context.Context, query string, limit int) ([]models.ListItem, error) {
	return s.db.Search(query, limit)
}

// Lists returns every indexed list with its items.
func (s *Service) Lists(_ context.Context) ([]models.AwesomeList, error) {
	return s.db.Lists()
}

// Topics returns every distinct topic.
func (s *Service) Topics(_ context.Context) ([]string, error) {
	return s.db.Topics()
}

// Tags returns every distinct tag.
func (s *Service) Tags(_ context.Context) ([]string, error) {
	return s.db.Tags()
}

// Metadata returns the aggregated collection metadata.
func (s *Service) Metadata(_ context.Context) (models.CacheMetadata, error) {
	return s.db.Metadata()
}

// Refresh rebuilds the whole collection from the configured sources:
// parse, filter, write the cache file, resync the index. Per-file parse
// failures come back in the result rather than failing the refresh.
func (s *Service) Refresh(ctx context.Context) (*RefreshResult, error) {
	paths := sources.Resolve(s.entries)
	res := collection.Generate(ctx, paths, s.excludeTags)

	if s.cachePath != "" {
		encoded, err := collection.EncodeJSON(res.Data)
		if err != nil {
			return nil, err
		}
		if err := cache.Write(s.cachePath, encoded); err != nil {
			return nil, err
		}
		s.logger.Info("refresh: cache written",
			slog.String("path", s.cachePath),
			slog.Int("lists", res.Data.Metadata.TotalLists),
			slog.Int("items", res.Data.Metadata.TotalItems))
	}

	if db, ok := s.db.(*index.DB); ok {
		if err := index.Sync(db, s.entries, s.excludeTags, s.logger); err != nil {
			return nil, err
		}
	}

	return &RefreshResult{
		Metadata: res.Data.Metadata,
		Warnings: res.Warnings,
		Errors:   res.Errors,
	}, nil
}

// CacheInfo reports the on-disk state of the cache file.
func (s *Service) CacheInfo() cache.Info {
	return cache.Stat(s.cachePath)
}

// CacheStale reports whether the cache file is older than any source.
func (s *Service) CacheStale() bool {
	return cache.IsStale(s.cachePath, sources.Resolve(s.entries))
}
