package api

import (
	"github.com/starford/raido/internal/listservice"
	"github.com/starford/raido/internal/models"
)

// ListItem is a single item in API responses (aliased from the domain layer).
type ListItem = models.ListItem

// AwesomeList is one source list in API responses (aliased from the domain layer).
type AwesomeList = models.AwesomeList

// CollectionMetadata is the aggregated index (aliased from the domain layer).
type CollectionMetadata = models.CacheMetadata

// ItemListResponse wraps paginated item listings.
type ItemListResponse struct {
	Items []ListItem `json:"items" validate:"required"`
	Total int        `json:"total" example:"42" validate:"required"`
}

// ListsResponse wraps the full per-source list set.
type ListsResponse struct {
	Lists []AwesomeList `json:"lists" validate:"required"`
}

// TopicsResponse wraps the topic index.
type TopicsResponse struct {
	Topics []string `json:"topics" validate:"required"`
}

// TagsResponse wraps the tag index.
type TagsResponse struct {
	Tags []string `json:"tags" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []ListItem `json:"results" validate:"required"`
}

// RefreshResponse reports a collection rebuild (aliased from the domain layer).
type RefreshResponse = listservice.RefreshResult
