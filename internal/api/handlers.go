package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/raido/internal/filter"
	"github.com/starford/raido/internal/listservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *listservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *listservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListItems handles GET /api/items.
//
//	@Summary		List items with optional pagination and filtering
//	@Tags			items
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			tag		query		string	false	"Filter by normalized tag (repeatable)"
//	@Param			topic	query		string	false	"Filter by topic (repeatable)"
//	@Param			mode	query		string	false	"Tag combination mode: or (default) or and"
//	@Success		200		{object}	ItemListResponse
//	@Security		BearerAuth
//	@Router			/items [get]
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	tags := q["tag"]
	topics := q["topic"]
	mode := q.Get("mode")

	// Repeated tag/topic params and AND mode go through the in-memory
	// filter; the single-value form stays on the index queries.
	if len(tags) > 1 || len(topics) > 1 || mode != "" {
		h.filterItems(w, r, tags, topics, mode, limit, offset)
		return
	}

	items, total, err := h.svc.ListItems(r.Context(), limit, offset, q.Get("tag"), q.Get("topic"))
	if err != nil {
		slog.Error("list items failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
	})
}

func (h *Handler) filterItems(w http.ResponseWriter, r *http.Request, tags, topics []string, mode string, limit, offset int) {
	fmode := filter.ModeOR
	if mode == "and" {
		fmode = filter.ModeAND
	}
	items, err := h.svc.Filter(r.Context(), tags, topics, fmode)
	if err != nil {
		slog.Error("filter items failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	total := len(items)
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items[offset:end],
		"total": total,
	})
}

// Lists handles GET /api/lists.
//
//	@Summary		Get every source list with its items
//	@Tags			lists
//	@Produce		json
//	@Success		200	{object}	ListsResponse
//	@Security		BearerAuth
//	@Router			/lists [get]
func (h *Handler) Lists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.svc.Lists(r.Context())
	if err != nil {
		slog.Error("lists failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lists": lists,
	})
}

// Topics handles GET /api/topics.
//
//	@Summary		Get the topic index
//	@Tags			metadata
//	@Produce		json
//	@Success		200	{object}	TopicsResponse
//	@Security		BearerAuth
//	@Router			/topics [get]
func (h *Handler) Topics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.svc.Topics(r.Context())
	if err != nil {
		slog.Error("topics failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"topics": topics,
	})
}

// Tags handles GET /api/tags.
//
//	@Summary		Get the tag index
//	@Tags			metadata
//	@Produce		json
//	@Success		200	{object}	TagsResponse
//	@Security		BearerAuth
//	@Router			/tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Tags(r.Context())
	if err != nil {
		slog.Error("tags failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tags": tags,
	})
}

// Metadata handles GET /api/metadata.
//
//	@Summary		Get aggregated collection metadata
//	@Tags			metadata
//	@Produce		json
//	@Success		200	{object}	CollectionMetadata
//	@Security		BearerAuth
//	@Router			/metadata [get]
func (h *Handler) Metadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.svc.Metadata(r.Context())
	if err != nil {
		slog.Error("metadata failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across items
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// Refresh handles POST /api/refresh.
//
//	@Summary		Rebuild the collection from the configured sources
//	@Tags			collection
//	@Produce		json
//	@Success		200	{object}	RefreshResponse
//	@Security		BearerAuth
//	@Router			/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Refresh(r.Context())
	if err != nil {
		slog.Error("refresh failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
