// Package search provides the query engine over the tweet store.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/hazuki/shiori/internal/config"
	"github.com/hazuki/shiori/internal/metrics"
	"github.com/hazuki/shiori/internal/models"
	"github.com/hazuki/shiori/internal/storage"
)

// Engine serves searches against the store, choosing ranked or substring
// mode per query.
type Engine struct {
	store  *storage.Store
	config *config.SearchConfig
}

// NewEngine creates a search engine reading from store.
func NewEngine(store *storage.Store, cfg *config.SearchConfig) *Engine {
	return &Engine{store: store, config: cfg}
}

// Search runs one search. Ranked mode is used when the trimmed query text is
// non-empty and the shadow index is available; everything else takes the
// substring path, most recent first. The response reports the mode actually
// used. Empty results are a valid outcome, never an error.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	start := time.Now()
	if query.Limit <= 0 {
		query.Limit = e.config.DefaultLimit
	}
	if query.Limit > e.config.MaxLimit {
		query.Limit = e.config.MaxLimit
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	filters := storage.Filters{
		OnlyMedia:    query.OnlyMedia,
		MinBookmarks: query.MinBookmarks,
		MinFavorites: query.MinFavorites,
	}
	trimmed := strings.TrimSpace(query.Query)

	var (
		rows []*models.Tweet
		mode string
		err  error
	)
	if trimmed != "" && e.store.RankedSearchAvailable() {
		rows, err = e.store.SearchRanked(ctx, trimmed, filters, query.Limit)
		mode = models.ModeRanked
	} else {
		rows, err = e.store.SearchSubstring(ctx, trimmed, filters, query.Limit)
		mode = models.ModeSubstring
	}
	if err != nil {
		return nil, err
	}

	metrics.IncSearch(mode)
	return &models.SearchResponse{
		Results:   rows,
		Total:     len(rows),
		Mode:      mode,
		QueryTime: time.Since(start).Milliseconds(),
		Query:     query.Query,
	}, nil
}

// ListMedia returns a tweet's media items ordered by position.
func (e *Engine) ListMedia(ctx context.Context, tweetID string) ([]*models.MediaItem, error) {
	return e.store.ListMedia(ctx, tweetID)
}

// GetTweet returns a tweet by id, or nil when absent.
func (e *Engine) GetTweet(ctx context.Context, id string) (*models.Tweet, error) {
	return e.store.GetTweet(ctx, id)
}

// RankedSearchAvailable reports whether the ranked path can be served.
// Callers surface this as a status string, not an error.
func (e *Engine) RankedSearchAvailable() bool {
	return e.store.RankedSearchAvailable()
}
