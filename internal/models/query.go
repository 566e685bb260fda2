package models

// Search mode names returned to callers so they can surface degraded-mode status.
const (
	ModeRanked    = "ranked"
	ModeSubstring = "substring"
)

// SearchQuery represents a search request with conjunctive, independently
// optional filters.
type SearchQuery struct {
	Query        string `json:"query"`
	Limit        int    `json:"limit,omitempty"`
	OnlyMedia    bool   `json:"only_media,omitempty"`
	MinBookmarks int64  `json:"min_bookmarks,omitempty"`
	MinFavorites int64  `json:"min_favorites,omitempty"`
}

// Validate normalizes the query in place: the limit defaults to 50 and is
// capped at 200 so the bound pushed into SQL is always positive.
func (q *SearchQuery) Validate() error {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Limit > 200 {
		q.Limit = 200
	}
	if q.MinBookmarks < 0 {
		q.MinBookmarks = 0
	}
	if q.MinFavorites < 0 {
		q.MinFavorites = 0
	}
	return nil
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results []*Tweet `json:"results"`
	Total   int      `json:"total"`
	// Mode is the strategy actually used: ModeRanked or ModeSubstring.
	Mode      string `json:"mode"`
	QueryTime int64  `json:"query_time_ms"`
	Query     string `json:"query"`
}
