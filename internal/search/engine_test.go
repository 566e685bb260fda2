package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hazuki/shiori/internal/config"
	"github.com/hazuki/shiori/internal/models"
	"github.com/hazuki/shiori/internal/storage"
)

func testEngine(t *testing.T) (*Engine, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "bookmarks.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return NewEngine(store, &cfg.Search), store
}

func seed(t *testing.T, store *storage.Store, tweets ...*models.Tweet) {
	t.Helper()
	ctx := context.Background()
	tx, err := store.BeginImport(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, tw := range tweets {
		if err := tx.InsertTweet(ctx, tw); err != nil {
			t.Fatal(err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
}

func ts(s string) *string { return &s }

func TestSearch_rankedMode(t *testing.T) {
	eng, store := testEngine(t)
	if !store.RankedSearchAvailable() {
		t.Skip("FTS5 not available in this build")
	}
	seed(t, store,
		&models.Tweet{ID: "1", FullText: "gopher gopher gopher"},
		&models.Tweet{ID: "2", FullText: "one gopher"},
		&models.Tweet{ID: "3", FullText: "no match"},
	)

	resp, err := eng.Search(context.Background(), &models.SearchQuery{Query: "  gopher  "})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Mode != models.ModeRanked {
		t.Errorf("mode = %q, want ranked", resp.Mode)
	}
	if resp.Total != 2 || resp.Results[0].ID != "1" {
		t.Errorf("results = %+v", resp.Results)
	}
}

func TestSearch_emptyQueryUsesSubstringMode(t *testing.T) {
	eng, store := testEngine(t)
	seed(t, store,
		&models.Tweet{ID: "1", FullText: "old", CreatedAtUTC: ts("2024-01-01T00:00:00Z")},
		&models.Tweet{ID: "2", FullText: "new", CreatedAtUTC: ts("2024-02-01T00:00:00Z")},
	)

	// Whitespace-only queries count as empty even when the shadow index exists.
	resp, err := eng.Search(context.Background(), &models.SearchQuery{Query: "   "})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Mode != models.ModeSubstring {
		t.Errorf("mode = %q, want substring", resp.Mode)
	}
	if resp.Total != 2 || resp.Results[0].ID != "2" {
		t.Errorf("substring mode should list all, newest first: %+v", resp.Results)
	}
}

func TestSearch_emptyResultsAreNotAnError(t *testing.T) {
	eng, _ := testEngine(t)
	resp, err := eng.Search(context.Background(), &models.SearchQuery{Query: "anything"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 0 {
		t.Errorf("total = %d, want 0", resp.Total)
	}
}

func TestSearch_limitDefaultsAndCaps(t *testing.T) {
	eng, store := testEngine(t)
	seed(t, store, &models.Tweet{ID: "1", FullText: "x"})

	q := &models.SearchQuery{Query: ""}
	if _, err := eng.Search(context.Background(), q); err != nil {
		t.Fatal(err)
	}
	if q.Limit != 50 {
		t.Errorf("default limit = %d, want 50", q.Limit)
	}

	q = &models.SearchQuery{Query: "", Limit: 100000}
	if _, err := eng.Search(context.Background(), q); err != nil {
		t.Fatal(err)
	}
	if q.Limit != 200 {
		t.Errorf("capped limit = %d, want 200", q.Limit)
	}
}

func TestSearch_filters(t *testing.T) {
	eng, store := testEngine(t)
	fav := int64(30)
	bm := int64(10)
	seed(t, store,
		&models.Tweet{ID: "1", FullText: "cats", HasMedia: true, FavoriteCount: &fav, BookmarkCount: &bm},
		&models.Tweet{ID: "2", FullText: "cats"},
	)

	resp, err := eng.Search(context.Background(), &models.SearchQuery{
		Query: "cats", OnlyMedia: true, MinBookmarks: 5, MinFavorites: 20,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Results[0].ID != "1" {
		t.Errorf("filtered results = %+v", resp.Results)
	}
}

func TestListMediaAndGetTweet(t *testing.T) {
	eng, store := testEngine(t)
	ctx := context.Background()
	seed(t, store, &models.Tweet{ID: "1", FullText: "x", HasMedia: true})
	tx, err := store.BeginImport(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := tx.UpsertMedia(ctx, &models.MediaItem{TweetID: "1", Index: 0, Type: "photo", URL: "u"}); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	items, err := eng.ListMedia(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Type != "photo" {
		t.Errorf("media = %+v", items)
	}

	tw, err := eng.GetTweet(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	if tw == nil || tw.ID != "1" {
		t.Errorf("tweet = %+v", tw)
	}
	missing, err := eng.GetTweet(ctx, "nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("absent tweet should be nil, got %+v", missing)
	}
}
