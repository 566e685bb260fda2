// Package cli provides CLI output utilities for Shiori.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hazuki/shiori/internal/models"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results in %dms (mode: %s)\n\n",
		response.Total, response.QueryTime, response.Mode)
	for _, tw := range response.Results {
		writeOneTweet(w, tw)
	}
}

func writeOneTweet(w io.Writer, tw *models.Tweet) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "%s  @%s", tw.Name, tw.ScreenName)
	if tw.CreatedAtUTC != nil {
		fmt.Fprintf(w, "  %s", *tw.CreatedAtUTC)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "ID: %s", tw.ID)
	if tw.HasMedia {
		fmt.Fprintf(w, "  [media]")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "bookmarks: %s  likes: %s  retweets: %s\n",
		formatCount(tw.BookmarkCount), formatCount(tw.FavoriteCount), formatCount(tw.RetweetCount))
	fmt.Fprintf(w, "\n%s\n", Truncate(tw.FullText, 280))
	if tw.TweetURL != "" {
		fmt.Fprintf(w, "%s\n", tw.TweetURL)
	}
	fmt.Fprintln(w)
}

// WriteMediaList writes a tweet's media items to w in the given format.
func WriteMediaList(w io.Writer, tweetID string, items []*models.MediaItem, format SearchOutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{"tweet_id": tweetID, "media": items})
	}
	if len(items) == 0 {
		fmt.Fprintf(w, "No media for tweet %s\n", tweetID)
		return nil
	}
	for _, m := range items {
		fmt.Fprintf(w, "[%d] %s\n", m.Index, m.Type)
		if m.LocalFile != nil {
			fmt.Fprintf(w, "    local: %s\n", *m.LocalFile)
		} else if m.OriginalURL != "" {
			fmt.Fprintf(w, "    remote: %s\n", m.OriginalURL)
		} else if m.URL != "" {
			fmt.Fprintf(w, "    remote: %s\n", m.URL)
		}
	}
	return nil
}

// PrintSearchResults prints search results to stdout in text format (backward compatible).
func PrintSearchResults(response *models.SearchResponse) {
	_ = WriteSearchResults(os.Stdout, response, OutputText)
}

func formatCount(n *int64) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *n)
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
