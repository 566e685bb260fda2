// Package models defines core data structures for tweets, media items, and search requests.
package models

// Tweet represents one ingested bookmark record. Rows are written once at
// first ingestion of an id and never updated or deleted afterwards.
type Tweet struct {
	ID string `json:"id"`
	// CreatedAtUTC is the normalized RFC 3339 UTC timestamp. Nil when the
	// raw value could not be parsed; CreatedAtRaw is always preserved.
	CreatedAtUTC     *string `json:"created_at_utc,omitempty"`
	CreatedAtRaw     string  `json:"created_at_raw"`
	FullText         string  `json:"full_text"`
	ScreenName       string  `json:"screen_name"`
	Name             string  `json:"name"`
	ProfileImageURL  string  `json:"profile_image_url"`
	ProfileImageFile *string `json:"profile_image_file,omitempty"`
	TweetURL         string  `json:"tweet_url"`
	FavoriteCount    *int64  `json:"favorite_count,omitempty"`
	RetweetCount     *int64  `json:"retweet_count,omitempty"`
	BookmarkCount    *int64  `json:"bookmark_count,omitempty"`
	QuoteCount       *int64  `json:"quote_count,omitempty"`
	ReplyCount       *int64  `json:"reply_count,omitempty"`
	ViewsCount       *int64  `json:"views_count,omitempty"`
	InReplyTo        *string `json:"in_reply_to,omitempty"`
	HasMedia         bool    `json:"has_media"`
}

// MediaItem is one attachment of a tweet, identified by (TweetID, Index)
// where Index is the zero-based position in the tweet's media list.
type MediaItem struct {
	TweetID      string `json:"tweet_id"`
	Index        int    `json:"index"`
	Type         string `json:"type"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	OriginalURL  string `json:"original_url"`
	// LocalFile is the resolved filename under the media directory.
	// Nil means no cached copy was found; render from the remote URL.
	LocalFile *string `json:"local_file,omitempty"`
}

// ImportRecord is the fingerprint of one ingested source file, keyed by path.
// It is overwritten on every successful (re)import of that path.
type ImportRecord struct {
	FilePath      string  `json:"file_path"`
	FileSize      int64   `json:"file_size"`
	FileMtime     float64 `json:"file_mtime"`
	ImportedAtUTC string  `json:"imported_at_utc"`
}
