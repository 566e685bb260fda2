// Package ingest reads bookmark export files and loads them into storage.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hazuki/shiori/internal/mediafs"
	"github.com/hazuki/shiori/internal/metrics"
	"github.com/hazuki/shiori/internal/models"
	"github.com/hazuki/shiori/internal/storage"
)

// Result summarizes one file's ingestion.
type Result struct {
	Seen     int // records read from the file, including skipped ones
	Inserted int // newly stored tweets
}

// Ingester loads export files into the store, one transaction per file.
// A file either fully commits (tweets, media, fingerprint) or leaves no trace.
type Ingester struct {
	store    *storage.Store
	mediaDir string // empty disables local filename resolution
	logger   *zap.Logger
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithLogger sets a logger for per-file and per-record debug output.
func WithLogger(l *zap.Logger) Option {
	return func(ing *Ingester) { ing.logger = l }
}

// NewIngester creates an ingester writing to store. mediaDir may be empty,
// in which case local media filenames are never resolved.
func NewIngester(store *storage.Store, mediaDir string, opts ...Option) *Ingester {
	ing := &Ingester{store: store, mediaDir: mediaDir}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// IngestFile ingests one export file. The root of the file must be a JSON
// array of objects; anything else fails the whole file. Individual records
// degrade instead: a record without a usable id is counted but not stored,
// and unparsable timestamps or counters null out just that field.
func (ing *Ingester) IngestFile(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	var res Result

	data, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("failed to read %s: %w", path, err)
	}
	records, err := decodeRecords(data)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	tx, err := ing.store.BeginImport(ctx)
	if err != nil {
		return res, err
	}
	defer tx.Rollback()

	for _, rec := range records {
		res.Seen++
		inserted, err := ing.ingestRecord(ctx, tx, rec)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", path, err)
		}
		if inserted {
			res.Inserted++
		}
	}

	fi, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := tx.MarkImported(ctx, path, fi.Size(), unixSeconds(fi.ModTime())); err != nil {
		return Result{}, err
	}
	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("failed to commit %s: %w", path, err)
	}

	metrics.RecordsSeen.Add(float64(res.Seen))
	metrics.TweetsInserted.Add(float64(res.Inserted))
	metrics.FilesImported.Inc()
	metrics.ObserveImportDuration(start)
	if ing.logger != nil {
		ing.logger.Debug("file ingested",
			zap.String("path", path),
			zap.Int("seen", res.Seen),
			zap.Int("inserted", res.Inserted),
			zap.Duration("took", time.Since(start)))
	}
	return res, nil
}

// ingestRecord stores one source record. Returns false without error when the
// record is skipped (blank id, already stored, or lost an insert race).
func (ing *Ingester) ingestRecord(ctx context.Context, tx *storage.ImportTx, rec map[string]any) (bool, error) {
	id := strings.TrimSpace(coerceString(rec["id"]))
	if id == "" {
		return false, nil
	}

	exists, err := tx.TweetExists(ctx, id)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	tw := &models.Tweet{
		ID:              id,
		CreatedAtRaw:    coerceString(rec["created_at"]),
		FullText:        coerceString(rec["full_text"]),
		ScreenName:      coerceString(rec["screen_name"]),
		Name:            coerceString(rec["name"]),
		ProfileImageURL: coerceString(rec["profile_image_url"]),
		TweetURL:        coerceString(rec["url"]),
		FavoriteCount:   coerceInt(rec["favorite_count"]),
		RetweetCount:    coerceInt(rec["retweet_count"]),
		BookmarkCount:   coerceInt(rec["bookmark_count"]),
		QuoteCount:      coerceInt(rec["quote_count"]),
		ReplyCount:      coerceInt(rec["reply_count"]),
		ViewsCount:      coerceInt(rec["views_count"]),
	}
	if tw.CreatedAtRaw != "" {
		tw.CreatedAtUTC = normalizeTimestamp(tw.CreatedAtRaw)
	}
	if v, ok := rec["in_reply_to"]; ok && v != nil {
		s := coerceString(v)
		tw.InReplyTo = &s
	}

	mediaList, _ := rec["media"].([]any)
	tw.HasMedia = len(mediaList) > 0

	if ing.mediaDir != "" && tw.ProfileImageURL != "" {
		if name, ok := mediafs.Resolve(ing.mediaDir, tw.ProfileImageURL); ok {
			tw.ProfileImageFile = &name
		}
	}

	err = tx.InsertTweet(ctx, tw)
	if err == storage.ErrDuplicateTweet {
		// A concurrent writer got there first. Same outcome as the dedup
		// check, so not an error.
		return false, nil
	}
	if err != nil {
		return false, err
	}

	for i, entry := range mediaList {
		m, _ := entry.(map[string]any)
		item := &models.MediaItem{
			TweetID:      id,
			Index:        i,
			Type:         coerceString(m["type"]),
			URL:          coerceString(m["url"]),
			ThumbnailURL: coerceString(m["thumbnail"]),
			OriginalURL:  coerceString(m["original"]),
		}
		if ing.mediaDir != "" {
			// Highest quality first: original, then thumbnail, then primary.
			if name, ok := mediafs.ResolveFirst(ing.mediaDir, item.OriginalURL, item.ThumbnailURL, item.URL); ok {
				item.LocalFile = &name
			}
		}
		if err := tx.UpsertMedia(ctx, item); err != nil {
			return false, err
		}
	}
	return true, nil
}

// decodeRecords parses the export file body. Numbers stay json.Number so id
// values and large counters survive without float64 rounding.
func decodeRecords(data []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, errors.New("root must be a JSON array of objects")
	}
	return records, nil
}

// coerceString renders a JSON value as a string. Numeric ids keep their
// literal form; null and absent values become "".
func coerceString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// coerceInt parses a JSON value as an integer counter. Fractional numeric
// values truncate; anything unparsable becomes nil.
func coerceInt(v any) *int64 {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return &n
		}
		if f, err := x.Float64(); err == nil {
			n := int64(f)
			return &n
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil {
			return &n
		}
	}
	return nil
}

// timestampLayouts are the accepted source timestamp forms, with and without
// zone, fractional seconds, and the space separator some exporters emit.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// normalizeTimestamp converts a raw creation timestamp to RFC 3339 UTC.
// Zoneless inputs are assumed UTC. Returns nil when nothing parses; the
// caller keeps the raw string either way.
func normalizeTimestamp(raw string) *string {
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		s := t.UTC().Format(time.RFC3339Nano)
		return &s
	}
	return nil
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
