// Package storage provides the SQLite store for tweets, media items, and
// import fingerprints, plus the shadow full-text index kept in sync with the
// tweets table.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/hazuki/shiori/internal/models"
)

// ErrDuplicateTweet is returned by InsertTweet when a row with the same id
// already exists. Callers treat it as an ordinary dedup skip: it only occurs
// when a concurrent writer inserted the id between the existence check and
// the insert.
var ErrDuplicateTweet = errors.New("tweet id already exists")

// Store is the SQLite-backed store. One Store owns one database handle;
// components receive it explicitly, there is no process-wide singleton.
type Store struct {
	db     *sql.DB
	path   string
	shadow ShadowWriter
	ranked bool
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS tweets (
	id TEXT PRIMARY KEY,
	created_at_utc TEXT,
	created_at_raw TEXT,
	full_text TEXT,
	screen_name TEXT,
	name TEXT,
	profile_image_url TEXT,
	profile_image_file TEXT,
	tweet_url TEXT,
	favorite_count INTEGER,
	retweet_count INTEGER,
	bookmark_count INTEGER,
	quote_count INTEGER,
	reply_count INTEGER,
	views_count INTEGER,
	in_reply_to TEXT,
	has_media INTEGER
);

CREATE TABLE IF NOT EXISTS media (
	tweet_id TEXT,
	idx INTEGER,
	type TEXT,
	url TEXT,
	thumbnail_url TEXT,
	original_url TEXT,
	local_file TEXT,
	PRIMARY KEY (tweet_id, idx)
);

CREATE TABLE IF NOT EXISTS imports (
	file_path TEXT PRIMARY KEY,
	file_size INTEGER,
	file_mtime REAL,
	imported_at_utc TEXT
);
`

// Open opens or creates the database at dbPath and initializes the schema.
// Parent directories are created if they do not exist. The store runs in WAL
// mode so a long-lived reader (the query server) and the ingestion writer can
// share the database without starving each other.
//
// FTS5 support is probed at open time; when the linked SQLite lacks it (the
// sqlite_fts5 build tag is off), ranked search is simply unavailable and
// queries fall back to substring matching. The probe result is never fatal.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s := &Store{db: db, path: dbPath, shadow: noopShadow{}}
	if probeFTS5(db) {
		if err := installShadowIndex(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialize shadow index: %w", err)
		}
		s.shadow = ftsShadow{}
		s.ranked = true
	}
	return s, nil
}

// probeFTS5 reports whether the linked SQLite can create FTS5 virtual tables,
// by creating and dropping a throwaway one.
func probeFTS5(db *sql.DB) bool {
	if _, err := db.Exec("CREATE VIRTUAL TABLE IF NOT EXISTS _fts_probe USING fts5(x)"); err != nil {
		return false
	}
	_, _ = db.Exec("DROP TABLE IF EXISTS _fts_probe")
	return true
}

// RankedSearchAvailable reports whether the shadow index exists and ranked
// search can be served.
func (s *Store) RankedSearchAvailable() bool {
	return s.ranked
}

// Path returns the database file path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RemoveDatabase deletes the database file at dbPath along with its WAL
// sidecar files. Used by rebuild mode before the store is opened.
func RemoveDatabase(dbPath string) error {
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

const tweetColumns = `id, created_at_utc, created_at_raw, full_text, screen_name, name,
	profile_image_url, profile_image_file, tweet_url,
	favorite_count, retweet_count, bookmark_count, quote_count, reply_count, views_count,
	in_reply_to, has_media`

// ImportTx is the transactional write surface for ingesting one source file.
// All writes between BeginImport and Commit become durable together; on
// Rollback the file leaves no trace, including its import fingerprint.
type ImportTx struct {
	tx     *sql.Tx
	shadow ShadowWriter
}

// BeginImport starts the per-file ingestion transaction.
func (s *Store) BeginImport(ctx context.Context) (*ImportTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &ImportTx{tx: tx, shadow: s.shadow}, nil
}

// TweetExists reports whether a tweet with the given id is already stored.
func (t *ImportTx) TweetExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := t.tx.QueryRowContext(ctx, `SELECT 1 FROM tweets WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertTweet inserts a tweet row and appends its text fields to the shadow
// index in the same transaction. Returns ErrDuplicateTweet when the id lost
// a race to another writer.
func (t *ImportTx) InsertTweet(ctx context.Context, tw *models.Tweet) error {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO tweets (`+tweetColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		tw.ID, nullString(tw.CreatedAtUTC), tw.CreatedAtRaw, tw.FullText, tw.ScreenName, tw.Name,
		tw.ProfileImageURL, nullString(tw.ProfileImageFile), tw.TweetURL,
		nullInt64(tw.FavoriteCount), nullInt64(tw.RetweetCount), nullInt64(tw.BookmarkCount),
		nullInt64(tw.QuoteCount), nullInt64(tw.ReplyCount), nullInt64(tw.ViewsCount),
		nullString(tw.InReplyTo), boolToInt(tw.HasMedia),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return ErrDuplicateTweet
		}
		return fmt.Errorf("failed to insert tweet %s: %w", tw.ID, err)
	}
	rowid, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read tweet rowid: %w", err)
	}
	if err := t.shadow.Append(ctx, t.tx, rowid, tw.FullText, tw.ScreenName, tw.Name); err != nil {
		return fmt.Errorf("failed to append shadow entry for tweet %s: %w", tw.ID, err)
	}
	return nil
}

// UpsertMedia inserts or replaces a media row keyed by (tweet_id, idx).
func (t *ImportTx) UpsertMedia(ctx context.Context, m *models.MediaItem) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO media (tweet_id, idx, type, url, thumbnail_url, original_url, local_file)
		 VALUES (?,?,?,?,?,?,?)`,
		m.TweetID, m.Index, m.Type, m.URL, m.ThumbnailURL, m.OriginalURL, nullString(m.LocalFile),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert media %s/%d: %w", m.TweetID, m.Index, err)
	}
	return nil
}

// MarkImported overwrites the import fingerprint for path with the given
// size and mtime, stamped with the current UTC time.
func (t *ImportTx) MarkImported(ctx context.Context, path string, size int64, mtime float64) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := t.tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO imports (file_path, file_size, file_mtime, imported_at_utc) VALUES (?,?,?,?)`,
		path, size, mtime, now,
	)
	if err != nil {
		return fmt.Errorf("failed to record import of %s: %w", path, err)
	}
	return nil
}

// Commit commits the import transaction.
func (t *ImportTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the import transaction. Safe to call after Commit.
func (t *ImportTx) Rollback() error {
	err := t.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}

// ImportFingerprint returns the recorded fingerprint for path, if any.
func (s *Store) ImportFingerprint(ctx context.Context, path string) (*models.ImportRecord, error) {
	var rec models.ImportRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT file_path, file_size, file_mtime, imported_at_utc FROM imports WHERE file_path = ?`,
		path,
	).Scan(&rec.FilePath, &rec.FileSize, &rec.FileMtime, &rec.ImportedAtUTC)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Filters are the conjunctive search predicates. Zero values mean "no
// restriction"; min counters only apply when greater than zero and require
// the counter to be non-null.
type Filters struct {
	OnlyMedia    bool
	MinBookmarks int64
	MinFavorites int64
}

// clauses returns the extra WHERE conjuncts (prefixed with " AND ") and
// their bind arguments.
func (f Filters) clauses() (string, []any) {
	var parts []string
	var args []any
	if f.OnlyMedia {
		parts = append(parts, "t.has_media = 1")
	}
	if f.MinBookmarks > 0 {
		parts = append(parts, "(t.bookmark_count IS NOT NULL AND t.bookmark_count >= ?)")
		args = append(args, f.MinBookmarks)
	}
	if f.MinFavorites > 0 {
		parts = append(parts, "(t.favorite_count IS NOT NULL AND t.favorite_count >= ?)")
		args = append(args, f.MinFavorites)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(parts, " AND "), args
}

// SearchRanked runs an FTS5 match against the shadow index joined back to
// tweets, best match first (bm25 scores ascending, lower is better).
// Only valid when RankedSearchAvailable reports true.
func (s *Store) SearchRanked(ctx context.Context, match string, f Filters, limit int) ([]*models.Tweet, error) {
	extra, extraArgs := f.clauses()
	query := `SELECT ` + prefixColumns("t.") + `
		FROM tweets t
		JOIN tweets_fts ON tweets_fts.rowid = t.rowid
		WHERE tweets_fts MATCH ?` + extra + `
		ORDER BY bm25(tweets_fts) ASC
		LIMIT ?`
	args := append([]any{match}, extraArgs...)
	args = append(args, limit)
	return s.queryTweets(ctx, query, args...)
}

// SearchSubstring matches q as a substring of the body text, screen name, or
// display name, most recent first. An empty q matches every row.
func (s *Store) SearchSubstring(ctx context.Context, q string, f Filters, limit int) ([]*models.Tweet, error) {
	like := "%"
	if q != "" {
		like = "%" + q + "%"
	}
	extra, extraArgs := f.clauses()
	query := `SELECT ` + prefixColumns("t.") + `
		FROM tweets t
		WHERE (t.full_text LIKE ? OR t.screen_name LIKE ? OR t.name LIKE ?)` + extra + `
		ORDER BY t.created_at_utc DESC
		LIMIT ?`
	args := append([]any{like, like, like}, extraArgs...)
	args = append(args, limit)
	return s.queryTweets(ctx, query, args...)
}

// GetTweet returns a tweet by id, or nil when absent.
func (s *Store) GetTweet(ctx context.Context, id string) (*models.Tweet, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tweetColumns+` FROM tweets WHERE id = ?`, id)
	tw, err := scanTweet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tw, nil
}

// ListMedia returns a tweet's media items ordered by position.
func (s *Store) ListMedia(ctx context.Context, tweetID string) ([]*models.MediaItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tweet_id, idx, type, url, thumbnail_url, original_url, local_file
		 FROM media WHERE tweet_id = ? ORDER BY idx ASC`,
		tweetID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.MediaItem
	for rows.Next() {
		var m models.MediaItem
		var localFile sql.NullString
		if err := rows.Scan(&m.TweetID, &m.Index, &m.Type, &m.URL, &m.ThumbnailURL, &m.OriginalURL, &localFile); err != nil {
			return nil, err
		}
		if localFile.Valid {
			m.LocalFile = &localFile.String
		}
		items = append(items, &m)
	}
	return items, rows.Err()
}

// DeleteTweet removes a tweet, its media rows, and its shadow entry in one
// transaction. Ingestion never deletes; this is a maintenance operation.
func (s *Store) DeleteTweet(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var rowid int64
	var fullText, screenName, name string
	err = tx.QueryRowContext(ctx,
		`SELECT rowid, full_text, screen_name, name FROM tweets WHERE id = ?`, id,
	).Scan(&rowid, &fullText, &screenName, &name)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.shadow.Remove(ctx, tx, rowid, fullText, screenName, name); err != nil {
		return fmt.Errorf("failed to remove shadow entry for tweet %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM media WHERE tweet_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tweets WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// CountTweets returns the total number of stored tweets.
func (s *Store) CountTweets(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tweets`).Scan(&count)
	return count, err
}

// CountMedia returns the total number of stored media items.
func (s *Store) CountMedia(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&count)
	return count, err
}

// CountImports returns the number of recorded import fingerprints.
func (s *Store) CountImports(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM imports`).Scan(&count)
	return count, err
}

func (s *Store) queryTweets(ctx context.Context, query string, args ...any) ([]*models.Tweet, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tweets []*models.Tweet
	for rows.Next() {
		tw, err := scanTweet(rows)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, tw)
	}
	return tweets, rows.Err()
}

// prefixColumns returns tweetColumns with each column qualified by prefix
// (e.g. "t.") for use in joins.
func prefixColumns(prefix string) string {
	cols := strings.Split(tweetColumns, ",")
	for i, c := range cols {
		cols[i] = prefix + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTweet(row rowScanner) (*models.Tweet, error) {
	var tw models.Tweet
	var createdUTC, profileFile, inReplyTo sql.NullString
	var fav, rt, bm, qt, rp, vw sql.NullInt64
	var hasMedia int
	err := row.Scan(
		&tw.ID, &createdUTC, &tw.CreatedAtRaw, &tw.FullText, &tw.ScreenName, &tw.Name,
		&tw.ProfileImageURL, &profileFile, &tw.TweetURL,
		&fav, &rt, &bm, &qt, &rp, &vw,
		&inReplyTo, &hasMedia,
	)
	if err != nil {
		return nil, err
	}
	tw.CreatedAtUTC = stringPtr(createdUTC)
	tw.ProfileImageFile = stringPtr(profileFile)
	tw.InReplyTo = stringPtr(inReplyTo)
	tw.FavoriteCount = int64Ptr(fav)
	tw.RetweetCount = int64Ptr(rt)
	tw.BookmarkCount = int64Ptr(bm)
	tw.QuoteCount = int64Ptr(qt)
	tw.ReplyCount = int64Ptr(rp)
	tw.ViewsCount = int64Ptr(vw)
	tw.HasMedia = hasMedia != 0
	return &tw, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt64(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
