package storage

import (
	"context"
	"database/sql"
)

// ShadowWriter keeps the derived full-text index in step with the tweets
// table. Every call runs inside the caller's transaction, so at any
// transaction boundary the shadow reflects exactly the stored tweets' text
// fields. This replaces engine-native triggers with explicit calls from the
// write path, keeping the synchronization logic portable across storage
// backends.
type ShadowWriter interface {
	// Append adds the text fields of a newly inserted tweet row.
	Append(ctx context.Context, tx *sql.Tx, rowid int64, fullText, screenName, name string) error
	// Remove drops the entry for a deleted tweet row. FTS5 external-content
	// deletion needs the old column values, so they are passed back in.
	Remove(ctx context.Context, tx *sql.Tx, rowid int64, fullText, screenName, name string) error
	// Replace swaps the entry for an updated tweet row: remove the old
	// values, append the new ones. Replace semantics, not a patch.
	Replace(ctx context.Context, tx *sql.Tx, rowid int64, oldFullText, oldScreenName, oldName, fullText, screenName, name string) error
}

// installShadowIndex creates the FTS5 shadow table over the tweets table's
// text columns. Idempotent.
func installShadowIndex(db *sql.DB) error {
	_, err := db.Exec(`CREATE VIRTUAL TABLE IF NOT EXISTS tweets_fts
		USING fts5(full_text, screen_name, name, content='tweets', content_rowid='rowid')`)
	return err
}

// ftsShadow writes the tweets_fts external-content table.
type ftsShadow struct{}

func (ftsShadow) Append(ctx context.Context, tx *sql.Tx, rowid int64, fullText, screenName, name string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO tweets_fts (rowid, full_text, screen_name, name) VALUES (?,?,?,?)`,
		rowid, fullText, screenName, name,
	)
	return err
}

func (ftsShadow) Remove(ctx context.Context, tx *sql.Tx, rowid int64, fullText, screenName, name string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO tweets_fts (tweets_fts, rowid, full_text, screen_name, name) VALUES ('delete',?,?,?,?)`,
		rowid, fullText, screenName, name,
	)
	return err
}

func (s ftsShadow) Replace(ctx context.Context, tx *sql.Tx, rowid int64, oldFullText, oldScreenName, oldName, fullText, screenName, name string) error {
	if err := s.Remove(ctx, tx, rowid, oldFullText, oldScreenName, oldName); err != nil {
		return err
	}
	return s.Append(ctx, tx, rowid, fullText, screenName, name)
}

// noopShadow is installed when FTS5 is unavailable; the base tables are then
// the only source of truth and search uses the substring fallback.
type noopShadow struct{}

func (noopShadow) Append(ctx context.Context, tx *sql.Tx, rowid int64, fullText, screenName, name string) error {
	return nil
}

func (noopShadow) Remove(ctx context.Context, tx *sql.Tx, rowid int64, fullText, screenName, name string) error {
	return nil
}

func (noopShadow) Replace(ctx context.Context, tx *sql.Tx, rowid int64, oldFullText, oldScreenName, oldName, fullText, screenName, name string) error {
	return nil
}
