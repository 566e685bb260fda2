package ingest

import (
	"context"
	"math"
	"os"

	"github.com/hazuki/shiori/internal/storage"
)

// fingerprintEpsilon is the mtime tolerance in seconds. It absorbs
// filesystem timestamp truncation across copies, not semantic change.
const fingerprintEpsilon = 1e-6

// Tracker answers whether a source file changed since its last import,
// using the stored (size, mtime) fingerprint.
type Tracker struct {
	store *storage.Store
}

// NewTracker creates a tracker reading fingerprints from store.
func NewTracker(store *storage.Store) *Tracker {
	return &Tracker{store: store}
}

// ShouldSkip reports whether path was already imported with its current size
// and modification time. A file with no fingerprint is never skipped.
func (tr *Tracker) ShouldSkip(ctx context.Context, path string) (bool, error) {
	rec, err := tr.store.ImportFingerprint(ctx, path)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return rec.FileSize == fi.Size() &&
		math.Abs(rec.FileMtime-unixSeconds(fi.ModTime())) < fingerprintEpsilon, nil
}
