package ingest

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hazuki/shiori/internal/metrics"
)

// RunResult summarizes one ingestion run over a set of files.
type RunResult struct {
	Files        int // files processed
	SkippedFiles int // files skipped by fingerprint
	Seen         int
	Inserted     int
}

// Run ingests paths in order. In incremental mode, files whose fingerprint is
// unchanged are skipped entirely. A missing file is fatal for the run; files
// already committed stay committed, since each file has its own transaction.
func (ing *Ingester) Run(ctx context.Context, paths []string, incremental bool) (RunResult, error) {
	tracker := NewTracker(ing.store)
	var run RunResult
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return run, fmt.Errorf("source file not found: %s", path)
		}
		if incremental {
			skip, err := tracker.ShouldSkip(ctx, path)
			if err != nil {
				return run, err
			}
			if skip {
				run.SkippedFiles++
				metrics.FilesSkipped.Inc()
				if ing.logger != nil {
					ing.logger.Debug("file unchanged, skipping", zap.String("path", path))
				}
				continue
			}
		}
		res, err := ing.IngestFile(ctx, path)
		if err != nil {
			return run, err
		}
		run.Files++
		run.Seen += res.Seen
		run.Inserted += res.Inserted
	}
	return run, nil
}
