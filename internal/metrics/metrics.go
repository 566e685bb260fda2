// Package metrics exposes Prometheus instrumentation for ingestion and search.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecordsSeen = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shiori_records_seen_total",
		Help: "Total source records read across all imports",
	})
	TweetsInserted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shiori_tweets_inserted_total",
		Help: "Total newly inserted tweets",
	})
	FilesImported = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shiori_files_imported_total",
		Help: "Total source files ingested",
	})
	FilesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shiori_files_skipped_total",
		Help: "Total source files skipped by fingerprint",
	})
	ImportDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shiori_import_duration_seconds",
		Help:    "Per-file import duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	Searches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shiori_searches_total",
		Help: "Total searches served, by mode",
	}, []string{"mode"})
)

func init() {
	prometheus.MustRegister(RecordsSeen, TweetsInserted, FilesImported, FilesSkipped, ImportDuration, Searches)
}

// ObserveImportDuration records one file's import duration.
func ObserveImportDuration(start time.Time) {
	ImportDuration.Observe(time.Since(start).Seconds())
}

// IncSearch increments the search counter for a mode.
func IncSearch(mode string) { Searches.WithLabelValues(mode).Inc() }
