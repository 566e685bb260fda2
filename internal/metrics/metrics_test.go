package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestMetricsExposure(t *testing.T) {
	RecordsSeen.Inc()
	TweetsInserted.Inc()
	FilesImported.Inc()
	FilesSkipped.Inc()
	IncSearch("ranked")
	IncSearch("substring")
	ObserveImportDuration(time.Now().Add(-200 * time.Millisecond))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rec.Code)
	}
	body := rec.Body.String()
	for _, m := range []string{
		"shiori_records_seen_total",
		"shiori_tweets_inserted_total",
		"shiori_files_imported_total",
		"shiori_files_skipped_total",
		"shiori_import_duration_seconds",
		"shiori_searches_total",
	} {
		if !strings.Contains(body, m) {
			t.Fatalf("expected metric %s in body", m)
		}
	}
}
