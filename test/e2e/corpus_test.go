package e2e

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBuildCorpus_invariants(t *testing.T) {
	corpus := BuildCorpus()
	if corpus.TotalTweets != len(corpus.Tweets) || corpus.TotalQueries != len(corpus.TestCases) {
		t.Fatalf("corpus totals out of sync: %d/%d tweets, %d/%d queries",
			corpus.TotalTweets, len(corpus.Tweets), corpus.TotalQueries, len(corpus.TestCases))
	}

	seen := make(map[string]bool)
	for _, tw := range corpus.Tweets {
		if tw.ID == "" {
			t.Error("tweet with empty id")
		}
		if seen[tw.ID] {
			t.Errorf("duplicate tweet id %s", tw.ID)
		}
		seen[tw.ID] = true
	}
}

func TestBuildCorpus_queriesMatchUnderSubstringFallback(t *testing.T) {
	corpus := BuildCorpus()
	byID := make(map[string]E2ETweet)
	for _, tw := range corpus.Tweets {
		byID[tw.ID] = tw
	}
	for _, tc := range corpus.TestCases {
		if tc.Query == "" {
			t.Errorf("test case %q: empty query", tc.Description)
		}
		if len(tc.ExpectedTweetIDs) == 0 {
			t.Errorf("test case %q has no expected tweets", tc.Description)
			continue
		}
		// Every query must be a literal substring of at least one expected
		// tweet's text so the case passes when ranked search is unavailable.
		matched := false
		for _, id := range tc.ExpectedTweetIDs {
			tw, ok := byID[id]
			if !ok {
				t.Errorf("test case %q expects unknown tweet %s", tc.Description, id)
				continue
			}
			if strings.Contains(strings.ToLower(tw.FullText), strings.ToLower(tc.Query)) {
				matched = true
			}
		}
		if !matched {
			t.Errorf("test case %q: query is not a substring of any expected tweet", tc.Description)
		}
	}
}

func TestToRecords_exportShape(t *testing.T) {
	corpus := BuildCorpus()
	records := corpus.ToRecords()
	if len(records) != corpus.TotalTweets {
		t.Fatalf("got %d records, want %d", len(records), corpus.TotalTweets)
	}

	body, err := ExportJSON(records)
	if err != nil {
		t.Fatal(err)
	}
	var roundTrip []map[string]interface{}
	if err := json.Unmarshal(body, &roundTrip); err != nil {
		t.Fatalf("export body is not a JSON array: %v", err)
	}
	if len(roundTrip) != len(records) {
		t.Errorf("round trip lost records: %d vs %d", len(roundTrip), len(records))
	}
	for _, rec := range roundTrip[:3] {
		for _, key := range []string{"id", "full_text", "screen_name", "created_at"} {
			if _, ok := rec[key]; !ok {
				t.Errorf("record missing %q: %v", key, rec)
			}
		}
	}
}
