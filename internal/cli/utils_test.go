package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/hazuki/shiori/internal/models"
)

func TestWriteSearchResults_JSON(t *testing.T) {
	created := "2024-03-01T12:00:00Z"
	bm := int64(7)
	response := &models.SearchResponse{
		Query:     "test query",
		QueryTime: 42,
		Total:     1,
		Mode:      models.ModeRanked,
		Results: []*models.Tweet{
			{
				ID:            "1001",
				CreatedAtUTC:  &created,
				FullText:      "content here",
				ScreenName:    "alice",
				Name:          "Alice",
				BookmarkCount: &bm,
			},
		},
	}
	var buf bytes.Buffer
	err := WriteSearchResults(&buf, response, OutputJSON)
	if err != nil {
		t.Fatalf("WriteSearchResults(json): %v", err)
	}
	var decoded models.SearchResponse
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Query != response.Query || decoded.QueryTime != response.QueryTime {
		t.Errorf("decoded query=%q query_time=%d, want query=%q query_time=%d",
			decoded.Query, decoded.QueryTime, response.Query, response.QueryTime)
	}
	if decoded.Mode != models.ModeRanked {
		t.Errorf("decoded mode = %q", decoded.Mode)
	}
	if len(decoded.Results) != 1 || decoded.Results[0].ID != "1001" {
		t.Errorf("decoded results: want one tweet with id 1001, got %+v", decoded.Results)
	}
}

func TestWriteSearchResults_JSON_empty(t *testing.T) {
	response := &models.SearchResponse{
		Query:     "q",
		QueryTime: 0,
		Mode:      models.ModeSubstring,
	}
	var buf bytes.Buffer
	err := WriteSearchResults(&buf, response, OutputJSON)
	if err != nil {
		t.Fatalf("WriteSearchResults(json): %v", err)
	}
	var decoded models.SearchResponse
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("empty response JSON decode: %v", err)
	}
	if decoded.Total != 0 {
		t.Errorf("expected zero total, got %d", decoded.Total)
	}
}

func TestWriteSearchResults_text(t *testing.T) {
	created := "2024-03-01T12:00:00Z"
	response := &models.SearchResponse{
		Query:     "foo",
		QueryTime: 10,
		Total:     1,
		Mode:      models.ModeSubstring,
		Results: []*models.Tweet{
			{
				ID:           "id1",
				CreatedAtUTC: &created,
				FullText:     "short content",
				ScreenName:   "alice",
				Name:         "Alice",
				TweetURL:     "https://x.example.com/alice/status/id1",
				HasMedia:     true,
			},
		},
	}
	var buf bytes.Buffer
	err := WriteSearchResults(&buf, response, OutputText)
	if err != nil {
		t.Fatalf("WriteSearchResults(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"Found 1 results", "10ms", "mode: substring", "@alice", "ID: id1", "[media]", "short content", "https://x.example.com/alice/status/id1"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
	// Null counters render as dashes, not zeros.
	if !strings.Contains(out, "bookmarks: -") {
		t.Errorf("null counter should render as -:\n%s", out)
	}
}

func TestWriteSearchResults_unknownFormatTreatedAsText(t *testing.T) {
	response := &models.SearchResponse{Query: "x", QueryTime: 0, Mode: models.ModeSubstring}
	var buf bytes.Buffer
	err := WriteSearchResults(&buf, response, SearchOutputFormat("unknown"))
	if err != nil {
		t.Fatalf("WriteSearchResults(unknown): %v", err)
	}
	if !strings.Contains(buf.String(), "Found") {
		t.Errorf("unknown format should fall back to text; got %q", buf.String())
	}
}

func TestWriteMediaList_text(t *testing.T) {
	local := "clip.mp4"
	items := []*models.MediaItem{
		{TweetID: "1", Index: 0, Type: "photo", URL: "u0", OriginalURL: "https://pbs.example.com/orig.jpg"},
		{TweetID: "1", Index: 1, Type: "video", URL: "u1", LocalFile: &local},
	}
	var buf bytes.Buffer
	if err := WriteMediaList(&buf, "1", items, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, sub := range []string{"[0] photo", "remote: https://pbs.example.com/orig.jpg", "[1] video", "local: clip.mp4"} {
		if !strings.Contains(out, sub) {
			t.Errorf("media output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteMediaList_textEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMediaList(&buf, "42", nil, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No media for tweet 42") {
		t.Errorf("got %q", buf.String())
	}
}

func TestWriteMediaList_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMediaList(&buf, "1", []*models.MediaItem{{TweetID: "1", Index: 0, Type: "photo"}}, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var out struct {
		TweetID string              `json:"tweet_id"`
		Media   []*models.MediaItem `json:"media"`
	}
	if err := json.NewDecoder(&buf).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.TweetID != "1" || len(out.Media) != 1 {
		t.Errorf("decoded: %+v", out)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"empty", "", 5, ""},
		{"short", "hi", 5, "hi"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world", 5, "hello..."},
		{"maxLen zero", "ab", 0, "ab"},
		{"maxLen negative", "ab", -1, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.s, tt.maxLen)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPrintSearchResults(t *testing.T) {
	response := &models.SearchResponse{
		Query:     "print test",
		QueryTime: 1,
		Mode:      models.ModeSubstring,
	}
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = oldStdout
		_ = w.Close()
	}()
	PrintSearchResults(response)
	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	out := buf.String()
	if !strings.Contains(out, "Found 0 results") {
		t.Errorf("PrintSearchResults should write to stdout; got %q", out)
	}
}
