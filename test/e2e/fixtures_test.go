package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteExportFileAndSplit(t *testing.T) {
	dir := t.TempDir()
	corpus := BuildCorpus()
	chunks := SplitRecords(corpus.ToRecords(), 3)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	total := 0
	for i, chunk := range chunks {
		path, err := WriteExportFile(dir, fmt.Sprintf("bookmarks_%d.json", i), chunk)
		if err != nil {
			t.Fatal(err)
		}
		body, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		var records []map[string]interface{}
		if err := json.Unmarshal(body, &records); err != nil {
			t.Fatalf("chunk %d is not a JSON array: %v", i, err)
		}
		total += len(records)
	}
	if total != corpus.TotalTweets {
		t.Errorf("chunks hold %d records, want %d", total, corpus.TotalTweets)
	}
}

func TestWriteMediaFixtures(t *testing.T) {
	dir := t.TempDir()
	corpus := BuildCorpus()
	mediaDir, names, err := WriteMediaFixtures(dir, corpus)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) == 0 {
		t.Fatal("no media fixtures written")
	}
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(mediaDir, name)); err != nil {
			t.Errorf("fixture %s missing: %v", name, err)
		}
	}
}
