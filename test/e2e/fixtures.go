// Package e2e provides end-to-end tests; this file writes export and media fixtures.
package e2e

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteExportFile writes records as a bookmark export JSON file under dir.
// Returns the written path.
func WriteExportFile(dir, name string, records []map[string]interface{}) (string, error) {
	body, err := ExportJSON(records)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// SplitRecords splits records into n roughly equal slices, preserving order.
// Exports in the wild arrive as several files; ingestion must behave the same
// whether the corpus is one file or many.
func SplitRecords(records []map[string]interface{}, n int) [][]map[string]interface{} {
	if n < 1 {
		n = 1
	}
	chunks := make([][]map[string]interface{}, 0, n)
	size := (len(records) + n - 1) / n
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}

// WriteMediaFixtures creates a media cache directory populated with files
// matching each corpus media URL's base name, so ingestion resolves them to
// local files. Returns the media directory path and the created file names.
func WriteMediaFixtures(dir string, corpus *Corpus) (string, []string, error) {
	mediaDir := filepath.Join(dir, "tweet_back")
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return "", nil, err
	}
	var names []string
	for _, tw := range corpus.Tweets {
		for _, m := range tw.Media {
			name := filepath.Base(m.URL)
			path := filepath.Join(mediaDir, name)
			content := fmt.Sprintf("fixture bytes for %s", name)
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return "", nil, err
			}
			names = append(names, name)
		}
	}
	return mediaDir, names, nil
}
