package mediafs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCandidates_withExtension(t *testing.T) {
	got := Candidates("https://pbs.example.com/media/AbC123.jpg")
	want := []string{"AbC123.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates = %v, want %v", got, want)
	}
}

func TestCandidates_noExtensionWithFormat(t *testing.T) {
	got := Candidates("https://pbs.example.com/media/AbC123?format=png&name=orig")
	if len(got) == 0 || got[0] != "AbC123" {
		t.Fatalf("first candidate should be bare base, got %v", got)
	}
	if got[1] != "AbC123.png" {
		t.Errorf("format-qualified candidate should come before fixed guesses, got %v", got[1])
	}
	if got[2] != "AbC123.jpg" {
		t.Errorf("fixed guesses should start with jpg, got %v", got[2])
	}
}

func TestCandidates_fixedGuessOrder(t *testing.T) {
	got := Candidates("https://video.example.com/clips/XyZ")
	want := []string{"XyZ", "XyZ.jpg", "XyZ.jpeg", "XyZ.png", "XyZ.gif", "XyZ.webp", "XyZ.mp4", "XyZ.mov", "XyZ.m4a", "XyZ.mp3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates = %v, want %v", got, want)
	}
}

func TestCandidates_formatDuplicatesGuess(t *testing.T) {
	// format=jpg duplicates the first fixed guess; the list must stay deduplicated.
	got := Candidates("https://pbs.example.com/media/AbC?format=jpg")
	seen := map[string]int{}
	for _, c := range got {
		seen[c]++
	}
	if seen["AbC.jpg"] != 1 {
		t.Errorf("AbC.jpg should appear exactly once, got %v", got)
	}
}

func TestCandidates_empty(t *testing.T) {
	for _, u := range []string{"", "https://example.com", "https://example.com/"} {
		if got := Candidates(u); got != nil {
			t.Errorf("Candidates(%q) = %v, want nil", u, got)
		}
	}
}

func TestResolve_prefersEarlierCandidate(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"AbC.png", "AbC.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	// format=png outranks the jpg guess even though both exist.
	name, ok := Resolve(dir, "https://pbs.example.com/media/AbC?format=png")
	if !ok || name != "AbC.png" {
		t.Errorf("Resolve = %q, %v; want AbC.png", name, ok)
	}
}

func TestResolve_bareBaseBeforeFormat(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "AbC"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	name, ok := Resolve(dir, "https://pbs.example.com/media/AbC?format=png")
	if !ok || name != "AbC" {
		t.Errorf("Resolve = %q, %v; want bare AbC", name, ok)
	}
}

func TestResolve_guessOnlyWhenNothingElseExists(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "AbC.webp"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	name, ok := Resolve(dir, "https://pbs.example.com/media/AbC?format=png")
	if !ok || name != "AbC.webp" {
		t.Errorf("Resolve = %q, %v; want AbC.webp", name, ok)
	}
}

func TestResolve_missing(t *testing.T) {
	dir := t.TempDir()
	if _, ok := Resolve(dir, "https://pbs.example.com/media/Missing.jpg"); ok {
		t.Error("Resolve should report absent for missing file")
	}
}

func TestResolve_ignoresDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "AbC.jpg"), 0755); err != nil {
		t.Fatal(err)
	}
	if _, ok := Resolve(dir, "https://pbs.example.com/media/AbC.jpg"); ok {
		t.Error("a directory must not satisfy resolution")
	}
}

func TestResolveFirst_rolePriority(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "thumb.jpg"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "full.mp4"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	// Original-quality URL resolves, so the thumbnail is never consulted.
	name, ok := ResolveFirst(dir,
		"https://video.example.com/full.mp4",
		"https://pbs.example.com/thumb.jpg",
		"https://pbs.example.com/primary.jpg",
	)
	if !ok || name != "full.mp4" {
		t.Errorf("ResolveFirst = %q, %v; want full.mp4", name, ok)
	}

	// With the original missing on disk, the thumbnail wins.
	name, ok = ResolveFirst(dir,
		"https://video.example.com/gone.mp4",
		"https://pbs.example.com/thumb.jpg",
	)
	if !ok || name != "thumb.jpg" {
		t.Errorf("ResolveFirst = %q, %v; want thumb.jpg", name, ok)
	}
}

func TestResolveFirst_skipsEmptyURLs(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "p.jpg"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	name, ok := ResolveFirst(dir, "", "", "https://pbs.example.com/p.jpg")
	if !ok || name != "p.jpg" {
		t.Errorf("ResolveFirst = %q, %v; want p.jpg", name, ok)
	}
}
