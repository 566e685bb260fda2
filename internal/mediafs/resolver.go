// Package mediafs maps remote media URLs to files already cached in a local
// media directory. Resolution is deterministic and does no network access;
// the only side channel is filesystem existence checks.
package mediafs

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// extensionGuesses is the fixed priority order tried when a URL carries no
// extension. Order matters: most likely real extensions first, not alphabetical.
var extensionGuesses = []string{"jpg", "jpeg", "png", "gif", "webp", "mp4", "mov", "m4a", "mp3"}

// Candidates returns the ordered local-filename candidates for rawURL.
// The last path segment is the base name. A base that already contains a dot
// is assumed to carry its extension and is the only candidate. Otherwise the
// bare base comes first, then base.<format> when the URL has a format query
// parameter, then the fixed extension guesses. Returns nil when the URL has
// no usable last segment.
func Candidates(rawURL string) []string {
	if rawURL == "" {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	base := strings.TrimSpace(path.Base(u.Path))
	if base == "" || base == "." || base == "/" {
		return nil
	}

	candidates := []string{base}
	if !strings.Contains(base, ".") {
		if format := strings.ToLower(u.Query().Get("format")); format != "" {
			candidates = append(candidates, base+"."+format)
		}
		for _, ext := range extensionGuesses {
			candidates = append(candidates, base+"."+ext)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Resolve returns the first candidate for rawURL that exists as a file under
// mediaDir, and whether one was found.
func Resolve(mediaDir, rawURL string) (string, bool) {
	for _, c := range Candidates(rawURL) {
		if info, err := os.Stat(filepath.Join(mediaDir, c)); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}

// ResolveFirst tries each URL in order and returns the first resolution that
// hits an existing local file. For attached media the caller passes the
// original-quality URL, then the thumbnail, then the primary URL, so the
// highest-quality cached copy wins.
func ResolveFirst(mediaDir string, urls ...string) (string, bool) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if name, ok := Resolve(mediaDir, u); ok {
			return name, true
		}
	}
	return "", false
}
