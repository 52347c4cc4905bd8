// Package subtitle selects subtitle tracks and manages secure temp
// files for players that need them on disk.
package subtitle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"zender/internal/httputil"
	"zender/internal/media"
)

// Select returns the tracks published under a language tag, matched
// case-insensitively. Nil when the video carries none for it.
func Select(subtitles map[string][]media.Subtitle, language string) []media.Subtitle {
	if language == "" {
		return nil
	}
	want := strings.ToLower(language)
	for lang, tracks := range subtitles {
		if strings.ToLower(lang) == want {
			return tracks
		}
	}
	return nil
}

// First returns the first track for the language, or nil.
func First(subtitles map[string][]media.Subtitle, language string) *media.Subtitle {
	tracks := Select(subtitles, language)
	if len(tracks) == 0 {
		return nil
	}
	return &tracks[0]
}

// TempDir manages a randomized temporary directory for subtitle files.
type TempDir struct {
	path string
}

// NewTempDir creates the directory.
func NewTempDir() (*TempDir, error) {
	dir, err := os.MkdirTemp("", "zender-subs-*")
	if err != nil {
		return nil, fmt.Errorf("creating subtitle temp dir: %w", err)
	}
	return &TempDir{path: dir}, nil
}

// Cleanup removes the directory and all contents.
func (t *TempDir) Cleanup() {
	if t.path != "" {
		os.RemoveAll(t.path)
	}
}

// Download fetches a subtitle file into the temp directory and returns
// the local path. The shared client is used so gated tracks get the
// session cookies.
func (t *TempDir) Download(client *httputil.Client, sub media.Subtitle) (string, error) {
	if err := httputil.ValidateURL(sub.URL); err != nil {
		return "", fmt.Errorf("invalid subtitle URL: %w", err)
	}

	filename := "subtitle.vtt"
	if parts := strings.Split(sub.URL, "/"); len(parts) > 0 {
		last := parts[len(parts)-1]
		if idx := strings.Index(last, "?"); idx != -1 {
			last = last[:idx]
		}
		if last != "" {
			filename = httputil.SanitizeFilename(last)
		}
	}
	localPath := filepath.Join(t.path, filename)

	body, err := client.GetString(sub.URL)
	if err != nil {
		return "", fmt.Errorf("downloading subtitle: %w", err)
	}

	f, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("creating subtitle file: %w", err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, body); err != nil {
		return "", fmt.Errorf("writing subtitle file: %w", err)
	}

	return localPath, nil
}
