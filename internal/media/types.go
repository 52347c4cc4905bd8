// Package media defines shared types for the zender application.
package media

import (
	"fmt"
	"time"
)

// Format is one playable stream variant of a video.
type Format struct {
	ID         string `json:"format_id"`            // e.g. "HLS-1548", "MPEG_DASH-900", or an opaque type tag
	URL        string `json:"url"`                  // resolved manifest or media URL
	Ext        string `json:"ext,omitempty"`        // container hint, e.g. "mp4"
	Protocol   string `json:"protocol,omitempty"`   // "HLS", "MPEG_DASH", "HDS", or "" for direct URLs
	Preference int    `json:"preference,omitempty"` // explicit ranking hint, higher wins
	Bitrate    int    `json:"bitrate,omitempty"`    // kbit/s
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
}

// Resolution returns "WxH" or "" when dimensions are unknown.
func (f Format) Resolution() string {
	if f.Width == 0 && f.Height == 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", f.Width, f.Height)
}

// Subtitle is a single subtitle track reference.
type Subtitle struct {
	URL string `json:"url"`
	Ext string `json:"ext,omitempty"` // e.g. "vtt"
}

// Video is the normalized extraction result for a single video page.
// It is constructed once by a site recipe and not mutated afterwards.
type Video struct {
	ID            string                `json:"id"`
	DisplayID     string                `json:"display_id,omitempty"`
	Title         string                `json:"title"`
	Description   string                `json:"description,omitempty"`
	Thumbnail     string                `json:"thumbnail,omitempty"`
	Duration      float64               `json:"duration,omitempty"` // seconds
	Formats       []Format              `json:"formats"`
	Subtitles     map[string][]Subtitle `json:"subtitles,omitempty"` // language tag -> tracks
	Series        string                `json:"series,omitempty"`
	Season        string                `json:"season,omitempty"`        // raw season label
	SeasonNumber  int                   `json:"season_number,omitempty"` // 0 when absent
	EpisodeNumber int                   `json:"episode_number,omitempty"`
	ReleaseDate   string                `json:"release_date,omitempty"` // ISO-8601 date
	Tags          []string              `json:"tags,omitempty"`
}

// BestFormat returns the first format, which the resolver guarantees to be
// the preferred one, or nil when the list is empty.
func (v *Video) BestFormat() *Format {
	if len(v.Formats) == 0 {
		return nil
	}
	return &v.Formats[0]
}

// Entry is one video reference discovered on a listing page.
type Entry struct {
	URL  string `json:"url"`
	Site string `json:"site,omitempty"`
}

// Listing is the aggregated result of walking a program's video pages.
type Listing struct {
	PlaylistID string  `json:"playlist_id"`
	Entries    []Entry `json:"entries"`
}

// HistoryEntry is a single row of the watch history.
type HistoryEntry struct {
	ID        string    `json:"id"`                 // video id (e.g. mediazone asset id)
	Site      string    `json:"site"`               // descriptor name, e.g. "canvas"
	Title     string    `json:"title"`              // display title
	URL       string    `json:"url"`                // original page URL, used for resuming
	Position  float64   `json:"position,omitempty"` // last playback position in seconds
	Duration  float64   `json:"duration,omitempty"` // total duration in seconds
	WatchedAt time.Time `json:"watched_at"`         // last playback time
}
