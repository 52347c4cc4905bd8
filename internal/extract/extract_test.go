package extract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"zender/internal/media"
)

type fakeFetcher map[string]string

func (f fakeFetcher) GetString(rawURL string) (string, error) {
	body, ok := f[rawURL]
	if !ok {
		return "", fmt.Errorf("no fixture for %s", rawURL)
	}
	return body, nil
}

const masterPlaylist = `#EXTM3U
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=832000,RESOLUTION=640x360,CODECS="avc1.4d401e,mp4a.40.2"
stream_0/index.m3u8
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=1548000,RESOLUTION=1280x720,CODECS="avc1.4d401f,mp4a.40.2"
stream_1/index.m3u8
`

func TestResolveSoftFailsBrokenManifest(t *testing.T) {
	fetch := fakeFetcher{
		"https://cdn.example.be/vod/master.m3u8":  masterPlaylist,
		"https://cdn.example.be/vod/manifest.mpd": "<html>not a manifest</html>",
	}
	r := NewResolver(fetch, zerolog.Nop())

	formats, err := r.Resolve([]Target{
		{URL: "https://cdn.example.be/vod/master.m3u8", Type: "HLS"},
		{URL: "https://cdn.example.be/vod/manifest.mpd", Type: "MPEG_DASH"},
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(formats) < 1 {
		t.Fatal("expected at least one format from the healthy manifest")
	}
	for _, f := range formats {
		if f.Protocol != "HLS" {
			t.Errorf("unexpected %s format %s from broken manifest", f.Protocol, f.ID)
		}
	}
	if formats[0].ID != "HLS-1548" {
		t.Errorf("best format = %s, want HLS-1548", formats[0].ID)
	}
}

func TestResolveEmptyInput(t *testing.T) {
	r := NewResolver(fakeFetcher{}, zerolog.Nop())
	_, err := r.Resolve(nil)
	if !errors.Is(err, ErrNoPlayableFormats) {
		t.Fatalf("Resolve(nil) error = %v, want ErrNoPlayableFormats", err)
	}
}

func TestResolveDropsIncompleteTargets(t *testing.T) {
	r := NewResolver(fakeFetcher{}, zerolog.Nop())
	_, err := r.Resolve([]Target{
		{URL: "https://cdn.example.be/master.m3u8"}, // no type
		{Type: "HLS"},                               // no URL
	})
	if !errors.Is(err, ErrNoPlayableFormats) {
		t.Fatalf("error = %v, want ErrNoPlayableFormats", err)
	}
}

func TestResolveOpaqueTarget(t *testing.T) {
	r := NewResolver(fakeFetcher{}, zerolog.Nop())
	formats, err := r.Resolve([]Target{
		{URL: "https://cdn.example.be/video.mp4", Type: "PROGRESSIVE_DOWNLOAD"},
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(formats) != 1 {
		t.Fatalf("got %d formats, want 1", len(formats))
	}
	if formats[0].ID != "PROGRESSIVE_DOWNLOAD" {
		t.Errorf("format id = %q, want the type tag", formats[0].ID)
	}
	if formats[0].URL != "https://cdn.example.be/video.mp4" {
		t.Errorf("format URL = %q, want the target URL unchanged", formats[0].URL)
	}
}

func TestSortOrdering(t *testing.T) {
	formats := []media.Format{
		{ID: "direct"},
		{ID: "HDS-1000", Protocol: "HDS", Bitrate: 1000},
		{ID: "HLS-832", Protocol: "HLS", Bitrate: 832},
		{ID: "HLS-1548", Protocol: "HLS", Bitrate: 1548},
		{ID: "MPEG_DASH-900", Protocol: "MPEG_DASH", Bitrate: 900},
	}
	Sort(formats)

	want := []string{"HLS-1548", "MPEG_DASH-900", "HLS-832", "HDS-1000", "direct"}
	for i, id := range want {
		if formats[i].ID != id {
			t.Errorf("formats[%d] = %s, want %s", i, formats[i].ID, id)
		}
	}
}

func TestSortStableOnTies(t *testing.T) {
	formats := []media.Format{
		{ID: "first", Protocol: "HLS", Bitrate: 800},
		{ID: "second", Protocol: "HLS", Bitrate: 800},
	}
	Sort(formats)
	if formats[0].ID != "first" || formats[1].ID != "second" {
		t.Errorf("tie broke discovery order: %s, %s", formats[0].ID, formats[1].ID)
	}
}

func TestSortPreferenceBeatsBitrate(t *testing.T) {
	formats := []media.Format{
		{ID: "HLS-1548", Protocol: "HLS", Bitrate: 1548},
		{ID: "HLS-832", Protocol: "HLS", Bitrate: 832, Preference: 1},
	}
	Sort(formats)
	if formats[0].ID != "HLS-832" {
		t.Errorf("best = %s, want the explicitly preferred HLS-832", formats[0].ID)
	}
}
