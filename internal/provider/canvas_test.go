package provider

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const canvasMaster = `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=832000,RESOLUTION=640x360,CODECS="avc1.4d401e,mp4a.40.2"
stream_0/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=1548000,RESOLUTION=1280x720,CODECS="avc1.4d401f,mp4a.40.2"
stream_1/index.m3u8
`

func TestCanvasExtraction(t *testing.T) {
	const (
		assetID  = "mz-ast-5e5f90b6-2d72-4c40-82c2-e134f884e93e"
		pagePath = "/video/de-afspraak/najaar-2015/de-afspraak-veilt-voor-de-warmste-week"
	)

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc(pagePath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, loadFixture(t, "canvas_video.html"))
	})
	mux.HandleFunc("/api/v1/canvas/assets/"+assetID, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"duration": 49020,
			"posterImageUrl": "https://images.vrt.be/orig/2015/12/10/poster.jpg",
			"targetUrls": [
				{"type": "HLS", "url": "%s/vod/master.m3u8"},
				{"type": "MPEG_DASH", "url": "%s/vod/broken.mpd"},
				{"type": "PROGRESSIVE_DOWNLOAD", "url": "https://cdn.canvas.be/vod/afspraak.mp4"}
			],
			"subtitleUrls": [
				{"type": "CLOSED", "url": "https://static.vrt.be/subs/afspraak-nl.vtt"},
				{"type": "OPEN", "url": "https://static.vrt.be/subs/afspraak-open.vtt"}
			]
		}`, srv.URL, srv.URL)
	})
	mux.HandleFunc("/vod/master.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, canvasMaster)
	})
	mux.HandleFunc("/vod/broken.mpd", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "tijdelijk niet beschikbaar")
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	e := newTestExtractor(t, srv, Options{})
	video, err := runCanvas(e, Request{
		URL:       srv.URL + pagePath,
		Site:      "canvas",
		SiteID:    "canvas",
		DisplayID: "de-afspraak-veilt-voor-de-warmste-week",
		Page:      -1,
	})
	if err != nil {
		t.Fatalf("runCanvas: %v", err)
	}

	if video.ID != assetID {
		t.Errorf("id = %q, want %q", video.ID, assetID)
	}
	if video.DisplayID != "de-afspraak-veilt-voor-de-warmste-week" {
		t.Errorf("display id = %q", video.DisplayID)
	}
	if video.Title != "De afspraak veilt voor de Warmste Week" {
		t.Errorf("title = %q", video.Title)
	}
	if video.Description != "De Afspraak veilt een uniek kunstwerk voor de Warmste Week." {
		t.Errorf("description = %q", video.Description)
	}
	if video.Duration != 49.02 {
		t.Errorf("duration = %v, want 49.02", video.Duration)
	}
	if video.Thumbnail != "https://images.vrt.be/orig/2015/12/10/poster.jpg" {
		t.Errorf("thumbnail = %q", video.Thumbnail)
	}

	// The broken DASH manifest is skipped; both HLS variants and the
	// opaque target survive, best first.
	if len(video.Formats) != 3 {
		t.Fatalf("got %d formats, want 3", len(video.Formats))
	}
	if video.Formats[0].ID != "HLS-1548" {
		t.Errorf("best format = %q, want HLS-1548", video.Formats[0].ID)
	}
	if video.Formats[2].ID != "PROGRESSIVE_DOWNLOAD" {
		t.Errorf("last format = %q, want the opaque target", video.Formats[2].ID)
	}
	if best := video.BestFormat(); best == nil || best.Height != 720 {
		t.Errorf("best format height = %+v, want 720", best)
	}

	subs := video.Subtitles["nl"]
	if len(subs) != 1 || subs[0].URL != "https://static.vrt.be/subs/afspraak-nl.vtt" {
		t.Errorf("subtitles = %+v, want the single closed track", subs)
	}
}

func TestCanvasMissingVideoID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta property="og:title" content="Geen video hier"></head><body><p>programmapagina</p></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	e := newTestExtractor(t, srv, Options{})
	_, err := runCanvas(e, Request{URL: srv.URL + "/de-afspraak", SiteID: "canvas", DisplayID: "de-afspraak", Page: -1})
	if !errors.Is(err, ErrRequiredField) {
		t.Fatalf("err = %v, want ErrRequiredField", err)
	}
}
