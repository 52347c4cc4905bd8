package provider

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVrtNUExtraction(t *testing.T) {
	const (
		mzid     = "md-ast-01e7d193-63ab-4d89-9ab1-96b23315ebec_1489574042173"
		pagePath = "/vrtnu/a-z/trapped/1/trapped-s1a4/"
	)

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc(pagePath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, loadFixture(t, "vrtnu_episode.html"))
	})
	mux.HandleFunc("/vrtnu/a-z/trapped/1/trapped-s1a4.securevideo.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"885731": {"videoid": "885731", "mzid": "%s"}}`, mzid)
	})
	mux.HandleFunc("/api/v1/vrtvideo/assets/"+mzid, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"duration": 3011170,
			"posterImageUrl": "https://images.vrt.be/orig/2017/03/15/trapped.jpg",
			"targetUrls": [{"type": "HLS", "url": "%s/vod/trapped.m3u8"}]
		}`, srv.URL)
	})
	mux.HandleFunc("/vod/trapped.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, canvasMaster)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	e := newTestExtractor(t, srv, Options{})
	video, err := runVrtNU(e, Request{
		URL:       srv.URL + pagePath,
		Site:      "vrtnu",
		DisplayID: "trapped-s1a4",
		Page:      -1,
	})
	if err != nil {
		t.Fatalf("runVrtNU: %v", err)
	}

	if video.ID != mzid {
		t.Errorf("id = %q, want %q", video.ID, mzid)
	}
	if video.Title != "Trapped" {
		t.Errorf("title = %q", video.Title)
	}
	if video.Description != "Andri werkt als politiechef in een afgelegen stadje in IJsland." {
		t.Errorf("description = %q", video.Description)
	}
	if video.Season != "1" || video.SeasonNumber != 1 {
		t.Errorf("season = %q/%d, want 1/1", video.Season, video.SeasonNumber)
	}
	if video.EpisodeNumber != 4 {
		t.Errorf("episode = %d, want 4", video.EpisodeNumber)
	}
	if video.ReleaseDate != "2017-03-15" {
		t.Errorf("release date = %q, want 2017-03-15", video.ReleaseDate)
	}
	if video.Duration != 3011.17 {
		t.Errorf("duration = %v, want 3011.17", video.Duration)
	}
	if len(video.Formats) != 2 {
		t.Errorf("got %d formats, want 2", len(video.Formats))
	}
}

func TestFetchMzidCleansPageURL(t *testing.T) {
	var askedPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		askedPath = r.URL.Path
		fmt.Fprint(w, `{"1": {"mzid": "md-ast-123"}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	e := newTestExtractor(t, srv, Options{})
	mzid, err := e.fetchMzid(srv.URL + "/vrtnu/a-z/trapped/1/trapped-s1a4/?session=1#player")
	if err != nil {
		t.Fatalf("fetchMzid: %v", err)
	}
	if mzid != "md-ast-123" {
		t.Errorf("mzid = %q", mzid)
	}
	if askedPath != "/vrtnu/a-z/trapped/1/trapped-s1a4.securevideo.json" {
		t.Errorf("descriptor path = %q, query and fragment must be stripped", askedPath)
	}
}
