package provider

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"testing"
)

// listingServer serves synthetic listing pages with two video links
// each. Pages below lastPage carry the "Meer" control.
func listingServer(t *testing.T, lastPage int, fetched *[]int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/vier/demoestuin/videos", func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			t.Errorf("listing request without page parameter: %s", r.URL)
			return
		}
		*fetched = append(*fetched, page)

		fmt.Fprintf(w, `<html><body>
			<h2><a href="/demoestuin/videos/clip-%d-a/%d1">Clip A</a></h2>
			<h3><a href="/demoestuin/videos/clip-%d-b/%d2">Clip B</a></h3>
			<h2><a href="/demoestuin/fotos/geen-video">Foto's</a></h2>`,
			page, page, page, page)
		if page < lastPage {
			fmt.Fprint(w, `<button class="pager__load-more">Meer</button>`)
		}
		fmt.Fprint(w, `</body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestListingWalksUntilMarkerGone(t *testing.T) {
	var fetched []int
	srv := listingServer(t, 3, &fetched)

	e := newTestExtractor(t, srv, Options{})
	listing, err := runVierVideos(e, Request{
		Site:    "vier:videos",
		SiteID:  "vier",
		Program: "demoestuin",
		Page:    -1,
	})
	if err != nil {
		t.Fatalf("runVierVideos: %v", err)
	}

	if listing.PlaylistID != "demoestuin" {
		t.Errorf("playlist id = %q, want demoestuin", listing.PlaylistID)
	}
	if want := []int{0, 1, 2, 3}; !reflect.DeepEqual(fetched, want) {
		t.Errorf("fetched pages %v, want %v", fetched, want)
	}
	if len(listing.Entries) != 8 {
		t.Fatalf("got %d entries, want 8 (two per page, photo links skipped)", len(listing.Entries))
	}

	base := srv.URL + "/vier"
	if got := listing.Entries[0].URL; got != base+"/demoestuin/videos/clip-0-a/01" {
		t.Errorf("first entry = %q", got)
	}
	if got := listing.Entries[7].URL; got != base+"/demoestuin/videos/clip-3-b/32" {
		t.Errorf("last entry = %q", got)
	}
	for i, entry := range listing.Entries {
		if entry.Site != "vier" {
			t.Fatalf("entry %d site = %q, want vier", i, entry.Site)
		}
	}
}

func TestListingExplicitPageFetchesOnce(t *testing.T) {
	var fetched []int
	srv := listingServer(t, 99, &fetched) // marker on every page

	e := newTestExtractor(t, srv, Options{})
	listing, err := runVierVideos(e, Request{
		Site:    "vier:videos",
		SiteID:  "vier",
		Program: "demoestuin",
		Page:    6,
	})
	if err != nil {
		t.Fatalf("runVierVideos: %v", err)
	}

	if listing.PlaylistID != "demoestuin-page6" {
		t.Errorf("playlist id = %q, want demoestuin-page6", listing.PlaylistID)
	}
	if len(fetched) != 1 || fetched[0] != 6 {
		t.Errorf("fetched pages %v, want just page 6", fetched)
	}
	if len(listing.Entries) != 2 {
		t.Errorf("got %d entries, want 2", len(listing.Entries))
	}
}

func TestListingStopsAtPageCap(t *testing.T) {
	var fetched []int
	srv := listingServer(t, 99, &fetched) // marker never disappears

	e := newTestExtractor(t, srv, Options{MaxPages: 2})
	listing, err := runVierVideos(e, Request{
		Site:    "vier:videos",
		SiteID:  "vier",
		Program: "demoestuin",
		Page:    -1,
	})
	if err != nil {
		t.Fatalf("runVierVideos: %v", err)
	}

	if len(fetched) != 2 {
		t.Errorf("fetched %d pages, want the cap of 2", len(fetched))
	}
	if len(listing.Entries) != 4 {
		t.Errorf("got %d entries, want 4", len(listing.Entries))
	}
}
