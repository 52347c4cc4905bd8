package provider

import (
	"fmt"
	"regexp"
	"strings"

	"zender/internal/media"
)

// moreMarker is the "load more" control on vier/vijf listing pages.
// Its absence means the walk has reached the last page.
const moreMarker = ">Meer<"

// childLink matches the video links inside a listing page's headings.
var childLink = regexp.MustCompile(`<h[23]><a href="(/[^/]+/videos/[^/]+(?:/\d+)?)">`)

// runVierVideos walks a program's listing. A URL carrying an explicit
// page parameter yields that page alone; otherwise the walk starts at
// page zero and follows the "Meer" marker, capped at maxPages.
func runVierVideos(e *Extractor, req Request) (*media.Listing, error) {
	base := fmt.Sprintf(e.siteBase, req.SiteID)

	playlistID := req.Program
	start := 0
	single := req.Page >= 0
	if single {
		start = req.Page
		playlistID = fmt.Sprintf("%s-page%d", req.Program, req.Page)
	}

	listing := &media.Listing{PlaylistID: playlistID}
	for page := start; ; page++ {
		if !single && page-start >= e.maxPages {
			e.log.Warn().Int("pages", e.maxPages).Str("program", req.Program).
				Msg("listing walk hit the page cap")
			break
		}

		pageURL := fmt.Sprintf("%s/%s/videos?page=%d", base, req.Program, page)
		e.log.Debug().Str("program", req.Program).Int("page", page).Msg("fetching listing page")
		html, err := e.client.GetString(pageURL)
		if err != nil {
			return nil, fmt.Errorf("fetching listing page %d: %w", page, err)
		}

		for _, m := range childLink.FindAllStringSubmatch(html, -1) {
			listing.Entries = append(listing.Entries, media.Entry{
				URL:  base + m[1],
				Site: "vier",
			})
		}

		if single || !strings.Contains(html, moreMarker) {
			break
		}
	}
	return listing, nil
}
