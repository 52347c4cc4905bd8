package provider

import (
	"fmt"
	"regexp"
	"strconv"

	"zender/internal/media"
)

// Kind distinguishes single-video sites from listing routes.
type Kind int

const (
	KindVideo Kind = iota
	KindListing
)

// Site describes one supported URL family: the pattern that recognizes
// it, whether it needs a login, and the recipe that extracts it.
type Site struct {
	Name      string
	Kind      Kind
	NeedsAuth bool

	pattern *regexp.Regexp
	run     func(e *Extractor, req Request) (*media.Video, error)
	list    func(e *Extractor, req Request) (*media.Listing, error)
}

// Request identifies the target of one extraction, derived from the
// URL's capture groups. Fields a site does not use stay zero.
type Request struct {
	URL       string
	Site      string
	SiteID    string // host discriminator: canvas or een, vier or vijf
	DisplayID string
	VideoID   string
	EmbedID   string
	Program   string
	Page      int // explicit listing page; -1 when absent
}

// Sites is the descriptor table, tried in order. Patterns are written
// to be disjoint; order matters only for error attribution.
var Sites = []Site{
	{
		Name: "canvas",
		Kind: KindVideo,
		pattern: regexp.MustCompile(
			`^https?://(?:www\.)?(?P<site_id>canvas|een)\.be/(?:[^/]+/)*(?P<id>[^/?#&]+)`),
		run: runCanvas,
	},
	{
		Name:      "vrtnu",
		Kind:      KindVideo,
		NeedsAuth: true,
		pattern: regexp.MustCompile(
			`^https?://(?:www\.)?vrt\.be/vrtnu/(?:[^/]+/)*(?P<id>[^/?#&]+)`),
		run: runVrtNU,
	},
	{
		Name: "vier",
		Kind: KindVideo,
		// Embed routes come first in the alternation; the generic video
		// route would otherwise swallow them and leave embed_id empty.
		pattern: regexp.MustCompile(
			`^https?://(?:www\.)?(?P<site_id>vier|vijf)\.be/` +
				`(?:(?:video/v3/embed|embed/video/public)/(?P<embed_id>\d+)` +
				`|(?:[^/]+/videos|video(?:/[^/]+)*)/(?P<display_id>[^/]+)(?:/(?P<id>\d+))?)`),
		run: runVier,
	},
	{
		Name: "vier:videos",
		Kind: KindListing,
		pattern: regexp.MustCompile(
			`^https?://(?:www\.)?(?P<site_id>vier|vijf)\.be/(?P<program>[^/]+)/videos(?:\?.*\bpage=(?P<page>\d+)|$)`),
		list: runVierVideos,
	},
}

// Match finds the site descriptor accepting rawURL and fills a Request
// from its named capture groups.
func Match(rawURL string) (*Site, Request, error) {
	for i := range Sites {
		site := &Sites[i]
		m := site.pattern.FindStringSubmatch(rawURL)
		if m == nil {
			continue
		}

		groups := make(map[string]string)
		for gi, name := range site.pattern.SubexpNames() {
			if name != "" && gi < len(m) {
				groups[name] = m[gi]
			}
		}

		req := Request{URL: rawURL, Site: site.Name, Page: -1}
		switch site.Name {
		case "canvas", "vrtnu":
			req.SiteID = groups["site_id"]
			req.DisplayID = groups["id"]
		case "vier":
			req.SiteID = groups["site_id"]
			req.EmbedID = groups["embed_id"]
			req.DisplayID = groups["display_id"]
			if req.DisplayID == "" {
				req.DisplayID = req.EmbedID
			}
			req.VideoID = groups["id"]
			if req.VideoID == "" {
				req.VideoID = req.EmbedID
			}
		case "vier:videos":
			req.SiteID = groups["site_id"]
			req.Program = groups["program"]
			if p := groups["page"]; p != "" {
				n, err := strconv.Atoi(p)
				if err != nil {
					return nil, Request{}, fmt.Errorf("bad page number %q: %w", p, err)
				}
				req.Page = n
			}
		}
		return site, req, nil
	}
	return nil, Request{}, fmt.Errorf("%w: %s", ErrNoMatch, rawURL)
}
