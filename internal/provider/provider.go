// Package provider implements metadata extraction for the supported
// broadcaster sites. A URL is matched against a closed set of site
// descriptors; the winning descriptor drives one generic pipeline that
// fetches the page, reads the site's fields, and resolves the media
// asset into playable formats.
package provider

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"zender/internal/auth"
	"zender/internal/extract"
	"zender/internal/httputil"
	"zender/internal/media"
)

var (
	// ErrNoMatch means no site descriptor accepts the URL.
	ErrNoMatch = errors.New("no supported site matches URL")

	// ErrRequiredField means the page lacked a field extraction cannot
	// proceed without, usually because the URL is not a video page.
	ErrRequiredField = errors.New("required field missing")
)

const defaultMaxPages = 50

// Extractor runs site extraction recipes against a shared HTTP client.
// One Extractor is safe for sequential reuse across URLs; the cookie
// jar inside the client carries login state between calls.
type Extractor struct {
	client   *httputil.Client
	session  *auth.Session
	resolver *extract.Resolver
	log      zerolog.Logger

	vierUser     string
	vierPass     string
	vierToken    string
	vierLoggedIn bool

	maxPages int

	// Endpoint roots, fixed in production and overridden in tests.
	mediazoneBase  string
	contentAPIBase string
	siteBase       string // printf template taking the site id (vier, vijf)
}

// Options carries the optional pieces of an Extractor: credentials for
// gated sites and the listing page cap.
type Options struct {
	// Session performs the VRT NU login handshake. Leaving it nil makes
	// vrt.be URLs fail with auth.ErrLoginRequired.
	Session *auth.Session

	// VierUser and VierPass unlock gated content on vier.be and
	// vijf.be. Login failures there are soft; extraction continues.
	VierUser string
	VierPass string

	// VierToken is sent as the authorization header on the content API.
	VierToken string

	// MaxPages caps the listing walk when no explicit page is given.
	MaxPages int
}

// New creates an Extractor around the shared HTTP client.
func New(client *httputil.Client, log zerolog.Logger, opts Options) *Extractor {
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &Extractor{
		client:         client,
		session:        opts.Session,
		resolver:       extract.NewResolver(client, log),
		log:            log.With().Str("component", "provider").Logger(),
		vierUser:       opts.VierUser,
		vierPass:       opts.VierPass,
		vierToken:      opts.VierToken,
		maxPages:       maxPages,
		mediazoneBase:  defaultMediazoneBase,
		contentAPIBase: defaultContentAPIBase,
		siteBase:       "https://www.%s.be",
	}
}

// Extract resolves a video page URL into a full metadata record.
func (e *Extractor) Extract(rawURL string) (*media.Video, error) {
	site, req, err := Match(rawURL)
	if err != nil {
		return nil, err
	}
	if site.Kind != KindVideo {
		return nil, fmt.Errorf("%s is a listing URL, not a video page", rawURL)
	}
	e.log.Debug().Str("site", site.Name).Str("display_id", req.DisplayID).Msg("extracting")

	if site.NeedsAuth {
		if e.session == nil {
			return nil, auth.ErrLoginRequired
		}
		if err := e.session.EnsureLoggedIn(); err != nil {
			return nil, err
		}
	}
	return site.run(e, req)
}

// Listing walks a program listing URL and returns the video links it
// references.
func (e *Extractor) Listing(rawURL string) (*media.Listing, error) {
	site, req, err := Match(rawURL)
	if err != nil {
		return nil, err
	}
	if site.Kind != KindListing {
		return nil, fmt.Errorf("%s is a video page, not a listing", rawURL)
	}
	return site.list(e, req)
}

// fetchDoc downloads a page and parses it for field extraction.
func (e *Extractor) fetchDoc(rawURL string) (*goquery.Document, error) {
	html, err := e.client.GetString(rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return doc, nil
}
