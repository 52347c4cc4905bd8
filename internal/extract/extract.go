// Package extract resolves manifest references into playable formats.
// Each target is parsed according to its type tag (HLS, MPEG_DASH, HDS);
// unknown types pass through as opaque single-URL formats.
package extract

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"zender/internal/media"
)

// ErrNoPlayableFormats indicates that no target yielded a usable format.
var ErrNoPlayableFormats = errors.New("no playable formats found")

// Target is one manifest reference from a site's asset API.
type Target struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// fetcher is the slice of the HTTP client the resolver needs, kept small
// so manifest handling can be tested without a network.
type fetcher interface {
	GetString(rawURL string) (string, error)
}

// Resolver turns manifest targets into a flat, sorted format list.
type Resolver struct {
	client fetcher
	log    zerolog.Logger
}

// NewResolver creates a resolver that fetches manifests with client.
func NewResolver(client fetcher, log zerolog.Logger) *Resolver {
	return &Resolver{
		client: client,
		log:    log.With().Str("component", "extract").Logger(),
	}
}

// Resolve parses every target and returns the aggregated formats, best
// first. Targets lacking a URL or type are dropped silently; a target that
// fails to fetch or parse is skipped with a warning. Only an empty end
// result is an error.
func (r *Resolver) Resolve(targets []Target) ([]media.Format, error) {
	var formats []media.Format

	for _, target := range targets {
		if target.URL == "" || target.Type == "" {
			continue
		}

		switch strings.ToUpper(target.Type) {
		case "HLS":
			formats = r.appendManifest(formats, target, parseHLS)
		case "MPEG_DASH":
			formats = r.appendManifest(formats, target, parseMPD)
		case "HDS":
			formats = r.appendManifest(formats, target, parseF4M)
		default:
			// Already-resolved URL; the type tag doubles as the format id.
			formats = append(formats, media.Format{
				ID:  target.Type,
				URL: target.URL,
			})
		}
	}

	if len(formats) == 0 {
		return nil, ErrNoPlayableFormats
	}

	Sort(formats)
	return formats, nil
}

type manifestParser func(base *url.URL, body string) ([]media.Format, error)

// appendManifest fetches and parses one manifest target, appending its
// variants. Failures are logged and swallowed so one broken manifest type
// cannot sink the others.
func (r *Resolver) appendManifest(formats []media.Format, target Target, parse manifestParser) []media.Format {
	body, err := r.client.GetString(target.URL)
	if err != nil {
		r.log.Warn().Err(err).Str("type", target.Type).Str("url", target.URL).Msg("skipping manifest: fetch failed")
		return formats
	}

	base, err := url.Parse(target.URL)
	if err != nil {
		r.log.Warn().Err(err).Str("type", target.Type).Msg("skipping manifest: bad URL")
		return formats
	}

	parsed, err := parse(base, body)
	if err != nil {
		r.log.Warn().Err(err).Str("type", target.Type).Str("url", target.URL).Msg("skipping manifest: parse failed")
		return formats
	}

	return append(formats, parsed...)
}

// Sort orders formats best-first: adaptive protocols ahead of legacy HDS
// and direct URLs, then explicit preference, then bitrate. Equal keys keep
// discovery order.
func Sort(formats []media.Format) {
	sort.SliceStable(formats, func(i, j int) bool {
		a, b := formats[i], formats[j]
		if pa, pb := protocolRank(a.Protocol), protocolRank(b.Protocol); pa != pb {
			return pa > pb
		}
		if a.Preference != b.Preference {
			return a.Preference > b.Preference
		}
		return a.Bitrate > b.Bitrate
	})
}

func protocolRank(proto string) int {
	switch proto {
	case "HLS", "MPEG_DASH":
		return 2
	case "HDS":
		return 1
	default:
		return 0
	}
}

// resolveRef resolves a possibly-relative manifest reference against the
// URL the manifest itself was fetched from.
func resolveRef(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil || base == nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// formatID builds ids like "HLS-1548" from the protocol tag and kbit rate.
func formatID(proto string, bitrate int) string {
	if bitrate <= 0 {
		return proto
	}
	return fmt.Sprintf("%s-%d", proto, bitrate)
}
