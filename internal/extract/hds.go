package extract

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"zender/internal/media"
)

// f4mManifest mirrors the legacy Adobe HDS manifest. Only the media
// entries matter; bitrate is already in kbit/s there.
type f4mManifest struct {
	XMLName xml.Name   `xml:"manifest"`
	BaseURL string     `xml:"baseURL"`
	Media   []f4mMedia `xml:"media"`
}

type f4mMedia struct {
	URL     string `xml:"url,attr"`
	Href    string `xml:"href,attr"`
	Bitrate int    `xml:"bitrate,attr"`
	Width   int    `xml:"width,attr"`
	Height  int    `xml:"height,attr"`
}

// parseF4M extracts stream entries from an HDS (f4m) manifest.
func parseF4M(base *url.URL, body string) ([]media.Format, error) {
	var doc f4mManifest
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("parsing f4m: %w", err)
	}

	manifestBase := base
	if b := strings.TrimSpace(doc.BaseURL); b != "" {
		if u, err := url.Parse(b); err == nil {
			manifestBase = base.ResolveReference(u)
		}
	}

	var formats []media.Format
	for _, m := range doc.Media {
		ref := m.URL
		if ref == "" {
			ref = m.Href
		}
		if ref == "" {
			continue
		}
		formats = append(formats, media.Format{
			ID:       formatID("HDS", m.Bitrate),
			URL:      resolveRef(manifestBase, ref),
			Protocol: "HDS",
			Ext:      "flv",
			Bitrate:  m.Bitrate,
			Width:    m.Width,
			Height:   m.Height,
		})
	}

	if len(formats) == 0 {
		return nil, fmt.Errorf("no media entries in f4m manifest")
	}
	return formats, nil
}
