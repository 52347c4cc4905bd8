package extract

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"zender/internal/media"
)

// mpd mirrors the slice of the DASH manifest schema needed to enumerate
// representations. Segment addressing is left to the player; a variant's
// URL is its BaseURL chain or, failing that, the manifest URL itself.
type mpd struct {
	XMLName xml.Name    `xml:"MPD"`
	BaseURL string      `xml:"BaseURL"`
	Periods []mpdPeriod `xml:"Period"`
}

type mpdPeriod struct {
	BaseURL string             `xml:"BaseURL"`
	Sets    []mpdAdaptationSet `xml:"AdaptationSet"`
}

type mpdAdaptationSet struct {
	MimeType        string              `xml:"mimeType,attr"`
	ContentType     string              `xml:"contentType,attr"`
	Representations []mpdRepresentation `xml:"Representation"`
}

type mpdRepresentation struct {
	ID        string `xml:"id,attr"`
	Bandwidth int    `xml:"bandwidth,attr"`
	Width     int    `xml:"width,attr"`
	Height    int    `xml:"height,attr"`
	MimeType  string `xml:"mimeType,attr"`
	BaseURL   string `xml:"BaseURL"`
}

// parseMPD extracts representations from a DASH manifest.
func parseMPD(base *url.URL, body string) ([]media.Format, error) {
	var doc mpd
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("parsing MPD: %w", err)
	}

	var formats []media.Format
	for _, period := range doc.Periods {
		for _, set := range period.Sets {
			// Subtitle tracks ride along in some manifests; they are not
			// playable variants.
			if set.ContentType == "text" || strings.HasPrefix(set.MimeType, "text/") {
				continue
			}
			for _, rep := range set.Representations {
				f := media.Format{
					Protocol: "MPEG_DASH",
					Bitrate:  rep.Bandwidth / 1000,
					Width:    rep.Width,
					Height:   rep.Height,
					Ext:      mimeExt(firstNonEmpty(rep.MimeType, set.MimeType)),
				}
				f.ID = formatID("MPEG_DASH", f.Bitrate)

				ref := firstNonEmpty(rep.BaseURL, period.BaseURL, doc.BaseURL)
				if ref == "" {
					f.URL = base.String()
				} else {
					f.URL = resolveRef(base, strings.TrimSpace(ref))
				}
				formats = append(formats, f)
			}
		}
	}

	if len(formats) == 0 {
		return nil, fmt.Errorf("no representations in MPD")
	}
	return formats, nil
}

func mimeExt(mime string) string {
	if idx := strings.Index(mime, "/"); idx >= 0 {
		return mime[idx+1:]
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
