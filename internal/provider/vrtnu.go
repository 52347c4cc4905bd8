package provider

import (
	"fmt"
	"strings"

	"zender/internal/media"
)

// mediazoneVrtNU is the mediazone site id serving VRT NU assets.
const mediazoneVrtNU = "vrtvideo"

// runVrtNU handles vrt.be/vrtnu episode pages. The generic pipeline has
// already established a login session; without one the page serves no
// secure-video descriptor.
func runVrtNU(e *Extractor, req Request) (*media.Video, error) {
	doc, err := e.fetchDoc(req.URL)
	if err != nil {
		return nil, err
	}

	title := selectionText(doc, "h1.content__heading")
	if title == "" {
		title = ogContent(doc, "title")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title", ErrRequiredField)
	}

	season := seasonLabel(doc)

	mzid, err := e.fetchMzid(req.URL)
	if err != nil {
		return nil, err
	}

	video, err := e.extractAsset(mediazoneVrtNU, mzid, req.DisplayID)
	if err != nil {
		return nil, err
	}
	video.Title = title
	video.Description = selectionText(doc, "div.content__description")
	video.Season = season
	video.SeasonNumber = seasonNumber(season)
	video.EpisodeNumber = parseIntField(selectionText(doc, "div.content__episode span"))
	video.ReleaseDate = isoDate(firstAttr(doc, "div.content__broadcastdate time", "datetime"))
	return video, nil
}

// fetchMzid resolves the page's secure-video descriptor to a mediazone
// asset id. The JSON holds a single entry under an unpredictable key.
func (e *Extractor) fetchMzid(pageURL string) (string, error) {
	clean := strings.SplitN(pageURL, "?", 2)[0]
	clean = strings.SplitN(clean, "#", 2)[0]
	clean = strings.TrimRight(clean, "/")
	secureURL := clean + ".securevideo.json"

	var payload map[string]struct {
		Mzid string `json:"mzid"`
	}
	if err := e.client.GetJSON(secureURL, nil, &payload); err != nil {
		return "", fmt.Errorf("fetching secure video descriptor: %w", err)
	}
	for _, entry := range payload {
		if entry.Mzid != "" {
			return entry.Mzid, nil
		}
	}
	return "", fmt.Errorf("%w: mzid", ErrRequiredField)
}
