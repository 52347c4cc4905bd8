package provider

import (
	"fmt"
	"strings"

	"zender/internal/media"
)

// runCanvas handles canvas.be and een.be video pages. The page names
// the mediazone asset in a data-video attribute; the URL's host picks
// the mediazone site.
func runCanvas(e *Extractor, req Request) (*media.Video, error) {
	doc, err := e.fetchDoc(req.URL)
	if err != nil {
		return nil, err
	}

	title := selectionText(doc, "h1.video__body__header__title")
	if title == "" {
		title = ogContent(doc, "title")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title", ErrRequiredField)
	}

	videoID := firstAttr(doc, "[data-video]", "data-video")
	if videoID == "" {
		return nil, fmt.Errorf("%w: video id", ErrRequiredField)
	}

	video, err := e.extractAsset(req.SiteID, videoID, req.DisplayID)
	if err != nil {
		return nil, err
	}
	video.Title = title
	video.Description = ogContent(doc, "description")
	return video, nil
}
