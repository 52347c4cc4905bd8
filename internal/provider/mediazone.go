package provider

import (
	"fmt"

	"zender/internal/extract"
	"zender/internal/httputil"
	"zender/internal/media"
)

const defaultMediazoneBase = "https://mediazone.vrt.be/api/v1"

// assetInfo is the mediazone media-asset API response. targetUrls feed
// the format resolver unchanged.
type assetInfo struct {
	TargetURLs     []extract.Target `json:"targetUrls"`
	SubtitleURLs   []subtitleRef    `json:"subtitleUrls"`
	Duration       float64          `json:"duration"` // milliseconds
	PosterImageURL string           `json:"posterImageUrl"`
}

type subtitleRef struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// extractAsset fetches the mediazone asset for a video id and builds
// the delivery half of the record: formats, subtitles, duration and
// poster. The caller fills in the page-derived fields.
func (e *Extractor) extractAsset(siteID, videoID, displayID string) (*media.Video, error) {
	if err := httputil.ValidateID(videoID); err != nil {
		return nil, fmt.Errorf("invalid video id: %w", err)
	}

	assetURL := httputil.BuildURL(e.mediazoneBase, siteID, "assets", videoID)
	var info assetInfo
	if err := e.client.GetJSON(assetURL, nil, &info); err != nil {
		return nil, fmt.Errorf("fetching asset %s: %w", videoID, err)
	}

	formats, err := e.resolver.Resolve(info.TargetURLs)
	if err != nil {
		return nil, err
	}

	video := &media.Video{
		ID:        videoID,
		DisplayID: displayID,
		Formats:   formats,
		Duration:  info.Duration / 1000.0,
		Thumbnail: info.PosterImageURL,
	}

	// Only CLOSED tracks are caption files; the API does not name a
	// language but these broadcasters subtitle in Dutch.
	for _, sub := range info.SubtitleURLs {
		if sub.URL == "" || sub.Type != "CLOSED" {
			continue
		}
		if video.Subtitles == nil {
			video.Subtitles = make(map[string][]media.Subtitle)
		}
		video.Subtitles["nl"] = append(video.Subtitles["nl"], media.Subtitle{URL: sub.URL})
	}
	return video, nil
}
