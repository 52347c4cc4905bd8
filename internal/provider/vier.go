package provider

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"zender/internal/extract"
	"zender/internal/httputil"
	"zender/internal/media"
)

const defaultContentAPIBase = "https://api.viervijfzes.be/content"

var vierLoginError = regexp.MustCompile(`(?s)<div class="messages error">\s*<div>\s*<h2.+?</h2>(.+?)<`)

// contentInfo is the viervijfzes content API response. Values arrive in
// DynamoDB attribute form: {"S": string} and {"N": numeric string}.
type contentInfo struct {
	Video struct {
		S string `json:"S"`
	} `json:"video"`
	Length struct {
		N string `json:"N"`
	} `json:"length"`
}

// runVier handles vier.be and vijf.be video and embed pages. The page
// names the stream in a data-file attribute; the content API maps that
// to an HLS playlist.
func runVier(e *Extractor, req Request) (*media.Video, error) {
	e.loginVier(req.SiteID)

	doc, err := e.fetchDoc(req.URL)
	if err != nil {
		return nil, err
	}

	fileID := firstAttr(doc, "[data-file]", "data-file")
	if fileID == "" {
		return nil, fmt.Errorf("%w: video id", ErrRequiredField)
	}
	videoID := req.VideoID
	if videoID == "" {
		videoID = fileID
	}

	playlistURL, duration, err := e.fetchContentInfo(fileID)
	if err != nil {
		return nil, err
	}
	formats, err := e.resolver.Resolve([]extract.Target{{URL: playlistURL, Type: "HLS"}})
	if err != nil {
		return nil, err
	}

	siteTitle := "Vier"
	if req.SiteID == "vijf" {
		siteTitle = "Vijf"
	}
	title := strings.TrimSpace(strings.TrimSuffix(ogContent(doc, "title"), " | "+siteTitle))
	if title == "" {
		title = req.DisplayID
	}

	thumbnail := ogContent(doc, "image:url")
	if thumbnail == "" {
		thumbnail = ogContent(doc, "image")
	}

	return &media.Video{
		ID:            videoID,
		DisplayID:     req.DisplayID,
		Title:         title,
		Description:   vierDescription(doc),
		Thumbnail:     thumbnail,
		Duration:      duration,
		Formats:       formats,
		Series:        firstAttr(doc, "[data-program]", "data-program"),
		EpisodeNumber: episodeFromTitle(title),
		ReleaseDate:   epochDate(firstAttr(doc, "[data-timestamp]", "data-timestamp")),
		Tags:          tagList(doc),
	}, nil
}

// loginVier performs the site's form login once per Extractor. Login
// only unlocks gated metadata, so failures demote to a warning and
// extraction continues anonymously.
func (e *Extractor) loginVier(siteID string) {
	if e.vierLoggedIn || e.vierUser == "" || e.vierPass == "" {
		return
	}
	loginURL := fmt.Sprintf(e.siteBase, siteID) + "/user/login"
	page, err := e.client.PostForm(loginURL, url.Values{
		"form_id": {"user_login"},
		"name":    {e.vierUser},
		"pass":    {e.vierPass},
	})
	if err != nil {
		e.log.Warn().Err(err).Msg("vier login failed")
		return
	}
	if m := vierLoginError.FindStringSubmatch(page); m != nil {
		e.log.Warn().Str("reason", strings.TrimSpace(m[1])).Msg("vier login rejected")
		return
	}
	e.vierLoggedIn = true
}

// fetchContentInfo asks the content API for the stream URL and length
// behind a data-file id.
func (e *Extractor) fetchContentInfo(fileID string) (string, float64, error) {
	if err := httputil.ValidateID(fileID); err != nil {
		return "", 0, fmt.Errorf("invalid video id: %w", err)
	}

	var extra map[string]string
	if e.vierToken != "" {
		extra = map[string]string{"Authorization": e.vierToken}
	}
	var info contentInfo
	if err := e.client.GetJSON(httputil.BuildURL(e.contentAPIBase, fileID), extra, &info); err != nil {
		return "", 0, fmt.Errorf("fetching content info %s: %w", fileID, err)
	}
	if info.Video.S == "" {
		return "", 0, fmt.Errorf("%w: playlist url", ErrRequiredField)
	}

	var duration float64
	if n, err := strconv.ParseFloat(info.Length.N, 64); err == nil {
		duration = n
	}
	return info.Video.S, duration, nil
}
