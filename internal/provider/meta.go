package provider

// Pure helpers for reading fields out of a parsed page. Everything here
// takes a document and returns a value; network and state stay in the
// recipes.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	episodeInTitle   = regexp.MustCompile(`(?i)aflevering (\d+)`)
	availabilityNote = regexp.MustCompile(`(?s)\s*Deze aflevering is te bekijken tot.*$`)
)

// metaContent returns the trimmed content of the first matching
// <meta property=...> or <meta name=...> tag.
func metaContent(doc *goquery.Document, name string) string {
	var content string
	sel := fmt.Sprintf(`meta[property=%q], meta[name=%q]`, name, name)
	doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v := strings.TrimSpace(s.AttrOr("content", "")); v != "" {
			content = v
			return false
		}
		return true
	})
	return content
}

// ogContent reads an Open Graph property, e.g. ogContent(doc, "title")
// for og:title.
func ogContent(doc *goquery.Document, prop string) string {
	return metaContent(doc, "og:"+prop)
}

// firstAttr returns the given attribute of the first element the
// selector matches.
func firstAttr(doc *goquery.Document, selector, attr string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr(attr, ""))
}

// selectionText returns the trimmed text of the first node matching
// selector.
func selectionText(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

// seasonLabel pulls the season name from the active season tab, falling
// back to the selected entry of the season dropdown. The returned label
// has the "seizoen " prefix stripped.
func seasonLabel(doc *goquery.Document) string {
	if txt := selectionText(doc, "div.tabs__tab--active > span"); strings.HasPrefix(txt, "seizoen ") {
		return strings.TrimSpace(strings.TrimPrefix(txt, "seizoen "))
	}
	if val := firstAttr(doc, "option[selected]", "value"); strings.HasPrefix(val, "seizoen ") {
		return strings.TrimSpace(strings.TrimPrefix(val, "seizoen "))
	}
	return ""
}

// seasonNumber converts a season label to a number. Labels above 1000
// are years, not season counts, and yield no number. Non-numeric labels
// (festival editions, specials) also yield none.
func seasonNumber(label string) int {
	n, err := strconv.Atoi(strings.TrimSpace(label))
	if err != nil || n > 1000 {
		return 0
	}
	return n
}

// episodeFromTitle finds an "Aflevering N" marker in the title.
func episodeFromTitle(title string) int {
	m := episodeInTitle.FindStringSubmatch(title)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// parseIntField converts an on-page numeric field, returning 0 when the
// field is absent or not a number.
func parseIntField(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return n
}

// isoDate normalizes a datetime attribute to a YYYY-MM-DD date.
func isoDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// epochDate converts a Unix timestamp field to a YYYY-MM-DD date.
func epochDate(value string) string {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return ""
	}
	return time.Unix(n, 0).UTC().Format("2006-01-02")
}

// vierDescription reads the episode blurb from the first paragraph of
// the metadata block, dropping the trailing availability notice the
// site appends.
func vierDescription(doc *goquery.Document) string {
	text := selectionText(doc, "div.metadata__description p")
	return strings.TrimSpace(availabilityNote.ReplaceAllString(text, ""))
}

// tagList collects the texts of tag links in document order. Duplicates
// are kept as the page shows them.
func tagList(doc *goquery.Document) []string {
	var tags []string
	doc.Find(`a[href^="/tags/"]`).Each(func(_ int, s *goquery.Selection) {
		if txt := strings.TrimSpace(s.Text()); txt != "" {
			tags = append(tags, txt)
		}
	})
	return tags
}
