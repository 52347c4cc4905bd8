package extract

import (
	"bufio"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"zender/internal/media"
)

// parseHLS extracts stream variants from an HLS master playlist. Only
// #EXT-X-STREAM-INF entries are considered; audio renditions and I-frame
// playlists carry no standalone variant line and are skipped.
func parseHLS(base *url.URL, body string) ([]media.Format, error) {
	if !strings.HasPrefix(strings.TrimSpace(body), "#EXTM3U") {
		return nil, fmt.Errorf("not an HLS playlist")
	}

	var formats []media.Format
	var pending *media.Format // variant announced by the last STREAM-INF tag

	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "#EXT-X-STREAM-INF:"):
			attrs := parseAttributes(strings.TrimPrefix(line, "#EXT-X-STREAM-INF:"))
			f := media.Format{Protocol: "HLS", Ext: "mp4"}
			if bw, err := strconv.Atoi(attrs["BANDWIDTH"]); err == nil {
				f.Bitrate = bw / 1000
			}
			if w, h, ok := parseResolution(attrs["RESOLUTION"]); ok {
				f.Width, f.Height = w, h
			}
			pending = &f
		case line == "" || strings.HasPrefix(line, "#"):
			// Tags and blanks never terminate a variant declaration.
		default:
			if pending != nil {
				pending.URL = resolveRef(base, line)
				pending.ID = formatID("HLS", pending.Bitrate)
				formats = append(formats, *pending)
				pending = nil
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning playlist: %w", err)
	}

	if len(formats) == 0 {
		return nil, fmt.Errorf("no variant streams in playlist")
	}
	return formats, nil
}

// parseAttributes splits an HLS attribute list, honoring quoted values
// that may contain commas (e.g. CODECS="avc1.4d401f,mp4a.40.2").
func parseAttributes(s string) map[string]string {
	attrs := make(map[string]string)
	for len(s) > 0 {
		eq := strings.Index(s, "=")
		if eq < 0 {
			break
		}
		key := strings.TrimSpace(s[:eq])
		rest := s[eq+1:]

		var value string
		if strings.HasPrefix(rest, `"`) {
			if end := strings.Index(rest[1:], `"`); end >= 0 {
				value = rest[1 : end+1]
				rest = strings.TrimPrefix(rest[end+2:], ",")
			} else {
				value = rest[1:]
				rest = ""
			}
		} else if comma := strings.Index(rest, ","); comma >= 0 {
			value = rest[:comma]
			rest = rest[comma+1:]
		} else {
			value = rest
			rest = ""
		}

		attrs[key] = value
		s = rest
	}
	return attrs
}

func parseResolution(s string) (w, h int, ok bool) {
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
		return 0, 0, false
	}
	return w, h, true
}
