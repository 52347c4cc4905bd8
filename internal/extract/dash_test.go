package extract

import (
	"testing"
)

const sampleMPD = `<?xml version="1.0" encoding="UTF-8"?>
<MPD xmlns="urn:mpeg:dash:schema:mpd:2011" type="static">
  <Period>
    <AdaptationSet mimeType="video/mp4" contentType="video">
      <Representation id="video-1" bandwidth="900000" width="960" height="540">
        <BaseURL>video_540.mp4</BaseURL>
      </Representation>
      <Representation id="video-2" bandwidth="2100000" width="1920" height="1080">
        <BaseURL>video_1080.mp4</BaseURL>
      </Representation>
    </AdaptationSet>
    <AdaptationSet mimeType="audio/mp4" contentType="audio">
      <Representation id="audio-1" bandwidth="128000">
        <BaseURL>audio.mp4</BaseURL>
      </Representation>
    </AdaptationSet>
    <AdaptationSet mimeType="application/ttml+xml" contentType="text">
      <Representation id="sub-nl" bandwidth="256">
        <BaseURL>subs_nl.ttml</BaseURL>
      </Representation>
    </AdaptationSet>
  </Period>
</MPD>`

func TestParseMPD(t *testing.T) {
	base := mustParse(t, "https://cdn.example.be/dash/manifest.mpd")

	formats, err := parseMPD(base, sampleMPD)
	if err != nil {
		t.Fatalf("parseMPD error: %v", err)
	}
	if len(formats) != 3 {
		t.Fatalf("got %d formats, want 3 (text tracks excluded)", len(formats))
	}

	f := formats[0]
	if f.ID != "MPEG_DASH-900" {
		t.Errorf("id = %q, want MPEG_DASH-900", f.ID)
	}
	if f.URL != "https://cdn.example.be/dash/video_540.mp4" {
		t.Errorf("BaseURL not resolved: %q", f.URL)
	}
	if f.Width != 960 || f.Height != 540 {
		t.Errorf("resolution = %dx%d, want 960x540", f.Width, f.Height)
	}
	if f.Ext != "mp4" {
		t.Errorf("ext = %q, want mp4", f.Ext)
	}
}

func TestParseMPDWithoutBaseURL(t *testing.T) {
	base := mustParse(t, "https://cdn.example.be/dash/manifest.mpd")
	body := `<MPD><Period><AdaptationSet mimeType="video/mp4">
		<Representation id="v" bandwidth="500000"/>
	</AdaptationSet></Period></MPD>`

	formats, err := parseMPD(base, body)
	if err != nil {
		t.Fatalf("parseMPD error: %v", err)
	}
	if formats[0].URL != base.String() {
		t.Errorf("URL = %q, want the manifest URL as fallback", formats[0].URL)
	}
}

func TestParseMPDErrors(t *testing.T) {
	base := mustParse(t, "https://cdn.example.be/dash/manifest.mpd")

	tests := []struct {
		name string
		body string
	}{
		{"not XML", "{\"error\": true}"},
		{"wrong root", "<html>no</html>"},
		{"no representations", "<MPD><Period/></MPD>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseMPD(base, tt.body); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
