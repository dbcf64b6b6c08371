package playlist_test

import (
	"strings"
	"testing"

	"antenna/internal/channel"
	"antenna/internal/playlist"
)

func TestWrite(t *testing.T) {
	channels := []channel.Channel{
		{
			ID:        "rai1-abc",
			Name:      "RAI 1",
			CleanName: "RAI 1",
			URL:       "https://vavoo.to/play/1/index.m3u8",
			Genre:     "general",
			Category:  "RAI",
			Logo:      "https://logos/rai1.png",
		},
		{
			ID:        "skysport-def",
			Name:      "SKY SPORT UNO .c",
			CleanName: "SKY SPORT UNO .c",
			URL:       "https://vavoo.to/play/2/index.m3u8",
			Genre:     "sports",
			Category:  "SPORT",
			Logo:      "https://placehold.co/400x400?text=Sky+Sport+Uno",
		},
		{ID: "nourl", Name: "Broken", URL: ""},
	}

	var buf strings.Builder
	if err := playlist.Write(&buf, channels, "http://epg-guide.com/it.gz"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != `#EXTM3U url-tvg="http://epg-guide.com/it.gz"` {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	// Two playable channels at five lines each plus the header.
	if len(lines) != 11 {
		t.Fatalf("expected 11 lines, got %d:\n%s", len(lines), out)
	}

	if lines[1] != `#EXTINF:-1 tvg-id="Rai 1" tvg-name="Rai 1" tvg-logo="https://logos/rai1.png" group-title="RAI",Rai 1` {
		t.Fatalf("unexpected EXTINF line: %q", lines[1])
	}
	if lines[2] != "#EXTVLCOPT:http-user-agent=okhttp/4.11.0" ||
		lines[3] != "#EXTVLCOPT:http-origin=https://vavoo.to/" ||
		lines[4] != "#EXTVLCOPT:http-referrer=https://vavoo.to/" {
		t.Fatalf("unexpected EXTVLCOPT lines: %q %q %q", lines[2], lines[3], lines[4])
	}
	if lines[5] != "https://vavoo.to/play/1/index.m3u8" {
		t.Fatalf("unexpected stream line: %q", lines[5])
	}

	// Quality marker is stripped from the tvg-id of the second channel.
	if !strings.Contains(lines[6], `tvg-id="Sky Sport Uno"`) || !strings.Contains(lines[6], `group-title="SPORT"`) {
		t.Fatalf("unexpected second EXTINF line: %q", lines[6])
	}

	if strings.Contains(out, "Broken") {
		t.Fatalf("channel without URL should be skipped:\n%s", out)
	}
}
