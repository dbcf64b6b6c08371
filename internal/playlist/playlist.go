// Package playlist renders the channel catalog as an M3U8 playlist with the
// VLC header options Vavoo streams require.
package playlist

import (
	"fmt"
	"io"

	"antenna/internal/channel"
)

const (
	playerUserAgent = "okhttp/4.11.0"
	playerOrigin    = "https://vavoo.to/"
	playerReferrer  = "https://vavoo.to/"
)

// Write renders channels as an M3U8 playlist. epgURL populates the url-tvg
// attribute on the header line; channels without a URL are skipped.
func Write(w io.Writer, channels []channel.Channel, epgURL string) error {
	if _, err := fmt.Fprintf(w, "#EXTM3U url-tvg=%q\n", epgURL); err != nil {
		return fmt.Errorf("write playlist header: %w", err)
	}
	for _, ch := range channels {
		if ch.URL == "" {
			continue
		}
		tvgID := channel.SanitizeTVGID(ch.Name)
		if _, err := fmt.Fprintf(w,
			"#EXTINF:-1 tvg-id=%q tvg-name=%q tvg-logo=%q group-title=%q,%s\n",
			tvgID, tvgID, ch.Logo, ch.Category, tvgID,
		); err != nil {
			return fmt.Errorf("write playlist entry: %w", err)
		}
		if _, err := fmt.Fprintf(w,
			"#EXTVLCOPT:http-user-agent=%s\n#EXTVLCOPT:http-origin=%s\n#EXTVLCOPT:http-referrer=%s\n%s\n",
			playerUserAgent, playerOrigin, playerReferrer, ch.URL,
		); err != nil {
			return fmt.Errorf("write playlist entry: %w", err)
		}
	}
	return nil
}
