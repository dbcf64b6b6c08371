package stremio

import (
	"net/url"

	"antenna/internal/channel"
)

const (
	streamUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"
	streamReferer   = "https://vavoo.to/"
	streamOrigin    = "https://vavoo.to"
)

// Meta is a Stremio catalog/meta entry for a TV channel.
type Meta struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Genres      []string   `json:"genres"`
	Poster      string     `json:"poster"`
	PosterShape string     `json:"posterShape"`
	Background  string     `json:"background"`
	Logo        string     `json:"logo"`
	StreamInfo  StreamInfo `json:"streamInfo"`
}

// StreamInfo is the playable stream entry for a channel.
type StreamInfo struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Credentials carry the MediaFlow proxy host and password used to build
// playable stream URLs. Path parameters override configured defaults.
type Credentials struct {
	MediaFlowURL      string
	MediaFlowPassword string
}

// Valid reports whether both the proxy host and password are set. Catalogs
// served without valid credentials are empty: the stream URLs would not play.
func (c Credentials) Valid() bool {
	return c.MediaFlowURL != "" && c.MediaFlowPassword != ""
}

// ToMeta converts a catalog channel into its Stremio meta form. The stream
// URL routes playback through the MediaFlow proxy with the upstream headers
// Vavoo requires folded into h_-prefixed query parameters.
func ToMeta(ch channel.Channel, creds Credentials) Meta {
	logo := ch.Logo
	if logo == "" {
		logo = addonLogo
	}
	genre := ch.Genre
	if genre == "" {
		genre = "general"
	}
	return Meta{
		ID:          IDPrefix + ch.ID,
		Name:        ch.CleanName,
		Type:        "tv",
		Genres:      []string{genre},
		Poster:      logo,
		PosterShape: "square",
		Background:  logo,
		Logo:        logo,
		StreamInfo: StreamInfo{
			URL:   StreamURL(ch.URL, creds),
			Title: ch.CleanName,
		},
	}
}

// StreamURL builds the MediaFlow proxy HLS URL for an upstream channel URL.
func StreamURL(upstream string, creds Credentials) string {
	params := url.Values{}
	params.Set("api_password", creds.MediaFlowPassword)
	params.Set("d", upstream)
	params.Set("h_user-agent", streamUserAgent)
	params.Set("h_referer", streamReferer)
	params.Set("h_origin", streamOrigin)
	return "https://" + creds.MediaFlowURL + "/proxy/hls/manifest.m3u8?" + params.Encode()
}
