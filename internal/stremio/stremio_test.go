package stremio_test

import (
	"strings"
	"testing"

	"antenna/internal/channel"
	"antenna/internal/stremio"
)

func TestNewManifestCatalogs(t *testing.T) {
	m := stremio.NewManifest("mfp.example.org")

	if m.ID != "org.mediaflow.iptv" {
		t.Fatalf("unexpected manifest id %q", m.ID)
	}
	if len(m.Catalogs) != len(stremio.Genres) {
		t.Fatalf("expected %d catalogs, got %d", len(stremio.Genres), len(m.Catalogs))
	}
	first := m.Catalogs[0]
	if first.ID != "mediaflow-animation" || first.Name != "MediaFlow - Animation" {
		t.Fatalf("unexpected first catalog: %+v", first)
	}
	if len(first.Extra) != 1 || first.Extra[0].Name != "search" || first.Extra[0].IsRequired {
		t.Fatalf("unexpected catalog extra: %+v", first.Extra)
	}
	if !strings.Contains(m.Description, "mfp.example.org") {
		t.Fatalf("description should mention the proxy host: %q", m.Description)
	}
	if m.BehaviorHints.Configurable || m.BehaviorHints.ConfigurationRequired {
		t.Fatalf("behavior hints should both be false: %+v", m.BehaviorHints)
	}
	if len(m.IDPrefixes) != 1 || m.IDPrefixes[0] != "mediaflow-" {
		t.Fatalf("unexpected id prefixes: %v", m.IDPrefixes)
	}
}

func TestToMeta(t *testing.T) {
	ch := channel.Channel{
		ID:        "rai1-a1b2c3d4e5f6",
		Name:      "Rai 1 .I",
		CleanName: "Rai 1",
		URL:       "https://vavoo.to/play/12345/index.m3u8",
		Genre:     "general",
		Category:  "RAI",
		Logo:      "https://logos/rai1.png",
	}
	creds := stremio.Credentials{MediaFlowURL: "mfp.example.org", MediaFlowPassword: "secret one"}

	meta := stremio.ToMeta(ch, creds)
	if meta.ID != "mediaflow-rai1-a1b2c3d4e5f6" {
		t.Fatalf("unexpected meta id %q", meta.ID)
	}
	if meta.Name != "Rai 1" || meta.Type != "tv" || meta.PosterShape != "square" {
		t.Fatalf("unexpected meta fields: %+v", meta)
	}
	if len(meta.Genres) != 1 || meta.Genres[0] != "general" {
		t.Fatalf("unexpected genres: %v", meta.Genres)
	}
	if meta.Poster != ch.Logo || meta.Logo != ch.Logo || meta.Background != ch.Logo {
		t.Fatalf("logo should be reused for poster and background: %+v", meta)
	}
	if meta.StreamInfo.Title != "Rai 1" {
		t.Fatalf("unexpected stream title %q", meta.StreamInfo.Title)
	}

	u := meta.StreamInfo.URL
	if !strings.HasPrefix(u, "https://mfp.example.org/proxy/hls/manifest.m3u8?") {
		t.Fatalf("unexpected stream url prefix: %q", u)
	}
	for _, want := range []string{
		"api_password=secret+one",
		"d=https%3A%2F%2Fvavoo.to%2Fplay%2F12345%2Findex.m3u8",
		"h_referer=https%3A%2F%2Fvavoo.to%2F",
		"h_origin=https%3A%2F%2Fvavoo.to",
		"h_user-agent=Mozilla%2F5.0",
	} {
		if !strings.Contains(u, want) {
			t.Fatalf("stream url missing %q: %q", want, u)
		}
	}
}

func TestToMetaDefaults(t *testing.T) {
	ch := channel.Channel{ID: "x", CleanName: "X", URL: "https://upstream/x"}
	meta := stremio.ToMeta(ch, stremio.Credentials{MediaFlowURL: "mfp", MediaFlowPassword: "p"})
	if meta.Logo != "https://dl.strem.io/addon-logo.png" {
		t.Fatalf("expected addon logo fallback, got %q", meta.Logo)
	}
	if len(meta.Genres) != 1 || meta.Genres[0] != "general" {
		t.Fatalf("expected general genre fallback, got %v", meta.Genres)
	}
}

func TestCredentialsValid(t *testing.T) {
	if (stremio.Credentials{}).Valid() {
		t.Fatal("empty credentials should be invalid")
	}
	if (stremio.Credentials{MediaFlowURL: "mfp"}).Valid() {
		t.Fatal("credentials without password should be invalid")
	}
	if !(stremio.Credentials{MediaFlowURL: "mfp", MediaFlowPassword: "p"}).Valid() {
		t.Fatal("complete credentials should be valid")
	}
}
