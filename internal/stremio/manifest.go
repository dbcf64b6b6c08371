package stremio

import (
	"fmt"
	"strings"
)

const (
	// AddonID identifies the addon to Stremio clients.
	AddonID = "org.mediaflow.iptv"
	// AddonName is the display name shown in the Stremio addon catalog.
	AddonName = "MediaFlow IPTV"
	// AddonVersion is the manifest version string.
	AddonVersion = "1.0.0"

	// IDPrefix prefixes every catalog and meta identifier served by the addon.
	IDPrefix = "mediaflow-"

	addonLogo       = "https://dl.strem.io/addon-logo.png"
	addonBackground = "https://dl.strem.io/addon-background.jpg"
)

// Genres lists every catalog genre the addon advertises. Stremio renders one
// catalog row per genre, so the ordering here is the ordering users see.
var Genres = []string{
	"animation", "business", "classic", "comedy", "cooking", "culture",
	"documentary", "education", "entertainment", "family", "kids",
	"legislative", "lifestyle", "movies", "music", "general", "religious",
	"news", "outdoor", "relax", "series", "science", "shop", "sports",
	"travel", "weather", "xxx", "auto",
}

// Manifest is the Stremio addon manifest document.
type Manifest struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Version       string         `json:"version"`
	Description   string         `json:"description"`
	Resources     []string       `json:"resources"`
	Types         []string       `json:"types"`
	Catalogs      []Catalog      `json:"catalogs"`
	IDPrefixes    []string       `json:"idPrefixes"`
	BehaviorHints BehaviorHints  `json:"behaviorHints"`
	Logo          string         `json:"logo"`
	Icon          string         `json:"icon"`
	Background    string         `json:"background"`
}

// Catalog describes one catalog row in the manifest.
type Catalog struct {
	Type  string       `json:"type"`
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Extra []CatalogExtra `json:"extra"`
}

// CatalogExtra declares an optional catalog parameter such as search.
type CatalogExtra struct {
	Name       string `json:"name"`
	IsRequired bool   `json:"isRequired"`
}

// BehaviorHints tells Stremio how the addon expects to be configured.
type BehaviorHints struct {
	Configurable          bool `json:"configurable"`
	ConfigurationRequired bool `json:"configurationRequired"`
}

// NewManifest builds the manifest for the given MediaFlow proxy host. The
// host appears in the description so users can tell instances apart.
func NewManifest(mediaFlowURL string) Manifest {
	catalogs := make([]Catalog, 0, len(Genres))
	for _, genre := range Genres {
		catalogs = append(catalogs, Catalog{
			Type:  "tv",
			ID:    IDPrefix + genre,
			Name:  fmt.Sprintf("MediaFlow - %s", capitalize(genre)),
			Extra: []CatalogExtra{{Name: "search", IsRequired: false}},
		})
	}
	return Manifest{
		ID:          AddonID,
		Name:        AddonName,
		Version:     AddonVersion,
		Description: fmt.Sprintf("Watch IPTV channels from MediaFlow service (%s)", mediaFlowURL),
		Resources:   []string{"catalog", "meta", "stream"},
		Types:       []string{"tv"},
		Catalogs:    catalogs,
		IDPrefixes:  []string{IDPrefix},
		BehaviorHints: BehaviorHints{
			Configurable:          false,
			ConfigurationRequired: false,
		},
		Logo:       addonLogo,
		Icon:       addonLogo,
		Background: addonBackground,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
