package channel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Channel is one curated catalog entry. Genre is the addon-facing genre
// ("sports", "kids", ...); Category is the playlist group title ("SPORT",
// "BAMBINI", ...) the genre is derived from.
type Channel struct {
	ID        string
	Name      string
	CleanName string
	URL       string
	Genre     string
	Category  string
	Logo      string
}

// Upstream names carry a trailing country marker such as "Rai 1 .I": a space,
// a dot, and a single letter.
var countrySuffix = regexp.MustCompile(`\s\.[A-Za-z]$`)

// Names used as tvg ids instead end in a bare ".c" or ".s" quality marker.
var qualitySuffix = regexp.MustCompile(`(?i)\.[cs]$`)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

var titleCaser = cases.Title(language.Und)

// CleanName strips the trailing country marker from an upstream channel name.
func CleanName(name string) string {
	return countrySuffix.ReplaceAllString(name, "")
}

// SanitizeTVGID turns an upstream name into the tvg-id used in playlists:
// quality marker removed and every word capitalized.
func SanitizeTVGID(name string) string {
	trimmed := strings.TrimSpace(qualitySuffix.ReplaceAllString(name, ""))
	words := strings.Fields(trimmed)
	for i, word := range words {
		words[i] = titleCaser.String(strings.ToLower(word))
	}
	return strings.Join(words, " ")
}

// NewID derives a stable-looking identifier from a channel name plus a short
// random suffix so regenerated catalogs never collide.
func NewID(name string) string {
	slug := strings.ToLower(nonAlphanumeric.ReplaceAllString(CleanName(name), ""))
	if slug == "" {
		slug = "channel"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return slug + "-" + suffix
}

// PlaceholderLogo builds the fallback logo URL for channels with no icon.
func PlaceholderLogo(name string) string {
	clean := strings.TrimSpace(qualitySuffix.ReplaceAllString(name, ""))
	clean = strings.TrimSpace(countrySuffix.ReplaceAllString(clean, ""))
	if clean == "" {
		clean = "TV"
	}
	return "https://placehold.co/400x400?text=" + strings.ReplaceAll(clean, " ", "+")
}

// Icons maps lowercased channel names to logo URLs.
type Icons map[string]string

// Resolve returns the icon for a channel name, falling back to a placeholder.
func (i Icons) Resolve(name string) string {
	if i != nil {
		if logo, ok := i[strings.ToLower(name)]; ok && strings.TrimSpace(logo) != "" {
			return logo
		}
		if logo, ok := i[strings.ToLower(CleanName(name))]; ok && strings.TrimSpace(logo) != "" {
			return logo
		}
	}
	return PlaceholderLogo(name)
}

// Validate reports whether the channel carries the fields every consumer needs.
func (c Channel) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("channel %q has no id", c.Name)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("channel %q has no name", c.ID)
	}
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("channel %q has no url", c.Name)
	}
	return nil
}
