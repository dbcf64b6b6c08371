package channel

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Curation bundles the include/remove lists and the category keyword map
// applied to a raw upstream listing.
type Curation struct {
	Filters    []string
	Removals   []string
	Categories map[string][]string
	Icons      Icons
}

// DefaultFilters is the built-in include list: a channel name must contain at
// least one of these substrings to survive the refresh.
var DefaultFilters = []string{
	"sky", "fox", "rai", "cine34", "real time", "crime+ investigation", "top crime", "wwe", "tennis", "k2",
	"inter", "rsi", "la 7", "la7", "la 7d", "la7d", "27 twentyseven", "premium crime", "comedy central", "super!",
	"animal planet", "hgtv", "avengers grimm channel", "catfish", "rakuten", "nickelodeon", "cartoonito", "nick jr",
	"history", "nat geo", "tv8", "canale 5", "italia", "mediaset", "rete 4",
	"focus", "iris", "discovery", "dazn", "cine 34", "la 5", "giallo", "dmax", "cielo", "eurosport", "disney+", "food", "tv 8", "motortrend",
	"boing", "frisbee", "deejay tv", "cartoon network", "tg com 24", "warner tv", "boing plus", "27 twenty seven", "tgcom 24", "sky uno",
}

// DefaultRemovals is the built-in exclude list, checked before the filters.
var DefaultRemovals = []string{
	"maria+vision", "telepace", "uninettuno", "lombardia", "cusano", "fm italia", "juwelo", "kiss kiss", "qvc", "rete tv",
	"italia 3", "fishing", "inter tv", "avengers",
}

// DefaultCategories maps playlist group titles to the keywords that select them.
var DefaultCategories = map[string][]string{
	"SKY":       {"sky cin", "tv 8", "fox", "comedy central", "animal planet", "nat geo", "tv8", "sky atl", "sky uno", "sky prima", "sky serie", "sky arte", "sky docum", "sky natu", "cielo", "history", "sky tg"},
	"RAI":       {"rai"},
	"MEDIASET":  {"mediaset", "canale 5", "rete 4", "italia", "focus", "tg com 24", "tgcom 24", "premium crime", "iris", "mediaset iris", "cine 34", "27 twenty seven", "27 twentyseven"},
	"DISCOVERY": {"discovery", "real time", "investigation", "top crime", "wwe", "hgtv", "nove", "dmax", "food network", "warner tv"},
	"SPORT":     {"sport", "dazn", "tennis", "moto", "f1", "golf", "sportitalia", "sport italia", "solo calcio", "solocalcio"},
	"BAMBINI":   {"boing", "cartoon", "k2", "discovery k2", "nick", "super", "frisbee"},
	"ALTRI":     {},
}

// FallbackCategory is assigned when no keyword matches.
const FallbackCategory = "ALTRI"

// categoryGenres maps playlist categories to the genre vocabulary the addon
// catalogs use. Unknown categories fall back to "general".
var categoryGenres = map[string]string{
	"SKY":       "entertainment",
	"RAI":       "general",
	"MEDIASET":  "general",
	"DISCOVERY": "documentary",
	"SPORT":     "sports",
	"BAMBINI":   "kids",
	"ALTRI":     "general",
}

// GenreFor returns the addon genre for a playlist category.
func GenreFor(category string) string {
	if genre, ok := categoryGenres[strings.ToUpper(strings.TrimSpace(category))]; ok {
		return genre
	}
	return "general"
}

// DefaultCuration returns the built-in curation rules.
func DefaultCuration() Curation {
	return Curation{
		Filters:    append([]string(nil), DefaultFilters...),
		Removals:   append([]string(nil), DefaultRemovals...),
		Categories: copyCategories(DefaultCategories),
		Icons:      Icons{},
	}
}

// LoadCuration builds curation rules from optional JSON override files.
// Empty paths keep the corresponding built-in default.
func LoadCuration(filtersPath, removalsPath, categoriesPath, iconsPath string) (Curation, error) {
	cur := DefaultCuration()

	if filtersPath != "" {
		if err := readJSONFile(filtersPath, &cur.Filters); err != nil {
			return Curation{}, fmt.Errorf("load filters: %w", err)
		}
	}
	if removalsPath != "" {
		if err := readJSONFile(removalsPath, &cur.Removals); err != nil {
			return Curation{}, fmt.Errorf("load removals: %w", err)
		}
	}
	if categoriesPath != "" {
		categories := map[string][]string{}
		if err := readJSONFile(categoriesPath, &categories); err != nil {
			return Curation{}, fmt.Errorf("load categories: %w", err)
		}
		cur.Categories = categories
	}
	if iconsPath != "" {
		raw := map[string]string{}
		if err := readJSONFile(iconsPath, &raw); err != nil {
			return Curation{}, fmt.Errorf("load icons: %w", err)
		}
		icons := make(Icons, len(raw))
		for name, logo := range raw {
			icons[strings.ToLower(name)] = logo
		}
		cur.Icons = icons
	}

	return cur, nil
}

// Keep reports whether a channel name passes the remove and include lists.
func (c Curation) Keep(name string) bool {
	lower := strings.ToLower(name)
	for _, word := range c.Removals {
		if word != "" && strings.Contains(lower, strings.ToLower(word)) {
			return false
		}
	}
	for _, word := range c.Filters {
		if word != "" && strings.Contains(lower, strings.ToLower(word)) {
			return true
		}
	}
	return false
}

// Categorize returns the category whose keywords match the channel name.
// Categories are checked in sorted order so results are deterministic when
// keyword sets overlap.
func (c Curation) Categorize(name string) string {
	lower := strings.ToLower(name)
	names := make([]string, 0, len(c.Categories))
	for category := range c.Categories {
		names = append(names, category)
	}
	sort.Strings(names)
	for _, category := range names {
		for _, keyword := range c.Categories[category] {
			if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
				return category
			}
		}
	}
	return FallbackCategory
}

func copyCategories(src map[string][]string) map[string][]string {
	dst := make(map[string][]string, len(src))
	for category, keywords := range src {
		dst[category] = append([]string(nil), keywords...)
	}
	return dst
}

func readJSONFile(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
