// Package channel holds the channel domain model and the curation rules
// applied to raw upstream listings: name cleaning, tvg-id sanitizing,
// include/remove filtering, keyword categorization, and logo resolution.
package channel
