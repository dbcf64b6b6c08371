// Package vavoo implements the outbound client for the Vavoo IPTV API.
//
// Three operations are exposed: Signature obtains the short-lived addon
// signature the other endpoints require, Catalog walks the cursor-paginated
// channel listing for a group, and Resolve exchanges a channel URL for a
// playable stream URL. All requests are JSON POSTs with bounded retries.
package vavoo
