// Package store persists the curated channel catalog in SQLite.
//
// A refresh replaces the whole channels table in one transaction, so readers
// always see either the previous catalog or the new one, never a mix. Icon
// overrides and refresh bookkeeping live in their own tables.
package store
