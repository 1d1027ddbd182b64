// Package types provides common type definitions shared across docsmith
// packages. It exists to avoid circular dependencies between the scanner,
// registry, renderer, and build pipeline.
package types

import "time"

// PageInfo contains metadata about a discovered documentation page,
// extracted from the page's file location and YAML frontmatter during
// scanning.
type PageInfo struct {
	// Title is the page title shown in the sidebar and the <title> tag
	Title string
	// Slug is the URL path of the rendered page, relative to the site
	// root and without extension (e.g., "guides/getting-started")
	Slug string
	// FilePath is the path to the Markdown source file
	FilePath string
	// Section is the top-level content directory the page belongs to
	// ("" for pages at the content root)
	Section string
	// Position orders pages within their section; lower values sort
	// first, ties break on Slug
	Position int
	// Description is used for the meta description tag and page listings
	Description string
	// Draft pages are skipped by the builder unless drafts are enabled
	Draft bool
	// LastMod tracks the source file modification time for change
	// detection and sitemap entries
	LastMod time.Time
	// Hash is a CRC32 checksum of the source used for cheap change
	// detection between rebuilds
	Hash string
}

// EventType represents the type of page change event.
type EventType string

const (
	EventTypeAdded   EventType = "added"
	EventTypeUpdated EventType = "updated"
	EventTypeRemoved EventType = "removed"
)

// PageEvent represents a change in the page registry, delivered to
// watchers such as the development server.
type PageEvent struct {
	// Type indicates the kind of change (added, updated, removed)
	Type EventType
	// Page contains the page information (may be nil for removed events)
	Page *PageInfo
	// Timestamp records when the event occurred
	Timestamp time.Time
}
