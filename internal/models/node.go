// Package models defines the domain types for Othala.
package models

import "time"

// DefaultWikiTitle is used when the content root has no _config.json
// or the file cannot be parsed.
const DefaultWikiTitle = "Othala Wiki"

// Node is one entry in the content index: either a file-backed note or a
// folder synthesized from a path segment. Identity is the ID, not the
// struct reference; a rescan replaces the whole node set.
type Node struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	ParentID  *string `json:"parentId"`
	Category  string  `json:"category"`
	SortIndex int     `json:"sortIndex"`
	IsFolder  bool    `json:"isFolder"`

	// File-only fields. Content holds the full raw source including
	// frontmatter so downstream consumers can re-parse it.
	Slug     string   `json:"slug,omitempty"`
	Tags     []string `json:"tags,omitzero"`
	Date     string   `json:"date,omitempty"`
	Draft    bool     `json:"draft,omitempty"`
	Content  string   `json:"content,omitempty"`
	FilePath string   `json:"filePath,omitempty"`
	FileName string   `json:"fileName,omitempty"`

	// Folder-only. Left as an empty placeholder; tree building is the
	// consumer's job, not the indexer's.
	Children []Node `json:"children,omitzero"`
}

// Config is the directory-level wiki configuration loaded from _config.json.
type Config struct {
	Title string `json:"title"`
}

// DefaultConfig returns the config used when _config.json is absent or broken.
func DefaultConfig() Config {
	return Config{Title: DefaultWikiTitle}
}

// Snapshot is the complete index state published to subscribers on every
// change. Always a full copy, never a diff.
type Snapshot struct {
	Nodes  []Node `json:"nodes"`
	Config Config `json:"config"`
}

// FileInfo is lightweight file metadata returned by storage listings.
type FileInfo struct {
	Path    string    `json:"path"`
	ModTime time.Time `json:"modTime"`
}
