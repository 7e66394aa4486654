package api

import (
	"github.com/starford/othala/internal/frontmatter"
	"github.com/starford/othala/internal/wikisvc"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// UpdateNoteRequest is the request body for updating a note. Either Content
// (raw note text) or Metadata+Body (serialized server-side through the
// frontmatter codec) must be set; Metadata wins when both are present.
type UpdateNoteRequest struct {
	Content  string               `json:"content,omitempty"`
	Metadata frontmatter.Metadata `json:"metadata,omitempty"`
	Body     string               `json:"body,omitempty"`
}

// RenameRequest is the request body for renaming a note or folder.
type RenameRequest struct {
	OldPath string `json:"oldPath"`
	NewPath string `json:"newPath"`
}

// CreateDirRequest is the request body for creating a folder.
type CreateDirRequest struct {
	Path string `json:"path"`
}

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = wikisvc.NoteDetail

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []wikisvc.SearchResult `json:"results"`
}
