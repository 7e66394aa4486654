// Package wikisvc coordinates storage, the frontmatter codec, and the live
// index for the UI-facing surfaces. Write-back goes to storage first and
// never speculatively updates the index; the watcher and the snapshot
// contract take care of consistency.
package wikisvc

import (
	"context"
	"errors"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/checksum"
	"github.com/starford/othala/internal/frontmatter"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/markdown"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/storage"
)

// NoteDetail is the full representation of one note.
type NoteDetail struct {
	Path     string               `json:"path"`
	Title    string               `json:"title"`
	Metadata frontmatter.Metadata `json:"metadata"`
	Body     string               `json:"body"`
	Content  string               `json:"content"`
	Checksum string               `json:"checksum"`
	Tags     []string             `json:"tags"`
	Draft    bool                 `json:"draft"`
}

// SearchResult is one hit from a plain-text search over the snapshot.
type SearchResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Service is the write-back and query surface over one content root.
type Service struct {
	store storage.Provider
	idx   *index.Manager
}

// NewService creates a new wiki service.
func NewService(store storage.Provider, idx *index.Manager) *Service {
	return &Service{store: store, idx: idx}
}

// Snapshot returns the current index snapshot.
func (s *Service) Snapshot(_ context.Context) models.Snapshot {
	return s.idx.Snapshot()
}

// GetNote reads and parses a single note.
func (s *Service) GetNote(_ context.Context, notePath string) (*NoteDetail, error) {
	data, err := s.store.Read(notePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return buildDetail(notePath, string(data)), nil
}

// SaveNote serializes metadata and body through the codec and writes the
// result, with optional optimistic concurrency via ifMatch (a checksum of
// the content the caller last read; empty skips the check).
func (s *Service) SaveNote(ctx context.Context, notePath string, meta frontmatter.Metadata, body, ifMatch string) (*NoteDetail, error) {
	return s.UpdateNote(ctx, notePath, []byte(frontmatter.Stringify(meta, body)), ifMatch)
}

// UpdateNote writes raw note content with optimistic concurrency.
func (s *Service) UpdateNote(_ context.Context, notePath string, content []byte, ifMatch string) (*NoteDetail, error) {
	existing, err := s.store.Read(notePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if err := s.store.Write(notePath, content); err != nil {
		return nil, err
	}
	return buildDetail(notePath, string(content)), nil
}

// CreateNote writes a new note. The file's base name is sanitized; the
// directory part is taken as-is. Fails if the path already exists.
func (s *Service) CreateNote(_ context.Context, notePath string, content []byte) (*NoteDetail, error) {
	dir, name := path.Split(notePath)
	notePath = dir + SanitizeFileName(name)
	if err := s.store.Create(notePath, content); err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, apperr.ErrAlreadyExists
		}
		return nil, err
	}
	return buildDetail(notePath, string(content)), nil
}

// DeleteNote removes a note from storage. The watcher picks up the removal.
func (s *Service) DeleteNote(_ context.Context, notePath string) error {
	err := s.store.Delete(notePath)
	if errors.Is(err, os.ErrNotExist) {
		return apperr.ErrNotFound
	}
	return err
}

// RenamePath moves a note or folder within the content root.
func (s *Service) RenamePath(_ context.Context, oldPath, newPath string) error {
	return s.store.Rename(oldPath, newPath)
}

// CreateDir creates a folder under the content root.
func (s *Service) CreateDir(_ context.Context, dirPath string) error {
	return s.store.CreateDir(dirPath)
}

// Search scans the current snapshot for query, matching titles and
// plain-text note content case-insensitively, and returns snippet-bearing
// hits. Folders never match.
func (s *Service) Search(_ context.Context, query string, limit int) []SearchResult {
	if limit <= 0 {
		limit = 20
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []SearchResult{}
	}

	out := []SearchResult{}
	for _, n := range s.idx.Snapshot().Nodes {
		if n.IsFolder {
			continue
		}
		plain := markdown.Strip(n.Content)
		if !strings.Contains(strings.ToLower(n.Title), q) &&
			!strings.Contains(strings.ToLower(plain), q) {
			continue
		}
		out = append(out, SearchResult{
			ID:      n.ID,
			Title:   n.Title,
			Snippet: markdown.SearchSnippet(n.Content, query, 120),
		})
		if len(out) >= limit {
			break
		}
	}
	return out
}

var forbiddenFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// SanitizeFileName replaces OS-forbidden characters with hyphens.
func SanitizeFileName(name string) string {
	return strings.TrimSpace(forbiddenFilenameChars.ReplaceAllString(name, "-"))
}

// buildDetail constructs a NoteDetail from raw content without re-reading
// the file.
func buildDetail(notePath, raw string) *NoteDetail {
	meta, body := frontmatter.Parse(raw)
	title := meta["title"]
	if title == "" {
		title = strings.TrimSuffix(path.Base(notePath), ".md")
	}
	return &NoteDetail{
		Path:     notePath,
		Title:    title,
		Metadata: meta,
		Body:     body,
		Content:  raw,
		Checksum: checksum.Sum([]byte(raw)),
		Tags:     frontmatter.SplitList(meta["tags"]),
		Draft:    strings.EqualFold(meta["draft"], "true"),
	}
}
