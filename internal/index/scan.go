// Package index builds and maintains the in-memory content index: a flat set
// of file and folder nodes scanned from the content root, kept live by a
// filesystem watcher. The index is always replaced wholesale; subscribers
// observe complete snapshots, never partial updates.
package index

import (
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/starford/othala/internal/frontmatter"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/order"
	"github.com/starford/othala/internal/storage"
)

// Default categories when frontmatter supplies none and the path gives no
// better hint.
const (
	defaultFileCategory   = "General"
	defaultFolderCategory = "System"
)

// Scanner performs full scans of the content root.
type Scanner struct {
	store    storage.Provider
	resolver *order.Resolver
	logger   *slog.Logger
}

// NewScanner creates a scanner over the given provider.
func NewScanner(store storage.Provider, logger *slog.Logger) *Scanner {
	return &Scanner{
		store:    store,
		resolver: order.NewResolver(store, logger),
		logger:   logger,
	}
}

// Scan enumerates every markdown file and directory under the content root
// and returns the complete node set plus the wiki config. A filesystem
// failure aborts the scan; no partial index is returned. Broken config or
// ordering files degrade to defaults with a logged warning.
func (s *Scanner) Scan() (*models.Snapshot, error) {
	files, err := s.store.List("")
	if err != nil {
		return nil, fmt.Errorf("index: list content: %w", err)
	}
	dirs, err := s.store.Dirs("")
	if err != nil {
		return nil, fmt.Errorf("index: list dirs: %w", err)
	}

	nodes := make([]models.Node, 0, len(files)+len(dirs))
	folderSet := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		folderSet[d] = true
	}

	for _, f := range files {
		data, err := s.store.Read(f.Path)
		if err != nil {
			return nil, fmt.Errorf("index: read %s: %w", f.Path, err)
		}
		node := s.fileNode(f, string(data))
		nodes = append(nodes, node)

		// Every ancestor of the file's path is a folder, watched dir or not.
		segments := strings.Split(node.ID, "/")
		for i := 1; i < len(segments); i++ {
			folderSet[strings.Join(segments[:i], "/")] = true
		}
	}

	folderIDs := make([]string, 0, len(folderSet))
	for id := range folderSet {
		folderIDs = append(folderIDs, id)
	}
	sort.Strings(folderIDs)
	for _, id := range folderIDs {
		nodes = append(nodes, folderNode(id))
	}

	if err := s.applyOrdering(nodes); err != nil {
		return nil, err
	}

	return &models.Snapshot{
		Nodes:  nodes,
		Config: s.loadConfig(),
	}, nil
}

// fileNode builds a file node from raw markdown source. Frontmatter drives
// the metadata fields with fallbacks: title from the filename, category from
// the first path segment, date from the file's modification time.
func (s *Scanner) fileNode(f models.FileInfo, raw string) models.Node {
	meta, _ := frontmatter.Parse(raw)

	id := strings.TrimSuffix(f.Path, ".md")
	segments := strings.Split(id, "/")

	title := meta["title"]
	if title == "" {
		title = path.Base(id)
	}
	category := meta["category"]
	if category == "" && len(segments) > 1 {
		category = segments[0]
	}
	if category == "" {
		category = defaultFileCategory
	}

	node := models.Node{
		ID:        id,
		Title:     title,
		ParentID:  parentID(segments),
		Category:  category,
		IsFolder:  false,
		Slug:      meta["slug"],
		Tags:      frontmatter.SplitList(meta["tags"]),
		Date:      normalizeDate(meta["date"], f.ModTime),
		Draft:     strings.EqualFold(meta["draft"], "true"),
		Content:   raw,
		FilePath:  f.Path,
		FileName:  path.Base(f.Path),
	}
	return node
}

// folderNode synthesizes a folder node for a directory id.
func folderNode(id string) models.Node {
	segments := strings.Split(id, "/")
	category := segments[0]
	if category == "" {
		category = defaultFolderCategory
	}
	return models.Node{
		ID:       id,
		Title:    segments[len(segments)-1],
		ParentID: parentID(segments),
		Category: category,
		IsFolder: true,
		Children: []models.Node{},
	}
}

// applyOrdering groups nodes by parent and runs the sort-order resolver once
// per sibling group, root included.
func (s *Scanner) applyOrdering(nodes []models.Node) error {
	groups := make(map[string][]*models.Node)
	var keys []string
	for i := range nodes {
		dir := ""
		if nodes[i].ParentID != nil {
			dir = *nodes[i].ParentID
		}
		if _, seen := groups[dir]; !seen {
			keys = append(keys, dir)
		}
		groups[dir] = append(groups[dir], &nodes[i])
	}
	sort.Strings(keys)
	for _, dir := range keys {
		if err := s.resolver.Apply(dir, groups[dir]); err != nil {
			return err
		}
	}
	return nil
}

func parentID(segments []string) *string {
	if len(segments) <= 1 {
		return nil
	}
	parent := strings.Join(segments[:len(segments)-1], "/")
	return &parent
}

// dateLayouts are the timestamp shapes accepted from frontmatter, richest
// first. Anything that parses is reduced to a plain YYYY-MM-DD string.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// normalizeDate guarantees the index never stores a non-string date: a
// parseable timestamp collapses to its date part, anything else passes
// through verbatim, and an absent date falls back to the file's mtime.
func normalizeDate(raw string, modTime time.Time) string {
	if raw == "" {
		return modTime.Format("2006-01-02")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}
