// Package order computes per-directory sort indexes from persisted ordering
// files (_meta.json for published notes, _draft_meta.json for drafts).
//
// Ordering files are append-only from the resolver's point of view: existing
// positions are never reordered, new base-names are appended, and a missing
// file is created with its entries sorted lexicographically. Concurrent
// external edits to an ordering file are last-write-wins; the app assumes a
// single active writer.
package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sort"

	"github.com/tailscale/hujson"

	"github.com/starford/othala/internal/models"
)

// Ordering file names, one per directory.
const (
	MetaFileName      = "_meta.json"
	DraftMetaFileName = "_draft_meta.json"
)

const (
	// draftOffset guarantees drafts sort after every published sibling.
	draftOffset = 10000
	// Defensive fallbacks; unreachable if the append step did its job.
	publishedFallback = 9999
	draftFallback     = 20000
)

// Files is the subset of the storage provider the resolver needs.
type Files interface {
	Read(path string) ([]byte, error)
	Write(path string, content []byte) error
}

// Resolver assigns sort indexes to sibling groups of index nodes.
type Resolver struct {
	files  Files
	logger *slog.Logger
}

// NewResolver creates a resolver reading and persisting ordering files
// through the given file accessor.
func NewResolver(files Files, logger *slog.Logger) *Resolver {
	return &Resolver{files: files, logger: logger}
}

// Apply assigns SortIndex to every node in group, the direct children of
// dir ("" for the content root). Published notes get their position in
// _meta.json; drafts get draftOffset plus their position in
// _draft_meta.json, so a draft always sorts after any published sibling.
func (r *Resolver) Apply(dir string, group []*models.Node) error {
	var published, drafts []*models.Node
	for _, n := range group {
		if n.Draft {
			drafts = append(drafts, n)
		} else {
			published = append(published, n)
		}
	}

	pubPos, err := r.resolveFile(path.Join(dir, MetaFileName), baseNames(published))
	if err != nil {
		return err
	}
	draftPos, err := r.resolveFile(path.Join(dir, DraftMetaFileName), baseNames(drafts))
	if err != nil {
		return err
	}

	for _, n := range published {
		if pos, ok := pubPos[path.Base(n.ID)]; ok {
			n.SortIndex = pos
		} else {
			n.SortIndex = publishedFallback
		}
	}
	for _, n := range drafts {
		if pos, ok := draftPos[path.Base(n.ID)]; ok {
			n.SortIndex = draftOffset + pos
		} else {
			n.SortIndex = draftFallback
		}
	}
	return nil
}

// resolveFile loads the ordering file at filePath, appends any of names not
// yet present (preserving existing positions), persists when something
// changed, and returns the name → position mapping.
func (r *Resolver) resolveFile(filePath string, names []string) (map[string]int, error) {
	entries, existed, err := r.readEntries(filePath)
	if err != nil {
		return nil, err
	}

	changed := false
	if !existed && len(names) > 0 {
		// First-time creation starts from lexicographic order.
		entries = append(entries, names...)
		sort.Strings(entries)
		changed = true
	} else {
		present := make(map[string]bool, len(entries))
		for _, e := range entries {
			present[e] = true
		}
		for _, name := range names {
			if !present[name] {
				entries = append(entries, name)
				present[name] = true
				changed = true
			}
		}
	}

	if changed {
		data, err := json.Marshal(entries)
		if err != nil {
			return nil, fmt.Errorf("order: encode %s: %w", filePath, err)
		}
		if err := r.files.Write(filePath, data); err != nil {
			return nil, fmt.Errorf("order: persist %s: %w", filePath, err)
		}
	}

	positions := make(map[string]int, len(entries))
	for i, e := range entries {
		if _, dup := positions[e]; !dup {
			positions[e] = i
		}
	}
	return positions, nil
}

// readEntries returns the ordering file's entries and whether the file
// exists. A file that exists but cannot be parsed degrades to empty with a
// logged warning; a broken ordering file must not block indexing.
func (r *Resolver) readEntries(filePath string) ([]string, bool, error) {
	data, err := r.files.Read(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("order: read %s: %w", filePath, err)
	}

	standardized, err := hujson.Standardize(data)
	if err == nil {
		var entries []string
		if jsonErr := json.Unmarshal(standardized, &entries); jsonErr == nil {
			return entries, true, nil
		}
		err = fmt.Errorf("not a string array")
	}
	r.logger.Warn("order: unparsable ordering file, treating as empty",
		slog.String("path", filePath),
		slog.String("error", err.Error()))
	return nil, true, nil
}

func baseNames(nodes []*models.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, path.Base(n.ID))
	}
	return out
}
