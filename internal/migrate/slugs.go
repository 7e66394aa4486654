// Package migrate repairs frontmatter formatting and backfills missing
// slugs across an existing content root.
package migrate

import (
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/starford/othala/internal/storage"
)

var (
	// A `---` not preceded by a newline means a closing delimiter got glued
	// to the last metadata value ("key: value---").
	brokenDelimiterRe = regexp.MustCompile(`([^\n])---`)
	frontmatterRe     = regexp.MustCompile(`(?s)\A---\s*?[\r\n]+(.*?)[\r\n]+---\s*(.*)\z`)
	titleLineRe       = regexp.MustCompile(`(?m)^title:[ \t]*(.*)$`)

	slugStripRe = regexp.MustCompile(`[^\w\s-]`)
	slugSpaceRe = regexp.MustCompile(`\s+`)
	slugTrimRe  = regexp.MustCompile(`^-+|-+$`)
)

// Slugs walks every markdown file under the content root, repairs a missing
// newline before a closing delimiter, and inserts a slug derived from the
// title (filename fallback) where none exists. Files without frontmatter
// are skipped with a logged warning. Returns the number of files rewritten.
func Slugs(store storage.Provider, logger *slog.Logger) (int, error) {
	files, err := store.List("")
	if err != nil {
		return 0, fmt.Errorf("migrate: list content: %w", err)
	}

	modified := 0
	for _, f := range files {
		data, err := store.Read(f.Path)
		if err != nil {
			return modified, fmt.Errorf("migrate: read %s: %w", f.Path, err)
		}

		content := string(data)
		repaired := false
		if brokenDelimiterRe.MatchString(content) {
			content = brokenDelimiterRe.ReplaceAllString(content, "$1\n---")
			logger.Info("migrate: repaired delimiter", slog.String("path", f.Path))
			repaired = true
		}

		m := frontmatterRe.FindStringSubmatch(content)
		if m == nil {
			logger.Warn("migrate: no frontmatter, skipping", slog.String("path", f.Path))
			continue
		}
		yaml, body := m[1], m[2]

		if strings.Contains(yaml, "slug:") {
			if repaired {
				if err := store.Write(f.Path, []byte(content)); err != nil {
					return modified, fmt.Errorf("migrate: write %s: %w", f.Path, err)
				}
				modified++
			}
			continue
		}

		stem := strings.TrimSuffix(path.Base(f.Path), ".md")
		title := stem
		if tm := titleLineRe.FindStringSubmatch(yaml); tm != nil {
			title = strings.TrimSpace(tm[1])
		}
		slug := Slugify(title)
		if slug == "" {
			// Non-ASCII title; fall back to the filename.
			slug = Slugify(stem)
		}

		var newYAML string
		if titleLineRe.MatchString(yaml) {
			// Insert the slug line directly after the title line.
			newYAML = titleLineRe.ReplaceAllString(yaml, "${0}\nslug: "+slug)
		} else {
			newYAML = "slug: " + slug + "\n" + yaml
		}
		if !strings.HasSuffix(newYAML, "\n") {
			newYAML += "\n"
		}

		rewritten := "---\n" + newYAML + "---\n" + body
		if err := store.Write(f.Path, []byte(rewritten)); err != nil {
			return modified, fmt.Errorf("migrate: write %s: %w", f.Path, err)
		}
		logger.Info("migrate: slug added", slog.String("path", f.Path), slog.String("slug", slug))
		modified++
	}
	return modified, nil
}

// Slugify lowercases a title and reduces it to hyphen-separated word
// characters. May return "" for titles with no ASCII word characters.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	return slugTrimRe.ReplaceAllString(s, "")
}
