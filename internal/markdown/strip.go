// Package markdown projects markdown source to plain text for search
// snippets. It is a fixed-order regex pipeline, not a real parser; each
// stage runs on the previous stage's output.
package markdown

import (
	"regexp"
	"strings"
)

var (
	reFrontmatter = regexp.MustCompile(`(?s)\A\s*---\s*?[\r\n]+.*?[\r\n]+---\s*?[\r\n]*`)
	reHTMLTag     = regexp.MustCompile(`<[^>]*>`)
	reImage       = regexp.MustCompile(`!\[(.*?)\]\s*\(.*?\)`)
	reLink        = regexp.MustCompile(`\[(.*?)\]\s*\(.*?\)`)
	reWikilink    = regexp.MustCompile(`\[\[(?:[^|\]]+\|)?([^\]]+)\]\]`)
	reATXHeading  = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s*([^#\n]*)#{0,6}`)
	reSetext      = regexp.MustCompile(`(?m)^[=\-]{2,}\s*$`)
	reBold        = regexp.MustCompile(`\*{1,3}(\S(?:.*?\S)?)\*{1,3}`)
	reUnderscore  = regexp.MustCompile(`_{1,3}(\S(?:.*?\S)?)_{1,3}`)
	reBlockquote  = regexp.MustCompile(`(?m)^\s{0,3}>\s?`)
	reCodeFence   = regexp.MustCompile("(?s)`{3,}(.*?)`{3,}")
	reInlineCode  = regexp.MustCompile("`(.+?)`")
	reHorizRule   = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	reBulletItem  = regexp.MustCompile(`(?m)^\s*[*\-+]\s+`)
	reNumberItem  = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	reLoneMarker  = regexp.MustCompile(`(^|\s)[*\-_]+(\s|$)`)
	reEmphChar    = regexp.MustCompile(`[*_]`)
	reNewlines    = regexp.MustCompile(`\n+`)
	reSpaces      = regexp.MustCompile(`\s+`)
)

// Strip removes markdown, HTML, and wiki-link syntax from md and collapses
// the result to a single line of plain text.
func Strip(md string) string {
	if md == "" {
		return ""
	}

	out := md
	out = reFrontmatter.ReplaceAllString(out, "")
	out = reHTMLTag.ReplaceAllString(out, "")
	out = reImage.ReplaceAllString(out, "$1")
	out = reLink.ReplaceAllString(out, "$1")
	out = reWikilink.ReplaceAllString(out, "$1")
	out = reATXHeading.ReplaceAllString(out, "$1")
	out = reSetext.ReplaceAllString(out, "")
	// Twice, to absorb one level of nested emphasis (***text***).
	for range 2 {
		out = reBold.ReplaceAllString(out, "$1")
		out = reUnderscore.ReplaceAllString(out, "$1")
	}
	out = reBlockquote.ReplaceAllString(out, "")
	out = reCodeFence.ReplaceAllString(out, "$1")
	out = reInlineCode.ReplaceAllString(out, "$1")
	out = reHorizRule.ReplaceAllString(out, "")
	out = reBulletItem.ReplaceAllString(out, "")
	out = reNumberItem.ReplaceAllString(out, "")
	out = reLoneMarker.ReplaceAllString(out, "$1$2")
	out = reEmphChar.ReplaceAllString(out, "")

	out = reNewlines.ReplaceAllString(out, " ")
	out = reSpaces.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// SearchSnippet returns a plain-text excerpt of content around the first
// case-insensitive occurrence of query. With an empty or unmatched query it
// falls back to the first length characters. The window is centered on the
// match and ellipsis-bounded where it does not reach the text's edges.
func SearchSnippet(content, query string, length int) string {
	if length <= 0 {
		length = 120
	}
	plain := Strip(content)

	query = strings.TrimSpace(query)
	if query == "" {
		return leading(plain, length)
	}
	idx := strings.Index(strings.ToLower(plain), strings.ToLower(query))
	if idx < 0 {
		return leading(plain, length)
	}

	start := idx - length/2
	if start < 0 {
		start = 0
	}
	end := start + length
	if end > len(plain) {
		end = len(plain)
	}

	snippet := plain[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(plain) {
		snippet += "..."
	}
	return snippet
}

func leading(plain string, length int) string {
	if len(plain) <= length {
		return plain
	}
	return plain[:length] + "..."
}
