// Package frontmatter implements the parse/stringify round-trip between a
// note's raw text and its {metadata, body} pair.
//
// The format is deliberately flat: `---` delimiter lines bracketing simple
// `key: value` lines. No nested YAML, no escaping. Values containing colons
// or a literal `---` are not safely round-tripped; that is a documented
// simplification, not a bug to fix here.
package frontmatter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Metadata is a flat key/value mapping. All values are strings, including
// boolean-looking ones; interpretation (e.g. the draft flag) happens at
// indexing time, keeping the round-trip predictable.
type Metadata map[string]string

// delimiterRe matches a leading frontmatter block: optional leading
// whitespace, a `---` line, the metadata block (lazy), a closing `---` line,
// then optional whitespace before the body.
var delimiterRe = regexp.MustCompile(`(?s)\A\s*---\s*?[\r\n]+(.*?)[\r\n]+---\s*(.*)\z`)

// preferredOrder is the emission order for well-known keys. Anything else is
// appended after these, sorted by key for deterministic output.
var preferredOrder = []string{"title", "slug", "date", "tags", "category", "fontTheme"}

// Parse splits raw note text into metadata and body. Absent or malformed
// frontmatter is not an error: the metadata comes back empty and the whole
// input is the body.
func Parse(raw string) (Metadata, string) {
	m := delimiterRe.FindStringSubmatch(raw)
	if m == nil {
		return Metadata{}, raw
	}

	meta := Metadata{}
	for _, line := range strings.Split(m[1], "\n") {
		colon := strings.Index(line, ":")
		if colon < 0 {
			continue
		}
		key := strings.TrimSpace(line[:colon])
		if key == "" {
			continue
		}
		value := strings.TrimSpace(line[colon+1:])
		value = unquote(value)
		if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
			// Shallow list: normalise to a single ", "-joined string.
			value = strings.Join(SplitList(value[1:len(value)-1]), ", ")
		}
		meta[key] = value
	}
	return meta, m[2]
}

// Stringify renders metadata and body back to raw note text. The output
// parses back to an equivalent pair for every key the editor round-trips.
func Stringify(meta Metadata, body string) string {
	var b strings.Builder
	b.WriteString("---\n")

	emitted := make(map[string]bool, len(meta))
	for _, key := range preferredOrder {
		value, ok := meta[key]
		if !ok {
			continue
		}
		emitted[key] = true
		if key == "tags" {
			fmt.Fprintf(&b, "tags: [%s]\n", strings.Join(SplitList(value), ", "))
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", key, value)
	}

	rest := make([]string, 0, len(meta))
	for key := range meta {
		if !emitted[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(&b, "%s: %s\n", key, meta[key])
	}

	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String()
}

// SplitList splits a comma-separated value into trimmed, non-empty items.
func SplitList(value string) []string {
	out := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// unquote strips one pair of matching surrounding quotes, if present.
func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	if (value[0] == '"' && value[len(value)-1] == '"') ||
		(value[0] == '\'' && value[len(value)-1] == '\'') {
		return value[1 : len(value)-1]
	}
	return value
}
