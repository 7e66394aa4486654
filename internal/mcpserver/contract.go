package mcpserver

// NoteFormatContract is the canonical note format documentation served to
// MCP clients. Keep it in sync with the frontmatter codec.
const NoteFormatContract = `# Othala Note Format

Every note is a markdown file with an optional flat frontmatter block.

## Frontmatter

The frontmatter is delimited by lines containing only ` + "`---`" + ` and holds
flat string key/value pairs. Nested structures are not supported.

` + "```" + `
---
title: My Note
slug: my-note
date: 2024-05-01
tags: [go, wiki]
category: General
---

Body of the note in markdown.
` + "```" + `

Rules:

- title: display title of the note. If absent, the filename without
  extension is used.
- slug: URL-friendly identifier, lowercase with hyphens.
- date: ISO date (YYYY-MM-DD). If absent, the file modification time
  is used.
- tags: bracketed, comma-separated list. Written back as  tags: [a, b].
- category: grouping label; defaults to "General" for files at the root
  and to the top-level folder name for nested notes.
- draft: the string "true" marks the note as a draft.
- Values are plain strings. Quotes around values are stripped; no type
  coercion is applied.

Preferred key order when writing: title, slug, date, tags, category,
fontTheme. Any other keys are preserved and written after these in
alphabetical order.

## Body

Standard markdown. Wikilinks in the form [[Target]] or [[Target|Label]]
are supported and resolved against note titles.
`
