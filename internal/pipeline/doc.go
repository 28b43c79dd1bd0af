// Package pipeline implements the per-record Markdown-to-HTML stages.
//
// A record body passes through:
//   - Markdown preprocessing (line normalization, ==mark== syntax)
//   - Markdown to HTML fragment conversion via Goldmark
//   - relative content link rewriting to site slugs
//   - syntax highlighting of fenced code blocks via Chroma
//
// Slug and excerpt derivation live here too, so every function the
// transformer needs for a single record is pure and independent of the
// build's shared state.
package pipeline
