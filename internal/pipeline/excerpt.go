package pipeline

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// DefaultExcerptBudget is the excerpt length in bytes before the ellipsis.
const DefaultExcerptBudget = 140

// Ellipsis is appended to truncated excerpts.
const Ellipsis = "…"

// Excerpt returns the visible text of an HTML fragment with whitespace
// collapsed, cut to at most budget bytes. A truncated excerpt ends with
// Ellipsis, so the result never exceeds budget+len(Ellipsis) bytes.
// Cuts land on rune boundaries of the decoded text, never inside an
// entity or a multi-byte character. A budget <= 0 disables truncation.
func Excerpt(fragment string, budget int) string {
	text := strings.Join(strings.Fields(visibleText(fragment)), " ")
	if budget <= 0 || len(text) <= budget {
		return text
	}

	cut := budget
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return strings.TrimRight(text[:cut], " ") + Ellipsis
}

// visibleText extracts decoded text tokens, skipping script and style.
func visibleText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way the text so far stands.
			return b.String()
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if isHiddenTag(tag) {
				if tt == html.StartTagToken {
					skip++
				} else if tt == html.EndTagToken && skip > 0 {
					skip--
				}
			}
			if !inlineTags[tag] {
				b.WriteByte(' ')
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// inlineTags do not separate words.
var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "code": true, "del": true, "em": true,
	"i": true, "mark": true, "s": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true, "u": true,
}

func isHiddenTag(name string) bool {
	return name == "script" || name == "style"
}
