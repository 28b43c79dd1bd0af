package pipeline

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrHighlight indicates a code block could not be tokenized or formatted.
var ErrHighlight = errors.New("syntax highlighting failed")

// DefaultStyle is the Chroma style used when none is configured.
const DefaultStyle = "github"

const (
	chromaClass    = "chroma"
	languagePrefix = "language-"
	plainTextLexer = "text"
)

var codeFormatter = chromahtml.New(
	chromahtml.WithClasses(true),
	chromahtml.PreventSurroundingPre(true),
)

// Highlighter applies Chroma token markup to code blocks using one style.
type Highlighter struct {
	style *chroma.Style
}

// NewHighlighter returns a Highlighter for the named Chroma style.
// Unknown names fall back to Chroma's default style.
func NewHighlighter(style string) *Highlighter {
	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}
	return &Highlighter{style: s}
}

// Highlight colors every <pre><code> block in an HTML fragment.
// The <pre> element gets class "chroma language-X"; the code text is not
// altered. Blocks already carrying the chroma class are left alone, so
// Highlight(Highlight(x)) == Highlight(x).
func (h *Highlighter) Highlight(content string) (string, error) {
	if !strings.Contains(content, "<pre") {
		return content, nil
	}

	doc, isFragment, err := parseHTML(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}

	changed := false
	var walkErr error
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if walkErr != nil {
			return
		}
		if n.DataAtom == atom.Pre && n.Type == html.ElementNode {
			ok, err := h.highlightPre(n)
			if err != nil {
				walkErr = err
				return
			}
			changed = changed || ok
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if walkErr != nil {
		return "", walkErr
	}
	if !changed {
		return content, nil
	}
	return renderHTML(doc, isFragment)
}

// highlightPre rewrites one <pre> node. Returns false when it was skipped.
func (h *Highlighter) highlightPre(pre *html.Node) (bool, error) {
	if hasClass(pre, chromaClass) {
		return false, nil
	}
	code := onlyCodeChild(pre)
	if code == nil {
		return false, nil
	}

	lang := codeLanguage(code)
	if lang == "" {
		lang = plainTextLexer
		addClass(code, languagePrefix+lang)
	}

	source := textContent(code)
	highlighted, err := h.tokenize(lang, source)
	if err != nil {
		return false, err
	}

	nodes, err := html.ParseFragment(strings.NewReader(highlighted), &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Code,
		Data:     "code",
	})
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrHighlight, err)
	}

	// Only swap children when the token markup preserves the text exactly.
	var got strings.Builder
	for _, n := range nodes {
		got.WriteString(textContent(n))
	}
	if got.String() == source {
		for code.FirstChild != nil {
			code.RemoveChild(code.FirstChild)
		}
		for _, n := range nodes {
			code.AppendChild(n)
		}
	}

	addClass(pre, chromaClass)
	addClass(pre, languagePrefix+lang)
	return true, nil
}

func (h *Highlighter) tokenize(lang, source string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrHighlight, lang, err)
	}

	var buf strings.Builder
	if err := codeFormatter.Format(&buf, h.style, iterator); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrHighlight, lang, err)
	}
	return buf.String(), nil
}

// WriteCSS writes the class-based stylesheet matching the highlighter's style.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	return codeFormatter.WriteCSS(w, h.style)
}

// StyleExists reports whether Chroma ships a style with this name.
func StyleExists(style string) bool {
	_, ok := styles.Registry[style]
	return ok
}

// onlyCodeChild returns the <code> child of pre, ignoring whitespace text.
func onlyCodeChild(pre *html.Node) *html.Node {
	var code *html.Node
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.ElementNode && c.DataAtom == atom.Code && code == nil:
			code = c
		case c.Type == html.TextNode && strings.TrimSpace(c.Data) == "":
		default:
			return nil
		}
	}
	return code
}

func codeLanguage(code *html.Node) string {
	for _, class := range classes(code) {
		if lang, ok := strings.CutPrefix(class, languagePrefix); ok && lang != "" {
			return lang
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func classes(n *html.Node) []string {
	for _, a := range n.Attr {
		if a.Key == "class" {
			return strings.Fields(a.Val)
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	return slices.Contains(classes(n), class)
}

func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	for i, a := range n.Attr {
		if a.Key == "class" {
			n.Attr[i].Val = strings.TrimSpace(a.Val + " " + class)
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}
