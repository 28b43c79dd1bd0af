package pipeline

import (
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/rationaleemotions/sitegen/internal/fileutil"
)

// LinkRewriter turns relative links between content files into site slugs,
// so "[next](../2021/other.md#setup)" resolves to "/2021/other#setup".
type LinkRewriter struct {
	root string
	exts []string
}

// NewLinkRewriter creates a rewriter for files under root with the given
// content extensions (".md", ".markdown", ...).
func NewLinkRewriter(root string, exts []string) *LinkRewriter {
	return &LinkRewriter{root: root, exts: exts}
}

// Rewrite rewrites a[href] values in an HTML fragment rendered from
// sourcePath. Links to other schemes, anchors, absolute paths, non-content
// files, and targets outside the root are left untouched.
func (r *LinkRewriter) Rewrite(fragment, sourcePath string) (string, error) {
	if r == nil || r.root == "" || !strings.Contains(fragment, "href") {
		return fragment, nil
	}

	doc, isFragment, err := parseHTML(fragment)
	if err != nil {
		return "", err
	}

	if !r.rewriteNode(doc, filepath.Dir(sourcePath)) {
		return fragment, nil
	}
	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *LinkRewriter) rewriteNode(n *html.Node, dir string) bool {
	changed := false
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		for i, attr := range n.Attr {
			if attr.Key != "href" {
				continue
			}
			if slug, ok := r.resolve(attr.Val, dir); ok {
				n.Attr[i].Val = slug
				changed = true
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if r.rewriteNode(c, dir) {
			changed = true
		}
	}
	return changed
}

// resolve maps one href to a slug. ok is false when it must stay as is.
func (r *LinkRewriter) resolve(href, dir string) (string, bool) {
	if !isRelativePath(href) {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil || u.Path == "" || u.RawQuery != "" {
		return "", false
	}
	if !slices.Contains(r.exts, strings.ToLower(filepath.Ext(u.Path))) {
		return "", false
	}

	target := filepath.Join(dir, filepath.FromSlash(u.Path))
	if !fileutil.IsWithin(r.root, target) {
		return "", false
	}

	slug, err := DeriveSlug(r.root, target)
	if err != nil {
		return "", false
	}
	if u.Fragment != "" {
		slug += "#" + u.EscapedFragment()
	}
	return slug, true
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if strings.Contains(path, ":") {
		// http:, mailto:, data:, and friends
		if u, err := url.Parse(path); err != nil || u.Scheme != "" {
			return false
		}
	}
	return !strings.HasPrefix(path, "/") && !filepath.IsAbs(path)
}
