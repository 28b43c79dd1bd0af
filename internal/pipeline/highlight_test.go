package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// ---------------------------------------------------------------------------
// TestHighlight - Code Block Coloring
// ---------------------------------------------------------------------------

func TestHighlight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		html         string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "go block gets chroma classes",
			html:         "<pre><code class=\"language-go\">package main\n</code></pre>",
			wantContains: []string{`<pre class="chroma language-go">`, `<span class="kn">package</span>`},
		},
		{
			name:         "block without language treated as text",
			html:         "<pre><code>just words\n</code></pre>",
			wantContains: []string{`<pre class="chroma language-text">`, `class="language-text"`},
		},
		{
			name:         "unknown language falls back",
			html:         "<pre><code class=\"language-nope\">x = 1\n</code></pre>",
			wantContains: []string{`<pre class="chroma language-nope">`, "x = 1"},
		},
		{
			name:         "already highlighted block skipped",
			html:         "<pre class=\"chroma language-go\"><code class=\"language-go\">raw\n</code></pre>",
			wantContains: []string{"<code class=\"language-go\">raw\n</code>"},
		},
		{
			name:         "pre without code untouched",
			html:         "<pre>ascii art</pre>",
			wantContains: []string{"<pre>ascii art</pre>"},
			wantExcludes: []string{"chroma"},
		},
		{
			name:         "surrounding content kept",
			html:         "<p>before</p><pre><code class=\"language-sh\">ls\n</code></pre><p>after</p>",
			wantContains: []string{"<p>before</p>", "<p>after</p>", "chroma language-sh"},
		},
		{
			name:         "escaped characters stay escaped",
			html:         "<pre><code class=\"language-html\">&lt;b&gt;x&lt;/b&gt;\n</code></pre>",
			wantContains: []string{"&lt;"},
			wantExcludes: []string{"<b>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewHighlighter(DefaultStyle).Highlight(tt.html)
			if err != nil {
				t.Fatalf("Highlight() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Highlight() = %q, want to contain %q", got, want)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("Highlight() = %q, should not contain %q", got, exclude)
				}
			}
		})
	}
}

func TestHighlight_NoCodeFastPath(t *testing.T) {
	t.Parallel()

	input := "<p>no <em>code</em> blocks</p>\n"
	got, err := NewHighlighter(DefaultStyle).Highlight(input)
	if err != nil {
		t.Fatalf("Highlight() error = %v", err)
	}
	if got != input {
		t.Errorf("Highlight() = %q, want input unchanged", got)
	}
}

func TestHighlight_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"```go\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n```",
		"```\nplain\n```\n\ntext\n\n```python\nprint(1)\n```",
		"```rust\nfn main() { let x = 1 < 2; }\n```",
		"no code at all",
	}

	converter := NewGoldmarkConverter()
	for _, md := range inputs {
		fragment, err := converter.ToHTML(context.Background(), md)
		if err != nil {
			t.Fatalf("ToHTML() error = %v", err)
		}
		once, err := NewHighlighter(DefaultStyle).Highlight(fragment)
		if err != nil {
			t.Fatalf("Highlight() error = %v", err)
		}
		twice, err := NewHighlighter(DefaultStyle).Highlight(once)
		if err != nil {
			t.Fatalf("Highlight() error = %v", err)
		}
		if once != twice {
			t.Errorf("Highlight not idempotent for %q:\nonce:  %q\ntwice: %q", md, once, twice)
		}
	}
}

func TestHighlight_PreservesCodeText(t *testing.T) {
	t.Parallel()

	source := "func main() {\n\tif a < b && c > d {\n\t\treturn\n\t}\n}\n"
	fragment, err := NewGoldmarkConverter().ToHTML(context.Background(), "```go\n"+source+"```")
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}

	got, err := NewHighlighter(DefaultStyle).Highlight(fragment)
	if err != nil {
		t.Fatalf("Highlight() error = %v", err)
	}

	if text := codeText(t, got); text != source {
		t.Errorf("code text changed:\ngot  %q\nwant %q", text, source)
	}
}

func TestHighlighter_WriteCSS(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := NewHighlighter("monokai").WriteCSS(&buf); err != nil {
		t.Fatalf("WriteCSS() error = %v", err)
	}
	if !strings.Contains(buf.String(), ".chroma") {
		t.Errorf("WriteCSS() output missing .chroma selector: %q", buf.String())
	}
}

func TestStyleExists(t *testing.T) {
	t.Parallel()

	if !StyleExists(DefaultStyle) {
		t.Errorf("StyleExists(%q) = false, want true", DefaultStyle)
	}
	if StyleExists("no-such-style") {
		t.Error("StyleExists(no-such-style) = true, want false")
	}
}

// codeText returns the text content of the first <code> element.
func codeText(t *testing.T, fragment string) string {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		t.Fatalf("html.Parse() error = %v", err)
	}
	var find func(n *html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.Data == "code" {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := find(c); found != nil {
				return found
			}
		}
		return nil
	}
	code := find(doc)
	if code == nil {
		t.Fatal("no <code> element")
	}
	return textContent(code)
}
