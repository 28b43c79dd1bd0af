package sitegen

import (
	"context"
	"fmt"

	"github.com/rationaleemotions/sitegen/internal/frontmatter"
	"github.com/rationaleemotions/sitegen/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
)

// Transformer turns content records into rendered pages. It holds no
// mutable state and is safe for concurrent use.
type Transformer struct {
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	highlighter   *pipeline.Highlighter
	extensions    []string
	excerptBudget int
}

// NewTransformer creates a Transformer. Records are expected to use one of
// exts; links to such files are rewritten to slugs.
func NewTransformer(highlightStyle string, excerptBudget int, exts []string) *Transformer {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	return &Transformer{
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		highlighter:   pipeline.NewHighlighter(highlightStyle),
		extensions:    exts,
		excerptBudget: excerptBudget,
	}
}

// Transform renders a post. The front-matter must carry a title and a date.
// The result depends only on the record.
func (t *Transformer) Transform(ctx context.Context, rec ContentRecord) (*RenderedPage, error) {
	return t.transform(ctx, rec, frontmatter.ParsePost)
}

// TransformPage renders a standalone page, for which the date is optional.
func (t *Transformer) TransformPage(ctx context.Context, rec ContentRecord) (*RenderedPage, error) {
	return t.transform(ctx, rec, frontmatter.Parse)
}

type headerParser func([]byte) (frontmatter.Metadata, []byte, error)

// transform recovers from internal panics so one bad record cannot take the
// whole build down.
func (t *Transformer) transform(ctx context.Context, rec ContentRecord, parse headerParser) (page *RenderedPage, err error) {
	defer func() {
		if r := recover(); r != nil {
			page = nil
			err = &RecordError{Path: rec.Path, Err: fmt.Errorf("%w: internal error: %v", ErrRender, r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta, body, err := parse(rec.RawBody)
	if err != nil {
		return nil, &RecordError{Path: rec.Path, Err: fmt.Errorf("%w: %w", ErrMalformedFrontmatter, err)}
	}

	slug, err := pipeline.DeriveSlug(rec.Root, rec.Path)
	if err != nil {
		return nil, &RecordError{Path: rec.Path, Err: fmt.Errorf("%w: %w", ErrConfiguration, err)}
	}

	html, err := t.renderBody(ctx, rec, body)
	if err != nil {
		return nil, &RecordError{Path: rec.Path, Err: err}
	}

	return &RenderedPage{
		Slug:       slug,
		SourcePath: rec.Path,
		Title:      meta.Title,
		Date:       meta.Date,
		Tags:       meta.Tags,
		HTML:       html,
		Excerpt:    pipeline.Excerpt(html, t.excerptBudget),
		Draft:      meta.Draft,
	}, nil
}

// renderBody runs Markdown through preprocessing, Goldmark, link rewriting
// and highlighting.
func (t *Transformer) renderBody(ctx context.Context, rec ContentRecord, body []byte) (string, error) {
	md := t.preprocessor.PreprocessMarkdown(ctx, string(body))
	if err := ctx.Err(); err != nil {
		return "", err
	}

	html, err := t.htmlConverter.ToHTML(ctx, md)
	if err != nil {
		return "", fmt.Errorf("%w: converting to HTML: %w", ErrRender, err)
	}

	html, err = pipeline.NewLinkRewriter(rec.Root, t.extensions).Rewrite(html, rec.Path)
	if err != nil {
		return "", fmt.Errorf("%w: rewriting links: %w", ErrRender, err)
	}

	html, err = t.highlighter.Highlight(html)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	return html, nil
}
