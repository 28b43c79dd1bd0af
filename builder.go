package sitegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"github.com/a-h/templ"

	"github.com/rationaleemotions/sitegen/internal/assets"
	"github.com/rationaleemotions/sitegen/internal/feed"
	"github.com/rationaleemotions/sitegen/internal/fileutil"
	"github.com/rationaleemotions/sitegen/internal/logging"
	"github.com/rationaleemotions/sitegen/internal/metrics"
	"github.com/rationaleemotions/sitegen/internal/pipeline"
)

// Output asset paths, relative to the output root.
const (
	SiteCSSPath   = "css/site.css"
	ChromaCSSPath = "css/chroma.css"
	FeedPath      = "feed.xml"
	SitemapPath   = "sitemap.xml"
)

// Build stage names used for logs and metrics.
const (
	stageTransform = "transform"
	stageResolve   = "resolve"
	stageWrite     = "write"
)

// Builder runs the content-to-page pipeline. Create with NewBuilder and
// call Build once per build; a Builder may be reused across builds.
type Builder struct {
	cfg         buildConfig
	logger      *slog.Logger
	recorder    metrics.Recorder
	transformer *Transformer
	resolver    *Resolver
	siteCSS     []byte
	chromaCSS   []byte
}

// NewBuilder creates a Builder. Templates and stylesheets are loaded and
// parsed here, so asset problems surface before any content is read.
// Configuration problems wrap ErrConfiguration.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{cfg: defaultBuildConfig()}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logging.Discard()
	}
	if b.recorder == nil {
		b.recorder = metrics.NoopRecorder{}
	}

	if err := b.validate(); err != nil {
		return nil, err
	}

	var loader assets.AssetLoader = assets.NewEmbeddedLoader()
	if b.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(b.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w: %v", ErrConfiguration, ErrInvalidAssetPath, err)
		}
		loader = resolver
	}

	ts, err := assets.NewTemplateSet(loader)
	if err != nil {
		return nil, fmt.Errorf("%w: loading templates: %w", ErrConfiguration, err)
	}
	templates, err := NewTemplates(ts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if b.resolver, err = NewResolver(b.cfg.site, templates, b.cfg.pageSize); err != nil {
		return nil, err
	}

	css, err := loader.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		return nil, fmt.Errorf("%w: loading stylesheet: %w", ErrConfiguration, err)
	}
	b.siteCSS = []byte(css)

	var chroma bytes.Buffer
	if err := pipeline.NewHighlighter(b.cfg.highlightStyle).WriteCSS(&chroma); err != nil {
		return nil, fmt.Errorf("%w: highlight stylesheet: %w", ErrConfiguration, err)
	}
	b.chromaCSS = chroma.Bytes()

	b.transformer = NewTransformer(b.cfg.highlightStyle, b.cfg.excerptBudget, b.cfg.extensions)
	return b, nil
}

func (b *Builder) validate() error {
	if b.cfg.pageSize < 0 {
		return fmt.Errorf("%w: page size must not be negative, got %d", ErrConfiguration, b.cfg.pageSize)
	}
	if b.cfg.excerptBudget < 0 {
		return fmt.Errorf("%w: excerpt budget must not be negative, got %d", ErrConfiguration, b.cfg.excerptBudget)
	}
	if b.cfg.highlightStyle != "" && !pipeline.StyleExists(b.cfg.highlightStyle) {
		return fmt.Errorf("%w: unknown highlight style %q", ErrConfiguration, b.cfg.highlightStyle)
	}
	if raw := b.cfg.site.BaseURL; raw != "" {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: base URL %q must be absolute", ErrConfiguration, raw)
		}
	}
	return nil
}

// Build reads the content, renders every page and replaces the output
// directory. Record failures are collected in the report and leave the
// build Failed; the remaining pages are still written. Configuration,
// collision and I/O errors are fatal: they are returned and the previous
// output is left untouched.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (b *Builder) Build(ctx context.Context, in Input) (report *Report, err error) {
	start := time.Now()
	report = &Report{State: Running}
	log := b.logger.With(logging.Component("builder"))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
		report.Duration = time.Since(start)
		b.recorder.ObserveBuildDuration(report.Duration)
		switch {
		case err != nil && ctx.Err() != nil:
			report.State = Failed
			b.recorder.IncBuildOutcome(metrics.OutcomeAborted)
		case err != nil || len(report.Failures) > 0:
			report.State = Failed
			b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		default:
			report.State = Succeeded
			b.recorder.IncBuildOutcome(metrics.OutcomeSucceeded)
		}
	}()

	posts, pages, err := b.sources(in)
	if err != nil {
		return report, err
	}

	// Transform
	stageStart := time.Now()
	results, err := transformAll(ctx, ResolvePoolSize(b.cfg.workers), posts.Records(ctx), b.transformer.Transform)
	if err != nil {
		return report, err
	}
	published := b.collect(results, report, log)

	var standalone []*RenderedPage
	if pages != nil {
		results, err := transformAll(ctx, ResolvePoolSize(b.cfg.workers), pages.Records(ctx), b.transformer.TransformPage)
		if err != nil {
			return report, err
		}
		standalone = b.collect(results, report, log)
	}
	b.observeStage(log, stageTransform, stageStart)

	// Resolve
	stageStart = time.Now()
	idx := NewIndex(published)
	report.Posts = len(idx)
	report.Pages = len(standalone)

	docs, err := b.resolver.Resolve(idx, standalone)
	if err != nil {
		attrs := []any{logging.Stage(stageResolve), logging.Error(err)}
		var collision *CollisionError
		if errors.As(err, &collision) {
			attrs = append(attrs, logging.Slug(collision.Slug))
		}
		log.Error("resolve failed", attrs...)
		return report, err
	}
	docs = append(docs, b.assetDocuments(idx, docs)...)
	b.observeStage(log, stageResolve, stageStart)

	// Write
	stageStart = time.Now()
	w := &writer{
		outDir: in.OutputDir,
		limit:  ResolvePoolSize(b.cfg.workers),
		retry:  b.cfg.retry,
		logger: log,
	}
	if err := w.write(ctx, docs); err != nil {
		log.Error("write failed", logging.Stage(stageWrite), logging.Error(err))
		return report, err
	}
	b.observeStage(log, stageWrite, stageStart)

	report.Documents = len(docs)
	b.recorder.SetPagesWritten(len(docs))
	log.Info("build finished",
		slog.Int("posts", report.Posts),
		slog.Int("pages", report.Pages),
		slog.Int("failures", len(report.Failures)),
		logging.Count(report.Documents),
		logging.Duration(time.Since(start)))
	return report, nil
}

// sources opens the content roots and rejects an output directory that
// would swallow them.
func (b *Builder) sources(in Input) (posts, pages *Source, err error) {
	if in.OutputDir == "" {
		return nil, nil, fmt.Errorf("%w: output directory is required", ErrConfiguration)
	}
	out, err := filepath.Abs(in.OutputDir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: output dir %q: %v", ErrConfiguration, in.OutputDir, err)
	}

	open := func(dir string) (*Source, error) {
		src, err := NewSource(dir, b.cfg.extensions...)
		if err != nil {
			return nil, err
		}
		if fileutil.IsWithin(out, src.Root()) {
			return nil, fmt.Errorf("%w: output dir %s contains content dir %s", ErrConfiguration, out, src.Root())
		}
		src.retry = b.cfg.retry
		return src, nil
	}

	if posts, err = open(in.ContentDir); err != nil {
		return nil, nil, err
	}
	if in.PagesDir != "" {
		if pages, err = open(in.PagesDir); err != nil {
			return nil, nil, err
		}
	}
	return posts, pages, nil
}

// collect splits transform results into pages and record failures, in
// source order.
func (b *Builder) collect(results []transformResult, report *Report, log *slog.Logger) []*RenderedPage {
	pages := make([]*RenderedPage, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			var recErr *RecordError
			if !errors.As(r.err, &recErr) {
				recErr = &RecordError{Path: r.path, Err: r.err}
			}
			report.Failures = append(report.Failures, recErr)
			b.recorder.IncRecord(metrics.RecordFailed)
			log.Error("record failed", logging.Path(recErr.Path), logging.Error(recErr.Err))
			continue
		}

		if r.page.Draft && !b.cfg.drafts {
			report.Skipped++
			b.recorder.IncRecord(metrics.RecordSkipped)
			log.Debug("draft skipped", logging.Path(r.path), logging.Slug(r.page.Slug))
			continue
		}

		b.recorder.IncRecord(metrics.RecordOK)
		pages = append(pages, r.page)
	}
	return pages
}

func (b *Builder) observeStage(log *slog.Logger, stage string, start time.Time) {
	d := time.Since(start)
	b.recorder.ObserveStageDuration(stage, d)
	log.Debug("stage finished", logging.Stage(stage), logging.Duration(d))
}

// assetDocuments returns the stylesheets, plus the feed and sitemap when a
// base URL is configured.
func (b *Builder) assetDocuments(idx Index, docs []Document) []Document {
	out := []Document{
		{Path: SiteCSSPath, Render: rawComponent(b.siteCSS)},
		{Path: ChromaCSSPath, Render: rawComponent(b.chromaCSS)},
	}
	if b.cfg.site.BaseURL == "" {
		return out
	}

	site := b.cfg.site
	entries := make([]feed.Entry, 0, len(idx))
	for _, p := range idx {
		entries = append(entries, feed.Entry{Title: p.Title, Slug: p.Slug, Date: p.Date, Summary: p.Excerpt})
	}
	channel := feed.Channel{
		Title:       site.Title,
		Description: site.Description,
		Author:      site.Author,
		BaseURL:     site.BaseURL,
	}

	locations := make([]feed.Location, 0, len(docs))
	for _, d := range docs {
		if d.Slug != "" {
			locations = append(locations, feed.Location{Slug: d.Slug, LastMod: d.Modified})
		}
	}

	return append(out,
		Document{Path: FeedPath, Render: xmlComponent(func(w io.Writer) error {
			return feed.RSS(w, channel, entries)
		})},
		Document{Path: SitemapPath, Render: xmlComponent(func(w io.Writer) error {
			return feed.Sitemap(w, site.BaseURL, locations)
		})},
	)
}

func xmlComponent(encode func(io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return encode(w)
	})
}
