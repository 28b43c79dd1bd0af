package sitegen

import (
	"errors"
	"log/slog"
	"time"

	"github.com/rationaleemotions/sitegen/internal/metrics"
	"github.com/rationaleemotions/sitegen/internal/pipeline"
	"github.com/rationaleemotions/sitegen/internal/retry"
)

// DefaultExtensions are the file extensions treated as content.
var DefaultExtensions = []string{".md", ".markdown"}

// ContentRecord is one discovered content file. Path is absolute and
// lives under Root.
type ContentRecord struct {
	Path    string
	Root    string
	RawBody []byte
}

// RenderedPage is the transformed form of one record. It is not modified
// after Transform returns.
type RenderedPage struct {
	Slug       string
	SourcePath string
	Title      string
	Date       time.Time // midnight UTC; zero for undated standalone pages
	Tags       []string  // authored order, duplicates removed
	HTML       string
	Excerpt    string
	Draft      bool
}

// Site is the metadata passed to every template.
type Site struct {
	Title       string
	Author      string
	Description string
	BaseURL     string // absolute; enables feed.xml and sitemap.xml
	IssuesURL   string // "log an issue" link on posts
	DateFormat  string // token format, e.g. "DD MMMM, YYYY"
}

// DefaultSite returns the site metadata used when none is configured.
func DefaultSite() Site {
	return Site{Title: "Rationale Emotions"}
}

// Input names the directories of one build.
type Input struct {
	ContentDir string // posts
	PagesDir   string // standalone pages; empty = none
	OutputDir  string
}

// BuildState is the lifecycle of a build.
type BuildState int

const (
	Running BuildState = iota
	Succeeded
	Failed
)

func (s BuildState) String() string {
	switch s {
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Report summarizes a build. A build with record failures still writes
// its output but ends Failed.
type Report struct {
	State     BuildState
	Posts     int // posts in the index
	Pages     int // standalone pages
	Skipped   int // drafts left out
	Documents int // files written, assets included
	Failures  []*RecordError
	Duration  time.Duration
}

// Err joins the per-record failures, or returns nil.
func (r *Report) Err() error {
	if r == nil || len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Option configures a Builder.
type Option func(*Builder)

// buildConfig holds internal configuration for Builder.
type buildConfig struct {
	site           Site
	workers        int
	extensions     []string
	excerptBudget  int
	pageSize       int
	drafts         bool
	assetPath      string
	highlightStyle string
	retry          retry.Policy
}

func defaultBuildConfig() buildConfig {
	return buildConfig{
		site:           DefaultSite(),
		extensions:     DefaultExtensions,
		excerptBudget:  pipeline.DefaultExcerptBudget,
		highlightStyle: pipeline.DefaultStyle,
		retry:          retry.DefaultPolicy(),
	}
}

// WithSite sets the site metadata.
func WithSite(site Site) Option {
	return func(b *Builder) {
		b.cfg.site = site
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		b.recorder = r
	}
}

// WithWorkers sets the transform pool size. 0 derives it from GOMAXPROCS.
// Panics if n < 0 (programmer error, similar to time.NewTicker).
func WithWorkers(n int) Option {
	if n < 0 {
		panic("sitegen: WithWorkers count must not be negative")
	}
	return func(b *Builder) {
		b.cfg.workers = n
	}
}

// WithExtensions replaces the content file extensions (".md", ...).
func WithExtensions(exts ...string) Option {
	return func(b *Builder) {
		if len(exts) > 0 {
			b.cfg.extensions = exts
		}
	}
}

// WithExcerptBudget sets the excerpt length in bytes. 0 disables truncation.
func WithExcerptBudget(n int) Option {
	return func(b *Builder) {
		b.cfg.excerptBudget = n
	}
}

// WithPageSize paginates the listing. 0 keeps everything on one page.
func WithPageSize(n int) Option {
	return func(b *Builder) {
		b.cfg.pageSize = n
	}
}

// WithDrafts includes posts marked draft: true.
func WithDrafts(include bool) Option {
	return func(b *Builder) {
		b.cfg.drafts = include
	}
}

// WithAssetPath overrides templates and the stylesheet from a directory.
// Assets missing there fall back to the embedded ones.
func WithAssetPath(path string) Option {
	return func(b *Builder) {
		b.cfg.assetPath = path
	}
}

// WithHighlightStyle selects the Chroma style for css/chroma.css.
func WithHighlightStyle(style string) Option {
	return func(b *Builder) {
		b.cfg.highlightStyle = style
	}
}

// WithRetryPolicy sets the retry policy for file reads and writes.
func WithRetryPolicy(p retry.Policy) Option {
	return func(b *Builder) {
		b.cfg.retry = p
	}
}
