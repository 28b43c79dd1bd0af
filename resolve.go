package sitegen

import (
	"fmt"
	"html/template"
	"slices"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/rationaleemotions/sitegen/internal/assets"
	"github.com/rationaleemotions/sitegen/internal/dateutil"
	"github.com/rationaleemotions/sitegen/internal/pipeline"
)

// generatedSource names the owner of listing and tag slugs in collisions.
const generatedSource = "(generated)"

// Index is the set of published posts, newest first. Posts sharing a date
// are ordered by slug.
type Index []*RenderedPage

// NewIndex sorts a copy of pages into index order.
func NewIndex(pages []*RenderedPage) Index {
	idx := slices.Clone(pages)
	slices.SortFunc(idx, func(a, b *RenderedPage) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Slug, b.Slug)
	})
	return Index(idx)
}

// TagGroup lists the posts carrying one tag, in index order. Tags whose
// slugs coincide share a group named after the first spelling seen.
type TagGroup struct {
	Name  string
	Slug  string
	Posts []*RenderedPage
}

// BuildTagIndex groups the index by tag slug, sorted by slug.
func BuildTagIndex(idx Index) []TagGroup {
	bySlug := make(map[string]*TagGroup)
	for _, p := range idx {
		seen := make(map[string]bool, len(p.Tags))
		for _, tag := range p.Tags {
			slug := pipeline.TagSlug(tag)
			if slug == "" || seen[slug] {
				continue
			}
			seen[slug] = true

			g, ok := bySlug[slug]
			if !ok {
				g = &TagGroup{Name: tag, Slug: slug}
				bySlug[slug] = g
			}
			g.Posts = append(g.Posts, p)
		}
	}

	groups := make([]TagGroup, 0, len(bySlug))
	for _, g := range bySlug {
		groups = append(groups, *g)
	}
	slices.SortFunc(groups, func(a, b TagGroup) int {
		return strings.Compare(a.Slug, b.Slug)
	})
	return groups
}

// Document is one output file. Path is relative to the output root and
// uses forward slashes.
type Document struct {
	Path     string
	Slug     string    // site path of HTML documents; empty for assets
	Modified time.Time // sitemap lastmod; zero when unknown
	Render   templ.Component
}

// Resolver maps rendered pages to output documents.
type Resolver struct {
	site      Site
	templates *Templates
	dates     *dateutil.Formatter
	pageSize  int
}

// NewResolver creates a Resolver. pageSize 0 keeps the listing on one page.
func NewResolver(site Site, templates *Templates, pageSize int) (*Resolver, error) {
	dates, err := dateutil.NewFormatter(site.DateFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: date format: %v", ErrConfiguration, err)
	}
	if pageSize < 0 {
		return nil, fmt.Errorf("%w: page size must not be negative, got %d", ErrConfiguration, pageSize)
	}
	return &Resolver{site: site, templates: templates, dates: dates, pageSize: pageSize}, nil
}

// Resolve checks that every slug is unique and returns the HTML documents:
// one per post and standalone page, the listing pages, and the tag pages.
// Nothing is rendered when a collision is found.
func (r *Resolver) Resolve(idx Index, pages []*RenderedPage) ([]Document, error) {
	tags := BuildTagIndex(idx)
	listing := r.paginate(idx)

	if err := r.checkCollisions(idx, pages, tags, len(listing)); err != nil {
		return nil, err
	}

	nav := r.nav(pages, tags)
	docs := make([]Document, 0, len(idx)+len(pages)+len(listing)+len(tags)+1)

	for _, p := range idx {
		docs = append(docs, r.document(assets.TemplatePost, p.Slug, p.Date, r.postView(p, nav)))
	}
	for _, p := range pages {
		docs = append(docs, r.document(assets.TemplatePage, p.Slug, p.Date, r.standaloneView(p, nav)))
	}

	for i, chunk := range listing {
		view := r.baseView(nav)
		view.Entries = r.entries(chunk, true)
		view.Pagination = paginationView(i+1, len(listing))
		var modified time.Time
		if len(chunk) > 0 {
			modified = chunk[0].Date
		}
		docs = append(docs, r.document(assets.TemplateIndex, listingSlug(i+1), modified, view))
	}

	if len(tags) > 0 {
		view := r.baseView(nav)
		view.Title = "Tags"
		for _, g := range tags {
			view.Tags = append(view.Tags, tagLink{URL: tagURL(g.Slug), Name: g.Name, Count: len(g.Posts)})
		}
		docs = append(docs, r.document(assets.TemplateTags, "/tags", idx[0].Date, view))

		for _, g := range tags {
			view := r.baseView(nav)
			view.Tag = g.Name
			view.Entries = r.entries(g.Posts, false)
			docs = append(docs, r.document(assets.TemplateTag, "/tags/"+g.Slug, g.Posts[0].Date, view))
		}
	}

	return docs, nil
}

// checkCollisions claims content slugs in source path order, then the
// generated slugs, and reports the first slug claimed twice.
func (r *Resolver) checkCollisions(idx Index, pages []*RenderedPage, tags []TagGroup, listingPages int) error {
	content := make([]*RenderedPage, 0, len(idx)+len(pages))
	content = append(content, idx...)
	content = append(content, pages...)
	slices.SortFunc(content, func(a, b *RenderedPage) int {
		return strings.Compare(a.SourcePath, b.SourcePath)
	})

	owners := make(map[string]string, len(content)+listingPages+len(tags)+1)
	claim := func(slug, source string) error {
		if first, ok := owners[slug]; ok {
			return &CollisionError{Slug: slug, First: first, Second: source}
		}
		owners[slug] = source
		return nil
	}

	for _, p := range content {
		if err := claim(p.Slug, p.SourcePath); err != nil {
			return err
		}
	}
	for n := 1; n <= listingPages; n++ {
		if err := claim(listingSlug(n), generatedSource); err != nil {
			return err
		}
	}
	if len(tags) > 0 {
		if err := claim("/tags", generatedSource); err != nil {
			return err
		}
	}
	for _, g := range tags {
		if err := claim("/tags/"+g.Slug, generatedSource); err != nil {
			return err
		}
	}
	return nil
}

// paginate splits the index into listing pages. An empty index still gets
// one (empty) listing page.
func (r *Resolver) paginate(idx Index) []Index {
	if r.pageSize <= 0 || len(idx) <= r.pageSize {
		return []Index{idx}
	}
	var chunks []Index
	for chunk := range slices.Chunk(idx, r.pageSize) {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func (r *Resolver) document(name, slug string, modified time.Time, view *pageView) Document {
	return Document{
		Path:     documentPath(slug),
		Slug:     slug,
		Modified: modified,
		Render:   r.templates.Component(name, view),
	}
}

// pageView is the data every template receives. Page templates read the
// fields relevant to them.
type pageView struct {
	Site Site
	Nav  []navLink

	Title    string
	Date     string
	DateISO  string
	HTML     template.HTML
	IssueURL string
	Tags     []tagLink

	Entries    []entryView
	Pagination *pagination
	Tag        string
}

type navLink struct {
	URL   string
	Title string
}

type tagLink struct {
	URL   string
	Name  string
	Count int
}

type entryView struct {
	URL     string
	Title   string
	Date    string
	DateISO string
	Excerpt string
}

type pagination struct {
	Page    int
	Total   int
	PrevURL string
	NextURL string
}

func (r *Resolver) baseView(nav []navLink) *pageView {
	return &pageView{Site: r.site, Nav: nav}
}

func (r *Resolver) postView(p *RenderedPage, nav []navLink) *pageView {
	view := r.baseView(nav)
	view.Title = p.Title
	view.Date = r.dates.Format(p.Date)
	view.DateISO = p.Date.Format(time.DateOnly)
	view.HTML = template.HTML(p.HTML) // #nosec G203 -- rendered without raw HTML passthrough
	view.IssueURL = r.site.IssuesURL
	for _, tag := range p.Tags {
		if slug := pipeline.TagSlug(tag); slug != "" {
			view.Tags = append(view.Tags, tagLink{URL: tagURL(slug), Name: tag})
		}
	}
	return view
}

func (r *Resolver) standaloneView(p *RenderedPage, nav []navLink) *pageView {
	view := r.baseView(nav)
	view.Title = p.Title
	view.HTML = template.HTML(p.HTML) // #nosec G203 -- rendered without raw HTML passthrough
	if !p.Date.IsZero() {
		view.Date = r.dates.Format(p.Date)
		view.DateISO = p.Date.Format(time.DateOnly)
	}
	return view
}

func (r *Resolver) entries(posts []*RenderedPage, withExcerpt bool) []entryView {
	out := make([]entryView, 0, len(posts))
	for _, p := range posts {
		e := entryView{
			URL:     pageURL(p.Slug),
			Title:   p.Title,
			Date:    r.dates.Format(p.Date),
			DateISO: p.Date.Format(time.DateOnly),
		}
		if withExcerpt {
			e.Excerpt = p.Excerpt
		}
		out = append(out, e)
	}
	return out
}

// nav links the standalone pages by slug, then the tag overview.
func (r *Resolver) nav(pages []*RenderedPage, tags []TagGroup) []navLink {
	sorted := slices.Clone(pages)
	slices.SortFunc(sorted, func(a, b *RenderedPage) int {
		return strings.Compare(a.Slug, b.Slug)
	})

	links := make([]navLink, 0, len(sorted)+1)
	for _, p := range sorted {
		links = append(links, navLink{URL: pageURL(p.Slug), Title: p.Title})
	}
	if len(tags) > 0 {
		links = append(links, navLink{URL: "/tags/", Title: "Tags"})
	}
	return links
}

func paginationView(page, total int) *pagination {
	if total <= 1 {
		return nil
	}
	p := &pagination{Page: page, Total: total}
	if page > 1 {
		p.PrevURL = pageURL(listingSlug(page - 1))
	}
	if page < total {
		p.NextURL = pageURL(listingSlug(page + 1))
	}
	return p
}

func listingSlug(page int) string {
	if page <= 1 {
		return "/"
	}
	return fmt.Sprintf("/page/%d", page)
}

func tagURL(slug string) string {
	return "/tags/" + slug + "/"
}

// pageURL is the link target of a slug: "/" or "/<slug>/".
func pageURL(slug string) string {
	if slug == "/" {
		return "/"
	}
	return slug + "/"
}

// documentPath maps a slug to its file: "/a/b" gives "a/b/index.html".
func documentPath(slug string) string {
	trimmed := strings.Trim(slug, "/")
	if trimmed == "" {
		return "index.html"
	}
	return trimmed + "/index.html"
}
