// Package sitegen builds a static blog from Markdown files.
//
// # Quick Start
//
// Create a builder and run one build:
//
//	b, err := sitegen.NewBuilder(
//	    sitegen.WithSite(sitegen.Site{Title: "Rationale Emotions"}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := b.Build(ctx, sitegen.Input{
//	    ContentDir: "content",
//	    OutputDir:  "public",
//	})
//	if err != nil {
//	    log.Fatal(err) // nothing was written
//	}
//	if report.State == sitegen.Failed {
//	    log.Print(report.Err()) // some records were skipped
//	}
//
// # Build Pipeline
//
// A build runs three stages:
//
//  1. Content Source: the content root is walked and every Markdown file is
//     read lazily, in lexicographic path order.
//  2. Content Transformer: the front-matter (title, date, tags) is parsed,
//     the body goes through Goldmark, relative links to other content files
//     are rewritten to slugs, code blocks are highlighted with Chroma, and
//     a plain-text excerpt is derived. Records are transformed in parallel.
//  3. Page Resolver: posts are sorted newest first, slugs are checked for
//     collisions, and detail, listing and tag pages are rendered through
//     the site templates.
//
// Output goes to a staging directory next to the output root and replaces
// it only when every file was written.
//
// # Output Layout
//
//	public/
//	├── index.html                 listing (page 1)
//	├── page/2/index.html          listing pages with WithPageSize
//	├── 2020-01-01-hello/index.html
//	├── about/index.html           standalone pages from Input.PagesDir
//	├── tags/index.html
//	├── tags/go/index.html
//	├── css/site.css
//	├── css/chroma.css
//	├── feed.xml                   with Site.BaseURL
//	└── sitemap.xml                with Site.BaseURL
//
// # Errors
//
// A record with a malformed front-matter or a failed render is reported in
// Report.Failures and left out; the build ends Failed. Invalid input
// (ErrConfiguration), duplicate slugs (ErrSlugCollision) and I/O failures
// (ErrRead, ErrWrite) abort the build before the output is touched.
//
// # Custom Assets
//
// WithAssetPath points at a directory laid out like the embedded theme:
//
//	assets/
//	├── styles/
//	│   └── site.css
//	└── templates/
//	    ├── layout.html
//	    ├── post.html
//	    ├── index.html
//	    ├── tags.html
//	    ├── tag.html
//	    └── page.html
//
// Files missing from the directory fall back to the embedded ones.
package sitegen
