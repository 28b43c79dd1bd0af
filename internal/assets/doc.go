// Package assets provides the stylesheet and HTML templates a site is
// rendered with. Assets can be loaded from embedded files or a custom
// filesystem path.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in theme)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver falls back per asset, so a custom directory may override
// only post.html and keep every other built-in template.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── site.css
//	└── templates/
//	    ├── layout.html   # page shell, calls {{template "content" .}}
//	    ├── post.html     # detail page
//	    ├── index.html    # listing
//	    ├── tags.html     # tag overview
//	    ├── tag.html      # per-tag listing
//	    └── page.html     # standalone page
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
