// Package config loads and validates the site configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rationaleemotions/sitegen/internal/dateutil"
	"github.com/rationaleemotions/sitegen/internal/fileutil"
	"github.com/rationaleemotions/sitegen/internal/pipeline"
	"github.com/rationaleemotions/sitegen/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// DefaultName is the config name looked up when none is given.
const DefaultName = "sitegen"

// Field length limits.
const (
	MaxTitleLength       = 200
	MaxAuthorLength      = 100
	MaxDescriptionLength = 500
	MaxURLLength         = 2048
	MaxPathLength        = 4096
	MaxExtensionLength   = 16
	MaxWorkers           = 32
	MaxPageSize          = 1000
)

// Config holds everything a build reads from sitegen.yaml.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Content   ContentConfig   `yaml:"content"`
	Output    OutputConfig    `yaml:"output"`
	Listing   ListingConfig   `yaml:"listing"`
	Highlight HighlightConfig `yaml:"highlight"`
	Assets    AssetsConfig    `yaml:"assets"`
	Build     BuildConfig     `yaml:"build"`
}

// SiteConfig is the metadata passed to every template.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"baseURL"`    // Absolute URL; enables feed.xml and sitemap.xml
	IssuesURL   string `yaml:"issuesURL"`  // "Log an issue" link target on posts
	DateFormat  string `yaml:"dateFormat"` // Token format or preset (default "DD MMMM, YYYY")
}

// ContentConfig defines where posts and standalone pages live.
type ContentConfig struct {
	Dir        string   `yaml:"dir"`
	PagesDir   string   `yaml:"pagesDir"`   // Empty = no standalone pages
	Extensions []string `yaml:"extensions"` // Default .md, .markdown
	Drafts     bool     `yaml:"drafts"`     // Include draft: true posts
}

// OutputConfig defines the output root.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ListingConfig defines the index listing.
type ListingConfig struct {
	PageSize      int `yaml:"pageSize"`      // 0 = single listing page
	ExcerptLength int `yaml:"excerptLength"` // Bytes before the ellipsis
}

// HighlightConfig selects the Chroma style written to css/chroma.css.
type HighlightConfig struct {
	Style string `yaml:"style"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// BuildConfig tunes the build itself.
type BuildConfig struct {
	Workers int `yaml:"workers"` // 0 = derived from GOMAXPROCS
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Title:      "Rationale Emotions",
			DateFormat: dateutil.DefaultDisplayFormat,
		},
		Content: ContentConfig{
			Dir:        "content",
			Extensions: []string{".md", ".markdown"},
		},
		Output:    OutputConfig{Dir: "public"},
		Listing:   ListingConfig{ExcerptLength: pipeline.DefaultExcerptBudget},
		Highlight: HighlightConfig{Style: pipeline.DefaultStyle},
	}
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"site.title", c.Site.Title, MaxTitleLength},
		{"site.author", c.Site.Author, MaxAuthorLength},
		{"site.description", c.Site.Description, MaxDescriptionLength},
		{"site.baseURL", c.Site.BaseURL, MaxURLLength},
		{"site.issuesURL", c.Site.IssuesURL, MaxURLLength},
		{"site.dateFormat", c.Site.DateFormat, dateutil.MaxDateFormatLength},
		{"content.dir", c.Content.Dir, MaxPathLength},
		{"content.pagesDir", c.Content.PagesDir, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, check := range checks {
		if err := validateFieldLength(check.field, check.value, check.max); err != nil {
			return err
		}
	}

	if err := validateAbsoluteURL("site.baseURL", c.Site.BaseURL); err != nil {
		return err
	}
	if err := validateAbsoluteURL("site.issuesURL", c.Site.IssuesURL); err != nil {
		return err
	}
	if c.Site.DateFormat != "" {
		if _, err := dateutil.ParseDateFormat(c.Site.DateFormat); err != nil {
			return fmt.Errorf("%w: site.dateFormat: %v", ErrInvalidValue, err)
		}
	}

	for i, ext := range c.Content.Extensions {
		field := fmt.Sprintf("content.extensions[%d]", i)
		if err := validateFieldLength(field, ext, MaxExtensionLength); err != nil {
			return err
		}
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 || strings.ContainsAny(ext, `/\`) {
			return fmt.Errorf("%w: %s: %q must look like \".md\"", ErrInvalidValue, field, ext)
		}
	}

	if c.Listing.PageSize < 0 || c.Listing.PageSize > MaxPageSize {
		return fmt.Errorf("%w: listing.pageSize: must be between 0 and %d, got %d", ErrInvalidValue, MaxPageSize, c.Listing.PageSize)
	}
	if c.Listing.ExcerptLength < 0 {
		return fmt.Errorf("%w: listing.excerptLength: must not be negative, got %d", ErrInvalidValue, c.Listing.ExcerptLength)
	}
	if c.Build.Workers < 0 || c.Build.Workers > MaxWorkers {
		return fmt.Errorf("%w: build.workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Build.Workers)
	}
	if c.Highlight.Style != "" && !pipeline.StyleExists(c.Highlight.Style) {
		return fmt.Errorf("%w: highlight.style: unknown style %q", ErrInvalidValue, c.Highlight.Style)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateAbsoluteURL accepts "" or an absolute http(s) URL.
func validateAbsoluteURL(field, value string) error {
	if value == "" {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s: %q is not an absolute http(s) URL", ErrInvalidValue, field, value)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isConfigPath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isConfigPath returns true for paths and for names that carry a YAML extension.
func isConfigPath(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return fileutil.IsFilePath(s) || ext == ".yaml" || ext == ".yml"
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/sitegen/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "sitegen", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
