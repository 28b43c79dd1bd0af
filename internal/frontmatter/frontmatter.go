// Package frontmatter splits a content file into its YAML header and
// Markdown body and decodes the header fields the site uses.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/rationaleemotions/sitegen/internal/dateutil"
	"github.com/rationaleemotions/sitegen/internal/yamlutil"
)

// Sentinel errors for header problems.
var (
	ErrMissing      = errors.New("no front-matter block")
	ErrSyntax       = errors.New("front-matter is not valid YAML")
	ErrMissingField = errors.New("required front-matter field missing")
	ErrInvalidField = errors.New("invalid front-matter field")
)

// yamlFormat only accepts "---" fences, decoded with the shared YAML parser.
var yamlFormat = frontmatter.NewFormat("---", "---", yamlutil.Unmarshal)

// Metadata holds the decoded header fields.
type Metadata struct {
	Title string
	Date  time.Time // zero when absent
	Tags  []string  // authored order, duplicates removed
	Draft bool
}

// HasDate reports whether the header carried a date.
func (m Metadata) HasDate() bool {
	return !m.Date.IsZero()
}

// rawHeader mirrors the YAML before normalization. Dates may decode as
// strings or timestamps; tags may be a list or a comma-separated string.
type rawHeader struct {
	Title string `yaml:"title"`
	Date  any    `yaml:"date"`
	Tags  any    `yaml:"tags"`
	Draft bool   `yaml:"draft"`
}

// Parse splits content into metadata and body. Only the title is
// required here; callers that need a date check HasDate.
func Parse(content []byte) (Metadata, []byte, error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))

	var raw rawHeader
	body, err := frontmatter.MustParse(bytes.NewReader(content), &raw, yamlFormat)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return Metadata{}, nil, ErrMissing
		}
		if errors.Is(err, yamlutil.ErrNilData) {
			return Metadata{}, nil, fmt.Errorf("%w: title", ErrMissingField)
		}
		return Metadata{}, nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	meta := Metadata{
		Title: strings.TrimSpace(raw.Title),
		Draft: raw.Draft,
	}
	if meta.Title == "" {
		return Metadata{}, nil, fmt.Errorf("%w: title", ErrMissingField)
	}

	if meta.Date, err = parseDate(raw.Date); err != nil {
		return Metadata{}, nil, err
	}
	if meta.Tags, err = parseTags(raw.Tags); err != nil {
		return Metadata{}, nil, err
	}
	return meta, body, nil
}

// ParsePost is Parse plus the date requirement that applies to posts.
func ParsePost(content []byte) (Metadata, []byte, error) {
	meta, body, err := Parse(content)
	if err != nil {
		return Metadata{}, nil, err
	}
	if !meta.HasDate() {
		return Metadata{}, nil, fmt.Errorf("%w: date", ErrMissingField)
	}
	return meta, body, nil
}

func parseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return dateutil.Day(d), nil
	case string:
		if strings.TrimSpace(d) == "" {
			return time.Time{}, nil
		}
		t, err := dateutil.ParseDate(d)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: date: %v", ErrInvalidField, err)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("%w: date: unsupported value %v", ErrInvalidField, v)
	}
}

func parseTags(v any) ([]string, error) {
	var tags []string
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		tags = strings.Split(t, ",")
	case []any:
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				s = fmt.Sprint(item)
			}
			tags = append(tags, s)
		}
	case []string:
		tags = t
	default:
		return nil, fmt.Errorf("%w: tags: want list or string, got %T", ErrInvalidField, v)
	}
	return dedupe(tags), nil
}

// dedupe trims tags and drops empties and repeats, keeping first occurrence.
func dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
