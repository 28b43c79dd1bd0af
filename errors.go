package sitegen

import (
	"errors"
	"fmt"
)

// Sentinel errors for build operations.
var (
	ErrConfiguration        = errors.New("invalid configuration")
	ErrMalformedFrontmatter = errors.New("malformed front-matter")
	ErrSlugCollision        = errors.New("slug collision")
	ErrRender               = errors.New("render failed")
	ErrRead                 = errors.New("read failed")
	ErrWrite                = errors.New("write failed")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrTemplateParse    = errors.New("template parsing failed")
)

// RecordError is a per-record failure. The build continues without the
// record and ends in the Failed state.
type RecordError struct {
	Path string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// CollisionError reports two sources that resolve to the same slug.
// Second is "(generated)" when the slug belongs to a listing or tag page.
type CollisionError struct {
	Slug   string
	First  string
	Second string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%v: %s is produced by both %s and %s", ErrSlugCollision, e.Slug, e.First, e.Second)
}

func (e *CollisionError) Unwrap() error {
	return ErrSlugCollision
}
