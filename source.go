package sitegen

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rationaleemotions/sitegen/internal/fileutil"
	"github.com/rationaleemotions/sitegen/internal/retry"
)

// Source discovers content files under a root directory.
type Source struct {
	root  string
	exts  []string
	retry retry.Policy
}

// NewSource checks that root is a readable directory. Without exts the
// DefaultExtensions are used.
func NewSource(root string, exts ...string) (*Source, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: content root %q: %v", ErrConfiguration, root, err)
	}
	if err := fileutil.RequireDir(abs); err != nil {
		return nil, fmt.Errorf("%w: content root %q: %w", ErrConfiguration, root, err)
	}
	return &Source{root: abs, exts: exts, retry: retry.DefaultPolicy()}, nil
}

// Root returns the absolute content root.
func (s *Source) Root() string {
	return s.root
}

// Records yields one record per content file in lexicographic path order.
// Files are read one at a time as the sequence is consumed. A yielded error
// is fatal and ends the sequence.
func (s *Source) Records(ctx context.Context) iter.Seq2[ContentRecord, error] {
	return func(yield func(ContentRecord, error) bool) {
		paths, err := s.paths()
		if err != nil {
			yield(ContentRecord{}, err)
			return
		}

		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				yield(ContentRecord{}, err)
				return
			}

			var body []byte
			err := s.retry.Do(ctx, func() error {
				var readErr error
				body, readErr = os.ReadFile(path) // #nosec G304 -- path comes from walking the content root
				return readErr
			})
			if err != nil {
				yield(ContentRecord{}, fmt.Errorf("%w: %s: %w", ErrRead, path, err))
				return
			}

			if !yield(ContentRecord{Path: path, Root: s.root, RawBody: body}, nil) {
				return
			}
		}
	}
}

// paths walks the root and returns matching files sorted by path.
// Hidden directories are not descended into.
func (s *Source) paths() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && s.isContent(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walking %s: %w", ErrRead, s.root, err)
	}

	slices.SortFunc(paths, func(a, b string) int {
		return strings.Compare(filepath.ToSlash(a), filepath.ToSlash(b))
	})
	return paths, nil
}

func (s *Source) isContent(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range s.exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
