package sitegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/rationaleemotions/sitegen/internal/fileutil"
	"github.com/rationaleemotions/sitegen/internal/logging"
	"github.com/rationaleemotions/sitegen/internal/retry"
)

// Output permissions. The site is meant to be served publicly.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// stagePattern names staging directories next to the output root.
const stagePattern = ".sitegen-*"

// writer renders documents into a staging directory and swaps it in for
// the output root. On error the previous output is left as it was.
type writer struct {
	outDir string
	limit  int
	retry  retry.Policy
	logger *slog.Logger
}

// write renders and stores every document, then replaces the output root.
func (w *writer) write(ctx context.Context, docs []Document) (err error) {
	out, err := filepath.Abs(w.outDir)
	if err != nil {
		return fmt.Errorf("%w: output dir %q: %w", ErrWrite, w.outDir, err)
	}

	parent := filepath.Dir(out)
	if err := os.MkdirAll(parent, dirPerm); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	stage, err := os.MkdirTemp(parent, stagePattern)
	if err != nil {
		return fmt.Errorf("%w: creating staging dir: %w", ErrWrite, err)
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(stage)
		}
	}()
	if err := os.Chmod(stage, dirPerm); err != nil { // #nosec G302 -- public site output
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(w.limit, 1))
	for _, doc := range docs {
		g.Go(func() error {
			return w.writeDocument(gctx, stage, doc)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return w.swap(stage, out)
}

func (w *writer) writeDocument(ctx context.Context, stage string, doc Document) error {
	var buf bytes.Buffer
	if err := doc.Render.Render(ctx, &buf); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s: %w", ErrRender, doc.Path, err)
	}

	path := filepath.Join(stage, filepath.FromSlash(doc.Path))
	if !fileutil.IsWithin(stage, path) || path == stage {
		return fmt.Errorf("%w: %s: %w", ErrWrite, doc.Path, fileutil.ErrPathEscapesDir)
	}

	err := w.retry.Do(ctx, func() error {
		if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
			return err
		}
		return fileutil.WriteFileAtomic(path, buf.Bytes(), filePerm)
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, doc.Path, err)
	}
	return nil
}

// swap moves stage to out. An existing output root is set aside first and
// restored if the final rename fails.
func (w *writer) swap(stage, out string) error {
	info, err := os.Stat(out)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.Rename(stage, out); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("%w: %w", ErrWrite, err)
	case !info.IsDir():
		return fmt.Errorf("%w: %s: %w", ErrWrite, out, fileutil.ErrNotDirectory)
	}

	old := stage + ".old"
	if err := os.Rename(out, old); err != nil {
		return fmt.Errorf("%w: moving previous output aside: %w", ErrWrite, err)
	}
	if err := os.Rename(stage, out); err != nil {
		if restoreErr := os.Rename(old, out); restoreErr != nil {
			return fmt.Errorf("%w: %w (previous output left at %s: %v)", ErrWrite, err, old, restoreErr)
		}
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.RemoveAll(old); err != nil {
		w.logger.Warn("could not remove previous output", logging.Path(old), logging.Error(err))
	}
	return nil
}
