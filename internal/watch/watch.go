// Package watch triggers debounced rebuilds when content files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rationaleemotions/sitegen/internal/logging"
)

// DefaultDebounce is the quiet period after the last event before a rebuild.
const DefaultDebounce = 500 * time.Millisecond

// ErrNoRoots indicates a watcher was created without directories.
var ErrNoRoots = errors.New("watch: no directories to watch")

// Watcher watches directory trees and runs a rebuild callback after
// changes settle. Rebuilds never overlap: events arriving during a
// rebuild are coalesced into the next one.
type Watcher struct {
	roots    []string
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a Watcher for the given directory trees. Empty roots are skipped.
func New(logger *slog.Logger, debounce time.Duration, roots ...string) (*Watcher, error) {
	var kept []string
	for _, r := range roots {
		if r != "" {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoRoots
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Watcher{roots: kept, debounce: debounce, logger: logger.With(logging.Component("watch"))}, nil
}

// Run blocks until ctx is done, calling rebuild after each settled burst
// of filesystem events.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	for _, root := range w.roots {
		if err := w.addDirsRecursive(fw, root); err != nil {
			return err
		}
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(fw, ev) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logging.Error(err))
		case <-timer.C:
			w.logger.Info("change detected; rebuilding")
			rebuild(ctx)
		}
	}
}

// handleEvent reports whether ev should schedule a rebuild, and starts
// watching newly created directories.
func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if ShouldIgnore(ev.Name) || ev.Op == fsnotify.Chmod {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(fw, ev.Name)
		}
	}
	w.logger.Debug("file change", logging.Path(ev.Name), "op", ev.Op.String())
	return true
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("watch %s: %w", root, err)
			}
			return nil
		}
		if d.IsDir() {
			if path != root && ShouldIgnore(path) {
				return filepath.SkipDir
			}
			if err := fw.Add(path); err != nil {
				w.logger.Warn("watch add failed", logging.Path(path), logging.Error(err))
			}
		}
		return nil
	})
}

// ShouldIgnore returns true for hidden files and editor temp/swap files.
func ShouldIgnore(path string) bool {
	base := filepath.Base(path)

	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasSuffix(base, ".tmp"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}
