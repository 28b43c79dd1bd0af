package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShouldIgnore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"posts/hello.md", false},
		{"posts/.hello.md.swp", true},
		{"posts/hello.md~", true},
		{"posts/#hello.md#", true},
		{"posts/.git", true},
		{"posts/.sitegen-123/index.html.tmp", true},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ShouldIgnore(tt.path), tt.path)
	}
}

func TestNew_NoRoots(t *testing.T) {
	t.Parallel()

	_, err := New(nil, 0, "", "")
	require.True(t, errors.Is(err, ErrNoRoots))
}

func TestWatcher_RebuildsAfterChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(nil, 50*time.Millisecond, dir)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var rebuilds atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) {
			if rebuilds.Add(1) == 1 {
				cancel()
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	for i := range 3 {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "post.md"), []byte{byte('a' + i)}, 0o644))
	}

	require.NoError(t, <-done)
	require.GreaterOrEqual(t, rebuilds.Load(), int32(1))
}

func TestWatcher_MissingRoot(t *testing.T) {
	t.Parallel()

	w, err := New(nil, 0, filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	require.Error(t, w.Run(context.Background(), func(context.Context) {}))
}
