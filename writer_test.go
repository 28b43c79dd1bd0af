package sitegen

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/rationaleemotions/sitegen/internal/logging"
	"github.com/rationaleemotions/sitegen/internal/retry"
)

func newTestWriter(out string) *writer {
	return &writer{outDir: out, limit: 2, retry: retry.NoRetry(), logger: logging.Discard()}
}

func textDoc(path, content string) Document {
	return Document{Path: path, Render: rawComponent([]byte(content))}
}

func failingDoc(path string) Document {
	return Document{Path: path, Render: templ.ComponentFunc(func(context.Context, io.Writer) error {
		return errors.New("boom")
	})}
}

// ---------------------------------------------------------------------------
// TestWriter - Staged Output
// ---------------------------------------------------------------------------

func TestWriter_CreatesOutput(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "site", "public")
	w := newTestWriter(out)

	err := w.write(context.Background(), []Document{
		textDoc("index.html", "home"),
		textDoc("a/b/index.html", "nested"),
		textDoc("css/site.css", "body{}"),
	})
	if err != nil {
		t.Fatalf("write() unexpected error: %v", err)
	}

	if got := readOutput(t, out, "index.html"); got != "home" {
		t.Errorf("index.html = %q", got)
	}
	if got := readOutput(t, out, "a/b/index.html"); got != "nested" {
		t.Errorf("a/b/index.html = %q", got)
	}

	entries, err := os.ReadDir(filepath.Dir(out))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".sitegen-") {
			t.Errorf("staging directory %s left behind", e.Name())
		}
	}
}

func TestWriter_FilesAreWrittenAtomically(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "public")
	w := newTestWriter(out)

	err := w.write(context.Background(), []Document{
		textDoc("index.html", "home"),
		textDoc("post/index.html", "post"),
	})
	if err != nil {
		t.Fatalf("write() unexpected error: %v", err)
	}

	err = filepath.WalkDir(out, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if strings.HasSuffix(d.Name(), ".tmp") {
			t.Errorf("temporary file %s left behind", path)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if runtime.GOOS != "windows" && info.Mode().Perm() != filePerm {
			t.Errorf("%s mode = %v, want %v", path, info.Mode().Perm(), os.FileMode(filePerm))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WalkDir: %v", err)
	}
}

func TestWriter_ReplacesPreviousOutput(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "public")
	writeFile(t, out, "stale/index.html", "old")
	writeFile(t, out, "index.html", "old home")

	if err := newTestWriter(out).write(context.Background(), []Document{textDoc("index.html", "new home")}); err != nil {
		t.Fatalf("write() unexpected error: %v", err)
	}

	if got := readOutput(t, out, "index.html"); got != "new home" {
		t.Errorf("index.html = %q, want new home", got)
	}
	if _, err := os.Stat(filepath.Join(out, "stale")); !os.IsNotExist(err) {
		t.Errorf("stale output should be gone, stat err = %v", err)
	}
}

func TestWriter_FailureKeepsPreviousOutput(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "public")
	writeFile(t, out, "index.html", "old home")

	err := newTestWriter(out).write(context.Background(), []Document{
		textDoc("index.html", "new home"),
		failingDoc("broken/index.html"),
	})
	if !errors.Is(err, ErrRender) {
		t.Fatalf("write() error = %v, want ErrRender", err)
	}

	if got := readOutput(t, out, "index.html"); got != "old home" {
		t.Errorf("index.html = %q, previous output should be untouched", got)
	}

	entries, err := os.ReadDir(filepath.Dir(out))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("output parent has %d entries, want only the output root", len(entries))
	}
}

func TestWriter_RejectsEscapingPath(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "public")
	err := newTestWriter(out).write(context.Background(), []Document{textDoc("../evil.html", "x")})
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("write() error = %v, want ErrWrite", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Errorf("output should not exist after a failed first build, stat err = %v", statErr)
	}
}

func TestWriter_OutputIsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := writeFile(t, dir, "public", "not a directory")

	err := newTestWriter(out).write(context.Background(), []Document{textDoc("index.html", "x")})
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("write() error = %v, want ErrWrite", err)
	}
}
