package assets

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeAsset creates base/rel with content, creating parent directories.
func writeAsset(t *testing.T, base, rel, content string) {
	t.Helper()
	path := filepath.Join(base, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "empty path",
			path:    func(t *testing.T) string { return "" },
			wantErr: ErrInvalidBasePath,
		},
		{
			name:    "nonexistent directory",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") },
			wantErr: ErrInvalidBasePath,
		},
		{
			name: "file instead of directory",
			path: func(t *testing.T) string {
				dir := t.TempDir()
				writeAsset(t, dir, "file.txt", "x")
				return filepath.Join(dir, "file.txt")
			},
			wantErr: ErrInvalidBasePath,
		},
		{
			name: "valid directory",
			path: func(t *testing.T) string { return t.TempDir() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loader, err := NewFilesystemLoader(tt.path(t))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewFilesystemLoader() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || loader == nil {
				t.Fatalf("NewFilesystemLoader() = (%v, %v), want loader", loader, err)
			}
		})
	}
}

func TestFilesystemLoader_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "styles/site.css", "body { color: red; }")
	writeAsset(t, dir, "templates/post.html", `{{define "content"}}custom{{end}}`)

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	style, err := loader.LoadStyle("site")
	if err != nil || style != "body { color: red; }" {
		t.Errorf("LoadStyle(site) = (%q, %v)", style, err)
	}

	tmpl, err := loader.LoadTemplate("post")
	if err != nil || tmpl != `{{define "content"}}custom{{end}}` {
		t.Errorf("LoadTemplate(post) = (%q, %v)", tmpl, err)
	}

	if _, err := loader.LoadStyle("other"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(other) error = %v, want ErrStyleNotFound", err)
	}
	if _, err := loader.LoadTemplate("layout"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(layout) error = %v, want ErrTemplateNotFound", err)
	}
	if _, err := loader.LoadTemplate("../post"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadTemplate(../post) error = %v, want ErrInvalidAssetName", err)
	}
}

func TestFilesystemLoader_PathContainment(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}

	outside := t.TempDir()
	writeAsset(t, outside, "secret.html", "secret")

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "templates", "post.html")
	if err := os.Symlink(filepath.Join(outside, "secret.html"), link); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	if _, err := loader.LoadTemplate("post"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadTemplate() through escaping symlink error = %v, want ErrPathTraversal", err)
	}
}
