package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// testEnv returns an Environment with captured output and the given
// variables as the whole process environment.
func testEnv(vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
	}
	return env, stdout, stderr
}

// writeFile creates dir/rel with content, creating parent directories.
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

// writeConfig writes a sitegen.yaml in dir and returns its path.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	return writeFile(t, dir, "sitegen.yaml", content)
}

const helloPost = "---\ntitle: Hello\ndate: 2020-01-01\ntags: [go]\n---\n\nHello, world.\n"

// siteDirs creates a content dir holding one post and returns it along
// with a fresh output path.
func siteDirs(t *testing.T) (content, out string) {
	t.Helper()

	dir := t.TempDir()
	content = filepath.Join(dir, "content")
	writeFile(t, content, "2020-01-01-hello.md", helloPost)
	return content, filepath.Join(dir, "public")
}
