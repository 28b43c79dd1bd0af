package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed styles/*.css templates/*.html
var builtin embed.FS

// EmbeddedLoader loads the built-in theme compiled into the binary.
type EmbeddedLoader struct {
	fsys fs.FS
}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{fsys: builtin}
}

// LoadStyle loads styles/{name}.css from the built-in theme.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.read("styles/"+name+".css", name, ErrStyleNotFound)
}

// LoadTemplate loads templates/{name}.html from the built-in theme.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.read("templates/"+name+".html", name, ErrTemplateNotFound)
}

func (e *EmbeddedLoader) read(path, name string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := fs.ReadFile(e.fsys, path)
	if err != nil {
		return "", fmt.Errorf("%w: %q", notFound, name)
	}
	return string(content), nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
