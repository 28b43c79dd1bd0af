package sitegen

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/rationaleemotions/sitegen/internal/assets"
)

// Templates renders page views inside the site layout. Each page template
// is parsed once against its own copy of the layout.
type Templates struct {
	pages map[string]*template.Template
}

// NewTemplates parses a template set. Parse errors wrap ErrTemplateParse.
func NewTemplates(ts *assets.TemplateSet) (*Templates, error) {
	layout, err := template.New(assets.TemplateLayout).Parse(ts.Layout)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, assets.TemplateLayout, err)
	}

	t := &Templates{pages: make(map[string]*template.Template, len(assets.PageTemplates))}
	for _, name := range assets.PageTemplates {
		clone, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, name, err)
		}
		if _, err := clone.New(name).Parse(ts.Pages[name]); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, name, err)
		}
		t.pages[name] = clone
	}
	return t, nil
}

// Component binds a page template to its view. Rendering has no side
// effects beyond writing to w.
func (t *Templates) Component(name string, view *pageView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		tmpl, ok := t.pages[name]
		if !ok {
			return fmt.Errorf("%w: unknown template %q", ErrRender, name)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, assets.TemplateLayout, view); err != nil {
			return fmt.Errorf("%w: template %s: %v", ErrRender, name, err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// rawComponent writes fixed bytes, for stylesheets.
func rawComponent(data []byte) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
