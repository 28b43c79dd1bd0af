package assets

import "fmt"

// Template names. Each page template defines "content" (and optionally
// "title") and is rendered inside TemplateLayout.
const (
	TemplateLayout = "layout"
	TemplatePost   = "post"
	TemplateIndex  = "index"
	TemplateTags   = "tags"
	TemplateTag    = "tag"
	TemplatePage   = "page"
)

// PageTemplates lists the templates rendered inside the layout.
var PageTemplates = []string{TemplatePost, TemplateIndex, TemplateTags, TemplateTag, TemplatePage}

// DefaultStyleName is the name of the built-in CSS style.
const DefaultStyleName = "site"

// TemplateSet holds the raw template sources for one site theme.
type TemplateSet struct {
	Layout string
	Pages  map[string]string // keyed by the Template* page names
}

// NewTemplateSet loads the layout and every page template through loader.
// A missing template is reported with ErrIncompleteTemplateSet.
func NewTemplateSet(loader AssetLoader) (*TemplateSet, error) {
	layout, err := loader.LoadTemplate(TemplateLayout)
	if err != nil {
		return nil, wrapIncomplete(TemplateLayout, err)
	}

	ts := &TemplateSet{Layout: layout, Pages: make(map[string]string, len(PageTemplates))}
	for _, name := range PageTemplates {
		content, err := loader.LoadTemplate(name)
		if err != nil {
			return nil, wrapIncomplete(name, err)
		}
		ts.Pages[name] = content
	}
	return ts, nil
}

func wrapIncomplete(name string, err error) error {
	if isNotFoundError(err) {
		return fmt.Errorf("%w: %s.html: %w", ErrIncompleteTemplateSet, name, err)
	}
	return err
}
