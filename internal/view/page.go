package view

import (
	"errors"
	"fmt"
	"html/template"
	"io"
)

// ErrPageRender indicates the viewer page template failed to execute.
var ErrPageRender = errors.New("viewer page rendering failed")

// Page holds everything the viewer template needs.
type Page struct {
	Title    string
	Layout   Layout
	Rendered template.HTML // Sanitized output for the rendered pane
	Source   string        // Raw Markdown, escaped by the template
	CSS      template.CSS
	Failed   bool // Rendered holds an error message instead of a document
}

// PageRenderer executes the viewer page template.
type PageRenderer struct {
	tmpl *template.Template
}

// NewPageRenderer parses the viewer template.
// Returns error if the template cannot be parsed.
func NewPageRenderer(tmplContent string) (*PageRenderer, error) {
	tmpl, err := template.New("viewer").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing viewer template: %w", err)
	}
	return &PageRenderer{tmpl: tmpl}, nil
}

// Render writes the complete HTML page to w.
func (r *PageRenderer) Render(w io.Writer, p *Page) error {
	if p == nil {
		return fmt.Errorf("%w: nil page", ErrPageRender)
	}
	if err := r.tmpl.Execute(w, p); err != nil {
		return fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return nil
}
