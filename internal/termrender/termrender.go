// Package termrender writes attachments to a terminal.
//
// The rendered view is styled by glamour; the source view prints the raw
// Markdown unchanged. Both honour the same two-state view model as the HTML
// page.
package termrender

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"github.com/alnah/go-mdview/internal/view"
)

// AutoStyle selects a dark or light style from the terminal background.
const AutoStyle = "auto"

// ErrUnknownStyle indicates a style that is neither built in nor a JSON file.
var ErrUnknownStyle = errors.New("unknown terminal style")

// Renderer renders Markdown for the terminal.
// A new glamour renderer is built per call, so a Renderer is safe for
// concurrent use.
type Renderer struct {
	opts []glamour.TermRendererOption
}

// New creates a Renderer. style is "auto", a built-in glamour style name
// (dark, light, notty, ascii, dracula, ...) or the path to a JSON style file.
// wordWrap is the wrap column; 0 disables wrapping.
func New(style string, wordWrap int) (*Renderer, error) {
	if wordWrap < 0 {
		return nil, fmt.Errorf("word wrap must not be negative, got %d", wordWrap)
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wordWrap)}

	name := strings.ToLower(strings.TrimSpace(style))
	switch {
	case name == "" || name == AutoStyle:
		opts = append(opts, glamour.WithAutoStyle())
	case styles.DefaultStyles[name] != nil:
		opts = append(opts, glamour.WithStandardStyle(name))
	default:
		if _, err := os.Stat(style); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, style)
		}
		opts = append(opts, glamour.WithStylesFromJSONFile(style))
	}

	// Fail early on unreadable style files
	if _, err := glamour.NewTermRenderer(opts...); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownStyle, err)
	}

	return &Renderer{opts: opts}, nil
}

// StyleNames lists the built-in glamour styles in sorted order.
func StyleNames() []string {
	names := make([]string, 0, len(styles.DefaultStyles)+1)
	names = append(names, AutoStyle)
	for name := range styles.DefaultStyles {
		names = append(names, name)
	}
	sort.Strings(names[1:])
	return names
}

// Render styles Markdown for the terminal.
func (r *Renderer) Render(markdown string) (string, error) {
	tr, err := glamour.NewTermRenderer(r.opts...)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}
	out, err := tr.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// Write writes one attachment in the given view. When renderErr is set the
// error message replaces the rendered output, mirroring the HTML error pane;
// the source view still prints source (empty after a failed acquisition).
func (r *Renderer) Write(w io.Writer, source string, renderErr error, state view.State) error {
	if state == view.Source {
		_, err := io.WriteString(w, source)
		return err
	}

	if renderErr != nil {
		_, err := fmt.Fprintf(w, "Error: %v\n", renderErr)
		return err
	}

	out, err := r.Render(source)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
