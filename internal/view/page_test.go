package view

import (
	"bytes"
	"errors"
	"html/template"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/alnah/go-mdview/internal/assets"
)

func newViewerRenderer(t *testing.T) *PageRenderer {
	t.Helper()

	tmpl, err := assets.NewEmbeddedLoader().LoadTemplate(assets.DefaultTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	r, err := NewPageRenderer(tmpl)
	if err != nil {
		t.Fatalf("NewPageRenderer() error = %v", err)
	}
	return r
}

func TestPageRenderer_Render(t *testing.T) {
	t.Parallel()

	r := newViewerRenderer(t)

	tests := []struct {
		name         string
		state        State
		wantContains []string
	}{
		{
			name:  "rendered view",
			state: Rendered,
			wantContains: []string{
				`id="tab-html" class="tab active"`,
				`id="tab-source" class="tab"`,
				`id="markdown-output" class="markdown-body" style="display: block"`,
				`id="markdown-source" class="markdown-source" style="display: none"`,
			},
		},
		{
			name:  "source view",
			state: Source,
			wantContains: []string{
				`id="tab-html" class="tab"`,
				`id="tab-source" class="tab active"`,
				`id="markdown-output" class="markdown-body" style="display: none"`,
				`id="markdown-source" class="markdown-source" style="display: block"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			err := r.Render(&buf, &Page{
				Title:    "input.md",
				Layout:   LayoutFor(tt.state),
				Rendered: template.HTML("<h1>Title</h1>"),
				Source:   "# Title",
			})
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}

			got := buf.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("page missing %q", want)
				}
			}
			if !strings.Contains(got, "<h1>Title</h1>") {
				t.Error("rendered HTML not injected")
			}
		})
	}
}

func TestPageRenderer_EscapesSourceAndTitle(t *testing.T) {
	t.Parallel()

	r := newViewerRenderer(t)

	var buf bytes.Buffer
	err := r.Render(&buf, &Page{
		Title:  "<script>alert(1)</script>",
		Layout: LayoutFor(Rendered),
		Source: "<img src=x onerror=alert(1)>",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	got := buf.String()
	if strings.Contains(got, "<img src=x") {
		t.Error("source pane content was not escaped")
	}
	if !strings.Contains(got, "&lt;img src=x onerror=alert(1)&gt;") {
		t.Error("escaped source missing")
	}
	if strings.Contains(got, "<title><script>") {
		t.Error("title was not escaped")
	}
}

func TestPageRenderer_FailedPage(t *testing.T) {
	t.Parallel()

	r := newViewerRenderer(t)

	var buf bytes.Buffer
	err := r.Render(&buf, &Page{
		Layout:   LayoutFor(Rendered),
		Rendered: template.HTML(`<p class="error">Error: boom</p>`),
		Failed:   true,
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), `class="markdown-body failed"`) {
		t.Error("failed page does not mark the output pane")
	}
}

func TestPageRenderer_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewPageRenderer("{{.Broken"); err == nil {
		t.Error("NewPageRenderer() with invalid template: expected error")
	}

	r, err := NewPageRenderer("{{.Missing.Field}}")
	if err != nil {
		t.Fatalf("NewPageRenderer() error = %v", err)
	}
	if err := r.Render(&bytes.Buffer{}, &Page{}); !errors.Is(err, ErrPageRender) {
		t.Errorf("Render() error = %v, want ErrPageRender", err)
	}
	if err := r.Render(&bytes.Buffer{}, nil); !errors.Is(err, ErrPageRender) {
		t.Errorf("Render(nil) error = %v, want ErrPageRender", err)
	}
}

// sourcePaneText parses page and returns the text of #markdown-source as a
// browser would expose it.
func sourcePaneText(t *testing.T, page string) string {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("html.Parse() error = %v", err)
	}

	var pane *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == "markdown-source" {
				pane = n
				return
			}
		}
		for c := n.FirstChild; c != nil && pane == nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	if pane == nil {
		t.Fatal("page has no #markdown-source element")
	}

	var b strings.Builder
	for c := pane.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func TestPageRenderer_SourceVerbatim(t *testing.T) {
	t.Parallel()

	r := newViewerRenderer(t)

	for _, source := range []string{
		"\n# Title\n",
		"\n\nleading blank lines",
		"# No leading newline\n",
		"<script>alert(1)</script> & more",
	} {
		var buf bytes.Buffer
		if err := r.Render(&buf, &Page{Title: "t", Layout: LayoutFor(Source), Source: source}); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if got := sourcePaneText(t, buf.String()); got != source {
			t.Errorf("source pane text = %q, want %q", got, source)
		}
	}
}
