package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "paragraph then heading",
			input:        "hello\n# Title",
			wantContains: []string{"<p>hello</p>", `<h1 id="title">Title</h1>`},
		},
		{
			name:         "fenced code keeps language class",
			input:        "```go\nfunc main() {}\n```",
			wantContains: []string{`<pre><code class="language-go">func main() {}`},
		},
		{
			name:         "table",
			input:        "| A | B |\n|---|---|\n| 1 | 2 |",
			wantContains: []string{"<table>", "<th>A</th>", "<td>2</td>"},
		},
		{
			name:         "strikethrough",
			input:        "~~gone~~",
			wantContains: []string{"<del>gone</del>"},
		},
		{
			name:         "task list",
			input:        "- [x] done\n- [ ] todo",
			wantContains: []string{`type="checkbox"`, "checked"},
		},
		{
			name:         "autolink",
			input:        "see https://example.com",
			wantContains: []string{`<a href="https://example.com">`},
		},
		{
			name:         "footnote",
			input:        "text[^1]\n\n[^1]: note",
			wantContains: []string{`class="footnotes"`},
		},
		{
			name:         "raw HTML omitted",
			input:        "<script>alert(1)</script>\n\ntext",
			wantExcludes: []string{"<script>"},
			wantContains: []string{"<p>text</p>"},
		},
		{
			name:         "single newline is not a break by default",
			input:        "a\nb",
			wantContains: []string{"<p>a\nb</p>"},
			wantExcludes: []string{"<br"},
		},
	}

	converter := NewGoldmarkConverter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := converter.ToHTML(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML() = %q, missing %q", got, want)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("ToHTML() = %q, should not contain %q", got, exclude)
				}
			}
		})
	}
}

func TestGoldmarkConverter_HardWraps(t *testing.T) {
	t.Parallel()

	got, err := NewGoldmarkConverter(WithHardWraps(true)).ToHTML(context.Background(), "a\nb")
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	if !strings.Contains(got, "<br") {
		t.Errorf("ToHTML() = %q, want a line break", got)
	}
}

func TestGoldmarkConverter_Emoji(t *testing.T) {
	t.Parallel()

	plain, err := NewGoldmarkConverter().ToHTML(context.Background(), "ship it :rocket:")
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	if !strings.Contains(plain, ":rocket:") {
		t.Errorf("ToHTML() = %q, shortcode should be kept without WithEmoji", plain)
	}

	got, err := NewGoldmarkConverter(WithEmoji(true)).ToHTML(context.Background(), "ship it :rocket:")
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	if strings.Contains(got, ":rocket:") {
		t.Errorf("ToHTML() = %q, shortcode should be replaced", got)
	}
}

func TestGoldmarkConverter_EmptyInput(t *testing.T) {
	t.Parallel()

	got, err := NewGoldmarkConverter().ToHTML(context.Background(), "")
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	if got != "" {
		t.Errorf("ToHTML(\"\") = %q, want empty", got)
	}
}

func TestGoldmarkConverter_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkConverter().ToHTML(ctx, "# Title")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want context.Canceled", err)
	}
}
