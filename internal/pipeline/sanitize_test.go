package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPolicySanitizer_Sanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "script element removed",
			input:        `<p>hi</p><script>alert(1)</script>`,
			wantContains: []string{"<p>hi</p>"},
			wantExcludes: []string{"<script", "alert(1)"},
		},
		{
			name:         "event handler removed",
			input:        `<img src="a.png" onerror="alert(1)">`,
			wantContains: []string{`src="a.png"`},
			wantExcludes: []string{"onerror"},
		},
		{
			name:         "javascript URL removed",
			input:        `<a href="javascript:alert(1)">x</a>`,
			wantExcludes: []string{"javascript:"},
		},
		{
			name:         "heading id kept",
			input:        `<h1 id="title">Title</h1>`,
			wantContains: []string{`<h1 id="title">Title</h1>`},
		},
		{
			name:         "code language class kept",
			input:        `<pre><code class="language-go">x</code></pre>`,
			wantContains: []string{`<code class="language-go">`},
		},
		{
			name:         "code lang class kept",
			input:        `<pre><code class="lang-python">x</code></pre>`,
			wantContains: []string{`<code class="lang-python">`},
		},
		{
			name:         "language class on span dropped",
			input:        `<span class="language-go">x</span>`,
			wantExcludes: []string{"class="},
		},
		{
			name:         "arbitrary code class dropped",
			input:        `<pre><code class="evil thing">x</code></pre>`,
			wantExcludes: []string{"evil"},
		},
		{
			name:         "task list checkbox kept",
			input:        `<ul><li><input checked="" disabled="" type="checkbox"> done</li></ul>`,
			wantContains: []string{`type="checkbox"`},
		},
		{
			name:         "text input dropped type",
			input:        `<input type="text" value="x">`,
			wantExcludes: []string{`type="text"`, "value"},
		},
		{
			name:         "iframe removed",
			input:        `<iframe src="https://example.com"></iframe>`,
			wantExcludes: []string{"<iframe"},
		},
	}

	sanitizer := NewSanitizer()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := sanitizer.Sanitize(tt.input).String()
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize() = %q, missing %q", got, want)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("Sanitize() = %q, should not contain %q", got, exclude)
				}
			}
		})
	}
}

func TestTrustedHTML(t *testing.T) {
	t.Parallel()

	var zero TrustedHTML
	if !zero.IsZero() {
		t.Error("zero TrustedHTML should report IsZero")
	}

	h := NewSanitizer().Sanitize("<p>x</p>")
	if h.IsZero() {
		t.Error("sanitized markup should not report IsZero")
	}
	if string(h.HTML()) != h.String() {
		t.Errorf("HTML() = %q, String() = %q, want equal", h.HTML(), h.String())
	}
}

func TestErrorHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "fetch failure",
			err:      &AcquisitionError{StatusCode: 404, Status: "Not Found", Err: ErrFetch},
			expected: `<p class="error">Error: failed to fetch: 404 Not Found</p>`,
		},
		{
			name:     "no content",
			err:      &AcquisitionError{Err: ErrNoContent},
			expected: `<p class="error">Error: no content found in markdown file</p>`,
		},
		{
			name:     "message escaped",
			err:      fmt.Errorf("bad <b>input</b> & more: %w", errors.New("x")),
			expected: `<p class="error">Error: bad &lt;b&gt;input&lt;/b&gt; &amp; more: x</p>`,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: `<p class="error">Error: unknown error</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ErrorHTML(tt.err).String(); got != tt.expected {
				t.Errorf("ErrorHTML() = %q, want %q", got, tt.expected)
			}
		})
	}
}
