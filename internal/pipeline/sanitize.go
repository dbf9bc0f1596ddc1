package pipeline

import (
	"html"
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// TrustedHTML is HTML that is safe to inject into the viewer page.
// Values are produced only by this package: by the sanitizer, by stages that
// transform trusted input, or by ErrorHTML.
type TrustedHTML struct {
	s string
}

// String returns the HTML markup.
func (h TrustedHTML) String() string {
	return h.s
}

// HTML returns the markup typed for html/template.
func (h TrustedHTML) HTML() template.HTML {
	return template.HTML(h.s) // #nosec G203 -- content passed the sanitizer
}

// IsZero reports whether h holds no markup.
func (h TrustedHTML) IsZero() bool {
	return h.s == ""
}

// Sanitizer filters untrusted HTML.
type Sanitizer interface {
	Sanitize(untrusted string) TrustedHTML
}

// languageClass matches code language classes such as language-go,
// language-c++ or lang-python.
var languageClass = regexp.MustCompile(`^(?:language|lang)-[\w+#.-]+$`)

// PolicySanitizer applies a bluemonday policy tuned for rendered Markdown.
// It is safe for concurrent use.
type PolicySanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a PolicySanitizer based on bluemonday's UGC policy,
// extended with GFM task list checkboxes and code language classes.
func NewSanitizer() *PolicySanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(languageClass).OnElements("code")
	p.AllowElements("input")
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	return &PolicySanitizer{policy: p}
}

// Sanitize strips elements and attributes outside the policy.
func (s *PolicySanitizer) Sanitize(untrusted string) TrustedHTML {
	return TrustedHTML{s: s.policy.Sanitize(untrusted)}
}

// ErrorHTML renders err as the visible error message of the output pane.
// The message is escaped.
func ErrorHTML(err error) TrustedHTML {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return TrustedHTML{s: `<p class="error">Error: ` + html.EscapeString(msg) + `</p>`}
}
