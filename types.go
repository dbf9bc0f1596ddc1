package mdview

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alnah/go-mdview/internal/pipeline"
	"github.com/alnah/go-mdview/internal/view"
)

// Attachment names one Markdown document and where to obtain it.
type Attachment struct {
	Name string
	URL  string // data:, http(s):, file: URL or local path
}

// Title returns the name shown in the page title: the attachment name, or
// the display form of its URL when unnamed. Long data URLs are shortened.
func (a Attachment) Title() string {
	switch {
	case a.Name != "":
		return a.Name
	case a.URL != "":
		return pipeline.DisplayURL(a.URL)
	default:
		return "Markdown"
	}
}

// Document is the result of rendering one attachment.
type Document struct {
	Attachment Attachment
	Source     string               // Raw Markdown, empty when acquisition failed
	HTML       pipeline.TrustedHTML // Rendered output or the error message
	Err        error                // Set when the rendered pane shows an error
}

// Failed reports whether the document holds an error message.
func (d *Document) Failed() bool {
	return d.Err != nil
}

// View selects the visible pane of the viewer page.
type View = view.State

// Views of the viewer page.
const (
	ViewRendered = view.Rendered
	ViewSource   = view.Source
)

// ParseView converts "html", "rendered", "source" or "raw" to a View.
// An empty name yields ViewRendered.
func ParseView(name string) (View, error) {
	return view.ParseState(name)
}

// Option configures a Viewer.
type Option func(*Viewer)

// viewerConfig holds options applied before the pipeline is built.
type viewerConfig struct {
	assetPath      string
	styleInput     string
	highlightStyle string
	noHighlight    bool
	hardWraps      bool
	emoji          bool
	timeout        time.Duration
	httpClient     *http.Client
	maxBytes       int64
	userAgent      string
	logger         *slog.Logger
}

// WithAssetPath loads styles and the page template from a directory, falling
// back to the built-in assets. The directory may contain styles/{name}.css
// and templates/viewer.html.
func WithAssetPath(path string) Option {
	return func(v *Viewer) {
		v.cfg.assetPath = path
	}
}

// WithAssetLoader sets a custom asset loader. Takes precedence over WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(v *Viewer) {
		v.publicAssetLoader = loader
	}
}

// WithStyle sets the page stylesheet. Accepts a style name ("default",
// "dark"), a path to a CSS file, or raw CSS content.
func WithStyle(style string) Option {
	return func(v *Viewer) {
		v.cfg.styleInput = style
	}
}

// WithHighlightStyle sets the Chroma style of highlighted code blocks.
func WithHighlightStyle(name string) Option {
	return func(v *Viewer) {
		v.cfg.highlightStyle = name
	}
}

// WithoutHighlight disables syntax highlighting.
func WithoutHighlight() Option {
	return func(v *Viewer) {
		v.cfg.noHighlight = true
	}
}

// WithHardWraps renders single newlines inside paragraphs as line breaks.
func WithHardWraps(enabled bool) Option {
	return func(v *Viewer) {
		v.cfg.hardWraps = enabled
	}
}

// WithEmoji replaces :shortcode: emoji such as :tada: with Unicode characters.
func WithEmoji(enabled bool) Option {
	return func(v *Viewer) {
		v.cfg.emoji = enabled
	}
}

// WithTimeout bounds each Render call. Zero means no timeout.
// Panics if d < 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d < 0 {
		panic("mdview: WithTimeout duration must not be negative")
	}
	return func(v *Viewer) {
		v.cfg.timeout = d
	}
}

// WithHTTPClient sets the client used to fetch http and https attachments.
func WithHTTPClient(c *http.Client) Option {
	return func(v *Viewer) {
		v.cfg.httpClient = c
	}
}

// WithMaxBytes limits the size of an attachment.
func WithMaxBytes(n int64) Option {
	return func(v *Viewer) {
		v.cfg.maxBytes = n
	}
}

// WithUserAgent sets the User-Agent header of fetch requests.
func WithUserAgent(ua string) Option {
	return func(v *Viewer) {
		v.cfg.userAgent = ua
	}
}

// WithLogger sets the logger for recovered failures such as undecodable data
// URLs and code blocks left unhighlighted.
func WithLogger(l *slog.Logger) Option {
	return func(v *Viewer) {
		v.cfg.logger = l
	}
}
