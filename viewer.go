package mdview

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"

	"github.com/alnah/go-mdview/internal/assets"
	"github.com/alnah/go-mdview/internal/fileutil"
	"github.com/alnah/go-mdview/internal/pipeline"
	"github.com/alnah/go-mdview/internal/view"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.Sanitizer     = (*pipeline.PolicySanitizer)(nil)
	_ pipeline.Highlighter   = (*pipeline.ChromaHighlighter)(nil)
	_ AssetLoader            = publicAssets{}
)

// Viewer renders attachments and writes viewer pages.
// Create with NewViewer. A Viewer is immutable and safe for concurrent use.
type Viewer struct {
	cfg               viewerConfig
	assetLoader       assets.AssetLoader
	publicAssetLoader AssetLoader
	acquirer          *pipeline.Acquirer
	htmlConverter     pipeline.HTMLConverter
	sanitizer         pipeline.Sanitizer
	highlighter       pipeline.Highlighter // nil when highlighting is disabled
	page              *view.PageRenderer
	css               template.CSS
	logger            *slog.Logger
}

// NewViewer creates a Viewer with default configuration.
// Returns error if asset loading, template parsing or the highlight style fails.
func NewViewer(opts ...Option) (*Viewer, error) {
	v := &Viewer{
		assetLoader: assets.NewEmbeddedLoader(),
		sanitizer:   pipeline.NewSanitizer(),
	}

	for _, opt := range opts {
		opt(v)
	}

	v.logger = v.cfg.logger
	if v.logger == nil {
		v.logger = slog.Default()
	}

	if v.cfg.assetPath != "" {
		resolver, err := assets.NewResolver(v.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		v.assetLoader = resolver
	}
	if v.publicAssetLoader != nil {
		v.assetLoader = v.publicAssetLoader
	}

	v.acquirer = pipeline.NewAcquirer(
		pipeline.WithHTTPClient(v.cfg.httpClient),
		pipeline.WithMaxBytes(v.cfg.maxBytes),
		pipeline.WithUserAgent(v.cfg.userAgent),
		pipeline.WithLogger(v.logger),
	)
	v.htmlConverter = pipeline.NewGoldmarkConverter(
		pipeline.WithHardWraps(v.cfg.hardWraps),
		pipeline.WithEmoji(v.cfg.emoji),
	)

	styleCSS, err := v.resolveStyle()
	if err != nil {
		return nil, err
	}

	var highlightCSS string
	if !v.cfg.noHighlight {
		h, err := pipeline.NewChromaHighlighter(v.cfg.highlightStyle, v.logger)
		if err != nil {
			return nil, err
		}
		if highlightCSS, err = h.CSS(); err != nil {
			return nil, err
		}
		v.highlighter = h
	}
	v.css = pipeline.StyleSheet(styleCSS, highlightCSS)

	tmpl, err := v.assetLoader.LoadTemplate(assets.DefaultTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading viewer template: %w", convertAssetError(err))
	}
	if v.page, err = view.NewPageRenderer(tmpl); err != nil {
		return nil, fmt.Errorf("initializing viewer page: %w", err)
	}

	return v, nil
}

// Render runs the pipeline for one attachment. It never returns an error:
// acquisition and conversion failures are reported through Document.Err and
// an escaped error message in Document.HTML. The stages after acquisition
// are skipped on failure.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (v *Viewer) Render(ctx context.Context, a Attachment) (doc *Document) {
	doc = &Document{Attachment: a}

	defer func() {
		if r := recover(); r != nil {
			v.fail(doc, fmt.Errorf("%w: %v", ErrInternal, r))
		}
	}()

	if v.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.cfg.timeout)
		defer cancel()
	}

	// Acquire
	content, err := v.acquirer.Acquire(ctx, a.URL)
	if err != nil {
		return v.fail(doc, err)
	}

	// Render: the source pane gets the text verbatim
	doc.Source = content.Text

	rawHTML, err := v.htmlConverter.ToHTML(ctx, content.Text)
	if err != nil {
		return v.fail(doc, fmt.Errorf("converting to HTML: %w", err))
	}
	trusted := v.sanitizer.Sanitize(rawHTML)

	// Rewrite relative paths of local files to absolute file:// URLs
	if content.Dir != "" {
		rewritten, err := pipeline.RewriteRelativePaths(trusted, content.Dir)
		if err != nil {
			v.logger.Warn("relative paths left unchanged", "attachment", a.Name, "error", err)
		} else {
			trusted = rewritten
		}
	}

	// Highlight (optional)
	if v.highlighter != nil {
		highlighted, err := v.highlighter.Highlight(ctx, trusted)
		if err != nil {
			v.logger.Warn("code blocks left unhighlighted", "attachment", a.Name, "error", err)
		} else {
			trusted = highlighted
		}
	}

	doc.HTML = trusted
	return doc
}

// fail records err on doc and replaces the rendered output with the message.
func (v *Viewer) fail(doc *Document, err error) *Document {
	v.logger.Debug("attachment failed",
		"attachment", doc.Attachment.Name,
		"url", pipeline.DisplayURL(doc.Attachment.URL),
		"error", err)
	doc.Err = err
	doc.HTML = pipeline.ErrorHTML(err)
	return doc
}

// WritePage writes the complete viewer page for doc with the given pane visible.
func (v *Viewer) WritePage(w io.Writer, doc *Document, initial View) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrPageRender)
	}
	toggler := view.NewToggler(initial)
	return v.page.Render(w, &view.Page{
		Title:    doc.Attachment.Title(),
		Layout:   toggler.Layout(),
		Rendered: doc.HTML.HTML(),
		Source:   doc.Source,
		CSS:      v.css,
		Failed:   doc.Failed(),
	})
}

// CSS returns the combined page and highlight stylesheet.
func (v *Viewer) CSS() string {
	return string(v.css)
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS
// content. An empty input selects DefaultStyle.
func (v *Viewer) resolveStyle() (string, error) {
	input := v.cfg.styleInput
	if input == "" {
		input = DefaultStyle
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("loading style file %q: %w", input, err)
		}
		return string(content), nil
	}

	// CSS content? (contains {)
	if fileutil.IsCSS(input) {
		return input, nil
	}

	css, err := v.assetLoader.LoadStyle(input)
	if err != nil {
		return "", fmt.Errorf("loading style %q: %w", input, convertAssetError(err))
	}
	return css, nil
}
