package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// HTMLConverter abstracts Markdown to HTML conversion.
// Output is an HTML fragment that has not been sanitized yet.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkOption configures a GoldmarkConverter.
type GoldmarkOption func(*goldmarkSettings)

type goldmarkSettings struct {
	hardWraps bool
	emoji     bool
}

// WithHardWraps renders single newlines inside paragraphs as <br>.
func WithHardWraps(enabled bool) GoldmarkOption {
	return func(s *goldmarkSettings) {
		s.hardWraps = enabled
	}
}

// WithEmoji replaces :shortcode: emoji with their Unicode characters.
func WithEmoji(enabled bool) GoldmarkOption {
	return func(s *goldmarkSettings) {
		s.emoji = enabled
	}
}

// GoldmarkConverter renders CommonMark plus GFM tables, strikethrough,
// autolinks, task lists and footnotes. Headings get generated ids. Raw HTML
// in the source is dropped rather than passed through.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter builds a converter. Hard wraps and emoji shortcodes
// are off unless enabled through opts.
func NewGoldmarkConverter(opts ...GoldmarkOption) *GoldmarkConverter {
	var settings goldmarkSettings
	for _, opt := range opts {
		opt(&settings)
	}

	exts := []goldmark.Extender{extension.GFM, extension.Footnote}
	if settings.emoji {
		exts = append(exts, emoji.Emoji)
	}

	var rendererOpts []renderer.Option
	if settings.hardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}

	return &GoldmarkConverter{md: goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	)}
}

// ToHTML converts content to an unsanitized HTML fragment. goldmark has no
// context support, so conversion runs in a goroutine and ctx only bounds
// how long the caller waits.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		buf  bytes.Buffer
		errc = make(chan error, 1)
	)
	go func() {
		errc <- c.md.Convert([]byte(content), &buf)
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-errc:
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
		}
		return buf.String(), nil
	}
}
