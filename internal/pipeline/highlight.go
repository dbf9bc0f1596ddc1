package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultHighlightStyle is the Chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// Highlighter applies syntax highlighting to the code blocks of trusted HTML.
type Highlighter interface {
	Highlight(ctx context.Context, in TrustedHTML) (TrustedHTML, error)
}

// ChromaHighlighter highlights <pre><code> blocks with Chroma, emitting CSS
// classes so the page carries a single stylesheet for all blocks.
// It is safe for concurrent use.
type ChromaHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
	logger    *slog.Logger
}

// NewChromaHighlighter creates a highlighter for the named Chroma style.
// An empty name selects DefaultHighlightStyle.
// Returns ErrUnknownStyle if the style is not registered.
func NewChromaHighlighter(styleName string, logger *slog.Logger) (*ChromaHighlighter, error) {
	if styleName == "" {
		styleName = DefaultHighlightStyle
	}
	style, ok := styles.Registry[strings.ToLower(styleName)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, styleName)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ChromaHighlighter{
		style: style,
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true), // Keep the existing <pre><code> elements
		),
		logger: logger,
	}, nil
}

// HighlightStyles lists the registered Chroma style names in sorted order.
func HighlightStyles() []string {
	names := make([]string, 0, len(styles.Registry))
	for name := range styles.Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteCSS writes the stylesheet for the highlighter's style.
func (h *ChromaHighlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}

// CSS returns the stylesheet for the highlighter's style.
func (h *ChromaHighlighter) CSS() (string, error) {
	var b strings.Builder
	if err := h.WriteCSS(&b); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return b.String(), nil
}

// Highlight highlights every code block in document order. The language comes
// from a language-* class, or is guessed from the content when no class is
// set. Blocks in an unknown language, or that fail to highlight, are left as
// they are. Only a parse or render failure of the whole fragment is returned.
func (h *ChromaHighlighter) Highlight(ctx context.Context, in TrustedHTML) (TrustedHTML, error) {
	if in.IsZero() {
		return in, nil
	}

	doc, err := parseFragment(in.s)
	if err != nil {
		return TrustedHTML{}, fmt.Errorf("parsing HTML for highlighting: %w", err)
	}

	for _, code := range codeBlocks(doc) {
		if err := ctx.Err(); err != nil {
			return TrustedHTML{}, err
		}
		if err := h.highlightBlock(code); err != nil {
			h.logger.Debug("code block left unhighlighted", "error", err)
		}
	}

	out, err := renderFragment(doc)
	if err != nil {
		return TrustedHTML{}, fmt.Errorf("rendering highlighted HTML: %w", err)
	}
	return TrustedHTML{s: out}, nil
}

// highlightBlock replaces the children of a <code> element with Chroma spans.
func (h *ChromaHighlighter) highlightBlock(code *html.Node) error {
	source := textContent(code)

	var lexer chroma.Lexer
	if lang := codeLanguage(code); lang != "" {
		lexer = lexers.Get(lang)
	} else {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		return nil
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return fmt.Errorf("tokenising %s block: %w", lexer.Config().Name, err)
	}

	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return fmt.Errorf("formatting %s block: %w", lexer.Config().Name, err)
	}

	spans, err := parseFragmentIn(buf.String(), &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Code,
		Data:     "code",
	})
	if err != nil {
		return fmt.Errorf("parsing highlighted %s block: %w", lexer.Config().Name, err)
	}

	for c := code.FirstChild; c != nil; {
		next := c.NextSibling
		code.RemoveChild(c)
		c = next
	}
	for c := spans.FirstChild; c != nil; {
		next := c.NextSibling
		spans.RemoveChild(c)
		code.AppendChild(c)
		c = next
	}

	if code.Parent != nil {
		addClass(code.Parent, "chroma")
	}
	return nil
}

// codeBlocks returns the <code> children of <pre> elements in document order.
func codeBlocks(root *html.Node) []*html.Node {
	var blocks []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Pre {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.DataAtom == atom.Code {
					blocks = append(blocks, c)
					break
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return blocks
}

// codeLanguage extracts the language from a language-* or lang-* class.
func codeLanguage(code *html.Node) string {
	class, ok := attr(code, "class")
	if !ok {
		return ""
	}
	for _, c := range strings.Fields(class) {
		if lang, found := strings.CutPrefix(c, "language-"); found {
			return lang
		}
		if lang, found := strings.CutPrefix(c, "lang-"); found {
			return lang
		}
	}
	return ""
}
