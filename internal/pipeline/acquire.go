package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-mdview/internal/dataurl"
)

// DefaultMaxBytes limits the size of acquired Markdown (10 MiB).
const DefaultMaxBytes int64 = 10 << 20

// DefaultUserAgent identifies fetch requests.
const DefaultUserAgent = "go-mdview"

// acceptHeader prefers Markdown but accepts anything textual.
const acceptHeader = "text/markdown, text/plain;q=0.9, */*;q=0.1"

// Content is the raw Markdown text of an attachment.
type Content struct {
	Text string
	MIME string // Media type when known (data URL header or Content-Type)
	Dir  string // Directory of a local file source, empty otherwise
}

// Acquirer obtains Markdown text from data URLs, HTTP(S) URLs and local files.
// It is safe for concurrent use.
type Acquirer struct {
	client    *http.Client
	logger    *slog.Logger
	maxBytes  int64
	userAgent string
}

// AcquirerOption configures an Acquirer.
type AcquirerOption func(*Acquirer)

// WithHTTPClient sets the client used for HTTP(S) fetches.
func WithHTTPClient(c *http.Client) AcquirerOption {
	return func(a *Acquirer) {
		if c != nil {
			a.client = c
		}
	}
}

// WithMaxBytes sets the maximum accepted content size. Values <= 0 keep the default.
func WithMaxBytes(n int64) AcquirerOption {
	return func(a *Acquirer) {
		if n > 0 {
			a.maxBytes = n
		}
	}
}

// WithUserAgent sets the User-Agent header of fetch requests.
func WithUserAgent(ua string) AcquirerOption {
	return func(a *Acquirer) {
		if ua != "" {
			a.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for suppressed decode failures.
func WithLogger(l *slog.Logger) AcquirerOption {
	return func(a *Acquirer) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAcquirer creates an Acquirer. The default HTTP client has no timeout;
// callers bound fetches through the context.
func NewAcquirer(opts ...AcquirerOption) *Acquirer {
	a := &Acquirer{
		client:    &http.Client{},
		logger:    slog.Default(),
		maxBytes:  DefaultMaxBytes,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Acquire returns the Markdown text referenced by rawURL.
//
// Data URLs are decoded leniently: a malformed payload is logged and treated as
// empty. HTTP(S) URLs are fetched with GET; any status outside 2xx fails.
// "file" URLs and plain paths are read from disk.
// Every failure, including empty content, is returned as *AcquisitionError.
func (a *Acquirer) Acquire(ctx context.Context, rawURL string) (*Content, error) {
	var (
		c   *Content
		err error
	)

	switch {
	case dataurl.IsDataURL(rawURL):
		c, err = a.fromDataURL(rawURL)
	case isHTTPURL(rawURL):
		c, err = a.fetch(ctx, rawURL)
	default:
		c, err = a.readFile(ctx, rawURL)
	}
	if err != nil {
		return nil, err
	}

	if c.Text == "" {
		return nil, &AcquisitionError{URL: rawURL, Err: ErrNoContent}
	}
	return c, nil
}

// fromDataURL applies the lenient decode policy.
func (a *Acquirer) fromDataURL(rawURL string) (*Content, error) {
	parsed := dataurl.ParseLenient(rawURL, a.logger)
	if parsed == nil {
		return &Content{}, nil
	}
	if int64(len(parsed.Text)) > a.maxBytes {
		return nil, a.tooLarge(rawURL)
	}
	return &Content{Text: parsed.Text, MIME: parsed.MIME}, nil
}

// fetch performs a GET request and returns the body as text.
func (a *Acquirer) fetch(ctx context.Context, rawURL string) (*Content, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &AcquisitionError{URL: rawURL, Err: fmt.Errorf("%w: %v", ErrFetch, err)}
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &AcquisitionError{URL: rawURL, Err: fmt.Errorf("%w: %w", ErrFetch, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &AcquisitionError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Err:        ErrFetch,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, a.maxBytes+1))
	if err != nil {
		return nil, &AcquisitionError{URL: rawURL, Err: fmt.Errorf("%w: reading body: %v", ErrFetch, err)}
	}
	if int64(len(body)) > a.maxBytes {
		return nil, a.tooLarge(rawURL)
	}

	return &Content{Text: string(body), MIME: mediaType(resp.Header.Get("Content-Type"))}, nil
}

// readFile reads a local Markdown file given as a path or file URL.
func (a *Acquirer) readFile(ctx context.Context, rawURL string) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, &AcquisitionError{URL: rawURL, Err: fmt.Errorf("%w: %v", ErrReadFile, err)}
	}

	path, err := localPath(rawURL)
	if err != nil {
		return nil, &AcquisitionError{URL: rawURL, Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &AcquisitionError{URL: rawURL, Err: fmt.Errorf("%w: %v", ErrReadFile, err)}
	}
	if info.IsDir() {
		return nil, &AcquisitionError{URL: rawURL, Err: fmt.Errorf("%w: %s is a directory", ErrReadFile, path)}
	}
	if info.Size() > a.maxBytes {
		return nil, a.tooLarge(rawURL)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- attachment path is user-provided
	if err != nil {
		return nil, &AcquisitionError{URL: rawURL, Err: fmt.Errorf("%w: %v", ErrReadFile, err)}
	}

	return &Content{Text: string(data), Dir: filepath.Dir(path)}, nil
}

func (a *Acquirer) tooLarge(rawURL string) error {
	return &AcquisitionError{
		URL: rawURL,
		Err: fmt.Errorf("%w: limit is %d bytes", ErrContentTooLarge, a.maxBytes),
	}
}

// isHTTPURL reports whether rawURL uses the http or https scheme.
func isHTTPURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// localPath converts a file URL or plain path to a filesystem path.
// Any other scheme is rejected.
func localPath(rawURL string) (string, error) {
	if strings.HasPrefix(strings.ToLower(rawURL), "file://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadFile, err)
		}
		if u.Host != "" && u.Host != "localhost" {
			return "", fmt.Errorf("%w: remote file host %q", ErrUnsupportedScheme, u.Host)
		}
		return filepath.FromSlash(u.Path), nil
	}

	if scheme, _, ok := strings.Cut(rawURL, "://"); ok && !strings.ContainsAny(scheme, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
	return rawURL, nil
}

// statusText returns the reason phrase of a response, e.g. "Not Found".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// mediaType strips parameters from a Content-Type header value.
func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(mt)
}

// DisplayURL shortens data URLs for logs and messages.
// Other URLs are returned unchanged.
func DisplayURL(rawURL string) string {
	if !dataurl.IsDataURL(rawURL) {
		return rawURL
	}
	header, payload, _ := strings.Cut(rawURL, ",")
	if len(payload) <= 16 {
		return rawURL
	}
	return fmt.Sprintf("%s,...(%d bytes)", header, len(payload))
}
