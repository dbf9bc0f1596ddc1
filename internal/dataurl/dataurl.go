// Package dataurl decodes RFC 2397 data URLs carrying text documents.
//
// Decoding is strict by default: Parse and DecodeBase64 report malformed
// payloads as errors. Callers that prefer the browser-style degradation to
// empty content use ParseLenient or DecodeBase64Lenient, which log the
// failure and substitute an empty string.
package dataurl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Scheme is the prefix that identifies a data URL.
const Scheme = "data:"

// DefaultMIME is used when the header carries no media type.
const DefaultMIME = "text/plain"

// base64Token marks a base64-encoded payload in the header.
const base64Token = "base64"

// Sentinel errors for decoding operations.
var (
	ErrNotDataURL    = errors.New("not a data URL")
	ErrInvalidBase64 = errors.New("invalid base64 payload")
	ErrInvalidEscape = errors.New("invalid percent-encoded payload")
)

// Parsed is the decoded form of a data URL.
type Parsed struct {
	MIME     string
	IsBase64 bool
	Text     string
}

// IsDataURL reports whether s uses the data scheme.
// The comparison is case-sensitive, matching how browsers test the prefix.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, Scheme)
}

// Parse decodes a data URL of the form data:[<mime>][;base64],<payload>.
//
// Returns ErrNotDataURL if s does not start with the data scheme.
// When the payload cannot be decoded, Parse still returns the header
// information with an empty Text, together with an error wrapping
// ErrInvalidBase64 or ErrInvalidEscape.
func Parse(s string) (*Parsed, error) {
	if !IsDataURL(s) {
		return nil, ErrNotDataURL
	}

	header, payload, _ := strings.Cut(s[len(Scheme):], ",")

	segments := strings.Split(header, ";")
	p := &Parsed{MIME: segments[0]}
	if p.MIME == "" {
		p.MIME = DefaultMIME
	}
	for _, seg := range segments[1:] {
		if strings.EqualFold(seg, base64Token) {
			p.IsBase64 = true
			break
		}
	}

	if p.IsBase64 {
		text, err := DecodeBase64(payload)
		if err != nil {
			return p, err
		}
		p.Text = text
		return p, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidEscape, err)
	}
	p.Text = text
	return p, nil
}

// ParseLenient is Parse with the lenient failure policy: decode errors are
// logged and degrade to empty text. Returns nil if s is not a data URL.
func ParseLenient(s string, logger *slog.Logger) *Parsed {
	p, err := Parse(s)
	if errors.Is(err, ErrNotDataURL) {
		return nil
	}
	if err != nil {
		loggerOrDefault(logger).Warn("failed to decode data URL payload",
			"mime", p.MIME,
			"base64", p.IsBase64,
			"error", err)
	}
	return p
}

// DecodeBase64 decodes standard base64 into text.
// ASCII whitespace is ignored and trailing padding may be omitted.
func DecodeBase64(b64 string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
			return -1
		}
		return r
	}, b64)

	enc := base64.StdEncoding
	if len(cleaned)%4 != 0 {
		enc = base64.RawStdEncoding
	}

	data, err := enc.DecodeString(cleaned)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}
	return string(data), nil
}

// DecodeBase64Lenient decodes b64 and returns "" on failure after logging it.
func DecodeBase64Lenient(b64 string, logger *slog.Logger) string {
	text, err := DecodeBase64(b64)
	if err != nil {
		loggerOrDefault(logger).Warn("base64 decoding error", "error", err)
		return ""
	}
	return text
}

// Encode builds a base64 data URL for data. An empty mime yields DefaultMIME.
func Encode(mime string, data []byte) string {
	if mime == "" {
		mime = DefaultMIME
	}
	return Scheme + mime + ";" + base64Token + "," + base64.StdEncoding.EncodeToString(data)
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
