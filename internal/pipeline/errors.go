package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline stages.
var (
	ErrFetch             = errors.New("failed to fetch")
	ErrNoContent         = errors.New("no content found in markdown file")
	ErrReadFile          = errors.New("failed to read markdown file")
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	ErrContentTooLarge   = errors.New("content exceeds maximum size")
	ErrHTMLConversion    = errors.New("HTML conversion failed")
	ErrUnknownStyle      = errors.New("unknown highlight style")
)

// AcquisitionError reports why the Markdown text of an attachment could not be
// obtained. Err wraps one of ErrFetch, ErrNoContent, ErrReadFile,
// ErrUnsupportedScheme or ErrContentTooLarge. StatusCode and Status are set
// only when the server answered with a non-success status.
type AcquisitionError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *AcquisitionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v: %d %s", e.Err, e.StatusCode, e.Status)
	}
	return e.Err.Error()
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}
