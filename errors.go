package mdview

import (
	"errors"

	"github.com/alnah/go-mdview/internal/pipeline"
	"github.com/alnah/go-mdview/internal/view"
)

// AcquisitionError reports why the Markdown text of an attachment could not be
// obtained. It wraps ErrFetch, ErrNoContent or one of the I/O errors below.
type AcquisitionError = pipeline.AcquisitionError

// Sentinel errors for library operations.
var (
	// Acquisition errors, shown in the rendered pane.
	ErrFetch             = pipeline.ErrFetch
	ErrNoContent         = pipeline.ErrNoContent
	ErrReadFile          = pipeline.ErrReadFile
	ErrUnsupportedScheme = pipeline.ErrUnsupportedScheme
	ErrContentTooLarge   = pipeline.ErrContentTooLarge

	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrInternal       = errors.New("internal error")

	// Configuration errors, returned by NewViewer.
	ErrUnknownHighlightStyle = pipeline.ErrUnknownStyle
	ErrUnknownView           = view.ErrUnknownState
	ErrPageRender            = view.ErrPageRender

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
