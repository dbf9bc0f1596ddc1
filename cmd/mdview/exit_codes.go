package main

import (
	"errors"
	"os"

	"github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/config"
	"github.com/alnah/go-mdview/internal/termrender"
)

// Exit codes for the mdview CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every attachment rendered
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Acquisition failed, file not found, permission denied
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O and acquisition errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mdview.ErrFetch) ||
		errors.Is(err, mdview.ErrNoContent) ||
		errors.Is(err, mdview.ErrReadFile) ||
		errors.Is(err, mdview.ErrUnsupportedScheme) ||
		errors.Is(err, mdview.ErrContentTooLarge) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrRenderFailed) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrDuplicateAttachment) ||
		errors.Is(err, mdview.ErrStyleNotFound) ||
		errors.Is(err, mdview.ErrTemplateNotFound) ||
		errors.Is(err, mdview.ErrInvalidAssetPath) ||
		errors.Is(err, mdview.ErrUnknownHighlightStyle) ||
		errors.Is(err, mdview.ErrUnknownView) ||
		errors.Is(err, termrender.ErrUnknownStyle) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrUnknownAttachment) {
		return ExitUsage
	}

	return ExitGeneral
}
