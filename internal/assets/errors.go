package assets

import "errors"

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidAssetName rejects names that are empty or contain path
	// separators or dots.
	ErrInvalidAssetName = errors.New("invalid asset name")

	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead covers I/O failures, including reads that would leave
	// the asset directory through a symlink.
	ErrAssetRead = errors.New("failed to read asset")
)
