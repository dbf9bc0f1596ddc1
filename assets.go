package mdview

import (
	"errors"

	"github.com/alnah/go-mdview/internal/assets"
)

// Built-in asset names.
const (
	DefaultStyle    = assets.DefaultStyleName    // page style
	DefaultTemplate = assets.DefaultTemplateName // viewer page template
)

// AssetLoader supplies the page style and the viewer template by name.
// Names carry no extension. A missing style or template is reported as
// ErrStyleNotFound or ErrTemplateNotFound.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader returns the loader the Viewer builds for WithAssetPath:
// styles/ and templates/ under dir override the built-in assets, and
// anything missing there falls back to them. An empty dir uses the
// built-in assets alone.
//
// It fails with ErrInvalidAssetPath when dir is set but is not a directory.
func NewAssetLoader(dir string) (AssetLoader, error) {
	chain, err := assets.NewResolver(dir)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return publicAssets{chain}, nil
}

// StyleNames lists the built-in page styles.
func StyleNames() []string {
	return assets.StyleNames()
}

// publicAssets translates internal/assets errors into this package's
// sentinels.
type publicAssets struct {
	inner assets.AssetLoader
}

func (p publicAssets) LoadStyle(name string) (string, error) {
	css, err := p.inner.LoadStyle(name)
	return css, convertAssetError(err)
}

func (p publicAssets) LoadTemplate(name string) (string, error) {
	tmpl, err := p.inner.LoadTemplate(name)
	return tmpl, convertAssetError(err)
}

// assetErrors pairs internal sentinels with the public ones. An invalid
// name is reported as a missing style.
var assetErrors = []struct{ internal, public error }{
	{assets.ErrStyleNotFound, ErrStyleNotFound},
	{assets.ErrTemplateNotFound, ErrTemplateNotFound},
	{assets.ErrInvalidBasePath, ErrInvalidAssetPath},
	{assets.ErrAssetRead, ErrInvalidAssetPath},
	{assets.ErrInvalidAssetName, ErrStyleNotFound},
}

func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range assetErrors {
		if errors.Is(err, m.internal) {
			return &assetError{public: m.public, err: err}
		}
	}
	return err
}

// assetError keeps the internal message but only unwraps to the public
// sentinel, so callers never match on internal/ errors.
type assetError struct {
	public error
	err    error
}

func (e *assetError) Error() string { return e.err.Error() }
func (e *assetError) Unwrap() error { return e.public }
