package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed styles/*.css templates/*.html
var builtin embed.FS

// FSLoader reads assets from a file system with the styles/ and templates/
// layout.
type FSLoader struct {
	fsys   fs.FS
	source string // named in errors
}

// NewFSLoader creates an FSLoader over fsys.
func NewFSLoader(fsys fs.FS, source string) *FSLoader {
	return &FSLoader{fsys: fsys, source: source}
}

// NewEmbeddedLoader returns the loader for the assets compiled into the binary.
func NewEmbeddedLoader() *FSLoader {
	return NewFSLoader(builtin, "embedded")
}

// NewDirLoader opens basePath as an os.Root. The directory stays open for
// the lifetime of the loader.
func NewDirLoader(basePath string) (*FSLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	info, err := os.Stat(absPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	return NewFSLoader(root.FS(), absPath), nil
}

// LoadStyle loads styles/{name}.css.
func (l *FSLoader) LoadStyle(name string) (string, error) {
	return l.load(styleKind, name)
}

// LoadTemplate loads templates/{name}.html.
func (l *FSLoader) LoadTemplate(name string) (string, error) {
	return l.load(templateKind, name)
}

func (l *FSLoader) load(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := fs.ReadFile(l.fsys, k.path(name))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	case err != nil:
		return "", fmt.Errorf("%w: %s: %v", ErrAssetRead, l.source, err)
	}
	return string(content), nil
}

// StyleNames lists the styles the loader provides, sorted.
func (l *FSLoader) StyleNames() []string {
	matches, err := fs.Glob(l.fsys, styleKind.path("*"))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(strings.TrimPrefix(m, styleKind.dir+"/"), styleKind.ext))
	}
	sort.Strings(names)
	return names
}

// StyleNames lists the built-in style names in sorted order.
func StyleNames() []string {
	return NewEmbeddedLoader().StyleNames()
}

var _ AssetLoader = (*FSLoader)(nil)
