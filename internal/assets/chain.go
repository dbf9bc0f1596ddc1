package assets

// Chain tries its loaders in order and returns the first asset found.
// Only not-found errors move on to the next loader; a validation or read
// error stops the lookup.
type Chain []AssetLoader

// NewResolver returns the loader used by the viewer: the custom directory
// first when customBasePath is set, then the embedded assets.
func NewResolver(customBasePath string) (Chain, error) {
	if customBasePath == "" {
		return Chain{NewEmbeddedLoader()}, nil
	}

	dir, err := NewDirLoader(customBasePath)
	if err != nil {
		return nil, err
	}
	return Chain{dir, NewEmbeddedLoader()}, nil
}

// LoadStyle loads a CSS style from the first loader that has it.
func (c Chain) LoadStyle(name string) (string, error) {
	return c.first(func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

// LoadTemplate loads a page template from the first loader that has it.
func (c Chain) LoadTemplate(name string) (string, error) {
	return c.first(func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

func (c Chain) first(load func(AssetLoader) (string, error)) (string, error) {
	var err error
	for _, l := range c {
		var content string
		content, err = load(l)
		if err == nil || !IsNotFound(err) {
			return content, err
		}
	}
	return "", err
}

var _ AssetLoader = Chain(nil)
