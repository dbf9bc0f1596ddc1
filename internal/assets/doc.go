// Package assets provides the viewer page template and its stylesheets.
//
// Assets live in a file system laid out as:
//
//	styles/{name}.css       page styles (default, dark, ...)
//	templates/{name}.html   page templates (viewer)
//
// FSLoader reads that layout from any fs.FS. NewEmbeddedLoader serves the
// copies compiled into the binary; NewDirLoader serves a user directory
// opened as an os.Root, so neither names nor symlinks can leave it.
// A Chain stacks loaders, letting a custom directory override a single
// stylesheet while keeping the built-in template.
package assets
