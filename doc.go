// Package mdview renders Markdown attachments into a two-pane HTML viewer.
//
// # Quick Start
//
// Create a viewer, render an attachment, and write the page:
//
//	v, err := mdview.NewViewer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc := v.Render(ctx, mdview.Attachment{
//	    Name: "notes.md",
//	    URL:  "data:text/markdown;base64,aGVsbG8KIyBUaXRsZQ==",
//	})
//	if err := v.WritePage(os.Stdout, doc, mdview.ViewRendered); err != nil {
//	    log.Fatal(err)
//	}
//
// Render never returns an error. A failed attachment produces a Document whose
// Err is set and whose HTML is an escaped error message, so the page can
// always be written.
//
// # Attachments
//
// An attachment URL is one of:
//   - a data URL, data:[<mime>][;base64],<payload>
//   - an http or https URL, fetched with GET
//   - a file URL or a local path
//
// # Rendering Pipeline
//
//  1. Acquire the Markdown text (decode, fetch, or read)
//  2. Convert to HTML via Goldmark (GFM, footnotes, heading ids)
//  3. Sanitize via bluemonday into trusted HTML
//  4. Rewrite relative paths of local files to file:// URLs
//  5. Highlight code blocks via Chroma (optional)
//
// # Views
//
// The page shows either the rendered HTML or the raw Markdown source. The
// initial view is chosen when writing the page; a small script embedded in
// the page switches between the two.
//
// # Configuration
//
// Use functional options to customize the viewer:
//
//	v, err := mdview.NewViewer(
//	    mdview.WithStyle("dark"),
//	    mdview.WithHighlightStyle("monokai"),
//	    mdview.WithTimeout(10 * time.Second),
//	)
//
// # Parallel Rendering
//
// A Viewer is safe for concurrent use. RenderAll renders several attachments
// with a bounded number of workers and returns the documents in input order.
package mdview
