// Package pipeline implements the stages that turn a Markdown attachment into
// viewer content:
//   - Acquire: decode a data URL, fetch over HTTP(S), or read a local file
//   - Render: Markdown to HTML via Goldmark
//   - Sanitize: filter the HTML through a bluemonday policy into TrustedHTML
//   - Rewrite: resolve relative paths for local file sources
//   - Highlight: syntax highlighting of code blocks via Chroma
//
// Orchestration lives in the root mdview package. Stages here only transform
// their input and report errors; they never write to the viewer page.
package pipeline
