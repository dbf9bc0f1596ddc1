package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/fileutil"
	"github.com/alnah/go-mdview/internal/pipeline"
	"github.com/alnah/go-mdview/internal/termrender"
)

// Output formats of the render command.
const (
	formatHTML     = "html"
	formatTerminal = "terminal"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for render operations.
var (
	ErrInvalidFormat = errors.New("invalid output format")
	ErrWriteOutput   = errors.New("failed to write output")
	ErrRenderFailed  = errors.New("attachments failed to render")
)

// renderResult holds the outcome of writing one document.
type renderResult struct {
	Name       string
	OutputPath string
	Err        error
}

// runRender renders attachments to a page, a directory of pages, or the terminal.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args)
	if err != nil {
		if errors.Is(err, errHelp) {
			printRenderUsage(env.Stdout)
			return nil
		}
		return err
	}

	if flags.format != formatHTML && flags.format != formatTerminal {
		return fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidFormat, flags.format, formatHTML, formatTerminal)
	}
	if flags.workers < 0 {
		return fmt.Errorf("%w: %d (must be 0 or more)", ErrInvalidWorkerCount, flags.workers)
	}

	s, err := loadSettings(flags.common, flags.viewer, env)
	if err != nil {
		return err
	}
	if s.attachments, err = resolveAttachments(positional, flags.sources, s.cfg, env.Stdin); err != nil {
		return err
	}

	viewer, err := s.newViewer()
	if err != nil {
		return err
	}

	start := env.Now()
	workers := flags.workers
	if workers == 0 {
		workers = s.env.Workers
	}
	docs := viewer.RenderAll(ctx, s.attachments, workers)
	s.logger.Debug("rendered attachments", "count", len(docs), "duration", env.Now().Sub(start).Round(time.Millisecond))

	if flags.format == formatTerminal {
		return writeTerminal(docs, flags, s, env)
	}

	output := flags.output
	if len(docs) == 1 && !isDirTarget(output) {
		return writeSinglePage(viewer, docs[0], output, s, env)
	}

	if output == "" {
		output = s.cfg.Output.DefaultDir
	}
	if output == "" {
		output = "."
	}
	results := writePages(viewer, docs, output, s)
	if failed := printResults(results, flags.common, env); failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRenderFailed, failed, len(results))
	}
	return nil
}

// writeSinglePage writes one viewer page to output, or stdout when output is
// empty or "-". The page is written even when acquisition failed; the error
// is returned afterwards so the exit code reflects it.
func writeSinglePage(viewer *mdview.Viewer, doc *mdview.Document, output string, s *settings, env *Environment) error {
	var buf bytes.Buffer
	if err := viewer.WritePage(&buf, doc, s.cfg.InitialView()); err != nil {
		return err
	}

	if output == "" || output == stdinArg {
		if _, err := buf.WriteTo(env.Stdout); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	} else if err := fileutil.WriteFileAtomic(output, buf.Bytes(), filePermissions); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, output, err)
	}

	return documentError(doc)
}

// writePages writes one page per document into dir.
func writePages(viewer *mdview.Viewer, docs []*mdview.Document, dir string, s *settings) []renderResult {
	results := make([]renderResult, len(docs))

	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		for i, doc := range docs {
			results[i] = renderResult{
				Name: displayName(doc.Attachment, i),
				Err:  fmt.Errorf("%w: creating %s: %w", ErrWriteOutput, dir, err),
			}
		}
		return results
	}

	names := outputFileNames(docs)
	for i, doc := range docs {
		result := renderResult{
			Name:       displayName(doc.Attachment, i),
			OutputPath: filepath.Join(dir, names[i]),
		}

		var buf bytes.Buffer
		if err := viewer.WritePage(&buf, doc, s.cfg.InitialView()); err != nil {
			result.Err = err
		} else if err := fileutil.WriteFileAtomic(result.OutputPath, buf.Bytes(), filePermissions); err != nil {
			result.Err = fmt.Errorf("%w: %s: %w", ErrWriteOutput, result.OutputPath, err)
		} else {
			result.Err = documentError(doc)
		}
		results[i] = result
	}
	return results
}

// writeTerminal prints every document to stdout with glamour.
func writeTerminal(docs []*mdview.Document, flags *renderFlags, s *settings, env *Environment) error {
	style := s.cfg.Terminal.Style
	if flags.termStyle != "" {
		style = flags.termStyle
	}
	wordWrap := s.cfg.Terminal.WordWrap
	if flags.wordWrap != wordWrapUnset {
		wordWrap = flags.wordWrap
	}

	r, err := termrender.New(style, wordWrap)
	if err != nil {
		return err
	}

	var failed []error
	for i, doc := range docs {
		if len(docs) > 1 {
			fmt.Fprintf(env.Stdout, "==> %s <==\n", displayName(doc.Attachment, i))
		}
		if err := r.Write(env.Stdout, doc.Source, doc.Err, s.cfg.InitialView()); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		if doc.Err != nil {
			failed = append(failed, documentError(doc))
		}
	}

	switch len(failed) {
	case 0:
		return nil
	case 1:
		return failed[0]
	default:
		for _, err := range failed {
			fmt.Fprintf(env.Stderr, "FAILED %v%s\n", err, hintFor(err))
		}
		return fmt.Errorf("%w: %d of %d", ErrRenderFailed, len(failed), len(docs))
	}
}

// printResults outputs render results and returns the number of failures.
func printResults(results []renderResult, common commonFlags, env *Environment) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.Name, r.Err, hintFor(r.Err))
			if r.OutputPath != "" && !errors.Is(r.Err, ErrWriteOutput) && !common.quiet {
				fmt.Fprintf(env.Stdout, "Created %s (with error pane)\n", r.OutputPath)
			}
			continue
		}
		if !common.quiet {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	return failed
}

// documentError wraps a document failure with the attachment it belongs to.
func documentError(doc *mdview.Document) error {
	if doc.Err == nil {
		return nil
	}
	label := doc.Attachment.Name
	if label == "" {
		label = pipeline.DisplayURL(doc.Attachment.URL)
	}
	return fmt.Errorf("%s: %w", label, doc.Err)
}

// outputFileNames returns a unique .html file name per document.
func outputFileNames(docs []*mdview.Document) []string {
	names := make([]string, len(docs))
	seen := make(map[string]int, len(docs))
	for i, doc := range docs {
		base := fileutil.SafeFileName(doc.Attachment.Name, fmt.Sprintf("attachment-%d", i+1))
		base = strings.TrimSuffix(base, ".html")
		if n := seen[base]; n > 0 {
			seen[base] = n + 1
			base = fmt.Sprintf("%s-%d", base, n+1)
		} else {
			seen[base] = 1
		}
		names[i] = base + ".html"
	}
	return names
}

// displayName names an attachment in messages.
func displayName(a mdview.Attachment, index int) string {
	if a.Name != "" {
		return a.Name
	}
	return fmt.Sprintf("#%d %s", index+1, pipeline.DisplayURL(a.URL))
}

// isDirTarget reports whether output names a directory: an existing one or
// a path ending with a separator.
func isDirTarget(output string) bool {
	if output == "" || output == stdinArg {
		return false
	}
	if strings.HasSuffix(output, "/") || strings.HasSuffix(output, string(filepath.Separator)) {
		return true
	}
	info, err := os.Stat(output)
	return err == nil && info.IsDir()
}
