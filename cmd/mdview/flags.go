package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrInvalidFlags wraps flag parsing failures.
var ErrInvalidFlags = errors.New("invalid flags")

// errHelp is returned by the parsers when -h or --help is given.
var errHelp = flag.ErrHelp

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// sourceFlags select the attachments to work on.
type sourceFlags struct {
	urls  []string // --url, repeatable
	names []string // --name, repeatable; pairs with --url by position
}

// viewerFlags hold the page and pipeline options.
type viewerFlags struct {
	view           string
	style          string
	assetPath      string
	highlightStyle string
	noHighlight    bool
	hardWraps      bool
	emoji          bool
	timeout        string
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common    commonFlags
	sources   sourceFlags
	viewer    viewerFlags
	output    string
	format    string
	workers   int
	termStyle string
	wordWrap  int
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common       commonFlags
	sources      sourceFlags
	viewer       viewerFlags
	addr         string
	allowOrigins []string
}

// encodeFlags holds all flags for the encode command.
type encodeFlags struct {
	mime   string
	output string
}

// doctorFlags holds all flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
	online bool
}

// wordWrapUnset detects if --word-wrap was explicitly set.
// Since 0 disables wrapping, we use an out-of-range sentinel.
const wordWrapUnset = -1

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addSourceFlags adds attachment selection flags to a FlagSet.
// StringArray keeps the commas of data URLs intact.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringArrayVar(&f.urls, "url", nil, "attachment URL, path or data URL (repeatable)")
	fs.StringArrayVar(&f.names, "name", nil, "attachment name (repeatable)")
}

// addViewerFlags adds page and pipeline flags to a FlagSet.
func addViewerFlags(fs *flag.FlagSet, f *viewerFlags) {
	fs.StringVar(&f.view, "view", "", "initial pane: html, source")
	fs.StringVar(&f.style, "style", "", "page style name, CSS file path, or CSS")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "code highlight style (Chroma)")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable code highlighting")
	fs.BoolVar(&f.hardWraps, "hard-wraps", false, "render single newlines as line breaks")
	fs.BoolVar(&f.emoji, "emoji", false, "replace :shortcode: emoji")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-attachment timeout (e.g., 30s, 0 = none)")
}

// newFlagSet creates a silent FlagSet; callers print usage themselves.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// parseFlagSet parses args and wraps errors other than flag.ErrHelp.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, errHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	return nil
}

// renderFlagSet registers the render command flags into f.
func renderFlagSet(f *renderFlags) *flag.FlagSet {
	fs := newFlagSet("render")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory (default: stdout)")
	fs.StringVarP(&f.format, "format", "f", formatHTML, "output format: html, terminal")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renders (0 = auto)")
	fs.StringVar(&f.termStyle, "term-style", "", "terminal style: auto, dark, light, notty, or JSON file")
	fs.IntVar(&f.wordWrap, "word-wrap", wordWrapUnset, "terminal word wrap in columns (0 = none)")

	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.sources)
	addViewerFlags(fs, &f.viewer)
	return fs
}

// serveFlagSet registers the serve command flags into f.
func serveFlagSet(f *serveFlags) *flag.FlagSet {
	fs := newFlagSet("serve")
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default 127.0.0.1:8080)")
	fs.StringSliceVar(&f.allowOrigins, "allow-origin", nil, "CORS origin allowed to read /raw (repeatable)")

	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.sources)
	addViewerFlags(fs, &f.viewer)
	return fs
}

// encodeFlagSet registers the encode command flags into f.
func encodeFlagSet(f *encodeFlags) *flag.FlagSet {
	fs := newFlagSet("encode")
	fs.StringVarP(&f.mime, "mime", "m", defaultEncodeMIME, "media type of the data URL")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	return fs
}

// configFlagSet registers the config command flags into f.
func configFlagSet(f *commonFlags) *flag.FlagSet {
	fs := newFlagSet("config")
	addCommonFlags(fs, f)
	return fs
}

// doctorFlagSet registers the doctor command flags into f.
func doctorFlagSet(f *doctorFlags) *flag.FlagSet {
	fs := newFlagSet("doctor")
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	fs.BoolVar(&f.online, "online", false, "also fetch http(s) attachments")
	addCommonFlags(fs, &f.common)
	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := renderFlagSet(f)
	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := serveFlagSet(f)
	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseEncodeFlags parses encode command flags and returns positional args.
func parseEncodeFlags(args []string) (*encodeFlags, []string, error) {
	f := &encodeFlags{}
	fs := encodeFlagSet(f)
	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string) (*commonFlags, []string, error) {
	f := &commonFlags{}
	fs := configFlagSet(f)
	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string) (*doctorFlags, error) {
	f := &doctorFlags{}
	if err := parseFlagSet(doctorFlagSet(f), args); err != nil {
		return nil, err
	}
	return f, nil
}
