package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/config"
	"github.com/alnah/go-mdview/internal/dataurl"
	"github.com/alnah/go-mdview/internal/fileutil"
)

// Sentinel errors for attachment and option resolution.
var (
	ErrNoInput            = errors.New("no attachment specified")
	ErrUnknownAttachment  = errors.New("unknown attachment")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrReadInput          = errors.New("failed to read input")
)

// stdinArg reads the attachment from standard input.
const stdinArg = "-"

// settings is the resolved configuration of one command run.
type settings struct {
	cfg         *config.Config
	env         *envConfig
	timeout     time.Duration
	logger      *slog.Logger
	attachments []mdview.Attachment
}

// loadSettings loads the config file, applies the environment, then flags.
// Precedence: CLI flags > env vars > config file > defaults.
func loadSettings(common commonFlags, vf viewerFlags, env *Environment) (*settings, error) {
	envCfg := loadEnvConfig()

	cfg := config.DefaultConfig()
	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	mergeViewerFlags(vf, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout, err := resolveTimeoutWithEnv(vf.timeout, envCfg.Timeout, cfg.Fetch.Timeout)
	if err != nil {
		return nil, err
	}

	return &settings{
		cfg:     cfg,
		env:     envCfg,
		timeout: timeout,
		logger:  newLogger(env.Stderr, common.quiet, common.verbose),
	}, nil
}

// mergeViewerFlags applies explicitly set flags to cfg.
func mergeViewerFlags(f viewerFlags, cfg *config.Config) {
	if f.view != "" {
		cfg.View = f.view
	}
	if f.style != "" {
		cfg.Assets.Style = f.style
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	if f.highlightStyle != "" {
		cfg.Highlight.Style = f.highlightStyle
	}
	if f.noHighlight {
		cfg.Highlight.Enabled = false
	}
	if f.hardWraps {
		cfg.Render.HardWraps = true
	}
	if f.emoji {
		cfg.Render.Emoji = true
	}
}

// resolveTimeoutWithEnv resolves the per-attachment timeout.
// Priority: flag > env > config. Zero means no timeout.
func resolveTimeoutWithEnv(flagValue string, envValue time.Duration, configValue string) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("%w: %q (use a duration like 30s or 2m)", ErrInvalidTimeout, flagValue)
		}
		if d < 0 {
			return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidTimeout, flagValue)
		}
		return d, nil
	}

	if envValue > 0 {
		return envValue, nil
	}

	d, err := config.FetchConfig{Timeout: configValue}.TimeoutDuration()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidTimeout, err)
	}
	return d, nil
}

// resolveAttachments picks the attachments to work on.
// Positional arguments and --url replace the configured attachments;
// --name alone selects configured attachments by name. A directory expands
// to the Markdown files below it, named by relative path.
func resolveAttachments(args []string, src sourceFlags, cfg *config.Config, stdin io.Reader) ([]mdview.Attachment, error) {
	if len(args) == 0 && len(src.urls) == 0 {
		if len(src.names) > 0 {
			return selectConfigured(src.names, cfg)
		}
		if len(cfg.Attachments) == 0 {
			return nil, ErrNoInput
		}
		return fromConfig(cfg.Attachments), nil
	}

	if len(src.names) > len(src.urls)+len(args) {
		return nil, fmt.Errorf("%w: %d names for %d attachments", ErrInvalidFlags, len(src.names), len(src.urls)+len(args))
	}

	inputs := append(append([]string(nil), src.urls...), args...)
	attachments := make([]mdview.Attachment, 0, len(inputs))
	for i, input := range inputs {
		if !fileutil.IsURL(input) && isDir(input) {
			found, err := discoverAttachments(input)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
			}
			if len(found) == 0 {
				return nil, fmt.Errorf("%w: no Markdown files in %s", ErrNoInput, input)
			}
			attachments = append(attachments, found...)
			continue
		}

		u := input
		if u == stdinArg {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
			}
			u = dataurl.Encode(defaultEncodeMIME, data)
		}

		name := defaultName(input)
		if i < len(src.names) {
			name = src.names[i]
		}
		attachments = append(attachments, mdview.Attachment{Name: name, URL: u})
	}
	return attachments, nil
}

// selectConfigured returns the configured attachments named in names.
func selectConfigured(names []string, cfg *config.Config) ([]mdview.Attachment, error) {
	attachments := make([]mdview.Attachment, 0, len(names))
	for _, name := range names {
		a, ok := cfg.Attachment(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAttachment, name)
		}
		attachments = append(attachments, mdview.Attachment{Name: a.Name, URL: a.URL})
	}
	return attachments, nil
}

func fromConfig(configured []config.AttachmentConfig) []mdview.Attachment {
	attachments := make([]mdview.Attachment, len(configured))
	for i, a := range configured {
		attachments[i] = mdview.Attachment{Name: a.Name, URL: a.URL}
	}
	return attachments
}

// defaultName derives an attachment name from its location: the file name
// without extension. Data URLs and stdin have no name.
//
// Examples:
//   - "docs/guide.md" -> "guide"
//   - "https://example.com/raw/README.md?x=1" -> "README"
//   - "data:,hello" -> ""
func defaultName(location string) string {
	if location == stdinArg || dataurl.IsDataURL(location) {
		return ""
	}

	base := filepath.Base(location)
	if strings.Contains(location, "://") {
		u, err := url.Parse(location)
		if err != nil || u.Path == "" || u.Path == "/" {
			return ""
		}
		base = path.Base(u.Path)
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// newViewer builds the viewer for the resolved settings.
func (s *settings) newViewer() (*mdview.Viewer, error) {
	cfg := s.cfg
	opts := []mdview.Option{
		mdview.WithLogger(s.logger),
		mdview.WithAssetPath(cfg.Assets.BasePath),
		mdview.WithStyle(cfg.Assets.Style),
		mdview.WithHighlightStyle(cfg.Highlight.Style),
		mdview.WithHardWraps(cfg.Render.HardWraps),
		mdview.WithEmoji(cfg.Render.Emoji),
		mdview.WithTimeout(s.timeout),
		mdview.WithMaxBytes(cfg.Fetch.MaxBytes),
		mdview.WithUserAgent(userAgent(cfg)),
	}
	if !cfg.Highlight.Enabled {
		opts = append(opts, mdview.WithoutHighlight())
	}
	return mdview.NewViewer(opts...)
}

// userAgent returns the configured User-Agent or go-mdview/<version>.
func userAgent(cfg *config.Config) string {
	if cfg.Fetch.UserAgent != "" {
		return cfg.Fetch.UserAgent
	}
	return "go-mdview/" + Version
}

// newLogger creates the stderr logger. Warnings by default, debug with
// verbose, errors only with quiet.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
