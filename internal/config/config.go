// Package config loads the YAML configuration of the viewer.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdview/internal/fileutil"
	"github.com/alnah/go-mdview/internal/view"
	"github.com/alnah/go-mdview/internal/yamlutil"
)

// AppName names the directory searched under the user config directory.
const AppName = "go-mdview"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound      = errors.New("config file not found")
	ErrEmptyConfigName     = errors.New("config name cannot be empty")
	ErrConfigParse         = errors.New("failed to parse config")
	ErrFieldTooLong        = errors.New("field exceeds maximum length")
	ErrInvalidValue        = errors.New("invalid config value")
	ErrDuplicateAttachment = errors.New("duplicate attachment name")
)

// Field length limits.
const (
	MaxNameLength      = 100      // Attachment name
	MaxURLLength       = 2048     // Browser limit for http(s) and file URLs
	MaxDataURLLength   = 16 << 20 // Inline documents
	MaxStyleLength     = 100      // Style name
	MaxPathLength      = 4096     // Filesystem path
	MaxAddrLength      = 256      // host:port
	MaxUserAgentLength = 256
	MaxOrigins         = 32
	MaxWordWrap        = 1000
)

// Defaults.
const (
	DefaultAddr           = "127.0.0.1:8080"
	DefaultWordWrap       = 80
	DefaultTerminalStyle  = "auto"
	DefaultHighlightStyle = "github"
)

// Config holds all configuration for rendering and serving attachments.
type Config struct {
	Attachments []AttachmentConfig `yaml:"attachments"`
	View        string             `yaml:"view"` // Initial pane: "html" or "source"
	Render      RenderConfig       `yaml:"render"`
	Highlight   HighlightConfig    `yaml:"highlight"`
	Fetch       FetchConfig        `yaml:"fetch"`
	Assets      AssetsConfig       `yaml:"assets"`
	Terminal    TerminalConfig     `yaml:"terminal"`
	Server      ServerConfig       `yaml:"server"`
	Output      OutputConfig       `yaml:"output"`
}

// AttachmentConfig names one Markdown document.
type AttachmentConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"` // data:, http(s):, file: URL or local path
}

// RenderConfig defines Markdown conversion options.
type RenderConfig struct {
	HardWraps bool `yaml:"hardWraps"` // Single newlines become <br>
	Emoji     bool `yaml:"emoji"`     // :shortcode: emoji become Unicode
}

// HighlightConfig defines code block highlighting.
type HighlightConfig struct {
	Enabled bool   `yaml:"enabled"`
	Style   string `yaml:"style"` // Chroma style name
}

// FetchConfig defines how remote attachments are fetched.
type FetchConfig struct {
	Timeout   string `yaml:"timeout"`   // Go duration, "0" or empty = none
	MaxBytes  int64  `yaml:"maxBytes"`  // 0 = library default (10 MiB)
	UserAgent string `yaml:"userAgent"` // Empty = library default
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
	Style    string `yaml:"style"`    // Style name, CSS file path, or CSS content
}

// TerminalConfig defines the terminal output format.
type TerminalConfig struct {
	Style    string `yaml:"style"`    // glamour style: auto, dark, light, notty, ...
	WordWrap int    `yaml:"wordWrap"` // Columns, 0 = no wrapping
}

// ServerConfig defines the HTTP viewer server.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"` // CORS origins for /raw, empty = same-origin only
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Batch output directory (empty = current directory)
}

// DefaultConfig returns the configuration used when no file is given.
// Highlighting is enabled; everything else is neutral.
func DefaultConfig() *Config {
	return &Config{
		View:      view.Rendered.String(),
		Highlight: HighlightConfig{Enabled: true, Style: DefaultHighlightStyle},
		Terminal:  TerminalConfig{Style: DefaultTerminalStyle, WordWrap: DefaultWordWrap},
		Server:    ServerConfig{Addr: DefaultAddr},
	}
}

// Validate checks field lengths and values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	seen := make(map[string]int, len(c.Attachments))
	for i, a := range c.Attachments {
		field := fmt.Sprintf("attachments[%d]", i)
		if strings.TrimSpace(a.URL) == "" {
			return fmt.Errorf("%w: %s.url: required", ErrInvalidValue, field)
		}
		if err := validateFieldLength(field+".name", a.Name, MaxNameLength); err != nil {
			return err
		}
		if err := validateFieldLength(field+".url", a.URL, maxURLLength(a.URL)); err != nil {
			return err
		}
		if a.Name == "" {
			continue
		}
		if j, dup := seen[a.Name]; dup {
			return fmt.Errorf("%w: %q (attachments[%d] and %s)", ErrDuplicateAttachment, a.Name, j, field)
		}
		seen[a.Name] = i
	}

	if _, err := view.ParseState(c.View); err != nil {
		return fmt.Errorf("%w: view: %v", ErrInvalidValue, err)
	}

	if err := validateFieldLength("highlight.style", c.Highlight.Style, MaxStyleLength); err != nil {
		return err
	}

	if _, err := c.Fetch.TimeoutDuration(); err != nil {
		return err
	}
	if c.Fetch.MaxBytes < 0 {
		return fmt.Errorf("%w: fetch.maxBytes: must not be negative, got %d", ErrInvalidValue, c.Fetch.MaxBytes)
	}
	if err := validateFieldLength("fetch.userAgent", c.Fetch.UserAgent, MaxUserAgentLength); err != nil {
		return err
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("terminal.style", c.Terminal.Style, MaxPathLength); err != nil {
		return err
	}
	if c.Terminal.WordWrap < 0 || c.Terminal.WordWrap > MaxWordWrap {
		return fmt.Errorf("%w: terminal.wordWrap: must be between 0 and %d, got %d", ErrInvalidValue, MaxWordWrap, c.Terminal.WordWrap)
	}
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if len(c.Server.AllowedOrigins) > MaxOrigins {
		return fmt.Errorf("%w: server.allowedOrigins: at most %d entries, got %d", ErrInvalidValue, MaxOrigins, len(c.Server.AllowedOrigins))
	}
	for i, origin := range c.Server.AllowedOrigins {
		if err := validateFieldLength(fmt.Sprintf("server.allowedOrigins[%d]", i), origin, MaxURLLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}

	return nil
}

// TimeoutDuration parses Timeout. Empty or "0" means no timeout.
func (f FetchConfig) TimeoutDuration() (time.Duration, error) {
	if f.Timeout == "" || f.Timeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(f.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: fetch.timeout: %v", ErrInvalidValue, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: fetch.timeout: must not be negative, got %s", ErrInvalidValue, f.Timeout)
	}
	return d, nil
}

// InitialView returns the parsed View field.
func (c *Config) InitialView() view.State {
	s, _ := view.ParseState(c.View)
	return s
}

// Attachment returns the attachment with the given name.
func (c *Config) Attachment(name string) (AttachmentConfig, bool) {
	for _, a := range c.Attachments {
		if a.Name == name {
			return a, true
		}
	}
	return AttachmentConfig{}, false
}

// maxURLLength returns the length limit for an attachment URL.
func maxURLLength(u string) int {
	if strings.HasPrefix(u, "data:") {
		return MaxDataURLLength
	}
	return MaxURLLength
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
// Fields absent from the file keep the values of DefaultConfig.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mdview/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", &NotFoundError{Name: name, Tried: triedPaths}
}

// NotFoundError lists the paths searched for a named config.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: tried %s", ErrConfigNotFound, strings.Join(e.Tried, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrConfigNotFound
}
