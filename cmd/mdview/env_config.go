package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdview/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath     string        // MDVIEW_CONFIG: config name or path
	Style          string        // MDVIEW_STYLE: page style name, CSS path or CSS
	HighlightStyle string        // MDVIEW_HIGHLIGHT_STYLE: Chroma style name
	Timeout        time.Duration // MDVIEW_TIMEOUT: per-attachment timeout
	Addr           string        // MDVIEW_ADDR: serve listen address
	View           string        // MDVIEW_VIEW: initial pane
	OutputDir      string        // MDVIEW_OUTPUT_DIR: batch output directory
	Workers        int           // MDVIEW_WORKERS: parallel renders
}

// knownEnvVars lists valid MDVIEW_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDVIEW_CONFIG":          true,
	"MDVIEW_STYLE":           true,
	"MDVIEW_HIGHLIGHT_STYLE": true,
	"MDVIEW_TIMEOUT":         true,
	"MDVIEW_ADDR":            true,
	"MDVIEW_VIEW":            true,
	"MDVIEW_OUTPUT_DIR":      true,
	"MDVIEW_WORKERS":         true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:     os.Getenv("MDVIEW_CONFIG"),
		Style:          os.Getenv("MDVIEW_STYLE"),
		HighlightStyle: os.Getenv("MDVIEW_HIGHLIGHT_STYLE"),
		Addr:           os.Getenv("MDVIEW_ADDR"),
		View:           os.Getenv("MDVIEW_VIEW"),
		OutputDir:      os.Getenv("MDVIEW_OUTPUT_DIR"),
	}

	if timeout := os.Getenv("MDVIEW_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MDVIEW_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized MDVIEW_* variable.
func warnUnknownEnvVars(w io.Writer) {
	var unknown []string
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "MDVIEW_") {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig overrides config file values with the environment.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeViewerFlags). The timeout is resolved
// separately by resolveTimeoutWithEnv.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" {
		cfg.Assets.Style = env.Style
	}
	if env.HighlightStyle != "" {
		cfg.Highlight.Style = env.HighlightStyle
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.View != "" {
		cfg.View = env.View
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
}
