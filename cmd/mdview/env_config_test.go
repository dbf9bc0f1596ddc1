package main

// Notes:
// - loadEnvConfig: we test every MDVIEW_* variable. Invalid/negative values
//   for timeout and workers are ignored, not errors.
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig: env values override config file values.
// - Tests use t.Setenv() which prevents t.Parallel().

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mdview/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("MDVIEW_CONFIG", "/path/to/config.yaml")
	t.Setenv("MDVIEW_STYLE", "dark")
	t.Setenv("MDVIEW_HIGHLIGHT_STYLE", "monokai")
	t.Setenv("MDVIEW_TIMEOUT", "2m")
	t.Setenv("MDVIEW_ADDR", ":9090")
	t.Setenv("MDVIEW_VIEW", "source")
	t.Setenv("MDVIEW_OUTPUT_DIR", "/out")
	t.Setenv("MDVIEW_WORKERS", "4")

	cfg := loadEnvConfig()

	if cfg.ConfigPath != "/path/to/config.yaml" {
		t.Errorf("ConfigPath = %q, want /path/to/config.yaml", cfg.ConfigPath)
	}
	if cfg.Style != "dark" {
		t.Errorf("Style = %q, want dark", cfg.Style)
	}
	if cfg.HighlightStyle != "monokai" {
		t.Errorf("HighlightStyle = %q, want monokai", cfg.HighlightStyle)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v, want 2m", cfg.Timeout)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.View != "source" {
		t.Errorf("View = %q, want source", cfg.View)
	}
	if cfg.OutputDir != "/out" {
		t.Errorf("OutputDir = %q, want /out", cfg.OutputDir)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
}

func TestLoadEnvConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		timeout string
		workers string
	}{
		{name: "unparseable", timeout: "soon", workers: "many"},
		{name: "negative", timeout: "-5s", workers: "-2"},
		{name: "zero", timeout: "0s", workers: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MDVIEW_TIMEOUT", tt.timeout)
			t.Setenv("MDVIEW_WORKERS", tt.workers)

			cfg := loadEnvConfig()
			if cfg.Timeout != 0 {
				t.Errorf("Timeout = %v, want 0", cfg.Timeout)
			}
			if cfg.Workers != 0 {
				t.Errorf("Workers = %d, want 0", cfg.Workers)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("MDVIEW_STYLE", "dark")
	t.Setenv("MDVIEW_TIMOUT", "30s")
	t.Setenv("MDVIEW_ADRESS", ":80")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)
	out := buf.String()

	for _, want := range []string{"MDVIEW_ADRESS", "MDVIEW_TIMOUT"} {
		if !strings.Contains(out, "unknown environment variable "+want) {
			t.Errorf("output should warn about %s, got %q", want, out)
		}
	}
	if strings.Contains(out, "MDVIEW_STYLE") {
		t.Errorf("known variable should not warn: %q", out)
	}
	if strings.Index(out, "MDVIEW_ADRESS") > strings.Index(out, "MDVIEW_TIMOUT") {
		t.Errorf("warnings should be sorted: %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env overrides config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Assets.Style = "default"
	cfg.Server.Addr = ":8000"

	applyEnvConfig(&envConfig{
		Style:          "dark",
		HighlightStyle: "dracula",
		Addr:           ":9090",
		View:           "source",
		OutputDir:      "/out",
	}, cfg)

	if cfg.Assets.Style != "dark" {
		t.Errorf("Assets.Style = %q, want dark", cfg.Assets.Style)
	}
	if cfg.Highlight.Style != "dracula" {
		t.Errorf("Highlight.Style = %q, want dracula", cfg.Highlight.Style)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.View != "source" {
		t.Errorf("View = %q, want source", cfg.View)
	}
	if cfg.Output.DefaultDir != "/out" {
		t.Errorf("Output.DefaultDir = %q, want /out", cfg.Output.DefaultDir)
	}

	// Empty env keeps config values
	applyEnvConfig(&envConfig{}, cfg)
	if cfg.Server.Addr != ":9090" {
		t.Errorf("empty env changed Server.Addr to %q", cfg.Server.Addr)
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_EnvConfig - MDVIEW_CONFIG and MDVIEW_VIEW reach the page
// ---------------------------------------------------------------------------

func TestRunMain_EnvConfig(t *testing.T) {
	t.Setenv("MDVIEW_VIEW", "source")

	env, stdout, _ := newTestEnv("")
	if code := runMain([]string{"mdview", helloURL}, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), `id="markdown-source" class="markdown-source" style="display: block"`) {
		t.Errorf("MDVIEW_VIEW=source should show the source pane:\n%s", stdout.String())
	}

	// Flags win over env
	env, stdout, _ = newTestEnv("")
	if code := runMain([]string{"mdview", "--view", "html", helloURL}, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), `id="markdown-output" class="markdown-body" style="display: block"`) {
		t.Errorf("--view html should override MDVIEW_VIEW:\n%s", stdout.String())
	}
}
