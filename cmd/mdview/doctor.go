package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"runtime"
	"strings"

	"github.com/alnah/go-mdview/internal/dataurl"
	"github.com/alnah/go-mdview/internal/hints"
	"github.com/alnah/go-mdview/internal/pipeline"
)

// Attachment kinds reported by doctor.
const (
	kindData   = "data"
	kindFile   = "file"
	kindRemote = "http"
)

// Attachment check outcomes.
const (
	checkOK      = "ok"
	checkSkipped = "skipped"
	checkFailed  = "failed"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status      string            `json:"status"` // "ready", "warnings", "errors"
	Config      configInfo        `json:"config"`
	Attachments []attachmentCheck `json:"attachments"`
	Env         envInfo           `json:"environment"`
	System      systemInfo        `json:"system"`
	Warnings    []string          `json:"warnings,omitempty"`
	Errors      []string          `json:"errors,omitempty"`
}

// configInfo holds the effective configuration summary.
type configInfo struct {
	Name           string `json:"name,omitempty"`
	Valid          bool   `json:"valid"`
	View           string `json:"view,omitempty"`
	Style          string `json:"style,omitempty"`
	HighlightStyle string `json:"highlight_style,omitempty"`
	Timeout        string `json:"timeout,omitempty"`
}

// attachmentCheck holds the outcome of acquiring one configured attachment.
type attachmentCheck struct {
	Name   string `json:"name,omitempty"`
	URL    string `json:"url"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
	Bytes  int    `json:"bytes,omitempty"`
	Error  string `json:"error,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	Proxy         bool   `json:"proxy"`
}

// systemInfo holds system check results.
type systemInfo struct {
	OutputDir      string `json:"output_dir"`
	OutputWritable bool   `json:"output_writable"`
	Addr           string `json:"addr"`
	AddrAvailable  bool   `json:"addr_available"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args)
	if err != nil {
		if errors.Is(err, errHelp) {
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	result := runDoctor(ctx, flags, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, flags *doctorFlags, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	s := checkConfig(result, flags.common, env)
	if s != nil {
		checkAttachments(ctx, result, s, flags.online)
		checkSystem(result, s)
	}
	checkEnvironment(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkConfig loads the effective settings. Returns nil when they are unusable.
func checkConfig(result *doctorResult, common commonFlags, env *Environment) *settings {
	result.Config.Name = common.config
	if result.Config.Name == "" {
		result.Config.Name = os.Getenv("MDVIEW_CONFIG")
	}

	s, err := loadSettings(common, viewerFlags{}, env)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		return nil
	}

	result.Config.Valid = true
	result.Config.View = s.cfg.View
	result.Config.Style = s.cfg.Assets.Style
	if s.cfg.Highlight.Enabled {
		result.Config.HighlightStyle = s.cfg.Highlight.Style
	}
	if s.timeout > 0 {
		result.Config.Timeout = s.timeout.String()
	}
	return s
}

// checkAttachments acquires and renders every configured attachment.
// Remote attachments are only fetched when online is set.
func checkAttachments(ctx context.Context, result *doctorResult, s *settings, online bool) {
	viewer, err := s.newViewer()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Viewer: %v", err))
		return
	}

	if len(s.cfg.Attachments) == 0 {
		result.Warnings = append(result.Warnings,
			"No attachments configured; pass paths or URLs on the command line")
		return
	}

	for _, a := range fromConfig(s.cfg.Attachments) {
		check := attachmentCheck{
			Name: a.Name,
			URL:  pipeline.DisplayURL(a.URL),
			Kind: attachmentKind(a.URL),
		}

		if check.Kind == kindRemote && !online {
			check.Status = checkSkipped
			result.Attachments = append(result.Attachments, check)
			continue
		}

		doc := viewer.Render(ctx, a)
		if doc.Err != nil {
			check.Status = checkFailed
			check.Error = doc.Err.Error()
			result.Errors = append(result.Errors, fmt.Sprintf("Attachment %s: %v", displayName(a, len(result.Attachments)), doc.Err))
		} else {
			check.Status = checkOK
			check.Bytes = len(doc.Source)
		}
		result.Attachments = append(result.Attachments, check)
	}
}

// attachmentKind classifies an attachment URL.
func attachmentKind(u string) string {
	switch {
	case dataurl.IsDataURL(u):
		return kindData
	case strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://"):
		return kindRemote
	default:
		return kindFile
	}
}

// checkEnvironment detects container, CI and proxy settings.
func checkEnvironment(result *doctorResult) {
	result.Env.ContainerHint = hints.ContainerSignal()
	result.Env.Container = result.Env.ContainerHint != ""
	result.Env.CI = hints.InCI()
	result.Env.Proxy = hints.ProxyConfigured()
}

// checkSystem verifies the output directory and the serve address.
func checkSystem(result *doctorResult, s *settings) {
	dir := s.cfg.Output.DefaultDir
	if dir == "" {
		dir = "."
	}
	result.System.OutputDir = dir

	if !isDir(dir) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Output directory %s does not exist; it is created on first render", dir))
	} else if f, err := os.CreateTemp(dir, ".mdview-doctor-*"); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Output directory not writable: %s", dir))
	} else {
		_ = f.Close()
		_ = os.Remove(f.Name())
		result.System.OutputWritable = true
	}

	result.System.Addr = s.cfg.Server.Addr
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Serve address %s unavailable: %v", s.cfg.Server.Addr, err))
		return
	}
	_ = ln.Close()
	result.System.AddrAvailable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mdview doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Configuration")
	if r.Config.Valid {
		if r.Config.Name != "" {
			fmt.Fprintf(w, "  [OK] Loaded %s\n", r.Config.Name)
		} else {
			fmt.Fprintln(w, "  [OK] Defaults (no config file)")
		}
		fmt.Fprintf(w, "  [OK] View: %s\n", r.Config.View)
		if r.Config.Style != "" {
			fmt.Fprintf(w, "  [OK] Style: %s\n", r.Config.Style)
		}
		if r.Config.HighlightStyle != "" {
			fmt.Fprintf(w, "  [OK] Highlighting: %s\n", r.Config.HighlightStyle)
		} else {
			fmt.Fprintln(w, "  [OK] Highlighting: disabled")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Invalid")
	}
	fmt.Fprintln(w)

	if len(r.Attachments) > 0 {
		fmt.Fprintln(w, "Attachments")
		for i, a := range r.Attachments {
			label := a.Name
			if label == "" {
				label = fmt.Sprintf("#%d", i+1)
			}
			switch a.Status {
			case checkOK:
				fmt.Fprintf(w, "  [OK] %s (%s, %d bytes)\n", label, a.Kind, a.Bytes)
			case checkSkipped:
				fmt.Fprintf(w, "  [SKIP] %s (%s; use --online to fetch)\n", label, a.Kind)
			default:
				fmt.Fprintf(w, "  [ERROR] %s (%s): %s\n", label, a.Kind, a.Error)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	if r.Env.Proxy {
		fmt.Fprintln(w, "  [OK] Proxy: configured")
	}
	fmt.Fprintln(w)

	if r.System.OutputDir != "" {
		fmt.Fprintln(w, "System")
		if r.System.OutputWritable {
			fmt.Fprintf(w, "  [OK] Output directory: %s writable\n", r.System.OutputDir)
		}
		if r.System.AddrAvailable {
			fmt.Fprintf(w, "  [OK] Serve address: %s available\n", r.System.Addr)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview doctor [--json] [--online] [-c name]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the configuration, render every configured attachment, and")
	fmt.Fprintln(w, "verify the output directory and serve address.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print the report as JSON")
	fmt.Fprintln(w, "      --online              Also fetch http(s) attachments")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
}
