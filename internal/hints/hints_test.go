package hints

// Notes:
// - ForFetchNetwork tests cannot use t.Parallel() because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level ContainerSignal variable

import (
	"fmt"
	"strings"
	"testing"
)

func clearNetworkEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI",
		"HTTPS_PROXY", "https_proxy", "HTTP_PROXY", "http_proxy",
	} {
		t.Setenv(key, "")
	}
}

func TestForFetchNetwork_InCI(t *testing.T) {
	orig := ContainerSignal
	defer func() { ContainerSignal = orig }()
	ContainerSignal = func() string { return "" }

	clearNetworkEnv(t)
	t.Setenv("CI", "true")

	hint := ForFetchNetwork()

	if !strings.HasPrefix(hint, "\n  hint: ") {
		t.Errorf("expected hint prefix, got %q", hint)
	}
	if !strings.Contains(hint, "HTTPS_PROXY") {
		t.Error("expected HTTPS_PROXY suggestion in CI")
	}
}

func TestForFetchNetwork_InDocker(t *testing.T) {
	orig := ContainerSignal
	defer func() { ContainerSignal = orig }()
	ContainerSignal = func() string { return "/.dockerenv" }

	clearNetworkEnv(t)

	if hint := ForFetchNetwork(); !strings.Contains(hint, "HTTPS_PROXY") {
		t.Errorf("expected HTTPS_PROXY suggestion in Docker, got %q", hint)
	}
}

func TestForFetchNetwork_ProxyAlreadySet(t *testing.T) {
	orig := ContainerSignal
	defer func() { ContainerSignal = orig }()
	ContainerSignal = func() string { return "/.dockerenv" }

	clearNetworkEnv(t)
	t.Setenv("HTTPS_PROXY", "http://proxy:3128")

	hint := ForFetchNetwork()
	if strings.Contains(hint, "HTTPS_PROXY") {
		t.Errorf("should not suggest HTTPS_PROXY when already set, got %q", hint)
	}
	if !strings.Contains(hint, "network connection") {
		t.Errorf("expected connectivity hint, got %q", hint)
	}
}

func TestEnvironmentDetection(t *testing.T) {
	clearNetworkEnv(t)

	if InCI() || ProxyConfigured() {
		t.Fatalf("InCI() = %v, ProxyConfigured() = %v with a clean environment", InCI(), ProxyConfigured())
	}

	t.Setenv("CIRCLECI", "true")
	t.Setenv("http_proxy", "http://proxy:3128")
	if !InCI() {
		t.Error("InCI() = false with CIRCLECI set")
	}
	if !ProxyConfigured() {
		t.Error("ProxyConfigured() = false with http_proxy set")
	}
}

func TestForFetchStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code     int
		contains string
	}{
		{code: 401, contains: "refused access"},
		{code: 403, contains: "refused access"},
		{code: 404, contains: "attachment URL"},
		{code: 410, contains: "attachment URL"},
		{code: 429, contains: "--workers"},
		{code: 502, contains: "retry later"},
		{code: 418, contains: ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			t.Parallel()

			hint := ForFetchStatus(tt.code)
			if tt.contains == "" {
				if hint != "" {
					t.Errorf("ForFetchStatus(%d) = %q, want empty", tt.code, hint)
				}
				return
			}
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("ForFetchStatus(%d) = %q, want %q", tt.code, hint, tt.contains)
			}
		})
	}
}

func TestForNoContent(t *testing.T) {
	t.Parallel()

	if hint := ForNoContent(true); !strings.Contains(hint, "--verbose") {
		t.Errorf("ForNoContent(true) = %q, want --verbose mention", hint)
	}
	if hint := ForNoContent(false); !strings.Contains(hint, "empty") {
		t.Errorf("ForNoContent(false) = %q, want empty mention", hint)
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains string
	}{
		{name: "empty paths", paths: []string{}, contains: "--config"},
		{
			name:     "with paths",
			paths:    []string{"./foo.yaml", "/home/u/.config/go-mdview/foo.yaml"},
			contains: "create /home/u/.config/go-mdview/foo.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForStyleNotFound(nil); hint != "" {
		t.Errorf("expected empty hint, got %q", hint)
	}
	if hint := ForStyleNotFound([]string{"dark", "default"}); !strings.Contains(hint, "dark, default") {
		t.Errorf("expected style list, got %q", hint)
	}

	many := make([]string, maxListed+5)
	for i := range many {
		many[i] = fmt.Sprintf("s%02d", i)
	}
	hint := ForStyleNotFound(many)
	if !strings.HasSuffix(hint, ", ...") {
		t.Errorf("expected truncated list, got %q", hint)
	}
	if strings.Contains(hint, many[maxListed]) {
		t.Errorf("hint lists more than %d names: %q", maxListed, hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	hints := []string{
		ForTimeout(),
		ForOutputDirectory(),
		ForAddrInUse(),
		ForNoContent(true),
		ForFetchStatus(404),
		ForConfigNotFound(nil),
	}

	for _, h := range hints {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}
