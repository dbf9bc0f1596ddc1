// Package hints turns common failures into a one-line suggestion that the
// CLI appends to its error output as "\n  hint: <text>".
package hints

import (
	"net/http"
	"os"
	"strings"

	"github.com/alnah/go-mdview/internal/fileutil"
)

// maxListed caps the names shown by ForStyleNotFound.
const maxListed = 12

var (
	ciVars    = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	proxyVars = []string{"HTTPS_PROXY", "https_proxy", "HTTP_PROXY", "http_proxy"}
)

// ContainerSignal names the marker showing the process runs in a
// container, or returns "" outside one. Replaced in tests.
var ContainerSignal = func() string {
	switch {
	case fileutil.FileExists("/.dockerenv"):
		return "/.dockerenv"
	case os.Getenv("container") != "":
		return "container=" + os.Getenv("container")
	case os.Getenv("KUBERNETES_SERVICE_HOST") != "":
		return "KUBERNETES_SERVICE_HOST"
	}
	return ""
}

// InCI reports whether a known CI environment variable is set.
func InCI() bool { return anySet(ciVars) }

// ProxyConfigured reports whether an HTTP(S) proxy variable is set.
func ProxyConfigured() bool { return anySet(proxyVars) }

func anySet(keys []string) bool {
	for _, k := range keys {
		if os.Getenv(k) != "" {
			return true
		}
	}
	return false
}

// ForFetchStatus returns a hint for a non-success HTTP status.
func ForFetchStatus(code int) string {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return format("the server refused access; download the file and pass its path instead")
	case code == http.StatusNotFound || code == http.StatusGone:
		return format("check the attachment URL; the document may have moved")
	case code == http.StatusTooManyRequests:
		return format("the server is rate limiting requests; retry later or lower --workers")
	case code >= 500:
		return format("the server failed to answer; retry later")
	default:
		return ""
	}
}

// ForFetchNetwork returns hints for connection failures. Inside CI or a
// container with no proxy configured it also suggests HTTPS_PROXY.
func ForFetchNetwork() string {
	var hints []string
	if (InCI() || ContainerSignal() != "") && !ProxyConfigured() {
		hints = append(hints, "set HTTPS_PROXY if the network requires a proxy")
	}
	hints = append(hints, "check the host name and your network connection")
	return format(strings.Join(hints, "; "))
}

// ForTimeout returns a hint about increasing the fetch timeout.
func ForTimeout() string {
	return format("for slow servers, use --timeout or MDVIEW_TIMEOUT (0 disables it)")
}

// ForNoContent returns a hint for attachments that produced no text.
func ForNoContent(isDataURL bool) string {
	if isDataURL {
		return format("the data URL payload may be malformed; run with --verbose to see decode errors")
	}
	return format("the document is empty")
}

// ForConfigNotFound suggests --config, or creating the file at the
// per-user location when it was among the searched paths.
func ForConfigNotFound(searchedPaths []string) string {
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-mdview") {
			return format("use --config /path/to/file.yaml or create " + p)
		}
	}
	return format("use --config /path/to/file.yaml")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
// Long lists are truncated.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	if len(available) > maxListed {
		return format("available: " + strings.Join(available[:maxListed], ", ") + ", ...")
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForAddrInUse returns a hint for a listen address that is already taken.
func ForAddrInUse() string {
	return format("use --addr or MDVIEW_ADDR to pick another address")
}

// format renders hint on its own indented line, or returns "" for no hint.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
