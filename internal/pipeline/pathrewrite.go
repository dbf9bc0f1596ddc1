package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// linkAttrs maps the elements whose targets are resolved against the
// attachment directory to the attribute holding the target.
var linkAttrs = map[string]string{
	"img": "src",
	"a":   "href",
}

// RewriteRelativePaths resolves relative img[src] and a[href] targets
// against baseDir and replaces them with file:// URLs, so a page rendered
// from a file attachment still finds its images once saved elsewhere.
//
// Targets with a scheme, protocol-relative targets, fragments, absolute
// paths and targets leaving baseDir are kept as written. An empty baseDir
// returns the fragment unchanged.
func RewriteRelativePaths(in TrustedHTML, baseDir string) (TrustedHTML, error) {
	if baseDir == "" || in.IsZero() {
		return in, nil
	}

	root, err := filepath.Abs(baseDir)
	if err != nil {
		return TrustedHTML{}, err
	}

	doc, err := parseFragment(in.s)
	if err != nil {
		return TrustedHTML{}, err
	}

	stack := []*html.Node{doc}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if key, ok := linkAttrs[n.Data]; ok && n.Type == html.ElementNode {
			resolveAttr(n, key, root)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			stack = append(stack, c)
		}
	}

	out, err := renderFragment(doc)
	if err != nil {
		return TrustedHTML{}, err
	}
	return TrustedHTML{s: out}, nil
}

func resolveAttr(n *html.Node, key, root string) {
	for i := range n.Attr {
		if n.Attr[i].Key != key {
			continue
		}
		if target, ok := localTarget(n.Attr[i].Val, root); ok {
			n.Attr[i].Val = target
		}
	}
}

// localTarget returns the file:// URL for ref when ref is a relative
// reference whose path stays inside root. url.Parse has already unescaped
// the path; query and fragment carry over unchanged.
func localTarget(ref, root string) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	rel := filepath.FromSlash(u.Path)
	if strings.HasPrefix(u.Path, "/") || filepath.IsAbs(rel) {
		return "", false
	}

	abs := filepath.Join(root, rel)
	if !insideDir(abs, root) {
		return "", false
	}

	target := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: u.RawQuery,
		Fragment: u.Fragment,
	}
	return target.String(), true
}

// insideDir reports whether path is dir or below it.
func insideDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || filepath.IsLocal(rel)
}
