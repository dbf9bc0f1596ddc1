package pipeline

import (
	"html/template"
	"strings"
)

// StyleSheet joins stylesheets for a <style> element of the viewer page.
// Empty parts are skipped. "</" sequences are escaped so no part can close
// the element early.
func StyleSheet(parts ...string) template.CSS {
	var b strings.Builder
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(escapeStyleClose(p))
	}
	return template.CSS(b.String()) // #nosec G203 -- closing sequences escaped
}

// escapeStyleClose escapes sequences that could break out of a <style> block.
func escapeStyleClose(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
