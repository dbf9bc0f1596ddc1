//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// BenchmarkGoldmarkToHTML benchmarks Markdown to HTML conversion.
func BenchmarkGoldmarkToHTML(b *testing.B) {
	converter := NewGoldmarkConverter()
	ctx := context.Background()

	inputs := []struct {
		name    string
		content string
	}{
		{"tiny", "# Title\n\nText"},
		{"prose", strings.Repeat("Plain prose without any markup at all.\n\n", 10)},
		{"headings", headingDoc(20)},
		{"code_blocks", fencedDoc("go", 10, 3)},
		{"mixed_small", mixedDoc(10)},
		{"mixed_large", mixedDoc(200)},
	}

	for _, input := range inputs {
		b.Run(input.name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := converter.ToHTML(ctx, input.content); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkSanitize benchmarks the bluemonday policy on converted output.
func BenchmarkSanitize(b *testing.B) {
	sanitizer := NewSanitizer()

	for _, size := range []int{1, 10, 100} {
		raw, err := NewGoldmarkConverter().ToHTML(context.Background(), mixedDoc(size))
		if err != nil {
			b.Fatal(err)
		}
		b.Run(fmt.Sprintf("sections_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_ = sanitizer.Sanitize(raw)
			}
		})
	}
}

// BenchmarkHighlight benchmarks code block highlighting per language.
func BenchmarkHighlight(b *testing.B) {
	h, err := NewChromaHighlighter(DefaultHighlightStyle, nil)
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	for _, lang := range []string{"go", "python", "javascript", "rust", "sql"} {
		raw, err := NewGoldmarkConverter().ToHTML(ctx, fencedDoc(lang, 1, 50))
		if err != nil {
			b.Fatal(err)
		}
		trusted := NewSanitizer().Sanitize(raw)

		b.Run(lang, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := h.Highlight(ctx, trusted); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkStagesParallel benchmarks concurrent use of all render stages.
func BenchmarkStagesParallel(b *testing.B) {
	converter := NewGoldmarkConverter()
	sanitizer := NewSanitizer()
	h, err := NewChromaHighlighter(DefaultHighlightStyle, nil)
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	content := mixedDoc(20)

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			raw, err := converter.ToHTML(ctx, content)
			if err != nil {
				b.Fatal(err)
			}
			if _, err := h.Highlight(ctx, sanitizer.Sanitize(raw)); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// headingDoc builds n headings cycling through all six levels.
func headingDoc(n int) string {
	var sb strings.Builder
	for i := range n {
		fmt.Fprintf(&sb, "%s Part %d\n\nBody text for part %d.\n\n", strings.Repeat("#", i%6+1), i+1, i+1)
	}
	return sb.String()
}

// fencedDoc builds blocks fenced code blocks of lang, each lines long.
func fencedDoc(lang string, blocks, lines int) string {
	var sb strings.Builder
	for range blocks {
		fmt.Fprintf(&sb, "```%s\n", lang)
		for j := range lines {
			fmt.Fprintf(&sb, "x%d := compute(%d) // step %d\n", j, j, j)
		}
		sb.WriteString("```\n\n")
	}
	return sb.String()
}

// mixedDoc builds a document of n sections mixing inline markup, lists,
// code and tables.
func mixedDoc(n int) string {
	var sb strings.Builder
	sb.WriteString("# Release Notes\n\nA summary with **strong** and _emphasis_.\n\n")
	for i := range n {
		fmt.Fprintf(&sb, "## Change %d\n\nSee [the tracker](https://example.org/%d) and `flag-%d`.\n\n", i+1, i, i)
		sb.WriteString("1. first\n2. second\n\n")
		switch {
		case i%4 == 0:
			sb.WriteString("```python\nprint(sum(range(10)))\n```\n\n")
		case i%4 == 2:
			sb.WriteString("| key | value |\n|-----|-------|\n| a | 1 |\n\n")
		}
	}
	return sb.String()
}
