package markdown_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/sundial/pkg/buffer"
	"github.com/yaklabco/sundial/pkg/html"
	"github.com/yaklabco/sundial/pkg/markdown"
)

func BenchmarkRender(b *testing.B) {
	doc := []byte(strings.Repeat(
		"# Heading\n\npara with *em*, `code` and a [link](/url)\n\n- item one\n- item two\n\n> quoted\n\n", 50))
	renderer := html.New(0)
	parser := markdown.New(markdown.Tables|markdown.FencedCode, 16, renderer.Callbacks())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ob := buffer.New(64)
		parser.Render(ob, doc)
	}
}

func BenchmarkRenderAutolink(b *testing.B) {
	doc := []byte(strings.Repeat(
		"visit http://example.com/path or www.example.org, mail me@example.com\n\n", 100))
	renderer := html.New(0)
	parser := markdown.New(markdown.Autolink, 16, renderer.Callbacks())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ob := buffer.New(64)
		parser.Render(ob, doc)
	}
}
