package markdown_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/sundial/pkg/buffer"
	"github.com/yaklabco/sundial/pkg/html"
	"github.com/yaklabco/sundial/pkg/markdown"
)

func render(t *testing.T, ext markdown.Extensions, flags html.Flags, input string) string {
	t.Helper()
	renderer := html.New(flags)
	parser := markdown.New(ext, 16, renderer.Callbacks())
	ob := buffer.New(64)
	parser.Render(ob, []byte(input))
	return ob.String()
}

func TestParagraphAndEmphasis(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strong", "**hello**", "<p><strong>hello</strong></p>\n"},
		{"em", "*em*", "<p><em>em</em></p>\n"},
		{"underscore em", "_em_", "<p><em>em</em></p>\n"},
		{"triple", "***x***", "<p><strong><em>x</em></strong></p>\n"},
		{"plain", "plain text", "<p>plain text</p>\n"},
		{"unclosed stays literal", "**hello", "<p>**hello</p>\n"},
		{"space after opener stays literal", "a * not em*", "<p>a * not em*</p>\n"},
		{"mixed", "*em* and **strong**", "<p><em>em</em> and <strong>strong</strong></p>\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, 0, 0, tt.input))
		})
	}
}

func TestCodeSpans(t *testing.T) {
	assert.Equal(t, "<p><code>code</code></p>\n", render(t, 0, 0, "`code`"))
	assert.Equal(t, "<p><code>x</code></p>\n", render(t, 0, 0, "` x `"))
	assert.Equal(t, "<p><code>a `b` c</code></p>\n", render(t, 0, 0, "``a `b` c``"))
	assert.Equal(t, "<p>`unclosed</p>\n", render(t, 0, 0, "`unclosed"))
	assert.Equal(t, "<p><code>&lt;x&gt;</code></p>\n", render(t, 0, 0, "`<x>`"))
}

func TestHeaders(t *testing.T) {
	assert.Equal(t, "<h1>One</h1>\n", render(t, 0, 0, "# One\n"))
	assert.Equal(t, "<h2>Two</h2>\n", render(t, 0, 0, "## Two ##\n"))
	assert.Equal(t, "<h6>Six</h6>\n", render(t, 0, 0, "###### Six\n"))
	assert.Equal(t, "<h1>Header</h1>\n", render(t, 0, 0, "Header\n======\n"))
	assert.Equal(t, "<p>para text</p>\n\n<h2>Header</h2>\n",
		render(t, 0, 0, "para text\nHeader\n------\n"))
}

func TestSpaceHeaders(t *testing.T) {
	assert.Equal(t, "<h1>x</h1>\n", render(t, 0, 0, "#x\n"))
	assert.Equal(t, "<p>#x</p>\n", render(t, markdown.SpaceHeaders, 0, "#x\n"))
	assert.Equal(t, "<h1>x</h1>\n", render(t, markdown.SpaceHeaders, 0, "# x\n"))
}

func TestHRule(t *testing.T) {
	assert.Equal(t, "<hr>\n", render(t, 0, 0, "* * *\n"))
	assert.Equal(t, "<hr>\n", render(t, 0, 0, "-----\n"))
	assert.Equal(t, "<hr/>\n", render(t, 0, html.UseXHTML, "___\n"))
}

func TestBlockquote(t *testing.T) {
	assert.Equal(t, "<blockquote>\n<p>q1\nq2</p>\n</blockquote>\n",
		render(t, 0, 0, "> q1\n> q2\n"))
	assert.Equal(t, "<blockquote>\n<blockquote>\n<p>deep</p>\n</blockquote>\n</blockquote>\n",
		render(t, 0, 0, "> > deep\n"))
}

func TestLists(t *testing.T) {
	assert.Equal(t, "<ol>\n<li>a</li>\n<li>b</li>\n</ol>\n", render(t, 0, 0, "1. a\n2. b\n"))
	assert.Equal(t, "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n", render(t, 0, 0, "- a\n- b\n"))

	nested := render(t, 0, 0, "- a\n    - sub\n- b\n")
	assert.Contains(t, nested, "<li>a\n\n<ul>\n<li>sub</li>\n</ul></li>")
	assert.Contains(t, nested, "<li>b</li>")

	multi := render(t, 0, 0, "- a\n\n  second\n- b\n")
	assert.Contains(t, multi, "<li><p>a</p>")
	assert.Contains(t, multi, "<p>second</p>")
}

func TestIndentedCode(t *testing.T) {
	assert.Equal(t, "<pre><code>code\n</code></pre>\n", render(t, 0, 0, "    code\n"))
	assert.Equal(t, "<pre><code>a\n\nb\n</code></pre>\n", render(t, 0, 0, "    a\n\n    b\n"))
}

func TestFencedCode(t *testing.T) {
	assert.Equal(t, "<pre><code class=\"c\">int x;\n</code></pre>\n",
		render(t, markdown.FencedCode, 0, "```c\nint x;\n```\n"))
	assert.Equal(t, "<pre><code>no lang\n</code></pre>\n",
		render(t, markdown.FencedCode, 0, "~~~\nno lang\n~~~\n"))
	// fence char and width must match; otherwise the line is content
	assert.Contains(t, render(t, markdown.FencedCode, 0, "````\nx\n```\n````\n"), "x\n```\n")
	// disabled without the extension
	assert.NotContains(t, render(t, 0, 0, "```\nx\n```\n"), "<pre>")
}

func TestReferenceLinks(t *testing.T) {
	assert.Equal(t, "<p><a href=\"http://e.com\" title=\"t\">x</a></p>\n",
		render(t, 0, 0, "[x][y]\n\n[y]: http://e.com \"t\"\n"))

	// order independence: definition before or after use
	before := render(t, 0, 0, "[r]: /url\n\nsee [text][r]\n")
	after := render(t, 0, 0, "see [text][r]\n\n[r]: /url\n")
	assert.Equal(t, before, after)
	assert.Contains(t, before, "<a href=\"/url\">text</a>")

	// labels are case-insensitive
	assert.Contains(t, render(t, 0, 0, "[x][ID]\n\n[id]: /u\n"), "<a href=\"/u\">x</a>")

	// shortcut reference
	assert.Contains(t, render(t, 0, 0, "[shortcut]\n\n[shortcut]: /s\n"),
		"<a href=\"/s\">shortcut</a>")

	// unresolved reference stays literal
	assert.Equal(t, "<p>[x][nope]</p>\n", render(t, 0, 0, "[x][nope]\n"))
}

func TestInlineLinksAndImages(t *testing.T) {
	assert.Equal(t, "<p><a href=\"/url\">text</a></p>\n", render(t, 0, 0, "[text](/url)"))
	assert.Equal(t, "<p><a href=\"/url\" title=\"ti\">text</a></p>\n",
		render(t, 0, 0, "[text](/url \"ti\")"))
	assert.Equal(t, "<p><a href=\"/url\">text</a></p>\n", render(t, 0, 0, "[text](</url>)"))
	assert.Equal(t, "<p><img src=\"/i.png\" alt=\"alt\"></p>\n", render(t, 0, 0, "![alt](/i.png)"))
	assert.Equal(t, "<p><img src=\"/i.png\" alt=\"alt\"/></p>\n",
		render(t, 0, html.UseXHTML, "![alt](/i.png)"))
}

func TestAngleAutolinks(t *testing.T) {
	assert.Equal(t, "<p><a href=\"http://example.com\">http://example.com</a></p>\n",
		render(t, 0, 0, "<http://example.com>"))
	assert.Equal(t, "<p><a href=\"mailto:me@example.com\">me@example.com</a></p>\n",
		render(t, 0, 0, "<me@example.com>"))
}

func TestRawInlineHTML(t *testing.T) {
	assert.Equal(t, "<p>a <em>b</em></p>\n", render(t, 0, 0, "a <em>b</em>"))
	assert.Equal(t, "<p>&lt;em&gt;b&lt;/em&gt;</p>\n",
		render(t, 0, html.Escape, "<em>b</em>"))
}

func TestBareAutolinks(t *testing.T) {
	assert.Equal(t,
		"<p>visit <a href=\"http://example.com\">http://example.com</a> now</p>\n",
		render(t, markdown.Autolink, 0, "visit http://example.com now"))
	assert.Equal(t,
		"<p>see <a href=\"http://www.example.com\">www.example.com</a></p>\n",
		render(t, markdown.Autolink, 0, "see www.example.com"))
	assert.Equal(t,
		"<p>mail <a href=\"mailto:me@example.com\">me@example.com</a></p>\n",
		render(t, markdown.Autolink, 0, "mail me@example.com"))
	// no autolinking inside link text
	assert.Equal(t, "<p><a href=\"/x\">http://example.com</a></p>\n",
		render(t, markdown.Autolink, 0, "[http://example.com](/x)"))
	// disabled without the extension
	assert.Equal(t, "<p>see http://example.com</p>\n",
		render(t, 0, 0, "see http://example.com"))
}

func TestEscapesAndEntities(t *testing.T) {
	assert.Equal(t, "<p>*not em*</p>\n", render(t, 0, 0, "\\*not em\\*"))
	assert.Equal(t, "<p>AT&amp;T stays AT&amp;T</p>\n", render(t, 0, 0, "AT&amp;T stays AT&amp;T"))
	assert.Equal(t, "<p>a &amp; b</p>\n", render(t, 0, 0, "a & b"))
	assert.Equal(t, "<p>&#8217;</p>\n", render(t, 0, 0, "&#8217;"))
}

func TestHardLineBreak(t *testing.T) {
	assert.Equal(t, "<p>foo<br>\nbar</p>\n", render(t, 0, 0, "foo  \nbar"))
	assert.Equal(t, "<p>foo\nbar</p>\n", render(t, 0, 0, "foo\nbar"))
}

func TestStrikethroughInsSuperscript(t *testing.T) {
	assert.Equal(t, "<p><del>x</del></p>\n", render(t, markdown.Strikethrough, 0, "~~x~~"))
	assert.Equal(t, "<p>~~x~~</p>\n", render(t, 0, 0, "~~x~~"))
	assert.Equal(t, "<p><ins>x</ins></p>\n", render(t, markdown.Ins, 0, "++x++"))
	assert.Equal(t, "<p>2<sup>nd</sup></p>\n", render(t, markdown.Superscript, 0, "2^nd"))
	assert.Equal(t, "<p>x<sup>a b</sup></p>\n", render(t, markdown.Superscript, 0, "x^(a b)"))
}

func TestNoIntraEmphasis(t *testing.T) {
	assert.Equal(t, "<p>foo_bar_baz</p>\n", render(t, markdown.NoIntraEmphasis, 0, "foo_bar_baz"))
	assert.Equal(t, "<p><em>em</em></p>\n", render(t, markdown.NoIntraEmphasis, 0, "_em_"))
}

func TestTables(t *testing.T) {
	got := render(t, markdown.Tables, 0, "a | b\n---|---\n1|2\n")
	want := "<table><thead>\n" +
		"<tr>\n<th>a</th>\n<th>b</th>\n</tr>\n" +
		"</thead><tbody>\n" +
		"<tr>\n<td>1</td>\n<td>2</td>\n</tr>\n" +
		"</tbody></table>\n"
	assert.Equal(t, want, got)
}

func TestTableAlignmentAndRagged(t *testing.T) {
	got := render(t, markdown.Tables, 0, "a|b\n:---|---:\nonly\nx|y|z\n")
	assert.Contains(t, got, "<th style=\"text-align: left\">a</th>")
	assert.Contains(t, got, "<th style=\"text-align: right\">b</th>")
	// a row without pipes ends the table
	assert.Contains(t, got, "<p>only\nx|y|z</p>")

	ragged := render(t, markdown.Tables, 0, "a|b\n---|---\n1|\nx|y|z\n")
	// missing cells emit empty, extra cells are truncated
	assert.Contains(t, ragged, "<td>1</td>\n<td></td>")
	assert.NotContains(t, ragged, "<td>z")
}

func TestHTMLBlock(t *testing.T) {
	assert.Equal(t, "<div>\nfoo\n</div>\n\n<p>text</p>\n",
		render(t, 0, 0, "<div>\nfoo\n</div>\n\ntext\n"))
	assert.Equal(t, "<!-- note -->\n", render(t, 0, 0, "<!-- note -->\n\n"))
	assert.Equal(t, "<hr>\n", render(t, 0, 0, "<hr>\n\n"))
}

func TestLaxSpacing(t *testing.T) {
	strict := render(t, 0, 0, "para\n- item\n")
	assert.Equal(t, "<p>para\n- item</p>\n", strict)

	lax := render(t, markdown.LaxSpacing, 0, "para\n- item\n")
	assert.Equal(t, "<p>para</p>\n\n<ul>\n<li>item</li>\n</ul>\n", lax)
}

func TestFootnotes(t *testing.T) {
	got := render(t, markdown.Footnotes, 0, "see[^1]\n\n[^1]: note\n")
	assert.Contains(t, got,
		"<sup id=\"fnref1\"><a href=\"#fn1\" rel=\"footnote\">1</a></sup>")
	assert.Contains(t, got, "<div class=\"footnotes\">")
	assert.Contains(t, got, "<li id=\"fn1\">")
	assert.Contains(t, got, "note")

	// numbering follows first use, not definition order
	uses := render(t, markdown.Footnotes, 0,
		"first[^b] then[^a]\n\n[^a]: alpha\n\n[^b]: beta\n")
	assert.Contains(t, uses, "<sup id=\"fnref1\">")
	idx1 := strings.Index(uses, "beta")
	idx2 := strings.Index(uses, "alpha")
	assert.True(t, idx1 >= 0 && idx2 >= 0 && idx1 < idx2, "beta must precede alpha: %q", uses)

	// undefined footnote stays literal
	assert.Equal(t, "<p>[^missing]</p>\n", render(t, markdown.Footnotes, 0, "[^missing]\n"))
}

func TestPreprocessing(t *testing.T) {
	// UTF-8 BOM is skipped
	assert.Equal(t, "<h1>H</h1>\n", render(t, 0, 0, "\xEF\xBB\xBF# H\n"))
	// CR and CRLF fold to LF
	assert.Equal(t, "<p>a\nb</p>\n", render(t, 0, 0, "a\r\nb\r"))
	// tabs expand to 4-column stops (4 spaces means code)
	assert.Equal(t, "<pre><code>code\n</code></pre>\n", render(t, 0, 0, "\tcode\n"))
	// missing final newline is supplied
	assert.Equal(t, "<h1>H</h1>\n", render(t, 0, 0, "# H"))
}

func TestTOCHeaderIDs(t *testing.T) {
	got := render(t, 0, html.TOC, "# A\n## B\n")
	assert.Contains(t, got, "<h1 id=\"toc_0\">A</h1>")
	assert.Contains(t, got, "<h2 id=\"toc_1\">B</h2>")
}

func TestOutlineSections(t *testing.T) {
	got := render(t, 0, html.Outline, "# A\n\ntext\n\n# B\n")
	assert.Contains(t, got, "<section class=\"section1\">")
	assert.Equal(t, strings.Count(got, "<section"), strings.Count(got, "</section>"))
}

func TestTOCRenderer(t *testing.T) {
	toc := html.NewTOC()
	parser := markdown.New(0, 16, toc.Callbacks())
	ob := buffer.New(64)
	parser.Render(ob, []byte("# A\n## B\n# C\n"))
	got := ob.String()

	assert.True(t, strings.HasPrefix(got, "<ul>\n"))
	assert.Contains(t, got, "<a href=\"#toc_0\">A</a>")
	assert.Contains(t, got, "<a href=\"#toc_1\">B</a>")
	assert.Contains(t, got, "<a href=\"#toc_2\">C</a>")
	assert.Equal(t, strings.Count(got, "<ul>"), strings.Count(got, "</ul>"))
	assert.Equal(t, strings.Count(got, "<li>"), strings.Count(got, "</li>"))
	assert.NotContains(t, got, "<p>")
}

func TestSafelink(t *testing.T) {
	unsafe := render(t, 0, html.Safelink, "[x](javascript:alert\\(1\\))")
	assert.NotContains(t, unsafe, "<a href")

	safe := render(t, 0, html.Safelink, "[x](http://example.com)")
	assert.Contains(t, safe, "<a href=\"http://example.com\">x</a>")
}

func TestSkipFlags(t *testing.T) {
	assert.NotContains(t, render(t, 0, html.SkipImages, "![alt](/x.png)"), "<img")
	assert.NotContains(t, render(t, 0, html.SkipLinks, "[x](/y)"), "<a href")
	assert.NotContains(t, render(t, 0, html.SkipHTML, "<div>\nx\n</div>\n\n"), "<div>")
}

func TestHardWrapFlag(t *testing.T) {
	assert.Equal(t, "<p>a<br>\nb</p>\n", render(t, 0, html.HardWrap, "a\nb"))
}

func TestConcurrentParsersAreIndependent(t *testing.T) {
	// two parsers may run at once; one parser must not be shared
	done := make(chan string, 2)
	for i := 0; i < 2; i++ {
		go func() {
			done <- render(t, 0, 0, "**hello**")
		}()
	}
	a, b := <-done, <-done
	assert.Equal(t, a, b)
	assert.Equal(t, "<p><strong>hello</strong></p>\n", a)
}
