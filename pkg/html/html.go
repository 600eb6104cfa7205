// Package html provides the reference renderers for the Markdown
// parser: a full HTML renderer, a table-of-contents renderer, the
// escapers they rely on, and the SmartyPants post-processor.
package html

import (
	"github.com/yaklabco/sundial/pkg/autolink"
	"github.com/yaklabco/sundial/pkg/buffer"
	"github.com/yaklabco/sundial/pkg/markdown"
)

// Flags tune the HTML renderer output.
type Flags int

const (
	// SkipHTML drops raw HTML blocks from the output.
	SkipHTML Flags = 1 << iota
	// SkipStyle drops inline <style> tags.
	SkipStyle
	// SkipLinks drops links and autolinks.
	SkipLinks
	// SkipImages drops images.
	SkipImages
	// Safelink only emits links whose target passes autolink.IsSafe.
	Safelink
	// TOC numbers headers with toc_N anchors.
	TOC
	// HardWrap turns intra-paragraph newlines into <br>.
	HardWrap
	// UseXHTML emits self-closed void elements.
	UseXHTML
	// Escape entity-escapes all raw HTML, overriding the skip flags.
	Escape
	// Outline wraps each header in nested <section> elements.
	Outline
)

// TagKind classifies what IsTag found.
type TagKind int

const (
	TagNone TagKind = iota
	TagOpen
	TagClose
)

// IsTag reports whether data opens or closes the given HTML tag.
func IsTag(data []byte, tagname string) TagKind {
	if len(data) < 3 || data[0] != '<' {
		return TagNone
	}

	i := 1
	closed := false
	if data[i] == '/' {
		closed = true
		i++
	}

	for j := 0; i < len(data); i, j = i+1, j+1 {
		if j >= len(tagname) {
			break
		}
		if data[i] != tagname[j] {
			return TagNone
		}
	}

	if i == len(data) {
		return TagNone
	}

	if c := data[i]; c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '>' {
		if closed {
			return TagClose
		}
		return TagOpen
	}
	return TagNone
}

// Renderer is the reference HTML renderer. It carries the per-render
// TOC and outline counters, so renders must not share one concurrently.
type Renderer struct {
	flags Flags

	// LinkAttributes, when set, writes extra attributes into every
	// anchor tag (e.g. rel="nofollow").
	LinkAttributes func(ob *buffer.Buffer, link []byte)

	// DetectLanguage, when set, names the code class for fenced
	// blocks that carry no language token.
	DetectLanguage func(code []byte) string

	tocData struct {
		headerCount  int
		currentLevel int
		levelOffset  int
	}
	outlineData struct {
		openSectionCount int
		currentLevel     int
	}
}

// New builds an HTML renderer with the given flag set.
func New(flags Flags) *Renderer {
	return &Renderer{flags: flags}
}

// Callbacks assembles the parser callback set, honouring the skip
// flags by leaving the corresponding entries nil.
func (r *Renderer) Callbacks() markdown.Callbacks {
	cb := markdown.Callbacks{
		BlockCode:   r.blockCode,
		BlockQuote:  r.blockQuote,
		BlockHTML:   r.blockHTML,
		Header:      r.header,
		HRule:       r.hrule,
		List:        r.list,
		ListItem:    r.listItem,
		Paragraph:   r.paragraph,
		Table:       r.table,
		TableRow:    r.tableRow,
		TableCell:   r.tableCell,
		Footnotes:   r.footnotes,
		FootnoteDef: r.footnoteDef,

		AutoLink:       r.autoLink,
		CodeSpan:       codeSpanText,
		DoubleEmphasis: doubleEmphasisText,
		Emphasis:       emphasisText,
		Image:          r.image,
		LineBreak:      r.lineBreak,
		Link:           r.link,
		RawHTMLTag:     r.rawHTMLTag,
		TripleEmphasis: tripleEmphasisText,
		Ins:            insText,
		Strikethrough:  strikethroughText,
		Superscript:    superscriptText,
		FootnoteRef:    r.footnoteRef,

		NormalText: r.normalText,
	}

	if r.flags&Outline != 0 {
		cb.Outline = r.finalize
	}
	if r.flags&SkipImages != 0 {
		cb.Image = nil
	}
	if r.flags&SkipLinks != 0 {
		cb.Link = nil
		cb.AutoLink = nil
	}
	if r.flags&SkipHTML != 0 || r.flags&Escape != 0 {
		cb.BlockHTML = nil
	}

	return cb
}

func (r *Renderer) xhtml() bool {
	return r.flags&UseXHTML != 0
}

func (r *Renderer) autoLink(ob *buffer.Buffer, link []byte, kind markdown.AutolinkKind) bool {
	if len(link) == 0 {
		return false
	}
	if r.flags&Safelink != 0 && !autolink.IsSafe(link) && kind != markdown.EmailAutolink {
		return false
	}

	ob.PutString("<a href=\"")
	if kind == markdown.EmailAutolink {
		ob.PutString("mailto:")
	}
	EscapeHref(ob, link)

	if r.LinkAttributes != nil {
		ob.PutByte('"')
		r.LinkAttributes(ob, link)
		ob.PutByte('>')
	} else {
		ob.PutString("\">")
	}

	// Pretty printing: a mailto: URI keeps its prefix out of the
	// visible text.
	if len(link) >= 7 && string(link[:7]) == "mailto:" {
		EscapeHTML(ob, link[7:])
	} else {
		EscapeHTML(ob, link)
	}

	ob.PutString("</a>")
	return true
}

func (r *Renderer) blockCode(ob *buffer.Buffer, text, lang []byte) {
	if ob.Len() > 0 {
		ob.PutByte('\n')
	}

	if len(lang) == 0 && r.DetectLanguage != nil {
		if detected := r.DetectLanguage(text); detected != "" {
			lang = []byte(detected)
		}
	}

	if len(lang) > 0 {
		ob.PutString("<pre><code class=\"")
		cls := 0
		for i := 0; i < len(lang); i, cls = i+1, cls+1 {
			for i < len(lang) && isHTMLSpace(lang[i]) {
				i++
			}
			if i < len(lang) {
				org := i
				for i < len(lang) && !isHTMLSpace(lang[i]) {
					i++
				}
				if lang[org] == '.' {
					org++
				}
				if cls != 0 {
					ob.PutByte(' ')
				}
				EscapeHTML(ob, lang[org:i])
			}
		}
		ob.PutString("\">")
	} else {
		ob.PutString("<pre><code>")
	}

	EscapeHTML(ob, text)
	ob.PutString("</code></pre>\n")
}

func (r *Renderer) blockQuote(ob *buffer.Buffer, text []byte) {
	if ob.Len() > 0 {
		ob.PutByte('\n')
	}
	ob.PutString("<blockquote>\n")
	ob.Put(text)
	ob.PutString("</blockquote>\n")
}

func (r *Renderer) lineBreak(ob *buffer.Buffer) bool {
	if r.xhtml() {
		ob.PutString("<br/>\n")
	} else {
		ob.PutString("<br>\n")
	}
	return true
}

func (r *Renderer) header(ob *buffer.Buffer, text []byte, level int) {
	if ob.Len() > 0 {
		ob.PutByte('\n')
	}

	if r.flags&Outline != 0 {
		if r.outlineData.currentLevel >= level {
			ob.PutString("</section>")
			r.outlineData.openSectionCount--
		}
		ob.Printf("<section class=\"section%d\">\n", level)
		r.outlineData.openSectionCount++
		r.outlineData.currentLevel = level
	}

	if r.flags&TOC != 0 {
		ob.Printf("<h%d id=\"toc_%d\">", level, r.tocData.headerCount)
		r.tocData.headerCount++
	} else {
		ob.Printf("<h%d>", level)
	}

	ob.Put(text)
	ob.Printf("</h%d>\n", level)
}

func (r *Renderer) link(ob *buffer.Buffer, link, title, content []byte) bool {
	if link != nil && r.flags&Safelink != 0 && !autolink.IsSafe(link) {
		return false
	}

	ob.PutString("<a href=\"")
	EscapeHref(ob, link)
	if len(title) > 0 {
		ob.PutString("\" title=\"")
		EscapeHTML(ob, title)
	}

	if r.LinkAttributes != nil {
		ob.PutByte('"')
		r.LinkAttributes(ob, link)
		ob.PutByte('>')
	} else {
		ob.PutString("\">")
	}

	ob.Put(content)
	ob.PutString("</a>")
	return true
}

func (r *Renderer) list(ob *buffer.Buffer, text []byte, flags markdown.ListFlags) {
	if ob.Len() > 0 {
		ob.PutByte('\n')
	}
	if flags&markdown.ListOrdered != 0 {
		ob.PutString("<ol>\n")
	} else {
		ob.PutString("<ul>\n")
	}
	ob.Put(text)
	if flags&markdown.ListOrdered != 0 {
		ob.PutString("</ol>\n")
	} else {
		ob.PutString("</ul>\n")
	}
}

func (r *Renderer) listItem(ob *buffer.Buffer, text []byte, flags markdown.ListFlags) {
	ob.PutString("<li>")
	size := len(text)
	for size > 0 && text[size-1] == '\n' {
		size--
	}
	ob.Put(text[:size])
	ob.PutString("</li>\n")
}

func (r *Renderer) paragraph(ob *buffer.Buffer, text []byte) {
	if ob.Len() > 0 {
		ob.PutByte('\n')
	}
	if len(text) == 0 {
		return
	}

	i := 0
	for i < len(text) && isHTMLSpace(text[i]) {
		i++
	}
	if i == len(text) {
		return
	}

	ob.PutString("<p>")
	if r.flags&HardWrap != 0 {
		for i < len(text) {
			org := i
			for i < len(text) && text[i] != '\n' {
				i++
			}
			if i > org {
				ob.Put(text[org:i])
			}

			// no break after the paragraph's final newline
			if i >= len(text)-1 {
				break
			}
			r.lineBreak(ob)
			i++
		}
	} else {
		ob.Put(text[i:])
	}
	ob.PutString("</p>\n")
}

func (r *Renderer) blockHTML(ob *buffer.Buffer, text []byte) {
	sz := len(text)
	for sz > 0 && text[sz-1] == '\n' {
		sz--
	}
	org := 0
	for org < sz && text[org] == '\n' {
		org++
	}
	if org >= sz {
		return
	}
	if ob.Len() > 0 {
		ob.PutByte('\n')
	}
	ob.Put(text[org:sz])
	ob.PutByte('\n')
}

func (r *Renderer) hrule(ob *buffer.Buffer) {
	if ob.Len() > 0 {
		ob.PutByte('\n')
	}
	if r.xhtml() {
		ob.PutString("<hr/>\n")
	} else {
		ob.PutString("<hr>\n")
	}
}

func (r *Renderer) image(ob *buffer.Buffer, link, title, alt []byte) bool {
	if len(link) == 0 {
		return false
	}

	ob.PutString("<img src=\"")
	EscapeHref(ob, link)
	ob.PutString("\" alt=\"")
	EscapeHTML(ob, alt)
	if len(title) > 0 {
		ob.PutString("\" title=\"")
		EscapeHTML(ob, title)
	}

	if r.xhtml() {
		ob.PutString("\"/>")
	} else {
		ob.PutString("\">")
	}
	return true
}

func (r *Renderer) rawHTMLTag(ob *buffer.Buffer, text []byte) bool {
	// Escape overrides the skip flags: everything is escaped without
	// looking at the tag.
	if r.flags&Escape != 0 {
		EscapeHTML(ob, text)
		return true
	}
	if r.flags&SkipHTML != 0 {
		return true
	}
	if r.flags&SkipStyle != 0 && IsTag(text, "style") != TagNone {
		return true
	}
	if r.flags&SkipLinks != 0 && IsTag(text, "a") != TagNone {
		return true
	}
	if r.flags&SkipImages != 0 && IsTag(text, "img") != TagNone {
		return true
	}
	ob.Put(text)
	return true
}

func (r *Renderer) table(ob *buffer.Buffer, header, body []byte) {
	if ob.Len() > 0 {
		ob.PutByte('\n')
	}
	ob.PutString("<table><thead>\n")
	ob.Put(header)
	ob.PutString("</thead><tbody>\n")
	ob.Put(body)
	ob.PutString("</tbody></table>\n")
}

func (r *Renderer) tableRow(ob *buffer.Buffer, text []byte) {
	ob.PutString("<tr>\n")
	ob.Put(text)
	ob.PutString("</tr>\n")
}

func (r *Renderer) tableCell(ob *buffer.Buffer, text []byte, flags markdown.TableFlags) {
	if flags&markdown.TableHeader != 0 {
		ob.PutString("<th")
	} else {
		ob.PutString("<td")
	}

	switch flags & markdown.TableAlignMask {
	case markdown.TableAlignCenter:
		ob.PutString(" style=\"text-align: center\">")
	case markdown.TableAlignLeft:
		ob.PutString(" style=\"text-align: left\">")
	case markdown.TableAlignRight:
		ob.PutString(" style=\"text-align: right\">")
	default:
		ob.PutString(">")
	}

	ob.Put(text)

	if flags&markdown.TableHeader != 0 {
		ob.PutString("</th>\n")
	} else {
		ob.PutString("</td>\n")
	}
}

func (r *Renderer) normalText(ob *buffer.Buffer, text []byte) {
	EscapeHTML(ob, text)
}

// finalize closes the <section> elements Outline left open.
func (r *Renderer) finalize(ob *buffer.Buffer) {
	if r.flags&Outline != 0 {
		for i := 0; i < r.outlineData.openSectionCount; i++ {
			ob.PutString("\n</section>\n")
		}
		r.outlineData.openSectionCount = 0
	}
}

func (r *Renderer) footnotes(ob *buffer.Buffer, text []byte) {
	ob.PutString("<div class=\"footnotes\">\n<hr />\n<ol>\n")
	ob.Put(text)
	ob.PutString("\n</ol>\n</div>\n")
}

func (r *Renderer) footnoteDef(ob *buffer.Buffer, text []byte, num int) {
	// insert the backref anchor at the end of the first paragraph
	i := 0
	pfound := false
	for i+3 < len(text) {
		if text[i] != '<' {
			i++
			continue
		}
		i++
		if text[i] != '/' {
			i++
			continue
		}
		i++
		if text[i] != 'p' && text[i] != 'P' {
			i++
			continue
		}
		i++
		if text[i] != '>' {
			continue
		}
		i -= 3
		pfound = true
		break
	}

	ob.Printf("\n<li id=\"fn%d\">\n", num)
	if pfound {
		ob.Put(text[:i])
		ob.Printf("&nbsp;<a href=\"#fnref%d\" rev=\"footnote\">&#8617;</a>", num)
		ob.Put(text[i:])
	} else {
		ob.Put(text)
	}
	ob.PutString("</li>\n")
}

func (r *Renderer) footnoteRef(ob *buffer.Buffer, num int) bool {
	ob.Printf("<sup id=\"fnref%d\"><a href=\"#fn%d\" rel=\"footnote\">%d</a></sup>", num, num, num)
	return true
}

func isHTMLSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
