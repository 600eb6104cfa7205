package html

import (
	"github.com/yaklabco/sundial/pkg/buffer"
	"github.com/yaklabco/sundial/pkg/markdown"
)

// TOCRenderer renders only a nested list of header anchors, matching
// the toc_N ids the HTML renderer emits under the TOC flag. Header
// text is rendered by the span callbacks and then entity-escaped
// inside the anchor, so inline markup shows as text; links flatten to
// their text.
type TOCRenderer struct {
	tocData struct {
		headerCount  int
		currentLevel int
		levelOffset  int
	}
}

// NewTOC builds a table-of-contents renderer.
func NewTOC() *TOCRenderer {
	return &TOCRenderer{}
}

// Callbacks assembles the reduced callback set: headers drive the
// list, span-level callbacks produce the header text, everything else
// is dropped.
func (r *TOCRenderer) Callbacks() markdown.Callbacks {
	return markdown.Callbacks{
		Header: r.header,

		CodeSpan:       codeSpanText,
		DoubleEmphasis: doubleEmphasisText,
		Emphasis:       emphasisText,
		Link:           r.link,
		TripleEmphasis: tripleEmphasisText,
		Ins:            insText,
		Strikethrough:  strikethroughText,
		Superscript:    superscriptText,

		DocFooter: r.finalize,
	}
}

func (r *TOCRenderer) header(ob *buffer.Buffer, text []byte, level int) {
	// the first header seen sets the level offset for the document
	if r.tocData.currentLevel == 0 {
		r.tocData.levelOffset = level - 1
	}
	level -= r.tocData.levelOffset

	if level > r.tocData.currentLevel {
		for level > r.tocData.currentLevel {
			ob.PutString("<ul>\n<li>\n")
			r.tocData.currentLevel++
		}
	} else if level < r.tocData.currentLevel {
		ob.PutString("</li>\n")
		for level < r.tocData.currentLevel {
			ob.PutString("</ul>\n</li>\n")
			r.tocData.currentLevel--
		}
		ob.PutString("<li>\n")
	} else {
		ob.PutString("</li>\n<li>\n")
	}

	ob.Printf("<a href=\"#toc_%d\">", r.tocData.headerCount)
	r.tocData.headerCount++
	EscapeHTML(ob, text)
	ob.PutString("</a>\n")
}

func (r *TOCRenderer) link(ob *buffer.Buffer, link, title, content []byte) bool {
	ob.Put(content)
	return true
}

func (r *TOCRenderer) finalize(ob *buffer.Buffer) {
	for r.tocData.currentLevel > 0 {
		ob.PutString("</li>\n</ul>\n")
		r.tocData.currentLevel--
	}
}

// The span pass-throughs shared with the full renderer's markup, kept
// free of renderer state.

func codeSpanText(ob *buffer.Buffer, text []byte) bool {
	ob.PutString("<code>")
	EscapeHTML(ob, text)
	ob.PutString("</code>")
	return true
}

func doubleEmphasisText(ob *buffer.Buffer, text []byte) bool {
	if len(text) == 0 {
		return false
	}
	ob.PutString("<strong>")
	ob.Put(text)
	ob.PutString("</strong>")
	return true
}

func emphasisText(ob *buffer.Buffer, text []byte) bool {
	if len(text) == 0 {
		return false
	}
	ob.PutString("<em>")
	ob.Put(text)
	ob.PutString("</em>")
	return true
}

func tripleEmphasisText(ob *buffer.Buffer, text []byte) bool {
	if len(text) == 0 {
		return false
	}
	ob.PutString("<strong><em>")
	ob.Put(text)
	ob.PutString("</em></strong>")
	return true
}

func insText(ob *buffer.Buffer, text []byte) bool {
	if len(text) == 0 {
		return false
	}
	ob.PutString("<ins>")
	ob.Put(text)
	ob.PutString("</ins>")
	return true
}

func strikethroughText(ob *buffer.Buffer, text []byte) bool {
	if len(text) == 0 {
		return false
	}
	ob.PutString("<del>")
	ob.Put(text)
	ob.PutString("</del>")
	return true
}

func superscriptText(ob *buffer.Buffer, text []byte) bool {
	if len(text) == 0 {
		return false
	}
	ob.PutString("<sup>")
	ob.Put(text)
	ob.PutString("</sup>")
	return true
}
