// Package markdown implements a two-pass Markdown parser. The first
// pass extracts link and footnote definitions and normalises the
// document (tab expansion, newline folding); the second pass walks the
// normalised text with a block-level recogniser and an inline
// tokeniser driven by an active-character table, emitting semantic
// events through the Callbacks contract. The package renders nothing
// itself: pkg/html supplies the reference renderers.
package markdown

import (
	"bytes"

	"github.com/yaklabco/sundial/pkg/buffer"
)

// Version of the library.
const Version = "1.0.0"

// Extensions is the opt-in syntax extension bitset.
type Extensions uint32

const (
	// NoIntraEmphasis forbids emphasis inside words (foo_bar_baz).
	NoIntraEmphasis Extensions = 1 << iota
	// Tables enables pipe tables.
	Tables
	// FencedCode enables ``` and ~~~ code blocks.
	FencedCode
	// Autolink enables bare URL, www and email detection.
	Autolink
	// Strikethrough enables ~~text~~.
	Strikethrough
	// Ins enables ++text++.
	Ins
	// LaxSpacing lets lists, HTML blocks and fences interrupt a
	// paragraph without a preceding blank line. A line that begins
	// with a letter or digit never interrupts, so an unindented
	// ordered-list marker does not.
	LaxSpacing
	// SpaceHeaders requires a space after # in ATX headers.
	SpaceHeaders
	// Superscript enables ^text and ^(some text).
	Superscript
	// Footnotes enables [^id] references and definitions.
	Footnotes
)

// DefaultNesting is the work-buffer nesting limit used when New is
// given a non-positive one.
const DefaultNesting = 16

// Inline trigger categories for the active-character table.
const (
	charNone byte = iota
	charEmphasis
	charCodespan
	charLinebreak
	charLink
	charLangle
	charEscape
	charEntity
	charAutolinkURL
	charAutolinkEmail
	charAutolinkWWW
	charSuperscript
)

// Work-buffer allocation units, block and span granularity.
const (
	blockUnit = 256
	spanUnit  = 64
)

// linkRef is a [label]: url "title" definition collected by pass 1.
type linkRef struct {
	label []byte
	link  *buffer.Buffer
	title *buffer.Buffer
}

// footnoteRef is a [^label]: definition; num is assigned in first-use
// order and stable from then on.
type footnoteRef struct {
	label    []byte
	used     bool
	num      int
	contents *buffer.Buffer
}

type footnoteList struct {
	items []*footnoteRef
}

func (l *footnoteList) add(ref *footnoteRef) {
	l.items = append(l.items, ref)
}

func (l *footnoteList) find(label []byte) *footnoteRef {
	h := hashLabel(label)
	for _, ref := range l.items {
		if hashLabel(ref.label) == h && labelsEqual(ref.label, label) {
			return ref
		}
	}
	return nil
}

// Parser holds the state for one render configuration. A Parser is
// not safe for concurrent use; concurrent renders need one Parser
// each.
type Parser struct {
	cb         Callbacks
	ext        Extensions
	maxNesting int

	refs           map[uint32][]*linkRef
	footnotesFound footnoteList
	footnotesUsed  footnoteList

	activeChar [256]byte
	blockBufs  buffer.Stack
	spanBufs   buffer.Stack
	inLinkBody bool
}

// New builds a parser for the given extension set and callback set.
// The active-character table is armed from the non-nil callbacks, so
// constructs whose renderer is absent cost nothing during parsing.
func New(ext Extensions, maxNesting int, cb Callbacks) *Parser {
	if maxNesting <= 0 {
		maxNesting = DefaultNesting
	}
	p := &Parser{cb: cb, ext: ext, maxNesting: maxNesting}

	if cb.Emphasis != nil || cb.DoubleEmphasis != nil || cb.TripleEmphasis != nil {
		p.activeChar['*'] = charEmphasis
		p.activeChar['_'] = charEmphasis
		if ext&Strikethrough != 0 {
			p.activeChar['~'] = charEmphasis
		}
		if ext&Ins != 0 {
			p.activeChar['+'] = charEmphasis
		}
	}
	if cb.CodeSpan != nil {
		p.activeChar['`'] = charCodespan
	}
	if cb.LineBreak != nil {
		p.activeChar['\n'] = charLinebreak
	}
	if cb.Image != nil || cb.Link != nil {
		p.activeChar['['] = charLink
	}
	p.activeChar['<'] = charLangle
	p.activeChar['\\'] = charEscape
	p.activeChar['&'] = charEntity
	if ext&Autolink != 0 {
		p.activeChar[':'] = charAutolinkURL
		p.activeChar['@'] = charAutolinkEmail
		p.activeChar['w'] = charAutolinkWWW
	}
	if ext&Superscript != 0 {
		p.activeChar['^'] = charSuperscript
	}

	return p
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Render parses doc and appends the rendered document to ob. The
// first pass strips reference definitions into the parser tables; the
// second emits renderer events in document order, with footnote
// definitions gathered at the end.
func (p *Parser) Render(ob *buffer.Buffer, doc []byte) {
	text := buffer.New(64)
	if text.Grow(len(doc)) != nil {
		return
	}

	p.refs = make(map[uint32][]*linkRef)
	p.footnotesFound = footnoteList{}
	p.footnotesUsed = footnoteList{}
	p.inLinkBody = false

	p.scanReferences(text, doc)

	// Pre-grow the output to roughly 1.5x the working text so block
	// rendering rarely reallocates.
	if ob.Grow(ob.Len()+text.Len()+text.Len()/2) != nil {
		return
	}

	if p.cb.DocHeader != nil {
		p.cb.DocHeader(ob)
	}

	if text.Len() > 0 {
		data := text.Bytes()
		if c := data[len(data)-1]; c != '\n' && c != '\r' {
			text.PutByte('\n')
		}
		p.parseBlock(ob, text.Bytes())
	}

	if p.ext&Footnotes != 0 {
		p.parseFootnoteList(ob, &p.footnotesUsed)
	}

	if p.cb.DocFooter != nil {
		p.cb.DocFooter(ob)
	}
	if p.cb.Outline != nil {
		p.cb.Outline(ob)
	}

	p.refs = nil
	p.footnotesFound = footnoteList{}
	p.footnotesUsed = footnoteList{}
}

// workBuffersEmpty reports whether both work pools have drained; true
// on every return from Render.
func (p *Parser) workBuffersEmpty() bool {
	return p.blockBufs.Len() == 0 && p.spanBufs.Len() == 0
}

// nestingExceeded gates recursive entry into block or inline parsing.
func (p *Parser) nestingExceeded() bool {
	return p.spanBufs.Len()+p.blockBufs.Len() > p.maxNesting
}

func newWorkBuffer(pool *buffer.Stack, unit int) *buffer.Buffer {
	if b := pool.Retained(); b != nil {
		b.Reset()
		pool.Push(b)
		return b
	}
	b := buffer.New(unit)
	pool.Push(b)
	return b
}

func (p *Parser) newBlockBuf() *buffer.Buffer { return newWorkBuffer(&p.blockBufs, blockUnit) }
func (p *Parser) newSpanBuf() *buffer.Buffer  { return newWorkBuffer(&p.spanBufs, spanUnit) }
func (p *Parser) popBlockBuf()                { p.blockBufs.Pop() }
func (p *Parser) popSpanBuf()                 { p.spanBufs.Pop() }

// hashLabel computes the mixed-radix, case-folded hash the reference
// tables are keyed by.
func hashLabel(label []byte) uint32 {
	var h uint32
	for _, c := range label {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		h = uint32(c) + (h << 6) + (h << 16) - h
	}
	return h
}

// labelsEqual compares reference labels case-insensitively. The
// original library trusted the hash alone; comparing the bytes closes
// its collision hole without changing behaviour for honest input.
func labelsEqual(a, b []byte) bool {
	return bytes.EqualFold(a, b)
}

func (p *Parser) addLinkRef(label []byte) *linkRef {
	ref := &linkRef{label: append([]byte(nil), label...)}
	h := hashLabel(label)
	p.refs[h] = append(p.refs[h], ref)
	return ref
}

func (p *Parser) findLinkRef(label []byte) *linkRef {
	for _, ref := range p.refs[hashLabel(label)] {
		if labelsEqual(ref.label, label) {
			return ref
		}
	}
	return nil
}

// unescapeText copies src to ob dropping backslash escapes.
func unescapeText(ob *buffer.Buffer, src []byte) {
	i := 0
	for i < len(src) {
		org := i
		for i < len(src) && src[i] != '\\' {
			i++
		}
		if i > org {
			ob.Put(src[org:i])
		}
		if i+1 >= len(src) {
			break
		}
		ob.PutByte(src[i+1])
		i += 2
	}
}

// isSpace matches the spaces the parser cares about: tabs and carriage
// returns are gone after preprocessing.
func isSpace(c byte) bool {
	return c == ' ' || c == '\n'
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
