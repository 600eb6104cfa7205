package markdown

import "github.com/yaklabco/sundial/pkg/buffer"

// AutolinkKind classifies an autolink candidate.
type AutolinkKind int

const (
	NotAutolink AutolinkKind = iota
	NormalAutolink
	EmailAutolink
)

// ListFlags describe a list or list item to the renderer.
type ListFlags int

const (
	// ListOrdered marks an ordered (numbered) list.
	ListOrdered ListFlags = 1 << iota
	// ListItemContainsBlock marks an item whose body was parsed as
	// block-level content.
	ListItemContainsBlock

	// listItemEnd terminates the enclosing list; internal only.
	listItemEnd ListFlags = 8
)

// TableFlags describe a table cell to the renderer.
type TableFlags int

const (
	TableAlignLeft   TableFlags = 1
	TableAlignRight  TableFlags = 2
	TableAlignCenter TableFlags = TableAlignLeft | TableAlignRight
	TableAlignMask   TableFlags = 3
	TableHeader      TableFlags = 4
)

// Callbacks is the renderer contract. Every entry is optional: a nil
// callback disables the construct that would produce it, and the
// parser arms its active-character table accordingly at New.
//
// Block callbacks receive fully-rendered child content in text and
// write their own output to ob. Inline callbacks return false to
// refuse a span, in which case the parser backs up and emits the
// trigger byte as literal text.
type Callbacks struct {
	// Block-level callbacks.
	BlockCode   func(ob *buffer.Buffer, text, lang []byte)
	BlockQuote  func(ob *buffer.Buffer, text []byte)
	BlockHTML   func(ob *buffer.Buffer, text []byte)
	Header      func(ob *buffer.Buffer, text []byte, level int)
	HRule       func(ob *buffer.Buffer)
	List        func(ob *buffer.Buffer, text []byte, flags ListFlags)
	ListItem    func(ob *buffer.Buffer, text []byte, flags ListFlags)
	Paragraph   func(ob *buffer.Buffer, text []byte)
	Table       func(ob *buffer.Buffer, header, body []byte)
	TableRow    func(ob *buffer.Buffer, text []byte)
	TableCell   func(ob *buffer.Buffer, text []byte, flags TableFlags)
	Footnotes   func(ob *buffer.Buffer, text []byte)
	FootnoteDef func(ob *buffer.Buffer, text []byte, num int)

	// Span-level callbacks.
	AutoLink       func(ob *buffer.Buffer, link []byte, kind AutolinkKind) bool
	CodeSpan       func(ob *buffer.Buffer, text []byte) bool
	DoubleEmphasis func(ob *buffer.Buffer, text []byte) bool
	Emphasis       func(ob *buffer.Buffer, text []byte) bool
	Image          func(ob *buffer.Buffer, link, title, alt []byte) bool
	LineBreak      func(ob *buffer.Buffer) bool
	Link           func(ob *buffer.Buffer, link, title, content []byte) bool
	RawHTMLTag     func(ob *buffer.Buffer, tag []byte) bool
	TripleEmphasis func(ob *buffer.Buffer, text []byte) bool
	Ins            func(ob *buffer.Buffer, text []byte) bool
	Strikethrough  func(ob *buffer.Buffer, text []byte) bool
	Superscript    func(ob *buffer.Buffer, text []byte) bool
	FootnoteRef    func(ob *buffer.Buffer, num int) bool

	// Low-level callbacks.
	Entity     func(ob *buffer.Buffer, entity []byte)
	NormalText func(ob *buffer.Buffer, text []byte)

	// Document framing.
	DocHeader func(ob *buffer.Buffer)
	DocFooter func(ob *buffer.Buffer)
	Outline   func(ob *buffer.Buffer)
}
