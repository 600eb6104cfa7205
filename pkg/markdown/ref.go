package markdown

import "github.com/yaklabco/sundial/pkg/buffer"

// scanReferences is the first pass: it walks doc line by line pulling
// out footnote and link-reference definitions, and pipes every other
// line through tab expansion into text. CR and CRLF endings are folded
// to a single LF.
func (p *Parser) scanReferences(text *buffer.Buffer, doc []byte) {
	beg := 0
	if len(doc) >= 3 && doc[0] == utf8BOM[0] && doc[1] == utf8BOM[1] && doc[2] == utf8BOM[2] {
		beg = 3
	}

	for beg < len(doc) {
		if p.ext&Footnotes != 0 {
			if last, ok := p.isFootnote(doc, beg); ok {
				beg = last
				continue
			}
		}
		if last, ok := p.isRef(doc, beg); ok {
			beg = last
			continue
		}

		end := beg
		for end < len(doc) && doc[end] != '\n' && doc[end] != '\r' {
			end++
		}
		if end > beg {
			expandTabs(text, doc[beg:end])
		}
		for end < len(doc) && (doc[end] == '\n' || doc[end] == '\r') {
			// one LF per logical newline
			if doc[end] == '\n' || (end+1 < len(doc) && doc[end+1] != '\n') {
				text.PutByte('\n')
			}
			end++
		}
		beg = end
	}
}

// isRef matches a link reference definition starting at beg:
//
//	[id]: url "optional title"
//
// with up to three leading spaces, optional angle brackets around the
// url, and the title on the same or the following line quoted with
// double quotes, single quotes or parentheses. On match the reference
// is registered and last points past the definition.
func (p *Parser) isRef(data []byte, beg int) (last int, ok bool) {
	end := len(data)

	if beg+3 >= end {
		return 0, false
	}

	i := 0
	if data[beg] == ' ' {
		i = 1
		if data[beg+1] == ' ' {
			i = 2
			if data[beg+2] == ' ' {
				i = 3
				if data[beg+3] == ' ' {
					return 0, false
				}
			}
		}
	}
	i += beg

	// label part: anything but a newline between brackets
	if data[i] != '[' {
		return 0, false
	}
	i++
	idOffset := i
	for i < end && data[i] != '\n' && data[i] != '\r' && data[i] != ']' {
		i++
	}
	if i >= end || data[i] != ']' {
		return 0, false
	}
	idEnd := i

	// spacer: colon (space | tab)* newline? (space | tab)*
	i++
	if i >= end || data[i] != ':' {
		return 0, false
	}
	i++
	for i < end && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	if i < end && (data[i] == '\n' || data[i] == '\r') {
		i++
		if i < end && data[i] == '\r' && data[i-1] == '\n' {
			i++
		}
	}
	for i < end && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	if i >= end {
		return 0, false
	}

	// link: whitespace-free sequence, optionally between angle brackets
	if data[i] == '<' {
		i++
	}
	linkOffset := i
	for i < end && data[i] != ' ' && data[i] != '\t' && data[i] != '\n' && data[i] != '\r' {
		i++
	}
	var linkEnd int
	if data[i-1] == '>' {
		linkEnd = i - 1
	} else {
		linkEnd = i
	}

	// optional spacer: (space | tab)* (newline | quote | paren)
	for i < end && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	if i < end && data[i] != '\n' && data[i] != '\r' && data[i] != '\'' && data[i] != '"' && data[i] != '(' {
		return 0, false
	}

	lineEnd := 0
	if i >= end || data[i] == '\r' || data[i] == '\n' {
		lineEnd = i
	}
	if i+1 < end && data[i] == '\n' && data[i+1] == '\r' {
		lineEnd = i + 1
	}

	if lineEnd != 0 {
		i = lineEnd + 1
		for i < end && data[i] == ' ' {
			i++
		}
	}

	// optional title, alone on its line, quoted by '" or ()
	titleOffset, titleEnd := 0, 0
	if i+1 < end && (data[i] == '\'' || data[i] == '"' || data[i] == '(') {
		i++
		titleOffset = i
		for i < end && data[i] != '\n' && data[i] != '\r' {
			i++
		}
		if i+1 < end && data[i] == '\n' && data[i+1] == '\r' {
			titleEnd = i + 1
		} else {
			titleEnd = i
		}
		// stepping back
		i--
		for i > titleOffset && data[i] == ' ' {
			i--
		}
		if i > titleOffset && (data[i] == '\'' || data[i] == '"' || data[i] == ')') {
			lineEnd = titleEnd
			titleEnd = i
		}
	}

	if lineEnd == 0 || linkEnd == linkOffset {
		// garbage after the link, or empty link
		return 0, false
	}

	ref := p.addLinkRef(data[idOffset:idEnd])
	ref.link = buffer.New(64)
	ref.link.Put(data[linkOffset:linkEnd])
	if titleEnd > titleOffset {
		ref.title = buffer.New(64)
		ref.title.Put(data[titleOffset:titleEnd])
	}

	return lineEnd, true
}

// isFootnote matches a footnote definition starting at beg:
//
//	[^id]: body
//
// with the body continuing over indented or non-empty following lines,
// accumulated like a list item.
func (p *Parser) isFootnote(data []byte, beg int) (last int, ok bool) {
	end := len(data)

	if beg+3 >= end {
		return 0, false
	}

	i := 0
	if data[beg] == ' ' {
		i = 1
		if data[beg+1] == ' ' {
			i = 2
			if data[beg+2] == ' ' {
				i = 3
				if data[beg+3] == ' ' {
					return 0, false
				}
			}
		}
	}
	i += beg

	// label part: caret then anything between brackets
	if data[i] != '[' {
		return 0, false
	}
	i++
	if i >= end || data[i] != '^' {
		return 0, false
	}
	i++
	idOffset := i
	for i < end && data[i] != '\n' && data[i] != '\r' && data[i] != ']' {
		i++
	}
	if i >= end || data[i] != ']' {
		return 0, false
	}
	idEnd := i

	// spacer: colon (space | tab)* newline? (space | tab)*
	i++
	if i >= end || data[i] != ':' {
		return 0, false
	}
	i++
	for i < end && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	if i < end && (data[i] == '\n' || data[i] == '\r') {
		i++
		if i < end && data[i] == '\n' && data[i-1] == '\r' {
			i++
		}
	}
	for i < end && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	if i >= end || data[i] == '\n' || data[i] == '\r' {
		return 0, false
	}

	contents := buffer.New(64)
	start := i
	inEmpty := false

	// accumulate body lines like a list item
	for i < end {
		for i < end && data[i] != '\n' && data[i] != '\r' {
			i++
		}

		if isEmpty(data[start:i]) != 0 {
			inEmpty = true
			if i < end && (data[i] == '\n' || data[i] == '\r') {
				i++
				if i < end && data[i] == '\n' && data[i-1] == '\r' {
					i++
				}
			}
			start = i
			continue
		}

		ind := 0
		for ind < 4 && start+ind < end && data[start+ind] == ' ' {
			ind++
		}

		// after an empty line only indented continuation joins
		if inEmpty && ind == 0 {
			break
		} else if inEmpty {
			contents.PutByte('\n')
		}
		inEmpty = false

		contents.Put(data[start+ind : i])

		if i < end {
			contents.PutByte('\n')
			if i < end && (data[i] == '\n' || data[i] == '\r') {
				i++
				if i < end && data[i] == '\n' && data[i-1] == '\r' {
					i++
				}
			}
		}
		start = i
	}

	ref := &footnoteRef{
		label:    append([]byte(nil), data[idOffset:idEnd]...),
		contents: contents,
	}
	p.footnotesFound.add(ref)

	return start, true
}

// expandTabs appends line to ob with tabs expanded to 4-column stops.
// Columns are counted from the start of each call, so a call takes one
// whole line, which is how the first pass feeds it.
func expandTabs(ob *buffer.Buffer, line []byte) {
	i, tab := 0, 0
	for i < len(line) {
		org := i
		for i < len(line) && line[i] != '\t' {
			i++
			tab++
		}
		if i > org {
			ob.Put(line[org:i])
		}
		if i >= len(line) {
			break
		}
		for {
			ob.PutByte(' ')
			tab++
			if tab%4 == 0 {
				break
			}
		}
		i++
	}
}
