package markdown

import (
	"github.com/yaklabco/sundial/pkg/buffer"
)

// isEmpty returns the length of a line containing only spaces, zero
// otherwise.
func isEmpty(data []byte) int {
	var i int
	for i = 0; i < len(data) && data[i] != '\n'; i++ {
		if data[i] != ' ' {
			return 0
		}
	}
	return i + 1
}

// isHRule reports whether the line is a horizontal rule: at least
// three '*', '-' or '_' with optional interspersed spaces, up to three
// leading spaces.
func isHRule(data []byte) bool {
	if len(data) < 3 {
		return false
	}

	i := 0
	if data[0] == ' ' {
		i++
		if data[1] == ' ' {
			i++
			if data[2] == ' ' {
				i++
			}
		}
	}

	if i+2 >= len(data) || (data[i] != '*' && data[i] != '-' && data[i] != '_') {
		return false
	}
	c := data[i]

	n := 0
	for i < len(data) && data[i] != '\n' {
		if data[i] == c {
			n++
		} else if data[i] != ' ' {
			return false
		}
		i++
	}

	return n >= 3
}

// prefixCodeFence returns the length of a leading code fence (three or
// more '~' or '`' after up to three spaces), zero otherwise.
func prefixCodeFence(data []byte) int {
	if len(data) < 3 {
		return 0
	}

	i := 0
	if data[0] == ' ' {
		i++
		if data[1] == ' ' {
			i++
			if data[2] == ' ' {
				i++
			}
		}
	}

	if i+2 >= len(data) || !(data[i] == '~' || data[i] == '`') {
		return 0
	}
	c := data[i]

	n := 0
	for i < len(data) && data[i] == c {
		n++
		i++
	}
	if n < 3 {
		return 0
	}
	return i
}

// isCodeFence checks whether the line is a complete code fence,
// returning the bytes consumed including the newline. The language
// token, either bare or inside {braces}, is reported through syntax.
func isCodeFence(data []byte, syntax *[]byte) int {
	i := prefixCodeFence(data)
	if i == 0 {
		return 0
	}

	for i < len(data) && data[i] == ' ' {
		i++
	}

	synStart := i
	synLen := 0

	if i < len(data) && data[i] == '{' {
		i++
		synStart++
		for i < len(data) && data[i] != '}' && data[i] != '\n' {
			synLen++
			i++
		}
		if i == len(data) || data[i] != '}' {
			return 0
		}

		// strip whitespace from both ends of the {} block
		for synLen > 0 && isSpace(data[synStart]) {
			synStart++
			synLen--
		}
		for synLen > 0 && isSpace(data[synStart+synLen-1]) {
			synLen--
		}
		i++
	} else {
		for i < len(data) && !isSpace(data[i]) {
			synLen++
			i++
		}
	}

	if syntax != nil {
		*syntax = data[synStart : synStart+synLen]
	}

	for i < len(data) && data[i] != '\n' {
		if !isSpace(data[i]) {
			return 0
		}
		i++
	}

	return i + 1
}

// isAtxHeader reports whether the line is a hash-prefixed header.
func (p *Parser) isAtxHeader(data []byte) bool {
	if data[0] != '#' {
		return false
	}

	if p.ext&SpaceHeaders != 0 {
		level := 0
		for level < len(data) && level < 6 && data[level] == '#' {
			level++
		}
		if level < len(data) && data[level] != ' ' {
			return false
		}
	}

	return true
}

// isHeaderline returns the setext header level of an underline of '='
// (level 1) or '-' (level 2), zero otherwise.
func isHeaderline(data []byte) int {
	i := 0

	if len(data) > 0 && data[i] == '=' {
		for i = 1; i < len(data) && data[i] == '='; i++ {
		}
		for i < len(data) && data[i] == ' ' {
			i++
		}
		if i >= len(data) || data[i] == '\n' {
			return 1
		}
		return 0
	}

	if len(data) > 0 && data[i] == '-' {
		for i = 1; i < len(data) && data[i] == '-'; i++ {
		}
		for i < len(data) && data[i] == ' ' {
			i++
		}
		if i >= len(data) || data[i] == '\n' {
			return 2
		}
		return 0
	}

	return 0
}

func isNextHeaderline(data []byte) bool {
	i := 0
	for i < len(data) && data[i] != '\n' {
		i++
	}
	i++
	if i >= len(data) {
		return false
	}
	return isHeaderline(data[i:]) != 0
}

// prefixQuote returns the blockquote prefix length: up to three spaces
// then '>' with an optional following space.
func prefixQuote(data []byte) int {
	i := 0
	if i < len(data) && data[i] == ' ' {
		i++
	}
	if i < len(data) && data[i] == ' ' {
		i++
	}
	if i < len(data) && data[i] == ' ' {
		i++
	}

	if i < len(data) && data[i] == '>' {
		if i+1 < len(data) && data[i+1] == ' ' {
			return i + 2
		}
		return i + 1
	}
	return 0
}

// prefixCode returns the indented-code prefix length (four spaces).
func prefixCode(data []byte) int {
	if len(data) > 3 && data[0] == ' ' && data[1] == ' ' && data[2] == ' ' && data[3] == ' ' {
		return 4
	}
	return 0
}

// prefixOli returns the ordered-list marker length: digits then ". ".
func prefixOli(data []byte) int {
	i := 0
	if i < len(data) && data[i] == ' ' {
		i++
	}
	if i < len(data) && data[i] == ' ' {
		i++
	}
	if i < len(data) && data[i] == ' ' {
		i++
	}

	if i >= len(data) || data[i] < '0' || data[i] > '9' {
		return 0
	}
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		i++
	}
	if i+1 >= len(data) || data[i] != '.' || data[i+1] != ' ' {
		return 0
	}
	if isNextHeaderline(data[i:]) {
		return 0
	}
	return i + 2
}

// prefixUli returns the unordered-list marker length: a bullet then a
// space.
func prefixUli(data []byte) int {
	i := 0
	if i < len(data) && data[i] == ' ' {
		i++
	}
	if i < len(data) && data[i] == ' ' {
		i++
	}
	if i < len(data) && data[i] == ' ' {
		i++
	}

	if i+1 >= len(data) || (data[i] != '*' && data[i] != '+' && data[i] != '-') || data[i+1] != ' ' {
		return 0
	}
	if isNextHeaderline(data[i:]) {
		return 0
	}
	return i + 2
}

// parseBlock renders the block constructs of data into ob, trying the
// recognisers in fixed precedence at each position.
func (p *Parser) parseBlock(ob *buffer.Buffer, data []byte) {
	if p.nestingExceeded() {
		return
	}

	size := len(data)
	beg := 0
	for beg < size {
		txt := data[beg:]

		if p.isAtxHeader(txt) {
			beg += p.parseAtxHeader(ob, txt)
			continue
		}
		if data[beg] == '<' && p.cb.BlockHTML != nil {
			if i := p.parseHTMLBlock(ob, txt, true); i != 0 {
				beg += i
				continue
			}
		}
		if i := isEmpty(txt); i != 0 {
			beg += i
			continue
		}
		if isHRule(txt) {
			if p.cb.HRule != nil {
				p.cb.HRule(ob)
			}
			for beg < size && data[beg] != '\n' {
				beg++
			}
			beg++
			continue
		}
		if p.ext&FencedCode != 0 {
			if i := p.parseFencedCode(ob, txt); i != 0 {
				beg += i
				continue
			}
		}
		if p.ext&Tables != 0 {
			if i := p.parseTable(ob, txt); i != 0 {
				beg += i
				continue
			}
		}
		if prefixQuote(txt) != 0 {
			beg += p.parseBlockquote(ob, txt)
			continue
		}
		if prefixCode(txt) != 0 {
			beg += p.parseBlockCode(ob, txt)
			continue
		}
		if prefixUli(txt) != 0 {
			beg += p.parseList(ob, txt, 0)
			continue
		}
		if prefixOli(txt) != 0 {
			beg += p.parseList(ob, txt, ListOrdered)
			continue
		}
		beg += p.parseParagraph(ob, txt)
	}
}

// parseBlockquote collects the contiguous quoted lines, strips their
// prefixes in place, and block-parses the stripped region.
func (p *Parser) parseBlockquote(ob *buffer.Buffer, data []byte) int {
	out := p.newBlockBuf()

	size := len(data)
	beg, end := 0, 0
	workStart, workSize := 0, 0
	started := false

	for beg < size {
		for end = beg + 1; end < size && data[end-1] != '\n'; end++ {
		}

		if pre := prefixQuote(data[beg:end]); pre != 0 {
			beg += pre // skipping prefix
		} else if isEmpty(data[beg:end]) != 0 &&
			(end >= size || (prefixQuote(data[end:]) == 0 && isEmpty(data[end:]) == 0)) {
			// empty line followed by non-quote line
			break
		}

		if beg < end {
			// compact into the in-place working region
			if !started {
				workStart = beg
				started = true
			} else if beg != workStart+workSize {
				copy(data[workStart+workSize:], data[beg:end])
			}
			workSize += end - beg
		}
		beg = end
	}

	p.parseBlock(out, data[workStart:workStart+workSize])
	if p.cb.BlockQuote != nil {
		p.cb.BlockQuote(ob, out.Bytes())
	}
	p.popBlockBuf()

	return end
}

// parseParagraph handles a paragraph span, promoting the final line to
// a setext header when an underline terminates it.
func (p *Parser) parseParagraph(ob *buffer.Buffer, data []byte) int {
	size := len(data)
	i, end, level := 0, 0, 0

	for i < size {
		for end = i + 1; end < size && data[end-1] != '\n'; end++ {
		}

		if isEmpty(data[i:]) != 0 {
			break
		}
		if level = isHeaderline(data[i:]); level != 0 {
			break
		}
		if p.isAtxHeader(data[i:]) || isHRule(data[i:]) || prefixQuote(data[i:]) != 0 {
			end = i
			break
		}

		// Early paragraph interruption in the manner of Markdown
		// 1.0.0; only when the line cannot be plain prose.
		if p.ext&LaxSpacing != 0 && !isAlnum(data[i]) {
			if prefixOli(data[i:]) != 0 || prefixUli(data[i:]) != 0 {
				end = i
				break
			}
			if data[i] == '<' && p.cb.BlockHTML != nil && p.parseHTMLBlock(ob, data[i:], false) != 0 {
				end = i
				break
			}
			if p.ext&FencedCode != 0 && isCodeFence(data[i:], nil) != 0 {
				end = i
				break
			}
		}

		i = end
	}

	workSize := i
	for workSize > 0 && data[workSize-1] == '\n' {
		workSize--
	}

	if level == 0 {
		tmp := p.newBlockBuf()
		p.parseInline(tmp, data[:workSize])
		if p.cb.Paragraph != nil {
			p.cb.Paragraph(ob, tmp.Bytes())
		}
		p.popBlockBuf()
	} else {
		workData := data
		if workSize > 0 {
			i = workSize
			workSize--
			for workSize > 0 && data[workSize] != '\n' {
				workSize--
			}
			beg := workSize + 1
			for workSize > 0 && data[workSize-1] == '\n' {
				workSize--
			}

			if workSize > 0 {
				tmp := p.newBlockBuf()
				p.parseInline(tmp, data[:workSize])
				if p.cb.Paragraph != nil {
					p.cb.Paragraph(ob, tmp.Bytes())
				}
				p.popBlockBuf()
				workData = data[beg:]
				workSize = i - beg
			} else {
				workSize = i
			}
		}

		headerWork := p.newSpanBuf()
		p.parseInline(headerWork, workData[:workSize])
		if p.cb.Header != nil {
			p.cb.Header(ob, headerWork.Bytes(), level)
		}
		p.popSpanBuf()
	}

	return end
}

// fenceInfo reports the character and width of a leading code fence.
func fenceInfo(data []byte) (c byte, width int) {
	i := 0
	for i < 3 && i < len(data) && data[i] == ' ' {
		i++
	}
	if i >= len(data) || (data[i] != '~' && data[i] != '`') {
		return 0, 0
	}
	c = data[i]
	for i < len(data) && data[i] == c {
		width++
		i++
	}
	return c, width
}

// parseFencedCode handles a fenced code block; the closing fence must
// repeat the opening character and width with no trailing syntax.
func (p *Parser) parseFencedCode(ob *buffer.Buffer, data []byte) int {
	var lang []byte
	beg := isCodeFence(data, &lang)
	if beg == 0 {
		return 0
	}
	openChar, openWidth := fenceInfo(data)

	work := p.newBlockBuf()

	size := len(data)
	for beg < size {
		var fenceTrail []byte
		if fenceEnd := isCodeFence(data[beg:], &fenceTrail); fenceEnd != 0 && len(fenceTrail) == 0 {
			if c, width := fenceInfo(data[beg:]); c == openChar && width == openWidth {
				beg += fenceEnd
				break
			}
		}

		var end int
		for end = beg + 1; end < size && data[end-1] != '\n'; end++ {
		}

		if beg < end {
			// verbatim copy, blank lines folded to single newlines
			if isEmpty(data[beg:end]) != 0 {
				work.PutByte('\n')
			} else {
				work.Put(data[beg:end])
			}
		}
		beg = end
	}

	if work.Len() > 0 && work.Bytes()[work.Len()-1] != '\n' {
		work.PutByte('\n')
	}

	if p.cb.BlockCode != nil {
		p.cb.BlockCode(ob, work.Bytes(), lang)
	}
	p.popBlockBuf()

	return beg
}

// parseBlockCode handles an indented code block.
func (p *Parser) parseBlockCode(ob *buffer.Buffer, data []byte) int {
	work := p.newBlockBuf()

	size := len(data)
	beg := 0
	for beg < size {
		var end int
		for end = beg + 1; end < size && data[end-1] != '\n'; end++ {
		}

		if pre := prefixCode(data[beg:end]); pre != 0 {
			beg += pre
		} else if isEmpty(data[beg:end]) == 0 {
			// non-empty non-prefixed line breaks the block
			break
		}

		if beg < end {
			if isEmpty(data[beg:end]) != 0 {
				work.PutByte('\n')
			} else {
				work.Put(data[beg:end])
			}
		}
		beg = end
	}

	for work.Len() > 0 && work.Bytes()[work.Len()-1] == '\n' {
		work.Truncate(work.Len() - 1)
	}
	work.PutByte('\n')

	if p.cb.BlockCode != nil {
		p.cb.BlockCode(ob, work.Bytes(), nil)
	}
	p.popBlockBuf()

	return beg
}

// parseListItem parses a single list item, assuming the initial
// prefix has not yet been removed. The flags are shared with the
// enclosing parseList so an item can terminate the list.
func (p *Parser) parseListItem(ob *buffer.Buffer, data []byte, flags *ListFlags) int {
	size := len(data)

	// keep track of the first indentation prefix
	orgpre := 0
	for orgpre < 3 && orgpre < size && data[orgpre] == ' ' {
		orgpre++
	}

	beg := prefixUli(data)
	if beg == 0 {
		beg = prefixOli(data)
	}
	if beg == 0 {
		return 0
	}

	// skipping to the beginning of the following line
	end := beg
	for end < size && data[end-1] != '\n' {
		end++
	}

	work := p.newSpanBuf()
	inter := p.newSpanBuf()

	// first line goes in as is
	work.Put(data[beg:end])
	beg = end

	sublist := 0
	inEmpty := false
	hasInsideEmpty := false
	inFence := false

	for beg < size {
		end++
		for end < size && data[end-1] != '\n' {
			end++
		}

		if isEmpty(data[beg:end]) != 0 {
			inEmpty = true
			beg = end
			continue
		}

		// calculating the indentation
		i := 0
		for i < 4 && beg+i < end && data[beg+i] == ' ' {
			i++
		}
		pre := i

		if p.ext&FencedCode != 0 {
			if isCodeFence(data[beg+i:end], nil) != 0 {
				inFence = !inFence
			}
		}

		// new-item markers are inert inside a fenced block
		hasNextUli, hasNextOli := 0, 0
		if !inFence {
			hasNextUli = prefixUli(data[beg+i : end])
			hasNextOli = prefixOli(data[beg+i : end])
		}

		// a ul/ol switch at the same indent (or shallower) ends the list
		if inEmpty && pre <= orgpre && ((*flags&ListOrdered != 0 && hasNextUli != 0) ||
			(*flags&ListOrdered == 0 && hasNextOli != 0)) {
			*flags |= listItemEnd
			break
		}

		if (hasNextUli != 0 && !isHRule(data[beg+i:end])) || hasNextOli != 0 {
			if inEmpty {
				hasInsideEmpty = true
			}
			if pre == orgpre {
				// next item at the same indentation
				break
			}
			if sublist == 0 {
				sublist = work.Len()
			}
		} else if inEmpty && pre == 0 {
			// only indented content continues after an empty line
			*flags |= listItemEnd
			break
		} else if inEmpty {
			work.PutByte('\n')
			hasInsideEmpty = true
		}
		inEmpty = false

		// adding the line without prefix to the working buffer
		work.Put(data[beg+i : end])
		beg = end
	}

	if hasInsideEmpty {
		*flags |= ListItemContainsBlock
	}

	workBytes := work.Bytes()
	if *flags&ListItemContainsBlock != 0 {
		// intermediate render of a block item
		if sublist != 0 && sublist < len(workBytes) {
			p.parseBlock(inter, workBytes[:sublist])
			p.parseBlock(inter, workBytes[sublist:])
		} else {
			p.parseBlock(inter, workBytes)
		}
	} else {
		// intermediate render of an inline item
		if sublist != 0 && sublist < len(workBytes) {
			p.parseInline(inter, workBytes[:sublist])
			p.parseBlock(inter, workBytes[sublist:])
		} else {
			p.parseInline(inter, workBytes)
		}
	}

	if p.cb.ListItem != nil {
		p.cb.ListItem(ob, inter.Bytes(), *flags)
	}
	p.popSpanBuf()
	p.popSpanBuf()

	return beg
}

// parseList renders an ordered or unordered list block.
func (p *Parser) parseList(ob *buffer.Buffer, data []byte, flags ListFlags) int {
	work := p.newBlockBuf()

	i := 0
	for i < len(data) {
		j := p.parseListItem(work, data[i:], &flags)
		i += j
		if j == 0 || flags&listItemEnd != 0 {
			break
		}
	}

	if p.cb.List != nil {
		p.cb.List(ob, work.Bytes(), flags)
	}
	p.popBlockBuf()

	return i
}

// parseAtxHeader handles a hash-prefixed header with optional closing
// hashes.
func (p *Parser) parseAtxHeader(ob *buffer.Buffer, data []byte) int {
	size := len(data)

	level := 0
	for level < size && level < 6 && data[level] == '#' {
		level++
	}

	var i int
	for i = level; i < size && data[i] == ' '; i++ {
	}

	var end int
	for end = i; end < size && data[end] != '\n'; end++ {
	}
	skip := end

	for end > 0 && data[end-1] == '#' {
		end--
	}
	for end > 0 && data[end-1] == ' ' {
		end--
	}

	if end > i {
		work := p.newSpanBuf()
		p.parseInline(work, data[i:end])
		if p.cb.Header != nil {
			p.cb.Header(ob, work.Bytes(), level)
		}
		p.popSpanBuf()
	}

	return skip
}

// parseFootnoteDef block-parses a single footnote body and hands it to
// the renderer with its assigned number.
func (p *Parser) parseFootnoteDef(ob *buffer.Buffer, num int, data []byte) {
	work := p.newSpanBuf()
	p.parseBlock(work, data)
	if p.cb.FootnoteDef != nil {
		p.cb.FootnoteDef(ob, work.Bytes(), num)
	}
	p.popSpanBuf()
}

// parseFootnoteList renders every used footnote in first-use order and
// wraps them with the footnotes callback.
func (p *Parser) parseFootnoteList(ob *buffer.Buffer, footnotes *footnoteList) {
	if len(footnotes.items) == 0 {
		return
	}

	work := p.newBlockBuf()
	for _, ref := range footnotes.items {
		p.parseFootnoteDef(work, ref.num, ref.contents.Bytes())
	}
	if p.cb.Footnotes != nil {
		p.cb.Footnotes(ob, work.Bytes())
	}
	p.popBlockBuf()
}

// htmlBlockEndTag checks for </tag> followed by only blank lines,
// returning the length consumed.
func htmlBlockEndTag(tag string, data []byte) int {
	size := len(data)

	// checking if the tag closer matches
	if len(tag)+3 >= size {
		return 0
	}
	for i := 0; i < len(tag); i++ {
		c := data[i+2]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != tag[i] {
			return 0
		}
	}
	if data[len(tag)+2] != '>' {
		return 0
	}

	// checking white lines
	i := len(tag) + 3
	w := 0
	if i < size {
		if w = isEmpty(data[i:]); w == 0 {
			return 0 // non-blank after tag
		}
	}
	i += w
	w = 0
	if i < size {
		w = isEmpty(data[i:])
	}

	return i + w
}

func htmlBlockEnd(tag string, data []byte, startOfLine bool) int {
	size := len(data)
	i := 1
	blockLines := 0

	for i < size {
		i++
		for i < size && !(data[i-1] == '<' && data[i] == '/') {
			if data[i] == '\n' {
				blockLines++
			}
			i++
		}

		// When only unindented closers count, skip a tag that does
		// not follow a newline, unless it is still on the first line.
		if startOfLine && blockLines > 0 && data[i-2] != '\n' {
			continue
		}

		if i+2+len(tag) >= size {
			break
		}

		if end := htmlBlockEndTag(tag, data[i-1:]); end != 0 {
			return i + end - 1
		}
	}

	return 0
}

// parseHTMLBlock handles a block of raw HTML: a whitelisted opening
// tag closed by a matching unindented closer and a blank line, or the
// comment and <hr> special cases.
func (p *Parser) parseHTMLBlock(ob *buffer.Buffer, data []byte, doRender bool) int {
	size := len(data)

	if size < 2 || data[0] != '<' {
		return 0
	}

	i := 1
	for i < size && data[i] != '>' && data[i] != ' ' {
		i++
	}

	var curtag string
	if i < size {
		curtag, _ = FindBlockTag(data[1:i])
	}

	if curtag == "" || curtag == "hr" {
		// HTML comment, laxist form
		if size > 5 && data[1] == '!' && data[2] == '-' && data[3] == '-' {
			i = 5
			for i < size && !(data[i-2] == '-' && data[i-1] == '-' && data[i] == '>') {
				i++
			}
			i++
			j := 0
			if i < size {
				j = isEmpty(data[i:])
			}
			if j != 0 {
				if doRender && p.cb.BlockHTML != nil {
					p.cb.BlockHTML(ob, data[:i+j])
				}
				return i + j
			}
		}

		// HR, the only self-closing block tag considered
		if size > 4 && (data[1] == 'h' || data[1] == 'H') && (data[2] == 'r' || data[2] == 'R') {
			i = 3
			for i < size && data[i] != '>' {
				i++
			}
			if i+1 < size {
				i++
				if j := isEmpty(data[i:]); j != 0 {
					if doRender && p.cb.BlockHTML != nil {
						p.cb.BlockHTML(ob, data[:i+j])
					}
					return i + j
				}
			}
		}

		return 0
	}

	// looking for an unindented matching closing tag followed by a
	// blank line
	tagEnd := htmlBlockEnd(curtag, data, true)

	// a second pass accepting indented closers, except for ins/del in
	// the manner of Markdown.pl
	if tagEnd == 0 && curtag != "ins" && curtag != "del" {
		tagEnd = htmlBlockEnd(curtag, data, false)
	}
	if tagEnd == 0 {
		return 0
	}

	if doRender && p.cb.BlockHTML != nil {
		p.cb.BlockHTML(ob, data[:tagEnd])
	}
	return tagEnd
}

func (p *Parser) parseTableRow(ob *buffer.Buffer, data []byte, columns int, colData []TableFlags, headerFlag TableFlags) {
	if p.cb.TableCell == nil || p.cb.TableRow == nil {
		return
	}

	size := len(data)
	rowWork := p.newSpanBuf()

	i := 0
	if i < size && data[i] == '|' {
		i++
	}

	col := 0
	for ; col < columns && i < size; col++ {
		cellWork := p.newSpanBuf()

		for i < size && isSpace(data[i]) {
			i++
		}
		cellStart := i

		for i < size && (data[i] != '|' || (i > 0 && data[i-1] == '\\')) {
			i++
		}

		cellEnd := i - 1
		for cellEnd > cellStart && isSpace(data[cellEnd]) {
			cellEnd--
		}

		p.parseInline(cellWork, data[cellStart:cellEnd+1])
		p.cb.TableCell(rowWork, cellWork.Bytes(), colData[col]|headerFlag)

		p.popSpanBuf()
		i++
	}

	for ; col < columns; col++ {
		p.cb.TableCell(rowWork, nil, colData[col]|headerFlag)
	}

	p.cb.TableRow(ob, rowWork.Bytes())
	p.popSpanBuf()
}

func (p *Parser) parseTableHeader(ob *buffer.Buffer, data []byte) (consumed, columns int, colData []TableFlags) {
	size := len(data)

	pipes := 0
	i := 0
	for i < size && data[i] != '\n' {
		if data[i] == '|' {
			pipes++
		}
		i++
	}
	if i == size || pipes == 0 {
		return 0, 0, nil
	}

	headerEnd := i
	for headerEnd > 0 && isSpace(data[headerEnd-1]) {
		headerEnd--
	}

	if data[0] == '|' {
		pipes--
	}
	if headerEnd > 0 && data[headerEnd-1] == '|' {
		pipes--
	}

	columns = pipes + 1
	colData = make([]TableFlags, columns)

	// parse the header underline
	i++
	if i < size && data[i] == '|' {
		i++
	}

	underEnd := i
	for underEnd < size && data[underEnd] != '\n' {
		underEnd++
	}

	col := 0
	for ; col < columns && i < underEnd; col++ {
		dashes := 0

		for i < underEnd && data[i] == ' ' {
			i++
		}
		if i < underEnd && data[i] == ':' {
			i++
			colData[col] |= TableAlignLeft
			dashes++
		}
		for i < underEnd && data[i] == '-' {
			i++
			dashes++
		}
		if i < underEnd && data[i] == ':' {
			i++
			colData[col] |= TableAlignRight
			dashes++
		}
		for i < underEnd && data[i] == ' ' {
			i++
		}
		if i < underEnd && data[i] != '|' {
			break
		}
		if dashes < 3 {
			break
		}
		i++
	}

	if col < columns {
		return 0, 0, nil
	}

	p.parseTableRow(ob, data[:headerEnd], columns, colData, TableHeader)
	return underEnd + 1, columns, colData
}

func (p *Parser) parseTable(ob *buffer.Buffer, data []byte) int {
	size := len(data)

	headerWork := p.newSpanBuf()
	bodyWork := p.newBlockBuf()

	i, columns, colData := p.parseTableHeader(headerWork, data)
	if i > 0 {
		for i < size {
			pipes := 0
			rowStart := i

			for i < size && data[i] != '\n' {
				if data[i] == '|' {
					pipes++
				}
				i++
			}

			if pipes == 0 || i == size {
				i = rowStart
				break
			}

			p.parseTableRow(bodyWork, data[rowStart:i], columns, colData, 0)
			i++
		}

		if p.cb.Table != nil {
			p.cb.Table(ob, headerWork.Bytes(), bodyWork.Bytes())
		}
	}

	p.popSpanBuf()
	p.popBlockBuf()

	return i
}
