package markdown

import (
	"github.com/yaklabco/sundial/pkg/autolink"
	"github.com/yaklabco/sundial/pkg/buffer"
)

// parseInline renders the span constructs of data into ob. Runs of
// inactive bytes are flushed through the normal-text callback; each
// active byte dispatches to its handler, which consumes bytes or
// refuses, in which case the trigger is emitted literally.
func (p *Parser) parseInline(ob *buffer.Buffer, data []byte) {
	if p.nestingExceeded() {
		return
	}

	size := len(data)
	i, end := 0, 0
	for i < size {
		var action byte
		for end < size {
			if action = p.activeChar[data[end]]; action != 0 {
				break
			}
			end++
		}

		if p.cb.NormalText != nil {
			p.cb.NormalText(ob, data[i:end])
		} else {
			ob.Put(data[i:end])
		}

		if end >= size {
			break
		}
		i = end

		consumed := p.dispatchChar(action, ob, data, i)
		if consumed == 0 {
			// no action from the handler
			end = i + 1
		} else {
			i += consumed
			end = i
		}
	}
}

func (p *Parser) dispatchChar(action byte, ob *buffer.Buffer, data []byte, offset int) int {
	switch action {
	case charEmphasis:
		return p.charEmphasis(ob, data, offset)
	case charCodespan:
		return p.charCodespan(ob, data, offset)
	case charLinebreak:
		return p.charLinebreak(ob, data, offset)
	case charLink:
		return p.charLink(ob, data, offset)
	case charLangle:
		return p.charLangleTag(ob, data, offset)
	case charEscape:
		return p.charEscape(ob, data, offset)
	case charEntity:
		return p.charEntity(ob, data, offset)
	case charAutolinkURL:
		return p.charAutolinkURL(ob, data, offset)
	case charAutolinkEmail:
		return p.charAutolinkEmail(ob, data, offset)
	case charAutolinkWWW:
		return p.charAutolinkWWW(ob, data, offset)
	case charSuperscript:
		return p.charSuperscript(ob, data, offset)
	}
	return 0
}

// findEmphChar looks for the next potential closing symbol, skipping
// over code spans and link constructs.
func findEmphChar(data []byte, c byte) int {
	size := len(data)
	i := 1

	for i < size {
		for i < size && data[i] != c && data[i] != '`' && data[i] != '[' {
			i++
		}
		if i == size {
			return 0
		}
		if data[i] == c {
			return i
		}

		// not counting escaped chars
		if i != 0 && data[i-1] == '\\' {
			i++
			continue
		}

		if data[i] == '`' {
			// skip a code span
			spanNb := 0
			for i < size && data[i] == '`' {
				i++
				spanNb++
			}
			if i >= size {
				return 0
			}

			tmpI := 0
			bt := 0
			for i < size && bt < spanNb {
				if tmpI == 0 && data[i] == c {
					tmpI = i
				}
				if data[i] == '`' {
					bt++
				} else {
					bt = 0
				}
				i++
			}
			if i >= size {
				return tmpI
			}
		} else if data[i] == '[' {
			// skip a link
			tmpI := 0
			i++
			for i < size && data[i] != ']' {
				if tmpI == 0 && data[i] == c {
					tmpI = i
				}
				i++
			}
			i++
			for i < size && (data[i] == ' ' || data[i] == '\n') {
				i++
			}
			if i >= size {
				return tmpI
			}

			var cc byte
			switch data[i] {
			case '[':
				cc = ']'
			case '(':
				cc = ')'
			default:
				if tmpI != 0 {
					return tmpI
				}
				continue
			}

			i++
			for i < size && data[i] != cc {
				if tmpI == 0 && data[i] == c {
					tmpI = i
				}
				i++
			}
			if i >= size {
				return tmpI
			}
			i++
		}
	}

	return 0
}

// parseEmph1 parses single emphasis, closed by a symbol not preceded
// by whitespace. The span starts at data[start].
func (p *Parser) parseEmph1(ob *buffer.Buffer, data []byte, start int, c byte) int {
	if p.cb.Emphasis == nil {
		return 0
	}
	d := data[start:]

	i := 0
	// skipping one symbol if coming from emph3
	if len(d) > 1 && d[0] == c && d[1] == c {
		i = 1
	}

	for i < len(d) {
		length := findEmphChar(d[i:], c)
		if length == 0 {
			return 0
		}
		i += length
		if i >= len(d) {
			return 0
		}

		if d[i] == c && !isSpace(d[i-1]) {
			if p.ext&NoIntraEmphasis != 0 {
				if i+1 < len(d) && isAlnum(d[i+1]) {
					continue
				}
			}

			work := p.newSpanBuf()
			p.parseInline(work, d[:i])
			r := p.cb.Emphasis(ob, work.Bytes())
			p.popSpanBuf()
			if r {
				return i + 1
			}
			return 0
		}
	}

	return 0
}

// parseEmph2 parses double emphasis, delegating to strikethrough or
// insertion when the symbol calls for them.
func (p *Parser) parseEmph2(ob *buffer.Buffer, data []byte, start int, c byte) int {
	var render func(*buffer.Buffer, []byte) bool
	switch c {
	case '~':
		render = p.cb.Strikethrough
	case '+':
		render = p.cb.Ins
	default:
		render = p.cb.DoubleEmphasis
	}
	if render == nil {
		return 0
	}
	d := data[start:]

	i := 0
	for i < len(d) {
		length := findEmphChar(d[i:], c)
		if length == 0 {
			return 0
		}
		i += length

		if i+1 < len(d) && d[i] == c && d[i+1] == c && i > 0 && !isSpace(d[i-1]) {
			work := p.newSpanBuf()
			p.parseInline(work, d[:i])
			r := render(ob, work.Bytes())
			p.popSpanBuf()
			if r {
				return i + 2
			}
			return 0
		}
		i++
	}

	return 0
}

// parseEmph3 finds the first closing run and hands over to the
// matching emphasis depth.
func (p *Parser) parseEmph3(ob *buffer.Buffer, data []byte, start int, c byte) int {
	d := data[start:]

	i := 0
	for i < len(d) {
		length := findEmphChar(d[i:], c)
		if length == 0 {
			return 0
		}
		i += length

		// skip whitespace-preceded symbols
		if d[i] != c || isSpace(d[i-1]) {
			continue
		}

		if i+2 < len(d) && d[i+1] == c && d[i+2] == c && p.cb.TripleEmphasis != nil {
			// triple symbol found
			work := p.newSpanBuf()
			p.parseInline(work, d[:i])
			r := p.cb.TripleEmphasis(ob, work.Bytes())
			p.popSpanBuf()
			if r {
				return i + 3
			}
			return 0
		} else if i+1 < len(d) && d[i+1] == c {
			// double symbol: hand over to emph1 with the opener widened
			length = p.parseEmph1(ob, data, start-2, c)
			if length == 0 {
				return 0
			}
			return length - 2
		} else {
			// single symbol: hand over to emph2
			length = p.parseEmph2(ob, data, start-1, c)
			if length == 0 {
				return 0
			}
			return length - 1
		}
	}

	return 0
}

// charEmphasis handles '*' and '_', plus '~' and '+' when the
// strikethrough and insertion extensions arm them.
func (p *Parser) charEmphasis(ob *buffer.Buffer, data []byte, offset int) int {
	if p.ext&NoIntraEmphasis != 0 {
		if offset > 0 && !isSpace(data[offset-1]) && data[offset-1] != '>' {
			return 0
		}
	}

	d := data[offset:]
	size := len(d)
	c := d[0]

	if size > 2 && d[1] != c {
		// whitespace cannot follow an opening emphasis; ins and
		// strikethrough only take the double form
		if c == '+' || c == '~' || isSpace(d[1]) {
			return 0
		}
		ret := p.parseEmph1(ob, data, offset+1, c)
		if ret == 0 {
			return 0
		}
		return ret + 1
	}

	if size > 3 && d[1] == c && d[2] != c {
		if isSpace(d[2]) {
			return 0
		}
		ret := p.parseEmph2(ob, data, offset+2, c)
		if ret == 0 {
			return 0
		}
		return ret + 2
	}

	if size > 4 && d[1] == c && d[2] == c && d[3] != c {
		if c == '+' || c == '~' || isSpace(d[3]) {
			return 0
		}
		ret := p.parseEmph3(ob, data, offset+3, c)
		if ret == 0 {
			return 0
		}
		return ret + 3
	}

	return 0
}

// charLinebreak handles '\n' preceded by two spaces.
func (p *Parser) charLinebreak(ob *buffer.Buffer, data []byte, offset int) int {
	if offset < 2 || data[offset-1] != ' ' || data[offset-2] != ' ' {
		return 0
	}

	// removing the trailing spaces from ob and rendering
	for ob.Len() > 0 && ob.Bytes()[ob.Len()-1] == ' ' {
		ob.Truncate(ob.Len() - 1)
	}

	if p.cb.LineBreak(ob) {
		return 1
	}
	return 0
}

// charCodespan handles '`', closed by a run of exactly as many
// backticks as opened.
func (p *Parser) charCodespan(ob *buffer.Buffer, data []byte, offset int) int {
	d := data[offset:]
	size := len(d)

	nb := 0
	for nb < size && d[nb] == '`' {
		nb++
	}

	// finding the next delimiter: a run of exactly nb backticks
	found := false
	end := nb
	for end < size && !found {
		if d[end] != '`' {
			end++
			continue
		}
		run := 0
		for end < size && d[end] == '`' {
			run++
			end++
		}
		found = run == nb
	}
	if !found {
		return 0 // no matching delimiter
	}

	// trimming outside whitespace
	fBegin := nb
	for fBegin < end && d[fBegin] == ' ' {
		fBegin++
	}
	fEnd := end - nb
	for fEnd > nb && d[fEnd-1] == ' ' {
		fEnd--
	}

	if fBegin < fEnd {
		if !p.cb.CodeSpan(ob, d[fBegin:fEnd]) {
			end = 0
		}
	} else {
		if !p.cb.CodeSpan(ob, nil) {
			end = 0
		}
	}

	return end
}

var escapeChars = [256]bool{}

func init() {
	for _, c := range []byte("\\`*_{}[]()#+-.!:|&<>^~$") {
		escapeChars[c] = true
	}
}

// charEscape handles backslash escapes.
func (p *Parser) charEscape(ob *buffer.Buffer, data []byte, offset int) int {
	d := data[offset:]

	if len(d) > 1 {
		if !escapeChars[d[1]] {
			return 0
		}
		if p.cb.NormalText != nil {
			p.cb.NormalText(ob, d[1:2])
		} else {
			ob.PutByte(d[1])
		}
	} else if len(d) == 1 {
		ob.PutByte(d[0])
	}

	return 2
}

// charEntity passes '&' through when it opens something shaped like an
// entity: &#?[A-Za-z0-9]*;
func (p *Parser) charEntity(ob *buffer.Buffer, data []byte, offset int) int {
	d := data[offset:]

	end := 1
	if end < len(d) && d[end] == '#' {
		end++
	}
	for end < len(d) && isAlnum(d[end]) {
		end++
	}
	if end < len(d) && d[end] == ';' {
		end++ // real entity
	} else {
		return 0 // lone '&'
	}

	if p.cb.Entity != nil {
		p.cb.Entity(ob, d[:end])
	} else {
		ob.Put(d[:end])
	}

	return end
}

// isMailAutolink scans the address part of <addr@host> up to '>'.
// The accepted shape is [-@._a-zA-Z0-9]+ with exactly one '@'.
func isMailAutolink(data []byte) int {
	nb := 0
	for i := 0; i < len(data); i++ {
		if isAlnum(data[i]) {
			continue
		}
		switch data[i] {
		case '@':
			nb++
		case '-', '.', '_':
		case '>':
			if nb == 1 {
				return i + 1
			}
			return 0
		default:
			return 0
		}
	}
	return 0
}

// tagLength returns the length of the tag at the start of data, or
// zero when it is not one, classifying <scheme:...> and <user@host>
// autolinks on the way.
func tagLength(data []byte) (length int, kind AutolinkKind) {
	size := len(data)

	// a valid tag can't be shorter than 3 chars
	if size < 3 || data[0] != '<' {
		return 0, NotAutolink
	}

	i := 1
	if data[1] == '/' {
		i = 2
	}
	if !isAlnum(data[i]) {
		return 0, NotAutolink
	}

	// scheme test
	kind = NotAutolink
	for i < size && (isAlnum(data[i]) || data[i] == '.' || data[i] == '+' || data[i] == '-') {
		i++
	}

	if i > 1 && i < size && data[i] == '@' {
		if j := isMailAutolink(data[i:]); j != 0 {
			return i + j, EmailAutolink
		}
	}
	if i > 2 && i < size && data[i] == ':' {
		kind = NormalAutolink
		i++
	}

	// completing the autolink test: no whitespace or quotes
	if i >= size {
		kind = NotAutolink
	} else if kind != NotAutolink {
		j := i
		for i < size {
			if data[i] == '\\' {
				i += 2
			} else if data[i] == '>' || data[i] == '\'' || data[i] == '"' || data[i] == ' ' || data[i] == '\n' {
				break
			} else {
				i++
			}
		}
		if i >= size {
			return 0, kind
		}
		if i > j && data[i] == '>' {
			return i + 1, kind
		}
		// one of the forbidden chars has been found
		kind = NotAutolink
	}

	// looking for something looking like a tag end
	for i < size && data[i] != '>' {
		i++
	}
	if i >= size {
		return 0, NotAutolink
	}
	return i + 1, kind
}

// charLangleTag handles '<': an angle autolink when the content is a
// URI or address, a raw tag otherwise.
func (p *Parser) charLangleTag(ob *buffer.Buffer, data []byte, offset int) int {
	d := data[offset:]
	length, kind := tagLength(d)
	ret := false

	if length > 2 {
		if p.cb.AutoLink != nil && kind != NotAutolink {
			uLink := p.newSpanBuf()
			unescapeText(uLink, d[1:length-1])
			ret = p.cb.AutoLink(ob, uLink.Bytes(), kind)
			p.popSpanBuf()
		} else if p.cb.RawHTMLTag != nil {
			ret = p.cb.RawHTMLTag(ob, d[:length])
		}
	}

	if !ret {
		return 0
	}
	return length
}

// charAutolinkWWW handles the 'w' trigger for bare www links. The
// rewind reported by the scanner is applied to the output only after
// the replacement URL has been fully built; autolink.WWW matches from
// the trigger itself and always reports a rewind of zero.
func (p *Parser) charAutolinkWWW(ob *buffer.Buffer, data []byte, offset int) int {
	if p.cb.Link == nil || p.inLinkBody {
		return 0
	}

	link := p.newSpanBuf()
	linkLen, rewind := autolink.WWW(link, data, offset, 0)
	if linkLen > 0 {
		linkURL := p.newSpanBuf()
		linkURL.PutString("http://")
		linkURL.Put(link.Bytes())

		ob.Truncate(ob.Len() - rewind)
		if p.cb.NormalText != nil {
			linkText := p.newSpanBuf()
			p.cb.NormalText(linkText, link.Bytes())
			p.cb.Link(ob, linkURL.Bytes(), nil, linkText.Bytes())
			p.popSpanBuf()
		} else {
			p.cb.Link(ob, linkURL.Bytes(), nil, link.Bytes())
		}
		p.popSpanBuf()
	}
	p.popSpanBuf()

	return linkLen
}

// charAutolinkEmail handles the '@' trigger for bare addresses.
func (p *Parser) charAutolinkEmail(ob *buffer.Buffer, data []byte, offset int) int {
	if p.cb.AutoLink == nil || p.inLinkBody {
		return 0
	}

	link := p.newSpanBuf()
	linkLen, rewind := autolink.Email(link, data, offset, 0)
	if linkLen > 0 {
		ob.Truncate(ob.Len() - rewind)
		p.cb.AutoLink(ob, link.Bytes(), EmailAutolink)
	}
	p.popSpanBuf()

	return linkLen
}

// charAutolinkURL handles the ':' trigger for bare scheme://host
// links.
func (p *Parser) charAutolinkURL(ob *buffer.Buffer, data []byte, offset int) int {
	if p.cb.AutoLink == nil || p.inLinkBody {
		return 0
	}

	link := p.newSpanBuf()
	linkLen, rewind := autolink.URL(link, data, offset, 0)
	if linkLen > 0 {
		ob.Truncate(ob.Len() - rewind)
		p.cb.AutoLink(ob, link.Bytes(), NormalAutolink)
	}
	p.popSpanBuf()

	return linkLen
}

// charLink handles '[': links, images and footnote references in
// inline, reference, collapsed and shortcut forms.
func (p *Parser) charLink(ob *buffer.Buffer, data []byte, offset int) (consumed int) {
	d := data[offset:]
	size := len(d)
	isImg := offset > 0 && data[offset-1] == '!'
	orgWorkSize := p.spanBufs.Len()
	ret := false

	// every exit path releases the span buffers acquired here
	defer func() { p.spanBufs.Truncate(orgWorkSize) }()

	// checking whether the correct renderer exists
	if (isImg && p.cb.Image == nil) || (!isImg && p.cb.Link == nil) {
		return 0
	}

	// looking for the matching closing bracket
	textHasNl := false
	i := 1
	for level := 1; i < size; i++ {
		if d[i] == '\n' {
			textHasNl = true
		} else if d[i-1] == '\\' {
			continue
		} else if d[i] == '[' {
			level++
		} else if d[i] == ']' {
			level--
			if level <= 0 {
				break
			}
		}
	}
	if i >= size {
		return 0
	}

	txtE := i
	i++

	// footnote link
	if p.ext&Footnotes != 0 && d[1] == '^' {
		if txtE < 3 {
			return 0
		}
		fr := p.footnotesFound.find(d[2:txtE])

		// mark footnote used on first reference
		if fr != nil && !fr.used {
			p.footnotesUsed.add(fr)
			fr.used = true
			fr.num = len(p.footnotesUsed.items)
		}
		if fr != nil && p.cb.FootnoteRef != nil {
			ret = p.cb.FootnoteRef(ob, fr.num)
		}
		if ret {
			return i
		}
		return 0
	}

	// skip any amount of whitespace or newline (much more lax than
	// original markdown syntax)
	for i < size && isSpace(d[i]) {
		i++
	}

	var link, title []byte
	haveLink := false

	collapseID := func() []byte {
		if !textHasNl {
			return d[1:txtE]
		}
		b := p.newSpanBuf()
		for j := 1; j < txtE; j++ {
			if d[j] != '\n' {
				b.PutByte(d[j])
			} else if d[j-1] != ' ' {
				b.PutByte(' ')
			}
		}
		return b.Bytes()
	}

	switch {
	case i < size && d[i] == '(':
		// inline style link
		i++
		for i < size && isSpace(d[i]) {
			i++
		}
		linkB := i

		// looking for the link end: ' " )
		for i < size {
			if d[i] == '\\' {
				i += 2
			} else if d[i] == ')' {
				break
			} else if i >= 1 && isSpace(d[i-1]) && (d[i] == '\'' || d[i] == '"') {
				break
			} else {
				i++
			}
		}
		if i >= size {
			return 0
		}
		linkE := i

		// looking for the title end if present
		titleB, titleE := 0, 0
		if d[i] == '\'' || d[i] == '"' {
			qtype := d[i]
			inTitle := true
			i++
			titleB = i
			for i < size {
				if d[i] == '\\' {
					i += 2
				} else if d[i] == qtype {
					inTitle = false
					i++
				} else if d[i] == ')' && !inTitle {
					break
				} else {
					i++
				}
			}
			if i >= size {
				return 0
			}

			// skipping whitespace after the title
			titleE = i - 1
			for titleE > titleB && isSpace(d[titleE]) {
				titleE--
			}

			// checking for closing quote presence
			if d[titleE] != '\'' && d[titleE] != '"' {
				titleB, titleE = 0, 0
				linkE = i
			}
		}

		// remove whitespace at the end of the link
		for linkE > linkB && isSpace(d[linkE-1]) {
			linkE--
		}

		// remove optional angle brackets around the link
		if linkB < size && d[linkB] == '<' {
			linkB++
		}
		if linkE > 0 && d[linkE-1] == '>' {
			linkE--
		}

		if linkE > linkB {
			link = d[linkB:linkE]
			haveLink = true
		}
		if titleE > titleB {
			title = d[titleB:titleE]
		}
		i++

	case i < size && d[i] == '[':
		// reference style link
		i++
		linkB := i
		for i < size && d[i] != ']' {
			i++
		}
		if i >= size {
			return 0
		}
		linkE := i

		var id []byte
		if linkB == linkE {
			id = collapseID()
		} else {
			id = d[linkB:linkE]
		}

		lr := p.findLinkRef(id)
		if lr == nil {
			return 0
		}
		if lr.link != nil {
			link = lr.link.Bytes()
			haveLink = true
		}
		if lr.title != nil {
			title = lr.title.Bytes()
		}
		i++

	default:
		// shortcut reference style link
		lr := p.findLinkRef(collapseID())
		if lr == nil {
			return 0
		}
		if lr.link != nil {
			link = lr.link.Bytes()
			haveLink = true
		}
		if lr.title != nil {
			title = lr.title.Bytes()
		}

		// rewinding the whitespace
		i = txtE + 1
	}

	// building content: image alt is kept raw, link content is parsed
	var content *buffer.Buffer
	if txtE > 1 {
		content = p.newSpanBuf()
		if isImg {
			content.Put(d[1:txtE])
		} else {
			// autolinking is disabled inside the visible text of a
			// link
			p.inLinkBody = true
			p.parseInline(content, d[1:txtE])
			p.inLinkBody = false
		}
	}

	var uLink *buffer.Buffer
	if haveLink {
		uLink = p.newSpanBuf()
		unescapeText(uLink, link)
	}

	var contentBytes, uLinkBytes []byte
	if content != nil {
		contentBytes = content.Bytes()
	}
	if uLink != nil {
		uLinkBytes = uLink.Bytes()
	}

	// calling the relevant rendering function
	if isImg {
		if ob.Len() > 0 && ob.Bytes()[ob.Len()-1] == '!' {
			ob.Truncate(ob.Len() - 1)
		}
		ret = p.cb.Image(ob, uLinkBytes, title, contentBytes)
	} else {
		ret = p.cb.Link(ob, uLinkBytes, title, contentBytes)
	}

	if ret {
		return i
	}
	return 0
}

// charSuperscript handles '^x' and '^(spaced text)'.
func (p *Parser) charSuperscript(ob *buffer.Buffer, data []byte, offset int) int {
	if p.cb.Superscript == nil {
		return 0
	}
	d := data[offset:]
	if len(d) < 2 {
		return 0
	}

	var supStart, supLen int
	if d[1] == '(' {
		supStart, supLen = 2, 2
		for supLen < len(d) && d[supLen] != ')' && d[supLen-1] != '\\' {
			supLen++
		}
		if supLen == len(d) {
			return 0
		}
	} else {
		supStart, supLen = 1, 1
		for supLen < len(d) && !isSpace(d[supLen]) {
			supLen++
		}
	}

	if supLen-supStart == 0 {
		if supStart == 2 {
			return 3
		}
		return 0
	}

	sup := p.newSpanBuf()
	p.parseInline(sup, d[supStart:supLen])
	p.cb.Superscript(ob, sup.Bytes())
	p.popSpanBuf()

	if supStart == 2 {
		return supLen + 1
	}
	return supLen
}
