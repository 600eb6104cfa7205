package html

import "github.com/yaklabco/sundial/pkg/buffer"

// SmartyPants rewrites already-rendered HTML with typographic
// entities: educated quotes, en and em dashes, ellipses, common
// fractions and the (c)/(r)/(tm) marks. Tag contents pass through
// untouched, and whole <pre>, <code>, <var>, <samp>, <kbd>, <math>,
// <script> and <style> elements are skipped.
func SmartyPants(ob *buffer.Buffer, text []byte) {
	if len(text) == 0 {
		return
	}
	if ob.Grow(ob.Len()+len(text)) != nil {
		return
	}

	var smrt smartypantsState
	for i := 0; i < len(text); i++ {
		org := i
		var action func(*buffer.Buffer, *smartypantsState, byte, []byte) int
		for i < len(text) {
			if action = smartypantsActions[text[i]]; action != nil {
				break
			}
			i++
		}
		if i > org {
			ob.Put(text[org:i])
		}
		if i < len(text) {
			var previous byte
			if i > 0 {
				previous = text[i-1]
			}
			i += action(ob, &smrt, previous, text[i:])
		}
	}
}

type smartypantsState struct {
	inSquote bool
	inDquote bool
}

var smartypantsActions [256]func(*buffer.Buffer, *smartypantsState, byte, []byte) int

func init() {
	smartypantsActions['"'] = smartyDquote
	smartypantsActions['&'] = smartyAmp
	smartypantsActions['\''] = smartySquote
	smartypantsActions['('] = smartyParens
	smartypantsActions['-'] = smartyDash
	smartypantsActions['.'] = smartyPeriod
	smartypantsActions['1'] = smartyNumber
	smartypantsActions['3'] = smartyNumber
	smartypantsActions['<'] = smartyLtag
	smartypantsActions['`'] = smartyBacktick
	smartypantsActions['\\'] = smartyEscape
}

func wordBoundary(c byte) bool {
	if c == 0 {
		return true
	}
	if c == ' ' || c == '\t' || c == '\n' || c == '\v' || c == '\f' || c == '\r' {
		return true
	}
	// punctuation
	return c >= '!' && c <= '~' &&
		!(c >= '0' && c <= '9') && !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z')
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// smartyQuotes emits the opening or closing entity for quote ('s' or
// 'd') when the surrounding characters allow the state flip.
func smartyQuotes(ob *buffer.Buffer, previous, next, quote byte, isOpen *bool) bool {
	if *isOpen && !wordBoundary(next) {
		return false
	}
	if !*isOpen && !wordBoundary(previous) {
		return false
	}

	if *isOpen {
		ob.Printf("&r%cquo;", quote)
	} else {
		ob.Printf("&l%cquo;", quote)
	}
	*isOpen = !*isOpen
	return true
}

func smartySquote(ob *buffer.Buffer, smrt *smartypantsState, previous byte, text []byte) int {
	if len(text) >= 2 {
		t1 := lower(text[1])

		if t1 == '\'' {
			var next byte
			if len(text) >= 3 {
				next = text[2]
			}
			if smartyQuotes(ob, previous, next, 'd', &smrt.inDquote) {
				return 1
			}
		}

		// common contractions keep a closing quote: 's 't 'm 'd
		if (t1 == 's' || t1 == 't' || t1 == 'm' || t1 == 'd') &&
			(len(text) == 2 || wordBoundary(text[2])) {
			ob.PutString("&rsquo;")
			return 0
		}

		if len(text) >= 3 {
			t2 := lower(text[2])
			if ((t1 == 'r' && t2 == 'e') || (t1 == 'l' && t2 == 'l') || (t1 == 'v' && t2 == 'e')) &&
				(len(text) == 3 || wordBoundary(text[3])) {
				ob.PutString("&rsquo;")
				return 0
			}
		}
	}

	var next byte
	if len(text) >= 2 {
		next = text[1]
	}
	if smartyQuotes(ob, previous, next, 's', &smrt.inSquote) {
		return 0
	}

	ob.PutByte(text[0])
	return 0
}

func smartyParens(ob *buffer.Buffer, smrt *smartypantsState, previous byte, text []byte) int {
	if len(text) >= 3 {
		t1 := lower(text[1])
		t2 := lower(text[2])

		if t1 == 'c' && t2 == ')' {
			ob.PutString("&copy;")
			return 2
		}
		if t1 == 'r' && t2 == ')' {
			ob.PutString("&reg;")
			return 2
		}
		if len(text) >= 4 && t1 == 't' && t2 == 'm' && text[3] == ')' {
			ob.PutString("&trade;")
			return 3
		}
	}

	ob.PutByte(text[0])
	return 0
}

func smartyDash(ob *buffer.Buffer, smrt *smartypantsState, previous byte, text []byte) int {
	if len(text) >= 3 && text[1] == '-' && text[2] == '-' {
		ob.PutString("&mdash;")
		return 2
	}
	if len(text) >= 2 && text[1] == '-' {
		ob.PutString("&ndash;")
		return 1
	}

	ob.PutByte(text[0])
	return 0
}

func smartyAmp(ob *buffer.Buffer, smrt *smartypantsState, previous byte, text []byte) int {
	if len(text) >= 6 && string(text[:6]) == "&quot;" {
		var next byte
		if len(text) >= 7 {
			next = text[6]
		}
		if smartyQuotes(ob, previous, next, 'd', &smrt.inDquote) {
			return 5
		}
	}

	// rendered output arrives with apostrophes already escaped
	if len(text) >= 5 && string(text[:5]) == "&#39;" {
		synth := append([]byte{'\''}, text[5:]...)
		return 4 + smartySquote(ob, smrt, previous, synth)
	}

	if len(text) >= 4 && string(text[:4]) == "&#0;" {
		return 3
	}

	ob.PutByte('&')
	return 0
}

func smartyPeriod(ob *buffer.Buffer, smrt *smartypantsState, previous byte, text []byte) int {
	if len(text) >= 3 && text[1] == '.' && text[2] == '.' {
		ob.PutString("&hellip;")
		return 2
	}
	if len(text) >= 5 && text[1] == ' ' && text[2] == '.' && text[3] == ' ' && text[4] == '.' {
		ob.PutString("&hellip;")
		return 4
	}

	ob.PutByte(text[0])
	return 0
}

func smartyNumber(ob *buffer.Buffer, smrt *smartypantsState, previous byte, text []byte) int {
	if wordBoundary(previous) && len(text) >= 3 {
		if text[0] == '1' && text[1] == '/' && text[2] == '2' {
			if len(text) == 3 || wordBoundary(text[3]) {
				ob.PutString("&frac12;")
				return 2
			}
		}
		if text[0] == '1' && text[1] == '/' && text[2] == '4' {
			if len(text) == 3 || wordBoundary(text[3]) ||
				(len(text) >= 5 && lower(text[3]) == 't' && lower(text[4]) == 'h') {
				ob.PutString("&frac14;")
				return 2
			}
		}
		if text[0] == '3' && text[1] == '/' && text[2] == '4' {
			if len(text) == 3 || wordBoundary(text[3]) ||
				(len(text) >= 6 && lower(text[3]) == 't' && lower(text[4]) == 'h' && lower(text[5]) == 's') {
				ob.PutString("&frac34;")
				return 2
			}
		}
	}

	ob.PutByte(text[0])
	return 0
}

func smartyDquote(ob *buffer.Buffer, smrt *smartypantsState, previous byte, text []byte) int {
	var next byte
	if len(text) >= 2 {
		next = text[1]
	}
	if !smartyQuotes(ob, previous, next, 'd', &smrt.inDquote) {
		ob.PutByte(text[0])
	}
	return 0
}

func smartyBacktick(ob *buffer.Buffer, smrt *smartypantsState, previous byte, text []byte) int {
	if len(text) >= 2 && text[1] == '`' {
		var next byte
		if len(text) >= 3 {
			next = text[2]
		}
		if smartyQuotes(ob, previous, next, 'd', &smrt.inDquote) {
			return 1
		}
	}

	ob.PutByte(text[0])
	return 0
}

func smartyEscape(ob *buffer.Buffer, smrt *smartypantsState, previous byte, text []byte) int {
	if len(text) < 2 {
		ob.PutByte(text[0])
		return 0
	}

	switch text[1] {
	case '"', '\'', '.', '-', '`':
		ob.PutByte(text[1])
		return 1
	default:
		ob.PutByte(text[0])
		return 0
	}
}

var smartySkipTags = []string{"pre", "code", "var", "samp", "kbd", "math", "script", "style"}

func smartyLtag(ob *buffer.Buffer, smrt *smartypantsState, previous byte, text []byte) int {
	i := 0
	for i < len(text) && text[i] != '>' {
		i++
	}

	skip := ""
	for _, tag := range smartySkipTags {
		if IsTag(text, tag) == TagOpen {
			skip = tag
			break
		}
	}

	if skip != "" {
		for {
			for i < len(text) && text[i] != '<' {
				i++
			}
			if i == len(text) {
				break
			}
			if IsTag(text[i:], skip) == TagClose {
				break
			}
			i++
		}
		for i < len(text) && text[i] != '>' {
			i++
		}
	}

	if i < len(text) {
		ob.Put(text[:i+1])
	} else {
		ob.Put(text)
		return i - 1
	}
	return i
}
