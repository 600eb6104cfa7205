package html

import "github.com/yaklabco/sundial/pkg/buffer"

// The OWASP set: & < > " ' and, in secure mode, the forward slash.
var htmlEscapes = [256]string{
	'"':  "&quot;",
	'&':  "&amp;",
	'\'': "&#39;",
	'/':  "&#47;",
	'<':  "&lt;",
	'>':  "&gt;",
}

func escapeHTML(ob *buffer.Buffer, src []byte, secure bool) {
	if ob.Grow(ob.Len()+len(src)+len(src)/5) != nil {
		return
	}

	i := 0
	for i < len(src) {
		org := i
		for i < len(src) && htmlEscapes[src[i]] == "" {
			i++
		}
		if i > org {
			ob.Put(src[org:i])
		}
		if i >= len(src) {
			break
		}

		// the forward slash only escapes in secure mode
		if src[i] == '/' && !secure {
			ob.PutByte('/')
		} else {
			ob.PutString(htmlEscapes[src[i]])
		}
		i++
	}
}

// EscapeHTML appends src to ob with the HTML special characters
// entity-escaped.
func EscapeHTML(ob *buffer.Buffer, src []byte) {
	escapeHTML(ob, src, false)
}

// Characters that pass through an href untouched: URL-safe characters
// plus the reserved separators, which are assumed to carry their URL
// meaning. '&' and the single quote are absent: they are URL-valid but
// need entity escaping to sit inside an attribute.
var hrefSafe = [256]bool{}

func init() {
	for c := '0'; c <= '9'; c++ {
		hrefSafe[c] = true
	}
	for c := 'a'; c <= 'z'; c++ {
		hrefSafe[c] = true
		hrefSafe[c-'a'+'A'] = true
	}
	for _, c := range []byte("!#$%()*+,-./:;=?@_") {
		hrefSafe[c] = true
	}
}

const hexChars = "0123456789ABCDEF"

// EscapeHref appends src to ob percent-encoding everything outside the
// href-safe set, with entity escapes for the ampersand and single
// quote.
func EscapeHref(ob *buffer.Buffer, src []byte) {
	if ob.Grow(ob.Len()+len(src)+len(src)/5) != nil {
		return
	}

	i := 0
	for i < len(src) {
		org := i
		for i < len(src) && hrefSafe[src[i]] {
			i++
		}
		if i > org {
			ob.Put(src[org:i])
		}
		if i >= len(src) {
			break
		}

		switch src[i] {
		case '&':
			ob.PutString("&amp;")
		case '\'':
			ob.PutString("&#x27;")
		default:
			ob.PutByte('%')
			ob.PutByte(hexChars[(src[i]>>4)&0xF])
			ob.PutByte(hexChars[src[i]&0xF])
		}
		i++
	}
}
