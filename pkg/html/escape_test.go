package html

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/sundial/pkg/buffer"
)

func escapedHTML(src string) string {
	b := buffer.New(64)
	EscapeHTML(b, []byte(src))
	return b.String()
}

func escapedHref(src string) string {
	b := buffer.New(64)
	EscapeHref(b, []byte(src))
	return b.String()
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&lt;a href=&quot;x&quot;&gt;", escapedHTML(`<a href="x">`))
	assert.Equal(t, "a &amp; b", escapedHTML("a & b"))
	assert.Equal(t, "it&#39;s", escapedHTML("it's"))
	// the forward slash only escapes in secure mode
	assert.Equal(t, "a/b", escapedHTML("a/b"))
	assert.Equal(t, "untouched", escapedHTML("untouched"))
}

func TestEscapeHref(t *testing.T) {
	assert.Equal(t, "http://example.com/a?b=c#d", escapedHref("http://example.com/a?b=c#d"))
	assert.Equal(t, "a%20b", escapedHref("a b"))
	assert.Equal(t, "a&amp;b", escapedHref("a&b"))
	assert.Equal(t, "it&#x27;s", escapedHref("it's"))
	assert.Equal(t, "%C3%A9", escapedHref("é"))
	assert.Equal(t, "%5Bx%5D", escapedHref("[x]"))
}
