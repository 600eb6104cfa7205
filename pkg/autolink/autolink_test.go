package autolink

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/sundial/pkg/buffer"
)

// scan drives a scanner the way the inline parser does: data is the
// whole span, trigger the byte the dispatch fired on.
func scan(t *testing.T, fn func(*buffer.Buffer, []byte, int, Flags) (int, int), data string, trigger byte, flags Flags) (link string, end, rewind int) {
	t.Helper()
	offset := strings.IndexByte(data, trigger)
	if offset < 0 {
		t.Fatalf("trigger %q not in %q", trigger, data)
	}
	b := buffer.New(64)
	end, rewind = fn(b, []byte(data), offset, flags)
	return b.String(), end, rewind
}

func TestURL(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		link   string
		rewind int
	}{
		{"plain", "see http://example.com now", "http://example.com", 4},
		{"https", "https://example.com/x", "https://example.com/x", 5},
		{"trailing dot", "http://example.com.", "http://example.com", 4},
		{"trailing comma", "visit http://example.com, ok", "http://example.com", 4},
		{"wrapped parens", "(http://example.com)", "http://example.com", 4},
		{"balanced parens", "http://example.com/x(y)", "http://example.com/x(y)", 4},
		{"entity tail", "http://example.com&quot;", "http://example.com", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, end, rewind := scan(t, URL, tt.input, ':', 0)
			assert.Equal(t, tt.link, link)
			assert.Equal(t, tt.rewind, rewind)
			assert.Greater(t, end, 0)
		})
	}
}

func TestURLRejects(t *testing.T) {
	for _, input := range []string{
		"foo:bar",              // no //
		"javascript://a.com/x", // unsafe scheme
		"http://x",             // host without a dot
	} {
		_, end, _ := scan(t, URL, input, ':', 0)
		assert.Zero(t, end, "input %q", input)
	}
}

func TestURLShortDomains(t *testing.T) {
	_, end, _ := scan(t, URL, "http://localhost/x", ':', ShortDomains)
	assert.Greater(t, end, 0)
}

func TestWWW(t *testing.T) {
	link, end, rewind := scan(t, WWW, "go to www.example.com now", 'w', 0)
	assert.Equal(t, "www.example.com", link)
	assert.Zero(t, rewind)
	assert.Equal(t, len("www.example.com"), end)
}

func TestWWWNeedsBoundary(t *testing.T) {
	data := []byte("awww.example.com")
	b := buffer.New(64)
	end, _ := WWW(b, data, 1, 0)
	assert.Zero(t, end)
}

func TestEmail(t *testing.T) {
	link, end, rewind := scan(t, Email, "mail me@example.com please", '@', 0)
	assert.Equal(t, "me@example.com", link)
	assert.Equal(t, 2, rewind)
	assert.Equal(t, len("@example.com"), end)
}

func TestEmailRejects(t *testing.T) {
	for _, input := range []string{
		"@example.com", // no local part
		"a@b@c.com",    // two @
		"me@exam ple",  // host without a dot
	} {
		_, end, _ := scan(t, Email, input, '@', 0)
		assert.Zero(t, end, "input %q", input)
	}
}

func TestIsSafe(t *testing.T) {
	assert.True(t, IsSafe([]byte("http://example.com")))
	assert.True(t, IsSafe([]byte("HTTPS://example.com")))
	assert.True(t, IsSafe([]byte("/relative/path")))
	assert.True(t, IsSafe([]byte("#fragment")))
	assert.True(t, IsSafe([]byte("mailto:a@b.com")))
	assert.False(t, IsSafe([]byte("javascript:alert(1)")))
	assert.False(t, IsSafe([]byte("vbscript:x")))
	assert.False(t, IsSafe([]byte("data:text/html;base64,x")))
	assert.False(t, IsSafe([]byte("http://")))
}
