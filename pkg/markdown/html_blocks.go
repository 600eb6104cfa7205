package markdown

// blockTags is the whitelist of HTML tag names that can open an HTML
// block. Membership is case-insensitive.
var blockTags = map[string]string{}

func init() {
	for _, tag := range []string{
		"address", "article", "aside", "audio", "blockquote", "canvas",
		"dd", "del", "details", "dialog", "div", "dl", "dt",
		"fieldset", "figcaption", "figure", "footer", "form",
		"h1", "h2", "h3", "h4", "h5", "h6", "header", "hgroup", "hr",
		"iframe", "ins", "li", "main", "math", "nav", "noscript",
		"ol", "output", "p", "pre", "script", "section", "style",
		"summary", "table", "tbody", "td", "tfoot", "th", "thead",
		"tr", "ul", "video",
	} {
		blockTags[tag] = tag
	}
}

// FindBlockTag reports whether name is a block-level HTML tag,
// returning the canonical lower-case spelling.
func FindBlockTag(name []byte) (string, bool) {
	if len(name) == 0 || len(name) > 10 {
		return "", false
	}
	var low [10]byte
	for i, c := range name {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		low[i] = c
	}
	canon, ok := blockTags[string(low[:len(name)])]
	return canon, ok
}
