package html

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/sundial/pkg/buffer"
	"github.com/yaklabco/sundial/pkg/markdown"
)

func TestIsTag(t *testing.T) {
	assert.Equal(t, TagOpen, IsTag([]byte("<style>"), "style"))
	assert.Equal(t, TagOpen, IsTag([]byte("<style media=\"x\">"), "style"))
	assert.Equal(t, TagClose, IsTag([]byte("</style>"), "style"))
	assert.Equal(t, TagNone, IsTag([]byte("<styles>"), "style"))
	assert.Equal(t, TagNone, IsTag([]byte("style"), "style"))
	assert.Equal(t, TagNone, IsTag([]byte("<st"), "style"))
}

func TestBlockCodeLanguageClasses(t *testing.T) {
	r := New(0)
	ob := buffer.New(64)
	r.blockCode(ob, []byte("x\n"), []byte(".rb  extra"))
	// leading dot stripped, whitespace-separated tokens joined
	assert.Equal(t, "<pre><code class=\"rb extra\">x\n</code></pre>\n", ob.String())
}

func TestBlockCodeDetectLanguage(t *testing.T) {
	r := New(0)
	r.DetectLanguage = func(code []byte) string { return "go" }
	ob := buffer.New(64)
	r.blockCode(ob, []byte("package main\n"), nil)
	assert.Contains(t, ob.String(), "<pre><code class=\"go\">")

	// an explicit language wins over detection
	ob2 := buffer.New(64)
	r.blockCode(ob2, []byte("package main\n"), []byte("text"))
	assert.Contains(t, ob2.String(), "class=\"text\"")
}

func TestCallbacksHonourSkipFlags(t *testing.T) {
	full := New(0).Callbacks()
	assert.NotNil(t, full.Image)
	assert.NotNil(t, full.Link)
	assert.NotNil(t, full.BlockHTML)
	assert.Nil(t, full.Entity)
	assert.Nil(t, full.Outline)

	skim := New(SkipImages | SkipLinks | SkipHTML).Callbacks()
	assert.Nil(t, skim.Image)
	assert.Nil(t, skim.Link)
	assert.Nil(t, skim.AutoLink)
	assert.Nil(t, skim.BlockHTML)

	escaped := New(Escape).Callbacks()
	assert.Nil(t, escaped.BlockHTML)
	assert.NotNil(t, escaped.RawHTMLTag)

	outlined := New(Outline).Callbacks()
	assert.NotNil(t, outlined.Outline)
}

func TestLinkAttributesHook(t *testing.T) {
	r := New(0)
	r.LinkAttributes = func(ob *buffer.Buffer, link []byte) {
		ob.PutString(" rel=\"nofollow\"")
	}
	ob := buffer.New(64)
	ok := r.link(ob, []byte("/x"), nil, []byte("t"))
	assert.True(t, ok)
	assert.Equal(t, "<a href=\"/x\" rel=\"nofollow\">t</a>", ob.String())
}

func TestAutoLinkEmail(t *testing.T) {
	r := New(0)
	ob := buffer.New(64)
	ok := r.autoLink(ob, []byte("me@example.com"), markdown.EmailAutolink)
	assert.True(t, ok)
	assert.Equal(t, "<a href=\"mailto:me@example.com\">me@example.com</a>", ob.String())

	// a mailto: URI keeps the prefix out of the visible text
	ob2 := buffer.New(64)
	r.autoLink(ob2, []byte("mailto:me@example.com"), markdown.NormalAutolink)
	assert.Equal(t, "<a href=\"mailto:me@example.com\">me@example.com</a>", ob2.String())
}

func TestFootnoteDefAnchorPlacement(t *testing.T) {
	r := New(0)
	ob := buffer.New(64)
	r.footnoteDef(ob, []byte("<p>note</p>\n"), 1)
	got := ob.String()
	assert.Contains(t, got, "<li id=\"fn1\">")
	// the backref lands inside the first paragraph
	assert.Contains(t, got, "note&nbsp;<a href=\"#fnref1\" rev=\"footnote\">&#8617;</a></p>")
}
