// Package langdetect names the programming language of a code
// snippet. The HTML renderer uses it to pick a class for fenced code
// blocks that carry no language token.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// candidates bounds the classifier's search to languages that commonly
// appear in fenced blocks.
//
//nolint:gochecknoglobals // Fixed candidate set for the classifier
var candidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Dockerfile",
}

// Detect returns the lower-cased language name for a code snippet, or
// "" when nothing can be said with confidence. An empty result leaves
// the code block unclassed.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return ""
	}

	// A shebang is the most reliable signal.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	// Cheap structural fingerprints beat the classifier on short
	// snippets.
	if lang := detectByPattern(content); lang != "" {
		return lang
	}

	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return normalize(lang)
	}

	return ""
}

func normalize(lang string) string {
	lang = strings.ToLower(lang)
	switch lang {
	case "shell":
		return "bash"
	case "c++":
		return "cpp"
	}
	return lang
}

func detectByPattern(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	text := string(content)

	switch {
	case bytes.HasPrefix(trimmed, []byte("package ")) && strings.Contains(text, "func "):
		return "go"
	case strings.Contains(text, "def ") && strings.Contains(text, "):"):
		return "python"
	case bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<!doctype html")),
		bytes.Contains(bytes.ToLower(trimmed), []byte("<html")):
		return "html"
	case (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
		bytes.Contains(trimmed, []byte(`":`)):
		return "json"
	case bytes.HasPrefix(trimmed, []byte("FROM ")) && bytes.Contains(content, []byte("RUN ")):
		return "dockerfile"
	case hasSQLVerb(text):
		return "sql"
	case strings.Contains(text, "fn main()") || strings.Contains(text, "println!"):
		return "rust"
	}

	return ""
}

func hasSQLVerb(text string) bool {
	upper := strings.TrimSpace(strings.ToUpper(text))
	for _, verb := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE TABLE "} {
		if strings.HasPrefix(upper, verb) {
			return true
		}
	}
	return false
}
