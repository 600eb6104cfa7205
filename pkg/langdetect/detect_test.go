package langdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectEmpty(t *testing.T) {
	assert.Empty(t, Detect(nil))
	assert.Empty(t, Detect([]byte("   \n\t")))
}

func TestDetectShebang(t *testing.T) {
	assert.Equal(t, "bash", Detect([]byte("#!/bin/sh\necho hi\n")))
	assert.Equal(t, "python", Detect([]byte("#!/usr/bin/env python\nprint('hi')\n")))
}

func TestDetectPatterns(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"go", "package main\n\nfunc main() {}\n", "go"},
		{"python", "def add(a, b):\n    return a + b\n", "python"},
		{"html", "<!DOCTYPE html>\n<html></html>\n", "html"},
		{"json", "{\"key\": \"value\"}\n", "json"},
		{"dockerfile", "FROM alpine:3\nRUN apk add curl\n", "dockerfile"},
		{"sql", "SELECT id FROM users;\n", "sql"},
		{"rust", "fn main() {\n    println!(\"hi\");\n}\n", "rust"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect([]byte(tt.code)))
		})
	}
}
