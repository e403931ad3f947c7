package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/afmark/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace only", "  \n\t\n", ""},
		{"shebang bash", "#!/bin/bash\necho hello", "bash"},
		{"shebang python", "#!/usr/bin/env python3\nprint('hello')", "python"},
		{"go package", "package main\n\nfunc main() {}\n", "go"},
		{"html document", "<!DOCTYPE html>\n<html><body>x</body></html>", "markup"},
		{"xml prolog", "<?xml version=\"1.0\"?>\n<root/>", "markup"},
		{"json object", `{"key": "value", "number": 123}`, "json"},
		{"dockerfile", "FROM alpine:3.20\nRUN apk add curl\n", "docker"},
		{"sql select", "select * from users where id = 1;", "sql"},
		{"afm source", "> [!NOTE]\n>\n> Remember this.\n", "markdown"},
		{"python def", "def foo():\n    pass\n", "python"},
		{"yaml mapping", "name: afmark\nversion: 1\nitems:\n  - a\n", "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, langdetect.Detect([]byte(tt.content)))
		})
	}
}

func TestParseInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info string
		want langdetect.FenceInfo
	}{
		{"empty", "", langdetect.FenceInfo{}},
		{"language only", "javascript", langdetect.FenceInfo{Language: "javascript"}},
		{"extra words", "go title", langdetect.FenceInfo{Language: "go"}},
		{
			name: "language with attributes",
			info: `javascript {line-numbers="true" start-line="5"}`,
			want: langdetect.FenceInfo{Language: "javascript", Attrs: `{line-numbers="true" start-line="5"}`},
		},
		{
			name: "attributes only",
			info: `{highlight="2"}`,
			want: langdetect.FenceInfo{Attrs: `{highlight="2"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, langdetect.ParseInfo(tt.info))
		})
	}
}
