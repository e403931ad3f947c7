// Package langdetect picks the language class for fenced code blocks.
//
// Fences that carry an info string use its first word. Fences without one
// are classified from their content: shebangs first, then a few strong
// textual signals, then go-enry's classifier restricted to the languages
// documentation sites highlight.
package langdetect

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Fence class names, matching the Prism language identifiers used by the
// preview stylesheet.
const (
	langBash       = "bash"
	langCpp        = "cpp"
	langCSharp     = "csharp"
	langDockerfile = "docker"
	langGo         = "go"
	langHTML       = "markup"
	langJSON       = "json"
	langMarkdown   = "markdown"
	langPython     = "python"
	langSQL        = "sql"
	langYAML       = "yaml"
)

// classifierCandidates bounds the enry classifier to common doc languages.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript", "Java",
	"C#", "C++", "SQL", "JSON", "YAML", "HTML", "CSS", "XML",
}

// prismNames maps enry language names to Prism identifiers where they differ.
//
//nolint:gochecknoglobals // Read-only lookup table.
var prismNames = map[string]string{
	"Shell":      langBash,
	"C++":        langCpp,
	"C#":         langCSharp,
	"HTML":       langHTML,
	"XML":        langHTML,
	"Dockerfile": langDockerfile,
}

// detector returns a language when its signal is present.
type detector func(content []byte, trimmed []byte) string

//nolint:gochecknoglobals // Read-only detector chain, most specific first.
var detectors = []detector{
	detectGo,
	detectMarkup,
	detectJSON,
	detectDockerfile,
	detectSQL,
	detectAFM,
	detectPython,
	detectYAML,
}

// Detect returns the Prism class for unlabeled code, or "" when no
// language can be picked with confidence.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return ""
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return prismName(lang)
	}

	trimmed := bytes.TrimSpace(content)
	for _, detect := range detectors {
		if lang := detect(content, trimmed); lang != "" {
			return lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return prismName(lang)
	}

	return ""
}

// infoAttrsRe matches the trailing {...} attribute block of a fence info string.
var infoAttrsRe = regexp.MustCompile(`\{[^}]+\}`)

// FenceInfo is a parsed fence info string.
type FenceInfo struct {
	// Language is the first word of the info string.
	Language string

	// Attrs is the raw {...} block, if present.
	Attrs string
}

// ParseInfo splits a fence info string such as
// `javascript {line-numbers="true" highlight="2"}`.
func ParseInfo(info string) FenceInfo {
	info = strings.TrimSpace(info)
	var fi FenceInfo
	if loc := infoAttrsRe.FindStringIndex(info); loc != nil {
		fi.Attrs = info[loc[0]:loc[1]]
		info = strings.TrimSpace(info[:loc[0]] + info[loc[1]:])
	}
	if fields := strings.Fields(info); len(fields) > 0 {
		fi.Language = fields[0]
	}
	return fi
}

func prismName(lang string) string {
	if name, ok := prismNames[lang]; ok {
		return name
	}
	return strings.ToLower(lang)
}

func detectGo(_, trimmed []byte) string {
	if bytes.HasPrefix(trimmed, []byte("package ")) {
		return langGo
	}
	return ""
}

func detectMarkup(_, trimmed []byte) string {
	lower := bytes.ToLower(trimmed)
	for _, marker := range []string{"<!doctype html", "<html", "<head>", "<body>", "<?xml"} {
		if bytes.Contains(lower, []byte(marker)) {
			return langHTML
		}
	}
	return ""
}

func detectJSON(_, trimmed []byte) string {
	if (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
		bytes.Contains(trimmed, []byte(`":`)) {
		return langJSON
	}
	return ""
}

func detectDockerfile(content, trimmed []byte) string {
	if bytes.HasPrefix(trimmed, []byte("FROM ")) && bytes.Contains(content, []byte("\nRUN ")) {
		return langDockerfile
	}
	return ""
}

func detectSQL(_, trimmed []byte) string {
	upper := strings.ToUpper(string(trimmed))
	for _, kw := range []string{"SELECT ", "INSERT INTO ", "UPDATE ", "DELETE FROM ", "CREATE TABLE "} {
		if strings.HasPrefix(upper, kw) {
			return langSQL
		}
	}
	return ""
}

// afmMarkerRe matches dialect markers that only appear in Markdown sources.
var afmMarkerRe = regexp.MustCompile(`(?m)^>\s*\[!(NOTE|TIP|IMPORTANT|WARNING|CAUTION|BEGINTABS|BEGINSHADEBOX)`)

func detectAFM(content, _ []byte) string {
	if afmMarkerRe.Match(content) {
		return langMarkdown
	}
	return ""
}

func detectPython(content, _ []byte) string {
	s := string(content)
	if strings.Contains(s, "def ") && strings.Contains(s, "):") {
		return langPython
	}
	if strings.Contains(s, "__name__") {
		return langPython
	}
	return ""
}

// detectYAML requires at least two plain "key: value" or "- item" lines.
func detectYAML(content, _ []byte) string {
	hits := 0
	for line := range bytes.SplitSeq(content, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		switch {
		case bytes.HasPrefix(line, []byte("- ")):
			hits++
		case bytes.Contains(line, []byte(": ")) && !bytes.ContainsAny(line, "(){};"):
			hits++
		}
	}
	if hits >= 2 {
		return langYAML
	}
	return ""
}
