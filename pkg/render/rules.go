package render

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yaklabco/afmark/pkg/langdetect"
	"github.com/yaklabco/afmark/pkg/token"
)

func renderText(_ *Renderer, toks []*token.Token, idx int) string {
	return EscapeHTML(toks[idx].Content)
}

func renderSoftbreak(_ *Renderer, _ []*token.Token, _ int) string {
	return "\n"
}

func renderHardbreak(_ *Renderer, _ []*token.Token, _ int) string {
	return "<br>\n"
}

func renderRaw(_ *Renderer, toks []*token.Token, idx int) string {
	return toks[idx].Content
}

func renderCodeInline(_ *Renderer, toks []*token.Token, idx int) string {
	tok := toks[idx]
	return "<code" + RenderAttrs(tok.Attrs) + ">" + EscapeHTML(tok.Content) + "</code>"
}

func renderCodeBlock(_ *Renderer, toks []*token.Token, idx int) string {
	tok := toks[idx]
	return "<pre" + RenderAttrs(tok.Attrs) + "><code>" + EscapeHTML(tok.Content) + "</code></pre>\n"
}

func renderImage(r *Renderer, toks []*token.Token, idx int) string {
	tok := toks[idx]
	tok.AttrSet("alt", PlainText(tok.Children))
	return r.RenderToken(toks, idx)
}

// fenceLanguage returns the code class language for a fence.
func (r *Renderer) fenceLanguage(tok *token.Token) string {
	info := langdetect.ParseInfo(tok.Info)
	if info.Language != "" {
		return info.Language
	}
	if r.opts.DetectLanguage {
		return langdetect.Detect([]byte(tok.Content))
	}
	return ""
}

func renderFence(r *Renderer, toks []*token.Token, idx int) string {
	tok := toks[idx]
	attrs := tok.Attrs.Clone()
	if lang := r.fenceLanguage(tok); lang != "" {
		class := r.opts.LangPrefix + lang
		if existing, ok := attrs.Get("class"); ok {
			class = existing + " " + class
		}
		attrs.Set("class", class)
	}
	return "<pre><code" + RenderAttrs(attrs) + ">" + EscapeHTML(tok.Content) + "</code></pre>\n"
}

//nolint:gochecknoglobals // Compiled once; matchers carry no state.
var (
	startLineRe = regexp.MustCompile(`start-line="(\d+)"`)
	lineNumsRe  = regexp.MustCompile(`line-numbers="true"`)
	highlightRe = regexp.MustCompile(`highlight="([\d,-]+)"`)
)

// renderFenceToolbar renders the line-numbered toolbar layout used by the
// documentation site. Info attributes such as
// {line-numbers="true" highlight="1-3" start-line="5"} control it.
func renderFenceToolbar(r *Renderer, toks []*token.Token, idx int) string {
	tok := toks[idx]
	info := langdetect.ParseInfo(tok.Info)
	code := tok.Content

	startLine := 1
	if m := startLineRe.FindStringSubmatch(info.Attrs); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			startLine = n
		}
	}

	var preAttrs token.Attrs
	var rows strings.Builder
	if info.Attrs != "" {
		class := "language-html"
		if lineNumsRe.MatchString(info.Attrs) {
			class = "line-numbers " + class
			rows.WriteString(`<span aria-hidden="true" class="line-numbers-rows">`)
			for range strings.Count(code, "\n") {
				rows.WriteString("<span></span>")
			}
			rows.WriteString("</span>")
		}
		preAttrs.Set("class", class)
		preAttrs.Set("data-start", strconv.Itoa(startLine))
		if m := highlightRe.FindStringSubmatch(info.Attrs); m != nil {
			preAttrs.Set("data-line", m[1])
		}
	} else {
		preAttrs.Set("class", "")
	}
	preAttrs.Set("tabindex", "0")
	preAttrs.Set("style", "counter-reset: linenumber "+strconv.Itoa(startLine-1)+";")

	lang := info.Language
	if lang == "" {
		lang = r.fenceLanguage(tok)
	}

	var sb strings.Builder
	sb.WriteString(`<div class="code-toolbar"><pre`)
	sb.WriteString(RenderAttrs(preAttrs))
	sb.WriteString(`><code class="`)
	sb.WriteString(EscapeHTML(lang))
	sb.WriteString(`">`)
	sb.WriteString(EscapeHTML(code))
	sb.WriteString(rows.String())
	sb.WriteString("</code></pre></div>\n")
	return sb.String()
}
