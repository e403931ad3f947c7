// Package render serializes a token list to HTML.
//
// The output follows the markdown-it default renderer: block tokens are
// followed by a newline unless an opening tag directly wraps inline
// content, raw HTML tokens are written verbatim, and text is escaped.
package render

import (
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/afmark/pkg/token"
)

// Options configures the renderer.
type Options struct {
	// LangPrefix is prepended to the fence language in the code class.
	LangPrefix string

	// DetectLanguage picks a language for fences without an info string.
	DetectLanguage bool

	// CodeToolbar renders fences with the line-number toolbar markup.
	CodeToolbar bool
}

// DefaultOptions returns the renderer defaults.
func DefaultOptions() Options {
	return Options{
		LangPrefix:     "language-",
		DetectLanguage: true,
	}
}

// Rule renders the token at idx.
type Rule func(r *Renderer, toks []*token.Token, idx int) string

// Renderer turns tokens into HTML. A Renderer is safe for concurrent use
// once its rules are set up.
type Renderer struct {
	opts  Options
	rules map[token.Type]Rule
}

// New creates a renderer with the default rule table.
func New(opts Options) *Renderer {
	r := &Renderer{
		opts:  opts,
		rules: make(map[token.Type]Rule),
	}
	r.rules[token.Text] = renderText
	r.rules[token.Softbreak] = renderSoftbreak
	r.rules[token.Hardbreak] = renderHardbreak
	r.rules[token.CodeInline] = renderCodeInline
	r.rules[token.CodeBlock] = renderCodeBlock
	r.rules[token.HTMLBlock] = renderRaw
	r.rules[token.HTMLInline] = renderRaw
	r.rules[token.Image] = renderImage
	if opts.CodeToolbar {
		r.rules[token.Fence] = renderFenceToolbar
	} else {
		r.rules[token.Fence] = renderFence
	}
	return r
}

// Options returns the renderer configuration.
func (r *Renderer) Options() Options {
	return r.opts
}

// SetRule overrides the rule for a token type.
func (r *Renderer) SetRule(typ token.Type, rule Rule) {
	r.rules[typ] = rule
}

// Render serializes a block token list.
func (r *Renderer) Render(toks []*token.Token) string {
	var sb strings.Builder
	for i, tok := range toks {
		if tok.Type == token.Inline {
			sb.WriteString(r.RenderInline(tok.Children))
			continue
		}
		sb.WriteString(r.renderOne(toks, i))
	}
	return sb.String()
}

// RenderInline serializes the children of an inline token.
func (r *Renderer) RenderInline(children []*token.Token) string {
	var sb strings.Builder
	for i := range children {
		sb.WriteString(r.renderOne(children, i))
	}
	return sb.String()
}

func (r *Renderer) renderOne(toks []*token.Token, idx int) string {
	if rule, ok := r.rules[toks[idx].Type]; ok {
		return rule(r, toks, idx)
	}
	return r.RenderToken(toks, idx)
}

// RenderToken renders a token as a bare tag with its attributes.
func (r *Renderer) RenderToken(toks []*token.Token, idx int) string {
	tok := toks[idx]
	if tok.Hidden {
		return ""
	}

	var sb strings.Builder
	if tok.Block && tok.Nesting != -1 && idx > 0 && toks[idx-1].Hidden {
		sb.WriteByte('\n')
	}

	if tok.Nesting == -1 {
		sb.WriteString("</")
	} else {
		sb.WriteByte('<')
	}
	sb.WriteString(tok.Tag)
	sb.WriteString(RenderAttrs(tok.Attrs))

	needLf := false
	if tok.Block {
		needLf = true
		if tok.Nesting == 1 && idx+1 < len(toks) {
			next := toks[idx+1]
			switch {
			case next.Type == token.Inline || next.Hidden:
				needLf = false
			case next.Nesting == -1 && next.Tag == tok.Tag:
				needLf = false
			}
		}
	}

	if needLf {
		sb.WriteString(">\n")
	} else {
		sb.WriteByte('>')
	}
	return sb.String()
}

// RenderAttrs renders attributes as ` key="value"` pairs.
func RenderAttrs(attrs token.Attrs) string {
	if len(attrs) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, a := range attrs {
		sb.WriteByte(' ')
		sb.WriteString(EscapeHTML(a.Key))
		sb.WriteString(`="`)
		sb.WriteString(EscapeHTML(a.Value))
		sb.WriteByte('"')
	}
	return sb.String()
}

// EscapeHTML escapes &, <, > and double quotes.
func EscapeHTML(s string) string {
	if !strings.ContainsAny(s, `&<>"`) {
		return s
	}
	return string(util.EscapeHTML([]byte(s)))
}

// PlainText flattens inline children to the text used for image alt
// attributes.
func PlainText(children []*token.Token) string {
	var sb strings.Builder
	for _, child := range children {
		switch child.Type {
		case token.Text, token.CodeInline:
			sb.WriteString(child.Content)
		case token.Image:
			sb.WriteString(PlainText(child.Children))
		case token.Softbreak, token.Hardbreak:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
