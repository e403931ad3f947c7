package passes

import (
	"regexp"
	"slices"
	"strings"

	"github.com/aymerick/douceur/css"
	cssparser "github.com/aymerick/douceur/parser"

	"github.com/yaklabco/afmark/pkg/token"
	"github.com/yaklabco/afmark/pkg/transform"
)

var (
	// imagePropsPattern matches the {key=value ...} block directly after
	// an image.
	imagePropsPattern = regexp.MustCompile(`^\{(.+?)\}`)

	// imagePropPattern matches one key or key=value pair.
	imagePropPattern = regexp.MustCompile(`([^\s=]+)(?:=("[^"]*"|'[^']*'|\S+))?`)
)

// alignStyles maps align values to inline styles.
//
//nolint:gochecknoglobals // Read-only lookup table.
var alignStyles = map[string]string{
	"right":  "float: right; margin-left: 10px;",
	"left":   "float: left; margin-right: 10px;",
	"center": "display: block; margin-left: auto; margin-right: auto;",
}

// ImagesPass moves {key=value} blocks following an image onto the image.
type ImagesPass struct {
	transform.BasePass
}

// NewImagesPass creates the image attribute pass.
func NewImagesPass() *ImagesPass {
	return &ImagesPass{
		BasePass: transform.NewBasePass(
			"images",
			"![alt](src){align=right width=200} sets image attributes",
			transform.StageInline,
			orderImages,
		),
	}
}

// Apply handles inline tokens whose first child is an image.
func (p *ImagesPass) Apply(state *transform.State) error {
	if err := transform.Check(state); err != nil {
		return err
	}

	state.Tokens.EachInline(func(_ int, tok *token.Token) {
		if len(tok.Children) == 0 || !tok.Children[0].Is(token.Image) {
			return
		}
		p.applyProps(state, tok)
	})
	return nil
}

// applyProps reads a {...} block at the start of the text right after
// the image. The block is cut from the text; a text child left blank is
// dropped.
func (p *ImagesPass) applyProps(state *transform.State, tok *token.Token) {
	children := mergeText(tok.Children)
	img := children[0]

	const idx = 1
	if len(children) <= idx || !children[idx].Is(token.Text) {
		return
	}
	text := children[idx]
	loc := imagePropsPattern.FindStringSubmatchIndex(text.Content)
	if loc == nil {
		return
	}

	setImageProps(state, img, text.Content[loc[2]:loc[3]])

	rest := text.Content[:loc[0]] + text.Content[loc[1]:]
	if strings.TrimSpace(rest) == "" {
		children = slices.Delete(children, idx, idx+1)
	} else {
		text.Content = rest
	}
	tok.SetChildren(children)
}

// setImageProps applies key=value pairs to img. Keys are lowercased and
// quotes around values removed.
func setImageProps(state *transform.State, img *token.Token, props string) {
	var align, style string
	for _, m := range imagePropPattern.FindAllStringSubmatch(props, -1) {
		key := strings.ToLower(m[1])
		value := unquote(m[2])

		switch key {
		case "align":
			if _, ok := alignStyles[strings.ToLower(value)]; ok {
				align = strings.ToLower(value)
				continue
			}
			img.AttrSet(key, value)
		case "style":
			style = value
		default:
			img.AttrSet(key, value)
		}
	}

	merged, err := mergeStyles(alignStyles[align], style)
	if err != nil {
		state.Log().Debug("image style not parsed", "style", style, "error", err)
	}
	if merged != "" {
		img.AttrSet("style", merged)
	}
}

// mergeStyles combines two declaration lists. A property set in extra
// replaces the same property in base, keeping its position.
func mergeStyles(base, extra string) (string, error) {
	if base == "" || extra == "" {
		return base + extra, nil
	}

	baseDecls, err := cssparser.ParseDeclarations(base)
	if err != nil {
		return base + " " + extra, err
	}
	extraDecls, err := cssparser.ParseDeclarations(terminate(extra))
	if err != nil {
		return base + " " + extra, err
	}

	decls := make([]*css.Declaration, 0, len(baseDecls)+len(extraDecls))
	for _, decl := range slices.Concat(baseDecls, extraDecls) {
		if i := slices.IndexFunc(decls, func(d *css.Declaration) bool {
			return strings.EqualFold(d.Property, decl.Property)
		}); i >= 0 {
			decls[i] = decl
			continue
		}
		decls = append(decls, decl)
	}

	parts := make([]string, len(decls))
	for i, decl := range decls {
		parts[i] = decl.String()
	}
	return strings.Join(parts, " "), nil
}

// terminate makes sure the last declaration ends with a semicolon.
func terminate(style string) string {
	style = strings.TrimSpace(style)
	if style == "" || strings.HasSuffix(style, ";") {
		return style
	}
	return style + ";"
}

// unquote strips one pair of matching quotes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// mergeText joins runs of adjacent text children.
func mergeText(children []*token.Token) []*token.Token {
	out := make([]*token.Token, 0, len(children))
	for _, child := range children {
		if n := len(out); n > 0 && child.Is(token.Text) && out[n-1].Is(token.Text) {
			joined := token.NewText(out[n-1].Content + child.Content)
			out[n-1] = joined
			continue
		}
		out = append(out, child)
	}
	return out
}
