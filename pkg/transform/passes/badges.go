package passes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/afmark/pkg/render"
	"github.com/yaklabco/afmark/pkg/token"
	"github.com/yaklabco/afmark/pkg/transform"
)

var (
	badgePattern      = regexp.MustCompile(`\[\!BADGE\s(.+?)\](?:\{(.+?)\})?`)
	badgeParamPattern = regexp.MustCompile(`(\w+)=("[^"]+"|'[^']+'|\S+)`)
)

const (
	defaultBadgeType = "Informative"
	cautionBadgeType = "Caution"
	cautionBadgeVars = " --mod-badge-background-color-default: var(--spectrum-yellow-background-color-default);" +
		" --mod-badge-label-icon-color-white: var(--spectrum-black);"

	// frontMatterBadgeKey is the front matter key holding page badges.
	frontMatterBadgeKey = "badge"
)

// badge is one parsed badge declaration.
type badge struct {
	Label   string
	Type    string
	URL     string
	Tooltip string
}

// parseBadgeParams applies key=value parameters to b. Quotes around
// values are removed.
func parseBadgeParams(b *badge, params string) {
	for _, m := range badgeParamPattern.FindAllStringSubmatch(params, -1) {
		value := strings.Trim(m[2], `"'`)
		switch m[1] {
		case "label":
			b.Label = value
		case "type":
			b.Type = value
		case "url":
			b.URL = value
		case "tooltip":
			b.Tooltip = value
		}
	}
}

// HTML renders the badge as Spectrum markup.
func (b badge) HTML() string {
	kind := b.Type
	if kind == "" {
		kind = defaultBadgeType
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<span class="sp-badge-wrapper"><sp-badge size="s" variant="%s" dir="ltr"`,
		render.EscapeHTML(strings.ToLower(kind)))
	if b.Tooltip != "" {
		fmt.Fprintf(&sb, ` title="%s"`, render.EscapeHTML(b.Tooltip))
	}
	sb.WriteString(` style="cursor:inherit !important;`)
	if strings.EqualFold(kind, cautionBadgeType) {
		sb.WriteString(cautionBadgeVars)
	}
	fmt.Fprintf(&sb, `">%s</sp-badge></span>`, render.EscapeHTML(b.Label))

	if b.URL == "" {
		return sb.String()
	}
	return fmt.Sprintf(`<a href="%s" style="color:inherit !important;text-decoration:none">%s</a>`,
		render.EscapeHTML(b.URL), sb.String())
}

// BadgesPass replaces [!BADGE label]{type=... url=... tooltip=...} with
// badge markup.
type BadgesPass struct {
	transform.BasePass
}

// NewBadgesPass creates the inline badge pass.
func NewBadgesPass() *BadgesPass {
	return &BadgesPass{
		BasePass: transform.NewBasePass(
			"badges",
			`[!BADGE label]{type=Positive url="..." tooltip="..."} becomes a Spectrum badge`,
			transform.StageBlock,
			orderBadges,
		),
	}
}

// Apply substitutes every badge marker in inline content.
func (p *BadgesPass) Apply(state *transform.State) error {
	if err := transform.Check(state); err != nil {
		return err
	}

	state.Tokens.EachInline(func(_ int, tok *token.Token) {
		if !badgePattern.MatchString(tok.Content) {
			return
		}
		tok.Content = badgePattern.ReplaceAllStringFunc(tok.Content, func(match string) string {
			m := badgePattern.FindStringSubmatch(match)
			b := badge{Label: m[1]}
			parseBadgeParams(&b, m[2])
			return b.HTML()
		})
	})
	return nil
}

// MetaBadgesPass renders badges declared in front matter at the top of
// the document.
type MetaBadgesPass struct {
	transform.BasePass
}

// NewMetaBadgesPass creates the front matter badge pass.
func NewMetaBadgesPass() *MetaBadgesPass {
	return &MetaBadgesPass{
		BasePass: transform.NewBasePass(
			"meta-badges",
			`Front matter badge: label="..." type=... entries are shown at the top of the page`,
			transform.StageBlock,
			orderMetaBadges,
		),
	}
}

// Apply inserts one html_block holding every front matter badge.
func (p *MetaBadgesPass) Apply(state *transform.State) error {
	if err := transform.Check(state); err != nil {
		return err
	}

	decls := frontMatterBadges(state.FrontMatter())
	if len(decls) == 0 {
		return nil
	}

	var sb strings.Builder
	for _, decl := range decls {
		var b badge
		parseBadgeParams(&b, decl)
		if b.Label == "" {
			state.Log().Debug("front matter badge without label skipped", "badge", decl)
			continue
		}
		sb.WriteString(b.HTML())
	}
	if sb.Len() == 0 {
		return nil
	}

	state.Tokens.Insert(0, htmlBlock(sb.String()+"\n", 0))
	return nil
}

// frontMatterBadges returns the badge declarations of the front matter
// badge key, which holds a string or a list of strings.
func frontMatterBadges(fm map[string]any) []string {
	switch v := fm[frontMatterBadgeKey].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	default:
		return nil
	}
}
