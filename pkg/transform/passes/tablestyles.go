package passes

import (
	"regexp"
	"strings"

	"github.com/yaklabco/afmark/pkg/token"
	"github.com/yaklabco/afmark/pkg/transform"
)

var (
	tableStylePattern = regexp.MustCompile(`\{style[^\}]*\}`)

	// imageEndPattern matches image syntax ending where an attribute
	// block would start. Those blocks belong to the images pass.
	imageEndPattern = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)$`)
)

// TableStylesPass drops {style ...} table formatting hints. A hint on
// the line after a table is parsed as an extra body row; that row is
// removed with it.
type TableStylesPass struct {
	transform.BasePass
}

// NewTableStylesPass creates the pass dropping {style ...} hints.
func NewTableStylesPass() *TableStylesPass {
	return &TableStylesPass{
		BasePass: transform.NewBasePass(
			"table-styles",
			"{style ...} table formatting hints are removed",
			transform.StageBlock,
			orderTableStyles,
		),
	}
}

// Apply strips every hint, then removes body rows that held nothing else.
func (p *TableStylesPass) Apply(state *transform.State) error {
	if err := transform.Check(state); err != nil {
		return err
	}

	hinted := make(map[*token.Token]bool)
	state.Tokens.EachInline(func(_ int, tok *token.Token) {
		if stripped, ok := stripTableStyles(tok.Content); ok {
			tok.Content = stripped
			hinted[tok] = true
		}
	})
	if len(hinted) > 0 {
		dropHintRows(state.Tokens, hinted)
	}
	return nil
}

// stripTableStyles removes every hint from content except those directly
// after an image. It reports whether anything was removed.
func stripTableStyles(content string) (string, bool) {
	var (
		sb   strings.Builder
		last int
	)
	for _, loc := range tableStylePattern.FindAllStringIndex(content, -1) {
		if imageEndPattern.MatchString(content[:loc[0]]) {
			continue
		}
		sb.WriteString(content[last:loc[0]])
		last = loc[1]
	}
	if last == 0 {
		return content, false
	}
	sb.WriteString(content[last:])
	return sb.String(), true
}

// dropHintRows removes table body rows whose cells are blank and held at
// least one hint. A tbody left without rows goes too.
func dropHintRows(s *token.Stream, hinted map[*token.Token]bool) {
	for i := 0; i < s.Len(); i++ {
		if !s.At(i).Is(token.TrOpen) {
			continue
		}
		end := s.MatchingClose(i)
		if end < 0 || !hintOnlyRow(s.Tokens()[i+1:end], hinted) {
			continue
		}

		s.Remove(i, end-i+1)
		if s.At(i-1).Is(token.TbodyOpen) && s.At(i).Is(token.TbodyClose) {
			s.Remove(i-1, 2)
			i--
		}
		i--
	}
}

func hintOnlyRow(row []*token.Token, hinted map[*token.Token]bool) bool {
	var hint bool
	for _, tok := range row {
		switch {
		case tok.Is(token.ThOpen):
			return false
		case tok.Is(token.Inline):
			if strings.TrimSpace(tok.Content) != "" {
				return false
			}
			hint = hint || hinted[tok]
		}
	}
	return hint
}
