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
	beginTabsPattern = regexp.MustCompile(`\[!BEGINTABS\]`)
	tabPattern       = regexp.MustCompile(`\[!TAB\s+(.*)\]`)
	endTabsPattern   = regexp.MustCompile(`\[!ENDTABS\]`)
)

const (
	tabsOpen        = `<div class="sp-wrapper"><sp-tabs selected="1" size="l" direction="horizontal" dir="ltr" focusable="">`
	tabsClose       = `</sp-tabs></div>`
	tabPanelClose   = `</div></sp-tab-panel>`
	markerQuoteSize = 5
)

// TabsPass turns [!BEGINTABS] ... [!ENDTABS] groups into Spectrum tabs.
type TabsPass struct {
	transform.BasePass
}

// NewTabsPass creates the tabs pass.
func NewTabsPass() *TabsPass {
	return &TabsPass{
		BasePass: transform.NewBasePass(
			"tabs",
			"Blockquote markers [!BEGINTABS], [!TAB label] and [!ENDTABS] build a tab group",
			transform.StageBlock,
			orderTabs,
		),
	}
}

// tabSection is one [!TAB] marker and the tokens up to the next marker.
type tabSection struct {
	label string
	body  []*token.Token
}

// Apply rewrites every complete tab group. A BEGIN marker without a later
// END marker is left alone.
func (p *TabsPass) Apply(state *transform.State) error {
	if err := transform.Check(state); err != nil {
		return err
	}

	s := state.Tokens
	for i := 0; i < s.Len(); i++ {
		inline, ok := markerQuote(s, i)
		if !ok || !beginTabsPattern.MatchString(inline.Content) {
			continue
		}

		level := s.At(i).Level
		end := findMarker(s, i+markerQuoteSize, level, endTabsPattern)
		if end < 0 {
			state.Log().Debug("tab group without [!ENDTABS] left as is")
			continue
		}

		repl := buildTabs(s, i+markerQuoteSize, end, level)
		s.Splice(i, end+markerQuoteSize-i, repl...)
		i += len(repl) - 1
	}
	return nil
}

// findMarker returns the index of the first marker quote at level,
// starting at from, whose content matches pattern.
func findMarker(s *token.Stream, from, level int, pattern *regexp.Regexp) int {
	for j := from; j < s.Len(); j++ {
		if s.At(j).Level != level {
			continue
		}
		if inline, ok := markerQuote(s, j); ok && pattern.MatchString(inline.Content) {
			return j
		}
	}
	return -1
}

// buildTabs renders the tokens between the BEGIN marker and the END
// marker at end into the tab group markup. Headers follow the wrapper
// directly so they always precede their panels.
func buildTabs(s *token.Stream, from, end, level int) []*token.Token {
	var (
		lead     []*token.Token
		sections []*tabSection
		current  *tabSection
	)

	for j := from; j < end; j++ {
		if s.At(j).Level == level {
			if inline, ok := markerQuote(s, j); ok {
				if m := tabPattern.FindStringSubmatch(inline.Content); m != nil {
					current = &tabSection{label: strings.TrimSpace(m[1])}
					sections = append(sections, current)
					j += markerQuoteSize - 1
					continue
				}
			}
		}
		if current == nil {
			lead = append(lead, s.At(j))
		} else {
			current.body = append(current.body, s.At(j))
		}
	}

	out := make([]*token.Token, 0, end-from+2*len(sections)+2)
	out = append(out, htmlBlock(tabsOpen, level))
	for n, sec := range sections {
		out = append(out, htmlBlock(tabHeader(n+1, sec.label), level))
	}
	out = append(out, lead...)
	for n, sec := range sections {
		out = append(out, htmlBlock(tabPanelOpen(n+1), level))
		out = append(out, sec.body...)
		out = append(out, htmlBlock(tabPanelClose, level))
	}
	out = append(out, htmlBlock(tabsClose, level))
	return out
}

func tabHeader(n int, label string) string {
	return fmt.Sprintf(
		`<sp-tab label="%s" value="%d" dir="ltr" role="tab" id="sp-tab-%d" aria-selected="true" tabindex="-1" aria-controls="sp-tab-panel-%d" selected=""></sp-tab>`,
		render.EscapeHTML(label), n, n, n,
	)
}

func tabPanelOpen(n int) string {
	return fmt.Sprintf(
		`<sp-tab-panel value="%d" dir="ltr" slot="tab-panel" role="tabpanel" tabindex="-1" id="sp-tab-panel-%d" aria-labelledby="sp-tab-%d" aria-hidden="true"><div style="display:block !important">`,
		n, n, n,
	)
}
