package goldmark

import (
	"sort"

	"github.com/yuin/goldmark/ast"
)

// lineIndex maps byte offsets to 0-based line numbers.
type lineIndex struct {
	// starts holds the byte offset at which each line begins.
	starts []int
}

func newLineIndex(content []byte) *lineIndex {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

// line returns the 0-based line containing offset.
func (li *lineIndex) line(offset int) int {
	idx := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	})
	return max(idx-1, 0)
}

// blockMap returns the half-open line range covered by a block node,
// derived from its own lines or those of its block descendants.
func (li *lineIndex) blockMap(node ast.Node) *[2]int {
	start, stop, ok := blockSpan(node)
	if !ok {
		return nil
	}
	return &[2]int{li.line(start), li.line(max(stop-1, start)) + 1}
}

// blockSpan finds the first and last source bytes of a block node.
// Inline nodes are skipped; calling Lines on them panics.
func blockSpan(node ast.Node) (int, int, bool) {
	if node.Type() == ast.TypeInline {
		return 0, 0, false
	}

	start, stop, found := 0, 0, false
	if lines := node.Lines(); lines != nil && lines.Len() > 0 {
		start = lines.At(0).Start
		stop = lines.At(lines.Len() - 1).Stop
		found = true
	}

	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		cs, ce, ok := blockSpan(child)
		if !ok {
			continue
		}
		if !found || cs < start {
			start = cs
		}
		if !found || ce > stop {
			stop = ce
		}
		found = true
	}

	return start, stop, found
}
