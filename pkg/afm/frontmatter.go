package afm

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const frontMatterFence = "---"

// SplitFrontMatter separates a leading YAML front matter block from the
// Markdown body. The block opens with a "---" line on the first line and
// closes with the next "---" line. Without a complete block, fm is nil
// and body is src.
func SplitFrontMatter(src []byte) (fm, body []byte) {
	first, rest, ok := cutLine(src)
	if !ok || string(bytes.TrimRight(first, " \t\r")) != frontMatterFence {
		return nil, src
	}

	offset := len(src) - len(rest)
	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		if string(bytes.TrimRight(line, " \t\r")) == frontMatterFence {
			end := len(src) - len(rest)
			return src[offset:end], next
		}
		rest = next
	}
	return nil, src
}

// ParseFrontMatter decodes a front matter block into a map. An empty
// block yields an empty map.
func ParseFrontMatter(fm []byte) (map[string]any, error) {
	out := make(map[string]any)
	if len(bytes.TrimSpace(fm)) == 0 {
		return out, nil
	}
	if err := yaml.Unmarshal(fm, &out); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	return out, nil
}

// cutLine splits off the first line, without its newline. ok is false
// when src has no newline.
func cutLine(src []byte) (line, rest []byte, ok bool) {
	i := bytes.IndexByte(src, '\n')
	if i < 0 {
		return src, nil, false
	}
	return src[:i], src[i+1:], true
}
