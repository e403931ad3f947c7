package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/afmark/pkg/transform/passes"
)

func TestCollapsiblePass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "one paragraph",
			input: "+++ Details\nHidden text\n+++\n",
			want:  "<details>\n<summary>Details</summary><p>Hidden text</p>\n</details>\n",
		},
		{
			name:  "closer in its own paragraph",
			input: "+++ Title\n\nBody one.\n\n+++\n",
			want:  "<details>\n<summary>Title</summary><p>Body one.</p>\n</details>\n",
		},
		{
			name:  "closer at the end of a body paragraph",
			input: "+++ Title\n\nBody one.\n+++\n",
			want:  "<details>\n<summary>Title</summary><p>Body one.</p>\n</details>\n",
		},
		{
			name:  "text after the closer",
			input: "+++ Title\n\nBody.\n\n+++\nAfter.\n",
			want:  "<details>\n<summary>Title</summary><p>Body.</p>\n</details>\n<p>After.</p>\n",
		},
		{
			name:  "nested sections",
			input: "+++ Outer\n\n+++ Inner\n\ntext\n\n+++\n\n+++\n",
			want: "<details>\n<summary>Outer</summary><details>\n<summary>Inner</summary><p>text</p>\n" +
				"</details>\n</details>\n",
		},
		{
			name:  "unclosed at end of document",
			input: "+++ Title\n\nBody\n",
			want:  "<details>\n<summary>Title</summary><p>Body</p>\n</details>\n",
		},
		{
			name:  "unclosed inside a blockquote",
			input: "> +++ Title\n> body\n\nafter\n",
			want:  "<blockquote>\n<details>\n<summary>Title</summary><p>body</p>\n</details>\n</blockquote>\n<p>after</p>\n",
		},
		{
			name:  "stray closer",
			input: "+++\n",
			want:  "<p>+++</p>\n",
		},
		{
			name:  "title escaped",
			input: "+++ <Setup> & run\n+++\n",
			want:  "<details>\n<summary>&lt;Setup&gt; &amp; run</summary></details>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := renderWith(t, tt.input, passes.NewCollapsiblePass())
			assert.Equal(t, tt.want, got)
		})
	}
}
