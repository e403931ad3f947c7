package passes_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/afmark/pkg/transform/passes"
)

func TestAdmonitionsPass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "note with body paragraph",
			input: ">[!NOTE]\n>\n>This is note text.\n",
			want:  "<div class=\"Admonition note\" data-label=\"NOTE\">\n<div class=\"p\"></div>\n<div class=\"p\">This is note text.</div>\n</div>\n",
		},
		{
			name:  "text on the label line",
			input: ">[!TIP] Keep it short.\n",
			want:  "<div class=\"Admonition tip\" data-label=\"TIP\">\n<div class=\"p\">Keep it short.</div>\n</div>\n",
		},
		{
			name:  "related articles",
			input: ">[!MORELIKETHIS]\n>\n>- [One](one.md)\n",
			want: "<div class=\"Admonition morelikethis\" data-label=\"Related Articles\">\n" +
				"<div class=\"p\"></div>\n<ul>\n<li><a href=\"one.md\">One</a></li>\n</ul>\n</div>\n",
		},
		{
			name:  "plain blockquote keeps its tag",
			input: "> just a quote\n",
			want:  "<blockquote>\n<div class=\"p\">just a quote</div>\n</blockquote>\n",
		},
		{
			name:  "labels are case sensitive",
			input: ">[!note]\n",
			want:  "<blockquote>\n<div class=\"p\">[!note]</div>\n</blockquote>\n",
		},
		{
			name:  "nested quote keeps its own tag",
			input: ">[!NOTE]\n>\n>>inner\n",
			want: "<div class=\"Admonition note\" data-label=\"NOTE\">\n<div class=\"p\"></div>\n" +
				"<blockquote>\n<div class=\"p\">inner</div>\n</blockquote>\n</div>\n",
		},
		{
			name:  "video",
			input: ">[!VIDEO](https://video.tv/v/1)\n",
			want: "<div class=\"Admonition video\">\n" +
				"<video allowfullscreen=\"true\" controls=\"true\" height=\"250\" poster=\"/assets/img/video_slug.png\"" +
				" crossorigin=\"anonymous\" src=\"https://video.tv/v/1\"></video>\n</div>\n",
		},
		{
			name:  "paragraph outside quotes untouched",
			input: "[!NOTE] not in a quote\n",
			want:  "<p>[!NOTE] not in a quote</p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := renderWith(t, tt.input, passes.NewAdmonitionsPass())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdmonitionsPass_AllLabels(t *testing.T) {
	t.Parallel()

	labels := []string{
		"ADMINISTRATION", "ADMIN", "AVAILABILITY", "CAUTION", "ERROR", "IMPORTANT",
		"INFO", "NOTE", "PREREQUISITES", "SUCCESS", "TIP", "WARNING", "MORELIKETHIS",
	}

	for _, label := range labels {
		t.Run(label, func(t *testing.T) {
			t.Parallel()

			got := renderWith(t, ">[!"+label+"]\n>\n>body\n", passes.NewAdmonitionsPass())

			assert.Contains(t, got, `class="Admonition `+strings.ToLower(label)+`"`)
			assert.Contains(t, got, `<div class="p">body</div>`)
			assert.NotContains(t, got, "[!")
		})
	}
}
