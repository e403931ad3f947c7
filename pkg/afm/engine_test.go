package afm_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/afmark/pkg/afm"
	"github.com/yaklabco/afmark/pkg/htmlcheck"
	"github.com/yaklabco/afmark/pkg/transform"
)

func newEngine(t *testing.T, opts ...afm.Option) *afm.Engine {
	t.Helper()

	engine, err := afm.New(opts...)
	require.NoError(t, err)
	return engine
}

func renderString(t *testing.T, engine *afm.Engine, src string, opts afm.RenderOptions) string {
	t.Helper()

	html, err := engine.RenderString(context.Background(), src, opts)
	require.NoError(t, err)
	return html
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestEngine_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "note admonition",
			input: ">[!NOTE]\n>\n>This is note text.\n",
			want:  "<div class=\"Admonition note\" data-label=\"NOTE\">\n<div class=\"p\"></div>\n<div class=\"p\">This is note text.</div>\n</div>\n",
		},
		{
			name:  "link target",
			input: "[Link](http://example.com){target=_blank}\n",
			want:  "<p><a href=\"http://example.com\" target=\"_blank\">Link</a></p>\n",
		},
		{
			name:  "header anchor",
			input: "# Header {#my-id}\n",
			want:  "<h1 id=\"my-id\">Header</h1>\n",
		},
		{
			name:  "dnl and uicontrol",
			input: "[!DNL Foo Bar] [!UICONTROL Foo Bar]\n",
			want:  "<p>Foo Bar Foo Bar</p>\n",
		},
		{
			name:  "shadebox",
			input: ">[!BEGINSHADEBOX \"title\"]\n>\n>This is some content in the shadebox.\n>\n>[!ENDSHADEBOX]\n",
			want:  "<div class=\"sp-wrapper\"><p><strong>title</strong></p><p>This is some content in the shadebox.</p>\n</div>",
		},
		{
			name:  "admonition inside a tab",
			input: ">[!BEGINTABS]\n\n>[!TAB One]\n\n>[!TIP]\n>\n>Tip text.\n\n>[!ENDTABS]\n",
			want: `<div class="sp-wrapper"><sp-tabs selected="1" size="l" direction="horizontal" dir="ltr" focusable="">` +
				`<sp-tab label="One" value="1" dir="ltr" role="tab" id="sp-tab-1" aria-selected="true" tabindex="-1" aria-controls="sp-tab-panel-1" selected=""></sp-tab>` +
				`<sp-tab-panel value="1" dir="ltr" slot="tab-panel" role="tabpanel" tabindex="-1" id="sp-tab-panel-1" aria-labelledby="sp-tab-1" aria-hidden="true"><div style="display:block !important">` +
				"<div class=\"Admonition tip\" data-label=\"TIP\">\n<div class=\"p\"></div>\n<div class=\"p\">Tip text.</div>\n</div>\n" +
				`</div></sp-tab-panel></sp-tabs></div>`,
		},
		{
			name:  "image attributes",
			input: "![Logo](logo.png){align=center}\n",
			want:  "<p><img src=\"logo.png\" alt=\"Logo\" style=\"display: block; margin-left: auto; margin-right: auto;\"></p>\n",
		},
		{
			name:  "collapsible with badge",
			input: "+++ More\nStatus [!BADGE Beta]\n+++\n",
			want: "<details>\n<summary>More</summary><p>Status <span class=\"sp-badge-wrapper\"><sp-badge size=\"s\" variant=\"informative\" dir=\"ltr\"" +
				" style=\"cursor:inherit !important;\">Beta</sp-badge></span></p>\n</details>\n",
		},
	}

	engine := newEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, renderString(t, engine, tt.input, afm.RenderOptions{}))
		})
	}
}

func TestEngine_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := map[string]string{
		"admonition": ">[!WARNING]\n>\n>Careful.\n",
		"tabs":       ">[!BEGINTABS]\n\n>[!TAB A]\n\nBody.\n\n>[!ENDTABS]\n",
		"shadebox":   ">[!BEGINSHADEBOX \"t\"]\n>\n>Body\n>\n>[!ENDSHADEBOX]\n",
		"heading":    "# Header {#my-id}\n",
		"link":       "[Link](http://example.com){target=_blank}\n",
	}

	engine := newEngine(t)
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			once := renderString(t, engine, input, afm.RenderOptions{})
			twice := renderString(t, engine, once, afm.RenderOptions{})
			assert.Equal(t, once, twice)
		})
	}
}

func TestEngine_TabWiring(t *testing.T) {
	t.Parallel()

	input := ">[!BEGINTABS]\n\n>[!TAB One]\n\nFirst.\n\n>[!TAB Two]\n\nSecond.\n\n>[!TAB Three]\n\nThird.\n\n>[!ENDTABS]\n"
	out := renderString(t, newEngine(t), input, afm.RenderOptions{})

	assert.Empty(t, htmlcheck.Balance(out))

	tabs, err := htmlcheck.Query(out, "sp-tabs > sp-tab")
	require.NoError(t, err)
	require.Len(t, tabs, 3)

	for i, tab := range tabs {
		label, _ := htmlcheck.Attr(tab, "label")
		assert.Equal(t, []string{"One", "Two", "Three"}[i], label)

		controls, ok := htmlcheck.Attr(tab, "aria-controls")
		require.True(t, ok)
		panels, err := htmlcheck.Query(out, "sp-tab-panel#"+controls)
		require.NoError(t, err)
		require.Len(t, panels, 1, "tab %q controls %q", label, controls)

		labelledBy, _ := htmlcheck.Attr(panels[0], "aria-labelledby")
		id, _ := htmlcheck.Attr(tab, "id")
		assert.Equal(t, id, labelledBy)
	}
}

func TestEngine_MixedDocument(t *testing.T) {
	t.Parallel()

	input := "# Mixed {#mixed}\n\n>[!NOTE]\n>\n>A note.\n\n" +
		">[!BEGINTABS]\n\n>[!TAB One]\n\nFirst tab.\n\n>[!TAB Two]\n\nSecond tab.\n\n>[!ENDTABS]\n\n" +
		"Press [!UICONTROL Save] when [!DNL afmark] is done.\n"
	out := renderString(t, newEngine(t), input, afm.RenderOptions{})

	assert.Empty(t, htmlcheck.Balance(out))
	assert.Contains(t, out, "<sp-tabs")
	assert.Contains(t, out, `aria-controls="sp-tab-panel-2"`)
	assert.Contains(t, out, `class="Admonition note"`)

	tabs, err := htmlcheck.Query(out, "sp-tabs > sp-tab")
	require.NoError(t, err)
	assert.Len(t, tabs, 2)
}

func TestEngine_AdmonitionLabels(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	for _, label := range []string{"NOTE", "TIP", "IMPORTANT", "CAUTION", "WARNING", "ERROR", "SUCCESS", "INFO", "ADMINISTRATION", "AVAILABILITY", "PREREQUISITES", "MORELIKETHIS"} {
		t.Run(label, func(t *testing.T) {
			t.Parallel()

			out := renderString(t, engine, ">[!"+label+"]\n>\n>Body.\n", afm.RenderOptions{})

			nodes, err := htmlcheck.Query(out, "div.Admonition."+strings.ToLower(label))
			require.NoError(t, err)
			require.Len(t, nodes, 1, out)

			dataLabel, _ := htmlcheck.Attr(nodes[0], "data-label")
			if label == "MORELIKETHIS" {
				assert.Equal(t, "Related Articles", dataLabel)
			} else {
				assert.Equal(t, label, dataLabel)
			}
			assert.Contains(t, htmlcheck.Text(nodes[0]), "Body.")
		})
	}
}

func TestEngine_Includes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"shared/intro.md": "Shared **intro**.\n",
		"a.md":            "{{$include a.md}}\n",
	})

	engine := newEngine(t)

	t.Run("included file", func(t *testing.T) {
		got := renderString(t, engine, "{{$include shared/intro.md}}\n", afm.RenderOptions{Root: root})
		assert.Equal(t, "<p>Shared <strong>intro</strong>.</p>\n", got)
	})

	t.Run("missing file", func(t *testing.T) {
		got := renderString(t, engine, "{{$include missing.md}}\n", afm.RenderOptions{Root: root})
		assert.Contains(t, got, "File '"+filepath.Join(root, "missing.md")+"' not found.")
	})

	t.Run("self reference", func(t *testing.T) {
		src, err := os.ReadFile(filepath.Join(root, "a.md"))
		require.NoError(t, err)

		got := renderString(t, engine, string(src), afm.RenderOptions{Root: root, Path: filepath.Join(root, "a.md")})
		assert.Contains(t, got, "Circular reference between")
	})

	t.Run("no root skips preprocessing", func(t *testing.T) {
		got := renderString(t, engine, "{{$include missing.md}}\n", afm.RenderOptions{})
		assert.Equal(t, "<p>{{$include missing.md}}</p>\n", got)
	})
}

func TestEngine_FrontMatter(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	src := "---\ntitle: Guide\nbadge: label=\"Beta\" type=Positive\n---\n# Guide\n"

	res, err := engine.Render(context.Background(), []byte(src), afm.RenderOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Guide", res.FrontMatter["title"])
	assert.True(t, strings.HasPrefix(res.HTML, `<span class="sp-badge-wrapper"><sp-badge size="s" variant="positive"`))
	assert.True(t, strings.HasSuffix(res.HTML, "<h1>Guide</h1>\n"))
	assert.NotContains(t, res.HTML, "title: Guide")
}

func TestEngine_InvalidFrontMatter(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	res, err := engine.Render(context.Background(), []byte("---\n: [\n---\nBody\n"), afm.RenderOptions{})
	require.NoError(t, err)

	assert.Nil(t, res.FrontMatter)
	assert.Equal(t, "<p>Body</p>\n", res.HTML)
}

func TestEngine_PassOverrides(t *testing.T) {
	t.Parallel()

	t.Run("disable", func(t *testing.T) {
		engine := newEngine(t, afm.WithPasses(map[string]bool{"dnl": false}))
		assert.False(t, engine.Chain().Enabled("dnl"))

		got := renderString(t, engine, "[!DNL Foo]\n", afm.RenderOptions{})
		assert.Equal(t, "<p>[!DNL Foo]</p>\n", got)
	})

	t.Run("enable opt-in", func(t *testing.T) {
		engine := newEngine(t, afm.WithPasses(map[string]bool{"single-newline": true}))

		got := renderString(t, engine, "a\nb\n", afm.RenderOptions{})
		assert.Equal(t, "<p>a<br/>b</p>\n", got)
	})

	t.Run("unknown pass", func(t *testing.T) {
		_, err := afm.New(afm.WithPasses(map[string]bool{"nope": true}))
		require.ErrorIs(t, err, transform.ErrUnknownPass)
	})
}

func TestEngine_Errors(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)

	_, err := engine.Render(context.Background(), nil, afm.RenderOptions{})
	require.ErrorIs(t, err, afm.ErrNilInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Render(ctx, []byte("# x\n"), afm.RenderOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Concurrent(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	src := ">[!NOTE]\n>\n>Body [!DNL Foo].\n"
	want := renderString(t, engine, src, afm.RenderOptions{})

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			html, err := engine.RenderString(context.Background(), src, afm.RenderOptions{})
			if err == nil {
				results[i] = html
			}
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func BenchmarkEngine_Render(b *testing.B) {
	engine, err := afm.New()
	require.NoError(b, err)

	src := []byte(strings.Repeat(
		">[!NOTE]\n>\n>Note text with [!UICONTROL Save].\n\n"+
			">[!BEGINTABS]\n\n>[!TAB One]\n\nFirst.\n\n>[!TAB Two]\n\nSecond.\n\n>[!ENDTABS]\n\n"+
			"# Section {#section}\n\n[Link](http://example.com){target=_blank}\n\n", 20))

	b.ReportAllocs()
	for b.Loop() {
		if _, err := engine.Render(context.Background(), src, afm.RenderOptions{}); err != nil {
			b.Fatal(err)
		}
	}
}
