package preprocess

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/afmark/internal/logging"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestProcess_MissingIncludeRelativeRoot(t *testing.T) {
	t.Chdir(t.TempDir())

	got := New(".").Process(context.Background(), "before\n{{$include missing.md}}\nafter\n")

	assert.Equal(t, "before\n\n\n# INCLUDE ERROR: File 'missing.md' not found.\n\n\nafter\n", got)
}

func TestProcess_Includes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
		src   string
		want  func(root string) string
	}{
		{
			name:  "inline include strips one newline",
			files: map[string]string{"a.md": "Hello\n"},
			src:   "x {{$include a.md}} y",
			want:  func(string) string { return "x Hello y" },
		},
		{
			name:  "double newline keeps a paragraph break",
			files: map[string]string{"a.md": "Hello\n\n"},
			src:   "{{$include a.md}}\nnext",
			want:  func(string) string { return "Hello\n\nnext" },
		},
		{
			name:  "case insensitive directive with padding",
			files: map[string]string{"a.md": "A"},
			src:   "{{$INCLUDE   a.md }}",
			want:  func(string) string { return "A" },
		},
		{
			name: "nested include resolves against including file",
			files: map[string]string{
				"sub/b.md": "B[{{$include c.md}}]\n",
				"sub/c.md": "C\n",
			},
			src:  "{{$include sub/b.md}}",
			want: func(string) string { return "B[C]" },
		},
		{
			name:  "several directives in one document",
			files: map[string]string{"a.md": "A\n", "b.md": "B\n"},
			src:   "{{$include a.md}}-{{$include b.md}}",
			want:  func(string) string { return "A-B" },
		},
		{
			name:  "self include is circular",
			files: map[string]string{"a.md": "top {{$include a.md}}\n"},
			src:   "{{$include a.md}}",
			want: func(root string) string {
				a := filepath.Join(root, "a.md")
				return "top \n\n# INCLUDE ERROR: Circular reference between '" + a + "' and '" + a + "'.\n\n"
			},
		},
		{
			name: "mutual include is circular",
			files: map[string]string{
				"a.md": "A {{$include b.md}}",
				"b.md": "B {{$include a.md}}",
			},
			src: "{{$include a.md}}",
			want: func(root string) string {
				a, b := filepath.Join(root, "a.md"), filepath.Join(root, "b.md")
				return "A B \n\n# INCLUDE ERROR: Circular reference between '" + a + "' and '" + b + "'."
			},
		},
		{
			name:  "siblings may include the same file",
			files: map[string]string{"a.md": "A", "b.md": "{{$include a.md}}{{$include a.md}}"},
			src:   "{{$include b.md}}",
			want:  func(string) string { return "AA" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			writeFiles(t, root, tt.files)

			got := New(root).Process(context.Background(), tt.src)
			assert.Equal(t, tt.want(root), got)
		})
	}
}

func TestProcessDocument_SelfReference(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	doc := filepath.Join(root, "doc.md")
	writeFiles(t, root, map[string]string{"doc.md": "{{$include doc.md}}"})

	got := New(root).ProcessDocument(context.Background(), "{{$include doc.md}}", doc)
	assert.Equal(t, "\n\n# INCLUDE ERROR: Circular reference between '"+doc+"' and '"+doc+"'.\n\n", got)
}

func TestProcess_UnknownParent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.md": "A"})
	a := filepath.Join(root, "a.md")

	p := New(root)
	got := p.resolveInclude(context.Background(), a, "", []string{absPath(a)}, 0)
	assert.Contains(t, got, "Circular reference between '"+a+"' and '**UNKNOWN**'.")
}

func TestProcess_DepthLimit(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"f0.md": "0{{$include f1.md}}",
		"f1.md": "1{{$include f2.md}}",
		"f2.md": "2",
	})

	p := New(root)
	p.MaxDepth = 2
	got := p.Process(context.Background(), "{{$include f0.md}}")
	assert.Equal(t, "01\n\n# INCLUDE ERROR: Include depth limit (2) exceeded at '"+filepath.Join(root, "f2.md")+"'.", got)

	p.MaxDepth = 0
	assert.Equal(t, "012", p.Process(context.Background(), "{{$include f0.md}}"))
}

func TestProcess_IncludeDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir"), 0o755))

	got := New(root).Process(context.Background(), "{{$include dir}}")
	assert.Contains(t, got, "# INCLUDE ERROR: Unable to read '"+filepath.Join(root, "dir")+"'")
}

func TestProcess_EmptyRoot(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := New("")
	p.Logger = logging.NewWriter(&buf, "warn")

	src := "{{$include a.md}} {{note}}"
	assert.Equal(t, src, p.Process(context.Background(), src))
	assert.Contains(t, buf.String(), "no root directory configured")
}

const snippetsFixture = `# Snippets

## Premium {#premium-note}

  This is premium.
Second line.

## Other title {#other}
Other body
`

func TestParseSnippets(t *testing.T) {
	t.Parallel()

	snippets := ParseSnippets(snippetsFixture)
	require.Len(t, snippets, 2)

	assert.Equal(t, "Premium ", snippets["premium-note"].Title)
	assert.Equal(t, "This is premium.\nSecond line.\n", snippets["premium-note"].Body)
	assert.Equal(t, "Other body\n", snippets["other"].Body)
}

func TestProcess_Snippets(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		DefaultSnippetsFile: snippetsFixture,
		"inc.md":            "{{other}}",
	})

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"known snippet", "{{premium-note}}", "This is premium.\nSecond line.\n"},
		{"padded name", "a {{ other }} b", "a Other body\n b"},
		{"missing snippet", "{{nope}}", "*** ERROR: Snippet nope not found. ***"},
		{"snippet inside include", "{{$include inc.md}}", "Other body\n"},
		{"prose before code split from snippet", "{{other}} see `code`", "Other body\n\n\nsee`code`"},
	}

	p := New(root)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, p.Process(context.Background(), tt.src))
		})
	}
}

func TestProcess_NoSnippetsFile(t *testing.T) {
	t.Parallel()

	got := New(t.TempDir()).Process(context.Background(), "{{x}}")
	assert.Equal(t, "*** ERROR: Snippet x not found. ***", got)
}

func TestCleanupSnippetCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"no directive", "text `code`", "text `code`"},
		{"adjacent code untouched", "{{a\nb}} `code`", "{{a\nb}} `code`"},
		{"prose split into paragraph", "{{a\nb}}  some text `code`", "{{a\nb}}\n\nsome text`code`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cleanupSnippetCode(tt.src))
		})
	}
}

func TestProcess_CancelledLeavesRemainder(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := New(t.TempDir()).Process(ctx, "{{$include a.md}}")
	assert.True(t, strings.HasPrefix(got, "*** ERROR: Snippet $include a.md not found"), got)
}
