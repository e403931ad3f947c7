package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/afmark/pkg/runner"
)

func makeTree(t *testing.T, files ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("# "+f+"\n"), 0o644))
	}
	return dir
}

func relPaths(t *testing.T, dir string, files []string) []string {
	t.Helper()

	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	tree := []string{
		"readme.md",
		"docs/guide.md",
		"docs/api.markdown",
		"docs/_includes/fragment.md",
		"help/_includes/snippets.md",
		"vendor/pkg/doc.md",
		"node_modules/lib/readme.md",
		"drafts/wip.md",
		".git/config.md",
		".hidden.md",
		"docs/.secret.md",
		"src/main.go",
		"notes.txt",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "defaults",
			want: []string{
				"docs/api.markdown", "docs/guide.md", "drafts/wip.md",
				"node_modules/lib/readme.md", "readme.md", "vendor/pkg/doc.md",
			},
		},
		{
			name: "exclude globs",
			opts: runner.Options{ExcludeGlobs: []string{"vendor/**", "**/node_modules", "drafts"}},
			want: []string{"docs/api.markdown", "docs/guide.md", "readme.md"},
		},
		{
			name: "exclude by file name",
			opts: runner.Options{ExcludeGlobs: []string{"*.markdown", "readme.md"}},
			want: []string{"docs/guide.md", "drafts/wip.md", "vendor/pkg/doc.md"},
		},
		{
			name: "include globs",
			opts: runner.Options{IncludeGlobs: []string{"docs/**"}},
			want: []string{"docs/api.markdown", "docs/guide.md"},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".TXT"}},
			want: []string{"notes.txt"},
		},
		{
			name: "include dirs opted in",
			opts: runner.Options{Paths: []string{"docs", "help"}, SkipDirs: []string{}},
			want: []string{"docs/_includes/fragment.md", "docs/api.markdown", "docs/guide.md", "help/_includes/snippets.md"},
		},
		{
			name: "explicit file is deduplicated",
			opts: runner.Options{Paths: []string{"readme.md", "./readme.md", "readme.md"}},
			want: []string{"readme.md"},
		},
	}

	dir := makeTree(t, tree...)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.WorkingDir = dir
			files, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relPaths(t, dir, files))
		})
	}
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, "a.md")

	_, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir, Paths: []string{"missing"}})
	require.Error(t, err)

	_, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, ExcludeGlobs: []string{"[a-"}})
	require.ErrorContains(t, err, "invalid glob")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Discover(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, "real/doc.md")
	external := makeTree(t, "external.md")
	if err := os.Symlink(external, filepath.Join(dir, "linked")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(dir, "real", "doc.md"), filepath.Join(dir, "alias.md")))

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"alias.md", "real/doc.md"}, relPaths(t, dir, files))

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Len(t, files, 3)
	assert.Contains(t, files, filepath.Join(external, "external.md"))
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{".md", ".markdown"}, runner.DefaultExtensions())
	assert.Equal(t, []string{"_includes"}, runner.DefaultSkipDirs())
}
