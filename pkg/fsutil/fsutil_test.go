package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/afmark/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n"), 0o644))

	tests := []struct {
		name    string
		ctx     func() context.Context
		path    string
		want    string
		wantErr error
	}{
		{
			name: "reads content",
			ctx:  context.Background,
			path: path,
			want: "# Title\n",
		},
		{
			name:    "missing file",
			ctx:     context.Background,
			path:    filepath.Join(dir, "missing.md"),
			wantErr: fsutil.ErrNotFound,
		},
		{
			name:    "directory",
			ctx:     context.Background,
			path:    dir,
			wantErr: fsutil.ErrIsDirectory,
		},
		{
			name: "cancelled context",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			path:    path,
			wantErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fsutil.ReadFile(tt.ctx(), tt.path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.True(t, fsutil.Exists(dir))
	assert.False(t, fsutil.Exists(filepath.Join(dir, "nope")))
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		src    string
		base   string
		outDir string
		ext    string
		want   string
	}{
		{"beside source", "docs/a.md", "", "", "", "docs/a.html"},
		{"custom extension without dot", "docs/a.markdown", "", "", "htm", "docs/a.htm"},
		{"mirrored under out dir", "docs/guide/a.md", "docs", "site", ".html", filepath.Join("site", "guide", "a.html")},
		{"outside base falls back to name", "other/a.md", "docs", "site", "", filepath.Join("site", "a.html")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fsutil.OutputPath(tt.src, tt.base, tt.outDir, tt.ext))
		})
	}
}
