package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Discover finds Markdown files matching opts. It returns sorted,
// deduplicated absolute paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	matcher, err := newMatcher(workDir, opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			if matcher.file(path) {
				add(path)
			}
			continue
		}

		found, err := matcher.walk(ctx, path)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	slices.Sort(files)
	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

// matcher applies the discovery filters of one Discover call.
type matcher struct {
	workDir        string
	extensions     []string
	skipDirs       []string
	include        []pattern
	exclude        []pattern
	followSymlinks bool
}

func newMatcher(workDir string, opts Options) (*matcher, error) {
	include, err := compilePatterns(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	exclude, err := compilePatterns(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	exts := make([]string, 0, len(opts.effectiveExtensions()))
	for _, ext := range opts.effectiveExtensions() {
		exts = append(exts, strings.ToLower(ext))
	}

	return &matcher{
		workDir:        workDir,
		extensions:     exts,
		skipDirs:       opts.effectiveSkipDirs(),
		include:        include,
		exclude:        exclude,
		followSymlinks: opts.FollowSymlinks,
	}, nil
}

func (m *matcher) rel(path string) string {
	rel, err := filepath.Rel(m.workDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// file reports whether a regular file should be rendered.
func (m *matcher) file(path string) bool {
	if !slices.Contains(m.extensions, strings.ToLower(filepath.Ext(path))) {
		return false
	}
	rel := m.rel(path)
	if matchAny(m.exclude, rel) {
		return false
	}
	return len(m.include) == 0 || matchAny(m.include, rel)
}

// skipDir reports whether a directory below the walk root is pruned.
func (m *matcher) skipDir(path, name string) bool {
	if strings.HasPrefix(name, ".") || slices.Contains(m.skipDirs, name) {
		return true
	}
	rel := m.rel(path)
	return matchAny(m.exclude, rel) || matchAny(m.exclude, rel+"/")
}

func (m *matcher) walk(ctx context.Context, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path != root && m.skipDir(path, entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped.
			}
			if info.IsDir() {
				if !m.followSymlinks || m.skipDir(path, entry.Name()) {
					return nil
				}
				// WalkDir does not follow the link itself, so walk the target.
				sub, err := m.walk(ctx, target)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}
		if m.file(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// pattern is a compiled ignore or include glob. "**" crosses directory
// separators and "*" does not.
type pattern struct {
	full     glob.Glob
	anywhere glob.Glob
	baseOnly bool
}

func compilePatterns(globs []string) ([]pattern, error) {
	patterns := make([]pattern, 0, len(globs))
	for _, raw := range globs {
		norm := filepath.ToSlash(raw)
		full, err := glob.Compile(norm, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", raw, err)
		}

		p := pattern{full: full, baseOnly: !strings.Contains(norm, "/")}
		if rest, ok := strings.CutPrefix(norm, "**/"); ok {
			p.anywhere, err = glob.Compile(rest, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid glob %q: %w", raw, err)
			}
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

func (p pattern) match(rel string) bool {
	if p.full.Match(rel) {
		return true
	}
	if p.anywhere != nil && p.anywhere.Match(rel) {
		return true
	}
	if !p.baseOnly {
		return false
	}
	rel = strings.TrimSuffix(rel, "/")
	return p.full.Match(rel[strings.LastIndex(rel, "/")+1:])
}

func matchAny(patterns []pattern, rel string) bool {
	for _, p := range patterns {
		if p.match(rel) {
			return true
		}
	}
	return false
}
