package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/afmark/internal/cli"
	"github.com/yaklabco/afmark/pkg/config"
	"github.com/yaklabco/afmark/pkg/reporter"
)

const noteMarkdown = ">[!NOTE]\n>\n>This is note text.\n"

const noteHTML = "<div class=\"Admonition note\" data-label=\"NOTE\">\n<div class=\"p\"></div>\n<div class=\"p\">This is note text.</div>\n</div>\n"

// workspace creates an isolated project directory, makes it the working
// directory and hides user-level configuration. Tests using it cannot run
// in parallel.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(dir)
	return dir
}

type execution struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) execution {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--color", "never"}, args...))

	err := cmd.Execute()
	return execution{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestIntegration_RenderStdin(t *testing.T) {
	workspace(t, nil)

	res := execute(t, noteMarkdown, "render")
	require.NoError(t, res.err)

	assert.True(t, strings.HasPrefix(res.stdout, `<sp-theme id="markdown-spectrum"`), res.stdout)
	assert.True(t, strings.HasSuffix(res.stdout, noteHTML), res.stdout)
}

func TestIntegration_RenderStdinDash(t *testing.T) {
	workspace(t, nil)

	res := execute(t, "# Title {#top}\n", "render", "--standalone", "-")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "<!DOCTYPE html>")
	assert.Contains(t, res.stdout, `<h1 id="top">Title</h1>`)
}

func TestIntegration_RenderStdinIncludes(t *testing.T) {
	dir := workspace(t, map[string]string{
		"parts/intro.md": "Included text.\n",
	})

	res := execute(t, "{{$include parts/intro.md}}\n", "render")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "<p>Included text.</p>")

	res = execute(t, "{{$include parts/missing.md}}\n", "render")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "INCLUDE ERROR: File '"+filepath.Join(dir, "parts", "missing.md")+"' not found.")
}

func TestIntegration_RenderFiles(t *testing.T) {
	dir := workspace(t, map[string]string{
		"docs/guide.md":             noteMarkdown,
		"docs/_includes/snippet.md": "fragment\n",
	})

	res := execute(t, "", "render", "docs", "--out-dir", "site")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stderr, "1 file rendered, 1 written")

	out, err := os.ReadFile(filepath.Join(dir, "site", "docs", "guide.html"))
	require.NoError(t, err)
	assert.Contains(t, string(out), noteHTML)
	assert.NoFileExists(t, filepath.Join(dir, "site", "docs", "_includes", "snippet.html"))

	res = execute(t, "", "render", "docs", "--out-dir", "site")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "1 unchanged")
}

func TestIntegration_RenderPassFlags(t *testing.T) {
	workspace(t, nil)

	res := execute(t, "[!DNL Foo]\n", "render", "--disable-pass", "dnl")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "[!DNL Foo]")

	res = execute(t, "a\nb\n", "render", "--enable-pass", "single-newline")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "a<br/>b")

	res = execute(t, "x\n", "render", "--disable-pass", "sparkles")
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(res.err))
}

func TestIntegration_RenderVerify(t *testing.T) {
	workspace(t, nil)

	res := execute(t, "<div>\n\nopen\n", "render", "--verify")
	require.ErrorIs(t, res.err, cli.ErrRenderProblems)
	assert.Equal(t, cli.ExitRenderProblems, cli.ExitCode(res.err))
	assert.Contains(t, res.stderr, "<stdin>:2  warning  <div> is never closed")
}

func TestIntegration_ProjectConfig(t *testing.T) {
	workspace(t, map[string]string{
		".afmark.toml": "[passes]\ndnl = false\n\n[page]\nstandalone = true\ntitle = \"Docs\"\n",
	})

	res := execute(t, "[!DNL Foo]\n", "render")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "<title>Docs</title>")
	assert.Contains(t, res.stdout, "[!DNL Foo]")

	res = execute(t, "[!DNL Foo]\n", "render", "--standalone=false")
	require.NoError(t, res.err)
	assert.NotContains(t, res.stdout, "<!DOCTYPE html>")
}

func TestIntegration_ExplicitConfig(t *testing.T) {
	dir := workspace(t, nil)
	cfgPath := filepath.Join(dir, "ci.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("flavor: gfm\n"), 0o644))

	res := execute(t, "x\n", "--config", cfgPath, "render")
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(res.err))
	assert.Contains(t, res.err.Error(), "invalid flavor")
}

func TestIntegration_Check(t *testing.T) {
	dir := workspace(t, map[string]string{
		"ok.md":     noteMarkdown,
		"broken.md": "<div>\n\nopen\n",
	})

	res := execute(t, "", "check")
	require.ErrorIs(t, res.err, cli.ErrRenderProblems)
	assert.Contains(t, res.stdout, "broken.md:")
	assert.Contains(t, res.stdout, "<div> is never closed")
	assert.Contains(t, res.stdout, "Files rendered:    2")
	assert.Contains(t, res.stdout, "Rendered with balance issues")
	assert.NoFileExists(t, filepath.Join(dir, "ok.html"), "check never writes")

	res = execute(t, "", "check", "ok.md")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Render succeeded")
}

func TestIntegration_CheckFormats(t *testing.T) {
	workspace(t, map[string]string{
		"docs/broken.md": "<div>\n\nopen\n",
	})

	res := execute(t, "", "check", "--format", "json")
	require.ErrorIs(t, res.err, cli.ErrRenderProblems)

	var report reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	require.Len(t, report.Files, 1)
	assert.Equal(t, "docs/broken.md", report.Files[0].Path)
	require.Len(t, report.Files[0].Issues, 1)
	assert.Equal(t, "unclosed-element", report.Files[0].Issues[0].RuleID)
	assert.Equal(t, 1, report.Summary.TotalIssues)

	res = execute(t, "", "check", "--format", "sarif")
	require.ErrorIs(t, res.err, cli.ErrRenderProblems)

	var sarif reporter.SARIFOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &sarif))
	require.Len(t, sarif.Runs, 1)
	assert.Equal(t, "test-version", sarif.Runs[0].Tool.Driver.Version)
	require.Len(t, sarif.Runs[0].Results, 1)

	res = execute(t, "", "check", "--format", "xml")
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(res.err))
}

func TestIntegration_Passes(t *testing.T) {
	workspace(t, map[string]string{".afmark.yml": "passes:\n  tabs: false\n"})

	res := execute(t, "", "passes")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "PASS")
	assert.Contains(t, res.stdout, "admonitions")
	assert.Less(t, strings.Index(res.stdout, "shadebox"), strings.Index(res.stdout, "images"))

	res = execute(t, "", "passes", "--format", "json")
	require.NoError(t, res.err)

	var infos []struct {
		Name    string `json:"name"`
		Stage   string `json:"stage"`
		Order   int    `json:"order"`
		Enabled bool   `json:"enabled"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &infos))
	require.NotEmpty(t, infos)

	byName := make(map[string]bool, len(infos))
	for _, info := range infos {
		byName[info.Name] = info.Enabled
	}
	assert.False(t, byName["tabs"], "config disables tabs")
	assert.False(t, byName["single-newline"], "off by default")
	assert.True(t, byName["admonitions"])
	assert.Equal(t, "images", infos[len(infos)-1].Name)
	assert.Equal(t, "inline", infos[len(infos)-1].Stage)

	res = execute(t, "", "passes", "--format", "xml")
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(res.err))
}

func TestIntegration_Init(t *testing.T) {
	dir := workspace(t, nil)

	res := execute(t, "", "init")
	require.NoError(t, res.err)

	data, err := os.ReadFile(filepath.Join(dir, ".afmark.yml"))
	require.NoError(t, err)
	cfg, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, config.FlavorAFM, cfg.Flavor)
	assert.Contains(t, cfg.Passes, "admonitions")
	assert.False(t, cfg.Passes["single-newline"])

	res = execute(t, "", "init")
	require.Error(t, res.err, "refuses to overwrite")
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(res.err))

	res = execute(t, "", "init", "--format", "toml")
	require.NoError(t, res.err)
	data, err = os.ReadFile(filepath.Join(dir, ".afmark.toml"))
	require.NoError(t, err)
	_, err = config.FromTOML(data)
	require.NoError(t, err)

	res = execute(t, "", "init", "--format", "ini")
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(res.err))
}

func TestIntegration_Version(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "test-version")
	assert.Contains(t, res.stdout, "test-commit")
}

func TestIntegration_UnknownCommand(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "lint")
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(res.err))
}
