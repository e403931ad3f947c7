package config

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// PassInfo describes one pass for template generation.
type PassInfo struct {
	Name        string
	Description string
	Enabled     bool
}

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output encoding.
	Format Format

	// Passes are listed under the passes section with their defaults.
	Passes []PassInfo

	// Values overrides the defaults written into the template.
	Values *Config
}

// DefaultTemplateHeader returns the header for generated configs.
func DefaultTemplateHeader() string {
	return `# afmark configuration
# See: https://github.com/yaklabco/afmark`
}

// GenerateTemplate creates a commented configuration file.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	cfg := opts.Values
	if cfg == nil {
		cfg = NewConfig()
	}

	switch opts.Format {
	case FormatTOML:
		return []byte(tomlTemplate(cfg, opts.Passes)), nil
	case FormatYAML, "":
		return []byte(yamlTemplate(cfg, opts.Passes)), nil
	default:
		return nil, fmt.Errorf("unknown config format %q", opts.Format)
	}
}

func yamlTemplate(cfg *Config, passes []PassInfo) string {
	var sb strings.Builder

	sb.WriteString(DefaultTemplateHeader())
	sb.WriteString("\n\n# Markdown flavor: afm or commonmark\n")
	fmt.Fprintf(&sb, "flavor: %s\n", cfg.Flavor)
	sb.WriteString("\n# Directory includes and snippets resolve against (default: working directory)\n")
	writeOptional(&sb, "root: %q\n", cfg.Root)
	fmt.Fprintf(&sb, "snippets_file: %q\n", cfg.SnippetsFile)
	sb.WriteString("\ninclude:\n  # Maximum nesting of included files (0 = unbounded)\n")
	fmt.Fprintf(&sb, "  max_depth: %d\n", cfg.MaxIncludeDepth())

	sb.WriteString("\n# Enable or disable transformation passes\npasses:\n")
	if len(passes) == 0 {
		sb.WriteString("  # dnl: true\n")
	}
	for _, p := range passes {
		sb.WriteString(comment("  ", p.Description))
		fmt.Fprintf(&sb, "  %s: %t\n", p.Name, enabledIn(cfg, p))
	}

	sb.WriteString("\nrender:\n")
	fmt.Fprintf(&sb, "  lang_prefix: %q\n", cfg.Render.LangPrefix)
	fmt.Fprintf(&sb, "  detect_language: %t\n", deref(cfg.Render.DetectLanguage))
	fmt.Fprintf(&sb, "  code_toolbar: %t\n", deref(cfg.Render.CodeToolbar))

	sb.WriteString("\npage:\n  # Emit a full HTML document instead of a fragment\n")
	fmt.Fprintf(&sb, "  standalone: %t\n", deref(cfg.Page.Standalone))
	sb.WriteString("  # Spectrum themes: lightest, light, dark, darkest\n")
	fmt.Fprintf(&sb, "  dark_theme: %s\n", cfg.Page.DarkTheme)
	fmt.Fprintf(&sb, "  light_theme: %s\n", cfg.Page.LightTheme)

	sb.WriteString("\noutput:\n  # Mirror the source tree here (default: next to each source)\n")
	writeOptional(&sb, "  dir: %q\n", cfg.Output.Dir)
	fmt.Fprintf(&sb, "  extension: %q\n", cfg.Output.Extension)

	sb.WriteString("\n# File patterns to ignore (glob patterns)\n")
	if len(cfg.Ignore) == 0 {
		sb.WriteString("# ignore:\n#   - \"drafts/**\"\n")
	} else {
		sb.WriteString("ignore:\n")
		for _, g := range cfg.Ignore {
			fmt.Fprintf(&sb, "  - %q\n", g)
		}
	}

	sb.WriteString("\n# Number of parallel workers (0 = auto)\n")
	fmt.Fprintf(&sb, "jobs: %d\n", cfg.Jobs)
	return sb.String()
}

func tomlTemplate(cfg *Config, passes []PassInfo) string {
	var sb strings.Builder

	sb.WriteString(DefaultTemplateHeader())
	sb.WriteString("\n\n# Markdown flavor: afm or commonmark\n")
	fmt.Fprintf(&sb, "flavor = %q\n", cfg.Flavor)
	sb.WriteString("\n# Directory includes and snippets resolve against (default: working directory)\n")
	writeOptional(&sb, "root = %q\n", cfg.Root)
	fmt.Fprintf(&sb, "snippets_file = %q\n", cfg.SnippetsFile)

	sb.WriteString("\n# File patterns to ignore (glob patterns)\n")
	if len(cfg.Ignore) == 0 {
		sb.WriteString("# ignore = [\"drafts/**\"]\n")
	} else {
		quoted := make([]string, 0, len(cfg.Ignore))
		for _, g := range cfg.Ignore {
			quoted = append(quoted, fmt.Sprintf("%q", g))
		}
		fmt.Fprintf(&sb, "ignore = [%s]\n", strings.Join(quoted, ", "))
	}
	sb.WriteString("\n# Number of parallel workers (0 = auto)\n")
	fmt.Fprintf(&sb, "jobs = %d\n", cfg.Jobs)

	sb.WriteString("\n[include]\n# Maximum nesting of included files (0 = unbounded)\n")
	fmt.Fprintf(&sb, "max_depth = %d\n", cfg.MaxIncludeDepth())

	sb.WriteString("\n# Enable or disable transformation passes\n[passes]\n")
	if len(passes) == 0 {
		sb.WriteString("# dnl = true\n")
	}
	for _, p := range passes {
		sb.WriteString(comment("", p.Description))
		fmt.Fprintf(&sb, "%s = %t\n", p.Name, enabledIn(cfg, p))
	}

	sb.WriteString("\n[render]\n")
	fmt.Fprintf(&sb, "lang_prefix = %q\n", cfg.Render.LangPrefix)
	fmt.Fprintf(&sb, "detect_language = %t\n", deref(cfg.Render.DetectLanguage))
	fmt.Fprintf(&sb, "code_toolbar = %t\n", deref(cfg.Render.CodeToolbar))

	sb.WriteString("\n[page]\n# Emit a full HTML document instead of a fragment\n")
	fmt.Fprintf(&sb, "standalone = %t\n", deref(cfg.Page.Standalone))
	sb.WriteString("# Spectrum themes: lightest, light, dark, darkest\n")
	fmt.Fprintf(&sb, "dark_theme = %q\n", cfg.Page.DarkTheme)
	fmt.Fprintf(&sb, "light_theme = %q\n", cfg.Page.LightTheme)

	sb.WriteString("\n[output]\n# Mirror the source tree here (default: next to each source)\n")
	writeOptional(&sb, "dir = %q\n", cfg.Output.Dir)
	fmt.Fprintf(&sb, "extension = %q\n", cfg.Output.Extension)
	return sb.String()
}

// writeOptional writes the line commented out when value is empty.
func writeOptional(sb *strings.Builder, format, value string) {
	if value == "" {
		sb.WriteString("# ")
		fmt.Fprintf(sb, format, "")
		return
	}
	fmt.Fprintf(sb, format, value)
}

func enabledIn(cfg *Config, p PassInfo) bool {
	if on, ok := cfg.Passes[p.Name]; ok {
		return on
	}
	return p.Enabled
}

// comment wraps text into comment lines with the given indent.
func comment(indent, text string) string {
	if text == "" {
		return ""
	}

	var sb strings.Builder
	for _, line := range strings.Split(wordwrap.String(text, commentWrapWidth), "\n") {
		sb.WriteString(indent)
		sb.WriteString("# ")
		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
