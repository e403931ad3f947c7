package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/afmark/pkg/config"
)

// EnvVarPrefix is the prefix for all afmark environment variables.
const EnvVarPrefix = "AFMARK_"

type envSetter func(cfg *config.Config, value string) error

type envMapping struct {
	description string
	set         envSetter
}

func stringVar(field func(*config.Config) *string) envSetter {
	return func(cfg *config.Config, value string) error {
		*field(cfg) = value
		return nil
	}
}

func boolVar(field func(*config.Config) **bool) envSetter {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		*field(cfg) = config.Bool(b)
		return nil
	}
}

func intVar(set func(*config.Config, int)) envSetter {
	return func(cfg *config.Config, value string) error {
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		set(cfg, i)
		return nil
	}
}

func passesVar(on bool) envSetter {
	return func(cfg *config.Config, value string) error {
		if cfg.Passes == nil {
			cfg.Passes = make(map[string]bool)
		}
		for _, name := range parseSliceValue(value) {
			cfg.Passes[name] = on
		}
		return nil
	}
}

// envMappings maps variable names without prefix to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FLAVOR": {
		description: "Markdown flavor: afm or commonmark",
		set:         func(cfg *config.Config, v string) error { cfg.Flavor = config.Flavor(v); return nil },
	},
	"ROOT": {
		description: "Directory includes and snippets resolve against",
		set:         stringVar(func(c *config.Config) *string { return &c.Root }),
	},
	"SNIPPETS_FILE": {
		description: "Snippets file path relative to the root",
		set:         stringVar(func(c *config.Config) *string { return &c.SnippetsFile }),
	},
	"INCLUDE_MAX_DEPTH": {
		description: "Maximum include nesting (0 = unbounded)",
		set:         intVar(func(c *config.Config, i int) { c.Include.MaxDepth = config.Int(i) }),
	},
	"JOBS": {
		description: "Number of parallel workers (0 = auto)",
		set:         intVar(func(c *config.Config, i int) { c.Jobs = i }),
	},
	"IGNORE": {
		description: "Comma-separated list of ignore patterns",
		set:         func(cfg *config.Config, v string) error { cfg.Ignore = parseSliceValue(v); return nil },
	},
	"ENABLE_PASSES": {
		description: "Comma-separated passes to enable",
		set:         passesVar(true),
	},
	"DISABLE_PASSES": {
		description: "Comma-separated passes to disable",
		set:         passesVar(false),
	},
	"OUTPUT_DIR": {
		description: "Directory for rendered files",
		set:         stringVar(func(c *config.Config) *string { return &c.Output.Dir }),
	},
	"OUTPUT_EXTENSION": {
		description: "Extension of rendered files",
		set:         stringVar(func(c *config.Config) *string { return &c.Output.Extension }),
	},
	"PAGE_STANDALONE": {
		description: "Emit full HTML documents: true or false",
		set:         boolVar(func(c *config.Config) **bool { return &c.Page.Standalone }),
	},
	"PAGE_TITLE": {
		description: "Document title for standalone pages",
		set:         stringVar(func(c *config.Config) *string { return &c.Page.Title }),
	},
	"PAGE_DARK_THEME": {
		description: "Spectrum theme in dark mode",
		set:         stringVar(func(c *config.Config) *string { return &c.Page.DarkTheme }),
	},
	"PAGE_LIGHT_THEME": {
		description: "Spectrum theme in light mode",
		set:         stringVar(func(c *config.Config) *string { return &c.Page.LightTheme }),
	},
	"RENDER_CODE_TOOLBAR": {
		description: "Render fences with the line-number toolbar: true or false",
		set:         boolVar(func(c *config.Config) **bool { return &c.Render.CodeToolbar }),
	},
	"RENDER_DETECT_LANGUAGE": {
		description: "Detect the language of unlabeled fences: true or false",
		set:         boolVar(func(c *config.Config) **bool { return &c.Render.DetectLanguage }),
	},
}

// LoadFromEnv applies AFMARK_* environment variables to cfg.
func LoadFromEnv(cfg *config.Config) error {
	return loadFromLookup(cfg, os.LookupEnv)
}

func loadFromLookup(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}

	for _, suffix := range sortedEnvSuffixes() {
		name := EnvVarPrefix + suffix
		value, ok := lookup(name)
		if !ok || value == "" {
			continue
		}
		if err := envMappings[suffix].set(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// parseSliceValue splits a comma-separated value, dropping blanks.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func sortedEnvSuffixes() []string {
	suffixes := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)
	return suffixes
}

// ListEnvVars returns every supported variable with its description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envMappings))
	for suffix, m := range envMappings {
		out[EnvVarPrefix+suffix] = m.description
	}
	return out
}
