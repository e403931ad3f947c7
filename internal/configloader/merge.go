package configloader

import (
	"maps"

	"github.com/yaklabco/afmark/pkg/config"
)

// merge combines two configurations, with override taking precedence:
//   - strings and ints: override wins when non-zero
//   - pointers: override wins when non-nil, so false can be set
//   - passes: merged key by key
//   - slices: override replaces base when non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	setString(&result.Root, override.Root)
	setString(&result.SnippetsFile, override.SnippetsFile)
	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	setPtr(&result.Include.MaxDepth, override.Include.MaxDepth)

	setString(&result.Render.LangPrefix, override.Render.LangPrefix)
	setPtr(&result.Render.DetectLanguage, override.Render.DetectLanguage)
	setPtr(&result.Render.CodeToolbar, override.Render.CodeToolbar)

	setPtr(&result.Page.Standalone, override.Page.Standalone)
	setString(&result.Page.Title, override.Page.Title)
	setString(&result.Page.Lang, override.Page.Lang)
	setString(&result.Page.DarkTheme, override.Page.DarkTheme)
	setString(&result.Page.LightTheme, override.Page.LightTheme)
	setSlice(&result.Page.Stylesheets, override.Page.Stylesheets)
	setSlice(&result.Page.Scripts, override.Page.Scripts)

	setString(&result.Output.Dir, override.Output.Dir)
	setString(&result.Output.Extension, override.Output.Extension)

	setSlice(&result.Ignore, override.Ignore)

	if len(override.Passes) > 0 {
		if result.Passes == nil {
			result.Passes = make(map[string]bool, len(override.Passes))
		}
		maps.Copy(result.Passes, override.Passes)
	}

	if override.Verify {
		result.Verify = true
	}

	return result
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setPtr[T any](dst **T, v *T) {
	if v != nil {
		c := *v
		*dst = &c
	}
}

func setSlice(dst *[]string, v []string) {
	if v != nil {
		*dst = append([]string(nil), v...)
	}
}

// MergeAll merges configurations in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
