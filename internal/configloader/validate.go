package configloader

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/afmark/pkg/config"
	"github.com/yaklabco/afmark/pkg/page"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "page.dark_theme").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings. When
// knownPasses is non-nil, unknown pass keys are reported as warnings and
// removed from cfg.Passes.
func Validate(cfg *config.Config, knownPasses []string) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Flavor != "" && !cfg.Flavor.IsValid() {
		result.fail("flavor", cfg.Flavor,
			"invalid flavor %q; must be one of: %s, %s", cfg.Flavor, config.FlavorAFM, config.FlavorCommonMark)
	}

	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if cfg.Include.MaxDepth != nil && *cfg.Include.MaxDepth < 0 {
		result.fail("include.max_depth", *cfg.Include.MaxDepth, "max_depth must be >= 0 (0 means unbounded)")
	}

	validateThemes(cfg, result)
	validatePasses(cfg, knownPasses, result)
	validateIgnorePatterns(cfg, result)

	return result
}

func validateThemes(cfg *config.Config, result *ValidationResult) {
	themes := page.Themes()
	check := func(field, theme string) {
		if theme != "" && !slices.Contains(themes, theme) {
			result.warn(field, theme, "unknown theme %q; using %q (known: %s)",
				theme, page.DefaultTheme, strings.Join(themes, ", "))
		}
	}
	check("page.dark_theme", cfg.Page.DarkTheme)
	check("page.light_theme", cfg.Page.LightTheme)
}

func validatePasses(cfg *config.Config, knownPasses []string, result *ValidationResult) {
	if knownPasses == nil || len(cfg.Passes) == 0 {
		return
	}

	unknown := make([]string, 0)
	for name := range cfg.Passes {
		if !slices.Contains(knownPasses, name) {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)

	for _, name := range unknown {
		result.warn("passes."+name, name, "unknown pass %q; it will be ignored", name)
		delete(cfg.Passes, name)
	}
}

// validateIgnorePatterns checks that ignore patterns compile with the
// same glob dialect the runner uses.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string, knownPasses []string) *ValidationResult {
	result := Validate(cfg, knownPasses)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}
