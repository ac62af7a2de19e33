package configloader

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/gomdmath/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "delimiters.environment_names[0]").
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

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	knownFlavors = map[config.Flavor]bool{
		config.FlavorCommonMark: true,
		config.FlavorGFM:        true,
	}
	knownIDSchemes = map[config.IDScheme]bool{
		config.IDSchemeUUID:       true,
		config.IDSchemeSequential: true,
	}
	knownStoreFormats = map[config.StoreFormat]bool{
		config.StoreFormatJSON: true,
		config.StoreFormatYAML: true,
	}
	knownFormats = map[config.OutputFormat]bool{
		config.FormatText: true,
		config.FormatJSON: true,
		config.FormatDiff: true,
	}
	knownColorModes = map[config.ColorMode]bool{
		config.ColorAuto:   true,
		config.ColorAlways: true,
		config.ColorNever:  true,
	}
	knownBackupModes = map[string]bool{
		"sidecar": true,
		"none":    true,
	}
)

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	invalid := func(field string, value any, msg string) {
		result.Errors = append(result.Errors, ValidationError{Field: field, Value: value, Message: msg})
	}

	if cfg.Flavor != "" && !knownFlavors[cfg.Flavor] {
		invalid("flavor", cfg.Flavor,
			fmt.Sprintf("invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor))
	}
	if cfg.IDScheme != "" && !knownIDSchemes[cfg.IDScheme] {
		invalid("id_scheme", cfg.IDScheme,
			fmt.Sprintf("invalid id scheme %q; must be one of: uuid, sequential", cfg.IDScheme))
	}
	if cfg.StoreFormat != "" && !knownStoreFormats[cfg.StoreFormat] {
		invalid("store_format", cfg.StoreFormat,
			fmt.Sprintf("invalid store format %q; must be one of: json, yaml", cfg.StoreFormat))
	}
	if cfg.Format != "" && !knownFormats[cfg.Format] {
		invalid("format", cfg.Format,
			fmt.Sprintf("invalid format %q; must be one of: text, json, diff", cfg.Format))
	}
	if cfg.Color != "" && !knownColorModes[cfg.Color] {
		invalid("color", cfg.Color,
			fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color))
	}
	if cfg.Jobs < 0 {
		invalid("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if cfg.Backups.Mode != "" && !knownBackupModes[cfg.Backups.Mode] {
		invalid("backups.mode", cfg.Backups.Mode,
			fmt.Sprintf("invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode))
	}
	if strings.ContainsAny(cfg.StoreSuffix, `/\`) {
		invalid("store_suffix", cfg.StoreSuffix, "store suffix must not contain a path separator")
	}
	if cfg.Write && cfg.DryRun {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "dry_run",
			Message: "dry run takes precedence over write; nothing will be written",
		})
	}

	validateDelimiters(cfg, result)
	validateIgnorePatterns(cfg, result)

	return result
}

// validateDelimiters checks the scanner settings.
func validateDelimiters(cfg *config.Config, result *ValidationResult) {
	d := cfg.Delimiters

	if !d.DollarsEnabled() && !d.BracketsEnabled() && !d.ParensEnabled() && !d.EnvironmentsEnabled() &&
		!cfg.MathFencesEnabled() {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "delimiters",
			Message: "every math syntax is disabled; nothing will be extracted",
		})
	}

	for i, name := range d.EnvironmentNames {
		if !validEnvironmentName(name) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("delimiters.environment_names[%d]", i),
				Value:   name,
				Message: fmt.Sprintf("invalid environment name %q; use letters with an optional trailing *", name),
			})
		}
	}
	if len(d.EnvironmentNames) > 0 && !d.EnvironmentsEnabled() {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "delimiters.environment_names",
			Message: "environment names are ignored while delimiters.environments is false",
		})
	}
}

// validEnvironmentName accepts LaTeX environment names such as align*.
func validEnvironmentName(name string) bool {
	body := strings.TrimSuffix(name, "*")
	if body == "" {
		return false
	}
	for _, r := range body {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// validateIgnorePatterns checks that ignore patterns compile the way
// discovery compiles them.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
