package configloader

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/gomdmath/pkg/config"
)

// envVarPrefix is the prefix for all gomdmath environment variables.
const envVarPrefix = "GOMDMATH_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
	help  string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FLAVOR":          {field: "flavor", typ: envTypeString, help: "Markdown flavor: commonmark or gfm"},
	"ID_SCHEME":       {field: "id_scheme", typ: envTypeString, help: "Identifier scheme: uuid or sequential"},
	"STORE_FORMAT":    {field: "store_format", typ: envTypeString, help: "Sidecar encoding: json or yaml"},
	"STORE_SUFFIX":    {field: "store_suffix", typ: envTypeString, help: "Suffix appended to a document path to name its sidecar"},
	"FORMAT":          {field: "format", typ: envTypeString, help: "Output format: text, json, or diff"},
	"COLOR":           {field: "color", typ: envTypeString, help: "Color mode: auto, always, or never"},
	"BACKUPS_MODE":    {field: "backups.mode", typ: envTypeString, help: "Backup mode: sidecar or none"},
	"WRITE":           {field: "write", typ: envTypeBool, help: "Rewrite documents in place: true or false"},
	"DRY_RUN":         {field: "dry_run", typ: envTypeBool, help: "Show a diff without writing: true or false"},
	"STRICT":          {field: "strict", typ: envTypeBool, help: "Fail when math is dropped: true or false"},
	"BACKUPS_ENABLED": {field: "backups.enabled", typ: envTypeBool, help: "Back up documents before rewriting: true or false"},
	"NO_BACKUPS":      {field: "no_backups", typ: envTypeBool, help: "Disable backups: true or false"},
	"DIRECTIVES":      {field: "directives", typ: envTypeBool, help: "Parse @name(args) { } directives: true or false"},
	"EXCLUDE_HTML":    {field: "exclude_html", typ: envTypeBool, help: "Leave math inside raw HTML: true or false"},
	"MATH_FENCES":     {field: "math_fences", typ: envTypeBool, help: "Extract ```math fences: true or false"},
	"JOBS":            {field: "jobs", typ: envTypeInt, help: "Number of parallel workers (0 = auto)"},
	"IGNORE":          {field: "ignore", typ: envTypeSlice, help: "Comma-separated list of ignore patterns"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with GOMDMATH_ (e.g., GOMDMATH_FLAVOR).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	// Sorted so the first reported error is stable.
	for _, envSuffix := range slices.Sorted(maps.Keys(envMappings)) {
		mapping := envMappings[envSuffix]
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "flavor":
		cfg.Flavor = config.Flavor(value)
	case "id_scheme":
		cfg.IDScheme = config.IDScheme(value)
	case "store_format":
		cfg.StoreFormat = config.StoreFormat(value)
	case "store_suffix":
		cfg.StoreSuffix = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "color":
		cfg.Color = config.ColorMode(value)
	case "backups.mode":
		cfg.Backups.Mode = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "write":
		cfg.Write = value
	case "dry_run":
		cfg.DryRun = value
	case "strict":
		cfg.Strict = value
	case "backups.enabled":
		cfg.Backups.Enabled = value
	case "no_backups":
		cfg.NoBackups = value
	case "directives":
		cfg.Directives = config.Bool(value)
	case "exclude_html":
		cfg.ExcludeHTML = config.Bool(value)
	case "math_fences":
		cfg.MathFences = config.Bool(value)
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.help
	}
	return vars
}
