package configloader

import (
	"slices"

	"github.com/yaklabco/gomdmath/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Optional booleans: override overwrites base if override is non-nil
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.IDScheme != "" {
		result.IDScheme = override.IDScheme
	}
	if override.StoreFormat != "" {
		result.StoreFormat = override.StoreFormat
	}
	if override.StoreSuffix != "" {
		result.StoreSuffix = override.StoreSuffix
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	if override.Directives != nil {
		result.Directives = override.Directives
	}
	if override.ExcludeHTML != nil {
		result.ExcludeHTML = override.ExcludeHTML
	}
	if override.MathFences != nil {
		result.MathFences = override.MathFences
	}
	result.Delimiters = mergeDelimiters(base.Delimiters, override.Delimiters)

	// CLI-only switches can only be turned on by a later source.
	if override.Write {
		result.Write = true
	}
	if override.DryRun {
		result.DryRun = true
	}
	if override.Strict {
		result.Strict = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}

	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	// Enabled is a plain bool, so only "true" can be detected as set.
	if override.Backups.Enabled {
		result.Backups.Enabled = true
	}

	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}

	return &result
}

// mergeDelimiters merges delimiter settings field by field.
func mergeDelimiters(base, override config.DelimitersConfig) config.DelimitersConfig {
	result := base

	if override.Dollars != nil {
		result.Dollars = override.Dollars
	}
	if override.Brackets != nil {
		result.Brackets = override.Brackets
	}
	if override.Parens != nil {
		result.Parens = override.Parens
	}
	if override.Environments != nil {
		result.Environments = override.Environments
	}
	if override.EnvironmentNames != nil {
		result.EnvironmentNames = slices.Clone(override.EnvironmentNames)
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
