// Package config defines the configuration types for gomdmath.
// These types are plain data with yaml tags; loading and merging live in
// internal/configloader.
package config

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// IDScheme selects how math identifiers are generated.
type IDScheme string

const (
	// IDSchemeUUID generates time-ordered UUIDv7 identifiers.
	IDSchemeUUID IDScheme = "uuid"

	// IDSchemeSequential generates m0, m1, ... for reproducible output.
	IDSchemeSequential IDScheme = "sequential"
)

// StoreFormat is the encoding of math store sidecar files.
type StoreFormat string

const (
	StoreFormatJSON StoreFormat = "json"
	StoreFormatYAML StoreFormat = "yaml"
)

// OutputFormat specifies how results are reported.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatDiff OutputFormat = "diff"
)

// ColorMode controls styled output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// DelimitersConfig enables math delimiter families. Unset fields take
// their defaults; see the Enabled accessors.
type DelimitersConfig struct {
	// Dollars enables $...$ and $$...$$.
	Dollars *bool `yaml:"dollars,omitempty"`

	// Brackets enables \[...\].
	Brackets *bool `yaml:"brackets,omitempty"`

	// Parens enables \(...\).
	Parens *bool `yaml:"parens,omitempty"`

	// Environments enables \begin{env}...\end{env} display environments.
	Environments *bool `yaml:"environments,omitempty"`

	// EnvironmentNames overrides the recognised environment names.
	EnvironmentNames []string `yaml:"environment_names,omitempty"`
}

// BackupsConfig controls backup behavior when rewriting files in place.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "sidecar" or "none"
}

// Config is the root configuration structure for gomdmath.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor"`

	// Directives enables @name(args) { ... } block directives.
	Directives *bool `yaml:"directives,omitempty"`

	// ExcludeHTML keeps math inside raw HTML untouched.
	ExcludeHTML *bool `yaml:"exclude_html,omitempty"`

	// Delimiters selects the math syntaxes recognised by the scanner.
	Delimiters DelimitersConfig `yaml:"delimiters,omitempty"`

	// MathFences extracts fenced code blocks labelled math, latex or tex.
	MathFences *bool `yaml:"math_fences,omitempty"`

	// IDScheme selects identifier generation.
	IDScheme IDScheme `yaml:"id_scheme"`

	// StoreFormat is the sidecar encoding.
	StoreFormat StoreFormat `yaml:"store_format"`

	// StoreSuffix is appended to a document path to name its sidecar.
	// Empty means ".mathstore." plus the format's extension.
	StoreSuffix string `yaml:"store_suffix,omitempty"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore,omitempty"`

	// Backups configures backup behavior when writing.
	Backups BackupsConfig `yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// Write rewrites documents in place and writes store sidecars.
	Write bool `yaml:"-"`

	// DryRun shows the rewrite as a diff without writing.
	DryRun bool `yaml:"-"`

	// Strict turns dropped occurrences into a failing exit code.
	Strict bool `yaml:"-"`

	// Format specifies the report format.
	Format OutputFormat `yaml:"-"`

	// Color controls styled output.
	Color ColorMode `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// NoBackups disables backup creation when writing.
	NoBackups bool `yaml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Flavor:      FlavorGFM,
		IDScheme:    IDSchemeUUID,
		StoreFormat: StoreFormatJSON,
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    "sidecar",
		},
		Format: FormatText,
		Color:  ColorAuto,
		Jobs:   0, // 0 means runtime.NumCPU()
	}
}

// Bool returns a pointer to v, for optional config fields.
func Bool(v bool) *bool {
	return &v
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// DirectivesEnabled reports whether block directives are parsed. Default true.
func (c *Config) DirectivesEnabled() bool { return boolOr(c.Directives, true) }

// ExcludeHTMLEnabled reports whether raw HTML is verbatim. Default true.
func (c *Config) ExcludeHTMLEnabled() bool { return boolOr(c.ExcludeHTML, true) }

// MathFencesEnabled reports whether math fences are extracted. Default false.
func (c *Config) MathFencesEnabled() bool { return boolOr(c.MathFences, false) }

// DollarsEnabled defaults to true.
func (d DelimitersConfig) DollarsEnabled() bool { return boolOr(d.Dollars, true) }

// BracketsEnabled defaults to true.
func (d DelimitersConfig) BracketsEnabled() bool { return boolOr(d.Brackets, true) }

// ParensEnabled defaults to true.
func (d DelimitersConfig) ParensEnabled() bool { return boolOr(d.Parens, true) }

// EnvironmentsEnabled defaults to false.
func (d DelimitersConfig) EnvironmentsEnabled() bool { return boolOr(d.Environments, false) }

// BackupsEnabled reports whether backups are written, honoring NoBackups.
func (c *Config) BackupsEnabled() bool {
	return c.Backups.Enabled && !c.NoBackups
}
