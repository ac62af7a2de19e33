package config

import (
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string
}

const yamlTemplate = `# gomdmath configuration
# See: https://github.com/yaklabco/gomdmath

# Markdown flavor: commonmark or gfm
flavor: gfm

# Parse @name(args) { ... } block directives
directives: true

# Leave math inside raw HTML untouched
exclude_html: true

# Math syntaxes to extract (display forms only are rewritten)
delimiters:
  dollars: true
  brackets: true
  parens: true
  environments: false
  # environment_names:
  #   - equation
  #   - align

# Extract fenced blocks labelled math, latex or tex
math_fences: false

# Identifier scheme: uuid or sequential
id_scheme: uuid

# Store sidecar format: json or yaml
store_format: json

# Sidecar suffix (default .mathstore.json or .mathstore.yml)
# store_suffix: .mathstore.json

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"

# Backups written before rewriting a document in place
backups:
  enabled: false
  mode: sidecar
`

// GenerateTemplate returns a documented configuration file with the
// default values.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case "", "yaml", "yml":
		return []byte(yamlTemplate), nil
	case "json":
		return templateToJSON()
	default:
		return nil, fmt.Errorf("unknown template format %q (valid: yaml, json)", opts.Format)
	}
}

// templateToJSON renders the defaults as JSON, which the YAML loader
// also accepts.
func templateToJSON() ([]byte, error) {
	cfg := NewConfig()
	cfg.Directives = Bool(cfg.DirectivesEnabled())
	cfg.ExcludeHTML = Bool(cfg.ExcludeHTMLEnabled())
	cfg.MathFences = Bool(cfg.MathFencesEnabled())

	doc := map[string]any{
		"flavor":       cfg.Flavor,
		"directives":   *cfg.Directives,
		"exclude_html": *cfg.ExcludeHTML,
		"delimiters": map[string]any{
			"dollars":      cfg.Delimiters.DollarsEnabled(),
			"brackets":     cfg.Delimiters.BracketsEnabled(),
			"parens":       cfg.Delimiters.ParensEnabled(),
			"environments": cfg.Delimiters.EnvironmentsEnabled(),
		},
		"math_fences":  *cfg.MathFences,
		"id_scheme":    cfg.IDScheme,
		"store_format": cfg.StoreFormat,
		"backups": map[string]any{
			"enabled": cfg.Backups.Enabled,
			"mode":    cfg.Backups.Mode,
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// DefaultTemplateHeader returns the header written above generated configs.
func DefaultTemplateHeader() string {
	return `# gomdmath configuration
# See: https://github.com/yaklabco/gomdmath`
}
