package config

import (
	"bytes"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// YAMLIndent is the indentation used when writing configuration.
const YAMLIndent = 2

// ToYAML serializes the persisted fields of the configuration.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes. Fields absent from
// data keep their zero values; merge onto NewConfig for defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Clone returns a deep copy of the configuration, CLI-only fields included.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Directives = cloneBool(c.Directives)
	clone.ExcludeHTML = cloneBool(c.ExcludeHTML)
	clone.MathFences = cloneBool(c.MathFences)
	clone.Delimiters = DelimitersConfig{
		Dollars:          cloneBool(c.Delimiters.Dollars),
		Brackets:         cloneBool(c.Delimiters.Brackets),
		Parens:           cloneBool(c.Delimiters.Parens),
		Environments:     cloneBool(c.Delimiters.Environments),
		EnvironmentNames: slices.Clone(c.Delimiters.EnvironmentNames),
	}
	clone.Ignore = slices.Clone(c.Ignore)

	return &clone
}

func cloneBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	return Bool(*p)
}
