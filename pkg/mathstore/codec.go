package mathstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the on-disk encoding of a store.
type Format string

// Supported store formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// currentVersion is the sidecar schema version.
const currentVersion = 1

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown store format %q (valid: json, yaml)", s)
	}
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	if f == FormatYAML {
		return "yml"
	}
	return "json"
}

type document struct {
	Version int      `json:"version" yaml:"version"`
	Records []Record `json:"records" yaml:"records"`
}

// Encode writes the store in the given format.
func (s *Store) Encode(w io.Writer, format Format) error {
	doc := document{Version: currentVersion, Records: s.records}
	if doc.Records == nil {
		doc.Records = []Record{}
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode store: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode store: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown store format %q", format)
	}
}

// Decode reads a store written by Encode. The returned store appends new
// records with the supplied options.
func Decode(r io.Reader, format Format, opts ...Option) (*Store, error) {
	var doc document

	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode store: %w", err)
		}
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode store: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown store format %q", format)
	}

	if doc.Version > currentVersion {
		return nil, fmt.Errorf("store version %d is newer than supported version %d", doc.Version, currentVersion)
	}

	store := New(opts...)
	for _, rec := range doc.Records {
		if err := store.add(rec); err != nil {
			return nil, fmt.Errorf("decode store: %w", err)
		}
	}

	return store, nil
}
