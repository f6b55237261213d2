// Package load reads class diagram documents from JSON or YAML.
package load

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/umlgen/compiler/gen"
	"github.com/syssam/umlgen/schema"
)

// Format is the encoding of a diagram document.
type Format string

// Supported document formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf returns the format of a document from its file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return "", gen.NewConfigError("Format", path, "unknown document extension; use .json, .yaml or .yml")
	}
}

// ParseFormat returns the format with the given name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case JSON, YAML:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", gen.NewConfigError("Format", name, "unknown document format; use json or yaml")
	}
}

// document mirrors schema.Schema with pointer slices, so a missing or null
// key can be told apart from an empty list.
type document struct {
	Classes       *[]*schema.Class        `json:"classes" yaml:"classes"`
	Relationships *[]*schema.Relationship `json:"relationships" yaml:"relationships"`
}

// Load reads the diagram document at path. The format is picked from the
// file extension.
func Load(path string) (*schema.Schema, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read diagram %s: %w", path, err)
	}
	return Unmarshal(buf, format)
}

// Unmarshal decodes a diagram document. Both the classes and the
// relationships keys must be present; either list may be empty.
func Unmarshal(buf []byte, format Format) (*schema.Schema, error) {
	var doc document
	switch format {
	case JSON:
		if err := json.Unmarshal(buf, &doc); err != nil {
			return nil, gen.NewSchemaError("", "", "decode json document", err)
		}
	case YAML:
		if err := yaml.Unmarshal(buf, &doc); err != nil {
			return nil, gen.NewSchemaError("", "", "decode yaml document", err)
		}
	default:
		return nil, gen.NewConfigError("Format", string(format), "unknown document format")
	}
	switch {
	case doc.Classes == nil && doc.Relationships == nil:
		return nil, gen.NewSchemaError("", "", "document has no classes and no relationships", nil)
	case doc.Classes == nil:
		return nil, gen.NewSchemaError("", "", "document has no classes", nil)
	case doc.Relationships == nil:
		return nil, gen.NewSchemaError("", "", "document has no relationships", nil)
	}
	return &schema.Schema{Classes: *doc.Classes, Relationships: *doc.Relationships}, nil
}

// Marshal encodes the diagram in the given format.
func Marshal(s *schema.Schema, format Format) ([]byte, error) {
	if s == nil {
		return nil, gen.NewSchemaError("", "", "schema is nil", nil)
	}
	out := document{Classes: &s.Classes, Relationships: &s.Relationships}
	if s.Classes == nil {
		out.Classes = &[]*schema.Class{}
	}
	if s.Relationships == nil {
		out.Relationships = &[]*schema.Relationship{}
	}
	switch format {
	case JSON:
		return json.MarshalIndent(out, "", "  ")
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return nil, fmt.Errorf("encode yaml document: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml document: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, gen.NewConfigError("Format", string(format), "unknown document format")
	}
}
