package compiler

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/syssam/umlgen/compiler/gen"
)

// Settings are the generation settings accepted as text by the command
// line and the HTTP API. Empty values keep the defaults.
type Settings struct {
	Generator   string
	BasePackage string
	ArtifactID  string
	Dialect     string
	NamePolicy  string
	Features    []string
	Without     []string
}

// Options returns the options of the settings.
func (s Settings) Options() ([]gen.Option, error) {
	var opts []gen.Option
	if s.Generator != "" {
		g, err := NewGenerator(s.Generator)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gen.WithGenerator(g))
	}
	if s.BasePackage != "" {
		opts = append(opts, gen.WithBasePackage(s.BasePackage))
	}
	if s.ArtifactID != "" {
		opts = append(opts, gen.WithArtifactID(s.ArtifactID))
	}
	if s.Dialect != "" {
		opts = append(opts, gen.WithDialect(strings.ToLower(s.Dialect)))
	}
	if s.NamePolicy != "" {
		p, err := gen.ParseNamePolicy(s.NamePolicy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gen.WithNamePolicy(p))
	}
	if len(s.Features) > 0 {
		features, err := gen.ParseFeatures(s.Features...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gen.WithFeatures(features...))
	}
	if len(s.Without) > 0 {
		features, err := gen.ParseFeatures(s.Without...)
		if err != nil {
			return nil, err
		}
		names := make([]string, len(features))
		for i, f := range features {
			names[i] = f.Name
		}
		opts = append(opts, gen.WithoutFeatures(names...))
	}
	return opts, nil
}

// Key returns the settings as a list of strings, in a fixed order.
func (s Settings) Key() []string {
	return []string{
		s.Generator,
		s.BasePackage,
		s.ArtifactID,
		s.Dialect,
		s.NamePolicy,
		strings.Join(s.Features, ","),
		strings.Join(s.Without, ","),
	}
}

// SplitList splits a comma separated list and drops blank items.
func SplitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Export formats of entity contexts.
const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatMsgpack = "msgpack"
)

// EncodeContexts encodes entity contexts in the given format.
func EncodeContexts(ctxs []*gen.EntityContext, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ctxs); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML, "yml":
		return yaml.Marshal(ctxs)
	case FormatMsgpack:
		return msgpack.Marshal(ctxs)
	default:
		return nil, gen.NewConfigError("Format", format, "unknown export format; use json, yaml or msgpack")
	}
}
