package graphql

import (
	"fmt"
	"slices"

	"github.com/99designs/gqlgen/codegen/config"
	"gopkg.in/yaml.v3"
)

// GQLGenConfig represents the subset of gqlgen.yml a generated project
// needs.
type GQLGenConfig struct {
	// SchemaFilename is the path(s) to the GraphQL schema file(s).
	SchemaFilename StringList `yaml:"schema,omitempty"`

	// Exec configures the generated executor.
	Exec PackageConfig `yaml:"exec,omitempty"`

	// Model configures the generated models.
	Model PackageConfig `yaml:"model,omitempty"`

	// Resolver configures the resolver generation.
	Resolver ResolverConfig `yaml:"resolver,omitempty"`

	// Autobind is a list of packages to autobind types from.
	Autobind []string `yaml:"autobind,omitempty"`

	// Models is a map of GraphQL type name to model configuration.
	Models map[string]TypeMapEntry `yaml:"models,omitempty"`
}

// PackageConfig configures a generated package.
type PackageConfig struct {
	Filename string `yaml:"filename,omitempty"`
	Package  string `yaml:"package,omitempty"`
}

// ResolverConfig configures the resolver generation.
type ResolverConfig struct {
	Filename string                `yaml:"filename,omitempty"`
	Package  string                `yaml:"package,omitempty"`
	Layout   config.ResolverLayout `yaml:"layout,omitempty"`
	DirName  string                `yaml:"dir,omitempty"`
}

// TypeMapEntry is the configuration for a single GraphQL type.
type TypeMapEntry struct {
	// Model is the Go model(s) to bind to this GraphQL type.
	Model StringList `yaml:"model,omitempty"`
}

// StringList is a YAML type that can be either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}

// MarshalYAML implements yaml.Marshaler for StringList.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// NewGQLGenConfig returns the gqlgen configuration of a generated Go
// module. Generated packages live under graph/, resolvers follow the
// schema layout and the entity models are autobound.
func NewGQLGenConfig(module, schemaPath string) *GQLGenConfig {
	c := &GQLGenConfig{
		Exec:  PackageConfig{Filename: "graph/generated.go", Package: "graph"},
		Model: PackageConfig{Filename: "graph/model/models_gen.go", Package: "model"},
		Resolver: ResolverConfig{
			Package: "graph",
			Layout:  config.LayoutFollowSchema,
			DirName: "graph",
		},
		Models: make(map[string]TypeMapEntry),
	}
	c.AddSchemaPath(schemaPath)
	c.AddAutobind(module + "/model")
	c.SetModel(LongScalar, "github.com/99designs/gqlgen/graphql.Int64")
	return c
}

// ParseGQLGenConfig parses a gqlgen.yml document.
func ParseGQLGenConfig(data []byte) (*GQLGenConfig, error) {
	var cfg GQLGenConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse gqlgen config: %w", err)
	}
	if cfg.Models == nil {
		cfg.Models = make(map[string]TypeMapEntry)
	}
	return &cfg, nil
}

// Marshal returns the gqlgen.yml document.
func (c *GQLGenConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal gqlgen config: %w", err)
	}
	return data, nil
}

// AddSchemaPath adds a schema path to the configuration if not already present.
func (c *GQLGenConfig) AddSchemaPath(path string) {
	if path != "" && !slices.Contains(c.SchemaFilename, path) {
		c.SchemaFilename = append(c.SchemaFilename, path)
	}
}

// AddAutobind adds a package to the autobind list if not already present.
func (c *GQLGenConfig) AddAutobind(pkg string) {
	if !slices.Contains(c.Autobind, pkg) {
		c.Autobind = append(c.Autobind, pkg)
	}
}

// SetModel sets the model binding for a GraphQL type.
func (c *GQLGenConfig) SetModel(typeName string, modelPath string) {
	entry := c.Models[typeName]
	if !slices.Contains(entry.Model, modelPath) {
		entry.Model = append(entry.Model, modelPath)
	}
	c.Models[typeName] = entry
}
