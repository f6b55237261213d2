package gen

import (
	"runtime"
	"slices"

	"github.com/syssam/umlgen/dialect"
)

// Defaults applied by DefaultConfig.
const (
	DefaultBasePackage = "com.example.genapp"
	DefaultArtifactID  = "generated-app"

	defaultHeader = "Code generated by umlgen. DO NOT EDIT."
)

// Config holds the global codegen configuration shared by all generated
// files.
type Config struct {
	// BasePackage is the dotted namespace of the generated project
	// (e.g. com.example.genapp). It is threaded through as an opaque string.
	BasePackage string
	// ArtifactID names the generated project and its archive.
	ArtifactID string
	// Target is the directory the project is written to by WriteDir.
	Target string
	// Header is the comment written at the top of every generated source
	// file.
	Header string
	// NamePolicy selects how diagram names are canonicalized.
	NamePolicy NamePolicy
	// Features holds the enabled feature flags.
	Features []Feature
	// Dialect is the SQL dialect of the generated persistence layer.
	Dialect string
	// Datasource holds the connection defaults written to the generated
	// configuration. Every value can be overridden by the environment of
	// the generated application.
	Datasource Datasource
	// Workers bounds the number of types rendered in parallel.
	Workers int
	// Generator renders the graph into project files.
	Generator Generator
}

// Datasource holds the default connection settings of a generated project.
// Passwords are never part of it.
type Datasource struct {
	Host string
	Port int
	Name string
	User string
}

// OutputConfig groups the settings that shape the generated project.
type OutputConfig struct {
	Target      string
	BasePackage string
	ArtifactID  string
	Header      string
}

// Output returns the project output settings.
func (c *Config) Output() OutputConfig {
	return OutputConfig{
		Target:      c.Target,
		BasePackage: c.BasePackage,
		ArtifactID:  c.ArtifactID,
		Header:      c.Header,
	}
}

// DefaultConfig returns a configuration with the default project
// coordinates, the default features and a PostgreSQL datasource.
func DefaultConfig() *Config {
	c := &Config{
		BasePackage: DefaultBasePackage,
		ArtifactID:  DefaultArtifactID,
		Header:      defaultHeader,
		Dialect:     dialect.Postgres,
		Datasource:  DefaultDatasource(dialect.Postgres),
		Workers:     runtime.GOMAXPROCS(0),
	}
	for _, f := range AllFeatures {
		if f.Default {
			c.Features = append(c.Features, f)
		}
	}
	return c
}

// DefaultDatasource returns the connection defaults of the given dialect.
func DefaultDatasource(name string) Datasource {
	switch name {
	case dialect.MySQL:
		return Datasource{Host: "localhost", Port: 3306, Name: "app", User: "root"}
	case dialect.SQLite:
		return Datasource{Name: "app.db"}
	default:
		return Datasource{Host: "localhost", Port: 5432, Name: "app", User: "postgres"}
	}
}

// FeatureEnabled reports if the given feature name is enabled.
// It returns an error for unknown feature names.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	if !slices.ContainsFunc(AllFeatures, func(f Feature) bool { return f.Name == name }) {
		return false, NewConfigError("Features", name, "unknown feature")
	}
	return c.HasFeature(name), nil
}

// HasFeature reports if the given feature name is enabled, without checking
// that the name is known.
func (c *Config) HasFeature(name string) bool {
	return slices.ContainsFunc(c.Features, func(f Feature) bool { return f.Name == name })
}
