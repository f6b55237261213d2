package gen

import (
	"errors"
	"regexp"

	"github.com/syssam/umlgen/dialect"
)

var (
	// basePackageRe matches dotted identifiers such as com.example.app.
	basePackageRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	// artifactIDRe keeps artifact ids usable as file and directory names.
	artifactIDRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated source file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithBasePackage sets the dotted namespace of the generated project.
// For example: "com.example.genapp".
func WithBasePackage(pkg string) Option {
	return func(c *Config) error {
		if !basePackageRe.MatchString(pkg) {
			return NewConfigError("BasePackage", pkg, "base package must be a dotted identifier")
		}
		c.BasePackage = pkg
		return nil
	}
}

// WithArtifactID sets the name of the generated project and its archive.
func WithArtifactID(id string) Option {
	return func(c *Config) error {
		if !artifactIDRe.MatchString(id) {
			return NewConfigError("ArtifactID", id, "artifact id may only contain letters, digits, '.', '_' and '-'")
		}
		c.ArtifactID = id
		return nil
	}
}

// WithTarget sets the output directory.
// The directory where the generated project will be written.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithNamePolicy sets the naming policy of the normalizer.
func WithNamePolicy(p NamePolicy) Option {
	return func(c *Config) error {
		if p != CanonicalNames && p != LegacyNames {
			return NewConfigError("NamePolicy", int(p), "unknown name policy")
		}
		c.NamePolicy = p
		return nil
	}
}

// WithFeatures enables specific features.
// Features control optional code generation capabilities.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if !c.HasFeature(f.Name) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithoutFeatures disables the features with the given names.
func WithoutFeatures(names ...string) Option {
	return func(c *Config) error {
		features := c.Features[:0]
		for _, f := range c.Features {
			disabled := false
			for _, name := range names {
				disabled = disabled || f.Name == name
			}
			if !disabled {
				features = append(features, f)
			}
		}
		c.Features = features
		return nil
	}
}

// WithDialect sets the SQL dialect of the generated persistence layer and
// resets the datasource defaults accordingly.
// Supported dialects: "postgres", "mysql", "sqlite".
func WithDialect(name string) Option {
	return func(c *Config) error {
		switch name {
		case dialect.Postgres, dialect.MySQL, dialect.SQLite:
			c.Dialect = name
			c.Datasource = DefaultDatasource(name)
			return nil
		default:
			return NewConfigError("Dialect", name, "unsupported dialect; use postgres, mysql, or sqlite")
		}
	}
}

// WithDatasource sets the connection defaults of the generated project.
func WithDatasource(ds Datasource) Option {
	return func(c *Config) error {
		if ds.Name == "" {
			return NewConfigError("Datasource", nil, "database name cannot be empty")
		}
		c.Datasource = ds
		return nil
	}
}

// WithWorkers sets the number of types rendered in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithGenerator sets the project renderer.
func WithGenerator(g Generator) Option {
	return func(c *Config) error {
		if g == nil {
			return NewConfigError("Generator", nil, "generator cannot be nil")
		}
		c.Generator = g
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config from the defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
