// Package compiler is the entry point of the code generator: it loads a
// class diagram, resolves it into a graph and renders the graph with one of
// the registered generators.
//
//	p, err := compiler.Generate(ctx, "shop.json",
//		gen.WithGenerator(java.New()),
//		gen.WithBasePackage("com.acme.shop"),
//	)
package compiler

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/syssam/umlgen/compiler/gen"
	"github.com/syssam/umlgen/compiler/gen/golang"
	"github.com/syssam/umlgen/compiler/gen/java"
	"github.com/syssam/umlgen/compiler/load"
	"github.com/syssam/umlgen/schema"
)

// generators holds the constructors of the built-in generators, keyed by
// name.
var generators = map[string]func() gen.Generator{
	"java": func() gen.Generator { return java.New() },
	"go":   func() gen.Generator { return golang.New() },
}

// Generators returns the names of the built-in generators in sorted order.
func Generators() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewGenerator returns the built-in generator with the given name. The name
// "golang" is accepted for "go".
func NewGenerator(name string) (gen.Generator, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "golang" {
		name = "go"
	}
	newGen, ok := generators[name]
	if !ok {
		return nil, gen.NewConfigError("Generator", name, "unknown generator: expected one of "+strings.Join(Generators(), ", "))
	}
	return newGen(), nil
}

// WithGeneratorName selects a built-in generator by name.
func WithGeneratorName(name string) gen.Option {
	return func(c *gen.Config) error {
		g, err := NewGenerator(name)
		if err != nil {
			return err
		}
		c.Generator = g
		return nil
	}
}

// NewGraph resolves a diagram into a graph.
func NewGraph(s *schema.Schema, opts ...gen.Option) (*gen.Graph, error) {
	c, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return gen.NewGraph(c, s)
}

// LoadGraph loads the diagram document at path and resolves it.
func LoadGraph(path string, opts ...gen.Option) (*gen.Graph, error) {
	s, err := load.Load(path)
	if err != nil {
		return nil, err
	}
	return NewGraph(s, opts...)
}

// Render resolves a diagram and renders it into a project. The Java
// generator is used unless the options select another one. When a target
// directory is configured, the project is also written there.
func Render(ctx context.Context, s *schema.Schema, opts ...gen.Option) (*gen.Project, error) {
	opts = append([]gen.Option{gen.WithGenerator(java.New())}, opts...)
	g, err := NewGraph(s, opts...)
	if err != nil {
		return nil, err
	}
	p, err := g.Gen(ctx)
	if err != nil {
		return nil, err
	}
	if g.Target != "" {
		if err := p.WriteDir(g.Target); err != nil {
			return nil, err
		}
		slog.Info("project written", "target", g.Target, "files", len(p.Files))
	}
	return p, nil
}

// Generate loads the diagram document at path and renders it. See Render.
func Generate(ctx context.Context, path string, opts ...gen.Option) (*gen.Project, error) {
	s, err := load.Load(path)
	if err != nil {
		return nil, err
	}
	return Render(ctx, s, opts...)
}
