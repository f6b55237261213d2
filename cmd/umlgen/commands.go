package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/syssam/umlgen"
	"github.com/syssam/umlgen/compiler"
	"github.com/syssam/umlgen/compiler/gen"
	"github.com/syssam/umlgen/contrib/graphql"
	"github.com/syssam/umlgen/dialect"
	dsql "github.com/syssam/umlgen/dialect/sql"
	"github.com/syssam/umlgen/dialect/sql/schema"
)

// genFlags are the generation settings shared by the subcommands.
type genFlags struct {
	settings compiler.Settings
	features string
	without  string
	header   string
}

// register adds the flags to fs. Project flags are only added when
// project is set.
func (f *genFlags) register(fs *flag.FlagSet, project bool) {
	fs.StringVar(&f.settings.NamePolicy, "names", "canonical", "name policy: canonical or legacy")
	fs.StringVar(&f.settings.Dialect, "dialect", dialect.Postgres, "sql dialect: "+strings.Join(dialect.Names(), ", "))
	if !project {
		return
	}
	fs.StringVar(&f.settings.Generator, "generator", "java", "generator: "+strings.Join(compiler.Generators(), ", "))
	fs.StringVar(&f.settings.BasePackage, "base-package", gen.DefaultBasePackage, "base package of the project")
	fs.StringVar(&f.settings.ArtifactID, "artifact-id", gen.DefaultArtifactID, "name of the project")
	fs.StringVar(&f.features, "features", "", "comma separated features to enable")
	fs.StringVar(&f.without, "without", "", "comma separated features to disable")
	fs.StringVar(&f.header, "header", "", "header comment of generated files")
}

func (f *genFlags) options() ([]gen.Option, error) {
	f.settings.Features = compiler.SplitList(f.features)
	f.settings.Without = compiler.SplitList(f.without)
	opts, err := f.settings.Options()
	if err != nil {
		return nil, err
	}
	if f.header != "" {
		opts = append(opts, gen.WithHeader(f.header))
	}
	return opts, nil
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: umlgen %s [flags] diagram\n", name)
		fs.PrintDefaults()
	}
	return fs
}

// diagram returns the single diagram argument.
func diagram(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		fs.Usage()
		return "", fmt.Errorf("%s: expected one diagram, got %d", fs.Name(), fs.NArg())
	}
	return fs.Arg(0), nil
}

// write writes data to the file at path, or to stdout if path is empty or
// "-".
func write(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func generateCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var f genFlags
	fs := newFlagSet("generate", stderr)
	f.register(fs, true)
	out := fs.String("o", ".", "output directory")
	archive := fs.Bool("zip", false, "write the project archive instead of its files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("generate: no diagram given")
	}
	opts, err := f.options()
	if err != nil {
		return err
	}
	var errs []error
	for _, path := range fs.Args() {
		dir := *out
		if fs.NArg() > 1 {
			dir = filepath.Join(dir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		}
		if err := generate(ctx, path, dir, *archive, opts, stdout); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return umlgen.NewAggregateError(errs...)
}

// generate renders one diagram into dir.
func generate(ctx context.Context, path, dir string, archive bool, opts []gen.Option, stdout io.Writer) error {
	if !archive {
		opts = append(slices.Clone(opts), gen.WithTarget(dir))
	}
	p, err := compiler.Generate(ctx, path, opts...)
	if err != nil {
		return err
	}
	if !archive {
		fmt.Fprintf(stdout, "%s: wrote %d files to %s\n", path, len(p.Files), dir)
		return nil
	}
	data, err := p.Zip()
	if err != nil {
		return err
	}
	name := filepath.Join(dir, p.ArchiveName())
	if err := write(stdout, name, data); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: wrote %s\n", path, name)
	return nil
}

func contextsCmd(_ context.Context, args []string, stdout, stderr io.Writer) error {
	var f genFlags
	fs := newFlagSet("contexts", stderr)
	f.register(fs, false)
	format := fs.String("format", compiler.FormatJSON, "output format: json, yaml or msgpack")
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := diagram(fs)
	if err != nil {
		return err
	}
	g, err := loadGraph(path, &f)
	if err != nil {
		return err
	}
	data, err := compiler.EncodeContexts(g.Contexts(), *format)
	if err != nil {
		return err
	}
	return write(stdout, *out, data)
}

func ddlCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var f genFlags
	fs := newFlagSet("ddl", stderr)
	f.register(fs, false)
	out := fs.String("o", "", "output file (default stdout)")
	apply := fs.String("apply", "", "data source name of a database to create the tables in")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := diagram(fs)
	if err != nil {
		return err
	}
	g, err := loadGraph(path, &f)
	if err != nil {
		return err
	}
	if *apply == "" {
		script, err := schema.DDL(ctx, g, g.Dialect)
		if err != nil {
			return err
		}
		return write(stdout, *out, []byte(script))
	}
	tables, err := schema.Tables(g, g.Dialect)
	if err != nil {
		return err
	}
	if result := schema.ValidateSchema(tables); result.HasErrors() {
		return gen.NewGenerationError("ddl", "", result.String(), nil)
	}
	stmts, err := schema.Plan(ctx, g.Dialect, tables)
	if err != nil {
		return err
	}
	drv, err := dsql.Open(g.Dialect, *apply)
	if err != nil {
		return err
	}
	defer drv.Close()
	if err := schema.Apply(ctx, drv, stmts); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "applied %d statements\n", len(stmts))
	return nil
}

func graphqlCmd(_ context.Context, args []string, stdout, stderr io.Writer) error {
	var f genFlags
	fs := newFlagSet("graphql", stderr)
	f.register(fs, false)
	out := fs.String("o", "", "output file (default stdout)")
	mutations := fs.Bool("mutations", true, "add the Mutation root and input types")
	gqlgen := fs.String("gqlgen", "", "also write a gqlgen.yml for the Go module with this path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := diagram(fs)
	if err != nil {
		return err
	}
	g, err := loadGraph(path, &f)
	if err != nil {
		return err
	}
	sdl, err := graphql.NewGenerator(graphql.WithMutations(*mutations)).SDL(g)
	if err != nil {
		return err
	}
	if err := write(stdout, *out, []byte(sdl)); err != nil {
		return err
	}
	if *gqlgen == "" {
		return nil
	}
	if *out == "" || *out == "-" {
		return errors.New("graphql: -gqlgen requires -o")
	}
	dir := filepath.Dir(*out)
	schemaPath, err := filepath.Rel(dir, *out)
	if err != nil {
		return err
	}
	data, err := graphql.NewGQLGenConfig(*gqlgen, filepath.ToSlash(schemaPath)).Marshal()
	if err != nil {
		return err
	}
	return write(stdout, filepath.Join(dir, "gqlgen.yml"), data)
}

func loadGraph(path string, f *genFlags) (*gen.Graph, error) {
	opts, err := f.options()
	if err != nil {
		return nil, err
	}
	return compiler.LoadGraph(path, opts...)
}
