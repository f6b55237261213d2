// Package golang renders a resolved graph into a Go service built on gin
// and gorm.
//
// Every keyed entity gets a model, a repository, a service and a controller
// package file. Keyless entities only get a model. Children embed their
// parent model, so each concrete table carries the inherited columns.
package golang

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/umlgen/compiler/gen"
	"github.com/syssam/umlgen/contrib/graphql"
	"github.com/syssam/umlgen/dialect"
	"github.com/syssam/umlgen/dialect/sql/schema"
	"github.com/syssam/umlgen/schema/field"
)

// Versions of the modules required by generated projects.
const (
	GinVersion  = "v1.11.0"
	GormVersion = "v1.25.12"
)

var (
	//go:embed template/*
	templateDir embed.FS

	funcs     = map[string]any{"comment": gen.Comment}
	templates = gen.MustParse(gen.NewTemplate("golang").Funcs(funcs).ParseFS(templateDir, "template/*.tmpl"))
)

type (
	// Generator renders gin and gorm projects.
	Generator struct{}

	// driver describes the gorm side of a SQL dialect.
	driver struct {
		Import  string
		Package string
		Version string
		DSN     string
	}

	// layer renders the file of one type in one package.
	layer struct {
		dir string
		gen func(module string, t *gen.Type) *jen.File
	}

	// project is the data of the project-level templates.
	project struct {
		gen.Config
		Module   string
		Driver   driver
		Requires []requirement
		Models   []*gen.Type
	}

	// requirement is a module required by the generated go.mod.
	requirement struct {
		Path    string
		Version string
	}
)

// New returns a gin and gorm generator.
func New() *Generator { return &Generator{} }

// Name implements gen.Generator.
func (*Generator) Name() string { return "go" }

// GenType implements gen.Generator.
func (*Generator) GenType(t *gen.Type) ([]*gen.File, error) {
	module := Module(t.Config)
	layers := []layer{{"model", genModel}}
	if t.HasKey() {
		layers = append(layers,
			layer{"repository", genRepository},
			layer{"service", genService},
			layer{"controller", genController},
		)
	}
	files := make([]*gen.File, 0, len(layers))
	for _, l := range layers {
		name := path.Join(l.dir, t.Label()+".go")
		f := l.gen(module, t)
		headerComment(f, t.Header)
		var buf bytes.Buffer
		if err := f.Render(&buf); err != nil {
			return nil, gen.NewGenerationError("render", name, "render go source", err)
		}
		files = append(files, &gen.File{Path: name, Content: buf.Bytes()})
	}
	return files, nil
}

// GenGraph implements gen.Generator.
func (*Generator) GenGraph(g *gen.Graph) ([]*gen.File, error) {
	drv, err := driverOf(g.Config)
	if err != nil {
		return nil, err
	}
	p := project{
		Config: *g.Config,
		Module: Module(g.Config),
		Driver: drv,
		Requires: []requirement{
			{Path: ginPkg, Version: GinVersion},
			{Path: drv.Import, Version: drv.Version},
			{Path: gormPkg, Version: GormVersion},
		},
	}
	sort.Slice(p.Requires, func(i, j int) bool { return p.Requires[i].Path < p.Requires[j].Path })
	for _, t := range g.Nodes {
		if t.HasKey() {
			p.Models = append(p.Models, t)
		}
	}
	var files []*gen.File
	for _, r := range []struct{ name, path string }{
		{"gomod", "go.mod"},
		{"main", "cmd/server/main.go"},
		{"routes", "controller/routes.go"},
		{"errors", "service/errors.go"},
	} {
		f, err := templates.Render(r.name, r.path, p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if g.HasFeature(gen.FeatureDDL.Name) {
		ddl, err := schema.DDL(context.Background(), g, g.Dialect)
		if err != nil {
			return nil, err
		}
		files = append(files, &gen.File{
			Path:    "db/schema.sql",
			Content: []byte(gen.Comment("--", g.Header) + ddl),
		})
	}
	if g.HasFeature(gen.FeatureGraphQL.Name) {
		sdl, err := graphql.NewGenerator().SDL(g)
		if err != nil {
			return nil, err
		}
		cfg, err := graphql.NewGQLGenConfig(p.Module, "graph/schema.graphqls").Marshal()
		if err != nil {
			return nil, err
		}
		files = append(files,
			&gen.File{Path: "graph/schema.graphqls", Content: []byte(gen.Comment("#", g.Header) + sdl)},
			&gen.File{Path: "gqlgen.yml", Content: append([]byte(gen.Comment("#", g.Header)), cfg...)},
		)
	}
	return files, nil
}

// Module returns the Go module path of the generated project.
func Module(c *gen.Config) string { return c.ArtifactID }

// GoType returns the Go type of a canonical attribute type.
func GoType(t field.Type) string {
	switch t {
	case field.Integer:
		return "int"
	case field.Long:
		return "int64"
	case field.Short:
		return "int16"
	case field.Byte:
		return "int8"
	case field.Boolean:
		return "bool"
	case field.Float:
		return "float32"
	case field.Double:
		return "float64"
	default:
		return "string"
	}
}

// zero returns the value a stub method of the given type returns.
func zero(t field.Type) jen.Code {
	switch {
	case t.Numeric(), t.Floating():
		return jen.Lit(0)
	case t == field.Boolean:
		return jen.False()
	default:
		return jen.Lit("")
	}
}

func headerComment(f *jen.File, header string) {
	if header == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(header, "\n"), "\n") {
		f.HeaderComment(line)
	}
}

func driverOf(c *gen.Config) (driver, error) {
	ds := c.Datasource
	switch c.Dialect {
	case dialect.Postgres:
		return driver{
			Import:  "gorm.io/driver/postgres",
			Package: "postgres",
			Version: "v1.5.11",
			DSN: fmt.Sprintf(`fmt.Sprintf("host=%%s port=%%s user=%%s password=%%s dbname=%%s sslmode=disable", env("DB_HOST", %q), env("DB_PORT", "%d"), env("DB_USER", %q), env("DB_PASSWORD", ""), env("DB_NAME", %q))`,
				ds.Host, ds.Port, ds.User, ds.Name),
		}, nil
	case dialect.MySQL:
		return driver{
			Import:  "gorm.io/driver/mysql",
			Package: "mysql",
			Version: "v1.5.7",
			DSN: fmt.Sprintf(`fmt.Sprintf("%%s:%%s@tcp(%%s:%%s)/%%s?parseTime=true", env("DB_USER", %q), env("DB_PASSWORD", ""), env("DB_HOST", %q), env("DB_PORT", "%d"), env("DB_NAME", %q))`,
				ds.User, ds.Host, ds.Port, ds.Name),
		}, nil
	case dialect.SQLite:
		return driver{
			Import:  "github.com/glebarez/sqlite",
			Package: "sqlite",
			Version: "v1.11.0",
			DSN:     fmt.Sprintf(`env("DB_NAME", %q)`, ds.Name),
		}, nil
	default:
		return driver{}, gen.NewConfigError("Dialect", c.Dialect, "unsupported dialect")
	}
}
