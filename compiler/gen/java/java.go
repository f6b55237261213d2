// Package java renders a resolved graph into a Spring Boot project with a
// JPA persistence layer.
package java

import (
	"context"
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/syssam/umlgen/compiler/gen"
	"github.com/syssam/umlgen/contrib/graphql"
	"github.com/syssam/umlgen/dialect"
	"github.com/syssam/umlgen/dialect/sql/schema"
	"github.com/syssam/umlgen/schema/field"
)

// GroupID is the Maven group of generated projects.
const GroupID = "com.example"

var (
	//go:embed template/*
	templateDir embed.FS

	funcs = map[string]any{
		"comment":     gen.Comment,
		"literal":     Literal,
		"persistent":  persistent,
		"collections": collections,
	}
	templates = gen.MustParse(gen.NewTemplate("java").Funcs(funcs).ParseFS(templateDir, "template/*.tmpl"))
)

type (
	// Generator renders Spring Boot projects.
	Generator struct{}

	// driver describes the JDBC side of a SQL dialect.
	driver struct {
		Class        string
		Dialect      string
		URL          string
		Credentials  bool
		Dependencies []dependency
	}

	dependency struct {
		GroupID    string
		ArtifactID string
	}

	// project is the data of the project-level templates.
	project struct {
		gen.Config
		GroupID     string
		Application string
		Driver      driver
		GraphQL     bool
	}
)

// New returns a Spring Boot generator.
func New() *Generator { return &Generator{} }

// Name implements gen.Generator.
func (*Generator) Name() string { return "java" }

// GenType implements gen.Generator. Types without a key are rendered as
// plain classes with no persistence layer.
func (*Generator) GenType(t *gen.Type) ([]*gen.File, error) {
	dir := SourceDir(t.BasePackage)
	names := []string{"entity"}
	paths := []string{path.Join(dir, "model", t.Name+".java")}
	if t.HasKey() {
		names = append(names, "repository", "service", "controller")
		paths = append(paths,
			path.Join(dir, "repository", t.Name+"Repository.java"),
			path.Join(dir, "service", t.Name+"Service.java"),
			path.Join(dir, "controller", t.Name+"Controller.java"),
		)
	}
	files := make([]*gen.File, 0, len(names))
	for i, name := range names {
		f, err := templates.Render(name, paths[i], t)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
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
		Config:      *g.Config,
		GroupID:     GroupID,
		Application: gen.ToTypeName(g.ArtifactID) + "Application",
		Driver:      drv,
		GraphQL:     g.HasFeature(gen.FeatureGraphQL.Name),
	}
	var files []*gen.File
	for _, r := range []struct{ name, path string }{
		{"pom", "pom.xml"},
		{"application", path.Join(SourceDir(g.BasePackage), p.Application+".java")},
		{"properties", "src/main/resources/application.properties"},
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
			Path:    "src/main/resources/db/schema.sql",
			Content: []byte(gen.Comment("--", g.Header) + ddl),
		})
	}
	if p.GraphQL {
		sdl, err := graphql.NewGenerator().SDL(g)
		if err != nil {
			return nil, err
		}
		files = append(files, &gen.File{
			Path:    "src/main/resources/graphql/schema.graphqls",
			Content: []byte(gen.Comment("#", g.Header) + sdl),
		})
	}
	return files, nil
}

// SourceDir returns the source directory of the given base package.
func SourceDir(basePackage string) string {
	return path.Join("src/main/java", strings.ReplaceAll(basePackage, ".", "/"))
}

// Literal returns the Java literal a stub method returns. Boxed Long and
// Float results need a typed literal.
func Literal(m *gen.Method) string {
	switch m.ReturnType {
	case field.Long:
		return m.Default + "L"
	case field.Float:
		return m.Default + "f"
	default:
		return m.Default
	}
}

// persistent reports if both ends of the edge are JPA entities.
func persistent(e *gen.Edge) bool {
	return e.Owner.HasKey() && e.Type.HasKey()
}

// collections reports if the type declares a collection-valued edge.
func collections(t *gen.Type) bool {
	for _, e := range t.Edges {
		if !e.Unique() {
			return true
		}
	}
	return false
}

func driverOf(c *gen.Config) (driver, error) {
	ds := c.Datasource
	switch c.Dialect {
	case dialect.Postgres:
		return driver{
			Class:        "org.postgresql.Driver",
			Dialect:      "org.hibernate.dialect.PostgreSQLDialect",
			URL:          fmt.Sprintf("jdbc:postgresql://${DB_HOST:%s}:${DB_PORT:%d}/${DB_NAME:%s}", ds.Host, ds.Port, ds.Name),
			Credentials:  true,
			Dependencies: []dependency{{GroupID: "org.postgresql", ArtifactID: "postgresql"}},
		}, nil
	case dialect.MySQL:
		return driver{
			Class:        "com.mysql.cj.jdbc.Driver",
			Dialect:      "org.hibernate.dialect.MySQLDialect",
			URL:          fmt.Sprintf("jdbc:mysql://${DB_HOST:%s}:${DB_PORT:%d}/${DB_NAME:%s}", ds.Host, ds.Port, ds.Name),
			Credentials:  true,
			Dependencies: []dependency{{GroupID: "com.mysql", ArtifactID: "mysql-connector-j"}},
		}, nil
	case dialect.SQLite:
		return driver{
			Class:   "org.sqlite.JDBC",
			Dialect: "org.hibernate.community.dialect.SQLiteDialect",
			URL:     fmt.Sprintf("jdbc:sqlite:${DB_NAME:%s}", ds.Name),
			Dependencies: []dependency{
				{GroupID: "org.xerial", ArtifactID: "sqlite-jdbc"},
				{GroupID: "org.hibernate.orm", ArtifactID: "hibernate-community-dialects"},
			},
		}, nil
	default:
		return driver{}, gen.NewConfigError("Dialect", c.Dialect, "unsupported dialect")
	}
}
