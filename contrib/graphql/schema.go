package graphql

import (
	"bytes"
	"slices"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/syssam/umlgen/compiler/gen"
	"github.com/syssam/umlgen/schema/field"
)

// Names of the types the generator declares itself.
const (
	LongScalar   = "Long"
	QueryType    = "Query"
	MutationType = "Mutation"
)

// placeholder is the field of object types without any field. GraphQL
// requires at least one field per object type.
const placeholder = "_"

// Generator renders GraphQL schemas.
type Generator struct {
	mutations bool
}

// Option configures the Generator.
type Option func(*Generator)

// WithMutations enables the Mutation root and the input types.
func WithMutations(enabled bool) Option {
	return func(g *Generator) {
		g.mutations = enabled
	}
}

// NewGenerator returns a generator. Mutations are enabled by default.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{mutations: true}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SDL returns the schema of the graph in the GraphQL schema definition
// language.
func (s *Generator) SDL(g *gen.Graph) (string, error) {
	doc, err := s.Document(g)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(doc)
	return buf.String(), nil
}

// Document returns the schema document of the graph.
func (s *Generator) Document(g *gen.Graph) (*ast.SchemaDocument, error) {
	reserved := []string{LongScalar, QueryType, MutationType}
	doc := &ast.SchemaDocument{}
	doc.Definitions = append(doc.Definitions, &ast.Definition{
		Kind:        ast.Scalar,
		Name:        LongScalar,
		Description: "64-bit signed integer.",
	})
	query := &ast.Definition{Kind: ast.Object, Name: QueryType}
	mutation := &ast.Definition{Kind: ast.Object, Name: MutationType}
	for _, t := range g.Nodes {
		if slices.Contains(reserved, t.Name) {
			return nil, gen.NewGenerationError("graphql", "", "entity name "+t.Name+" is reserved", nil)
		}
		doc.Definitions = append(doc.Definitions, object(t))
		if !t.HasKey() {
			continue
		}
		query.Fields = append(query.Fields, listField(t), lookupField(t))
		if s.mutations {
			doc.Definitions = append(doc.Definitions, input(t))
			mutation.Fields = append(mutation.Fields, createField(t), deleteField(t))
		}
	}
	if len(query.Fields) == 0 {
		query.Fields = append(query.Fields, placeholderField())
	}
	doc.Definitions = append(doc.Definitions, query)
	if len(mutation.Fields) > 0 {
		doc.Definitions = append(doc.Definitions, mutation)
	}
	return doc, nil
}

// object returns the object type of t, including the fields it inherits.
func object(t *gen.Type) *ast.Definition {
	def := &ast.Definition{Kind: ast.Object, Name: t.Name}
	for _, f := range fields(t) {
		typ := ast.NamedType(Scalar(f.Type), nil)
		if f.Key {
			typ.NonNull = true
		}
		def.Fields = append(def.Fields, &ast.FieldDefinition{Name: f.Name, Type: typ})
	}
	for _, e := range t.Edges {
		if def.Fields.ForName(e.Name) != nil {
			continue
		}
		typ := ast.NamedType(e.Type.Name, nil)
		if !e.Unique() {
			typ = ast.NonNullListType(ast.NonNullNamedType(e.Type.Name, nil), nil)
		}
		def.Fields = append(def.Fields, &ast.FieldDefinition{Name: e.Name, Type: typ})
	}
	if len(def.Fields) == 0 {
		def.Fields = append(def.Fields, placeholderField())
	}
	return def
}

// fields returns the fields of t and its ancestors, root first. Child types
// repeat the key of their root.
func fields(t *gen.Type) []*gen.Field {
	var chain []*gen.Type
	for p := t; p != nil; p = p.Parent {
		chain = append(chain, p)
	}
	var (
		all  []*gen.Field
		seen = make(map[string]bool)
	)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, f := range chain[i].Fields {
			if !seen[f.Name] {
				seen[f.Name] = true
				all = append(all, f)
			}
		}
	}
	return all
}

func input(t *gen.Type) *ast.Definition {
	def := &ast.Definition{Kind: ast.InputObject, Name: t.Name + "Input"}
	for _, f := range fields(t) {
		if f.Generated {
			continue
		}
		typ := ast.NamedType(Scalar(f.Type), nil)
		typ.NonNull = f.Key
		def.Fields = append(def.Fields, &ast.FieldDefinition{Name: f.Name, Type: typ})
	}
	if len(def.Fields) == 0 {
		def.Fields = append(def.Fields, placeholderField())
	}
	return def
}

func listField(t *gen.Type) *ast.FieldDefinition {
	return &ast.FieldDefinition{
		Name: gen.Pluralize(gen.ToFieldName(t.Name)),
		Type: ast.NonNullListType(ast.NonNullNamedType(t.Name, nil), nil),
	}
}

func lookupField(t *gen.Type) *ast.FieldDefinition {
	return &ast.FieldDefinition{
		Name:      gen.ToFieldName(t.Name),
		Arguments: ast.ArgumentDefinitionList{keyArgument(t)},
		Type:      ast.NamedType(t.Name, nil),
	}
}

func createField(t *gen.Type) *ast.FieldDefinition {
	return &ast.FieldDefinition{
		Name: "create" + t.Name,
		Arguments: ast.ArgumentDefinitionList{{
			Name: "input",
			Type: ast.NonNullNamedType(t.Name+"Input", nil),
		}},
		Type: ast.NonNullNamedType(t.Name, nil),
	}
}

func deleteField(t *gen.Type) *ast.FieldDefinition {
	return &ast.FieldDefinition{
		Name:      "delete" + t.Name,
		Arguments: ast.ArgumentDefinitionList{keyArgument(t)},
		Type:      ast.NonNullNamedType("Boolean", nil),
	}
}

func keyArgument(t *gen.Type) *ast.ArgumentDefinition {
	return &ast.ArgumentDefinition{
		Name: t.Key.Field,
		Type: ast.NonNullNamedType(Scalar(t.Key.Type), nil),
	}
}

func placeholderField() *ast.FieldDefinition {
	return &ast.FieldDefinition{Name: placeholder, Type: ast.NamedType("Boolean", nil)}
}

// Scalar returns the GraphQL scalar of a field type.
func Scalar(t field.Type) string {
	switch t {
	case field.Long:
		return LongScalar
	case field.Integer, field.Short, field.Byte:
		return "Int"
	case field.Boolean:
		return "Boolean"
	case field.Float, field.Double:
		return "Float"
	default:
		return "String"
	}
}
