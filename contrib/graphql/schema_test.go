package graphql

import (
	"testing"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/umlgen/compiler/gen"
	"github.com/syssam/umlgen/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graph(t *testing.T) *gen.Graph {
	t.Helper()
	g, err := gen.NewGraph(nil, &schema.Schema{
		Classes: []*schema.Class{
			{ID: "c1", Name: "Customer", Attributes: []*schema.Attribute{{Name: "id", Type: "int"}, {Name: "name", Type: "string"}, {Name: "vip", Type: "bool"}}},
			{ID: "c2", Name: "Order", Attributes: []*schema.Attribute{{Name: "code", Type: "string"}, {Name: "total", Type: "double"}}},
			{ID: "c3", Name: "Premium Customer", Attributes: []*schema.Attribute{{Name: "name", Type: "string"}, {Name: "discount", Type: "float"}}},
			{ID: "c4", Name: "Marker"},
		},
		Relationships: []*schema.Relationship{
			{ID: "r1", Kind: schema.Association, SourceID: "c1", TargetID: "c2", Labels: []string{"1", "*"}},
			{ID: "r2", Kind: schema.Generalization, SourceID: "c3", TargetID: "c1"},
		},
	})
	require.NoError(t, err)
	return g
}

func load(t *testing.T, sdl string) *ast.Schema {
	t.Helper()
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphqls", Input: sdl})
	require.NoError(t, err, sdl)
	return s
}

func TestSDL(t *testing.T) {
	sdl, err := NewGenerator().SDL(graph(t))
	require.NoError(t, err)
	s := load(t, sdl)

	customer := s.Types["Customer"]
	require.NotNil(t, customer)
	assert.Equal(t, "Long!", customer.Fields.ForName("id").Type.String())
	assert.Equal(t, "String", customer.Fields.ForName("name").Type.String())
	assert.Equal(t, "Boolean", customer.Fields.ForName("vip").Type.String())
	assert.Equal(t, "[Order!]!", customer.Fields.ForName("orders").Type.String())
	assert.Equal(t, "Customer", s.Types["Order"].Fields.ForName("customer").Type.String())
	assert.Equal(t, "String!", s.Types["Order"].Fields.ForName("code").Type.String())

	t.Run("Inheritance", func(t *testing.T) {
		premium := s.Types["PremiumCustomer"]
		require.NotNil(t, premium)
		assert.Equal(t, "Long!", premium.Fields.ForName("id").Type.String())
		assert.NotNil(t, premium.Fields.ForName("name"))
		assert.Equal(t, "Float", premium.Fields.ForName("discount").Type.String())
	})

	t.Run("Empty", func(t *testing.T) {
		marker := s.Types["Marker"]
		require.NotNil(t, marker)
		require.Len(t, marker.Fields, 1)
		assert.Equal(t, "_", marker.Fields[0].Name)
	})

	t.Run("Roots", func(t *testing.T) {
		require.NotNil(t, s.Query)
		assert.Equal(t, "[Customer!]!", s.Query.Fields.ForName("customers").Type.String())
		lookup := s.Query.Fields.ForName("order")
		require.NotNil(t, lookup)
		assert.Equal(t, "code", lookup.Arguments[0].Name)
		assert.Nil(t, s.Query.Fields.ForName("marker"))

		require.NotNil(t, s.Mutation)
		assert.NotNil(t, s.Mutation.Fields.ForName("createCustomer"))
		assert.NotNil(t, s.Mutation.Fields.ForName("deletePremiumCustomer"))
		input := s.Types["CustomerInput"]
		require.NotNil(t, input)
		assert.Nil(t, input.Fields.ForName("id"), "generated keys are not part of the input")
		assert.Equal(t, "String!", s.Types["OrderInput"].Fields.ForName("code").Type.String())
	})
}

func TestSDL_WithoutMutations(t *testing.T) {
	sdl, err := NewGenerator(WithMutations(false)).SDL(graph(t))
	require.NoError(t, err)
	s := load(t, sdl)
	assert.Nil(t, s.Mutation)
	assert.Nil(t, s.Types["CustomerInput"])
}

func TestSDL_Reserved(t *testing.T) {
	g, err := gen.NewGraph(nil, &schema.Schema{
		Classes: []*schema.Class{{ID: "q", Name: "query"}},
	})
	require.NoError(t, err)
	_, err = NewGenerator().SDL(g)
	require.Error(t, err)
	assert.True(t, gen.IsGenerationError(err))
}

func TestScalar(t *testing.T) {
	assert.Equal(t, "Long", Scalar("Long"))
	assert.Equal(t, "Int", Scalar("Short"))
	assert.Equal(t, "String", Scalar("Character"))
	assert.Equal(t, "Float", Scalar("Double"))
}
