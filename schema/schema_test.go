package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/syssam/umlgen/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	for _, k := range []schema.Kind{schema.Association, schema.Aggregation, schema.Composition, schema.Dependency} {
		assert.True(t, k.Associative(), k)
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, schema.Generalization.Associative())
	assert.True(t, schema.Generalization.Valid())
	assert.False(t, schema.Kind("realization").Valid())
}

func TestRelationshipLabels(t *testing.T) {
	r := &schema.Relationship{}
	assert.Empty(t, r.SourceLabel())
	assert.Empty(t, r.TargetLabel())

	r.Labels = []string{"1"}
	assert.Equal(t, "1", r.SourceLabel())
	assert.Empty(t, r.TargetLabel())

	r.Labels = []string{"0..1", "1..*"}
	assert.Equal(t, "0..1", r.SourceLabel())
	assert.Equal(t, "1..*", r.TargetLabel())
}

func TestSchemaJSON(t *testing.T) {
	const doc = `{
		"classes": [
			{"id": "c1", "name": "Customer", "attributes": [{"name": "id", "type": "int"}],
			 "methods": [{"name": "total", "returnType": "double", "parameters": "from:int"}]}
		],
		"relationships": [
			{"id": "r1", "type": "composition", "sourceId": "c1", "targetId": "c2", "labels": ["1", "*"]}
		]
	}`
	var s schema.Schema
	require.NoError(t, json.Unmarshal([]byte(doc), &s))
	require.Len(t, s.Classes, 1)
	require.Len(t, s.Relationships, 1)
	assert.Equal(t, "double", s.Classes[0].Methods[0].ReturnType)
	assert.Equal(t, schema.Composition, s.Relationships[0].Kind)
	assert.Equal(t, "c2", s.Relationships[0].TargetID)
	assert.Same(t, s.Classes[0], s.Class("c1"))
	assert.Nil(t, s.Class("c2"))
}

func TestClone(t *testing.T) {
	s := &schema.Schema{
		Classes: []*schema.Class{
			{ID: "c1", Name: "a", Attributes: []*schema.Attribute{{Name: "x", Type: "int"}}},
			nil,
		},
		Relationships: []*schema.Relationship{
			{ID: "r1", Kind: schema.Association, SourceID: "c1", TargetID: "c1", Labels: []string{"1", "*"}},
		},
	}
	c := s.Clone()
	require.Len(t, c.Classes, 1)
	c.Classes[0].Name = "b"
	c.Classes[0].Attributes[0].Name = "y"
	c.Relationships[0].Labels[0] = "*"
	assert.Equal(t, "a", s.Classes[0].Name)
	assert.Equal(t, "x", s.Classes[0].Attributes[0].Name)
	assert.Equal(t, "1", s.Relationships[0].Labels[0])
	assert.Nil(t, (*schema.Schema)(nil).Clone())
}
