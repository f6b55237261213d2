package gen

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/syssam/umlgen/schema"
	"github.com/syssam/umlgen/schema/field"
)

func TestGraph_Contexts(t *testing.T) {
	g := newTestGraph(t,
		[]*schema.Class{
			{
				ID:         "p",
				Name:       "person",
				Attributes: []*schema.Attribute{{Name: "id", Type: "int"}, {Name: "name", Type: "string"}},
				Methods:    []*schema.Method{{Name: "Greet", ReturnType: "bool", Parameters: "loud:bool"}},
			},
			class("e", "employee", "name", "string", "salary", "double"),
			class("t", "team", "code", "string"),
		},
		rel("g1", schema.Generalization, "e", "p"),
		rel("r1", schema.Association, "t", "e", "*", "*"),
	)
	ctxs := g.Contexts()
	require.Len(t, ctxs, 3)

	person := ctxs[0]
	assert.Equal(t, "Person", person.Entity)
	assert.Equal(t, "people", person.Table)
	assert.True(t, person.IsParent)
	assert.Empty(t, person.Parent)
	assert.Equal(t, Key{Field: "id", Type: field.Long, Present: true, Generated: true}, person.Key)
	require.Len(t, person.Fields, 2)
	assert.True(t, person.Fields[0].IsKey)
	assert.True(t, person.Fields[0].IsGenerated)
	require.Len(t, person.Methods, 1)
	assert.Equal(t, &MethodContext{Name: "greet", ReturnType: field.Boolean, Parameters: "Boolean loud", Default: "false"}, person.Methods[0])

	employee := ctxs[1]
	assert.Equal(t, "Person", employee.Parent)
	assert.False(t, employee.IsParent)
	assert.True(t, employee.Key.Inherited)
	require.Len(t, employee.Fields, 1)
	assert.Equal(t, "salary", employee.Fields[0].Name)
	require.Len(t, employee.ManyToMany, 1)
	assert.Equal(t, &EdgeContext{Target: "Team", Field: "teams", MappedBy: "employees"}, employee.ManyToMany[0])

	team := ctxs[2]
	require.Len(t, team.ManyToMany, 1)
	assert.Equal(t, "team_employee", team.ManyToMany[0].JoinTable)
	assert.Empty(t, team.OneToMany)
	assert.NotNil(t, team.OneToMany, "empty lists encode as []")

	t.Run("json", func(t *testing.T) {
		buf, err := json.Marshal(team)
		require.NoError(t, err)
		assert.Contains(t, string(buf), `"isParent":false`)
		assert.Contains(t, string(buf), `"oneToMany":[]`)
		assert.Contains(t, string(buf), `"joinTable":"team_employee"`)
		assert.Contains(t, string(buf), `"targetEntity":"Employee"`)
	})

	t.Run("yaml", func(t *testing.T) {
		buf, err := yaml.Marshal(person)
		require.NoError(t, err)
		var got EntityContext
		require.NoError(t, yaml.Unmarshal(buf, &got))
		assert.Equal(t, person.Entity, got.Entity)
		assert.Equal(t, person.Key, got.Key)
		assert.Equal(t, person.Methods, got.Methods)
	})

	t.Run("msgpack", func(t *testing.T) {
		buf, err := msgpack.Marshal(ctxs)
		require.NoError(t, err)
		var got []*EntityContext
		require.NoError(t, msgpack.Unmarshal(buf, &got))
		require.Len(t, got, 3)
		assert.Equal(t, employee.ManyToMany, got[1].ManyToMany)
	})
}
