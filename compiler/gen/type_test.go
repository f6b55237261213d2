package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/umlgen/schema"
	"github.com/syssam/umlgen/schema/field"
)

func TestType(t *testing.T) {
	c := &schema.Class{
		ID:   "c1",
		Name: "OrderItem",
		Attributes: []*schema.Attribute{
			{Name: "sku", Type: "String"},
			{Name: "active", Type: "Boolean"},
		},
		Methods: []*schema.Method{
			{Name: "total", ReturnType: "Double", Parameters: "Integer qty, Long since"},
			{Name: "reset"},
			{Name: "apply", Parameters: "broken, String code"},
		},
	}
	typ := NewType(DefaultConfig(), c)

	assert.Equal(t, "c1", typ.ID)
	assert.Equal(t, "OrderItem", typ.Name)
	assert.Same(t, c, typ.Class())
	assert.Equal(t, "order_item", typ.Label())
	assert.Equal(t, "order_items", typ.Table())
	assert.Equal(t, "orderitem", typ.Resource())
	assert.Equal(t, "orderitem", typ.Package())
	assert.Equal(t, "oi", typ.Receiver())
	assert.False(t, typ.HasKey())
	assert.False(t, typ.IsChild())
	assert.Same(t, typ, typ.Root())

	require.Len(t, typ.Fields, 2)
	assert.Same(t, typ.Fields[1], typ.Field("active"))
	assert.Nil(t, typ.Field("missing"))
	assert.Same(t, typ, typ.Fields[0].Entity())

	t.Run("methods", func(t *testing.T) {
		require.Len(t, typ.Methods, 3)
		total := typ.Methods[0]
		assert.Equal(t, field.Double, total.ReturnType)
		assert.Equal(t, "0.0", total.Default)
		assert.Equal(t, []string{"qty", "since"}, total.Names())
		assert.Equal(t, "Integer qty, Long since", total.Signature())
		assert.False(t, total.Void())

		reset := typ.Methods[1]
		assert.True(t, reset.Void())
		assert.Empty(t, reset.Default)

		apply := typ.Methods[2]
		require.Len(t, apply.Params, 1)
		assert.Equal(t, "code", apply.Params[0].Name)
	})
}

func TestField_Accessors(t *testing.T) {
	tests := []struct {
		f      Field
		getter string
		setter string
		column string
		member string
	}{
		{Field{Name: "fullName", Type: field.String}, "getFullName", "setFullName", "full_name", "FullName"},
		{Field{Name: "active", Type: field.Boolean}, "isActive", "setActive", "active", "Active"},
		{Field{Name: "id", Type: field.Long}, "getId", "setId", "id", "Id"},
	}
	for _, tt := range tests {
		t.Run(tt.f.Name, func(t *testing.T) {
			assert.Equal(t, tt.getter, tt.f.Getter())
			assert.Equal(t, tt.setter, tt.f.Setter())
			assert.Equal(t, tt.column, tt.f.Column())
			assert.Equal(t, tt.member, tt.f.StructField())
		})
	}
}

func TestEdge(t *testing.T) {
	e := Edge{Name: "orderItems", Kind: schema.Dependency, Rel: Relation{Type: M2O, Columns: []string{"order_item_id"}}}

	assert.True(t, e.M2O())
	assert.True(t, e.Unique())
	assert.True(t, e.OwnFK())
	assert.False(t, e.Required())
	assert.Equal(t, "NO ACTION", e.OnDelete())
	assert.Equal(t, "order_item_id", e.Column())
	assert.Equal(t, "getOrderItems", e.Getter())
	assert.Equal(t, "setOrderItems", e.Setter())
	assert.Equal(t, "OrderItems", e.StructField())

	e = Edge{Kind: schema.Aggregation, Inverse: true, Rel: Relation{Type: O2O}}
	assert.False(t, e.OwnFK())
	assert.Equal(t, "SET NULL", e.OnDelete())
	assert.Empty(t, e.Column())
}

func TestRel_String(t *testing.T) {
	for rel, want := range map[Rel]string{Unk: "Unknown", O2O: "O2O", O2M: "O2M", M2O: "M2O", M2M: "M2M"} {
		assert.Equal(t, want, rel.String())
	}
}

func TestType_ForeignKeys(t *testing.T) {
	g := newTestGraph(t,
		[]*schema.Class{class("a", "Order", "id", "int"), class("b", "Customer", "id", "int"), class("c", "Invoice")},
		rel("r1", schema.Association, "a", "b", "*", "1"),
		rel("r2", schema.Composition, "a", "c", "1", "1"),
	)
	o := node(t, g, "Order")
	fks := o.ForeignKeys()
	require.Len(t, fks, 2)
	assert.Equal(t, "customer_id", fks[0].Column())
	assert.Equal(t, "invoice_id", fks[1].Column())
	assert.Empty(t, node(t, g, "Customer").ForeignKeys())
}
