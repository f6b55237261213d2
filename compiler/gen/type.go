package gen

import (
	"strings"

	"github.com/syssam/umlgen/schema"
	"github.com/syssam/umlgen/schema/field"
)

// The following types and their exported methods are used by the renderers
// to generate the assets.
type (
	// Type represents one entity of the graph: a diagram class after
	// normalization, key inference and relationship resolution.
	Type struct {
		*Config
		class *schema.Class
		// ID holds the id of the diagram class.
		ID string
		// Name holds the canonical entity name.
		Name string
		// Fields holds the persistent attributes of this type. Attributes
		// inherited from the parent are not repeated here.
		Fields []*Field
		// declared holds the names of all declared attributes, including the
		// ones elided because the parent declares them.
		declared []string
		// Methods holds the stub operations of this type.
		Methods []*Method
		// Edges holds all resolved associations of this type in
		// relationship order.
		Edges []*Edge
		// Parent holds the generalization parent, if any.
		Parent *Type
		// IsParent reports that some generalization targets this type.
		IsParent bool
		// Key holds the primary key information. Child types carry the key
		// of their root ancestor.
		Key Key
	}

	// Field holds the information of a persistent attribute.
	Field struct {
		typ *Type
		// Name is the canonical field name.
		Name string
		// Type is the canonical type. Surrogate keys are Long.
		Type field.Type
		// Key reports that this field is the primary key of its type.
		Key bool
		// Generated reports a database generated key value.
		Generated bool
	}

	// Method is a stub operation of a type.
	Method struct {
		// Name is the canonical method name.
		Name string
		// ReturnType is empty for methods without a return value.
		ReturnType field.Type
		// Parameters is the normalized parameter list ("Type name, ...").
		Parameters string
		// Params holds the well-formed entries of Parameters.
		Params []*Param
		// Default is the literal the stub body returns.
		Default string
	}

	// Param is a typed method parameter.
	Param struct {
		Name string
		Type field.Type
	}
)

// NewType creates a new type from a normalized diagram class.
func NewType(c *Config, class *schema.Class) *Type {
	t := &Type{
		Config: c,
		class:  class,
		ID:     class.ID,
		Name:   ToTypeName(class.Name),
	}
	for _, a := range class.Attributes {
		name := ToFieldName(a.Name)
		t.declared = append(t.declared, name)
		t.Fields = append(t.Fields, &Field{typ: t, Name: name, Type: field.Map(a.Type)})
	}
	for _, m := range class.Methods {
		t.Methods = append(t.Methods, newMethod(m))
	}
	return t
}

func newMethod(m *schema.Method) *Method {
	method := &Method{
		Name:       ToFieldName(m.Name),
		Parameters: m.Parameters,
	}
	if strings.TrimSpace(m.ReturnType) != "" {
		method.ReturnType = field.Map(m.ReturnType)
	}
	method.Default = field.DefaultValue(method.ReturnType)
	for _, piece := range strings.Split(m.Parameters, ",") {
		parts := strings.Fields(piece)
		if len(parts) != 2 || !field.Type(parts[0]).Valid() {
			continue
		}
		method.Params = append(method.Params, &Param{Name: parts[1], Type: field.Type(parts[0])})
	}
	return method
}

// Class returns the normalized diagram class of the type.
func (t Type) Class() *schema.Class { return t.class }

// Label returns snake-case representation of the type name.
func (t Type) Label() string { return snake(t.Name) }

// Table returns the SQL table name of the type.
func (t Type) Table() string { return tableize(t.Name) }

// Resource returns the REST resource segment of the type: its name in
// lower case.
func (t Type) Resource() string { return strings.ToLower(t.Name) }

// Package returns the Go package name of the type.
func (t Type) Package() string { return strings.ToLower(t.Name) }

// Receiver returns the receiver name of this type.
func (t Type) Receiver() string { return receiver(t.Name) }

// HasKey reports if the type has a primary key, declared or inherited.
func (t Type) HasKey() bool { return t.Key.Present }

// IsChild reports if the type has a generalization parent.
func (t Type) IsChild() bool { return t.Parent != nil }

// Root returns the top-most ancestor of the type, or the type itself.
func (t *Type) Root() *Type {
	r := t
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// KeyField returns the key field declared by this type, or nil.
func (t Type) KeyField() *Field {
	for _, f := range t.Fields {
		if f.Key {
			return f
		}
	}
	return nil
}

// Field returns the field with the given name, or nil.
func (t Type) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// OneToMany returns the O2M edges of the type.
func (t Type) OneToMany() []*Edge { return t.edges(O2M) }

// ManyToOne returns the M2O edges of the type.
func (t Type) ManyToOne() []*Edge { return t.edges(M2O) }

// OneToOne returns the O2O edges of the type.
func (t Type) OneToOne() []*Edge { return t.edges(O2O) }

// ManyToMany returns the M2M edges of the type.
func (t Type) ManyToMany() []*Edge { return t.edges(M2M) }

func (t Type) edges(rel Rel) []*Edge {
	var edges []*Edge
	for _, e := range t.Edges {
		if e.Rel.Type == rel {
			edges = append(edges, e)
		}
	}
	return edges
}

// HasComposition reports if the type owns a composition (O2O) edge. Its
// rows are deleted together with the owner.
func (t Type) HasComposition() bool {
	for _, e := range t.Edges {
		if e.O2O() && e.Composition {
			return true
		}
	}
	return false
}

// ForeignKeys returns the edges that hold a foreign-key column in the type
// table.
func (t Type) ForeignKeys() []*Edge {
	var fks []*Edge
	for _, e := range t.Edges {
		if e.OwnFK() {
			fks = append(fks, e)
		}
	}
	return fks
}
