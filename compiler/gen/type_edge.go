package gen

import (
	"strings"

	"github.com/syssam/umlgen/schema"
)

type (
	// Edge is a resolved association between two types.
	Edge struct {
		// Name holds the field name of the edge in its owner.
		Name string
		// Type holds a reference to the type this edge is directed to.
		Type *Type
		// Owner holds the type that declares the edge.
		Owner *Type
		// Kind is the kind of the diagram relationship.
		Kind schema.Kind
		// Relationship holds the id of the diagram relationship.
		Relationship string
		// MappedBy names the field on the other side that owns the
		// association. It is set on O2M edges and on inverse M2M edges.
		MappedBy string
		// Composition marks O2O edges resolved from a composition.
		Composition bool
		// Inverse reports an edge added to the target of the relationship.
		Inverse bool
		// Ref points to the edge on the other side of the relationship.
		Ref *Edge
		// Rel holds the relational information of the edge.
		Rel Relation
	}

	// Relation holds the relational database information for edges.
	Relation struct {
		// Type holds the relation type of the edge.
		Type Rel
		// Table holds the relation table for this edge.
		// For M2O and owning O2O it's the owner table, for O2M it's the table
		// of the type the edge points to, and for M2M it's the join table.
		Table string
		// Columns holds the relation column(s) in the relation table above.
		// M2M edges list (owner_id, reference_id).
		Columns []string
	}
)

// M2M indicates if this edge is M2M edge.
func (e Edge) M2M() bool { return e.Rel.Type == M2M }

// M2O indicates if this edge is M2O edge.
func (e Edge) M2O() bool { return e.Rel.Type == M2O }

// O2M indicates if this edge is O2M edge.
func (e Edge) O2M() bool { return e.Rel.Type == O2M }

// O2O indicates if this edge is O2O edge.
func (e Edge) O2O() bool { return e.Rel.Type == O2O }

// Unique reports if the edge holds a single reference.
func (e Edge) Unique() bool { return e.O2O() || e.M2O() }

// OwnFK reports if the foreign-key column of the edge resides in the owner
// table.
func (e Edge) OwnFK() bool { return e.M2O() || e.O2O() && !e.Inverse }

// JoinTable returns the join table of an owning M2M edge, or "".
func (e Edge) JoinTable() string {
	if e.M2M() && e.MappedBy == "" {
		return e.Rel.Table
	}
	return ""
}

// Column returns the foreign-key column of the edge.
func (e Edge) Column() string {
	if len(e.Rel.Columns) == 0 {
		return ""
	}
	return e.Rel.Columns[0]
}

// StructField returns the exported Go struct member name of the edge.
func (e Edge) StructField() string { return ToTypeName(e.Name) }

// Getter returns the JavaBean getter name of the edge field.
func (e Edge) Getter() string { return "get" + upperFirst(e.Name) }

// Setter returns the JavaBean setter name of the edge field.
func (e Edge) Setter() string { return "set" + upperFirst(e.Name) }

// OnDelete returns the referential action applied to the foreign-key
// column when the referenced row is deleted: compositions cascade,
// dependencies block, and other kinds clear the reference.
func (e Edge) OnDelete() string {
	switch e.Kind {
	case schema.Composition:
		return "CASCADE"
	case schema.Dependency:
		return "NO ACTION"
	default:
		return "SET NULL"
	}
}

// Required reports if the foreign-key column is NOT NULL.
func (e Edge) Required() bool { return e.Kind == schema.Composition }

// fkColumn returns the foreign-key column that references the given type.
func fkColumn(name string) string { return snake(name) + "_id" }

// joinTableName returns the join table of an M2M relationship.
func joinTableName(source, target string) string {
	return strings.ToLower(source) + "_" + strings.ToLower(target)
}

// joinColumns returns the two columns of a join table. Self references get
// a distinct column for the referenced side.
func joinColumns(owner, ref string) []string {
	c1, c2 := strings.ToLower(owner)+"_id", strings.ToLower(ref)+"_id"
	if c1 == c2 {
		c2 = "related_" + c2
	}
	return []string{c1, c2}
}

// Rel is a relation type of an edge.
type Rel int

// Relation types.
const (
	Unk Rel = iota // Unknown.
	O2O            // One to one / has one.
	O2M            // One to many / has many.
	M2O            // Many to one (inverse perspective for O2M).
	M2M            // Many to many.
)

// String returns the relation name.
func (r Rel) String() string {
	s := "Unknown"
	switch r {
	case O2O:
		s = "O2O"
	case O2M:
		s = "O2M"
	case M2O:
		s = "M2O"
	case M2M:
		s = "M2M"
	}
	return s
}
