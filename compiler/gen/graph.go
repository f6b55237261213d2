package gen

import (
	"fmt"
	"log/slog"

	"github.com/syssam/umlgen/schema"
	"github.com/syssam/umlgen/schema/edge"
)

type (
	// Graph holds the resolved entities of one class diagram.
	Graph struct {
		*Config
		// Nodes are the entities of the graph, in class order.
		Nodes []*Type
		// Diagnostics lists the relationships and attributes that were left
		// out of resolution.
		Diagnostics []*Diagnostic
		// Schema is the normalized input diagram.
		Schema *schema.Schema

		nodes map[string]*Type
	}

	// Diagnostic reports input that resolution skipped. Skipped input is
	// never an error; diagnostics make it observable.
	Diagnostic struct {
		// Relationship is the id of the skipped relationship, if any.
		Relationship string `json:"relationship,omitempty" yaml:"relationship,omitempty" msgpack:"relationship"`
		// Class is the id of the class the diagnostic refers to, if any.
		Class string `json:"class,omitempty" yaml:"class,omitempty" msgpack:"class"`
		// Message describes what was skipped and why.
		Message string `json:"message" yaml:"message" msgpack:"message"`
		// Err holds the typed error, if any.
		Err error `json:"-" yaml:"-" msgpack:"-"`
	}
)

// String implements the fmt.Stringer interface.
func (d *Diagnostic) String() string {
	if d.Err != nil {
		return d.Err.Error()
	}
	return d.Message
}

// NewGraph normalizes the given diagram and resolves it into a graph of
// entities. It fails only on structurally broken input: a nil schema or
// duplicate class ids.
func NewGraph(c *Config, s *schema.Schema) (*Graph, error) {
	if s == nil {
		return nil, NewSchemaError("", "", "schema is nil", nil)
	}
	if c == nil {
		c = DefaultConfig()
	}
	g := &Graph{
		Config: c,
		Schema: Normalize(s, c.NamePolicy),
		nodes:  make(map[string]*Type),
	}
	for _, class := range g.Schema.Classes {
		if _, ok := g.nodes[class.ID]; ok {
			return nil, NewSchemaError(class.ID, "", "duplicate class id", nil)
		}
		t := NewType(c, class)
		g.nodes[class.ID] = t
		g.Nodes = append(g.Nodes, t)
	}
	g.resolveParents()
	g.resolveEdges()
	g.elideInherited()
	g.resolveKeys()
	g.checkFields()
	g.checkNames()
	for _, d := range g.Diagnostics {
		slog.Warn("diagram input skipped", "relationship", d.Relationship, "class", d.Class, "reason", d.String())
	}
	return g, nil
}

// Node returns the type of the class with the given id.
func (g *Graph) Node(id string) (*Type, bool) {
	t, ok := g.nodes[id]
	return t, ok
}

// Lookup returns the type with the given entity name.
func (g *Graph) Lookup(name string) (*Type, bool) {
	for _, t := range g.Nodes {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Edges returns the number of resolved edges in the graph.
func (g *Graph) Edges() int {
	n := 0
	for _, t := range g.Nodes {
		n += len(t.Edges)
	}
	return n
}

func (g *Graph) diagnose(r *schema.Relationship, msg string) {
	g.Diagnostics = append(g.Diagnostics, &Diagnostic{
		Relationship: r.ID,
		Message:      msg,
		Err:          NewEdgeError(r.ID, r.SourceID, r.TargetID, msg),
	})
}

// endpoints returns the source and target types of r. Relationships with an
// unknown endpoint are reported and yield false.
func (g *Graph) endpoints(r *schema.Relationship) (src, dst *Type, ok bool) {
	src, srcOK := g.nodes[r.SourceID]
	dst, dstOK := g.nodes[r.TargetID]
	switch {
	case !srcOK && !dstOK:
		g.diagnose(r, "unknown source and target class")
	case !srcOK:
		g.diagnose(r, fmt.Sprintf("unknown source class %q", r.SourceID))
	case !dstOK:
		g.diagnose(r, fmt.Sprintf("unknown target class %q", r.TargetID))
	default:
		return src, dst, true
	}
	return nil, nil, false
}

// resolveParents runs the first resolution phase: it records the parent of
// every class from the generalization edges. When a class has several
// generalizations the last one wins.
func (g *Graph) resolveParents() {
	for _, r := range g.Schema.Relationships {
		if r.Kind != schema.Generalization {
			continue
		}
		if t, ok := g.nodes[r.TargetID]; ok {
			t.IsParent = true
		}
		child, parent, ok := g.endpoints(r)
		if !ok {
			continue
		}
		if child == parent {
			g.diagnose(r, "class generalizes itself")
			continue
		}
		if child.Parent != nil && child.Parent != parent {
			g.Diagnostics = append(g.Diagnostics, &Diagnostic{
				Relationship: r.ID,
				Class:        child.ID,
				Message:      fmt.Sprintf("parent %s replaced by %s", child.Parent.Name, parent.Name),
			})
		}
		child.Parent = parent
	}
	// Break generalization cycles at the class that closes them.
	for _, t := range g.Nodes {
		seen := map[*Type]bool{t: true}
		for p := t; p.Parent != nil; p = p.Parent {
			if seen[p.Parent] {
				g.Diagnostics = append(g.Diagnostics, &Diagnostic{
					Class:   p.ID,
					Message: fmt.Sprintf("generalization cycle through %s", p.Parent.Name),
				})
				p.Parent = nil
				break
			}
			seen[p.Parent] = true
		}
	}
}

// resolveEdges runs the second resolution phase. Every associative
// relationship is resolved once and contributes to both of its endpoints.
func (g *Graph) resolveEdges() {
	for _, r := range g.Schema.Relationships {
		if r.Kind == schema.Generalization {
			continue
		}
		if !r.Kind.Associative() {
			g.diagnose(r, fmt.Sprintf("unknown relationship kind %q", r.Kind))
			continue
		}
		src, dst, ok := g.endpoints(r)
		if !ok {
			continue
		}
		g.addEdges(r, src, dst, edge.Resolve(r.Kind, r.SourceLabel(), r.TargetLabel()))
	}
}

func (g *Graph) addEdges(r *schema.Relationship, src, dst *Type, card edge.Cardinality) {
	assoc := &Edge{
		Owner:        src,
		Type:         dst,
		Kind:         r.Kind,
		Relationship: r.ID,
	}
	var inverse *Edge
	switch {
	case card.OneToMany():
		assoc.Name = Pluralize(ToFieldName(dst.Name))
		assoc.MappedBy = ToFieldName(src.Name)
		assoc.Rel = Relation{Type: O2M, Table: dst.Table(), Columns: []string{fkColumn(src.Name)}}
		inverse = &Edge{
			Name: ToFieldName(src.Name),
			Rel:  Relation{Type: M2O, Table: dst.Table(), Columns: []string{fkColumn(src.Name)}},
		}
	case card.OneToOne():
		assoc.Name = ToFieldName(dst.Name)
		assoc.Composition = r.Kind == schema.Composition
		assoc.Rel = Relation{Type: O2O, Table: src.Table(), Columns: []string{fkColumn(dst.Name)}}
	case card.ManyToMany():
		assoc.Name = Pluralize(ToFieldName(dst.Name))
		assoc.Rel = Relation{Type: M2M, Table: joinTableName(src.Name, dst.Name), Columns: joinColumns(src.Name, dst.Name)}
		if src != dst {
			inverse = &Edge{
				Name:     Pluralize(ToFieldName(src.Name)),
				MappedBy: assoc.Name,
				Rel:      Relation{Type: M2M, Table: assoc.Rel.Table, Columns: joinColumns(dst.Name, src.Name)},
			}
		}
	default:
		assoc.Name = ToFieldName(dst.Name)
		assoc.Rel = Relation{Type: M2O, Table: src.Table(), Columns: []string{fkColumn(dst.Name)}}
		inverse = &Edge{
			Name:     Pluralize(ToFieldName(src.Name)),
			MappedBy: ToFieldName(dst.Name),
			Rel:      Relation{Type: O2M, Table: src.Table(), Columns: []string{fkColumn(dst.Name)}},
		}
	}
	src.Edges = append(src.Edges, assoc)
	if inverse == nil {
		return
	}
	inverse.Owner, inverse.Type = dst, src
	inverse.Kind, inverse.Relationship = r.Kind, r.ID
	inverse.Inverse = true
	inverse.Ref, assoc.Ref = assoc, inverse
	dst.Edges = append(dst.Edges, inverse)
}

// elideInherited removes from every child the attributes its parent
// declares. Attributes match by name only.
func (g *Graph) elideInherited() {
	for _, t := range g.Nodes {
		if t.Parent == nil {
			continue
		}
		inherited := make(map[string]struct{}, len(t.Parent.declared))
		for _, name := range t.Parent.declared {
			inherited[name] = struct{}{}
		}
		fields := t.Fields[:0]
		for _, f := range t.Fields {
			if _, ok := inherited[f.Name]; !ok {
				fields = append(fields, f)
			}
		}
		t.Fields = fields
	}
}

// resolveKeys infers the keys of root types and hands them down to their
// descendants.
func (g *Graph) resolveKeys() {
	for _, t := range g.Nodes {
		if t.Parent == nil {
			inferKey(t)
		}
	}
	for _, t := range g.Nodes {
		if t.Parent == nil {
			continue
		}
		if root := t.Root(); root.Key.Present {
			t.Key = root.Key
			t.Key.Inherited = true
		}
	}
}

// checkFields reports fields that collide within a type.
func (g *Graph) checkFields() {
	for _, t := range g.Nodes {
		seen := make(map[string]bool, len(t.Fields)+len(t.Edges))
		for _, f := range t.Fields {
			if seen[f.Name] {
				g.Diagnostics = append(g.Diagnostics, &Diagnostic{
					Class:   t.ID,
					Message: fmt.Sprintf("duplicate field %q in %s", f.Name, t.Name),
				})
			}
			seen[f.Name] = true
		}
		for _, e := range t.Edges {
			if seen[e.Name] {
				g.Diagnostics = append(g.Diagnostics, &Diagnostic{
					Relationship: e.Relationship,
					Class:        t.ID,
					Message:      fmt.Sprintf("association %q collides with a field of %s", e.Name, t.Name),
				})
			}
			seen[e.Name] = true
		}
	}
}

// checkNames reports classes whose entity name is already taken by an
// earlier class. Their files would overwrite each other.
func (g *Graph) checkNames() {
	owners := make(map[string]*Type, len(g.Nodes))
	for _, t := range g.Nodes {
		if first, ok := owners[t.Name]; ok {
			g.Diagnostics = append(g.Diagnostics, &Diagnostic{
				Class:   t.ID,
				Message: fmt.Sprintf("entity name %s is already used by class %s", t.Name, first.ID),
			})
			continue
		}
		owners[t.Name] = t
	}
}
