package schema

import "slices"

// Kind is the UML relationship kind.
type Kind string

// Relationship kinds.
const (
	Association    Kind = "association"
	Aggregation    Kind = "aggregation"
	Composition    Kind = "composition"
	Dependency     Kind = "dependency"
	Generalization Kind = "generalization"
)

// Associative reports if the kind links two entities through a reference
// (every kind except generalization).
func (k Kind) Associative() bool {
	switch k {
	case Association, Aggregation, Composition, Dependency:
		return true
	}
	return false
}

// Valid reports if k is a known relationship kind.
func (k Kind) Valid() bool {
	return k == Generalization || k.Associative()
}

// String implements the fmt.Stringer interface.
func (k Kind) String() string { return string(k) }

// Schema is a class diagram.
type Schema struct {
	Classes       []*Class        `json:"classes" yaml:"classes" msgpack:"classes"`
	Relationships []*Relationship `json:"relationships" yaml:"relationships" msgpack:"relationships"`
}

// Class is a diagram class. Attribute order matters: key inference picks
// the first eligible attribute.
type Class struct {
	ID         string       `json:"id" yaml:"id" msgpack:"id"`
	Name       string       `json:"name" yaml:"name" msgpack:"name"`
	Attributes []*Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty" msgpack:"attributes"`
	Methods    []*Method    `json:"methods,omitempty" yaml:"methods,omitempty" msgpack:"methods"`
}

// Attribute is a class attribute with a free-text type.
type Attribute struct {
	Name string `json:"name" yaml:"name" msgpack:"name"`
	Type string `json:"type" yaml:"type" msgpack:"type"`
}

// Method is a class operation. An empty ReturnType means the method returns
// nothing. Parameters holds comma-separated "name:type" pairs.
type Method struct {
	Name       string `json:"name" yaml:"name" msgpack:"name"`
	ReturnType string `json:"returnType,omitempty" yaml:"returnType,omitempty" msgpack:"returnType"`
	Parameters string `json:"parameters,omitempty" yaml:"parameters,omitempty" msgpack:"parameters"`
}

// Relationship connects the class SourceID to the class TargetID. Labels
// holds the multiplicity labels of the source and target ends; either may be
// blank and the list itself may be missing.
type Relationship struct {
	ID       string   `json:"id" yaml:"id" msgpack:"id"`
	Kind     Kind     `json:"type" yaml:"type" msgpack:"type"`
	SourceID string   `json:"sourceId" yaml:"sourceId" msgpack:"sourceId"`
	TargetID string   `json:"targetId" yaml:"targetId" msgpack:"targetId"`
	Labels   []string `json:"labels,omitempty" yaml:"labels,omitempty" msgpack:"labels"`
}

// SourceLabel returns the source-end multiplicity label, or "" if absent.
func (r *Relationship) SourceLabel() string {
	if len(r.Labels) > 0 {
		return r.Labels[0]
	}
	return ""
}

// TargetLabel returns the target-end multiplicity label, or "" if absent.
func (r *Relationship) TargetLabel() string {
	if len(r.Labels) > 1 {
		return r.Labels[1]
	}
	return ""
}

// Class returns the class with the given id, or nil.
func (s *Schema) Class(id string) *Class {
	for _, c := range s.Classes {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Clone returns a deep copy of the schema.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := &Schema{
		Classes:       make([]*Class, 0, len(s.Classes)),
		Relationships: make([]*Relationship, 0, len(s.Relationships)),
	}
	for _, cls := range s.Classes {
		if cls == nil {
			continue
		}
		n := &Class{ID: cls.ID, Name: cls.Name}
		for _, a := range cls.Attributes {
			if a != nil {
				n.Attributes = append(n.Attributes, &Attribute{Name: a.Name, Type: a.Type})
			}
		}
		for _, m := range cls.Methods {
			if m != nil {
				n.Methods = append(n.Methods, &Method{Name: m.Name, ReturnType: m.ReturnType, Parameters: m.Parameters})
			}
		}
		c.Classes = append(c.Classes, n)
	}
	for _, r := range s.Relationships {
		if r == nil {
			continue
		}
		c.Relationships = append(c.Relationships, &Relationship{
			ID:       r.ID,
			Kind:     r.Kind,
			SourceID: r.SourceID,
			TargetID: r.TargetID,
			Labels:   slices.Clone(r.Labels),
		})
	}
	return c
}
