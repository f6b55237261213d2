package gen

import "github.com/syssam/umlgen/schema/field"

// KeyKind classifies how an attribute serves as a primary key.
type KeyKind int

const (
	// NoKey marks types that can not be keys.
	NoKey KeyKind = iota
	// Surrogate keys are system generated numbers.
	Surrogate
	// Natural keys carry business data and are never generated.
	Natural
)

// String implements the fmt.Stringer interface.
func (k KeyKind) String() string {
	switch k {
	case Surrogate:
		return "surrogate"
	case Natural:
		return "natural"
	default:
		return "none"
	}
}

// KeyStrategy is the outcome of the key policy for one attribute type.
type KeyStrategy struct {
	Kind KeyKind
	// Type is the type of the key column. Surrogate keys are always Long.
	Type field.Type
}

// Generated reports if key values are assigned by the database.
func (s KeyStrategy) Generated() bool { return s.Kind == Surrogate }

// Eligible reports if the attribute type can be a key.
func (s KeyStrategy) Eligible() bool { return s.Kind != NoKey }

// KeyStrategyFor returns the key strategy of an attribute of type t.
// Integral types become generated Long keys, textual types become natural
// keys of their own type and everything else is not eligible.
func KeyStrategyFor(t field.Type) KeyStrategy {
	switch {
	case t.Numeric():
		return KeyStrategy{Kind: Surrogate, Type: field.Long}
	case t.Text():
		return KeyStrategy{Kind: Natural, Type: t}
	default:
		return KeyStrategy{Kind: NoKey}
	}
}

// Key describes the primary key of an entity.
type Key struct {
	// Field is the key field name.
	Field string `json:"field,omitempty" yaml:"field,omitempty" msgpack:"field"`
	// Type is the key type after the key policy was applied.
	Type field.Type `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type"`
	// Present is false for entities without an eligible attribute.
	Present bool `json:"present" yaml:"present" msgpack:"present"`
	// Generated reports a surrogate, database generated key.
	Generated bool `json:"generated" yaml:"generated" msgpack:"generated"`
	// Inherited reports a key declared by a root ancestor.
	Inherited bool `json:"inherited" yaml:"inherited" msgpack:"inherited"`
}

// Setter returns the name of the JavaBean setter of the key field.
func (k Key) Setter() string {
	if !k.Present {
		return ""
	}
	return "set" + upperFirst(k.Field)
}

// Column returns the SQL column of the key field.
func (k Key) Column() string {
	if !k.Present {
		return ""
	}
	return snake(k.Field)
}

// Getter returns the name of the JavaBean getter of the key field.
func (k Key) Getter() string {
	if !k.Present {
		return ""
	}
	return "get" + upperFirst(k.Field)
}

// inferKey marks the first eligible field of a root type as its key.
func inferKey(t *Type) {
	for _, f := range t.Fields {
		s := KeyStrategyFor(f.Type)
		if !s.Eligible() {
			continue
		}
		f.Key = true
		f.Generated = s.Generated()
		f.Type = s.Type
		t.Key = Key{
			Field:     f.Name,
			Type:      s.Type,
			Present:   true,
			Generated: s.Generated(),
		}
		return
	}
}
