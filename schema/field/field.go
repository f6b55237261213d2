package field

import "strings"

// Type is a canonical primitive type name of the target model.
type Type string

// Canonical types.
const (
	Integer   Type = "Integer"
	Long      Type = "Long"
	Short     Type = "Short"
	Byte      Type = "Byte"
	String    Type = "String"
	Character Type = "Character"
	Boolean   Type = "Boolean"
	Float     Type = "Float"
	Double    Type = "Double"
)

// tokens holds the lower-cased source tokens the mapper recognizes.
var tokens = map[string]Type{
	"int":     Integer,
	"integer": Integer,
	"long":    Long,
	"string":  String,
	"bool":    Boolean,
	"boolean": Boolean,
	"float":   Float,
	"double":  Double,
}

// Map returns the canonical type for a free-text type token. The lookup
// ignores case and surrounding whitespace. Unknown and empty tokens map to
// String, so Map never fails.
func Map(token string) Type {
	if t, ok := tokens[strings.ToLower(strings.TrimSpace(token))]; ok {
		return t
	}
	return String
}

// String implements the fmt.Stringer interface.
func (t Type) String() string { return string(t) }

// Numeric reports if the type belongs to the integral family.
func (t Type) Numeric() bool {
	switch t {
	case Integer, Long, Short, Byte:
		return true
	}
	return false
}

// Text reports if the type belongs to the textual family.
func (t Type) Text() bool {
	return t == String || t == Character
}

// Floating reports if the type is a floating-point type.
func (t Type) Floating() bool {
	return t == Float || t == Double
}

// Valid reports if t is one of the canonical types.
func (t Type) Valid() bool {
	switch t {
	case Integer, Long, Short, Byte, String, Character, Boolean, Float, Double:
		return true
	}
	return false
}

// DefaultValue returns the literal a stub method of this return type
// returns: "0" for integral types, "0.0" for floating types, "false" for
// Boolean, the NUL character for Character and "null" for everything else.
// An empty type denotes a method without a return value and yields "".
func DefaultValue(t Type) string {
	switch {
	case t == "":
		return ""
	case t.Numeric():
		return "0"
	case t.Floating():
		return "0.0"
	case t == Boolean:
		return "false"
	case t == Character:
		return `'\u0000'`
	default:
		return "null"
	}
}
