// Package field maps the free-text attribute types found in class diagrams
// to the canonical primitive types used by the generated entity model.
//
// Diagram editors let users type anything into an attribute's type slot, so
// the mapping is total: every token resolves to a canonical type and unknown
// tokens fall back to [String].
//
//	field.Map("int")      // Integer
//	field.Map(" BOOL ")   // Boolean
//	field.Map("Date")     // String
//	field.Map("")         // String
//
// # Type Families
//
// Key inference groups canonical types into families:
//
//   - Numeric: Integer, Long, Short, Byte
//   - Text: String, Character
//   - Floating: Float, Double
//
// Attributes of the numeric family become surrogate (generated) keys, and
// attributes of the text family become natural keys.
package field
