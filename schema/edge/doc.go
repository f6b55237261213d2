// Package edge interprets the multiplicity labels attached to the two ends of
// a class-diagram relationship.
//
// Labels are free text ("1", "0..1", "*", "1..*", "many"). The only thing
// that matters for resolution is whether an end is "many", which is the case
// when its label contains a '*':
//
//	edge.Resolve(schema.Association, "1", "*")   // source one, target many
//	edge.Resolve(schema.Association, "", "")     // source many, target one
//	edge.Resolve(schema.Dependency, "1", "1")    // source many, target one
//
// # Defaults
//
// A blank source label reads as "*" and a blank target label reads as "1",
// so an unlabeled relationship describes many sources pointing at one target.
//
// # Dependencies
//
// Dependencies never resolve to one-to-one: when neither end of a dependency
// is many, the source end is read as many regardless of its label.
package edge
