// Package graphql exports resolved entity graphs as GraphQL schemas.
//
// The generated SDL declares one object type per entity, an input type per
// keyed entity, and Query and Mutation roots with list, lookup, create and
// delete fields. Child entities repeat the fields they inherit, so every
// object type is self-contained.
//
//	sdl, err := graphql.NewGenerator(graphql.WithMutations(true)).SDL(g)
//
// # Scalars
//
// Diagram types map to the built-in scalars, except Long, which is declared
// as a custom scalar and bound to gqlgen's Int64 in the generated
// gqlgen.yml:
//
//	Integer, Short, Byte -> Int
//	Long                 -> Long
//	String, Character    -> String
//	Boolean              -> Boolean
//	Float, Double        -> Float
//
// # Integration with gqlgen
//
// NewGQLGenConfig returns the gqlgen.yml of a generated Go project: the
// schema path, the follow-schema resolver layout, autobind of the model
// package and the Long binding.
package graphql
