// Package schema defines the class-diagram document consumed by umlgen.
//
// A [Schema] is the raw, editor-produced description of a UML class diagram:
// ordered classes with their attributes and methods, and ordered
// relationships between classes referenced by id. Nothing in this package
// interprets the document; names are kept as typed by the user and types are
// free text. Canonicalization and inference happen in the compiler.
//
//	{
//	  "classes": [
//	    {"id": "c1", "name": "customer", "attributes": [{"name": "id", "type": "int"}]},
//	    {"id": "c2", "name": "order", "attributes": [{"name": "code", "type": "string"}]}
//	  ],
//	  "relationships": [
//	    {"id": "r1", "type": "association", "sourceId": "c1", "targetId": "c2", "labels": ["1", "*"]}
//	  ]
//	}
//
// Subpackages:
//
//   - [field]: free-text type token mapping
//   - [edge]: multiplicity label interpretation
package schema
