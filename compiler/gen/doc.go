// Package gen resolves UML class diagrams into entity graphs and renders
// them into project sources.
//
// # Architecture
//
// The pipeline follows this flow:
//
//	Class diagram (schema.Schema, loaded by compiler/load)
//	        ↓
//	   Normalize (NamePolicy)
//	        ↓
//	   Graph: parents, edges, inherited attributes, keys
//	        ↓
//	   Generator (java, golang)
//	        ↓
//	   Project: files, zip archive
//
// # Key Types
//
//   - Graph: the resolved entities of one diagram plus its Diagnostics
//   - Type: one entity with its fields, methods, edges, parent and key
//   - Edge: a resolved association (O2O, O2M, M2O, M2M)
//   - Key: the inferred primary key (see KeyStrategyFor)
//   - EntityContext: the flat export form of a Type
//   - Config: global configuration, built with functional options
//
// # Resolution
//
// NewGraph runs resolution in two phases. Generalizations are recorded
// first, so every associative relationship sees the final parent map.
// Associations are resolved once and contribute an edge to both endpoints:
//
//	source labels  target labels  source edge        target edge
//	1              *              O2M (owning)       M2O
//	*              1              M2O (owning)       O2M (mappedBy)
//	1              1              O2O                -
//	*              *              M2M (join table)   M2M (mappedBy)
//
// Blank labels default to "*" on the source and "1" on the target. A
// dependency never resolves to O2O: its source end is always many.
//
// Relationships that can not be resolved are not errors. They are recorded
// in Graph.Diagnostics and logged.
//
// # Error Handling
//
//   - SchemaError: structurally broken input (ErrInvalidSchema)
//   - ConfigError: invalid options (ErrMissingConfig)
//   - EdgeError: dropped relationships (ErrInvalidEdge)
//   - GenerationError: rendering and packaging failures (ErrGenerationFailed)
//
// # Configuration
//
//	cfg, err := gen.NewConfig(
//	    gen.WithBasePackage("com.acme.shop"),
//	    gen.WithArtifactID("shop"),
//	    gen.WithFeatures(gen.FeatureGraphQL),
//	    gen.WithGenerator(java.New()),
//	)
//	graph, err := gen.NewGraph(cfg, diagram)
//	project, err := graph.Gen(ctx)
//	err = project.WriteDir("./out")
package gen
