package gen

// Generator renders a resolved graph into project files. Each target
// language or framework implements this interface.
//
//	┌──────────────────────────────┐
//	│        Graph.Gen             │
//	│  (parallel per-type render)  │
//	└──────────────┬───────────────┘
//	               │ uses
//	               ▼
//	┌──────────────────────────────┐
//	│          Generator           │
//	└──────────────┬───────────────┘
//	       ┌───────┴────────┐
//	       ▼                ▼
//	 ┌───────────┐   ┌─────────────┐
//	 │   java    │   │   golang    │
//	 │ (Spring)  │   │ (gin, gorm) │
//	 └───────────┘   └─────────────┘
//
// GenType is called once per type, concurrently with the other types, and
// must not mutate the type. GenGraph is called once per run.
type Generator interface {
	// Name returns the generator name (e.g., "java", "go").
	Name() string
	// GenType renders the files of one entity (model, repository,
	// service, controller).
	GenType(t *Type) ([]*File, error)
	// GenGraph renders the project-level files (build files, application
	// entry point, configuration).
	GenGraph(g *Graph) ([]*File, error)
}

// GeneratorFunc adapts a pair of functions to the Generator interface.
type GeneratorFunc struct {
	ID    string
	Type  func(*Type) ([]*File, error)
	Graph func(*Graph) ([]*File, error)
}

// Name implements Generator.
func (f GeneratorFunc) Name() string { return f.ID }

// GenType implements Generator.
func (f GeneratorFunc) GenType(t *Type) ([]*File, error) {
	if f.Type == nil {
		return nil, nil
	}
	return f.Type(t)
}

// GenGraph implements Generator.
func (f GeneratorFunc) GenGraph(g *Graph) ([]*File, error) {
	if f.Graph == nil {
		return nil, nil
	}
	return f.Graph(g)
}
