package gen

import "github.com/syssam/umlgen/schema/field"

type (
	// EntityContext is the flat, self-contained description of one type.
	// It is the export format of the resolved graph and carries no
	// references to other types.
	EntityContext struct {
		Entity     string             `json:"entity" yaml:"entity" msgpack:"entity"`
		Table      string             `json:"table" yaml:"table" msgpack:"table"`
		Parent     string             `json:"parent,omitempty" yaml:"parent,omitempty" msgpack:"parent"`
		IsParent   bool               `json:"isParent" yaml:"isParent" msgpack:"isParent"`
		Key        Key                `json:"key" yaml:"key" msgpack:"key"`
		Fields     []*FieldContext    `json:"fields" yaml:"fields" msgpack:"fields"`
		OneToMany  []*EdgeContext     `json:"oneToMany" yaml:"oneToMany" msgpack:"oneToMany"`
		ManyToOne  []*EdgeContext     `json:"manyToOne" yaml:"manyToOne" msgpack:"manyToOne"`
		OneToOne   []*EdgeContext     `json:"oneToOne" yaml:"oneToOne" msgpack:"oneToOne"`
		ManyToMany []*EdgeContext     `json:"manyToMany" yaml:"manyToMany" msgpack:"manyToMany"`
		Methods    []*MethodContext   `json:"methods" yaml:"methods" msgpack:"methods"`
	}

	// FieldContext describes one attribute of an entity.
	FieldContext struct {
		Name        string     `json:"name" yaml:"name" msgpack:"name"`
		Type        field.Type `json:"type" yaml:"type" msgpack:"type"`
		IsKey       bool       `json:"isKey" yaml:"isKey" msgpack:"isKey"`
		IsGenerated bool       `json:"isGeneratedKey" yaml:"isGeneratedKey" msgpack:"isGeneratedKey"`
	}

	// EdgeContext describes one association of an entity.
	EdgeContext struct {
		Target      string `json:"targetEntity" yaml:"targetEntity" msgpack:"targetEntity"`
		Field       string `json:"fieldName" yaml:"fieldName" msgpack:"fieldName"`
		MappedBy    string `json:"mappedBy,omitempty" yaml:"mappedBy,omitempty" msgpack:"mappedBy"`
		JoinTable   string `json:"joinTable,omitempty" yaml:"joinTable,omitempty" msgpack:"joinTable"`
		Composition bool   `json:"composition,omitempty" yaml:"composition,omitempty" msgpack:"composition"`
	}

	// MethodContext describes one stub operation of an entity.
	MethodContext struct {
		Name       string     `json:"name" yaml:"name" msgpack:"name"`
		ReturnType field.Type `json:"returnType" yaml:"returnType" msgpack:"returnType"`
		Parameters string     `json:"parameters" yaml:"parameters" msgpack:"parameters"`
		Default    string     `json:"defaultValue" yaml:"defaultValue" msgpack:"defaultValue"`
	}
)

// Context returns the entity context of the type.
func (t *Type) Context() *EntityContext {
	ctx := &EntityContext{
		Entity:     t.Name,
		Table:      t.Table(),
		IsParent:   t.IsParent,
		Key:        t.Key,
		Fields:     make([]*FieldContext, 0, len(t.Fields)),
		OneToMany:  edgeContexts(t.OneToMany()),
		ManyToOne:  edgeContexts(t.ManyToOne()),
		OneToOne:   edgeContexts(t.OneToOne()),
		ManyToMany: edgeContexts(t.ManyToMany()),
		Methods:    make([]*MethodContext, 0, len(t.Methods)),
	}
	if t.Parent != nil {
		ctx.Parent = t.Parent.Name
	}
	for _, f := range t.Fields {
		ctx.Fields = append(ctx.Fields, &FieldContext{
			Name:        f.Name,
			Type:        f.Type,
			IsKey:       f.Key,
			IsGenerated: f.Generated,
		})
	}
	for _, m := range t.Methods {
		ctx.Methods = append(ctx.Methods, &MethodContext{
			Name:       m.Name,
			ReturnType: m.ReturnType,
			Parameters: m.Parameters,
			Default:    m.Default,
		})
	}
	return ctx
}

// Contexts returns the entity contexts of all types in class order.
func (g *Graph) Contexts() []*EntityContext {
	ctxs := make([]*EntityContext, len(g.Nodes))
	for i, t := range g.Nodes {
		ctxs[i] = t.Context()
	}
	return ctxs
}

func edgeContexts(edges []*Edge) []*EdgeContext {
	ctxs := make([]*EdgeContext, 0, len(edges))
	for _, e := range edges {
		ctxs = append(ctxs, &EdgeContext{
			Target:      e.Type.Name,
			Field:       e.Name,
			MappedBy:    e.MappedBy,
			JoinTable:   e.JoinTable(),
			Composition: e.Composition,
		})
	}
	return ctxs
}
