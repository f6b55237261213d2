package golang

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/umlgen/compiler/gen"
)

// genModel generates the model struct file (model/{entity}.go).
func genModel(module string, t *gen.Type) *jen.File {
	f := jen.NewFilePathName(module+"/model", "model")
	taken := map[string]bool{"TableName": true}
	genModelStruct(f, t, taken)
	if t.HasKey() {
		f.Commentf("TableName returns the table of %s.", t.Name)
		f.Func().Params(jen.Id(t.Name)).Id("TableName").Params().String().Block(
			jen.Return(jen.Lit(t.Table())),
		)
	}
	if t.HasFeature(gen.FeatureMethods.Name) {
		for _, m := range t.Methods {
			name := gen.ToTypeName(m.Name)
			if taken[name] {
				continue
			}
			taken[name] = true
			genMethod(f, t, m, name)
		}
	}
	return f
}

// genModelStruct generates the struct of the type. Every member name is
// recorded in taken.
func genModelStruct(f *jen.File, t *gen.Type, taken map[string]bool) {
	if t.HasKey() {
		f.Commentf("%s is the model of the %q table.", t.Name, t.Table())
	} else {
		f.Commentf("%s holds the attributes of the %s class. It has no key and is not persisted.", t.Name, t.Name)
	}
	f.Type().Id(t.Name).StructFunc(func(group *jen.Group) {
		if t.Parent != nil {
			group.Id(t.Parent.Name)
			taken[t.Parent.Name] = true
		}
		for _, fd := range t.Fields {
			name := fd.StructField()
			if taken[name] {
				continue
			}
			taken[name] = true
			group.Id(name).Id(GoType(fd.Type)).Tag(fieldTags(fd))
		}
		for _, e := range t.Edges {
			if !persistent(e) {
				continue
			}
			genEdgeMembers(group, e, taken)
		}
	})
}

// genEdgeMembers adds the struct members of an edge. Edges owning the
// foreign key also get the key member.
func genEdgeMembers(group *jen.Group, e *gen.Edge, taken map[string]bool) {
	name := e.StructField()
	fk := ForeignKey(e.Column())
	if taken[name] || e.OwnFK() && taken[fk] {
		return
	}
	taken[name] = true
	tags := map[string]string{"json": e.Name + ",omitempty"}
	switch {
	case e.OwnFK():
		taken[fk] = true
		typ := "*" + GoType(e.Type.Key.Type)
		if e.Required() {
			typ = GoType(e.Type.Key.Type)
		}
		group.Id(fk).Id(typ).Tag(map[string]string{
			"gorm": "column:" + e.Column(),
			"json": gen.ToFieldName(e.Column()) + ",omitempty",
		})
		ref := "foreignKey:" + fk
		if e.Composition {
			ref += ";constraint:OnDelete:CASCADE"
		}
		tags["gorm"] = ref
		group.Id(name).Op("*").Id(e.Type.Name).Tag(tags)
	case e.O2M():
		tags["gorm"] = "foreignKey:" + fk
		group.Id(name).Index().Id(e.Type.Name).Tag(tags)
	case e.M2M():
		tags["gorm"] = fmt.Sprintf("many2many:%s;joinForeignKey:%s;joinReferences:%s",
			e.Rel.Table, ForeignKey(e.Rel.Columns[0]), ForeignKey(e.Rel.Columns[1]))
		group.Id(name).Index().Id(e.Type.Name).Tag(tags)
	}
}

// genMethod generates the stub of an operation.
func genMethod(f *jen.File, t *gen.Type, m *gen.Method, name string) {
	body := []jen.Code{jen.Comment("TODO: implement.")}
	ret := jen.Null()
	if !m.Void() {
		ret = jen.Id(GoType(m.ReturnType))
		body = append(body, jen.Return(zero(m.ReturnType)))
	}
	f.Func().Params(jen.Id(t.Receiver()).Op("*").Id(t.Name)).Id(name).ParamsFunc(func(group *jen.Group) {
		for i, p := range m.Params {
			pname := p.Name
			if !token.IsIdentifier(pname) {
				pname = fmt.Sprintf("arg%d", i)
			}
			group.Id(pname).Id(GoType(p.Type))
		}
	}).Add(ret).Block(body...)
}

// fieldTags returns the struct tags of an attribute.
func fieldTags(f *gen.Field) map[string]string {
	gorm := []string{"column:" + f.Column()}
	if f.Key {
		gorm = append(gorm, "primaryKey")
		if f.Generated {
			gorm = append(gorm, "autoIncrement")
		} else if f.Type.Text() {
			gorm = append(gorm, "size:255")
		}
	}
	return map[string]string{
		"gorm": strings.Join(gorm, ";"),
		"json": f.Name,
	}
}

// ForeignKey returns the struct member holding the foreign-key column.
//
//	ForeignKey("customer_id")         // CustomerID
//	ForeignKey("related_person_id")   // RelatedPersonID
func ForeignKey(column string) string {
	return gen.ToTypeName(strings.TrimSuffix(column, "_id")) + "ID"
}

// persistent reports if both ends of the edge are stored in tables.
func persistent(e *gen.Edge) bool {
	return e.Owner.HasKey() && e.Type.HasKey()
}
