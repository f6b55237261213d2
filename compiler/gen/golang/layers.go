package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/umlgen/compiler/gen"
)

const (
	gormPkg = "gorm.io/gorm"
	ginPkg  = "github.com/gin-gonic/gin"
)

// genRepository generates the gorm repository of a keyed type
// (repository/{entity}.go).
func genRepository(module string, t *gen.Type) *jen.File {
	f := jen.NewFilePathName(module+"/repository", "repository")
	model := jen.Qual(module+"/model", t.Name)
	name := t.Name + "Repository"
	where := jen.Lit(t.Key.Column() + " = ?")
	db := func() *jen.Statement {
		return jen.Id("r").Dot("db").Dot("WithContext").Call(jen.Id("ctx"))
	}
	recv := func() *jen.Statement { return jen.Params(jen.Id("r").Op("*").Id(name)) }

	f.Commentf("%s stores %s values with gorm.", name, t.Name)
	f.Type().Id(name).Struct(jen.Id("db").Op("*").Qual(gormPkg, "DB"))

	f.Commentf("New%s returns a repository backed by db.", name)
	f.Func().Id("New" + name).Params(jen.Id("db").Op("*").Qual(gormPkg, "DB")).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Dict{jen.Id("db"): jen.Id("db")})),
	)

	f.Comment("FindAll returns all rows.")
	f.Func().Add(recv()).Id("FindAll").Params(ctxParam()).Params(jen.Index().Add(model.Clone()), jen.Error()).Block(
		jen.Var().Id("out").Index().Add(model.Clone()),
		jen.If(jen.Err().Op(":=").Add(db()).Dot("Find").Call(jen.Op("&").Id("out")).Dot("Error"), jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Id("out"), jen.Nil()),
	)

	f.Comment("FindByID returns the row with the given key.")
	f.Func().Add(recv()).Id("FindByID").Params(ctxParam(), keyParam(t)).Params(jen.Op("*").Add(model.Clone()), jen.Error()).Block(
		jen.Var().Id("out").Add(model.Clone()),
		jen.If(jen.Err().Op(":=").Add(db()).Dot("First").Call(jen.Op("&").Id("out"), where.Clone(), jen.Id("id")).Dot("Error"), jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Op("&").Id("out"), jen.Nil()),
	)

	f.Comment("Create inserts a row.")
	f.Func().Add(recv()).Id("Create").Params(ctxParam(), jen.Id("e").Op("*").Add(model.Clone())).Error().Block(
		jen.Return(db().Dot("Create").Call(jen.Id("e")).Dot("Error")),
	)

	f.Comment("Update saves all columns of a row.")
	f.Func().Add(recv()).Id("Update").Params(ctxParam(), jen.Id("e").Op("*").Add(model.Clone())).Error().Block(
		jen.Return(db().Dot("Save").Call(jen.Id("e")).Dot("Error")),
	)

	f.Comment("Delete removes the row with the given key and reports if it existed.")
	f.Func().Add(recv()).Id("Delete").Params(ctxParam(), keyParam(t)).Params(jen.Bool(), jen.Error()).Block(
		jen.Id("res").Op(":=").Add(db()).Dot("Delete").Call(jen.Op("&").Add(model.Clone()).Values(), where.Clone(), jen.Id("id")),
		jen.Return(jen.Id("res").Dot("RowsAffected").Op(">").Lit(0), jen.Id("res").Dot("Error")),
	)
	return f
}

// genService generates the service of a keyed type (service/{entity}.go).
func genService(module string, t *gen.Type) *jen.File {
	f := jen.NewFilePathName(module+"/service", "service")
	model := jen.Qual(module+"/model", t.Name)
	repo := jen.Qual(module+"/repository", t.Name+"Repository")
	name := t.Name + "Service"
	recv := func() *jen.Statement { return jen.Params(jen.Id("s").Op("*").Id(name)) }
	call := func(method string, args ...jen.Code) *jen.Statement {
		return jen.Id("s").Dot("repo").Dot(method).Call(args...)
	}

	f.Commentf("%s implements the use cases of %s.", name, t.Name)
	f.Type().Id(name).Struct(jen.Id("repo").Op("*").Add(repo.Clone()))

	f.Commentf("New%s returns a service backed by repo.", name)
	f.Func().Id("New" + name).Params(jen.Id("repo").Op("*").Add(repo.Clone())).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Dict{jen.Id("repo"): jen.Id("repo")})),
	)

	f.Func().Add(recv()).Id("List").Params(ctxParam()).Params(jen.Index().Add(model.Clone()), jen.Error()).Block(
		jen.Return(call("FindAll", jen.Id("ctx"))),
	)

	f.Commentf("Get returns the %s with the given key or ErrNotFound.", t.Name)
	f.Func().Add(recv()).Id("Get").Params(ctxParam(), keyParam(t)).Params(jen.Op("*").Add(model.Clone()), jen.Error()).Block(
		jen.List(jen.Id("e"), jen.Err()).Op(":=").Add(call("FindByID", jen.Id("ctx"), jen.Id("id"))),
		jen.If(jen.Qual("errors", "Is").Call(jen.Err(), jen.Qual(gormPkg, "ErrRecordNotFound"))).Block(
			jen.Return(jen.Nil(), jen.Id("ErrNotFound")),
		),
		jen.Return(jen.Id("e"), jen.Err()),
	)

	f.Func().Add(recv()).Id("Create").Params(ctxParam(), jen.Id("e").Op("*").Add(model.Clone())).Error().Block(
		jen.Return(call("Create", jen.Id("ctx"), jen.Id("e"))),
	)

	f.Comment("Update replaces the stored value with e. The key of e is taken from id.")
	f.Func().Add(recv()).Id("Update").Params(ctxParam(), keyParam(t), jen.Id("e").Op("*").Add(model.Clone())).Error().Block(
		jen.If(jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("s").Dot("Get").Call(jen.Id("ctx"), jen.Id("id")), jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Err()),
		),
		jen.Id("e").Dot(gen.ToTypeName(t.Key.Field)).Op("=").Id("id"),
		jen.Return(call("Update", jen.Id("ctx"), jen.Id("e"))),
	)

	f.Func().Add(recv()).Id("Delete").Params(ctxParam(), keyParam(t)).Error().Block(
		jen.List(jen.Id("ok"), jen.Err()).Op(":=").Add(call("Delete", jen.Id("ctx"), jen.Id("id"))),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.If(jen.Op("!").Id("ok")).Block(jen.Return(jen.Id("ErrNotFound"))),
		jen.Return(jen.Nil()),
	)
	return f
}

// genController generates the gin handlers of a keyed type
// (controller/{entity}.go).
func genController(module string, t *gen.Type) *jen.File {
	f := jen.NewFilePathName(module+"/controller", "controller")
	model := jen.Qual(module+"/model", t.Name)
	svc := jen.Qual(module+"/service", t.Name+"Service")
	name := t.Name + "Controller"
	recv := func() *jen.Statement { return jen.Params(jen.Id("h").Op("*").Id(name)) }
	ctx := func() *jen.Statement { return jen.Id("c").Dot("Request").Dot("Context").Call() }
	gctx := func() jen.Code { return jen.Id("c").Op("*").Qual(ginPkg, "Context") }
	status := func(code string) jen.Code { return jen.Qual("net/http", code) }
	fail := func() jen.Code {
		return jen.If(jen.Err().Op("!=").Nil()).Block(jen.Id("abort").Call(jen.Id("c"), jen.Err()), jen.Return())
	}
	bind := func() []jen.Code {
		return []jen.Code{
			jen.Var().Id("e").Add(model.Clone()),
			jen.If(jen.Err().Op(":=").Id("c").Dot("ShouldBindJSON").Call(jen.Op("&").Id("e")), jen.Err().Op("!=").Nil()).Block(
				jen.Id("c").Dot("JSON").Call(status("StatusBadRequest"), jen.Qual(ginPkg, "H").Values(jen.Dict{jen.Lit("error"): jen.Err().Dot("Error").Call()})),
				jen.Return(),
			),
		}
	}

	f.Commentf("%s serves the REST endpoints of %s under /api/%s.", name, t.Name, t.Resource())
	f.Type().Id(name).Struct(jen.Id("svc").Op("*").Add(svc.Clone()))

	f.Commentf("New%s returns a controller backed by svc.", name)
	f.Func().Id("New" + name).Params(jen.Id("svc").Op("*").Add(svc.Clone())).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Dict{jen.Id("svc"): jen.Id("svc")})),
	)

	f.Comment("Register mounts the handlers on r.")
	f.Func().Add(recv()).Id("Register").Params(jen.Id("r").Qual(ginPkg, "IRouter")).Block(
		jen.Id("g").Op(":=").Id("r").Dot("Group").Call(jen.Lit("/api/"+t.Resource())),
		jen.Id("g").Dot("GET").Call(jen.Lit(""), jen.Id("h").Dot("list")),
		jen.Id("g").Dot("GET").Call(jen.Lit("/:id"), jen.Id("h").Dot("get")),
		jen.Id("g").Dot("POST").Call(jen.Lit(""), jen.Id("h").Dot("create")),
		jen.Id("g").Dot("PUT").Call(jen.Lit("/:id"), jen.Id("h").Dot("update")),
		jen.Id("g").Dot("DELETE").Call(jen.Lit("/:id"), jen.Id("h").Dot("delete")),
	)

	f.Func().Add(recv()).Id("list").Params(gctx()).Block(
		jen.List(jen.Id("out"), jen.Err()).Op(":=").Id("h").Dot("svc").Dot("List").Call(ctx()),
		fail(),
		jen.Id("c").Dot("JSON").Call(status("StatusOK"), jen.Id("out")),
	)

	f.Func().Add(recv()).Id("get").Params(gctx()).BlockFunc(func(g *jen.Group) {
		parseID(g, t)
		g.List(jen.Id("e"), jen.Err()).Op(":=").Id("h").Dot("svc").Dot("Get").Call(ctx(), jen.Id("id"))
		g.Add(fail())
		g.Id("c").Dot("JSON").Call(status("StatusOK"), jen.Id("e"))
	})

	f.Func().Add(recv()).Id("create").Params(gctx()).BlockFunc(func(g *jen.Group) {
		for _, s := range bind() {
			g.Add(s)
		}
		g.If(jen.Err().Op(":=").Id("h").Dot("svc").Dot("Create").Call(ctx(), jen.Op("&").Id("e")), jen.Err().Op("!=").Nil()).Block(
			jen.Id("abort").Call(jen.Id("c"), jen.Err()),
			jen.Return(),
		)
		g.Id("c").Dot("JSON").Call(status("StatusCreated"), jen.Id("e"))
	})

	f.Func().Add(recv()).Id("update").Params(gctx()).BlockFunc(func(g *jen.Group) {
		parseID(g, t)
		for _, s := range bind() {
			g.Add(s)
		}
		g.If(jen.Err().Op(":=").Id("h").Dot("svc").Dot("Update").Call(ctx(), jen.Id("id"), jen.Op("&").Id("e")), jen.Err().Op("!=").Nil()).Block(
			jen.Id("abort").Call(jen.Id("c"), jen.Err()),
			jen.Return(),
		)
		g.Id("c").Dot("JSON").Call(status("StatusOK"), jen.Id("e"))
	})

	f.Func().Add(recv()).Id("delete").Params(gctx()).BlockFunc(func(g *jen.Group) {
		parseID(g, t)
		g.If(jen.Err().Op(":=").Id("h").Dot("svc").Dot("Delete").Call(ctx(), jen.Id("id")), jen.Err().Op("!=").Nil()).Block(
			jen.Id("abort").Call(jen.Id("c"), jen.Err()),
			jen.Return(),
		)
		g.Id("c").Dot("Status").Call(status("StatusNoContent"))
	})
	return f
}

// parseID declares id from the path parameter. Generated keys are parsed
// as integers.
func parseID(g *jen.Group, t *gen.Type) {
	if !t.Key.Type.Numeric() {
		g.Id("id").Op(":=").Id("c").Dot("Param").Call(jen.Lit("id"))
		return
	}
	g.List(jen.Id("id"), jen.Err()).Op(":=").Qual("strconv", "ParseInt").Call(jen.Id("c").Dot("Param").Call(jen.Lit("id")), jen.Lit(10), jen.Lit(64))
	g.If(jen.Err().Op("!=").Nil()).Block(
		jen.Id("c").Dot("JSON").Call(jen.Qual("net/http", "StatusBadRequest"), jen.Qual(ginPkg, "H").Values(jen.Dict{jen.Lit("error"): jen.Lit("invalid id")})),
		jen.Return(),
	)
}

func ctxParam() jen.Code { return jen.Id("ctx").Qual("context", "Context") }

func keyParam(t *gen.Type) jen.Code { return jen.Id("id").Id(GoType(t.Key.Type)) }
