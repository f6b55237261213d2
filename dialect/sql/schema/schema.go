// Package schema translates resolved entity graphs into relational tables
// and plans their DDL with Atlas.
package schema

import (
	"fmt"

	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/umlgen/compiler/gen"
	"github.com/syssam/umlgen/dialect"
	"github.com/syssam/umlgen/schema/field"
)

// Tables returns the tables of the graph in the given dialect: one table
// per type, in class order, followed by the join tables of the owning M2M
// edges.
//
// Child tables share the key column of their root and reference the
// parent table with it. Foreign-key columns are added for M2O and owning
// O2O edges. Types without a key get a table without a primary key and can
// not be referenced.
func Tables(g *gen.Graph, name string) ([]*schema.Table, error) {
	if !dialect.Valid(name) {
		return nil, gen.NewConfigError("Dialect", name, "unsupported dialect")
	}
	b := &builder{dialect: name, byType: make(map[*gen.Type]*schema.Table)}
	for _, t := range g.Nodes {
		b.entity(t)
	}
	for _, t := range g.Nodes {
		b.references(t)
	}
	for _, t := range g.Nodes {
		for _, e := range t.ManyToMany() {
			b.join(e)
		}
	}
	return b.tables, nil
}

type builder struct {
	dialect string
	tables  []*schema.Table
	byType  map[*gen.Type]*schema.Table
}

func (b *builder) entity(t *gen.Type) {
	tbl := schema.NewTable(t.Table())
	if t.IsChild() && t.HasKey() {
		c := b.column(t.Key.Column(), t.Key.Type, false, false)
		tbl.AddColumns(c)
		tbl.SetPrimaryKey(schema.NewPrimaryKey(c))
	}
	for _, f := range t.Fields {
		if _, ok := tbl.Column(f.Column()); ok {
			continue
		}
		c := b.column(f.Column(), f.Type, !f.Key, f.Key && f.Generated)
		tbl.AddColumns(c)
		if f.Key {
			tbl.SetPrimaryKey(schema.NewPrimaryKey(c))
		}
	}
	b.byType[t] = tbl
	b.tables = append(b.tables, tbl)
}

func (b *builder) references(t *gen.Type) {
	tbl := b.byType[t]
	if t.IsChild() && t.HasKey() {
		c, _ := tbl.Column(t.Key.Column())
		b.foreignKey(tbl, c, t.Parent, schema.Cascade)
	}
	for _, e := range t.ForeignKeys() {
		if !e.Type.HasKey() {
			continue
		}
		if _, ok := tbl.Column(e.Column()); ok {
			continue
		}
		c := b.column(e.Column(), e.Type.Key.Type, !e.Required(), false)
		tbl.AddColumns(c)
		b.foreignKey(tbl, c, e.Type, referenceOption(e.OnDelete()))
	}
}

func (b *builder) join(e *gen.Edge) {
	name := e.JoinTable()
	if name == "" || !e.Owner.HasKey() || !e.Type.HasKey() {
		return
	}
	for _, t := range b.tables {
		if t.Name == name {
			return
		}
	}
	var (
		tbl   = schema.NewTable(name)
		owner = b.column(e.Rel.Columns[0], e.Owner.Key.Type, false, false)
		ref   = b.column(e.Rel.Columns[1], e.Type.Key.Type, false, false)
	)
	tbl.AddColumns(owner, ref)
	tbl.SetPrimaryKey(schema.NewPrimaryKey(owner, ref))
	b.foreignKey(tbl, owner, e.Owner, schema.Cascade)
	b.foreignKey(tbl, ref, e.Type, schema.Cascade)
	b.tables = append(b.tables, tbl)
}

func (b *builder) foreignKey(tbl *schema.Table, c *schema.Column, ref *gen.Type, onDelete schema.ReferenceOption) {
	refTable := b.byType[ref]
	refColumn, ok := refTable.Column(ref.Key.Column())
	if !ok {
		return
	}
	tbl.AddForeignKeys(&schema.ForeignKey{
		Symbol:     fmt.Sprintf("%s_%s_fkey", tbl.Name, c.Name),
		Columns:    []*schema.Column{c},
		RefTable:   refTable,
		RefColumns: []*schema.Column{refColumn},
		OnUpdate:   schema.NoAction,
		OnDelete:   onDelete,
	})
}

func (b *builder) column(name string, t field.Type, null, increment bool) *schema.Column {
	c := &schema.Column{
		Name: name,
		Type: &schema.ColumnType{Type: b.columnType(t, increment), Null: null},
	}
	if increment {
		switch b.dialect {
		case dialect.MySQL:
			c.AddAttrs(&mysql.AutoIncrement{})
		case dialect.SQLite:
			c.AddAttrs(&sqlite.AutoIncrement{})
		}
	}
	return c
}

func (b *builder) columnType(t field.Type, increment bool) schema.Type {
	switch b.dialect {
	case dialect.Postgres:
		return postgresType(t, increment)
	case dialect.MySQL:
		return mysqlType(t)
	default:
		return sqliteType(t)
	}
}

func postgresType(t field.Type, increment bool) schema.Type {
	switch t {
	case field.Long:
		if increment {
			return &postgres.SerialType{T: postgres.TypeBigSerial}
		}
		return &schema.IntegerType{T: "bigint"}
	case field.Integer:
		return &schema.IntegerType{T: "integer"}
	case field.Short, field.Byte:
		return &schema.IntegerType{T: "smallint"}
	case field.Boolean:
		return &schema.BoolType{T: "boolean"}
	case field.Float:
		return &schema.FloatType{T: "real"}
	case field.Double:
		return &schema.FloatType{T: "double precision"}
	case field.Character:
		return &schema.StringType{T: "character", Size: 1}
	default:
		return &schema.StringType{T: "character varying", Size: 255}
	}
}

func mysqlType(t field.Type) schema.Type {
	switch t {
	case field.Long:
		return &schema.IntegerType{T: "bigint"}
	case field.Integer:
		return &schema.IntegerType{T: "int"}
	case field.Short:
		return &schema.IntegerType{T: "smallint"}
	case field.Byte:
		return &schema.IntegerType{T: "tinyint"}
	case field.Boolean:
		return &schema.BoolType{T: "bool"}
	case field.Float:
		return &schema.FloatType{T: "float"}
	case field.Double:
		return &schema.FloatType{T: "double"}
	case field.Character:
		return &schema.StringType{T: "char", Size: 1}
	default:
		return &schema.StringType{T: "varchar", Size: 255}
	}
}

// sqliteType maps every integral type to "integer", the only type SQLite
// accepts for AUTOINCREMENT keys.
func sqliteType(t field.Type) schema.Type {
	switch {
	case t.Numeric():
		return &schema.IntegerType{T: "integer"}
	case t == field.Boolean:
		return &schema.BoolType{T: "boolean"}
	case t.Floating():
		return &schema.FloatType{T: "real"}
	default:
		return &schema.StringType{T: "text"}
	}
}

func referenceOption(action string) schema.ReferenceOption {
	switch action {
	case "CASCADE":
		return schema.Cascade
	case "NO ACTION":
		return schema.NoAction
	default:
		return schema.SetNull
	}
}
