package schema

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"

	"github.com/syssam/umlgen/compiler/gen"
	"github.com/syssam/umlgen/dialect"
	"github.com/syssam/umlgen/dialect/sql"
	uml "github.com/syssam/umlgen/schema"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shopGraph(t *testing.T) *gen.Graph {
	t.Helper()
	g, err := gen.NewGraph(gen.DefaultConfig(), &uml.Schema{
		Classes: []*uml.Class{
			{ID: "c1", Name: "Customer", Attributes: []*uml.Attribute{{Name: "id", Type: "int"}, {Name: "name", Type: "string"}}},
			{ID: "c2", Name: "Order", Attributes: []*uml.Attribute{{Name: "id", Type: "long"}, {Name: "total", Type: "double"}}},
			{ID: "c3", Name: "Person", Attributes: []*uml.Attribute{{Name: "name", Type: "string"}}},
			{ID: "c4", Name: "Employee", Attributes: []*uml.Attribute{{Name: "name", Type: "string"}, {Name: "salary", Type: "double"}}},
			{ID: "c5", Name: "Tag", Attributes: []*uml.Attribute{{Name: "label", Type: "string"}}},
			{ID: "c6", Name: "Address", Attributes: []*uml.Attribute{{Name: "street", Type: "string"}}},
		},
		Relationships: []*uml.Relationship{
			{ID: "r1", Kind: uml.Association, SourceID: "c1", TargetID: "c2", Labels: []string{"1", "*"}},
			{ID: "r2", Kind: uml.Generalization, SourceID: "c4", TargetID: "c3"},
			{ID: "r3", Kind: uml.Association, SourceID: "c2", TargetID: "c5", Labels: []string{"*", "*"}},
			{ID: "r4", Kind: uml.Composition, SourceID: "c1", TargetID: "c6", Labels: []string{"1", "1"}},
		},
	})
	require.NoError(t, err)
	return g
}

func table(t *testing.T, g *gen.Graph, tables []*schema.Table, entity string) *schema.Table {
	t.Helper()
	tp, ok := g.Lookup(entity)
	require.True(t, ok, entity)
	for _, tbl := range tables {
		if tbl.Name == tp.Table() {
			return tbl
		}
	}
	require.Failf(t, "missing table", "%s (%s)", tp.Table(), entity)
	return nil
}

func foreignKey(t *testing.T, tbl *schema.Table, column string) *schema.ForeignKey {
	t.Helper()
	for _, fk := range tbl.ForeignKeys {
		if fk.Columns[0].Name == column {
			return fk
		}
	}
	require.Failf(t, "missing foreign key", "%s.%s", tbl.Name, column)
	return nil
}

func TestTables(t *testing.T) {
	g := shopGraph(t)
	tables, err := Tables(g, dialect.Postgres)
	require.NoError(t, err)
	require.Len(t, tables, 7)

	customers := table(t, g, tables, "Customer")
	require.NotNil(t, customers.PrimaryKey)
	require.Len(t, customers.PrimaryKey.Parts, 1)
	assert.Equal(t, "id", customers.PrimaryKey.Parts[0].C.Name)
	assert.IsType(t, &postgres.SerialType{}, customers.PrimaryKey.Parts[0].C.Type.Type)

	t.Run("ManyToOne", func(t *testing.T) {
		orders := table(t, g, tables, "Order")
		c, ok := orders.Column("customer_id")
		require.True(t, ok)
		assert.True(t, c.Type.Null)
		fk := foreignKey(t, orders, "customer_id")
		assert.Same(t, customers, fk.RefTable)
		assert.Equal(t, schema.SetNull, fk.OnDelete)
	})

	t.Run("Composition", func(t *testing.T) {
		c, ok := customers.Column("address_id")
		require.True(t, ok)
		assert.False(t, c.Type.Null)
		assert.Equal(t, &schema.StringType{T: "character varying", Size: 255}, c.Type.Type)
		assert.Equal(t, schema.Cascade, foreignKey(t, customers, "address_id").OnDelete)
	})

	t.Run("JoinTable", func(t *testing.T) {
		join := tables[len(tables)-1]
		assert.Equal(t, "order_tag", join.Name)
		require.Len(t, join.PrimaryKey.Parts, 2)
		assert.Equal(t, "order_id", join.PrimaryKey.Parts[0].C.Name)
		assert.Equal(t, "tag_id", join.PrimaryKey.Parts[1].C.Name)
		assert.Len(t, join.ForeignKeys, 2)
	})

	t.Run("Inheritance", func(t *testing.T) {
		employees := table(t, g, tables, "Employee")
		require.Len(t, employees.PrimaryKey.Parts, 1)
		assert.Equal(t, "name", employees.PrimaryKey.Parts[0].C.Name)
		_, ok := employees.Column("salary")
		assert.True(t, ok)
		fk := foreignKey(t, employees, "name")
		assert.Same(t, table(t, g, tables, "Person"), fk.RefTable)
		assert.Equal(t, schema.Cascade, fk.OnDelete)
	})

	_, err = Tables(g, "oracle")
	require.Error(t, err)
	assert.True(t, gen.IsConfigError(err))
}

func TestTables_KeylessReference(t *testing.T) {
	g, err := gen.NewGraph(nil, &uml.Schema{
		Classes: []*uml.Class{
			{ID: "a", Name: "Report", Attributes: []*uml.Attribute{{Name: "id", Type: "int"}}},
			{ID: "b", Name: "Flag", Attributes: []*uml.Attribute{{Name: "on", Type: "boolean"}}},
		},
		Relationships: []*uml.Relationship{
			{ID: "r1", Kind: uml.Association, SourceID: "a", TargetID: "b", Labels: []string{"*", "1"}},
		},
	})
	require.NoError(t, err)
	tables, err := Tables(g, dialect.SQLite)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Empty(t, tables[0].ForeignKeys)
	_, ok := tables[0].Column("flag_id")
	assert.False(t, ok)

	result := ValidateSchema(tables)
	assert.False(t, result.HasErrors())
	require.True(t, result.HasWarnings())
	assert.Contains(t, result.String(), "table has no primary key")
}

func TestPlan(t *testing.T) {
	g := shopGraph(t)
	tests := []struct {
		dialect string
		create  string
		alter   bool
	}{
		{dialect.Postgres, `CREATE TABLE "customers"`, true},
		{dialect.MySQL, "CREATE TABLE `customers`", true},
		{dialect.SQLite, "CREATE TABLE `customers`", false},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			tables, err := Tables(g, tt.dialect)
			require.NoError(t, err)
			stmts, err := Plan(context.Background(), tt.dialect, tables)
			require.NoError(t, err)
			script := Script(stmts)
			assert.Contains(t, script, tt.create)
			assert.Equal(t, 7, strings.Count(script, "CREATE TABLE"))
			assert.Contains(t, script, "FOREIGN KEY")
			assert.Equal(t, tt.alter, strings.Contains(script, "ALTER TABLE"))
		})
	}
	_, err := Plan(context.Background(), "oracle", nil)
	require.Error(t, err)
}

func TestDDL_SQLite(t *testing.T) {
	ctx := context.Background()
	ddl, err := DDL(ctx, shopGraph(t), dialect.SQLite)
	require.NoError(t, err)

	drv, err := sql.Open(dialect.SQLite, "file:ddl_test?mode=memory&cache=shared&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	defer drv.Close()
	stmts := strings.Split(strings.TrimSuffix(strings.TrimSpace(ddl), ";"), ";\n")
	require.NoError(t, Apply(ctx, drv, stmts))

	rows := &sql.Rows{}
	require.NoError(t, drv.Query(ctx, "SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name != 'sqlite_sequence'", []any{}, rows))
	defer rows.Close()
	require.True(t, rows.Next())
	var n int
	require.NoError(t, rows.Scan(&n))
	assert.Equal(t, 7, n)
}

func TestApply(t *testing.T) {
	stmts := []string{"CREATE TABLE a (id bigint)", "CREATE TABLE b (id bigint)"}

	t.Run("Commit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		for _, s := range stmts {
			mock.ExpectExec(regexp.QuoteMeta(s)).WillReturnResult(sqlmock.NewResult(0, 0))
		}
		mock.ExpectCommit()
		require.NoError(t, Apply(context.Background(), sql.OpenDB(dialect.Postgres, db), stmts))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(stmts[0])).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(stmts[1])).WillReturnError(assert.AnError)
		mock.ExpectRollback()
		err = Apply(context.Background(), sql.OpenDB(dialect.Postgres, db), stmts)
		require.ErrorIs(t, err, assert.AnError)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestValidateTable(t *testing.T) {
	id := schema.NewIntColumn("id", "bigint")
	ref := schema.NewTable("parents").AddColumns(id)
	col := &schema.Column{Name: "parent_id", Type: &schema.ColumnType{Type: &schema.IntegerType{T: "bigint"}}}
	tbl := schema.NewTable("children").AddColumns(col, col)
	tbl.SetPrimaryKey(schema.NewPrimaryKey(col))
	tbl.AddForeignKeys(&schema.ForeignKey{
		Symbol:     "children_parent_id_fkey",
		Columns:    []*schema.Column{col},
		RefTable:   ref,
		RefColumns: []*schema.Column{id},
		OnDelete:   schema.SetNull,
	})

	result := ValidateTable(tbl)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "children.parent_id: duplicate column name", result.Errors[0].Error())
	assert.Contains(t, result.Errors[1].Message, "NOT NULL")

	result = ValidateSchema([]*schema.Table{tbl})
	assert.Contains(t, result.String(), `non-existent table "parents"`)
}
