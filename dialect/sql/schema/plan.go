package schema

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/umlgen/compiler/gen"
	"github.com/syssam/umlgen/dialect"
)

// planName names the Atlas plan of a DDL export.
const planName = "umlgen"

// Plan returns the statements that create the given tables in the dialect.
//
// PostgreSQL and MySQL check that referenced tables exist, so their tables
// are created first and the foreign keys are added afterwards. SQLite can
// not add constraints to existing tables and keeps them inline.
func Plan(ctx context.Context, name string, tables []*schema.Table) ([]string, error) {
	var planner migrate.PlanApplier
	switch name {
	case dialect.Postgres:
		planner = postgres.DefaultPlan
	case dialect.MySQL:
		planner = mysql.DefaultPlan
	case dialect.SQLite:
		planner = sqlite.DefaultPlan
	default:
		return nil, gen.NewConfigError("Dialect", name, "unsupported dialect")
	}
	var changes []schema.Change
	if name == dialect.SQLite {
		for _, t := range tables {
			changes = append(changes, &schema.AddTable{T: t})
		}
	} else {
		var fks []schema.Change
		for _, t := range tables {
			create := *t
			create.ForeignKeys = nil
			changes = append(changes, &schema.AddTable{T: &create})
			if len(t.ForeignKeys) == 0 {
				continue
			}
			modify := &schema.ModifyTable{T: t}
			for _, fk := range t.ForeignKeys {
				modify.Changes = append(modify.Changes, &schema.AddForeignKey{F: fk})
			}
			fks = append(fks, modify)
		}
		changes = append(changes, fks...)
	}
	plan, err := planner.PlanChanges(ctx, planName, changes)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql/schema: plan %s changes: %w", name, err)
	}
	stmts := make([]string, 0, len(plan.Changes))
	for _, c := range plan.Changes {
		stmts = append(stmts, c.Cmd)
	}
	return stmts, nil
}

// DDL returns the SQL script that creates the tables of the graph.
// Tables failing validation abort the export.
func DDL(ctx context.Context, g *gen.Graph, name string) (string, error) {
	tables, err := Tables(g, name)
	if err != nil {
		return "", err
	}
	result := ValidateSchema(tables)
	if result.HasErrors() {
		return "", gen.NewGenerationError("ddl", "", result.String(), nil)
	}
	for _, w := range result.Warnings {
		slog.Warn("ddl table warning", "dialect", name, "table", w.Table, "reason", w.Message)
	}
	stmts, err := Plan(ctx, name, tables)
	if err != nil {
		return "", err
	}
	return Script(stmts), nil
}

// Script joins statements into an SQL script.
func Script(stmts []string) string {
	if len(stmts) == 0 {
		return ""
	}
	return strings.Join(stmts, ";\n") + ";\n"
}

// Apply executes the statements in a single transaction. Dialects with
// transactional DDL leave no partial schema behind on failure.
func Apply(ctx context.Context, drv dialect.Driver, stmts []string) error {
	tx, err := drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("dialect/sql/schema: begin: %w", err)
	}
	for _, stmt := range stmts {
		if err := tx.Exec(ctx, stmt, []any{}, nil); err != nil {
			return rollback(tx, fmt.Errorf("dialect/sql/schema: apply %q: %w", stmt, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("dialect/sql/schema: commit: %w", err)
	}
	slog.Info("ddl applied", "dialect", drv.Dialect(), "statements", len(stmts))
	return nil
}

// rollback calls to tx.Rollback and wraps the given error with the rollback
// error if occurred.
func rollback(tx dialect.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}
