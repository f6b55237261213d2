// Package dialect names the SQL dialects umlgen targets and defines the
// driver interfaces shared by the DDL applier and the backup store.
//
// # Supported Dialects
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// The dialect names double as database/sql driver names: lib/pq registers
// "postgres", go-sql-driver/mysql registers "mysql" and modernc.org/sqlite
// registers "sqlite".
//
// # Driver Interface
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// # Sub-packages
//
//   - dialect/sql: database/sql backed Driver with statement statistics
//   - dialect/sql/schema: DDL planning of resolved graphs with Atlas
package dialect
