// Package sql provides the database/sql backed dialect.Driver used by the
// DDL applier and the diagram backup store.
//
// The package imports the drivers of every supported dialect, so the
// dialect name is also the database/sql driver name.
//
//	drv, err := sql.Open(dialect.SQLite, "file:backups.db?_pragma=foreign_keys(1)")
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//
// Statement statistics and slow statement logging are available by
// wrapping the driver:
//
//	stats := sql.NewStatsDriver(drv, sql.WithSlowThreshold(200*time.Millisecond))
//	fmt.Println(stats.QueryStats().Stats())
package sql
