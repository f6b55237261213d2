package store

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/syssam/umlgen"
	"github.com/syssam/umlgen/dialect"
	dsql "github.com/syssam/umlgen/dialect/sql"
)

// Table is the name of the backups table.
const Table = "umlgen_backups"

// SQL is a Store on top of a SQL database. Timestamps are stored as unix
// milliseconds.
type SQL struct {
	drv dialect.Driver
	now func() time.Time
}

var _ Store = (*SQL)(nil)

// NewSQL returns a store using the given driver. Migrate creates its table.
func NewSQL(drv dialect.Driver) *SQL {
	return &SQL{drv: drv, now: time.Now}
}

// openDriver opens a connection of the dialect. PostgreSQL goes through the
// pgx driver.
func openDriver(name, dsn string) (*dsql.Driver, error) {
	if name != dialect.Postgres {
		return dsql.Open(name, dsn)
	}
	db, err := stdsql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return dsql.OpenDB(dialect.Postgres, db), nil
}

// Migrate creates the backups table if it does not exist.
func (s *SQL) Migrate(ctx context.Context) error {
	doc := "text"
	if s.drv.Dialect() == dialect.MySQL {
		doc = "longtext"
	}
	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (room_id varchar(36) NOT NULL PRIMARY KEY, document %s NOT NULL, created_at bigint NOT NULL, updated_at bigint NOT NULL)",
		Table, doc,
	)
	if err := s.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Put implements Store. The row is inserted first and updated when the
// room already has one.
func (s *SQL) Put(ctx context.Context, b *Backup) (bool, error) {
	id, err := validate(b)
	if err != nil {
		return false, err
	}
	now := s.now().UTC().Truncate(time.Millisecond)
	ms := now.UnixMilli()
	insert := fmt.Sprintf("INSERT INTO %s (room_id, document, created_at, updated_at) VALUES (%s, %s, %s, %s)",
		Table, s.arg(1), s.arg(2), s.arg(3), s.arg(4))
	err = s.drv.Exec(ctx, insert, []any{id, string(b.Document), ms, ms}, nil)
	switch {
	case err == nil:
		b.RoomID, b.CreatedAt, b.UpdatedAt = id, strfmt.DateTime(now), strfmt.DateTime(now)
		return true, nil
	case !dsql.IsUniqueConstraintError(err):
		return false, fmt.Errorf("store: insert backup %s: %w", id, err)
	}
	update := fmt.Sprintf("UPDATE %s SET document = %s, updated_at = %s WHERE room_id = %s",
		Table, s.arg(1), s.arg(2), s.arg(3))
	if err := s.drv.Exec(ctx, update, []any{string(b.Document), ms, id}, nil); err != nil {
		return false, fmt.Errorf("store: update backup %s: %w", id, err)
	}
	stored, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	b.RoomID, b.CreatedAt, b.UpdatedAt = id, stored.CreatedAt, stored.UpdatedAt
	return false, nil
}

// Get implements Store.
func (s *SQL) Get(ctx context.Context, roomID string) (*Backup, error) {
	id, err := ParseRoomID(roomID)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT document, created_at, updated_at FROM %s WHERE room_id = %s", Table, s.arg(1))
	rows := &dsql.Rows{}
	if err := s.drv.Query(ctx, query, []any{id}, rows); err != nil {
		return nil, fmt.Errorf("store: get backup %s: %w", id, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("store: get backup %s: %w", id, err)
		}
		return nil, umlgen.NewNotFoundErrorWithID(label, id)
	}
	var (
		doc              string
		created, updated int64
	)
	if err := rows.Scan(&doc, &created, &updated); err != nil {
		return nil, fmt.Errorf("store: scan backup %s: %w", id, err)
	}
	return &Backup{
		RoomID:    id,
		Document:  []byte(doc),
		CreatedAt: strfmt.DateTime(time.UnixMilli(created).UTC()),
		UpdatedAt: strfmt.DateTime(time.UnixMilli(updated).UTC()),
	}, nil
}

// Delete implements Store.
func (s *SQL) Delete(ctx context.Context, roomID string) error {
	id, err := ParseRoomID(roomID)
	if err != nil {
		return err
	}
	var res stdsql.Result
	query := fmt.Sprintf("DELETE FROM %s WHERE room_id = %s", Table, s.arg(1))
	if err := s.drv.Exec(ctx, query, []any{id}, &res); err != nil {
		return fmt.Errorf("store: delete backup %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete backup %s: %w", id, err)
	}
	if n == 0 {
		return umlgen.NewNotFoundErrorWithID(label, id)
	}
	return nil
}

// Close implements Store.
func (s *SQL) Close() error { return s.drv.Close() }

func (s *SQL) arg(i int) string {
	return dsql.Placeholder(s.drv.Dialect(), i)
}
