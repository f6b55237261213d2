// Package store keeps backups of diagram documents, keyed by the UUID of
// the editing room they belong to.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/syssam/umlgen"
	"github.com/syssam/umlgen/dialect"
	dsql "github.com/syssam/umlgen/dialect/sql"
	"github.com/syssam/umlgen/internal/config"
)

// label names backups in NotFoundError.
const label = "backup"

// Backup is the last saved document of a room. The document is kept
// verbatim.
type Backup struct {
	RoomID    string          `json:"roomId"`
	Document  []byte          `json:"-"`
	CreatedAt strfmt.DateTime `json:"createdAt"`
	UpdatedAt strfmt.DateTime `json:"updatedAt"`
}

// Store persists backups.
type Store interface {
	// Put creates or replaces the backup of b.RoomID and reports whether
	// it was created. CreatedAt is kept on replacement.
	Put(ctx context.Context, b *Backup) (created bool, err error)
	// Get returns the backup of the room, or a *umlgen.NotFoundError.
	Get(ctx context.Context, roomID string) (*Backup, error)
	// Delete removes the backup of the room, or returns a
	// *umlgen.NotFoundError.
	Delete(ctx context.Context, roomID string) error
	// Close releases the resources of the store.
	Close() error
}

// ParseRoomID validates a room id and returns its canonical lower-case
// form.
func ParseRoomID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strfmt.IsUUID(s) {
		return "", umlgen.NewValidationError("roomId", umlgen.ErrInvalidRoomID)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", umlgen.NewValidationError("roomId", fmt.Errorf("%w: %v", umlgen.ErrInvalidRoomID, err))
	}
	return id.String(), nil
}

// Open returns the store selected by the configuration.
func Open(ctx context.Context, c *config.Config) (Store, error) {
	switch c.StoreDialect {
	case config.StoreMemory:
		return NewMemory(), nil
	case config.StoreDynamoDB:
		client, err := NewDynamoDBClient(ctx, c.AWS)
		if err != nil {
			return nil, err
		}
		return NewDynamoDB(client, c.AWS.Table), nil
	case dialect.Postgres, dialect.MySQL, dialect.SQLite:
		drv, err := openDriver(c.StoreDialect, c.StoreDSN)
		if err != nil {
			return nil, err
		}
		s := NewSQL(dsql.NewStatsDriver(drv, dsql.WithSlowThreshold(250*time.Millisecond)))
		if err := s.Migrate(ctx); err != nil {
			drv.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("store: unknown store %q", c.StoreDialect)
	}
}

// Memory is a Store held in memory.
type Memory struct {
	mu      sync.RWMutex
	backups map[string]Backup
	now     func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{backups: make(map[string]Backup), now: time.Now}
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, b *Backup) (bool, error) {
	id, err := validate(b)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := strfmt.DateTime(m.now().UTC())
	old, ok := m.backups[id]
	stored := Backup{RoomID: id, Document: append([]byte(nil), b.Document...), CreatedAt: now, UpdatedAt: now}
	if ok {
		stored.CreatedAt = old.CreatedAt
	}
	m.backups[id] = stored
	b.RoomID, b.CreatedAt, b.UpdatedAt = id, stored.CreatedAt, stored.UpdatedAt
	return !ok, nil
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, roomID string) (*Backup, error) {
	id, err := ParseRoomID(roomID)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.backups[id]
	if !ok {
		return nil, umlgen.NewNotFoundErrorWithID(label, id)
	}
	b.Document = append([]byte(nil), b.Document...)
	return &b, nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, roomID string) error {
	id, err := ParseRoomID(roomID)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.backups[id]; !ok {
		return umlgen.NewNotFoundErrorWithID(label, id)
	}
	delete(m.backups, id)
	return nil
}

// Close implements Store.
func (*Memory) Close() error { return nil }

// validate checks a backup before it is written.
func validate(b *Backup) (string, error) {
	if b == nil {
		return "", umlgen.NewValidationError("backup", errors.New("backup is nil"))
	}
	id, err := ParseRoomID(b.RoomID)
	if err != nil {
		return "", err
	}
	if len(b.Document) == 0 {
		return "", umlgen.NewValidationError("document", errors.New("document is empty"))
	}
	return id, nil
}
