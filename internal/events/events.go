// Package events publishes notifications about generated projects and
// saved backups.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Event types.
const (
	ProjectGenerated = "project.generated"
	BackupSaved      = "backup.saved"
	BackupDeleted    = "backup.deleted"
)

// Event is the payload of a published message.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Time      time.Time      `json:"time"`
	Data      map[string]any `json:"data,omitempty"`
	RequestID string         `json:"requestId,omitempty"`
}

// New returns an event of the given type.
func New(typ string, data map[string]any) *Event {
	return &Event{ID: uuid.NewString(), Type: typ, Time: time.Now().UTC(), Data: data}
}

// Publisher publishes events.
type Publisher interface {
	Publish(ctx context.Context, e *Event) error
	Close() error
}

// Conn is the subset of *nats.Conn used by NATS.
type Conn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

// NATS publishes events as JSON on "<prefix>.<type>".
type NATS struct {
	conn   Conn
	prefix string
}

var _ Publisher = (*NATS)(nil)

// Connect connects to the NATS server at url.
func Connect(url, prefix string) (*NATS, error) {
	conn, err := nats.Connect(url,
		nats.Name("umlgen"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("events: connect %s: %w", url, err)
	}
	return NewNATS(conn, prefix), nil
}

// NewNATS returns a publisher on top of an open connection.
func NewNATS(conn Conn, prefix string) *NATS {
	return &NATS{conn: conn, prefix: prefix}
}

// Subject returns the subject events of the given type are published on.
func (n *NATS) Subject(typ string) string {
	return n.prefix + "." + typ
}

// Publish implements Publisher.
func (n *NATS) Publish(ctx context.Context, e *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", e.Type, err)
	}
	if err := n.conn.Publish(n.Subject(e.Type), data); err != nil {
		return fmt.Errorf("events: publish %s: %w", e.Type, err)
	}
	return nil
}

// Close drains the connection.
func (n *NATS) Close() error {
	return n.conn.Drain()
}

// Discard drops every event.
type Discard struct{}

var _ Publisher = Discard{}

// Publish implements Publisher.
func (Discard) Publish(context.Context, *Event) error { return nil }

// Close implements Publisher.
func (Discard) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []*Event
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, e *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns the recorded events in publish order.
func (r *Recorder) Events() []*Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Event(nil), r.events...)
}

// Close implements Publisher.
func (*Recorder) Close() error { return nil }
