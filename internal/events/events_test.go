package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
	drained  bool
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subj)
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func TestNATS(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes json", func(t *testing.T) {
		conn := &fakeConn{}
		n := NewNATS(conn, "umlgen.events")
		e := New(ProjectGenerated, map[string]any{"artifactId": "shop", "files": 12})
		e.RequestID = "req-1"
		require.NoError(t, n.Publish(ctx, e))

		require.Len(t, conn.subjects, 1)
		assert.Equal(t, "umlgen.events.project.generated", conn.subjects[0])
		var got Event
		require.NoError(t, json.Unmarshal(conn.payloads[0], &got))
		assert.Equal(t, e.ID, got.ID)
		assert.Equal(t, ProjectGenerated, got.Type)
		assert.Equal(t, "shop", got.Data["artifactId"])
		assert.Equal(t, "req-1", got.RequestID)

		require.NoError(t, n.Close())
		assert.True(t, conn.drained)
	})

	t.Run("wraps connection errors", func(t *testing.T) {
		conn := &fakeConn{err: errors.New("nats: connection closed")}
		err := NewNATS(conn, "x").Publish(ctx, New(BackupSaved, nil))
		require.Error(t, err)
		assert.ErrorContains(t, err, "publish backup.saved")
	})

	t.Run("canceled context", func(t *testing.T) {
		conn := &fakeConn{}
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := NewNATS(conn, "x").Publish(cctx, New(BackupSaved, nil))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, conn.subjects)
	})
}

func TestConnect(t *testing.T) {
	_, err := Connect("nats://127.0.0.1:1", "x")
	require.Error(t, err)
}

func TestDiscardAndRecorder(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, Discard{}.Publish(ctx, New(BackupDeleted, nil)))
	assert.NoError(t, Discard{}.Close())

	var r Recorder
	require.NoError(t, r.Publish(ctx, New(BackupSaved, nil)))
	require.NoError(t, r.Publish(ctx, New(BackupDeleted, nil)))
	events := r.Events()
	require.Len(t, events, 2)
	assert.Equal(t, BackupSaved, events[0].Type)
	assert.NotEqual(t, events[0].ID, events[1].ID)
}
