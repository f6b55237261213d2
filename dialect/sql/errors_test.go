package sql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestConstraintErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
	}{
		{"nil", nil, false, false},
		{"plain", errors.New("connection refused"), false, false},
		{"postgres unique", &pq.Error{Code: "23505"}, true, false},
		{"postgres foreign key", fmt.Errorf("insert: %w", &pq.Error{Code: "23503"}), false, true},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true, false},
		{"mysql parent row", &mysql.MySQLError{Number: 1451, Message: "Cannot delete"}, false, true},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: backups.room_id (2067)"), true, false},
		{"sqlite foreign key", errors.New("FOREIGN KEY constraint failed"), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, IsUniqueConstraintError(tt.err))
			assert.Equal(t, tt.foreignKey, IsForeignKeyConstraintError(tt.err))
			assert.Equal(t, tt.unique || tt.foreignKey, IsConstraintError(tt.err))
		})
	}
}
