package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := NewSchemaError("c1", "code", "duplicate", cause)

		assert.Contains(t, err.Error(), "umlgen: schema error")
		assert.Contains(t, err.Error(), "class c1")
		assert.Contains(t, err.Error(), "attribute code")
		assert.Contains(t, err.Error(), "duplicate")
		assert.Contains(t, err.Error(), "underlying error")
	})

	t.Run("Error message with class only", func(t *testing.T) {
		err := &SchemaError{Class: "c1"}
		assert.Contains(t, err.Error(), "class c1")
		assert.NotContains(t, err.Error(), "attribute")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewSchemaError("c1", "", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("Is matches ErrInvalidSchema", func(t *testing.T) {
		err := fmt.Errorf("load: %w", NewSchemaError("", "", "nil schema", nil))
		assert.ErrorIs(t, err, ErrInvalidSchema)
		assert.True(t, IsSchemaError(err))
		assert.False(t, IsSchemaError(errors.New("other")))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("NamePolicy", "fancy", "unknown policy")

		assert.Contains(t, err.Error(), "umlgen: config error")
		assert.Contains(t, err.Error(), "NamePolicy")
		assert.Contains(t, err.Error(), "fancy")
		assert.Contains(t, err.Error(), "unknown policy")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("ArtifactID", nil, "cannot be empty")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrMissingConfig", func(t *testing.T) {
		err := NewConfigError("ArtifactID", nil, "cannot be empty")
		assert.ErrorIs(t, err, ErrMissingConfig)
		assert.True(t, IsConfigError(err))
	})
}

func TestEdgeError(t *testing.T) {
	err := NewEdgeError("r1", "c1", "c9", "unknown target class")
	assert.Equal(t, "umlgen: relationship r1 (c1 -> c9): unknown target class", err.Error())
	assert.ErrorIs(t, err, ErrInvalidEdge)
	assert.True(t, IsEdgeError(err))
	assert.False(t, IsEdgeError(NewConfigError("x", nil, "y")))
}

func TestGenerationError(t *testing.T) {
	cause := errors.New("template: no such field")
	err := NewGenerationError("render", "model/Customer.java", "execute template", cause)

	assert.Contains(t, err.Error(), "phase render")
	assert.Contains(t, err.Error(), "file: model/Customer.java")
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsGenerationError(err))
}
