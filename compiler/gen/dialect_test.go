package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorFunc(t *testing.T) {
	t.Run("implements Generator", func(t *testing.T) {
		var g Generator = GeneratorFunc{ID: "noop"}

		assert.Equal(t, "noop", g.Name())
	})

	t.Run("nil funcs render nothing", func(t *testing.T) {
		g := GeneratorFunc{ID: "noop"}

		files, err := g.GenType(&Type{Name: "User"})
		require.NoError(t, err)
		assert.Empty(t, files)

		files, err = g.GenGraph(&Graph{})
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("delegates to funcs", func(t *testing.T) {
		errBoom := errors.New("boom")
		g := GeneratorFunc{
			ID: "stub",
			Type: func(t *Type) ([]*File, error) {
				return []*File{{Path: t.Name + ".txt"}}, nil
			},
			Graph: func(*Graph) ([]*File, error) {
				return nil, errBoom
			},
		}

		files, err := g.GenType(&Type{Name: "User"})
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "User.txt", files[0].Path)

		_, err = g.GenGraph(&Graph{})
		assert.ErrorIs(t, err, errBoom)
	})
}
