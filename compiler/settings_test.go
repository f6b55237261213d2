package compiler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/syssam/umlgen/compiler/gen"
	"github.com/syssam/umlgen/dialect"
)

func TestSettings_Options(t *testing.T) {
	t.Run("applies every setting", func(t *testing.T) {
		opts, err := Settings{
			Generator:   "go",
			BasePackage: "com.acme.shop",
			ArtifactID:  "shop",
			Dialect:     "SQLite",
			NamePolicy:  "legacy",
			Features:    []string{"graphql"},
			Without:     []string{"methods"},
		}.Options()
		require.NoError(t, err)

		c, err := gen.NewConfig(opts...)
		require.NoError(t, err)
		assert.Equal(t, "go", c.Generator.Name())
		assert.Equal(t, "com.acme.shop", c.BasePackage)
		assert.Equal(t, "shop", c.ArtifactID)
		assert.Equal(t, dialect.SQLite, c.Dialect)
		assert.Equal(t, gen.LegacyNames, c.NamePolicy)
		assert.True(t, c.HasFeature(gen.FeatureGraphQL.Name))
		assert.False(t, c.HasFeature(gen.FeatureMethods.Name))
		assert.True(t, c.HasFeature(gen.FeatureDDL.Name))
	})

	t.Run("empty settings keep defaults", func(t *testing.T) {
		opts, err := Settings{}.Options()
		require.NoError(t, err)
		c, err := gen.NewConfig(opts...)
		require.NoError(t, err)
		assert.Equal(t, gen.DefaultBasePackage, c.BasePackage)
		assert.Nil(t, c.Generator)
	})

	for name, s := range map[string]Settings{
		"generator": {Generator: "cobol"},
		"policy":    {NamePolicy: "fancy"},
		"feature":   {Features: []string{"nope"}},
		"without":   {Without: []string{"nope"}},
	} {
		t.Run("rejects unknown "+name, func(t *testing.T) {
			_, err := s.Options()
			require.Error(t, err)
			assert.True(t, gen.IsConfigError(err))
		})
	}

	t.Run("invalid values fail in NewConfig", func(t *testing.T) {
		opts, err := Settings{Dialect: "oracle"}.Options()
		require.NoError(t, err)
		_, err = gen.NewConfig(opts...)
		assert.True(t, gen.IsConfigError(err))
	})
}

func TestSettings_Key(t *testing.T) {
	a := Settings{Generator: "java", Features: []string{"graphql"}}
	b := Settings{Generator: "java", Without: []string{"graphql"}}
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, a.Key(), Settings{Generator: "java", Features: []string{"graphql"}}.Key())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b,"))
	assert.Nil(t, SplitList(""))
}

func TestEncodeContexts(t *testing.T) {
	g, err := LoadGraph(shop)
	require.NoError(t, err)
	ctxs := g.Contexts()

	t.Run("json", func(t *testing.T) {
		data, err := EncodeContexts(ctxs, "")
		require.NoError(t, err)
		var got []map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		require.Len(t, got, 2)
		assert.Equal(t, "Customer", got[0]["entity"])
	})

	t.Run("yaml", func(t *testing.T) {
		data, err := EncodeContexts(ctxs, "yml")
		require.NoError(t, err)
		var got []map[string]any
		require.NoError(t, yaml.Unmarshal(data, &got))
		assert.Equal(t, "Order", got[1]["entity"])
	})

	t.Run("msgpack", func(t *testing.T) {
		data, err := EncodeContexts(ctxs, FormatMsgpack)
		require.NoError(t, err)
		var got []*gen.EntityContext
		require.NoError(t, msgpack.Unmarshal(data, &got))
		assert.Equal(t, ctxs[0].Entity, got[0].Entity)
		assert.Equal(t, ctxs[0].Key, got[0].Key)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := EncodeContexts(ctxs, "xml")
		assert.True(t, gen.IsConfigError(err))
	})
}
