package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/umlgen/dialect"
)

func TestOutputConfig(t *testing.T) {
	t.Run("returns grouped output settings", func(t *testing.T) {
		c := &Config{
			Target:      "./out",
			BasePackage: "com.acme.shop",
			ArtifactID:  "shop",
			Header:      "Custom header",
		}

		output := c.Output()

		assert.Equal(t, "./out", output.Target)
		assert.Equal(t, "com.acme.shop", output.BasePackage)
		assert.Equal(t, "shop", output.ArtifactID)
		assert.Equal(t, "Custom header", output.Header)
	})

	t.Run("handles empty config", func(t *testing.T) {
		c := &Config{}

		output := c.Output()

		assert.Empty(t, output.Target)
		assert.Empty(t, output.BasePackage)
		assert.Empty(t, output.ArtifactID)
	})
}

func TestConfigFeatureEnabled(t *testing.T) {
	t.Run("returns true for enabled feature", func(t *testing.T) {
		c := &Config{Features: []Feature{FeatureDDL, FeatureMethods}}

		enabled, err := c.FeatureEnabled("sql/ddl")

		assert.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("returns false for disabled feature", func(t *testing.T) {
		c := &Config{Features: []Feature{FeatureDDL}}

		enabled, err := c.FeatureEnabled("graphql")

		assert.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("returns error for unknown feature", func(t *testing.T) {
		c := &Config{}

		_, err := c.FeatureEnabled("nonexistent")

		assert.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestConfigHasFeature(t *testing.T) {
	c := &Config{Features: []Feature{FeatureGraphQL}}

	assert.True(t, c.HasFeature("graphql"))
	assert.False(t, c.HasFeature("methods"))
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	assert.Equal(t, DefaultBasePackage, c.BasePackage)
	assert.Equal(t, DefaultArtifactID, c.ArtifactID)
	assert.Equal(t, defaultHeader, c.Header)
	assert.Equal(t, CanonicalNames, c.NamePolicy)
	assert.Equal(t, dialect.Postgres, c.Dialect)
	assert.Equal(t, 5432, c.Datasource.Port)
	assert.Positive(t, c.Workers)
	assert.True(t, c.HasFeature(FeatureDDL.Name))
	assert.True(t, c.HasFeature(FeatureMethods.Name))
	assert.False(t, c.HasFeature(FeatureGraphQL.Name))
	assert.Nil(t, c.Generator)
}

func TestDefaultDatasource(t *testing.T) {
	tests := []struct {
		dialect string
		want    Datasource
	}{
		{dialect.Postgres, Datasource{Host: "localhost", Port: 5432, Name: "app", User: "postgres"}},
		{dialect.MySQL, Datasource{Host: "localhost", Port: 3306, Name: "app", User: "root"}},
		{dialect.SQLite, Datasource{Name: "app.db"}},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultDatasource(tt.dialect))
		})
	}
}

func TestConfigFeatureEnabled_AllFeatures(t *testing.T) {
	for _, f := range AllFeatures {
		t.Run(f.Name, func(t *testing.T) {
			c := &Config{Features: []Feature{f}}

			enabled, err := c.FeatureEnabled(f.Name)

			assert.NoError(t, err)
			assert.True(t, enabled)
		})
	}
}

func TestParseFeatures(t *testing.T) {
	t.Run("matches case-insensitively", func(t *testing.T) {
		features, err := ParseFeatures(" GraphQL", "", "sql/ddl")

		assert.NoError(t, err)
		assert.Equal(t, []Feature{FeatureGraphQL, FeatureDDL}, features)
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		_, err := ParseFeatures("privacy")

		assert.True(t, IsConfigError(err))
	})

	t.Run("stage names", func(t *testing.T) {
		assert.Equal(t, "stable", FeatureDDL.Stage.String())
		assert.Equal(t, "experimental", FeatureGraphQL.Stage.String())
		assert.Equal(t, "unknown", FeatureStage(0).String())
	})
}
