package gen

import "strings"

var (
	// FeatureDDL adds the SQL schema of the model to the generated project.
	FeatureDDL = Feature{
		Name:        "sql/ddl",
		Stage:       Stable,
		Default:     true,
		Description: "Adds the CREATE TABLE statements of the model (schema.sql) to the generated project",
	}

	// FeatureMethods renders the diagram operations as stub methods.
	FeatureMethods = Feature{
		Name:        "methods",
		Stage:       Stable,
		Default:     true,
		Description: "Renders the operations of every class as stub methods returning a default value",
	}

	// FeatureGraphQL adds a GraphQL schema and a gqlgen configuration to the
	// generated project.
	FeatureGraphQL = Feature{
		Name:        "graphql",
		Stage:       Experimental,
		Default:     false,
		Description: "Adds a GraphQL schema of the model and a gqlgen configuration to the generated project",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureDDL,
		FeatureMethods,
		FeatureGraphQL,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development, and actively being tested.
	Experimental

	// Alpha features are features whose initial development was finished,
	// but we expect breaking-changes to their output.
	Alpha

	// Beta features are Alpha features that were documented, and no
	// breaking-changes are expected for them.
	Beta

	// Stable features are Beta features that were running for a while.
	Stable
)

// String implements the fmt.Stringer interface.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// A Feature of the umlgen codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string
}

// ParseFeatures returns the features with the given names. Names are
// matched case-insensitively and blank names are ignored.
func ParseFeatures(names ...string) ([]Feature, error) {
	var features []Feature
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		i := -1
		for j, f := range AllFeatures {
			if f.Name == name {
				i = j
				break
			}
		}
		if i == -1 {
			return nil, NewConfigError("Features", name, "unknown feature")
		}
		features = append(features, AllFeatures[i])
	}
	return features, nil
}
