package edge

import (
	"strings"

	"github.com/syssam/umlgen/schema"
)

// Default labels applied to blank relationship ends.
const (
	DefaultSource = "*"
	DefaultTarget = "1"
)

// Cardinality is the resolved multiplicity of both ends of a relationship.
type Cardinality struct {
	// Source and Target hold the effective labels after defaulting.
	Source string
	Target string

	SourceMany bool
	TargetMany bool
}

// Resolve computes the cardinality of a relationship of the given kind from
// its raw labels.
func Resolve(kind schema.Kind, source, target string) Cardinality {
	source, target = strings.TrimSpace(source), strings.TrimSpace(target)
	if kind == schema.Dependency && source == "" && target == "" {
		source, target = DefaultSource, DefaultTarget
	}
	if source == "" {
		source = DefaultSource
	}
	if target == "" {
		target = DefaultTarget
	}
	c := Cardinality{
		Source:     source,
		Target:     target,
		SourceMany: Many(source),
		TargetMany: Many(target),
	}
	if kind == schema.Dependency && !c.SourceMany && !c.TargetMany {
		c.SourceMany = true
	}
	return c
}

// Many reports if a multiplicity label denotes more than one instance.
func Many(label string) bool {
	return strings.Contains(label, "*")
}

// OneToOne reports if neither end is many.
func (c Cardinality) OneToOne() bool { return !c.SourceMany && !c.TargetMany }

// OneToMany reports if one source relates to many targets.
func (c Cardinality) OneToMany() bool { return !c.SourceMany && c.TargetMany }

// ManyToOne reports if many sources relate to one target.
func (c Cardinality) ManyToOne() bool { return c.SourceMany && !c.TargetMany }

// ManyToMany reports if both ends are many.
func (c Cardinality) ManyToMany() bool { return c.SourceMany && c.TargetMany }
