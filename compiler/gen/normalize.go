package gen

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/syssam/umlgen/schema"
	"github.com/syssam/umlgen/schema/field"
)

// NamePolicy selects how the normalizer canonicalizes diagram names.
type NamePolicy int

const (
	// CanonicalNames runs class names through ToTypeName and attribute,
	// method and parameter names through ToFieldName.
	CanonicalNames NamePolicy = iota

	// LegacyNames reproduces the output of earlier generator releases:
	// class names keep only their first letter upper-cased ("orderItem"
	// becomes "Orderitem") and member names only get their first letter
	// lower-cased.
	LegacyNames
)

// String implements the fmt.Stringer interface.
func (p NamePolicy) String() string {
	switch p {
	case CanonicalNames:
		return "canonical"
	case LegacyNames:
		return "legacy"
	default:
		return "unknown"
	}
}

// ParseNamePolicy returns the policy with the given name.
func ParseNamePolicy(s string) (NamePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "canonical":
		return CanonicalNames, nil
	case "legacy":
		return LegacyNames, nil
	default:
		return 0, NewConfigError("NamePolicy", s, "unknown name policy; use canonical or legacy")
	}
}

// DefaultLabels are the multiplicity labels of a relationship that has none.
var DefaultLabels = []string{"1", "1"}

// Normalize returns a canonicalized deep copy of s. The input is left
// untouched.
func Normalize(s *schema.Schema, p NamePolicy) *schema.Schema {
	n := s.Clone()
	if n == nil {
		return nil
	}
	for _, c := range n.Classes {
		c.Name = p.className(c.Name)
		for _, a := range c.Attributes {
			a.Name = p.memberName(a.Name)
			a.Type = field.Map(a.Type).String()
		}
		for _, m := range c.Methods {
			m.Name = p.memberName(m.Name)
			if strings.TrimSpace(m.ReturnType) == "" {
				m.ReturnType = ""
			} else {
				m.ReturnType = field.Map(m.ReturnType).String()
			}
			m.Parameters = p.parameters(m.Parameters)
		}
	}
	for _, r := range n.Relationships {
		if len(r.Labels) == 0 {
			r.Labels = append([]string(nil), DefaultLabels...)
		}
	}
	return n
}

// NormalizeParameters canonicalizes a comma-separated list of "name:type"
// pairs into "Type name" pairs joined by ", ". Pieces that are not exactly one
// pair are kept as written (trimmed). Trailing empty pieces are dropped.
// Blank input yields "".
func NormalizeParameters(params string) string {
	return CanonicalNames.parameters(params)
}

func (p NamePolicy) parameters(params string) string {
	if strings.TrimSpace(params) == "" {
		return ""
	}
	pieces := split(params, ",")
	out := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		parts := split(piece, ":")
		if len(parts) != 2 {
			out = append(out, strings.TrimSpace(piece))
			continue
		}
		name := strings.TrimSpace(parts[0])
		if p == CanonicalNames {
			name = ToFieldName(name)
		} else {
			name = lowerFirst(name)
		}
		out = append(out, field.Map(parts[1]).String()+" "+name)
	}
	return strings.Join(out, ", ")
}

// split slices s around sep and drops the trailing empty elements, so "a:"
// has one part and "a:int," one piece.
func split(s, sep string) []string {
	parts := strings.Split(s, sep)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

func (p NamePolicy) className(name string) string {
	if p == LegacyNames {
		name = strings.TrimSpace(name)
		r, n := utf8.DecodeRuneInString(name)
		if n == 0 {
			return name
		}
		return string(unicode.ToUpper(r)) + strings.ToLower(name[n:])
	}
	return ToTypeName(name)
}

func (p NamePolicy) memberName(name string) string {
	if p == LegacyNames {
		return lowerFirst(strings.TrimSpace(name))
	}
	return ToFieldName(name)
}
