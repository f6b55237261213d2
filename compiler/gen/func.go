package gen

import (
	"regexp"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// Funcs are the predefined template functions used by the renderers.
	Funcs = template.FuncMap{
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"hasSuffix":  strings.HasSuffix,
		"join":       strings.Join,
		"pascal":     ToTypeName,
		"camel":      ToFieldName,
		"plural":     Pluralize,
		"snake":      snake,
		"receiver":   receiver,
		"tableize":   tableize,
		"lowerFirst": lowerFirst,
		"upperFirst": upperFirst,
	}
	rules = ruleset()

	// nonWord matches runs of characters that separate words in identifiers.
	nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// ToTypeName converts a raw diagram name to a PascalCase type name. Every
// run of characters that are neither letters nor digits acts as a single
// word boundary; each word gets its first letter upper-cased and keeps the
// rest as written. Blank input is returned unchanged.
//
//	ToTypeName("order item")  // OrderItem
//	ToTypeName("user-account") // UserAccount
//	ToTypeName("orderItem")   // OrderItem
func ToTypeName(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	// Casers keep internal state and must not be shared between goroutines.
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range strings.Fields(nonWord.ReplaceAllString(raw, " ")) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// ToFieldName converts a raw diagram name to a camelCase field name: the
// result of ToTypeName with its first character lower-cased.
func ToFieldName(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	return lowerFirst(ToTypeName(raw))
}

// Pluralize returns the naive English plural used for collection fields:
// names ending with "s" get "es", anything else gets "s".
func Pluralize(name string) string {
	if strings.HasSuffix(name, "s") {
		return name + "es"
	}
	return name + "s"
}

// lowerFirst lower-cases the first character of s.
func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

// upperFirst upper-cases the first character of s.
func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// snake converts the given identifier to snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j  int
		b  strings.Builder
		rs = []rune(s)
	)
	for i, r := range rs {
		// Put '_' if it is not a start or end of a word, current letter is
		// uppercase, and previous is lowercase (cases like: "UserInfo"), or
		// next letter is also a lowercase and previous letter is not "_".
		if i > 0 && i < len(rs)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rs[i-1]) ||
				j != i-1 && unicode.IsLower(rs[i+1]) && unicode.IsLetter(rs[i-1]) {
				j = i
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// tableize returns the table name of an entity: the snake_case form of its
// English plural.
func tableize(name string) string {
	return snake(rules.Pluralize(name))
}

// receiver returns the receiver name of the given type.
//
//	[]T       => t
//	[1]T      => t
//	User      => u
//	UserQuery => uq
func receiver(s string) (r string) {
	// Trim invalid tokens for identifier prefix.
	s = strings.Trim(s, "[]*&0123456789")
	parts := strings.Split(snake(s), "_")
	min := len(parts[0])
	for _, w := range parts[1:] {
		if len(w) < min {
			min = len(w)
		}
	}
	for i := 1; i < min; i++ {
		r := parts[0][:i]
		for _, w := range parts[1:] {
			r += w[:i]
		}
		if _, ok := goKeywords[r]; !ok {
			s = r
			break
		}
	}
	name := strings.ToLower(s)
	if _, ok := goKeywords[name]; ok {
		name = "_" + name
	}
	return name
}

var goKeywords = map[string]struct{}{
	"break": {}, "case": {}, "chan": {}, "const": {}, "continue": {},
	"default": {}, "defer": {}, "else": {}, "fallthrough": {}, "for": {},
	"func": {}, "go": {}, "goto": {}, "if": {}, "import": {},
	"interface": {}, "map": {}, "package": {}, "range": {}, "return": {},
	"select": {}, "struct": {}, "switch": {}, "type": {}, "var": {},
}

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{"ACL", "API", "ASCII", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "LHS", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP", "SQL", "SSH", "TCP", "TLS", "TTL", "UDP", "UI", "UID", "UUID", "URI", "URL", "UTF8", "VM", "XML", "XMPP", "XSRF", "XSS"} {
		rules.AddAcronym(w)
	}
	return rules
}
