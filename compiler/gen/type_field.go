package gen

import "github.com/syssam/umlgen/schema/field"

// StructField returns the exported Go struct member name of the field.
func (f Field) StructField() string { return ToTypeName(f.Name) }

// Column returns the SQL column name of the field.
func (f Field) Column() string { return snake(f.Name) }

// Getter returns the JavaBean getter name of the field.
func (f Field) Getter() string {
	if f.Type == field.Boolean {
		return "is" + upperFirst(f.Name)
	}
	return "get" + upperFirst(f.Name)
}

// Setter returns the JavaBean setter name of the field.
func (f Field) Setter() string { return "set" + upperFirst(f.Name) }

// Void reports if the method has no return value.
func (m Method) Void() bool { return m.ReturnType == "" }

// Entity returns the type that declares the field.
func (f Field) Entity() *Type { return f.typ }

// Signature returns the Java parameter list of the method.
func (m Method) Signature() string { return m.Parameters }

// Names returns the parameter names of the well-formed parameters.
func (m Method) Names() []string {
	names := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		names = append(names, p.Name)
	}
	return names
}
