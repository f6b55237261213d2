package gen

import (
	"bytes"
	"io/fs"
	"maps"
	"path"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"
)

// Template wraps the standard template.Template to provide additional
// functionality for the renderers.
type Template struct {
	*template.Template
	FuncMap template.FuncMap
}

// NewTemplate creates an empty template with the standard codegen functions.
func NewTemplate(name string) *Template {
	t := &Template{Template: template.New(name)}
	return t.Funcs(Funcs)
}

// Funcs merges the given funcMap with the template functions.
func (t *Template) Funcs(funcMap template.FuncMap) *Template {
	t.Template.Funcs(funcMap)
	if t.FuncMap == nil {
		t.FuncMap = template.FuncMap{}
	}
	maps.Copy(t.FuncMap, funcMap)
	return t
}

// Parse parses text as a template body for t.
func (t *Template) Parse(text string) (*Template, error) {
	if _, err := t.Template.Parse(text); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseFS parses the templates matching the given patterns from fsys.
func (t *Template) ParseFS(fsys fs.FS, patterns ...string) (*Template, error) {
	if _, err := t.Template.ParseFS(fsys, patterns...); err != nil {
		return nil, err
	}
	return t, nil
}

// MustParse is a helper that wraps a call to a function returning
// (*Template, error) and panics if the error is non-nil.
func MustParse(t *Template, err error) *Template {
	if err != nil {
		panic(err)
	}
	return t
}

// Render executes the named template with data and returns the result as
// a project file. Go sources are formatted and their imports fixed.
func (t *Template) Render(name, filepath string, data any) (*File, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, NewGenerationError("render", filepath, "execute template "+name, err)
	}
	content := buf.Bytes()
	if path.Ext(filepath) == ".go" {
		formatted, err := imports.Process(filepath, content, nil)
		if err != nil {
			return nil, NewGenerationError("render", filepath, "format source", err)
		}
		content = formatted
	}
	return &File{Path: filepath, Content: content}, nil
}

// Comment formats a header as a line comment block with the given prefix
// (e.g. "//" or "#").
func Comment(prefix, header string) string {
	if header == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(header, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(prefix+" "+l, " ")
	}
	return strings.Join(lines, "\n") + "\n"
}
