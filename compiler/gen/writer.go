package gen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

type (
	// File is one generated file, addressed by its slash-separated path
	// relative to the project root.
	File struct {
		Path    string
		Content []byte
	}

	// Project is the set of files of one generation run.
	Project struct {
		// Name is the artifact id of the project.
		Name  string
		Files []*File
	}
)

// File returns the file with the given path, or nil.
func (p *Project) File(name string) *File {
	for _, f := range p.Files {
		if f.Path == name {
			return f
		}
	}
	return nil
}

// Paths returns the paths of all project files.
func (p *Project) Paths() []string {
	paths := make([]string, len(p.Files))
	for i, f := range p.Files {
		paths[i] = f.Path
	}
	return paths
}

// ArchiveName returns the file name of the project archive.
func (p *Project) ArchiveName() string { return p.Name + ".zip" }

// WriteDir writes the project files under dir.
func (p *Project) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, f := range p.Files {
		if err := checkPath(f.Path); err != nil {
			return err
		}
		fullPath := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(fullPath, f.Content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
	}
	return nil
}

// WriteZip writes the project as a zip archive to w. Entries are stored
// relative to the project root.
func (p *Project) WriteZip(w io.Writer) error {
	zw := zip.NewWriter(w)
	modified := time.Now()
	for _, f := range p.Files {
		if err := checkPath(f.Path); err != nil {
			return err
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Path,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return NewGenerationError("package", f.Path, "create archive entry", err)
		}
		if _, err := fw.Write(f.Content); err != nil {
			return NewGenerationError("package", f.Path, "write archive entry", err)
		}
	}
	if err := zw.Close(); err != nil {
		return NewGenerationError("package", p.ArchiveName(), "close archive", err)
	}
	return nil
}

// Zip returns the project archive.
func (p *Project) Zip() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.WriteZip(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// checkPath rejects paths escaping the project root.
func checkPath(name string) error {
	clean := path.Clean(name)
	if name == "" || path.IsAbs(name) || clean == ".." || strings.HasPrefix(clean, "../") {
		return NewGenerationError("package", name, "invalid file path", nil)
	}
	return nil
}
