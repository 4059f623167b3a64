// Package testutil provides filesystem fixtures and assertions for build tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Fixture is a throwaway working tree with a source and an output directory.
type Fixture struct {
	t      *testing.T
	Root   string
	Source string
	Output string
}

// NewFixture creates <tmp>/source (empty) and names <tmp>/build as output
// without creating it.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	root := t.TempDir()
	f := &Fixture{
		t:      t,
		Root:   root,
		Source: filepath.Join(root, "source"),
		Output: filepath.Join(root, "build"),
	}
	if err := os.MkdirAll(f.Source, 0o755); err != nil {
		t.Fatalf("create source dir: %v", err)
	}
	return f
}

// Document returns source text with a header block for name, image and location.
func Document(name, image, location, body string) string {
	return fmt.Sprintf("---\nname: %q\nimage: %q\nlocation: %q\n---\n%s", name, image, location, body)
}

// WriteDocument writes a well-formed markdown document into the source dir.
func (f *Fixture) WriteDocument(file, name, image, location, body string) string {
	f.t.Helper()
	return f.WriteFile(file, []byte(Document(name, image, location, body)), 0o644)
}

// WriteFile writes raw bytes into the source dir with the given mode.
func (f *Fixture) WriteFile(file string, data []byte, mode os.FileMode) string {
	f.t.Helper()
	path := filepath.Join(f.Source, file)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		f.t.Fatalf("create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		f.t.Fatalf("write %s: %v", path, err)
	}
	// WriteFile honours umask; force the requested bits.
	if err := os.Chmod(path, mode); err != nil {
		f.t.Fatalf("chmod %s: %v", path, err)
	}
	return path
}

// Out returns assertions rooted at the output directory.
func (f *Fixture) Out() *FileAssertions {
	return NewFileAssertions(f.t, f.Output)
}
