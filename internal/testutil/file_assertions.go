package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// FileAssertions provides utilities for asserting file system state in tests
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a new file assertions helper
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

// AssertFileExists validates that a file exists
func (fa *FileAssertions) AssertFileExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Stat(filepath.Join(fa.baseDir, relativePath)); err != nil {
		fa.t.Errorf("Expected file to exist: %s (%v)", relativePath, err)
	}
	return fa
}

// AssertFileNotExists validates that a file does not exist
func (fa *FileAssertions) AssertFileNotExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Stat(filepath.Join(fa.baseDir, relativePath)); err == nil {
		fa.t.Errorf("Expected file to not exist: %s", relativePath)
	}
	return fa
}

// AssertFileContains validates that a file contains expected content
func (fa *FileAssertions) AssertFileContains(relativePath, expectedContent string) *FileAssertions {
	fa.t.Helper()
	content := fa.Read(relativePath)
	if !strings.Contains(string(content), expectedContent) {
		fa.t.Errorf("Expected file %s to contain %q\nActual content:\n%s", relativePath, expectedContent, content)
	}
	return fa
}

// AssertSameBytes validates that a file holds exactly want.
func (fa *FileAssertions) AssertSameBytes(relativePath string, want []byte) *FileAssertions {
	fa.t.Helper()
	if got := fa.Read(relativePath); !bytes.Equal(got, want) {
		fa.t.Errorf("File %s differs: got %d bytes, want %d bytes", relativePath, len(got), len(want))
	}
	return fa
}

// AssertMode validates the permission bits of a file.
func (fa *FileAssertions) AssertMode(relativePath string, want os.FileMode) *FileAssertions {
	fa.t.Helper()
	stat, err := os.Stat(filepath.Join(fa.baseDir, relativePath))
	if err != nil {
		fa.t.Errorf("Failed to stat file %s: %v", relativePath, err)
		return fa
	}
	if got := stat.Mode().Perm(); got != want.Perm() {
		fa.t.Errorf("File %s has mode %v, want %v", relativePath, got, want.Perm())
	}
	return fa
}

// AssertFiles validates the exact sorted set of regular file names in the base dir.
func (fa *FileAssertions) AssertFiles(want ...string) *FileAssertions {
	fa.t.Helper()
	got := fa.ListFiles()
	want = slices.Sorted(slices.Values(want))
	if !slices.Equal(got, want) {
		fa.t.Errorf("Files in %s: got %v, want %v", fa.baseDir, got, want)
	}
	return fa
}

// Read returns the content of a file, failing the test when unreadable.
func (fa *FileAssertions) Read(relativePath string) []byte {
	fa.t.Helper()
	content, err := os.ReadFile(filepath.Join(fa.baseDir, relativePath))
	if err != nil {
		fa.t.Fatalf("Failed to read file %s: %v", relativePath, err)
	}
	return content
}

// ListFiles returns the sorted regular file names in the base dir (non-recursive).
func (fa *FileAssertions) ListFiles() []string {
	fa.t.Helper()
	entries, err := os.ReadDir(fa.baseDir)
	if err != nil {
		fa.t.Logf("Failed to read directory %s: %v", fa.baseDir, err)
		return nil
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	return files
}

// Snapshot returns name -> content for every regular file in the base dir.
func (fa *FileAssertions) Snapshot() map[string][]byte {
	fa.t.Helper()
	snap := map[string][]byte{}
	for _, name := range fa.ListFiles() {
		snap[name] = fa.Read(name)
	}
	return snap
}
