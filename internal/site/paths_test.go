package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputName(t *testing.T) {
	cases := map[string]string{
		"ichiran.md":        "ichiran.html",
		"source/ichiran.md": "ichiran.html",
		"a.b.md":            "a.b.html",
		"logo.png":          "logo.png",
		"upper.MD":          "upper.MD",
		"notes.md.txt":      "notes.md.txt",
	}
	for in, want := range cases {
		assert.Equal(t, want, OutputName(in), in)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindDocument, Classify("x.md"))
	assert.Equal(t, KindAsset, Classify("x.markdown"))
	assert.Equal(t, KindAsset, Classify("README"))
	assert.Equal(t, "document", KindDocument.String())
	assert.Equal(t, "asset", KindAsset.String())
}

func TestCopyFile_OverwritesAndKeepsMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o600))
	require.NoError(t, os.Chmod(src, 0o600))
	require.NoError(t, os.WriteFile(dst, []byte("much older content"), 0o644))

	require.NoError(t, copyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, copyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst")))
}

func TestPromoteStaging_WithoutPreviousOutput(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(root, "build")
	stage, err := prepareOutput(output, true)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(stage, "index.html"), []byte("x"), 0o644))

	require.NoError(t, promoteStaging(stage, output))
	assert.FileExists(t, filepath.Join(output, "index.html"))
	assert.NoDirExists(t, stage)
}

func TestAbortStaging(t *testing.T) {
	root := t.TempDir()
	stage, err := prepareOutput(filepath.Join(root, "build"), true)
	require.NoError(t, err)
	abortStaging(stage)
	assert.NoDirExists(t, stage)
	abortStaging("")
}
