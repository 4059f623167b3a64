package site

import (
	"path/filepath"
	"strings"
)

const (
	// DocumentExt marks source files rendered as pages. The match is exact.
	DocumentExt = ".md"
	// PageExt replaces DocumentExt on rendered pages.
	PageExt = ".html"
	// IndexName is the generated landing page.
	IndexName = "index.html"
	stagingSuffix = "_stage"
)

// EntryKind classifies a source directory entry.
type EntryKind int

const (
	KindAsset EntryKind = iota
	KindDocument
)

func (k EntryKind) String() string {
	if k == KindDocument {
		return "document"
	}
	return "asset"
}

// Classify reports whether a file name is a document or an asset.
func Classify(name string) EntryKind {
	if filepath.Ext(name) == DocumentExt {
		return KindDocument
	}
	return KindAsset
}

// OutputName maps a source file name to its name in the output directory.
// Documents get PageExt in place of DocumentExt; assets keep their name.
func OutputName(name string) string {
	base := filepath.Base(name)
	if Classify(base) == KindDocument {
		return strings.TrimSuffix(base, DocumentExt) + PageExt
	}
	return base
}
