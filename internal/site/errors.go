package site

import "errors"

var (
	// ErrSourceMissing is returned when the source directory does not exist.
	ErrSourceMissing = errors.New("please provide a source directory")
	// ErrDestinationNotDir is returned when the output path exists but is not a directory.
	ErrDestinationNotDir = errors.New("output path exists and is not a directory")
)
