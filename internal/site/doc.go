// Package site builds the static site: it enumerates the source directory,
// renders every markdown document to a page, copies every other file through
// unchanged and writes an index page grouping all pages by location.
//
// A build runs as a fixed sequence of named stages:
//
//	prepare  -> create (or stage) the output directory
//	discover -> list the source directory and classify entries
//	parse    -> read, parse, convert and render documents concurrently
//	write    -> write pages and copy assets in discovery order
//	index    -> group pages by location and write index.html
//	finalize -> promote the staging directory (atomic mode)
//
// Every stage is timed into the Report and the metrics Recorder. The first
// failing stage aborts the build.
package site
