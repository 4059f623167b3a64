// Package frontmatter separates the `---` delimited header block from the
// markdown body of a source document.
package frontmatter

import (
	"bytes"
	"errors"
)

// Marker is the line that opens and closes the header block.
const Marker = "---"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrMissingHeaderBlock indicates the document does not open with a marker
// line or never repeats it before the body.
var ErrMissingHeaderBlock = errors.New("malformed document: missing header block")

// Split separates the header text from the markdown body.
//
// The first line of content must be the marker; the header runs until the next
// marker line. Both LF and CRLF line endings are accepted and a leading UTF-8
// byte order mark is ignored. The returned slices alias content.
func Split(content []byte) (header []byte, body []byte, err error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	first, rest, more := cutLine(content)
	if !more || !isMarker(first) {
		return nil, nil, ErrMissingHeaderBlock
	}

	headerStart := len(content) - len(rest)
	remaining := rest
	for len(remaining) > 0 {
		lineStart := len(content) - len(remaining)
		line, next, more := cutLine(remaining)
		if isMarker(line) {
			return content[headerStart:lineStart], next, nil
		}
		if !more {
			break
		}
		remaining = next
	}
	return nil, nil, ErrMissingHeaderBlock
}

// cutLine returns the first line of b (without its terminator) and the
// remainder after the terminator. more is false when b has no newline.
func cutLine(b []byte) (line []byte, rest []byte, more bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, b[len(b):], false
	}
	return b[:i], b[i+1:], true
}

func isMarker(line []byte) bool {
	line = bytes.TrimRight(line, " \t\r")
	return string(line) == Marker
}
