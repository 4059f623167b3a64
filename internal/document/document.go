// Package document turns a raw source file into a validated Document: a
// three-field header decoded from the front matter plus the markdown body.
package document

import (
	"errors"
	"fmt"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/ralog/internal/frontmatter"
)

// Required header keys, in the order they are validated.
const (
	FieldName     = "name"
	FieldImage    = "image"
	FieldLocation = "location"
)

var requiredFields = []string{FieldName, FieldImage, FieldLocation}

// ErrInvalidHeader matches every header decoding failure.
var ErrInvalidHeader = errors.New("invalid header")

// HeaderError reports a required field that is absent or not a string.
type HeaderError struct {
	Field string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("invalid header: %s missing or wrong type", e.Field)
}

// Is lets errors.Is(err, ErrInvalidHeader) match field errors.
func (e *HeaderError) Is(target error) bool { return target == ErrInvalidHeader }

// Header is the structured metadata every source document must carry.
type Header struct {
	Name     string `yaml:"name" json:"name"`
	Image    string `yaml:"image" json:"image"`
	Location string `yaml:"location" json:"location"`
}

// Document is a parsed source file.
type Document struct {
	Path      string
	Header    Header
	RawHeader []byte
	Body      []byte
}

// Fingerprint returns a stable content fingerprint of header and body.
func (d *Document) Fingerprint() string {
	return mdfp.CalculateFingerprintFromParts(string(d.RawHeader), string(d.Body))
}

// Result is the outcome of Parse: either a Document or the reason it failed.
type Result struct {
	Path     string
	Document *Document
	Err      error
}

// OK reports whether parsing succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Parse splits raw into header and body and decodes the header.
func Parse(path string, raw []byte) Result {
	rawHeader, body, err := frontmatter.Split(raw)
	if err != nil {
		return Result{Path: path, Err: err}
	}

	header, err := DecodeHeader(rawHeader)
	if err != nil {
		return Result{Path: path, Err: err}
	}

	return Result{
		Path: path,
		Document: &Document{
			Path:      path,
			Header:    header,
			RawHeader: rawHeader,
			Body:      body,
		},
	}
}

// DecodeHeader decodes YAML header text and checks that name, image and
// location are present string scalars. Unknown keys are ignored and values
// are kept verbatim.
func DecodeHeader(raw []byte) (Header, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	fields := map[string]*yaml.Node{}
	if len(root.Content) > 0 {
		mapping := resolveAlias(root.Content[0])
		if mapping == nil {
			return Header{}, fmt.Errorf("%w: unresolved alias", ErrInvalidHeader)
		}
		if mapping.Kind != yaml.MappingNode {
			return Header{}, fmt.Errorf("%w: expected a mapping, got %s", ErrInvalidHeader, mapping.ShortTag())
		}
		for i := 0; i+1 < len(mapping.Content); i += 2 {
			fields[mapping.Content[i].Value] = resolveAlias(mapping.Content[i+1])
		}
	}

	values := make(map[string]string, len(requiredFields))
	for _, field := range requiredFields {
		node, ok := fields[field]
		if !ok || node == nil || node.Kind != yaml.ScalarNode || node.ShortTag() != "!!str" {
			return Header{}, &HeaderError{Field: field}
		}
		values[field] = node.Value
	}

	return Header{
		Name:     values[FieldName],
		Image:    values[FieldImage],
		Location: values[FieldLocation],
	}, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}
