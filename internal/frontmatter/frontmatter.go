// Package frontmatter handles YAML frontmatter parsing and serialization.
package frontmatter

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Reserved metadata keys.
const (
	TitleKey    = "title"
	CreatedKey  = "created"
	ModifiedKey = "modified"
)

// Document is a note split into its frontmatter metadata and body.
type Document struct {
	Metadata Metadata
	Body     string
}

// New returns a document with the given body and no metadata.
func New(body string) *Document {
	return &Document{Body: body}
}

// ParseError reports frontmatter that is opened but never closed, is not
// valid YAML, or is not a mapping.
type ParseError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("invalid frontmatter")
	if e.Path != "" {
		b.WriteString(" in ")
		b.WriteString(e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse splits data into frontmatter and body. Input that does not start
// with a "---" line has no frontmatter and is returned entirely as body.
func Parse(data []byte) (*Document, error) {
	content := string(data)

	first, rest := cutLine(content)
	if !isDelimiter(first) {
		return New(content), nil
	}

	var block strings.Builder
	closed := false
	for rest != "" {
		var line string
		line, rest = cutLine(rest)
		if isDelimiter(line) {
			closed = true
			break
		}
		block.WriteString(line)
		block.WriteByte('\n')
	}
	if !closed {
		return nil, &ParseError{Msg: "missing closing delimiter"}
	}

	doc := New(rest)
	if err := decodeInto(&doc.Metadata, block.String()); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeInto(m *Metadata, block string) error {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(block), &root); err != nil {
		return &ParseError{Msg: "malformed YAML", Err: err}
	}

	// Empty block.
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil
	}

	mapping := root.Content[0]
	if mapping.Kind == yaml.ScalarNode && mapping.Tag == "!!null" {
		return nil
	}
	if mapping.Kind != yaml.MappingNode {
		return &ParseError{Msg: "frontmatter is not a mapping"}
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode, valueNode := mapping.Content[i], mapping.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return &ParseError{Msg: fmt.Sprintf("unsupported key at line %d", keyNode.Line)}
		}
		var value any
		if err := valueNode.Decode(&value); err != nil {
			return &ParseError{Msg: fmt.Sprintf("key %q", keyNode.Value), Err: err}
		}
		m.set(keyNode.Value, normalize(value), keyNode, valueNode)
	}
	return nil
}

// Serialize renders doc as "---", the YAML metadata, "---", then the body.
// A document without metadata serializes to its body alone.
func Serialize(doc *Document) ([]byte, error) {
	if doc.Metadata.Len() == 0 {
		first, _ := cutLine(doc.Body)
		if isDelimiter(first) {
			return []byte(delimiter + "\n" + delimiter + "\n" + doc.Body), nil
		}
		return []byte(doc.Body), nil
	}

	node, err := doc.Metadata.node()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to stringify frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to stringify frontmatter: %w", err)
	}
	buf.WriteString(delimiter + "\n")
	buf.WriteString(doc.Body)
	return buf.Bytes(), nil
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	return d.Metadata.Get(key)
}

// Set stores value under key.
func (d *Document) Set(key string, value any) {
	d.Metadata.Set(key, value)
}

// Delete removes key.
func (d *Document) Delete(key string) bool {
	return d.Metadata.Delete(key)
}

// Touch records now as the modification time.
func (d *Document) Touch(now time.Time) {
	d.Metadata.Set(ModifiedKey, now.Truncate(time.Second))
}

// Title returns the title field when it is a string.
func (d *Document) Title() (string, bool) {
	v, ok := d.Metadata.Get(TitleKey)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// cutLine returns the first line of s without its terminator and the
// remainder after the newline.
func cutLine(s string) (line, rest string) {
	line, rest, _ = strings.Cut(s, "\n")
	return strings.TrimSuffix(line, "\r"), rest
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t") == delimiter
}
