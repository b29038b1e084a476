package frontmatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Metadata is an ordered mapping of frontmatter keys to values. The zero
// value is an empty mapping ready to use.
//
// Values are plain Go values as produced by yaml.v3: string, int, float64,
// bool, nil, []any and map[string]any. Keys parsed from a file keep their
// original YAML nodes until they are Set, so serializing an untouched key
// reproduces its original formatting.
type Metadata struct {
	entries []entry
	index   map[string]int
}

type entry struct {
	key       string
	value     any
	keyNode   *yaml.Node
	valueNode *yaml.Node
}

// Len returns the number of keys.
func (m *Metadata) Len() int {
	return len(m.entries)
}

// Keys returns the keys in order.
func (m *Metadata) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}
	return keys
}

// Has reports whether key is present.
func (m *Metadata) Has(key string) bool {
	_, ok := m.index[key]
	return ok
}

// Get returns the value stored under key.
func (m *Metadata) Get(key string) (any, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].value, true
}

// Set stores value under key. An existing key keeps its position; a new key
// is appended.
func (m *Metadata) Set(key string, value any) {
	m.set(key, value, nil, nil)
}

func (m *Metadata) set(key string, value any, keyNode, valueNode *yaml.Node) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	e := entry{key: key, value: value, keyNode: keyNode, valueNode: valueNode}
	if i, ok := m.index[key]; ok {
		m.entries[i] = e
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, e)
}

// Delete removes key and reports whether it was present.
func (m *Metadata) Delete(key string) bool {
	i, ok := m.index[key]
	if !ok {
		return false
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, key)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].key] = j
	}
	return true
}

// All iterates over the key/value pairs in order.
func (m *Metadata) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, e := range m.entries {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Map returns an unordered copy of the metadata.
func (m *Metadata) Map() map[string]any {
	out := make(map[string]any, len(m.entries))
	for _, e := range m.entries {
		out[e.key] = e.value
	}
	return out
}

// MarshalJSON encodes the metadata as a JSON object in key order.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(JSONValue(e.value))
		if err != nil {
			return nil, fmt.Errorf("frontmatter key %q: %w", e.key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *Metadata) node() (*yaml.Node, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range m.entries {
		keyNode := e.keyNode
		if keyNode == nil {
			keyNode = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.key}
		}
		valueNode := e.valueNode
		// An alias may point at an anchor that was Set or Deleted.
		if valueNode == nil || hasAlias(valueNode) {
			valueNode = new(yaml.Node)
			if err := valueNode.Encode(e.value); err != nil {
				return nil, fmt.Errorf("encode frontmatter key %q: %w", e.key, err)
			}
		}
		mapping.Content = append(mapping.Content, keyNode, valueNode)
	}
	return mapping, nil
}

func hasAlias(n *yaml.Node) bool {
	if n.Kind == yaml.AliasNode {
		return true
	}
	for _, c := range n.Content {
		if hasAlias(c) {
			return true
		}
	}
	return false
}

// JSONValue converts a metadata value into one encoding/json accepts:
// non-finite floats become strings.
func JSONValue(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return Stringify(t)
		}
		return t
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = JSONValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = JSONValue(item)
		}
		return out
	default:
		return v
	}
}

// Stringify renders a metadata value as text. It is the representation used
// by value filters and human-readable output.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		switch {
		case math.IsNaN(t):
			return ".nan"
		case math.IsInf(t, 1):
			return ".inf"
		case math.IsInf(t, -1):
			return "-.inf"
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case time.Time:
		return t.Format(time.RFC3339)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = Stringify(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		return "[" + strings.Join(t, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + Stringify(t[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(t)
	}
}

// normalize converts yaml.v3 generic values so every mapping has string keys.
func normalize(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	default:
		return v
	}
}
