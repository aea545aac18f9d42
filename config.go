// File: lixenwraith/configer/config.go
package configer

import (
	"fmt"
	"reflect"
	"sort"
)

// Node is one composite in an assembled value tree. Field values are held by name;
// composite fields hold *Node. Access goes through the schema's field list.
type Node struct {
	entry  *SchemaEntry
	path   string
	values map[string]any
}

// Entry returns the schema entry describing the node.
func (n *Node) Entry() *SchemaEntry {
	return n.entry
}

// Path returns the slash-delimited path of the node ("" for root).
func (n *Node) Path() string {
	return n.path
}

// Get returns the value of a declared field.
func (n *Node) Get(name string) (any, error) {
	if _, ok := n.entry.Field(name); !ok {
		return nil, &UnknownKeyError{Path: joinPath(n.path, name)}
	}
	return n.values[name], nil
}

// Child returns a declared composite field.
func (n *Node) Child(name string) (*Node, error) {
	v, err := n.Get(name)
	if err != nil {
		return nil, err
	}
	child, ok := v.(*Node)
	if !ok {
		f, _ := n.entry.Field(name)
		return nil, &InvalidTypeError{Field: joinPath(n.path, name), Expected: f.Type.String(), Actual: describeValue(v)}
	}
	return child, nil
}

func (n *Node) set(name string, v any) error {
	if _, ok := n.entry.Field(name); !ok {
		return &UnknownKeyError{Path: joinPath(n.path, name)}
	}
	n.values[name] = v
	return nil
}

// ToMap converts the subtree into nested maps in canonical runtime types.
func (n *Node) ToMap() map[string]any {
	out := make(map[string]any, len(n.values))
	for _, f := range n.entry.Fields {
		v := n.values[f.Name]
		if child, ok := v.(*Node); ok {
			out[f.Name] = child.ToMap()
			continue
		}
		out[f.Name] = cloneValue(v)
	}
	return out
}

// walk visits every leaf field in declaration order.
func (n *Node) walk(fn func(path string, f Field, value any)) {
	for _, f := range n.entry.Fields {
		v := n.values[f.Name]
		if child, ok := v.(*Node); ok {
			child.walk(fn)
			continue
		}
		fn(joinPath(n.path, f.Name), f, v)
	}
}

// lookup resolves a path to a value, descending through composites.
func (n *Node) lookup(segments []string) (any, error) {
	current := n
	for i, seg := range segments {
		v, err := current.Get(seg)
		if err != nil {
			return nil, err
		}
		if i == len(segments)-1 {
			return v, nil
		}
		child, ok := v.(*Node)
		if !ok {
			return nil, &UnknownKeyError{Path: joinPath(joinPath(current.path, seg), segments[i+1])}
		}
		current = child
	}
	return current, nil
}

// Config is an assembled configuration: a value tree shaped by a Schema, together
// with the provenance of every overridden leaf. It is not modified after assembly.
type Config struct {
	schema     *Schema
	root       *Node
	defaults   *Node
	provenance ProvenanceMap
}

// Schema returns the schema the value was assembled against.
func (c *Config) Schema() *Schema {
	return c.schema
}

// Root returns the root node.
func (c *Config) Root() *Node {
	return c.root
}

// Get retrieves the value at a slash or dot delimited path. Composite values are
// returned as nested maps. The second return value reports whether the path exists.
func (c *Config) Get(path string) (any, bool) {
	v, err := c.root.lookup(splitPath(path))
	if err != nil {
		return nil, false
	}
	return exportValue(v), true
}

// Default retrieves the schema default at path.
func (c *Config) Default(path string) (any, bool) {
	v, err := c.defaults.lookup(splitPath(path))
	if err != nil {
		return nil, false
	}
	return exportValue(v), true
}

func exportValue(v any) any {
	if node, ok := v.(*Node); ok {
		return node.ToMap()
	}
	return cloneValue(v)
}

func (c *Config) leaf(path string) (any, error) {
	v, err := c.root.lookup(splitPath(path))
	if err != nil {
		if uk, ok := err.(*UnknownKeyError); ok {
			uk.Origin = c.schema.Origin
		}
		return nil, err
	}
	return v, nil
}

// String retrieves a string value.
func (c *Config) String(path string) (string, error) {
	v, err := c.leaf(path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &InvalidTypeError{Field: path, Expected: KindString.String(), Actual: describeValue(v)}
	}
	return s, nil
}

// Int64 retrieves an integer value.
func (c *Config) Int64(path string) (int64, error) {
	v, err := c.leaf(path)
	if err != nil {
		return 0, err
	}
	i, ok := v.(int64)
	if !ok {
		return 0, &InvalidTypeError{Field: path, Expected: KindInt.String(), Actual: describeValue(v)}
	}
	return i, nil
}

// Float64 retrieves a float value.
func (c *Config) Float64(path string) (float64, error) {
	v, err := c.leaf(path)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, &InvalidTypeError{Field: path, Expected: KindFloat.String(), Actual: describeValue(v)}
	}
	return f, nil
}

// Bool retrieves a boolean value.
func (c *Config) Bool(path string) (bool, error) {
	v, err := c.leaf(path)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, &InvalidTypeError{Field: path, Expected: KindBool.String(), Actual: describeValue(v)}
	}
	return b, nil
}

// Provenance returns a copy of the provenance map attached at assembly.
func (c *Config) Provenance() ProvenanceMap {
	return c.provenance.Clone()
}

// Changed returns the leaf paths whose value differs from the schema default.
func (c *Config) Changed() []string {
	var changed []string
	c.root.walk(func(path string, f Field, value any) {
		if !valuesEqual(value, c.defaultAt(path)) {
			changed = append(changed, path)
		}
	})
	sort.Strings(changed)
	return changed
}

func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func (c *Config) defaultAt(path string) any {
	v, _ := c.defaults.lookup(splitPath(path))
	return v
}

// ToMap returns the whole value as nested maps.
func (c *Config) ToMap() map[string]any {
	return c.root.ToMap()
}

// Equal reports whether two configurations hold the same values.
func (c *Config) Equal(o *Config) bool {
	if c == nil || o == nil {
		return c == o
	}
	return reflect.DeepEqual(c.ToMap(), o.ToMap())
}

// GoString is used by %#v.
func (c *Config) GoString() string {
	return fmt.Sprintf("configer.Config{schema: %s, values: %v}", c.schema.Origin, c.ToMap())
}
