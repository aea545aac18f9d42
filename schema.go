// File: lixenwraith/configer/schema.go
package configer

import (
	"fmt"
	"strings"
)

// RootName is the type name of the root schema entry.
const RootName = "Config"

// Field is one inferred member of a composite type.
// Default is nil for composite fields: they are built from their own entry.
type Field struct {
	Name    string
	Type    TypeDescriptor
	Default any
}

// SchemaEntry is a named composite type synthesized from a nested mapping.
type SchemaEntry struct {
	Name string
	// Path is the slash-delimited mapping path the entry was inferred from ("" for root).
	Path   string
	Fields []Field
}

// Field looks up a field by name.
func (e *SchemaEntry) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// String serializes the entry, e.g. `Training{batchsize int = 64, loss str = "mae"}`.
// Its length is the size measure used by the registry.
func (e *SchemaEntry) String() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		if f.Type.Kind == KindComposite {
			parts[i] = fmt.Sprintf("%s %s", f.Name, f.Type)
		} else {
			parts[i] = fmt.Sprintf("%s %s = %s", f.Name, f.Type, formatLiteral(f.Default))
		}
	}
	return e.Name + "{" + strings.Join(parts, ", ") + "}"
}

// sameShape reports whether two entries declare the same field names and types.
func (e *SchemaEntry) sameShape(o *SchemaEntry) bool {
	if len(e.Fields) != len(o.Fields) {
		return false
	}
	for i := range e.Fields {
		if e.Fields[i].Name != o.Fields[i].Name || !e.Fields[i].Type.Equal(o.Fields[i].Type) {
			return false
		}
	}
	return true
}

// Fingerprint records which default file a schema came from and its content hash.
type Fingerprint struct {
	Path string
	Hash string
}

// Schema is the result of inference: the root entry plus every nested composite.
type Schema struct {
	Root     *SchemaEntry
	Registry *SchemaRegistry
	// Origin names the default source the schema was inferred from.
	Origin string
	// Fingerprint is zero when the schema was inferred from in-memory data.
	Fingerprint Fingerprint
	// SequencePolicy documents how uniform sequences are typed.
	SequencePolicy string

	defaults map[string]any
}

// SequencePolicyCollapse is the only policy implemented: non-empty sequences whose
// elements share one descriptor become homogeneous sequences, the rest fixed tuples.
const SequencePolicyCollapse = "collapse-uniform"

// Entry resolves a composite name; the root entry resolves under RootName.
func (s *Schema) Entry(name string) (*SchemaEntry, bool) {
	if name == RootName {
		return s.Root, true
	}
	return s.Registry.Get(name)
}

// Resolve checks that every composite reference resolves to a registered entry.
func (s *Schema) Resolve() error {
	entries := append([]*SchemaEntry{s.Root}, s.Registry.Entries()...)
	for _, e := range entries {
		for _, f := range e.Fields {
			if f.Type.Kind != KindComposite {
				continue
			}
			if _, ok := s.Registry.Get(f.Type.Name); !ok {
				return fmt.Errorf("field %s of %s references unregistered type %s", f.Name, e.Name, f.Type.Name)
			}
		}
	}
	return nil
}

// Defaults returns the default value tree as a nested map.
func (s *Schema) Defaults() map[string]any {
	return s.defaultsOf(s.Root, "")
}

func (s *Schema) defaultsOf(e *SchemaEntry, path string) map[string]any {
	out := make(map[string]any, len(e.Fields))
	for _, f := range e.Fields {
		fieldPath := joinPath(path, f.Name)
		if f.Type.Kind == KindComposite {
			child, _ := s.Registry.Get(f.Type.Name)
			out[f.Name] = s.defaultsOf(child, fieldPath)
			continue
		}
		out[f.Name] = s.fieldDefault(fieldPath, f)
	}
	return out
}

// fieldDefault returns a copy of the default of the leaf field at path. A composite
// shared by several mappings carries the first one's defaults, so the value recorded
// for path during inference takes precedence.
func (s *Schema) fieldDefault(path string, f Field) any {
	if v, ok := s.defaults[path]; ok {
		return cloneValue(v)
	}
	return cloneValue(f.Default)
}

// String dumps every entry, children first, root last.
func (s *Schema) String() string {
	var b strings.Builder
	for _, e := range s.Registry.Entries() {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	b.WriteString(s.Root.String())
	return b.String()
}

// formatLiteral renders a default literal.
func formatLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", val)
	case []any:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = formatLiteral(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return fmt.Sprintf("%v", val)
	}
}
