// File: lixenwraith/configer/assemble.go
package configer

import "fmt"

// Assembler builds Config values from a schema: defaults first, then the optional
// drift check, then overrides, then one validation pass.
type Assembler struct {
	schema *Schema
	guard  *DriftGuard
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithDriftGuard enables the drift check before overrides are applied.
func WithDriftGuard(g *DriftGuard) AssemblerOption {
	return func(a *Assembler) {
		a.guard = g
	}
}

// NewAssembler creates an assembler for schema.
func NewAssembler(schema *Schema, opts ...AssemblerOption) *Assembler {
	a := &Assembler{schema: schema}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble assembles schema defaults and overrides without a drift check.
func Assemble(schema *Schema, overrides map[string]any, provenance ProvenanceMap) (*Config, error) {
	return NewAssembler(schema).Assemble(overrides, provenance)
}

// Assemble instantiates the defaults, checks drift when a guard is set, applies
// overrides and validates the result. provenance is copied onto the result.
func (a *Assembler) Assemble(overrides map[string]any, provenance ProvenanceMap) (*Config, error) {
	root, err := a.instantiate(a.schema.Root, "")
	if err != nil {
		return nil, err
	}

	if a.guard != nil {
		if err := a.guard.Check(); err != nil {
			return nil, err
		}
	}

	normalized, err := normalizeValue(overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize overrides: %w", err)
	}
	if m, ok := normalized.(map[string]any); ok {
		if err := a.apply(root, m, provenance); err != nil {
			return nil, err
		}
	}

	if err := validateNode(root); err != nil {
		return nil, err
	}

	defaults, err := a.instantiate(a.schema.Root, "")
	if err != nil {
		return nil, err
	}

	if provenance == nil {
		provenance = make(ProvenanceMap)
	}
	return &Config{
		schema:     a.schema,
		root:       root,
		defaults:   defaults,
		provenance: provenance.Clone(),
	}, nil
}

// instantiate builds a node holding each field's default.
func (a *Assembler) instantiate(entry *SchemaEntry, path string) (*Node, error) {
	node := &Node{entry: entry, path: path, values: make(map[string]any, len(entry.Fields))}
	for _, f := range entry.Fields {
		if f.Type.Kind != KindComposite {
			node.values[f.Name] = a.schema.fieldDefault(joinPath(path, f.Name), f)
			continue
		}
		childEntry, ok := a.schema.Registry.Get(f.Type.Name)
		if !ok {
			return nil, fmt.Errorf("field %s references unregistered type %s", joinPath(path, f.Name), f.Type.Name)
		}
		child, err := a.instantiate(childEntry, joinPath(path, f.Name))
		if err != nil {
			return nil, err
		}
		node.values[f.Name] = child
	}
	return node, nil
}

// apply writes overrides onto node. A mapping recurses into a composite field; any
// other value replaces the field and is checked during validation.
func (a *Assembler) apply(node *Node, overrides map[string]any, provenance ProvenanceMap) error {
	for _, key := range sortedKeys(overrides) {
		val := overrides[key]
		path := joinPath(node.path, key)

		f, ok := node.entry.Field(key)
		if !ok {
			return &UnknownKeyError{Path: path, Origin: a.schema.Origin, Source: sourceOf(provenance, path, val)}
		}

		if m, isMap := val.(map[string]any); isMap && f.Type.Kind == KindComposite {
			child, err := node.Child(key)
			if err != nil {
				return err
			}
			if err := a.apply(child, m, provenance); err != nil {
				return err
			}
			continue
		}

		if err := node.set(key, cloneValue(val)); err != nil {
			return err
		}
	}
	return nil
}

// sourceOf finds the origin that supplied path or any leaf below it.
func sourceOf(provenance ProvenanceMap, path string, val any) string {
	if origin, ok := provenance[path]; ok {
		return origin
	}
	if m, ok := val.(map[string]any); ok {
		for _, leaf := range leafPaths(m, path) {
			if origin, ok := provenance[leaf]; ok {
				return origin
			}
		}
	}
	return ""
}

// validateNode checks every field of node against its declared type.
func validateNode(node *Node) error {
	for _, f := range node.entry.Fields {
		path := joinPath(node.path, f.Name)
		v := node.values[f.Name]

		if f.Type.Kind == KindComposite {
			child, ok := v.(*Node)
			if !ok {
				return &InvalidTypeError{Field: path, Expected: f.Type.String(), Actual: describeValue(v)}
			}
			if err := validateNode(child); err != nil {
				return err
			}
			continue
		}

		if !matches(f.Type, v) {
			return &InvalidTypeError{Field: path, Expected: f.Type.String(), Actual: describeValue(v)}
		}
	}
	return nil
}

// matches reports whether v has exactly type t. Integers never satisfy float and
// floats never satisfy int.
func matches(t TypeDescriptor, v any) bool {
	switch t.Kind {
	case KindTuple:
		seq, ok := v.([]any)
		if !ok || len(seq) != len(t.Elems) {
			return false
		}
		for i, e := range seq {
			if !matches(t.Elems[i], e) {
				return false
			}
		}
		return true
	case KindSequence:
		seq, ok := v.([]any)
		if !ok {
			return false
		}
		for _, e := range seq {
			if !matches(*t.Elem, e) {
				return false
			}
		}
		return true
	case KindComposite:
		return false
	default:
		k, ok := primitiveKind(v)
		return ok && k == t.Kind
	}
}

// ValidateValue checks a standalone value against t, naming it field in errors.
func ValidateValue(field string, t TypeDescriptor, v any) error {
	normalized, err := normalizeValue(v)
	if err != nil {
		return err
	}
	if !matches(t, normalized) {
		return &InvalidTypeError{Field: field, Expected: t.String(), Actual: describeValue(normalized)}
	}
	return nil
}
