// File: lixenwraith/configer/infer.go
package configer

import (
	"fmt"
	"strconv"
)

// KeyOrder returns the keys of the mapping m found at path in the order fields should
// be declared. A nil KeyOrder sorts keys lexically.
type KeyOrder func(path string, m map[string]any) []string

// Inferrer walks setting data, typing every literal and registering one SchemaEntry
// per nested mapping. Registration happens during the walk because a composite's name
// depends on its ancestors.
type Inferrer struct {
	registry *SchemaRegistry
	order    KeyOrder
	defaults map[string]any // leaf field path -> default literal
}

// NewInferrer creates an inferrer with a fresh registry.
func NewInferrer(order KeyOrder) *Inferrer {
	return &Inferrer{
		registry: NewSchemaRegistry(),
		order:    order,
		defaults: make(map[string]any),
	}
}

// Registry exposes the registry populated so far.
func (in *Inferrer) Registry() *SchemaRegistry {
	return in.registry
}

// Infer types one value found at path. parentName is the type name of the enclosing
// composite ("" at the root). It returns the descriptor and the default literal; the
// literal is nil for composites.
func (in *Inferrer) Infer(value any, path, parentName string) (TypeDescriptor, any, error) {
	if k, ok := primitiveKind(value); ok {
		return Primitive(k), value, nil
	}

	switch v := value.(type) {
	case []any:
		return in.inferSequence(v, path, parentName)
	case map[string]any:
		segments := splitPath(path)
		if len(segments) == 0 {
			return TypeDescriptor{}, nil, fmt.Errorf("mapping at root must be inferred with InferSchema")
		}
		name := parentName + toTypeName(segments[len(segments)-1])
		entry, err := in.inferEntry(v, path, name)
		if err != nil {
			return TypeDescriptor{}, nil, err
		}
		if err := in.registry.Register(entry); err != nil {
			return TypeDescriptor{}, nil, err
		}
		return Composite(name), nil, nil
	}

	return TypeDescriptor{}, nil, &UnsupportedTypeError{Path: path, Type: fmt.Sprintf("%T", value)}
}

func (in *Inferrer) inferSequence(seq []any, path, parentName string) (TypeDescriptor, any, error) {
	elems := make([]TypeDescriptor, len(seq))
	defaults := make([]any, len(seq))
	for i, e := range seq {
		elemPath := joinPath(path, strconv.Itoa(i))
		if _, isMap := e.(map[string]any); isMap {
			return TypeDescriptor{}, nil, &UnsupportedTypeError{Path: elemPath, Type: "mapping inside sequence"}
		}
		t, d, err := in.Infer(e, elemPath, parentName)
		if err != nil {
			return TypeDescriptor{}, nil, err
		}
		elems[i] = t
		defaults[i] = d
	}

	if len(elems) > 0 && uniform(elems) {
		return HomogeneousSequence(elems[0]), defaults, nil
	}
	return FixedTuple(elems...), defaults, nil
}

func uniform(ts []TypeDescriptor) bool {
	for _, t := range ts[1:] {
		if !t.Equal(ts[0]) {
			return false
		}
	}
	return true
}

// inferEntry builds the entry for mapping m; children are inferred, and registered,
// before the entry itself is complete.
func (in *Inferrer) inferEntry(m map[string]any, path, name string) (*SchemaEntry, error) {
	entry := &SchemaEntry{Name: name, Path: path}
	for _, key := range in.keys(path, m) {
		if !isValidKeySegment(key) {
			return nil, fmt.Errorf("invalid key %q at %s", key, joinPath(path, key))
		}
		t, d, err := in.Infer(m[key], joinPath(path, key), name)
		if err != nil {
			return nil, err
		}
		in.recordDefault(joinPath(path, key), t, d)
		entry.Fields = append(entry.Fields, Field{Name: key, Type: t, Default: d})
	}
	return entry, nil
}

// recordDefault keeps the default of every leaf field by path. Entries shared by
// several paths hold only the first path's defaults.
func (in *Inferrer) recordDefault(path string, t TypeDescriptor, d any) {
	if t.Kind != KindComposite {
		in.defaults[path] = d
	}
}

// Defaults returns the leaf defaults recorded so far, keyed by field path.
func (in *Inferrer) Defaults() map[string]any {
	return in.defaults
}

func (in *Inferrer) keys(path string, m map[string]any) []string {
	if in.order != nil {
		if keys := in.order(path, m); len(keys) == len(m) {
			return keys
		}
	}
	return sortedKeys(m)
}

// InferRoot infers the root entry from a whole setting mapping. Top-level mappings
// get a type name from their own key only.
func (in *Inferrer) InferRoot(data map[string]any) (*SchemaEntry, error) {
	root := &SchemaEntry{Name: RootName}
	for _, key := range in.keys("", data) {
		if !isValidKeySegment(key) {
			return nil, fmt.Errorf("invalid key %q at %s", key, joinPath("", key))
		}
		t, d, err := in.Infer(data[key], joinPath("", key), "")
		if err != nil {
			return nil, err
		}
		in.recordDefault(joinPath("", key), t, d)
		root.Fields = append(root.Fields, Field{Name: key, Type: t, Default: d})
	}
	return root, nil
}

// InferSchema infers a complete schema from data. origin names the source for
// diagnostics.
func InferSchema(data map[string]any, origin string, order KeyOrder) (*Schema, error) {
	normalized, err := normalizeValue(data)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s: %w", origin, err)
	}

	in := NewInferrer(order)
	root, err := in.InferRoot(normalized.(map[string]any))
	if err != nil {
		return nil, err
	}
	if e, taken := in.Registry().Get(RootName); taken {
		return nil, &NameCollisionError{Name: RootName, Path: e.Path, OtherPath: "/"}
	}

	schema := &Schema{
		Root:           root,
		Registry:       in.Registry(),
		Origin:         origin,
		defaults:       in.Defaults(),
		SequencePolicy: SequencePolicyCollapse,
	}
	if err := schema.Resolve(); err != nil {
		return nil, err
	}
	return schema, nil
}

// InferDocument infers a schema from a loaded document, keeping source key order and
// recording the document's fingerprint.
func InferDocument(doc *Document) (*Schema, error) {
	schema, err := InferSchema(doc.Data, doc.Path, doc.Keys)
	if err != nil {
		return nil, err
	}
	schema.Fingerprint = Fingerprint{Path: doc.Path, Hash: doc.Hash}
	return schema, nil
}

// InferFile loads path and infers its schema.
func InferFile(path string) (*Schema, error) {
	doc, err := LoadSetting(path)
	if err != nil {
		return nil, err
	}
	return InferDocument(doc)
}
