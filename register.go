// File: lixenwraith/configer/register.go
package configer

// SchemaRegistry accumulates composite definitions discovered during inference,
// keyed by synthesized name. It is owned by a single inference pass.
type SchemaRegistry struct {
	entries map[string]*SchemaEntry
	order   []string // registration order, children before parents
}

// NewSchemaRegistry creates an empty registry.
func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{
		entries: make(map[string]*SchemaEntry),
	}
}

// Register stores entry under its name.
//
// When the name is already taken by an entry from the same mapping path, whichever
// serializes larger is kept. When the name was synthesized from a different path the
// two must have the same shape and the first one is kept; otherwise a
// NameCollisionError is returned.
func (r *SchemaRegistry) Register(entry *SchemaEntry) error {
	existing, exists := r.entries[entry.Name]
	if !exists {
		r.entries[entry.Name] = entry
		r.order = append(r.order, entry.Name)
		return nil
	}

	if existing.Path != entry.Path {
		if !existing.sameShape(entry) {
			return &NameCollisionError{Name: entry.Name, Path: entry.Path, OtherPath: existing.Path}
		}
		return nil
	}

	if len(entry.String()) > len(existing.String()) {
		r.entries[entry.Name] = entry
	}
	return nil
}

// Get returns the entry registered under name.
func (r *SchemaRegistry) Get(name string) (*SchemaEntry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Entries returns all entries in registration order.
func (r *SchemaRegistry) Entries() []*SchemaEntry {
	out := make([]*SchemaEntry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name])
	}
	return out
}

// Names returns registered names in registration order.
func (r *SchemaRegistry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered entries.
func (r *SchemaRegistry) Len() int {
	return len(r.order)
}
