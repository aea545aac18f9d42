// File: lixenwraith/configer/merge.go
package configer

import "sort"

// ProvenanceMap maps a slash-delimited leaf path to the source that last set it.
type ProvenanceMap map[string]string

// Clone returns an independent copy.
func (p ProvenanceMap) Clone() ProvenanceMap {
	out := make(ProvenanceMap, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Paths returns the tracked paths in lexical order.
func (p ProvenanceMap) Paths() []string {
	paths := make([]string, 0, len(p))
	for k := range p {
		paths = append(paths, k)
	}
	sort.Strings(paths)
	return paths
}

// Lookup returns the origin for path; a missing leading slash is tolerated.
func (p ProvenanceMap) Lookup(path string) (string, bool) {
	if len(path) > 0 && path[0] != '/' {
		path = "/" + path
	}
	origin, ok := p[path]
	return origin, ok
}

func (p ProvenanceMap) tag(data map[string]any, origin string) {
	for _, path := range leafPaths(data, "") {
		p[path] = origin
	}
}

// Source is one partial override mapping and the identifier of where it came from.
type Source struct {
	Data   map[string]any
	Origin string
}

// SourceMerger combines override sources into one mapping, rejecting sources that
// govern overlapping key paths and recording provenance for every leaf.
type SourceMerger struct {
	provenance ProvenanceMap
}

// NewSourceMerger creates a merger that extends base; base may be nil.
func NewSourceMerger(base ProvenanceMap) *SourceMerger {
	if base == nil {
		base = make(ProvenanceMap)
	}
	return &SourceMerger{provenance: base.Clone()}
}

// Provenance returns a copy of the accumulated provenance.
func (m *SourceMerger) Provenance() ProvenanceMap {
	return m.provenance.Clone()
}

// Merge reduces sources left to right. Provenance is only updated when the whole
// merge succeeds.
func (m *SourceMerger) Merge(sources ...Source) (map[string]any, error) {
	if len(sources) == 0 {
		return make(map[string]any), nil
	}

	merged := cloneMap(sources[0].Data)
	origins := make(ProvenanceMap)
	origins.tag(merged, sources[0].Origin)

	for _, src := range sources[1:] {
		if err := checkConflicts(origins, src); err != nil {
			return nil, err
		}
		merged = deepMerge(merged, src.Data)
		origins.tag(src.Data, src.Origin)
	}

	for path, origin := range origins {
		m.provenance[path] = origin
	}
	return merged, nil
}

// Merge is a one-shot SourceMerger.
func Merge(sources ...Source) (map[string]any, ProvenanceMap, error) {
	m := NewSourceMerger(nil)
	merged, err := m.Merge(sources...)
	if err != nil {
		return nil, nil, err
	}
	return merged, m.Provenance(), nil
}

// checkConflicts fails when a leaf path already merged and a leaf path of src
// govern each other. Paths are compared whole, segment by segment.
func checkConflicts(merged ProvenanceMap, src Source) error {
	left := merged.Paths()
	right := leafPaths(src.Data, "")
	for _, a := range left {
		for _, b := range right {
			if isPathPrefix(a, b) || isPathPrefix(b, a) {
				return &ConflictError{
					Path:        a,
					Origin:      merged[a],
					OtherPath:   b,
					OtherOrigin: src.Origin,
				}
			}
		}
	}
	return nil
}

// deepMerge recursively merges src into dst.
// Maps present on both sides are merged; any other value in src replaces dst.
func deepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}

	for key, srcVal := range src {
		dstVal, exists := dst[key]
		if !exists {
			dst[key] = cloneValue(srcVal)
			continue
		}

		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dstVal.(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = deepMerge(dstMap, srcMap)
		} else {
			dst[key] = cloneValue(srcVal)
		}
	}

	return dst
}
