// File: lixenwraith/configer/helper.go
package configer

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// joinPath appends key to a slash-delimited path.
func joinPath(prefix, key string) string {
	return prefix + "/" + key
}

// splitPath turns "/a/b", "a/b" or "a.b" into its segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/.")
	if path == "" {
		return nil
	}
	if strings.Contains(path, "/") {
		return strings.Split(path, "/")
	}
	return strings.Split(path, ".")
}

// leafPaths collects the slash-delimited path of every non-mapping value in nested.
// Empty mappings contribute no leaves.
func leafPaths(nested map[string]any, prefix string) []string {
	var paths []string
	for key, value := range nested {
		newPath := joinPath(prefix, key)
		if nestedMap, isMap := value.(map[string]any); isMap {
			paths = append(paths, leafPaths(nestedMap, newPath)...)
		} else {
			paths = append(paths, newPath)
		}
	}
	sort.Strings(paths)
	return paths
}

// setNestedValue sets a value in a nested map using a slash-delimited path.
// Intermediate maps are created; a non-map segment is replaced by a new map.
func setNestedValue(nested map[string]any, path string, value any) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return
	}
	current := nested

	for _, segment := range segments[:len(segments)-1] {
		next, exists := current[segment]
		if nextMap, isMap := next.(map[string]any); exists && isMap {
			current = nextMap
			continue
		}
		newMap := make(map[string]any)
		current[segment] = newMap
		current = newMap
	}

	current[segments[len(segments)-1]] = value
}

// isPathPrefix reports whether a governs b: equal, or an ancestor by whole segments.
func isPathPrefix(a, b string) bool {
	return a == b || strings.HasPrefix(b, a+"/")
}

// cloneValue deep-copies maps and slices.
func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return val
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// normalizeValue converts decoded values into the canonical runtime set:
// int64, float64, string, bool, nil, []any and map[string]any.
// Values outside that set are returned unchanged and rejected later by inference
// or validation.
func normalizeValue(val any) (any, error) {
	switch v := val.(type) {
	case nil, bool, string, int64, float64:
		return v, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			n, err := normalizeValue(e)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("mapping key %v (type %T) is not a string", k, k)
			}
			n, err := normalizeValue(e)
			if err != nil {
				return nil, err
			}
			out[ks] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			n, err := normalizeValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case []map[string]any:
		out := make([]any, len(v))
		for i, e := range v {
			n, err := normalizeValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("unsigned integer %d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// binary data stays as is and is rejected by inference
			return val, nil
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			n, err := normalizeValue(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}
	return val, nil
}

// toTypeName converts a key to a PascalCase type name segment: cat_dog -> CatDog.
func toTypeName(key string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' }) {
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	return b.String()
}

// isValidKeySegment checks if a single path segment is a valid TOML bare key.
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}

	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isUnderscore := r == '_'
		isDash := r == '-'

		if !(isLetter || isDigit || isUnderscore || isDash) {
			return false
		}
	}
	return true
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// goIdent makes name a valid exported Go identifier.
func goIdent(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if name == "" || !unicode.IsLetter(r) {
		return "X" + name
	}
	return string(unicode.ToUpper(r)) + name[utf8.RuneLen(r):]
}
