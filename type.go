// File: lixenwraith/configer/type.go
package configer

import (
	"fmt"
	"strings"
)

// Kind tags a TypeDescriptor.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindBool
	KindNull
	KindTuple
	KindSequence
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "str"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindTuple:
		return "tuple"
	case KindSequence:
		return "sequence"
	case KindComposite:
		return "composite"
	default:
		return "unknown"
	}
}

// TypeDescriptor is the inferred type of a single setting value.
//
// Elems is set for KindTuple (one entry per position), Elem for KindSequence and
// Name for KindComposite.
type TypeDescriptor struct {
	Kind  Kind
	Elems []TypeDescriptor
	Elem  *TypeDescriptor
	Name  string
}

// Primitive returns the descriptor of a primitive kind.
func Primitive(k Kind) TypeDescriptor { return TypeDescriptor{Kind: k} }

// FixedTuple returns a tuple descriptor with one type per position.
func FixedTuple(elems ...TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: KindTuple, Elems: elems}
}

// HomogeneousSequence returns a sequence descriptor of any arity.
func HomogeneousSequence(elem TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: KindSequence, Elem: &elem}
}

// Composite returns a reference to a named schema entry.
func Composite(name string) TypeDescriptor {
	return TypeDescriptor{Kind: KindComposite, Name: name}
}

// IsPrimitive reports whether t is one of int, float, str, bool or null.
func (t TypeDescriptor) IsPrimitive() bool {
	return t.Kind <= KindNull
}

// String renders t the way it appears in error messages and schema dumps,
// e.g. "int", "tuple[int, str]", "[]float", "Training".
func (t TypeDescriptor) String() string {
	switch t.Kind {
	case KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "tuple[" + strings.Join(parts, ", ") + "]"
	case KindSequence:
		return "[]" + t.Elem.String()
	case KindComposite:
		return t.Name
	default:
		return t.Kind.String()
	}
}

// Equal reports structural equality.
func (t TypeDescriptor) Equal(o TypeDescriptor) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindTuple:
		if len(t.Elems) != len(o.Elems) {
			return false
		}
		for i := range t.Elems {
			if !t.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	case KindSequence:
		return t.Elem.Equal(*o.Elem)
	case KindComposite:
		return t.Name == o.Name
	default:
		return true
	}
}

// GoType returns the Go type used for t in emitted source.
func (t TypeDescriptor) GoType() string {
	switch t.Kind {
	case KindInt:
		return "int64"
	case KindFloat:
		return "float64"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNull:
		return "any"
	case KindTuple:
		return "[]any"
	case KindSequence:
		return "[]" + t.Elem.GoType()
	case KindComposite:
		return goIdent(t.Name)
	default:
		return "any"
	}
}

// primitiveKind classifies a normalized primitive value.
// bool is tested before the numeric kinds.
func primitiveKind(v any) (Kind, bool) {
	switch v.(type) {
	case bool:
		return KindBool, true
	case int64:
		return KindInt, true
	case float64:
		return KindFloat, true
	case string:
		return KindString, true
	case nil:
		return KindNull, true
	}
	return 0, false
}

// describeValue renders the runtime type of v for InvalidTypeError.
func describeValue(v any) string {
	if k, ok := primitiveKind(v); ok {
		return k.String()
	}
	switch val := v.(type) {
	case []any:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = describeValue(e)
		}
		return "tuple[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		return "mapping"
	case *Node:
		return val.entry.Name
	default:
		return fmt.Sprintf("%T", v)
	}
}
