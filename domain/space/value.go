// Package space defines the hyperparameter search space: typed candidate
// values, dependency expressions, parameter specs and the immutable Space.
package space

import (
	"strconv"
	"strings"
)

// Kind discriminates the scalar variants
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Scalar is one integer, float or boolean candidate value.
// Scalars are comparable and usable as map keys.
type Scalar struct {
	kind Kind
	i    int64
	f    float64
	b    bool
}

// Int creates an integer scalar
func Int(v int64) Scalar { return Scalar{kind: KindInt, i: v} }

// Float creates a float scalar
func Float(v float64) Scalar { return Scalar{kind: KindFloat, f: v} }

// Bool creates a boolean scalar
func Bool(v bool) Scalar { return Scalar{kind: KindBool, b: v} }

// Ints is shorthand for a candidate list of integers
func Ints(vs ...int64) []Scalar {
	out := make([]Scalar, len(vs))
	for i, v := range vs {
		out[i] = Int(v)
	}
	return out
}

// Floats is shorthand for a candidate list of floats
func Floats(vs ...float64) []Scalar {
	out := make([]Scalar, len(vs))
	for i, v := range vs {
		out[i] = Float(v)
	}
	return out
}

// Bools is shorthand for a candidate list of booleans
func Bools(vs ...bool) []Scalar {
	out := make([]Scalar, len(vs))
	for i, v := range vs {
		out[i] = Bool(v)
	}
	return out
}

// Kind returns the scalar variant
func (s Scalar) Kind() Kind { return s.kind }

// IsBool reports whether the scalar is a boolean
func (s Scalar) IsBool() bool { return s.kind == KindBool }

// AsInt returns the integer payload
func (s Scalar) AsInt() (int64, bool) {
	if s.kind != KindInt {
		return 0, false
	}
	return s.i, true
}

// AsFloat returns the float payload; integers are widened
func (s Scalar) AsFloat() (float64, bool) {
	switch s.kind {
	case KindFloat:
		return s.f, true
	case KindInt:
		return float64(s.i), true
	default:
		return 0, false
	}
}

// AsBool returns the boolean payload
func (s Scalar) AsBool() (bool, bool) {
	if s.kind != KindBool {
		return false, false
	}
	return s.b, true
}

// String renders the scalar for logs and diagnostics
func (s Scalar) String() string {
	switch s.kind {
	case KindInt:
		return strconv.FormatInt(s.i, 10)
	case KindFloat:
		return strconv.FormatFloat(s.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(s.b)
	default:
		return "?"
	}
}

// canonical is a kind-tagged encoding used for fingerprints
func (s Scalar) canonical() string {
	switch s.kind {
	case KindInt:
		return "i:" + strconv.FormatInt(s.i, 10)
	case KindFloat:
		return "f:" + strconv.FormatFloat(s.f, 'g', -1, 64)
	case KindBool:
		return "b:" + strconv.FormatBool(s.b)
	default:
		return "?"
	}
}

// Value is a resolved parameter value: either a single Scalar or an
// ordered Tuple of scalars.
type Value struct {
	scalar  Scalar
	tuple   []Scalar
	isTuple bool
}

// ScalarValue wraps a scalar
func ScalarValue(s Scalar) Value { return Value{scalar: s} }

// TupleValue copies elems into a tuple value
func TupleValue(elems ...Scalar) Value {
	t := make([]Scalar, len(elems))
	copy(t, elems)
	return Value{tuple: t, isTuple: true}
}

// IsTuple reports whether the value is a tuple
func (v Value) IsTuple() bool { return v.isTuple }

// Scalar returns the scalar payload when the value is not a tuple
func (v Value) Scalar() (Scalar, bool) {
	if v.isTuple {
		return Scalar{}, false
	}
	return v.scalar, true
}

// Tuple returns a copy of the tuple elements; nil for scalars
func (v Value) Tuple() []Scalar {
	if !v.isTuple {
		return nil
	}
	out := make([]Scalar, len(v.tuple))
	copy(out, v.tuple)
	return out
}

// Len is 1 for scalars and the element count for tuples
func (v Value) Len() int {
	if v.isTuple {
		return len(v.tuple)
	}
	return 1
}

// Equal compares variant and payload
func (v Value) Equal(o Value) bool {
	if v.isTuple != o.isTuple {
		return false
	}
	if !v.isTuple {
		return v.scalar == o.scalar
	}
	if len(v.tuple) != len(o.tuple) {
		return false
	}
	for i := range v.tuple {
		if v.tuple[i] != o.tuple[i] {
			return false
		}
	}
	return true
}

// Canonical returns an unambiguous encoding of the value
func (v Value) Canonical() string {
	if !v.isTuple {
		return v.scalar.canonical()
	}
	parts := make([]string, len(v.tuple))
	for i, s := range v.tuple {
		parts[i] = s.canonical()
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// String renders the value for logs and diagnostics
func (v Value) String() string {
	if !v.isTuple {
		return v.scalar.String()
	}
	parts := make([]string, len(v.tuple))
	for i, s := range v.tuple {
		parts[i] = s.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
