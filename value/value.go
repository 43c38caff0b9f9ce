package value

import (
	"strings"
	"unicode/utf8"
)

// Kind discriminates the variant held by a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindMap
)

var kindNames = [...]string{
	KindNone:   "none",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
	KindArray:  "array",
	KindMap:    "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is the intermediate data representation. The shape mirrors JSON:
// absence, booleans, numbers, strings, ordered arrays and string-keyed
// maps. Values are immutable by convention; use Clone before mutating
// shared data.
//
// The zero Value is None.
type Value struct {
	m    *Map
	arr  []Value
	str  string
	num  Number
	b    bool
	kind Kind
}

// None returns the explicit-absence value.
func None() Value { return Value{} }

// Bool creates a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Num creates a numeric value from a Number.
func Num(n Number) Value { return Value{kind: KindNumber, num: n} }

// Int creates a signed-integer value.
func Int(v int64) Value { return Num(IntNumber(v)) }

// Uint creates an unsigned-integer value.
func Uint(v uint64) Value { return Num(UintNumber(v)) }

// Float creates a float value.
func Float(v float64) Value { return Num(FloatNumber(v)) }

// Str creates a string value.
func Str(v string) Value { return Value{kind: KindString, str: v} }

// CharOf creates the one-character string value representing a char.
func CharOf(r rune) Value { return Str(string(r)) }

// Array creates an array value from the given elements.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, arr: elems}
}

// ArrayOf wraps an existing element slice without copying.
func ArrayOf(elems []Value) Value {
	return Value{kind: KindArray, arr: elems}
}

// Entry is a key-value pair for the Object literal builder.
type Entry struct {
	Key string
	Val Value
}

// E builds a single Object entry.
func E(key string, v Value) Entry {
	return Entry{Key: key, Val: v}
}

// Object creates a map value from literal entries, preserving their
// order on ordered builds:
//
//	value.Object(
//		value.E("field1", value.None()),
//		value.E("field2", value.Str("foo")),
//	)
func Object(entries ...Entry) Value {
	m := NewMapCapacity(len(entries))
	for _, e := range entries {
		m.Set(e.Key, e.Val)
	}
	return MapValue(m)
}

// MapValue wraps an existing Map without copying.
func MapValue(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindMap, m: m}
}

// Kind returns the variant held by the value.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports explicit absence. Both "field omitted" during
// deserialization and "no value" for optional types use None.
func (v Value) IsNone() bool { return v.kind == KindNone }

// AsBool returns the boolean value, if the variant matches.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsNumber returns the numeric value, if the variant matches.
func (v Value) AsNumber() (Number, bool) {
	if v.kind != KindNumber {
		return Number{}, false
	}
	return v.num, true
}

// AsString returns the string value, if the variant matches.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsChar returns the value as a character: a string holding exactly one
// rune.
func (v Value) AsChar() (rune, bool) {
	s, ok := v.AsString()
	if !ok {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError && size == 1 {
		return 0, false
	}
	return r, true
}

// AsArray returns the element slice, if the variant matches. The slice
// must be treated as read-only.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// AsMap returns the map, if the variant matches. The map must be treated
// as read-only.
func (v Value) AsMap() (*Map, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// Clone returns a deep copy of the value.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		elems := make([]Value, len(v.arr))
		for i, e := range v.arr {
			elems[i] = e.Clone()
		}
		return ArrayOf(elems)
	case KindMap:
		return MapValue(v.m.Clone())
	default:
		return v
	}
}

// Equal reports structural equality. Numbers compare by exact
// representation: Int(1) and Float(1) are not equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNone:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.num.Equal(other.num)
	case KindString:
		return v.str == other.str
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.m.Equal(other.m)
	default:
		return false
	}
}

// Merge applies in onto v with partial-update semantics and returns the
// result. Arrays merge position by position: shared indexes merge
// recursively, a longer input appends, a shorter input truncates. Maps
// merge key by key and never delete entries absent from the input. Any
// other combination replaces v with in.
func (v Value) Merge(in Value) Value {
	switch {
	case v.kind == KindArray && in.kind == KindArray:
		out := make([]Value, len(in.arr))
		for i, elem := range in.arr {
			if i < len(v.arr) {
				out[i] = v.arr[i].Merge(elem)
			} else {
				out[i] = elem.Clone()
			}
		}
		return ArrayOf(out)
	case v.kind == KindMap && in.kind == KindMap:
		out := v.m.Clone()
		in.m.Range(func(k string, inV Value) bool {
			if cur, ok := out.Get(k); ok {
				out.Set(k, cur.Merge(inV))
			} else {
				out.Set(k, inV.Clone())
			}
			return true
		})
		return MapValue(out)
	default:
		return in.Clone()
	}
}

// String renders a compact debug form. It is not a wire format.
func (v Value) String() string {
	var b strings.Builder
	v.debugString(&b)
	return b.String()
}

func (v Value) debugString(b *strings.Builder) {
	switch v.kind {
	case KindNone:
		b.WriteString("null")
	case KindBool:
		if v.b {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindNumber:
		b.WriteString(v.num.String())
	case KindString:
		b.WriteByte('"')
		b.WriteString(v.str)
		b.WriteByte('"')
	case KindArray:
		b.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				b.WriteString(", ")
			}
			e.debugString(b)
		}
		b.WriteByte(']')
	case KindMap:
		b.WriteByte('{')
		first := true
		v.m.Range(func(k string, e Value) bool {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteByte('"')
			b.WriteString(k)
			b.WriteString("\": ")
			e.debugString(b)
			return true
		})
		b.WriteByte('}')
	}
}
