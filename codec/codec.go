package codec

import (
	"reflect"

	"github.com/wippyai/litecodec/errors"
	"github.com/wippyai/litecodec/value"
)

// Char is a single Unicode code point. It serializes as a one-character
// string instead of a number.
type Char rune

// Union marks a struct as a tagged union. The marker goes on a blank
// field; every exported field must be a pointer and represents one
// variant, with exactly one non-nil at a time:
//
//	type Shape struct {
//		_      codec.Union `codec:"tag=type"`
//		Circle *Circle
//		Rect   *Rect `codec:"rectangle"`
//	}
//
// Marker options select the tagging strategy: none for external,
// tag=<key> for internal, tag=<key>,content=<key> for adjacent.
type Union struct{}

// Tuple marks a struct as a positional tuple. The exported fields are
// serialized as array elements in declaration order; field names never
// appear on the wire. A single-field tuple serializes to the bare
// element value.
type Tuple struct{}

// Serializer overrides the default serialization for a type.
type Serializer interface {
	SerializeValue() (value.Value, error)
}

// Deserializer overrides the default deserialization for a type. It is
// called on a pointer receiver and replaces the receiver's content.
type Deserializer interface {
	DeserializeValue(value.Value) error
}

// Updater overrides the default partial update for a type. Types that
// implement Deserializer but not Updater fall back to full replacement.
type Updater interface {
	UpdateValue(value.Value) error
}

// Serialize converts a typed value into an intermediate value.
//
// Pointers follow optional semantics: a nil pointer serializes to None,
// a non-nil pointer serializes its referent. Passing a non-pointer value
// works but copies it first; prefer passing a pointer for types holding
// locks.
func Serialize(v any) (value.Value, error) {
	if v == nil {
		return value.None(), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		// Copy into addressable storage so pointer-receiver hooks work.
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		rv = p.Elem()
	}

	ct, err := planFor(rv.Type())
	if err != nil {
		return value.Value{}, err
	}

	return serializeValue(ct, rv)
}

// Deserialize converts an intermediate value into the typed value out
// points to. The target is fully reconstructed; see Update for partial
// application.
func Deserialize(val value.Value, out any) error {
	rv, err := targetOf(out, errors.PhaseDeserialize)
	if err != nil {
		return err
	}

	ct, err := planFor(rv.Type())
	if err != nil {
		return err
	}

	return deserializeValue(ct, val, rv)
}

// Update merges an intermediate value into the typed value target points
// to. Scalars are replaced, sequences merge by position (truncating or
// appending to match the input length), maps merge by key without
// deleting entries, and nil optionals are constructed on demand.
func Update(target any, val value.Value) error {
	rv, err := targetOf(target, errors.PhaseUpdate)
	if err != nil {
		return err
	}

	ct, err := planFor(rv.Type())
	if err != nil {
		return err
	}

	return updateValue(ct, val, rv)
}

func targetOf(out any, phase errors.Phase) (reflect.Value, error) {
	if out == nil {
		return reflect.Value{}, errors.Custom(phase, "target must be a non-nil pointer")
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, errors.Custom(phase, "target must be a non-nil pointer, got %s", rv.Type())
	}
	return rv.Elem(), nil
}

// stamp fills in the protocol phase on numeric conversion errors coming
// from the value package, which does not know the calling protocol.
func stamp(err error, phase errors.Phase) error {
	if e, ok := err.(*errors.Error); ok && e.Phase == "" {
		e.Phase = phase
	}
	return err
}
