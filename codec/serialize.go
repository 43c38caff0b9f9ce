package codec

import (
	"encoding"
	"reflect"
	"sort"

	"github.com/wippyai/litecodec/errors"
	"github.com/wippyai/litecodec/value"
)

func serializeValue(ct *compiledType, rv reflect.Value) (value.Value, error) {
	if ct.hasSer {
		return asSerializer(rv).SerializeValue()
	}

	switch ct.kind {
	case kindValue:
		return rv.Interface().(value.Value).Clone(), nil
	case kindBool:
		return value.Bool(rv.Bool()), nil
	case kindInt:
		return value.Int(rv.Int()), nil
	case kindUint:
		return value.Uint(rv.Uint()), nil
	case kindFloat:
		return value.Float(rv.Float()), nil
	case kindString:
		return value.Str(rv.String()), nil
	case kindChar:
		return value.CharOf(rune(rv.Int())), nil
	case kindUnit:
		return value.None(), nil
	case kindPointer:
		if rv.IsNil() {
			return value.None(), nil
		}
		return serializeValue(ct.elem, rv.Elem())
	case kindSlice, kindArray:
		return serializeSequence(ct, rv)
	case kindMap:
		return serializeMap(ct, rv)
	case kindStruct:
		return serializeStruct(ct, rv)
	case kindTuple:
		return serializeTuple(ct, rv)
	case kindUnion:
		return serializeUnion(ct, rv)
	default:
		return value.Value{}, errors.Custom(errors.PhaseSerialize, "cannot serialize %s", ct.goType)
	}
}

func serializeSequence(ct *compiledType, rv reflect.Value) (value.Value, error) {
	n := rv.Len()
	elems := make([]value.Value, 0, n)
	var errs errors.IndexErrors

	for i := 0; i < n; i++ {
		v, err := serializeValue(ct.elem, rv.Index(i))
		if err != nil {
			errs.Push(i, err)
			continue
		}
		elems = append(elems, v)
	}

	if !errs.IsEmpty() {
		return value.Value{}, errors.Indexes(errors.PhaseSerialize, errs)
	}
	return value.ArrayOf(elems), nil
}

// serializeMap emits entries in sorted key order so output is stable
// regardless of Go map iteration. One failing value aborts the whole map.
func serializeMap(ct *compiledType, rv reflect.Value) (value.Value, error) {
	type entry struct {
		key string
		val reflect.Value
	}

	pairs := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, err := encodeKey(ct.key, iter.Key())
		if err != nil {
			return value.Value{}, err
		}
		pairs = append(pairs, entry{key: key, val: iter.Value()})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	m := value.NewMapCapacity(len(pairs))
	for _, p := range pairs {
		v, err := serializeValue(ct.elem, p.val)
		if err != nil {
			return value.Value{}, err
		}
		m.Set(p.key, v)
	}
	return value.MapValue(m), nil
}

func serializeStruct(ct *compiledType, rv reflect.Value) (value.Value, error) {
	m := value.NewMapCapacity(len(ct.fields))
	var errs errors.FieldErrors

	for i := range ct.fields {
		f := &ct.fields[i]
		if f.skipSer {
			continue
		}

		fv := rv.Field(f.index)
		if f.skipIf != nil && f.skipIf(fieldPtr(fv)) {
			continue
		}

		var v value.Value
		var err error
		if f.serWith != nil {
			v, err = f.serWith(fieldPtr(fv))
		} else {
			v, err = serializeValue(f.typ, fv)
		}

		if f.flatten {
			if err != nil {
				if nested, ok := errors.AsFieldErrors(err); ok {
					errs.Append(nested)
					continue
				}
				return value.Value{}, err
			}
			inner, ok := v.AsMap()
			if !ok {
				return value.Value{}, errors.Custom(errors.PhaseSerialize,
					"field %q cannot be flattened", f.name)
			}
			m.Extend(inner)
			continue
		}

		if err != nil {
			errs.Push(f.name, err)
			continue
		}
		m.Set(f.name, v)
	}

	if !errs.IsEmpty() {
		return value.Value{}, errors.Fields(errors.PhaseSerialize, errs)
	}
	return value.MapValue(m), nil
}

func serializeTuple(ct *compiledType, rv reflect.Value) (value.Value, error) {
	switch len(ct.tuple) {
	case 0:
		return value.None(), nil
	case 1:
		e := ct.tuple[0]
		return serializeValue(e.typ, rv.Field(e.index))
	}

	elems := make([]value.Value, 0, len(ct.tuple))
	var errs errors.IndexErrors
	for i, e := range ct.tuple {
		v, err := serializeValue(e.typ, rv.Field(e.index))
		if err != nil {
			errs.Push(i, err)
			continue
		}
		elems = append(elems, v)
	}

	if !errs.IsEmpty() {
		return value.Value{}, errors.Indexes(errors.PhaseSerialize, errs)
	}
	return value.ArrayOf(elems), nil
}

func serializeUnion(ct *compiledType, rv reflect.Value) (value.Value, error) {
	plan := ct.union

	vp, fv, multiple := findVariant(plan, rv)
	if multiple {
		return value.Value{}, errors.Custom(errors.PhaseSerialize,
			"union %s has multiple variants set", ct.goType)
	}
	if vp == nil {
		return value.Value{}, errors.Custom(errors.PhaseSerialize,
			"union %s has no variant set", ct.goType)
	}

	content, err := serializeValue(vp.elem, fv.Elem())
	if err != nil {
		return value.Value{}, err
	}

	switch {
	case plan.tagKey == "": // external
		// Only structurally content-less variants become bare strings.
		// A content-bearing variant whose payload happens to be None
		// keeps the map form so deserialize can recover it.
		if vp.contentless() {
			return value.Str(vp.name), nil
		}
		return value.Object(value.E(vp.name, content)), nil

	case plan.contentKey == "": // internal
		if isEmptyContent(content) {
			return value.Object(value.E(plan.tagKey, value.Str(vp.name))), nil
		}
		inner, ok := content.AsMap()
		if !ok {
			return value.Value{}, errors.Custom(errors.PhaseSerialize,
				"variant %q cannot be tagged internally", vp.name)
		}
		m := value.NewMapCapacity(inner.Len() + 1)
		m.Set(plan.tagKey, value.Str(vp.name))
		m.Extend(inner)
		return value.MapValue(m), nil

	default: // adjacent
		m := value.NewMapCapacity(2)
		m.Set(plan.tagKey, value.Str(vp.name))
		m.Set(plan.contentKey, content)
		return value.MapValue(m), nil
	}
}

// isEmptyContent treats None and the empty array as "no content" for
// internal tagging, so empty tuple variants round-trip to tag-only maps.
func isEmptyContent(v value.Value) bool {
	if v.IsNone() {
		return true
	}
	arr, ok := v.AsArray()
	return ok && len(arr) == 0
}

// findVariant returns the single non-nil variant of a union value.
func findVariant(plan *unionPlan, rv reflect.Value) (*variantPlan, reflect.Value, bool) {
	var found *variantPlan
	var fv reflect.Value

	for i := range plan.variants {
		v := &plan.variants[i]
		f := rv.Field(v.index)
		if f.IsNil() {
			continue
		}
		if found != nil {
			return found, fv, true
		}
		found = v
		fv = f
	}
	return found, fv, false
}

func asSerializer(rv reflect.Value) Serializer {
	if rv.Kind() != reflect.Pointer && rv.CanAddr() {
		if s, ok := rv.Addr().Interface().(Serializer); ok {
			return s
		}
	}
	if s, ok := rv.Interface().(Serializer); ok {
		return s
	}
	p := reflect.New(rv.Type())
	p.Elem().Set(rv)
	return p.Interface().(Serializer)
}

// fieldPtr hands a hook a pointer to the field, copying when the field
// is not addressable (map elements).
func fieldPtr(fv reflect.Value) any {
	if fv.CanAddr() {
		return fv.Addr().Interface()
	}
	p := reflect.New(fv.Type())
	p.Elem().Set(fv)
	return p.Interface()
}

func encodeKey(kc *keyCodec, kv reflect.Value) (string, error) {
	switch kc.kind {
	case keyString:
		return kv.String(), nil
	case keyInt:
		return value.IntNumber(kv.Int()).String(), nil
	case keyUint:
		return value.UintNumber(kv.Uint()).String(), nil
	default:
		m, ok := kv.Interface().(encoding.TextMarshaler)
		if !ok {
			m = fieldPtr(kv).(encoding.TextMarshaler)
		}
		text, err := m.MarshalText()
		if err != nil {
			return "", errors.InvalidKey(errors.PhaseSerialize, kv.Type().String(), err)
		}
		return string(text), nil
	}
}
