package codec

import (
	"reflect"
	"strconv"

	"github.com/wippyai/litecodec/errors"
	"github.com/wippyai/litecodec/value"
)

func updateValue(ct *compiledType, val value.Value, rv reflect.Value) error {
	if ct.hasUpd {
		return asUpdater(rv).UpdateValue(val)
	}
	if ct.hasDe {
		// Hook types without update support fall back to replacement.
		return asDeserializer(rv).DeserializeValue(val)
	}

	switch ct.kind {
	case kindValue:
		cur := rv.Interface().(value.Value)
		rv.Set(reflect.ValueOf(cur.Merge(val)))
		return nil

	case kindBool, kindInt, kindUint, kindFloat, kindString, kindChar, kindUnit:
		// Scalars replace.
		return deserializeValue(ct, val, rv)

	case kindPointer:
		if val.IsNone() {
			rv.SetZero()
			return nil
		}
		if !rv.IsNil() {
			return updateValue(ct.elem, val, rv.Elem())
		}
		p := reflect.New(ct.elem.goType)
		if err := deserializeValue(ct.elem, val, p.Elem()); err != nil {
			return err
		}
		rv.Set(p)
		return nil

	case kindSlice:
		return updateSlice(ct, val, rv)
	case kindArray:
		return updateArray(ct, val, rv)
	case kindMap:
		return updateMap(ct, val, rv)
	case kindStruct:
		return updateStruct(ct, val, rv)
	case kindTuple:
		return updateTuple(ct, val, rv)
	case kindUnion:
		return updateUnion(ct, val, rv)
	default:
		return errors.Custom(errors.PhaseUpdate, "cannot update %s", ct.goType)
	}
}

// updateSlice merges by position: shared indexes update in place, a
// longer input appends fresh elements, a shorter input truncates.
// Updates are not atomic: positions merged before a failing one keep
// their new values, and truncation still applies, when the aggregated
// error is returned.
func updateSlice(ct *compiledType, val value.Value, rv reflect.Value) error {
	arr, ok := val.AsArray()
	if !ok {
		return errors.InvalidValue(errors.PhaseUpdate, "array")
	}

	n := len(arr)
	shared := min(rv.Len(), n)
	var errs errors.IndexErrors

	for i := 0; i < shared; i++ {
		if err := updateValue(ct.elem, arr[i], rv.Index(i)); err != nil {
			errs.Push(i, err)
		}
	}

	if n < rv.Len() {
		rv.Set(rv.Slice(0, n))
	}
	for i := shared; i < n; i++ {
		elem := reflect.New(ct.elem.goType).Elem()
		if err := deserializeValue(ct.elem, arr[i], elem); err != nil {
			errs.Push(i, err)
			continue
		}
		rv.Set(reflect.Append(rv, elem))
	}

	if !errs.IsEmpty() {
		return errors.Indexes(errors.PhaseUpdate, errs)
	}
	return nil
}

func updateArray(ct *compiledType, val value.Value, rv reflect.Value) error {
	arr, ok := val.AsArray()
	if !ok {
		return errors.InvalidValue(errors.PhaseUpdate, "array")
	}
	n := ct.goType.Len()
	if len(arr) < n {
		return errors.InvalidValue(errors.PhaseUpdate, "array of length "+strconv.Itoa(n))
	}

	var errs errors.IndexErrors
	for i := 0; i < n; i++ {
		if err := updateValue(ct.elem, arr[i], rv.Index(i)); err != nil {
			errs.Push(i, err)
		}
	}
	if !errs.IsEmpty() {
		return errors.Indexes(errors.PhaseUpdate, errs)
	}
	return nil
}

// updateMap merges by key: existing entries update recursively, new keys
// are inserted fresh, keys absent from the input stay untouched.
func updateMap(ct *compiledType, val value.Value, rv reflect.Value) error {
	m, ok := val.AsMap()
	if !ok {
		return errors.InvalidValue(errors.PhaseUpdate, "object")
	}

	if rv.IsNil() {
		rv.Set(reflect.MakeMapWithSize(ct.goType, m.Len()))
	}

	var errs errors.FieldErrors
	m.Range(func(key string, v value.Value) bool {
		kv, err := decodeKey(ct.key, key, errors.PhaseUpdate)
		if err != nil {
			errs.Push(key, err)
			return true
		}

		elem := reflect.New(ct.elem.goType).Elem()
		if existing := rv.MapIndex(kv); existing.IsValid() {
			elem.Set(existing)
			err = updateValue(ct.elem, v, elem)
		} else {
			err = deserializeValue(ct.elem, v, elem)
		}
		if err != nil {
			errs.Push(key, err)
			return true
		}

		rv.SetMapIndex(kv, elem)
		return true
	})

	if !errs.IsEmpty() {
		return errors.Fields(errors.PhaseUpdate, errs)
	}
	return nil
}

func updateStruct(ct *compiledType, val value.Value, rv reflect.Value) error {
	const phase = errors.PhaseUpdate

	m, ok := val.AsMap()
	if !ok {
		return errors.InvalidValue(phase, "object")
	}

	var errs errors.FieldErrors
	for i := range ct.fields {
		f := &ct.fields[i]
		if f.skipDe {
			continue
		}
		fv := rv.Field(f.index)

		if f.flatten {
			err := updateField(f, val, fv)
			if err != nil {
				if nested, ok := errors.AsFieldErrors(err); ok {
					errs.Append(nested)
					continue
				}
				return err
			}
			continue
		}

		v, present := m.Get(f.name)
		if !present {
			continue
		}
		if err := updateField(f, v, fv); err != nil {
			errs.Push(f.name, err)
		}
	}

	if !errs.IsEmpty() {
		return errors.Fields(phase, errs)
	}
	return nil
}

func updateField(f *compiledField, val value.Value, fv reflect.Value) error {
	if f.updWith != nil {
		return f.updWith(fv.Addr().Interface(), val)
	}
	return updateValue(f.typ, val, fv)
}

func updateTuple(ct *compiledType, val value.Value, rv reflect.Value) error {
	const phase = errors.PhaseUpdate

	switch n := len(ct.tuple); n {
	case 0:
		return nil

	case 1:
		e := ct.tuple[0]
		elem := val
		wrapped := false
		if arr, ok := val.AsArray(); ok {
			if len(arr) < 1 {
				return errors.InvalidValue(phase, "array of length 1")
			}
			elem = arr[0]
			wrapped = true
		}
		if err := updateValue(e.typ, elem, rv.Field(e.index)); err != nil {
			if wrapped {
				var errs errors.IndexErrors
				errs.Push(0, err)
				return errors.Indexes(phase, errs)
			}
			return err
		}
		return nil

	default:
		arr, ok := val.AsArray()
		if !ok {
			return errors.InvalidValue(phase, "array")
		}
		if len(arr) < n {
			return errors.InvalidValue(phase, "array of length "+strconv.Itoa(n))
		}

		var errs errors.IndexErrors
		for i, e := range ct.tuple {
			if err := updateValue(e.typ, arr[i], rv.Field(e.index)); err != nil {
				errs.Push(i, err)
			}
		}
		if !errs.IsEmpty() {
			return errors.Indexes(phase, errs)
		}
		return nil
	}
}

func updateUnion(ct *compiledType, val value.Value, rv reflect.Value) error {
	const phase = errors.PhaseUpdate
	plan := ct.union
	cur, curFv, _ := findVariant(plan, rv)

	if plan.tagKey == "" {
		// External tagging.
		if m, ok := val.AsMap(); ok {
			for i := range plan.variants {
				v := &plan.variants[i]
				content, present := m.Get(v.name)
				if !present {
					continue
				}
				if cur == v {
					return updateValue(v.elem, content, curFv.Elem())
				}
				return replaceUnion(ct, val, rv)
			}
			return errors.New(phase, errors.KindUnknownVariant).Build()
		}
		if s, ok := val.AsString(); ok {
			v := variantByName(plan, s)
			if v == nil {
				return errors.UnknownVariant(phase, s)
			}
			if !v.contentless() {
				return errors.MissingVariantContent(phase)
			}
			if cur == v {
				return nil
			}
			return replaceUnion(ct, val, rv)
		}
		return errors.InvalidValue(phase, "enum variant")
	}

	// Internal and adjacent tagging.
	m, ok := val.AsMap()
	if !ok {
		return errors.InvalidValue(phase, "object")
	}

	// A missing tag key falls back to the receiver's current variant,
	// allowing partial updates that omit the discriminant. Deserialize
	// has no receiver to infer from and keeps the tag required.
	var name string
	if tagVal, present := m.Get(plan.tagKey); present {
		s, ok := tagVal.AsString()
		if !ok {
			var errs errors.FieldErrors
			errs.Push(plan.tagKey, errors.InvalidValue(phase, "enum variant name"))
			return errors.Fields(phase, errs)
		}
		name = s
	} else if cur != nil {
		name = cur.name
	} else {
		var errs errors.FieldErrors
		errs.Push(plan.tagKey, errors.MissingField(phase))
		return errors.Fields(phase, errs)
	}

	v := variantByName(plan, name)
	if v == nil {
		return errors.UnknownVariant(phase, name)
	}

	content := val
	hasContent := true
	if plan.contentKey != "" {
		content, hasContent = m.Get(plan.contentKey)
	}

	if !hasContent {
		if !v.contentless() {
			var errs errors.FieldErrors
			errs.Push(plan.contentKey, errors.MissingField(phase))
			return errors.Fields(phase, errs)
		}
		if cur == v {
			return nil
		}
		return replaceUnion(ct, val, rv)
	}

	if cur == v {
		return updateValue(v.elem, content, curFv.Elem())
	}
	return replaceUnion(ct, val, rv)
}

// replaceUnion switches a union to a different variant by running a
// full deserialization of the input.
func replaceUnion(ct *compiledType, val value.Value, rv reflect.Value) error {
	tmp := reflect.New(ct.goType).Elem()
	if err := deserializeUnion(ct, val, tmp); err != nil {
		return err
	}
	rv.Set(tmp)
	return nil
}

func asUpdater(rv reflect.Value) Updater {
	return rv.Addr().Interface().(Updater)
}
