package codec

import (
	"encoding"
	"reflect"
	"strconv"

	"github.com/wippyai/litecodec/errors"
	"github.com/wippyai/litecodec/value"
)

func deserializeValue(ct *compiledType, val value.Value, rv reflect.Value) error {
	if ct.hasDe {
		return asDeserializer(rv).DeserializeValue(val)
	}

	const phase = errors.PhaseDeserialize

	switch ct.kind {
	case kindValue:
		rv.Set(reflect.ValueOf(val.Clone()))
		return nil

	case kindBool:
		b, ok := val.AsBool()
		if !ok {
			return errors.InvalidValue(phase, "bool")
		}
		rv.SetBool(b)
		return nil

	case kindInt:
		n, ok := val.AsNumber()
		if !ok {
			return errors.InvalidValue(phase, "number")
		}
		i, err := n.Int64()
		if err != nil {
			return stamp(err, phase)
		}
		if rv.OverflowInt(i) {
			return errors.OutOfBounds(phase, i, rv.Type().String())
		}
		rv.SetInt(i)
		return nil

	case kindUint:
		n, ok := val.AsNumber()
		if !ok {
			return errors.InvalidValue(phase, "number")
		}
		u, err := n.Uint64()
		if err != nil {
			return stamp(err, phase)
		}
		if rv.OverflowUint(u) {
			return errors.OutOfBounds(phase, u, rv.Type().String())
		}
		rv.SetUint(u)
		return nil

	case kindFloat:
		n, ok := val.AsNumber()
		if !ok {
			return errors.InvalidValue(phase, "number")
		}
		f := n.Float64()
		if rv.OverflowFloat(f) {
			return errors.OutOfBounds(phase, f, rv.Type().String())
		}
		rv.SetFloat(f)
		return nil

	case kindString:
		s, ok := val.AsString()
		if !ok {
			return errors.InvalidValue(phase, "string")
		}
		rv.SetString(s)
		return nil

	case kindChar:
		r, ok := val.AsChar()
		if !ok {
			return errors.InvalidValue(phase, "single character")
		}
		rv.SetInt(int64(r))
		return nil

	case kindUnit:
		rv.SetZero()
		return nil

	case kindPointer:
		if val.IsNone() {
			rv.SetZero()
			return nil
		}
		p := reflect.New(ct.elem.goType)
		if err := deserializeValue(ct.elem, val, p.Elem()); err != nil {
			return err
		}
		rv.Set(p)
		return nil

	case kindSlice:
		return deserializeSlice(ct, val, rv)
	case kindArray:
		return deserializeArray(ct, val, rv)
	case kindMap:
		return deserializeMap(ct, val, rv)
	case kindStruct:
		return deserializeStruct(ct, val, rv)
	case kindTuple:
		return deserializeTuple(ct, val, rv)
	case kindUnion:
		return deserializeUnion(ct, val, rv)
	default:
		return errors.Custom(phase, "cannot deserialize into %s", ct.goType)
	}
}

func deserializeSlice(ct *compiledType, val value.Value, rv reflect.Value) error {
	arr, ok := val.AsArray()
	if !ok {
		return errors.InvalidValue(errors.PhaseDeserialize, "array")
	}

	out := reflect.MakeSlice(ct.goType, len(arr), len(arr))
	var errs errors.IndexErrors
	for i, elem := range arr {
		if err := deserializeValue(ct.elem, elem, out.Index(i)); err != nil {
			errs.Push(i, err)
		}
	}
	if !errs.IsEmpty() {
		return errors.Indexes(errors.PhaseDeserialize, errs)
	}

	rv.Set(out)
	return nil
}

func deserializeArray(ct *compiledType, val value.Value, rv reflect.Value) error {
	arr, ok := val.AsArray()
	if !ok {
		return errors.InvalidValue(errors.PhaseDeserialize, "array")
	}
	n := ct.goType.Len()
	if len(arr) < n {
		return errors.InvalidValue(errors.PhaseDeserialize, "array of length "+strconv.Itoa(n))
	}

	tmp := reflect.New(ct.goType).Elem()
	var errs errors.IndexErrors
	for i := 0; i < n; i++ {
		if err := deserializeValue(ct.elem, arr[i], tmp.Index(i)); err != nil {
			errs.Push(i, err)
		}
	}
	if !errs.IsEmpty() {
		return errors.Indexes(errors.PhaseDeserialize, errs)
	}

	rv.Set(tmp)
	return nil
}

func deserializeMap(ct *compiledType, val value.Value, rv reflect.Value) error {
	m, ok := val.AsMap()
	if !ok {
		return errors.InvalidValue(errors.PhaseDeserialize, "object")
	}

	out := reflect.MakeMapWithSize(ct.goType, m.Len())
	var errs errors.FieldErrors
	m.Range(func(key string, v value.Value) bool {
		kv, err := decodeKey(ct.key, key, errors.PhaseDeserialize)
		if err != nil {
			errs.Push(key, err)
			return true
		}
		elem := reflect.New(ct.elem.goType).Elem()
		if err := deserializeValue(ct.elem, v, elem); err != nil {
			errs.Push(key, err)
			return true
		}
		out.SetMapIndex(kv, elem)
		return true
	})
	if !errs.IsEmpty() {
		return errors.Fields(errors.PhaseDeserialize, errs)
	}

	rv.Set(out)
	return nil
}

func deserializeStruct(ct *compiledType, val value.Value, rv reflect.Value) error {
	const phase = errors.PhaseDeserialize

	m, ok := val.AsMap()
	if !ok {
		return errors.InvalidValue(phase, "object")
	}

	tmp := reflect.New(ct.goType).Elem()
	var errs errors.FieldErrors

	for i := range ct.fields {
		f := &ct.fields[i]
		if f.skipDe {
			continue
		}
		fv := tmp.Field(f.index)

		if f.flatten {
			err := deserializeField(f, val, fv)
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
			if f.def {
				continue
			}
			errs.Push(f.name, errors.MissingField(phase))
			continue
		}

		if err := deserializeField(f, v, fv); err != nil {
			if f.def {
				// The default swallows a failed value as well as a
				// missing one.
				fv.SetZero()
				continue
			}
			errs.Push(f.name, err)
		}
	}

	if !errs.IsEmpty() {
		return errors.Fields(phase, errs)
	}
	rv.Set(tmp)
	return nil
}

func deserializeField(f *compiledField, val value.Value, fv reflect.Value) error {
	if f.deWith != nil {
		return f.deWith(val, fv.Addr().Interface())
	}
	return deserializeValue(f.typ, val, fv)
}

func deserializeTuple(ct *compiledType, val value.Value, rv reflect.Value) error {
	const phase = errors.PhaseDeserialize

	switch n := len(ct.tuple); n {
	case 0:
		rv.SetZero()
		return nil

	case 1:
		// A single-field tuple is the bare element value. An array of
		// exactly one element is unwrapped for compatibility; any other
		// array goes to the field as-is, so array-typed fields still
		// receive the whole input.
		e := ct.tuple[0]
		elem := val
		wrapped := false
		if arr, ok := val.AsArray(); ok && len(arr) == 1 {
			elem = arr[0]
			wrapped = true
		}

		tmp := reflect.New(ct.goType).Elem()
		if err := deserializeValue(e.typ, elem, tmp.Field(e.index)); err != nil {
			if wrapped {
				var errs errors.IndexErrors
				errs.Push(0, err)
				return errors.Indexes(phase, errs)
			}
			return err
		}
		rv.Set(tmp)
		return nil

	default:
		arr, ok := val.AsArray()
		if !ok {
			return errors.InvalidValue(phase, "array")
		}
		if len(arr) < n {
			return errors.InvalidValue(phase, "array of length "+strconv.Itoa(n))
		}

		tmp := reflect.New(ct.goType).Elem()
		var errs errors.IndexErrors
		for i, e := range ct.tuple {
			if err := deserializeValue(e.typ, arr[i], tmp.Field(e.index)); err != nil {
				errs.Push(i, err)
			}
		}
		if !errs.IsEmpty() {
			return errors.Indexes(phase, errs)
		}
		rv.Set(tmp)
		return nil
	}
}

func deserializeUnion(ct *compiledType, val value.Value, rv reflect.Value) error {
	const phase = errors.PhaseDeserialize
	plan := ct.union
	tmp := reflect.New(ct.goType).Elem()

	if plan.tagKey == "" {
		// External tagging.
		if m, ok := val.AsMap(); ok {
			for i := range plan.variants {
				v := &plan.variants[i]
				content, present := m.Get(v.name)
				if !present {
					continue
				}
				if err := setVariant(tmp, v, content); err != nil {
					return err
				}
				rv.Set(tmp)
				return nil
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
			tmp.Field(v.index).Set(reflect.New(v.elem.goType))
			rv.Set(tmp)
			return nil
		}
		return errors.InvalidValue(phase, "enum variant")
	}

	// Internal and adjacent tagging.
	m, ok := val.AsMap()
	if !ok {
		return errors.InvalidValue(phase, "object")
	}

	name, err := unionTag(m, plan.tagKey, phase)
	if err != nil {
		return err
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
		tmp.Field(v.index).Set(reflect.New(v.elem.goType))
		rv.Set(tmp)
		return nil
	}

	if err := setVariant(tmp, v, content); err != nil {
		return err
	}
	rv.Set(tmp)
	return nil
}

// unionTag extracts the discriminant from a tagged map. Failures are
// reported as a field error on the tag key.
func unionTag(m *value.Map, tagKey string, phase errors.Phase) (string, error) {
	tagVal, present := m.Get(tagKey)
	if !present {
		var errs errors.FieldErrors
		errs.Push(tagKey, errors.MissingField(phase))
		return "", errors.Fields(phase, errs)
	}
	name, ok := tagVal.AsString()
	if !ok {
		var errs errors.FieldErrors
		errs.Push(tagKey, errors.InvalidValue(phase, "enum variant name"))
		return "", errors.Fields(phase, errs)
	}
	return name, nil
}

func variantByName(plan *unionPlan, name string) *variantPlan {
	for i := range plan.variants {
		if plan.variants[i].name == name {
			return &plan.variants[i]
		}
	}
	return nil
}

func setVariant(target reflect.Value, v *variantPlan, content value.Value) error {
	p := reflect.New(v.elem.goType)
	if err := deserializeValue(v.elem, content, p.Elem()); err != nil {
		return err
	}
	target.Field(v.index).Set(p)
	return nil
}

func asDeserializer(rv reflect.Value) Deserializer {
	return rv.Addr().Interface().(Deserializer)
}

func decodeKey(kc *keyCodec, s string, phase errors.Phase) (reflect.Value, error) {
	kv := reflect.New(kc.typ).Elem()

	switch kc.kind {
	case keyString:
		kv.SetString(s)
	case keyInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return reflect.Value{}, errors.InvalidKey(phase, s, err)
		}
		if kv.OverflowInt(i) {
			return reflect.Value{}, errors.InvalidKey(phase, s, errors.OutOfBounds(phase, i, kc.typ.String()))
		}
		kv.SetInt(i)
	case keyUint:
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return reflect.Value{}, errors.InvalidKey(phase, s, err)
		}
		if kv.OverflowUint(u) {
			return reflect.Value{}, errors.InvalidKey(phase, s, errors.OutOfBounds(phase, u, kc.typ.String()))
		}
		kv.SetUint(u)
	default:
		u := kv.Addr().Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText([]byte(s)); err != nil {
			return reflect.Value{}, errors.InvalidKey(phase, s, err)
		}
	}

	return kv, nil
}
