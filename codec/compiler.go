package codec

import (
	"encoding"
	"reflect"
	"strings"
	"sync"

	"github.com/wippyai/litecodec/errors"
	"github.com/wippyai/litecodec/value"
)

// The protocols interpret a per-type plan compiled from reflection once
// and cached for the lifetime of the process.

type typeKind uint8

const (
	kindBool typeKind = iota
	kindInt
	kindUint
	kindFloat
	kindString
	kindChar
	kindValue  // value.Value passthrough
	kindUnit   // struct with no visible fields
	kindPointer
	kindSlice
	kindArray
	kindMap
	kindStruct
	kindTuple
	kindUnion
	kindOpaque // handled entirely by interface hooks
)

type compiledType struct {
	goType reflect.Type
	elem   *compiledType // pointer referent, slice/array/map element
	key    *keyCodec
	fields []compiledField
	tuple  []tupleElem
	union  *unionPlan
	kind   typeKind

	hasSer bool
	hasDe  bool
	hasUpd bool
}

type compiledField struct {
	name    string
	index   int
	typ     *compiledType
	flatten bool
	def     bool
	skipSer bool
	skipDe  bool
	skipIf  Predicate
	serWith SerializeFunc
	deWith  DeserializeFunc
	updWith UpdateFunc
}

type tupleElem struct {
	index int
	typ   *compiledType
}

type unionPlan struct {
	tagKey     string // empty selects external tagging
	contentKey string // set only for adjacent tagging
	variants   []variantPlan
}

type variantPlan struct {
	name  string
	index int
	elem  *compiledType
}

// contentless reports whether the variant carries no payload: bare
// strings and absent content keys are valid inputs for it.
func (v *variantPlan) contentless() bool {
	return v.elem.kind == kindUnit || (v.elem.kind == kindTuple && len(v.elem.tuple) == 0)
}

type keyKind uint8

const (
	keyString keyKind = iota
	keyInt
	keyUint
	keyText
)

type keyCodec struct {
	typ  reflect.Type
	kind keyKind
}

var (
	serializerType      = reflect.TypeOf((*Serializer)(nil)).Elem()
	deserializerType    = reflect.TypeOf((*Deserializer)(nil)).Elem()
	updaterType         = reflect.TypeOf((*Updater)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	valueType           = reflect.TypeOf(value.Value{})
	charType            = reflect.TypeOf(Char(0))
	unionMarkerType     = reflect.TypeOf(Union{})
	tupleMarkerType     = reflect.TypeOf(Tuple{})
)

var plans sync.Map // reflect.Type -> *compiledType

func planFor(t reflect.Type) (*compiledType, error) {
	if cached, ok := plans.Load(t); ok {
		return cached.(*compiledType), nil
	}

	c := &compileContext{seen: make(map[reflect.Type]*compiledType)}
	ct, err := c.compile(t, nil)
	if err != nil {
		return nil, err
	}

	plans.Store(t, ct)
	debugf("compiled type plan for %s", t)
	return ct, nil
}

type compileContext struct {
	seen map[reflect.Type]*compiledType
}

func (c *compileContext) compile(t reflect.Type, path []string) (*compiledType, error) {
	if ct, ok := c.seen[t]; ok {
		return ct, nil
	}

	if t == valueType {
		return &compiledType{goType: t, kind: kindValue}, nil
	}
	if t == charType {
		return &compiledType{goType: t, kind: kindChar}, nil
	}

	ct := &compiledType{goType: t}

	// Pointer plans never carry hooks themselves so that nil keeps its
	// None semantics; hooks attach to the referent plan instead.
	if t.Kind() != reflect.Pointer {
		ct.hasSer = implementsEither(t, serializerType)
		ct.hasDe = implementsEither(t, deserializerType)
		ct.hasUpd = implementsEither(t, updaterType)
	}
	c.seen[t] = ct

	// Types covered by both hooks never use a structural plan.
	if ct.hasSer && ct.hasDe {
		ct.kind = kindOpaque
		return ct, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		ct.kind = kindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		ct.kind = kindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		ct.kind = kindUint
	case reflect.Float32, reflect.Float64:
		ct.kind = kindFloat
	case reflect.String:
		ct.kind = kindString
	case reflect.Pointer:
		ct.kind = kindPointer
		elem, err := c.compile(t.Elem(), path)
		if err != nil {
			return nil, err
		}
		ct.elem = elem
	case reflect.Slice:
		ct.kind = kindSlice
		elem, err := c.compile(t.Elem(), append(path, "[elem]"))
		if err != nil {
			return nil, err
		}
		ct.elem = elem
	case reflect.Array:
		ct.kind = kindArray
		elem, err := c.compile(t.Elem(), append(path, "[elem]"))
		if err != nil {
			return nil, err
		}
		ct.elem = elem
	case reflect.Map:
		key, err := compileKey(t.Key(), path)
		if err != nil {
			return nil, err
		}
		elem, err := c.compile(t.Elem(), append(path, "[value]"))
		if err != nil {
			return nil, err
		}
		ct.kind = kindMap
		ct.key = key
		ct.elem = elem
	case reflect.Struct:
		if err := c.compileStruct(t, ct, path); err != nil {
			return nil, err
		}
	default:
		return nil, compileError(path, "unsupported type %s", t)
	}

	return ct, nil
}

func implementsEither(t, iface reflect.Type) bool {
	return t.Implements(iface) || reflect.PointerTo(t).Implements(iface)
}

func compileKey(t reflect.Type, path []string) (*keyCodec, error) {
	if implementsEither(t, textMarshalerType) &&
		reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return &keyCodec{typ: t, kind: keyText}, nil
	}

	switch t.Kind() {
	case reflect.String:
		return &keyCodec{typ: t, kind: keyString}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &keyCodec{typ: t, kind: keyInt}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &keyCodec{typ: t, kind: keyUint}, nil
	default:
		return nil, compileError(path, "unsupported map key type %s", t)
	}
}

func (c *compileContext) compileStruct(t reflect.Type, ct *compiledType, path []string) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Name != "_" {
			continue
		}
		switch f.Type {
		case unionMarkerType:
			return c.compileUnion(t, ct, f, path)
		case tupleMarkerType:
			return c.compileTuple(t, ct, path)
		}
	}
	return c.compileNamedFields(t, ct, path)
}

func (c *compileContext) compileNamedFields(t reflect.Type, ct *compiledType, path []string) error {
	var fields []compiledField

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		tag := f.Tag.Get("codec")
		if tag == "-" {
			continue
		}

		name, opts := parseTag(tag)
		if name == "" {
			name = f.Name
		}

		cf := compiledField{name: name, index: i}
		for _, opt := range opts {
			if err := applyFieldOption(&cf, opt, path, f.Name); err != nil {
				return err
			}
		}

		typ, err := c.compile(f.Type, append(path, name))
		if err != nil {
			return err
		}
		cf.typ = typ

		fields = append(fields, cf)
	}

	if len(fields) == 0 {
		ct.kind = kindUnit
		return nil
	}

	ct.kind = kindStruct
	ct.fields = fields
	return nil
}

func applyFieldOption(cf *compiledField, opt string, path []string, fieldName string) error {
	key, arg, _ := strings.Cut(opt, "=")

	switch key {
	case "flatten":
		cf.flatten = true
	case "default":
		cf.def = true
	case "skip":
		cf.skipSer = true
		cf.skipDe = true
	case "skipserialize":
		cf.skipSer = true
	case "skipdeserialize":
		cf.skipDe = true
	case "skipif":
		fn, ok := lookupPredicate(arg)
		if !ok {
			return compileError(path, "field %s: unknown skipif predicate %q", fieldName, arg)
		}
		cf.skipIf = fn
	case "serializewith":
		fn, ok := lookupSerializeFunc(arg)
		if !ok {
			return compileError(path, "field %s: unknown serializewith function %q", fieldName, arg)
		}
		cf.serWith = fn
	case "deserializewith":
		fn, ok := lookupDeserializeFunc(arg)
		if !ok {
			return compileError(path, "field %s: unknown deserializewith function %q", fieldName, arg)
		}
		cf.deWith = fn
	case "updatewith":
		fn, ok := lookupUpdateFunc(arg)
		if !ok {
			return compileError(path, "field %s: unknown updatewith function %q", fieldName, arg)
		}
		cf.updWith = fn
	default:
		return compileError(path, "field %s: unknown tag option %q", fieldName, opt)
	}
	return nil
}

func (c *compileContext) compileTuple(t reflect.Type, ct *compiledType, path []string) error {
	var elems []tupleElem

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		typ, err := c.compile(f.Type, append(path, "["+f.Name+"]"))
		if err != nil {
			return err
		}
		elems = append(elems, tupleElem{index: i, typ: typ})
	}

	ct.kind = kindTuple
	ct.tuple = elems
	return nil
}

func (c *compileContext) compileUnion(t reflect.Type, ct *compiledType, marker reflect.StructField, path []string) error {
	plan := &unionPlan{}

	if tag := marker.Tag.Get("codec"); tag != "" {
		for _, opt := range strings.Split(tag, ",") {
			key, arg, found := strings.Cut(opt, "=")
			if !found || arg == "" {
				return compileError(path, "invalid union option %q", opt)
			}
			switch key {
			case "tag":
				plan.tagKey = arg
			case "content":
				plan.contentKey = arg
			default:
				return compileError(path, "unknown union option %q", opt)
			}
		}
	}
	if plan.contentKey != "" && plan.tagKey == "" {
		return compileError(path, "union content key requires a tag key")
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Type.Kind() != reflect.Pointer {
			return compileError(path, "union variant %s must be a pointer", f.Name)
		}

		tag := f.Tag.Get("codec")
		name, opts := parseTag(tag)
		if len(opts) > 0 {
			return compileError(path, "union variant %s takes only a rename", f.Name)
		}
		if name == "" {
			name = f.Name
		}

		elem, err := c.compile(f.Type.Elem(), append(path, name))
		if err != nil {
			return err
		}
		plan.variants = append(plan.variants, variantPlan{name: name, index: i, elem: elem})
	}

	if len(plan.variants) == 0 {
		return compileError(path, "union has no variants")
	}

	ct.kind = kindUnion
	ct.union = plan
	return nil
}

func parseTag(tag string) (string, []string) {
	if tag == "" {
		return "", nil
	}
	parts := strings.Split(tag, ",")
	return parts[0], parts[1:]
}

func compileError(path []string, format string, args ...any) error {
	return errors.New(errors.PhaseCompile, errors.KindCustom).
		Path(path...).
		Detail(format, args...).
		Build()
}
