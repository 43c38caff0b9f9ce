package codec

import (
	"reflect"
	"sync"

	"github.com/wippyai/litecodec/value"
)

// Predicate decides whether a field is skipped during serialization.
// It receives a pointer to the field.
type Predicate func(field any) bool

// SerializeFunc replaces the default serialization of a field. It
// receives a pointer to the field.
type SerializeFunc func(field any) (value.Value, error)

// DeserializeFunc replaces the default deserialization of a field. It
// receives the input value and a pointer to the field.
type DeserializeFunc func(val value.Value, field any) error

// UpdateFunc replaces the default partial update of a field. It receives
// a pointer to the field and the input value.
type UpdateFunc func(field any, val value.Value) error

var registry = struct {
	mu           sync.RWMutex
	predicates   map[string]Predicate
	serializers  map[string]SerializeFunc
	deserializer map[string]DeserializeFunc
	updaters     map[string]UpdateFunc
}{
	predicates:   map[string]Predicate{"none": isNone, "empty": isEmpty},
	serializers:  map[string]SerializeFunc{},
	deserializer: map[string]DeserializeFunc{},
	updaters:     map[string]UpdateFunc{},
}

// RegisterPredicate makes a predicate available to skipif tag options.
// The names "none" and "empty" are built in.
func RegisterPredicate(name string, fn Predicate) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.predicates[name] = fn
}

// RegisterSerializeFunc makes a function available to serializewith tag
// options.
func RegisterSerializeFunc(name string, fn SerializeFunc) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.serializers[name] = fn
}

// RegisterDeserializeFunc makes a function available to deserializewith
// tag options.
func RegisterDeserializeFunc(name string, fn DeserializeFunc) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.deserializer[name] = fn
}

// RegisterUpdateFunc makes a function available to updatewith tag
// options.
func RegisterUpdateFunc(name string, fn UpdateFunc) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.updaters[name] = fn
}

func lookupPredicate(name string) (Predicate, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	fn, ok := registry.predicates[name]
	return fn, ok
}

func lookupSerializeFunc(name string) (SerializeFunc, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	fn, ok := registry.serializers[name]
	return fn, ok
}

func lookupDeserializeFunc(name string) (DeserializeFunc, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	fn, ok := registry.deserializer[name]
	return fn, ok
}

func lookupUpdateFunc(name string) (UpdateFunc, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	fn, ok := registry.updaters[name]
	return fn, ok
}

// isNone is the built-in skipif predicate for absent values: nil
// pointers, slices and maps, and value.None.
func isNone(field any) bool {
	rv := reflect.ValueOf(field)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return true
	}
	elem := rv.Elem()
	if v, ok := elem.Interface().(value.Value); ok {
		return v.IsNone()
	}
	switch elem.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return elem.IsNil()
	default:
		return false
	}
}

// isEmpty is the built-in skipif predicate for empty containers and
// strings. Absent values count as empty.
func isEmpty(field any) bool {
	if isNone(field) {
		return true
	}
	elem := reflect.ValueOf(field).Elem()
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	switch elem.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return elem.Len() == 0
	default:
		return false
	}
}
