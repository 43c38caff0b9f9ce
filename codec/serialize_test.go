package codec_test

import (
	"testing"

	"github.com/wippyai/litecodec/codec"
	"github.com/wippyai/litecodec/errors"
	"github.com/wippyai/litecodec/value"
)

func TestSerializePrimitives(t *testing.T) {
	s := "opt"

	tests := []struct {
		name string
		in   any
		want value.Value
	}{
		{name: "bool", in: true, want: value.Bool(true)},
		{name: "int", in: int(-5), want: value.Int(-5)},
		{name: "int8", in: int8(7), want: value.Int(7)},
		{name: "uint", in: uint(5), want: value.Uint(5)},
		{name: "uint64", in: uint64(42), want: value.Uint(42)},
		{name: "float64", in: 1.5, want: value.Float(1.5)},
		{name: "string", in: "hello", want: value.Str("hello")},
		{name: "char", in: codec.Char('x'), want: value.Str("x")},
		{name: "nil pointer", in: (*int)(nil), want: value.None()},
		{name: "pointer", in: &s, want: value.Str("opt")},
		{name: "slice", in: []int{1, 2}, want: value.Array(value.Int(1), value.Int(2))},
		{name: "fixed array", in: [2]string{"a", "b"}, want: value.Array(value.Str("a"), value.Str("b"))},
		{name: "passthrough", in: value.Object(value.E("k", value.Int(1))), want: value.Object(value.E("k", value.Int(1)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.Serialize(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSerializeMapSortsKeys(t *testing.T) {
	got, err := codec.Serialize(map[int]string{2: "b", 1: "a", 10: "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := got.AsMap()
	if !ok {
		t.Fatalf("expected map, got %v", got)
	}
	if m.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", m.Len())
	}
	for key, want := range map[string]string{"1": "a", "2": "b", "10": "c"} {
		v, ok := m.Get(key)
		if !ok {
			t.Fatalf("key %q missing", key)
		}
		if s, _ := v.AsString(); s != want {
			t.Errorf("key %q: got %q, want %q", key, s, want)
		}
	}
}

type person struct {
	Name  string  `codec:"name"`
	Email *string `codec:"email,skipif=none"`
	Age   uint8   `codec:"age"`
	Note  string  `codec:"-"`
}

func TestSerializeStruct(t *testing.T) {
	got, err := codec.Serialize(&person{Name: "ada", Age: 36, Note: "hidden"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := value.Object(
		value.E("name", value.Str("ada")),
		value.E("age", value.Uint(36)),
	)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	email := "ada@example.com"
	got, err = codec.Serialize(&person{Name: "ada", Email: &email})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, _ := got.AsMap()
	if v, ok := m.Get("email"); !ok || !v.Equal(value.Str(email)) {
		t.Errorf("email: got %v", v)
	}
}

type inner struct {
	City string `codec:"city"`
	Zip  string `codec:"zip"`
}

type outer struct {
	Name    string `codec:"name"`
	Address inner  `codec:",flatten"`
}

func TestSerializeFlatten(t *testing.T) {
	got, err := codec.Serialize(&outer{
		Name:    "bob",
		Address: inner{City: "berlin", Zip: "10115"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := value.Object(
		value.E("name", value.Str("bob")),
		value.E("city", value.Str("berlin")),
		value.E("zip", value.Str("10115")),
	)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

type onePair struct {
	_ codec.Tuple
	V int64
}

type threeTuple struct {
	_ codec.Tuple
	A string
	B int64
	C bool
}

func TestSerializeTuples(t *testing.T) {
	got, err := codec.Serialize(&onePair{V: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(value.Int(9)) {
		t.Errorf("1-tuple: got %v, want bare 9", got)
	}

	got, err = codec.Serialize(&threeTuple{A: "x", B: 2, C: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := value.Array(value.Str("x"), value.Int(2), value.Bool(true))
	if !got.Equal(want) {
		t.Errorf("3-tuple: got %v, want %v", got, want)
	}
}

func TestSerializeUnitStruct(t *testing.T) {
	type unit struct{}
	got, err := codec.Serialize(&unit{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsNone() {
		t.Errorf("unit struct must serialize to none, got %v", got)
	}
}

type badValue struct{}

func (badValue) SerializeValue() (value.Value, error) {
	return value.Value{}, errors.Custom(errors.PhaseSerialize, "boom")
}

func (*badValue) DeserializeValue(value.Value) error { return nil }

func TestSerializeAggregatesSequenceErrors(t *testing.T) {
	type wrap struct {
		Items []badValue `codec:"items"`
	}
	_, err := codec.Serialize(&wrap{Items: make([]badValue, 2)})
	if err == nil {
		t.Fatal("expected error")
	}
	fields, ok := errors.AsFieldErrors(err)
	if !ok || fields.Len() != 1 {
		t.Fatalf("expected one field error, got %v", err)
	}
	itemsErr, _ := fields.Get("items")
	idx, ok := errors.AsIndexErrors(itemsErr)
	if !ok {
		t.Fatalf("expected index errors, got %v", itemsErr)
	}
	if idx.Len() != 2 {
		t.Errorf("expected both elements reported, got %d", idx.Len())
	}
}

func TestSerializeStructAggregatesFieldErrors(t *testing.T) {
	type multi struct {
		A badValue `codec:"a"`
		B badValue `codec:"b"`
		C string   `codec:"c"`
	}
	_, err := codec.Serialize(&multi{C: "fine"})
	if err == nil {
		t.Fatal("expected error")
	}
	fields, ok := errors.AsFieldErrors(err)
	if !ok {
		t.Fatalf("expected field errors, got %v", err)
	}
	if fields.Len() != 2 {
		t.Fatalf("expected 2 field errors, got %d", fields.Len())
	}
	if _, ok := fields.Get("a"); !ok {
		t.Error("missing error for field a")
	}
	if _, ok := fields.Get("b"); !ok {
		t.Error("missing error for field b")
	}
}
