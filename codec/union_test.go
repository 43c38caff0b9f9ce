package codec_test

import (
	"testing"

	"github.com/wippyai/litecodec/codec"
	"github.com/wippyai/litecodec/errors"
	"github.com/wippyai/litecodec/value"
)

type extUnion struct {
	_        codec.Union
	Variant1 *struct{}
	Variant2 *int64
}

func TestExternalTagRoundTrip(t *testing.T) {
	v, err := codec.Serialize(&extUnion{Variant1: &struct{}{}})
	if err != nil {
		t.Fatalf("serialize unit: %v", err)
	}
	if !v.Equal(value.Str("Variant1")) {
		t.Fatalf("unit variant: got %v, want bare string", v)
	}

	var back extUnion
	if err := codec.Deserialize(v, &back); err != nil {
		t.Fatalf("deserialize unit: %v", err)
	}
	if back.Variant1 == nil || back.Variant2 != nil {
		t.Errorf("got %+v", back)
	}

	n := int64(42)
	v, err = codec.Serialize(&extUnion{Variant2: &n})
	if err != nil {
		t.Fatalf("serialize content: %v", err)
	}
	want := value.Object(value.E("Variant2", value.Int(42)))
	if !v.Equal(want) {
		t.Fatalf("content variant: got %v, want %v", v, want)
	}

	back = extUnion{}
	if err := codec.Deserialize(v, &back); err != nil {
		t.Fatalf("deserialize content: %v", err)
	}
	if back.Variant2 == nil || *back.Variant2 != 42 {
		t.Errorf("got %+v", back)
	}
}

func TestExternalTagUnknownVariant(t *testing.T) {
	var u extUnion
	err := codec.Deserialize(value.Str("Nope"), &u)
	if !errors.IsKind(err, errors.KindUnknownVariant) {
		t.Errorf("string: expected unknown_variant, got %v", err)
	}

	err = codec.Deserialize(value.Object(value.E("Nope", value.Int(1))), &u)
	if !errors.IsKind(err, errors.KindUnknownVariant) {
		t.Errorf("map: expected unknown_variant, got %v", err)
	}

	err = codec.Deserialize(value.Int(3), &u)
	if !errors.IsKind(err, errors.KindInvalidValue) {
		t.Errorf("number: expected invalid_value, got %v", err)
	}
}

func TestExternalTagMissingContent(t *testing.T) {
	var u extUnion
	err := codec.Deserialize(value.Str("Variant2"), &u)
	if !errors.IsKind(err, errors.KindMissingVariantContent) {
		t.Errorf("expected missing_variant_content, got %v", err)
	}
}

type optExtUnion struct {
	_    codec.Union
	Unit *struct{}
	Data **int64
}

func TestExternalTagNoneContentKeepsMapForm(t *testing.T) {
	// A content-bearing variant whose payload is nil must not collapse
	// to the bare-string form reserved for content-less variants.
	var inner *int64
	v, err := codec.Serialize(&optExtUnion{Data: &inner})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	want := value.Object(value.E("Data", value.None()))
	if !v.Equal(want) {
		t.Fatalf("got %v, want %v", v, want)
	}

	var back optExtUnion
	if err := codec.Deserialize(v, &back); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if back.Data == nil || back.Unit != nil {
		t.Fatalf("got %+v", back)
	}
	if *back.Data != nil {
		t.Errorf("payload: got %v, want nil", *back.Data)
	}

	n := int64(4)
	p := &n
	v, err = codec.Serialize(&optExtUnion{Data: &p})
	if err != nil {
		t.Fatalf("serialize non-nil: %v", err)
	}
	if !v.Equal(value.Object(value.E("Data", value.Int(4)))) {
		t.Errorf("non-nil payload: got %v", v)
	}
}

type variantOne struct {
	Field1 int64 `codec:"field1"`
}

type variantTwo struct {
	Field2 string `codec:"field2"`
}

type intUnion struct {
	_  codec.Union `codec:"tag=type"`
	V1 *variantOne `codec:"Variant1"`
	V2 *variantTwo `codec:"Variant2"`
}

func TestInternalTagSerialize(t *testing.T) {
	v, err := codec.Serialize(&intUnion{V2: &variantTwo{Field2: "hello"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := value.Object(
		value.E("type", value.Str("Variant2")),
		value.E("field2", value.Str("hello")),
	)
	if !v.Equal(want) {
		t.Errorf("got %v, want %v", v, want)
	}
}

func TestInternalTagDeserialize(t *testing.T) {
	in := value.Object(
		value.E("type", value.Str("Variant1")),
		value.E("field1", value.Int(5)),
	)
	var u intUnion
	if err := codec.Deserialize(in, &u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.V1 == nil || u.V1.Field1 != 5 {
		t.Errorf("got %+v", u)
	}
}

func TestInternalTagPartialUpdateWithoutDiscriminant(t *testing.T) {
	u := intUnion{V2: &variantTwo{Field2: "hello"}}

	in := value.Object(value.E("field2", value.Str("world")))
	if err := codec.Update(&u, in); err != nil {
		t.Fatalf("update must infer the current variant: %v", err)
	}
	if u.V2 == nil || u.V2.Field2 != "world" {
		t.Errorf("got %+v", u)
	}
	if u.V1 != nil {
		t.Error("variant must not switch")
	}

	// Deserialize has no receiver to infer from and keeps the tag
	// required.
	var fresh intUnion
	err := codec.Deserialize(in, &fresh)
	if err == nil {
		t.Fatal("expected error")
	}
	fields, ok := errors.AsFieldErrors(err)
	if !ok {
		t.Fatalf("expected field errors, got %v", err)
	}
	tagErr, _ := fields.Get("type")
	if !errors.IsKind(tagErr, errors.KindMissingField) {
		t.Errorf("expected missing_field on the tag, got %v", tagErr)
	}
}

func TestInternalTagUpdateSwitchesVariant(t *testing.T) {
	u := intUnion{V2: &variantTwo{Field2: "hello"}}

	in := value.Object(
		value.E("type", value.Str("Variant1")),
		value.E("field1", value.Int(3)),
	)
	if err := codec.Update(&u, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.V1 == nil || u.V1.Field1 != 3 {
		t.Errorf("got %+v", u)
	}
	if u.V2 != nil {
		t.Error("previous variant must be cleared")
	}
}

type adjUnion struct {
	_    codec.Union `codec:"tag=t,content=c"`
	Unit *struct{}
	Num  *int64
}

func TestAdjacentTagSerialize(t *testing.T) {
	n := int64(7)
	v, err := codec.Serialize(&adjUnion{Num: &n})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := value.Object(
		value.E("t", value.Str("Num")),
		value.E("c", value.Int(7)),
	)
	if !v.Equal(want) {
		t.Errorf("got %v, want %v", v, want)
	}

	// Unit variants still carry both entries, with null content.
	v, err = codec.Serialize(&adjUnion{Unit: &struct{}{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := v.AsMap()
	if !ok || m.Len() != 2 {
		t.Fatalf("got %v, want a two-entry map", v)
	}
	c, _ := m.Get("c")
	if !c.IsNone() {
		t.Errorf("content: got %v, want none", c)
	}
}

func TestAdjacentTagDeserialize(t *testing.T) {
	var u adjUnion
	in := value.Object(
		value.E("t", value.Str("Num")),
		value.E("c", value.Int(9)),
	)
	if err := codec.Deserialize(in, &u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Num == nil || *u.Num != 9 {
		t.Errorf("got %+v", u)
	}

	// Content may be absent for content-less variants only.
	u = adjUnion{}
	if err := codec.Deserialize(value.Object(value.E("t", value.Str("Unit"))), &u); err != nil {
		t.Fatalf("unit without content: %v", err)
	}
	if u.Unit == nil {
		t.Errorf("got %+v", u)
	}

	u = adjUnion{}
	err := codec.Deserialize(value.Object(value.E("t", value.Str("Num"))), &u)
	fields, ok := errors.AsFieldErrors(err)
	if !ok {
		t.Fatalf("expected field errors, got %v", err)
	}
	cErr, _ := fields.Get("c")
	if !errors.IsKind(cErr, errors.KindMissingField) {
		t.Errorf("expected missing_field on content, got %v", cErr)
	}
}

type emptyTuplePayload struct {
	_ codec.Tuple
}

type degenerateUnion struct {
	_     codec.Union `codec:"tag=kind"`
	Empty *emptyTuplePayload
}

func TestInternalTagEmptyContentDegeneratesToTagOnly(t *testing.T) {
	v, err := codec.Serialize(&degenerateUnion{Empty: &emptyTuplePayload{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := value.Object(value.E("kind", value.Str("Empty")))
	if !v.Equal(want) {
		t.Errorf("got %v, want %v", v, want)
	}

	var back degenerateUnion
	if err := codec.Deserialize(v, &back); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if back.Empty == nil {
		t.Errorf("got %+v", back)
	}
}

func TestInternalTagRejectsScalarContent(t *testing.T) {
	type scalarUnion struct {
		_ codec.Union `codec:"tag=type"`
		N *int64
	}
	n := int64(1)
	_, err := codec.Serialize(&scalarUnion{N: &n})
	if !errors.IsKind(err, errors.KindCustom) {
		t.Errorf("expected custom error, got %v", err)
	}
}
