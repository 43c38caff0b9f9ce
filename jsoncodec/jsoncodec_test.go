package jsoncodec_test

import (
	"math"
	"testing"

	"github.com/wippyai/litecodec/errors"
	"github.com/wippyai/litecodec/jsoncodec"
	"github.com/wippyai/litecodec/value"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		in   value.Value
		want string
	}{
		{name: "none", in: value.None(), want: `null`},
		{name: "bool", in: value.Bool(true), want: `true`},
		{name: "int", in: value.Int(-42), want: `-42`},
		{name: "max uint", in: value.Uint(math.MaxUint64), want: `18446744073709551615`},
		{name: "float", in: value.Float(1.5), want: `1.5`},
		{name: "string", in: value.Str("he\"llo"), want: `"he\"llo"`},
		{name: "empty array", in: value.Array(), want: `[]`},
		{name: "array", in: value.Array(value.Int(1), value.Str("a")), want: `[1,"a"]`},
		{name: "empty object", in: value.Object(), want: `{}`},
		{
			name: "nested",
			in: value.Object(value.E("xs", value.Array(
				value.Object(value.E("n", value.None())),
			))),
			want: `{"xs":[{"n":null}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := jsoncodec.Marshal(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("got %s, want %s", out, tt.want)
			}
		})
	}
}

func TestMarshalNonFiniteFloat(t *testing.T) {
	if _, err := jsoncodec.Marshal(value.Float(math.NaN())); err == nil {
		t.Error("NaN must fail")
	}
	if _, err := jsoncodec.Marshal(value.Float(math.Inf(1))); err == nil {
		t.Error("Inf must fail")
	}
}

func TestMarshalIndent(t *testing.T) {
	in := value.Object(value.E("a", value.Int(1)))
	out, err := jsoncodec.MarshalIndent(in, "", "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\n  \"a\": 1\n}"
	if string(out) != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want value.Value
	}{
		{name: "null", in: `null`, want: value.None()},
		{name: "bool", in: `false`, want: value.Bool(false)},
		{name: "string", in: `"hi"`, want: value.Str("hi")},
		{name: "array", in: `[1,"a",null]`, want: value.Array(value.Int(1), value.Str("a"), value.None())},
		{
			name: "object",
			in:   `{"a":1,"b":{"c":[true]}}`,
			want: value.Object(
				value.E("a", value.Int(1)),
				value.E("b", value.Object(value.E("c", value.Array(value.Bool(true))))),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jsoncodec.Unmarshal([]byte(tt.in))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnmarshalNumberNarrowing(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want value.Value
	}{
		{name: "negative", in: `-7`, want: value.Int(-7)},
		{name: "small positive stays signed", in: `7`, want: value.Int(7)},
		{name: "beyond int64 becomes unsigned", in: `9223372036854775808`, want: value.Uint(9223372036854775808)},
		{name: "max uint64", in: `18446744073709551615`, want: value.Uint(math.MaxUint64)},
		{name: "decimal point", in: `1.0`, want: value.Float(1)},
		{name: "exponent", in: `1e3`, want: value.Float(1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jsoncodec.Unmarshal([]byte(tt.in))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnmarshalErrors(t *testing.T) {
	for _, in := range []string{``, `{`, `[1,`, `{"a"}`, `1 2`, `tru`} {
		if _, err := jsoncodec.Unmarshal([]byte(in)); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}

	_, err := jsoncodec.Unmarshal([]byte(`{`))
	codecErr, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if codecErr.Phase != errors.PhaseDecode {
		t.Errorf("phase: got %q", codecErr.Phase)
	}
}

func TestRoundTripExactIntegers(t *testing.T) {
	in := value.Object(
		value.E("neg", value.Int(math.MinInt64)),
		value.E("big", value.Uint(math.MaxUint64)),
	)
	data, err := jsoncodec.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := jsoncodec.Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.Equal(in) {
		t.Errorf("got %v, want %v", got, in)
	}
}
