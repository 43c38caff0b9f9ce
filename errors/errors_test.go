package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := New(PhaseDeserialize, KindInvalidValue).
		Path("profile", "age").
		Expected("number").
		Build()

	msg := err.Error()
	for _, part := range []string{"[deserialize]", "invalid_value", "profile.age", "number expected"} {
		if !strings.Contains(msg, part) {
			t.Errorf("message %q missing %q", msg, part)
		}
	}
}

func TestErrorIsMatchesKind(t *testing.T) {
	err := OutOfBounds(PhaseUpdate, 300, "uint8")

	if !stderrors.Is(err, &Error{Kind: KindOutOfBounds}) {
		t.Error("kind-only target must match any phase")
	}
	if !stderrors.Is(err, &Error{Phase: PhaseUpdate, Kind: KindOutOfBounds}) {
		t.Error("phase+kind target must match")
	}
	if stderrors.Is(err, &Error{Phase: PhaseSerialize, Kind: KindOutOfBounds}) {
		t.Error("wrong phase must not match")
	}
	if stderrors.Is(err, &Error{Kind: KindInvalidValue}) {
		t.Error("wrong kind must not match")
	}
}

func TestIsKind(t *testing.T) {
	if !IsKind(MissingField(PhaseDeserialize), KindMissingField) {
		t.Error("expected match")
	}
	if IsKind(stderrors.New("plain"), KindMissingField) {
		t.Error("plain errors must not match")
	}
	if IsKind(nil, KindMissingField) {
		t.Error("nil must not match")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("bad digit")
	err := InvalidKey(PhaseDeserialize, "x", cause)
	if !stderrors.Is(err, cause) {
		t.Error("cause must be reachable through Unwrap")
	}
}

func TestFieldErrorsAggregation(t *testing.T) {
	var errs FieldErrors
	if !errs.IsEmpty() {
		t.Error("fresh list must be empty")
	}

	errs.Push("a", MissingField(PhaseDeserialize))
	errs.Push("b", InvalidValue(PhaseDeserialize, "string"))

	var more FieldErrors
	more.Push("c", MissingField(PhaseDeserialize))
	errs.Append(more)

	if errs.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", errs.Len())
	}
	if _, ok := errs.Get("b"); !ok {
		t.Error("b missing")
	}
	if _, ok := errs.Get("z"); ok {
		t.Error("unexpected entry z")
	}

	wrapped := Fields(PhaseDeserialize, errs)
	got, ok := AsFieldErrors(wrapped)
	if !ok || got.Len() != 3 {
		t.Errorf("unwrap: got %v", got)
	}
	if _, ok := AsFieldErrors(MissingField(PhaseDeserialize)); ok {
		t.Error("non-aggregate must not unwrap")
	}
}

func TestIndexErrorsAggregation(t *testing.T) {
	var errs IndexErrors
	errs.Push(0, InvalidValue(PhaseUpdate, "number"))
	errs.Push(2, InvalidValue(PhaseUpdate, "number"))

	if errs.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", errs.Len())
	}
	if _, ok := errs.Get(2); !ok {
		t.Error("index 2 missing")
	}
	if _, ok := errs.Get(1); ok {
		t.Error("unexpected index 1")
	}

	wrapped := Indexes(PhaseUpdate, errs)
	got, ok := AsIndexErrors(wrapped)
	if !ok || got.Len() != 2 {
		t.Errorf("unwrap: got %v", got)
	}
}

func TestAggregateMessageListsChildren(t *testing.T) {
	var errs FieldErrors
	errs.Push("age", OutOfBounds(PhaseDeserialize, 300, "uint8"))
	msg := Fields(PhaseDeserialize, errs).Error()
	if !strings.Contains(msg, "age") || !strings.Contains(msg, "out_of_bounds") {
		t.Errorf("message %q must list child errors", msg)
	}
}
