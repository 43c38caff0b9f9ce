package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which protocol produced the error
type Phase string

const (
	PhaseCompile     Phase = "compile"     // type plan construction
	PhaseSerialize   Phase = "serialize"   // typed value to intermediate
	PhaseDeserialize Phase = "deserialize" // intermediate to typed value
	PhaseUpdate      Phase = "update"      // partial merge into typed value
	PhaseDecode      Phase = "decode"      // wire bytes to intermediate
)

// Kind categorizes the error. The set is closed: protocol code only ever
// produces one of these kinds.
type Kind string

const (
	KindOutOfBounds           Kind = "out_of_bounds"
	KindUnsupportedConversion Kind = "unsupported_conversion"
	KindMissingField          Kind = "missing_field"
	KindUnknownVariant        Kind = "unknown_variant"
	KindMissingVariantContent Kind = "missing_variant_content"
	KindInvalidKey            Kind = "invalid_key"
	KindInvalidValue          Kind = "invalid_value"
	KindFieldErrors           Kind = "field_errors"
	KindIndexErrors           Kind = "index_errors"
	KindCustom                Kind = "custom"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Expected string // expected shape for invalid_value
	Detail   string
	Path     []string
	Fields   FieldErrors // child errors for field_errors
	Indexes  IndexErrors // child errors for index_errors
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Expected != "" {
		b.WriteString(": ")
		b.WriteString(e.Expected)
		b.WriteString(" expected")
	}

	if e.Detail != "" {
		if e.Expected != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if len(e.Fields) > 0 {
		b.WriteString(" (")
		for i, fe := range e.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(fe.Field)
			b.WriteString(": ")
			b.WriteString(fe.Err.Error())
		}
		b.WriteByte(')')
	}

	if len(e.Indexes) > 0 {
		b.WriteString(" (")
		for i, ie := range e.Indexes {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%d: %s", ie.Index, ie.Err.Error())
		}
		b.WriteByte(')')
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target with an empty
// Phase matches any phase, so errors.Is can test kind alone.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind && (t.Phase == "" || e.Phase == t.Phase)
	}
	return false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// FieldError is a child failure attached to a named field.
type FieldError struct {
	Field string
	Err   error
}

// FieldErrors aggregates per-field failures of a single container
// operation. Order follows insertion within one aggregation pass.
type FieldErrors []FieldError

// Push appends a single named child error.
func (l *FieldErrors) Push(field string, err error) {
	*l = append(*l, FieldError{Field: field, Err: err})
}

// Append splices another list onto this one.
func (l *FieldErrors) Append(other FieldErrors) {
	*l = append(*l, other...)
}

// IsEmpty reports whether no child errors were collected.
func (l FieldErrors) IsEmpty() bool { return len(l) == 0 }

// Len returns the number of collected child errors.
func (l FieldErrors) Len() int { return len(l) }

// Get returns the first child error recorded for a given field.
func (l FieldErrors) Get(field string) (error, bool) {
	for _, fe := range l {
		if fe.Field == field {
			return fe.Err, true
		}
	}
	return nil, false
}

// IndexError is a child failure attached to an unnamed (positional) field.
type IndexError struct {
	Index int
	Err   error
}

// IndexErrors aggregates positional child failures.
type IndexErrors []IndexError

// Push appends a single indexed child error.
func (l *IndexErrors) Push(index int, err error) {
	*l = append(*l, IndexError{Index: index, Err: err})
}

// Append splices another list onto this one.
func (l *IndexErrors) Append(other IndexErrors) {
	*l = append(*l, other...)
}

// IsEmpty reports whether no child errors were collected.
func (l IndexErrors) IsEmpty() bool { return len(l) == 0 }

// Len returns the number of collected child errors.
func (l IndexErrors) Len() int { return len(l) }

// Get returns the first child error recorded for a given index.
func (l IndexErrors) Get(index int) (error, bool) {
	for _, ie := range l {
		if ie.Index == index {
			return ie.Err, true
		}
	}
	return nil, false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Expected sets the expected shape description
func (b *Builder) Expected(shape string) *Builder {
	b.err.Expected = shape
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OutOfBounds creates an error for a value outside the representable
// range of the target type.
func OutOfBounds(phase Phase, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("value %v is out of bounds for %s", value, target),
		Value:  value,
	}
}

// UnsupportedConversion creates an error for a conversion between
// incompatible numeric domains (e.g. float source, integer target).
func UnsupportedConversion(phase Phase, from, to string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedConversion,
		Detail: fmt.Sprintf("conversion from %s to %s is not supported", from, to),
	}
}

// MissingField creates a missing required field error.
func MissingField(phase Phase) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindMissingField,
	}
}

// UnknownVariant creates an error for an unrecognized union discriminant.
func UnknownVariant(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownVariant,
		Detail: fmt.Sprintf("unknown variant %q", name),
		Value:  name,
	}
}

// MissingVariantContent creates an error for a variant that requires
// content when none was supplied.
func MissingVariantContent(phase Phase) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindMissingVariantContent,
	}
}

// InvalidKey creates an error for a map key that could not be parsed
// into the target key type.
func InvalidKey(phase Phase, key string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidKey,
		Detail: fmt.Sprintf("invalid key %q", key),
		Cause:  cause,
		Value:  key,
	}
}

// InvalidValue creates an error for a value that did not match any
// expected shape for the target type.
func InvalidValue(phase Phase, expected string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidValue,
		Expected: expected,
	}
}

// Fields wraps a named-field aggregation into a single error.
func Fields(phase Phase, fields FieldErrors) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldErrors,
		Fields: fields,
	}
}

// Indexes wraps an indexed-field aggregation into a single error.
func Indexes(phase Phase, indexes IndexErrors) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindIndexErrors,
		Indexes: indexes,
	}
}

// Custom creates a free-form error message.
func Custom(phase Phase, msg string, args ...any) *Error {
	e := &Error{
		Phase: phase,
		Kind:  KindCustom,
	}
	if len(args) > 0 {
		e.Detail = fmt.Sprintf(msg, args...)
	} else {
		e.Detail = msg
	}
	return e
}

// AsFieldErrors extracts the child list from a field_errors aggregate.
// Flatten and internally tagged dispatch use it to splice nested
// aggregates into the parent instead of nesting arbitrarily deep.
func AsFieldErrors(err error) (FieldErrors, bool) {
	if e, ok := err.(*Error); ok && e.Kind == KindFieldErrors {
		return e.Fields, true
	}
	return nil, false
}

// AsIndexErrors extracts the child list from an index_errors aggregate.
func AsIndexErrors(err error) (IndexErrors, bool) {
	if e, ok := err.(*Error); ok && e.Kind == KindIndexErrors {
		return e.Indexes, true
	}
	return nil, false
}
