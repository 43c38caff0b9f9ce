// Package errors provides structured error types for the litecodec library.
//
// Errors are categorized by Phase (which protocol produced the error) and
// Kind (error category). The Kind set is closed: every failure a protocol
// can produce maps onto one of the declared kinds.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDeserialize, errors.KindInvalidValue).
//		Path("user", "age").
//		Expected("unsigned integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidValue(errors.PhaseDeserialize, "string")
//	err := errors.OutOfBounds(errors.PhaseSerialize, v, "int64")
//
// Container operations aggregate child failures with FieldErrors (named
// fields, map entries) and IndexErrors (tuple/array positions) instead of
// short-circuiting, so a caller can report every invalid field at once.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
