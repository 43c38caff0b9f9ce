// Package value defines the intermediate representation exchanged by the
// codec: a JSON-like tree of None, booleans, numbers, strings, arrays and
// string-keyed maps.
//
// Numbers keep their source representation (float, signed or unsigned
// integer). Conversions between representations are explicit and checked:
// a float never converts to an integer, and cross-signedness conversion
// fails when the value does not fit the target range.
//
// Maps are unordered by default. Building with the "preserveorder" tag
// switches every Map in the binary to insertion-preserving iteration,
// which keeps map key order stable through a parse, merge and re-encode
// round trip.
package value
