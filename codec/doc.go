// Package codec converts typed Go values to and from the intermediate
// representation in package value.
//
// Three protocols are exposed. Serialize turns a typed value into an
// intermediate value. Deserialize reconstructs a typed value from an
// intermediate value. Update merges an intermediate value into an
// existing typed value in place: scalars are replaced, sequences merge
// by position, maps merge by key, and entries absent from the input are
// left untouched, which makes it suitable for applying partial patches.
//
// The per-type conversion logic is compiled from reflection on first
// use and cached. Struct fields are configured through the "codec"
// struct tag:
//
//	type Profile struct {
//		Name    string   `codec:"name"`
//		Email   *string  `codec:"email,skipif=none"`
//		Aliases []string `codec:"aliases,default"`
//		Meta    Metadata `codec:",flatten"`
//		Cache   any      `codec:"-"`
//	}
//
// Tagged unions are structs carrying a Union marker field, positional
// tuples a Tuple marker field. Types can take over their own conversion
// by implementing Serializer, Deserializer and optionally Updater.
package codec
