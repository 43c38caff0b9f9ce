// Package litecodec is a lightweight serialization framework built
// around a JSON-like intermediate value.
//
// Typed Go values convert to and from the intermediate representation
// through three protocols: Serialize, Deserialize and Update. Update
// applies partial patches in place, so a document containing only the
// changed fields can be merged into an existing value without
// rebuilding it. Wire formats attach at the boundary: jsoncodec and
// yamlcodec convert intermediate values to and from text.
//
//	var profile Profile
//	v, err := jsoncodec.Unmarshal(data)
//	if err == nil {
//		err = litecodec.Deserialize(v, &profile)
//	}
//
// This root package re-exports the common types and entry points of the
// value, codec and errors subpackages.
package litecodec
