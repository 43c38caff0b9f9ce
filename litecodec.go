package litecodec

import (
	"github.com/wippyai/litecodec/codec"
	"github.com/wippyai/litecodec/errors"
	"github.com/wippyai/litecodec/value"
)

// Core types re-exported from the subpackages so simple uses need a
// single import.
type (
	Value  = value.Value
	Number = value.Number
	Map    = value.Map
	Entry  = value.Entry

	Char  = codec.Char
	Union = codec.Union
	Tuple = codec.Tuple

	Serializer   = codec.Serializer
	Deserializer = codec.Deserializer
	Updater      = codec.Updater

	Error       = errors.Error
	FieldErrors = errors.FieldErrors
	IndexErrors = errors.IndexErrors
)

// Guarded is a mutex-guarded cell usable directly in serializable types.
type Guarded[T any] = codec.Guarded[T]

// Value builders.
var (
	None     = value.None
	Bool     = value.Bool
	Int      = value.Int
	Uint     = value.Uint
	Float    = value.Float
	Str      = value.Str
	CharOf   = value.CharOf
	Array    = value.Array
	Object   = value.Object
	E        = value.E
	MapValue = value.MapValue
	NewMap   = value.NewMap
)

// Protocol entry points.
var (
	Serialize   = codec.Serialize
	Deserialize = codec.Deserialize
	Update      = codec.Update
)

// Registry hooks for tag-referenced field functions.
var (
	RegisterPredicate       = codec.RegisterPredicate
	RegisterSerializeFunc   = codec.RegisterSerializeFunc
	RegisterDeserializeFunc = codec.RegisterDeserializeFunc
	RegisterUpdateFunc      = codec.RegisterUpdateFunc
)

// NewGuarded wraps an initial value in a Guarded cell.
func NewGuarded[T any](v T) *Guarded[T] {
	return codec.NewGuarded(v)
}
