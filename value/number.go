package value

import (
	"math"
	"strconv"

	"github.com/wippyai/litecodec/errors"
)

// NumberKind discriminates the numeric representation of a Number.
type NumberKind uint8

const (
	NumFloat NumberKind = iota
	NumSigned
	NumUnsigned
)

var numberKindNames = [...]string{
	NumFloat:    "float",
	NumSigned:   "signed",
	NumUnsigned: "unsigned",
}

func (k NumberKind) String() string {
	if int(k) < len(numberKindNames) {
		return numberKindNames[k]
	}
	return "unknown"
}

// Number is a numeric intermediate value. It keeps the exact source
// representation: a float never silently becomes an integer and integers
// keep their signedness until a conversion is requested.
type Number struct {
	f    float64
	i    int64
	u    uint64
	kind NumberKind
}

// FloatNumber creates a float-represented Number.
func FloatNumber(v float64) Number {
	return Number{kind: NumFloat, f: v}
}

// IntNumber creates a signed-integer Number.
func IntNumber(v int64) Number {
	return Number{kind: NumSigned, i: v}
}

// UintNumber creates an unsigned-integer Number.
func UintNumber(v uint64) Number {
	return Number{kind: NumUnsigned, u: v}
}

// Kind returns the numeric representation of the Number.
func (n Number) Kind() NumberKind { return n.kind }

// Float64 converts the Number to a float. All representations convert;
// large integers may lose precision.
func (n Number) Float64() float64 {
	switch n.kind {
	case NumSigned:
		return float64(n.i)
	case NumUnsigned:
		return float64(n.u)
	default:
		return n.f
	}
}

// Int64 converts the Number to a signed integer. A float source is an
// unsupported conversion; an unsigned source must be in range.
func (n Number) Int64() (int64, error) {
	switch n.kind {
	case NumSigned:
		return n.i, nil
	case NumUnsigned:
		if n.u > math.MaxInt64 {
			return 0, errors.OutOfBounds("", n.u, "int64")
		}
		return int64(n.u), nil
	default:
		return 0, errors.UnsupportedConversion("", "float", "integer")
	}
}

// Uint64 converts the Number to an unsigned integer. A float source is an
// unsupported conversion; a negative signed source is out of bounds.
func (n Number) Uint64() (uint64, error) {
	switch n.kind {
	case NumUnsigned:
		return n.u, nil
	case NumSigned:
		if n.i < 0 {
			return 0, errors.OutOfBounds("", n.i, "uint64")
		}
		return uint64(n.i), nil
	default:
		return 0, errors.UnsupportedConversion("", "float", "unsigned integer")
	}
}

// Equal reports structural equality: same representation, same value.
func (n Number) Equal(other Number) bool {
	if n.kind != other.kind {
		return false
	}
	switch n.kind {
	case NumSigned:
		return n.i == other.i
	case NumUnsigned:
		return n.u == other.u
	default:
		return n.f == other.f
	}
}

// String formats the Number with its exact representation.
func (n Number) String() string {
	switch n.kind {
	case NumSigned:
		return strconv.FormatInt(n.i, 10)
	case NumUnsigned:
		return strconv.FormatUint(n.u, 10)
	default:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
}
