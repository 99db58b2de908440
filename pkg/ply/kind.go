package ply

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Kind is one of the eight numeric types a PLY property can carry.
type Kind uint8

// Numeric kinds. The zero value is invalid so an unset Kind never
// decodes silently.
const (
	KindInvalid Kind = iota
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindFloat32
	KindFloat64
)

// ParseKind maps a header type token to a Kind. Both the sized names
// (int8, float32, ...) and the legacy names (char, float, ...) are accepted.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "int8", "char":
		return KindInt8, nil
	case "uint8", "uchar":
		return KindUint8, nil
	case "int16", "short":
		return KindInt16, nil
	case "uint16", "ushort":
		return KindUint16, nil
	case "int32", "int":
		return KindInt32, nil
	case "uint32", "uint":
		return KindUint32, nil
	case "float32", "float":
		return KindFloat32, nil
	case "float64", "double":
		return KindFloat64, nil
	default:
		return KindInvalid, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// String returns the canonical sized name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt8:
		return "int8"
	case KindUint8:
		return "uint8"
	case KindInt16:
		return "int16"
	case KindUint16:
		return "uint16"
	case KindInt32:
		return "int32"
	case KindUint32:
		return "uint32"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// Size returns the encoded width in bytes, or 0 for an invalid kind.
func (k Kind) Size() int {
	switch k {
	case KindInt8, KindUint8:
		return 1
	case KindInt16, KindUint16:
		return 2
	case KindInt32, KindUint32, KindFloat32:
		return 4
	case KindFloat64:
		return 8
	default:
		return 0
	}
}

// IsInteger reports whether the kind is one of the integer kinds.
func (k Kind) IsInteger() bool {
	switch k {
	case KindInt8, KindUint8, KindInt16, KindUint16, KindInt32, KindUint32:
		return true
	default:
		return false
	}
}

// decode converts exactly k.Size() bytes into a float64. Every kind
// widens to float64 without loss, including float32 bit patterns.
func (k Kind) decode(b []byte, order binary.ByteOrder) float64 {
	switch k {
	case KindInt8:
		return float64(int8(b[0]))
	case KindUint8:
		return float64(b[0])
	case KindInt16:
		return float64(int16(order.Uint16(b)))
	case KindUint16:
		return float64(order.Uint16(b))
	case KindInt32:
		return float64(int32(order.Uint32(b)))
	case KindUint32:
		return float64(order.Uint32(b))
	case KindFloat32:
		return float64(math.Float32frombits(order.Uint32(b)))
	case KindFloat64:
		return math.Float64frombits(order.Uint64(b))
	default:
		panic(fmt.Sprintf("ply: decode of %s", k))
	}
}
