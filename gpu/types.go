package gpu

import (
	"fmt"

	"github.com/cwbudde/pmefft"
)

// Complex is the shared complex constraint.
type Complex = pmefft.Complex

// PrecisionKind describes the precision of a plan or buffer.
type PrecisionKind uint8

const (
	PrecisionComplex64 PrecisionKind = iota
	PrecisionComplex128
)

// String returns "complex64" or "complex128".
func (p PrecisionKind) String() string {
	switch p {
	case PrecisionComplex64:
		return "complex64"
	case PrecisionComplex128:
		return "complex128"
	default:
		return fmt.Sprintf("PrecisionKind(%d)", uint8(p))
	}
}

// PrecisionFor maps a grid element type to its PrecisionKind.
func PrecisionFor[T Complex]() PrecisionKind {
	var zero T
	if _, ok := any(zero).(complex64); ok {
		return PrecisionComplex64
	}

	return PrecisionComplex128
}

// DeviceInfo describes a GPU device.
type DeviceInfo struct {
	Name       string
	Vendor     string
	Driver     string
	MemoryMB   int
	ComputeCap string
}

// BackendInfo describes a backend implementation.
type BackendInfo struct {
	Name        string
	Version     string
	Description string
}
