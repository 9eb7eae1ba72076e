package pmefft

import (
	"fmt"

	"github.com/cwbudde/pmefft/internal/fftypes"
)

// Complex is a type constraint for the grid element types.
// The canonical definition is in internal/fftypes.
type Complex = fftypes.Complex

// Float is a type constraint for the real component types.
// The canonical definition is in internal/fftypes.
type Float = fftypes.Float

// Direction selects the sign of the transform exponent.
type Direction uint8

const (
	// Forward uses exp(-2πi/n): real space to reciprocal space.
	Forward Direction = iota
	// Inverse uses exp(+2πi/n) and is not normalized.
	Inverse
)

// String returns "forward" or "inverse".
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Inverse:
		return "inverse"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Shape is the extent of a 3-D PME grid. Z varies fastest in memory.
type Shape struct {
	X, Y, Z int
}

// Len returns the number of grid points.
func (s Shape) Len() int {
	return s.X * s.Y * s.Z
}

// Validate reports ErrInvalidShape if any dimension is not positive.
func (s Shape) Validate() error {
	if s.X < 1 || s.Y < 1 || s.Z < 1 {
		return fmt.Errorf("%w: %s", ErrInvalidShape, s)
	}

	return nil
}

// String formats the shape as "XxYxZ".
func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.X, s.Y, s.Z)
}

// Index returns the flat offset of grid point (x, y, z).
func (s Shape) Index(x, y, z int) int {
	return (x*s.Y+y)*s.Z + z
}
