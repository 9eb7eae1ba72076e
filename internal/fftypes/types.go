package fftypes

// Complex is the constraint for the complex element types a grid can hold.
type Complex interface {
	complex64 | complex128
}

// Float is the constraint for the matching real component types.
type Float interface {
	float32 | float64
}
