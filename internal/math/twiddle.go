package math

import "math"

// ComputeTwiddleFactors returns the roots of unity W_n^k = exp(-2πik/n)
// for k = 0..n-1, computed in float64 and rounded once to T.
func ComputeTwiddleFactors[T Complex](n int) []T {
	if n <= 0 {
		return nil
	}

	twiddle := make([]T, n)
	for k := range n {
		angle := -TwoPi * float64(k) / float64(n)
		twiddle[k] = FromFloat64[T](math.Cos(angle), math.Sin(angle))
	}

	return twiddle
}

// FromFloat64 builds a complex value of type T from float64 components.
func FromFloat64[T Complex](re, im float64) T {
	var zero T

	switch any(zero).(type) {
	case complex64:
		result, _ := any(complex(float32(re), float32(im))).(T)
		return result
	case complex128:
		result, _ := any(complex(re, im)).(T)
		return result
	default:
		panic("unsupported complex type")
	}
}

// Conj returns the complex conjugate of val.
func Conj[T Complex](val T) T {
	switch v := any(val).(type) {
	case complex64:
		return any(complex(real(v), -imag(v))).(T)
	case complex128:
		return any(complex(real(v), -imag(v))).(T)
	default:
		panic("unsupported complex type")
	}
}

// Abs returns |val| in float64 regardless of the element precision.
func Abs[T Complex](val T) float64 {
	switch v := any(val).(type) {
	case complex64:
		return math.Hypot(float64(real(v)), float64(imag(v)))
	case complex128:
		return math.Hypot(real(v), imag(v))
	default:
		panic("unsupported complex type")
	}
}
