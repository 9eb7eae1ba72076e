package fft

import m "github.com/cwbudde/pmefft/internal/math"

// ScaleInPlace multiplies each element of data by factor.
func ScaleInPlace[T Complex](data []T, factor float64) {
	if factor == 1 {
		return
	}

	s := m.FromFloat64[T](factor, 0)
	for i := range data {
		data[i] *= s
	}
}
