package fft

import m "github.com/cwbudde/pmefft/internal/math"

// ditTwiddles returns the n/2 forward twiddles and their conjugates.
func ditTwiddles[T Complex](n int) (fwd, inv []T) {
	full := m.ComputeTwiddleFactors[T](n)
	fwd = full[:n/2]

	inv = make([]T, n/2)
	for k, w := range fwd {
		inv[k] = m.Conj(w)
	}

	return fwd, inv
}

// ditInPlace is an iterative radix-2 decimation-in-time transform.
// len(data) must be a power of two equal to len(bitrev) and 2*len(twiddle).
func ditInPlace[T Complex](data, twiddle []T, bitrev []int) {
	n := len(data)

	for i, j := range bitrev {
		if i < j {
			data[i], data[j] = data[j], data[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := n / size

		for start := 0; start < n; start += size {
			for k := range half {
				w := twiddle[k*step]
				a := data[start+k]
				b := data[start+k+half] * w
				data[start+k] = a + b
				data[start+k+half] = a - b
			}
		}
	}
}
