//go:build pmefft_single

package pmefft

// Grid is the process-wide PME grid element type, single precision.
type Grid = complex64
