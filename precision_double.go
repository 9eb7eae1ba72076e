//go:build !pmefft_single

package pmefft

// Grid is the process-wide PME grid element type. Build with
// -tags pmefft_single to select complex64.
type Grid = complex128
