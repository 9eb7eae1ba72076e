package fftypes

// KernelStrategy names the algorithm a 1-D plan uses along one grid axis.
type KernelStrategy uint32

const (
	KernelAuto      KernelStrategy = iota
	KernelDIT                      // iterative radix-2 decimation in time
	KernelBluestein                // chirp-z for lengths that are not a power of two
	KernelIdentity                 // length 1, nothing to do
)

// String returns a human-readable name for the strategy.
func (s KernelStrategy) String() string {
	switch s {
	case KernelAuto:
		return "auto"
	case KernelDIT:
		return "dit"
	case KernelBluestein:
		return "bluestein"
	case KernelIdentity:
		return "identity"
	default:
		return "unknown"
	}
}
