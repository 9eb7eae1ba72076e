package cpu

import "time"

// base anchors the counter so values stay small and monotonic.
var base = time.Now()

// ReadCycleCounter returns a monotonic tick count. Ticks are nanoseconds
// since package initialization; the counter is backed by the runtime's
// monotonic clock because the module carries no assembly.
func ReadCycleCounter() int64 {
	return int64(time.Since(base))
}

// CyclesSince returns the number of ticks elapsed since start.
func CyclesSince(start int64) int64 {
	return ReadCycleCounter() - start
}

// CyclesToNanoseconds converts a tick count to nanoseconds.
func CyclesToNanoseconds(cycles int64) int64 {
	return cycles
}
