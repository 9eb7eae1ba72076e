// Package gpu is the device transform library seen by the plan pool.
//
// A Backend discovers devices and opens a Context. A Context allocates
// device grid buffers and creates 3-D complex-to-complex plans at a given
// precision. Plan[T] wraps a backend plan with its shape and precision
// fixed by the type parameter, and destroys it at most once.
//
// The CPU-backed MockBackend is always available and is the default.
// Building with -tags cuda adds a backend that discovers NVIDIA devices
// through NVML.
package gpu
