// Package cpu reports host CPU capabilities and provides a monotonic tick
// counter for timing transform execution.
package cpu

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// Features describes host CPU capabilities relevant to the CPU transform engine.
type Features struct {
	HasSSE2      bool
	HasSSE3      bool
	HasAVX       bool
	HasAVX2      bool
	HasAVX512    bool
	HasFMA       bool
	HasNEON      bool
	Architecture string
}

// DetectFeatures reports the available CPU features for the current process.
// Fields for other architectures are always false.
func DetectFeatures() Features {
	return Features{
		HasSSE2:      cpu.X86.HasSSE2,
		HasSSE3:      cpu.X86.HasSSE3,
		HasAVX:       cpu.X86.HasAVX,
		HasAVX2:      cpu.X86.HasAVX2,
		HasAVX512:    cpu.X86.HasAVX512F,
		HasFMA:       cpu.X86.HasFMA,
		HasNEON:      cpu.ARM64.HasASIMD,
		Architecture: runtime.GOARCH,
	}
}

// String returns a compact description such as "amd64+sse2+avx2".
func (f Features) String() string {
	parts := []string{f.Architecture}

	flags := []struct {
		on   bool
		name string
	}{
		{f.HasSSE2, "sse2"},
		{f.HasSSE3, "sse3"},
		{f.HasAVX, "avx"},
		{f.HasAVX2, "avx2"},
		{f.HasAVX512, "avx512"},
		{f.HasFMA, "fma"},
		{f.HasNEON, "neon"},
	}
	for _, fl := range flags {
		if fl.on {
			parts = append(parts, fl.name)
		}
	}

	return strings.Join(parts, "+")
}
