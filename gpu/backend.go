package gpu

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cwbudde/pmefft"
)

// Backend is implemented by GPU backends (CUDA, OpenCL, the CPU mock).
// It is responsible for device discovery and context creation.
type Backend interface {
	Info() BackendInfo
	Available() bool
	Devices() ([]DeviceInfo, error)
	NewContext(deviceIndex int) (Context, error)
}

// Context represents a backend-specific GPU context tied to a device.
// Work is issued on the context's implicit current stream.
type Context interface {
	Device() DeviceInfo
	// NewBuffer allocates a device buffer for complex data (interleaved real/imag).
	NewBuffer(elemCount int, precision PrecisionKind) (Buffer, error)
	// NewPlan3D creates a 3-D complex-to-complex plan for shape.
	NewPlan3D(shape pmefft.Shape, precision PrecisionKind) (PlanImpl, error)
	// Synchronize waits for all work issued on the context to finish.
	Synchronize() error
	Close() error
}

// Buffer is a device buffer.
type Buffer interface {
	Len() int
	Precision() PrecisionKind
	// Upload copies from host to device.
	Upload(src any) error
	// Download copies from device to host.
	Download(dst any) error
	Close() error
}

// PlanImpl is a backend-specific 3-D plan.
// It is intentionally untyped to avoid leaking backend-specific buffer types.
type PlanImpl interface {
	Shape() pmefft.Shape
	Precision() PrecisionKind
	// Execute transforms buf in place.
	Execute(buf Buffer, dir pmefft.Direction) error
	// Close destroys the plan. A second Close returns ErrPlanDestroyed.
	Close() error
}

var (
	backendMu sync.RWMutex
	backend   Backend
	factories = map[string]func() Backend{}
)

// RegisterBackend registers a GPU backend. Passing nil clears the backend.
func RegisterBackend(b Backend) {
	backendMu.Lock()
	backend = b
	backendMu.Unlock()
}

// RegisterFactory makes a backend selectable by name through Use.
func RegisterFactory(name string, f func() Backend) {
	backendMu.Lock()
	factories[name] = f
	backendMu.Unlock()
}

// Use builds the backend registered under name and makes it current.
func Use(name string) error {
	backendMu.RLock()
	f, ok := factories[name]
	backendMu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}

	RegisterBackend(f())

	return nil
}

// BackendNames lists the names accepted by Use, sorted.
func BackendNames() []string {
	backendMu.RLock()
	defer backendMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// CurrentBackendInfo reports the currently registered backend, if any.
func CurrentBackendInfo() (BackendInfo, bool) {
	b := getBackend()
	if b == nil {
		return BackendInfo{}, false
	}

	return b.Info(), true
}

// OpenContext opens a context on the current backend.
func OpenContext(deviceIndex int) (Context, error) {
	b := getBackend()
	if b == nil {
		return nil, ErrNoBackend
	}

	if !b.Available() {
		return nil, ErrBackendUnavailable
	}

	return b.NewContext(deviceIndex)
}

func getBackend() Backend {
	backendMu.RLock()
	b := backend
	backendMu.RUnlock()

	return b
}
