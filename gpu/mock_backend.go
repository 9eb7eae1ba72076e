package gpu

import (
	"fmt"
	"sync"

	"github.com/cwbudde/pmefft"
	"github.com/cwbudde/pmefft/internal/cpu"
	"github.com/cwbudde/pmefft/internal/fft"
)

// MockBackendName is the name the mock backend is registered under.
const MockBackendName = "mock"

func init() {
	RegisterFactory(MockBackendName, func() Backend { return NewMockBackend() })
	RegisterMockBackend()
}

// MockStats counts device resources created through a MockBackend.
type MockStats struct {
	PlansCreated     int
	PlansDestroyed   int
	Executions       int
	BuffersAllocated int
	BuffersFreed     int
}

// LivePlans returns PlansCreated - PlansDestroyed.
func (s MockStats) LivePlans() int {
	return s.PlansCreated - s.PlansDestroyed
}

// MockBackend is a CPU-backed GPU backend for development and tests.
// It satisfies the GPU backend interfaces but executes on the CPU,
// synchronously.
type MockBackend struct {
	device DeviceInfo

	mu      sync.Mutex
	stats   MockStats
	create  mockFault
	destroy mockFault
	execute mockFault
}

// mockFault fires err once after `after` more successful calls.
type mockFault struct {
	after int // -1 disables
	err   error
}

func (f *mockFault) set(after int, err error) {
	if err == nil {
		*f = mockFault{after: -1}
		return
	}

	*f = mockFault{after: after, err: err}
}

// consume counts one call and returns the injected error when it is due.
func (f *mockFault) consume() error {
	switch {
	case f.after < 0:
		return nil
	case f.after == 0:
		err := f.err
		*f = mockFault{after: -1}

		return err
	default:
		f.after--
		return nil
	}
}

// NewMockBackend returns a mock backend with a single fake device.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		device: DeviceInfo{
			Name:       "MockGPU",
			Vendor:     "pmefft",
			Driver:     "mock",
			MemoryMB:   0,
			ComputeCap: cpu.DetectFeatures().String(),
		},
		create:  mockFault{after: -1},
		destroy: mockFault{after: -1},
		execute: mockFault{after: -1},
	}
}

func (b *MockBackend) Info() BackendInfo {
	return BackendInfo{
		Name:        MockBackendName,
		Version:     "0.2",
		Description: "CPU-backed mock GPU backend",
	}
}

func (b *MockBackend) Available() bool {
	return true
}

func (b *MockBackend) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{b.device}, nil
}

func (b *MockBackend) NewContext(deviceIndex int) (Context, error) {
	if deviceIndex != 0 {
		return nil, fmt.Errorf("mock backend: device index %d out of range", deviceIndex)
	}

	return &mockContext{backend: b}, nil
}

// Stats returns a snapshot of the resource counters.
func (b *MockBackend) Stats() MockStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.stats
}

// FailPlanCreation makes plan creation fail with err once after more
// successful creations. Passing a nil err disables injection.
func (b *MockBackend) FailPlanCreation(after int, err error) {
	b.mu.Lock()
	b.create.set(after, err)
	b.mu.Unlock()
}

// FailPlanDestroy makes plan release fail with err once after more
// successful releases. A plan whose release failed stays live in Stats.
func (b *MockBackend) FailPlanDestroy(after int, err error) {
	b.mu.Lock()
	b.destroy.set(after, err)
	b.mu.Unlock()
}

// FailExecute makes plan execution fail with err once after more successful
// executions. The failing call leaves the buffer untouched.
func (b *MockBackend) FailExecute(after int, err error) {
	b.mu.Lock()
	b.execute.set(after, err)
	b.mu.Unlock()
}

// RegisterMockBackend registers the mock backend as the active backend.
func RegisterMockBackend() {
	RegisterBackend(NewMockBackend())
}

func (b *MockBackend) count(f func(*MockStats)) {
	b.mu.Lock()
	f(&b.stats)
	b.mu.Unlock()
}

// injected consumes one call of fault f and reports its error when due.
func (b *MockBackend) injected(f *mockFault) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return f.consume()
}

type mockContext struct {
	backend *MockBackend
}

func (c *mockContext) Device() DeviceInfo {
	return c.backend.device
}

func (c *mockContext) NewBuffer(elemCount int, precision PrecisionKind) (Buffer, error) {
	if elemCount < 0 {
		return nil, ErrInvalidLength
	}

	var buf *mockBuffer

	switch precision {
	case PrecisionComplex64:
		buf = &mockBuffer{
			backend:   c.backend,
			precision: precision,
			len:       elemCount,
			data64:    make([]complex64, elemCount),
		}
	case PrecisionComplex128:
		buf = &mockBuffer{
			backend:   c.backend,
			precision: precision,
			len:       elemCount,
			data128:   make([]complex128, elemCount),
		}
	default:
		return nil, ErrNotImplemented
	}

	c.backend.count(func(s *MockStats) { s.BuffersAllocated++ })

	return buf, nil
}

func (c *mockContext) NewPlan3D(shape pmefft.Shape, precision PrecisionKind) (PlanImpl, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	if err := c.backend.injected(&c.backend.create); err != nil {
		return nil, err
	}

	var (
		impl PlanImpl
		err  error
	)

	switch precision {
	case PrecisionComplex64:
		impl, err = newMockPlan[complex64](c.backend, shape)
	case PrecisionComplex128:
		impl, err = newMockPlan[complex128](c.backend, shape)
	default:
		return nil, ErrNotImplemented
	}

	if err != nil {
		return nil, err
	}

	c.backend.count(func(s *MockStats) { s.PlansCreated++ })

	return impl, nil
}

func (c *mockContext) Synchronize() error {
	return nil
}

func (c *mockContext) Close() error {
	return nil
}

type mockBuffer struct {
	backend   *MockBackend
	precision PrecisionKind
	len       int
	data64    []complex64
	data128   []complex128
}

func (b *mockBuffer) Len() int {
	return b.len
}

func (b *mockBuffer) Precision() PrecisionKind {
	return b.precision
}

func (b *mockBuffer) Upload(src any) error {
	switch b.precision {
	case PrecisionComplex64:
		data, ok := src.([]complex64)
		if !ok {
			return pmefft.ErrPrecisionMismatch
		}

		if len(data) < b.len {
			return ErrLengthMismatch
		}

		copy(b.data64, data[:b.len])

		return nil
	case PrecisionComplex128:
		data, ok := src.([]complex128)
		if !ok {
			return pmefft.ErrPrecisionMismatch
		}

		if len(data) < b.len {
			return ErrLengthMismatch
		}

		copy(b.data128, data[:b.len])

		return nil
	default:
		return ErrNotImplemented
	}
}

func (b *mockBuffer) Download(dst any) error {
	switch b.precision {
	case PrecisionComplex64:
		data, ok := dst.([]complex64)
		if !ok {
			return pmefft.ErrPrecisionMismatch
		}

		if len(data) < b.len {
			return ErrLengthMismatch
		}

		copy(data[:b.len], b.data64)

		return nil
	case PrecisionComplex128:
		data, ok := dst.([]complex128)
		if !ok {
			return pmefft.ErrPrecisionMismatch
		}

		if len(data) < b.len {
			return ErrLengthMismatch
		}

		copy(data[:b.len], b.data128)

		return nil
	default:
		return ErrNotImplemented
	}
}

func (b *mockBuffer) Close() error {
	if b.data64 == nil && b.data128 == nil {
		return nil
	}

	b.data64 = nil
	b.data128 = nil
	b.len = 0
	b.backend.count(func(s *MockStats) { s.BuffersFreed++ })

	return nil
}

// mockData returns the host-resident storage of b as []T.
func mockData[T Complex](b *mockBuffer) ([]T, bool) {
	var zero T

	switch any(zero).(type) {
	case complex64:
		data, ok := any(b.data64).([]T)
		return data, ok && b.data64 != nil
	case complex128:
		data, ok := any(b.data128).([]T)
		return data, ok && b.data128 != nil
	default:
		return nil, false
	}
}

type mockPlan[T Complex] struct {
	backend *MockBackend
	shape   pmefft.Shape
	plan    *fft.Plan3D[T]
}

func newMockPlan[T Complex](backend *MockBackend, shape pmefft.Shape) (*mockPlan[T], error) {
	plan, err := fft.NewPlan3D[T](shape.X, shape.Y, shape.Z)
	if err != nil {
		return nil, err
	}

	return &mockPlan[T]{backend: backend, shape: shape, plan: plan}, nil
}

func (p *mockPlan[T]) Shape() pmefft.Shape {
	return p.shape
}

func (p *mockPlan[T]) Precision() PrecisionKind {
	return PrecisionFor[T]()
}

func (p *mockPlan[T]) Execute(buf Buffer, dir pmefft.Direction) error {
	if p.plan == nil {
		return ErrPlanDestroyed
	}

	mb, ok := buf.(*mockBuffer)
	if !ok {
		return ErrForeignBuffer
	}

	data, ok := mockData[T](mb)
	if !ok {
		return pmefft.ErrPrecisionMismatch
	}

	if err := p.backend.injected(&p.backend.execute); err != nil {
		return err
	}

	if err := p.plan.Transform(data, dir == pmefft.Inverse); err != nil {
		return err
	}

	p.backend.count(func(s *MockStats) { s.Executions++ })

	return nil
}

func (p *mockPlan[T]) Close() error {
	if p.plan == nil {
		return ErrPlanDestroyed
	}

	if err := p.backend.injected(&p.backend.destroy); err != nil {
		return err
	}

	p.plan = nil
	p.backend.count(func(s *MockStats) { s.PlansDestroyed++ })

	return nil
}
