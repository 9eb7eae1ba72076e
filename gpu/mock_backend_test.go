package gpu

import (
	"errors"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/pmefft"
)

func newMockContext(t *testing.T) (*MockBackend, Context) {
	t.Helper()

	b := NewMockBackend()

	ctx, err := b.NewContext(0)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	return b, ctx
}

func TestMockBackendForwardInverse(t *testing.T) {
	t.Parallel()

	backend, ctx := newMockContext(t)
	shape := pmefft.Shape{X: 2, Y: 2, Z: 2}

	plan, err := NewPlan[complex64](ctx, shape)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	defer func() { _ = plan.Destroy() }()

	buf, err := NewGridBuffer[complex64](ctx, shape)
	if err != nil {
		t.Fatalf("NewGridBuffer: %v", err)
	}

	src := []complex64{1, 0, 0, 0, 0, 0, 0, 0}
	if err := Upload(buf, src); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := plan.Forward(buf); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	freq := make([]complex64, 8)
	if err := Download(buf, freq); err != nil {
		t.Fatalf("Download: %v", err)
	}

	// An impulse transforms to all ones.
	for i, v := range freq {
		if cmplx.Abs(complex128(v-1)) > 1e-6 {
			t.Fatalf("freq[%d] = %v, want 1", i, v)
		}
	}

	if err := plan.Inverse(buf); err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	out := make([]complex64, 8)
	if err := Download(buf, out); err != nil {
		t.Fatalf("Download: %v", err)
	}

	if cmplx.Abs(complex128(out[0]-8)) > 1e-5 {
		t.Fatalf("out[0] = %v, want 8", out[0])
	}

	if got := backend.Stats().Executions; got != 2 {
		t.Errorf("Executions = %d, want 2", got)
	}
}

func TestPlanDestroyIsIdempotent(t *testing.T) {
	t.Parallel()

	backend, ctx := newMockContext(t)

	plan, err := NewPlan[complex128](ctx, pmefft.Shape{X: 4, Y: 4, Z: 4})
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}

	if !plan.Valid() {
		t.Fatal("new plan should be valid")
	}

	for range 3 {
		if err := plan.Destroy(); err != nil {
			t.Fatalf("Destroy: %v", err)
		}
	}

	if plan.Valid() {
		t.Fatal("destroyed plan should be invalid")
	}

	stats := backend.Stats()
	if stats.PlansCreated != 1 || stats.PlansDestroyed != 1 {
		t.Fatalf("stats = %+v, want one create and one destroy", stats)
	}

	var zero Plan[complex128]
	if err := zero.Destroy(); err != nil {
		t.Fatalf("zero Destroy: %v", err)
	}
}

func TestPlanExecuteErrors(t *testing.T) {
	t.Parallel()

	_, ctx := newMockContext(t)
	shape := pmefft.Shape{X: 2, Y: 2, Z: 4}

	var uninit Plan[complex128]

	buf128, err := NewGridBuffer[complex128](ctx, shape)
	if err != nil {
		t.Fatal(err)
	}

	if err := uninit.Forward(buf128); !errors.Is(err, ErrPlanInvalid) {
		t.Errorf("uninitialized Forward err = %v, want ErrPlanInvalid", err)
	}

	plan, err := NewPlan[complex128](ctx, shape)
	if err != nil {
		t.Fatal(err)
	}

	buf64, err := NewGridBuffer[complex64](ctx, shape)
	if err != nil {
		t.Fatal(err)
	}

	var devErr *DeviceError
	if err := plan.Forward(buf64); !errors.As(err, &devErr) || !errors.Is(err, pmefft.ErrPrecisionMismatch) {
		t.Errorf("precision mismatch err = %v", err)
	}

	short, err := ctx.NewBuffer(8, PrecisionComplex128)
	if err != nil {
		t.Fatal(err)
	}

	if err := plan.Forward(short); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("short buffer err = %v", err)
	}
}

func TestMockFailPlanCreation(t *testing.T) {
	t.Parallel()

	backend, ctx := newMockContext(t)
	injected := errors.New("out of device memory")
	backend.FailPlanCreation(1, injected)

	shape := pmefft.Shape{X: 2, Y: 2, Z: 2}

	if _, err := NewPlan[complex128](ctx, shape); err != nil {
		t.Fatalf("first NewPlan: %v", err)
	}

	_, err := NewPlan[complex128](ctx, shape)

	var devErr *DeviceError
	if !errors.As(err, &devErr) || devErr.Op != "create" || !errors.Is(err, injected) {
		t.Fatalf("second NewPlan err = %v, want injected create failure", err)
	}

	if _, err := NewPlan[complex128](ctx, shape); err != nil {
		t.Fatalf("third NewPlan: %v", err)
	}

	if got := backend.Stats().PlansCreated; got != 2 {
		t.Errorf("PlansCreated = %d, want 2", got)
	}
}

func TestNewPlanRejectsInvalidShape(t *testing.T) {
	t.Parallel()

	_, ctx := newMockContext(t)

	_, err := NewPlan[complex64](ctx, pmefft.Shape{X: 4, Y: 0, Z: 4})
	if !errors.Is(err, pmefft.ErrInvalidShape) {
		t.Fatalf("err = %v, want ErrInvalidShape", err)
	}
}

func TestMockBufferUploadDownload(t *testing.T) {
	t.Parallel()

	backend, ctx := newMockContext(t)

	buf, err := ctx.NewBuffer(4, PrecisionComplex128)
	if err != nil {
		t.Fatal(err)
	}

	if err := Upload(buf, []complex64{1, 2, 3, 4}); !errors.Is(err, pmefft.ErrPrecisionMismatch) {
		t.Errorf("Upload complex64 into complex128 buffer err = %v", err)
	}

	if err := Upload(buf, []complex128{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("short Upload err = %v", err)
	}

	if err := buf.Close(); err != nil {
		t.Fatal(err)
	}

	if err := buf.Close(); err != nil {
		t.Fatal(err)
	}

	stats := backend.Stats()
	if stats.BuffersAllocated != 1 || stats.BuffersFreed != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	if _, err := ctx.NewBuffer(-1, PrecisionComplex64); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("negative NewBuffer err = %v", err)
	}
}

func TestBackendRegistry(t *testing.T) {
	defer RegisterMockBackend()

	RegisterBackend(nil)

	if _, ok := CurrentBackendInfo(); ok {
		t.Fatal("CurrentBackendInfo reported a backend after clearing")
	}

	if _, err := OpenContext(0); !errors.Is(err, ErrNoBackend) {
		t.Fatalf("OpenContext err = %v, want ErrNoBackend", err)
	}

	if err := Use("no-such-backend"); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("Use err = %v, want ErrUnknownBackend", err)
	}

	if err := Use(MockBackendName); err != nil {
		t.Fatalf("Use(mock): %v", err)
	}

	info, ok := CurrentBackendInfo()
	if !ok || info.Name != MockBackendName {
		t.Fatalf("CurrentBackendInfo = %+v, %v", info, ok)
	}

	ctx, err := OpenContext(0)
	if err != nil {
		t.Fatalf("OpenContext: %v", err)
	}

	if ctx.Device().Name != "MockGPU" {
		t.Errorf("Device = %+v", ctx.Device())
	}

	if _, err := OpenContext(1); err == nil {
		t.Error("OpenContext(1) should fail on the single-device mock")
	}

	found := false
	for _, name := range BackendNames() {
		if name == MockBackendName {
			found = true
		}
	}

	if !found {
		t.Errorf("BackendNames = %v, missing mock", BackendNames())
	}
}

func TestMockFailDestroyAndExecute(t *testing.T) {
	t.Parallel()

	backend, ctx := newMockContext(t)
	shape := pmefft.Shape{X: 2, Y: 2, Z: 2}

	buf, err := NewGridBuffer[complex128](ctx, shape)
	if err != nil {
		t.Fatalf("NewGridBuffer: %v", err)
	}

	plan, err := NewPlan[complex128](ctx, shape)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}

	injected := errors.New("launch failure")
	backend.FailExecute(0, injected)

	err = plan.Forward(buf)

	var devErr *DeviceError
	if !errors.As(err, &devErr) || devErr.Op != "execute" || !errors.Is(err, injected) {
		t.Fatalf("Forward err = %v, want injected execute failure", err)
	}

	if err := plan.Forward(buf); err != nil {
		t.Fatalf("Forward after injection: %v", err)
	}

	backend.FailPlanDestroy(0, injected)

	err = plan.Destroy()
	if !errors.As(err, &devErr) || devErr.Op != "destroy" || !errors.Is(err, injected) {
		t.Fatalf("Destroy err = %v, want injected destroy failure", err)
	}

	if err := plan.Destroy(); err != nil {
		t.Errorf("second Destroy = %v, want nil", err)
	}

	stats := backend.Stats()
	if stats.Executions != 1 || stats.LivePlans() != 1 {
		t.Errorf("stats = %+v, want 1 execution and the failed plan still live", stats)
	}
}
