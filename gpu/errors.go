package gpu

import (
	"errors"
	"fmt"

	"github.com/cwbudde/pmefft"
)

var (
	// ErrNoBackend is returned when no GPU backend is registered.
	ErrNoBackend = errors.New("gpu: no backend registered")

	// ErrUnknownBackend is returned by Use for a name with no factory.
	ErrUnknownBackend = errors.New("gpu: unknown backend")

	// ErrBackendUnavailable is returned when the backend is registered but not available
	// on the current system (e.g., no device, driver missing).
	ErrBackendUnavailable = errors.New("gpu: backend unavailable")

	// ErrNotImplemented is returned by stubbed operations.
	ErrNotImplemented = errors.New("gpu: not implemented")

	// ErrInvalidLength is returned for invalid buffer sizes.
	ErrInvalidLength = errors.New("gpu: invalid length")

	// ErrLengthMismatch is returned when a host slice or device buffer is
	// shorter than required.
	ErrLengthMismatch = errors.New("gpu: length mismatch")

	// ErrForeignBuffer is returned when a buffer from another backend is
	// handed to a plan.
	ErrForeignBuffer = errors.New("gpu: buffer belongs to another backend")

	// ErrPlanInvalid is returned when executing a plan that was never
	// created or has been destroyed.
	ErrPlanInvalid = errors.New("gpu: plan not initialized")

	// ErrPlanDestroyed is returned by a backend asked to destroy the same
	// plan twice.
	ErrPlanDestroyed = errors.New("gpu: plan already destroyed")
)

// DeviceError reports a failed device-library call. The plan pool treats
// it as fatal.
type DeviceError struct {
	Op    string // "create", "execute" or "destroy"
	Shape pmefft.Shape
	Err   error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("gpu: %s plan %s: %v", e.Op, e.Shape, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}
