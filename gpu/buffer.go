package gpu

import "github.com/cwbudde/pmefft"

// Upload copies src to buf after checking that T matches the buffer precision.
func Upload[T Complex](buf Buffer, src []T) error {
	if buf.Precision() != PrecisionFor[T]() {
		return pmefft.ErrPrecisionMismatch
	}

	return buf.Upload(src)
}

// Download copies buf into dst after checking that T matches the buffer precision.
func Download[T Complex](buf Buffer, dst []T) error {
	if buf.Precision() != PrecisionFor[T]() {
		return pmefft.ErrPrecisionMismatch
	}

	return buf.Download(dst)
}

// NewGridBuffer allocates a zeroed device buffer sized for shape at precision T.
func NewGridBuffer[T Complex](ctx Context, shape pmefft.Shape) (Buffer, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	return ctx.NewBuffer(shape.Len(), PrecisionFor[T]())
}
