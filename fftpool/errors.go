package fftpool

import "fmt"

// InvariantError reports a caller programming error detected by the pool,
// such as allocating a non-empty pool or executing an out-of-range context.
// The pool panics with it; it is never returned.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("fftpool: %s: invariant violated: %s", e.Op, e.Detail)
}

func invariant(op, format string, args ...any) *InvariantError {
	return &InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
