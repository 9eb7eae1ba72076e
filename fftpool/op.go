package fftpool

import "strings"

// Phase is one step of the pool lifecycle.
type Phase uint8

const (
	// Deallocate destroys every plan and empties the pool.
	Deallocate Phase = iota
	// Allocate sizes an empty pool to one uninitialized slot per context.
	Allocate
	// Initialize creates the device plan of every slot.
	Initialize

	phaseCount
)

// String returns the lower-case phase name.
func (p Phase) String() string {
	switch p {
	case Deallocate:
		return "dealloc"
	case Allocate:
		return "alloc"
	case Initialize:
		return "init"
	default:
		return "unknown"
	}
}

// Op is a set of phases. Apply always runs them in the order Deallocate,
// Allocate, Initialize, whatever order they were added in. The zero Op is
// empty.
type Op struct {
	set [phaseCount]bool
}

// Common operations.
var (
	// Rebuild tears the pool down and builds it again over the current registry.
	Rebuild = NewOp(Deallocate, Allocate, Initialize)
	// Setup builds an empty pool.
	Setup = NewOp(Allocate, Initialize)
	// Teardown empties the pool.
	Teardown = NewOp(Deallocate)
)

// NewOp returns the set of the given phases. Unknown phases are ignored.
func NewOp(phases ...Phase) Op {
	var op Op
	for _, p := range phases {
		op = op.With(p)
	}

	return op
}

// With returns op plus p.
func (op Op) With(p Phase) Op {
	if p < phaseCount {
		op.set[p] = true
	}

	return op
}

// Has reports whether p is in op.
func (op Op) Has(p Phase) bool {
	return p < phaseCount && op.set[p]
}

// Empty reports whether op contains no phase.
func (op Op) Empty() bool {
	return op == Op{}
}

// Phases lists the phases of op in application order.
func (op Op) Phases() []Phase {
	phases := make([]Phase, 0, phaseCount)
	for p := range phaseCount {
		if op.set[p] {
			phases = append(phases, p)
		}
	}

	return phases
}

// String joins the phase names with "|", or returns "none".
func (op Op) String() string {
	phases := op.Phases()
	if len(phases) == 0 {
		return "none"
	}

	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.String()
	}

	return strings.Join(names, "|")
}
