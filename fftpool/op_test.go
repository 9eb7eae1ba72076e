package fftpool

import (
	"slices"
	"testing"
)

func TestOpAppliesPhasesInFixedOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		op   Op
		want []Phase
		str  string
	}{
		{"empty", Op{}, []Phase{}, "none"},
		{"init then dealloc", NewOp(Initialize, Deallocate), []Phase{Deallocate, Initialize}, "dealloc|init"},
		{"reversed rebuild", NewOp(Initialize, Allocate, Deallocate), []Phase{Deallocate, Allocate, Initialize}, "dealloc|alloc|init"},
		{"duplicates", NewOp(Allocate, Allocate), []Phase{Allocate}, "alloc"},
		{"unknown ignored", NewOp(Phase(42), Allocate), []Phase{Allocate}, "alloc"},
	}

	for _, tt := range tests {
		if got := tt.op.Phases(); !slices.Equal(got, tt.want) {
			t.Errorf("%s: Phases = %v, want %v", tt.name, got, tt.want)
		}

		if got := tt.op.String(); got != tt.str {
			t.Errorf("%s: String = %q, want %q", tt.name, got, tt.str)
		}
	}
}

func TestOpSetSemantics(t *testing.T) {
	t.Parallel()

	if !(Op{}).Empty() || Rebuild.Empty() {
		t.Fatal("Empty mismatch")
	}

	if Rebuild != NewOp(Allocate, Initialize, Deallocate) {
		t.Fatal("Rebuild should not depend on phase order")
	}

	if Setup.Has(Deallocate) || !Setup.Has(Allocate) || !Setup.Has(Initialize) {
		t.Fatalf("Setup = %v", Setup)
	}

	if Teardown.With(Allocate) != NewOp(Deallocate, Allocate) {
		t.Fatal("With did not add the phase")
	}

	if Rebuild.Has(Phase(9)) {
		t.Fatal("Has reported an unknown phase")
	}
}
