// Package pmefft holds the types shared by the PME transform packages: the
// grid shape, the transform direction and the build-time grid precision.
//
// The pieces fit together as follows:
//
//	gpu      device backend abstraction, plans and buffers
//	pme      registry of PME contexts, each owning one grid buffer
//	fftpool  one transform plan per registry context, with a
//	         Deallocate/Allocate/Initialize lifecycle
//	pdb      residue and atom identifier tables
//
// Grid precision is fixed per build: the default is double precision
// (complex128); building with -tags pmefft_single selects complex64.
package pmefft
