// Package pdb holds Protein Data Bank residue and atom tables as explicit
// values. Simulation drivers consume them for identifiers only.
package pdb

import (
	"errors"
	"fmt"
)

// Field widths of the fixed-format PDB columns.
const (
	MaxResidueName = 3
	MaxAtomName    = 4
	MaxRecordType  = 6
	MaxChains      = 20
)

var (
	// ErrAtomIndex is returned for an atom index outside the table.
	ErrAtomIndex = errors.New("pdb: atom index out of range")

	// ErrInvalidTables is returned by Validate for inconsistent tables.
	ErrInvalidTables = errors.New("pdb: invalid tables")
)

// Atom is one ATOM or HETATM record.
type Atom struct {
	Serial  int
	Name    string
	Record  string // "ATOM" or "HETATM"
	AltLoc  byte
	X, Y, Z float64
	// Bonds holds the atom indices (not serials) this atom is connected to.
	Bonds []int
}

// Residue spans the atoms [FirstAtom, LastAtom] of one residue.
type Residue struct {
	Number    int
	Name      string
	Chain     byte
	Insertion byte
	FirstAtom int
	LastAtom  int
}

// Tables is the residue/atom description of one structure.
type Tables struct {
	Atoms    []Atom
	Residues []Residue
	// Chains lists the chain identifiers in order of first appearance.
	Chains string
}

// NumAtoms returns the atom count.
func (t *Tables) NumAtoms() int {
	return len(t.Atoms)
}

// NumResidues returns the residue count.
func (t *Tables) NumResidues() int {
	return len(t.Residues)
}

// ResidueOf returns the residue containing atom i.
func (t *Tables) ResidueOf(i int) (Residue, error) {
	if i < 0 || i >= len(t.Atoms) {
		return Residue{}, fmt.Errorf("%w: %d", ErrAtomIndex, i)
	}

	lo, hi := 0, len(t.Residues)
	for lo < hi {
		mid := (lo + hi) / 2
		if t.Residues[mid].LastAtom < i {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo == len(t.Residues) || t.Residues[lo].FirstAtom > i {
		return Residue{}, fmt.Errorf("%w: atom %d belongs to no residue", ErrInvalidTables, i)
	}

	return t.Residues[lo], nil
}

// AtomName returns the name of atom i.
func (t *Tables) AtomName(i int) (string, error) {
	if i < 0 || i >= len(t.Atoms) {
		return "", fmt.Errorf("%w: %d", ErrAtomIndex, i)
	}

	return t.Atoms[i].Name, nil
}

// Validate checks field widths, residue ranges and bond indices.
func (t *Tables) Validate() error {
	if len(t.Chains) > MaxChains {
		return fmt.Errorf("%w: %d chains, max %d", ErrInvalidTables, len(t.Chains), MaxChains)
	}

	for i, a := range t.Atoms {
		if len(a.Name) > MaxAtomName {
			return fmt.Errorf("%w: atom %d name %q wider than %d", ErrInvalidTables, i, a.Name, MaxAtomName)
		}

		if len(a.Record) > MaxRecordType {
			return fmt.Errorf("%w: atom %d record %q wider than %d", ErrInvalidTables, i, a.Record, MaxRecordType)
		}

		for _, b := range a.Bonds {
			if b < 0 || b >= len(t.Atoms) || b == i {
				return fmt.Errorf("%w: atom %d bonded to %d", ErrInvalidTables, i, b)
			}
		}
	}

	next := 0
	for r, res := range t.Residues {
		if len(res.Name) > MaxResidueName {
			return fmt.Errorf("%w: residue %d name %q wider than %d", ErrInvalidTables, r, res.Name, MaxResidueName)
		}

		if res.FirstAtom != next || res.LastAtom < res.FirstAtom || res.LastAtom >= len(t.Atoms) {
			return fmt.Errorf("%w: residue %d spans [%d, %d]", ErrInvalidTables, r, res.FirstAtom, res.LastAtom)
		}

		next = res.LastAtom + 1
	}

	if len(t.Residues) > 0 && next != len(t.Atoms) {
		return fmt.Errorf("%w: residues cover %d of %d atoms", ErrInvalidTables, next, len(t.Atoms))
	}

	return nil
}
