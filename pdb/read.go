package pdb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Read parses ATOM, HETATM and CONECT records until END or EOF. Residues
// are formed from consecutive atoms sharing chain, residue number and
// insertion code.
func Read(r io.Reader) (*Tables, error) {
	t := &Tables{}
	serialIndex := map[int]int{}

	type conect struct {
		line    int
		serials []int
	}

	var links []conect

	scanner := bufio.NewScanner(r)
	lineNo := 0

scan:
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		record := strings.TrimSpace(column(line, 0, 6))

		switch record {
		case "ATOM", "HETATM":
			if err := t.addAtom(line, record, serialIndex); err != nil {
				return nil, fmt.Errorf("pdb: line %d: %w", lineNo, err)
			}
		case "CONECT":
			serials, err := conectSerials(line)
			if err != nil {
				return nil, fmt.Errorf("pdb: line %d: %w", lineNo, err)
			}

			links = append(links, conect{line: lineNo, serials: serials})
		case "END", "ENDMDL":
			break scan
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("pdb: read: %w", err)
	}

	for _, c := range links {
		from, ok := serialIndex[c.serials[0]]
		if !ok {
			return nil, fmt.Errorf("pdb: line %d: CONECT to unknown serial %d", c.line, c.serials[0])
		}

		for _, s := range c.serials[1:] {
			to, ok := serialIndex[s]
			if !ok {
				return nil, fmt.Errorf("pdb: line %d: CONECT to unknown serial %d", c.line, s)
			}

			t.Atoms[from].Bonds = appendUnique(t.Atoms[from].Bonds, to)
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *Tables) addAtom(line, record string, serialIndex map[int]int) error {
	serial, err := intField(line, 6, 11, "serial")
	if err != nil {
		return err
	}

	resSeq, err := intField(line, 22, 26, "residue number")
	if err != nil {
		return err
	}

	var xyz [3]float64

	for i, start := range []int{30, 38, 46} {
		v, err := strconv.ParseFloat(strings.TrimSpace(column(line, start, start+8)), 64)
		if err != nil {
			return fmt.Errorf("coordinate %d: %w", i, err)
		}

		xyz[i] = v
	}

	index := len(t.Atoms)
	serialIndex[serial] = index

	t.Atoms = append(t.Atoms, Atom{
		Serial: serial,
		Name:   strings.TrimSpace(column(line, 12, 16)),
		Record: record,
		AltLoc: byteAt(line, 16),
		X:      xyz[0],
		Y:      xyz[1],
		Z:      xyz[2],
	})

	resName := strings.TrimSpace(column(line, 17, 20))
	chain := byteAt(line, 21)
	insertion := byteAt(line, 26)

	if n := len(t.Residues); n > 0 {
		last := &t.Residues[n-1]
		if last.Number == resSeq && last.Chain == chain && last.Insertion == insertion {
			last.LastAtom = index
			return nil
		}
	}

	t.Residues = append(t.Residues, Residue{
		Number:    resSeq,
		Name:      resName,
		Chain:     chain,
		Insertion: insertion,
		FirstAtom: index,
		LastAtom:  index,
	})

	if chain != ' ' && !strings.ContainsRune(t.Chains, rune(chain)) {
		t.Chains += string(chain)
	}

	return nil
}

func conectSerials(line string) ([]int, error) {
	var serials []int

	for start := 6; start < len(line) && start < 31; start += 5 {
		field := strings.TrimSpace(column(line, start, start+5))
		if field == "" {
			continue
		}

		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("CONECT serial %q: %w", field, err)
		}

		serials = append(serials, v)
	}

	if len(serials) == 0 {
		return nil, fmt.Errorf("CONECT without serials")
	}

	return serials, nil
}

func intField(line string, start, end int, name string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(column(line, start, end)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}

	return v, nil
}

// column returns line[start:end], clipped to the line length.
func column(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}

	if end > len(line) {
		end = len(line)
	}

	return line[start:end]
}

func byteAt(line string, i int) byte {
	if i >= len(line) {
		return ' '
	}

	return line[i]
}

func appendUnique(list []int, v int) []int {
	for _, x := range list {
		if x == v {
			return list
		}
	}

	return append(list, v)
}
