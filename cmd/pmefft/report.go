package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/cwbudde/pmefft"
)

// writeReport prints one line per grid and reports whether all passed.
func writeReport(w io.Writer, results []gridResult) bool {
	pass := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)
	header := color.New(color.Faint)

	header.Fprintf(w, "precision=%s tolerance=%.0e\n", pmefft.BuildPrecision(), tolerance())
	header.Fprintf(w, "%-12s  %-12s  %12s  %12s  %s\n", "grid", "shape", "max error", "per iter", "status")

	allOK := true

	for _, r := range results {
		fmt.Fprintf(w, "%-12s  %-12s  %12.3e  %12s  ", r.name, r.shape, r.maxErr, r.perIter)

		if r.ok {
			pass.Fprintln(w, "PASS")
		} else {
			fail.Fprintln(w, "FAIL")
			allOK = false
		}
	}

	return allOK
}
