package lexer

import "stache/internal/diag"

// ReporterAdapter bridges a diag.Bag into the scanner's Options.
type ReporterAdapter struct {
	Bag *diag.Bag
}

// Reporter returns a diag.Reporter that stores diagnostics into the bag.
func (r *ReporterAdapter) Reporter() diag.Reporter {
	return diag.BagReporter{Bag: r.Bag}
}
