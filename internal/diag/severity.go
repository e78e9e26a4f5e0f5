package diag

// Severity ranks how serious a diagnostic is. The numeric order is load
// bearing: Bag's HasErrors/HasWarnings compare with >=, so Error must stay
// the highest value.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	// SevError marks findings that fail a check run.
	SevError
)

var severityNames = map[Severity]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}
