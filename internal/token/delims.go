package token

// Delims is an ordered pair of literal tag markers. Both strings are
// non-empty for any pair the scanner will accept.
type Delims struct {
	Open  string
	Close string
}

// Default returns the standard mustache pair.
func Default() Delims {
	return Delims{Open: "{{", Close: "}}"}
}

// IsDefault reports whether d is the standard {{ }} pair. The triple-brace
// unescape form is recognized only while this holds.
func (d Delims) IsDefault() bool {
	return d.Open == "{{" && d.Close == "}}"
}

// Valid reports whether both markers are non-empty.
func (d Delims) Valid() bool {
	return d.Open != "" && d.Close != ""
}

func (d Delims) String() string {
	return d.Open + " " + d.Close
}
