package lexer

import (
	"stache/internal/token"
)

// delimSet holds the concrete byte markers derived from the active pair.
// It is recomputed exactly once per successfully scanned SetDelimiters tag,
// immediately before the scan resumes.
type delimSet struct {
	pair token.Delims

	open  []byte // plain tag open
	close []byte // plain tag close

	// Triple-brace unescape markers; nil unless the pair is the default.
	uopen  []byte
	uclose []byte

	// Redefinition markers: <open>= and =<close>.
	setOpen  []byte
	setClose []byte
}

func newDelimSet(pair token.Delims) delimSet {
	if !pair.Valid() {
		pair = token.Default()
	}
	set := delimSet{
		pair:     pair,
		open:     []byte(pair.Open),
		close:    []byte(pair.Close),
		setOpen:  []byte(pair.Open + "="),
		setClose: []byte("=" + pair.Close),
	}
	if pair.IsDefault() {
		set.uopen = []byte("{{{")
		set.uclose = []byte("}}}")
	}
	return set
}
