package lexer

import (
	"fmt"
)

// ScanError is the single error kind the scanner produces. Two conditions
// raise it: a delimiter-redefinition tag whose interior does not split into
// exactly two markers, and a tag left open at end-of-input. Both stop the
// scan immediately.
type ScanError struct {
	Msg  string
	Path string // template identifier; may be empty
	Line uint32 // 1-based
}

func (e *ScanError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}
