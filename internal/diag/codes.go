package diag

import (
	"fmt"
)

type Code uint16

const (
	// UnknownCode is the catch-all for unclassified findings.
	UnknownCode Code = 0

	// Lexical
	LexInfo            Code = 1000
	LexUnclosedTag     Code = 1001
	LexBadDelimiterTag Code = 1002

	// I/O
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:        "Unknown error",
	LexInfo:            "Lexical information",
	LexUnclosedTag:     "Unclosed tag",
	LexBadDelimiterTag: "Malformed delimiter change",
	IOLoadFileError:    "Failed to load template",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
