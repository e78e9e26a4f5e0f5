package token

// Kind represents the category of a template token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota

	// Text represents a raw text run between tags.
	Text
	// EscapedVariable represents a {{name}} interpolation (HTML-escaped downstream).
	EscapedVariable
	// UnescapedVariable represents a {{{name}}} or {{&name}} interpolation.
	UnescapedVariable
	// Comment represents a {{! ...}} tag; its body is discarded.
	Comment
	// Section represents a {{#name}} section opener.
	Section
	// InvertedSection represents a {{^name}} inverted section opener.
	InvertedSection
	// CloseSection represents a {{/name}} section closer.
	CloseSection
	// Partial represents a {{>name}} partial reference.
	Partial
	// PartialOverride represents a {{<name}} inheritance parent reference.
	PartialOverride
	// Block represents a {{$name}} inheritance block.
	Block
	// Pragma represents a {{%name}} pragma tag.
	Pragma
	// SetDelimiters represents a {{=<open> <close>=}} delimiter change.
	SetDelimiters
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case Text:
		return "Text"
	case EscapedVariable:
		return "EscapedVariable"
	case UnescapedVariable:
		return "UnescapedVariable"
	case Comment:
		return "Comment"
	case Section:
		return "Section"
	case InvertedSection:
		return "InvertedSection"
	case CloseSection:
		return "CloseSection"
	case Partial:
		return "Partial"
	case PartialOverride:
		return "PartialOverride"
	case Block:
		return "Block"
	case Pragma:
		return "Pragma"
	case SetDelimiters:
		return "SetDelimiters"
	}
	return "Unknown"
}

// IsVariable reports whether the token interpolates a value.
func (k Kind) IsVariable() bool {
	return k == EscapedVariable || k == UnescapedVariable
}

// OpensBlock reports whether the token must be closed by a later CloseSection.
// The matching itself is the tree-builder's job, not the scanner's.
func (k Kind) OpensBlock() bool {
	switch k {
	case Section, InvertedSection, Block:
		return true
	default:
		return false
	}
}

// CarriesDelims reports whether tokens of this kind record the delimiter pair
// that was active when they were scanned.
func (k Kind) CarriesDelims() bool {
	switch k {
	case EscapedVariable, UnescapedVariable, Section, InvertedSection:
		return true
	default:
		return false
	}
}
