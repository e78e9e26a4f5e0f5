package lexer

import (
	"fmt"
	"strings"

	"stache/internal/diag"
	"stache/internal/source"
	"stache/internal/token"
)

// EmitFunc receives each token as it is scanned. Returning false stops the
// scan immediately; that is a benign early exit, not a failure.
type EmitFunc func(token.Token) bool

// tagState names the in-tag states of the scan.
type tagState uint8

const (
	stateNone tagState = iota
	stateTag
	stateUnescapedTag
	stateSetDelimitersTag
)

// Scanner drives a single forward pass over one template. It owns the
// active delimiter set for the duration of one Scan call; nothing survives
// past it, so a fresh Scanner is needed per template (and per partial).
type Scanner struct {
	file   *source.File
	cursor Cursor
	opts   Options
	set    delimSet
	line   uint32 // running counter, incremented on every newline byte
}

// New creates a scanner for one template.
func New(file *source.File, opts Options) *Scanner {
	return &Scanner{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		set:    newDelimSet(opts.Delims),
		line:   1,
	}
}

// Scan tokenizes the whole template, handing each token to emit in source
// order. It returns nil on normal end-of-input and on consumer-requested
// stop, and a *ScanError on either of the two fatal conditions.
func (sc *Scanner) Scan(emit EmitFunc) error {
	var (
		inText   bool
		runStart uint32
		runLine  uint32
	)

	for !sc.cursor.EOF() {
		open, state := sc.matchTagOpen()
		if state == stateNone {
			if !inText {
				inText = true
				runStart = sc.cursor.Off
				runLine = sc.line
			}
			if sc.cursor.Bump() == '\n' {
				sc.line++
			}
			continue
		}

		// Flush the pending text run before entering the tag.
		if inText {
			if !sc.emitText(emit, runStart, runLine) {
				return nil
			}
			inText = false
		}

		cont, err := sc.scanTag(emit, state, open)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}

	// End-of-input in Text: flush the remaining run. The consumer's answer
	// no longer matters: there are no further bytes.
	if inText {
		sc.emitText(emit, runStart, runLine)
	}
	return nil
}

// matchTagOpen tests the open markers at the current position, most specific
// first: the triple-brace unescape form, then the redefinition form, then the
// plain tag open. Longest-match-first is what keeps overlapping markers
// deterministic: a custom open that is a proper prefix of its own
// redefinition marker must never shadow it.
func (sc *Scanner) matchTagOpen() ([]byte, tagState) {
	if sc.cursor.Match(sc.set.uopen) {
		return sc.set.uopen, stateUnescapedTag
	}
	if sc.cursor.Match(sc.set.setOpen) {
		return sc.set.setOpen, stateSetDelimitersTag
	}
	if sc.cursor.Match(sc.set.open) {
		return sc.set.open, stateTag
	}
	return nil, stateNone
}

// scanTag consumes one tag from its open marker through its close marker,
// classifies it, and emits the token. The bool result is the consumer's
// continue decision.
func (sc *Scanner) scanTag(emit EmitFunc, state tagState, open []byte) (bool, error) {
	tagStart := sc.cursor.Off
	tagLine := sc.line
	sc.advance(uint32(len(open)))

	var closeMarker []byte
	switch state {
	case stateUnescapedTag:
		closeMarker = sc.set.uclose
	case stateSetDelimitersTag:
		closeMarker = sc.set.setClose
	default:
		closeMarker = sc.set.close
	}

	interiorStart := sc.cursor.Off
	for !sc.cursor.EOF() {
		if !sc.cursor.Match(closeMarker) {
			if sc.cursor.Bump() == '\n' {
				sc.line++
			}
			continue
		}

		interiorEnd := sc.cursor.Off
		sc.advance(uint32(len(closeMarker)))
		tok, err := sc.buildTag(state, tagStart, tagLine, interiorStart, interiorEnd)
		if err != nil {
			return false, err
		}
		return emit(tok), nil
	}

	span := source.Span{File: sc.file.ID, Start: tagStart, End: sc.cursor.Off}
	return false, sc.fatal(diag.LexUnclosedTag, span, tagLine, "unclosed tag")
}

// buildTag classifies a completed tag. For a plain tag the single byte after
// the open marker (the sigil) selects the kind; anything unrecognized falls
// through to EscapedVariable. Content is the raw interior with no trimming.
func (sc *Scanner) buildTag(state tagState, tagStart, tagLine, interiorStart, interiorEnd uint32) (token.Token, error) {
	tok := token.Token{
		Line: tagLine,
		Span: source.Span{File: sc.file.ID, Start: tagStart, End: sc.cursor.Off},
		File: sc.file,
	}

	switch state {
	case stateUnescapedTag:
		tok.Kind = token.UnescapedVariable
		tok.Content = source.Span{File: sc.file.ID, Start: interiorStart, End: interiorEnd}
		tok.Delims = sc.set.pair
		return tok, nil

	case stateSetDelimitersTag:
		interior := string(sc.file.Content[interiorStart:interiorEnd])
		fields := strings.Fields(interior)
		if len(fields) != 2 {
			msg := fmt.Sprintf("delimiter change requires exactly two markers, got %d", len(fields))
			return token.Token{}, sc.fatal(diag.LexBadDelimiterTag, tok.Span, tagLine, msg)
		}
		tok.Kind = token.SetDelimiters
		// The new pair applies only to bytes after this tag's end offset.
		sc.set = newDelimSet(token.Delims{Open: fields[0], Close: fields[1]})
		return tok, nil
	}

	var sigil byte
	if interiorEnd > interiorStart {
		sigil = sc.file.Content[interiorStart]
	}
	afterSigil := source.Span{File: sc.file.ID, Start: interiorStart + 1, End: interiorEnd}
	if interiorEnd == interiorStart {
		afterSigil = source.Span{File: sc.file.ID, Start: interiorStart, End: interiorEnd}
	}

	switch sigil {
	case '!':
		tok.Kind = token.Comment
	case '#':
		tok.Kind = token.Section
		tok.Content = afterSigil
	case '^':
		tok.Kind = token.InvertedSection
		tok.Content = afterSigil
	case '$':
		tok.Kind = token.Block
		tok.Content = afterSigil
	case '/':
		tok.Kind = token.CloseSection
		tok.Content = afterSigil
	case '>':
		tok.Kind = token.Partial
		tok.Content = afterSigil
	case '<':
		tok.Kind = token.PartialOverride
		tok.Content = afterSigil
	case '%':
		tok.Kind = token.Pragma
		tok.Content = afterSigil
	case '&':
		tok.Kind = token.UnescapedVariable
		tok.Content = afterSigil
	default:
		// No sigil recognized: the whole interior, sigil byte included.
		tok.Kind = token.EscapedVariable
		tok.Content = source.Span{File: sc.file.ID, Start: interiorStart, End: interiorEnd}
	}

	if tok.Kind.CarriesDelims() {
		tok.Delims = sc.set.pair
	}
	return tok, nil
}

func (sc *Scanner) emitText(emit EmitFunc, runStart, runLine uint32) bool {
	return emit(token.Token{
		Kind: token.Text,
		Line: runLine,
		Span: source.Span{File: sc.file.ID, Start: runStart, End: sc.cursor.Off},
		File: sc.file,
	})
}

// advance consumes n bytes, keeping the line counter in step. Markers may
// themselves contain newlines once custom pairs are in play.
func (sc *Scanner) advance(n uint32) {
	for ; n > 0 && !sc.cursor.EOF(); n-- {
		if sc.cursor.Bump() == '\n' {
			sc.line++
		}
	}
}

func (sc *Scanner) fatal(code diag.Code, span source.Span, line uint32, msg string) error {
	sc.report(code, span, msg)
	return &ScanError{Msg: msg, Path: sc.file.Path, Line: line}
}
