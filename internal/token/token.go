package token

import (
	"unicode/utf8"

	"stache/internal/source"
)

// Token is one lexical unit of a template. It stores byte offsets only;
// the display text is derived on demand from the owning file's content.
type Token struct {
	Kind    Kind
	Line    uint32      // 1-based start line
	Span    source.Span // full range including markers
	Content source.Span // payload range; empty for Text, Comment, SetDelimiters
	Delims  Delims      // pair active at scan time; set for kinds with CarriesDelims
	File    *source.File
}

// Text returns the exact source substring covered by the token, markers
// included. Concatenating Text of every emitted token in order reproduces
// the template.
func (t Token) Text() string {
	return t.slice(t.Span)
}

// ContentText returns the token's payload: the raw tag interior after sigil
// handling, with no whitespace trimming. Empty for kinds without a payload.
func (t Token) ContentText() string {
	if t.Content.Empty() {
		return ""
	}
	return t.slice(t.Content)
}

// StartPos resolves the token's start offset to a line/column pair.
func (t Token) StartPos() source.LineCol {
	if t.File == nil {
		return source.LineCol{Line: t.Line, Col: 1}
	}
	return t.File.LineColAt(t.Span.Start)
}

// EndPos resolves the offset one past the token to a line/column pair.
func (t Token) EndPos() source.LineCol {
	if t.File == nil {
		return source.LineCol{Line: t.Line, Col: 1}
	}
	return t.File.LineColAt(t.Span.End)
}

func (t Token) slice(sp source.Span) string {
	if t.File == nil {
		return ""
	}
	start, end := boundsFor(t.File, sp)
	if start >= end {
		return ""
	}
	return string(t.File.Content[start:end])
}

// boundsFor clamps a span to the file and to UTF-8 rune boundaries. The
// scanner only advances past whole marker sequences, so the rune clamp is a
// safety net rather than an invariant to rely on.
func boundsFor(f *source.File, sp source.Span) (start, end int) {
	start = int(sp.Start)
	end = int(sp.End)
	if n := len(f.Content); end > n {
		end = n
	}
	if start > end {
		start = end
	}
	start = clampRuneStart(f.Content, start)
	end = clampRuneStart(f.Content, end)
	return start, end
}

// clampRuneStart walks off backwards to the nearest UTF-8 rune start.
func clampRuneStart(b []byte, off int) int {
	for off > 0 && off < len(b) && !utf8.RuneStart(b[off]) {
		off--
	}
	return off
}
