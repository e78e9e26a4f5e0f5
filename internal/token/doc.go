// Package token defines the lexical token model for mustache templates.
// Invariants:
//   - Token stores byte offsets only; Text and ContentText are derived from
//     the owning source.File on demand, never copied eagerly.
//   - Token.Span covers the whole lexical unit including markers; spans of a
//     scan are non-overlapping, strictly ordered, and cover the template.
//   - EscapedVariable, UnescapedVariable, Section and InvertedSection carry
//     the delimiter pair that was active when they were scanned, so the
//     tree-builder can re-derive matching close markers.
//   - SetDelimiters has no payload; observers infer the new pair from the
//     Delims of subsequently scanned tokens.
package token
