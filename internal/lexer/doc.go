// Package lexer tokenizes mustache template source in a single forward pass.
//
// The scanner classifies tags by the sigil byte after the open marker,
// supports runtime delimiter redefinition via {{=<open> <close>=}}, and
// pushes tokens to a consumer callback that may stop the scan at any point.
// Open markers are tested most-specific-first at every byte position, so
// marker shapes that share a prefix (including pathological custom pairs)
// resolve deterministically without backtracking.
//
// Exactly two conditions are fatal: a malformed delimiter redefinition and a
// tag left open at end-of-input. Both surface as a *ScanError carrying the
// template identifier and the 1-based start line of the offending tag, and
// are mirrored to the Options.Reporter when one is set.
package lexer
