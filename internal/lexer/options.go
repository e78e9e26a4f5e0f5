package lexer

import (
	"stache/internal/diag"
	"stache/internal/source"
	"stache/internal/token"
)

// Options configures one scan.
type Options struct {
	// Reporter may be nil; fatal conditions are then surfaced only through
	// the *ScanError returned by Scan.
	Reporter diag.Reporter

	// Delims is the initial delimiter pair. The zero value means the default
	// {{ }} pair. A caller scanning a partial may pass the includer's pair
	// per its own inheritance policy.
	Delims token.Delims
}

func (sc *Scanner) report(code diag.Code, sp source.Span, msg string) {
	if sc.opts.Reporter != nil {
		sc.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
