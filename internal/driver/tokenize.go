package driver

import (
	"stache/internal/diag"
	"stache/internal/lexer"
	"stache/internal/source"
	"stache/internal/token"
)

// TokenizeResult bundles everything a caller needs after scanning one template.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads one template from disk and scans it to completion with the
// given initial delimiter pair.
func Tokenize(path string, maxDiagnostics int, delims token.Delims) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return scanInto(fs, fileID, maxDiagnostics, delims)
}

// TokenizeBytes scans an in-memory template (stdin, tests). The name is used
// only for diagnostics.
func TokenizeBytes(name string, src []byte, maxDiagnostics int, delims token.Delims) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, src)
	return scanInto(fs, fileID, maxDiagnostics, delims)
}

func scanInto(fs *source.FileSet, fileID source.FileID, maxDiagnostics int, delims token.Delims) (*TokenizeResult, error) {
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)

	adapter := &lexer.ReporterAdapter{Bag: bag}
	sc := lexer.New(file, lexer.Options{
		Reporter: adapter.Reporter(),
		Delims:   delims,
	})

	var tokens []token.Token
	scanErr := sc.Scan(func(tok token.Token) bool {
		tokens = append(tokens, tok)
		return true
	})

	res := &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}
	// A *ScanError is already mirrored into the bag; callers inspect both.
	if scanErr != nil {
		return res, scanErr
	}
	return res, nil
}
