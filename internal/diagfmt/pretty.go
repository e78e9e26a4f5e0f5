package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"stache/internal/diag"
	"stache/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	posColor  = color.New(color.Bold)
)

// Pretty renders diagnostics in a human-readable form. It walks bag.Items()
// (call bag.Sort() beforehand for deterministic order) and prints
//
//	<path>:<line>:<col>: <SEV> [<CODE>]: <message>
//
// followed by the offending source line with a ^~~~ underline and optional
// context lines, then Notes in the same shape.
//
// Diagnostics whose primary span carries source.NoFileID (I/O failures raised
// before any content existed) render the heading alone, without a position or
// a source preview.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		if d.Primary.File == source.NoFileID {
			printBareHeading(w, d.Severity, d.Code, d.Message, opts)
			continue
		}
		printHeading(w, fs, d.Severity, d.Code, d.Primary, d.Message, opts)
		printPreview(w, fs, d.Primary, opts)
		if opts.ShowNotes {
			for _, n := range d.Notes {
				if n.Span.File == source.NoFileID {
					printBareHeading(w, diag.SevInfo, diag.LexInfo, n.Msg, opts)
					continue
				}
				printHeading(w, fs, diag.SevInfo, diag.LexInfo, n.Span, n.Msg, opts)
				printPreview(w, fs, n.Span, opts)
			}
		}
	}
}

func printBareHeading(w io.Writer, sev diag.Severity, code diag.Code, msg string, opts PrettyOpts) {
	sevLabel := fmt.Sprintf("%s [%s]:", sev, code.ID())
	if opts.Color {
		sevLabel = severityColor(sev).Sprint(sevLabel)
	}
	fmt.Fprintf(w, "%s %s\n", sevLabel, msg)
}

func printHeading(w io.Writer, fs *source.FileSet, sev diag.Severity, code diag.Code, sp source.Span, msg string, opts PrettyOpts) {
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	pos := fmt.Sprintf("%s:%d:%d:", f.FormatPath(opts.PathMode.String(), fs.BaseDir()), start.Line, start.Col)
	sevLabel := fmt.Sprintf("%s [%s]:", sev, code.ID())
	if opts.Color {
		pos = posColor.Sprint(pos)
		sevLabel = severityColor(sev).Sprint(sevLabel)
	}
	fmt.Fprintf(w, "%s %s %s\n", pos, sevLabel, msg)
}

func printPreview(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)

	ctx := int(opts.Context)
	firstLine := int(start.Line) - ctx
	if firstLine < 1 {
		firstLine = 1
	}
	for ln := firstLine; ln < int(start.Line); ln++ {
		fmt.Fprintf(w, "%5d | %s\n", ln, f.GetLine(uint32(ln)))
	}

	lineText := f.GetLine(start.Line)
	fmt.Fprintf(w, "%5d | %s\n", start.Line, lineText)

	// Underline the span's slice of the primary line. Spans reaching past
	// the line end underline to the end of the line.
	colStart := int(start.Col)
	colEnd := int(end.Col)
	if end.Line != start.Line || colEnd <= colStart {
		colEnd = len(lineText) + 1
	}
	if colStart > len(lineText)+1 {
		colStart = len(lineText) + 1
	}
	pad := runewidth.StringWidth(expandPrefix(lineText, colStart-1))
	width := runewidth.StringWidth(slice1Based(lineText, colStart, colEnd))
	if width < 1 {
		width = 1
	}
	underline := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		underline = errColor.Sprint(underline)
	}
	fmt.Fprintf(w, "      | %s%s\n", strings.Repeat(" ", pad), underline)
}

// expandPrefix returns the first n bytes of line, clamped.
func expandPrefix(line string, n int) string {
	if n < 0 {
		return ""
	}
	if n > len(line) {
		n = len(line)
	}
	return line[:n]
}

// slice1Based cuts [colStart, colEnd) in 1-based byte columns, clamped.
func slice1Based(line string, colStart, colEnd int) string {
	lo := colStart - 1
	hi := colEnd - 1
	if lo < 0 {
		lo = 0
	}
	if hi > len(line) {
		hi = len(line)
	}
	if lo >= hi {
		return ""
	}
	return line[lo:hi]
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	default:
		return infoColor
	}
}
