package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"stache/internal/diag"
	"stache/internal/lexer"
	"stache/internal/source"
	"stache/internal/token"
)

// makeTestScanner creates a scanner over a virtual template.
func makeTestScanner(input string) (*lexer.Scanner, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.mustache", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(16)
	adapter := &lexer.ReporterAdapter{Bag: bag}
	sc := lexer.New(file, lexer.Options{Reporter: adapter.Reporter()})

	return sc, bag
}

func makeTestScannerWithDelims(input string, delims token.Delims) *lexer.Scanner {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.mustache", []byte(input))
	return lexer.New(fs.Get(fileID), lexer.Options{Delims: delims})
}

// collectAllTokens scans to the end, failing the test on a scan error.
func collectAllTokens(t *testing.T, sc *lexer.Scanner) []token.Token {
	t.Helper()
	tokens := make([]token.Token, 0)
	err := sc.Scan(func(tok token.Token) bool {
		tokens = append(tokens, tok)
		return true
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	return tokens
}

type want struct {
	kind    token.Kind
	content string
	line    uint32
}

// expectTokens checks the full token sequence of one input.
func expectTokens(t *testing.T, input string, expected []want) {
	t.Helper()
	sc, _ := makeTestScanner(input)
	tokens := collectAllTokens(t, sc)

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %s",
			len(expected), len(tokens), input, tokensToString(tokens))
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i].kind {
			t.Errorf("Token %d: expected kind %v, got %v (text: %q)",
				i, expected[i].kind, tok.Kind, tok.Text())
		}
		got := tok.ContentText()
		if tok.Kind == token.Text {
			got = tok.Text()
		}
		if got != expected[i].content {
			t.Errorf("Token %d: expected content %q, got %q", i, expected[i].content, got)
		}
		if expected[i].line != 0 && tok.Line != expected[i].line {
			t.Errorf("Token %d: expected line %d, got %d", i, expected[i].line, tok.Line)
		}
	}
}

// expectScanError runs a scan expected to fail and returns the error.
func expectScanError(t *testing.T, input string) *lexer.ScanError {
	t.Helper()
	sc, bag := makeTestScanner(input)
	err := sc.Scan(func(token.Token) bool { return true })
	if err == nil {
		t.Fatalf("Expected scan error for %q, got none", input)
	}
	se, ok := err.(*lexer.ScanError)
	if !ok {
		t.Fatalf("Expected *lexer.ScanError, got %T", err)
	}
	if !bag.HasErrors() {
		t.Errorf("Expected the error to be mirrored into the bag")
	}
	return se
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ====== Basic sequences ======

func TestHelloName(t *testing.T) {
	expectTokens(t, "Hello {{name}}!", []want{
		{token.Text, "Hello ", 1},
		{token.EscapedVariable, "name", 1},
		{token.Text, "!", 1},
	})
}

func TestTextOnly(t *testing.T) {
	expectTokens(t, "just text", []want{
		{token.Text, "just text", 1},
	})
}

func TestEmptyInput(t *testing.T) {
	sc, _ := makeTestScanner("")
	tokens := collectAllTokens(t, sc)
	if len(tokens) != 0 {
		t.Errorf("Expected no tokens for empty input, got %s", tokensToString(tokens))
	}
}

func TestAdjacentTagsEmitNoEmptyText(t *testing.T) {
	expectTokens(t, "{{a}}{{b}}", []want{
		{token.EscapedVariable, "a", 1},
		{token.EscapedVariable, "b", 1},
	})
}

func TestTagAtStartAndEnd(t *testing.T) {
	expectTokens(t, "{{a}}mid{{b}}", []want{
		{token.EscapedVariable, "a", 1},
		{token.Text, "mid", 1},
		{token.EscapedVariable, "b", 1},
	})
}

// ====== Sigil dispatch ======

func TestSigilDispatch(t *testing.T) {
	tests := []struct {
		input   string
		kind    token.Kind
		content string
	}{
		{"{{!note}}", token.Comment, ""},
		{"{{#items}}", token.Section, "items"},
		{"{{^missing}}", token.InvertedSection, "missing"},
		{"{{$slot}}", token.Block, "slot"},
		{"{{/items}}", token.CloseSection, "items"},
		{"{{>header}}", token.Partial, "header"},
		{"{{<layout}}", token.PartialOverride, "layout"},
		{"{{%FILTERS}}", token.Pragma, "FILTERS"},
		{"{{&raw}}", token.UnescapedVariable, "raw"},
		{"{{plain}}", token.EscapedVariable, "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectTokens(t, tt.input, []want{{tt.kind, tt.content, 1}})
		})
	}
}

func TestUnusualSigilFallsThroughToEscaped(t *testing.T) {
	// '?' is no sigil: the interior, first byte included, is the content.
	expectTokens(t, "{{?odd}}", []want{
		{token.EscapedVariable, "?odd", 1},
	})
}

func TestEmptyTagIsEscapedVariable(t *testing.T) {
	expectTokens(t, "{{}}", []want{
		{token.EscapedVariable, "", 1},
	})
}

func TestNoWhitespaceTrimming(t *testing.T) {
	expectTokens(t, "{{ name }}", []want{
		{token.EscapedVariable, " name ", 1},
	})
	expectTokens(t, "{{& raw }}", []want{
		{token.UnescapedVariable, " raw ", 1},
	})
}

func TestCommentBodyDiscarded(t *testing.T) {
	sc, _ := makeTestScanner("{{! anything at all }}")
	tokens := collectAllTokens(t, sc)
	if len(tokens) != 1 || tokens[0].Kind != token.Comment {
		t.Fatalf("Expected one Comment, got %s", tokensToString(tokens))
	}
	if tokens[0].ContentText() != "" {
		t.Errorf("Comment must store no content, got %q", tokens[0].ContentText())
	}
	if tokens[0].Text() != "{{! anything at all }}" {
		t.Errorf("Comment text must still cover the whole tag, got %q", tokens[0].Text())
	}
}

// ====== Triple mustache ======

func TestTripleMustache(t *testing.T) {
	expectTokens(t, "{{{raw}}}", []want{
		{token.UnescapedVariable, "raw", 1},
	})
}

func TestTripleMustacheInteriorKept(t *testing.T) {
	// The full interior is the content; there is no sigil to strip.
	expectTokens(t, "{{{ &x }}}", []want{
		{token.UnescapedVariable, " &x ", 1},
	})
}

func TestTripleMustacheOnlyWithDefaultPair(t *testing.T) {
	// After a redefinition the triple form is no longer special.
	sc, _ := makeTestScanner("{{=<% %>=}}{{{x}}}")
	tokens := collectAllTokens(t, sc)
	if len(tokens) != 2 {
		t.Fatalf("Expected 2 tokens, got %s", tokensToString(tokens))
	}
	if tokens[0].Kind != token.SetDelimiters {
		t.Fatalf("Expected SetDelimiters first, got %v", tokens[0].Kind)
	}
	// "{{{x}}}" is plain text under the <% %> pair.
	if tokens[1].Kind != token.Text || tokens[1].Text() != "{{{x}}}" {
		t.Errorf("Expected Text %q, got %v(%q)", "{{{x}}}", tokens[1].Kind, tokens[1].Text())
	}
}

// ====== Delimiter redefinition ======

func TestSetDelimiters(t *testing.T) {
	sc, _ := makeTestScanner("{{=<% %>=}}<% x %>")
	tokens := collectAllTokens(t, sc)
	if len(tokens) != 2 {
		t.Fatalf("Expected 2 tokens, got %s", tokensToString(tokens))
	}
	if tokens[0].Kind != token.SetDelimiters {
		t.Errorf("Expected SetDelimiters, got %v", tokens[0].Kind)
	}
	if tokens[0].Text() != "{{=<% %>=}}" {
		t.Errorf("SetDelimiters text %q", tokens[0].Text())
	}
	if tokens[1].Kind != token.EscapedVariable || tokens[1].ContentText() != " x " {
		t.Errorf("Expected EscapedVariable(%q), got %v(%q)", " x ", tokens[1].Kind, tokens[1].ContentText())
	}
	wantDelims := token.Delims{Open: "<%", Close: "%>"}
	if tokens[1].Delims != wantDelims {
		t.Errorf("Expected carried delims %v, got %v", wantDelims, tokens[1].Delims)
	}
}

func TestSetDelimitersNotRetroactive(t *testing.T) {
	// Bytes before the redefinition tag still use the old pair.
	sc, _ := makeTestScanner("{{before}}{{=[ ]=}}[after]")
	tokens := collectAllTokens(t, sc)
	if len(tokens) != 3 {
		t.Fatalf("Expected 3 tokens, got %s", tokensToString(tokens))
	}
	if tokens[0].Kind != token.EscapedVariable || tokens[0].Delims != token.Default() {
		t.Errorf("Token before the change must carry the default pair, got %v", tokens[0].Delims)
	}
	if tokens[2].Kind != token.EscapedVariable || tokens[2].ContentText() != "after" {
		t.Errorf("Expected EscapedVariable(%q), got %v(%q)", "after", tokens[2].Kind, tokens[2].ContentText())
	}
}

func TestSetDelimitersOldCloseBecomesText(t *testing.T) {
	sc, _ := makeTestScanner("{{=<% %>=}}}}")
	tokens := collectAllTokens(t, sc)
	if len(tokens) != 2 {
		t.Fatalf("Expected 2 tokens, got %s", tokensToString(tokens))
	}
	if tokens[1].Kind != token.Text || tokens[1].Text() != "}}" {
		t.Errorf("Old close marker must scan as text, got %v(%q)", tokens[1].Kind, tokens[1].Text())
	}
}

func TestSetDelimitersTwice(t *testing.T) {
	sc, _ := makeTestScanner("{{=[ ]=}}[=<< >>=][a]<<b>>")
	tokens := collectAllTokens(t, sc)
	// SetDelimiters, SetDelimiters, Text("[a]"), EscapedVariable("b")
	if len(tokens) != 4 {
		t.Fatalf("Expected 4 tokens, got %s", tokensToString(tokens))
	}
	if tokens[1].Kind != token.SetDelimiters {
		t.Errorf("Expected second SetDelimiters, got %v", tokens[1].Kind)
	}
	if tokens[2].Kind != token.Text || tokens[2].Text() != "[a]" {
		t.Errorf("Expected Text(%q), got %v(%q)", "[a]", tokens[2].Kind, tokens[2].Text())
	}
	if tokens[3].Kind != token.EscapedVariable || tokens[3].ContentText() != "b" {
		t.Errorf("Expected EscapedVariable(%q), got %v(%q)", "b", tokens[3].Kind, tokens[3].ContentText())
	}
}

func TestSetDelimitersExtraWhitespace(t *testing.T) {
	// Splitting discards empty fragments; two markers remain.
	sc, _ := makeTestScanner("{{=  <%   %>  =}}<%x%>")
	tokens := collectAllTokens(t, sc)
	if len(tokens) != 2 || tokens[1].ContentText() != "x" {
		t.Fatalf("Expected SetDelimiters then EscapedVariable(x), got %s", tokensToString(tokens))
	}
}

func TestSetDelimitersWrongFragmentCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"three fragments", "{{=1 2 3=}}"},
		{"one fragment", "{{=only=}}"},
		{"empty interior", "{{==}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := expectScanError(t, tt.input)
			if se.Line != 1 {
				t.Errorf("Expected error at line 1, got %d", se.Line)
			}
		})
	}
}

func TestSetDelimitersErrorEmitsNoToken(t *testing.T) {
	count := 0
	sc, _ := makeTestScanner("{{=1 2 3=}}")
	err := sc.Scan(func(token.Token) bool {
		count++
		return true
	})
	if err == nil {
		t.Fatal("Expected scan error")
	}
	if count != 0 {
		t.Errorf("Expected no tokens before the failure, got %d", count)
	}
}

// ====== Custom initial delimiters ======

func TestCustomInitialDelims(t *testing.T) {
	sc := makeTestScannerWithDelims("a<%b%>c", token.Delims{Open: "<%", Close: "%>"})
	var tokens []token.Token
	if err := sc.Scan(func(tok token.Token) bool {
		tokens = append(tokens, tok)
		return true
	}); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(tokens) != 3 {
		t.Fatalf("Expected 3 tokens, got %s", tokensToString(tokens))
	}
	if tokens[1].Kind != token.EscapedVariable || tokens[1].ContentText() != "b" {
		t.Errorf("Expected EscapedVariable(b), got %v(%q)", tokens[1].Kind, tokens[1].ContentText())
	}
	if tokens[1].Delims != (token.Delims{Open: "<%", Close: "%>"}) {
		t.Errorf("Carried delims %v", tokens[1].Delims)
	}
}

func TestDefaultBracesAreTextUnderCustomDelims(t *testing.T) {
	sc := makeTestScannerWithDelims("{{x}}", token.Delims{Open: "<%", Close: "%>"})
	var tokens []token.Token
	if err := sc.Scan(func(tok token.Token) bool {
		tokens = append(tokens, tok)
		return true
	}); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Kind != token.Text || tokens[0].Text() != "{{x}}" {
		t.Fatalf("Expected Text({{x}}), got %s", tokensToString(tokens))
	}
}

// ====== Longest-match tie-break ======

func TestRedefinitionOpenWinsOverPlainOpen(t *testing.T) {
	// "{{=" must be tested before "{{" at the same position; otherwise the
	// redefinition tag would scan as EscapedVariable("=<% %>=").
	expectTokens(t, "{{=<% %>=}}", []want{
		{token.SetDelimiters, "", 1},
	})
}

func TestUnescapedOpenWinsOverRedefinitionAndPlain(t *testing.T) {
	expectTokens(t, "{{{x}}}", []want{
		{token.UnescapedVariable, "x", 1},
	})
}

func TestCustomOpenPrefixOfItsRedefinitionMarker(t *testing.T) {
	// Pair ("<","|"): the redefinition open "<=" shares the prefix "<".
	// Longest-match-first must pick the redefinition tag.
	sc := makeTestScannerWithDelims("<={{ }}=|{{x}}", token.Delims{Open: "<", Close: "|"})
	var tokens []token.Token
	if err := sc.Scan(func(tok token.Token) bool {
		tokens = append(tokens, tok)
		return true
	}); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("Expected 2 tokens, got %s", tokensToString(tokens))
	}
	if tokens[0].Kind != token.SetDelimiters {
		t.Fatalf("Expected SetDelimiters, got %v(%q)", tokens[0].Kind, tokens[0].Text())
	}
	if tokens[1].Kind != token.EscapedVariable || tokens[1].ContentText() != "x" {
		t.Errorf("Expected EscapedVariable(x), got %v(%q)", tokens[1].Kind, tokens[1].ContentText())
	}
}

// ====== Line counting ======

func TestLineCounting(t *testing.T) {
	expectTokens(t, "{{#a}}\n{{/a}}", []want{
		{token.Section, "a", 1},
		{token.Text, "\n", 1},
		{token.CloseSection, "a", 2},
	})
}

func TestLineCountingMultiline(t *testing.T) {
	expectTokens(t, "one\ntwo\n{{x}}\n{{y}}", []want{
		{token.Text, "one\ntwo\n", 1},
		{token.EscapedVariable, "x", 3},
		{token.Text, "\n", 3},
		{token.EscapedVariable, "y", 4},
	})
}

func TestNewlineInsideTagInterior(t *testing.T) {
	// The tag starts on line 1; whatever follows starts on line 2.
	expectTokens(t, "{{! first\nsecond }}{{x}}", []want{
		{token.Comment, "", 1},
		{token.EscapedVariable, "x", 2},
	})
}

func TestUnclosedTagLineIsTagStart(t *testing.T) {
	se := expectScanError(t, "text\n\n{{ name")
	if se.Line != 3 {
		t.Errorf("Expected error at line 3, got %d", se.Line)
	}
}

// ====== Unclosed tags ======

func TestUnclosedTag(t *testing.T) {
	se := expectScanError(t, "{{ name")
	if se.Line != 1 {
		t.Errorf("Expected error at line 1, got %d", se.Line)
	}
	if se.Path != "test.mustache" {
		t.Errorf("Expected template identifier in error, got %q", se.Path)
	}
}

func TestUnclosedTagEmitsNoDanglingToken(t *testing.T) {
	sc, _ := makeTestScanner("ok {{ name")
	var tokens []token.Token
	err := sc.Scan(func(tok token.Token) bool {
		tokens = append(tokens, tok)
		return true
	})
	if err == nil {
		t.Fatal("Expected scan error")
	}
	// The preceding text still flushes; nothing is emitted for the tag.
	if len(tokens) != 1 || tokens[0].Kind != token.Text || tokens[0].Text() != "ok " {
		t.Errorf("Expected only Text(%q), got %s", "ok ", tokensToString(tokens))
	}
}

func TestUnclosedTripleMustache(t *testing.T) {
	// A double close brace alone does not close the triple form.
	expectScanError(t, "{{{x}}")
}

func TestUnclosedSetDelimitersTag(t *testing.T) {
	expectScanError(t, "{{=<% %>")
}

// ====== Consumer contract ======

func TestEarlyStopAfterFirstToken(t *testing.T) {
	count := 0
	sc, bag := makeTestScanner("a{{b}}c{{d}}")
	err := sc.Scan(func(token.Token) bool {
		count++
		return false
	})
	if err != nil {
		t.Fatalf("Early stop must not be an error, got %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly one token, got %d", count)
	}
	if bag.Len() != 0 {
		t.Errorf("Early stop must not report diagnostics, got %d", bag.Len())
	}
}

func TestStopBeforeUnclosedTagSkipsError(t *testing.T) {
	// The consumer stops on the text run; the dangling tag is never reached.
	sc, _ := makeTestScanner("a{{b")
	err := sc.Scan(func(token.Token) bool { return false })
	if err != nil {
		t.Fatalf("Expected nil error on early stop, got %v", err)
	}
}

// ====== Global laws ======

func TestCoverageLaw(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"Hello {{name}}!",
		"{{a}}{{b}}",
		"{{#s}}\ninner {{x}}\n{{/s}} tail",
		"{{=<% %>=}}<% x %> and {{ braces }}",
		"{{{raw}}} {{&amp}} {{!c}}",
		"{{=[ ]=}}[=<< >>=]<<deep>>",
		"multi\nline\n{{! note\nspanning }}\nend",
	}
	for _, input := range inputs {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			sc, _ := makeTestScanner(input)
			tokens := collectAllTokens(t, sc)

			var b strings.Builder
			var prevEnd uint32
			for i, tok := range tokens {
				if tok.Span.Start < prevEnd {
					t.Fatalf("Token %d overlaps previous (start %d < end %d)", i, tok.Span.Start, prevEnd)
				}
				if tok.Span.Start != prevEnd {
					t.Fatalf("Token %d leaves a gap (%d..%d)", i, prevEnd, tok.Span.Start)
				}
				prevEnd = tok.Span.End
				b.WriteString(tok.Text())
			}
			if b.String() != input {
				t.Errorf("Concatenated tokens %q != input %q", b.String(), input)
			}
			if prevEnd != uint32(len(input)) {
				t.Errorf("Tokens cover %d bytes of %d", prevEnd, len(input))
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	input := "{{#a}}x{{=<% %>=}}<%y%>{{/a}}\n<%/a%>"
	scan := func() []token.Token {
		sc, _ := makeTestScanner(input)
		return collectAllTokens(t, sc)
	}
	first := scan()
	second := scan()
	if len(first) != len(second) {
		t.Fatalf("Run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Kind != second[i].Kind ||
			first[i].Span != second[i].Span ||
			first[i].Line != second[i].Line ||
			first[i].Delims != second[i].Delims {
			t.Errorf("Token %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestScannerKeepsNoStateBetweenFiles(t *testing.T) {
	// A redefinition in one template must not leak into the next scan.
	sc1, _ := makeTestScanner("{{=<% %>=}}<%x%>")
	collectAllTokens(t, sc1)

	expectTokens(t, "{{x}}", []want{
		{token.EscapedVariable, "x", 1},
	})
}
