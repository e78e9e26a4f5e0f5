package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"stache/internal/source"
	"stache/internal/token"
)

// TokenOutput is the serialized shape of one token for dump formats.
type TokenOutput struct {
	Kind    string      `json:"kind" msgpack:"kind"`
	Text    string      `json:"text,omitempty" msgpack:"text,omitempty"`
	Content string      `json:"content,omitempty" msgpack:"content,omitempty"`
	Line    uint32      `json:"line" msgpack:"line"`
	Span    source.Span `json:"span" msgpack:"span"`
	Open    string      `json:"open,omitempty" msgpack:"open,omitempty"`
	Close   string      `json:"close,omitempty" msgpack:"close,omitempty"`
}

func tokenOutputs(tokens []token.Token) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text(),
			Content: tok.ContentText(),
			Line:    tok.Line,
			Span:    tok.Span,
			Open:    tok.Delims.Open,
			Close:   tok.Delims.Close,
		})
	}
	return out
}

// FormatTokensPretty writes tokens in a human-readable table.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		fmt.Fprintf(w, "%3d: %-17s", i+1, tok.Kind.String())

		if content := tok.ContentText(); content != "" {
			fmt.Fprintf(w, " %q", content)
		} else if tok.Kind == token.Text {
			fmt.Fprintf(w, " %q", tok.Text())
		}

		fmt.Fprintf(w, " at %d:%d-%d:%d",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)

		if tok.Kind.CarriesDelims() && !tok.Delims.IsDefault() {
			fmt.Fprintf(w, " (delims: %s)", tok.Delims)
		}

		fmt.Fprintln(w)
	}
	return nil
}

// FormatTokensJSON writes tokens as indented JSON.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(tokenOutputs(tokens))
}

// FormatTokensMsgpack writes tokens as a msgpack array, for tools that
// post-process dumps without paying the JSON tax.
func FormatTokensMsgpack(w io.Writer, tokens []token.Token) error {
	encoder := msgpack.NewEncoder(w)
	return encoder.Encode(tokenOutputs(tokens))
}
