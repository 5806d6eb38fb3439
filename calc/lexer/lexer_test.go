package lexer

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/ardnew/exparse/calc/token"
)

func collect(t *testing.T, src string) ([]token.Token, error) {
	t.Helper()

	var toks []token.Token

	for tok, err := range New(src).All() {
		if err != nil {
			return toks, err
		}

		toks = append(toks, tok)
	}

	return toks, nil
}

func TestLexer_Kinds(t *testing.T) {
	toks, err := collect(t, "let x_1 = 42; (x_1 + y) * [2] ^ {3} / 4 - 5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		kind token.Kind
		text string
	}{
		{token.Identifier, "let"},
		{token.Identifier, "x_1"},
		{token.Assign, "="},
		{token.Number, "42"},
		{token.Terminator, ";"},
		{token.Delimiter, "("},
		{token.Identifier, "x_1"},
		{token.Operator, "+"},
		{token.Identifier, "y"},
		{token.Delimiter, ")"},
		{token.Operator, "*"},
		{token.Delimiter, "["},
		{token.Number, "2"},
		{token.Delimiter, "]"},
		{token.Operator, "^"},
		{token.Delimiter, "{"},
		{token.Number, "3"},
		{token.Delimiter, "}"},
		{token.Operator, "/"},
		{token.Number, "4"},
		{token.Operator, "-"},
		{token.Number, "5"},
		{token.EOF, ""},
	}

	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}

	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Errorf("token %d: expected %v %q, got %v %q",
				i, w.kind, w.text, toks[i].Kind, toks[i].Text)
		}
	}
}

func TestLexer_WhitespaceInsignificant(t *testing.T) {
	dense, err := collect(t, "(3+x_2)*2")
	if err != nil {
		t.Fatal(err)
	}

	sparse, err := collect(t, " \t( 3 +\n x_2 )\r\n*  2  ")
	if err != nil {
		t.Fatal(err)
	}

	if len(dense) != len(sparse) {
		t.Fatalf("token count differs: %d vs %d", len(dense), len(sparse))
	}

	for i := range dense {
		if dense[i].Kind != sparse[i].Kind || dense[i].Text != sparse[i].Text {
			t.Errorf("token %d differs: %v vs %v", i, dense[i], sparse[i])
		}
	}
}

func TestLexer_NumberValue(t *testing.T) {
	toks, err := collect(t, "0 007 9223372036854775807")
	if err != nil {
		t.Fatal(err)
	}

	want := []int64{0, 7, 9223372036854775807}
	for i, w := range want {
		if toks[i].Int != w {
			t.Errorf("token %d: expected %d, got %d", i, w, toks[i].Int)
		}
	}
}

func TestLexer_NumberOutOfRange(t *testing.T) {
	_, err := collect(t, "9223372036854775808")
	if !errors.Is(err, ErrNumberRange) {
		t.Fatalf("expected ErrNumberRange, got %v", err)
	}
}

func TestLexer_MaximalMunch(t *testing.T) {
	toks, err := collect(t, "12ab3_c")
	if err != nil {
		t.Fatal(err)
	}

	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %v", toks)
	}

	if toks[0].Text != "12" || toks[1].Text != "ab3_c" {
		t.Errorf("unexpected split: %v", toks)
	}
}

func TestLexer_UnknownPunctuationIsOperator(t *testing.T) {
	toks, err := collect(t, "1 % 2")
	if err != nil {
		t.Fatal(err)
	}

	if toks[1].Kind != token.Operator || toks[1].Text != "%" {
		t.Errorf("expected operator %%, got %v", toks[1])
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column int
	}{
		{"non-ascii letter", "1 + é", 1, 5},
		{"leading underscore", "_x", 1, 1},
		{"control character", "1\x00", 1, 2},
		{"second line", "1 +\n  π", 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collect(t, tt.input)

			var le *Error
			if !errors.As(err, &le) {
				t.Fatalf("expected *Error, got %v", err)
			}

			if !errors.Is(err, ErrUnsupportedRune) {
				t.Errorf("expected ErrUnsupportedRune, got %v", err)
			}

			if le.Pos.Line != tt.line || le.Pos.Column != tt.column {
				t.Errorf("expected position %d:%d, got %v",
					tt.line, tt.column, le.Pos)
			}
		})
	}
}

func TestLexer_EOFRepeats(t *testing.T) {
	l := New("  ")

	for range 3 {
		tok, err := l.Next()
		if err != nil || tok.Kind != token.EOF {
			t.Fatalf("expected EOF, got %v, %v", tok, err)
		}
	}
}

// FuzzLexer checks that the lexer terminates without panicking and that every
// token it produces has a position inside the input.
func FuzzLexer(f *testing.F) {
	f.Add("1 + 2")
	f.Add("let x = 1; x")
	f.Add("[{(x)}]")
	f.Add("2 ^ -3")
	f.Add("é")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		for tok, err := range New(input).All() {
			if err != nil {
				return
			}

			if tok.Pos.Offset < 0 || tok.Pos.Offset > len(input) {
				t.Fatalf("token %v has offset outside input", tok)
			}
		}
	})
}

// FuzzLexer_Slices checks that every token produced for valid UTF-8 input is a
// verbatim slice of the input at its reported offset, that offsets advance,
// and that scanning ends with EOF or a positioned *Error.
func FuzzLexer_Slices(f *testing.F) {
	f.Add("let x_1 = 42; (x_1 + y) * [2] ^ {3} / 4 - 5")
	f.Add("99999999999999999999")
	f.Add("_x % é")
	f.Add("\n\t 1\n+\n2")
	f.Add("")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		last := -1

		for tok, err := range New(input).All() {
			if err != nil {
				var lexErr *Error
				if !errors.As(err, &lexErr) {
					t.Fatalf("error %v is not *Error", err)
				}

				if lexErr.Pos.Offset < 0 || lexErr.Pos.Offset >= len(input) {
					t.Fatalf("error offset %d outside input of length %d",
						lexErr.Pos.Offset, len(input))
				}

				return
			}

			if tok.Kind == token.EOF {
				if tok.Pos.Offset > len(input) {
					t.Fatalf("EOF offset %d past end %d", tok.Pos.Offset, len(input))
				}

				return
			}

			if tok.Pos.Offset <= last {
				t.Fatalf("offset %d did not advance past %d", tok.Pos.Offset, last)
			}

			last = tok.Pos.Offset

			end := tok.Pos.Offset + len(tok.Text)
			if tok.Text == "" || end > len(input) || input[tok.Pos.Offset:end] != tok.Text {
				t.Fatalf("token %q does not match input at offset %d", tok.Text, tok.Pos.Offset)
			}
		}

		t.Fatal("iteration ended without EOF or error")
	})
}
