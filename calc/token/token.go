// Package token defines the lexical tokens of arithmetic expressions and the
// classification of grouping delimiters.
package token

//go:generate go tool stringer --linecomment --type Kind,Family,Polarity --output token_string.go

import (
	"strconv"
)

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	// EOF marks the end of input. It is always the last token produced.
	EOF Kind = iota

	// Number is a decimal integer literal.
	Number

	// Identifier is a variable name or the keyword "let".
	Identifier

	// Operator is a single punctuation rune that is not a delimiter,
	// assignment or terminator. Whether the symbol is a supported operator is
	// decided by the parser.
	Operator

	// Delimiter is one of ( ) { } [ ].
	Delimiter

	// Assign is the "=" of a let binding.
	Assign

	// Terminator is the ";" ending the bound expression of a let binding.
	Terminator
)

// Keyword introducing a let binding.
const Let = "let"

// Position locates a token in the source text.
// Line and Column are 1-based; Offset is a 0-based byte offset.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a single lexical element.
type Token struct {
	Kind Kind
	Text string
	Pos  Position

	// Int holds the value of a Number token.
	Int int64

	// Family and Polarity are only meaningful for Delimiter tokens.
	Family   Family
	Polarity Polarity
}

// IsKeyword reports whether t is the identifier "let".
func (t Token) IsKeyword() bool {
	return t.Kind == Identifier && t.Text == Let
}

// String returns a compact description of the token for diagnostics.
func (t Token) String() string {
	if t.Kind == EOF {
		return "end of input"
	}

	return t.Kind.String() + " " + strconv.Quote(t.Text)
}
