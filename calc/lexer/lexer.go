// Package lexer converts expression source text into a sequence of tokens.
package lexer

import (
	"errors"
	"iter"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/exparse/calc/token"
)

// Sentinel causes wrapped by [Error].
var (
	ErrUnsupportedRune = errors.New("unsupported character")
	ErrNumberRange     = errors.New("integer literal out of range")
)

// Error reports a character that cannot begin any valid token.
type Error struct {
	Pos  token.Position
	Text string
	Err  error
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Err.Error() + " " + strconv.Quote(e.Text)
}

func (e *Error) Unwrap() error { return e.Err }

// Lexer scans tokens from a source string. It is not restartable: every call
// to [Lexer.Next] consumes input.
type Lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

// New returns a lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{
		input: []byte(src),
		line:  1,
		col:   1,
	}
}

// All returns an iterator over the remaining tokens. Iteration ends after the
// EOF token or after the first error.
func (l *Lexer) All() iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		for {
			tok, err := l.Next()
			if !yield(tok, err) || err != nil || tok.Kind == token.EOF {
				return
			}
		}
	}
}

// Next scans the next token. Once the end of input is reached it keeps
// returning EOF tokens.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()

	pos := l.position()

	if l.eof() {
		return token.Token{Kind: token.EOF, Pos: pos}, nil
	}

	r := l.peek()

	switch {
	case isDigit(r):
		return l.scanNumber(pos)

	case isLetter(r):
		return l.scanIdentifier(pos), nil

	case r == '=':
		l.advance()

		return token.Token{Kind: token.Assign, Text: "=", Pos: pos}, nil

	case r == ';':
		l.advance()

		return token.Token{Kind: token.Terminator, Text: ";", Pos: pos}, nil
	}

	sym := string(r)

	if f, p, ok := token.Classify(sym); ok {
		l.advance()

		return token.Token{
			Kind:     token.Delimiter,
			Text:     sym,
			Pos:      pos,
			Family:   f,
			Polarity: p,
		}, nil
	}

	if r < utf8.RuneSelf && r != '_' && (unicode.IsPunct(r) || unicode.IsSymbol(r)) {
		l.advance()

		return token.Token{Kind: token.Operator, Text: sym, Pos: pos}, nil
	}

	return token.Token{}, &Error{Pos: pos, Text: sym, Err: ErrUnsupportedRune}
}

func (l *Lexer) scanNumber(pos token.Position) (token.Token, error) {
	start := l.pos

	for !l.eof() && isDigit(l.peek()) {
		l.advance()
	}

	text := string(l.input[start:l.pos])

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return token.Token{}, &Error{Pos: pos, Text: text, Err: ErrNumberRange}
	}

	return token.Token{Kind: token.Number, Text: text, Pos: pos, Int: n}, nil
}

func (l *Lexer) scanIdentifier(pos token.Position) token.Token {
	start := l.pos

	l.advance()

	for !l.eof() {
		r := l.peek()
		if !isLetter(r) && !isDigit(r) && r != '_' {
			break
		}

		l.advance()
	}

	return token.Token{
		Kind: token.Identifier,
		Text: string(l.input[start:l.pos]),
		Pos:  pos,
	}
}

func (l *Lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])

	return r
}

func (l *Lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.eof() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) position() token.Position {
	return token.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}
