package calc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/exparse/calc/lexer"
	"github.com/ardnew/exparse/calc/token"
)

// Parse parses src into an expression tree. The lexical grammar is described
// in package [lexer]; the expression grammar is
//
//	Expr    → Let | Sum
//	Let     → 'let' Identifier '=' Expr ';' Expr
//	Sum     → Product (('+' | '-') Product)*
//	Product → Unary (('*' | '/') Unary)*
//	Unary   → '-' Unary | Power
//	Power   → Primary ('^' Unary)?
//	Primary → Number | Identifier | Open Expr Close
//
// where Open and Close are delimiters of the same family.
// A let body extends to the end of the enclosing group or input.
func Parse(ctx context.Context, src string, opts ...Option) (*Tree, error) {
	o := makeOptions(opts...)

	o.logger.TraceContext(
		ctx,
		"parse start",
		slog.Int("source_length", len(src)),
		slog.Int("max_depth", o.maxDepth),
	)

	root, err := parse(ctx, src, o)
	if err != nil {
		pe := &ParseError{}
		if errors.As(err, &pe) {
			pe.Source = src
		}

		return nil, err
	}

	o.logger.TraceContext(
		ctx,
		"parse complete",
		slog.Int("depth", root.Depth()),
	)

	return &Tree{Root: root, Source: src, opts: o}, nil
}

// entryKind classifies an entry of the parser's pending operator stack.
type entryKind int

const (
	entryBinary  entryKind = iota // binary operator awaiting its right operand
	entryNeg                      // unary negation
	entryOpen                     // opening delimiter
	entryLetBound                 // let whose bound expression is being read
	entryLetBody                  // let whose body is being read
)

type entry struct {
	kind entryKind
	op   Op
	tok  token.Token
	name string
}

// parser is the working state of a two-stack operator-precedence parse.
type parser struct {
	ctx  context.Context
	lex  *lexer.Lexer
	opts options

	operands []Node
	pending  []entry

	expectOperand bool // the next token must begin an operand
	letAllowed    bool // a let binding may begin here
	nesting       int  // open groups and lets on the stack
	tokens        int
}

func parse(ctx context.Context, src string, o options) (Node, error) {
	p := &parser{
		ctx:           ctx,
		lex:           lexer.New(src),
		opts:          o,
		expectOperand: true,
		letAllowed:    true,
	}

	return p.run()
}

func (p *parser) next() (token.Token, error) {
	tok, err := p.lex.Next()
	if err != nil {
		le := &lexer.Error{}
		if errors.As(err, &le) {
			return tok, newParseError(
				ErrLex,
				token.Token{Kind: token.Operator, Text: le.Text, Pos: le.Pos},
				err,
			)
		}

		return tok, ErrLex.Wrap(err)
	}

	p.tokens++

	return tok, nil
}

func (p *parser) run() (Node, error) {
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case token.EOF:
			return p.finish(tok)

		case token.Number:
			err = p.leaf(tok, &Literal{Value: tok.Int})

		case token.Identifier:
			if tok.IsKeyword() {
				err = p.let(tok)
			} else {
				err = p.leaf(tok, &Variable{Name: tok.Text})
			}

		case token.Operator:
			err = p.operator(tok)

		case token.Delimiter:
			if tok.Polarity == token.Open {
				err = p.open(tok)
			} else {
				err = p.close(tok)
			}

		case token.Terminator:
			err = p.terminator(tok)

		default:
			err = newParseError(ErrUnexpectedToken, tok, nil)
		}

		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) leaf(tok token.Token, n Node) error {
	if !p.expectOperand {
		return newParseError(ErrUnexpectedToken, tok, nil)
	}

	p.operands = append(p.operands, n)
	p.expectOperand = false
	p.letAllowed = false

	return nil
}

// let consumes "let name =" and leaves the parser reading the bound
// expression.
func (p *parser) let(tok token.Token) error {
	if !p.expectOperand || !p.letAllowed {
		return newParseError(ErrUnexpectedToken, tok, nil)
	}

	name, err := p.next()
	if err != nil {
		return err
	}

	if name.Kind != token.Identifier || name.IsKeyword() {
		if name.Kind == token.EOF {
			return newParseError(ErrIncompleteExpression, name, nil)
		}

		return newParseError(ErrUnexpectedToken, name, nil)
	}

	assign, err := p.next()
	if err != nil {
		return err
	}

	if assign.Kind != token.Assign {
		if assign.Kind == token.EOF {
			return newParseError(ErrIncompleteExpression, assign, nil)
		}

		return newParseError(ErrUnexpectedToken, assign, nil)
	}

	if err := p.nest(tok); err != nil {
		return err
	}

	p.pending = append(p.pending, entry{kind: entryLetBound, tok: tok, name: name.Text})
	p.letAllowed = true

	return nil
}

func (p *parser) operator(tok token.Token) error {
	op, ok := lookupOp(tok.Text)
	if !ok {
		return newParseError(ErrUnknownOperator, tok, nil)
	}

	if p.expectOperand {
		if op != Sub {
			return newParseError(ErrUnexpectedToken, tok, nil)
		}

		p.operands = append(p.operands, &Literal{})
		p.pending = append(p.pending, entry{kind: entryNeg, op: Sub, tok: tok})
		p.letAllowed = false

		return nil
	}

	switch op {
	case Add, Sub:
		for p.topIs(func(e entry) bool {
			return e.kind == entryBinary || e.kind == entryNeg
		}) {
			p.reduce()
		}

	case Mul, Div:
		// Negation binds tighter than a product, so "8 / -2 * 2" is
		// "(8 / -2) * 2".
		for p.topIs(func(e entry) bool {
			return e.kind == entryNeg ||
				e.kind == entryBinary && (e.op == Pow || e.op == Mul || e.op == Div)
		}) {
			p.reduce()
		}

	case Pow:
		// Pushed without reducing so that chains group to the right.
	}

	p.pending = append(p.pending, entry{kind: entryBinary, op: op, tok: tok})
	p.expectOperand = true
	p.letAllowed = false

	return nil
}

func (p *parser) open(tok token.Token) error {
	if !p.expectOperand {
		return newParseError(ErrUnexpectedToken, tok, nil)
	}

	if err := p.nest(tok); err != nil {
		return err
	}

	// The placeholder is overwritten by the group's value when it closes.
	p.operands = append(p.operands, &Literal{})
	p.pending = append(p.pending, entry{kind: entryOpen, tok: tok})
	p.letAllowed = true

	return nil
}

func (p *parser) close(tok token.Token) error {
	barrier := p.barrier()
	if barrier < 0 {
		return newParseError(ErrMismatchedScope, tok, nil)
	}

	opener := p.pending[barrier]
	if opener.kind == entryLetBound {
		return newParseError(ErrUnexpectedToken, tok, nil)
	}

	if opener.tok.Family != tok.Family {
		return newParseError(ErrMismatchedScope, tok, nil)
	}

	if p.expectOperand {
		return newParseError(ErrIncompleteExpression, tok, nil)
	}

	for len(p.pending)-1 > barrier {
		p.reduce()
	}

	p.pending = p.pending[:barrier]
	p.nesting--

	inner := p.pop()
	p.operands[len(p.operands)-1] = inner

	p.expectOperand = false
	p.letAllowed = false

	return nil
}

func (p *parser) terminator(tok token.Token) error {
	barrier := p.barrier()
	if barrier < 0 || p.pending[barrier].kind != entryLetBound {
		return newParseError(ErrUnexpectedToken, tok, nil)
	}

	if p.expectOperand {
		return newParseError(ErrIncompleteExpression, tok, nil)
	}

	for len(p.pending)-1 > barrier {
		p.reduce()
	}

	p.pending[barrier].kind = entryLetBody
	p.expectOperand = true
	p.letAllowed = true

	return nil
}

func (p *parser) finish(tok token.Token) (Node, error) {
	for i := len(p.pending) - 1; i >= 0; i-- {
		switch p.pending[i].kind {
		case entryOpen:
			return nil, newParseError(ErrMismatchedScope, p.pending[i].tok, nil)

		case entryLetBound:
			return nil, newParseError(ErrIncompleteExpression, tok, nil)
		}
	}

	if p.expectOperand {
		return nil, newParseError(ErrIncompleteExpression, tok, nil)
	}

	for len(p.pending) > 0 {
		p.reduce()
	}

	if len(p.operands) != 1 {
		return nil, newParseError(ErrIncompleteExpression, tok, nil)
	}

	p.opts.logger.TraceContext(
		p.ctx,
		"tokens consumed",
		slog.Int("token_count", p.tokens),
	)

	return p.operands[0], nil
}

// nest records entry into a group or let, enforcing the depth limit.
func (p *parser) nest(tok token.Token) error {
	p.nesting++

	if p.opts.maxDepth > 0 && p.nesting > p.opts.maxDepth {
		return newParseError(ErrMaxDepthExceeded, tok, nil)
	}

	return nil
}

// barrier returns the index of the innermost opening delimiter or unfinished
// let binding on the pending stack, or -1 if there is none.
func (p *parser) barrier() int {
	for i := len(p.pending) - 1; i >= 0; i-- {
		switch p.pending[i].kind {
		case entryOpen, entryLetBound:
			return i
		}
	}

	return -1
}

func (p *parser) topIs(pred func(entry) bool) bool {
	return len(p.pending) > 0 && pred(p.pending[len(p.pending)-1])
}

func (p *parser) pop() Node {
	n := p.operands[len(p.operands)-1]
	p.operands = p.operands[:len(p.operands)-1]

	return n
}

// reduce combines the top pending entry with its operands.
// Callers ensure the top entry is never an opening delimiter or an
// unfinished let binding.
func (p *parser) reduce() {
	e := p.pending[len(p.pending)-1]
	p.pending = p.pending[:len(p.pending)-1]

	switch e.kind {
	case entryBinary, entryNeg:
		right := p.pop()
		left := p.pop()
		p.operands = append(p.operands, NewBinaryOp(e.op, left, right))

	case entryLetBody:
		body := p.pop()
		bound := p.pop()
		p.operands = append(p.operands, NewLet(e.name, bound, body))
		p.nesting--

	default:
		panic("calc: reduce of " + e.tok.String())
	}
}
