package repl

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/exparse/calc"
	"github.com/ardnew/exparse/calc/lexer"
	"github.com/ardnew/exparse/calc/token"
	"github.com/ardnew/exparse/log"
)

// commandPrefix introduces a REPL command.
const commandPrefix = ":"

// resultName is bound to the value of the last successful evaluation.
const resultName = "ans"

// commands lists the REPL command names offered for completion.
var commands = []string{"clear", "help", "quit", "set", "tree", "unset", "vars"}

func helpMessage() string {
	return `
Commands:

  :vars              List variable bindings
  :set NAME EXPR     Evaluate EXPR and bind the result to NAME
  :unset NAME...     Remove bindings
  :tree              Show the tree of the last expression
  :clear             Clear screen
  :help              Print this message
  :quit              Exit REPL

Usage:
  Type an expression to evaluate it against the current bindings
  The last result is bound to "` + resultName + `"
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// reply is the outcome of executing one line of input.
type reply struct {
	text  string
	err   error
	quit  bool
	clear bool
}

// session holds the evaluation state of a REPL independent of the terminal.
type session struct {
	bindings map[string]float64
	last     *calc.Tree
	opts     []calc.EvalOption
	logger   log.Logger
}

func newSession(
	bindings map[string]float64,
	logger log.Logger,
	opts ...calc.EvalOption,
) *session {
	s := &session{
		bindings: make(map[string]float64, len(bindings)+1),
		opts:     opts,
		logger:   logger,
	}

	maps.Copy(s.bindings, bindings)

	return s
}

// names returns the bound variable names in sorted order.
func (s *session) names() []string {
	return slices.Sorted(maps.Keys(s.bindings))
}

// exec runs one line of input: a command when it begins with ":" and an
// expression otherwise.
func (s *session) exec(ctx context.Context, line string) reply {
	line = strings.TrimSpace(line)
	if line == "" {
		return reply{}
	}

	if cmd, ok := strings.CutPrefix(line, commandPrefix); ok {
		s.logger.TraceContext(ctx, "repl command", slog.String("input", cmd))

		return s.command(ctx, cmd)
	}

	s.logger.TraceContext(ctx, "repl eval", slog.String("input", line))

	v, err := s.evaluate(ctx, line)
	if err != nil {
		return reply{err: err}
	}

	s.bindings[resultName] = v

	return reply{text: formatValue(v)}
}

// evaluate parses src and evaluates it against the current bindings,
// remembering the tree for :tree.
func (s *session) evaluate(ctx context.Context, src string) (float64, error) {
	tree, err := calc.ParseString(ctx, src, calc.WithLogger(s.logger))
	if err != nil {
		return 0, err
	}

	s.last = tree

	v, err := tree.Evaluate(ctx, s.bindings, s.opts...)
	if err != nil {
		return 0, err
	}

	s.logger.TraceContext(ctx, "repl eval result", slog.Float64("result", v))

	return v, nil
}

func (s *session) command(ctx context.Context, input string) reply {
	name, rest, _ := strings.Cut(strings.TrimSpace(input), " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "q", "quit", "exit":
		return reply{quit: true}

	case "h", "help":
		return reply{text: helpMessage()}

	case "c", "clear":
		return reply{clear: true}

	case "v", "vars":
		return reply{text: s.listVars()}

	case "s", "set":
		return s.set(ctx, rest)

	case "u", "unset":
		return s.unset(rest)

	case "t", "tree":
		return s.tree(ctx)

	default:
		return reply{err: fmt.Errorf("%w: %q (try :help)", ErrUnknownCommand, name)}
	}
}

func (s *session) listVars() string {
	if len(s.bindings) == 0 {
		return "no variables bound"
	}

	var b strings.Builder

	for i, name := range s.names() {
		if i > 0 {
			b.WriteByte('\n')
		}

		fmt.Fprintf(&b, "%s = %s", name, formatValue(s.bindings[name]))
	}

	return b.String()
}

func (s *session) set(ctx context.Context, args string) reply {
	args = strings.TrimSpace(args)

	// The name ends at the first blank or "=", so "x=5", "x = 5" and "x 5"
	// are all accepted.
	name, src := args, ""
	if i := strings.IndexAny(args, " \t="); i >= 0 {
		name = args[:i]
		src = strings.TrimPrefix(strings.TrimSpace(args[i:]), "=")
	}

	if name == "" || strings.TrimSpace(src) == "" {
		return reply{err: fmt.Errorf("%w: :set NAME EXPR", ErrUsage)}
	}

	if err := validName(name); err != nil {
		return reply{err: err}
	}

	v, err := s.evaluate(ctx, src)
	if err != nil {
		return reply{err: err}
	}

	s.bindings[name] = v

	return reply{text: name + " = " + formatValue(v)}
}

func (s *session) unset(args string) reply {
	names := strings.Fields(args)
	if len(names) == 0 {
		return reply{err: fmt.Errorf("%w: :unset NAME...", ErrUsage)}
	}

	for _, name := range names {
		delete(s.bindings, name)
	}

	return reply{}
}

func (s *session) tree(ctx context.Context) reply {
	if s.last == nil {
		return reply{err: ErrNoTree}
	}

	var b strings.Builder

	b.WriteString(s.last.String())
	b.WriteByte('\n')

	if err := s.last.Print(ctx, &b); err != nil {
		return reply{err: err}
	}

	return reply{text: strings.TrimRight(b.String(), "\n")}
}

// validName reports whether name lexes as a single non-keyword identifier.
func validName(name string) error {
	lx := lexer.New(name)

	tok, err := lx.Next()
	if err != nil || tok.Kind != token.Identifier || tok.IsKeyword() {
		return fmt.Errorf("%w: %q", ErrInvalidVariable, name)
	}

	if next, err := lx.Next(); err != nil || next.Kind != token.EOF {
		return fmt.Errorf("%w: %q", ErrInvalidVariable, name)
	}

	return nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
