package calc

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Program is a tree compiled to expr-lang bytecode. It evaluates to the same
// results as [Tree.Evaluate] and can be run any number of times.
type Program struct {
	program *vm.Program
	source  string
	vars    []string
	tree    *Tree
}

// Compile translates the tree to an expr-lang program.
//
// Variable names are rewritten so that they never collide with expr-lang
// builtins and so that every let binding declares a distinct name, since
// expr-lang rejects redeclaration of a variable.
func (t *Tree) Compile(ctx context.Context) (*Program, error) {
	if t == nil || t.Root == nil {
		return nil, ErrCompile.With(slog.String("issue", "empty tree"))
	}

	tr := &transpiler{}
	tr.node(t.Root, nil)

	vars := t.Vars()

	env := make(map[string]any, len(vars))
	for _, name := range vars {
		env[freeName(name)] = float64(0)
	}

	source := tr.sb.String()

	program, err := expr.Compile(source, expr.Env(env), expr.AsFloat64())
	if err != nil {
		return nil, ErrCompile.Wrap(err).
			With(slog.String("source", source))
	}

	t.opts.logger.TraceContext(
		ctx,
		"tree compiled",
		slog.String("program", source),
		slog.Int("free_vars", len(vars)),
	)

	return &Program{
		program: program,
		source:  source,
		vars:    vars,
		tree:    t,
	}, nil
}

// Source returns the generated expr-lang source.
func (p *Program) Source() string { return p.source }

// Run evaluates the program against bindings.
func (p *Program) Run(ctx context.Context, bindings map[string]float64) (float64, error) {
	env := make(map[string]any, len(p.vars))

	for _, name := range p.vars {
		v, ok := bindings[name]
		if !ok {
			return 0, undefinedVariable(name)
		}

		env[freeName(name)] = v
	}

	out, err := vm.Run(p.program, env)
	if err != nil {
		return 0, ErrRun.Wrap(err)
	}

	p.tree.opts.logger.TraceContext(ctx, "program run", slog.Any("result", out))

	switch v := out.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, ErrRun.With(slog.String("result_type", resultTypeName(out)))
	}
}

func freeName(name string) string { return "v_" + name }

// transpiler writes a fully parenthesized expr-lang expression.
type transpiler struct {
	sb   strings.Builder
	lets int
}

type binding struct {
	name   string
	rename string
}

func (tr *transpiler) node(n Node, scope []binding) {
	switch n := n.(type) {
	case *Literal:
		tr.sb.WriteString(strconv.FormatInt(n.Value, 10) + ".0")

	case *Variable:
		for i := len(scope) - 1; i >= 0; i-- {
			if scope[i].name == n.Name {
				tr.sb.WriteString(scope[i].rename)

				return
			}
		}

		tr.sb.WriteString(freeName(n.Name))

	case *BinaryOp:
		tr.sb.WriteByte('(')
		tr.node(n.Left, scope)
		tr.sb.WriteString(" " + n.Op.String() + " ")
		tr.node(n.Right, scope)
		tr.sb.WriteByte(')')

	case *Let:
		tr.lets++
		rename := "l" + strconv.Itoa(tr.lets) + "_" + n.Name

		tr.sb.WriteString("(let " + rename + " = ")
		tr.node(n.Bound, scope)
		tr.sb.WriteString("; ")
		tr.node(n.Body, append(scope[:len(scope):len(scope)], binding{n.Name, rename}))
		tr.sb.WriteByte(')')
	}
}
