package calc

import (
	"context"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"
)

// Evaluate evaluates tree against bindings.
//
// Near the root, the operands of a [BinaryOp] are evaluated concurrently:
// the right operand on a new goroutine and the left on the calling one. A
// node forks only while it is fewer than [WithForkLevels] levels below the
// root and its depth is at least [WithForkDepth]; everything else is
// evaluated sequentially, left then right. The result does not depend on
// whether or where forking happens. If both operands of a forked node fail,
// the error from the left operand is returned.
//
// Division by zero is not an error. It yields ±Inf or NaN as defined by
// IEEE 754 floating point.
//
// The context is used for logging only; evaluation cannot be cancelled.
func Evaluate(
	ctx context.Context,
	tree *Tree,
	bindings map[string]float64,
	opts ...EvalOption,
) (float64, error) {
	if tree == nil || tree.Root == nil {
		return 0, invalidTree("empty tree")
	}

	ev := &evaluator{
		ctx: ctx,
		cfg: makeEvalConfig(tree.opts.logger, opts...),
	}

	ev.cfg.logger.TraceContext(
		ctx,
		"evaluate start",
		slog.Int("depth", tree.Root.Depth()),
		slog.Int("bindings", len(bindings)),
		slog.Int("fork_levels", ev.cfg.forkLevels),
		slog.Int("fork_depth", ev.cfg.forkDepth),
	)

	v, err := ev.eval(tree.Root, NewEnv(bindings), 0)
	if err != nil {
		ev.cfg.logger.TraceContext(ctx, "evaluate failed", slog.Any("error", err))

		return 0, err
	}

	ev.cfg.logger.TraceContext(ctx, "evaluate complete", slog.Float64("result", v))

	return v, nil
}

// Evaluate evaluates the tree against bindings. See [Evaluate].
func (t *Tree) Evaluate(
	ctx context.Context,
	bindings map[string]float64,
	opts ...EvalOption,
) (float64, error) {
	return Evaluate(ctx, t, bindings, opts...)
}

// Eval parses src, using the parse cache, and evaluates it against bindings.
func Eval(
	ctx context.Context,
	src string,
	bindings map[string]float64,
	opts ...Option,
) (float64, error) {
	tree, err := ParseString(ctx, src, opts...)
	if err != nil {
		return 0, err
	}

	return tree.Evaluate(ctx, bindings)
}

type evaluator struct {
	ctx context.Context
	cfg evalConfig
}

func (ev *evaluator) eval(n Node, env Env, level int) (float64, error) {
	switch n := n.(type) {
	case *Literal:
		return float64(n.Value), nil

	case *Variable:
		v, ok := env.Lookup(n.Name)
		if !ok {
			return 0, undefinedVariable(n.Name)
		}

		return v, nil

	case *BinaryOp:
		if level < ev.cfg.forkLevels && n.depth >= ev.cfg.forkDepth {
			return ev.fork(n, env, level)
		}

		l, err := ev.eval(n.Left, env, level+1)
		if err != nil {
			return 0, err
		}

		r, err := ev.eval(n.Right, env, level+1)
		if err != nil {
			return 0, err
		}

		return apply(n.Op, l, r), nil

	case *Let:
		bound, err := ev.eval(n.Bound, env, level+1)
		if err != nil {
			return 0, err
		}

		// The pushed frame is visible only to the body and disappears when
		// this call returns.
		return ev.eval(n.Body, env.Push(n.Name, bound), level+1)

	default:
		return 0, invalidTree("unknown node")
	}
}

// fork evaluates the operands of n concurrently and joins them.
func (ev *evaluator) fork(n *BinaryOp, env Env, level int) (float64, error) {
	ev.cfg.logger.TraceContext(
		ev.ctx,
		"fork",
		slog.Int("level", level),
		slog.Int("depth", n.depth),
		slog.String("op", n.Op.String()),
	)

	var (
		g errgroup.Group
		r float64
	)

	g.Go(func() error {
		var err error

		r, err = ev.eval(n.Right, env, level+1)

		return err
	})

	l, lerr := ev.eval(n.Left, env, level+1)
	rerr := g.Wait()

	if lerr != nil {
		return 0, lerr
	}

	if rerr != nil {
		return 0, rerr
	}

	return apply(n.Op, l, r), nil
}

func apply(op Op, l, r float64) float64 {
	switch op {
	case Add:
		return l + r
	case Sub:
		return l - r
	case Mul:
		return l * r
	case Div:
		return l / r
	case Pow:
		return math.Pow(l, r)
	default:
		return math.NaN()
	}
}
