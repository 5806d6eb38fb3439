package calc

import "github.com/ardnew/exparse/log"

// DefaultMaxDepth is the default limit on the nesting of groups and let
// bindings accepted by the parser.
// Users may modify this before parsing to change the default.
var DefaultMaxDepth = 10000

// Default fork-join cutoffs used by the evaluator.
const (
	DefaultForkLevels = 2
	DefaultForkDepth  = 4
)

// optionsKey holds the parse options that affect the resulting tree.
// It participates in the parse cache key.
type optionsKey struct {
	maxDepth int
}

// options holds parser configuration.
type options struct {
	optionsKey

	logger log.Logger // structured logger (outside optionsKey, doesn't affect cache)
}

// Option configures parsing behavior.
type Option func(*options)

// WithMaxDepth sets the maximum nesting depth of groups and let bindings.
// A depth less than 1 disables the limit.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
// Trees inherit the logger they were parsed with for evaluation.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func makeOptions(opts ...Option) options {
	o := options{optionsKey: optionsKey{maxDepth: DefaultMaxDepth}}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// evalConfig holds evaluator configuration.
type evalConfig struct {
	forkLevels int
	forkDepth  int
	logger     log.Logger
	hasLogger  bool
}

// EvalOption configures evaluation behavior.
type EvalOption func(*evalConfig)

// WithForkLevels sets how many levels below the root may fork their right
// operand onto another goroutine.
func WithForkLevels(levels int) EvalOption {
	return func(c *evalConfig) {
		c.forkLevels = levels
	}
}

// WithForkDepth sets the minimum subtree depth worth forking.
func WithForkDepth(depth int) EvalOption {
	return func(c *evalConfig) {
		c.forkDepth = depth
	}
}

// WithSequential disables fork-join evaluation entirely.
func WithSequential() EvalOption {
	return func(c *evalConfig) {
		c.forkLevels = 0
	}
}

// WithEvalLogger overrides the logger inherited from the parsed tree.
func WithEvalLogger(logger log.Logger) EvalOption {
	return func(c *evalConfig) {
		c.logger = logger
		c.hasLogger = true
	}
}

func makeEvalConfig(inherited log.Logger, opts ...EvalOption) evalConfig {
	c := evalConfig{
		forkLevels: DefaultForkLevels,
		forkDepth:  DefaultForkDepth,
	}

	for _, opt := range opts {
		opt(&c)
	}

	if !c.hasLogger {
		c.logger = inherited
	}

	return c
}
