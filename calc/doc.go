// Package calc parses and evaluates integer arithmetic expressions.
//
// # Grammar
//
// An expression combines decimal integer literals and variables with the
// binary operators + - * / ^ and unary negation. Sub-expressions may be
// grouped by any of the three delimiter families (), {} and [], and a group
// must be closed by its own family. A let binding names a value for the
// remainder of the enclosing group:
//
//	let r = 3; 3 * r ^ 2
//	[let x = 1; (let x = 2; x) + x] * {4 - -x}
//
// Precedence, highest first, is ^, then * and /, then unary -, then + and -.
// The ^ operator groups to the right; all others group to the left:
//
//	2 ^ 3 ^ 2   // 512
//	-2 * 3      // -6, parsed as -(2 * 3)
//	8 / 4 / 2   // 1
//
// # Evaluation
//
// Results are float64. Literals are exact integers and every operation is
// performed in floating point, so division by zero yields an infinity or NaN
// instead of an error. A reference to a variable that is neither bound by an
// enclosing let nor supplied by the caller fails with [ErrUndefinedVariable].
//
// [Evaluate] forks the two operands of large nodes near the root onto
// separate goroutines. See [WithForkLevels], [WithForkDepth] and
// [WithSequential].
//
// # Backends
//
// Besides the tree-walking evaluator, [Tree.Compile] translates a tree to an
// expr-lang program. Both produce identical results.
//
// # Caching
//
// [ParseString] and [ParseReader] cache trees by a hash of source text and
// options. [Parse] always parses.
package calc
