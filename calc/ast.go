package calc

//go:generate go tool stringer --linecomment --type Op --output op_string.go

import (
	"slices"
)

// Op identifies the arithmetic operation of a [BinaryOp].
type Op int

const (
	Add Op = iota // +
	Sub           // -
	Mul           // *
	Div           // /
	Pow           // ^
)

// Name returns the lower-case operator name used in encoded trees.
func (op Op) Name() string {
	switch op {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	case Pow:
		return "pow"
	default:
		return "unknown"
	}
}

// lookupOp maps a binary operator symbol to its Op.
func lookupOp(symbol string) (Op, bool) {
	switch symbol {
	case "+":
		return Add, true
	case "-":
		return Sub, true
	case "*":
		return Mul, true
	case "/":
		return Div, true
	case "^":
		return Pow, true
	default:
		return 0, false
	}
}

// Node is an expression tree node. The set of implementations is closed:
// [*Literal], [*Variable], [*BinaryOp] and [*Let].
type Node interface {
	// Depth is 0 for leaves and 1 + the maximum depth of the children
	// otherwise.
	Depth() int

	node()
}

// Literal is an integer constant.
type Literal struct {
	Value int64
}

// Variable is a reference to a binding in the environment.
type Variable struct {
	Name string
}

// BinaryOp applies Op to the results of Left and Right.
// Unary negation -x is represented as Sub(Literal 0, x).
type BinaryOp struct {
	Op    Op
	Left  Node
	Right Node
	depth int
}

// Let binds Name to the value of Bound while evaluating Body.
// Name is not visible inside Bound.
type Let struct {
	Name  string
	Bound Node
	Body  Node
	depth int
}

// NewBinaryOp returns a BinaryOp with its depth computed from the children.
func NewBinaryOp(op Op, left, right Node) *BinaryOp {
	return &BinaryOp{
		Op:    op,
		Left:  left,
		Right: right,
		depth: 1 + max(left.Depth(), right.Depth()),
	}
}

// NewLet returns a Let with its depth computed from the children.
func NewLet(name string, bound, body Node) *Let {
	return &Let{
		Name:  name,
		Bound: bound,
		Body:  body,
		depth: 1 + max(bound.Depth(), body.Depth()),
	}
}

func (*Literal) Depth() int    { return 0 }
func (*Variable) Depth() int   { return 0 }
func (n *BinaryOp) Depth() int { return n.depth }
func (n *Let) Depth() int      { return n.depth }

func (*Literal) node()  {}
func (*Variable) node() {}
func (*BinaryOp) node() {}
func (*Let) node()      {}

// Tree is the immutable result of a successful parse.
type Tree struct {
	Root   Node
	Source string

	opts options
}

// Depth returns the depth of the root node.
func (t *Tree) Depth() int {
	if t == nil || t.Root == nil {
		return 0
	}

	return t.Root.Depth()
}

// Vars returns the names of the free variables of the tree in order of first
// occurrence. A name bound by an enclosing let is not free within its body.
func (t *Tree) Vars() []string {
	if t == nil || t.Root == nil {
		return nil
	}

	var names []string

	var walk func(n Node, bound []string)

	walk = func(n Node, bound []string) {
		switch n := n.(type) {
		case *Variable:
			if !slices.Contains(bound, n.Name) && !slices.Contains(names, n.Name) {
				names = append(names, n.Name)
			}

		case *BinaryOp:
			walk(n.Left, bound)
			walk(n.Right, bound)

		case *Let:
			walk(n.Bound, bound)
			walk(n.Body, append(slices.Clip(bound), n.Name))
		}
	}

	walk(t.Root, nil)

	return names
}

// Walk calls fn for every node of the tree in depth-first pre-order.
// Traversal of a subtree stops when fn returns false.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch n := n.(type) {
	case *BinaryOp:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *Let:
		Walk(n.Bound, fn)
		Walk(n.Body, fn)
	}
}
