package calc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// String returns the tree in fully parenthesized form with variables quoted,
// e.g. "(2 + (3 * 'x'))".
func (t *Tree) String() string {
	if t == nil || t.Root == nil {
		return ""
	}

	return String(t.Root)
}

// String returns n in fully parenthesized form. See [Tree.String].
func String(n Node) string {
	var sb strings.Builder

	display(&sb, n)

	return sb.String()
}

func display(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Literal:
		sb.WriteString(strconv.FormatInt(n.Value, 10))

	case *Variable:
		sb.WriteString("'" + n.Name + "'")

	case *BinaryOp:
		sb.WriteByte('(')
		display(sb, n.Left)
		sb.WriteString(" " + n.Op.String() + " ")
		display(sb, n.Right)
		sb.WriteByte(')')

	case *Let:
		sb.WriteString("(let '" + n.Name + "' = ")
		display(sb, n.Bound)
		sb.WriteString("; ")
		display(sb, n.Body)
		sb.WriteByte(')')
	}
}

// Format writes the tree as expression source that parses back to an
// identical tree. With indent > 0, each let body starts on a new line.
func (t *Tree) Format(_ context.Context, w io.Writer, indent int) error {
	if t == nil || t.Root == nil {
		return nil
	}

	var sb strings.Builder

	formatNode(&sb, t.Root, indent, 0)
	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())

	return err
}

// formatNode formats a node in native expression syntax.
func formatNode(sb *strings.Builder, n Node, indent, depth int) {
	switch n := n.(type) {
	case *Literal:
		sb.WriteString(strconv.FormatInt(n.Value, 10))

	case *Variable:
		sb.WriteString(n.Name)

	case *BinaryOp:
		sb.WriteByte('(')
		formatNode(sb, n.Left, indent, depth)
		sb.WriteString(" " + n.Op.String() + " ")
		formatNode(sb, n.Right, indent, depth)
		sb.WriteByte(')')

	case *Let:
		sb.WriteString("(let " + n.Name + " = ")
		formatNode(sb, n.Bound, indent, depth+1)
		sb.WriteByte(';')

		if indent > 0 {
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(" ", (depth+1)*indent))
		} else {
			sb.WriteByte(' ')
		}

		formatNode(sb, n.Body, indent, depth+1)
		sb.WriteByte(')')
	}
}

// FormatJSON writes the tree as JSON to the writer.
func (t *Tree) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(t, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(t)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the tree as YAML to the writer.
func (t *Tree) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, t.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// Print writes an indented outline of the tree, one node per line.
func (t *Tree) Print(_ context.Context, w io.Writer) error {
	if t == nil || t.Root == nil {
		return nil
	}

	var sb strings.Builder

	outline(&sb, t.Root, 0)

	_, err := io.WriteString(w, sb.String())

	return err
}

func outline(sb *strings.Builder, n Node, indent int) {
	prefix := strings.Repeat("  ", indent)

	switch n := n.(type) {
	case *Literal:
		sb.WriteString(prefix + "Literal: " + strconv.FormatInt(n.Value, 10) + "\n")

	case *Variable:
		sb.WriteString(prefix + "Variable: " + n.Name + "\n")

	case *BinaryOp:
		sb.WriteString(prefix + "BinaryOp: " + n.Op.String() +
			" (depth " + strconv.Itoa(n.depth) + ")\n")
		outline(sb, n.Left, indent+1)
		outline(sb, n.Right, indent+1)

	case *Let:
		sb.WriteString(prefix + "Let: " + n.Name +
			" (depth " + strconv.Itoa(n.depth) + ")\n")
		sb.WriteString(prefix + "  Bound:\n")
		outline(sb, n.Bound, indent+2)
		sb.WriteString(prefix + "  Body:\n")
		outline(sb, n.Body, indent+2)
	}
}
