package calc

import "encoding/json"

// MarshalJSON implements json.Marshaler for Tree.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToMap())
}

// ToMap converts the tree to a native Go map structure.
func (t *Tree) ToMap() map[string]any {
	result := map[string]any{
		"source": "",
		"depth":  0,
		"vars":   []string{},
		"root":   nil,
	}

	if t == nil || t.Root == nil {
		return result
	}

	vars := t.Vars()
	if vars == nil {
		vars = []string{}
	}

	result["source"] = t.Source
	result["depth"] = t.Depth()
	result["vars"] = vars
	result["root"] = ToNative(t.Root)

	return result
}

// ToNative converts a node to nested Go maps.
func ToNative(n Node) any {
	switch n := n.(type) {
	case *Literal:
		return map[string]any{"literal": n.Value}

	case *Variable:
		return map[string]any{"variable": n.Name}

	case *BinaryOp:
		return map[string]any{
			"op":    n.Op.Name(),
			"left":  ToNative(n.Left),
			"right": ToNative(n.Right),
		}

	case *Let:
		return map[string]any{
			"let":   n.Name,
			"bound": ToNative(n.Bound),
			"body":  ToNative(n.Body),
		}

	default:
		return nil
	}
}
