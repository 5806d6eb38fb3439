package token

// Family is one of the three independent bracket vocabularies: ( ), { }
// and [ ].
type Family int

const (
	// NoFamily is the family of every symbol that is not a delimiter.
	NoFamily Family = iota // none
	Paren                  // parenthesis
	Brace                  // brace
	Bracket                // bracket
)

// Polarity tells an opening delimiter from a closing one.
type Polarity int

const (
	Open  Polarity = iota // open
	Close                 // close
)

var delimiters = map[string]struct {
	family   Family
	polarity Polarity
}{
	"(": {Paren, Open},
	")": {Paren, Close},
	"{": {Brace, Open},
	"}": {Brace, Close},
	"[": {Bracket, Open},
	"]": {Bracket, Close},
}

// Classify returns the family and polarity of symbol.
// The result ok is false if symbol is not a delimiter.
func Classify(symbol string) (f Family, p Polarity, ok bool) {
	d, ok := delimiters[symbol]
	if !ok {
		return NoFamily, Open, false
	}

	return d.family, d.polarity, true
}

// Matches reports whether a and b form an open/close pair of the same family,
// in either order.
func Matches(a, b string) bool {
	fa, pa, ok := Classify(a)
	if !ok {
		return false
	}

	fb, pb, ok := Classify(b)
	if !ok {
		return false
	}

	return fa == fb && pa != pb
}

// Open returns the opening symbol of the family, or "" for NoFamily.
func (f Family) Open() string {
	switch f {
	case Paren:
		return "("
	case Brace:
		return "{"
	case Bracket:
		return "["
	default:
		return ""
	}
}

// Close returns the closing symbol of the family, or "" for NoFamily.
func (f Family) Close() string {
	switch f {
	case Paren:
		return ")"
	case Brace:
		return "}"
	case Bracket:
		return "]"
	default:
		return ""
	}
}
