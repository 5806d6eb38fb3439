package calc

import (
	"iter"
	"maps"
	"slices"
)

// Env is an immutable variable environment: a chain of let frames over a
// read-only map of caller bindings.
//
// The zero value is an empty environment. Env values are safe to share
// between goroutines because no operation modifies an existing Env.
type Env struct {
	top  *frame
	base map[string]float64
}

type frame struct {
	name  string
	value float64
	next  *frame
}

// NewEnv returns an environment whose outermost scope is bindings.
// The map must not be modified while the environment is in use.
func NewEnv(bindings map[string]float64) Env {
	return Env{base: bindings}
}

// Push returns a new environment with name bound to value in a scope nested
// inside e. The receiver is unchanged.
func (e Env) Push(name string, value float64) Env {
	return Env{
		top:  &frame{name: name, value: value, next: e.top},
		base: e.base,
	}
}

// Lookup returns the innermost binding of name.
func (e Env) Lookup(name string) (float64, bool) {
	for f := e.top; f != nil; f = f.next {
		if f.name == name {
			return f.value, true
		}
	}

	v, ok := e.base[name]

	return v, ok
}

// Len returns the number of let frames above the caller bindings.
func (e Env) Len() int {
	n := 0
	for f := e.top; f != nil; f = f.next {
		n++
	}

	return n
}

// All returns an iterator over the visible bindings, innermost first.
// Shadowed bindings are skipped. Caller bindings are yielded in sorted order
// after all let frames.
func (e Env) All() iter.Seq2[string, float64] {
	return func(yield func(string, float64) bool) {
		seen := make(map[string]struct{})

		for f := e.top; f != nil; f = f.next {
			if _, ok := seen[f.name]; ok {
				continue
			}

			seen[f.name] = struct{}{}

			if !yield(f.name, f.value) {
				return
			}
		}

		for _, name := range slices.Sorted(maps.Keys(e.base)) {
			if _, ok := seen[name]; ok {
				continue
			}

			if !yield(name, e.base[name]) {
				return
			}
		}
	}
}
