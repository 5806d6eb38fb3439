package repl

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/exparse/calc"
	"github.com/ardnew/exparse/log"
)

func TestSessionExec(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		want    string
		wantErr error
	}{
		{"expression", []string{"2 + 3 * 4"}, "14", nil},
		{"binding", []string{"x * 2"}, "20", nil},
		{"let", []string{"let y = 3; y ^ 2"}, "9", nil},
		{"division", []string{"7 / 2"}, "3.5", nil},
		{"answer", []string{"6", "ans * 7"}, "42", nil},
		{"set", []string{":set z = x + 1", "z"}, "11", nil},
		{"set_without_equals", []string{":set z x - 1", "z"}, "9", nil},
		{"set_unspaced", []string{":set z=x*2", "z"}, "20", nil},
		{"set_half_spaced", []string{":set z= 3", "z"}, "3", nil},
		{"set_name_only", []string{":set z="}, "", ErrUsage},
		{"unset", []string{":unset x", "x"}, "", calc.ErrUndefinedVariable},
		{"undefined", []string{"q + 1"}, "", calc.ErrUndefinedVariable},
		{"parse_error", []string{"2 +"}, "", calc.ErrIncompleteExpression},
		{"unknown_command", []string{":bogus"}, "", ErrUnknownCommand},
		{"set_usage", []string{":set"}, "", ErrUsage},
		{"unset_usage", []string{":unset"}, "", ErrUsage},
		{"set_keyword", []string{":set let 1"}, "", ErrInvalidVariable},
		{"set_invalid", []string{":set 1x 1"}, "", ErrInvalidVariable},
		{"tree_empty", []string{":tree"}, "", ErrNoTree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(map[string]float64{"x": 10}, log.Logger{})

			var r reply
			for _, line := range tt.lines {
				r = s.exec(t.Context(), line)
			}

			if tt.wantErr != nil {
				if !errors.Is(r.err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, r.err)
				}

				return
			}

			if r.err != nil {
				t.Fatalf("unexpected error: %v", r.err)
			}

			if r.text != tt.want {
				t.Errorf("expected %q, got %q", tt.want, r.text)
			}
		})
	}
}

func TestSessionCommands(t *testing.T) {
	s := newSession(nil, log.Logger{})

	if r := s.exec(t.Context(), ":vars"); r.text != "no variables bound" {
		t.Errorf("expected empty vars message, got %q", r.text)
	}

	s.exec(t.Context(), ":set b 2")
	s.exec(t.Context(), ":set a 1")

	if r := s.exec(t.Context(), ":v"); r.text != "a = 1\nb = 2" {
		t.Errorf("expected sorted vars, got %q", r.text)
	}

	if r := s.exec(t.Context(), ":quit"); !r.quit {
		t.Error("expected :quit to quit")
	}

	if r := s.exec(t.Context(), ":c"); !r.clear {
		t.Error("expected :c to clear")
	}

	if r := s.exec(t.Context(), ":help"); !strings.Contains(r.text, ":set NAME EXPR") {
		t.Errorf("expected help text, got %q", r.text)
	}

	if r := s.exec(t.Context(), "   "); r != (reply{}) {
		t.Errorf("expected empty reply for blank line, got %+v", r)
	}
}

func TestSessionTree(t *testing.T) {
	s := newSession(map[string]float64{"x": 1}, log.Logger{})
	s.exec(t.Context(), "2 * x")

	r := s.exec(t.Context(), ":tree")
	if r.err != nil {
		t.Fatalf("unexpected error: %v", r.err)
	}

	for _, want := range []string{"(2 * 'x')", "BinaryOp: *", "Literal: 2", "Variable: x"} {
		if !strings.Contains(r.text, want) {
			t.Errorf("expected tree output to contain %q, got:\n%s", want, r.text)
		}
	}
}

func TestSessionCopiesBindings(t *testing.T) {
	bindings := map[string]float64{"x": 1}

	s := newSession(bindings, log.Logger{})
	s.exec(t.Context(), ":set x 5")

	if bindings["x"] != 1 {
		t.Errorf("expected caller bindings to be unchanged, got x=%v", bindings["x"])
	}
}

func TestSessionSequential(t *testing.T) {
	s := newSession(map[string]float64{"x": 2}, log.Logger{}, calc.WithSequential())

	if r := s.exec(t.Context(), "(x + 1) * (x - 1)"); r.text != "3" {
		t.Errorf("expected 3, got %q (err %v)", r.text, r.err)
	}
}

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"x", true},
		{"x_1", true},
		{"Alpha", true},
		{"let", false},
		{"1x", false},
		{"x y", false},
		{"x+1", false},
		{"", false},
		{"_x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validName(tt.name)
			if tt.ok && err != nil {
				t.Errorf("expected %q to be valid, got %v", tt.name, err)
			}

			if !tt.ok && !errors.Is(err, ErrInvalidVariable) {
				t.Errorf("expected %q to be invalid, got %v", tt.name, err)
			}
		})
	}
}
