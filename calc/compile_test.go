package calc

import (
	"errors"
	"testing"

	"github.com/expr-lang/expr"
)

// agreementInputs are evaluated by both backends.
var agreementInputs = []string{
	"2 + 3 * 4",
	"(2 + 3) * 4",
	"2 ^ 3 ^ 2",
	"8 / 4 / 2",
	"-2 ^ 2",
	"2 ^ -x",
	"[x + {y * (3 - x)}] / y",
	"let x = 10; x + 1",
	"let x = 1; (let x = 2; x) + x",
	"let a = let b = y; b * b; a - x",
	"(let x = 5; x) + x",
	"let v_x = 3; v_x + x",
	"let len = 2; len * len",
	"let x = x + 1; let x = x * 2; x",
	double("x - y / 2", 5),
}

func TestCompile_AgreesWithEvaluate(t *testing.T) {
	bindings := map[string]float64{"x": 1.5, "y": 4}

	for _, src := range agreementInputs {
		t.Run(src, func(t *testing.T) {
			tree, err := Parse(t.Context(), src)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			want, err := tree.Evaluate(t.Context(), bindings)
			if err != nil {
				t.Fatalf("evaluate error: %v", err)
			}

			program, err := tree.Compile(t.Context())
			if err != nil {
				t.Fatalf("compile error: %v", err)
			}

			got, err := program.Run(t.Context(), bindings)
			if err != nil {
				t.Fatalf("run error: %v (program %s)", err, program.Source())
			}

			if got != want {
				t.Errorf("expected %v, got %v (program %s)", want, got, program.Source())
			}
		})
	}
}

func TestCompile_UndefinedVariable(t *testing.T) {
	tree, err := Parse(t.Context(), "a * (let b = 1; b + c)")
	if err != nil {
		t.Fatal(err)
	}

	program, err := tree.Compile(t.Context())
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	_, want := tree.Evaluate(t.Context(), map[string]float64{"a": 1})
	_, got := program.Run(t.Context(), map[string]float64{"a": 1})

	var we, ge *EvalError
	if !errors.As(want, &we) || !errors.As(got, &ge) {
		t.Fatalf("expected EvalErrors, got %v and %v", want, got)
	}

	if we.Name != "c" || ge.Name != "c" {
		t.Errorf("expected undefined c from both, got %s and %s", we.Name, ge.Name)
	}
}

func TestCompile_Source(t *testing.T) {
	tree, err := Parse(t.Context(), "let x = 1; (let x = 2; x) + x + y")
	if err != nil {
		t.Fatal(err)
	}

	program, err := tree.Compile(t.Context())
	if err != nil {
		t.Fatal(err)
	}

	want := "(let l1_x = 1.0; (((let l2_x = 2.0; l2_x) + l1_x) + v_y))"
	if got := program.Source(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestCompile_Reusable(t *testing.T) {
	tree, err := Parse(t.Context(), "x * x")
	if err != nil {
		t.Fatal(err)
	}

	program, err := tree.Compile(t.Context())
	if err != nil {
		t.Fatal(err)
	}

	for _, x := range []float64{0, 1, 2, -3} {
		got, err := program.Run(t.Context(), map[string]float64{"x": x})
		if err != nil {
			t.Fatal(err)
		}

		if got != x*x {
			t.Errorf("x=%v: expected %v, got %v", x, x*x, got)
		}
	}
}

// referenceEval evaluates src with expr-lang directly. It reports false when
// expr rejects src or produces a non-numeric result.
func referenceEval(src string, bindings map[string]float64) (float64, bool) {
	env := make(map[string]any, len(bindings))
	for name, v := range bindings {
		env[name] = v
	}

	out, err := expr.Eval(src, env)
	if err != nil {
		return 0, false
	}

	switch v := out.(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// TestEvaluate_ReferenceOracle checks plain arithmetic against expr-lang
// evaluating the raw source directly.
func TestEvaluate_ReferenceOracle(t *testing.T) {
	inputs := []string{
		"2 + 3 * 4",
		"(2 + 3) * 4",
		"7 / 2",
		"10 - 4 - 3",
		"8 / 4 / 2",
		"-2 * 3",
		"1 - -1",
		"2 * 3 ^ 2 * 4",
		"(1 + 2) * (3 - 4) / 5",
		"x * (y - 3) + x / y",
		"8 / -2 * 2",
		"2 ^ -1 * 4",
		"2 ^ -3 * 4",
		"1 - -2 * 3 / 4",
		"x / -y * y",
		"-x / y * -2 ^ 2",
		"2 * -3 ^ 2",
	}

	bindings := map[string]float64{"x": 1.5, "y": 4}

	for _, src := range inputs {
		want, ok := referenceEval(src, bindings)
		if !ok {
			t.Fatalf("%q: expr rejected the source", src)
		}

		got, err := Eval(t.Context(), src, bindings)
		if err != nil {
			t.Fatalf("%q: evaluate error: %v", src, err)
		}

		if got != want {
			t.Errorf("%q: expected %v, got %v", src, want, got)
		}
	}
}
