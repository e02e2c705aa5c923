package eval_test

import (
	"testing"

	"github.com/rill-lang/rill/internal/ast"
	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/eval"
	"github.com/rill-lang/rill/internal/reader"
	"github.com/rill-lang/rill/internal/value"
)

// run parses and evaluates src as a single program against a fresh
// evaluator, failing the test on either a parse or an evaluation error.
// Every script below ends with the expression whose value the test wants
// to inspect, since a Block's result is its last statement's value and
// each top-level Run call gets its own root scope (bindings don't
// survive across separate run() calls on the same evaluator).
func run(t *testing.T, src string) core.Value {
	t.Helper()
	block, err := reader.Parse(src)
	if err != nil {
		t.Fatalf("parse error for %q: %v", src, err)
	}
	result, err := eval.New().Run(block)
	if err != nil {
		t.Fatalf("eval error for %q: %v", src, err)
	}
	return result
}

func mustInt(t *testing.T, v core.Value) int64 {
	t.Helper()
	n, ok := value.AsInteger(v)
	if !ok {
		t.Fatalf("expected an integer, got %v", v)
	}
	return n
}

func mustList(t *testing.T, v core.Value) []core.Value {
	t.Helper()
	l, ok := value.AsList(v)
	if !ok {
		t.Fatalf("expected a list, got %v", v)
	}
	return l.Elems
}

// Scenario 1: a counter closure captures n at definition time and
// refreshes its own capture across successive calls.
func TestScenarioCounterClosure(t *testing.T) {
	result := run(t, `
		n := 0;
		mkc := closure() { n := n + 1; return n; };
		a := mkc();
		b := mkc();
		c := mkc();
		[a, b, c];
	`)
	elems := mustList(t, result)
	if len(elems) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elems))
	}
	for i, want := range []int64{1, 2, 3} {
		if n := mustInt(t, elems[i]); n != want {
			t.Fatalf("element %d: expected %d, got %d", i, want, n)
		}
	}
}

// Scenario 2: a for-each loop's body write_throughs into the enclosing
// scope, but the loop variable itself never leaks outward — referencing
// it afterward falls through to the pre-defined-function fallback and
// resolves to undefined rather than to its last loop value.
func TestScenarioIteratorWriteThrough(t *testing.T) {
	result := run(t, `
		s := 0;
		for i in [1,2,3] { s := s + i; }
		[s, i];
	`)
	elems := mustList(t, result)
	if n := mustInt(t, elems[0]); n != 6 {
		t.Fatalf("expected s == 6, got %d", n)
	}
	if _, isOmega := elems[1].(value.OmegaValue); !isOmega {
		t.Fatalf("expected the loop variable to not leak outward, got %v", elems[1])
	}
}

// Scenario 3: a READ_WRITE parameter's post-call value is written back to
// the caller's argument l-value, while a VALUE-mode parameter's 1-based
// index read leaves the caller's binding untouched.
func TestScenarioReadWriteParameter(t *testing.T) {
	result := run(t, `
		procedure first_of(xs) { return xs(1); }
		procedure grow(rw xs) { xs := xs + [99]; }

		xs := [10,20,30];
		first := first_of(xs);
		grow(xs);
		[first, xs(1), xs(2), xs(3), xs(4)];
	`)
	elems := mustList(t, result)
	want := []int64{10, 10, 20, 30, 99}
	for i, w := range want {
		if n := mustInt(t, elems[i]); n != w {
			t.Fatalf("element %d: expected %d, got %d", i, w, n)
		}
	}
}

// Scenario 4: a non-procedure binding in the caller's scope is invisible
// across a functions-only call boundary (resolves to undefined).
func TestScenarioFunctionsOnlyLinking(t *testing.T) {
	result := run(t, `
		secret := 42;
		procedure peek() { return secret; }
		peek();
	`)
	if _, isOmega := result.(value.OmegaValue); !isOmega {
		t.Fatalf("expected peek() to see secret as undefined across the call boundary, got %v", result)
	}
}

// Scenario 4b: a procedure binding in the enclosing scope passes through
// a functions-only boundary unshadowed, so a procedure can call a sibling
// procedure defined earlier in the same scope.
func TestScenarioFunctionsOnlyAllowsProcedures(t *testing.T) {
	result := run(t, `
		procedure helper(x) { return x + 1; }
		procedure caller(x) { return helper(x); }
		caller(41);
	`)
	if n := mustInt(t, result); n != 42 {
		t.Fatalf("expected 42, got %v", result)
	}
}

// Scenario 5: a procedure value round-trips through to_term/from_term
// with the same structural identity and call behavior.
func TestScenarioTermRoundTrip(t *testing.T) {
	orig := run(t, `procedure bump(x) { return x + 1; }`)
	term := orig.ToTerm()

	restored, err := ast.ExpressionFromTerm(term)
	if err != nil {
		t.Fatalf("unexpected error decoding term: %v", err)
	}
	lit, ok := restored.(ast.ProcLit)
	if !ok {
		t.Fatalf("expected a procedure literal, got %T", restored)
	}

	e := eval.New()
	rebuilt, err := lit.Evaluate(e.RootScope(), e)
	if err != nil {
		t.Fatalf("unexpected error rebuilding the procedure: %v", err)
	}
	if !orig.EqualStructural(rebuilt) {
		t.Fatalf("expected the round-tripped procedure to be structurally equal to the original")
	}

	result, err := e.Invoke(rebuilt, []core.Value{value.IntVal(9)},
		[]ast.Expression{ast.Literal{V: value.IntVal(9)}}, e.RootScope())
	if err != nil {
		t.Fatalf("unexpected error invoking the round-tripped procedure: %v", err)
	}
	if n := mustInt(t, result); n != 10 {
		t.Fatalf("expected bump(9) == 10 after round trip, got %v", result)
	}
}

// Scenario 6: catchUsr only matches a user-raised throw; catchLng
// matches a language-level error such as division by zero.
func TestScenarioCatchSelectivityUserThrow(t *testing.T) {
	// The try/catch's "return" only unwinds cleanly inside a called
	// procedure body (procedure.Call is what catches *ast.ReturnSignal);
	// at true top level it would propagate out of Run as an error.
	result := run(t, `
		procedure run_it() {
			try {
				throw("boom");
			} catchUsr(e) {
				return 1;
			} catchLng(e) {
				return 2;
			}
		}
		run_it();
	`)
	if n := mustInt(t, result); n != 1 {
		t.Fatalf("expected the user-thrown error to route to catchUsr (1), got %v", result)
	}
}

func TestScenarioCatchSelectivityLanguageError(t *testing.T) {
	result := run(t, `
		procedure run_it() {
			try {
				return 1 / 0;
			} catchUsr(e) {
				return 1;
			} catchLng(e) {
				return 2;
			}
		}
		run_it();
	`)
	if n := mustInt(t, result); n != 2 {
		t.Fatalf("expected the language-level error to route to catchLng (2), got %v", result)
	}
}

// Pre-defined-function-fallback boundary: a known native resolves and
// executes, and an unresolved identifier evaluates to undefined both on
// first lookup and on the memoized second lookup.
func TestPredefinedFunctionResolutionAndMemoization(t *testing.T) {
	if n := mustInt(t, run(t, `size([1,2,3,4]);`)); n != 4 {
		t.Fatalf("expected size([1,2,3,4]) == 4, got %d", n)
	}

	e := eval.New()
	block, err := reader.Parse(`totally_unknown_name;`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	first, err := e.Run(block)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if _, isOmega := first.(value.OmegaValue); !isOmega {
		t.Fatalf("expected an unresolved identifier to evaluate to undefined, got %v", first)
	}
	second, err := e.Run(block)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if _, isOmega := second.(value.OmegaValue); !isOmega {
		t.Fatalf("expected the memoized miss to still evaluate to undefined, got %v", second)
	}
}
