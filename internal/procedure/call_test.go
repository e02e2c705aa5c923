package procedure_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rill-lang/rill/internal/ast"
	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/eval"
	"github.com/rill-lang/rill/internal/param"
	"github.com/rill-lang/rill/internal/procedure"
	"github.com/rill-lang/rill/internal/trace"
	"github.com/rill-lang/rill/internal/value"
)

// These tests exercise the call protocol directly against hand-built AST,
// using eval.Evaluator as the ast.Host. This package is an external test
// package (procedure_test, not procedure) specifically so it can import
// eval, which itself imports procedure — a same-package test file would
// hit that cycle.

func TestPlainProcedureCallReturnsValue(t *testing.T) {
	// procedure(x) { return x + 1; }
	body := ast.Block{Statements: []ast.Expression{
		ast.Return{Value: ast.Binary{Op: "+", Left: ast.Ident{Name: "x"}, Right: ast.Literal{V: value.IntVal(1)}}},
	}}
	p := procedure.NewPlain([]param.Descriptor{param.New("x")}, body)

	e := eval.New()
	caller := e.RootScope()
	argExprs := []ast.Expression{ast.Literal{V: value.IntVal(41)}}
	result, err := p.Call(caller, []core.Value{value.IntVal(41)}, argExprs, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := value.AsInteger(result); n != 42 {
		t.Fatalf("expected 42, got %v", result)
	}
}

func TestClosureCaptureRefreshesAcrossCalls(t *testing.T) {
	// Equivalent to:
	//   n := 0;
	//   mkc := closure() { n := n + 1; return n; };
	// then calling mkc() three times.
	e := eval.New()
	root := e.RootScope()
	root.Store("n", value.IntVal(0))

	body := ast.Block{Statements: []ast.Expression{
		ast.Assign{
			Target: ast.Ident{Name: "n"},
			Value:  ast.Binary{Op: "+", Left: ast.Ident{Name: "n"}, Right: ast.Literal{V: value.IntVal(1)}},
		},
		ast.Return{Value: ast.Ident{Name: "n"}},
	}}
	captured := map[string]core.Value{"n": value.IntVal(0)}
	closure := procedure.NewClosure(nil, body, captured)

	want := []int64{1, 2, 3}
	for _, w := range want {
		result, err := closure.Call(root, nil, nil, e)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n, _ := value.AsInteger(result); n != w {
			t.Fatalf("expected %d, got %v", w, result)
		}
	}

	// The outer n (a separate binding from the closure's private capture)
	// is untouched by the closure's own internal counter.
	if v, found, _ := root.Lookup("n"); !found {
		t.Fatalf("expected outer n to still be bound")
	} else if n, _ := value.AsInteger(v); n != 0 {
		t.Fatalf("expected outer n to remain 0, got %v", v)
	}
}

func TestReadWriteParameterWritesBack(t *testing.T) {
	// procedure grow(rw xs) { xs := xs + [99]; }
	body := ast.Block{Statements: []ast.Expression{
		ast.Assign{
			Target: ast.Ident{Name: "xs"},
			Value: ast.Binary{
				Op:    "+",
				Left:  ast.Ident{Name: "xs"},
				Right: ast.ListLit{Elems: []ast.Expression{ast.Literal{V: value.IntVal(99)}}},
			},
		},
	}}
	p := procedure.NewPlain([]param.Descriptor{param.NewReadWrite("xs")}, body)

	e := eval.New()
	caller := e.RootScope()
	caller.Store("xs", value.NewList([]core.Value{value.IntVal(10), value.IntVal(20), value.IntVal(30)}))

	argExprs := []ast.Expression{ast.Ident{Name: "xs"}}
	xsVal, _, _ := caller.Lookup("xs")
	if _, err := p.Call(caller, []core.Value{xsVal}, argExprs, e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, _, _ := caller.Lookup("xs")
	list, ok := value.AsList(updated)
	if !ok || len(list.Elems) != 4 {
		t.Fatalf("expected xs to grow to 4 elements, got %v", updated)
	}
	if n, _ := value.AsInteger(list.Elems[3]); n != 99 {
		t.Fatalf("expected last element to be 99, got %v", list.Elems[3])
	}
}

func TestValueParameterDoesNotWriteBack(t *testing.T) {
	// procedure swap_first(xs) { return xs(1); } — VALUE mode, no write-back.
	body := ast.Block{Statements: []ast.Expression{
		ast.Return{Value: ast.Call{Callee: ast.Ident{Name: "xs"}, Args: []ast.Expression{ast.Literal{V: value.IntVal(1)}}}},
	}}
	p := procedure.NewPlain([]param.Descriptor{param.New("xs")}, body)

	e := eval.New()
	caller := e.RootScope()
	orig := value.NewList([]core.Value{value.IntVal(10), value.IntVal(20), value.IntVal(30)})
	caller.Store("xs", orig)

	argExprs := []ast.Expression{ast.Ident{Name: "xs"}}
	xsVal, _, _ := caller.Lookup("xs")
	result, err := p.Call(caller, []core.Value{xsVal}, argExprs, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := value.AsInteger(result); n != 10 {
		t.Fatalf("expected 10, got %v", result)
	}

	after, _, _ := caller.Lookup("xs")
	list, _ := value.AsList(after)
	if len(list.Elems) != 3 {
		t.Fatalf("expected caller's xs to remain unchanged at 3 elements, got %d", len(list.Elems))
	}
}

func TestCallStackDepthRestoredOnErrorPath(t *testing.T) {
	// procedure boom() { return 1 / 0; } — the body errors; depth must
	// still unwind via the deferred ExitCall.
	body := ast.Block{Statements: []ast.Expression{
		ast.Return{Value: ast.Binary{Op: "/", Left: ast.Literal{V: value.IntVal(1)}, Right: ast.Literal{V: value.IntVal(0)}}},
	}}
	p := procedure.NewPlain(nil, body)

	e := eval.New()
	caller := e.RootScope()
	store := caller.Arena()
	before := store.CallStackDepth()

	if _, err := p.Call(caller, nil, nil, e); err == nil {
		t.Fatalf("expected a division-by-zero error")
	}
	if store.CallStackDepth() != before {
		t.Fatalf("expected call stack depth restored to %d, got %d", before, store.CallStackDepth())
	}
}

func TestBoundObjectMembersAreVisibleToMethodBody(t *testing.T) {
	// procedure balance_of() { return balance; } bound to an object whose
	// member frame holds balance := 100 — step 3's object-linking path.
	e := eval.New()
	root := e.RootScope()
	members := root.NewChild(false, false, false)
	members.BindLocal("balance", value.IntVal(100))
	obj := value.NewObject("Account", members)

	body := ast.Block{Statements: []ast.Expression{
		ast.Return{Value: ast.Ident{Name: "balance"}},
	}}
	p := procedure.NewPlain(nil, body)
	p.BoundObject = obj

	result, err := p.Call(root, nil, nil, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := value.AsInteger(result); n != 100 {
		t.Fatalf("expected the method body to see the bound object's balance member (100), got %v", result)
	}
}

func TestBoundObjectDoesNotLeakCallerLocals(t *testing.T) {
	// The functions-only boundary at call entry still applies: a plain
	// (non-procedure, non-member) local in the caller is invisible, even
	// though the object's own members (from an entirely separate scope
	// arena — the object's creation site, not the call site) are.
	e := eval.New()
	root := e.RootScope()
	root.Store("secret", value.IntVal(7))

	objEval := eval.New()
	members := objEval.RootScope().NewChild(false, false, false)
	members.BindLocal("balance", value.IntVal(100))
	obj := value.NewObject("Account", members)

	body := ast.Block{Statements: []ast.Expression{
		ast.Return{Value: ast.Ident{Name: "secret"}},
	}}
	p := procedure.NewPlain(nil, body)
	p.BoundObject = obj

	result, err := p.Call(root, nil, nil, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, isOmega := result.(value.OmegaValue); !isOmega {
		t.Fatalf("expected the caller's unrelated local to stay invisible to the method body, got %v", result)
	}
}

func TestClosureCallEmitsCaptureRefreshTrace(t *testing.T) {
	prev := trace.Global
	defer func() { trace.Global = prev }()
	var buf bytes.Buffer
	session := trace.NewSession(&buf)
	session.Enable()
	trace.Global = session

	e := eval.New()
	root := e.RootScope()
	root.Store("n", value.IntVal(0))
	body := ast.Block{Statements: []ast.Expression{
		ast.Assign{
			Target: ast.Ident{Name: "n"},
			Value:  ast.Binary{Op: "+", Left: ast.Ident{Name: "n"}, Right: ast.Literal{V: value.IntVal(1)}},
		},
		ast.Return{Value: ast.Ident{Name: "n"}},
	}}
	captured := map[string]core.Value{"n": value.IntVal(0)}
	closure := procedure.NewClosure(nil, body, captured)

	if _, err := closure.Call(root, nil, nil, e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	dec := json.NewDecoder(&buf)
	for {
		var evt trace.Event
		if err := dec.Decode(&evt); err != nil {
			break
		}
		if evt.Kind == "capture-refresh" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a capture-refresh trace event from the closure call")
	}
}

func TestCloneDeepIsIndependent(t *testing.T) {
	body := ast.Block{Statements: []ast.Expression{ast.Return{Value: ast.Ident{Name: "n"}}}}
	captured := map[string]core.Value{"n": value.IntVal(1)}
	original := procedure.NewClosure(nil, body, captured)

	cloned := original.CloneDeep()
	clonedProc, ok := cloned.(*procedure.Procedure)
	if !ok {
		t.Fatalf("expected CloneDeep to return a *procedure.Procedure")
	}
	clonedProc.Captured["n"] = value.IntVal(999)

	if n, _ := value.AsInteger(original.Captured["n"]); n != 1 {
		t.Fatalf("expected original's captured n to stay 1, got %v", original.Captured["n"])
	}
}
