package reader

import (
	"testing"

	"github.com/rill-lang/rill/internal/ast"
	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/param"
)

func mustParse(t *testing.T, src string) ast.Block {
	t.Helper()
	block, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	return block
}

func TestParseCounterClosure(t *testing.T) {
	block := mustParse(t, `
		n := 0;
		mkc := closure() { n := n + 1; return n; };
	`)
	if len(block.Statements) != 2 {
		t.Fatalf("expected 2 top-level statements, got %d", len(block.Statements))
	}
	assign, ok := block.Statements[1].(ast.Assign)
	if !ok {
		t.Fatalf("expected the second statement to be an assignment, got %T", block.Statements[1])
	}
	lit, ok := assign.Value.(ast.ProcLit)
	if !ok || !lit.IsClosure {
		t.Fatalf("expected a closure literal, got %#v", assign.Value)
	}
	if len(lit.Body.Statements) != 2 {
		t.Fatalf("expected 2 statements in the closure body, got %d", len(lit.Body.Statements))
	}
}

func TestParseForEachLoop(t *testing.T) {
	block := mustParse(t, `
		s := 0;
		for i in [1,2,3] { s := s + i; }
	`)
	loop, ok := block.Statements[1].(ast.ForEach)
	if !ok {
		t.Fatalf("expected a ForEach statement, got %T", block.Statements[1])
	}
	if loop.VarName != "i" {
		t.Fatalf("expected loop variable i, got %q", loop.VarName)
	}
	list, ok := loop.Iterable.(ast.ListLit)
	if !ok || len(list.Elems) != 3 {
		t.Fatalf("expected a 3-element list literal, got %#v", loop.Iterable)
	}
}

func TestParseNamedProcedureWithReadWriteParam(t *testing.T) {
	block := mustParse(t, `
		procedure swap_first(rw xs) { return xs(1); }
	`)
	assign, ok := block.Statements[0].(ast.Assign)
	if !ok {
		t.Fatalf("expected named-procedure sugar to desugar to an assignment, got %T", block.Statements[0])
	}
	if id, ok := assign.Target.(ast.Ident); !ok || id.Name != "swap_first" {
		t.Fatalf("expected target swap_first, got %#v", assign.Target)
	}
	lit, ok := assign.Value.(ast.ProcLit)
	if !ok {
		t.Fatalf("expected a procedure literal, got %T", assign.Value)
	}
	if len(lit.Params) != 1 || lit.Params[0].Name != "xs" || lit.Params[0].Mode != param.READ_WRITE {
		t.Fatalf("expected a single read-write xs parameter, got %#v", lit.Params)
	}
}

func TestParseMakeGlobal(t *testing.T) {
	block := mustParse(t, `makeGlobal(x);`)
	if _, ok := block.Statements[0].(ast.MakeGlobal); !ok {
		t.Fatalf("expected a MakeGlobal statement, got %T", block.Statements[0])
	}
}

func TestParseTryCatchSelectivity(t *testing.T) {
	block := mustParse(t, `
		try {
			throw("boom");
		} catchUsr(e) {
			return e;
		} catchLng(e) {
			return e;
		}
	`)
	tryStmt, ok := block.Statements[0].(ast.Try)
	if !ok {
		t.Fatalf("expected a Try statement, got %T", block.Statements[0])
	}
	if tryStmt.CatchUsr == nil || tryStmt.CatchLng == nil {
		t.Fatalf("expected both catch clauses to be present")
	}
	if _, ok := tryStmt.Body.Statements[0].(ast.Throw); !ok {
		t.Fatalf("expected the try body's first statement to be a throw")
	}
}

func TestParseIndexCallSugar(t *testing.T) {
	block := mustParse(t, `xs := [10,20,30]; xs(1);`)
	call, ok := block.Statements[1].(ast.Call)
	if !ok {
		t.Fatalf("expected a Call expression, got %T", block.Statements[1])
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected a single index argument, got %d", len(call.Args))
	}
}

func TestParseRationalLiteral(t *testing.T) {
	block := mustParse(t, `3/4;`)
	lit, ok := block.Statements[0].(ast.Literal)
	if !ok {
		t.Fatalf("expected a literal, got %T", block.Statements[0])
	}
	if lit.V.GetType() != core.TypeRational {
		t.Fatalf("expected a rational literal, got %v", lit.V.GetType())
	}
	if lit.V.String() != "3/4" {
		t.Fatalf("expected 3/4, got %s", lit.V.String())
	}
}

func TestParseRealLiteral(t *testing.T) {
	block := mustParse(t, `1.5;`)
	lit, ok := block.Statements[0].(ast.Literal)
	if !ok {
		t.Fatalf("expected a literal, got %T", block.Statements[0])
	}
	if lit.V.GetType() != core.TypeReal {
		t.Fatalf("expected a real literal, got %v", lit.V.GetType())
	}
	if lit.V.String() != "1.5" {
		t.Fatalf("expected 1.5, got %s", lit.V.String())
	}
}

func TestParseSpacedSlashStaysDivision(t *testing.T) {
	block := mustParse(t, `1 / 0;`)
	bin, ok := block.Statements[0].(ast.Binary)
	if !ok {
		t.Fatalf("expected a binary expression, got %T", block.Statements[0])
	}
	left, ok := bin.Left.(ast.Literal)
	if !ok || left.V.GetType() != core.TypeInteger {
		t.Fatalf("expected an integer left operand, got %#v", bin.Left)
	}
	right, ok := bin.Right.(ast.Literal)
	if !ok || right.V.GetType() != core.TypeInteger {
		t.Fatalf("expected an integer right operand, got %#v", bin.Right)
	}
}

func TestParseUnterminatedBlockIsAnError(t *testing.T) {
	if _, err := Parse(`procedure f() { return 1;`); err == nil {
		t.Fatalf("expected a parse error for an unterminated block")
	}
}
