// Package ast implements the minimal expression/statement surface the
// interpreter core needs in order to exercise the closure, scope-flag,
// and term-conversion contracts end to end (§6.1). It is deliberately
// small: no operator precedence table, no pattern matching, none of the
// richness a full front end for "the language" would carry — those
// remain external collaborators per spec.
package ast

import (
	"strings"

	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/param"
	"github.com/rill-lang/rill/internal/scope"
)

// Host is the thin seam the ast package calls back into the evaluator
// through, so that ast never imports the procedure or eval packages
// (which in turn depend on ast for Block/Callable). It covers exactly
// the two driver touchpoints named in §4.6: invoking a callable value,
// and resolving an identifier that scope lookup missed.
type Host interface {
	// Invoke calls callee with the already-evaluated argVals, passing the
	// original argument expressions through so read-write write-back can
	// be applied to the correct l-values (§4.3.2).
	Invoke(callee core.Value, argVals []core.Value, argExprs []Expression, s scope.Scope) (core.Value, error)
	// ResolveIdentifier is consulted when a plain scope lookup misses: it
	// resolves pre-defined functions / host routines and memoizes the
	// outcome into the initial scope (§4.6).
	ResolveIdentifier(name string, s scope.Scope) (core.Value, error)
}

// Expression is any evaluable AST node (§6.1).
type Expression interface {
	Evaluate(s scope.Scope, h Host) (core.Value, error)
	ToTerm() core.Term
	// CollectVariables adds every identifier this node assigns to into
	// bound, and every identifier this node reads without having first
	// assigned it (within the same traversal) into unbound (§4.3.1).
	CollectVariables(bound, unbound map[string]bool)
	AppendString(sb *strings.Builder, tabs int)
}

// Assignable is an Expression that can also appear on the left of an
// assignment or be bound as a read-write parameter's l-value (§4.4, §6.1).
type Assignable interface {
	Expression
	Assign(s scope.Scope, h Host, v core.Value) error
}

// ReturnSignal is how a `return` statement unwinds a Block: Evaluate
// returns it as the error result, and procedure.Call recognizes and
// unwraps it rather than treating it as a failure; try/catch passes it
// through uncaught (§9
// DESIGN NOTES: "exceptions used for return and control flow... become
// an explicit scope guard / sum type in the target").
type ReturnSignal struct {
	Value core.Value
}

func (r *ReturnSignal) Error() string { return "return" }

func writeIndent(sb *strings.Builder, tabs int) {
	for i := 0; i < tabs; i++ {
		sb.WriteByte('\t')
	}
}

// NewProcedure is a hook the procedure package installs from its init(),
// letting ProcLit.Evaluate construct a procedure.Procedure value without
// ast importing the procedure package (which itself needs ast.Block as
// its Body type and ast.Host/Callable to invoke calls).
var NewProcedure func(
	params []param.Descriptor,
	body Block,
	isClosure bool,
	isLambda bool,
	definingScope scope.Scope,
	captured map[string]core.Value,
) (core.Value, error)
