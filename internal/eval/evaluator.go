// Package eval wires the scope, procedure, and stdlib packages together
// behind the ast.Host seam, giving the minimal AST something to call
// back into for invocation and pre-defined-function resolution (§4.6).
package eval

import (
	"github.com/rill-lang/rill/internal/ast"
	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/param"
	"github.com/rill-lang/rill/internal/procedure"
	"github.com/rill-lang/rill/internal/scope"
	"github.com/rill-lang/rill/internal/stdlib"
	"github.com/rill-lang/rill/internal/trace"
	"github.com/rill-lang/rill/internal/value"
	"github.com/rill-lang/rill/internal/verror"
)

// nativeCallable is implemented by stdlib.Function; kept unexported here
// so eval is the only package that needs to know both procedure.Procedure
// and stdlib.Function can occupy the "callable value" slot.
type nativeCallable interface {
	Name() string
	Execute(args []core.Value) (core.Value, []core.Value, error)
	Params() []param.Descriptor
}

// Evaluator drives a single execution context: one scope.Store, one
// call-stack trail for error diagnostics (§5, §7's Where context).
type Evaluator struct {
	store     *scope.Store
	callStack []string
}

// New creates a fresh execution context with its own global and initial
// frames (§5).
func New() *Evaluator {
	return &Evaluator{
		store:     scope.NewStore(),
		callStack: []string{"(top level)"},
	}
}

// Store exposes the underlying frame arena, e.g. for a REPL driver that
// wants to inspect the global scope between statements.
func (e *Evaluator) Store() *scope.Store { return e.store }

// RootScope returns a fresh top-level scope parented on the global frame,
// the entry point for running a top-level block (§5).
func (e *Evaluator) RootScope() scope.Scope { return e.store.NewRootChild() }

// Run evaluates block in a fresh root scope and returns its result.
func (e *Evaluator) Run(block ast.Block) (core.Value, error) {
	return block.Evaluate(e.RootScope(), e)
}

// Invoke implements ast.Host: it dispatches to procedure.Procedure.Call
// for user-defined callables and to a direct native execution path for
// pre-defined functions (§4.3.2, §4.6).
func (e *Evaluator) Invoke(callee core.Value, argVals []core.Value, argExprs []ast.Expression, s scope.Scope) (core.Value, error) {
	view, ok := value.AsProcedure(callee)
	if !ok {
		return nil, verror.NewUndefinedOperation("value is not callable")
	}

	switch c := view.(type) {
	case *procedure.Procedure:
		e.pushCall("(anonymous)")
		defer e.popCall()
		trace.Global.Emit(trace.Event{Kind: "call-enter", Depth: e.store.CallStackDepth(), Procedure: "(anonymous)"})
		result, err := c.Call(s, argVals, argExprs, e)
		trace.Global.Emit(trace.Event{Kind: "call-exit", Depth: e.store.CallStackDepth(), Procedure: "(anonymous)"})
		if err != nil {
			return nil, e.annotate(err)
		}
		return result, nil
	case nativeCallable:
		return e.invokeNative(c, argVals, argExprs, s)
	default:
		return nil, verror.NewUndefinedOperation("value is not callable")
	}
}

func (e *Evaluator) invokeNative(fn nativeCallable, argVals []core.Value, argExprs []ast.Expression, s scope.Scope) (core.Value, error) {
	e.pushCall(fn.Name())
	defer e.popCall()

	result, writeBacks, err := fn.Execute(argVals)
	if err != nil {
		return nil, e.annotate(err)
	}
	// Native READ_WRITE write-back is positional, same convention as the
	// procedure call protocol's write-back step (§4.3.2 step 8): only
	// assignable argument expressions receive it, in declared order.
	wi := 0
	for i, prm := range fn.Params() {
		if prm.Mode != param.READ_WRITE {
			continue
		}
		if wi >= len(writeBacks) {
			break
		}
		v := writeBacks[wi]
		wi++
		if i < len(argExprs) {
			if target, ok := argExprs[i].(ast.Assignable); ok {
				_ = target.Assign(s, e, v)
			}
		}
	}
	if result == nil {
		result = value.NoneVal()
	}
	return result, nil
}

// ResolveIdentifier implements ast.Host's pre-defined-function fallback
// (§4.6): a miss in the ordinary scope chain is resolved against the
// native library and memoized into the initial frame, so a second lookup
// of the same name never repeats the search — including when the name
// resolves to nothing at all, cached as the undefined value.
func (e *Evaluator) ResolveIdentifier(name string, _ scope.Scope) (core.Value, error) {
	initial := e.store.Initial()
	if v, found, _ := initial.Lookup(name); found {
		return v, nil
	}
	if fn, ok := stdlib.Lookup(name); ok {
		v := value.ProcVal(fn)
		initial.BindLocal(name, v)
		return v, nil
	}
	initial.BindLocal(name, value.NoneVal())
	return value.NoneVal(), nil
}

func (e *Evaluator) pushCall(name string) {
	if name == "" {
		name = "(anonymous)"
	}
	e.callStack = append(e.callStack, name)
}

func (e *Evaluator) popCall() {
	if len(e.callStack) <= 1 {
		return
	}
	e.callStack = e.callStack[:len(e.callStack)-1]
}

// CallStack returns the current call trail, most recent call last.
func (e *Evaluator) CallStack() []string {
	out := make([]string, len(e.callStack))
	copy(out, e.callStack)
	return out
}

// annotate attaches Where context to an error the first time it crosses
// a call boundary, without overwriting context a deeper frame already set.
func (e *Evaluator) annotate(err error) error {
	ve, ok := err.(*verror.Error)
	if !ok {
		return err
	}
	where := make([]string, len(e.callStack))
	for i := range e.callStack {
		where[i] = e.callStack[len(e.callStack)-1-i]
	}
	trace.Global.Emit(trace.Event{Kind: "error", Depth: e.store.CallStackDepth(), Detail: ve.Error()})
	return ve.SetWhere(where)
}
