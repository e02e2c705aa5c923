package procedure

import (
	"strconv"

	"github.com/rill-lang/rill/internal/ast"
	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/param"
	"github.com/rill-lang/rill/internal/scope"
	"github.com/rill-lang/rill/internal/trace"
	"github.com/rill-lang/rill/internal/value"
	"github.com/rill-lang/rill/internal/verror"
)

// maxCallDepth stands in for the host stack-overflow condition (§5's
// "only interruption mechanism"): the tree-walking evaluator has no
// other bound on recursion depth, so this is where a runaway recursive
// call is turned into a catchable language-level error rather than a Go
// runtime crash.
const maxCallDepth = 2000

type writeBackEntry struct {
	target ast.Assignable
	value  core.Value
}

// Call runs the full call protocol from §4.3.2: functions-only child
// frame (optionally linked to an owning object's members), closure
// capture replay, VALUE-clone vs READ_WRITE-passthrough parameter
// binding, body evaluation, write-back, and closure capture refresh —
// all restoring the caller scope and call_stack_depth on every exit path.
func (p *Procedure) Call(caller scope.Scope, argVals []core.Value, argExprs []ast.Expression, h ast.Host) (core.Value, error) {
	store := caller.Arena()
	depth := store.EnterCall()
	defer store.ExitCall()
	if depth > maxCallDepth {
		return nil, verror.NewStackOverflow(depth)
	}
	if len(argVals) != len(p.Params) {
		return nil, verror.NewUndefinedOperation("argument count does not match parameter count")
	}

	callee := caller.NewFunctionsOnlyChild()
	defer callee.ExitFrame()
	if p.BoundObject != nil {
		if obj, ok := p.BoundObject.(value.ObjectInstance); ok {
			// Bind members directly into callee rather than through an
			// intermediate parent frame: the current frame's own bindings
			// are never subject to restrict_to_functions filtering (only
			// ancestor frames are), so a second functions-only wrapper
			// around a members frame would shadow the object's plain data
			// members from the method body — the opposite of step 3's
			// intent to link the callee to those members.
			for k, v := range obj.Members.CollectAllBindings(true) {
				callee.BindLocal(k, v)
			}
		}
	}

	if p.Variant == Closure {
		for name, v := range p.Captured {
			callee.BindLocal(name, v)
		}
	}

	var readWrite []int
	for i, prm := range p.Params {
		if prm.Mode == param.VALUE {
			prm.AssignInto(callee, argVals[i].CloneDeep())
		} else {
			prm.AssignInto(callee, argVals[i])
			readWrite = append(readWrite, i)
		}
	}
	argVals = nil

	bodyResult, err := p.Body.Evaluate(callee, h)
	if rs, ok := err.(*ast.ReturnSignal); ok {
		bodyResult, err = rs.Value, nil
	}

	if err != nil {
		return nil, err
	}

	var writeBacks []writeBackEntry
	for _, i := range readWrite {
		v, rerr := p.Params[i].ReadBack(callee)
		if rerr != nil {
			continue
		}
		if target, ok := argExprs[i].(ast.Assignable); ok {
			writeBacks = append(writeBacks, writeBackEntry{target: target, value: v})
		}
		// Non-assignable argument expressions (e.g. a literal) are
		// silently dropped here: the pre-call binding was copy-in only
		// (§4.4, §8 boundary case).
	}
	if p.Variant == Closure {
		for name := range p.Captured {
			if v, found, _ := callee.Lookup(name); found {
				p.Captured[name] = v
			}
		}
		trace.Global.Emit(trace.Event{Kind: "capture-refresh", Detail: strconv.Itoa(len(p.Captured)) + " binding(s)"})
	}

	for _, wb := range writeBacks {
		_ = wb.target.Assign(caller, h, wb.value)
	}

	if bodyResult == nil {
		bodyResult = value.NoneVal()
	}
	return bodyResult, nil
}
