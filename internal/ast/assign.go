package ast

import (
	"strings"

	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/scope"
	"github.com/rill-lang/rill/internal/verror"
)

// Assign is `target := value` (§6.1).
type Assign struct {
	Target Assignable
	Value  Expression
}

func (a Assign) Evaluate(s scope.Scope, h Host) (core.Value, error) {
	v, err := a.Value.Evaluate(s, h)
	if err != nil {
		return nil, err
	}
	if err := a.Target.Assign(s, h, v); err != nil {
		return nil, err
	}
	return v, nil
}
func (a Assign) ToTerm() core.Term {
	return core.Term{Tag: "^assign", Children: []core.Term{a.Target.ToTerm(), a.Value.ToTerm()}}
}
func (a Assign) CollectVariables(bound, unbound map[string]bool) {
	a.Value.CollectVariables(bound, unbound)
	if id, ok := a.Target.(Ident); ok {
		bound[id.Name] = true
	} else {
		a.Target.CollectVariables(bound, unbound)
	}
}
func (a Assign) AppendString(sb *strings.Builder, tabs int) {
	writeIndent(sb, tabs)
	a.Target.AppendString(sb, 0)
	sb.WriteString(" := ")
	a.Value.AppendString(sb, 0)
}

// notAssignable is returned by expressions that cannot appear as an
// assignment or read-write l-value target (§7 undefined-operation, §8
// boundary: "argument expression is a non-assignable literal").
type notAssignableExpr struct {
	Expression
}

func (n notAssignableExpr) Assign(scope.Scope, Host, core.Value) error {
	return verror.NewUndefinedOperation("expression is not assignable")
}

// AsAssignable wraps any Expression so it satisfies Assignable, failing
// at Assign-time rather than at parse time — this is how a read-write
// parameter bound to a literal argument is handled (§4.4, §8 boundary):
// the call still succeeds, and the write-back is silently dropped.
func AsAssignable(e Expression) Assignable {
	if a, ok := e.(Assignable); ok {
		return a
	}
	return notAssignableExpr{e}
}
