package ast

import (
	"strings"

	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/scope"
	"github.com/rill-lang/rill/internal/value"
	"github.com/rill-lang/rill/internal/verror"
)

// Call is `callee(arg1, arg2, ...)` (§6.1). When callee evaluates to a
// procedure it is invoked through Host; when it evaluates to a list or
// tuple with a single integer argument it is treated as 1-based indexing
// sugar (scenario 3's `xs(1)`), since the minimal AST has no separate
// index-expression syntax.
type Call struct {
	Callee Expression
	Args   []Expression
}

func (c Call) Evaluate(s scope.Scope, h Host) (core.Value, error) {
	calleeVal, err := c.Callee.Evaluate(s, h)
	if err != nil {
		return nil, err
	}
	argVals := make([]core.Value, len(c.Args))
	for i, a := range c.Args {
		v, err := a.Evaluate(s, h)
		if err != nil {
			return nil, err
		}
		argVals[i] = v
	}
	if calleeVal.GetType() == core.TypeProcedure {
		return h.Invoke(calleeVal, argVals, c.Args, s)
	}
	if len(argVals) == 1 {
		if idx, ok := value.AsInteger(argVals[0]); ok {
			return indexInto(calleeVal, idx)
		}
	}
	return nil, verror.NewUndefinedOperation("call target is neither a procedure nor an indexable container")
}

func indexInto(v core.Value, idx int64) (core.Value, error) {
	var elems []core.Value
	switch vv := v.(type) {
	case *value.ListValue:
		elems = vv.Elems
	case *value.TupleValue:
		elems = vv.Elems
	default:
		return nil, verror.NewIncompatibleType("index", v.GetType().String())
	}
	if idx < 1 || int(idx) > len(elems) {
		return nil, verror.NewLanguage("index-out-of-range", [3]string{})
	}
	return elems[idx-1], nil
}

func (c Call) ToTerm() core.Term {
	children := make([]core.Term, 0, len(c.Args)+1)
	children = append(children, c.Callee.ToTerm())
	for _, a := range c.Args {
		children = append(children, a.ToTerm())
	}
	return core.Term{Tag: "^call", Children: children}
}
func (c Call) CollectVariables(bound, unbound map[string]bool) {
	c.Callee.CollectVariables(bound, unbound)
	for _, a := range c.Args {
		a.CollectVariables(bound, unbound)
	}
}
func (c Call) AppendString(sb *strings.Builder, tabs int) {
	writeIndent(sb, tabs)
	c.Callee.AppendString(sb, 0)
	sb.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		a.AppendString(sb, 0)
	}
	sb.WriteByte(')')
}
