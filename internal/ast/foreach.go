package ast

import (
	"strings"

	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/scope"
	"github.com/rill-lang/rill/internal/value"
	"github.com/rill-lang/rill/internal/verror"
)

// ForEach iterates a list, running Body once per element in a fresh
// iterator child scope (§4.2's write_through/read_through iterator-block
// semantics, scenario 2). The loop variable is bound directly into the
// iterator frame on each pass — not via an ordinary store — so it never
// propagates outward regardless of what the body assigns through it.
type ForEach struct {
	VarName  string
	Iterable Expression
	Body     Block
}

func (f ForEach) Evaluate(s scope.Scope, h Host) (core.Value, error) {
	iterVal, err := f.Iterable.Evaluate(s, h)
	if err != nil {
		return nil, err
	}
	list, ok := value.AsList(iterVal)
	if !ok {
		return nil, verror.NewIncompatibleType("forEach", iterVal.GetType().String())
	}
	child := s.NewIteratorChild()
	defer child.ExitFrame()
	var last core.Value = value.NoneVal()
	for _, elem := range list.Elems {
		child.BindLocal(f.VarName, elem)
		v, err := f.Body.Evaluate(child, h)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (f ForEach) ToTerm() core.Term {
	return core.Term{Tag: "^forEach", Children: []core.Term{
		core.Atomic(f.VarName), f.Iterable.ToTerm(), f.Body.ToTerm(),
	}}
}
func (f ForEach) CollectVariables(bound, unbound map[string]bool) {
	f.Iterable.CollectVariables(bound, unbound)
	inner := map[string]bool{f.VarName: true}
	for k := range bound {
		inner[k] = true
	}
	f.Body.CollectVariables(inner, unbound)
}
func (f ForEach) AppendString(sb *strings.Builder, tabs int) {
	writeIndent(sb, tabs)
	sb.WriteString("forEach(")
	sb.WriteString(f.VarName)
	sb.WriteString(" in ")
	f.Iterable.AppendString(sb, 0)
	sb.WriteString(") ")
	sb.WriteString(f.Body.String())
}
