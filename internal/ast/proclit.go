package ast

import (
	"strings"

	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/param"
	"github.com/rill-lang/rill/internal/scope"
)

// ProcLit is a procedure/closure/lambda literal (§4.3.1, §4.3.3). Its
// capture set is computed at evaluation time from the body's own
// bound/unbound classification: any identifier the body reads without
// first binding it, that is found in the defining scope when the
// literal is evaluated, joins the closure's captured map.
type ProcLit struct {
	Params    []param.Descriptor
	Body      Block
	IsClosure bool
	IsLambda  bool
}

func (p ProcLit) Evaluate(s scope.Scope, h Host) (core.Value, error) {
	var captured map[string]core.Value
	if p.IsClosure {
		captured = make(map[string]core.Value)
		bound := make(map[string]bool, len(p.Params))
		for _, prm := range p.Params {
			bound[prm.Name] = true
		}
		unbound := make(map[string]bool)
		p.Body.CollectVariables(bound, unbound)
		for name := range unbound {
			if v, found, _ := s.Lookup(name); found {
				captured[name] = v
			}
		}
	}
	return NewProcedure(p.Params, p.Body, p.IsClosure, p.IsLambda, s, captured)
}

func (p ProcLit) ToTerm() core.Term {
	tag := "^procedure"
	if p.IsClosure {
		tag = "^closure"
	}
	paramChildren := make([]core.Term, len(p.Params))
	for i, prm := range p.Params {
		paramChildren[i] = prm.ToTerm()
	}
	return core.Term{Tag: tag, Children: []core.Term{
		{Tag: "^params", Children: paramChildren},
		p.Body.ToTerm(),
	}}
}

func (p ProcLit) CollectVariables(bound, _ map[string]bool) {
	// A procedure literal's own body is a fresh scope: it does not
	// contribute its internal bound/unbound sets to the enclosing
	// construct's classification beyond the capture set already
	// computed at evaluation time.
	_ = bound
}

func (p ProcLit) AppendString(sb *strings.Builder, tabs int) {
	writeIndent(sb, tabs)
	if p.IsClosure {
		sb.WriteString("closure(")
	} else {
		sb.WriteString("procedure(")
	}
	for i, prm := range p.Params {
		if i > 0 {
			sb.WriteByte(',')
		}
		if prm.Mode == param.READ_WRITE {
			sb.WriteString("rw ")
		}
		sb.WriteString(prm.Name)
	}
	sb.WriteString(") ")
	sb.WriteString(p.Body.String())
}
