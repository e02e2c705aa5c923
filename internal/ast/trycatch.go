package ast

import (
	"strings"

	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/scope"
	"github.com/rill-lang/rill/internal/value"
	"github.com/rill-lang/rill/internal/verror"
)

// CatchClause is one `catchUsr(e) {...}` / `catchLng(e) {...}` arm.
type CatchClause struct {
	VarName string
	Body    Block
}

// Try implements the two selective catch variants from scenario 6:
// CatchUsr matches only verror.KindUser, CatchLng matches every other
// kind. A *ReturnSignal is never caught here — it passes straight
// through, since it is control flow, not an error (§9 DESIGN NOTES).
type Try struct {
	Body     Block
	CatchUsr *CatchClause
	CatchLng *CatchClause
}

func (t Try) Evaluate(s scope.Scope, h Host) (core.Value, error) {
	v, err := t.Body.Evaluate(s, h)
	if err == nil {
		return v, nil
	}
	if _, isReturn := err.(*ReturnSignal); isReturn {
		return nil, err
	}
	verr, ok := err.(*verror.Error)
	if !ok {
		return nil, err
	}
	var clause *CatchClause
	if verr.Kind == verror.KindUser {
		clause = t.CatchUsr
	} else {
		clause = t.CatchLng
	}
	if clause == nil {
		return nil, err
	}
	child := s.NewChild(false, false, false)
	child.BindLocal(clause.VarName, value.StrVal(verr.Error()))
	return clause.Body.Evaluate(child, h)
}

func (t Try) ToTerm() core.Term {
	children := []core.Term{t.Body.ToTerm()}
	children = append(children, catchTerm("catchUsr", t.CatchUsr), catchTerm("catchLng", t.CatchLng))
	return core.Term{Tag: "^try", Children: children}
}

func catchTerm(tag string, c *CatchClause) core.Term {
	if c == nil {
		return core.Term{Tag: "none"}
	}
	return core.Term{Tag: tag, Children: []core.Term{core.Atomic(c.VarName), c.Body.ToTerm()}}
}

func (t Try) CollectVariables(bound, unbound map[string]bool) {
	t.Body.CollectVariables(bound, unbound)
	for _, c := range []*CatchClause{t.CatchUsr, t.CatchLng} {
		if c == nil {
			continue
		}
		inner := map[string]bool{c.VarName: true}
		for k := range bound {
			inner[k] = true
		}
		c.Body.CollectVariables(inner, unbound)
	}
}

func (t Try) AppendString(sb *strings.Builder, tabs int) {
	writeIndent(sb, tabs)
	sb.WriteString("try ")
	sb.WriteString(t.Body.String())
	if t.CatchUsr != nil {
		sb.WriteString(" catchUsr(" + t.CatchUsr.VarName + ") " + t.CatchUsr.Body.String())
	}
	if t.CatchLng != nil {
		sb.WriteString(" catchLng(" + t.CatchLng.VarName + ") " + t.CatchLng.Body.String())
	}
}

// Return is the `return expr;` statement.
type Return struct {
	Value Expression
}

func (r Return) Evaluate(s scope.Scope, h Host) (core.Value, error) {
	var v core.Value = value.NoneVal()
	if r.Value != nil {
		var err error
		v, err = r.Value.Evaluate(s, h)
		if err != nil {
			return nil, err
		}
	}
	return nil, &ReturnSignal{Value: v}
}
func (r Return) ToTerm() core.Term {
	if r.Value == nil {
		return core.Term{Tag: "^return"}
	}
	return core.Term{Tag: "^return", Children: []core.Term{r.Value.ToTerm()}}
}
func (r Return) CollectVariables(bound, unbound map[string]bool) {
	if r.Value != nil {
		r.Value.CollectVariables(bound, unbound)
	}
}
func (r Return) AppendString(sb *strings.Builder, tabs int) {
	writeIndent(sb, tabs)
	sb.WriteString("return")
	if r.Value != nil {
		sb.WriteByte(' ')
		r.Value.AppendString(sb, 0)
	}
}

// Throw raises a user-thrown error carrying payload's string rendering
// (scenario 6's `throw("u")`).
type Throw struct {
	Payload Expression
}

func (t Throw) Evaluate(s scope.Scope, h Host) (core.Value, error) {
	v, err := t.Payload.Evaluate(s, h)
	if err != nil {
		return nil, err
	}
	return nil, verror.NewUserThrown(v.String())
}
func (t Throw) ToTerm() core.Term {
	return core.Term{Tag: "^throw", Children: []core.Term{t.Payload.ToTerm()}}
}
func (t Throw) CollectVariables(bound, unbound map[string]bool) {
	t.Payload.CollectVariables(bound, unbound)
}
func (t Throw) AppendString(sb *strings.Builder, tabs int) {
	writeIndent(sb, tabs)
	sb.WriteString("throw(")
	t.Payload.AppendString(sb, 0)
	sb.WriteByte(')')
}
