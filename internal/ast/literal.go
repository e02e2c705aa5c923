package ast

import (
	"strings"

	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/scope"
	"github.com/rill-lang/rill/internal/value"
)

// Literal wraps an already-constructed value as a constant expression
// (integer, string, rational, real, bool, or none literals from §6.1).
type Literal struct {
	V core.Value
}

func (l Literal) Evaluate(scope.Scope, Host) (core.Value, error) { return l.V, nil }
func (l Literal) ToTerm() core.Term                              { return l.V.ToTerm() }
func (l Literal) CollectVariables(map[string]bool, map[string]bool) {}
func (l Literal) AppendString(sb *strings.Builder, tabs int) {
	writeIndent(sb, tabs)
	sb.WriteString(l.V.String())
}

// ListLit evaluates each element expression and builds a list value
// (used for literals like [1,2,3] and the `+` concatenation target in
// scenario 3).
type ListLit struct {
	Elems []Expression
}

func (l ListLit) Evaluate(s scope.Scope, h Host) (core.Value, error) {
	vals := make([]core.Value, len(l.Elems))
	for i, e := range l.Elems {
		v, err := e.Evaluate(s, h)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return value.NewList(vals), nil
}
func (l ListLit) ToTerm() core.Term {
	children := make([]core.Term, len(l.Elems))
	for i, e := range l.Elems {
		children[i] = e.ToTerm()
	}
	return core.Term{Tag: "list", Children: children}
}
func (l ListLit) CollectVariables(bound, unbound map[string]bool) {
	for _, e := range l.Elems {
		e.CollectVariables(bound, unbound)
	}
}
func (l ListLit) AppendString(sb *strings.Builder, tabs int) {
	writeIndent(sb, tabs)
	sb.WriteByte('[')
	for i, e := range l.Elems {
		if i > 0 {
			sb.WriteByte(',')
		}
		e.AppendString(sb, 0)
	}
	sb.WriteByte(']')
}
