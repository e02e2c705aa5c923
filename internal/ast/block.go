package ast

import (
	"strings"

	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/scope"
	"github.com/rill-lang/rill/internal/value"
)

// Block is an ordered statement list forming a procedure body (§3, §6.1).
// It is the concrete type procedure.Procedure's Body field holds.
type Block struct {
	Statements []Expression
}

// Evaluate runs each statement in order. The block's own value is its
// last statement's value; a *ReturnSignal from any statement propagates
// immediately without running the remaining statements.
func (b Block) Evaluate(s scope.Scope, h Host) (core.Value, error) {
	var result core.Value = value.NoneVal()
	for _, stmt := range b.Statements {
		v, err := stmt.Evaluate(s, h)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// ToTerm renders the block as ^block(stmt_term, ...).
func (b Block) ToTerm() core.Term {
	children := make([]core.Term, len(b.Statements))
	for i, stmt := range b.Statements {
		children[i] = stmt.ToTerm()
	}
	return core.Term{Tag: "^block", Children: children}
}

// CollectVariables walks every statement, threading bound/unbound
// classification through in statement order (§4.3.1): an identifier
// assigned by an earlier statement counts as bound for a later one.
func (b Block) CollectVariables(bound, unbound map[string]bool) {
	for _, stmt := range b.Statements {
		stmt.CollectVariables(bound, unbound)
	}
}

// EqualStructural compares two blocks statement-by-statement via term
// equality, used by procedure comparison (§4.3.4).
func (b Block) EqualStructural(o Block) bool {
	if len(b.Statements) != len(o.Statements) {
		return false
	}
	for i := range b.Statements {
		if !termEqual(b.Statements[i].ToTerm(), o.Statements[i].ToTerm()) {
			return false
		}
	}
	return true
}

// CompareTotal orders blocks by length, then by statement term string.
func (b Block) CompareTotal(o Block) int {
	if len(b.Statements) != len(o.Statements) {
		if len(b.Statements) < len(o.Statements) {
			return -1
		}
		return 1
	}
	for i := range b.Statements {
		if c := termCompare(b.Statements[i].ToTerm(), o.Statements[i].ToTerm()); c != 0 {
			return c
		}
	}
	return 0
}

func (b Block) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, stmt := range b.Statements {
		if i > 0 {
			sb.WriteByte(' ')
		}
		stmt.AppendString(&sb, 0)
		sb.WriteByte(';')
	}
	sb.WriteByte('}')
	return sb.String()
}
