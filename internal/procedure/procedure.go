// Package procedure implements callable procedure values: plain
// procedures, closures, and lambdas, including the call protocol
// (parameter binding, read-write write-back, closure capture refresh,
// and stack-depth tracking) from spec §4.3.
package procedure

import (
	"strings"

	"github.com/rill-lang/rill/internal/ast"
	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/param"
	"github.com/rill-lang/rill/internal/scope"
	"github.com/rill-lang/rill/internal/term"
	"github.com/rill-lang/rill/internal/value"
	"github.com/rill-lang/rill/internal/verror"
)

// Variant distinguishes the three procedure kinds (§4.3.3).
type Variant uint8

const (
	Plain Variant = iota
	Closure
	Lambda
)

func (v Variant) rank() int { return int(v) }

// Procedure is a callable value: params + body, plus the closure-only
// captured map and the transient bound_object (§3).
type Procedure struct {
	Variant  Variant
	Params   []param.Descriptor
	Body     ast.Block
	Captured map[string]core.Value // nil unless Variant == Closure
	// BoundObject is set only for a procedure retrieved through an
	// object member access (§3, §9's "model it as a parameter threaded
	// through call"). Serialization and comparison ignore it and
	// CloneDeep does not copy it; none of them resets it to nil on the
	// original procedure.
	BoundObject core.Value
}

// NewPlain builds a plain procedure.
func NewPlain(params []param.Descriptor, body ast.Block) *Procedure {
	return &Procedure{Variant: Plain, Params: params, Body: body}
}

// NewClosure builds a closure, capturing the given bindings (possibly
// empty, but never nil — §3: "captured... may be empty but not absent
// once capture has occurred").
func NewClosure(params []param.Descriptor, body ast.Block, captured map[string]core.Value) *Procedure {
	if captured == nil {
		captured = map[string]core.Value{}
	}
	return &Procedure{Variant: Closure, Params: params, Body: body, Captured: captured}
}

// NewLambda builds a lambda: a plain procedure whose parameters are all
// VALUE-mode (§4.3.3); a READ_WRITE descriptor in params is bound as
// VALUE. The body is the block given; it is not limited to a single
// expression.
func NewLambda(params []param.Descriptor, body ast.Block) *Procedure {
	valueParams := make([]param.Descriptor, len(params))
	for i, prm := range params {
		valueParams[i] = param.New(prm.Name)
	}
	return &Procedure{Variant: Lambda, Params: valueParams, Body: body}
}

func init() {
	ast.NewProcedure = func(
		params []param.Descriptor,
		body ast.Block,
		isClosure bool,
		isLambda bool,
		_ scope.Scope,
		captured map[string]core.Value,
	) (core.Value, error) {
		switch {
		case isClosure:
			return value.ProcVal(NewClosure(params, body, captured)), nil
		case isLambda:
			return value.ProcVal(NewLambda(params, body)), nil
		default:
			return value.ProcVal(NewPlain(params, body)), nil
		}
	}

	term.Register("^procedure", func(t core.Term) (core.Value, error) { return procFromTerm(t, Plain) })
	term.Register("^closure", func(t core.Term) (core.Value, error) { return procFromTerm(t, Closure) })
}

func procFromTerm(t core.Term, variant Variant) (core.Value, error) {
	params, body, err := decodeProcLitTerm(t)
	if err != nil {
		return nil, err
	}
	switch variant {
	case Closure:
		return value.ProcVal(NewClosure(params, body, nil)), nil
	default:
		return value.ProcVal(NewPlain(params, body)), nil
	}
}

// decodeProcLitTerm decodes the shared ^procedure/^closure body via
// ast's term decoder (kept as a tiny indirection so this file doesn't
// need to know ast.ProcLit's unexported internals).
func decodeProcLitTerm(t core.Term) ([]param.Descriptor, ast.Block, error) {
	e, err := ast.ExpressionFromTerm(t)
	if err != nil {
		return nil, ast.Block{}, err
	}
	pl, ok := e.(ast.ProcLit)
	if !ok {
		return nil, ast.Block{}, verror.NewTermConversion("term did not decode to a procedure literal")
	}
	return pl.Params, pl.Body, nil
}

// String renders the procedure's printed form (§4.3.4).
func (p *Procedure) String() string {
	var sb strings.Builder
	switch p.Variant {
	case Closure:
		sb.WriteString("closure(")
	case Lambda:
		sb.WriteString("lambda(")
	default:
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
	return sb.String()
}

// EqualStructural ignores Captured and BoundObject (§4.3.4).
func (p *Procedure) EqualStructural(other core.ProcedureView) bool {
	o, ok := other.(*Procedure)
	if !ok || p.Variant != o.Variant || len(p.Params) != len(o.Params) {
		return false
	}
	for i := range p.Params {
		if !p.Params[i].EqualStructural(o.Params[i]) {
			return false
		}
	}
	return p.Body.EqualStructural(o.Body)
}

// CompareTotal orders by variant rank, then param count, then pairwise
// param comparison, then body comparison (§4.3.4).
func (p *Procedure) CompareTotal(other core.ProcedureView) int {
	o, ok := other.(*Procedure)
	if !ok {
		return 0
	}
	if p.Variant.rank() != o.Variant.rank() {
		if p.Variant.rank() < o.Variant.rank() {
			return -1
		}
		return 1
	}
	if len(p.Params) != len(o.Params) {
		if len(p.Params) < len(o.Params) {
			return -1
		}
		return 1
	}
	for i := range p.Params {
		if c := p.Params[i].CompareTotal(o.Params[i]); c != 0 {
			return c
		}
	}
	return p.Body.CompareTotal(o.Body)
}

// CloneDeep always returns an independently owned instance — resolving
// the source's under-specified "clone returns same instance when no
// capture/bound_object present" quirk in favor of not conflating
// identity and value (§9 Open Question; see DESIGN.md).
func (p *Procedure) CloneDeep() core.ProcedureView {
	clone := &Procedure{Variant: p.Variant, Params: p.Params, Body: p.Body}
	if p.Variant == Closure {
		clone.Captured = make(map[string]core.Value, len(p.Captured))
		for k, v := range p.Captured {
			clone.Captured[k] = v.CloneDeep()
		}
	}
	return clone
}

// ToTerm serializes params and body; captured bindings are never
// serialized (§4.5) — round-tripping a closure yields one with an empty
// captured map that recaptures on next definition-time evaluation.
func (p *Procedure) ToTerm() core.Term {
	tag := "^procedure"
	if p.Variant == Closure {
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
