package ast

import (
	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/param"
	"github.com/rill-lang/rill/internal/term"
	"github.com/rill-lang/rill/internal/verror"
)

func procLitFromTerm(t core.Term) (ProcLit, error) {
	if len(t.Children) != 2 || t.Children[0].Tag != "^params" {
		return ProcLit{}, verror.NewTermConversion("malformed " + t.Tag + " term")
	}
	params := make([]param.Descriptor, len(t.Children[0].Children))
	for i, pt := range t.Children[0].Children {
		d, err := param.FromTerm(pt)
		if err != nil {
			return ProcLit{}, err
		}
		params[i] = d
	}
	body, err := BlockFromTerm(t.Children[1])
	if err != nil {
		return ProcLit{}, err
	}
	return ProcLit{Params: params, Body: body, IsClosure: t.Tag == "^closure"}, nil
}

// BlockFromTerm rebuilds a Block from a ^block(...) term, the inverse of
// Block.ToTerm. It is what the procedure package's ^procedure/^closure
// term constructors call to decode a serialized body (§4.5).
func BlockFromTerm(t core.Term) (Block, error) {
	if t.Tag != "^block" {
		return Block{}, verror.NewTermConversion("expected ^block, got " + t.Tag)
	}
	stmts := make([]Expression, len(t.Children))
	for i, c := range t.Children {
		e, err := ExpressionFromTerm(c)
		if err != nil {
			return Block{}, err
		}
		stmts[i] = e
	}
	return Block{Statements: stmts}, nil
}

// ExpressionFromTerm rebuilds an Expression from its term form, covering
// every node tag this package's ToTerm methods emit.
func ExpressionFromTerm(t core.Term) (Expression, error) {
	if t.IsAtom() {
		v, err := term.Construct(t)
		if err != nil {
			return nil, err
		}
		return Literal{V: v}, nil
	}
	switch t.Tag {
	case "^ident":
		name, err := atomString(t, 0)
		if err != nil {
			return nil, err
		}
		return Ident{Name: name}, nil
	case "^make_global":
		name, err := atomString(t, 0)
		if err != nil {
			return nil, err
		}
		return MakeGlobal{Name: name}, nil
	case "^assign":
		if len(t.Children) != 2 {
			return nil, verror.NewTermConversion("malformed ^assign term")
		}
		targetExpr, err := ExpressionFromTerm(t.Children[0])
		if err != nil {
			return nil, err
		}
		valueExpr, err := ExpressionFromTerm(t.Children[1])
		if err != nil {
			return nil, err
		}
		return Assign{Target: AsAssignable(targetExpr), Value: valueExpr}, nil
	case "^binary":
		if len(t.Children) != 3 {
			return nil, verror.NewTermConversion("malformed ^binary term")
		}
		op, err := atomString(t, 0)
		if err != nil {
			return nil, err
		}
		left, err := ExpressionFromTerm(t.Children[1])
		if err != nil {
			return nil, err
		}
		right, err := ExpressionFromTerm(t.Children[2])
		if err != nil {
			return nil, err
		}
		return Binary{Op: op, Left: left, Right: right}, nil
	case "^call":
		if len(t.Children) < 1 {
			return nil, verror.NewTermConversion("malformed ^call term")
		}
		callee, err := ExpressionFromTerm(t.Children[0])
		if err != nil {
			return nil, err
		}
		args := make([]Expression, len(t.Children)-1)
		for i, c := range t.Children[1:] {
			a, err := ExpressionFromTerm(c)
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		return Call{Callee: callee, Args: args}, nil
	case "list":
		elems := make([]Expression, len(t.Children))
		for i, c := range t.Children {
			e, err := ExpressionFromTerm(c)
			if err != nil {
				return nil, err
			}
			elems[i] = e
		}
		return ListLit{Elems: elems}, nil
	case "^forEach":
		if len(t.Children) != 3 {
			return nil, verror.NewTermConversion("malformed ^forEach term")
		}
		name, err := atomString(t, 0)
		if err != nil {
			return nil, err
		}
		iterable, err := ExpressionFromTerm(t.Children[1])
		if err != nil {
			return nil, err
		}
		body, err := BlockFromTerm(t.Children[2])
		if err != nil {
			return nil, err
		}
		return ForEach{VarName: name, Iterable: iterable, Body: body}, nil
	case "^try":
		if len(t.Children) != 3 {
			return nil, verror.NewTermConversion("malformed ^try term")
		}
		body, err := BlockFromTerm(t.Children[0])
		if err != nil {
			return nil, err
		}
		usr, err := catchFromTerm(t.Children[1])
		if err != nil {
			return nil, err
		}
		lng, err := catchFromTerm(t.Children[2])
		if err != nil {
			return nil, err
		}
		return Try{Body: body, CatchUsr: usr, CatchLng: lng}, nil
	case "^return":
		if len(t.Children) == 0 {
			return Return{}, nil
		}
		v, err := ExpressionFromTerm(t.Children[0])
		if err != nil {
			return nil, err
		}
		return Return{Value: v}, nil
	case "^throw":
		if len(t.Children) != 1 {
			return nil, verror.NewTermConversion("malformed ^throw term")
		}
		v, err := ExpressionFromTerm(t.Children[0])
		if err != nil {
			return nil, err
		}
		return Throw{Payload: v}, nil
	case "^procedure", "^closure":
		return procLitFromTerm(t)
	default:
		v, err := term.Construct(t)
		if err != nil {
			return nil, verror.NewTermConversion("unrecognized expression term: " + t.Tag)
		}
		return Literal{V: v}, nil
	}
}

func catchFromTerm(t core.Term) (*CatchClause, error) {
	if t.Tag == "none" {
		return nil, nil
	}
	if len(t.Children) != 2 {
		return nil, verror.NewTermConversion("malformed catch clause term")
	}
	name, err := atomString(t, 0)
	if err != nil {
		return nil, err
	}
	body, err := BlockFromTerm(t.Children[1])
	if err != nil {
		return nil, err
	}
	return &CatchClause{VarName: name, Body: body}, nil
}

func atomString(t core.Term, childIdx int) (string, error) {
	if childIdx >= len(t.Children) || !t.Children[childIdx].IsAtom() {
		return "", verror.NewTermConversion("expected atomic string child in " + t.Tag)
	}
	s, ok := t.Children[childIdx].Atom.(string)
	if !ok {
		return "", verror.NewTermConversion("expected string atom in " + t.Tag)
	}
	return s, nil
}
