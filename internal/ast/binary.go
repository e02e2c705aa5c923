package ast

import (
	"math/big"
	"strings"

	"github.com/ericlagergren/decimal"
	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/scope"
	"github.com/rill-lang/rill/internal/value"
	"github.com/rill-lang/rill/internal/verror"
)

// Binary is a two-operand arithmetic or comparison expression. This is
// the minimal arithmetic needed to drive the scenarios in spec.md §8
// (n + 1, s + i, xs + [99], 1/0); full operator/dispatch richness is an
// external collaborator per §1.
type Binary struct {
	Op          string
	Left, Right Expression
}

func (b Binary) Evaluate(s scope.Scope, h Host) (core.Value, error) {
	l, err := b.Left.Evaluate(s, h)
	if err != nil {
		return nil, err
	}
	r, err := b.Right.Evaluate(s, h)
	if err != nil {
		return nil, err
	}
	switch b.Op {
	case "+":
		return applyArith(l, r, addInt, addRat, addReal, true)
	case "-":
		return applyArith(l, r, subInt, subRat, subReal, false)
	case "*":
		return applyArith(l, r, mulInt, mulRat, mulReal, false)
	case "/":
		return divide(l, r)
	case "=":
		return value.LogicVal(l.EqualStructural(r)), nil
	case "<":
		return value.LogicVal(l.CompareTotal(r) < 0), nil
	case ">":
		return value.LogicVal(l.CompareTotal(r) > 0), nil
	default:
		return nil, verror.NewUndefinedOperation("unknown operator " + b.Op)
	}
}

func (b Binary) ToTerm() core.Term {
	return core.Term{Tag: "^binary", Children: []core.Term{core.Atomic(b.Op), b.Left.ToTerm(), b.Right.ToTerm()}}
}
func (b Binary) CollectVariables(bound, unbound map[string]bool) {
	b.Left.CollectVariables(bound, unbound)
	b.Right.CollectVariables(bound, unbound)
}
func (b Binary) AppendString(sb *strings.Builder, tabs int) {
	writeIndent(sb, tabs)
	b.Left.AppendString(sb, 0)
	sb.WriteByte(' ')
	sb.WriteString(b.Op)
	sb.WriteByte(' ')
	b.Right.AppendString(sb, 0)
}

type intOp func(a, b int64) int64
type ratOp func(a, b *big.Rat) *big.Rat
type realOp func(a, b *decimal.Big) *decimal.Big

func addInt(a, b int64) int64 { return a + b }
func subInt(a, b int64) int64 { return a - b }
func mulInt(a, b int64) int64 { return a * b }

func addRat(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }
func subRat(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) }
func mulRat(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }

func addReal(a, b *decimal.Big) *decimal.Big { return new(decimal.Big).Add(a, b) }
func subReal(a, b *decimal.Big) *decimal.Big { return new(decimal.Big).Sub(a, b) }
func mulReal(a, b *decimal.Big) *decimal.Big { return new(decimal.Big).Mul(a, b) }

// applyArith numerically promotes l and r (integer < rational < real) and
// applies the matching op; when allowConcat is true and both operands are
// lists or strings, it concatenates instead (the `+` overload scenario 3
// needs for `xs + [99]`).
func applyArith(l, r core.Value, iop intOp, rop ratOp, dop realOp, allowConcat bool) (core.Value, error) {
	if allowConcat {
		if lv, ok := value.AsList(l); ok {
			if rv, ok := value.AsList(r); ok {
				return value.NewList(append(append([]core.Value{}, lv.Elems...), rv.Elems...)), nil
			}
		}
		if ls, ok := value.AsString(l); ok {
			if rs, ok := value.AsString(r); ok {
				return value.StrVal(ls.String() + rs.String()), nil
			}
		}
	}
	li, lIsInt := value.AsInteger(l)
	ri, rIsInt := value.AsInteger(r)
	if lIsInt && rIsInt {
		return value.IntVal(iop(li, ri)), nil
	}
	lr, lIsRat := asRational(l)
	rr, rIsRat := asRational(r)
	if (lIsInt || lIsRat) && (rIsInt || rIsRat) {
		return value.RationalVal(rop(lr, rr)), nil
	}
	ld, lIsReal := asReal(l)
	rd, rIsReal := asReal(r)
	if lIsReal || rIsReal {
		if !lIsReal {
			ld = realFromRatOrInt(l)
		}
		if !rIsReal {
			rd = realFromRatOrInt(r)
		}
		return value.RealVal(dop(ld, rd)), nil
	}
	return nil, verror.NewIncompatibleType("arithmetic", l.GetType().String())
}

func divide(l, r core.Value) (core.Value, error) {
	if li, ok := value.AsInteger(l); ok {
		if ri, ok := value.AsInteger(r); ok {
			if ri == 0 {
				return nil, verror.NewLanguage("div-zero", [3]string{})
			}
			if li%ri == 0 {
				return value.IntVal(li / ri), nil
			}
			return value.RationalVal(new(big.Rat).SetFrac(big.NewInt(li), big.NewInt(ri))), nil
		}
	}
	lr, lOk := asRational(l)
	rr, rOk := asRational(r)
	if lOk && rOk {
		if rr.Sign() == 0 {
			return nil, verror.NewLanguage("div-zero", [3]string{})
		}
		return value.RationalVal(new(big.Rat).Quo(lr, rr)), nil
	}
	ld, lIsReal := asReal(l)
	rd, rIsReal := asReal(r)
	if lIsReal || rIsReal {
		if !lIsReal {
			ld = realFromRatOrInt(l)
		}
		if !rIsReal {
			rd = realFromRatOrInt(r)
		}
		if rd.Sign() == 0 {
			return nil, verror.NewLanguage("div-zero", [3]string{})
		}
		return value.RealVal(new(decimal.Big).Quo(ld, rd)), nil
	}
	return nil, verror.NewIncompatibleType("divide", l.GetType().String())
}

func asRational(v core.Value) (*big.Rat, bool) {
	switch vv := v.(type) {
	case value.RationalValue:
		return vv.R, true
	case value.IntValue:
		return new(big.Rat).SetInt64(int64(vv)), true
	default:
		return nil, false
	}
}

func asReal(v core.Value) (*decimal.Big, bool) {
	rv, ok := v.(value.RealValue)
	if !ok {
		return nil, false
	}
	return rv.Magnitude, true
}

func realFromRatOrInt(v core.Value) *decimal.Big {
	if i, ok := value.AsInteger(v); ok {
		return new(decimal.Big).SetMantScale(i, 0)
	}
	if r, ok := asRational(v); ok {
		num := new(decimal.Big).SetMantScale(r.Num().Int64(), 0)
		den := new(decimal.Big).SetMantScale(r.Denom().Int64(), 0)
		return new(decimal.Big).Quo(num, den)
	}
	return new(decimal.Big)
}
