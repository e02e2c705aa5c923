package value

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ericlagergren/decimal"
	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/term"
	"github.com/rill-lang/rill/internal/verror"
)

func init() {
	term.Register("omega", func(t core.Term) (core.Value, error) { return NoneVal(), nil })
	term.Register("true", func(t core.Term) (core.Value, error) { return LogicVal(true), nil })
	term.Register("false", func(t core.Term) (core.Value, error) { return LogicVal(false), nil })
	term.Register("integer", func(t core.Term) (core.Value, error) { return fromAtomTerm(t, decodeInt) })
	term.Register("rational", func(t core.Term) (core.Value, error) { return fromAtomTerm(t, decodeRat) })
	term.Register("real", func(t core.Term) (core.Value, error) { return fromAtomTerm(t, decodeReal) })
	term.Register("string", func(t core.Term) (core.Value, error) { return fromAtomTerm(t, decodeString) })
}

func fromAtomTerm(t core.Term, decode func(any) (core.Value, error)) (core.Value, error) {
	if !t.IsAtom() {
		// The tagged compound form integer(-3) etc. is what ToTerm emits;
		// a bare atom term handed to the constructor is accepted as well.
		if len(t.Children) != 1 || !t.Children[0].IsAtom() {
			return nil, verror.NewTermConversion("malformed atomic term: " + t.Tag)
		}
		return decode(t.Children[0].Atom)
	}
	return decode(t.Atom)
}

func decodeInt(a any) (core.Value, error) {
	switch v := a.(type) {
	case int64:
		return IntVal(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, verror.NewTermConversion("invalid integer: " + v)
		}
		return IntVal(n), nil
	default:
		return nil, verror.NewTermConversion(fmt.Sprintf("invalid integer atom %v", a))
	}
}

func decodeRat(a any) (core.Value, error) {
	switch v := a.(type) {
	case *big.Rat:
		return RationalVal(v), nil
	case string:
		r, ok := new(big.Rat).SetString(v)
		if !ok {
			return nil, verror.NewTermConversion("invalid rational: " + v)
		}
		return RationalVal(r), nil
	default:
		return nil, verror.NewTermConversion(fmt.Sprintf("invalid rational atom %v", a))
	}
}

func decodeReal(a any) (core.Value, error) {
	switch v := a.(type) {
	case *decimal.Big:
		return RealVal(v), nil
	case string:
		d := new(decimal.Big)
		if _, ok := d.SetString(v); !ok {
			return nil, verror.NewTermConversion("invalid real: " + v)
		}
		return RealVal(d), nil
	default:
		return nil, verror.NewTermConversion(fmt.Sprintf("invalid real atom %v", a))
	}
}

func decodeString(a any) (core.Value, error) {
	s, ok := a.(string)
	if !ok {
		return nil, verror.NewTermConversion(fmt.Sprintf("invalid string atom %v", a))
	}
	return StrVal(s), nil
}

func unsupported(op string, t core.ValueType) error {
	return verror.NewIncompatibleType(op, t.String())
}

// OmegaValue represents the absence of a value (the language's "none").
type OmegaValue struct{}

// NoneVal creates the omega (undefined) value.
func NoneVal() core.Value { return OmegaValue{} }

func (OmegaValue) GetType() core.ValueType { return core.TypeOmega }
func (OmegaValue) String() string          { return "omega" }
func (OmegaValue) CloneDeep() core.Value   { return OmegaValue{} }
func (o OmegaValue) EqualStructural(other core.Value) bool {
	_, ok := other.(OmegaValue)
	return ok
}
func (o OmegaValue) CompareTotal(other core.Value) int {
	if other.GetType() != core.TypeOmega {
		return compareByTypeRank(o, other)
	}
	return 0
}
func (o OmegaValue) ToTerm() core.Term                { return core.Term{Tag: "omega"} }
func (OmegaValue) Size() (int, error)                 { return 0, unsupported("size", core.TypeOmega) }
func (OmegaValue) RemoveFirst() (core.Value, error)   { return nil, unsupported("remove-first", core.TypeOmega) }
func (OmegaValue) RemoveLast() (core.Value, error)    { return nil, unsupported("remove-last", core.TypeOmega) }

// LogicValue is a boolean.
type LogicValue bool

func LogicVal(b bool) core.Value { return LogicValue(b) }

func (LogicValue) GetType() core.ValueType { return core.TypeLogic }
func (l LogicValue) String() string {
	if l {
		return "true"
	}
	return "false"
}
func (l LogicValue) CloneDeep() core.Value { return l }
func (l LogicValue) EqualStructural(other core.Value) bool {
	o, ok := other.(LogicValue)
	return ok && l == o
}
func (l LogicValue) CompareTotal(other core.Value) int {
	o, ok := other.(LogicValue)
	if !ok {
		return compareByTypeRank(l, other)
	}
	if l == o {
		return 0
	}
	if !bool(l) {
		return -1
	}
	return 1
}
func (l LogicValue) ToTerm() core.Term              { return core.Term{Tag: strconv.FormatBool(bool(l))} }
func (LogicValue) Size() (int, error)               { return 0, unsupported("size", core.TypeLogic) }
func (LogicValue) RemoveFirst() (core.Value, error) { return nil, unsupported("remove-first", core.TypeLogic) }
func (LogicValue) RemoveLast() (core.Value, error)  { return nil, unsupported("remove-last", core.TypeLogic) }

// IntValue is a 64-bit signed integer.
type IntValue int64

func IntVal(i int64) core.Value { return IntValue(i) }

func (IntValue) GetType() core.ValueType { return core.TypeInteger }
func (i IntValue) String() string        { return strconv.FormatInt(int64(i), 10) }
func (i IntValue) CloneDeep() core.Value { return i }
func (i IntValue) EqualStructural(other core.Value) bool {
	o, ok := other.(IntValue)
	return ok && i == o
}
func (i IntValue) CompareTotal(other core.Value) int {
	o, ok := other.(IntValue)
	if !ok {
		return compareByTypeRank(i, other)
	}
	switch {
	case i < o:
		return -1
	case i > o:
		return 1
	default:
		return 0
	}
}
func (i IntValue) ToTerm() core.Term { return core.Term{Tag: "integer", Children: []core.Term{core.Atomic(int64(i))}} }
func (IntValue) Size() (int, error)  { return 0, unsupported("size", core.TypeInteger) }
func (IntValue) RemoveFirst() (core.Value, error) {
	return nil, unsupported("remove-first", core.TypeInteger)
}
func (IntValue) RemoveLast() (core.Value, error) {
	return nil, unsupported("remove-last", core.TypeInteger)
}

// RationalValue is an exact fraction (math/big.Rat — see DESIGN.md for
// why the standard library, not a pack dependency, backs this variant).
type RationalValue struct{ R *big.Rat }

func RationalVal(r *big.Rat) core.Value { return RationalValue{R: new(big.Rat).Set(r)} }

func (RationalValue) GetType() core.ValueType { return core.TypeRational }
func (r RationalValue) String() string        { return r.R.RatString() }
func (r RationalValue) CloneDeep() core.Value { return RationalValue{R: new(big.Rat).Set(r.R)} }
func (r RationalValue) EqualStructural(other core.Value) bool {
	o, ok := other.(RationalValue)
	return ok && r.R.Cmp(o.R) == 0
}
func (r RationalValue) CompareTotal(other core.Value) int {
	o, ok := other.(RationalValue)
	if !ok {
		return compareByTypeRank(r, other)
	}
	return r.R.Cmp(o.R)
}
func (r RationalValue) ToTerm() core.Term {
	return core.Term{Tag: "rational", Children: []core.Term{core.Atomic(new(big.Rat).Set(r.R))}}
}
func (RationalValue) Size() (int, error) { return 0, unsupported("size", core.TypeRational) }
func (RationalValue) RemoveFirst() (core.Value, error) {
	return nil, unsupported("remove-first", core.TypeRational)
}
func (RationalValue) RemoveLast() (core.Value, error) {
	return nil, unsupported("remove-last", core.TypeRational)
}

// RealValue is a high-precision decimal (decimal128-class: 34 significant
// digits, half-even rounding), mirroring the teacher's DecimalValue.
type RealValue struct {
	Magnitude *decimal.Big
}

func realContext() decimal.Context {
	return decimal.Context{Precision: 34, RoundingMode: decimal.ToNearestEven}
}

func RealVal(d *decimal.Big) core.Value {
	m := new(decimal.Big).Copy(d)
	m.Context = realContext()
	return RealValue{Magnitude: m}
}

func (RealValue) GetType() core.ValueType { return core.TypeReal }
func (r RealValue) String() string        { return r.Magnitude.String() }
func (r RealValue) CloneDeep() core.Value { return RealVal(r.Magnitude) }
func (r RealValue) EqualStructural(other core.Value) bool {
	o, ok := other.(RealValue)
	return ok && r.Magnitude.Cmp(o.Magnitude) == 0
}
func (r RealValue) CompareTotal(other core.Value) int {
	o, ok := other.(RealValue)
	if !ok {
		return compareByTypeRank(r, other)
	}
	return r.Magnitude.Cmp(o.Magnitude)
}
func (r RealValue) ToTerm() core.Term {
	return core.Term{Tag: "real", Children: []core.Term{core.Atomic(new(decimal.Big).Copy(r.Magnitude))}}
}
func (RealValue) Size() (int, error) { return 0, unsupported("size", core.TypeReal) }
func (RealValue) RemoveFirst() (core.Value, error) {
	return nil, unsupported("remove-first", core.TypeReal)
}
func (RealValue) RemoveLast() (core.Value, error) {
	return nil, unsupported("remove-last", core.TypeReal)
}

// StringValue is a character sequence. It is a container for the purpose
// of size/remove_first/remove_last (§3: "containers" are the series
// types; strings behave like a series of characters here, matching the
// teacher's own StringValue-as-rune-array design).
type StringValue struct {
	Runes []rune
}

func NewStringValue(s string) *StringValue { return &StringValue{Runes: []rune(s)} }
func StrVal(s string) core.Value           { return NewStringValue(s) }

func (*StringValue) GetType() core.ValueType { return core.TypeString }
func (s *StringValue) String() string        { return string(s.Runes) }
func (s *StringValue) CloneDeep() core.Value {
	cp := make([]rune, len(s.Runes))
	copy(cp, s.Runes)
	return &StringValue{Runes: cp}
}
func (s *StringValue) EqualStructural(other core.Value) bool {
	o, ok := other.(*StringValue)
	return ok && string(s.Runes) == string(o.Runes)
}
func (s *StringValue) CompareTotal(other core.Value) int {
	o, ok := other.(*StringValue)
	if !ok {
		return compareByTypeRank(s, other)
	}
	a, b := string(s.Runes), string(o.Runes)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
func (s *StringValue) ToTerm() core.Term {
	return core.Term{Tag: "string", Children: []core.Term{core.Atomic(string(s.Runes))}}
}
func (s *StringValue) Size() (int, error) { return len(s.Runes), nil }
func (s *StringValue) RemoveFirst() (core.Value, error) {
	if len(s.Runes) == 0 {
		return nil, verror.New(verror.KindIncompatibleType, "empty-series", [3]string{"remove-first"})
	}
	return &StringValue{Runes: append([]rune{}, s.Runes[1:]...)}, nil
}
func (s *StringValue) RemoveLast() (core.Value, error) {
	if len(s.Runes) == 0 {
		return nil, verror.New(verror.KindIncompatibleType, "empty-series", [3]string{"remove-last"})
	}
	return &StringValue{Runes: append([]rune{}, s.Runes[:len(s.Runes)-1]...)}, nil
}

func compareByTypeRank(a, b core.Value) int {
	ra, rb := int(a.GetType()), int(b.GetType())
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}
