package value

import (
	"fmt"

	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/term"
	"github.com/rill-lang/rill/internal/verror"
)

func init() {
	// A term(...) wire form reconstructs into a first-class TermValue
	// wrapping the single child term tree as literal data, rather than
	// being dispatched further — it is the escape hatch that lets code
	// hold data about terms without committing to interpreting them
	// (§4.5).
	term.Register("term", func(t core.Term) (core.Value, error) {
		if len(t.Children) != 1 {
			return nil, verror.NewTermConversion("term(...) wrapper requires exactly one child")
		}
		return TermVal(t.Children[0]), nil
	})
}

// TermValue is a term held as ordinary data, not yet (or no longer)
// interpreted as a constructor invocation. This is how the language lets
// code introspect and build up symbolic expressions (§3, §4.5).
type TermValue struct {
	T core.Term
}

func TermVal(t core.Term) core.Value { return TermValue{T: t} }

func (TermValue) GetType() core.ValueType { return core.TypeTerm }
func (t TermValue) String() string        { return term.Format(t.T) }
func (t TermValue) CloneDeep() core.Value { return t }
func (t TermValue) EqualStructural(other core.Value) bool {
	o, ok := other.(TermValue)
	return ok && termsEqual(t.T, o.T)
}
func (t TermValue) CompareTotal(other core.Value) int {
	o, ok := other.(TermValue)
	if !ok {
		return compareByTypeRank(t, other)
	}
	a, b := term.Format(t.T), term.Format(o.T)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
func (t TermValue) ToTerm() core.Term { return core.Term{Tag: "term", Children: []core.Term{t.T}} }
func (TermValue) Size() (int, error)  { return 0, unsupported("size", core.TypeTerm) }
func (TermValue) RemoveFirst() (core.Value, error) {
	return nil, unsupported("remove-first", core.TypeTerm)
}
func (TermValue) RemoveLast() (core.Value, error) {
	return nil, unsupported("remove-last", core.TypeTerm)
}

func termsEqual(a, b core.Term) bool {
	if a.IsAtom() != b.IsAtom() {
		return false
	}
	if a.IsAtom() {
		return atomsEqual(a.Atom, b.Atom)
	}
	if a.Tag != b.Tag || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !termsEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func atomsEqual(a, b any) bool {
	switch av := a.(type) {
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	default:
		// *big.Rat and *decimal.Big don't support ==; fall back to their
		// formatted rendering for equality.
		return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
	}
}
