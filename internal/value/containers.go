package value

import (
	"sort"
	"strings"

	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/term"
	"github.com/rill-lang/rill/internal/verror"
)

func init() {
	term.Register("list", func(t core.Term) (core.Value, error) { return decodeContainer(t, NewList) })
	term.Register("tuple", func(t core.Term) (core.Value, error) { return decodeContainer(t, NewTuple) })
	term.Register("set", func(t core.Term) (core.Value, error) { return decodeContainer(t, NewSet) })
	term.Register("map", func(t core.Term) (core.Value, error) {
		if len(t.Children)%2 != 0 {
			return nil, verror.NewTermConversion("map term requires an even number of children")
		}
		m := NewMap()
		for i := 0; i < len(t.Children); i += 2 {
			k, err := term.Construct(t.Children[i])
			if err != nil {
				return nil, err
			}
			v, err := term.Construct(t.Children[i+1])
			if err != nil {
				return nil, err
			}
			m.Put(k, v)
		}
		return m, nil
	})
}

func decodeContainer(t core.Term, build func([]core.Value) core.Value) (core.Value, error) {
	elems := make([]core.Value, len(t.Children))
	for i, c := range t.Children {
		v, err := term.Construct(c)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return build(elems), nil
}

func cloneElems(elems []core.Value) []core.Value {
	out := make([]core.Value, len(elems))
	for i, e := range elems {
		out[i] = e.CloneDeep()
	}
	return out
}

func compareElemsLex(a, b []core.Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := a[i].CompareTotal(b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func elemsEqual(a, b []core.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].EqualStructural(b[i]) {
			return false
		}
	}
	return true
}

func termString(elems []core.Value) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

func elemsToTerm(tag string, elems []core.Value) core.Term {
	children := make([]core.Term, len(elems))
	for i, e := range elems {
		children[i] = e.ToTerm()
	}
	return core.Term{Tag: tag, Children: children}
}

// ListValue is an ordered, mutable-by-replacement sequence.
type ListValue struct{ Elems []core.Value }

func NewList(elems []core.Value) core.Value { return &ListValue{Elems: elems} }

func (*ListValue) GetType() core.ValueType { return core.TypeList }
func (l *ListValue) String() string        { return "[" + termString(l.Elems) + "]" }
func (l *ListValue) CloneDeep() core.Value { return &ListValue{Elems: cloneElems(l.Elems)} }
func (l *ListValue) EqualStructural(other core.Value) bool {
	o, ok := other.(*ListValue)
	return ok && elemsEqual(l.Elems, o.Elems)
}
func (l *ListValue) CompareTotal(other core.Value) int {
	o, ok := other.(*ListValue)
	if !ok {
		return compareByTypeRank(l, other)
	}
	return compareElemsLex(l.Elems, o.Elems)
}
func (l *ListValue) ToTerm() core.Term { return elemsToTerm("list", l.Elems) }
func (l *ListValue) Size() (int, error) { return len(l.Elems), nil }
func (l *ListValue) RemoveFirst() (core.Value, error) {
	if len(l.Elems) == 0 {
		return nil, verror.New(verror.KindIncompatibleType, "empty-series", [3]string{"remove-first"})
	}
	return &ListValue{Elems: append([]core.Value{}, l.Elems[1:]...)}, nil
}
func (l *ListValue) RemoveLast() (core.Value, error) {
	if len(l.Elems) == 0 {
		return nil, verror.New(verror.KindIncompatibleType, "empty-series", [3]string{"remove-last"})
	}
	return &ListValue{Elems: append([]core.Value{}, l.Elems[:len(l.Elems)-1]...)}, nil
}

// TupleValue is a fixed-arity ordered grouping, distinct from list only in
// its functional-character tag and intended use as a record-like value.
type TupleValue struct{ Elems []core.Value }

func NewTuple(elems []core.Value) core.Value { return &TupleValue{Elems: elems} }

func (*TupleValue) GetType() core.ValueType { return core.TypeTuple }
func (t *TupleValue) String() string        { return "(" + termString(t.Elems) + ")" }
func (t *TupleValue) CloneDeep() core.Value { return &TupleValue{Elems: cloneElems(t.Elems)} }
func (t *TupleValue) EqualStructural(other core.Value) bool {
	o, ok := other.(*TupleValue)
	return ok && elemsEqual(t.Elems, o.Elems)
}
func (t *TupleValue) CompareTotal(other core.Value) int {
	o, ok := other.(*TupleValue)
	if !ok {
		return compareByTypeRank(t, other)
	}
	return compareElemsLex(t.Elems, o.Elems)
}
func (t *TupleValue) ToTerm() core.Term { return elemsToTerm("tuple", t.Elems) }
func (t *TupleValue) Size() (int, error) { return len(t.Elems), nil }
func (t *TupleValue) RemoveFirst() (core.Value, error) {
	if len(t.Elems) == 0 {
		return nil, verror.New(verror.KindIncompatibleType, "empty-series", [3]string{"remove-first"})
	}
	return &TupleValue{Elems: append([]core.Value{}, t.Elems[1:]...)}, nil
}
func (t *TupleValue) RemoveLast() (core.Value, error) {
	if len(t.Elems) == 0 {
		return nil, verror.New(verror.KindIncompatibleType, "empty-series", [3]string{"remove-last"})
	}
	return &TupleValue{Elems: append([]core.Value{}, t.Elems[:len(t.Elems)-1]...)}, nil
}

// SetValue holds unique elements (by EqualStructural). Membership order
// is insertion order for display, but CompareTotal/EqualStructural compare
// canonically-sorted copies, since set equality must not depend on
// insertion order.
type SetValue struct{ Elems []core.Value }

func NewSet(elems []core.Value) core.Value {
	s := &SetValue{}
	for _, e := range elems {
		s.Add(e)
	}
	return s
}

// Add inserts v if no structurally-equal element is already present.
func (s *SetValue) Add(v core.Value) {
	for _, e := range s.Elems {
		if e.EqualStructural(v) {
			return
		}
	}
	s.Elems = append(s.Elems, v)
}

func (s *SetValue) sorted() []core.Value {
	cp := append([]core.Value{}, s.Elems...)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].CompareTotal(cp[j]) < 0 })
	return cp
}

func (*SetValue) GetType() core.ValueType { return core.TypeSet }
func (s *SetValue) String() string        { return "{" + termString(s.Elems) + "}" }
func (s *SetValue) CloneDeep() core.Value { return &SetValue{Elems: cloneElems(s.Elems)} }
func (s *SetValue) EqualStructural(other core.Value) bool {
	o, ok := other.(*SetValue)
	if !ok || len(s.Elems) != len(o.Elems) {
		return false
	}
	return elemsEqual(s.sorted(), o.sorted())
}
func (s *SetValue) CompareTotal(other core.Value) int {
	o, ok := other.(*SetValue)
	if !ok {
		return compareByTypeRank(s, other)
	}
	return compareElemsLex(s.sorted(), o.sorted())
}
func (s *SetValue) ToTerm() core.Term { return elemsToTerm("set", s.sorted()) }
func (s *SetValue) Size() (int, error) { return len(s.Elems), nil }
func (s *SetValue) RemoveFirst() (core.Value, error) {
	sorted := s.sorted()
	if len(sorted) == 0 {
		return nil, verror.New(verror.KindIncompatibleType, "empty-series", [3]string{"remove-first"})
	}
	return &SetValue{Elems: sorted[1:]}, nil
}
func (s *SetValue) RemoveLast() (core.Value, error) {
	sorted := s.sorted()
	if len(sorted) == 0 {
		return nil, verror.New(verror.KindIncompatibleType, "empty-series", [3]string{"remove-last"})
	}
	return &SetValue{Elems: sorted[:len(sorted)-1]}, nil
}

// MapValue holds key/value pairs as parallel slices, in the same spirit
// as the teacher's parallel Words/Values frame arrays.
type MapValue struct {
	Keys   []core.Value
	Values []core.Value
}

func NewMap() *MapValue { return &MapValue{} }

func (m *MapValue) Put(k, v core.Value) {
	for i, existing := range m.Keys {
		if existing.EqualStructural(k) {
			m.Values[i] = v
			return
		}
	}
	m.Keys = append(m.Keys, k)
	m.Values = append(m.Values, v)
}

func (m *MapValue) Get(k core.Value) (core.Value, bool) {
	for i, existing := range m.Keys {
		if existing.EqualStructural(k) {
			return m.Values[i], true
		}
	}
	return nil, false
}

func (m *MapValue) sortedIndices() []int {
	idx := make([]int, len(m.Keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return m.Keys[idx[a]].CompareTotal(m.Keys[idx[b]]) < 0 })
	return idx
}

func (*MapValue) GetType() core.ValueType { return core.TypeMap }
func (m *MapValue) String() string {
	parts := make([]string, 0, len(m.Keys))
	for _, i := range m.sortedIndices() {
		parts = append(parts, m.Keys[i].String()+":"+m.Values[i].String())
	}
	return "#{" + strings.Join(parts, " ") + "}"
}
func (m *MapValue) CloneDeep() core.Value {
	return &MapValue{Keys: cloneElems(m.Keys), Values: cloneElems(m.Values)}
}
func (m *MapValue) EqualStructural(other core.Value) bool {
	o, ok := other.(*MapValue)
	if !ok || len(m.Keys) != len(o.Keys) {
		return false
	}
	ai, bi := m.sortedIndices(), o.sortedIndices()
	for i := range ai {
		if !m.Keys[ai[i]].EqualStructural(o.Keys[bi[i]]) || !m.Values[ai[i]].EqualStructural(o.Values[bi[i]]) {
			return false
		}
	}
	return true
}
func (m *MapValue) CompareTotal(other core.Value) int {
	o, ok := other.(*MapValue)
	if !ok {
		return compareByTypeRank(m, other)
	}
	ai, bi := m.sortedIndices(), o.sortedIndices()
	for i := 0; i < len(ai) && i < len(bi); i++ {
		if c := m.Keys[ai[i]].CompareTotal(o.Keys[bi[i]]); c != 0 {
			return c
		}
		if c := m.Values[ai[i]].CompareTotal(o.Values[bi[i]]); c != 0 {
			return c
		}
	}
	switch {
	case len(ai) < len(bi):
		return -1
	case len(ai) > len(bi):
		return 1
	default:
		return 0
	}
}
func (m *MapValue) ToTerm() core.Term {
	children := make([]core.Term, 0, 2*len(m.Keys))
	for _, i := range m.sortedIndices() {
		children = append(children, m.Keys[i].ToTerm(), m.Values[i].ToTerm())
	}
	return core.Term{Tag: "map", Children: children}
}
func (m *MapValue) Size() (int, error) { return len(m.Keys), nil }
func (m *MapValue) RemoveFirst() (core.Value, error) {
	if len(m.Keys) == 0 {
		return nil, verror.New(verror.KindIncompatibleType, "empty-series", [3]string{"remove-first"})
	}
	idx := m.sortedIndices()[0]
	return m.without(idx), nil
}
func (m *MapValue) RemoveLast() (core.Value, error) {
	if len(m.Keys) == 0 {
		return nil, verror.New(verror.KindIncompatibleType, "empty-series", [3]string{"remove-last"})
	}
	idx := m.sortedIndices()[len(m.Keys)-1]
	return m.without(idx), nil
}
func (m *MapValue) without(idx int) *MapValue {
	out := &MapValue{}
	for i := range m.Keys {
		if i == idx {
			continue
		}
		out.Keys = append(out.Keys, m.Keys[i])
		out.Values = append(out.Values, m.Values[i])
	}
	return out
}
