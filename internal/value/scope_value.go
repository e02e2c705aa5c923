package value

import (
	"sort"

	"github.com/rill-lang/rill/internal/core"
)

// ScopeValue is the Value-facing wrapper letting a frame be passed around
// as ordinary data (the "live scope as a value" case from §3/§6). It
// delegates entirely to a core.ScopeView so this package never imports
// scope directly.
type ScopeValue struct {
	View core.ScopeView
}

func ScopeVal(s core.ScopeView) core.Value { return ScopeValue{View: s} }

func (ScopeValue) GetType() core.ValueType { return core.TypeScope }
func (s ScopeValue) String() string        { return "scope" }
func (s ScopeValue) CloneDeep() core.Value { return s }
func (s ScopeValue) EqualStructural(other core.Value) bool {
	o, ok := other.(ScopeValue)
	if !ok {
		return false
	}
	return bindingsEqual(s.View.CollectAllBindings(true), o.View.CollectAllBindings(true))
}
func (s ScopeValue) CompareTotal(other core.Value) int {
	o, ok := other.(ScopeValue)
	if !ok {
		return compareByTypeRank(s, other)
	}
	return compareElemsLex(bindingSetTerms(s), bindingSetTerms(o))
}

// ToTerm renders the currently visible bindings as ^scope(binding(name,
// value), ...) in name order, excluding bindings above the nearest
// restrict-to-functions boundary that are neither procedures nor omega
// (§4.2).
func (s ScopeValue) ToTerm() core.Term {
	names := sortedNames(s.View.CollectAllBindings(false))
	children := make([]core.Term, len(names))
	for i, n := range names {
		children[i] = core.Compound("binding", core.Atomic(n), s.View.CollectAllBindings(false)[n].ToTerm())
	}
	return core.Term{Tag: "^scope", Children: children}
}
func (ScopeValue) Size() (int, error) { return 0, unsupported("size", core.TypeScope) }
func (ScopeValue) RemoveFirst() (core.Value, error) {
	return nil, unsupported("remove-first", core.TypeScope)
}
func (ScopeValue) RemoveLast() (core.Value, error) {
	return nil, unsupported("remove-last", core.TypeScope)
}

func sortedNames(bindings map[string]core.Value) []string {
	names := make([]string, 0, len(bindings))
	for n := range bindings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func bindingsEqual(a, b map[string]core.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		ov, ok := b[k]
		if !ok || !v.EqualStructural(ov) {
			return false
		}
	}
	return true
}

func bindingSetTerms(s ScopeValue) []core.Value {
	bindings := s.View.CollectAllBindings(true)
	names := sortedNames(bindings)
	out := make([]core.Value, len(names))
	for i, n := range names {
		out[i] = StrVal(n)
	}
	return out
}
