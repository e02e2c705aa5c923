package value

import (
	"github.com/rill-lang/rill/internal/core"
)

// ObjectInstance pairs a member frame (holding the object's fields and
// methods) with the label used when a procedure's bound_object is set to
// this instance (§4.3.2's "bound_object", used so a procedure called
// through an object can resolve self-references against the member
// frame). Comparison and term rendering defer to the member frame's own
// ScopeView, exactly as for a plain scope value.
type ObjectInstance struct {
	Label   string
	Members core.ScopeView
}

func NewObject(label string, members core.ScopeView) core.Value {
	return ObjectInstance{Label: label, Members: members}
}

func (ObjectInstance) GetType() core.ValueType { return core.TypeObject }
func (o ObjectInstance) String() string {
	if o.Label != "" {
		return "object:" + o.Label
	}
	return "object"
}
func (o ObjectInstance) CloneDeep() core.Value { return o }
func (o ObjectInstance) EqualStructural(other core.Value) bool {
	oo, ok := other.(ObjectInstance)
	if !ok || o.Label != oo.Label {
		return false
	}
	return bindingsEqual(o.Members.CollectAllBindings(true), oo.Members.CollectAllBindings(true))
}
func (o ObjectInstance) CompareTotal(other core.Value) int {
	oo, ok := other.(ObjectInstance)
	if !ok {
		return compareByTypeRank(o, other)
	}
	if o.Label != oo.Label {
		if o.Label < oo.Label {
			return -1
		}
		return 1
	}
	return compareElemsLex(bindingSetTerms(ScopeValue{View: o.Members}), bindingSetTerms(ScopeValue{View: oo.Members}))
}
func (o ObjectInstance) ToTerm() core.Term {
	inner := ScopeValue{View: o.Members}.ToTerm()
	return core.Term{Tag: "^object", Children: []core.Term{core.Atomic(o.Label), inner}}
}
func (ObjectInstance) Size() (int, error) { return 0, unsupported("size", core.TypeObject) }
func (ObjectInstance) RemoveFirst() (core.Value, error) {
	return nil, unsupported("remove-first", core.TypeObject)
}
func (ObjectInstance) RemoveLast() (core.Value, error) {
	return nil, unsupported("remove-last", core.TypeObject)
}
