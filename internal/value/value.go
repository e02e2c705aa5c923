// Package value implements the runtime value model for the Rill
// interpreter core: the tagged sum of atoms (omega, logic, integer,
// rational, real, string), containers (list, set, tuple, map), the
// symbolic term, procedures, live-scope values, and objects.
//
// Every variant implements core.Value (clone_deep, equal_structural,
// compare_total, to_term, size, remove_first, remove_last — §3). Atoms
// other than string, and procedures, scopes, terms and objects, are not
// containers: Size, RemoveFirst and RemoveLast return an incompatible-type
// error for them. A string acts as a series of characters for these three.
//
// Constructor functions (IntVal, StrVal, ...) are the only supported way
// to build values; AsX helpers perform safe type-asserted extraction.
package value

import (
	"github.com/rill-lang/rill/internal/core"
)

// IsTruthy reports whether v is considered true in a conditional context.
// Only omega and logic-false are falsy; 0, "", and empty containers are
// truthy (matches the teacher's own IsTruthy rule).
func IsTruthy(v core.Value) bool {
	switch vv := v.(type) {
	case OmegaValue:
		return false
	case LogicValue:
		return bool(vv)
	default:
		return true
	}
}

// AsLogic extracts the bool payload if v is a LogicValue.
func AsLogic(v core.Value) (bool, bool) {
	l, ok := v.(LogicValue)
	return bool(l), ok
}

// AsInteger extracts the int64 payload if v is an IntValue.
func AsInteger(v core.Value) (int64, bool) {
	i, ok := v.(IntValue)
	return int64(i), ok
}

// AsString extracts the *StringValue if v is a string value.
func AsString(v core.Value) (*StringValue, bool) {
	s, ok := v.(*StringValue)
	return s, ok
}

// AsList extracts the *ListValue if v is a list value.
func AsList(v core.Value) (*ListValue, bool) {
	l, ok := v.(*ListValue)
	return l, ok
}

// AsProcedure unwraps the core.ProcedureView behind a procedure value.
func AsProcedure(v core.Value) (core.ProcedureView, bool) {
	p, ok := v.(*ProcedureValue)
	if !ok {
		return nil, false
	}
	return p.View, true
}
