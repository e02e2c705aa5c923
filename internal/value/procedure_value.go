package value

import (
	"github.com/rill-lang/rill/internal/core"
)

// ProcedureValue is the Value-facing wrapper around a procedure package
// Procedure. It holds no procedure-specific fields itself — everything
// delegates to View — so that the value package never imports procedure
// (which itself depends on value for parameter/argument plumbing).
type ProcedureValue struct {
	View core.ProcedureView
}

// ProcVal wraps a procedure.Procedure (or any core.ProcedureView) as a
// Value. Called from the procedure package's constructors.
func ProcVal(p core.ProcedureView) core.Value { return &ProcedureValue{View: p} }

func (*ProcedureValue) GetType() core.ValueType { return core.TypeProcedure }
func (p *ProcedureValue) String() string        { return p.View.String() }
func (p *ProcedureValue) CloneDeep() core.Value { return &ProcedureValue{View: p.View.CloneDeep()} }
func (p *ProcedureValue) EqualStructural(other core.Value) bool {
	o, ok := other.(*ProcedureValue)
	return ok && p.View.EqualStructural(o.View)
}
func (p *ProcedureValue) CompareTotal(other core.Value) int {
	o, ok := other.(*ProcedureValue)
	if !ok {
		return compareByTypeRank(p, other)
	}
	return p.View.CompareTotal(o.View)
}
func (p *ProcedureValue) ToTerm() core.Term { return p.View.ToTerm() }
func (*ProcedureValue) Size() (int, error) { return 0, unsupported("size", core.TypeProcedure) }
func (*ProcedureValue) RemoveFirst() (core.Value, error) {
	return nil, unsupported("remove-first", core.TypeProcedure)
}
func (*ProcedureValue) RemoveLast() (core.Value, error) {
	return nil, unsupported("remove-last", core.TypeProcedure)
}
