// Package stdlib implements the pre-defined function library's minimal
// subset (§4.6, §6.2): enough native, always-available routines to
// drive the REPL and the test scenarios. The full built-in library
// remains an external collaborator (§1); this package exists only to
// give the variable-read path's pre-defined-function fallback something
// concrete to resolve.
//
// Names are discovered through an explicit registry built at init() time
// rather than through the source's reflective PD_<name> class-name
// lookup (§9 DESIGN NOTES: "replace with an explicit registry populated
// at startup").
package stdlib

import (
	"fmt"

	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/param"
	"github.com/rill-lang/rill/internal/term"
	"github.com/rill-lang/rill/internal/value"
	"github.com/rill-lang/rill/internal/verror"
)

// Function is a native pre-defined function, exposed as a procedure-like
// value so it can sit in the same "callable value" slot a user-defined
// procedure occupies (§6.2: "each pre-defined function exposes a name, a
// parameter descriptor list... and execute(args, write_back_out)").
type Function struct {
	FuncName   string
	ParamsList []param.Descriptor
	Impl       func(args []core.Value) (core.Value, []core.Value, error)
}

func (f *Function) Name() string                 { return f.FuncName }
func (f *Function) Params() []param.Descriptor   { return f.ParamsList }
func (f *Function) String() string               { return "native[" + f.FuncName + "]" }
func (f *Function) ToTerm() core.Term {
	return core.Term{Tag: "^native", Children: []core.Term{core.Atomic(f.FuncName)}}
}
func (f *Function) EqualStructural(other core.ProcedureView) bool {
	o, ok := other.(*Function)
	return ok && o.FuncName == f.FuncName
}
func (f *Function) CompareTotal(other core.ProcedureView) int {
	o, ok := other.(*Function)
	if !ok {
		return 0
	}
	switch {
	case f.FuncName < o.FuncName:
		return -1
	case f.FuncName > o.FuncName:
		return 1
	default:
		return 0
	}
}

// CloneDeep returns the same instance: natives are immutable and carry
// no per-call state, so aliasing is safe (unlike the open question left
// for user procedures — see DESIGN.md).
func (f *Function) CloneDeep() core.ProcedureView { return f }

// Execute runs the native, returning its result and the post-call
// values of its READ_WRITE parameters in declared order (§6.2).
func (f *Function) Execute(args []core.Value) (core.Value, []core.Value, error) {
	return f.Impl(args)
}

var registry = map[string]*Function{}

// Register installs a native under name, for lookup by the evaluator's
// variable-read fallback (§4.6).
func Register(name string, params []param.Descriptor, impl func(args []core.Value) (core.Value, []core.Value, error)) {
	registry[name] = &Function{FuncName: name, ParamsList: params, Impl: impl}
}

// Lookup resolves a pre-defined function by its user-visible name.
func Lookup(name string) (*Function, bool) {
	fn, ok := registry[name]
	return fn, ok
}

func init() {
	term.Register("^native", func(t core.Term) (core.Value, error) {
		if len(t.Children) != 1 || !t.Children[0].IsAtom() {
			return nil, verror.NewTermConversion("malformed ^native term")
		}
		name, ok := t.Children[0].Atom.(string)
		if !ok {
			return nil, verror.NewTermConversion("^native name must be a string atom")
		}
		fn, ok := Lookup(name)
		if !ok {
			return nil, verror.NewTermConversion("unknown native: " + name)
		}
		return value.ProcVal(fn), nil
	})

	Register("print", []param.Descriptor{param.New("v")}, func(args []core.Value) (core.Value, []core.Value, error) {
		fmt.Println(args[0].String())
		return value.NoneVal(), nil, nil
	})

	Register("size", []param.Descriptor{param.New("v")}, func(args []core.Value) (core.Value, []core.Value, error) {
		n, err := args[0].Size()
		if err != nil {
			return nil, nil, err
		}
		return value.IntVal(int64(n)), nil, nil
	})
}
