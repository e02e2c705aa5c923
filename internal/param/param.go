// Package param implements parameter descriptors (§4.1): a name plus a
// binding mode that governs how an argument value enters and leaves a
// call.
package param

import (
	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/scope"
	"github.com/rill-lang/rill/internal/term"
	"github.com/rill-lang/rill/internal/verror"
)

// Mode is a parameter's binding discipline (§3).
type Mode uint8

const (
	// VALUE parameters receive a deep clone of the argument; mutating
	// the parameter inside the call never affects the caller.
	VALUE Mode = iota
	// READ_WRITE parameters receive the argument directly, and their
	// post-call value is written back to the caller's l-value.
	READ_WRITE
)

func (m Mode) String() string {
	if m == READ_WRITE {
		return "rw"
	}
	return "value"
}

// Descriptor is a single formal parameter (§4.1).
type Descriptor struct {
	Name string
	Mode Mode
}

// New builds a VALUE-mode descriptor, the common case.
func New(name string) Descriptor { return Descriptor{Name: name, Mode: VALUE} }

// NewReadWrite builds a READ_WRITE-mode descriptor.
func NewReadWrite(name string) Descriptor { return Descriptor{Name: name, Mode: READ_WRITE} }

// AssignInto binds the parameter's name to v in the given scope. The
// caller is responsible for having already cloned v when Mode is VALUE;
// this method simply stores whatever it is given (§4.1).
func (d Descriptor) AssignInto(s scope.Scope, v core.Value) {
	s.BindLocal(d.Name, v)
}

// ReadBack returns the current value bound to the parameter's name in s,
// used to collect post-call values for READ_WRITE parameters (§4.1,
// §4.3.2 step 8).
func (d Descriptor) ReadBack(s scope.Scope) (core.Value, error) {
	v, found, _ := s.Lookup(d.Name)
	if !found {
		return nil, verror.NewUndefinedOperation("read-back of unbound parameter " + d.Name)
	}
	return v, nil
}

// ToTerm serializes the descriptor as mode(name).
func (d Descriptor) ToTerm() core.Term {
	tag := "param"
	if d.Mode == READ_WRITE {
		tag = "rwparam"
	}
	return core.Term{Tag: tag, Children: []core.Term{core.Atomic(d.Name)}}
}

// FromTerm rebuilds a Descriptor from its term form.
func FromTerm(t core.Term) (Descriptor, error) {
	if len(t.Children) != 1 || !t.Children[0].IsAtom() {
		return Descriptor{}, verror.NewTermConversion("malformed parameter term: " + t.Tag)
	}
	name, ok := t.Children[0].Atom.(string)
	if !ok {
		return Descriptor{}, verror.NewTermConversion("parameter name must be a string atom")
	}
	switch t.Tag {
	case "param":
		return Descriptor{Name: name, Mode: VALUE}, nil
	case "rwparam":
		return Descriptor{Name: name, Mode: READ_WRITE}, nil
	default:
		return Descriptor{}, verror.NewTermConversion("unknown parameter tag: " + t.Tag)
	}
}

// EqualStructural compares two descriptors by name and mode.
func (d Descriptor) EqualStructural(o Descriptor) bool { return d.Name == o.Name && d.Mode == o.Mode }

// CompareTotal orders descriptors by mode, then name (§4.3.4's pairwise
// parameter comparison).
func (d Descriptor) CompareTotal(o Descriptor) int {
	if d.Mode != o.Mode {
		if d.Mode < o.Mode {
			return -1
		}
		return 1
	}
	switch {
	case d.Name < o.Name:
		return -1
	case d.Name > o.Name:
		return 1
	default:
		return 0
	}
}

func init() {
	term.Register("param", func(t core.Term) (core.Value, error) { return nil, notAValue(t) })
	term.Register("rwparam", func(t core.Term) (core.Value, error) { return nil, notAValue(t) })
}

func notAValue(t core.Term) error {
	return verror.NewTermConversion("parameter descriptors are not standalone values: " + t.Tag)
}
