package ast

import (
	"strings"

	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/scope"
)

// Ident is an identifier read or assignment target (§6.1).
type Ident struct {
	Name string
}

// Evaluate looks the identifier up in scope; on a miss it falls back to
// the host's pre-defined-function/initial-scope resolution (§4.6).
func (id Ident) Evaluate(s scope.Scope, h Host) (core.Value, error) {
	if v, found, _ := s.Lookup(id.Name); found {
		return v, nil
	}
	return h.ResolveIdentifier(id.Name, s)
}

// Assign stores v under this identifier's name via the scope's ordinary
// store rule (honoring write_through / make_global promotion, §4.2).
func (id Ident) Assign(s scope.Scope, _ Host, v core.Value) error {
	s.Store(id.Name, v)
	return nil
}

func (id Ident) ToTerm() core.Term { return core.Term{Tag: "^ident", Children: []core.Term{core.Atomic(id.Name)}} }

func (id Ident) CollectVariables(bound, unbound map[string]bool) {
	if !bound[id.Name] {
		unbound[id.Name] = true
	}
}

func (id Ident) AppendString(sb *strings.Builder, tabs int) {
	writeIndent(sb, tabs)
	sb.WriteString(id.Name)
}

// MakeGlobal promotes an identifier to the global frame before a store
// (§4.2's make_global, §4.6's assignment-path touchpoint).
type MakeGlobal struct {
	Name string
}

func (m MakeGlobal) Evaluate(s scope.Scope, _ Host) (core.Value, error) {
	s.MakeGlobal(m.Name)
	v, _, _ := s.Lookup(m.Name)
	return v, nil
}
func (m MakeGlobal) ToTerm() core.Term {
	return core.Term{Tag: "^make_global", Children: []core.Term{core.Atomic(m.Name)}}
}
func (m MakeGlobal) CollectVariables(bound, _ map[string]bool) { bound[m.Name] = true }
func (m MakeGlobal) AppendString(sb *strings.Builder, tabs int) {
	writeIndent(sb, tabs)
	sb.WriteString("make_global(")
	sb.WriteString(m.Name)
	sb.WriteByte(')')
}
