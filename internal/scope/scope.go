package scope

import (
	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/trace"
	"github.com/rill-lang/rill/internal/value"
)

// Scope is a lightweight handle into a Store: the (arena, index) pair.
// It is cheap to copy and is what the evaluator threads through
// procedure calls, matching the teacher's own convention of passing a
// frame index rather than a frame pointer.
type Scope struct {
	store *Store
	index int
}

// Index returns the underlying arena index, identifying this scope's
// frame (the tests compare it against trace events' frame indices).
func (s Scope) Index() int { return s.index }

// Arena exposes the owning Store, so procedure.Call can reach
// call_stack_depth tracking.
func (s Scope) Arena() *Store { return s.store }

// At reconstructs a Scope handle for a given frame index in this arena.
func (s Scope) At(index int) Scope { return Scope{store: s.store, index: index} }

func (s Scope) frame() *Frame { return s.store.frame(s.index) }

// Lookup searches the current frame, then ascends the parent chain
// honoring restrict_to_functions (§4.2). It reports whether the
// identifier was found at all, and whether the resolved binding came
// from an ancestor frame (rather than the current one).
func (s Scope) Lookup(id string) (val core.Value, found bool, fromAncestor bool) {
	f := s.frame()
	if v, ok := f.Bindings[id]; ok {
		return v, true, false
	}
	restrictActive := f.RestrictToFunctions
	idx := f.Parent
	for idx != noParent {
		pf := s.store.frame(idx)
		if v, ok := pf.Bindings[id]; ok {
			if restrictActive && !isProcedureOrOmega(v) {
				// Shadowed: the identifier exists up the chain but is
				// not a procedure, and a functions-only boundary lies
				// between here and there (§4.2, scenario 4).
				return value.NoneVal(), true, true
			}
			return v, true, true
		}
		if pf.RestrictToFunctions {
			restrictActive = true
		}
		idx = pf.Parent
	}
	return value.NoneVal(), false, false
}

// Store assigns value to id (§4.2). Identifiers promoted via MakeGlobal
// always target the global frame; otherwise a frame with no
// write_through, or one already holding id locally, stores locally, and
// a write_through frame without a local binding delegates upward,
// honoring restrict_to_functions along the way exactly as Lookup does.
func (s Scope) Store(id string, v core.Value) {
	if s.store.promoted[id] {
		s.store.frame(s.store.globalIdx).Bindings[id] = v
		return
	}
	f := s.frame()
	if _, local := f.Bindings[id]; local || !f.WriteThrough {
		f.Bindings[id] = v
		return
	}
	s.storeUp(f.Parent, id, v, f.RestrictToFunctions)
}

func (s Scope) storeUp(idx int, id string, v core.Value, restrictActive bool) {
	if idx == noParent {
		// Nothing further to delegate to; fall back to the originating
		// frame so the write is never silently lost.
		s.frame().Bindings[id] = v
		return
	}
	pf := s.store.frame(idx)
	if restrictActive && !isProcedureOrOmega(v) {
		s.frame().Bindings[id] = v
		return
	}
	if _, local := pf.Bindings[id]; local || !pf.WriteThrough {
		pf.Bindings[id] = v
		return
	}
	s.storeUp(pf.Parent, id, v, restrictActive || pf.RestrictToFunctions)
}

// BindLocal stores v under id directly in the current frame, bypassing
// write_through delegation and make_global promotion entirely. This is
// the operation definitional binding uses (parameter binding, closure
// capture replay, iterator loop-variable initialization) where the
// identifier must land exactly here regardless of any same-named
// promotion or write-through chain in effect (§4.2, §4.3.2 steps 4-5).
func (s Scope) BindLocal(id string, v core.Value) {
	s.frame().Bindings[id] = v
}

// MakeGlobal ensures id exists in the global frame (as omega if absent)
// and marks it promoted, so subsequent Store calls for id anywhere in
// this arena write straight to the global frame.
func (s Scope) MakeGlobal(id string) {
	gf := s.store.frame(s.store.globalIdx)
	if _, ok := gf.Bindings[id]; !ok {
		gf.Bindings[id] = value.NoneVal()
	}
	s.store.promoted[id] = true
}

// NewChild constructs a child frame with the given flag combination.
func (s Scope) NewChild(restrict, readThrough, writeThrough bool) Scope {
	idx := s.store.alloc(newFrame(s.index, restrict, readThrough, writeThrough))
	trace.Global.Emit(trace.Event{Kind: "frame-push", FrameIdx: idx})
	return Scope{store: s.store, index: idx}
}

// ExitFrame emits the frame-pop half of this scope's lifecycle. The arena
// itself never frees a frame (a scope value may still hold its index), so
// this is purely a lifecycle signal for tracing: call it once a frame's
// owner (a call, a loop) is done actively using it.
func (s Scope) ExitFrame() {
	trace.Global.Emit(trace.Event{Kind: "frame-pop", FrameIdx: s.index})
}

// NewChildWithBindings builds a plain (no special flags) child frame
// pre-populated with the given bindings. procedure.Call does not use it
// for object members; it binds them into the callee frame directly.
func (s Scope) NewChildWithBindings(bindings map[string]core.Value) Scope {
	child := s.NewChild(false, false, false)
	for k, v := range bindings {
		child.BindLocal(k, v)
	}
	return child
}

// NewFunctionsOnlyChild builds the frame used at call entry: locals are
// invisible to the callee except procedures and undefined (§4.3.2 step 3).
func (s Scope) NewFunctionsOnlyChild() Scope { return s.NewChild(true, false, false) }

// NewIteratorChild builds the frame used by an iterating construct: the
// loop variable is local, but stores of any other identifier pass
// through to the enclosing scope (scenario 2).
func (s Scope) NewIteratorChild() Scope { return s.NewChild(false, true, true) }

// CollectAllBindings walks the chain from the current frame outward,
// unioned with the global frame, with more-local bindings overriding
// ancestor bindings of the same name (§4.2). When includeNonFunctions is
// false, bindings that lie across a functions-only boundary and are not
// themselves procedures or omega are omitted — the same visibility rule
// Lookup applies, used when rendering a scope value that was obtained
// through a functions-only frame (§4.5 ^scope term).
func (s Scope) CollectAllBindings(includeNonFunctions bool) map[string]core.Value {
	result := make(map[string]core.Value)
	idx := s.index
	restrictActive := false
	for idx != noParent {
		f := s.store.frame(idx)
		for k, v := range f.Bindings {
			if _, already := result[k]; already {
				continue
			}
			if restrictActive && !includeNonFunctions && !isProcedureOrOmega(v) {
				continue
			}
			result[k] = v
		}
		if f.RestrictToFunctions {
			restrictActive = true
		}
		idx = f.Parent
	}
	if s.index != s.store.globalIdx {
		gf := s.store.frame(s.store.globalIdx)
		for k, v := range gf.Bindings {
			if _, already := result[k]; !already {
				result[k] = v
			}
		}
	}
	return result
}

// ToTerm renders this scope as a value.ScopeValue term (^scope(...)).
func (s Scope) ToTerm() core.Term { return value.ScopeVal(s).ToTerm() }

// AsValue wraps this scope as a first-class core.Value.
func (s Scope) AsValue() core.Value { return value.ScopeVal(s) }
