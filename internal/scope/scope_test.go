package scope

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/trace"
	"github.com/rill-lang/rill/internal/value"
)

// TestNewChildEmitsFramePush confirms scope-frame allocation is wired
// into the trace session (step 3's "one JSON event per scope-frame
// lifecycle transition"), restoring the previous global session after.
func TestNewChildEmitsFramePush(t *testing.T) {
	prev := trace.Global
	defer func() { trace.Global = prev }()

	var buf bytes.Buffer
	session := trace.NewSession(&buf)
	session.Enable()
	trace.Global = session

	store := NewStore()
	root := store.NewRootChild()
	buf.Reset() // NewRootChild's own push already landed; isolate the next one
	child := root.NewChild(false, false, false)

	var evt trace.Event
	if err := json.Unmarshal(buf.Bytes(), &evt); err != nil {
		t.Fatalf("expected a JSON frame-push event, got error %v (%q)", err, buf.String())
	}
	if evt.Kind != "frame-push" || evt.FrameIdx != child.Index() {
		t.Fatalf("unexpected event: %#v", evt)
	}
}

func TestExitFrameEmitsFramePop(t *testing.T) {
	prev := trace.Global
	defer func() { trace.Global = prev }()

	var buf bytes.Buffer
	session := trace.NewSession(&buf)
	session.Enable()
	trace.Global = session

	store := NewStore()
	root := store.NewRootChild()
	child := root.NewChild(false, false, false)
	buf.Reset()
	child.ExitFrame()

	var evt trace.Event
	if err := json.Unmarshal(buf.Bytes(), &evt); err != nil {
		t.Fatalf("expected a JSON frame-pop event, got error %v (%q)", err, buf.String())
	}
	if evt.Kind != "frame-pop" || evt.FrameIdx != child.Index() {
		t.Fatalf("unexpected event: %#v", evt)
	}
}

func TestLookupLocalAndAncestor(t *testing.T) {
	store := NewStore()
	root := store.NewRootChild()
	root.Store("x", value.IntVal(1))

	child := root.NewChild(false, false, false)
	v, found, fromAncestor := child.Lookup("x")
	if !found || !fromAncestor {
		t.Fatalf("expected to find x from ancestor, got found=%v fromAncestor=%v", found, fromAncestor)
	}
	if n, _ := value.AsInteger(v); n != 1 {
		t.Fatalf("expected 1, got %v", v)
	}

	if _, found, _ := child.Lookup("nope"); found {
		t.Fatalf("expected nope to be missing")
	}
}

func TestRestrictToFunctionsShadowsNonProcedures(t *testing.T) {
	store := NewStore()
	root := store.NewRootChild()
	root.Store("s", value.IntVal(99))

	callee := root.NewFunctionsOnlyChild()
	v, found, _ := callee.Lookup("s")
	if !found {
		t.Fatalf("expected s to be found (as shadowed undefined)")
	}
	if _, ok := v.(value.OmegaValue); !ok {
		t.Fatalf("expected non-procedure value across a functions-only boundary to resolve to omega, got %v", v)
	}
}

func TestRestrictToFunctionsAllowsProcedures(t *testing.T) {
	store := NewStore()
	root := store.NewRootChild()
	proc := value.ProcVal(fakeProcedureView{})
	root.Store("f", proc)

	callee := root.NewFunctionsOnlyChild()
	v, found, _ := callee.Lookup("f")
	if !found {
		t.Fatalf("expected f to be found")
	}
	if v != proc {
		t.Fatalf("expected the procedure value to pass through unshadowed")
	}
}

func TestWriteThroughDelegatesUpward(t *testing.T) {
	store := NewStore()
	root := store.NewRootChild()
	root.Store("s", value.IntVal(0))

	iter := root.NewIteratorChild()
	iter.BindLocal("i", value.IntVal(1))
	iter.Store("s", value.IntVal(5))

	if v, _, _ := root.Lookup("s"); func() int64 { n, _ := value.AsInteger(v); return n }() != 5 {
		t.Fatalf("expected outer s to be updated to 5, got %v", v)
	}
	if _, found, _ := root.Lookup("i"); found {
		t.Fatalf("expected loop variable i to not leak into outer scope")
	}
}

func TestMakeGlobalPromotesSubsequentStores(t *testing.T) {
	store := NewStore()
	root := store.NewRootChild()
	root.MakeGlobal("x")

	nested := root.NewFunctionsOnlyChild().NewFunctionsOnlyChild()
	nested.Store("x", value.IntVal(7))

	v, _, _ := store.Global().Lookup("x")
	if n, _ := value.AsInteger(v); n != 7 {
		t.Fatalf("expected global x to be 7, got %v", v)
	}
}

func TestCallStackDepthTracking(t *testing.T) {
	store := NewStore()
	if store.CallStackDepth() != 0 {
		t.Fatalf("expected initial depth 0")
	}
	d := store.EnterCall()
	if d != 1 || store.CallStackDepth() != 1 {
		t.Fatalf("expected depth 1 after EnterCall, got %d", d)
	}
	store.ExitCall()
	if store.CallStackDepth() != 0 {
		t.Fatalf("expected depth to return to 0 after ExitCall")
	}
}

// fakeProcedureView is a minimal core.ProcedureView stand-in so scope
// tests don't need to import the procedure package.
type fakeProcedureView struct{}

func (fakeProcedureView) String() string                          { return "procedure()" }
func (fakeProcedureView) EqualStructural(core.ProcedureView) bool { return false }
func (fakeProcedureView) CompareTotal(core.ProcedureView) int     { return 0 }
func (fakeProcedureView) CloneDeep() core.ProcedureView           { return fakeProcedureView{} }
func (fakeProcedureView) ToTerm() core.Term                       { return core.Term{Tag: "^fake"} }
