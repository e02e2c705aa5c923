package stdlib

import (
	"testing"

	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/value"
)

func TestLookupKnownAndUnknown(t *testing.T) {
	if _, ok := Lookup("print"); !ok {
		t.Fatalf("expected print to be registered")
	}
	if _, ok := Lookup("size"); !ok {
		t.Fatalf("expected size to be registered")
	}
	if _, ok := Lookup("does_not_exist"); ok {
		t.Fatalf("expected does_not_exist to be unregistered")
	}
}

func TestSizeExecutesAgainstAList(t *testing.T) {
	fn, _ := Lookup("size")
	list := value.NewList([]core.Value{value.IntVal(1), value.IntVal(2), value.IntVal(3)})
	result, writeBacks, err := fn.Execute([]core.Value{list})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if writeBacks != nil {
		t.Fatalf("size takes no READ_WRITE parameters, expected no write-backs")
	}
	if n, _ := value.AsInteger(result); n != 3 {
		t.Fatalf("expected 3, got %v", result)
	}
}

func TestSizeRejectsAtoms(t *testing.T) {
	fn, _ := Lookup("size")
	if _, _, err := fn.Execute([]core.Value{value.IntVal(5)}); err == nil {
		t.Fatalf("expected an error sizing a non-container value")
	}
}

func TestNativeTermRoundTrip(t *testing.T) {
	fn, _ := Lookup("print")
	term := fn.ToTerm()
	if term.Tag != "^native" {
		t.Fatalf("expected ^native tag, got %v", term.Tag)
	}
	name, ok := term.Children[0].Atom.(string)
	if !ok || name != "print" {
		t.Fatalf("expected the term to carry the name %q, got %v", "print", term.Children[0].Atom)
	}
	back, found := Lookup(name)
	if !found || back.Name() != "print" {
		t.Fatalf("expected Lookup(%q) to resolve back to the same native", name)
	}
}

func TestRegisterAddsToRegistry(t *testing.T) {
	Register("test_identity", nil, func(args []core.Value) (core.Value, []core.Value, error) {
		return args[0], nil, nil
	})
	fn, ok := Lookup("test_identity")
	if !ok {
		t.Fatalf("expected test_identity to be registered")
	}
	result, _, err := fn.Execute([]core.Value{value.IntVal(7)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := value.AsInteger(result); n != 7 {
		t.Fatalf("expected 7, got %v", result)
	}
}

func TestCompareTotalOrdersByName(t *testing.T) {
	print, _ := Lookup("print")
	size, _ := Lookup("size")
	if print.CompareTotal(size) >= 0 {
		t.Fatalf("expected print < size lexically")
	}
	if print.CompareTotal(print) != 0 {
		t.Fatalf("expected a native to compare equal to itself")
	}
}
