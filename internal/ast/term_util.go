package ast

import (
	"fmt"

	"github.com/rill-lang/rill/internal/core"
)

func termEqual(a, b core.Term) bool {
	return termCompare(a, b) == 0
}

func termCompare(a, b core.Term) int {
	af, bf := formatAtomOrTag(a), formatAtomOrTag(b)
	if a.IsAtom() && b.IsAtom() {
		if af == bf {
			return 0
		}
		if af < bf {
			return -1
		}
		return 1
	}
	if a.IsAtom() != b.IsAtom() {
		if a.IsAtom() {
			return -1
		}
		return 1
	}
	if a.Tag != b.Tag {
		if a.Tag < b.Tag {
			return -1
		}
		return 1
	}
	if len(a.Children) != len(b.Children) {
		if len(a.Children) < len(b.Children) {
			return -1
		}
		return 1
	}
	for i := range a.Children {
		if c := termCompare(a.Children[i], b.Children[i]); c != 0 {
			return c
		}
	}
	return 0
}

func formatAtomOrTag(t core.Term) string {
	if t.IsAtom() {
		return fmt.Sprintf("%v", t.Atom)
	}
	return t.Tag
}
