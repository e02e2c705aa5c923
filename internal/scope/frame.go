// Package scope implements the hierarchical variable-scope stack (§4.2):
// frames chained by parent, searched and written according to three
// flags (restrict_to_functions, read_through, write_through), plus the
// global and initial process-wide frames.
//
// Frames are held in a per-evaluator arena and referenced by integer
// index rather than by pointer (§9 DESIGN NOTES: "an arena of frames
// indexed by integer id"), directly grounded in the teacher's
// internal/frame design (Frame.Parent int, never a pointer). Closures do
// not hold frames or frame indices: they capture a map of values.
package scope

import "github.com/rill-lang/rill/internal/core"

// noParent marks a frame with no parent (the global and initial frames).
const noParent = -1

// Frame is one link in the scope chain (§3 "Scope frame").
type Frame struct {
	Bindings            map[string]core.Value
	Parent              int
	RestrictToFunctions bool
	ReadThrough         bool
	WriteThrough        bool
}

func newFrame(parent int, restrict, readThrough, writeThrough bool) *Frame {
	return &Frame{
		Bindings:            make(map[string]core.Value),
		Parent:              parent,
		RestrictToFunctions: restrict,
		ReadThrough:         readThrough,
		WriteThrough:        writeThrough,
	}
}

func isProcedureOrOmega(v core.Value) bool {
	t := v.GetType()
	return t == core.TypeProcedure || t == core.TypeOmega
}
