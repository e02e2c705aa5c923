// Package verror implements structured error handling for the Rill
// interpreter core.
//
// Every failure the core can raise carries a Kind (the taxonomy from the
// error-handling design: incompatible-type, undefined-operation,
// term-conversion, user-thrown, language-level, stack-overflow), a stable
// kebab-case ID for programmatic matching, and optional Near/Where
// diagnostic context captured as the error propagates up the call stack.
package verror

import (
	"fmt"
	"strings"
)

// Kind distinguishes the error taxonomy a catch site can select on.
// The user language offers exactly two catch variants (scenario 6): one
// that matches only KindUser, one that matches everything else.
type Kind uint8

const (
	KindIncompatibleType Kind = iota
	KindUndefinedOperation
	KindTermConversion
	KindUser
	KindLanguage
	KindStackOverflow
)

func (k Kind) String() string {
	switch k {
	case KindIncompatibleType:
		return "incompatible-type"
	case KindUndefinedOperation:
		return "undefined-operation"
	case KindTermConversion:
		return "term-conversion"
	case KindUser:
		return "user-thrown"
	case KindLanguage:
		return "language-level"
	case KindStackOverflow:
		return "stack-overflow"
	default:
		return "unknown"
	}
}

// IsUserThrown reports whether the error should be caught by a catchUsr
// clause rather than a catchLng clause.
func (k Kind) IsUserThrown() bool {
	return k == KindUser
}

// Error is the concrete error type raised throughout the core. It
// implements the standard error interface so it composes with %w and
// errors.As/errors.Is.
type Error struct {
	Kind    Kind
	ID      string
	Args    [3]string
	Near    string   // expression window around the failure, if captured
	Where   []string // call stack, most recent frame first
	Depth   int      // first-overflow call depth; only meaningful for KindStackOverflow
	Message string
}

// New creates an Error of the given kind and ID. The message is derived
// from a template keyed by ID, with %1/%2/%3 substituted from args.
func New(kind Kind, id string, args [3]string) *Error {
	return &Error{
		Kind:    kind,
		ID:      id,
		Args:    args,
		Message: formatMessage(id, args),
	}
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s error: %s", e.Kind, e.Message)
	if e.Near != "" {
		fmt.Fprintf(&sb, "\nNear: %s", e.Near)
	}
	if len(e.Where) > 0 {
		fmt.Fprintf(&sb, "\nWhere: %s", strings.Join(e.Where, " <- "))
	}
	return sb.String()
}

// SetNear attaches expression-window context; no-op if already set.
func (e *Error) SetNear(near string) *Error {
	if e.Near == "" {
		e.Near = near
	}
	return e
}

// SetWhere attaches call-stack context; no-op if already set.
func (e *Error) SetWhere(where []string) *Error {
	if len(e.Where) == 0 {
		e.Where = where
	}
	return e
}

// Incompatible-type, undefined-operation, and term-conversion factories —
// these are raised by the value/term packages, never user-visible as a
// Go panic.

func NewIncompatibleType(op, variant string) *Error {
	return New(KindIncompatibleType, "incompatible-type", [3]string{op, variant, ""})
}

func NewUndefinedOperation(detail string) *Error {
	return New(KindUndefinedOperation, "undefined-operation", [3]string{detail, "", ""})
}

func NewTermConversion(detail string) *Error {
	return New(KindTermConversion, "term-conversion", [3]string{detail, "", ""})
}

// NewUserThrown wraps a value explicitly raised via the user language's
// throw construct. payload is the String() form of the thrown value.
func NewUserThrown(payload string) *Error {
	return New(KindUser, "user-thrown", [3]string{payload, "", ""})
}

// NewLanguage covers parse, resolution, and type errors raised by the
// interpreter itself (distinct from user-thrown for selective catch).
func NewLanguage(id string, args [3]string) *Error {
	return New(KindLanguage, id, args)
}

// NewStackOverflow records the call depth at first overflow, as required
// by the call protocol step 7.
func NewStackOverflow(depth int) *Error {
	err := New(KindStackOverflow, "stack-overflow", [3]string{})
	err.Depth = depth
	return err
}

func formatMessage(id string, args [3]string) string {
	template, ok := messageTemplates[id]
	if !ok {
		template = "%1 %2 %3"
	}
	msg := template
	msg = strings.ReplaceAll(msg, "%1", args[0])
	msg = strings.ReplaceAll(msg, "%2", args[1])
	msg = strings.ReplaceAll(msg, "%3", args[2])
	return strings.TrimSpace(msg)
}

var messageTemplates = map[string]string{
	"incompatible-type":  "operation '%1' is not supported on a %2 value",
	"undefined-operation": "undefined operation: %1",
	"term-conversion":     "malformed term: %1",
	"user-thrown":         "%1",
	"stack-overflow":      "stack overflow",
	"no-value":            "no value bound for '%1'",
	"not-assignable":      "not assignable: %1",
	"call-arity":          "procedure '%1' expects %2 arguments, got %3",
	"div-zero":            "division by zero",
}

// categoryLabel names the banner category FormatErrorWithContext prints
// for a Kind, mirroring the teacher's ErrorCategory.String() naming
// convention (a capitalized one-word category, not the kebab-case Kind
// string used for programmatic matching).
func (k Kind) categoryLabel() string {
	switch k {
	case KindUser:
		return "Throw"
	case KindStackOverflow:
		return "Internal"
	case KindIncompatibleType, KindUndefinedOperation, KindTermConversion, KindLanguage:
		return "Script"
	default:
		return "Unknown"
	}
}

// FormatErrorWithContext renders err as a "** <Category> Error (<id>)"
// banner followed by the message and the same Near/Where diagnostic
// lines Error() composes for errors.Is/As, but in the display form the
// teacher's CLI and REPL print (cmd/rill, internal/replshell): this is
// the module's only error-rendering path, replacing ad hoc
// fmt.Fprintln(..., "error:", err) calls.
func FormatErrorWithContext(err error) string {
	e, ok := err.(*Error)
	if !ok {
		return err.Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "** %s Error (%s)\n", e.Kind.categoryLabel(), e.ID)
	sb.WriteString(e.Message)
	if e.Near != "" {
		fmt.Fprintf(&sb, "\nNear: %s", e.Near)
	}
	if len(e.Where) > 0 {
		fmt.Fprintf(&sb, "\nWhere: %s", strings.Join(e.Where, " <- "))
	}
	return sb.String()
}

// CaptureNear renders a window of values around idx (3 before, current, 3
// after) using each value's String() form. The evaluator does not call
// it; its error annotation sets only Where.
func CaptureNear(near []fmt.Stringer, idx int) string {
	if idx < 0 || idx >= len(near) {
		return ""
	}
	lo := idx - 3
	if lo < 0 {
		lo = 0
	}
	hi := idx + 4
	if hi > len(near) {
		hi = len(near)
	}
	parts := make([]string, 0, hi-lo)
	for i := lo; i < hi; i++ {
		s := near[i].String()
		if i == idx {
			s = ">>> " + s + " <<<"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
