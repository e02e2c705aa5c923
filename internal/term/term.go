// Package term implements the canonical term wire format (§6: prefix
// functional form tag(child1,...,childk)) and the process-wide
// functional-character registry used by from_term (§4.5).
//
// The registry maps a term's tag to the constructor that rebuilds the
// corresponding value variant. Registration happens eagerly: each value
// package's init() registers a plain Go function per tag, and Construct
// only looks the tag up — in place of the teacher's
// reflective-resolution-then-cache pattern, per DESIGN NOTES §9 (no
// reflection in the target language).
package term

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"

	"github.com/rill-lang/rill/internal/core"
	"github.com/rill-lang/rill/internal/verror"
)

// Constructor rebuilds a value from a term whose tag it is registered
// under. Implementations live in the value/scope/procedure packages.
type Constructor func(t core.Term) (core.Value, error)

var (
	mu       sync.Mutex
	registry = make(map[string]Constructor)
)

// Register associates a functional character with its constructor.
// Safe for concurrent use; intended to be called from package init().
func Register(tag string, ctor Constructor) {
	mu.Lock()
	defer mu.Unlock()
	registry[tag] = ctor
}

// Construct resolves t.Tag against the registry and invokes the
// constructor. Concurrent callers racing on the same tag are serialized by
// the same mutex that guards registration, so they agree on which
// constructor ran (§5).
func Construct(t core.Term) (core.Value, error) {
	mu.Lock()
	ctor, ok := registry[t.Tag]
	mu.Unlock()
	if !ok {
		return nil, verror.NewTermConversion(fmt.Sprintf("unknown functional character %q", t.Tag))
	}
	return ctor(t)
}

// Format renders a term in its canonical wire form.
func Format(t core.Term) string {
	var sb strings.Builder
	writeTerm(&sb, t)
	return sb.String()
}

func writeTerm(sb *strings.Builder, t core.Term) {
	if t.IsAtom() {
		writeAtom(sb, t.Atom)
		return
	}
	sb.WriteString(t.Tag)
	sb.WriteByte('(')
	for i, c := range t.Children {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeTerm(sb, c)
	}
	sb.WriteByte(')')
}

func writeAtom(sb *strings.Builder, a any) {
	switch v := a.(type) {
	case bool:
		if v {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case int64:
		sb.WriteString(strconv.FormatInt(v, 10))
	case *big.Rat:
		sb.WriteString(v.RatString())
	case string:
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(v, `"`, `\"`))
		sb.WriteByte('"')
	case core.NoneAtom:
		sb.WriteString("none")
	case fmt.Stringer:
		sb.WriteString(v.String())
	case nil:
		sb.WriteString("none")
	default:
		fmt.Fprintf(sb, "%v", v)
	}
}

// Parse reads a single term from its canonical wire form.
func Parse(s string) (core.Term, error) {
	p := &parser{src: s}
	p.skipSpace()
	t, err := p.readTerm()
	if err != nil {
		return core.Term{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return core.Term{}, verror.NewTermConversion("trailing input after term")
	}
	return t, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) readTerm() (core.Term, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return core.Term{}, verror.NewTermConversion("unexpected end of term")
	}
	switch {
	case p.peek() == '"':
		s, err := p.readString()
		if err != nil {
			return core.Term{}, err
		}
		return core.Atomic(s), nil
	case p.peek() == '-' || isDigit(p.peek()):
		return p.readNumberOrTag()
	case isIdentStart(p.peek()) || p.peek() == '^':
		return p.readWordOrTag()
	default:
		return core.Term{}, verror.NewTermConversion(fmt.Sprintf("unexpected character %q", p.peek()))
	}
}

func (p *parser) readString() (string, error) {
	p.pos++ // consume opening quote
	var sb strings.Builder
	for {
		if p.pos >= len(p.src) {
			return "", verror.NewTermConversion("unterminated string literal")
		}
		c := p.src[p.pos]
		if c == '"' {
			p.pos++
			return sb.String(), nil
		}
		if c == '\\' && p.pos+1 < len(p.src) {
			p.pos++
			sb.WriteByte(p.src[p.pos])
			p.pos++
			continue
		}
		sb.WriteByte(c)
		p.pos++
	}
}

func (p *parser) readNumberOrTag() (core.Term, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for p.pos < len(p.src) && (isDigit(p.src[p.pos]) || p.src[p.pos] == '/') {
		p.pos++
	}
	lit := p.src[start:p.pos]
	if strings.Contains(lit, "/") {
		r, ok := new(big.Rat).SetString(lit)
		if !ok {
			return core.Term{}, verror.NewTermConversion("invalid rational literal: " + lit)
		}
		return core.Atomic(r), nil
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return core.Term{}, verror.NewTermConversion("invalid integer literal: " + lit)
	}
	return core.Atomic(n), nil
}

func (p *parser) readWordOrTag() (core.Term, error) {
	start := p.pos
	if p.peek() == '^' {
		p.pos++
	}
	for p.pos < len(p.src) && isIdentChar(p.src[p.pos]) {
		p.pos++
	}
	word := p.src[start:p.pos]
	switch word {
	case "true":
		return core.Atomic(true), nil
	case "false":
		return core.Atomic(false), nil
	case "none":
		return core.Atomic(nil), nil
	}
	if p.peek() != '(' {
		return core.Term{Tag: word}, nil
	}
	p.pos++ // consume '('
	var children []core.Term
	p.skipSpace()
	if p.peek() != ')' {
		for {
			child, err := p.readTerm()
			if err != nil {
				return core.Term{}, err
			}
			children = append(children, child)
			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
				continue
			}
			break
		}
	}
	p.skipSpace()
	if p.peek() != ')' {
		return core.Term{}, verror.NewTermConversion("expected ')' closing " + word)
	}
	p.pos++
	return core.Term{Tag: word, Children: children}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
