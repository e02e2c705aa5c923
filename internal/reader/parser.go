package reader

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ericlagergren/decimal"
	"github.com/rill-lang/rill/internal/ast"
	"github.com/rill-lang/rill/internal/param"
	"github.com/rill-lang/rill/internal/value"
)

// Parser is a one-token-lookahead recursive-descent parser over a
// pre-scanned token stream, producing the ast package's node types.
type Parser struct {
	tokens []Token
	pos    int
}

// Parse tokenizes and parses src as a top-level program: a sequence of
// statements with no surrounding braces.
func Parse(src string) (ast.Block, error) {
	tz := NewTokenizer(src)
	var tokens []Token
	for {
		tok, err := tz.Next()
		if err != nil {
			return ast.Block{}, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	p := &Parser{tokens: tokens}
	stmts, err := p.statementsUntil(TokenEOF)
	if err != nil {
		return ast.Block{}, err
	}
	return ast.Block{Statements: stmts}, nil
}

func (p *Parser) cur() Token  { return p.tokens[p.pos] }
func (p *Parser) peekNext() Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(tt TokenType, what string) (Token, error) {
	if p.cur().Type != tt {
		return Token{}, p.errf("expected %s, got %q", what, p.cur().Value)
	}
	return p.advance(), nil
}

func (p *Parser) errf(format string, args ...any) error {
	t := p.cur()
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s at line %d, column %d", msg, t.Line, t.Column)
}

// statementsUntil parses statements until the current token is stop (not
// consumed) or EOF.
func (p *Parser) statementsUntil(stop TokenType) ([]ast.Expression, error) {
	var stmts []ast.Expression
	for p.cur().Type != TokenEOF && p.cur().Type != stop {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) block() (ast.Block, error) {
	if _, err := p.expect(TokenLBrace, "'{'"); err != nil {
		return ast.Block{}, err
	}
	stmts, err := p.statementsUntil(TokenRBrace)
	if err != nil {
		return ast.Block{}, err
	}
	if _, err := p.expect(TokenRBrace, "'}'"); err != nil {
		return ast.Block{}, err
	}
	return ast.Block{Statements: stmts}, nil
}

func (p *Parser) statement() (ast.Expression, error) {
	tok := p.cur()
	if tok.Type == TokenKeyword {
		switch tok.Value {
		case "return":
			return p.returnStatement()
		case "throw":
			return p.throwStatement()
		case "makeGlobal":
			return p.makeGlobalStatement()
		case "for":
			return p.forStatement()
		case "try":
			return p.tryStatement()
		case "procedure", "closure":
			if stmt, ok, err := p.namedProcedureStatement(); ok || err != nil {
				return stmt, err
			}
		}
	}
	return p.exprStatement()
}

func (p *Parser) returnStatement() (ast.Expression, error) {
	p.advance() // "return"
	if p.cur().Type == TokenSemicolon {
		p.advance()
		return ast.Return{}, nil
	}
	val, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon, "';'"); err != nil {
		return nil, err
	}
	return ast.Return{Value: val}, nil
}

func (p *Parser) throwStatement() (ast.Expression, error) {
	p.advance() // "throw"
	if _, err := p.expect(TokenLParen, "'('"); err != nil {
		return nil, err
	}
	payload, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon, "';'"); err != nil {
		return nil, err
	}
	return ast.Throw{Payload: payload}, nil
}

func (p *Parser) makeGlobalStatement() (ast.Expression, error) {
	p.advance() // "makeGlobal"
	if _, err := p.expect(TokenLParen, "'('"); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent, "identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon, "';'"); err != nil {
		return nil, err
	}
	return ast.MakeGlobal{Name: name.Value}, nil
}

func (p *Parser) forStatement() (ast.Expression, error) {
	p.advance() // "for"
	varName, err := p.expect(TokenIdent, "loop variable")
	if err != nil {
		return nil, err
	}
	if p.cur().Type != TokenKeyword || p.cur().Value != "in" {
		return nil, p.errf("expected 'in', got %q", p.cur().Value)
	}
	p.advance()
	iterable, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.ForEach{VarName: varName.Value, Iterable: iterable, Body: body}, nil
}

func (p *Parser) tryStatement() (ast.Expression, error) {
	p.advance() // "try"
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	t := ast.Try{Body: body}
	for p.cur().Type == TokenKeyword && (p.cur().Value == "catchUsr" || p.cur().Value == "catchLng") {
		isUsr := p.cur().Value == "catchUsr"
		p.advance()
		if _, err := p.expect(TokenLParen, "'('"); err != nil {
			return nil, err
		}
		varName, err := p.expect(TokenIdent, "catch variable")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen, "')'"); err != nil {
			return nil, err
		}
		clauseBody, err := p.block()
		if err != nil {
			return nil, err
		}
		clause := &ast.CatchClause{VarName: varName.Value, Body: clauseBody}
		if isUsr {
			t.CatchUsr = clause
		} else {
			t.CatchLng = clause
		}
	}
	return t, nil
}

// namedProcedureStatement recognizes `procedure name(params) {body}` /
// `closure name(params) {body}` as sugar for `name := procedure(...)` —
// returns ok=false if the keyword is instead followed directly by '(',
// which is the anonymous-literal form handled by the expression grammar.
func (p *Parser) namedProcedureStatement() (ast.Expression, bool, error) {
	if p.peekNext().Type != TokenIdent {
		return nil, false, nil
	}
	isClosure := p.cur().Value == "closure"
	p.advance() // "procedure" / "closure"
	name := p.advance().Value
	lit, err := p.procLitAfterKeyword(isClosure, false)
	if err != nil {
		return nil, true, err
	}
	if p.cur().Type == TokenSemicolon {
		p.advance()
	}
	return ast.Assign{Target: ast.Ident{Name: name}, Value: lit}, true, nil
}

func (p *Parser) exprStatement() (ast.Expression, error) {
	expr, err := p.assignOrExpression()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == TokenSemicolon {
		p.advance()
	}
	return expr, nil
}

func (p *Parser) assignOrExpression() (ast.Expression, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == TokenAssign {
		p.advance()
		val, err := p.expression()
		if err != nil {
			return nil, err
		}
		return ast.Assign{Target: ast.AsAssignable(expr), Value: val}, nil
	}
	return expr, nil
}

// expression parses the comparison-precedence level, the weakest of the
// three arithmetic/comparison tiers (§6.1's binary arithmetic/comparison).
func (p *Parser) expression() (ast.Expression, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == TokenOp && (p.cur().Value == "=" || p.cur().Value == "<" || p.cur().Value == ">") {
		op := p.advance().Value
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) additive() (ast.Expression, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == TokenOp && (p.cur().Value == "+" || p.cur().Value == "-") {
		op := p.advance().Value
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) multiplicative() (ast.Expression, error) {
	left, err := p.callExpr()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == TokenOp && (p.cur().Value == "*" || p.cur().Value == "/") {
		op := p.advance().Value
		right, err := p.callExpr()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// callExpr parses a primary followed by zero or more parenthesized
// argument lists, covering both procedure calls and the 1-based
// index-into-container sugar `xs(1)` (§6.1).
func (p *Parser) callExpr() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == TokenLParen {
		p.advance()
		var args []ast.Expression
		for p.cur().Type != TokenRParen {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur().Type == TokenComma {
				p.advance()
			}
		}
		if _, err := p.expect(TokenRParen, "')'"); err != nil {
			return nil, err
		}
		expr = ast.Call{Callee: expr, Args: args}
	}
	return expr, nil
}

func (p *Parser) primary() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case TokenInt:
		p.advance()
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, p.errf("invalid integer literal %q", tok.Value)
		}
		return ast.Literal{V: value.IntVal(n)}, nil
	case TokenRational:
		p.advance()
		r, ok := new(big.Rat).SetString(tok.Value)
		if !ok {
			return nil, p.errf("invalid rational literal %q", tok.Value)
		}
		return ast.Literal{V: value.RationalVal(r)}, nil
	case TokenReal:
		p.advance()
		d, ok := new(decimal.Big).SetString(tok.Value)
		if !ok {
			return nil, p.errf("invalid real literal %q", tok.Value)
		}
		return ast.Literal{V: value.RealVal(d)}, nil
	case TokenString:
		p.advance()
		return ast.Literal{V: value.StrVal(tok.Value)}, nil
	case TokenIdent:
		p.advance()
		return ast.Ident{Name: tok.Value}, nil
	case TokenLParen:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case TokenLBracket:
		return p.listLiteral()
	case TokenKeyword:
		switch tok.Value {
		case "true":
			p.advance()
			return ast.Literal{V: value.LogicVal(true)}, nil
		case "false":
			p.advance()
			return ast.Literal{V: value.LogicVal(false)}, nil
		case "none":
			p.advance()
			return ast.Literal{V: value.NoneVal()}, nil
		case "procedure":
			p.advance()
			return p.procLitAfterKeyword(false, false)
		case "closure":
			p.advance()
			return p.procLitAfterKeyword(true, false)
		case "lambda":
			p.advance()
			return p.procLitAfterKeyword(false, true)
		}
	}
	return nil, p.errf("unexpected token %q", tok.Value)
}

func (p *Parser) listLiteral() (ast.Expression, error) {
	p.advance() // '['
	var elems []ast.Expression
	for p.cur().Type != TokenRBracket {
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.cur().Type == TokenComma {
			p.advance()
		}
	}
	if _, err := p.expect(TokenRBracket, "']'"); err != nil {
		return nil, err
	}
	return ast.ListLit{Elems: elems}, nil
}

// procLitAfterKeyword parses `(params) {body}` following a consumed
// procedure/closure/lambda keyword.
func (p *Parser) procLitAfterKeyword(isClosure, isLambda bool) (ast.Expression, error) {
	if _, err := p.expect(TokenLParen, "'('"); err != nil {
		return nil, err
	}
	var params []param.Descriptor
	for p.cur().Type != TokenRParen {
		readWrite := false
		if p.cur().Type == TokenKeyword && p.cur().Value == "rw" {
			readWrite = true
			p.advance()
		}
		name, err := p.expect(TokenIdent, "parameter name")
		if err != nil {
			return nil, err
		}
		if readWrite {
			params = append(params, param.NewReadWrite(name.Value))
		} else {
			params = append(params, param.New(name.Value))
		}
		if p.cur().Type == TokenComma {
			p.advance()
		}
	}
	if _, err := p.expect(TokenRParen, "')'"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.ProcLit{Params: params, Body: body, IsClosure: isClosure, IsLambda: isLambda}, nil
}
