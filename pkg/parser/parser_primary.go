package parser

import (
	"github.com/leapstack-labs/leapparse/pkg/token"
)

// exprLabel is tracked when no primary expression starts at the cursor.
const exprLabel = "expression"

// parsePrimary parses a literal, column reference, function call or
// parenthesized expression.
func (p *Parser) parsePrimary() (Expr, bool) {
	tok := p.cur()
	switch tok.Type {
	case token.NUMBER:
		return p.literal(LiteralNumber), true
	case token.STRING:
		return p.literal(LiteralString), true
	case token.TRUE, token.FALSE:
		return p.literal(LiteralBool), true
	case token.NULL:
		return p.literal(LiteralNull), true
	case token.LPAREN:
		return p.parseParenExpr()
	case token.IDENT:
		if p.peekAt(1).Type == token.LPAREN {
			return p.parseFuncCall()
		}
		return p.parseColumnRef()
	}
	p.track(exprLabel)
	return nil, false
}

func (p *Parser) literal(kind LiteralKind) *Literal {
	tok := p.advance()
	return &Literal{NodeInfo: NodeInfo{Span: tok.Span}, Kind: kind, Value: tok.Text}
}

// parseParenExpr parses ( expr ).
func (p *Parser) parseParenExpr() (Expr, bool) {
	start := p.start()
	p.advance() // (
	inner, ok := p.parseExpr(0)
	if !ok || !p.expect(token.RPAREN) {
		return nil, false
	}
	return &ParenExpr{NodeInfo: NodeInfo{Span: p.spanFrom(start)}, Expr: inner}, true
}

// parseColumnRef parses column or table.column.
func (p *Parser) parseColumnRef() (Expr, bool) {
	start := p.start()
	name := p.advance().Text
	ref := &ColumnRef{Column: name}
	if p.check(token.DOT) {
		p.advance()
		col, ok := p.expectIdent()
		if !ok {
			return nil, false
		}
		ref.Table, ref.Column = name, col
	}
	ref.Span = p.spanFrom(start)
	return ref, true
}

// parseFuncCall parses a function call.
//
//	call → ident "(" ["*" | [DISTINCT] expr ("," expr)*] ")"
func (p *Parser) parseFuncCall() (Expr, bool) {
	start := p.start()
	fn := &FuncCall{Name: p.advance().Text}
	p.advance() // (

	switch {
	case p.check(token.STAR):
		p.advance()
		fn.Star = true
	case p.check(token.RPAREN):
	default:
		fn.Distinct = p.match(token.DISTINCT)
		for {
			arg, ok := p.parseExpr(0)
			if !ok {
				return nil, false
			}
			fn.Args = append(fn.Args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	if !p.expect(token.RPAREN) {
		return nil, false
	}
	fn.Span = p.spanFrom(start)
	return fn, true
}
