package parser

import (
	"github.com/leapstack-labs/leapparse/pkg/token"
)

// operatorLabel is tracked when an expression could have continued with a
// binary operator.
const operatorLabel = "operator"

// parseExpr parses an expression by precedence climbing. Only binary
// operators with a level of at least minPrec are consumed at this depth.
//
//	expr → unary (binop expr)*
func (p *Parser) parseExpr(minPrec int) (Expr, bool) {
	if !p.enter() {
		return nil, false
	}
	defer p.leave()

	start := p.start()
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}

	for {
		op := p.cur()
		prec, isOp := p.ops.Lookup(op.Type)
		if !isOp {
			p.track(operatorLabel)
			return left, true
		}
		if prec.Level < minPrec {
			return left, true
		}
		p.advance()

		right, ok := p.parseExpr(nextMinPrecedence(prec))
		if !ok {
			return nil, false
		}
		bin := &BinaryExpr{Op: op.Type, Left: left, Right: right}
		bin.Span = p.spanFrom(start)
		left = bin
	}
}

// parseUnary parses prefix operators and then a primary expression.
//
//	unary → NOT expr | ("-" | "+") expr | primary
func (p *Parser) parseUnary() (Expr, bool) {
	var operandPrec int
	switch p.cur().Type {
	case token.NOT:
		operandPrec = notPrecedence
	case token.MINUS, token.PLUS:
		operandPrec = unaryPrecedence
	default:
		return p.parsePrimary()
	}

	start := p.start()
	op := p.advance()
	operand, ok := p.parseExpr(operandPrec)
	if !ok {
		return nil, false
	}
	u := &UnaryExpr{Op: op.Type, Expr: operand}
	u.Span = p.spanFrom(start)
	return u, true
}
