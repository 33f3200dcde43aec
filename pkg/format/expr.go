package format

import (
	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/leapstack-labs/leapparse/pkg/token"
)

const complexityThreshold = 5

func (p *Printer) formatExpr(e parser.Expr) {
	if e == nil {
		return
	}

	switch expr := e.(type) {
	case *parser.Literal:
		p.formatLiteral(expr)
	case *parser.ColumnRef:
		p.formatColumnRef(expr)
	case *parser.BinaryExpr:
		p.formatBinaryExpr(expr)
	case *parser.UnaryExpr:
		p.formatUnaryExpr(expr)
	case *parser.FuncCall:
		p.formatFuncCall(expr)
	case *parser.ParenExpr:
		p.formatParenExpr(expr)
	case *parser.StarExpr:
		p.formatStarExpr(expr)
	}
}

func exprComplexity(e parser.Expr) int {
	switch expr := e.(type) {
	case nil:
		return 0
	case *parser.BinaryExpr:
		return 1 + exprComplexity(expr.Left) + exprComplexity(expr.Right)
	case *parser.UnaryExpr:
		return 1 + exprComplexity(expr.Expr)
	case *parser.FuncCall:
		score := 2
		for _, arg := range expr.Args {
			score += exprComplexity(arg)
		}
		return score
	case *parser.ParenExpr:
		return exprComplexity(expr.Expr)
	default:
		return 1
	}
}

func isLogicalOp(op token.TokenType) bool {
	return op == token.AND || op == token.OR
}

func (p *Printer) formatLiteral(lit *parser.Literal) {
	switch lit.Kind {
	case parser.LiteralBool:
		if token.LookupIdent(lit.Value) == token.TRUE {
			p.kw(token.TRUE)
		} else {
			p.kw(token.FALSE)
		}
	case parser.LiteralNull:
		p.kw(token.NULL)
	default:
		p.write(lit.Value)
	}
}

func (p *Printer) formatColumnRef(col *parser.ColumnRef) {
	if col.Table != "" {
		p.write(col.Table)
		p.write(".")
	}
	p.write(col.Column)
}

func (p *Printer) formatBinaryExpr(expr *parser.BinaryExpr) {
	if p.tree {
		p.write("(")
	}
	p.formatExpr(expr.Left)

	if !p.tree && exprComplexity(expr) > complexityThreshold && isLogicalOp(expr.Op) {
		p.writeln()
	} else {
		p.space()
	}
	p.kw(expr.Op)
	p.space()

	p.formatExpr(expr.Right)
	if p.tree {
		p.write(")")
	}
}

func (p *Printer) formatUnaryExpr(expr *parser.UnaryExpr) {
	if p.tree {
		p.write("(")
	}
	p.kw(expr.Op)
	if expr.Op == token.NOT || p.tree || (expr.Op == token.MINUS && leadsWithMinus(expr.Expr)) {
		p.space()
	}
	p.formatExpr(expr.Expr)
	if p.tree {
		p.write(")")
	}
}

// leadsWithMinus reports whether e renders starting with '-'. Writing it
// straight after a unary minus would start a line comment.
func leadsWithMinus(e parser.Expr) bool {
	switch n := e.(type) {
	case *parser.UnaryExpr:
		return n.Op == token.MINUS
	case *parser.BinaryExpr:
		return leadsWithMinus(n.Left)
	}
	return false
}

func (p *Printer) formatFuncCall(fn *parser.FuncCall) {
	p.write(fn.Name)
	p.write("(")

	switch {
	case fn.Star:
		p.write("*")
	default:
		if fn.Distinct {
			p.kw(token.DISTINCT)
			p.space()
		}
		p.formatList(len(fn.Args), func(i int) { p.formatExpr(fn.Args[i]) }, ",", false)
	}

	p.write(")")
}

func (p *Printer) formatParenExpr(paren *parser.ParenExpr) {
	// Operator nodes already carry parentheses in tree form.
	if p.tree {
		p.formatExpr(paren.Expr)
		return
	}
	p.write("(")
	p.formatExpr(paren.Expr)
	p.write(")")
}

func (p *Printer) formatStarExpr(star *parser.StarExpr) {
	if star.Table != "" {
		p.write(star.Table)
		p.write(".")
	}
	p.write("*")
}
