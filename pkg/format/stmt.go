package format

import (
	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/leapstack-labs/leapparse/pkg/token"
)

func (p *Printer) formatQuery(q *parser.Query) {
	if q == nil {
		return
	}
	if len(q.CTEs) > 0 {
		p.formatWith(q.CTEs)
	}
	p.formatSetExpr(q.Body)
}

func (p *Printer) formatWith(ctes []*parser.CTE) {
	p.kw(token.WITH)
	if ctes[0].Recursive {
		p.space()
		p.kw(token.RECURSIVE)
	}
	p.writeln()

	p.indent()
	p.formatList(len(ctes), func(i int) {
		cte := ctes[i]
		p.write(cte.Name)
		if len(cte.Columns) > 0 {
			p.write("(")
			p.formatList(len(cte.Columns), func(j int) { p.write(cte.Columns[j]) }, ",", false)
			p.write(")")
		}
		p.space()
		p.kw(token.AS)
		p.write(" (")
		p.writeln()

		p.indent()
		p.formatQuery(cte.Query)
		p.dedent()

		p.write(")")
	}, ",", true)
	p.writeln()
	p.dedent()
}

func (p *Printer) formatSetExpr(body parser.SetExpr) {
	switch b := body.(type) {
	case *parser.SelectStmt:
		p.formatSelect(b)
	case *parser.UnionExpr:
		p.formatSetExpr(b.Left)
		if b.All {
			p.kw(token.UNION, token.ALL)
		} else {
			p.kw(token.UNION)
		}
		p.writeln()
		p.formatSetExpr(b.Right)
	}
}

func (p *Printer) formatSelect(stmt *parser.SelectStmt) {
	// SELECT [DISTINCT]
	p.kw(token.SELECT)
	if stmt.Distinct {
		p.space()
		p.kw(token.DISTINCT)
	}
	p.writeln()

	p.indent()
	p.formatList(len(stmt.Projections), func(i int) { p.formatSelectItem(stmt.Projections[i]) }, ",", true)
	p.writeln()
	p.dedent()

	if len(stmt.From) > 0 {
		p.kw(token.FROM)
		p.space()
		p.formatList(len(stmt.From), func(i int) { p.formatTableRef(stmt.From[i]) }, ",", false)
		p.writeln()
	}

	if stmt.Where != nil {
		p.kw(token.WHERE)
		p.writeln()
		p.indent()
		p.formatExpr(stmt.Where)
		p.writeln()
		p.dedent()
	}
}

func (p *Printer) formatSelectItem(item parser.SelectItem) {
	p.formatExpr(item.Expr)
	if item.Alias != "" {
		p.space()
		p.kw(token.AS)
		p.space()
		p.write(item.Alias)
	}
}

func (p *Printer) formatTableRef(ref *parser.TableRef) {
	p.write(ref.QualifiedName())
	if ref.Alias != "" {
		p.space()
		p.kw(token.AS)
		p.space()
		p.write(ref.Alias)
	}
}
