package format

import (
	"github.com/leapstack-labs/leapparse/pkg/parser"
)

// Format renders a query as indented multi-line SQL with upper-case keywords.
func Format(q *parser.Query) string {
	p := newPrinter()
	p.formatQuery(q)
	return p.String()
}

// Compact renders a query on a single line. Parsing the result yields a
// query with the same structure.
func Compact(q *parser.Query) string {
	p := newPrinter()
	p.compact = true
	p.formatQuery(q)
	return p.String()
}

// Expr renders an expression on one line with every operator application
// wrapped in parentheses, making the parsed precedence explicit:
// 1 + 2 * 3 renders as (1 + (2 * 3)).
func Expr(e parser.Expr) string {
	p := newPrinter()
	p.compact = true
	p.tree = true
	p.formatExpr(e)
	return p.String()
}
