package parser

import (
	"github.com/leapstack-labs/leapparse/pkg/token"
)

// Statement keywords that are recognised in diagnostics only.
var unsupportedStatements = []token.TokenType{token.INSERT, token.UPDATE, token.DELETE}

// Clause keywords that may follow a bare alias, per position.
var (
	afterSelectItem = []token.TokenType{token.FROM, token.WHERE, token.UNION}
	afterTableRef   = []token.TokenType{token.WHERE, token.UNION}
)

// aliasMiss is a bare alias that resembles a clause keyword. next is the
// offset of the token after it.
type aliasMiss struct {
	at, next int
}

// ParseStatement parses the whole input as one statement:
//
//	statement → query [";"] EOF
//
// If the parse fails on the token right after a bare alias that resembles a
// clause keyword, it is parsed once more with that alias refused, so the
// error points at the misspelt keyword.
func (p *Parser) ParseStatement() (*Query, error) {
	q, ok := p.parseStatement()
	if !ok && p.fatal == nil {
		if at, found := p.misreadAlias(); found {
			p.pos = 0
			p.bt.Reset()
			p.refuseAlias = at
			q, ok = p.parseStatement()
		}
	}
	if err := p.failure(ok); err != nil {
		return nil, err
	}
	return q, nil
}

func (p *Parser) parseStatement() (*Query, bool) {
	q, ok := attempt(p, p.parseQuery)
	if !ok {
		for _, t := range unsupportedStatements {
			p.track(t.Label())
		}
		return nil, false
	}
	p.match(token.SEMICOLON)
	return q, p.expect(token.EOF)
}

// misreadAlias returns the offset of a keyword-like bare alias whose
// following token is where the parse failed.
func (p *Parser) misreadAlias() (int, bool) {
	furthest, ok := p.bt.Furthest()
	if !ok {
		return 0, false
	}
	for _, m := range p.aliasMisses {
		if m.next == furthest {
			return m.at, true
		}
	}
	return 0, false
}

// parseQuery parses a query with optional CTEs.
//
//	query → [WITH [RECURSIVE] cte ("," cte)*] set_expr
func (p *Parser) parseQuery() (*Query, bool) {
	if !p.enter() {
		return nil, false
	}
	defer p.leave()

	start := p.start()
	q := &Query{}
	if p.match(token.WITH) {
		recursive := p.match(token.RECURSIVE)
		for {
			cte, ok := p.parseCTE(recursive)
			if !ok {
				return nil, false
			}
			q.CTEs = append(q.CTEs, cte)
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	body, ok := p.parseSetExpr()
	if !ok {
		return nil, false
	}
	q.Body = body
	q.Span = p.spanFrom(start)
	return q, true
}

// parseCTE parses a single CTE definition.
//
//	cte → ident ["(" ident ("," ident)* ")"] AS "(" query ")"
func (p *Parser) parseCTE(recursive bool) (*CTE, bool) {
	start := p.start()
	name, ok := p.expectIdent()
	if !ok {
		return nil, false
	}
	cte := &CTE{Name: name, Recursive: recursive}

	if p.match(token.LPAREN) {
		cols, ok := p.parseIdentList()
		if !ok || !p.expect(token.RPAREN) {
			return nil, false
		}
		cte.Columns = cols
	}

	if !p.expect(token.AS) || !p.expect(token.LPAREN) {
		return nil, false
	}
	q, ok := p.parseQuery()
	if !ok || !p.expect(token.RPAREN) {
		return nil, false
	}
	cte.Query = q
	cte.Span = p.spanFrom(start)
	return cte, true
}

func (p *Parser) parseIdentList() ([]string, bool) {
	var out []string
	for {
		name, ok := p.expectIdent()
		if !ok {
			return nil, false
		}
		out = append(out, name)
		if !p.match(token.COMMA) {
			return out, true
		}
	}
}

// parseSetExpr parses SELECT blocks joined by UNION, nesting to the left.
//
//	set_expr → select (UNION [ALL] select)*
func (p *Parser) parseSetExpr() (SetExpr, bool) {
	start := p.start()
	first, ok := p.parseSelect()
	if !ok {
		return nil, false
	}
	var left SetExpr = first
	for p.match(token.UNION) {
		all := p.match(token.ALL)
		right, ok := p.parseSelect()
		if !ok {
			return nil, false
		}
		u := &UnionExpr{Left: left, Right: right, All: all}
		u.Span = p.spanFrom(start)
		left = u
	}
	return left, true
}

// parseSelect parses one SELECT block.
//
//	select → SELECT [DISTINCT] item ("," item)* [FROM table ("," table)*] [WHERE expr]
func (p *Parser) parseSelect() (*SelectStmt, bool) {
	start := p.start()
	if !p.expect(token.SELECT) {
		return nil, false
	}
	stmt := &SelectStmt{}
	stmt.Distinct = p.match(token.DISTINCT)

	for {
		item, ok := p.parseSelectItem()
		if !ok {
			return nil, false
		}
		stmt.Projections = append(stmt.Projections, item)
		if !p.match(token.COMMA) {
			break
		}
	}

	if p.match(token.FROM) {
		for {
			ref, ok := p.parseTableRef()
			if !ok {
				return nil, false
			}
			stmt.From = append(stmt.From, ref)
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	if p.match(token.WHERE) {
		where, ok := p.parseExpr(0)
		if !ok {
			return nil, false
		}
		stmt.Where = where
	}

	stmt.Span = p.spanFrom(start)
	return stmt, true
}

// parseSelectItem parses a projection.
//
//	item → "*" | ident "." "*" | expr [[AS] ident]
func (p *Parser) parseSelectItem() (SelectItem, bool) {
	if p.check(token.STAR) {
		tok := p.advance()
		return SelectItem{Expr: &StarExpr{NodeInfo: NodeInfo{Span: tok.Span}}}, true
	}
	if star, ok := attempt(p, p.parseQualifiedStar); ok {
		return SelectItem{Expr: star}, true
	}

	expr, ok := p.parseExpr(0)
	if !ok {
		return SelectItem{}, false
	}
	alias, ok := p.parseAlias(afterSelectItem)
	if !ok {
		return SelectItem{}, false
	}
	return SelectItem{Expr: expr, Alias: alias}, true
}

// parseQualifiedStar parses table.* without tracking: a miss here is
// always retried as an expression, which tracks its own expectations.
func (p *Parser) parseQualifiedStar() (*StarExpr, bool) {
	if !p.check(token.IDENT) || p.peekAt(1).Type != token.DOT || p.peekAt(2).Type != token.STAR {
		return nil, false
	}
	start := p.start()
	table := p.advance().Text
	p.advance() // .
	p.advance() // *
	return &StarExpr{NodeInfo: NodeInfo{Span: p.spanFrom(start)}, Table: table}, true
}

// parseTableRef parses a table reference.
//
//	table → ident ["." ident] [[AS] ident]
func (p *Parser) parseTableRef() (*TableRef, bool) {
	start := p.start()
	name, ok := p.expectIdent()
	if !ok {
		return nil, false
	}
	ref := &TableRef{Name: name}
	if p.match(token.DOT) {
		qualified, ok := p.expectIdent()
		if !ok {
			return nil, false
		}
		ref.Schema, ref.Name = name, qualified
	}
	alias, ok := p.parseAlias(afterTableRef)
	if !ok {
		return nil, false
	}
	ref.Alias = alias
	ref.Span = p.spanFrom(start)
	return ref, true
}

// parseAlias parses an optional alias. With AS the identifier is required.
// A bare alias resembling one of the clause keywords in follow is accepted
// but remembered, unless it is the alias being refused on a second pass.
func (p *Parser) parseAlias(follow []token.TokenType) (string, bool) {
	if p.match(token.AS) {
		return p.expectIdent()
	}
	if !p.check(token.IDENT) {
		p.track(token.IDENT.Label())
		return "", true
	}
	tok := p.cur()
	if !looksLikeKeyword(tok.Text, follow) {
		return p.advance().Text, true
	}
	if tok.Span.Start == p.refuseAlias {
		return "", true
	}
	p.advance()
	p.aliasMisses = append(p.aliasMisses, aliasMiss{at: tok.Span.Start, next: p.start()})
	return tok.Text, true
}

// looksLikeKeyword reports whether an identifier is a near miss of one of
// keywords: same first letter, similar length, and similarity above the
// suggestion threshold.
func looksLikeKeyword(ident string, keywords []token.TokenType) bool {
	norm := upper.String(ident)
	for _, kw := range keywords {
		name := kw.String()
		if norm == "" || norm[0] != name[0] {
			continue
		}
		if d := len(norm) - len(name); d < -1 || d > 1 {
			continue
		}
		if Similarity(norm, name) > SuggestionThreshold {
			return true
		}
	}
	return false
}
