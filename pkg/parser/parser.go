// Package parser parses a subset of SQL into an AST and reports the most
// informative syntax error when parsing fails.
//
// # Usage
//
//	q, err := parser.Parse("SELECT a, b FROM t WHERE a > 1")
//	var synErr *parser.SyntaxError
//	if errors.As(err, &synErr) {
//	    fmt.Println(synErr.Pos.Line, synErr.Expected, synErr.Suggestion)
//	}
//
// # Grammar Overview
//
//	statement  → query [";"] EOF
//	query      → [WITH [RECURSIVE] cte ("," cte)*] set_expr
//	cte        → ident ["(" ident ("," ident)* ")"] AS "(" query ")"
//	set_expr   → select (UNION [ALL] select)*
//	select     → SELECT [DISTINCT] item ("," item)*
//	             [FROM table ("," table)*] [WHERE expr]
//	item       → "*" | ident "." "*" | expr [[AS] ident]
//	table      → ident ["." ident] [[AS] ident]
//
// Expressions are parsed by precedence climbing over a PrecedenceTable.
//
// # Errors
//
// The parser backtracks between alternatives. Every failed match, including
// checks for optional elements, is recorded in a Backtrace; when the whole
// parse fails, only the furthest failure is reported, as a *SyntaxError.
// Tokenization errors are reported as a *LexError and are never retried.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapparse/pkg/token"
)

// DefaultMaxDepth bounds nesting of expressions and sub-queries.
const DefaultMaxDepth = 512

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth sets the nesting limit. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// WithOperators adds or overrides binary operators in the precedence table.
func WithOperators(extra PrecedenceTable) Option {
	return func(p *Parser) {
		p.ops = p.ops.With(extra)
	}
}

// WithPrecedence replaces the precedence table entirely.
func WithPrecedence(table PrecedenceTable) Option {
	return func(p *Parser) {
		p.ops = table
	}
}

// Parser parses SQL into an AST. A Parser is used for one input only.
type Parser struct {
	input    string
	tokens   []token.Token
	pos      int // index into tokens
	bt       *Backtrace
	ops      PrecedenceTable
	depth    int
	maxDepth int
	fatal    error

	aliasMisses []aliasMiss
	refuseAlias int // offset of a bare alias to refuse, -1 for none
}

// NewParser tokenizes sql and returns a parser positioned at its first token.
func NewParser(sql string, opts ...Option) (*Parser, error) {
	tokens, err := Tokenize(sql)
	if err != nil {
		return nil, err
	}
	p := &Parser{
		input:       sql,
		tokens:      tokens,
		bt:          NewBacktrace(),
		ops:         DefaultPrecedence(),
		maxDepth:    DefaultMaxDepth,
		refuseAlias: -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Parse parses a single SQL statement. On failure the error is a *LexError,
// a *SyntaxError, or wraps ErrTooDeep.
func Parse(sql string, opts ...Option) (*Query, error) {
	p, err := NewParser(sql, opts...)
	if err != nil {
		return nil, err
	}
	return p.ParseStatement()
}

// ParseExpr parses a standalone expression.
func ParseExpr(sql string, opts ...Option) (Expr, error) {
	p, err := NewParser(sql, opts...)
	if err != nil {
		return nil, err
	}
	e, ok := p.parseExpr(0)
	if ok {
		ok = p.expect(token.EOF)
	}
	if err := p.failure(ok); err != nil {
		return nil, err
	}
	return e, nil
}

// Backtrace returns the parser's error tracker.
func (p *Parser) Backtrace() *Backtrace {
	return p.bt
}

// failure returns the error for a parse that did or did not succeed.
func (p *Parser) failure(ok bool) error {
	if p.fatal != nil {
		return p.fatal
	}
	if !ok {
		return p.bt.Diagnostic(p.input)
	}
	return nil
}

// ---------- Token Helpers ----------

// cur returns the current token. The stream always ends in EOF, which is
// returned for any position past the end.
func (p *Parser) cur() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.tokens[len(p.tokens)-1]
}

// peekAt returns the token n positions after the current one.
func (p *Parser) peekAt(n int) token.Token {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

// advance consumes the current token and returns it.
func (p *Parser) advance() token.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.cur().Type == t
}

// match consumes the current token if it has type t. Otherwise the miss is
// tracked and match returns false. Optional elements use match too, so the
// final diagnostic lists every legal continuation.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	p.track(t.Label())
	return false
}

// expect is match for required tokens.
func (p *Parser) expect(t token.TokenType) bool {
	return p.match(t)
}

// expectIdent consumes an identifier and returns its text.
func (p *Parser) expectIdent() (string, bool) {
	if p.check(token.IDENT) {
		return p.advance().Text, true
	}
	p.track(token.IDENT.Label())
	return "", false
}

// track records that label was expected at the current token.
func (p *Parser) track(label string) {
	tok := p.cur()
	p.bt.Track(tok.Span.Start, label, tok.Text)
}

// start returns the byte offset of the current token.
func (p *Parser) start() int {
	return p.cur().Span.Start
}

// spanFrom returns the span from start to the end of the last consumed token.
func (p *Parser) spanFrom(start int) token.Span {
	end := start
	if p.pos > 0 {
		end = p.tokens[p.pos-1].Span.End
	}
	if end < start {
		end = start
	}
	return token.Span{Start: start, End: end}
}

// enter increments the nesting depth. It fails once the limit is exceeded;
// the failure is fatal and stops all backtracking.
func (p *Parser) enter() bool {
	if p.fatal != nil {
		return false
	}
	p.depth++
	if p.depth > p.maxDepth {
		pos := token.PositionAt(p.input, p.start())
		p.fatal = fmt.Errorf("line %d, column %d: %w (limit %d)", pos.Line, pos.Column, ErrTooDeep, p.maxDepth)
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}

// attempt runs fn and rewinds the token cursor if it fails. Failures are
// still tracked in the Backtrace.
func attempt[T any](p *Parser, fn func() (T, bool)) (T, bool) {
	mark := p.pos
	v, ok := fn()
	if !ok {
		p.pos = mark
	}
	return v, ok
}
