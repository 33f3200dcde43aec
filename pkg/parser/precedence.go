package parser

import (
	"maps"

	"github.com/leapstack-labs/leapparse/pkg/token"
)

// Assoc is the associativity of a binary operator.
type Assoc int

// Associativity values.
const (
	AssocLeft Assoc = iota
	AssocRight
)

func (a Assoc) String() string {
	if a == AssocRight {
		return "right"
	}
	return "left"
}

// Precedence is the binding strength of a binary operator. Higher levels
// bind tighter. Levels are spaced by ten so new operators fit in between.
type Precedence struct {
	Level int
	Assoc Assoc
}

// PrecedenceTable maps binary operator token types to their precedence.
// A token type absent from the table is not a binary operator.
type PrecedenceTable map[token.TokenType]Precedence

// Prefix operator binding levels. NOT sits between AND and comparisons so
// NOT a = b AND c reads as (NOT (a = b)) AND c; unary minus binds tighter
// than every default binary operator.
const (
	notPrecedence   = 25
	unaryPrecedence = 70
)

var defaultPrecedence = PrecedenceTable{
	token.OR: {10, AssocLeft},

	token.AND: {20, AssocLeft},

	token.EQ: {30, AssocLeft},
	token.NE: {30, AssocLeft},

	token.LT: {40, AssocLeft},
	token.GT: {40, AssocLeft},
	token.LE: {40, AssocLeft},
	token.GE: {40, AssocLeft},

	token.PLUS:  {50, AssocLeft},
	token.MINUS: {50, AssocLeft},
	token.DPIPE: {50, AssocLeft},

	token.STAR:    {60, AssocLeft},
	token.SLASH:   {60, AssocLeft},
	token.PERCENT: {60, AssocLeft},
}

// DefaultPrecedence returns a copy of the built-in operator table.
func DefaultPrecedence() PrecedenceTable {
	return maps.Clone(defaultPrecedence)
}

// With returns a copy of t with the entries of extra added or replaced.
func (t PrecedenceTable) With(extra PrecedenceTable) PrecedenceTable {
	out := maps.Clone(t)
	if out == nil {
		out = PrecedenceTable{}
	}
	maps.Copy(out, extra)
	return out
}

// Lookup returns the precedence of t, if t is a binary operator.
func (t PrecedenceTable) Lookup(tt token.TokenType) (Precedence, bool) {
	p, ok := t[tt]
	return p, ok
}

// nextMinPrecedence is the minimum precedence for the right operand of an
// operator with precedence p.
func nextMinPrecedence(p Precedence) int {
	if p.Assoc == AssocRight {
		return p.Level
	}
	return p.Level + 1
}
