// Package token defines the lexical tokens produced by the SQL tokenizer.
//
// Tokens never copy the input: Text is a substring of the source and Span
// records its byte range, so a token stream stays valid for as long as the
// input string does.
package token

import (
	"fmt"
	"slices"
	"strings"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // token names are intentionally ALL_CAPS for SQL token conventions
const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // identifier or "quoted identifier"
	NUMBER // 123, 45.67, 1e10
	STRING // 'hello'

	// Operators
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	CARET     // ^
	DPIPE     // ||
	EQ        // =
	NE        // <> or !=
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	DOT       // .
	COMMA     // ,
	LPAREN    // (
	RPAREN    // )
	SEMICOLON // ;

	// Keywords (alphabetical)
	ALL
	AND
	AS
	DELETE
	DISTINCT
	FALSE
	FROM
	INSERT
	NOT
	NULL
	OR
	RECURSIVE
	SELECT
	TRUE
	UNION
	UPDATE
	WHERE
	WITH
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// MarshalText implements encoding.TextMarshaler.
func (t TokenType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Label returns the name used for the token type in "expected ..." lists.
// Keywords are their upper-case spelling, punctuation is quoted.
func (t TokenType) Label() string {
	switch t {
	case EOF:
		return "end of input"
	case IDENT:
		return "identifier"
	case NUMBER:
		return "number"
	case STRING:
		return "string"
	case ILLEGAL:
		return "illegal token"
	}
	if IsKeyword(t) {
		return t.String()
	}
	return "'" + t.String() + "'"
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	CARET:     "^",
	DPIPE:     "||",
	EQ:        "=",
	NE:        "<>",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	DOT:       ".",
	COMMA:     ",",
	LPAREN:    "(",
	RPAREN:    ")",
	SEMICOLON: ";",

	ALL:       "ALL",
	AND:       "AND",
	AS:        "AS",
	DELETE:    "DELETE",
	DISTINCT:  "DISTINCT",
	FALSE:     "FALSE",
	FROM:      "FROM",
	INSERT:    "INSERT",
	NOT:       "NOT",
	NULL:      "NULL",
	OR:        "OR",
	RECURSIVE: "RECURSIVE",
	SELECT:    "SELECT",
	TRUE:      "TRUE",
	UNION:     "UNION",
	UPDATE:    "UPDATE",
	WHERE:     "WHERE",
	WITH:      "WITH",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"all":       ALL,
	"and":       AND,
	"as":        AS,
	"delete":    DELETE,
	"distinct":  DISTINCT,
	"false":     FALSE,
	"from":      FROM,
	"insert":    INSERT,
	"not":       NOT,
	"null":      NULL,
	"or":        OR,
	"recursive": RECURSIVE,
	"select":    SELECT,
	"true":      TRUE,
	"union":     UNION,
	"update":    UPDATE,
	"where":     WHERE,
	"with":      WITH,
}

// LookupIdent returns the keyword token type for ident, compared
// case-insensitively, or IDENT when ident is not a keyword.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[strings.ToLower(ident)]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns the upper-case spelling of every keyword, sorted.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for _, t := range keywords {
		out = append(out, t.String())
	}
	slices.Sort(out)
	return out
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= ALL && t <= WITH
}

// IsOperator returns true if the token type is an operator or punctuation.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= SEMICOLON
}

// Token is a lexical token. Text shares memory with the tokenized input.
type Token struct {
	Type TokenType `json:"type"`
	Text string    `json:"text"`
	Span Span      `json:"span"`
}

// Is reports whether the token has type t.
func (t Token) Is(tt TokenType) bool {
	return t.Type == tt
}

func (t Token) String() string {
	if t.Type == EOF {
		return fmt.Sprintf("EOF@%d", t.Span.Start)
	}
	return fmt.Sprintf("%s(%q)@%d..%d", t.Type, t.Text, t.Span.Start, t.Span.End)
}
