package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapparse/pkg/token"
)

func tokenTypes(tokens []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.TokenType
	}{
		{
			name:  "empty",
			input: "",
			want:  []token.TokenType{token.EOF},
		},
		{
			name:  "select list",
			input: "SELECT a, b FROM t",
			want: []token.TokenType{
				token.SELECT, token.IDENT, token.COMMA, token.IDENT, token.FROM, token.IDENT, token.EOF,
			},
		},
		{
			name:  "keywords are case insensitive",
			input: "select From wHeRe",
			want:  []token.TokenType{token.SELECT, token.FROM, token.WHERE, token.EOF},
		},
		{
			name:  "comparison operators",
			input: "< <= > >= = <> !=",
			want: []token.TokenType{
				token.LT, token.LE, token.GT, token.GE, token.EQ, token.NE, token.NE, token.EOF,
			},
		},
		{
			name:  "arithmetic and punctuation",
			input: "+-*/%^||.,();",
			want: []token.TokenType{
				token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.CARET,
				token.DPIPE, token.DOT, token.COMMA, token.LPAREN, token.RPAREN, token.SEMICOLON, token.EOF,
			},
		},
		{
			name:  "comments are skipped",
			input: "SELECT -- trailing\n/* block\ncomment */ 1",
			want:  []token.TokenType{token.SELECT, token.NUMBER, token.EOF},
		},
		{
			name:  "strings with escapes",
			input: `'it''s' 'a\'b' ''`,
			want:  []token.TokenType{token.STRING, token.STRING, token.STRING, token.EOF},
		},
		{
			name:  "quoted identifier",
			input: `"Order ""Items"""`,
			want:  []token.TokenType{token.IDENT, token.EOF},
		},
		{
			name:  "exponent needs digits",
			input: "1e",
			want:  []token.TokenType{token.NUMBER, token.IDENT, token.EOF},
		},
		{
			name:  "qualified name",
			input: "t.col",
			want:  []token.TokenType{token.IDENT, token.DOT, token.IDENT, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tokenTypes(tokens))
		})
	}
}

func TestTokenizeNumbers(t *testing.T) {
	for _, in := range []string{"0", "42", "3.14", ".5", "1e10", "1E-5", "2.5e+3"} {
		t.Run(in, func(t *testing.T) {
			tokens, err := Tokenize(in)
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			assert.Equal(t, token.NUMBER, tokens[0].Type)
			assert.Equal(t, in, tokens[0].Text)
		})
	}
}

func TestTokenizeZeroCopy(t *testing.T) {
	input := "WITH r AS (SELECT 'x''y' AS s, 1.5e3 FROM \"T\" /* c */) SELECT * FROM r;"
	tokens, err := Tokenize(input)
	require.NoError(t, err)

	for _, tok := range tokens {
		assert.Equal(t, input[tok.Span.Start:tok.Span.End], tok.Text, "token %s", tok)
	}

	last := tokens[len(tokens)-1]
	assert.Equal(t, token.EOF, last.Type)
	assert.Equal(t, token.Span{Start: len(input), End: len(input)}, last.Span)
}

func TestTokenizeIsRestartable(t *testing.T) {
	input := "SELECT a + 1 AS b FROM t WHERE c <> 'd'"
	first, err := Tokenize(input)
	require.NoError(t, err)
	second, err := Tokenize(input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLexerNextTokenAfterEOF(t *testing.T) {
	l := NewLexer("x")
	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, token.IDENT, tok.Type)

	for range 3 {
		tok, err = l.NextToken()
		require.NoError(t, err)
		assert.Equal(t, token.EOF, tok.Type)
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   error
		line   int
		column int
	}{
		{"unknown character", "SELECT @ FROM t", ErrUnrecognizedInput, 1, 8},
		{"lone bang", "a ! b", ErrUnrecognizedInput, 1, 3},
		{"lone pipe", "a | b", ErrUnrecognizedInput, 1, 3},
		{"non ascii", "SELECT é", ErrUnrecognizedInput, 1, 8},
		{"unterminated string", "SELECT 'abc", ErrUnterminated, 1, 8},
		{"string ending in backslash", `'abc\`, ErrUnterminated, 1, 1},
		{"unterminated identifier", "SELECT \"abc", ErrUnterminated, 1, 8},
		{"unterminated comment", "SELECT 1\n  /* never closed", ErrUnterminated, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)

			var lexErr *LexError
			require.ErrorAs(t, err, &lexErr)
			assert.Equal(t, tt.line, lexErr.Pos.Line)
			assert.Equal(t, tt.column, lexErr.Pos.Column)
			assert.Contains(t, lexErr.Error(), "lexer error at line")
		})
	}
}
