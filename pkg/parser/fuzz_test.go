package parser

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/leapparse/pkg/token"
)

var fuzzSeeds = []string{
	"",
	"SELECT 1",
	"SELECT * FROM users WHERE id = 1",
	"SELCT * FROM users",
	"SELECT *\nFROM users\nWHEER age > 18",
	"WITH RECURSIVE r(n) AS (SELECT 1 UNION ALL SELECT n + 1 FROM r WHERE n < 5) SELECT * FROM r",
	"SELECT 'it''s', \"q\"\"id\" -- c\n/* b */",
	"SELECT ((((1))))",
	"SELECT 1e10, .5, 3.14 FROM t;",
	"SELECT 'unterminated",
	"/* open",
	"SELECT a ! b",
	"SELECT COUNT(*), f(DISTINCT a, b) FROM s.t AS x",
}

func FuzzTokenize(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		tokens, err := Tokenize(input)
		if err != nil {
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			if lexErr.Pos.Offset > len(input) {
				t.Fatalf("error offset %d past input length %d", lexErr.Pos.Offset, len(input))
			}
			return
		}
		if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
			t.Fatalf("token stream does not end in EOF: %v", tokens)
		}
		prevEnd := 0
		for _, tok := range tokens {
			if tok.Span.Start < prevEnd || tok.Span.End < tok.Span.Start || tok.Span.End > len(input) {
				t.Fatalf("bad span %v", tok)
			}
			if input[tok.Span.Start:tok.Span.End] != tok.Text {
				t.Fatalf("token text %q does not match span %v", tok.Text, tok.Span)
			}
			if tok.Type != token.EOF && tok.Text == "" {
				t.Fatalf("empty token %v", tok)
			}
			prevEnd = tok.Span.End
		}
	})
}

func FuzzParse(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		q, err := Parse(input)
		if err == nil {
			if q == nil || q.Body == nil {
				t.Fatalf("nil query without error for %q", input)
			}
			return
		}
		var lexErr *LexError
		var synErr *SyntaxError
		switch {
		case errors.As(err, &lexErr):
		case errors.As(err, &synErr):
			if synErr.Offset() > len(input) {
				t.Fatalf("diagnostic offset %d past input length %d", synErr.Offset(), len(input))
			}
			if len(synErr.Expected) == 0 {
				t.Fatalf("diagnostic without expectations for %q", input)
			}
			_ = Snippet(input, synErr.Pos)
		case errors.Is(err, ErrTooDeep):
		default:
			t.Fatalf("unexpected error type %T: %v", err, err)
		}
	})
}
