package format

import (
	"testing"

	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_BasicSelect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "simple select",
			input: "SELECT a, b FROM t",
			expected: `SELECT
  a,
  b
FROM t
`,
		},
		{
			name:  "select with where",
			input: "select a from t where x = 1",
			expected: `SELECT
  a
FROM t
WHERE
  x = 1
`,
		},
		{
			name:  "select with alias",
			input: "SELECT a AS col1, b col2 FROM t x",
			expected: `SELECT
  a AS col1,
  b AS col2
FROM t AS x
`,
		},
		{
			name:  "select star from list",
			input: "SELECT DISTINCT * FROM s.t1, t2",
			expected: `SELECT DISTINCT
  *
FROM s.t1, t2
`,
		},
		{
			name:  "select table star",
			input: "SELECT t.* FROM t",
			expected: `SELECT
  t.*
FROM t
`,
		},
		{
			name:  "no from",
			input: "SELECT 1",
			expected: `SELECT
  1
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := parser.Parse(tt.input)
			require.NoError(t, err)

			result := Format(q)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFormat_CTE(t *testing.T) {
	input := "WITH cte AS (SELECT a FROM t) SELECT * FROM cte"
	expected := `WITH
  cte AS (
    SELECT
      a
    FROM t
  )
SELECT
  *
FROM cte
`

	q, err := parser.Parse(input)
	require.NoError(t, err)

	result := Format(q)
	assert.Equal(t, expected, result)
}

func TestFormat_RecursiveCTE(t *testing.T) {
	input := "with recursive r(n) as (select 1 union all select n + 1 from r where n < 3) select n from r"
	expected := `WITH RECURSIVE
  r(n) AS (
    SELECT
      1
    UNION ALL
    SELECT
      n + 1
    FROM r
    WHERE
      n < 3
  )
SELECT
  n
FROM r
`

	q, err := parser.Parse(input)
	require.NoError(t, err)
	assert.Equal(t, expected, Format(q))
}

func TestFormat_Union(t *testing.T) {
	input := "SELECT a FROM t1 UNION SELECT b FROM t2"
	expected := `SELECT
  a
FROM t1
UNION
SELECT
  b
FROM t2
`

	q, err := parser.Parse(input)
	require.NoError(t, err)

	result := Format(q)
	assert.Equal(t, expected, result)
}

func TestFormat_Expressions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "function call",
			input: "SELECT COUNT(*) FROM t",
			expected: `SELECT
  COUNT(*)
FROM t
`,
		},
		{
			name:  "function with args",
			input: "SELECT COALESCE(a, b, c), count(distinct d) FROM t",
			expected: `SELECT
  COALESCE(a, b, c),
  count(DISTINCT d)
FROM t
`,
		},
		{
			name:  "logical operators break lines",
			input: "SELECT * FROM t WHERE x = 1 AND y = 'a' OR z",
			expected: `SELECT
  *
FROM t
WHERE
  x = 1
  AND y = 'a'
  OR z
`,
		},
		{
			name:  "literals and unary",
			input: "SELECT -a, NOT b, true, null, 'it''s' FROM t",
			expected: `SELECT
  -a,
  NOT b,
  TRUE,
  NULL,
  'it''s'
FROM t
`,
		},
		{
			name:  "parentheses kept",
			input: "SELECT (a + b) * c FROM t",
			expected: `SELECT
  (a + b) * c
FROM t
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := parser.Parse(tt.input)
			require.NoError(t, err)

			result := Format(q)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCompact(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"select a , b from t", "SELECT a, b FROM t"},
		{
			"WITH cte AS (SELECT a FROM t) SELECT * FROM cte",
			"WITH cte AS (SELECT a FROM t) SELECT * FROM cte",
		},
		{
			"WITH RECURSIVE r(n, m) AS (SELECT 1, 2 UNION ALL SELECT n + 1, m FROM r) SELECT * FROM r",
			"WITH RECURSIVE r(n, m) AS (SELECT 1, 2 UNION ALL SELECT n + 1, m FROM r) SELECT * FROM r",
		},
		{
			"SELECT * FROM t WHERE x = 1 AND y = 2 OR z = 3",
			"SELECT * FROM t WHERE x = 1 AND y = 2 OR z = 3",
		},
		{"SELECT f(a, (b)) x FROM t", "SELECT f(a, (b)) AS x FROM t"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			q, err := parser.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, Compact(q))
		})
	}
}

func TestCompactRoundTrip(t *testing.T) {
	inputs := []string{
		"SELECT a + b * c AS x FROM t WHERE NOT a = 1 OR b <> 2",
		"SELECT 1 UNION SELECT 2 UNION ALL SELECT 3",
		"WITH a AS (WITH b AS (SELECT 1) SELECT * FROM b) SELECT a.* FROM a, c AS d",
		"SELECT -(1 - 2) - 3, 'x' || 'y' FROM s.t",
		"SELECT - -1 FROM t",
		"SELECT - - -a, -+b, +-c, NOT -d FROM t WHERE - -x > 0",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			q, err := parser.Parse(in)
			require.NoError(t, err)

			once := Compact(q)
			again, err := parser.Parse(once)
			require.NoError(t, err, once)
			assert.Equal(t, once, Compact(again))

			pretty, err := parser.Parse(Format(q))
			require.NoError(t, err)
			assert.Equal(t, once, Compact(pretty))
		})
	}
}

func projectionTrees(t *testing.T, q *parser.Query) []string {
	t.Helper()
	stmt, ok := q.Body.(*parser.SelectStmt)
	require.True(t, ok)
	var out []string
	for _, item := range stmt.Projections {
		out = append(out, Expr(item.Expr))
	}
	return out
}

func TestCompactPrefixOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"SELECT - -1", "SELECT - -1"},
		{"SELECT - - -a", "SELECT - - -a"},
		{"SELECT -+a, +-a, -a", "SELECT -+a, +-a, -a"},
		{"SELECT NOT NOT a", "SELECT NOT NOT a"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			q, err := parser.Parse(tt.input)
			require.NoError(t, err)
			once := Compact(q)
			assert.Equal(t, tt.expected, once)

			again, err := parser.Parse(once)
			require.NoError(t, err, once)
			assert.Equal(t, projectionTrees(t, q), projectionTrees(t, again))
		})
	}
}

func TestExpr(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{
			"total > 100 AND status = 'pending' OR priority = 1",
			"(((total > 100) AND (status = 'pending')) OR (priority = 1))",
		},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"NOT a AND -b", "((NOT a) AND (- b))"},
		{"f(a + 1, *)", ""},
		{"f(a + 1)", "f((a + 1))"},
		{"t.a != 1", "(t.a <> 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := parser.ParseExpr(tt.input)
			if tt.expected == "" {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, Expr(e))
		})
	}
}
