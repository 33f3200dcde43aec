package parser

import (
	"encoding/json"
	"strings"

	"github.com/leapstack-labs/leapparse/pkg/token"
)

// Node is implemented by every AST node.
type Node interface {
	GetSpan() token.Span
}

// SetExpr is the body of a query: a SELECT or a UNION of set expressions.
type SetExpr interface {
	Node
	setExprNode()
}

// Expr represents an expression in SQL.
type Expr interface {
	Node
	exprNode()
}

// NodeInfo provides common fields for all AST nodes.
type NodeInfo struct {
	Span token.Span `json:"span"`
}

// GetSpan returns the node's source span.
func (n *NodeInfo) GetSpan() token.Span {
	return n.Span
}

// ---------- Statement Types ----------

// Query is the root of a parsed statement: optional CTEs and a body.
type Query struct {
	NodeInfo
	CTEs []*CTE  `json:"ctes,omitempty"`
	Body SetExpr `json:"body"`
}

// CTE represents a Common Table Expression. A recursive CTE refers to
// itself by name only; the reference is an ordinary TableRef in Query.
type CTE struct {
	NodeInfo
	Name      string   `json:"name"`
	Columns   []string `json:"columns,omitempty"`
	Recursive bool     `json:"recursive,omitempty"`
	Query     *Query   `json:"query"`
}

// SelectStmt is a single SELECT block.
type SelectStmt struct {
	NodeInfo
	Distinct    bool         `json:"distinct,omitempty"`
	Projections []SelectItem `json:"projections"`
	From        []*TableRef  `json:"from,omitempty"`
	Where       Expr         `json:"where,omitempty"`
}

func (*SelectStmt) setExprNode() {}

// UnionExpr combines two set expressions. Chains nest to the left:
// a UNION b UNION c is Union(Union(a, b), c).
type UnionExpr struct {
	NodeInfo
	Left  SetExpr `json:"left"`
	Right SetExpr `json:"right"`
	All   bool    `json:"all,omitempty"`
}

func (*UnionExpr) setExprNode() {}

// SelectItem is one projection with an optional alias.
type SelectItem struct {
	Expr  Expr   `json:"expr"`
	Alias string `json:"alias,omitempty"`
}

// TableRef is a table name in a FROM list.
type TableRef struct {
	NodeInfo
	Schema string `json:"schema,omitempty"`
	Name   string `json:"name"`
	Alias  string `json:"alias,omitempty"`
}

// QualifiedName returns schema.name, or name when unqualified.
func (t *TableRef) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// ---------- Expression Types ----------

// LiteralKind represents the type of a literal.
type LiteralKind int

// LiteralKind constants for SQL literal value types.
const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralBool
	LiteralNull
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralNumber:
		return "number"
	case LiteralString:
		return "string"
	case LiteralBool:
		return "bool"
	default:
		return "null"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k LiteralKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Literal is a number, string, boolean or NULL. Value is the source text;
// strings keep their quotes.
type Literal struct {
	NodeInfo
	Kind  LiteralKind `json:"kind"`
	Value string      `json:"value"`
}

func (*Literal) exprNode() {}

// Unquoted returns the value of a string literal with quotes and escapes
// removed. Other literals are returned unchanged.
func (l *Literal) Unquoted() string {
	if l.Kind != LiteralString || len(l.Value) < 2 {
		return l.Value
	}
	body := l.Value[1 : len(l.Value)-1]
	if !strings.ContainsAny(body, `'\`) {
		return body
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if (c == '\\' || c == '\'') && i+1 < len(body) {
			i++
			c = body[i]
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// ColumnRef represents a column reference (possibly qualified).
type ColumnRef struct {
	NodeInfo
	Table  string `json:"table,omitempty"`
	Column string `json:"column"`
}

func (*ColumnRef) exprNode() {}

// BinaryExpr represents a binary expression.
type BinaryExpr struct {
	NodeInfo
	Op    token.TokenType `json:"op"`
	Left  Expr            `json:"left"`
	Right Expr            `json:"right"`
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr represents a prefix expression: NOT x, -x, +x.
type UnaryExpr struct {
	NodeInfo
	Op   token.TokenType `json:"op"`
	Expr Expr            `json:"expr"`
}

func (*UnaryExpr) exprNode() {}

// FuncCall represents a function call. Star is set for name(*).
type FuncCall struct {
	NodeInfo
	Name     string `json:"name"`
	Distinct bool   `json:"distinct,omitempty"`
	Star     bool   `json:"star,omitempty"`
	Args     []Expr `json:"args,omitempty"`
}

func (*FuncCall) exprNode() {}

// StarExpr is * or table.* in a projection list.
type StarExpr struct {
	NodeInfo
	Table string `json:"table,omitempty"`
}

func (*StarExpr) exprNode() {}

// ParenExpr keeps explicit parentheses from the source.
type ParenExpr struct {
	NodeInfo
	Expr Expr `json:"expr"`
}

func (*ParenExpr) exprNode() {}

// ---------- JSON ----------
//
// Interface-typed fields lose their concrete type when encoded, so each
// variant adds a "node" discriminator.

func marshalTagged(kind string, v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	tag, _ := json.Marshal(kind)
	out := make([]byte, 0, len(raw)+len(tag)+10)
	out = append(out, `{"node":`...)
	out = append(out, tag...)
	if len(raw) > 2 {
		out = append(out, ',')
		out = append(out, raw[1:]...)
	} else {
		out = append(out, '}')
	}
	return out, nil
}

// MarshalJSON implements json.Marshaler.
func (s *SelectStmt) MarshalJSON() ([]byte, error) {
	type plain SelectStmt
	return marshalTagged("select", (*plain)(s))
}

// MarshalJSON implements json.Marshaler.
func (u *UnionExpr) MarshalJSON() ([]byte, error) {
	type plain UnionExpr
	return marshalTagged("union", (*plain)(u))
}

// MarshalJSON implements json.Marshaler.
func (l *Literal) MarshalJSON() ([]byte, error) {
	type plain Literal
	return marshalTagged("literal", (*plain)(l))
}

// MarshalJSON implements json.Marshaler.
func (c *ColumnRef) MarshalJSON() ([]byte, error) {
	type plain ColumnRef
	return marshalTagged("column", (*plain)(c))
}

// MarshalJSON implements json.Marshaler.
func (b *BinaryExpr) MarshalJSON() ([]byte, error) {
	type plain BinaryExpr
	return marshalTagged("binary", (*plain)(b))
}

// MarshalJSON implements json.Marshaler.
func (u *UnaryExpr) MarshalJSON() ([]byte, error) {
	type plain UnaryExpr
	return marshalTagged("unary", (*plain)(u))
}

// MarshalJSON implements json.Marshaler.
func (f *FuncCall) MarshalJSON() ([]byte, error) {
	type plain FuncCall
	return marshalTagged("call", (*plain)(f))
}

// MarshalJSON implements json.Marshaler.
func (s *StarExpr) MarshalJSON() ([]byte, error) {
	type plain StarExpr
	return marshalTagged("star", (*plain)(s))
}

// MarshalJSON implements json.Marshaler.
func (p *ParenExpr) MarshalJSON() ([]byte, error) {
	type plain ParenExpr
	return marshalTagged("paren", (*plain)(p))
}
