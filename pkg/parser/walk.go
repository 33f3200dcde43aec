package parser

// Walk traverses an AST depth-first and calls fn for each node.
// If fn returns false, the node's children are skipped. Nil children
// are not visited.
func Walk(node Node, fn func(node Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	switch n := node.(type) {
	case *Query:
		for _, cte := range n.CTEs {
			Walk(cte, fn)
		}
		Walk(n.Body, fn)

	case *CTE:
		if n.Query != nil {
			Walk(n.Query, fn)
		}

	case *UnionExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *SelectStmt:
		for _, item := range n.Projections {
			Walk(item.Expr, fn)
		}
		for _, ref := range n.From {
			Walk(ref, fn)
		}
		Walk(n.Where, fn)

	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *UnaryExpr:
		Walk(n.Expr, fn)

	case *ParenExpr:
		Walk(n.Expr, fn)

	case *FuncCall:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
	}
}

// TableNames returns the distinct qualified table names referenced in FROM
// lists, in order of first appearance. References to CTEs are included;
// see CTENames to tell them apart.
func TableNames(q *Query) []string {
	var out []string
	seen := map[string]bool{}
	Walk(q, func(n Node) bool {
		if ref, ok := n.(*TableRef); ok {
			name := ref.QualifiedName()
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
		return true
	})
	return out
}

// CTENames returns the names of all CTEs defined anywhere in q.
func CTENames(q *Query) []string {
	var out []string
	Walk(q, func(n Node) bool {
		if cte, ok := n.(*CTE); ok {
			out = append(out, cte.Name)
		}
		return true
	})
	return out
}
