package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/leapparse/internal/cli/output"
	"github.com/leapstack-labs/leapparse/pkg/format"
	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/spf13/cobra"
)

// ErrParseFailed is returned when the input does not parse. The diagnostic
// has already been rendered.
var ErrParseFailed = errors.New("parse failed")

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Tree   bool // Print the explicit expression tree
	Tables bool // List referenced tables and CTEs
	Expr   bool // Parse a standalone expression
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a SQL statement",
		Long: `Parse a single SELECT statement and print it back.

Reads from stdin when no file (or "-") is given.

Output adapts to environment:
  - Terminal: Formatted SQL
  - Piped/Scripted: Markdown format
  - JSON/YAML: The syntax tree

On failure the furthest error position is reported with the tokens that
would have been accepted there.`,
		Example: `  # Format a query file
  leapparse parse query.sql

  # Show how operators bind
  echo "SELECT 1 + 2 * 3" | leapparse parse --tree

  # Parse an expression
  echo "a OR b AND NOT c" | leapparse parse --expr

  # Dump the syntax tree
  leapparse parse query.sql -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Tree, "tree", false, "Print the fully parenthesized expression tree")
	cmd.Flags().BoolVar(&opts.Tables, "tables", false, "List referenced tables and CTE names")
	cmd.Flags().BoolVarP(&opts.Expr, "expr", "e", false, "Parse the input as a standalone expression")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	cc := NewCommandContext(cmd)
	src, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	if opts.Expr {
		return runParseExpr(cc, src)
	}

	start := time.Now()
	q, err := parser.Parse(src.Text, cc.ParserOptions()...)
	cc.Logger.Debug("parsed statement", "source", src.Name, "bytes", len(src.Text), "duration", time.Since(start))
	if err != nil {
		return reportParseFailure(cc, src, err)
	}

	r := cc.Renderer
	if ok, err := r.Structured(output.ParseOutput{
		Source:    src.Name,
		OK:        true,
		Formatted: format.Compact(q),
		Tables:    parser.TableNames(q),
		CTEs:      parser.CTENames(q),
		AST:       q,
	}); ok {
		return err
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	if opts.Tree {
		renderTrees(r, exprTrees(q), markdown)
	} else if markdown {
		r.Println(output.FormatCodeBlock("sql", format.Format(q)))
	} else {
		r.Println(strings.TrimRight(format.Format(q), "\n"))
	}

	if opts.Tables {
		r.Println("")
		renderNames(r, "Tables", parser.TableNames(q))
		if ctes := parser.CTENames(q); len(ctes) > 0 {
			renderNames(r, "CTEs", ctes)
		}
	}
	return nil
}

func runParseExpr(cc *CommandContext, src source) error {
	e, err := parser.ParseExpr(strings.TrimSpace(src.Text), cc.ParserOptions()...)
	if err != nil {
		return reportParseFailure(cc, src, err)
	}

	r := cc.Renderer
	if ok, err := r.Structured(output.ParseOutput{
		Source:    src.Name,
		OK:        true,
		Formatted: format.Expr(e),
		AST:       e,
	}); ok {
		return err
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatCodeBlock("", format.Expr(e)))
		return nil
	}
	r.Println(format.Expr(e))
	return nil
}

// reportParseFailure renders err and returns ErrParseFailed, or the error
// itself when it carries no diagnostic.
func reportParseFailure(cc *CommandContext, src source, err error) error {
	if errors.Is(err, parser.ErrTooDeep) {
		cc.Logger.Warn("parse aborted", "source", src.Name, "error", err)
		return fmt.Errorf("%s: %w", src.Name, err)
	}
	cc.Logger.Warn("parse failed", "source", src.Name, "error", err)

	d := newDiagnostic(src.Text, err)
	r := cc.Renderer
	if ok, encErr := r.Structured(output.ParseOutput{Source: src.Name, Error: d}); ok {
		if encErr != nil {
			return encErr
		}
		return ErrParseFailed
	}
	renderDiagnostic(r.ErrWriter(), r, src.Name, d)
	return ErrParseFailed
}

// exprTree is one expression of a query in fully parenthesized form.
type exprTree struct {
	Label string
	Tree  string
}

// exprTrees collects the projections and WHERE conditions of every SELECT
// in q, in source order.
func exprTrees(q *parser.Query) []exprTree {
	var out []exprTree
	n := 0
	parser.Walk(q, func(node parser.Node) bool {
		sel, ok := node.(*parser.SelectStmt)
		if !ok {
			return true
		}
		n++
		for i, item := range sel.Projections {
			out = append(out, exprTree{
				Label: fmt.Sprintf("select %d, item %d", n, i+1),
				Tree:  format.Expr(item.Expr),
			})
		}
		if sel.Where != nil {
			out = append(out, exprTree{
				Label: fmt.Sprintf("select %d, where", n),
				Tree:  format.Expr(sel.Where),
			})
		}
		return true
	})
	return out
}

func renderTrees(r *output.Renderer, trees []exprTree, markdown bool) {
	if markdown {
		for _, t := range trees {
			r.Println(output.FormatKeyValue(t.Label, "`"+t.Tree+"`"))
		}
		return
	}
	styles := r.Styles()
	for _, t := range trees {
		r.Printf("%s %s\n", styles.Muted.Render(t.Label+":"), t.Tree)
	}
}

func renderNames(r *output.Renderer, title string, names []string) {
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(2, title))
		r.Println(output.FormatList(names))
		return
	}
	r.Println(r.Styles().Header2.Render(title))
	for _, name := range names {
		r.Printf("  %s\n", name)
	}
}
