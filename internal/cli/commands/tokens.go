package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapparse/internal/cli/output"
	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/leapstack-labs/leapparse/pkg/token"
	"github.com/spf13/cobra"
)

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file|-]",
		Short: "Print the token stream of SQL input",
		Long: `Tokenize SQL input and print every token with its kind, text and
byte span. Reads from stdin when no file (or "-") is given.

Tokenizing stops at the first unrecognized character, which is reported
with its line and column.`,
		Example: `  echo "SELECT a FROM t" | leapparse tokens
  leapparse tokens query.sql -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTokens,
	}
}

func runTokens(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	src, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	toks, lexErr := lexAll(src.Text)
	cc.Logger.Debug("tokenized", "source", src.Name, "tokens", len(toks))

	infos := make([]output.TokenInfo, len(toks))
	for i, tok := range toks {
		pos := token.PositionAt(src.Text, tok.Span.Start)
		infos[i] = output.TokenInfo{
			Type:   tok.Type.String(),
			Text:   tok.Text,
			Start:  tok.Span.Start,
			End:    tok.Span.End,
			Line:   pos.Line,
			Column: pos.Column,
		}
	}

	out := output.TokensOutput{Source: src.Name, Tokens: infos}
	if lexErr != nil {
		cc.Logger.Warn("tokenize failed", "source", src.Name, "error", lexErr)
		out.Error = newDiagnostic(src.Text, lexErr)
	}

	r := cc.Renderer
	if ok, err := r.Structured(out); ok {
		if err != nil {
			return err
		}
		if lexErr != nil {
			return ErrParseFailed
		}
		return nil
	}

	renderTokenTable(r, toks, infos)
	if lexErr != nil {
		renderDiagnostic(r.ErrWriter(), r, src.Name, out.Error)
		return ErrParseFailed
	}
	return nil
}

// lexAll returns every token before the first lex error, and that error.
func lexAll(src string) ([]token.Token, error) {
	l := parser.NewLexer(src)
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

func renderTokenTable(r *output.Renderer, toks []token.Token, infos []output.TokenInfo) {
	styles := r.Styles()
	text := r.EffectiveMode() == output.ModeText

	rows := make([]table.Row, len(infos))
	for i, info := range infos {
		kind := info.Type
		if text && token.IsKeyword(toks[i].Type) {
			kind = styles.Keyword.Render(kind)
		}
		rows[i] = table.Row{
			i,
			kind,
			info.Text,
			fmt.Sprintf("%d..%d", info.Start, info.End),
			fmt.Sprintf("%d:%d", info.Line, info.Column),
		}
	}
	r.Table(table.Row{"#", "Type", "Text", "Span", "Position"}, rows)
}
