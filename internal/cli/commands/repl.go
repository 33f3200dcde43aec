package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapparse/pkg/format"
	"github.com/leapstack-labs/leapparse/pkg/parser"
	"github.com/leapstack-labs/leapparse/pkg/token"
	"github.com/spf13/cobra"
)

const continuationPrompt = "     ...> "

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Parse statements interactively",
		Long: `Start an interactive session that parses each statement as it is
entered. Statements may span lines and end with a semicolon.

Each statement is printed back in compact form, or with a diagnostic
pointing at the furthest error.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}

	cmd.Flags().String("history", "", "History file (default: ~/.leapparse_history)")
	cmd.Flags().String("prompt", "", "Prompt string")

	return cmd
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)
	prompt := cc.Cfg.REPL.Prompt

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     cc.Cfg.REPL.HistoryFile,
		AutoComplete:    newKeywordCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	cc.Renderer.Println("leapparse interactive parser")
	cc.Renderer.Println("Type .help for commands, .quit to exit")
	cc.Renderer.Println("")

	s := newREPLSession(cc)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.reset()
			rl.SetPrompt(prompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if quit := s.feed(line); quit {
			break
		}
		if s.pending() {
			rl.SetPrompt(continuationPrompt)
		} else {
			rl.SetPrompt(prompt)
		}
	}
	return nil
}

// replSession accumulates input lines into statements and renders each
// completed statement.
type replSession struct {
	cc         *CommandContext
	buf        strings.Builder
	showTokens bool
	showTree   bool
	pretty     bool
	last       *parser.Query
}

func newREPLSession(cc *CommandContext) *replSession {
	return &replSession{cc: cc}
}

func (s *replSession) reset() {
	s.buf.Reset()
}

// pending reports whether a statement is partially entered.
func (s *replSession) pending() bool {
	return s.buf.Len() > 0
}

// feed consumes one input line and reports whether the session should end.
func (s *replSession) feed(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if !s.pending() && strings.HasPrefix(line, ".") {
		return s.dotCommand(line)
	}

	// Accumulate multi-line SQL until semicolon
	s.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		s.buf.WriteString("\n")
		return false
	}

	stmt := s.buf.String()
	s.buf.Reset()
	s.evaluate(stmt)
	return false
}

func (s *replSession) evaluate(stmt string) {
	r := s.cc.Renderer

	if s.showTokens {
		toks, _ := lexAll(stmt)
		parts := make([]string, len(toks))
		for i, tok := range toks {
			parts[i] = tok.String()
		}
		r.Println(r.Styles().Muted.Render(strings.Join(parts, " ")))
	}

	q, err := parser.Parse(stmt, s.cc.ParserOptions()...)
	if err != nil {
		if errors.Is(err, parser.ErrTooDeep) {
			r.Error(err.Error())
			return
		}
		renderDiagnostic(r.Writer(), r, "input", newDiagnostic(stmt, err))
		return
	}
	s.last = q

	switch {
	case s.showTree:
		renderTrees(r, exprTrees(q), false)
	case s.pretty:
		r.Println(strings.TrimRight(format.Format(q), "\n"))
	default:
		r.Println(format.Compact(q))
	}
}

func (s *replSession) dotCommand(line string) bool {
	r := s.cc.Renderer
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(r.Writer())
	case ".tokens":
		s.showTokens = !s.showTokens
		r.Muted(fmt.Sprintf("token display %s", onOff(s.showTokens)))
	case ".tree":
		s.showTree = !s.showTree
		r.Muted(fmt.Sprintf("tree display %s", onOff(s.showTree)))
	case ".format":
		s.pretty = !s.pretty
		r.Muted(fmt.Sprintf("multi-line formatting %s", onOff(s.pretty)))
	case ".tables":
		if s.last == nil {
			r.Muted("no statement parsed yet")
			break
		}
		renderNames(r, "Tables", parser.TableNames(s.last))
	default:
		r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .tokens         Toggle printing the token stream
  .tree           Toggle printing fully parenthesized expressions
  .format         Toggle multi-line formatting
  .tables         List tables referenced by the last statement
  .quit / .exit   Exit the REPL

Tips:
  - Statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for keywords
`
	_, _ = fmt.Fprintln(w, help)
}

// newKeywordCompleter creates a readline completer for SQL keywords and
// dot-commands.
func newKeywordCompleter() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, kw := range token.Keywords() {
		items = append(items, readline.PcItem(kw))
	}
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tokens"),
		readline.PcItem(".tree"),
		readline.PcItem(".format"),
		readline.PcItem(".tables"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
