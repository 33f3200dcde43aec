package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/leapparse/internal/cli/output"
	"github.com/leapstack-labs/leapparse/pkg/parser"
)

// newDiagnostic converts a parse failure into its structured form.
func newDiagnostic(src string, err error) *output.Diagnostic {
	d := &output.Diagnostic{Message: err.Error()}

	var synErr *parser.SyntaxError
	var lexErr *parser.LexError
	switch {
	case errors.As(err, &synErr):
		base := *synErr
		base.Suggestion = ""
		d.Message = base.Message()
		d.Expected = synErr.Expected
		d.Found = synErr.Found
		d.Suggestion = synErr.Suggestion
	case errors.As(err, &lexErr):
		d.Message = lexErr.Message
	}

	if pos, ok := parser.Position(err); ok {
		d.Line = pos.Line
		d.Column = pos.Column
		d.Offset = pos.Offset
		d.Snippet = parser.Snippet(src, pos)
	}
	return d
}

type diagnosticView struct {
	*output.Diagnostic
	name string
}

// location formats name:line:column, or just name without a position.
func (d diagnosticView) location() string {
	if d.Line == 0 {
		return d.name
	}
	return fmt.Sprintf("%s:%d:%d", d.name, d.Line, d.Column)
}

// renderDiagnostic writes d for a human reader to w.
func renderDiagnostic(w io.Writer, r *output.Renderer, name string, d *output.Diagnostic) {
	v := diagnosticView{Diagnostic: d, name: name}

	if r.EffectiveMode() == output.ModeMarkdown {
		_, _ = fmt.Fprintln(w, output.FormatHeader(2, "Parse error"))
		_, _ = fmt.Fprintln(w, output.FormatKeyValue("Location", v.location()))
		_, _ = fmt.Fprintln(w, output.FormatKeyValue("Message", d.Message))
		if d.Suggestion != "" {
			_, _ = fmt.Fprintln(w, output.FormatKeyValue("Did you mean", d.Suggestion))
		}
		if d.Snippet != "" {
			_, _ = fmt.Fprintln(w, output.FormatCodeBlock("", d.Snippet))
		}
		return
	}

	styles := r.Styles()
	_, _ = fmt.Fprintf(w, "%s %s %s\n",
		styles.Error.Render("error:"),
		styles.Bold.Render(v.location()+":"),
		d.Message)
	if d.Snippet != "" {
		line, caret, _ := strings.Cut(d.Snippet, "\n")
		_, _ = fmt.Fprintln(w, line)
		_, _ = fmt.Fprintln(w, styles.Caret.Render(caret))
	}
	if d.Suggestion != "" {
		_, _ = fmt.Fprintln(w, styles.Info.Render("hint: did you mean "+d.Suggestion+"?"))
	}
}
