// Package format renders parsed queries back to SQL text.
package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/leapparse/pkg/token"
)

const indentSize = 2

// Printer handles SQL formatting with proper indentation and style.
// In compact mode line breaks collapse to single spaces and indentation
// is dropped.
type Printer struct {
	output       *bytes.Buffer
	depth        int
	atLineStart  bool
	compact      bool
	pendingSpace bool
	tree         bool // parenthesize every operator expression
}

func newPrinter() *Printer {
	return &Printer{
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

// String returns the formatted output.
func (p *Printer) String() string {
	if p.compact {
		return strings.TrimSpace(p.output.String())
	}
	return strings.TrimRight(p.output.String(), "\n") + "\n"
}

func (p *Printer) write(s string) {
	if s == "" {
		return
	}
	if p.compact {
		if p.pendingSpace && p.output.Len() > 0 && s[0] != ')' && !bytes.HasSuffix(p.output.Bytes(), []byte("(")) {
			p.output.WriteByte(' ')
		}
		p.pendingSpace = false
		p.output.WriteString(s)
		return
	}
	if p.atLineStart && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	if p.compact {
		p.pendingSpace = true
		return
	}
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	p.write(" ")
}

// kw prints keywords or operators by token type, separated by spaces.
func (p *Printer) kw(tokens ...token.TokenType) {
	for i, t := range tokens {
		if i > 0 {
			p.space()
		}
		p.write(t.String())
	}
}

// formatList prints a list of items with separators.
// count is the number of items, format is called for each index,
// sep is the separator string, multiline adds newlines after separators.
func (p *Printer) formatList(count int, format func(i int), sep string, multiline bool) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
			if multiline {
				p.writeln()
			} else if sep == "," {
				p.space()
			}
		}
	}
}
