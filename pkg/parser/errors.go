package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapparse/pkg/token"
)

// Sentinel errors, matched with errors.Is.
var (
	// ErrUnrecognizedInput is wrapped by a LexError raised on a byte that
	// starts no token.
	ErrUnrecognizedInput = errors.New("unrecognized input")
	// ErrUnterminated is wrapped by a LexError raised on an unclosed string,
	// quoted identifier or block comment.
	ErrUnterminated = errors.New("unterminated literal")
	// ErrTooDeep is returned when nesting exceeds the parser's depth limit.
	ErrTooDeep = errors.New("nesting too deep")
)

// Common error messages
const (
	ErrUnterminatedString  = "unterminated string literal"
	ErrUnterminatedIdent   = "unterminated quoted identifier"
	ErrUnterminatedComment = "unterminated block comment"
)

// LexError represents a lexical analysis error. It is fatal: tokenization
// stops at the first one.
type LexError struct {
	Pos     token.Position
	Message string
	Err     error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func (e *LexError) Unwrap() error {
	return e.Err
}

// Offset returns the byte offset of the error.
func (e *LexError) Offset() int {
	return e.Pos.Offset
}

// SyntaxError is the single diagnostic produced when no parse alternative
// succeeds. It describes the furthest position any alternative reached.
type SyntaxError struct {
	Pos        token.Position `json:"position"`
	Expected   []string       `json:"expected"`
	Found      string         `json:"found,omitempty"`
	AtEOF      bool           `json:"at_eof,omitempty"`
	Suggestion string         `json:"suggestion,omitempty"`
}

// Offset returns the byte offset of the error.
func (e *SyntaxError) Offset() int {
	return e.Pos.Offset
}

// Message renders the diagnostic without position information.
func (e *SyntaxError) Message() string {
	var sb strings.Builder
	sb.WriteString("expected ")
	switch len(e.Expected) {
	case 0:
		sb.WriteString("nothing")
	case 1:
		sb.WriteString(e.Expected[0])
	default:
		sb.WriteString("one of ")
		sb.WriteString(strings.Join(e.Expected, ", "))
	}
	if e.AtEOF {
		sb.WriteString(", reached end of input")
	} else {
		fmt.Fprintf(&sb, ", found '%s'", e.Found)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, " (did you mean %s?)", e.Suggestion)
	}
	return sb.String()
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message())
}

// Snippet renders the source line containing the error with a caret under
// the offending column.
func Snippet(input string, pos token.Position) string {
	line := token.LineAt(input, pos.Offset)
	width := 1
	if rest := input[pos.Offset:]; len(rest) > 0 {
		if n := strings.IndexAny(rest, " \t\r\n"); n > 0 {
			width = n
		} else if n < 0 {
			width = len(rest)
		}
	}
	if pos.Column-1+width > len(line) {
		width = max(1, len(line)-(pos.Column-1))
	}
	gutter := fmt.Sprintf("%d | ", pos.Line)
	return gutter + line + "\n" +
		strings.Repeat(" ", len(gutter)+pos.Column-1) + strings.Repeat("^", width)
}

// Position extracts the position from a LexError or SyntaxError.
func Position(err error) (token.Position, bool) {
	var lexErr *LexError
	if errors.As(err, &lexErr) {
		return lexErr.Pos, true
	}
	var synErr *SyntaxError
	if errors.As(err, &synErr) {
		return synErr.Pos, true
	}
	return token.Position{}, false
}
