package parser

import (
	"fmt"
	"unicode/utf8"

	"github.com/leapstack-labs/leapparse/pkg/token"
)

// Lexer tokenizes SQL input. Token text is sliced from the input, never copied.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

// NextToken returns the next token. After the EOF token has been returned,
// further calls keep returning EOF. Errors are fatal: the lexer does not
// resynchronize after an unrecognized byte.
func (l *Lexer) NextToken() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	start := l.pos
	if l.atEnd() {
		return l.emit(token.EOF, len(l.input)), nil
	}

	switch l.ch {
	case '+':
		return l.single(token.PLUS), nil
	case '-':
		return l.single(token.MINUS), nil
	case '*':
		return l.single(token.STAR), nil
	case '/':
		return l.single(token.SLASH), nil
	case '%':
		return l.single(token.PERCENT), nil
	case '^':
		return l.single(token.CARET), nil
	case '=':
		return l.single(token.EQ), nil
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber(), nil
		}
		return l.single(token.DOT), nil
	case ',':
		return l.single(token.COMMA), nil
	case '(':
		return l.single(token.LPAREN), nil
	case ')':
		return l.single(token.RPAREN), nil
	case ';':
		return l.single(token.SEMICOLON), nil
	case '<':
		switch l.peekChar() {
		case '=':
			return l.double(token.LE), nil
		case '>':
			return l.double(token.NE), nil
		}
		return l.single(token.LT), nil
	case '>':
		if l.peekChar() == '=' {
			return l.double(token.GE), nil
		}
		return l.single(token.GT), nil
	case '!':
		if l.peekChar() == '=' {
			return l.double(token.NE), nil
		}
	case '|':
		if l.peekChar() == '|' {
			return l.double(token.DPIPE), nil
		}
	case '\'':
		return l.readString()
	case '"':
		return l.readQuotedIdentifier()
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_':
			return l.readIdentifier(), nil
		case isDigit(l.ch):
			return l.readNumber(), nil
		}
	}

	r, _ := utf8.DecodeRuneInString(l.input[start:])
	return token.Token{}, l.errorf(start, ErrUnrecognizedInput, "unexpected character %q", r)
}

// emit builds a token spanning [start, end) of the input.
func (l *Lexer) emit(t token.TokenType, start int) token.Token {
	end := l.pos
	if end > len(l.input) {
		end = len(l.input)
	}
	return token.Token{
		Type: t,
		Text: l.input[start:end],
		Span: token.Span{Start: start, End: end},
	}
}

func (l *Lexer) single(t token.TokenType) token.Token {
	start := l.pos
	l.readChar()
	return l.emit(t, start)
}

func (l *Lexer) double(t token.TokenType) token.Token {
	start := l.pos
	l.readChar()
	l.readChar()
	return l.emit(t, start)
}

// skipWhitespaceAndComments skips whitespace, line comments and block comments.
func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		for isSpace(l.ch) && !l.atEnd() {
			l.readChar()
		}

		if l.ch == '-' && l.peekChar() == '-' {
			for l.ch != '\n' && !l.atEnd() {
				l.readChar()
			}
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			start := l.pos
			l.readChar() // skip '/'
			l.readChar() // skip '*'
			for {
				if l.atEnd() {
					return l.errorf(start, ErrUnterminated, ErrUnterminatedComment)
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
			continue
		}

		return nil
	}
}

// readString reads a single-quoted string literal. A doubled quote and
// backslash escapes are both accepted. The token keeps its quotes.
func (l *Lexer) readString() (token.Token, error) {
	start := l.pos
	l.readChar() // skip opening quote

	for {
		switch {
		case l.atEnd():
			return token.Token{}, l.errorf(start, ErrUnterminated, ErrUnterminatedString)
		case l.ch == '\\':
			l.readChar()
			if l.atEnd() {
				return token.Token{}, l.errorf(start, ErrUnterminated, ErrUnterminatedString)
			}
			l.readChar()
		case l.ch == '\'':
			l.readChar()
			if l.ch == '\'' && !l.atEnd() {
				l.readChar()
				continue
			}
			return l.emit(token.STRING, start), nil
		default:
			l.readChar()
		}
	}
}

// readQuotedIdentifier reads a double-quoted identifier ("col""name").
func (l *Lexer) readQuotedIdentifier() (token.Token, error) {
	start := l.pos
	l.readChar() // skip opening quote

	for {
		if l.atEnd() {
			return token.Token{}, l.errorf(start, ErrUnterminated, ErrUnterminatedIdent)
		}
		if l.ch == '"' {
			l.readChar()
			if l.ch == '"' && !l.atEnd() {
				l.readChar()
				continue
			}
			return l.emit(token.IDENT, start), nil
		}
		l.readChar()
	}
}

// readIdentifier reads an unquoted identifier or keyword.
func (l *Lexer) readIdentifier() token.Token {
	start := l.pos
	for (isLetter(l.ch) || isDigit(l.ch) || l.ch == '_') && !l.atEnd() {
		l.readChar()
	}
	tok := l.emit(token.IDENT, start)
	tok.Type = token.LookupIdent(tok.Text)
	return tok
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() token.Token {
	start := l.pos

	for isDigit(l.ch) && !l.atEnd() {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // skip '.'
		for isDigit(l.ch) && !l.atEnd() {
			l.readChar()
		}
	}

	// The exponent is only consumed when digits follow, so "1e" lexes as
	// NUMBER followed by IDENT.
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		signed := next == '+' || next == '-'
		if isDigit(next) || (signed && l.readPos+1 < len(l.input) && isDigit(l.input[l.readPos+1])) {
			l.readChar() // skip 'e'
			if signed {
				l.readChar()
			}
			for isDigit(l.ch) && !l.atEnd() {
				l.readChar()
			}
		}
	}

	return l.emit(token.NUMBER, start)
}

func (l *Lexer) errorf(offset int, kind error, format string, args ...any) *LexError {
	return &LexError{
		Pos:     token.PositionAt(l.input, offset),
		Message: fmt.Sprintf(format, args...),
		Err:     kind,
	}
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

// Tokenize returns all tokens from the input, ending with a single EOF token.
// It is a pure function of its input.
func Tokenize(input string) ([]token.Token, error) {
	l := NewLexer(input)
	tokens := make([]token.Token, 0, len(input)/4+1)
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}
