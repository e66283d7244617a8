/*
File    : simplesml/lexer/lexer.go

Package lexer turns Simple source text into a token stream. No token is
produced for comments; whitespace other than newline is skipped. Errors
carry the offending (line, column).
*/
package lexer

import (
	"fmt"

	"github.com/akashmaji946/simplesml/simerr"
	"github.com/akashmaji946/simplesml/token"
)

// Lexer holds our object-state: the rune slice being scanned, the current
// read position, and position-tracking for error reporting.
type Lexer struct {
	characters []rune // rune slice of the source text
	position   int    // current character position
	ch         rune   // current character, rune(0) at end of input
	line       int    // 1-indexed
	column     int    // 1-indexed

	atLineStart bool // true at the start of input, or right after a NEWLINE
	inIf        bool // true while scanning the rest of an IF statement's line
}

// New creates a Lexer instance from string input.
func New(input string) *Lexer {
	l := &Lexer{characters: []rune(input), line: 1, column: 1, atLineStart: true}
	if len(l.characters) > 0 {
		l.ch = l.characters[0]
	}
	return l
}

// advance moves to the next character, updating line/column bookkeeping.
func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.position++
	l.column++
	if l.position < len(l.characters) {
		l.ch = l.characters[l.position]
	} else {
		l.ch = rune(0)
	}
}

func (l *Lexer) peek() rune {
	if l.position+1 >= len(l.characters) {
		return rune(0)
	}
	return l.characters[l.position+1]
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }
func isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func (l *Lexer) skipSpacesAndTabs() {
	for l.ch == ' ' || l.ch == '\t' {
		l.advance()
	}
}

// readDigits consumes a contiguous run of digits and returns its integer
// value.
func (l *Lexer) readDigits() int {
	start := l.position
	for isDigit(l.ch) {
		l.advance()
	}
	n := 0
	for _, r := range l.characters[start:l.position] {
		n = n*10 + int(r-'0')
	}
	return n
}

// readIdentifier consumes a contiguous alphabetic run.
func (l *Lexer) readIdentifier() string {
	start := l.position
	for isAlpha(l.ch) {
		l.advance()
	}
	return string(l.characters[start:l.position])
}

// NextToken returns the next token in the source, or a *simerr.LexError if
// the character stream cannot be tokenized (invalid character, bad
// identifier, bare '!').
func (l *Lexer) NextToken() (token.Token, error) {
	if l.atLineStart && isDigit(l.ch) {
		line, col := l.line, l.column
		n := l.readDigits()
		l.skipSpacesAndTabs()
		l.atLineStart = false
		l.inIf = false
		return token.NewInt(token.LINE_NUMBER, n, line, col), nil
	}

	if l.ch == '\n' {
		line, col := l.line, l.column
		l.advance()
		l.atLineStart = true
		l.inIf = false
		return token.New(token.NEWLINE, "\n", line, col), nil
	}

	if l.ch == ' ' || l.ch == '\t' {
		l.skipSpacesAndTabs()
		return l.NextToken()
	}

	if l.ch == rune(0) {
		return token.New(token.EOF, "", l.line, l.column), nil
	}

	line, col := l.line, l.column

	if isAlpha(l.ch) {
		word := l.readIdentifier()
		lower := lowercase(word)
		if lower == "rem" {
			for l.ch != '\n' && l.ch != rune(0) {
				l.advance()
			}
			return token.New(token.REM, "rem", line, col), nil
		}
		if kw, ok := token.LookupKeyword(lower); ok {
			if kw == token.GOTO && l.inIf {
				return token.New(token.GOTO_KEYWORD, "goto", line, col), nil
			}
			if kw == token.IF {
				l.inIf = true
			}
			return token.New(kw, lower, line, col), nil
		}
		if len(word) == 1 && word[0] >= 'a' && word[0] <= 'z' {
			return token.New(token.ID, word, line, col), nil
		}
		return token.Token{}, &simerr.LexError{
			Pos:     simerr.Position{Line: line, Column: col},
			Message: fmt.Sprintf("invalid identifier %q (must be a single lowercase letter)", word),
		}
	}

	if isDigit(l.ch) {
		n := l.readDigits()
		return token.NewInt(token.NUMBER, n, line, col), nil
	}

	switch l.ch {
	case '+', '-', '*', '/', '%':
		op := string(l.ch)
		l.advance()
		return token.New(token.OP_ARITH, op, line, col), nil
	case '=':
		l.advance()
		if l.ch == '=' {
			l.advance()
			return token.New(token.OP_REL, "==", line, col), nil
		}
		return token.New(token.OP_ARITH, "=", line, col), nil
	case '<', '>', '!':
		op := string(l.ch)
		l.advance()
		if l.ch == '=' {
			op += "="
			l.advance()
			return token.New(token.OP_REL, op, line, col), nil
		}
		if op == "!" {
			return token.Token{}, &simerr.LexError{
				Pos:     simerr.Position{Line: line, Column: col},
				Message: "bare '!' is not an operator, use '!=' for not-equal",
			}
		}
		return token.New(token.OP_REL, op, line, col), nil
	}

	bad := l.ch
	l.advance()
	return token.Token{}, &simerr.LexError{
		Pos:     simerr.Position{Line: line, Column: col},
		Message: fmt.Sprintf("invalid character %q", bad),
	}
}

// Tokenize drains the lexer into a complete token slice terminated by a
// single EOF token.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
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

func lowercase(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
