/*
File    : simplesml/parser/parser.go

Package parser converts the Simple token stream into a line-indexed
Program, and validates branch targets across the whole tree.
*/
package parser

import (
	"fmt"

	"github.com/akashmaji946/simplesml/ast"
	"github.com/akashmaji946/simplesml/simerr"
	"github.com/akashmaji946/simplesml/token"
)

// Parser holds our object-state: the token slice and a cursor over it, in
// the style of a classic recursive-descent parser with one token of
// lookahead.
type Parser struct {
	tokens   []token.Token
	pos      int
	curToken token.Token
}

// New creates a Parser over an already-lexed token slice. tokens must be
// non-empty and end with an EOF token, as produced by lexer.Tokenize.
func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens}
	if len(tokens) > 0 {
		p.curToken = tokens[0]
	}
	return p
}

func (p *Parser) advance() {
	p.pos++
	if p.pos < len(p.tokens) {
		p.curToken = p.tokens[p.pos]
	} else {
		p.curToken = token.Token{Type: token.EOF}
	}
}

func (p *Parser) position() simerr.Position {
	return simerr.Position{Line: p.curToken.Line, Column: p.curToken.Column}
}

func (p *Parser) errorf(format string, a ...interface{}) error {
	return &simerr.ParseError{Pos: p.position(), Message: fmt.Sprintf(format, a...)}
}

// expect consumes the current token if it matches typ, else returns a
// ParseError. It returns the consumed token on success.
func (p *Parser) expect(typ token.Type) (token.Token, error) {
	if p.curToken.Type != typ {
		return token.Token{}, p.errorf("expected %s, found %s", typ, p.curToken.Type)
	}
	tok := p.curToken
	p.advance()
	return tok, nil
}

// ParseProgram parses the full token stream into a Program (grammar:
// program := (line)*). Line-number invariants (strictly increasing,
// unique) are enforced as each line is consumed.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	lines := make(map[int]ast.Stmt)
	var order []int
	previous := 0

	for p.curToken.Type != token.EOF {
		if p.curToken.Type != token.LINE_NUMBER {
			return nil, p.errorf("expected a line number, found %s", p.curToken.Type)
		}
		lineNumber := p.curToken.IntValue
		linePos := p.position()

		if lineNumber <= previous {
			if _, dup := lines[lineNumber]; dup {
				return nil, &simerr.ParseError{Pos: linePos, Message: fmt.Sprintf(
					"line number %d has already been used; each line must have a unique number", lineNumber)}
			}
			return nil, &simerr.ParseError{Pos: linePos, Message: fmt.Sprintf(
				"line number %d must be greater than the previous line (%d); line numbers must strictly increase", lineNumber, previous)}
		}
		previous = lineNumber
		p.advance()

		stmt, err := p.parseStatement(lineNumber)
		if err != nil {
			return nil, err
		}
		lines[lineNumber] = stmt
		order = append(order, lineNumber)

		for p.curToken.Type == token.NEWLINE {
			p.advance()
		}
	}

	return ast.New(lines, order), nil
}

// parseStatement parses the single statement following a LINE_NUMBER token
// (grammar: stmt := REM | INPUT ID | PRINT ID | LET ID '=' expr |
// GOTO NUMBER | IF expr OP_REL expr GOTO_KEYWORD NUMBER | END).
func (p *Parser) parseStatement(line int) (ast.Stmt, error) {
	switch p.curToken.Type {
	case token.REM:
		p.advance()
		return ast.RemStatement{Line: line}, nil

	case token.INPUT:
		p.advance()
		id, err := p.expect(token.ID)
		if err != nil {
			return nil, err
		}
		return ast.InputStatement{Var: id.Literal, Line: line}, nil

	case token.PRINT:
		p.advance()
		id, err := p.expect(token.ID)
		if err != nil {
			return nil, err
		}
		return ast.PrintStatement{Var: id.Literal, Line: line}, nil

	case token.LET:
		p.advance()
		id, err := p.expect(token.ID)
		if err != nil {
			return nil, err
		}
		if p.curToken.Type != token.OP_ARITH || p.curToken.Literal != "=" {
			return nil, p.errorf("expected '=', found %s", p.curToken.Type)
		}
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.LetStatement{Var: id.Literal, Expr: expr, Line: line}, nil

	case token.GOTO:
		p.advance()
		target, err := p.expect(token.NUMBER)
		if err != nil {
			return nil, err
		}
		return ast.GotoStatement{Target: target.IntValue, Line: line}, nil

	case token.IF:
		p.advance()
		left, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		relTok, err := p.expect(token.OP_REL)
		if err != nil {
			return nil, err
		}
		right, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.curToken.Type != token.GOTO_KEYWORD {
			return nil, p.errorf("expected 'goto' inside an if-statement, found %s", p.curToken.Type)
		}
		p.advance()
		target, err := p.expect(token.NUMBER)
		if err != nil {
			return nil, err
		}
		return ast.IfGotoStatement{Left: left, Op: relTok.Literal, Right: right, Target: target.IntValue, Line: line}, nil

	case token.END:
		p.advance()
		return ast.EndStatement{Line: line}, nil

	default:
		return nil, p.errorf("invalid statement, unexpected %s", p.curToken.Type)
	}
}

// parseExpr parses one expression (grammar: expr := ('+'|'-')?
// operand (OP_ARITH operand)?). A second OP_ARITH following a complete
// binary expression is rejected as "only one operation per expression".
func (p *Parser) parseExpr() (ast.Expr, error) {
	if p.curToken.Type == token.OP_ARITH && p.curToken.Literal == "-" {
		p.advance()
		operand, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return ast.BinaryOp{Left: ast.Number{Value: 0}, Op: "-", Right: operand}, nil
	}
	if p.curToken.Type == token.OP_ARITH && p.curToken.Literal == "+" {
		p.advance()
		return p.parseOperand()
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	if p.curToken.Type == token.OP_ARITH && isBinaryArith(p.curToken.Literal) {
		op := p.curToken.Literal
		p.advance()
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		if p.curToken.Type == token.OP_ARITH && isBinaryArith(p.curToken.Literal) {
			return nil, p.errorf(
				"expression too complex: only one operation is allowed per expression; use an intermediate variable")
		}
		return ast.BinaryOp{Left: left, Op: op, Right: right}, nil
	}

	return left, nil
}

func isBinaryArith(lit string) bool {
	switch lit {
	case "+", "-", "*", "/", "%":
		return true
	}
	return false
}

// parseOperand parses a single NUMBER or ID leaf.
func (p *Parser) parseOperand() (ast.Expr, error) {
	switch p.curToken.Type {
	case token.NUMBER:
		v := p.curToken.IntValue
		p.advance()
		return ast.Number{Value: v}, nil
	case token.ID:
		name := p.curToken.Literal
		p.advance()
		return ast.Variable{Name: name}, nil
	default:
		return nil, p.errorf("invalid expression: expected a number or variable, found %s", p.curToken.Type)
	}
}
