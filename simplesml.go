/*
File    : simplesml/simplesml.go

Package simplesml is the top-level facade over the Simple/SML pipeline: it
wires the lexer, parser, and semantic analyzer together behind a single
Compile entry point.
*/
package simplesml

import (
	"github.com/akashmaji946/simplesml/ast"
	"github.com/akashmaji946/simplesml/lexer"
	"github.com/akashmaji946/simplesml/parser"
	"github.com/akashmaji946/simplesml/token"
)

// Compile lexes, parses, and semantically validates a Simple source
// program, returning either a token stream and parse tree or an error. The
// token slice is always returned when lexing succeeds, even if parsing or
// semantic analysis subsequently fails, so callers (notably the ":tokens"
// CLI introspection command) can inspect it independently.
func Compile(source string) ([]token.Token, *ast.Program, error) {
	tokens, err := lexer.New(source).Tokenize()
	if err != nil {
		return nil, nil, err
	}

	program, err := parser.New(tokens).ParseProgram()
	if err != nil {
		return tokens, nil, err
	}

	if err := parser.NewSemanticAnalyzer(program).Analyze(); err != nil {
		return tokens, program, err
	}

	return tokens, program, nil
}
