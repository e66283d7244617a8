package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/simplesml/ast"
	"github.com/akashmaji946/simplesml/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	tokens, err := lexer.New(src).Tokenize()
	require.NoError(t, err)
	program, err := New(tokens).ParseProgram()
	require.NoError(t, err)
	return program
}

func TestParser_ParseProgram_LetWithBinaryOp(t *testing.T) {
	program := parse(t, "10 let a = b + 1\n20 end\n")

	stmt, ok := program.Lines[10].(ast.LetStatement)
	require.True(t, ok)
	assert.Equal(t, "a", stmt.Var)

	bin, ok := stmt.Expr.(ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
	assert.Equal(t, ast.Variable{Name: "b"}, bin.Left)
	assert.Equal(t, ast.Number{Value: 1}, bin.Right)
}

func TestParser_ParseProgram_UnaryMinusDesugarsToBinaryOp(t *testing.T) {
	program := parse(t, "10 let a = -x\n20 end\n")

	stmt := program.Lines[10].(ast.LetStatement)
	bin, ok := stmt.Expr.(ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.Number{Value: 0}, bin.Left)
	assert.Equal(t, "-", bin.Op)
	assert.Equal(t, ast.Variable{Name: "x"}, bin.Right)
}

func TestParser_ParseProgram_IfGoto(t *testing.T) {
	program := parse(t, "10 if a <= b goto 30\n20 end\n30 end\n")

	stmt, ok := program.Lines[10].(ast.IfGotoStatement)
	require.True(t, ok)
	assert.Equal(t, "<=", stmt.Op)
	assert.Equal(t, 30, stmt.Target)
}

func TestParser_ParseProgram_RejectsTooComplexExpression(t *testing.T) {
	tokens, err := lexer.New("10 let a = b + c + d\n").Tokenize()
	require.NoError(t, err)
	_, err = New(tokens).ParseProgram()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too complex")
}

func TestParser_ParseProgram_RejectsNonIncreasingLineNumbers(t *testing.T) {
	tokens, err := lexer.New("20 end\n10 end\n").Tokenize()
	require.NoError(t, err)
	_, err = New(tokens).ParseProgram()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strictly increase")
}

func TestParser_ParseProgram_RejectsDuplicateLineNumbers(t *testing.T) {
	tokens, err := lexer.New("10 end\n10 end\n").Tokenize()
	require.NoError(t, err)
	_, err = New(tokens).ParseProgram()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already been used")
}

func TestSemanticAnalyzer_Analyze_UndefinedTargetsAggregate(t *testing.T) {
	program := parse(t, "10 goto 99\n20 if a == b goto 98\n30 end\n")
	err := NewSemanticAnalyzer(program).Analyze()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "goto target 99")
	assert.Contains(t, err.Error(), "goto target 98")
}

func TestSemanticAnalyzer_Analyze_WellFormedProgram(t *testing.T) {
	program := parse(t, "10 goto 20\n20 end\n")
	assert.NoError(t, NewSemanticAnalyzer(program).Analyze())
}
