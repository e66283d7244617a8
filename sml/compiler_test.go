package sml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/simplesml"
	"github.com/akashmaji946/simplesml/ast"
)

func compileToImage(t *testing.T, src string) Image {
	t.Helper()
	_, program, err := simplesml.Compile(src)
	require.NoError(t, err)
	img, err := New(program).Compile()
	require.NoError(t, err)
	return img
}

func TestCompiler_Compile_InputPrintAdd(t *testing.T) {
	img := compileToImage(t, "10 input a\n20 input b\n30 let c = a + b\n40 print c\n50 end\n")

	// code: READ a, READ b, LOAD a, ADD b, STORE c, WRITE c, HALT = 7 words
	codeWords := 0
	for _, w := range img {
		if w != 0 {
			codeWords++
		}
	}
	assert.GreaterOrEqual(t, codeWords, 7)
	assert.Equal(t, int(Halt)*100, img[6])
}

func TestCompiler_Compile_RejectsModulo(t *testing.T) {
	_, program, err := simplesml.Compile("10 let a = 7\n20 let b = 2\n30 let c = a % b\n40 end\n")
	require.NoError(t, err)
	_, err = New(program).Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'%'")
}

func TestCompiler_Compile_UnresolvedLineFails(t *testing.T) {
	// Built directly rather than through simplesml.Compile, since the
	// semantic analyzer would already reject this program; this exercises
	// the compiler's own branch-resolution check.
	program := ast.New(
		map[int]ast.Stmt{10: ast.GotoStatement{Target: 99, Line: 10}},
		[]int{10},
	)
	_, err := New(program).Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestCompiler_Compile_TooManyDistinctSymbolsOverflowsMemory(t *testing.T) {
	// 26 variables each assigned a distinct constant: 26+26 = 52 symbols,
	// plus 26*2+1 = 53 code words, totalling 105 > 100.
	letters := "abcdefghijklmnopqrstuvwxyz"
	src := ""
	line := 10
	for i := 0; i < len(letters); i++ {
		src += itoaLine(line) + " let " + string(letters[i]) + " = " + itoaLine(i+1) + "\n"
		line += 10
	}
	src += itoaLine(line) + " end\n"

	_, program, err := simplesml.Compile(src)
	require.NoError(t, err)
	_, err = New(program).Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "100-word")
}

func TestCompiler_Compile_SymbolsAreSortedByName(t *testing.T) {
	_, program, err := simplesml.Compile("10 input c\n20 input a\n30 input b\n40 end\n")
	require.NoError(t, err)
	compiler := New(program)
	_, err = compiler.Compile()
	require.NoError(t, err)

	codeSize := 4 // READ c, READ a, READ b, HALT
	assert.Equal(t, codeSize, compiler.Symbols()["a"])
	assert.Equal(t, codeSize+1, compiler.Symbols()["b"])
	assert.Equal(t, codeSize+2, compiler.Symbols()["c"])
}

// TestCompiler_Compile_RelationalFallThroughOperators covers the three
// operators whose lowering needs a synthetic fall-through target ('!=',
// '>=', '<='): each must compile cleanly and disassemble to a conditional
// branch immediately followed by an unconditional one, the shape the
// fall-through address arithmetic in emitIfGoto depends on.
func TestCompiler_Compile_RelationalFallThroughOperators(t *testing.T) {
	cases := []struct {
		name     string
		op       string
		mnemonic string
	}{
		{"not-equal", "!=", "BRANCHZERO"},
		{"greater-or-equal", ">=", "BRANCHNEG"},
		{"less-or-equal", "<=", "BRANCHNEG"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			src := "10 input a\n20 input b\n30 let z = 0\n40 let o = 1\n" +
				"50 if a " + c.op + " b goto 90\n60 print z\n70 goto 100\n" +
				"90 print o\n100 end\n"
			img := compileToImage(t, src)

			out := Disassemble(img)
			assert.Contains(t, out, c.mnemonic)
			assert.Contains(t, out, "BRANCH ")
			// Line 50 starts at address 06 (LOAD, SUBTRACT), so the
			// conditional branch sits at 08 and falls through to 10, just
			// past the unconditional BRANCH at 09.
			assert.Contains(t, out, "08: "+c.mnemonic+" 10\n09: BRANCH ")
		})
	}
}

func itoaLine(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
