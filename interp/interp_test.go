package interp

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/simplesml"
	"github.com/akashmaji946/simplesml/ast"
	"github.com/akashmaji946/simplesml/ioline"
)

func runProgram(t *testing.T, src string, input []int) (string, error) {
	t.Helper()
	_, program, err := simplesml.Compile(src)
	require.NoError(t, err)

	var out bytes.Buffer
	in := ioline.NewSlice(input)
	runErr := New(program).Run(context.Background(), in, &out)
	return out.String(), runErr
}

func TestInterpreter_Run_AddsTwoInputs(t *testing.T) {
	src := "10 input a\n20 input b\n30 let c = a + b\n40 print c\n50 end\n"
	out, err := runProgram(t, src, []int{3, 4})
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestInterpreter_Run_LoopCountdown(t *testing.T) {
	src := "10 let a = 3\n20 print a\n30 let a = a - 1\n40 if a > 0 goto 20\n50 end\n"
	out, err := runProgram(t, src, nil)
	require.NoError(t, err)
	assert.Equal(t, "3\n2\n1\n", out)
}

func TestInterpreter_Run_FallsOffEndWithoutEnd(t *testing.T) {
	src := "10 let a = 1\n20 print a\n"
	out, err := runProgram(t, src, nil)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestInterpreter_Run_DivisionByZeroIsRuntimeError(t *testing.T) {
	src := "10 let a = 1\n20 let b = 0\n30 let c = a / b\n40 end\n"
	_, err := runProgram(t, src, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "division by zero")
}

func TestInterpreter_Run_FloorDivisionAndModulo(t *testing.T) {
	src := "10 let a = 0\n20 let b = 7\n30 let c = a - b\n40 let d = c / 2\n50 print d\n60 let e = c % 2\n70 print e\n80 end\n"
	out, err := runProgram(t, src, nil)
	require.NoError(t, err)
	// c = -7; floor(-7/2) = -4, floor-mod(-7, 2) = 1
	assert.Equal(t, "-4\n1\n", out)
}

func TestInterpreter_Run_UndefinedGotoTargetIsRuntimeError(t *testing.T) {
	// Built directly rather than through simplesml.Compile, since the
	// semantic analyzer would already reject this program; this exercises
	// the interpreter's own defensive check.
	program := ast.New(
		map[int]ast.Stmt{10: ast.GotoStatement{Target: 99, Line: 10}},
		[]int{10},
	)
	var out bytes.Buffer
	runErr := New(program).Run(context.Background(), ioline.NewSlice(nil), &out)
	require.Error(t, runErr)
	assert.Contains(t, runErr.Error(), "does not exist")
}
