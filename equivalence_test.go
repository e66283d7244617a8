package simplesml

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/simplesml/interp"
	"github.com/akashmaji946/simplesml/ioline"
	"github.com/akashmaji946/simplesml/sml"
	"github.com/akashmaji946/simplesml/vm"
)

// factorialSource is the "factorial loop with if i > n goto END" scenario:
// a running product f accumulates i=1..n, terminating as soon as i exceeds n.
const factorialSource = "10 input n\n20 let i = 1\n30 let f = 1\n40 if i > n goto 80\n" +
	"50 let f = f * i\n60 let i = i + 1\n70 goto 40\n80 print f\n90 end\n"

func runInterp(t *testing.T, src string, input []int) string {
	t.Helper()
	_, program, err := Compile(src)
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, interp.New(program).Run(context.Background(), ioline.NewSlice(input), &out))
	return out.String()
}

func runSML(t *testing.T, src string, input []int) string {
	t.Helper()
	_, program, err := Compile(src)
	require.NoError(t, err)
	img, err := sml.New(program).Compile()
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, vm.New(img).Run(context.Background(), ioline.NewSlice(input), &out))
	return out.String()
}

// TestEquivalence_InterpAndSML_AgreeOnRestrictedPrograms checks the
// restricted-equivalence property: for a program using only +, -, *, / and
// staying within [-9999, 9999], the tree interpreter and the compile-then-run
// SML path must produce identical output streams for identical input.
func TestEquivalence_InterpAndSML_AgreeOnRestrictedPrograms(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		input []int
	}{
		{
			name:  "identity",
			src:   "10 input a\n20 print a\n30 end\n",
			input: []int{7},
		},
		{
			name:  "sum",
			src:   "10 input a\n20 input b\n30 let c = a + b\n40 print c\n50 end\n",
			input: []int{3, 4},
		},
		{
			name: "maximum via if, ascending input",
			src: "10 input a\n20 input b\n30 if a > b goto 70\n40 print b\n" +
				"50 goto 80\n70 print a\n80 end\n",
			input: []int{2, 9},
		},
		{
			name: "maximum via if, descending input",
			src: "10 input a\n20 input b\n30 if a > b goto 70\n40 print b\n" +
				"50 goto 80\n70 print a\n80 end\n",
			input: []int{9, 2},
		},
		{
			name:  "factorial",
			src:   factorialSource,
			input: []int{5},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			interpOut := runInterp(t, c.src, c.input)
			smlOut := runSML(t, c.src, c.input)
			assert.Equal(t, interpOut, smlOut)
		})
	}
}

// TestMaximumViaIf_BothInputOrders covers spec scenario 3 directly: whichever
// input arrives first, the larger value is printed.
func TestMaximumViaIf_BothInputOrders(t *testing.T) {
	src := "10 input a\n20 input b\n30 if a > b goto 70\n40 print b\n" +
		"50 goto 80\n70 print a\n80 end\n"

	assert.Equal(t, "9\n", runInterp(t, src, []int{2, 9}))
	assert.Equal(t, "9\n", runSML(t, src, []int{2, 9}))
	assert.Equal(t, "9\n", runInterp(t, src, []int{9, 2}))
	assert.Equal(t, "9\n", runSML(t, src, []int{9, 2}))
}

// TestFactorial_ProducesExpectedValueOnBothBackends covers spec scenario 4.
func TestFactorial_ProducesExpectedValueOnBothBackends(t *testing.T) {
	assert.Equal(t, "120\n", runInterp(t, factorialSource, []int{5}))
	assert.Equal(t, "120\n", runSML(t, factorialSource, []int{5}))
}

// TestFactorial_CompiledImageFitsIn100Words confirms the factorial loop's
// compiled image — code plus its discovered variable/constant symbols —
// stays within the 100-word memory, as scenario 4 requires.
func TestFactorial_CompiledImageFitsIn100Words(t *testing.T) {
	_, program, err := Compile(factorialSource)
	require.NoError(t, err)

	compiler := sml.New(program)
	_, err = compiler.Compile()
	require.NoError(t, err)

	symbols := compiler.Symbols()
	require.NotEmpty(t, symbols)
	codeSize := 100
	for _, addr := range symbols {
		if addr < codeSize {
			codeSize = addr
		}
	}
	total := codeSize + len(symbols)
	assert.LessOrEqual(t, total, 100)
}
