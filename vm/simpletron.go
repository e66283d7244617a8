/*
File    : simplesml/vm/simpletron.go

Package vm implements the Simpletron virtual machine: a 100-word decode/
execute loop over an sml.Image, in the fetch-decode-dispatch style of a
classic bytecode-VM core loop.
*/
package vm

import (
	"context"
	"fmt"
	"io"

	"github.com/akashmaji946/simplesml/ioline"
	"github.com/akashmaji946/simplesml/simerr"
	"github.com/akashmaji946/simplesml/sml"
)

const (
	memorySize = 100
	wordMin    = -9999
	wordMax    = 9999
)

// Simpletron is one Simpletron Machine Language virtual machine instance:
// 100 words of memory, a single accumulator, and an instruction counter.
// Two concurrent Simpletron instances never share state.
type Simpletron struct {
	memory      sml.Image
	accumulator int
	ic          int
}

// New creates a Simpletron loaded with img.
func New(img sml.Image) *Simpletron {
	return &Simpletron{memory: img}
}

// Memory exposes the machine's current memory contents, for introspection
// (the ":mem" command, sml.Disassemble).
func (m *Simpletron) Memory() sml.Image {
	return m.memory
}

// Accumulator returns the current accumulator value.
func (m *Simpletron) Accumulator() int {
	return m.accumulator
}

// Run decodes and executes instructions starting at address 0 until HALT
// is reached, and cooperates with ctx for external cancellation at each
// instruction boundary. READ consumes from in; WRITE writes a decimal
// line to out. Any fault stops the machine and is returned as a
// *simerr.SMLError naming the faulting address.
func (m *Simpletron) Run(ctx context.Context, in ioline.Source, out io.Writer) error {
	for m.ic < memorySize {
		if err := ctx.Err(); err != nil {
			return err
		}

		word := m.memory[m.ic]
		opcode := sml.Opcode(word / 100)
		operand := word % 100

		if opcode == sml.Halt {
			return nil
		}

		if err := m.execute(ctx, opcode, operand, in, out); err != nil {
			return err
		}
	}
	return &simerr.SMLError{Addr: m.ic, Message: "ran off end of memory without executing HALT"}
}

// execute dispatches and runs a single decoded instruction, advancing ic
// itself (branches may set it directly instead of incrementing).
func (m *Simpletron) execute(ctx context.Context, opcode sml.Opcode, operand int, in ioline.Source, out io.Writer) error {
	switch opcode {
	case sml.Read:
		v, err := in.Next(ctx)
		if err != nil {
			return &simerr.SMLError{Addr: m.ic, Message: fmt.Sprintf("reading input: %s", err)}
		}
		if v < wordMin || v > wordMax {
			return &simerr.SMLError{Addr: m.ic, Message: fmt.Sprintf("input %d out of range [%d,%d]", v, wordMin, wordMax)}
		}
		m.memory[operand] = v
		m.ic++

	case sml.Write:
		fmt.Fprintln(out, m.memory[operand])
		m.ic++

	case sml.Load:
		m.accumulator = m.memory[operand]
		m.ic++

	case sml.Store:
		m.memory[operand] = m.accumulator
		m.ic++

	case sml.Add:
		return m.arith(operand, func(a, b int) int { return a + b })

	case sml.Subtract:
		return m.arith(operand, func(a, b int) int { return a - b })

	case sml.Multiply:
		return m.arith(operand, func(a, b int) int { return a * b })

	case sml.Divide:
		divisor := m.memory[operand]
		if divisor == 0 {
			return &simerr.SMLError{Addr: m.ic, Message: "division by zero"}
		}
		m.accumulator = floorDiv(m.accumulator, divisor)
		m.ic++

	case sml.Branch:
		m.ic = operand

	case sml.BranchNeg:
		if m.accumulator < 0 {
			m.ic = operand
		} else {
			m.ic++
		}

	case sml.BranchZero:
		if m.accumulator == 0 {
			m.ic = operand
		} else {
			m.ic++
		}

	default:
		return &simerr.SMLError{Addr: m.ic, Message: fmt.Sprintf("unknown opcode %d", opcode)}
	}
	return nil
}

// arith applies a two-operand accumulator update and checks the result
// stays within the machine's signed-word bounds: if the accumulator
// leaves [-9999, 9999], the operation fails with overflow.
func (m *Simpletron) arith(operand int, f func(a, b int) int) error {
	result := f(m.accumulator, m.memory[operand])
	if result < wordMin || result > wordMax {
		return &simerr.SMLError{Addr: m.ic, Message: fmt.Sprintf("accumulator overflow: %d out of range [%d,%d]", result, wordMin, wordMax)}
	}
	m.accumulator = result
	m.ic++
	return nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
