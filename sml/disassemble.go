package sml

import (
	"fmt"
	"strings"
)

var mnemonics = map[Opcode]string{
	Read: "READ", Write: "WRITE",
	Load: "LOAD", Store: "STORE",
	Add: "ADD", Subtract: "SUBTRACT", Divide: "DIVIDE", Multiply: "MULTIPLY",
	Branch: "BRANCH", BranchNeg: "BRANCHNEG", BranchZero: "BRANCHZERO",
	Halt: "HALT",
}

// Disassemble renders every non-zero cell of img as "ADDR: OPCODE OPERAND"
// when the word decodes to a known opcode, or "ADDR: +NNNN" otherwise. The
// choice depends only on the word's value, so a data cell whose value
// happens to decode as an instruction is shown as that instruction.
func Disassemble(img Image) string {
	var b strings.Builder
	for addr, word := range img {
		if word == 0 {
			continue
		}
		op := Opcode(word / 100)
		operand := word % 100
		if name, ok := mnemonics[op]; ok && operand >= 0 && operand < memorySize {
			fmt.Fprintf(&b, "%02d: %s %02d\n", addr, name, operand)
		} else {
			fmt.Fprintf(&b, "%02d: %+05d\n", addr, word)
		}
	}
	return b.String()
}
