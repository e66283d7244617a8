/*
File    : simplesml/sml/opcode.go

Package sml compiles a parsed Simple program into a 100-word Simpletron
Machine Language image, in the three-phase style of the compiler-package
"tokenize / makeinternalform / output" pipeline: code emission walks the
statement tree producing symbolic instructions, symbol discovery collects
every referenced name and literal, and a final patch pass resolves both
into concrete addresses.
*/
package sml

// Opcode is one Simpletron instruction code, in the 10..43 range named by
// the machine's instruction set.
type Opcode int

const (
	Read       Opcode = 10
	Write      Opcode = 11
	Load       Opcode = 20
	Store      Opcode = 21
	Add        Opcode = 30
	Subtract   Opcode = 31
	Divide     Opcode = 32
	Multiply   Opcode = 33
	Branch     Opcode = 40
	BranchNeg  Opcode = 41
	BranchZero Opcode = 42
	Halt       Opcode = 43
)

// Image is the fixed 100-word Simpletron memory: positions 0..code_size-1
// hold instructions, code_size..data_end-1 hold variables and constants,
// the remainder is zero.
type Image [100]int

const (
	memorySize = 100
	wordMin    = -9999
	wordMax    = 9999
)
