package sml

import (
	"fmt"
	"sort"

	"github.com/akashmaji946/simplesml/ast"
	"github.com/akashmaji946/simplesml/simerr"
)

// operandKind tags how a symbolicInstr's operand must be resolved during
// the final patch pass.
type operandKind int

const (
	kindImmediate operandKind = iota // already a 0..99 address, used as-is
	kindSymbol                       // a variable or constant name, resolved via the symbol table
	kindLine                         // a Simple source line number, resolved via line_to_address
)

// symbolicInstr is one pre-resolution instruction: an opcode plus an
// operand reference that may still be a name or a line number, produced by
// the code-emission pass before addresses are assigned.
type symbolicInstr struct {
	op        Opcode
	kind      operandKind
	symbol    string
	line      int
	immediate int
}

// Compiler holds our object-state across the three compilation phases:
// code emission, symbol discovery, and address assignment/patch.
type Compiler struct {
	program *ast.Program
	debug   bool

	instructions  []symbolicInstr
	lineToAddress map[int]int

	symbols map[string]int // populated after Compile: name -> final address
}

// New creates a Compiler for program, in the uninitialized state the
// three-phase pipeline begins from.
func New(program *ast.Program) *Compiler {
	return &Compiler{program: program, lineToAddress: make(map[int]int)}
}

// SetDebug records a debug flag on the Compiler. Neither Compile nor
// Disassemble reads it: the image and its disassembly are the same
// whichever value is set, and no cell is annotated with a symbol name.
func (c *Compiler) SetDebug(val bool) {
	c.debug = val
}

// Symbols returns the final name->address table computed by the most
// recent successful Compile call, for introspection.
func (c *Compiler) Symbols() map[string]int {
	return c.symbols
}

// Compile lowers the statement tree into a 100-word SML image. It fails
// with a *simerr.CompileError if the program's code plus
// discovered symbols cannot fit in the 100-word address space, if a
// branch targets an undefined line, or if a LET expression uses '%' (the
// modulo operator has no DIVIDE/MULTIPLY-based lowering and is rejected
// here rather than silently mis-compiled to MULTIPLY).
func (c *Compiler) Compile() (Image, error) {
	var img Image

	if err := c.emitCode(); err != nil {
		return img, err
	}

	symbols := c.discoverSymbols()

	codeSize := len(c.instructions)
	if codeSize+len(symbols) > memorySize {
		return img, &simerr.CompileError{Message: fmt.Sprintf(
			"program requires %d words of code and %d of data, exceeding the 100-word memory",
			codeSize, len(symbols))}
	}

	c.symbols = make(map[string]int, len(symbols))
	for i, name := range symbols {
		addr := codeSize + i
		c.symbols[name] = addr
		if v, ok := constantValue(name); ok {
			img[addr] = v
		}
	}

	for i, instr := range c.instructions {
		operand, err := c.resolve(instr)
		if err != nil {
			return img, err
		}
		img[i] = int(instr.op)*100 + operand
	}

	return img, nil
}

// emitCode walks the program's lines in ascending order, recording each
// line's starting address and appending its symbolic instructions.
func (c *Compiler) emitCode() error {
	for _, line := range c.program.Order {
		c.lineToAddress[line] = len(c.instructions)
		stmt := c.program.Lines[line]

		switch s := stmt.(type) {
		case ast.RemStatement:
			// no-op: a comment emits no instructions

		case ast.InputStatement:
			c.emit(Read, kindSymbol, s.Var, 0, 0)

		case ast.PrintStatement:
			c.emit(Write, kindSymbol, s.Var, 0, 0)

		case ast.EndStatement:
			c.emit(Halt, kindImmediate, "", 0, 0)

		case ast.GotoStatement:
			c.emit(Branch, kindLine, "", s.Target, 0)

		case ast.LetStatement:
			if err := c.emitLet(s); err != nil {
				return err
			}

		case ast.IfGotoStatement:
			if err := c.emitIfGoto(s); err != nil {
				return err
			}

		default:
			return &simerr.CompileError{Message: fmt.Sprintf("line %d: unknown statement type %T", line, stmt)}
		}
	}
	return nil
}

func (c *Compiler) emit(op Opcode, kind operandKind, symbol string, line int, immediate int) {
	c.instructions = append(c.instructions, symbolicInstr{op: op, kind: kind, symbol: symbol, line: line, immediate: immediate})
}

// emitLet lowers a LET statement: a leaf expression is LOAD e; STORE v, a
// binary expression is LOAD l; <OP> r; STORE v.
func (c *Compiler) emitLet(s ast.LetStatement) error {
	switch e := s.Expr.(type) {
	case ast.Number:
		c.emit(Load, kindSymbol, constName(e.Value), 0, 0)
	case ast.Variable:
		c.emit(Load, kindSymbol, e.Name, 0, 0)
	case ast.BinaryOp:
		if e.Op == "%" {
			return &simerr.CompileError{Message: fmt.Sprintf(
				"line %d: '%%' cannot be compiled to SML (no DIVIDE/MULTIPLY lowering exists); use the tree interpreter for programs needing modulo", s.Line)}
		}
		op, err := arithOpcode(s.Line, e.Op)
		if err != nil {
			return err
		}
		if err := c.emitOperand(s.Line, e.Left); err != nil {
			return err
		}
		rightSym, err := leafSymbol(s.Line, e.Right)
		if err != nil {
			return err
		}
		c.emit(op, kindSymbol, rightSym, 0, 0)
	default:
		return &simerr.CompileError{Message: fmt.Sprintf("line %d: unsupported LET expression %T", s.Line, e)}
	}
	c.emit(Store, kindSymbol, s.Var, 0, 0)
	return nil
}

// emitOperand emits a LOAD of a leaf expression (Number or Variable).
func (c *Compiler) emitOperand(line int, e ast.Expr) error {
	sym, err := leafSymbol(line, e)
	if err != nil {
		return err
	}
	c.emit(Load, kindSymbol, sym, 0, 0)
	return nil
}

// leafSymbol returns the symbol name a leaf expression (Number or
// Variable) resolves to. Only leaves are valid as the operands of a LET's
// BinaryOp or an IF-GOTO's comparison; a nested BinaryOp is syntactically
// legal (the same parseExpr backs both LET and IF operands) but cannot be
// lowered to a single LOAD/SUBTRACT, so it is rejected here with a named
// CompileError instead of silently resolving to an empty symbol.
func leafSymbol(line int, e ast.Expr) (string, error) {
	switch n := e.(type) {
	case ast.Number:
		return constName(n.Value), nil
	case ast.Variable:
		return n.Name, nil
	default:
		return "", &simerr.CompileError{Message: fmt.Sprintf(
			"line %d: %T cannot be compiled to SML (IF/LET operands must be a single variable or literal, not a nested expression)", line, e)}
	}
}

func arithOpcode(line int, op string) (Opcode, error) {
	switch op {
	case "+":
		return Add, nil
	case "-":
		return Subtract, nil
	case "*":
		return Multiply, nil
	case "/":
		return Divide, nil
	default:
		return 0, &simerr.CompileError{Message: fmt.Sprintf("line %d: unsupported operator %q", line, op)}
	}
}

// emitIfGoto lowers an IF-GOTO statement's relational test via the
// relational-expansion table. '!=', '>=', and '<=' need a
// synthetic fall-through target: the address immediately past the final
// BRANCH, which is known before either branch is appended since code
// emission is purely sequential.
func (c *Compiler) emitIfGoto(s ast.IfGotoStatement) error {
	switch s.Op {
	case "==":
		if err := c.emitOperand(s.Line, s.Left); err != nil {
			return err
		}
		rightSym, err := leafSymbol(s.Line, s.Right)
		if err != nil {
			return err
		}
		c.emit(Subtract, kindSymbol, rightSym, 0, 0)
		c.emit(BranchZero, kindLine, "", s.Target, 0)
	case "<":
		if err := c.emitOperand(s.Line, s.Left); err != nil {
			return err
		}
		rightSym, err := leafSymbol(s.Line, s.Right)
		if err != nil {
			return err
		}
		c.emit(Subtract, kindSymbol, rightSym, 0, 0)
		c.emit(BranchNeg, kindLine, "", s.Target, 0)
	case ">":
		if err := c.emitOperand(s.Line, s.Right); err != nil {
			return err
		}
		leftSym, err := leafSymbol(s.Line, s.Left)
		if err != nil {
			return err
		}
		c.emit(Subtract, kindSymbol, leftSym, 0, 0)
		c.emit(BranchNeg, kindLine, "", s.Target, 0)
	case "!=":
		if err := c.emitOperand(s.Line, s.Left); err != nil {
			return err
		}
		rightSym, err := leafSymbol(s.Line, s.Right)
		if err != nil {
			return err
		}
		c.emit(Subtract, kindSymbol, rightSym, 0, 0)
		fall := len(c.instructions) + 2
		c.emit(BranchZero, kindImmediate, "", 0, fall)
		c.emit(Branch, kindLine, "", s.Target, 0)
	case ">=":
		if err := c.emitOperand(s.Line, s.Left); err != nil {
			return err
		}
		rightSym, err := leafSymbol(s.Line, s.Right)
		if err != nil {
			return err
		}
		c.emit(Subtract, kindSymbol, rightSym, 0, 0)
		fall := len(c.instructions) + 2
		c.emit(BranchNeg, kindImmediate, "", 0, fall)
		c.emit(Branch, kindLine, "", s.Target, 0)
	case "<=":
		if err := c.emitOperand(s.Line, s.Right); err != nil {
			return err
		}
		leftSym, err := leafSymbol(s.Line, s.Left)
		if err != nil {
			return err
		}
		c.emit(Subtract, kindSymbol, leftSym, 0, 0)
		fall := len(c.instructions) + 2
		c.emit(BranchNeg, kindImmediate, "", 0, fall)
		c.emit(Branch, kindLine, "", s.Target, 0)
	default:
		return &simerr.CompileError{Message: fmt.Sprintf("line %d: unsupported relational operator %q", s.Line, s.Op)}
	}
	return nil
}

// discoverSymbols collects every distinct symbol referenced by the
// emitted symbolic instructions — variable names and synthetic constant
// tags alike — and returns them sorted by name, so the compiled image is
// a deterministic, pure function of the source. The Number(0) introduced
// by unary-minus desugaring needs no special case: it reaches this pass
// as an ordinary Load/constant reference, exactly like any other literal.
func (c *Compiler) discoverSymbols() []string {
	seen := make(map[string]bool)
	for _, instr := range c.instructions {
		if instr.kind == kindSymbol && instr.symbol != "" {
			seen[instr.symbol] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolve computes the final 0..99 operand for one symbolic instruction.
func (c *Compiler) resolve(instr symbolicInstr) (int, error) {
	switch instr.kind {
	case kindImmediate:
		return instr.immediate, nil
	case kindSymbol:
		addr, ok := c.symbols[instr.symbol]
		if !ok {
			return 0, &simerr.CompileError{Message: fmt.Sprintf("internal error: undiscovered symbol %q", instr.symbol)}
		}
		return addr, nil
	case kindLine:
		addr, ok := c.lineToAddress[instr.line]
		if !ok {
			return 0, &simerr.CompileError{Message: fmt.Sprintf("branch target line %d does not exist", instr.line)}
		}
		return addr, nil
	default:
		return 0, &simerr.CompileError{Message: "internal error: unknown operand kind"}
	}
}

// constName derives the synthetic constant symbol for a numeric literal.
func constName(value int) string {
	return fmt.Sprintf("__const_%d", value)
}

// constantValue reports the literal value a constName encodes, if name is
// one.
func constantValue(name string) (int, bool) {
	var v int
	n, err := fmt.Sscanf(name, "__const_%d", &v)
	if err != nil || n != 1 {
		return 0, false
	}
	return v, true
}
