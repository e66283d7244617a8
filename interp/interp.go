/*
File    : simplesml/interp/interp.go

Package interp implements the tree-walking interpreter for a parsed Simple
program. It is the direct-execution counterpart to the sml/vm
compile-and-run pipeline: both share the same ast.Program and ioline.Source
contract, so a caller can run a program either way without touching the
front end.
*/
package interp

import (
	"context"
	"fmt"
	"io"

	"github.com/akashmaji946/simplesml/ast"
	"github.com/akashmaji946/simplesml/ioline"
	"github.com/akashmaji946/simplesml/simerr"
	"github.com/akashmaji946/simplesml/store"
)

// Interpreter holds the state for evaluating a Simple program's statement
// tree: the program itself, a flat variable store, and a program counter
// tracking which line number executes next.
type Interpreter struct {
	program *ast.Program
	vars    *store.Store
	pc      int // the line number about to execute; 0 once halted
}

// New creates an Interpreter positioned at the program's first line.
func New(p *ast.Program) *Interpreter {
	pc := 0
	if len(p.Order) > 0 {
		pc = p.Order[0]
	}
	return &Interpreter{program: p, vars: store.New(), pc: pc}
}

// Vars exposes the interpreter's variable store for introspection (the
// ":mem" REPL command).
func (i *Interpreter) Vars() *store.Store {
	return i.vars
}

// Run executes the program to completion: a fall-through past the last
// line or an explicit END statement, whichever comes first. INPUT reads
// from in; PRINT writes to out. Any runtime fault stops execution and is
// returned as a *simerr.RuntimeError.
func (i *Interpreter) Run(ctx context.Context, in ioline.Source, out io.Writer) error {
	for i.pc != 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		stmt, ok := i.program.Lines[i.pc]
		if !ok {
			return &simerr.RuntimeError{Line: i.pc, Message: "no statement at this line"}
		}

		next, err := i.step(ctx, stmt, in, out)
		if err != nil {
			return err
		}
		i.pc = next
	}
	return nil
}

// step executes one statement and returns the next line number to run, or
// 0 to halt.
func (i *Interpreter) step(ctx context.Context, stmt ast.Stmt, in ioline.Source, out io.Writer) (int, error) {
	switch s := stmt.(type) {
	case ast.RemStatement:
		return i.lineAfter(s.Line), nil

	case ast.InputStatement:
		v, err := in.Next(ctx)
		if err != nil {
			return 0, &simerr.RuntimeError{Line: s.Line, Message: fmt.Sprintf("reading input: %s", err)}
		}
		i.vars.Set(s.Var, v)
		return i.lineAfter(s.Line), nil

	case ast.PrintStatement:
		fmt.Fprintln(out, i.vars.Get(s.Var))
		return i.lineAfter(s.Line), nil

	case ast.LetStatement:
		v, err := i.eval(s.Line, s.Expr)
		if err != nil {
			return 0, err
		}
		i.vars.Set(s.Var, v)
		return i.lineAfter(s.Line), nil

	case ast.GotoStatement:
		if !i.program.Has(s.Target) {
			return 0, &simerr.RuntimeError{Line: s.Line, Message: fmt.Sprintf("goto target %d does not exist", s.Target)}
		}
		return s.Target, nil

	case ast.IfGotoStatement:
		left, err := i.eval(s.Line, s.Left)
		if err != nil {
			return 0, err
		}
		right, err := i.eval(s.Line, s.Right)
		if err != nil {
			return 0, err
		}
		if compare(left, s.Op, right) {
			if !i.program.Has(s.Target) {
				return 0, &simerr.RuntimeError{Line: s.Line, Message: fmt.Sprintf("goto target %d does not exist", s.Target)}
			}
			return s.Target, nil
		}
		return i.lineAfter(s.Line), nil

	case ast.EndStatement:
		return 0, nil

	default:
		return 0, &simerr.RuntimeError{Line: stmt.LineNumber(), Message: fmt.Sprintf("unknown statement type %T", stmt)}
	}
}

// lineAfter returns the line number immediately following line in program
// order, or 0 (halt) if line was the last one — falling off the end of the
// program is equivalent to reaching END.
func (i *Interpreter) lineAfter(line int) int {
	for idx, n := range i.program.Order {
		if n == line && idx+1 < len(i.program.Order) {
			return i.program.Order[idx+1]
		}
	}
	return 0
}

// eval evaluates an expression against the current variable store.
func (i *Interpreter) eval(line int, e ast.Expr) (int, error) {
	switch n := e.(type) {
	case ast.Number:
		return n.Value, nil
	case ast.Variable:
		return i.vars.Get(n.Name), nil
	case ast.BinaryOp:
		left, err := i.eval(line, n.Left)
		if err != nil {
			return 0, err
		}
		right, err := i.eval(line, n.Right)
		if err != nil {
			return 0, err
		}
		return applyArith(line, n.Op, left, right)
	default:
		return 0, &simerr.RuntimeError{Line: line, Message: fmt.Sprintf("unknown expression type %T", e)}
	}
}

// applyArith evaluates one binary arithmetic operator. Division and modulo
// floor toward negative infinity, matching Go's / and % only for operands
// of the same sign; both are adjusted here to give true floor semantics.
func applyArith(line int, op string, left, right int) (int, error) {
	switch op {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, &simerr.RuntimeError{Line: line, Message: "division by zero"}
		}
		return floorDiv(left, right), nil
	case "%":
		if right == 0 {
			return 0, &simerr.RuntimeError{Line: line, Message: "modulo by zero"}
		}
		return floorMod(left, right), nil
	default:
		return 0, &simerr.RuntimeError{Line: line, Message: fmt.Sprintf("unknown operator %q", op)}
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// compare evaluates one relational operator.
func compare(left int, op string, right int) bool {
	switch op {
	case "==":
		return left == right
	case "!=":
		return left != right
	case "<":
		return left < right
	case "<=":
		return left <= right
	case ">":
		return left > right
	case ">=":
		return left >= right
	}
	return false
}
