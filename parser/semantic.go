/*
File    : simplesml/parser/semantic.go

SemanticAnalyzer performs the single cross-line validation pass a Program
needs before it can run: every GOTO/IF-GOTO target must name a defined
line.
*/
package parser

import (
	"github.com/akashmaji946/simplesml/ast"
	"github.com/akashmaji946/simplesml/simerr"
)

// SemanticAnalyzer walks a fully parsed Program once, collecting every
// undefined branch target before reporting, rather than failing on the
// first one found.
type SemanticAnalyzer struct {
	program *ast.Program
}

// NewSemanticAnalyzer wraps a parsed Program for analysis.
func NewSemanticAnalyzer(p *ast.Program) *SemanticAnalyzer {
	return &SemanticAnalyzer{program: p}
}

// Analyze reports a *simerr.SemanticError naming every GOTO/IF target that
// is not a defined line number, or nil if the program is well-formed.
func (a *SemanticAnalyzer) Analyze() error {
	var targets []simerr.TargetError
	for _, line := range a.program.Order {
		switch stmt := a.program.Lines[line].(type) {
		case ast.GotoStatement:
			if !a.program.Has(stmt.Target) {
				targets = append(targets, simerr.TargetError{Line: line, Target: stmt.Target})
			}
		case ast.IfGotoStatement:
			if !a.program.Has(stmt.Target) {
				targets = append(targets, simerr.TargetError{Line: line, Target: stmt.Target})
			}
		}
	}
	if len(targets) > 0 {
		return &simerr.SemanticError{Targets: targets}
	}
	return nil
}
