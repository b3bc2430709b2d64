// Package checker implements the single bottom-up type-checking pass
// of spec §4.1: it walks a parsed *ast.Program, resolves every
// identifier against a shared symbol table, assigns a typesystem.Type
// to every expression node, and folds type-safe literal conversions in
// place. It produces either a fully annotated tree or a set of
// diagnostics; never both silently mixed, per §4.1 "a node that fails
// to check still gets a placeholder type so later sibling checks don't
// cascade spurious errors".
//
// Modeled on the teacher's internal/analyzer package (one Analyzer
// struct closing over a symbol table and an error slice, a type-switch
// per AST node rather than the Visitor interface ast.Node nominally
// offers) but checking Orus's closed monomorphic type system instead
// of the teacher's Hindley-Milner inference.
package checker

import (
	"fmt"

	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/diagnostics"
	"github.com/orus-lang/orus/internal/symbols"
	"github.com/orus-lang/orus/internal/typesystem"
)

// ModuleExports is the subset of a checked module's global table a
// `use` statement's alias needs to resolve field accesses against
// (§4.1 "Field access... on a module-alias receiver is rewritten into
// a variable node" referencing the exporting module's own global
// slot).
type ModuleExports struct {
	Globals *symbols.GlobalTable
}

// Checker holds the state threaded through one compilation unit's type
// check. A fresh Checker is created per file/module rather than reused,
// so multiple modules can be checked independently and then linked by
// the loader (design note 9: avoid implicit singletons).
type Checker struct {
	File     string
	Symbols  *symbols.Table
	Globals  *symbols.GlobalTable
	Registry *typesystem.Registry

	// Modules maps a `use` alias's canonical path to the exports of an
	// already-checked module, populated by the loader before Check runs
	// on a unit that imports it.
	Modules map[string]*ModuleExports

	Errors []*diagnostics.Diagnostic

	funcReturn typesystem.Type
	inFunction bool
	loopDepth  int
}

// New creates a Checker sharing the given global slot table and struct
// and enum registry; both are process-wide per compilation context,
// not per-file, so every module in a program resolves the same globals
// and type descriptors.
func New(file string, globals *symbols.GlobalTable, registry *typesystem.Registry) *Checker {
	return &Checker{
		File:     file,
		Symbols:  symbols.New(),
		Globals:  globals,
		Registry: registry,
		Modules:  make(map[string]*ModuleExports),
	}
}

func (c *Checker) errAt(n ast.Node, code, format string, args ...interface{}) {
	c.Errors = append(c.Errors, diagnostics.NewError(code, n.GetToken(), fmt.Sprintf(format, args...)))
}

// Check type-checks an entire program in place and returns whether it
// is free of errors.
func (c *Checker) Check(prog *ast.Program) bool {
	c.declareTopLevel(prog)
	for i, stmt := range prog.Statements {
		prog.Statements[i] = c.checkStatement(stmt)
	}
	return len(c.Errors) == 0
}
