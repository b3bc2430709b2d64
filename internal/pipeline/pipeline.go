// Package pipeline threads a single compilation unit through the
// lexer -> parser -> checker -> emitter stages, collecting diagnostics
// from every stage instead of bailing out on the first one.
package pipeline

import (
	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/diagnostics"
	"github.com/orus-lang/orus/internal/symbols"
	"github.com/orus-lang/orus/internal/token"
	"github.com/orus-lang/orus/internal/typesystem"
)

// Context carries a compilation unit's state between pipeline stages.
// Globals and Registry are shared by pointer across every module in a
// program (design note 9: one process-wide slot table and struct/enum
// registry per run, not a package-level singleton), so the checker
// stage expects the caller to have populated them before Run.
type Context struct {
	Source      string
	FilePath    string
	TokenStream []token.Token
	AstRoot     *ast.Program
	Errors      []*diagnostics.Diagnostic

	Globals  *symbols.GlobalTable
	Registry *typesystem.Registry
}

// NewContext creates a fresh pipeline context for source text, with a
// fresh global slot table and type registry.
func NewContext(source, filePath string) *Context {
	return &Context{
		Source:   source,
		FilePath: filePath,
		Globals:  symbols.NewGlobalTable(),
		Registry: typesystem.NewRegistry(),
	}
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline runs a sequence of processors in order.
type Pipeline struct {
	stages []Processor
}

// New builds a pipeline from stages.
func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes every stage, continuing even if a stage reports errors so
// later stages (and callers) see the full diagnostic set.
func (p *Pipeline) Run(ctx *Context) *Context {
	for _, stage := range p.stages {
		ctx = stage.Process(ctx)
	}
	return ctx
}
