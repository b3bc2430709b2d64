package checker

import "github.com/orus-lang/orus/internal/pipeline"

// Processor is the pipeline stage wrapping New/Check.
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	ch := New(ctx.FilePath, ctx.Globals, ctx.Registry)
	ch.Check(ctx.AstRoot)
	ctx.Errors = append(ctx.Errors, ch.Errors...)
	return ctx
}
