package parser

import "github.com/orus-lang/orus/internal/pipeline"

// Processor is the pipeline stage wrapping New/ParseProgram (teacher
// pattern: internal/parser.ParserProcessor{}.Process(ctx)).
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	p := New(ctx.TokenStream)
	ctx.AstRoot = p.ParseProgram()
	ctx.Errors = append(ctx.Errors, p.Errors...)
	return ctx
}
