package lexer

import "github.com/orus-lang/orus/internal/pipeline"

// Processor is the pipeline stage wrapping New/ScanAll (teacher
// pattern: internal/lexer.LexerProcessor{}.Process(ctx)).
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	ctx.TokenStream = New(ctx.Source).ScanAll()
	return ctx
}
