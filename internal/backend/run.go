package backend

import (
	"github.com/funvibe/loxy/internal/lexer"
	"github.com/funvibe/loxy/internal/parser"
	"github.com/funvibe/loxy/internal/pipeline"
)

// RunSource lexes, parses and executes source on b. All failures end up in
// the returned context's Errors.
func RunSource(b Backend, source, file string) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = file
	return pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		NewExecutionProcessor(b),
	).Run(ctx)
}
