package parser

import (
	"github.com/funvibe/loxy/internal/diagnostics"
	"github.com/funvibe/loxy/internal/pipeline"
	"github.com/funvibe/loxy/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		// This case should ideally not be hit if lexer runs first, but as a safeguard:
		err := diagnostics.NewError(diagnostics.ErrP005, token.Token{}, "token stream", "nothing")
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	// Lexer errors already make the program unusable; parsing would only
	// add noise about ILLEGAL tokens.
	if ctx.Failed() {
		return ctx
	}

	parser := New(ctx.TokenStream, ctx)
	ctx.AstRoot = parser.ParseProgram()

	// Ensure all errors have file path set
	for _, err := range ctx.Errors {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}

	return ctx
}
