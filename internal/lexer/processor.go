package lexer

import (
	"github.com/funvibe/loxy/internal/diagnostics"
	"github.com/funvibe/loxy/internal/pipeline"
	"github.com/funvibe/loxy/internal/token"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.SourceCode)
	ctx.TokenStream = l.Tokenize()
	ctx.Comments = l.Comments()

	for _, tok := range ctx.TokenStream {
		if tok.Type != token.ILLEGAL {
			continue
		}
		var err *diagnostics.DiagnosticError
		if msg, _ := tok.Literal.(string); msg == errUnterminatedString {
			err = diagnostics.NewError(diagnostics.ErrL002, tok)
		} else {
			err = diagnostics.NewError(diagnostics.ErrL001, tok, tok.Lexeme)
		}
		err.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, err)
	}

	return ctx
}
