package backend

import (
	"errors"

	"github.com/funvibe/loxy/internal/diagnostics"
	"github.com/funvibe/loxy/internal/evaluator"
	"github.com/funvibe/loxy/internal/pipeline"
	"github.com/funvibe/loxy/internal/token"
)

// ExecutionProcessor is the pipeline stage that runs a Backend
type ExecutionProcessor struct {
	Backend Backend
}

// NewExecutionProcessor creates a new pipeline step for the given backend
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't run execution
	if ctx.AstRoot == nil || len(ctx.Errors) > 0 {
		return ctx
	}

	if err := p.Backend.Run(ctx); err != nil {
		ctx.Errors = append(ctx.Errors, runtimeDiagnostic(ctx, err))
	}
	return ctx
}

// runtimeDiagnostic converts a backend failure to an R001 diagnostic that
// still unwraps to the original error.
func runtimeDiagnostic(ctx *pipeline.PipelineContext, err error) *diagnostics.DiagnosticError {
	var tok token.Token
	msg := err.Error()

	var rtErr *evaluator.Error
	if errors.As(err, &rtErr) {
		tok = token.Token{Line: rtErr.Line, Column: rtErr.Column}
		msg = rtErr.Message
		if len(rtErr.StackTrace) > 0 {
			msg += "\nStack trace:\n" + evaluator.FormatStackTrace(rtErr.StackTrace)
		}
	}

	diag := diagnostics.NewError(diagnostics.ErrR001, tok, msg)
	diag.File = ctx.FilePath
	diag.Cause = err
	return diag
}
