package pipeline

import (
	"testing"

	"github.com/funvibe/loxy/internal/diagnostics"
	"github.com/funvibe/loxy/internal/token"
)

func TestPipelineRunsEveryStage(t *testing.T) {
	var order []string
	stage := func(name string, fail bool) Processor {
		return ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
			order = append(order, name)
			if fail {
				ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrL002, token.Token{}))
			}
			return ctx
		})
	}

	ctx := New(stage("lex", true), stage("parse", false)).Run(NewPipelineContext("x"))

	if len(order) != 2 || order[0] != "lex" || order[1] != "parse" {
		t.Fatalf("stages ran as %v", order)
	}
	if !ctx.Failed() {
		t.Error("expected context to report failure")
	}
	if ctx.Program() != nil {
		t.Error("expected no program")
	}
}
