package backend

import (
	"fmt"

	"github.com/funvibe/loxy/internal/evaluator"
	"github.com/funvibe/loxy/internal/pipeline"
)

// TreeWalkBackend runs programs on the tree-walking evaluator. It keeps one
// evaluator and one global environment, so successive runs share globals.
type TreeWalkBackend struct {
	Evaluator *evaluator.Evaluator
	Env       *evaluator.Environment
}

// NewTreeWalk creates a backend with a fresh global environment.
func NewTreeWalk(eval *evaluator.Evaluator) *TreeWalkBackend {
	if eval == nil {
		eval = evaluator.New()
	}
	return &TreeWalkBackend{
		Evaluator: eval,
		Env:       evaluator.NewGlobalEnvironment(),
	}
}

// Run executes the program using tree-walk interpretation. Runtime failures
// are returned as *evaluator.Error.
func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) error {
	program := ctx.Program()
	if program == nil {
		return fmt.Errorf("no AST to execute")
	}
	if len(ctx.Errors) > 0 {
		return ctx.Errors[0]
	}

	if ctx.FilePath != "" {
		b.Evaluator.CurrentFile = ctx.FilePath
	} else {
		b.Evaluator.CurrentFile = "<stdin>"
	}
	return b.Evaluator.Run(program, b.Env)
}

// Name returns the backend name
func (b *TreeWalkBackend) Name() string {
	return "tree-walk"
}
