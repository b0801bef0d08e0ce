// Package backend provides an interface for execution backends and the
// pipeline stage that runs one.
package backend

import (
	"github.com/funvibe/loxy/internal/pipeline"
)

// Backend is the interface for execution backends
type Backend interface {
	// Run executes the parsed program held by ctx.
	Run(ctx *pipeline.PipelineContext) error

	// Name returns the backend name for display
	Name() string
}
