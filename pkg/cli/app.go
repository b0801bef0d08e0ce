package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/funvibe/loxy/internal/backend"
	"github.com/funvibe/loxy/internal/config"
	"github.com/funvibe/loxy/internal/diagnostics"
	"github.com/funvibe/loxy/internal/evaluator"
	"github.com/funvibe/loxy/internal/sink"
)

// app holds what every subcommand needs: resolved configuration and the
// process streams.
type app struct {
	cfg    *config.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	color  bool
}

// openSink returns the sink for printed lines: stdout, plus the SQLite
// transcript when one is configured. The returned func releases it.
func (a *app) openSink() (evaluator.Sink, func(), error) {
	out := evaluator.Sink(sink.NewWriter(a.stdout))
	if a.cfg.Transcript == "" {
		return out, func() {}, nil
	}

	t, err := sink.OpenTranscript(a.cfg.Transcript)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := t.Close(); err != nil {
			a.errorf("%v", err)
		}
	}
	return sink.Multi(out, t), release, nil
}

func (a *app) newBackend(ctx context.Context) (*backend.TreeWalkBackend, func(), error) {
	out, release, err := a.openSink()
	if err != nil {
		return nil, nil, err
	}
	eval := evaluator.New()
	eval.Out = out
	eval.MaxDepth = a.cfg.MaxDepth
	eval.Context = ctx
	return backend.NewTreeWalk(eval), release, nil
}

func (a *app) runFile(ctx context.Context, path string) int {
	if !config.IsSourceFile(path) {
		a.errorf("%s: not a source file (expected %s)", path, strings.Join(config.SourceFileExtensions, " or "))
		return 1
	}
	source, err := os.ReadFile(path)
	if err != nil {
		a.errorf("%v", err)
		return 1
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return a.runSource(ctx, string(source), path)
}

func (a *app) runSource(ctx context.Context, source, file string) int {
	b, release, err := a.newBackend(ctx)
	if err != nil {
		a.errorf("%v", err)
		return 1
	}
	defer release()

	result := backend.RunSource(b, source, file)
	if result.Failed() {
		a.report(result.Errors)
		return 1
	}
	return 0
}

// report prints diagnostics to stderr, one per line.
func (a *app) report(errs []*diagnostics.DiagnosticError) {
	for _, err := range errs {
		fmt.Fprintln(a.stderr, a.paint(colorRed, err.Error()))
	}
}

func (a *app) errorf(format string, args ...interface{}) {
	fmt.Fprintln(a.stderr, a.paint(colorRed, "loxy: "+fmt.Sprintf(format, args...)))
}
