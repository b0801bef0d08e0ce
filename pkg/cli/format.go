package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/funvibe/loxy/internal/lexer"
	"github.com/funvibe/loxy/internal/parser"
	"github.com/funvibe/loxy/internal/pipeline"
	"github.com/funvibe/loxy/internal/prettyprinter"
)

// format prints each file in canonical layout, or rewrites it with -w.
// Files with syntax errors are reported and left untouched.
func (a *app) format(args []string) int {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	write := fs.Bool("w", false, "write result to the source file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return usageStatus(err)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(a.stderr, "usage: loxy fmt [-w] FILE...")
		return 2
	}

	status := 0
	for _, path := range fs.Args() {
		source, err := os.ReadFile(path)
		if err != nil {
			a.errorf("%v", err)
			status = 1
			continue
		}

		ctx := pipeline.NewPipelineContext(string(source))
		ctx.FilePath = path
		ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
		if ctx.Failed() {
			a.report(ctx.Errors)
			status = 1
			continue
		}

		formatted := prettyprinter.Format(ctx.Program())
		if !*write {
			fmt.Fprint(a.stdout, formatted)
			continue
		}
		if formatted == string(source) {
			continue
		}
		if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
			a.errorf("%v", err)
			status = 1
		}
	}
	return status
}
