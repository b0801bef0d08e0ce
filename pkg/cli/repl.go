package cli

import (
	"bufio"
	"context"
	"fmt"

	"github.com/funvibe/loxy/internal/backend"
)

const (
	Prompt     = "> "
	replSource = "<repl>"
)

// repl reads one line at a time and runs it against a single global
// environment, so functions declared on one line can be called on the next.
// Errors are reported and the session continues.
func (a *app) repl() int {
	b, release, err := a.newBackend(context.Background())
	if err != nil {
		a.errorf("%v", err)
		return 1
	}
	defer release()

	interactive := isTerminal(a.stdin)
	scanner := bufio.NewScanner(a.stdin)
	for {
		if interactive {
			fmt.Fprint(a.stdout, a.paint(colorCyan, Prompt))
		}
		if !scanner.Scan() {
			break
		}

		switch line := scanner.Text(); line {
		case "":
		case ":quit", ":q":
			return 0
		case ":env":
			for _, name := range b.Env.Names() {
				val, _ := b.Env.Get(name)
				fmt.Fprintf(a.stdout, "%s = %s\n", name, val.Inspect())
			}
		default:
			result := backend.RunSource(b, line, replSource)
			a.report(result.Errors)
		}
	}
	if err := scanner.Err(); err != nil {
		a.errorf("reading input: %v", err)
		return 1
	}
	return 0
}
