package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorReset = "\x1b[0m"
	colorRed   = "\x1b[31m"
	colorCyan  = "\x1b[36m"
)

// colorEnabled reports whether w is a terminal that should get ANSI colours.
func colorEnabled(w io.Writer) bool {
	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal(w)
}

func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (a *app) paint(color, s string) string {
	if !a.color {
		return s
	}
	return color + s + colorReset
}
