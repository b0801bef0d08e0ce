// Package cli implements the loxy command: running files and -e snippets,
// the REPL, the gRPC service and its client, and the formatter.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/funvibe/loxy/internal/config"
)

// Version is reported by -version.
var Version = "0.1.0"

// Run is the process entry point: it parses os.Args and exits.
func Run() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Main(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// Main runs the command line in args and returns the exit status: 0 on
// success, 1 when the program or command fails, 2 on usage errors.
func Main(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("loxy", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to "+config.ConfigFileName+" (default: search upward from the working directory)")
	transcript := fs.String("transcript", "", "record printed lines in this SQLite database")
	noColor := fs.Bool("no-color", false, "disable coloured output")
	showVersion := fs.Bool("version", false, "print the version and exit")
	code := fs.String("e", "", "evaluate `code` instead of a file")
	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *showVersion {
		fmt.Fprintln(stdout, "loxy "+Version)
		return 0
	}

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *transcript != "" {
		cfg.Transcript = *transcript
	}

	a := &app{
		cfg:    cfg,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		color:  !*noColor && colorEnabled(stderr),
	}

	rest := fs.Args()
	if len(rest) > 0 {
		switch rest[0] {
		case "serve":
			return a.serve(ctx, rest[1:])
		case "remote":
			return a.remote(ctx, rest[1:])
		case "fmt":
			return a.format(rest[1:])
		}
	}

	switch {
	case isFlagSet(fs, "e"):
		if len(rest) > 0 {
			fs.Usage()
			return 2
		}
		return a.runSource(ctx, *code, "<eval>")
	case len(rest) == 1:
		return a.runFile(ctx, rest[0])
	case len(rest) == 0:
		return a.repl()
	}
	fs.Usage()
	return 2
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, `Usage:
  loxy [flags] FILE                run a source file
  loxy [flags] -e CODE             evaluate code
  loxy [flags]                     start the REPL
  loxy [flags] serve [-addr ADDR]  serve the gRPC interpreter
  loxy [flags] remote [-addr ADDR] [-session ID] FILE | -e CODE
  loxy fmt [-w] FILE...            format source files

Flags:`)
	fs.PrintDefaults()
}
