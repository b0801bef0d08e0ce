package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/funvibe/loxy/internal/remote"
)

func (a *app) serve(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	addr := fs.String("addr", a.cfg.Serve.Addr, "listen address")
	ttl := fs.Duration("session-ttl", a.cfg.Serve.SessionTTL, "drop sessions idle for this long (0 keeps them)")
	if err := fs.Parse(args); err != nil {
		return usageStatus(err)
	}

	srv, err := remote.NewServer(remote.Options{
		SessionTTL: *ttl,
		MaxDepth:   a.cfg.MaxDepth,
		Logger:     log.New(a.stderr, "", log.Flags()),
	})
	if err != nil {
		a.errorf("%v", err)
		return 1
	}
	if err := srv.ListenAndServe(ctx, *addr); err != nil {
		a.errorf("%v", err)
		return 1
	}
	return 0
}

func (a *app) remote(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("remote", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	addr := fs.String("addr", dialAddr(a.cfg.Serve.Addr), "service address")
	session := fs.String("session", "", "continue this session instead of starting one")
	closeAfter := fs.Bool("close", false, "close the session after the run")
	code := fs.String("e", "", "evaluate `code` instead of a file")
	if err := fs.Parse(args); err != nil {
		return usageStatus(err)
	}

	var source string
	switch {
	case isFlagSet(fs, "e") && fs.NArg() == 0:
		source = *code
	case !isFlagSet(fs, "e") && fs.NArg() == 1:
		data, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			a.errorf("%v", err)
			return 1
		}
		source = string(data)
	default:
		fmt.Fprintln(a.stderr, "usage: loxy remote [-addr ADDR] [-session ID] [-close] FILE | -e CODE")
		return 2
	}

	out, release, err := a.openSink()
	if err != nil {
		a.errorf("%v", err)
		return 1
	}
	defer release()

	client, err := remote.Dial(*addr)
	if err != nil {
		a.errorf("%v", err)
		return 1
	}
	defer client.Close()

	resp, err := client.Run(ctx, &remote.RunRequest{SessionID: *session, Source: source})
	if err != nil {
		a.errorf("%v", err)
		return 1
	}
	for _, line := range resp.Lines {
		if err := out.WriteLine(line); err != nil {
			a.errorf("%v", err)
			return 1
		}
	}
	if *session == "" && !*closeAfter {
		fmt.Fprintf(a.stderr, "session %s\n", resp.SessionID)
	}
	if *closeAfter {
		if _, err := client.CloseSession(ctx, resp.SessionID); err != nil {
			a.errorf("%v", err)
			return 1
		}
	}

	if resp.Failed() {
		for _, line := range strings.Split(resp.Error, "\n") {
			fmt.Fprintln(a.stderr, a.paint(colorRed, line))
		}
		return 1
	}
	return 0
}

// dialAddr turns a listen address like ":7878" into one a client can dial.
func dialAddr(listen string) string {
	if strings.HasPrefix(listen, ":") {
		return "localhost" + listen
	}
	return listen
}

func usageStatus(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 2
}
