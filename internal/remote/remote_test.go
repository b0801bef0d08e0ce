package remote

import (
	"context"
	"io"
	"log"
	"net"
	"reflect"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func quietServer(t *testing.T, opts Options) *Server {
	t.Helper()
	opts.Logger = log.New(io.Discard, "", 0)
	srv, err := NewServer(opts)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

// startServer serves srv over an in-memory listener and returns a client.
func startServer(t *testing.T, srv *Server) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	srv.Register(gs)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	client, err := Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSchema(t *testing.T) {
	s, err := LoadSchema()
	if err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	if got := fullMethod(s.Run); got != "/loxy.v1.Interpreter/Run" {
		t.Errorf("run method = %q", got)
	}
	if got := fullMethod(s.Close); got != "/loxy.v1.Interpreter/CloseSession" {
		t.Errorf("close method = %q", got)
	}
	if _, err := parseSchema("syntax = \"proto3\"; package other;"); err == nil {
		t.Error("expected error for proto without the service")
	}
}

func TestSessionPersistsGlobals(t *testing.T) {
	client := startServer(t, quietServer(t, Options{}))
	ctx := context.Background()

	first, err := client.Run(ctx, &RunRequest{Source: `
fn makeCounter() {
  let i = 0;
  fn count() { i = i + 1; print i; }
  return count;
}
let counter = makeCounter();
counter();`})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if first.Failed() {
		t.Fatalf("first run failed: %s", first.Error)
	}
	if !reflect.DeepEqual(first.Lines, []string{"1"}) {
		t.Errorf("first lines = %q", first.Lines)
	}

	second, err := client.Run(ctx, &RunRequest{SessionID: first.SessionID, Source: "counter(); counter();"})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(second.Lines, []string{"2", "3"}) {
		t.Errorf("second lines = %q", second.Lines)
	}
	if second.SessionID != first.SessionID {
		t.Errorf("session changed: %s -> %s", first.SessionID, second.SessionID)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	client := startServer(t, quietServer(t, Options{}))
	ctx := context.Background()

	a, err := client.Run(ctx, &RunRequest{Source: "let x = 1;"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := client.Run(ctx, &RunRequest{Source: "print x;"})
	if err != nil {
		t.Fatal(err)
	}
	if a.SessionID == b.SessionID {
		t.Fatal("expected distinct sessions")
	}
	if b.ErrorKind != "UnboundVariable" {
		t.Errorf("error kind = %q (%s)", b.ErrorKind, b.Error)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		kind     string
		lines    []string
		contains string
	}{
		{"parse", "let = 1;", "P001", nil, "<remote>:1:5"},
		{"type", `print "a"; print "a" - 1;`, "TypeMismatch", []string{"a"}, "must be numbers"},
		{"arity", "fn f(a) {} f();", "ArityMismatch", nil, "expected 1 arguments but got 0"},
		{"not callable", "let x = 1; x();", "NotCallable", nil, "can only call functions"},
	}

	client := startServer(t, quietServer(t, Options{}))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Run(context.Background(), &RunRequest{Source: tt.source})
			if err != nil {
				t.Fatalf("rpc error: %v", err)
			}
			if resp.ErrorKind != tt.kind {
				t.Errorf("kind = %q, want %q (%s)", resp.ErrorKind, tt.kind, resp.Error)
			}
			if !strings.Contains(resp.Error, tt.contains) {
				t.Errorf("error %q does not contain %q", resp.Error, tt.contains)
			}
			if len(resp.Lines) != len(tt.lines) || (len(tt.lines) > 0 && !reflect.DeepEqual(resp.Lines, tt.lines)) {
				t.Errorf("lines = %q, want %q", resp.Lines, tt.lines)
			}
		})
	}
}

func TestUnknownSession(t *testing.T) {
	client := startServer(t, quietServer(t, Options{}))
	_, err := client.Run(context.Background(), &RunRequest{SessionID: "nope", Source: "print 1;"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestCloseSession(t *testing.T) {
	srv := quietServer(t, Options{})
	client := startServer(t, srv)
	ctx := context.Background()

	resp, err := client.Run(ctx, &RunRequest{Source: "let x = 1;"})
	if err != nil {
		t.Fatal(err)
	}
	closed, err := client.CloseSession(ctx, resp.SessionID)
	if err != nil || !closed {
		t.Fatalf("close = %v, %v", closed, err)
	}
	if srv.Sessions().Len() != 0 {
		t.Errorf("sessions left: %d", srv.Sessions().Len())
	}
	closed, err = client.CloseSession(ctx, resp.SessionID)
	if err != nil || closed {
		t.Errorf("second close = %v, %v", closed, err)
	}
}

func TestRunHonoursContext(t *testing.T) {
	srv := quietServer(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := srv.Run(ctx, &RunRequest{Source: "while (true) {}"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ErrorKind != "Cancelled" {
		t.Errorf("kind = %q (%s)", resp.ErrorKind, resp.Error)
	}

	// The session stays usable after a cancelled run.
	resp, err = srv.Run(context.Background(), &RunRequest{SessionID: resp.SessionID, Source: "print 1;"})
	if err != nil || resp.Failed() {
		t.Fatalf("follow-up run: %v %s", err, resp.Error)
	}
}

func TestRecursionLimitFromOptions(t *testing.T) {
	srv := quietServer(t, Options{MaxDepth: 50})
	resp, err := srv.Run(context.Background(), &RunRequest{Source: "fn f(n) { return f(n + 1); } f(0);"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ErrorKind != "RecursionLimit" {
		t.Errorf("kind = %q (%s)", resp.ErrorKind, resp.Error)
	}
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	store := NewSessionStore(time.Minute, 0)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	old := store.Create()
	now = now.Add(45 * time.Second)
	fresh := store.Create()
	now = now.Add(30 * time.Second)

	expired := store.Sweep()
	if !reflect.DeepEqual(expired, []string{old.ID}) {
		t.Fatalf("expired = %v, want [%s]", expired, old.ID)
	}
	if _, ok := store.Get(fresh.ID); !ok {
		t.Error("fresh session was dropped")
	}
	if _, ok := store.Get(old.ID); ok {
		t.Error("old session still present")
	}
}

func TestZeroTTLKeepsSessions(t *testing.T) {
	store := NewSessionStore(0, 0)
	store.Create()
	if got := store.Sweep(); got != nil {
		t.Errorf("Sweep = %v", got)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d", store.Len())
	}
}
