package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseConfig_Full(t *testing.T) {
	yaml := `
max_depth: 500
transcript: out.db
serve:
  addr: "127.0.0.1:9000"
  session_ttl: 5m
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxDepth != 500 {
		t.Errorf("max_depth = %d, want 500", cfg.MaxDepth)
	}
	if cfg.Transcript != "out.db" {
		t.Errorf("transcript = %q, want out.db", cfg.Transcript)
	}
	if cfg.Serve.Addr != "127.0.0.1:9000" {
		t.Errorf("serve.addr = %q", cfg.Serve.Addr)
	}
	if cfg.Serve.SessionTTL != 5*time.Minute {
		t.Errorf("serve.session_ttl = %s, want 5m", cfg.Serve.SessionTTL)
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("{}"), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxDepth != DefaultMaxDepth {
		t.Errorf("max_depth = %d, want %d", cfg.MaxDepth, DefaultMaxDepth)
	}
	if cfg.Serve.Addr != DefaultServeAddr {
		t.Errorf("serve.addr = %q, want %q", cfg.Serve.Addr, DefaultServeAddr)
	}
	if cfg.Serve.SessionTTL != DefaultSessionTTL {
		t.Errorf("serve.session_ttl = %s, want %s", cfg.Serve.SessionTTL, DefaultSessionTTL)
	}
	if *Default() != *cfg {
		t.Errorf("Default() = %+v, want %+v", *Default(), *cfg)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"negative_depth", "max_depth: -1", "max_depth"},
		{"negative_ttl", "serve:\n  session_ttl: -1m", "session_ttl"},
		{"bad_addr", "serve:\n  addr: localhost", "serve.addr"},
		{"bad_duration", "serve:\n  session_ttl: soon", "parsing"},
		{"not_yaml", "max_depth: [", "parsing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml), "test.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfig_ResolvesTranscript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte("transcript: logs/run.db\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(dir, "logs", "run.db"); cfg.Transcript != want {
		t.Errorf("transcript = %q, want %q", cfg.Transcript, want)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading config") {
		t.Errorf("expected reading error, got %v", err)
	}
}

func TestFindConfig_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, ConfigFileName)
	if err := os.WriteFile(want, []byte("max_depth: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// TempDir may sit behind a symlink; compare resolved paths.
	gotReal, _ := filepath.EvalSymlinks(got)
	wantReal, _ := filepath.EvalSymlinks(want)
	if gotReal != wantReal {
		t.Errorf("FindConfig = %q, want %q", got, want)
	}
}

func TestResolve_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("max_depth: 42\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Resolve(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxDepth != 42 {
		t.Errorf("max_depth = %d, want 42", cfg.MaxDepth)
	}
}

func TestIsSourceFile(t *testing.T) {
	for path, want := range map[string]bool{
		"a.lx":       true,
		"dir/b.loxy": true,
		"c.go":       false,
		"noext":      false,
	} {
		if got := IsSourceFile(path); got != want {
			t.Errorf("IsSourceFile(%q) = %v, want %v", path, got, want)
		}
	}
}
