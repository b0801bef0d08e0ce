package loxy_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	loxy "github.com/funvibe/loxy/pkg/embed"
)

func TestEvalKeepsGlobals(t *testing.T) {
	vm := loxy.New()

	lines, err := vm.Eval(`
fn makeCounter() {
  let i = 0;
  fn count() { i = i + 1; return i; }
  return count;
}
let counter = makeCounter();
print counter();`)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"1"}) {
		t.Fatalf("lines = %q", lines)
	}

	lines, err = vm.Eval("print counter(); print counter();")
	if err != nil {
		t.Fatalf("second Eval failed: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"2", "3"}) {
		t.Errorf("lines = %q", lines)
	}
}

func TestSetAndGet(t *testing.T) {
	vm := loxy.New()

	for name, val := range map[string]interface{}{
		"n":    21,
		"f":    1.5,
		"ok":   true,
		"name": "loxy",
		"none": nil,
	} {
		if err := vm.Set(name, val); err != nil {
			t.Fatalf("Set(%s): %v", name, err)
		}
	}

	lines, err := vm.Eval(`print n * 2; print f; print ok; print name + "!"; print none;`)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	want := []string{"42", "1.5", "true", "loxy!", "nil"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}

	if _, err := vm.Eval(`let total = n + f; let greeting = "hi " + name;`); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		want interface{}
	}{
		{"total", 22.5},
		{"greeting", "hi loxy"},
		{"ok", true},
		{"none", nil},
	}
	for _, tt := range tests {
		got, err := vm.Get(tt.name)
		if err != nil {
			t.Errorf("Get(%s): %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Get(%s) = %#v, want %#v", tt.name, got, tt.want)
		}
	}

	if _, err := vm.Get("missing"); !errors.Is(err, loxy.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetUnsupportedType(t *testing.T) {
	vm := loxy.New()
	if err := vm.Set("xs", []int{1, 2}); err == nil {
		t.Error("expected error for slice value")
	}
	if err := vm.Set("pair", func() (int, int) { return 1, 2 }); err == nil {
		t.Error("expected error for two non-error results")
	}
}

func TestGoFunctions(t *testing.T) {
	vm := loxy.New()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(vm.Set("double", func(x int) int { return x * 2 }))
	must(vm.Set("join", func(sep string, parts ...string) string { return strings.Join(parts, sep) }))
	must(vm.Set("half", func(x float64) (float64, error) {
		if x < 0 {
			return 0, fmt.Errorf("negative input")
		}
		return x / 2, nil
	}))

	must(vm.Set("take8", func(n uint8) uint8 { return n }))
	must(vm.Set("takeU", func(n uint) uint { return n }))
	must(vm.Set("take32", func(n int32) int32 { return n }))

	lines, err := vm.Eval(`print double(21); print join("-", "a", "b", "c"); print half(5); print double;`)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	want := []string{"42", "a-b-c", "2.5", "<native fn double>"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}

	lines, err = vm.Eval(`print take8(255); print takeU(0); print take32(-2147483648);`)
	if err != nil {
		t.Fatalf("in-range integers: %v", err)
	}
	want = []string{"255", "0", "-2147483648"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}

	tests := []struct {
		code string
		kind error
	}{
		{"double(1.5);", loxy.ErrTypeMismatch},
		{`double("x");`, loxy.ErrTypeMismatch},
		{"double(1, 2);", loxy.ErrArityMismatch},
		{"join();", loxy.ErrArityMismatch},
		{"half(-1);", loxy.ErrHost},
		{"take8(300);", loxy.ErrTypeMismatch},
		{"take8(-1);", loxy.ErrTypeMismatch},
		{"takeU(-1);", loxy.ErrTypeMismatch},
		{"take32(3000000000);", loxy.ErrTypeMismatch},
		{"take32(1 / 0);", loxy.ErrTypeMismatch},
	}
	for _, tt := range tests {
		_, err := vm.Eval(tt.code)
		if !errors.Is(err, tt.kind) {
			t.Errorf("%s: expected %v, got %v", tt.code, tt.kind, err)
		}
	}
}

func TestCall(t *testing.T) {
	vm := loxy.New()
	if _, err := vm.Eval(`
fn add(a, b) { return a + b; }
fn makeAdder(n) {
  fn adder(x) { return x + n; }
  return adder;
}`); err != nil {
		t.Fatal(err)
	}

	got, err := vm.Call("add", 2, 3)
	if err != nil || got != 5.0 {
		t.Errorf("add(2, 3) = %v, %v", got, err)
	}
	got, err = vm.Call("add", "a", "b")
	if err != nil || got != "ab" {
		t.Errorf(`add("a", "b") = %v, %v`, got, err)
	}

	adder, err := vm.Call("makeAdder", 10)
	if err != nil {
		t.Fatal(err)
	}
	fn, ok := adder.(*loxy.Func)
	if !ok {
		t.Fatalf("makeAdder returned %T", adder)
	}
	got, err = fn.Call(5)
	if err != nil || got != 15.0 {
		t.Errorf("adder(5) = %v, %v", got, err)
	}

	// A function returned to Go can be handed back to a script.
	if err := vm.Set("plusTen", fn); err != nil {
		t.Fatal(err)
	}
	lines, err := vm.Eval("print plusTen(1);")
	if err != nil || !reflect.DeepEqual(lines, []string{"11"}) {
		t.Errorf("plusTen(1) printed %q, %v", lines, err)
	}

	if _, err := vm.Call("add", 1); !errors.Is(err, loxy.ErrArityMismatch) {
		t.Errorf("expected arity error, got %v", err)
	}
	if _, err := vm.Call("missing"); !errors.Is(err, loxy.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := vm.Set("x", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := vm.Call("x"); !errors.Is(err, loxy.ErrNotCallable) {
		t.Errorf("expected ErrNotCallable, got %v", err)
	}
}

func TestEvalErrors(t *testing.T) {
	vm := loxy.New()

	lines, err := vm.Eval(`print "before"; print undefinedName;`)
	if !errors.Is(err, loxy.ErrUnboundVariable) {
		t.Fatalf("expected unbound variable, got %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"before"}) {
		t.Errorf("lines = %q", lines)
	}
	if !strings.Contains(err.Error(), "<eval>:1:23") {
		t.Errorf("error lacks position: %v", err)
	}

	if _, err := vm.Eval("let = ;"); err == nil || !strings.Contains(err.Error(), "P001") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestOptions(t *testing.T) {
	var buf bytes.Buffer
	vm := loxy.New(loxy.WithOutput(&buf), loxy.WithMaxDepth(40))
	if _, err := vm.Eval(`print "hello";`); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("output = %q", buf.String())
	}
	if _, err := vm.Eval("fn f() { return f(); } f();"); !errors.Is(err, loxy.ErrRecursionLimit) {
		t.Errorf("expected recursion limit, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	vm = loxy.New(loxy.WithContext(ctx))
	if _, err := vm.Eval("while (true) {}"); !errors.Is(err, loxy.ErrCancelled) {
		t.Errorf("expected cancellation, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "greet.lx")
	if err := os.WriteFile(path, []byte(`fn greet(who) { return "hello " + who; } print greet("file");`), 0o644); err != nil {
		t.Fatal(err)
	}

	vm := loxy.New()
	lines, err := vm.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"hello file"}) {
		t.Errorf("lines = %q", lines)
	}
	got, err := vm.Call("greet", "go")
	if err != nil || got != "hello go" {
		t.Errorf("greet = %v, %v", got, err)
	}

	found := false
	for _, name := range vm.Globals() {
		if name == "greet" {
			found = true
		}
	}
	if !found {
		t.Errorf("greet missing from globals %v", vm.Globals())
	}
}
